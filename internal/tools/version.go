package tools

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is the normalized result of probing one tool. Raw keeps the
// matched version string verbatim; OK is false when no pattern matched or
// the match had no leading integer.
type Version struct {
	Tool  string
	Raw   string
	Major int
	Minor int
	OK    bool
}

func (v Version) String() string {
	if v.Raw == "" {
		return "unknown"
	}
	return v.Raw
}

// ErrBelowMinimum marks a detected version under a hard gate.
var ErrBelowMinimum = errors.New("tool version below minimum")

// ErrVersionUnknown marks an unparseable version hitting a hard gate.
var ErrVersionUnknown = errors.New("tool version could not be determined")

var versionDigits = regexp.MustCompile(`^([0-9]+)(?:\.([0-9]+))?`)

// ParseVersion tries each pattern in order against raw output and normalizes
// the first match into a major/minor pair. Legacy "1.X" strings normalize to
// major X (so "1.8.0_301" reports major 8), matching how the JDK reported
// versions before Java 9.
func ParseVersion(tool, output string, patterns []*regexp.Regexp) Version {
	for _, pattern := range patterns {
		match := pattern.FindStringSubmatch(output)
		if match == nil {
			continue
		}
		raw := strings.TrimSpace(match[1])
		return normalize(tool, raw)
	}
	return Version{Tool: tool, Raw: strings.TrimSpace(firstLine(output))}
}

func normalize(tool, raw string) Version {
	v := Version{Tool: tool, Raw: raw}

	digits := versionDigits.FindStringSubmatch(raw)
	if digits == nil {
		return v
	}

	major, err := strconv.Atoi(digits[1])
	if err != nil {
		return v
	}
	minor := 0
	if digits[2] != "" {
		minor, _ = strconv.Atoi(digits[2])
	}

	if major == 1 && digits[2] != "" {
		// Legacy scheme: 1.8 means Java 8.
		major = minor
		minor = 0
	}

	v.Major = major
	v.Minor = minor
	v.OK = true
	return v
}

// RequireMajor enforces a hard minimum-version gate. Unparseable versions
// are fatal here because the gate cannot be evaluated.
func RequireMajor(v Version, minimum int) error {
	if !v.OK {
		return fmt.Errorf("%w for %s (reported %q); version %d or newer is required", ErrVersionUnknown, v.Tool, v.Raw, minimum)
	}
	if v.Major < minimum {
		return fmt.Errorf("%w: detected %s %s (major %d); version %d or newer is required", ErrBelowMinimum, v.Tool, v.Raw, v.Major, minimum)
	}
	return nil
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
