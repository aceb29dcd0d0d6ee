package tools

import "regexp"

// MinimumJavaMajor is the hard gate for compile and run.
const MinimumJavaMajor = 8

// Definition contains what is needed to locate a tool and read its version.
// VersionPatterns are tried in order against the tool's combined
// stdout+stderr; the first submatch of the first matching pattern is the raw
// version string.
type Definition struct {
	Name            string
	Executable      string
	VersionArgs     []string
	VersionPatterns []*regexp.Regexp
	InstallHint     string
}

var definitions = map[string]Definition{
	"java": {
		Name:       "java",
		Executable: "java",
		// java prints its version banner on stderr.
		VersionArgs: []string{"-version"},
		VersionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:java|openjdk)\s+version\s+"([^"]+)"`),
			regexp.MustCompile(`version\s+"([^"]+)"`),
		},
		InstallHint: "install JDK 8 or newer and add it to PATH",
	},
	"javac": {
		Name:        "javac",
		Executable:  "javac",
		VersionArgs: []string{"-version"},
		VersionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`javac\s+([0-9][0-9._]*)`),
		},
		InstallHint: "install JDK 8 or newer and add it to PATH",
	},
	"mvn": {
		Name:        "mvn",
		Executable:  "mvn",
		VersionArgs: []string{"--version"},
		VersionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`Apache Maven\s+([0-9][0-9.]*)`),
		},
		InstallHint: "install Apache Maven (https://maven.apache.org/install.html)",
	},
	"python": {
		Name:        "python",
		Executable:  "python3",
		VersionArgs: []string{"--version"},
		VersionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`Python\s+([0-9][0-9.]*)`),
		},
		InstallHint: "install Python 3.9 or 3.10 and add it to PATH",
	},
}

// Lookup returns the metadata for a known tool.
func Lookup(name string) (Definition, bool) {
	def, ok := definitions[name]
	return def, ok
}

// KnownTools lists probeable tool names in display order.
func KnownTools() []string {
	return []string{"java", "javac", "mvn", "python"}
}
