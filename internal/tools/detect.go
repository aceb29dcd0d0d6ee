package tools

import (
	"context"
	"errors"

	"simctl/internal/proc"
)

// Status captures the resolved state of one tool for the info command.
type Status struct {
	Tool    string `json:"tool"`
	Version string `json:"version,omitempty"`
	Major   int    `json:"major,omitempty"`
	Found   bool   `json:"found"`
	Parsed  bool   `json:"parsed"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Detect probes every known tool and reports per-tool status. Probe failures
// are folded into the status rather than returned, so info can always render
// a full table.
func Detect(ctx context.Context, runner proc.Runner) []Status {
	statuses := make([]Status, 0, len(KnownTools()))

	for _, name := range KnownTools() {
		def, _ := Lookup(name)
		status := Status{Tool: name}

		version, err := Probe(ctx, runner, def)
		if err != nil {
			var nfErr *proc.NotFoundError
			if errors.As(err, &nfErr) {
				status.Error = "not found in PATH"
				status.Hint = def.InstallHint
			} else {
				status.Error = err.Error()
			}
			statuses = append(statuses, status)
			continue
		}

		status.Found = true
		status.Version = version.Raw
		status.Major = version.Major
		status.Parsed = version.OK
		if !version.OK {
			status.Error = "could not parse version"
		}
		statuses = append(statuses, status)
	}

	return statuses
}
