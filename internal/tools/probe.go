package tools

import (
	"context"
	"errors"

	"simctl/internal/proc"
)

// Probe runs a tool's version command and parses the output. Versions are
// re-probed fresh on every call; nothing is cached between commands.
//
// Some tools exit nonzero for their version flag, so a nonzero exit is
// tolerated as long as output was produced. A missing executable surfaces as
// *proc.NotFoundError.
func Probe(ctx context.Context, runner proc.Runner, def Definition) (Version, error) {
	return ProbeExecutable(ctx, runner, def, def.Executable)
}

// ProbeExecutable probes a specific interpreter/binary path using a tool's
// version arguments and patterns. Used for the venv interpreter, which lives
// at a known path rather than on the search path.
func ProbeExecutable(ctx context.Context, runner proc.Runner, def Definition, executable string) (Version, error) {
	result, err := runner.Run(ctx, executable, def.VersionArgs, proc.Options{})
	if err != nil {
		var exitErr *proc.ExitError
		if !errors.As(err, &exitErr) {
			return Version{Tool: def.Name}, err
		}
	}

	// Version banners land on stdout or stderr depending on the tool;
	// java historically prints to stderr.
	combined := string(result.Stdout) + "\n" + string(result.Stderr)
	return ParseVersion(def.Name, combined, def.VersionPatterns), nil
}
