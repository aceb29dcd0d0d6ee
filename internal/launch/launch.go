package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"simctl/internal/build"
	"simctl/internal/config"
	"simctl/internal/paths"
	"simctl/internal/proc"
	"simctl/internal/tools"
	"simctl/internal/venv"
)

const (
	// MainClass boots the JADE platform.
	MainClass = "jade.Boot"
	// AgentSpec names the controller agent started inside the platform.
	AgentSpec = "controller:TwitterGatherDataFollowers.userRyersonU.ControllerAgent"
)

// ErrPrecondition marks a run request whose prerequisites are missing; the
// runtime process is never spawned in that case.
var ErrPrecondition = errors.New("run precondition unmet")

// openedModules are the JDK modules the agent framework reflects into.
// The list is fixed for every runtime at major 9 or above.
var openedModules = []string{
	"java.base/java.lang",
	"java.base/java.io",
	"java.base/java.util",
	"java.base/java.util.concurrent",
	"java.base/sun.nio.ch",
	"java.base/java.net",
}

type Logger interface {
	Printf(format string, v ...any)
}

// Launcher assembles the simulator invocation and runs it inside the venv
// environment context.
type Launcher struct {
	Paths   paths.ProjectPaths
	Runner  proc.Runner
	Logger  Logger
	Venv    *venv.Manager
	Runtime config.RuntimeConfig
	Verbose bool
	// Warn and Out receive operator-facing output; nil suppresses them.
	Warn io.Writer
	Out  io.Writer
}

func (l *Launcher) logf(format string, v ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, v...)
	}
}

func (l *Launcher) warnf(format string, v ...any) {
	if l.Warn != nil {
		fmt.Fprintf(l.Warn, "warning: "+format+"\n", v...)
	}
}

func (l *Launcher) printf(format string, v ...any) {
	if l.Out != nil {
		fmt.Fprintf(l.Out, format+"\n", v...)
	}
}

// RuntimeOptions builds the JVM options for a detected major version: the
// fixed heap and GC flags, plus the module-opening flags when the runtime is
// Java 9 or newer. The module list never varies once the threshold is
// crossed.
func RuntimeOptions(major int, rc config.RuntimeConfig) []string {
	opts := []string{
		"-Xms" + rc.HeapInitial,
		"-Xmx" + rc.HeapMax,
		"-XX:-UseGCOverheadLimit",
	}
	if major >= 9 {
		for _, module := range openedModules {
			opts = append(opts, "--add-opens", module+"=ALL-UNNAMED")
		}
	}
	return opts
}

// FrameworkOptions builds the fixed JADE platform options.
func FrameworkOptions(rc config.RuntimeConfig) []string {
	return []string{
		"-jade_domain_df_maxresult", "1500",
		"-jade_core_messaging_MessageManager_poolsize", "10",
		"-jade_core_messaging_MessageManager_maxqueuesize", "2000000000",
		"-jade_core_messaging_MessageManager_deliverytimethreshold", "10000",
		"-jade_domain_df_autocleanup", "true",
		"-local-port", strconv.Itoa(rc.LocalPort),
	}
}

// Run verifies the launch preconditions, assembles the invocation, and runs
// the simulator. A nonzero exit is reported as a warning rather than an
// error: the platform is long-running and routinely stopped by the
// operator.
func (l *Launcher) Run(ctx context.Context) (proc.Result, error) {
	version, err := l.checkPreconditions(ctx)
	if err != nil {
		return proc.Result{}, err
	}

	classpath, err := build.Classpath(l.Paths)
	if err != nil {
		return proc.Result{}, err
	}
	if len(classpath) == 1 {
		l.warnf("library dir %s missing or empty; run 'simctl install' if the platform fails to start", l.Paths.LibDir)
	}

	argv := RuntimeOptions(version.Major, l.Runtime)
	argv = append(argv, "-cp", build.JoinClasspath(classpath), MainClass)
	argv = append(argv, FrameworkOptions(l.Runtime)...)
	argv = append(argv, AgentSpec)

	l.logf("launching: java %s", strings.Join(argv, " "))
	l.printf("Starting simulator (Ctrl+C to stop)...")

	// The operator stops the platform with Ctrl+C. The signal goes to the
	// whole foreground process group, so the child sees it too; holding it
	// here keeps the orchestrator alive to report a clean shutdown.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	stdout, stderr := proc.ConsoleWriters(l.Verbose)
	result, runErr := l.Runner.Run(ctx, "java", argv, proc.Options{
		Dir:    l.Paths.Root,
		Env:    l.Venv.Env(),
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	})

	interrupted := false
	select {
	case <-interrupts:
		interrupted = true
	default:
	}

	if runErr != nil {
		var exitErr *proc.ExitError
		if errors.As(runErr, &exitErr) {
			if interrupted {
				l.printf("Simulator interrupted by operator.")
				return result, nil
			}
			l.warnf("simulator exited with code %d", exitErr.ExitCode)
			if !l.Verbose {
				if diag := strings.TrimSpace(string(exitErr.Stderr)); diag != "" {
					l.printf("---\n%s\n---", diag)
				}
			}
			return result, nil
		}
		return result, runErr
	}

	l.printf("Simulator finished successfully.")
	return result, nil
}

func (l *Launcher) checkPreconditions(ctx context.Context) (tools.Version, error) {
	javaDef, _ := tools.Lookup("java")
	version, err := tools.Probe(ctx, l.Runner, javaDef)
	if err != nil {
		return version, fmt.Errorf("java unavailable: %w (%s)", err, javaDef.InstallHint)
	}
	if err := tools.RequireMajor(version, tools.MinimumJavaMajor); err != nil {
		return version, err
	}

	env, err := l.Venv.Inspect(ctx)
	if err != nil {
		return version, err
	}
	switch env.State {
	case venv.StateAbsent, venv.StateBroken:
		return version, fmt.Errorf("%w: venv not found at %s; run 'simctl install' first", ErrPrecondition, l.Paths.VenvDir)
	case venv.StateMismatch:
		l.warnf("venv interpreter is %s; the simulator's helper scripts may misbehave", env.Version)
	}

	classesExist, err := paths.DirExists(l.Paths.ClassesDir)
	if err != nil {
		return version, fmt.Errorf("stat classes dir: %w", err)
	}
	if !classesExist {
		return version, fmt.Errorf("%w: compiled classes not found at %s; run 'simctl compile' or 'simctl setup' first", ErrPrecondition, l.Paths.ClassesDir)
	}
	entries, err := os.ReadDir(l.Paths.ClassesDir)
	if err != nil {
		return version, fmt.Errorf("read classes dir: %w", err)
	}
	if len(entries) == 0 {
		return version, fmt.Errorf("%w: classes dir %s is empty; run 'simctl compile' or 'simctl setup' first", ErrPrecondition, l.Paths.ClassesDir)
	}

	return version, nil
}
