package deps

import (
	"context"
	"fmt"
	"io"
	"os"

	"simctl/internal/paths"
	"simctl/internal/proc"
	"simctl/internal/tools"
	"simctl/internal/venv"
)

// PhaseKey identifies one installer phase.
type PhaseKey string

const (
	PhaseMaven   PhaseKey = "maven"
	PhasePython  PhaseKey = "python"
	PhaseCorpora PhaseKey = "corpora"
)

// PhaseStatus is reported as a phase progresses.
type PhaseStatus string

const (
	StatusPending PhaseStatus = "pending"
	StatusRunning PhaseStatus = "running"
	StatusDone    PhaseStatus = "done"
	StatusSkipped PhaseStatus = "skipped"
	StatusWarning PhaseStatus = "warning"
	StatusFailed  PhaseStatus = "failed"
)

// Phase describes an installer phase for display.
type Phase struct {
	Key   PhaseKey
	Title string
}

// Phases lists the installer phases in execution order. The order is fixed:
// the venv must exist and hold the NLP packages before corpus data can be
// fetched into it.
func Phases() []Phase {
	return []Phase{
		{Key: PhaseMaven, Title: "Java libraries (Maven)"},
		{Key: PhasePython, Title: "Python venv + packages"},
		{Key: PhaseCorpora, Title: "NLTK corpus data"},
	}
}

// Reporter receives phase transitions. Implementations render them as a
// progress table or plain log lines.
type Reporter interface {
	Phase(key PhaseKey, status PhaseStatus, detail string)
}

type noopReporter struct{}

func (noopReporter) Phase(PhaseKey, PhaseStatus, string) {}

type Logger interface {
	Printf(format string, v ...any)
}

// Installer owns the library cache directory and drives the venv manager.
type Installer struct {
	Paths   paths.ProjectPaths
	Runner  proc.Runner
	Venv    *venv.Manager
	Logger  Logger
	Report  Reporter
	Verbose bool
	// Warn receives operator-facing warnings; nil suppresses them.
	Warn io.Writer
}

func (i *Installer) logf(format string, v ...any) {
	if i.Logger != nil {
		i.Logger.Printf(format, v...)
	}
}

func (i *Installer) warnf(format string, v ...any) {
	if i.Warn != nil {
		fmt.Fprintf(i.Warn, "warning: "+format+"\n", v...)
	}
}

func (i *Installer) report(key PhaseKey, status PhaseStatus, detail string) {
	if i.Report != nil {
		i.Report.Phase(key, status, detail)
		return
	}
	noopReporter{}.Phase(key, status, detail)
}

// Install runs the three phases in order. A failing phase stops the
// sequence; completed phases keep their side effects. Phases 1 and 3
// degrade to warnings for their recoverable conditions, phase 2 is strict.
func (i *Installer) Install(ctx context.Context) error {
	if err := i.installMaven(ctx); err != nil {
		i.report(PhaseMaven, StatusFailed, err.Error())
		return err
	}
	if err := i.installPython(ctx); err != nil {
		i.report(PhasePython, StatusFailed, err.Error())
		return err
	}
	i.installCorpora(ctx)
	return nil
}

// installMaven fetches the Java dependency jars into the library cache. An
// absent pom.xml downgrades to a warning so Java-less checkouts still
// install their Python half.
func (i *Installer) installMaven(ctx context.Context) error {
	i.report(PhaseMaven, StatusRunning, "")

	mvnDef, _ := tools.Lookup("mvn")
	if _, err := tools.Probe(ctx, i.Runner, mvnDef); err != nil {
		return fmt.Errorf("mvn unavailable: %w (%s)", err, mvnDef.InstallHint)
	}

	pomExists, err := paths.FileExists(i.Paths.PomFile)
	if err != nil {
		return fmt.Errorf("stat pom file: %w", err)
	}
	if !pomExists {
		i.warnf("maven pom not found at %s; skipping Java dependency download", i.Paths.PomFile)
		i.report(PhaseMaven, StatusSkipped, "pom.xml not found")
		return nil
	}

	if err := os.MkdirAll(i.Paths.LibDir, 0o755); err != nil {
		return fmt.Errorf("create lib dir: %w", err)
	}

	args := []string{
		"dependency:copy-dependencies",
		"-DoutputDirectory=" + i.Paths.LibDir,
		"-DskipTests=true",
		"-q",
	}
	stdout, stderr := proc.ConsoleWriters(i.Verbose)
	i.logf("mvn %v", args)
	if _, err := i.Runner.Run(ctx, mvnDef.Executable, args, proc.Options{Dir: i.Paths.Root, Stdout: stdout, Stderr: stderr}); err != nil {
		return fmt.Errorf("maven dependency download failed: %w", err)
	}

	i.logf("maven dependencies downloaded to %s", i.Paths.LibDir)
	i.report(PhaseMaven, StatusDone, "")
	return nil
}

// installPython ensures the venv and installs the scripting packages. The
// requirements manifest is mandatory.
func (i *Installer) installPython(ctx context.Context) error {
	i.report(PhasePython, StatusRunning, "ensuring venv")

	env, err := i.Venv.Ensure(ctx)
	if err != nil {
		return err
	}

	reqExists, err := paths.FileExists(i.Paths.RequirementsFile)
	if err != nil {
		return fmt.Errorf("stat requirements file: %w", err)
	}
	if !reqExists {
		return fmt.Errorf("python requirements file not found: %s; ensure it exists in the project root", i.Paths.RequirementsFile)
	}

	stdout, stderr := proc.ConsoleWriters(i.Verbose)

	i.report(PhasePython, StatusRunning, "upgrading pip")
	i.logf("upgrading pip in %s", env.Root)
	if _, err := i.Runner.Run(ctx, env.Interpreter, []string{"-m", "pip", "install", "--upgrade", "pip"}, proc.Options{Dir: i.Paths.Root, Stdout: stdout, Stderr: stderr}); err != nil {
		return fmt.Errorf("failed to upgrade pip: %w", err)
	}

	i.report(PhasePython, StatusRunning, "installing packages")
	i.logf("installing packages from %s", i.Paths.RequirementsFile)
	if _, err := i.Runner.Run(ctx, env.Interpreter, []string{"-m", "pip", "install", "-r", i.Paths.RequirementsFile}, proc.Options{Dir: i.Paths.Root, Stdout: stdout, Stderr: stderr}); err != nil {
		return fmt.Errorf("failed to install python packages: %w", err)
	}

	i.report(PhasePython, StatusDone, "")
	return nil
}

// installCorpora fetches the NLTK data sets. The simulator degrades
// gracefully without them, so any failure here is a warning.
func (i *Installer) installCorpora(ctx context.Context) {
	i.report(PhaseCorpora, StatusRunning, "")

	script := "import nltk; nltk.download('punkt', quiet=True); nltk.download('wordnet', quiet=True)"
	stdout, stderr := proc.ConsoleWriters(i.Verbose)
	result, err := i.Runner.Run(ctx, i.Venv.Interpreter(), []string{"-c", script}, proc.Options{Dir: i.Paths.Root, Stdout: stdout, Stderr: stderr})
	if err != nil {
		i.warnf("NLTK corpus download failed; the simulator may run in degraded mode without punkt/wordnet")
		if out := string(result.Stderr); out != "" {
			i.logf("nltk download stderr: %s", out)
		}
		i.warnf("to retry manually: %s -m nltk.downloader punkt wordnet", i.Venv.Interpreter())
		i.report(PhaseCorpora, StatusWarning, "download failed")
		return
	}

	i.logf("nltk corpora downloaded")
	i.report(PhaseCorpora, StatusDone, "")
}
