package venv

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"simctl/internal/paths"
	"simctl/internal/proc"
	"simctl/internal/tools"
)

// State describes the venv lifecycle as derived from the filesystem and an
// interpreter probe. It is recomputed on every inspection, never stored.
type State int

const (
	// StateAbsent means the venv directory does not exist.
	StateAbsent State = iota
	// StateBroken means the directory exists but the interpreter is missing
	// or unprobeable.
	StateBroken
	// StateMismatch means the interpreter runs but reports a version outside
	// the allowed set.
	StateMismatch
	// StateCompatible means the interpreter reports an allowed version.
	StateCompatible
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateBroken:
		return "broken"
	case StateMismatch:
		return "version-mismatch"
	case StateCompatible:
		return "compatible"
	}
	return "unknown"
}

// Environment is a snapshot of the venv at inspection time.
type Environment struct {
	Root        string
	Interpreter string
	State       State
	Version     tools.Version
}

type Logger interface {
	Printf(format string, v ...any)
}

// Manager owns the venv directory's lifecycle. No other component writes
// under it.
type Manager struct {
	Paths   paths.ProjectPaths
	Runner  proc.Runner
	Logger  Logger
	Allowed [][2]int
	// Warn receives operator-facing warnings; nil suppresses them.
	Warn io.Writer
}

func (m *Manager) logf(format string, v ...any) {
	if m.Logger != nil {
		m.Logger.Printf(format, v...)
	}
}

func (m *Manager) warnf(format string, v ...any) {
	if m.Warn != nil {
		fmt.Fprintf(m.Warn, "warning: "+format+"\n", v...)
	}
}

// Interpreter returns the expected path of the venv's python executable.
func (m *Manager) Interpreter() string {
	return InterpreterPath(m.Paths.VenvDir)
}

// InterpreterPath maps a venv root to its python executable location.
func InterpreterPath(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", "python.exe")
	}
	return filepath.Join(venvDir, "bin", "python")
}

// Inspect derives the current environment state without side effects.
func (m *Manager) Inspect(ctx context.Context) (Environment, error) {
	env := Environment{Root: m.Paths.VenvDir, Interpreter: m.Interpreter()}

	dirExists, err := paths.DirExists(m.Paths.VenvDir)
	if err != nil {
		return env, fmt.Errorf("stat venv dir: %w", err)
	}
	if !dirExists {
		env.State = StateAbsent
		return env, nil
	}

	exeExists, err := paths.FileExists(env.Interpreter)
	if err != nil {
		return env, fmt.Errorf("stat venv interpreter: %w", err)
	}
	if !exeExists {
		env.State = StateBroken
		return env, nil
	}

	def, _ := tools.Lookup("python")
	version, err := tools.ProbeExecutable(ctx, m.Runner, def, env.Interpreter)
	if err != nil {
		m.logf("venv interpreter probe failed: %v", err)
		env.State = StateBroken
		return env, nil
	}
	env.Version = version

	if !version.OK {
		// Probe ran but the banner was unreadable; treat as unknown rather
		// than broken so the operator is warned, not blocked.
		env.State = StateMismatch
		return env, nil
	}

	if m.versionAllowed(version) {
		env.State = StateCompatible
	} else {
		env.State = StateMismatch
	}
	return env, nil
}

func (m *Manager) versionAllowed(v tools.Version) bool {
	for _, pair := range m.Allowed {
		if v.Major == pair[0] && v.Minor == pair[1] {
			return true
		}
	}
	return false
}

// Ensure makes the venv usable: absent or broken environments are recreated
// from scratch, while a present environment with a mismatched interpreter
// version is left alone with a warning. Mixing packages installed under one
// interpreter version with another is worse than making the operator tear
// the venv down explicitly.
func (m *Manager) Ensure(ctx context.Context) (Environment, error) {
	env, err := m.Inspect(ctx)
	if err != nil {
		return env, err
	}

	switch env.State {
	case StateCompatible:
		m.logf("venv ok: %s (%s)", env.Root, env.Version)
		return env, nil
	case StateMismatch:
		m.warnf("venv at %s uses Python %s, but this project expects %s; run 'simctl clean venv' then 'simctl install' to rebuild it",
			env.Root, env.Version, allowedLabel(m.Allowed))
		return env, nil
	case StateBroken:
		m.warnf("removing incomplete venv at %s", env.Root)
		if err := os.RemoveAll(env.Root); err != nil {
			return env, fmt.Errorf("remove incomplete venv: %w", err)
		}
	}

	return m.create(ctx)
}

func (m *Manager) create(ctx context.Context) (Environment, error) {
	env := Environment{Root: m.Paths.VenvDir, Interpreter: m.Interpreter()}

	def, _ := tools.Lookup("python")
	hostVersion, err := tools.Probe(ctx, m.Runner, def)
	if err != nil {
		return env, fmt.Errorf("locate %s to create venv: %w (%s)", def.Executable, err, def.InstallHint)
	}
	if hostVersion.OK && !m.versionAllowed(hostVersion) {
		return env, fmt.Errorf("system Python is %s but this project requires %s; install a matching interpreter before running install",
			hostVersion, allowedLabel(m.Allowed))
	}
	if !hostVersion.OK {
		m.warnf("could not determine system Python version (%q); proceeding with venv creation", hostVersion.Raw)
	}

	m.logf("creating venv: %s", env.Root)
	result, err := m.Runner.Run(ctx, def.Executable, []string{"-m", "venv", env.Root}, proc.Options{})
	if err != nil {
		return env, fmt.Errorf("create venv: %w\n%s", err, strings.TrimSpace(string(result.Stderr)))
	}

	exeExists, err := paths.FileExists(env.Interpreter)
	if err != nil {
		return env, fmt.Errorf("stat venv interpreter: %w", err)
	}
	if !exeExists {
		return env, fmt.Errorf("venv creation reported success but %s is missing; check permissions and disk space, then run 'simctl clean venv' and retry", env.Interpreter)
	}

	env.State = StateCompatible
	env.Version = hostVersion
	m.logf("venv created: %s (python %s)", env.Root, hostVersion)
	return env, nil
}

// Remove deletes the venv directory. Removing an absent venv is a no-op.
func (m *Manager) Remove() error {
	exists, err := paths.DirExists(m.Paths.VenvDir)
	if err != nil {
		return fmt.Errorf("stat venv dir: %w", err)
	}
	if !exists {
		m.logf("venv not present, nothing to remove: %s", m.Paths.VenvDir)
		return nil
	}
	if err := os.RemoveAll(m.Paths.VenvDir); err != nil {
		return fmt.Errorf("remove venv %s: %w", m.Paths.VenvDir, err)
	}
	m.logf("venv removed: %s", m.Paths.VenvDir)
	return nil
}

// Env returns the process environment overlay used to run commands inside
// the venv context: the venv bin directory is prepended to PATH,
// VIRTUAL_ENV is set, and PYTHONHOME is dropped.
func (m *Manager) Env() []string {
	binDir := filepath.Dir(m.Interpreter())
	overlay := make([]string, 0, len(os.Environ())+2)

	pathSet := false
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch {
		case strings.EqualFold(key, "PATH") && !pathSet:
			overlay = append(overlay, key+"="+binDir+string(os.PathListSeparator)+value)
			pathSet = true
		case key == "VIRTUAL_ENV" || key == "PYTHONHOME":
			// replaced / dropped below
		default:
			overlay = append(overlay, kv)
		}
	}
	if !pathSet {
		overlay = append(overlay, "PATH="+binDir)
	}
	overlay = append(overlay, "VIRTUAL_ENV="+m.Paths.VenvDir)
	return overlay
}

func allowedLabel(pairs [][2]int) string {
	labels := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		labels = append(labels, fmt.Sprintf("%d.%d", pair[0], pair[1]))
	}
	return strings.Join(labels, " or ")
}
