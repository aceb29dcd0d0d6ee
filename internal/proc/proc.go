package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Options controls how a single external command is executed.
type Options struct {
	Dir string
	Env []string
	// Stdout/Stderr, when set, receive a live copy of the child's output in
	// addition to the captured buffers. The cli layer sets these to the
	// console in verbose mode.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin, when set, is connected to the child process. Used only for the
	// long-running simulator launch so the operator can interact with it.
	Stdin io.Reader
}

// Result captures the outcome of one external command invocation.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the command exited zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes external commands. Services hold a Runner so tests can
// substitute a fake that never spawns processes.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts Options) (Result, error)
}

// NotFoundError indicates the executable is absent from the search path.
// Distinct from a nonzero exit: the process never ran.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH", e.Tool)
}

// ExitError indicates the command ran but exited nonzero. The captured
// output is kept so fatal errors can surface diagnostics without re-running
// in verbose mode.
type ExitError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.ExitCode)
}

// Diagnostic renders the captured output for operator-facing error messages.
func (e *ExitError) Diagnostic() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command: %s %s", e.Command, strings.Join(e.Args, " "))
	if out := bytes.TrimSpace(e.Stdout); len(out) > 0 {
		fmt.Fprintf(&b, "\n--- stdout ---\n%s", out)
	}
	if out := bytes.TrimSpace(e.Stderr); len(out) > 0 {
		fmt.Fprintf(&b, "\n--- stderr ---\n%s", out)
	}
	return b.String()
}

// CmdRunner runs commands via os/exec. Commands are always argv vectors;
// nothing is ever passed through a shell.
type CmdRunner struct{}

// Run spawns the command and blocks until it completes. It returns an
// *ExitError for a nonzero exit and a *NotFoundError when the executable
// cannot be resolved; callers that tolerate failure inspect the Result and
// ignore the ExitError.
func (CmdRunner) Run(ctx context.Context, command string, args []string, opts Options) (Result, error) {
	if _, err := exec.LookPath(command); err != nil {
		return Result{ExitCode: -1}, &NotFoundError{Tool: command}
	}

	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	result := Result{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}

	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{
			Command:  command,
			Args:     args,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return Result{ExitCode: -1}, &NotFoundError{Tool: command}
	}

	return Result{ExitCode: -1}, fmt.Errorf("run %s: %w", command, err)
}

var _ Runner = CmdRunner{}

// ConsoleWriters returns the stream writers to pass in Options when verbose
// output is requested, or nil writers when output should stay captured.
func ConsoleWriters(verbose bool) (io.Writer, io.Writer) {
	if !verbose {
		return nil, nil
	}
	return os.Stdout, os.Stderr
}
