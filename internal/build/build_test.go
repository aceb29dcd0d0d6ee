package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"simctl/internal/config"
	"simctl/internal/paths"
	"simctl/internal/proc"
)

type call struct {
	command string
	args    []string
}

type fakeRunner struct {
	javaBanner string
	calls      []call
	compileErr error
}

func (r *fakeRunner) Run(_ context.Context, command string, args []string, _ proc.Options) (proc.Result, error) {
	r.calls = append(r.calls, call{command: command, args: args})

	if command == "java" {
		return proc.Result{Stderr: []byte(r.javaBanner)}, nil
	}
	if command == "javac" && len(args) == 1 && args[0] == "-version" {
		return proc.Result{Stdout: []byte("javac 17.0.2")}, nil
	}
	if command == "javac" {
		if r.compileErr != nil {
			return proc.Result{ExitCode: 1}, r.compileErr
		}
		return proc.Result{}, nil
	}
	return proc.Result{}, nil
}

func (r *fakeRunner) compileCalls() []call {
	var out []call
	for _, c := range r.calls {
		if c.command == "javac" && !(len(c.args) == 1 && c.args[0] == "-version") {
			out = append(out, c)
		}
	}
	return out
}

func projectWithSources(t *testing.T, sources ...string) paths.ProjectPaths {
	t.Helper()
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := os.MkdirAll(pp.SrcDir, 0o755); err != nil {
		t.Fatalf("mkdir src: %v", err)
	}
	for _, name := range sources {
		path := filepath.Join(pp.SrcDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("class X {}"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return pp
}

func writeJars(t *testing.T, libDir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		t.Fatalf("mkdir lib: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(libDir, name), []byte("jar"), 0o644); err != nil {
			t.Fatalf("write jar: %v", err)
		}
	}
}

func TestClasspathDeterministicOrder(t *testing.T) {
	pp := projectWithSources(t)
	writeJars(t, pp.LibDir, "b.jar", "a.jar", "c.jar")

	first, err := Classpath(pp)
	if err != nil {
		t.Fatalf("classpath: %v", err)
	}
	second, err := Classpath(pp)
	if err != nil {
		t.Fatalf("classpath: %v", err)
	}

	want := []string{
		pp.ClassesDir,
		filepath.Join(pp.LibDir, "a.jar"),
		filepath.Join(pp.LibDir, "b.jar"),
		filepath.Join(pp.LibDir, "c.jar"),
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("classpath = %v, want %v", first, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classpath not stable across calls: %v vs %v", first, second)
	}
}

func TestClasspathSkipsNonJars(t *testing.T) {
	pp := projectWithSources(t)
	writeJars(t, pp.LibDir, "a.jar")
	if err := os.WriteFile(filepath.Join(pp.LibDir, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := Classpath(pp)
	if err != nil {
		t.Fatalf("classpath: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
}

func TestClasspathMissingLibDir(t *testing.T) {
	pp := projectWithSources(t)

	entries, err := Classpath(pp)
	if err != nil {
		t.Fatalf("classpath: %v", err)
	}
	if len(entries) != 1 || entries[0] != pp.ClassesDir {
		t.Fatalf("entries = %v", entries)
	}
}

func TestCompileEmptySourceTreeIsNoOp(t *testing.T) {
	pp := projectWithSources(t)
	runner := &fakeRunner{javaBanner: `openjdk version "17.0.2"`}
	var warnings bytes.Buffer
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict, Warn: &warnings}

	if err := c.Compile(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(runner.compileCalls()) != 0 {
		t.Fatal("javac must not be invoked for an empty source tree")
	}
	if !strings.Contains(warnings.String(), "nothing to compile") {
		t.Fatalf("expected warning, got %q", warnings.String())
	}
}

func TestCompileMissingSourceDirFails(t *testing.T) {
	pp, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	runner := &fakeRunner{javaBanner: `openjdk version "17.0.2"`}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict}

	if err := c.Compile(context.Background()); err == nil {
		t.Fatal("expected error for missing source dir")
	}
}

func TestCompileGatesOnJavaMajor(t *testing.T) {
	pp := projectWithSources(t, "Agent.java")
	runner := &fakeRunner{javaBanner: `java version "1.7.0_80"`}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict}

	if err := c.Compile(context.Background()); err == nil {
		t.Fatal("expected version gate failure")
	}
	if len(runner.compileCalls()) != 0 {
		t.Fatal("javac must not run when the gate fails")
	}
}

func TestCompileUnparseableJavaVersionIsFatal(t *testing.T) {
	pp := projectWithSources(t, "Agent.java")
	runner := &fakeRunner{javaBanner: "mystery runtime"}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict}

	if err := c.Compile(context.Background()); err == nil {
		t.Fatal("expected gate failure for unparseable version")
	}
}

func TestCompileInvocationStrictProfile(t *testing.T) {
	pp := projectWithSources(t, "Agent.java", filepath.Join("sub", "Helper.java"))
	writeJars(t, pp.LibDir, "jade.jar")
	runner := &fakeRunner{javaBanner: `openjdk version "1.8.0_301"`}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict}

	if err := c.Compile(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}

	calls := runner.compileCalls()
	if len(calls) != 1 {
		t.Fatalf("javac calls = %d", len(calls))
	}
	args := calls[0].args
	joined := strings.Join(args, " ")
	if !strings.HasPrefix(joined, "-Xlint:unchecked -encoding UTF-8 -cp ") {
		t.Fatalf("args = %q", joined)
	}
	if !strings.Contains(joined, "-d "+pp.ClassesDir) {
		t.Fatalf("missing -d: %q", joined)
	}
	if !strings.HasSuffix(args[len(args)-1], "Helper.java") && !strings.HasSuffix(args[len(args)-1], "Agent.java") {
		t.Fatalf("source files missing: %q", joined)
	}

	// Classpath has classes dir first.
	for i, arg := range args {
		if arg == "-cp" {
			if !strings.HasPrefix(args[i+1], pp.ClassesDir) {
				t.Fatalf("classes dir not first in classpath: %q", args[i+1])
			}
		}
	}

	// Output dir was created before the compiler ran.
	if _, err := os.Stat(pp.ClassesDir); err != nil {
		t.Fatalf("classes dir missing: %v", err)
	}
}

func TestCompileLenientProfileDropsLint(t *testing.T) {
	pp := projectWithSources(t, "Agent.java")
	runner := &fakeRunner{javaBanner: `openjdk version "17.0.2"`}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileLenient}

	if err := c.Compile(context.Background()); err != nil {
		t.Fatalf("compile: %v", err)
	}

	args := strings.Join(runner.compileCalls()[0].args, " ")
	if strings.Contains(args, "-Xlint") {
		t.Fatalf("lenient profile should not pass lint flags: %q", args)
	}
}

func TestCompileSurfacesDiagnostics(t *testing.T) {
	pp := projectWithSources(t, "Agent.java")
	runner := &fakeRunner{
		javaBanner: `openjdk version "17.0.2"`,
		compileErr: &proc.ExitError{Command: "javac", ExitCode: 1, Stderr: []byte("Agent.java:1: error: cannot find symbol")},
	}
	c := &Compiler{Paths: pp, Runner: runner, Profile: config.ProfileStrict}

	err := c.Compile(context.Background())
	if err == nil {
		t.Fatal("expected compilation failure")
	}
	if !strings.Contains(err.Error(), "compilation failed") {
		t.Fatalf("error = %v", err)
	}
}

func TestCleanIdempotent(t *testing.T) {
	pp := projectWithSources(t)
	if err := os.MkdirAll(pp.ClassesDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	c := &Compiler{Paths: pp}

	if err := c.Clean(); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if err := c.Clean(); err != nil {
		t.Fatalf("second clean should be a no-op: %v", err)
	}
	if ok, _ := paths.DirExists(pp.ClassesDir); ok {
		t.Fatal("classes dir should be gone")
	}
}
