package build

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"simctl/internal/config"
	"simctl/internal/paths"
	"simctl/internal/proc"
	"simctl/internal/tools"
)

type Logger interface {
	Printf(format string, v ...any)
}

// Compiler owns the classes directory: it creates it, fills it, and is the
// only component allowed to delete it.
type Compiler struct {
	Paths   paths.ProjectPaths
	Runner  proc.Runner
	Logger  Logger
	Profile config.Profile
	Verbose bool
	// Warn receives operator-facing warnings; nil suppresses them.
	Warn io.Writer
}

func (c *Compiler) logf(format string, v ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, v...)
	}
}

func (c *Compiler) warnf(format string, v ...any) {
	if c.Warn != nil {
		fmt.Fprintf(c.Warn, "warning: "+format+"\n", v...)
	}
}

// Compile gates on the JDK version, discovers the Java sources, and invokes
// javac with the classpath assembled from the classes directory and the
// library cache. An empty source tree is a successful no-op.
func (c *Compiler) Compile(ctx context.Context) error {
	javacDef, _ := tools.Lookup("javac")
	if _, err := tools.Probe(ctx, c.Runner, javacDef); err != nil {
		return fmt.Errorf("javac unavailable: %w (%s)", err, javacDef.InstallHint)
	}

	javaDef, _ := tools.Lookup("java")
	version, err := tools.Probe(ctx, c.Runner, javaDef)
	if err != nil {
		return fmt.Errorf("java unavailable: %w (%s)", err, javaDef.InstallHint)
	}
	if err := tools.RequireMajor(version, tools.MinimumJavaMajor); err != nil {
		return err
	}
	c.logf("java version: %s (major %d)", version, version.Major)

	sources, err := DiscoverSources(c.Paths.SrcDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		c.warnf("no .java files found in %s; nothing to compile", c.Paths.SrcDir)
		return nil
	}
	c.logf("found %d java source files", len(sources))

	if err := os.MkdirAll(c.Paths.ClassesDir, 0o755); err != nil {
		return fmt.Errorf("create classes dir: %w", err)
	}

	classpath, err := Classpath(c.Paths)
	if err != nil {
		return err
	}
	if len(classpath) == 1 {
		c.warnf("library dir %s missing or empty; compilation may fail until 'simctl install' has run", c.Paths.LibDir)
	}

	args := append(c.profileFlags(),
		"-encoding", "UTF-8",
		"-cp", JoinClasspath(classpath),
		"-d", c.Paths.ClassesDir,
	)
	args = append(args, sources...)

	stdout, stderr := proc.ConsoleWriters(c.Verbose)
	c.logf("javac %s", strings.Join(args[:min(len(args), 8)], " "))
	if _, err := c.Runner.Run(ctx, javacDef.Executable, args, proc.Options{Dir: c.Paths.Root, Stdout: stdout, Stderr: stderr}); err != nil {
		return fmt.Errorf("java compilation failed: %w", err)
	}

	c.logf("compiled %d files into %s", len(sources), c.Paths.ClassesDir)
	return nil
}

func (c *Compiler) profileFlags() []string {
	if c.Profile == config.ProfileLenient {
		return nil
	}
	return []string{"-Xlint:unchecked"}
}

// Clean removes the classes directory. Removing an absent directory is a
// no-op, never an error.
func (c *Compiler) Clean() error {
	exists, err := paths.DirExists(c.Paths.ClassesDir)
	if err != nil {
		return fmt.Errorf("stat classes dir: %w", err)
	}
	if !exists {
		c.logf("classes dir not present, nothing to remove: %s", c.Paths.ClassesDir)
		return nil
	}
	if err := os.RemoveAll(c.Paths.ClassesDir); err != nil {
		return fmt.Errorf("remove classes dir %s: %w", c.Paths.ClassesDir, err)
	}
	c.logf("classes dir removed: %s", c.Paths.ClassesDir)
	return nil
}

// DiscoverSources walks the source root and returns every .java file.
// A missing source root is an error; an existing but empty tree is not.
func DiscoverSources(srcDir string) ([]string, error) {
	exists, err := paths.DirExists(srcDir)
	if err != nil {
		return nil, fmt.Errorf("stat source dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("java source directory not found: %s", srcDir)
	}

	var sources []string
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".java") {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan source dir: %w", err)
	}

	sort.Strings(sources)
	return sources, nil
}

// Classpath assembles the ordered classpath entries: the classes directory
// always comes first so freshly compiled classes shadow cached jars, then
// every jar in the library dir sorted by name for deterministic ordering.
func Classpath(pp paths.ProjectPaths) ([]string, error) {
	entries := []string{pp.ClassesDir}

	exists, err := paths.DirExists(pp.LibDir)
	if err != nil {
		return nil, fmt.Errorf("stat lib dir: %w", err)
	}
	if !exists {
		return entries, nil
	}

	items, err := os.ReadDir(pp.LibDir)
	if err != nil {
		return nil, fmt.Errorf("read lib dir: %w", err)
	}

	var jars []string
	for _, item := range items {
		if item.IsDir() || !strings.HasSuffix(item.Name(), ".jar") {
			continue
		}
		jars = append(jars, filepath.Join(pp.LibDir, item.Name()))
	}
	sort.Strings(jars)

	return append(entries, jars...), nil
}

// JoinClasspath renders classpath entries with the platform separator.
func JoinClasspath(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}
