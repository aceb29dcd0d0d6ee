package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectPaths captures canonical locations for a simctl project.
type ProjectPaths struct {
	Root             string
	ConfigFile       string
	SrcDir           string
	LibDir           string
	ClassesDir       string
	VenvDir          string
	RequirementsFile string
	PomFile          string
	MetaDir          string
	LogsDir          string
}

// Resolve determines the project root using the optional --project flag or
// the current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".simctl")
	return ProjectPaths{
		Root:             root,
		ConfigFile:       filepath.Join(root, "simctl.yaml"),
		SrcDir:           filepath.Join(root, "TwitterGatherDataFollowers", "userRyersonU"),
		LibDir:           filepath.Join(root, "lib"),
		ClassesDir:       filepath.Join(root, "classes"),
		VenvDir:          filepath.Join(root, ".venv"),
		RequirementsFile: filepath.Join(root, "requirements.txt"),
		PomFile:          filepath.Join(root, "pom.xml"),
		MetaDir:          metaDir,
		LogsDir:          filepath.Join(metaDir, "logs"),
	}
}

// ApplyOverrides rebases configurable directories relative to the project
// root. Empty values leave the defaults in place.
func ApplyOverrides(pp ProjectPaths, srcDir, libDir, classesDir, venvDir string) ProjectPaths {
	if srcDir != "" {
		pp.SrcDir = resolveProjectPath(pp.Root, srcDir)
	}
	if libDir != "" {
		pp.LibDir = resolveProjectPath(pp.Root, libDir)
	}
	if classesDir != "" {
		pp.ClassesDir = resolveProjectPath(pp.Root, classesDir)
	}
	if venvDir != "" {
		pp.VenvDir = resolveProjectPath(pp.Root, venvDir)
	}
	return pp
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureMetaDirs creates the hidden .simctl metadata directory and its logs
// subdirectory.
func (p ProjectPaths) EnsureMetaDirs() error {
	for _, dir := range []string{p.MetaDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
