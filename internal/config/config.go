package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile names a compiler flag set.
type Profile string

const (
	// ProfileStrict enables unchecked-operation lint warnings.
	ProfileStrict Profile = "strict"
	// ProfileLenient compiles without lint flags.
	ProfileLenient Profile = "lenient"
)

// Config captures project-level overrides for the orchestrator. Every field
// has a default that reproduces the canonical simulator invocation; the
// config file is optional.
type Config struct {
	Version  int            `yaml:"version"`
	Paths    PathsConfig    `yaml:"paths"`
	Compiler CompilerConfig `yaml:"compiler"`
	Python   PythonConfig   `yaml:"python"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
}

// PathsConfig rebases project directories. Relative values are resolved
// against the project root.
type PathsConfig struct {
	SrcDir     string `yaml:"src_dir"`
	LibDir     string `yaml:"lib_dir"`
	ClassesDir string `yaml:"classes_dir"`
	VenvDir    string `yaml:"venv_dir"`
}

// CompilerConfig selects the javac flag profile.
type CompilerConfig struct {
	Profile Profile `yaml:"profile"`
}

// PythonConfig lists interpreter versions accepted for the venv.
type PythonConfig struct {
	Versions []string `yaml:"versions"`
}

// RuntimeConfig tunes the simulator launch.
type RuntimeConfig struct {
	HeapInitial string `yaml:"heap_initial"`
	HeapMax     string `yaml:"heap_max"`
	LocalPort   int    `yaml:"local_port"`
}

// Default returns the baseline configuration matching the canonical
// simulator invocation.
func Default() Config {
	return Config{
		Version: 1,
		Compiler: CompilerConfig{
			Profile: ProfileStrict,
		},
		Python: PythonConfig{
			Versions: []string{"3.9", "3.10"},
		},
		Runtime: RuntimeConfig{
			HeapInitial: "256m",
			HeapMax:     "1424m",
			LocalPort:   35240,
		},
	}
}

// Load reads the YAML configuration from disk if it exists, otherwise
// returns the default configuration.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Compiler.Profile {
	case ProfileStrict, ProfileLenient:
	default:
		return fmt.Errorf("unknown compiler profile %q (use %q or %q)", c.Compiler.Profile, ProfileStrict, ProfileLenient)
	}
	for _, v := range c.Python.Versions {
		if _, _, err := splitVersion(v); err != nil {
			return fmt.Errorf("python versions: %w", err)
		}
	}
	return nil
}

// AllowedPython returns the configured interpreter versions as (major, minor)
// pairs.
func (c Config) AllowedPython() [][2]int {
	pairs := make([][2]int, 0, len(c.Python.Versions))
	for _, v := range c.Python.Versions {
		major, minor, err := splitVersion(v)
		if err != nil {
			continue
		}
		pairs = append(pairs, [2]int{major, minor})
	}
	return pairs
}

// AllowedPythonLabel renders the accepted versions for user-facing messages,
// e.g. "3.9 or 3.10".
func (c Config) AllowedPythonLabel() string {
	return strings.Join(c.Python.Versions, " or ")
}

func splitVersion(v string) (major, minor int, err error) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid version %q: want major.minor", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q: %w", v, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid version %q: %w", v, err)
	}
	return major, minor, nil
}
