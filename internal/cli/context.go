package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"simctl/internal/build"
	"simctl/internal/config"
	"simctl/internal/deps"
	"simctl/internal/launch"
	"simctl/internal/logx"
	"simctl/internal/paths"
	"simctl/internal/proc"
	"simctl/internal/venv"
)

// projectContext bundles the resolved paths, merged config, per-invocation
// log file, and the shared runner. Every command opens one, uses the service
// constructors below, and closes it on exit.
type projectContext struct {
	Paths  paths.ProjectPaths
	Config config.Config
	Logger *log.Logger
	Runner proc.Runner

	closer io.Closer
}

func openProject(command string) (*projectContext, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return nil, err
	}

	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return nil, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return nil, err
	}
	pp = paths.ApplyOverrides(pp, cfg.Paths.SrcDir, cfg.Paths.LibDir, cfg.Paths.ClassesDir, cfg.Paths.VenvDir)

	if err := pp.EnsureMetaDirs(); err != nil {
		return nil, err
	}

	logger, closer, err := logx.New(pp, command)
	if err != nil {
		return nil, err
	}
	logger.Printf("simctl %s: project=%s", command, pp.Root)

	return &projectContext{
		Paths:  pp,
		Config: cfg,
		Logger: logger,
		Runner: proc.CmdRunner{},
		closer: closer,
	}, nil
}

func (p *projectContext) Close() error {
	return p.closer.Close()
}

func (p *projectContext) venvManager() *venv.Manager {
	return &venv.Manager{
		Paths:   p.Paths,
		Runner:  p.Runner,
		Logger:  p.Logger,
		Allowed: p.Config.AllowedPython(),
		Warn:    os.Stderr,
	}
}

func (p *projectContext) installer(reporter deps.Reporter) *deps.Installer {
	return &deps.Installer{
		Paths:   p.Paths,
		Runner:  p.Runner,
		Venv:    p.venvManager(),
		Logger:  p.Logger,
		Report:  reporter,
		Verbose: verbose,
		Warn:    os.Stderr,
	}
}

func (p *projectContext) compiler() *build.Compiler {
	return &build.Compiler{
		Paths:   p.Paths,
		Runner:  p.Runner,
		Logger:  p.Logger,
		Profile: p.Config.Compiler.Profile,
		Verbose: verbose,
		Warn:    os.Stderr,
	}
}

func (p *projectContext) launcher() *launch.Launcher {
	return &launch.Launcher{
		Paths:   p.Paths,
		Runner:  p.Runner,
		Logger:  p.Logger,
		Venv:    p.venvManager(),
		Runtime: p.Config.Runtime,
		Verbose: verbose,
		Warn:    os.Stderr,
		Out:     os.Stdout,
	}
}
