package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"simctl/internal/tools"
	"simctl/internal/venv"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show tool, venv, and project status",
		RunE:  runInfo,
	}
}

type venvInfo struct {
	Root    string `json:"root"`
	State   string `json:"state"`
	Version string `json:"version,omitempty"`
}

type pathInfo struct {
	Root       string `json:"root"`
	SrcDir     string `json:"src_dir"`
	LibDir     string `json:"lib_dir"`
	ClassesDir string `json:"classes_dir"`
	VenvDir    string `json:"venv_dir"`
}

// runInfo is purely diagnostic: missing tools and broken environments are
// reported in the output, never as a command failure.
func runInfo(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("info")
	if err != nil {
		return err
	}
	defer pc.Close()

	statuses := tools.Detect(cmd.Context(), pc.Runner)
	for _, st := range statuses {
		pc.Logger.Printf("tool %s: found=%v version=%s error=%s", st.Tool, st.Found, st.Version, st.Error)
	}

	env, err := pc.venvManager().Inspect(cmd.Context())
	if err != nil {
		return err
	}
	pc.Logger.Printf("venv: state=%s version=%s", env.State, env.Version)

	payload := struct {
		Project string         `json:"project"`
		Tools   []tools.Status `json:"tools"`
		Venv    venvInfo       `json:"venv"`
		Paths   pathInfo       `json:"paths"`
	}{
		Project: pc.Paths.Root,
		Tools:   statuses,
		Venv: venvInfo{
			Root:    env.Root,
			State:   env.State.String(),
			Version: env.Version.String(),
		},
		Paths: pathInfo{
			Root:       pc.Paths.Root,
			SrcDir:     pc.Paths.SrcDir,
			LibDir:     pc.Paths.LibDir,
			ClassesDir: pc.Paths.ClassesDir,
			VenvDir:    pc.Paths.VenvDir,
		},
	}

	if outputJSON {
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printInfoResult(cmd, payload.Project, payload.Tools, env)
	printInfoPaths(cmd, payload.Paths)
	return nil
}

func printInfoResult(cmd *cobra.Command, project string, statuses []tools.Status, env venv.Environment) {
	bold := lipgloss.NewStyle().Bold(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(bold.Render("Project:") + " " + project)
	cmd.Println()

	sorted := make([]tools.Status, len(statuses))
	copy(sorted, statuses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Tool < sorted[j].Tool
	})

	for _, st := range sorted {
		switch {
		case st.Found && st.Parsed:
			headline := green.Render("✓") + " " + bold.Render(st.Tool) + " v" + st.Version
			cmd.Println(headline)
		case st.Found:
			cmd.Println(yellow.Render("?") + " " + bold.Render(st.Tool) + yellow.Render(" (version unknown)"))
		default:
			headline := red.Render("✗") + " " + bold.Render(st.Tool)
			if st.Error != "" {
				headline += red.Render(" (" + st.Error + ")")
			}
			cmd.Println(headline)
			if st.Hint != "" {
				cmd.Println(faint.Render("  " + st.Hint))
			}
		}
	}
	cmd.Println()

	switch env.State {
	case venv.StateCompatible:
		cmd.Println(green.Render("✓") + " " + bold.Render("venv") + " python " + env.Version.String())
	case venv.StateMismatch:
		cmd.Println(yellow.Render("!") + " " + bold.Render("venv") + yellow.Render(" (version mismatch: python "+env.Version.String()+")"))
	case venv.StateBroken:
		cmd.Println(red.Render("✗") + " " + bold.Render("venv") + red.Render(" (broken)"))
	default:
		cmd.Println(faint.Render("–") + " " + bold.Render("venv") + faint.Render(" (not created)"))
	}
	cmd.Println()
}

func printInfoPaths(cmd *cobra.Command, p pathInfo) {
	faint := lipgloss.NewStyle().Faint(true)

	cmd.Println(faint.Render("  sources  " + p.SrcDir))
	cmd.Println(faint.Render("  lib      " + p.LibDir))
	cmd.Println(faint.Render("  classes  " + p.ClassesDir))
	cmd.Println(faint.Render("  venv     " + p.VenvDir))
}
