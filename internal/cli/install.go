package cli

import (
	"encoding/json"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"simctl/internal/deps"
	"simctl/internal/tui"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install Java and Python dependencies",
		RunE:  runInstall,
	}
}

func runInstall(cmd *cobra.Command, _ []string) error {
	pc, err := openProject("install")
	if err != nil {
		return err
	}
	defer pc.Close()

	return doInstall(cmd, pc)
}

// doInstall drives the installer under the output mode detected for the
// command's stdout. It is shared with the setup command.
func doInstall(cmd *cobra.Command, pc *projectContext) error {
	out := cmd.OutOrStdout()

	switch tui.DetectMode(out, noProgress || verbose, outputJSON) {
	case tui.ModeTUI:
		model := tui.NewInstallModel()
		return tui.RunWithWork(out, model, func(send func(tea.Msg)) {
			inst := pc.installer(tui.NewInstallReporter(send))
			if err := inst.Install(cmd.Context()); err != nil {
				send(tui.ErrorMsg{Err: err})
			}
		})

	case tui.ModeJSON:
		reporter := newPhaseRecorder()
		inst := pc.installer(reporter)
		installErr := inst.Install(cmd.Context())
		if err := json.NewEncoder(out).Encode(reporter.reports()); err != nil {
			return err
		}
		return installErr

	default:
		inst := pc.installer(&plainReporter{out: out})
		return inst.Install(cmd.Context())
	}
}

// plainReporter prints one line per phase transition for non-interactive
// output. Intermediate running updates are shown only with a detail so the
// log stays readable.
type plainReporter struct {
	out io.Writer
}

func (r *plainReporter) Phase(key deps.PhaseKey, status deps.PhaseStatus, detail string) {
	if status == deps.StatusRunning && detail == "" {
		fmt.Fprintf(r.out, "%s: %s\n", key, status)
		return
	}
	if detail != "" {
		fmt.Fprintf(r.out, "%s: %s (%s)\n", key, status, detail)
		return
	}
	fmt.Fprintf(r.out, "%s: %s\n", key, status)
}

// phaseRecorder keeps the final status of each phase for JSON output.
type phaseRecorder struct {
	order  []deps.PhaseKey
	status map[deps.PhaseKey]phaseReport
}

type phaseReport struct {
	Phase  string `json:"phase"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func newPhaseRecorder() *phaseRecorder {
	r := &phaseRecorder{status: make(map[deps.PhaseKey]phaseReport)}
	for _, phase := range deps.Phases() {
		r.order = append(r.order, phase.Key)
		r.status[phase.Key] = phaseReport{Phase: string(phase.Key), Status: string(deps.StatusPending)}
	}
	return r
}

func (r *phaseRecorder) Phase(key deps.PhaseKey, status deps.PhaseStatus, detail string) {
	r.status[key] = phaseReport{Phase: string(key), Status: string(status), Detail: detail}
}

func (r *phaseRecorder) reports() []phaseReport {
	reports := make([]phaseReport, 0, len(r.order))
	for _, key := range r.order {
		reports = append(reports, r.status[key])
	}
	return reports
}
