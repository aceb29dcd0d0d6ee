package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"simctl/internal/deps"
)

// InstallReporter adapts bubbletea message sending to the deps.Reporter
// interface. Each installer phase maps to one table row keyed by its phase
// key; status transitions update the STATUS and DETAIL columns in place.
type InstallReporter struct {
	send func(tea.Msg)
}

// NewInstallReporter constructs a reporter that forwards phase transitions
// through the given send function.
func NewInstallReporter(send func(tea.Msg)) *InstallReporter {
	return &InstallReporter{send: send}
}

// Phase implements deps.Reporter.
func (r *InstallReporter) Phase(key deps.PhaseKey, status deps.PhaseStatus, detail string) {
	r.send(RowUpdateMsg{
		Key: string(key),
		Fields: map[string]string{
			"STATUS": string(status),
			"DETAIL": detail,
		},
	})
}

// InstallColumns returns the table layout used for the install progress
// display.
func InstallColumns() []Column {
	return []Column{
		{Header: "PHASE", Width: 26},
		{Header: "STATUS", Width: 10},
		{Header: "DETAIL", Width: 34},
	}
}

// NewInstallModel builds a progress model pre-seeded with one pending row
// per installer phase.
func NewInstallModel() ProgressModel {
	m := NewProgressModel("install", InstallColumns())
	for _, phase := range deps.Phases() {
		m.AddRow(string(phase.Key), []string{phase.Title, "pending", ""})
	}
	return m
}
