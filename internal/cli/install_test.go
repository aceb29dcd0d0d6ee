package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"simctl/internal/deps"
)

func TestPlainReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := &plainReporter{out: &buf}

	r.Phase(deps.PhaseMaven, deps.StatusRunning, "")
	r.Phase(deps.PhasePython, deps.StatusRunning, "upgrading pip")
	r.Phase(deps.PhaseCorpora, deps.StatusDone, "")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	if lines[0] != "maven: running" {
		t.Errorf("line 1 = %q", lines[0])
	}
	if lines[1] != "python: running (upgrading pip)" {
		t.Errorf("line 2 = %q", lines[1])
	}
	if lines[2] != "corpora: done" {
		t.Errorf("line 3 = %q", lines[2])
	}
}

func TestPhaseRecorderKeepsOrderAndFinalStatus(t *testing.T) {
	r := newPhaseRecorder()

	r.Phase(deps.PhaseMaven, deps.StatusRunning, "")
	r.Phase(deps.PhaseMaven, deps.StatusDone, "")
	r.Phase(deps.PhasePython, deps.StatusFailed, "requirements.txt missing")

	reports := r.reports()
	if len(reports) != 3 {
		t.Fatalf("got %d reports", len(reports))
	}
	if reports[0].Phase != "maven" || reports[0].Status != "done" {
		t.Errorf("maven report = %+v", reports[0])
	}
	if reports[1].Phase != "python" || reports[1].Status != "failed" {
		t.Errorf("python report = %+v", reports[1])
	}
	// Corpora never ran, it stays pending.
	if reports[2].Phase != "corpora" || reports[2].Status != "pending" {
		t.Errorf("corpora report = %+v", reports[2])
	}

	data, err := json.Marshal(reports)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"requirements.txt missing"`) {
		t.Errorf("detail missing from JSON: %s", data)
	}
}
