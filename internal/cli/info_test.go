package cli

import (
	"encoding/json"
	"testing"
)

func TestInfoAlwaysSucceeds(t *testing.T) {
	dir := t.TempDir()

	// Diagnostics never fail, whatever the tool landscape looks like.
	if _, err := runCLI(t, "info", "--project", dir); err != nil {
		t.Fatalf("info: %v", err)
	}
}

func TestInfoJSON(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "info", "--json", "--project", dir)
	if err != nil {
		t.Fatalf("info --json: %v", err)
	}

	var payload struct {
		Project string `json:"project"`
		Tools   []struct {
			Tool  string `json:"tool"`
			Found bool   `json:"found"`
		} `json:"tools"`
		Venv struct {
			State string `json:"state"`
		} `json:"venv"`
		Paths struct {
			ClassesDir string `json:"classes_dir"`
		} `json:"paths"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v\noutput: %s", err, out)
	}

	if payload.Project != dir {
		t.Errorf("project = %q, want %q", payload.Project, dir)
	}
	if len(payload.Tools) != 4 {
		t.Errorf("expected 4 tool statuses, got %d", len(payload.Tools))
	}
	if payload.Venv.State != "absent" {
		t.Errorf("venv state = %q, want absent", payload.Venv.State)
	}
	if payload.Paths.ClassesDir == "" {
		t.Error("classes_dir missing from payload")
	}
}
