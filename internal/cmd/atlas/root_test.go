package atlas

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, dbPath string, args ...string) string {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("run %v: %v", args, err)
	}
	return out.String()
}

func TestTaskAddListAndComplete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "atlas.db")

	out := runCLI(t, dbPath, "task", "add", "review draft", "--priority", "high")
	if !strings.Contains(out, "review draft") {
		t.Fatalf("add output = %q, want title echoed", out)
	}

	out = runCLI(t, dbPath, "task", "list")
	if !strings.Contains(out, "review draft") || !strings.Contains(out, "high") {
		t.Fatalf("list output = %q, want task row", out)
	}

	out = runCLI(t, dbPath, "task", "complete", "1")
	if !strings.Contains(out, "completed") {
		t.Fatalf("complete output = %q, want completed status", out)
	}
}

func TestExplainEmitsHistoryAsJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "atlas.db")

	runCLI(t, dbPath, "habit", "add", "stretch")
	runCLI(t, dbPath, "habit", "check", "1", "--date", "2026-03-01")

	out := runCLI(t, dbPath, "--json", "explain", "habit", "1")
	var explained struct {
		Events    []map[string]any `json:"events"`
		Anomalies []map[string]any `json:"anomalies"`
	}
	if err := json.Unmarshal([]byte(out), &explained); err != nil {
		t.Fatalf("decode explain output %q: %v", out, err)
	}
	if len(explained.Events) != 2 {
		t.Fatalf("history length = %d, want 2", len(explained.Events))
	}
	if explained.Events[0]["event_type"] != "HABIT_DEFINED" {
		t.Fatalf("first event = %v, want HABIT_DEFINED", explained.Events[0]["event_type"])
	}
	if len(explained.Anomalies) != 0 {
		t.Fatalf("anomalies = %v, want none for a well-formed history", explained.Anomalies)
	}
}

func TestEventsCountAcrossTrackers(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "atlas.db")

	runCLI(t, dbPath, "note", "add", "meeting minutes")
	runCLI(t, dbPath, "contact", "add", "Sam", "--every", "30")

	out := strings.TrimSpace(runCLI(t, dbPath, "events", "count"))
	if out != "2" {
		t.Fatalf("count = %q, want 2", out)
	}

	out = strings.TrimSpace(runCLI(t, dbPath, "events", "count", "--entity-type", "note"))
	if out != "1" {
		t.Fatalf("filtered count = %q, want 1", out)
	}
}
