package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pet-reels/internal/domain/pipeline"
)

func TestRenderSummary(t *testing.T) {
	out := renderSummary(pipeline.Summary{Job: pipeline.JobRefresh, Duration: 1500 * time.Millisecond, Deleted: 4, Stopped: true})
	for _, want := range []string{"refresh", "1.5s", "deleted", "4", "stopped (budget)", "true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"x"}}, nil)
	if !strings.Contains(out, "x") || strings.Count(out, "\n") < 4 {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatalf("expected empty render without headers")
	}
}

func TestConfigSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reels.toml")
	body := "[schedule]\nquick_scan = \"5m\"\ndedup = \"0s\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", path, "config", "schedule"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "quickscan") || !strings.Contains(out, "5m0s") {
		t.Fatalf("expected quickscan every 5m0s:\n%s", out)
	}
	if strings.Contains(out, "dedup") {
		t.Fatalf("dedup disabled should not be listed:\n%s", out)
	}
}

func TestOnceRejectsMissingJob(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"once"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error without job argument")
	}
}
