package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"descant/internal/runs"
)

func TestParseStatusFilter(t *testing.T) {
	statuses, err := parseStatusFilter([]string{" Completed ", "failed"})
	if err != nil {
		t.Fatalf("parseStatusFilter() error = %v", err)
	}
	if len(statuses) != 2 || statuses[0] != runs.StatusCompleted || statuses[1] != runs.StatusFailed {
		t.Errorf("parseStatusFilter() = %v", statuses)
	}

	if _, err := parseStatusFilter([]string{"bogus"}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestRunRow(t *testing.T) {
	updated := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	run := &runs.Run{
		ID:             "0f2c7a1e-aaaa-bbbb-cccc-000000000000",
		SourcePath:     "/videos/holiday.mp4",
		OutputPath:     "/out/holiday_described.mp4",
		Status:         runs.StatusCompleted,
		NarrationCount: 4,
		UpdatedAt:      updated,
	}

	row := runRow(run)
	if row[0] != "0f2c7a1e" {
		t.Errorf("short id = %q", row[0])
	}
	if row[2] != "holiday.mp4" {
		t.Errorf("source = %q", row[2])
	}
	if row[3] != "4" {
		t.Errorf("narrations = %q", row[3])
	}
	if row[5] != "/out/holiday_described.mp4" {
		t.Errorf("detail = %q", row[5])
	}

	run.Status = runs.StatusFailed
	run.ErrorMessage = "tts unavailable"
	if got := runRow(run)[5]; got != "tts unavailable" {
		t.Errorf("failed run detail = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	long := strings.Repeat("x", 80)
	got := truncate(long, 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate(long) = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1", "2"}, {"3"}}, 2)
	if !strings.Contains(out, "A") || !strings.Contains(out, "3") {
		t.Errorf("renderTable output missing cells:\n%s", out)
	}
	if renderTable(nil, nil) != "" {
		t.Error("renderTable with no headers should be empty")
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), target) {
		t.Errorf("output does not mention target: %s", out.String())
	}

	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error when config already exists")
	}
}
