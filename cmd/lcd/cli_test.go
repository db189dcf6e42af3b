package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/mastery"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		want   options
		hasErr bool
	}{
		{name: "no args", args: nil, want: options{mode: modeTUI}},
		{name: "short version", args: []string{"-v"}, want: options{mode: modeVersion}},
		{name: "long version", args: []string{"--version"}, want: options{mode: modeVersion}},
		{name: "help wins", args: []string{"--collect", "-h"}, want: options{mode: modeHelp}},
		{name: "collect", args: []string{"--collect"}, want: options{mode: modeCollect}},
		{
			name: "import",
			args: []string{"--import-mastery", "payload.json"},
			want: options{mode: modeImport, importPath: "payload.json"},
		},
		{
			name: "import with equals",
			args: []string{"--import-mastery=payload.json"},
			want: options{mode: modeImport, importPath: "payload.json"},
		},
		{name: "import missing file", args: []string{"--import-mastery"}, hasErr: true},
		{name: "import followed by flag", args: []string{"--import-mastery", "--collect"}, hasErr: true},
		{name: "import empty equals", args: []string{"--import-mastery="}, hasErr: true},
		{name: "unknown", args: []string{"--bogus"}, hasErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if tt.hasErr {
				if !errors.Is(err, errUsage) {
					t.Fatalf("err = %v, want errUsage", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseArgs(%v) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestPrintCollectSummary(t *testing.T) {
	now := time.Now()
	progress := []models.ProgressSnapshot{
		{ID: 1, Timestamp: now.AddDate(0, 0, -1).UnixMilli(), Easy: 10, Medium: 5, Hard: 1},
		{ID: 2, Timestamp: now.UnixMilli(), Easy: 12, Medium: 6, Hard: 1},
	}
	d := aggregate.Build(progress, nil, now, aggregate.DefaultOptions())

	var buf bytes.Buffer
	printCollectSummary(&buf, &progress[1], d)
	out := buf.String()

	for _, want := range []string{"Solved:   19 / 150 (E12 M6 H1)", "Today:    +3 [E2 M1 H0]", "Top 150:"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary should contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Mastery:") {
		t.Error("summary should omit mastery without mastery data")
	}
}

func TestPrintImportSummary(t *testing.T) {
	var buf bytes.Buffer
	printImportSummary(&buf, mastery.Result{Path: "payload.json", Imported: 2, Skipped: 1})

	want := "Imported 2 mastery snapshot(s) from payload.json, 1 skipped\n"
	if buf.String() != want {
		t.Errorf("summary = %q, want %q", buf.String(), want)
	}
}
