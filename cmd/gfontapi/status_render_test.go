package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gfontapi/internal/deps"
	"gfontapi/internal/fontrun"
	"gfontapi/internal/pipeline"
	"gfontapi/internal/preflight"
	"gfontapi/internal/style"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("woff2_compress", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "woff2_compress:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("woff2_compress", statusOK, "Ready", true)
	if !strings.HasPrefix(got, "\x1b[32m") {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "woff2_compress", Available: false},
		{Name: "ttx", Available: true, Command: "/usr/bin/ttx"},
		{Name: "fonttools", Available: false, Optional: true, Detail: "not configured"},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ERROR] not available") {
		t.Fatalf("expected required dependency error, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "Ready (command: /usr/bin/ttx)") {
		t.Fatalf("expected ready line, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] not configured") {
		t.Fatalf("expected optional warning, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "woff2_compress, fonttools") {
		t.Fatalf("expected missing summary, got %q", lines[3])
	}
}

func TestCheckLines(t *testing.T) {
	lines := checkLines([]preflight.Result{
		{Name: "Catalog API key", Passed: true, Detail: "configured"},
		{Name: "Output directory", Detail: "/nope (error: cannot create under /)"},
	}, false)
	requireContains(t, lines[0], "[OK] configured")
	requireContains(t, lines[1], "[ERROR] /nope")
}

func TestRenderRunSummary(t *testing.T) {
	bold, _ := style.Resolve("700")
	summary := &fontrun.Summary{
		Result: &pipeline.Result{
			Tags:    []style.Tag{bold},
			Total:   3,
			Elapsed: 1500 * time.Millisecond,
			Units: []pipeline.Unit{
				{Key: "700", Tag: bold, Outcome: pipeline.OutcomeConverted, Bytes: 2048},
				{Key: "regular", Outcome: pipeline.OutcomeFailed, Err: errors.New("status 404")},
				{Key: "999", Outcome: pipeline.OutcomeFailed, Err: errors.New("unknown variant")},
			},
		},
	}
	got := renderRunSummary(summary)
	for _, want := range []string{"Variant", "bold", "2.0 kB", "status 404", "999", "Converted 1/3 fonts in 1.50s"} {
		requireContains(t, got, want)
	}
	if renderRunSummary(nil) != "" {
		t.Fatal("expected empty summary for nil")
	}
}
