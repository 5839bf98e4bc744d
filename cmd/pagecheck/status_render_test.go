package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"pagecheck/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Database", statusError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Database:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Database", statusOK, "ok", true)
	if !strings.HasPrefix(got, text.FgGreen.EscapeSeq()) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, text.EscapeReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
	if text.StripEscape(got) != renderStatusLine("Database", statusOK, "ok", false) {
		t.Fatalf("colour changed the text: %q", got)
	}
}

func TestWriteCheckReport(t *testing.T) {
	var out strings.Builder
	writeCheckReport(&out, "Health", []preflight.Result{
		{Name: "Data directory", Passed: true, Detail: "/data"},
		{Name: "Database", Passed: false, Detail: "missing"},
	}, false)

	got := out.String()
	for _, want := range []string{"== Health ==", "[OK] /data", "[ERROR] missing", "1/2 checks passed"} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTableFooter(t *testing.T) {
	out := renderTable(tableSpec{
		Headers: []string{"Name", "Count"},
		Rows:    [][]string{{"a", "1"}, {"b"}},
		Aligns:  []columnAlignment{alignLeft, alignRight},
		Footer:  []string{"Total", "1"},
	})
	for _, want := range []string{"NAME", "COUNT", "TOTAL"} {
		if !strings.Contains(strings.ToUpper(out), want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 4); got != "25.0%" {
		t.Fatalf("percent(1, 4) = %q", got)
	}
	if got := percent(0, 0); got != "0.0%" {
		t.Fatalf("percent(0, 0) = %q", got)
	}
}
