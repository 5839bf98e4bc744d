package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"pagecheck/internal/console"
	"pagecheck/internal/preflight"
	"pagecheck/internal/verify"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct {
	label string
	color text.Color
}{
	statusOK:    {"OK", text.FgGreen},
	statusWarn:  {"WARN", text.FgYellow},
	statusError: {"ERROR", text.FgRed},
}

// scanStatus maps an outcome to a line kind. Classifiable anomalies are
// warnings; every other rejection is an error.
func scanStatus(result verify.Result) statusKind {
	if result.Outcome() == verify.OutcomeOK {
		return statusOK
	}
	if _, ok := verify.AsAnomaly(result); ok {
		return statusWarn
	}
	return statusError
}

func checkStatus(result preflight.Result) statusKind {
	if result.Passed {
		return statusOK
	}
	return statusError
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	status := "[" + style.label + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		return text.Escape(line, style.color.EscapeSeq())
	}
	return line
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		seq := text.FgBlue.EscapeSeq()
		line, rule = text.Escape(line, seq), text.Escape(rule, seq)
	}
	return []string{line, rule}
}

// writeCheckReport prints a titled block of preflight results followed by a
// pass count.
func writeCheckReport(out io.Writer, title string, results []preflight.Result, colorize bool) {
	for _, line := range renderSectionHeader(title, colorize) {
		fmt.Fprintln(out, line)
	}
	passed := 0
	for _, result := range results {
		if result.Passed {
			passed++
		}
		fmt.Fprintln(out, renderStatusLine(result.Name, checkStatus(result), result.Detail, colorize))
	}
	fmt.Fprintf(out, "%d/%d checks passed\n", passed, len(results))
}

func shouldColorize(writer io.Writer) bool {
	return console.ShouldColorize(writer)
}
