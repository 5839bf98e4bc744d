package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

type lineKind int

const (
	lineInfo lineKind = iota
	lineOK
	lineWarn
	lineError
)

func renderLine(kind lineKind, message string, colorize bool) string {
	var label, color string
	switch kind {
	case lineOK:
		label, color = "OK", ansiGreen
	case lineWarn:
		label, color = "WARN", ansiYellow
	case lineError:
		label, color = "ERROR", ansiRed
	default:
		return message
	}
	line := fmt.Sprintf("[%s] %s", label, message)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

// ShouldColorize reports whether writer is a terminal that accepts ANSI colours.
func ShouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
