// Package diagnostics renders pipeline errors (scan/parse/resolve/runtime)
// for the CLI, with optional ANSI coloring.
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/lox/internal/loxerr"
)

// ANSI color codes, matching the convention used throughout the codebase's
// CLI-facing packages.
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in an ANSI color code if useColor is set.
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// ShouldUseColor decides whether to colorize CLI output, honoring an
// explicit --no-color flag, the NO_COLOR convention, and whether stdout
// is actually a terminal.
func ShouldUseColor(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// Format renders a single pipeline error to w, dispatching on its concrete
// type so each stage's typed context (line, offending token, suggestion)
// is surfaced without the caller re-deriving it.
func Format(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	prefix := Colorize("Error: ", ColorRed, useColor)

	switch e := err.(type) {
	case *loxerr.ScanError:
		fmt.Fprintf(w, "%s%s\n", prefix, e.Error())
	case *loxerr.ParseError:
		// e.Error() already appends the did-you-mean suggestion, if any.
		fmt.Fprintf(w, "%s%s\n", prefix, e.Error())
	case *loxerr.ResolveError:
		fmt.Fprintf(w, "%s%s\n", prefix, e.Error())
	case *loxerr.RuntimeError:
		fmt.Fprintf(w, "%s%s\n", prefix, e.Error())
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, err.Error())
	}
}

// FormatAll renders every error in errs, in order.
func FormatAll(w io.Writer, errs []error, useColor bool) {
	for _, err := range errs {
		Format(w, err, useColor)
	}
}
