package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aledsdavies/lox/internal/config"
	"github.com/aledsdavies/lox/internal/fingerprint"
)

// runPrompt implements the zero-argument interactive mode: read a line,
// evaluate it against a single long-lived Interpreter (so variables and
// functions declared on one line persist to the next), loop until EOF.
// Errors at any pipeline stage are reported but never end the session -
// only an EOF on stdin does, matching the reference REPL's "a mistake on
// one line doesn't take down the prompt" behavior.
func runPrompt(cfg config.Config, logger *slog.Logger, useColor bool) int {
	interp := persistentInterpreter(cfg, logger)
	scanner := bufio.NewScanner(os.Stdin)

	var lastFingerprint string
	for {
		fmt.Fprint(os.Stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		digest := fingerprint.Of([]byte(line))
		if logger.Enabled(nil, slog.LevelDebug) && digest != lastFingerprint {
			logger.Debug("repl line", "fingerprint", digest)
		}
		lastFingerprint = digest

		// A line's own errors are reported and the loop continues; the
		// exit code returned by runSource is discarded in this mode since
		// the process only reports a final status on EOF.
		runSource(interp, line, logger, useColor)
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
		return exitIOError
	}
	fmt.Fprintln(os.Stdout)
	return exitOK
}
