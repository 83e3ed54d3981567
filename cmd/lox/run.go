package main

import (
	"log/slog"
	"os"

	"github.com/aledsdavies/lox/internal/config"
	"github.com/aledsdavies/lox/internal/diagnostics"
	"github.com/aledsdavies/lox/internal/interpreter"
	"github.com/aledsdavies/lox/internal/lexer"
	"github.com/aledsdavies/lox/internal/parser"
	"github.com/aledsdavies/lox/internal/resolver"
)

// runFile reads path and runs it once through the full pipeline, returning
// the process exit code per the language's usage/compile/runtime taxonomy.
func runFile(path string, cfg config.Config, logger *slog.Logger, useColor bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		diagnostics.Format(os.Stderr, err, useColor)
		return exitIOError
	}
	return runSource(persistentInterpreter(cfg, logger), string(source), logger, useColor)
}

// persistentInterpreter builds a fresh Interpreter configured from cfg -
// named for the REPL's reuse of a single instance across lines, but also
// used by file mode for a one-shot run.
func persistentInterpreter(cfg config.Config, logger *slog.Logger) *interpreter.Interpreter {
	return interpreter.New(
		interpreter.WithOutput(os.Stdout),
		interpreter.WithLogger(logger),
		interpreter.WithMaxCallDepth(cfg.MaxCallDepth),
		interpreter.WithNatives(cfg.Natives),
	)
}

// runSource lexes, parses, resolves, and interprets source against interp,
// reporting whichever stage's errors fire first and mapping that stage to
// the corresponding exit code. A successful parse/resolve with a failing
// interpretation still returns exitRuntime even though earlier stages
// succeeded, per the pipeline's "later stages don't run after an error"
// rule combined with "a runtime error aborts with a distinct exit code".
func runSource(interp *interpreter.Interpreter, source string, logger *slog.Logger, useColor bool) int {
	tokens, scanErrs := lexer.New(source, lexer.WithLogger(logger)).ScanTokens()
	if len(scanErrs) > 0 {
		diagnostics.FormatAll(os.Stderr, scanErrs, useColor)
		return exitUsage
	}

	result := parser.Parse(tokens, parser.WithLogger(logger))
	if len(result.Errors) > 0 {
		diagnostics.FormatAll(os.Stderr, result.Errors, useColor)
		return exitUsage
	}

	resolved := resolver.Resolve(result.Statements)
	if len(resolved.Errors) > 0 {
		diagnostics.FormatAll(os.Stderr, resolved.Errors, useColor)
		return exitUsage
	}

	if err := interp.Interpret(result.Statements, resolved.Locals); err != nil {
		diagnostics.Format(os.Stderr, err, useColor)
		return exitRuntime
	}
	return exitOK
}
