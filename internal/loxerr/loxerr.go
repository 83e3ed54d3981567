// Package loxerr defines the typed errors produced by each stage of the
// Lox pipeline: scanning, parsing, static resolution, and interpretation.
// Each type carries enough context (line, offending token, suggestion) for
// the CLI's diagnostics formatter to render a useful message without the
// caller re-deriving position information.
package loxerr

import (
	"fmt"

	"github.com/aledsdavies/lox/internal/token"
)

// ScanError is raised by the lexer for malformed lexical input: an
// unterminated string or an unrecognized character.
type ScanError struct {
	Line    int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

// ParseError is raised by the parser when the token stream does not match
// the grammar. Suggestion is populated for undefined-name-shaped mistakes
// where a nearby valid keyword was probably intended.
type ParseError struct {
	Token      token.Token
	Message    string
	Suggestion string
}

func (e *ParseError) Error() string {
	where := "at end"
	if e.Token.Type != token.EOF {
		where = fmt.Sprintf("at '%s'", e.Token.Lexeme)
	}
	msg := fmt.Sprintf("[line %d] Error %s: %s", e.Token.Line, where, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean '%s'?)", e.Suggestion)
	}
	return msg
}

// ResolveError is raised by the static resolver for scope violations that
// can be detected without running the program: a variable read in its own
// initializer, `return` outside a function, `this`/`super` misuse, and
// similar statically-checkable mistakes.
type ResolveError struct {
	Token   token.Token
	Message string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Message)
}

// RuntimeError is raised by the interpreter while evaluating a well-formed
// program: type errors, undefined variables, arity mismatches, and so on.
// Unlike the other three, it is discovered only along the single control
// path the interpreter actually takes through the program.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// NewRuntimeError builds a RuntimeError, formatting Message with args.
func NewRuntimeError(tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
