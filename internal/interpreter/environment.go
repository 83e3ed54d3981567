package interpreter

import (
	"github.com/aledsdavies/lox/internal/loxerr"
	"github.com/aledsdavies/lox/internal/token"
)

// Environment is a single lexical scope: a flat name table plus a pointer
// to the enclosing scope. A closure captures its defining Environment by
// reference, so mutations made after the closure is created (but before it
// is called) are visible inside it - this is what makes counter-style
// closures work.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a top-level environment with no enclosing scope.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChildEnvironment creates a scope nested inside enclosing.
func NewChildEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]Value), enclosing: enclosing}
}

// Define binds name to value in this scope, shadowing any outer binding of
// the same name. Lox permits redeclaring a variable in the same scope
// (the resolver only rejects that for block-local declarations), so Define
// always overwrites rather than erroring.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get looks up name starting in this scope and walking outward.
func (e *Environment) Get(name token.Token) (Value, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return Nil, loxerr.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign rebinds an already-declared name, walking outward, without
// creating a new binding - assigning to an undeclared variable is a
// runtime error, unlike Define.
func (e *Environment) Assign(name token.Token, value Value) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return loxerr.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// ancestor walks distance scopes outward from e. The resolver guarantees
// distance is always reachable for any call site that uses it.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt reads name directly from the scope `distance` hops outward, as
// determined by the resolver's static analysis - bypassing the walk-and-
// hope-for-the-best lookup Get performs for globals.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

// AssignAt writes value directly into the scope `distance` hops outward.
func (e *Environment) AssignAt(distance int, name token.Token, value Value) {
	e.ancestor(distance).values[name.Lexeme] = value
}
