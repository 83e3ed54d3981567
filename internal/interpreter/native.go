package interpreter

import (
	"fmt"

	"github.com/aledsdavies/lox/internal/interpreter/natives"
)

// nativeFunction adapts a natives.Native into a Callable, translating
// between interpreter.Value and the registry's interface{}-based signature.
type nativeFunction struct {
	native *natives.Native
}

func (n *nativeFunction) Arity() int { return n.native.Arity }

func (n *nativeFunction) String() string { return fmt.Sprintf("<native fn %s>", n.native.Name) }

func (n *nativeFunction) Call(_ *Interpreter, args []Value) (Value, error) {
	raw := make([]interface{}, len(args))
	for i, a := range args {
		raw[i] = a
	}
	result := n.native.Fn(raw)
	return fromGo(result), nil
}

// fromGo lifts a native function's plain Go return value into a Value.
// Natives are restricted by convention to the handful of Go types that map
// cleanly onto Lox's runtime kinds.
func fromGo(v interface{}) Value {
	switch x := v.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	default:
		return Nil
	}
}

// installNatives binds every registered native into env, skipping any name
// present in disabled and explicitly set to false - the mechanism behind
// LoxConfig.Natives letting a project turn off a built-in (e.g. clock, for
// reproducible test output) without touching the interpreter.
func installNatives(env *Environment, disabled map[string]bool) {
	for _, n := range natives.Default.All() {
		if enabled, ok := disabled[n.Name]; ok && !enabled {
			continue
		}
		env.Define(n.Name, FromCallable(&nativeFunction{native: n}))
	}
}
