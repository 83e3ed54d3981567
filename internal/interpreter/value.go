package interpreter

import "strconv"

// Kind tags the six runtime shapes a Lox Value can take. An explicit tagged
// union is used here instead of a bare interface{}/any so every call site
// that switches on a Value documents exactly which shapes it handles,
// and adding a seventh kind is a compile-time-visible change everywhere
// the switch is not exhaustive.
type Kind int

const (
	NilKind Kind = iota
	BoolKind
	NumberKind
	StringKind
	CallableKind
	InstanceKind
)

// Value is the tagged runtime value every expression evaluates to.
type Value struct {
	Kind     Kind
	Bool     bool
	Number   float64
	Str      string
	Callable Callable
	Instance *Instance
}

// Nil is the canonical nil value.
var Nil = Value{Kind: NilKind}

func Bool(b bool) Value              { return Value{Kind: BoolKind, Bool: b} }
func Number(n float64) Value         { return Value{Kind: NumberKind, Number: n} }
func String(s string) Value          { return Value{Kind: StringKind, Str: s} }
func FromCallable(c Callable) Value  { return Value{Kind: CallableKind, Callable: c} }
func FromInstance(i *Instance) Value { return Value{Kind: InstanceKind, Instance: i} }

// IsTruthy implements Lox's truthiness rule: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case NilKind:
		return false
	case BoolKind:
		return v.Bool
	default:
		return true
	}
}

// Equals implements Lox's equality rule: values of different kinds are
// never equal (no implicit coercion), nil equals only nil.
func (v Value) Equals(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NilKind:
		return true
	case BoolKind:
		return v.Bool == other.Bool
	case NumberKind:
		return v.Number == other.Number
	case StringKind:
		return v.Str == other.Str
	case CallableKind:
		return sameCallable(v.Callable, other.Callable)
	case InstanceKind:
		return v.Instance == other.Instance
	}
	return false
}

func sameCallable(a, b Callable) bool {
	af, aok := a.(*Function)
	bf, bok := b.(*Function)
	if aok && bok {
		return af == bf
	}
	return a == b
}

// String renders v the way Lox's `print` statement does.
func (v Value) String() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case BoolKind:
		if v.Bool {
			return "true"
		}
		return "false"
	case NumberKind:
		return formatNumber(v.Number)
	case StringKind:
		return v.Str
	case CallableKind:
		return v.Callable.String()
	case InstanceKind:
		return v.Instance.String()
	}
	return "<unknown>"
}

// formatNumber renders n in plain decimal notation, never scientific, and
// without a trailing ".0" on integral values.
func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// TypeName returns the Lox-facing name of v's kind, for runtime type errors.
func (v Value) TypeName() string {
	switch v.Kind {
	case NilKind:
		return "nil"
	case BoolKind:
		return "boolean"
	case NumberKind:
		return "number"
	case StringKind:
		return "string"
	case CallableKind:
		return "function"
	case InstanceKind:
		return "instance"
	}
	return "unknown"
}
