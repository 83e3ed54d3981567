package interpreter

import (
	"fmt"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/loxerr"
	"github.com/aledsdavies/lox/internal/token"
)

// Callable is anything that can appear on the left of a `(...)` call
// expression: user-defined functions/methods, classes (called to
// construct an instance), and native functions.
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// returnUnwind carries a `return` statement's value up the Go call stack to
// the enclosing Function.Call, using panic/recover rather than a sentinel
// error value - control-flow unwinding, not a failure, so it does not
// implement error.
type returnUnwind struct{ value Value }

// Function is a user-defined function or method, closing over the
// environment active at its definition site.
type Function struct {
	declaration   *ast.FunctionStmt
	closure       *Environment
	isInitializer bool
}

func (f *Function) Arity() int { return len(f.declaration.Params) }

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.Name.Lexeme)
}

// Bind returns a copy of f whose closure is extended with `this` bound to
// instance - this is how a method retains its original receiver even when
// the bound method value is extracted and called independently of the
// instance it came from.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewChildEnvironment(f.closure)
	env.Define("this", FromInstance(instance))
	return &Function{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

func (f *Function) Call(interp *Interpreter, args []Value) (value Value, err error) {
	env := NewChildEnvironment(f.closure)
	for i, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if ret, ok := r.(returnUnwind); ok {
				if f.isInitializer {
					value = f.closure.GetAt(0, "this")
				} else {
					value = ret.value
				}
				err = nil
				return
			}
			panic(r)
		}
	}()

	if execErr := interp.executeBlock(f.declaration.Body, env); execErr != nil {
		return Nil, execErr
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil, nil
}

// Class is a Lox class: a name, an optional superclass, and its own
// (non-inherited) methods.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name on c, then on c's superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := &Instance{class: c, fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return Nil, err
		}
	}
	return FromInstance(instance), nil
}

// Instance is a runtime object: a reference to its class plus its own
// field table. Method lookup falls back from fields to the class's method
// table, binding `this` to the instance on the way out.
type Instance struct {
	class  *Class
	fields map[string]Value
}

func (i *Instance) String() string { return i.class.Name + " instance" }

// Get resolves a `object.name` property: an instance field takes priority
// over a method of the same name, matching the reference semantics where
// fields can shadow methods.
func (i *Instance) Get(name token.Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method, ok := i.class.FindMethod(name.Lexeme); ok {
		return FromCallable(method.Bind(i)), nil
	}
	return Nil, loxerr.NewRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set assigns a field on the instance. Lox instances are open: any field
// name can be set whether or not it was read before.
func (i *Instance) Set(name token.Token, value Value) {
	i.fields[name.Lexeme] = value
}
