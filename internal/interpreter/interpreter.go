// Package interpreter tree-walks a resolved Lox program, evaluating
// expressions and executing statements directly against the AST rather
// than compiling to any intermediate bytecode.
package interpreter

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aledsdavies/lox/core/invariant"
	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/loxerr"
	"github.com/aledsdavies/lox/internal/token"
)

const defaultMaxCallDepth = 1024

// Interpreter evaluates a resolved Lox program. It is not safe for
// concurrent use: Lox execution is strictly single-threaded, and an
// Interpreter carries mutable call-stack-depth and environment state
// across a single Interpret call.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   map[int64]int
	out      io.Writer
	logger   *slog.Logger
	maxDepth int
	depth    int
	natives  map[string]bool
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithOutput redirects `print` statements away from os.Stdout, primarily
// for tests that want to capture program output.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithLogger overrides the default debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithMaxCallDepth overrides the call-depth guard that protects the host Go
// stack from unbounded Lox recursion. The guard counts nested call
// expressions (user functions, classes, and natives alike) and fails a call
// with a "Stack overflow." runtime error once n calls are already active.
// Recursion itself is legal Lox behavior, so the bound is generous rather
// than a correctness check.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) { i.maxDepth = n }
}

// WithNatives selectively enables/disables registered native functions by
// name, mirroring LoxConfig.Natives. A name absent from the map is enabled
// by default.
func WithNatives(enabled map[string]bool) Option {
	return func(i *Interpreter) { i.natives = enabled }
}

// New creates an Interpreter with natives installed in its global scope.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		out:      os.Stdout,
		maxDepth: defaultMaxCallDepth,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})),
	}
	for _, opt := range opts {
		opt(i)
	}

	globals := NewEnvironment()
	installNatives(globals, i.natives)
	i.globals = globals
	i.env = globals

	return i
}

// Interpret runs a fully parsed and resolved program. locals is the
// resolver's NodeID -> scope-depth side table.
func (i *Interpreter) Interpret(stmts []ast.Stmt, locals map[int64]int) error {
	i.locals = locals
	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------- statements

func (i *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, NewChildEnvironment(i.env))

	case *ast.ClassStmt:
		return i.executeClass(s)

	case *ast.ExpressionStmt:
		_, err := i.evaluate(s.Expression)
		return err

	case *ast.FunctionStmt:
		fn := &Function{declaration: s, closure: i.env}
		i.env.Define(s.Name.Lexeme, FromCallable(fn))
		return nil

	case *ast.IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if cond.IsTruthy() {
			return i.execute(s.Then)
		}
		if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil

	case *ast.PrintStmt:
		value, err := i.evaluate(s.Expression)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, value.String())
		return nil

	case *ast.ReturnStmt:
		var value Value = Nil
		if s.Value != nil {
			v, err := i.evaluate(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		panic(returnUnwind{value: value})

	case *ast.VarStmt:
		value := Nil
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !cond.IsTruthy() {
				return nil
			}
			if err := i.execute(s.Body); err != nil {
				return err
			}
		}
	}

	invariant.Invariant(false, "unreachable statement type %T", stmt)
	return nil
}

// executeBlock runs stmts in a fresh child environment, restoring the
// previous environment on every exit path including a `return` panic
// unwinding through it.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeClass(s *ast.ClassStmt) error {
	var superclass *Class
	if s.Superclass != nil {
		v, err := i.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		if v.Kind != CallableKind {
			return loxerr.NewRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		class, ok := v.Callable.(*Class)
		if !ok {
			return loxerr.NewRuntimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	i.env.Define(s.Name.Lexeme, Nil)

	classEnv := i.env
	if superclass != nil {
		classEnv = NewChildEnvironment(i.env)
		classEnv.Define("super", FromCallable(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			declaration:   m,
			closure:       classEnv,
			isInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	return i.env.Assign(s.Name, FromCallable(class))
}

// --------------------------------------------------------------- expressions

func (i *Interpreter) evaluate(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Assign:
		return i.evalAssign(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Call:
		return i.evalCall(e)
	case *ast.Get:
		return i.evalGet(e)
	case *ast.Grouping:
		return i.evaluate(e.Inner)
	case *ast.Literal:
		return i.evalLiteral(e), nil
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Set:
		return i.evalSet(e)
	case *ast.Super:
		return i.evalSuper(e)
	case *ast.This:
		return i.lookUpVariable(e.Keyword, e.ID())
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Variable:
		return i.lookUpVariable(e.Name, e.ID())
	}

	invariant.Invariant(false, "unreachable expression type %T", expr)
	return Nil, nil
}

func (i *Interpreter) evalLiteral(e *ast.Literal) Value {
	switch v := e.Value.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case string:
		return String(v)
	default:
		invariant.Invariant(false, "unreachable literal payload type %T", e.Value)
		return Nil
	}
}

func (i *Interpreter) lookUpVariable(name token.Token, nodeID int64) (Value, error) {
	if distance, ok := i.locals[nodeID]; ok {
		return i.env.GetAt(distance, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalAssign(e *ast.Assign) (Value, error) {
	value, err := i.evaluate(e.Value)
	if err != nil {
		return Nil, err
	}
	if distance, ok := i.locals[e.ID()]; ok {
		i.env.AssignAt(distance, e.Name, value)
		return value, nil
	}
	if err := i.globals.Assign(e.Name, value); err != nil {
		return Nil, err
	}
	return value, nil
}

func (i *Interpreter) evalLogical(e *ast.Logical) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return Nil, err
	}
	if e.Operator.Type == token.OR {
		if left.IsTruthy() {
			return left, nil
		}
	} else if !left.IsTruthy() {
		return left, nil
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) evalUnary(e *ast.Unary) (Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return Nil, err
	}
	switch e.Operator.Type {
	case token.BANG:
		return Bool(!right.IsTruthy()), nil
	case token.MINUS:
		if right.Kind != NumberKind {
			return Nil, loxerr.NewRuntimeError(e.Operator, "Operand must be a number.")
		}
		return Number(-right.Number), nil
	}
	invariant.Invariant(false, "unreachable unary operator %v", e.Operator.Type)
	return Nil, nil
}

func (i *Interpreter) evalBinary(e *ast.Binary) (Value, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return Nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return Nil, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Number(a - b) })
	case token.SLASH:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Number(a / b) })
	case token.STAR:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Number(a * b) })
	case token.PLUS:
		return evalPlus(e.Operator, left, right)
	case token.GREATER:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Bool(a > b) })
	case token.GREATER_EQUAL:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Bool(a >= b) })
	case token.LESS:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Bool(a < b) })
	case token.LESS_EQUAL:
		return numericOp(e.Operator, left, right, func(a, b float64) Value { return Bool(a <= b) })
	case token.BANG_EQUAL:
		return Bool(!left.Equals(right)), nil
	case token.EQUAL_EQUAL:
		return Bool(left.Equals(right)), nil
	}

	invariant.Invariant(false, "unreachable binary operator %v", e.Operator.Type)
	return Nil, nil
}

func numericOp(op token.Token, left, right Value, f func(a, b float64) Value) (Value, error) {
	if left.Kind != NumberKind || right.Kind != NumberKind {
		return Nil, loxerr.NewRuntimeError(op, "Operands must be numbers.")
	}
	return f(left.Number, right.Number), nil
}

func evalPlus(op token.Token, left, right Value) (Value, error) {
	if left.Kind == NumberKind && right.Kind == NumberKind {
		return Number(left.Number + right.Number), nil
	}
	if left.Kind == StringKind && right.Kind == StringKind {
		return String(left.Str + right.Str), nil
	}
	return Nil, loxerr.NewRuntimeError(op, "Operands must be two numbers or two strings.")
}

func (i *Interpreter) evalCall(e *ast.Call) (Value, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, len(e.Arguments))
	for idx, argExpr := range e.Arguments {
		v, err := i.evaluate(argExpr)
		if err != nil {
			return Nil, err
		}
		args[idx] = v
	}

	if callee.Kind != CallableKind {
		return Nil, loxerr.NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	callable := callee.Callable

	if callable.Arity() != len(args) {
		return Nil, loxerr.NewRuntimeError(e.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}

	if i.depth >= i.maxDepth {
		return Nil, loxerr.NewRuntimeError(e.Paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()

	return callable.Call(i, args)
}

func (i *Interpreter) evalGet(e *ast.Get) (Value, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return Nil, err
	}
	if object.Kind != InstanceKind {
		return Nil, loxerr.NewRuntimeError(e.Name, "Only instances have properties.")
	}
	return object.Instance.Get(e.Name)
}

func (i *Interpreter) evalSet(e *ast.Set) (Value, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return Nil, err
	}
	if object.Kind != InstanceKind {
		return Nil, loxerr.NewRuntimeError(e.Name, "Only instances have fields.")
	}
	value, err := i.evaluate(e.Value)
	if err != nil {
		return Nil, err
	}
	object.Instance.Set(e.Name, value)
	return value, nil
}

func (i *Interpreter) evalSuper(e *ast.Super) (Value, error) {
	distance := i.locals[e.ID()]
	superclass := i.env.GetAt(distance, "super").Callable.(*Class)
	// `this` is always declared exactly one scope nearer than `super`,
	// since resolveClass opens the `this` scope immediately inside the
	// `super` scope - see internal/resolver.
	instance := i.env.GetAt(distance-1, "this").Instance

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return Nil, loxerr.NewRuntimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return FromCallable(method.Bind(instance)), nil
}
