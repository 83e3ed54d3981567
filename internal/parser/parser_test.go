package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/lexer"
)

func parse(t *testing.T, source string) *Result {
	t.Helper()
	tokens, errs := lexer.New(source).ScanTokens()
	require.Empty(t, errs)
	return Parse(tokens)
}

func TestParsePrintStatement(t *testing.T) {
	result := parse(t, `print 1 + 2;`)
	require.Empty(t, result.Errors)
	require.Len(t, result.Statements, 1)

	printStmt, ok := result.Statements[0].(*ast.PrintStmt)
	require.True(t, ok)
	bin, ok := printStmt.Expression.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, float64(1), bin.Left.(*ast.Literal).Value)
	assert.Equal(t, float64(2), bin.Right.(*ast.Literal).Value)
}

func TestParsePrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	result := parse(t, `1 + 2 * 3;`)
	require.Empty(t, result.Errors)
	exprStmt := result.Statements[0].(*ast.ExpressionStmt)
	outer := exprStmt.Expression.(*ast.Binary)
	assert.Equal(t, "+", outer.Operator.Lexeme)
	inner := outer.Right.(*ast.Binary)
	assert.Equal(t, "*", inner.Operator.Lexeme)
}

func TestParseAssignmentToVariableTarget(t *testing.T) {
	result := parse(t, `x = 5;`)
	require.Empty(t, result.Errors)
	exprStmt := result.Statements[0].(*ast.ExpressionStmt)
	assign, ok := exprStmt.Expression.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.Name.Lexeme)
}

func TestParseInvalidAssignmentTargetReportsError(t *testing.T) {
	result := parse(t, `1 = 2;`)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Error(), "Invalid assignment target")
}

func TestParseForLoopDesugarsToWhile(t *testing.T) {
	result := parse(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	require.Empty(t, result.Errors)
	require.Len(t, result.Statements, 1)

	outer, ok := result.Statements[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, outer.Statements, 2)
	_, isVar := outer.Statements[0].(*ast.VarStmt)
	assert.True(t, isVar)
	whileStmt, isWhile := outer.Statements[1].(*ast.WhileStmt)
	require.True(t, isWhile)
	body, ok := whileStmt.Body.(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, body.Statements, 2)
}

func TestParseClassWithSuperclass(t *testing.T) {
	result := parse(t, `class Cake < Pastry { bake() { return "done"; } }`)
	require.Empty(t, result.Errors)
	classStmt, ok := result.Statements[0].(*ast.ClassStmt)
	require.True(t, ok)
	require.NotNil(t, classStmt.Superclass)
	assert.Equal(t, "Pastry", classStmt.Superclass.Name.Lexeme)
	require.Len(t, classStmt.Methods, 1)
	assert.Equal(t, "bake", classStmt.Methods[0].Name.Lexeme)
}

func TestParseMissingSemicolonSynchronizesToNextStatement(t *testing.T) {
	result := parse(t, "print 1\nprint 2;")
	require.Len(t, result.Errors, 1)
	// synchronize() recovers, so the second (valid) statement still parses
	require.Len(t, result.Statements, 1)
	printStmt := result.Statements[0].(*ast.PrintStmt)
	assert.Equal(t, float64(2), printStmt.Expression.(*ast.Literal).Value)
}

func TestParsePrettyPrintIsIdempotent(t *testing.T) {
	sources := []string{
		`var a = 1 + 2 * (3 - 4);`,
		`fun greet(name) { print "hi " + name; return nil; }`,
		`class Dog < Animal { bark() { print this.sound; } init() { this.sound = "woof"; } }`,
		`for (var i = 0; i < 3; i = i + 1) print i;`,
		`if (a and b or !c) x = y.z(1, 2); else obj.field = super.method();`,
	}
	for _, src := range sources {
		first := parse(t, src)
		require.Empty(t, first.Errors, "source: %s", src)
		printed := ast.Print(first.Statements)

		second := parse(t, printed)
		require.Empty(t, second.Errors, "printed form must re-parse: %s", printed)
		assert.Equal(t, printed, ast.Print(second.Statements), "source: %s", src)
	}
}

func TestParseEveryNodeGetsAUniqueID(t *testing.T) {
	result := parse(t, `print 1 + 2;`)
	printStmt := result.Statements[0].(*ast.PrintStmt)
	bin := printStmt.Expression.(*ast.Binary)
	assert.NotEqual(t, bin.ID(), bin.Left.ID())
	assert.NotEqual(t, bin.ID(), bin.Right.ID())
}
