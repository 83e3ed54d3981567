// Package parser implements a recursive-descent parser over the Lox token
// stream, producing an internal/ast tree. Syntax errors are recovered from
// in panic mode so a single parse can report more than one mistake.
package parser

import (
	"log/slog"
	"os"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/lox/internal/ast"
	"github.com/aledsdavies/lox/internal/loxerr"
	"github.com/aledsdavies/lox/internal/token"
)

const maxParams = 255

// suggestionPool is every identifier-shaped keyword a "did you mean"
// suggestion might point at - populated once, checked against on syntax
// errors that look like a typo rather than a structural mistake.
var suggestionPool = func() []string {
	pool := make([]string, 0, len(token.Keywords))
	for kw := range token.Keywords {
		pool = append(pool, kw)
	}
	return pool
}()

// Option configures a parse at construction time.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger overrides the default debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func defaultLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOX_DEBUG_PARSER") != "" {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Result is the outcome of a parse: the parsed program, any syntax errors
// recovered from along the way, and the node-ID generator used so the
// resolver and interpreter can be handed the same counter if ever needed.
type Result struct {
	Statements []ast.Stmt
	Errors     []error
	IDGen      *ast.IDGen
}

type parser struct {
	tokens  []token.Token
	current int
	idgen   *ast.IDGen
	errors  []error
	logger  *slog.Logger
}

// Parse consumes the entire token stream and returns the parsed program.
// A non-empty Result.Errors does not imply Result.Statements is unusable for
// further inspection, but it must not be passed to the resolver or
// interpreter - CLI callers check len(Errors) and exit(64) instead.
func Parse(tokens []token.Token, opts ...Option) *Result {
	o := &options{logger: defaultLogger()}
	for _, opt := range opts {
		opt(o)
	}

	p := &parser{tokens: tokens, idgen: &ast.IDGen{}, logger: o.logger}

	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return &Result{Statements: stmts, Errors: p.errors, IDGen: p.idgen}
}

// ------------------------------------------------------------- token cursor

func (p *parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *parser) peek() token.Token { return p.tokens[p.current] }

func (p *parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// parseError is a sentinel used to unwind the recursive-descent call stack
// up to the nearest statement boundary on a syntax error. It is never
// surfaced to a caller - synchronize() recovers from it.
type parseError struct{ err error }

func (parseError) Error() string { return "parse error" }

func (p *parser) errorAt(tok token.Token, message string) parseError {
	suggestion := suggestFor(tok, message)
	e := &loxerr.ParseError{Token: tok, Message: message, Suggestion: suggestion}
	p.errors = append(p.errors, e)
	p.logger.Debug("syntax error", "line", tok.Line, "lexeme", tok.Lexeme, "message", message)
	return parseError{err: e}
}

// suggestFor offers a "did you mean" hint when the token the error is
// reported at is an identifier of three or more letters whose letters
// appear, in order, inside a reserved keyword no more than two edits away
// (e.g. `whle` for `while`). Other tokens get no suggestion.
func suggestFor(tok token.Token, message string) string {
	if tok.Type != token.IDENTIFIER || len(tok.Lexeme) < 3 {
		return ""
	}
	matches := fuzzy.RankFindFold(tok.Lexeme, suggestionPool)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	for _, m := range matches {
		if m.Distance < best.Distance {
			best = m
		}
	}
	if best.Distance <= 2 {
		return best.Target
	}
	return ""
}

func (p *parser) consume(t token.Type, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so a single syntax error does not cascade into spurious
// follow-on errors.
func (p *parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		// Checked before advancing past it: the offending token may itself
		// already be the start of the next statement (e.g. a missing ';'
		// immediately followed by the next statement's keyword), in which
		// case consuming it here would swallow that whole statement.
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}

// --------------------------------------------------------------- statements

func (p *parser) declaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.function("function")
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *parser) mustConsume(t token.Type, message string) token.Token {
	tok, err := p.consume(t, message)
	if err != nil {
		panic(err.(parseError))
	}
	return tok
}

func (p *parser) classDeclaration() ast.Stmt {
	name := p.mustConsume(token.IDENTIFIER, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.LESS) {
		superName := p.mustConsume(token.IDENTIFIER, "Expect superclass name.")
		superclass = &ast.Variable{ExprBase: ast.NewExprBase(p.idgen, superName.Line), Name: superName}
	}

	p.mustConsume(token.LBRACE, "Expect '{' before class body.")

	var methods []*ast.FunctionStmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		m := p.function("method").(*ast.FunctionStmt)
		methods = append(methods, m)
	}

	p.mustConsume(token.RBRACE, "Expect '}' after class body.")

	return &ast.ClassStmt{
		StmtBase:   ast.NewStmtBase(name.Line),
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
	}
}

func (p *parser) function(kind string) ast.Stmt {
	name := p.mustConsume(token.IDENTIFIER, "Expect "+kind+" name.")
	p.mustConsume(token.LPAREN, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) >= maxParams {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			params = append(params, p.mustConsume(token.IDENTIFIER, "Expect parameter name."))
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.mustConsume(token.RPAREN, "Expect ')' after parameters.")

	p.mustConsume(token.LBRACE, "Expect '{' before "+kind+" body.")
	body := p.block()

	return &ast.FunctionStmt{StmtBase: ast.NewStmtBase(name.Line), Name: name, Params: params, Body: body}
}

func (p *parser) varDeclaration() ast.Stmt {
	name := p.mustConsume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.mustConsume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.VarStmt{StmtBase: ast.NewStmtBase(name.Line), Name: name, Initializer: initializer}
}

func (p *parser) statement() ast.Stmt {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LBRACE):
		brace := p.previous()
		return &ast.BlockStmt{StmtBase: ast.NewStmtBase(brace.Line), Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into a while loop
// wrapped in blocks, so the rest of the pipeline never sees a ForStmt node.
func (p *parser) forStatement() ast.Stmt {
	p.mustConsume(token.LPAREN, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.mustConsume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RPAREN) {
		increment = p.expression()
	}
	p.mustConsume(token.RPAREN, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.BlockStmt{
			StmtBase:   ast.NewStmtBase(body.Line()),
			Statements: []ast.Stmt{body, &ast.ExpressionStmt{StmtBase: ast.NewStmtBase(increment.Line()), Expression: increment}},
		}
	}
	if condition == nil {
		condition = &ast.Literal{ExprBase: ast.NewExprBase(p.idgen, body.Line()), Value: true}
	}
	body = &ast.WhileStmt{StmtBase: ast.NewStmtBase(condition.Line()), Condition: condition, Body: body}

	if initializer != nil {
		body = &ast.BlockStmt{StmtBase: ast.NewStmtBase(initializer.Line()), Statements: []ast.Stmt{initializer, body}}
	}
	return body
}

func (p *parser) ifStatement() ast.Stmt {
	ifKeyword := p.previous()
	p.mustConsume(token.LPAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.mustConsume(token.RPAREN, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}
	return &ast.IfStmt{StmtBase: ast.NewStmtBase(ifKeyword.Line), Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *parser) printStatement() ast.Stmt {
	keyword := p.previous()
	value := p.expression()
	p.mustConsume(token.SEMICOLON, "Expect ';' after value.")
	return &ast.PrintStmt{StmtBase: ast.NewStmtBase(keyword.Line), Expression: value}
}

func (p *parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.mustConsume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.ReturnStmt{StmtBase: ast.NewStmtBase(keyword.Line), Keyword: keyword, Value: value}
}

func (p *parser) whileStatement() ast.Stmt {
	whileKeyword := p.previous()
	p.mustConsume(token.LPAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.mustConsume(token.RPAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.WhileStmt{StmtBase: ast.NewStmtBase(whileKeyword.Line), Condition: condition, Body: body}
}

func (p *parser) block() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.mustConsume(token.RBRACE, "Expect '}' after block.")
	return stmts
}

func (p *parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.mustConsume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStmt{StmtBase: ast.NewStmtBase(expr.Line()), Expression: expr}
}

// -------------------------------------------------------------- expressions

func (p *parser) expression() ast.Expr {
	return p.assignment()
}

func (p *parser) assignment() ast.Expr {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{ExprBase: ast.NewExprBase(p.idgen, target.Line()), Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{ExprBase: ast.NewExprBase(p.idgen, target.Line()), Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *parser) or() ast.Expr {
	expr := p.and()
	for p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = p.logical(expr, op, right)
	}
	return expr
}

func (p *parser) and() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = p.logical(expr, op, right)
	}
	return expr
}

func (p *parser) logical(left ast.Expr, op token.Token, right ast.Expr) ast.Expr {
	return &ast.Logical{ExprBase: ast.NewExprBase(p.idgen, left.Line()), Left: left, Operator: op, Right: right}
}

func (p *parser) binary(left ast.Expr, op token.Token, right ast.Expr) ast.Expr {
	return &ast.Binary{ExprBase: ast.NewExprBase(p.idgen, left.Line()), Left: left, Operator: op, Right: right}
}

func (p *parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = p.binary(expr, op, right)
	}
	return expr
}

func (p *parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		op := p.previous()
		right := p.term()
		expr = p.binary(expr, op, right)
	}
	return expr
}

func (p *parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		op := p.previous()
		right := p.factor()
		expr = p.binary(expr, op, right)
	}
	return expr
}

func (p *parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR) {
		op := p.previous()
		right := p.unary()
		expr = p.binary(expr, op, right)
	}
	return expr
}

func (p *parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{ExprBase: ast.NewExprBase(p.idgen, op.Line), Operator: op, Right: right}
	}
	return p.call()
}

func (p *parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LPAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.mustConsume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{ExprBase: ast.NewExprBase(p.idgen, expr.Line()), Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			if len(args) >= maxParams {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.mustConsume(token.RPAREN, "Expect ')' after arguments.")
	return &ast.Call{ExprBase: ast.NewExprBase(p.idgen, callee.Line()), Callee: callee, Paren: paren, Arguments: args}
}

func (p *parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE, token.TRUE, token.NIL, token.NUMBER, token.STRING):
		tok := p.previous()
		return &ast.Literal{ExprBase: ast.NewExprBase(p.idgen, tok.Line), Value: tok.Literal}
	case p.match(token.SUPER):
		keyword := p.previous()
		p.mustConsume(token.DOT, "Expect '.' after 'super'.")
		method := p.mustConsume(token.IDENTIFIER, "Expect superclass method name.")
		return &ast.Super{ExprBase: ast.NewExprBase(p.idgen, keyword.Line), Keyword: keyword, Method: method}
	case p.match(token.THIS):
		tok := p.previous()
		return &ast.This{ExprBase: ast.NewExprBase(p.idgen, tok.Line), Keyword: tok}
	case p.match(token.IDENTIFIER):
		tok := p.previous()
		return &ast.Variable{ExprBase: ast.NewExprBase(p.idgen, tok.Line), Name: tok}
	case p.match(token.LPAREN):
		tok := p.previous()
		expr := p.expression()
		p.mustConsume(token.RPAREN, "Expect ')' after expression.")
		return &ast.Grouping{ExprBase: ast.NewExprBase(p.idgen, tok.Line), Inner: expr}
	}

	panic(p.errorAt(p.peek(), "Expect expression."))
}
