// Package parser turns a Noolang token stream into an internal/ast tree
// using a Pratt (precedence-climbing) parser, in the style of the teacher
// repository's internal/parser package.
package parser

import (
	"fmt"
	"strconv"

	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/errors"
	"github.com/jethrolarson/noolang/internal/lexer"
)

// Parser parses Noolang source code into an AST.
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []error

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// Precedence levels, lowest to highest. Function application by
// juxtaposition (`f x y`) binds tighter than any of these and is handled
// directly in parseApplicable rather than through the infix table.
const (
	LOWEST int = iota
	SEQUENCE
	WHERE
	THRUSH
	PIPELINE
	LOGICALOR
	LOGICALAND
	EQUALS
	COMPARE
	SUM
	PRODUCT
	MUTATE
	ANNOTATION
)

var precedences = map[lexer.TokenType]int{
	lexer.SEMICOLON: SEQUENCE,
	lexer.WHERE:     WHERE,
	lexer.PIPE:      THRUSH,
	lexer.SAFEPIPE:  THRUSH,
	lexer.DOLLAR:    THRUSH,
	lexer.THRUSHR:   PIPELINE,
	lexer.THRUSHL:   PIPELINE,
	lexer.OR:        LOGICALOR,
	lexer.AND:       LOGICALAND,
	lexer.EQ:        EQUALS,
	lexer.NEQ:       EQUALS,
	lexer.LT:        COMPARE,
	lexer.GT:        COMPARE,
	lexer.LTE:       COMPARE,
	lexer.GTE:       COMPARE,
	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.STAR:      PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.BANG:      MUTATE,
	lexer.COLON:     ANNOTATION,
}

// New creates a Parser over l and primes curToken/peekToken.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []error{}}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifierOrWildcard,
		lexer.FLOAT:    p.parseFloatLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.LPAREN:   p.parseGroupedOrTuple,
		lexer.LBRACKET: p.parseListLiteral,
		lexer.LBRACE:   p.parseRecordLiteral,
		lexer.AT:       p.parseAccessor,
		lexer.FN:       p.parseFunction,
		lexer.IF:       p.parseIf,
		lexer.MATCH:    p.parseMatch,
		lexer.MUTABLE:  p.parseMutableDefinition,
		lexer.MINUS:    p.parseUnaryMinus,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.SEMICOLON: p.parseBinary,
		lexer.WHERE:      p.parseWhere,
		lexer.PIPE:       p.parseBinary,
		lexer.SAFEPIPE:   p.parseBinary,
		lexer.DOLLAR:     p.parseBinary,
		lexer.THRUSHR:    p.parsePipeline,
		lexer.THRUSHL:    p.parsePipeline,
		lexer.OR:         p.parseBinary,
		lexer.AND:        p.parseBinary,
		lexer.EQ:         p.parseBinary,
		lexer.NEQ:        p.parseBinary,
		lexer.LT:         p.parseBinary,
		lexer.GT:         p.parseBinary,
		lexer.LTE:        p.parseBinary,
		lexer.GTE:        p.parseBinary,
		lexer.PLUS:       p.parseBinary,
		lexer.MINUS:      p.parseBinary,
		lexer.STAR:       p.parseBinary,
		lexer.SLASH:      p.parseBinary,
		lexer.BANG:       p.parseBinary,
		lexer.COLON:      p.parseAnnotation,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []error {
	return p.errors
}

// ParseProgram parses a sequence of top-level statements. Each statement is
// parsed with a SEQUENCE precedence floor (see parseTopLevelExprOrDefinition
// and parseDefinition) so a trailing `;` is left for this loop to consume as
// a statement separator rather than being folded into the statement itself
// by the generic `;` infix operator.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.curPos()}
	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseTopLevel()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken() // move onto ';'
		}
		if p.curTokenIs(lexer.EOF) {
			break
		}
		p.nextToken()
	}
	return prog
}

func (p *Parser) parseTopLevel() ast.Node {
	switch p.curToken.Type {
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.CONSTRAINT:
		return p.parseTraitDecl()
	case lexer.IMPLEMENT:
		return p.parseImplDecl()
	case lexer.IMPORT:
		return p.parseImport()
	default:
		return p.parseTopLevelExprOrDefinition()
	}
}

// parseTopLevelExprOrDefinition handles `name = expr` (a Definition),
// `name : Type = expr` (an annotated Definition), and plain expression
// statements, since all three start with an expression prefix and only
// diverge once `=` or `:` is seen. The statement itself is parsed with a
// SEQUENCE floor so it stops before a trailing `;` statement separator
// instead of absorbing it as the generic sequencing operator.
func (p *Parser) parseTopLevelExprOrDefinition() ast.Node {
	if p.curTokenIs(lexer.IDENT) && (p.peekTokenIs(lexer.ASSIGN) || p.peekTokenIs(lexer.COLON)) {
		return p.parseDefinition(false)
	}
	return p.parseExpression(SEQUENCE)
}

// parseDefinition handles `name = value` and the annotated form
// `name : Type [given (...)] = value`, wrapping the value in a Typed (or
// Constrained, when `given` is present) node so the type checker's generic
// Typed/Constrained handling picks up the annotation.
func (p *Parser) parseDefinition(mutable bool) ast.Expr {
	startPos := p.curPos()
	name := p.curToken.Literal
	p.nextToken() // consume IDENT, now at ':' or '='

	if p.curTokenIs(lexer.COLON) {
		annPos := p.curPos()
		p.nextToken() // move to the type
		typeExpr := p.parseTypeExpr()

		if p.peekTokenIs(lexer.GIVEN) {
			p.nextToken() // consume GIVEN
			p.expectPeek(lexer.LPAREN, errors.PAR002)
			p.nextToken()
			constraints := p.parseConstraintExprList()
			p.expectPeek(lexer.RPAREN, errors.PAR002)
			p.expectPeek(lexer.ASSIGN, errors.PAR001)
			p.nextToken() // move to start of value
			value := p.parseExpression(SEQUENCE)
			return &ast.Definition{
				Name:    name,
				Mutable: mutable,
				Value:   &ast.Constrained{Expr: value, Annotation: typeExpr, Constraints: constraints, Pos: annPos},
				Pos:     startPos,
			}
		}

		if !mutable && !p.peekTokenIs(lexer.ASSIGN) {
			// `name : Type` with no `=` is a plain annotation `expr : T`.
			return &ast.Typed{Expr: &ast.Variable{Name: name, Pos: startPos}, Annotation: typeExpr, Pos: annPos}
		}
		p.expectPeek(lexer.ASSIGN, errors.PAR001)
		p.nextToken() // move to start of value
		value := p.parseExpression(SEQUENCE)
		return &ast.Definition{
			Name:    name,
			Mutable: mutable,
			Value:   &ast.Typed{Expr: value, Annotation: typeExpr, Pos: annPos},
			Pos:     startPos,
		}
	}

	p.nextToken() // consume ASSIGN, now at start of value
	value := p.parseExpression(SEQUENCE)
	return &ast.Definition{Name: name, Mutable: mutable, Value: value, Pos: startPos}
}

func (p *Parser) parseMutableDefinition() ast.Expr {
	p.nextToken() // consume 'mutable'
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR001, "expected identifier after 'mutable'")
		return nil
	}
	return p.parseDefinition(true)
}

// parseExpression is the Pratt entry point: parse one "applicable" term,
// then repeatedly fold in infix operators whose precedence exceeds the
// caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parseApplicable()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseApplicable parses one atom, then greedily consumes further atoms as
// curried application arguments (spec.md §4.4 `application`): `f a b`
// parses as Application{Func: f, Args: [a, b]}, binding tighter than any
// binary operator.
func (p *Parser) parseApplicable() ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	fn := prefix()
	if fn == nil {
		return nil
	}

	var args []ast.Expr
	for p.canStartArgument(p.peekToken.Type) {
		p.nextToken()
		arg := p.prefixParseFns[p.curToken.Type]()
		if arg == nil {
			break
		}
		args = append(args, arg)
	}
	if len(args) == 0 {
		return fn
	}
	return &ast.Application{Func: fn, Args: args, Pos: fn.Position()}
}

func (p *Parser) canStartArgument(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.FLOAT, lexer.STRING, lexer.LPAREN, lexer.LBRACKET,
		lexer.LBRACE, lexer.AT, lexer.FN:
		return true
	default:
		return false
	}
}

// Prefix parsers.

func (p *Parser) parseIdentifierOrWildcard() ast.Expr {
	if p.curToken.Literal == "_" {
		return &ast.Wildcard{Pos: p.curPos()}
	}
	return &ast.Variable{Name: p.curToken.Literal, Pos: p.curPos()}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorAt(errors.PAR001, fmt.Sprintf("invalid number literal %q", p.curToken.Literal))
		return nil
	}
	return &ast.Literal{Kind: ast.FloatLit, Value: v, Pos: p.curPos()}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	return &ast.Literal{Kind: ast.StringLit, Value: p.curToken.Literal, Pos: p.curPos()}
}

func (p *Parser) parseUnaryMinus() ast.Expr {
	startPos := p.curPos()
	p.nextToken()
	operand := p.parseApplicable()
	return &ast.Application{
		Func: &ast.Variable{Name: "-", Pos: startPos},
		Args: []ast.Expr{&ast.Literal{Kind: ast.FloatLit, Value: float64(0), Pos: startPos}, operand},
		Pos:  startPos,
	}
}

func (p *Parser) parseGroupedOrTuple() ast.Expr {
	startPos := p.curPos()
	p.nextToken() // consume '('

	if p.curTokenIs(lexer.RPAREN) {
		return &ast.TupleLit{Pos: startPos}
	}

	first := p.parseExpression(LOWEST)
	if p.peekTokenIs(lexer.COMMA) {
		tuple := &ast.TupleLit{Elements: []ast.Expr{first}, Pos: startPos}
		for p.peekTokenIs(lexer.COMMA) {
			p.nextToken() // consume ','
			p.nextToken() // move to next element
			tuple.Elements = append(tuple.Elements, p.parseExpression(LOWEST))
		}
		p.expectPeek(lexer.RPAREN, errors.PAR002)
		return tuple
	}

	p.expectPeek(lexer.RPAREN, errors.PAR002)
	return first
}

func (p *Parser) parseListLiteral() ast.Expr {
	startPos := p.curPos()
	list := &ast.ListLit{Pos: startPos}
	p.nextToken() // consume '['

	for !p.curTokenIs(lexer.RBRACKET) && !p.curTokenIs(lexer.EOF) {
		list.Elements = append(list.Elements, p.parseExpression(LOWEST))
		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACKET, errors.PAR002)
	return list
}

func (p *Parser) parseRecordLiteral() ast.Expr {
	startPos := p.curPos()
	rec := &ast.RecordLit{Pos: startPos}
	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.AT) {
			p.errorAt(errors.PAR001, "expected '@field' in record literal")
			return nil
		}
		fieldPos := p.curPos()
		p.nextToken() // consume '@'
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR001, "expected field name after '@'")
			return nil
		}
		name := p.curToken.Literal
		p.nextToken() // move to value
		value := p.parseExpression(LOWEST)
		rec.Fields = append(rec.Fields, &ast.RecordField{Name: name, Value: value, Pos: fieldPos})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE, errors.PAR002)
	return rec
}

func (p *Parser) parseAccessor() ast.Expr {
	startPos := p.curPos()
	p.nextToken() // consume '@'
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR001, "expected field name after '@'")
		return nil
	}
	name := p.curToken.Literal
	optional := false
	if p.peekTokenIs(lexer.QUESTION) {
		p.nextToken()
		optional = true
	}
	return &ast.Accessor{Field: name, Optional: optional, Pos: startPos}
}

func (p *Parser) parseFunction() ast.Expr {
	startPos := p.curPos()
	p.nextToken() // consume 'fn'

	var params []*ast.Param
	for p.curTokenIs(lexer.IDENT) {
		params = append(params, &ast.Param{Name: p.curToken.Literal, Pos: p.curPos()})
		p.nextToken()
	}
	if !p.curTokenIs(lexer.FARROW) {
		p.errorAt(errors.PAR003, "expected '=>' after function parameters")
		return nil
	}
	p.nextToken() // consume '=>'
	// SEQUENCE floor: a bare function body stops before a `;` that belongs
	// to an enclosing statement list (top-level program, where-block,
	// match arm); write `fn x => (a; b)` to sequence inside the body.
	body := p.parseExpression(SEQUENCE)
	return &ast.Function{Params: params, Body: body, Pos: startPos}
}

func (p *Parser) parseIf() ast.Expr {
	startPos := p.curPos()
	p.nextToken() // consume 'if'
	cond := p.parseExpression(SEQUENCE)
	p.expectPeek(lexer.THEN, errors.PAR001)
	p.nextToken()
	then := p.parseExpression(SEQUENCE)
	p.expectPeek(lexer.ELSE, errors.PAR001)
	p.nextToken()
	els := p.parseExpression(SEQUENCE)
	return &ast.If{Condition: cond, Then: then, Else: els, Pos: startPos}
}

func (p *Parser) parseMatch() ast.Expr {
	startPos := p.curPos()
	p.nextToken() // consume 'match'
	scrutinee := p.parseExpression(LOWEST)
	p.expectPeek(lexer.WITH, errors.PAR001)
	p.expectPeek(lexer.LPAREN, errors.PAR002)
	p.nextToken() // move to first pattern

	match := &ast.Match{Scrutinee: scrutinee, Pos: startPos}
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		casePos := p.curPos()
		pat := p.parsePattern()
		p.expectPeek(lexer.FARROW, errors.PAR001)
		p.nextToken()
		// SEQUENCE floor: stop before the `;` that separates this arm
		// from the next one, which the loop below consumes explicitly.
		body := p.parseExpression(SEQUENCE)
		match.Cases = append(match.Cases, &ast.Case{Pattern: pat, Body: body, Pos: casePos})

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN, errors.PAR002)
	return match
}

// parseWhere handles `body where (def1; def2; ...)` (spec.md §4.4 `where`).
func (p *Parser) parseWhere(body ast.Expr) ast.Expr {
	startPos := p.curPos()
	p.expectPeek(lexer.LPAREN, errors.PAR002)
	p.nextToken() // move to first definition

	w := &ast.Where{Body: body, Pos: startPos}
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		mutable := false
		if p.curTokenIs(lexer.MUTABLE) {
			mutable = true
			p.nextToken()
		}
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR001, "expected definition in where-block")
			break
		}
		def, ok := p.parseDefinition(mutable).(*ast.Definition)
		if !ok {
			p.errorAt(errors.PAR001, "expected definition in where-block")
			break
		}
		w.Defs = append(w.Defs, def)

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN, errors.PAR002)
	return w
}

// Infix parsers.

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	pos := p.curPos()
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinaryOp{Op: op, Left: left, Right: right, Pos: pos}
}

// parsePipeline folds a chain of `|>`/`<|` into a single Pipeline node
// (spec.md §4.4 `pipeline`), collecting every stage at the same precedence
// level rather than nesting BinaryOp pairs.
func (p *Parser) parsePipeline(left ast.Expr) ast.Expr {
	startPos := p.curPos()
	reverse := p.curTokenIs(lexer.THRUSHL)
	op := p.curToken.Type
	stages := []ast.Expr{left}

	for {
		p.nextToken()
		stages = append(stages, p.parseExpression(PIPELINE))
		if p.peekToken.Type != op {
			break
		}
		p.nextToken()
	}
	return &ast.Pipeline{Stages: stages, Reverse: reverse, Pos: startPos}
}

// parseAnnotation handles `expr : Type` and `expr : Type given (...)`
// (spec.md §4.4 `typed`/`constrained`).
func (p *Parser) parseAnnotation(left ast.Expr) ast.Expr {
	startPos := p.curPos()
	p.nextToken() // move to the type
	typeExpr := p.parseTypeExpr()

	if p.peekTokenIs(lexer.GIVEN) {
		p.nextToken() // consume GIVEN
		p.expectPeek(lexer.LPAREN, errors.PAR002)
		p.nextToken()
		constraints := p.parseConstraintExprList()
		p.expectPeek(lexer.RPAREN, errors.PAR002)
		return &ast.Constrained{Expr: left, Annotation: typeExpr, Constraints: constraints, Pos: startPos}
	}
	return &ast.Typed{Expr: left, Annotation: typeExpr, Pos: startPos}
}

// Utility functions.

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType, code string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorAtPeek(code, fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type))
	return false
}

func (p *Parser) curPos() ast.Pos {
	return ast.Pos{Line: p.curToken.Line, Column: p.curToken.Column, File: p.curToken.File}
}

func (p *Parser) peekPos() ast.Pos {
	return ast.Pos{Line: p.peekToken.Line, Column: p.peekToken.Column, File: p.peekToken.File}
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorAt(code, message string) {
	p.errors = append(p.errors, errors.WrapReport(errors.New(code, "parser", p.curPos(), message)))
}

func (p *Parser) errorAtPeek(code, message string) {
	p.errors = append(p.errors, errors.WrapReport(errors.New(code, "parser", p.peekPos(), message)))
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	p.errorAt(errors.PAR001, fmt.Sprintf("no prefix parse function for %s", t))
}
