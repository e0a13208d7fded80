package parser

import (
	"fmt"
	"strconv"

	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/errors"
	"github.com/jethrolarson/noolang/internal/lexer"
)

// parsePattern parses one match-case pattern (spec.md §4.4 `pattern`):
// wildcard, variable binding, literal, constructor application, tuple, or
// record destructuring.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.curToken.Type {
	case lexer.IDENT:
		name := p.curToken.Literal
		pos := p.curPos()
		if name == "_" {
			return &ast.Wildcard{Pos: pos}
		}
		if !isUpperIdent(name) {
			return &ast.Variable{Name: name, Pos: pos}
		}
		ctor := &ast.ConstructorPattern{Name: name, Pos: pos}
		for p.canStartPatternArg(p.peekToken.Type) {
			p.nextToken()
			arg := p.parsePatternAtom()
			if arg == nil {
				break
			}
			ctor.Args = append(ctor.Args, arg)
		}
		return ctor
	case lexer.FLOAT:
		v, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.errorAt(errors.PAR006, fmt.Sprintf("invalid number literal %q", p.curToken.Literal))
			return nil
		}
		return &ast.Literal{Kind: ast.FloatLit, Value: v, Pos: p.curPos()}
	case lexer.STRING:
		return &ast.Literal{Kind: ast.StringLit, Value: p.curToken.Literal, Pos: p.curPos()}
	case lexer.LPAREN:
		return p.parseTuplePattern()
	case lexer.LBRACE:
		return p.parseRecordPattern()
	default:
		p.errorAt(errors.PAR006, fmt.Sprintf("expected a pattern, got %s", p.curToken.Type))
		return nil
	}
}

// parsePatternAtom parses a single constructor-argument pattern: a nested
// constructor application must be parenthesized (`Some (Some x)`), matching
// the same atom/application split used for expressions and types.
func (p *Parser) parsePatternAtom() ast.Pattern {
	switch p.curToken.Type {
	case lexer.IDENT:
		name := p.curToken.Literal
		if name == "_" {
			return &ast.Wildcard{Pos: p.curPos()}
		}
		if isUpperIdent(name) {
			return &ast.ConstructorPattern{Name: name, Pos: p.curPos()}
		}
		return &ast.Variable{Name: name, Pos: p.curPos()}
	case lexer.FLOAT, lexer.STRING, lexer.LPAREN, lexer.LBRACE:
		return p.parsePattern()
	default:
		return nil
	}
}

func (p *Parser) canStartPatternArg(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.FLOAT, lexer.STRING, lexer.LPAREN, lexer.LBRACE:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTuplePattern() ast.Pattern {
	startPos := p.curPos()
	p.nextToken() // consume '('
	first := p.parsePattern()

	if !p.peekTokenIs(lexer.COMMA) {
		p.expectPeek(lexer.RPAREN, errors.PAR006)
		return first
	}

	tup := &ast.TuplePattern{Elements: []ast.Pattern{first}, Pos: startPos}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		tup.Elements = append(tup.Elements, p.parsePattern())
	}
	p.expectPeek(lexer.RPAREN, errors.PAR006)
	return tup
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	startPos := p.curPos()
	pat := &ast.RecordPattern{Pos: startPos}
	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.AT) {
			p.errorAt(errors.PAR006, "expected '@field' in record pattern")
			return nil
		}
		p.nextToken() // consume '@'
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR006, "expected field name after '@'")
			return nil
		}
		name := p.curToken.Literal
		p.nextToken()
		fieldPat := p.parsePattern()
		pat.Fields = append(pat.Fields, ast.RecordPatternField{Name: name, Pattern: fieldPat})

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE, errors.PAR006)
	return pat
}

func isUpperIdent(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}
