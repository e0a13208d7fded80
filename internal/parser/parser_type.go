package parser

import (
	"fmt"

	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/errors"
	"github.com/jethrolarson/noolang/internal/lexer"
)

// parseTypeExpr parses a surface type annotation, including curried
// function types `T1 -> T2 -> ... -> R` (spec.md §4.4 `typeExpr`).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	first := p.parseTypeApplication()
	if first == nil {
		return nil
	}
	if !p.peekTokenIs(lexer.ARROW) {
		return first
	}

	startPos := first.Position()
	params := []ast.TypeExpr{first}
	for p.peekTokenIs(lexer.ARROW) {
		p.nextToken() // consume '->'
		p.nextToken() // move to next operand
		params = append(params, p.parseTypeApplication())
	}
	ret := params[len(params)-1]
	return &ast.FuncTypeExpr{Params: params[:len(params)-1], Return: ret, Pos: startPos}
}

// parseTypeApplication parses a type atom followed by juxtaposed type
// arguments, e.g. `Option a` or `Result e a`.
func (p *Parser) parseTypeApplication() ast.TypeExpr {
	atom := p.parseTypeAtom()
	if atom == nil {
		return nil
	}
	name, ok := atom.(*ast.TypeName)
	if !ok {
		return atom
	}
	for p.canStartTypeArg(p.peekToken.Type) {
		p.nextToken()
		arg := p.parseTypeAtom()
		if arg == nil {
			break
		}
		name.Args = append(name.Args, arg)
	}
	return name
}

func (p *Parser) canStartTypeArg(t lexer.TokenType) bool {
	switch t {
	case lexer.IDENT, lexer.LBRACE, lexer.LPAREN:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	switch p.curToken.Type {
	case lexer.IDENT:
		return &ast.TypeName{Name: p.curToken.Literal, Pos: p.curPos()}
	case lexer.LBRACE:
		return p.parseRecordTypeExpr()
	case lexer.LPAREN:
		p.nextToken() // consume '('
		inner := p.parseTypeExpr()
		p.expectPeek(lexer.RPAREN, errors.PAR007)
		return inner
	default:
		p.errorAt(errors.PAR007, fmt.Sprintf("expected a type, got %s", p.curToken.Type))
		return nil
	}
}

func (p *Parser) parseRecordTypeExpr() ast.TypeExpr {
	startPos := p.curPos()
	fields := map[string]ast.TypeExpr{}
	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR007, "expected field name in record type")
			return nil
		}
		name := p.curToken.Literal
		p.nextToken()
		if !p.curTokenIs(lexer.COLON) {
			p.errorAt(errors.PAR007, "expected ':' after field name")
			return nil
		}
		p.nextToken() // consume ':'
		fields[name] = p.parseTypeExpr()

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RBRACE, errors.PAR007)
	return &ast.RecordTypeExpr{Fields: fields, Pos: startPos}
}
