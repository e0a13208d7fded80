package parser

import (
	"github.com/jethrolarson/noolang/internal/ast"
	"github.com/jethrolarson/noolang/internal/errors"
	"github.com/jethrolarson/noolang/internal/lexer"
)

// parseTypeDecl parses `type Name p1 p2 = Ctor1 T1 | Ctor2 | ...`
// (spec.md §4.4 `typeDecl`).
func (p *Parser) parseTypeDecl() ast.Node {
	startPos := p.curPos()
	p.nextToken() // consume 'type'
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR004, "expected a type name after 'type'")
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	var params []string
	for p.curTokenIs(lexer.IDENT) {
		params = append(params, p.curToken.Literal)
		p.nextToken()
	}
	if !p.curTokenIs(lexer.ASSIGN) {
		p.errorAt(errors.PAR004, "expected '=' in type declaration")
		return nil
	}
	p.nextToken() // consume '='

	decl := &ast.TypeDecl{Name: name, Params: params, Pos: startPos}
	for {
		ctor := p.parseConstructorDef()
		if ctor == nil {
			break
		}
		decl.Constructors = append(decl.Constructors, ctor)
		if p.peekTokenIs(lexer.PIPE) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return decl
}

func (p *Parser) parseConstructorDef() *ast.ConstructorDef {
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR004, "expected a constructor name")
		return nil
	}
	pos := p.curPos()
	name := p.curToken.Literal
	var args []ast.TypeExpr
	for p.canStartTypeArg(p.peekToken.Type) {
		p.nextToken()
		args = append(args, p.parseTypeAtom())
	}
	return &ast.ConstructorDef{Name: name, Args: args, Pos: pos}
}

// parseTraitDecl parses `constraint TraitName a (fn1: T1; fn2: T2)`
// (spec.md §4.4 `traitDecl`).
func (p *Parser) parseTraitDecl() ast.Node {
	startPos := p.curPos()
	p.nextToken() // consume 'constraint'
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR008, "expected a trait name")
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR008, "expected the trait's type parameter")
		return nil
	}
	typeParam := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(lexer.LPAREN) {
		p.errorAt(errors.PAR008, "expected '(' to start the trait body")
		return nil
	}
	p.nextToken() // consume '('

	decl := &ast.TraitDecl{Name: name, TypeParam: typeParam, Pos: startPos}
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR008, "expected a function signature")
			break
		}
		fname := p.curToken.Literal
		p.nextToken()
		if !p.curTokenIs(lexer.COLON) {
			p.errorAt(errors.PAR008, "expected ':' after function name")
			break
		}
		p.nextToken() // consume ':'
		ftype := p.parseTypeExpr()
		decl.Functions = append(decl.Functions, ast.TraitFunctionSig{Name: fname, Type: ftype})

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN, errors.PAR008)
	return decl
}

// parseImplDecl parses `implement TraitName TypeName (fn1 = expr1; ...)
// [given a implements Other]` (spec.md §4.4 `implDecl`).
func (p *Parser) parseImplDecl() ast.Node {
	startPos := p.curPos()
	p.nextToken() // consume 'implement'
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR008, "expected a trait name")
		return nil
	}
	trait := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(lexer.IDENT) {
		p.errorAt(errors.PAR008, "expected a type name")
		return nil
	}
	typeName := p.curToken.Literal
	p.nextToken()
	if !p.curTokenIs(lexer.LPAREN) {
		p.errorAt(errors.PAR008, "expected '(' to start the implementation body")
		return nil
	}
	p.nextToken() // consume '('

	decl := &ast.ImplDecl{Trait: trait, TypeName: typeName, Pos: startPos}
	for !p.curTokenIs(lexer.RPAREN) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR008, "expected a function name")
			break
		}
		fname := p.curToken.Literal
		p.nextToken()
		if !p.curTokenIs(lexer.ASSIGN) {
			p.errorAt(errors.PAR008, "expected '=' after function name")
			break
		}
		p.nextToken() // consume '='
		// SEQUENCE floor: stop before the ';' that separates this
		// function from the next one in the implementation body.
		value := p.parseExpression(SEQUENCE)
		decl.Functions = append(decl.Functions, ast.ImplFunctionDef{Name: fname, Value: value})

		if p.peekTokenIs(lexer.SEMICOLON) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(lexer.RPAREN, errors.PAR008)

	if p.peekTokenIs(lexer.GIVEN) {
		p.nextToken() // consume 'given'
		p.nextToken() // move to the type parameter name (only the trait name matters downstream)
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR008, "expected a type parameter in the given-clause")
			return decl
		}
		p.nextToken() // move to 'implements'
		if !p.curTokenIs(lexer.IDENT) || p.curToken.Literal != "implements" {
			p.errorAt(errors.PAR008, "expected 'implements' in the given-clause")
			return decl
		}
		p.nextToken() // move to the other trait's name
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR008, "expected a trait name in the given-clause")
			return decl
		}
		decl.GivenConstraint = &ast.ImplementsConstraint{Trait: p.curToken.Literal, Pos: p.curPos()}
	}
	return decl
}

// parseImport parses `import "path"` (spec.md §4.4 `import`).
func (p *Parser) parseImport() ast.Node {
	startPos := p.curPos()
	p.nextToken() // consume 'import'
	if !p.curTokenIs(lexer.STRING) {
		p.errorAt(errors.PAR005, "expected a string literal path after 'import'")
		return nil
	}
	return &ast.Import{Path: p.curToken.Literal, Pos: startPos}
}

// parseConstraintExprList parses the comma-separated body of a
// `given (...)` clause attached to a `: Type` annotation.
func (p *Parser) parseConstraintExprList() []ast.ConstraintExpr {
	var list []ast.ConstraintExpr
	list = append(list, p.parseConstraintExpr())
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseConstraintExpr())
	}
	return list
}

func (p *Parser) parseConstraintExpr() ast.ConstraintExpr {
	left := p.parseConstraintAtom()
	for p.peekTokenIs(lexer.AND) || p.peekTokenIs(lexer.OR) {
		isAnd := p.peekTokenIs(lexer.AND)
		pos := p.peekPos()
		p.nextToken() // consume 'and'/'or'
		p.nextToken() // move to the next operand
		right := p.parseConstraintAtom()
		if isAnd {
			left = &ast.AndConstraint{Left: left, Right: right, Pos: pos}
		} else {
			left = &ast.OrConstraint{Left: left, Right: right, Pos: pos}
		}
	}
	return left
}

func (p *Parser) parseConstraintAtom() ast.ConstraintExpr {
	pos := p.curPos()
	switch {
	case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "implements":
		p.nextToken() // move to the trait name
		return &ast.ImplementsConstraint{Trait: p.curToken.Literal, Pos: pos}
	case p.curTokenIs(lexer.IDENT) && p.curToken.Literal == "has":
		p.nextToken() // move to '{'
		return p.parseHasFieldConstraint(pos)
	case p.curTokenIs(lexer.LPAREN):
		p.nextToken()
		inner := p.parseConstraintExpr()
		p.expectPeek(lexer.RPAREN, errors.PAR008)
		return inner
	default:
		p.errorAt(errors.PAR008, "expected 'implements', 'has', or a parenthesized constraint")
		return nil
	}
}

func (p *Parser) parseHasFieldConstraint(pos ast.Pos) ast.ConstraintExpr {
	if !p.curTokenIs(lexer.LBRACE) {
		p.errorAt(errors.PAR008, "expected '{' after 'has'")
		return nil
	}
	fields := map[string]ast.TypeExpr{}
	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		if !p.curTokenIs(lexer.IDENT) {
			p.errorAt(errors.PAR008, "expected a field name")
			break
		}
		name := p.curToken.Literal
		p.nextToken()
		if !p.curTokenIs(lexer.COLON) {
			p.errorAt(errors.PAR008, "expected ':' after field name")
			break
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
	p.expectPeek(lexer.RBRACE, errors.PAR008)
	return &ast.HasFieldConstraint{Fields: fields, Pos: pos}
}
