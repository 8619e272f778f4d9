package parser

import (
	"strconv"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/token"
)

// parseExpression is the entry point for every expression context: function
// bodies, let-binding values, match-arm bodies, if/while/for bodies. It
// starts at assignment, the lowest-precedence form.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment handles `target = value`, right-associative and lower
// precedence than every binary operator, mirroring the grammar reasoning
// that an Assign's value may itself be any expression including another
// assignment.
func (p *Parser) parseAssignment() ast.Expression {
	left := p.parseOr()
	if tok, ok := p.accept(token.ASSIGN); ok {
		value := p.parseAssignment()
		return &ast.Assign{Base: ast.Base{Tok: tok}, Target: left, Value: value}
	}
	return left
}

func (p *Parser) parseOr() ast.Expression {
	left := p.parseAnd()
	for p.at(token.PIPE_PIPE) {
		tok := p.advance()
		right := p.parseAnd()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: "||", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expression {
	left := p.parseEquality()
	for p.at(token.AMP_AMP) {
		tok := p.advance()
		right := p.parseEquality()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: "&&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.at(token.EQ) || p.at(token.NEQ) {
		tok := p.advance()
		op := "=="
		if tok.Type == token.NEQ {
			op = "!="
		}
		right := p.parseComparison()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	for p.at(token.LT) || p.at(token.LTE) || p.at(token.GT) || p.at(token.GTE) {
		tok := p.advance()
		right := p.parseAdditive()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		tok := p.advance()
		right := p.parseMultiplicative()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		tok := p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Base: ast.Base{Tok: tok}, Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Type {
	case token.MINUS:
		tok := p.advance()
		return &ast.Unary{Base: ast.Base{Tok: tok}, Op: "-", Operand: p.parseUnary()}
	case token.BANG:
		tok := p.advance()
		return &ast.Unary{Base: ast.Base{Tok: tok}, Op: "!", Operand: p.parseUnary()}
	case token.AMP:
		tok := p.advance()
		return &ast.AddressOf{Base: ast.Base{Tok: tok}, Operand: p.parseUnary()}
	case token.NEW:
		tok := p.advance()
		return &ast.New{Base: ast.Base{Tok: tok}, Operand: p.parseUnary()}
	case token.DELETE:
		tok := p.advance()
		return &ast.Delete{Base: ast.Base{Tok: tok}, Operand: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles the left-recursive suffixes on a primary expression:
// `.name` (member access, later desugared by the checker into a method call
// when followed by a call) and `(args...)` (a call on whatever precedes it).
func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch p.cur().Type {
		case token.DOT:
			tok := p.advance()
			name := p.expect(token.IDENT).Lexeme
			expr = &ast.MemberAccess{Base: ast.Base{Tok: tok}, Target: expr, Name: name}
		case token.LPAREN:
			tok := p.advance()
			var args []ast.Expression
			if !p.at(token.RPAREN) {
				args = append(args, p.parseExpression())
				for {
					if _, ok := p.accept(token.COMMA); !ok {
						break
					}
					args = append(args, p.parseExpression())
				}
			}
			p.expect(token.RPAREN)
			expr = &ast.Call{Base: ast.Base{Tok: tok}, Callee: expr, Args: args}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{Tok: tok}, Value: tok.Type == token.TRUE}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Base: ast.Base{Tok: tok}, Value: tok.Lexeme}
	case token.CHAR:
		p.advance()
		r := rune(0)
		for _, c := range tok.Lexeme {
			r = c
			break
		}
		return &ast.CharLiteral{Base: ast.Base{Tok: tok}, Value: r}
	case token.NIL:
		p.advance()
		return &ast.NilLiteral{Base: ast.Base{Tok: tok}}
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseAnonStructLiteral()
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return inner
	case token.LET:
		return p.parseBindingExpression()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseForIn()
	case token.MATCH:
		return p.parseMatch()
	case token.FN:
		return p.parseLambda()
	case token.CAST:
		return p.parseCast()
	case token.IDENT:
		return p.parseIdentOrStructInit()
	case token.DOT:
		return p.parseBareCaseInit()
	default:
		p.errorf("unexpected token %v %q in expression", tok.Type, tok.Lexeme)
		p.advance()
		return &ast.NilLiteral{Base: ast.Base{Tok: tok}}
	}
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.advance()
	n, _ := strconv.ParseInt(tok.Lexeme, 10, 64)
	return &ast.IntLiteral{Base: ast.Base{Tok: tok}, Value: n}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.advance()
	f, _ := strconv.ParseFloat(tok.Lexeme, 64)
	return &ast.FloatLiteral{Base: ast.Base{Tok: tok}, Value: f}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.expect(token.LBRACKET)
	var elems []ast.Expression
	if !p.at(token.RBRACKET) {
		elems = append(elems, p.parseExpression())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			elems = append(elems, p.parseExpression())
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLiteral{Base: ast.Base{Tok: tok}, Elements: elems}
}

func (p *Parser) parseAnonStructLiteral() ast.Expression {
	tok := p.expect(token.LBRACE)
	var fields []ast.FieldInit
	if !p.at(token.RBRACE) {
		fields = append(fields, p.parseFieldInit())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			fields = append(fields, p.parseFieldInit())
		}
	}
	p.expect(token.RBRACE)
	return &ast.AnonStructLiteral{Base: ast.Base{Tok: tok}, Fields: fields}
}

func (p *Parser) parseFieldInit() ast.FieldInit {
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	return ast.FieldInit{Name: name, Value: p.parseExpression()}
}

// parseIdentOrStructInit resolves the ambiguity between a plain name
// reference (possibly `module::symbol`) and a struct/sum-case initializer
// (`Point{1, 2}` for a plain struct, `Shape.Circle{1}` for a sum case named
// through its declared sum type), which is unambiguous only once the parser
// has seen whether a `{` (optionally after `.Case`) immediately follows.
func (p *Parser) parseIdentOrStructInit() ast.Expression {
	tok := p.advance()
	name := tok.Lexeme
	if _, ok := p.accept(token.COLONCOLON); ok {
		name = name + "::" + p.expect(token.IDENT).Lexeme
	}

	caseName := ""
	if p.at(token.DOT) && p.peek().Type == token.IDENT {
		save := p.pos
		p.advance()
		candidate := p.advance().Lexeme
		if p.at(token.LBRACE) {
			caseName = candidate
		} else {
			p.pos = save
		}
	}

	if p.at(token.LBRACE) {
		braceTok := p.advance()
		args := p.parseStructInitArgs()
		return &ast.StructInit{Base: ast.Base{Tok: braceTok}, TypeName: name, CaseName: caseName, Args: args}
	}

	return &ast.NameRef{Base: ast.Base{Tok: tok}, Name: name}
}

// parseBareCaseInit implements the bare `.Circle{1}` form: a sum case
// written with no declared type name, resolved by the checker against a
// hinted sum type.
func (p *Parser) parseBareCaseInit() ast.Expression {
	p.expect(token.DOT)
	caseName := p.expect(token.IDENT).Lexeme
	braceTok := p.expect(token.LBRACE)
	args := p.parseStructInitArgs()
	return &ast.StructInit{Base: ast.Base{Tok: braceTok}, TypeName: "", CaseName: caseName, Args: args}
}

func (p *Parser) parseStructInitArgs() []ast.Expression {
	var args []ast.Expression
	if !p.at(token.RBRACE) {
		args = append(args, p.parseExpression())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			args = append(args, p.parseExpression())
		}
	}
	p.expect(token.RBRACE)
	return args
}

func (p *Parser) parseBindingExpression() ast.Expression {
	tok := p.expect(token.LET)
	var bindings []ast.BindingClause
	bindings = append(bindings, p.parseBindingClause())
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		bindings = append(bindings, p.parseBindingClause())
	}
	p.expect(token.IN)
	body := p.parseExpression()
	return &ast.BindingExpression{Base: ast.Base{Tok: tok}, Bindings: bindings, Body: body}
}

func (p *Parser) parseBindingClause() ast.BindingClause {
	if p.at(token.LBRACE) {
		p.advance()
		var fields []string
		if !p.at(token.RBRACE) {
			fields = append(fields, p.expect(token.IDENT).Lexeme)
			for {
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				fields = append(fields, p.expect(token.IDENT).Lexeme)
			}
		}
		p.expect(token.RBRACE)
		p.expect(token.ASSIGN) // ":-" lexes as ASSIGN, same as "="
		value := p.parseExpression()
		return &ast.StructDestructureBinding{Fields: fields, Value: value}
	}

	mutable := false
	if _, ok := p.accept(token.MUT); ok {
		mutable = true
	}
	name := p.expect(token.IDENT).Lexeme
	var ann ast.TypeExpr
	if _, ok := p.accept(token.COLON); ok {
		ann = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpression()
	return &ast.SimpleBinding{Name: name, Mutable: mutable, TypeAnnotation: ann, Value: value}
}

func (p *Parser) parseIf() ast.Expression {
	tok := p.expect(token.IF)
	cond := p.parseExpression()
	p.expect(token.THEN)
	then := p.parseExpression()
	var els ast.Expression
	if _, ok := p.accept(token.ELSE); ok {
		els = p.parseExpression()
	}
	return &ast.If{Base: ast.Base{Tok: tok}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhile() ast.Expression {
	tok := p.expect(token.WHILE)
	cond := p.parseExpression()
	p.expect(token.THEN)
	body := p.parseExpression()
	return &ast.While{Base: ast.Base{Tok: tok}, Cond: cond, Body: body}
}

func (p *Parser) parseForIn() ast.Expression {
	tok := p.expect(token.FOR)
	varName := p.expect(token.IDENT).Lexeme
	p.expect(token.IN)
	iterable := p.parseExpression()
	p.expect(token.THEN)
	body := p.parseExpression()
	return &ast.ForIn{Base: ast.Base{Tok: tok}, VarName: varName, Iterable: iterable, Body: body}
}

// parseMatch implements `match target with { pattern => body, ... }`. Braces
// delimit the arm list since the grammar has no single-pipe token (only
// `||`) to separate arms the way a bare-pipe match syntax would.
func (p *Parser) parseMatch() ast.Expression {
	tok := p.expect(token.MATCH)
	target := p.parseExpression()
	p.expect(token.WITH)
	p.expect(token.LBRACE)
	var cases []ast.MatchCase
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pat := p.parsePattern()
		p.expect(token.ARROW)
		body := p.parseExpression()
		cases = append(cases, ast.MatchCase{Pattern: pat, Body: body})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RBRACE)
	return &ast.Match{Base: ast.Base{Tok: tok}, Target: target, Cases: cases}
}

// parseLambda implements `fn (params) [-> RetType] => body`. The lambda's
// Name is left blank; the checker assigns a unique generated name.
func (p *Parser) parseLambda() ast.Expression {
	tok := p.expect(token.FN)
	p.expect(token.LPAREN)
	var params []ast.Param
	if !p.at(token.RPAREN) {
		params = append(params, p.parseLambdaParam())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			params = append(params, p.parseLambdaParam())
		}
	}
	p.expect(token.RPAREN)
	var ret ast.TypeExpr
	// Both `->` and `=>` lex as ARROW; only the lexeme distinguishes an
	// annotated return type from the bare body arrow.
	if p.at(token.ARROW) && p.cur().Lexeme == "->" {
		p.advance()
		ret = p.parseTypeExpr()
	}
	if p.at(token.ARROW) {
		p.advance()
	} else {
		p.errorf("expected '=>' to introduce lambda body, got %v %q", p.cur().Type, p.cur().Lexeme)
	}
	body := p.parseExpression()
	return &ast.Lambda{Base: ast.Base{Tok: tok}, Params: params, ReturnType: ret, Body: body}
}

func (p *Parser) parseLambdaParam() ast.Param {
	name := p.expect(token.IDENT).Lexeme
	var ann ast.TypeExpr
	if _, ok := p.accept(token.COLON); ok {
		ann = p.parseTypeExpr()
	}
	return ast.Param{Name: name, TypeAnnotation: ann}
}

// parseCast implements `cast<T>(e)`.
func (p *Parser) parseCast() ast.Expression {
	tok := p.expect(token.CAST)
	p.expect(token.LT)
	target := p.parseTypeExpr()
	p.expect(token.GT)
	p.expect(token.LPAREN)
	inner := p.parseExpression()
	p.expect(token.RPAREN)
	return &ast.Cast{Base: ast.Base{Tok: tok}, Inner: inner, Target: target}
}
