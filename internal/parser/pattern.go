package parser

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/token"
)

// parsePattern implements the match-arm pattern grammar: `[]` / `[h:t]` for
// arrays, `_` for any, `nil` for the Optional empty state, `?name` for the
// Optional present state, a bare name for a payload-less sum case or enum
// constant,
// `Name(a, b)` for a struct/sum-case pattern, and a literal otherwise.
func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur().Type {
	case token.LBRACKET:
		return p.parseArrayPattern()
	case token.UNDERSCORE:
		tok := p.advance()
		return ast.AnyPattern{PatternBase: ast.PatternBase{Tok: tok}}
	case token.NIL:
		tok := p.advance()
		return ast.NilPattern{PatternBase: ast.PatternBase{Tok: tok}}
	case token.QUESTION:
		tok := p.advance()
		name := p.expect(token.IDENT).Lexeme
		return ast.OptionalPattern{PatternBase: ast.PatternBase{Tok: tok}, Binding: name}
	case token.IDENT:
		return p.parseIdentOrStructPattern()
	default:
		return ast.LiteralPattern{PatternBase: ast.PatternBase{Tok: p.cur()}, Value: p.parseLiteralForPattern()}
	}
}

// parseArrayPattern distinguishes `[]` (empty), `[head:tail]` (cons-style,
// colon-separated), and a comma-separated literal array pattern like
// `[1, 2, 3]`.
func (p *Parser) parseArrayPattern() ast.Pattern {
	tok := p.expect(token.LBRACKET)
	if _, ok := p.accept(token.RBRACKET); ok {
		return ast.EmptyArrayPattern{PatternBase: ast.PatternBase{Tok: tok}}
	}
	if p.at(token.IDENT) && p.peek().Type == token.COLON {
		head := p.advance().Lexeme
		p.expect(token.COLON)
		tail := p.expect(token.IDENT).Lexeme
		p.expect(token.RBRACKET)
		return ast.ArrayPattern{PatternBase: ast.PatternBase{Tok: tok}, Head: head, Tail: tail}
	}
	elems := []ast.Expression{p.parseExpression()}
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		elems = append(elems, p.parseExpression())
	}
	p.expect(token.RBRACKET)
	return ast.LiteralPattern{
		PatternBase: ast.PatternBase{Tok: tok},
		Value:       &ast.ArrayLiteral{Base: ast.Base{Tok: tok}, Elements: elems},
	}
}

// parseIdentOrStructPattern distinguishes a plain name-binding/constant
// pattern from `Name(a, b, ...)`, a struct or struct-carrying-sum-case
// pattern with parenthesized field bindings.
func (p *Parser) parseIdentOrStructPattern() ast.Pattern {
	tok := p.advance()
	if _, ok := p.accept(token.LPAREN); ok {
		var bindings []string
		if !p.at(token.RPAREN) {
			bindings = append(bindings, p.parsePatternBindingName())
			for {
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				bindings = append(bindings, p.parsePatternBindingName())
			}
		}
		p.expect(token.RPAREN)
		return ast.StructPattern{PatternBase: ast.PatternBase{Tok: tok}, Name: tok.Lexeme, Bindings: bindings}
	}
	return ast.NamePattern{PatternBase: ast.PatternBase{Tok: tok}, Name: tok.Lexeme}
}

func (p *Parser) parsePatternBindingName() string {
	if _, ok := p.accept(token.UNDERSCORE); ok {
		return "_"
	}
	return p.expect(token.IDENT).Lexeme
}

// parseLiteralForPattern parses the primitive-literal forms allowed as a
// LiteralPattern's Value: ints, floats, strings, chars, and bools.
func (p *Parser) parseLiteralForPattern() ast.Expression {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		return p.parseIntLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
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
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Base: ast.Base{Tok: tok}, Value: tok.Type == token.TRUE}
	case token.MINUS:
		p.advance()
		inner := p.parseLiteralForPattern()
		switch v := inner.(type) {
		case *ast.IntLiteral:
			v.Value = -v.Value
			return v
		case *ast.FloatLiteral:
			v.Value = -v.Value
			return v
		default:
			return inner
		}
	default:
		p.errorf("expected a pattern, got %v %q", tok.Type, tok.Lexeme)
		p.advance()
		return &ast.NilLiteral{Base: ast.Base{Tok: tok}}
	}
}
