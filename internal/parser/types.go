package parser

import (
	"strconv"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/token"
)

// parseTypeExpr implements the type-annotation grammar: pointer/array/slice
// prefixes, a named or generic base, a function-arrow form, and an optional
// trailing `?` for Optional.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	base := p.parseTypeExprBase()
	for {
		if q, ok := p.accept(token.QUESTION); ok {
			base = ast.OptionalTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: q}, Elem: base}
			continue
		}
		break
	}
	return base
}

func (p *Parser) parseTypeExprBase() ast.TypeExpr {
	switch {
	case p.at(token.STAR):
		tok := p.advance()
		return ast.PointerTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Elem: p.parseTypeExpr()}

	case p.at(token.LBRACKET):
		tok := p.advance()
		if _, ok := p.accept(token.RBRACKET); ok {
			return ast.SliceTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Elem: p.parseTypeExpr()}
		}
		elem := p.parseTypeExpr()
		p.expect(token.SEMI)
		lenTok := p.expect(token.INT)
		n, _ := strconv.Atoi(lenTok.Lexeme)
		p.expect(token.RBRACKET)
		return ast.ArrayTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Elem: elem, Length: n}

	case p.at(token.LPAREN):
		tok := p.advance()
		var args []ast.TypeExpr
		if !p.at(token.RPAREN) {
			args = append(args, p.parseTypeExpr())
			for {
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				args = append(args, p.parseTypeExpr())
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		ret := p.parseTypeExpr()
		return ast.FuncTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Args: args, Return: ret}

	case p.at(token.GENERIC_IDENT):
		tok := p.advance()
		return ast.GenericTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Name: tok.Lexeme}

	default:
		tok := p.expect(token.IDENT)
		return ast.NamedTypeExpr{TypeExprBase: ast.TypeExprBase{Tok: tok}, Name: tok.Lexeme}
	}
}

// parseGenerics parses an optional `<$T, $U: Ord & Show>` parameter list
// attached to a function or type declaration header.
func (p *Parser) parseGenerics() []ast.GenericParamDecl {
	if _, ok := p.accept(token.LT); !ok {
		return nil
	}
	var params []ast.GenericParamDecl
	for {
		nameTok := p.expect(token.GENERIC_IDENT)
		gp := ast.GenericParamDecl{Name: nameTok.Lexeme}
		if _, ok := p.accept(token.COLON); ok {
			gp.Interfaces = append(gp.Interfaces, p.expect(token.IDENT).Lexeme)
			for {
				if _, ok := p.accept(token.AMP); !ok {
					break
				}
				gp.Interfaces = append(gp.Interfaces, p.expect(token.IDENT).Lexeme)
			}
		}
		params = append(params, gp)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.GT)
	return params
}
