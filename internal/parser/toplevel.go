package parser

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/token"
)

// parseTopLevelDecl dispatches on the leading keyword of a module-level
// declaration: external/fn/struct/sum/enum/interface/let.
func (p *Parser) parseTopLevelDecl(module *ast.Module) {
	switch p.cur().Type {
	case token.EXTERNAL:
		p.parseExternal(module)
	case token.FN:
		p.parseFunction(module)
	case token.STRUCT:
		p.parseTypeDecl(module, ast.StructDeclKind)
	case token.SUM:
		p.parseTypeDecl(module, ast.SumDeclKind)
	case token.ENUM:
		p.parseTypeDecl(module, ast.EnumDeclKind)
	case token.INTERFACE:
		p.parseTypeDecl(module, ast.InterfaceDeclKind)
	case token.LET:
		p.parseGlobal(module)
	default:
		p.errorf("expected a top-level declaration, got %v %q", p.cur().Type, p.cur().Lexeme)
		p.advance()
	}
}

// parseFunctionSig parses the shared `name<generics>(params) -> Type` header
// used by both `fn` and `external fn`. A method is named `Type.method`.
func (p *Parser) parseFunctionSig() ast.FunctionSig {
	startTok := p.cur()
	name := p.expect(token.IDENT).Lexeme
	if _, ok := p.accept(token.DOT); ok {
		name = name + "." + p.expect(token.IDENT).Lexeme
	}
	generics := p.parseGenerics()
	p.expect(token.LPAREN)
	var params []ast.Param
	if !p.at(token.RPAREN) {
		params = append(params, p.parseParam())
		for {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
			params = append(params, p.parseParam())
		}
	}
	endTok := p.expect(token.RPAREN)
	p.expect(token.ARROW)
	ret := p.parseTypeExpr()
	return ast.FunctionSig{
		Name:          name,
		GenericParams: generics,
		Args:          params,
		ReturnType:    ret,
		Span:          token.Span{File: p.file, Start: startTok.Span.Start, End: endTok.Span.End},
	}
}

func (p *Parser) parseParam() ast.Param {
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	return ast.Param{Name: name, TypeAnnotation: p.parseTypeExpr()}
}

func (p *Parser) parseFunction(module *ast.Module) {
	p.expect(token.FN)
	sig := p.parseFunctionSig()
	p.expect(token.ASSIGN)
	body := p.parseExpression()
	if _, exists := module.Functions[sig.Name]; exists {
		p.errorf("function %q redeclared", sig.Name)
	}
	module.Functions[sig.Name] = &ast.Function{Sig: sig, Expression: body}
}

func (p *Parser) parseExternal(module *ast.Module) {
	p.expect(token.EXTERNAL)
	p.expect(token.FN)
	sig := p.parseFunctionSig()
	if _, exists := module.Externals[sig.Name]; exists {
		p.errorf("external function %q redeclared", sig.Name)
	}
	module.Externals[sig.Name] = &ast.ExternalFunction{Sig: sig}
}

func (p *Parser) parseGlobal(module *ast.Module) {
	p.expect(token.LET)
	name := p.expect(token.IDENT).Lexeme
	var ann ast.TypeExpr
	if _, ok := p.accept(token.COLON); ok {
		ann = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	init := p.parseExpression()
	if _, exists := module.Globals[name]; exists {
		p.errorf("global %q redeclared", name)
	}
	module.Globals[name] = &ast.Global{Name: name, TypeAnnotation: ann, Init: init}
}

func (p *Parser) parseTypeDecl(module *ast.Module, kind ast.TypeDeclKind) {
	p.advance() // struct/sum/enum/interface keyword
	name := p.expect(token.IDENT).Lexeme
	generics := p.parseGenerics()
	decl := &ast.TypeDeclaration{Name: name, Kind: kind, GenericParams: generics}

	switch kind {
	case ast.StructDeclKind:
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			decl.Members = append(decl.Members, p.parseMemberDecl())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)

	case ast.SumDeclKind:
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			decl.Cases = append(decl.Cases, p.parseSumCase())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)

	case ast.EnumDeclKind:
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			decl.EnumCases = append(decl.EnumCases, p.expect(token.IDENT).Lexeme)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)

	case ast.InterfaceDeclKind:
		p.expect(token.LBRACE)
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			decl.Methods = append(decl.Methods, p.parseInterfaceMethod())
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		p.expect(token.RBRACE)
	}

	if _, exists := module.Types[name]; exists {
		p.errorf("type %q redeclared", name)
	}
	module.Types[name] = decl
}

func (p *Parser) parseMemberDecl() ast.MemberDecl {
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.COLON)
	return ast.MemberDecl{Name: name, Type: p.parseTypeExpr()}
}

func (p *Parser) parseSumCase() ast.SumCaseDecl {
	name := p.expect(token.IDENT).Lexeme
	sc := ast.SumCaseDecl{Name: name}
	if _, ok := p.accept(token.LPAREN); ok {
		if !p.at(token.RPAREN) {
			sc.Members = append(sc.Members, p.parseMemberDecl())
			for {
				if _, ok := p.accept(token.COMMA); !ok {
					break
				}
				sc.Members = append(sc.Members, p.parseMemberDecl())
			}
		}
		p.expect(token.RPAREN)
	}
	return sc
}

func (p *Parser) parseInterfaceMethod() ast.InterfaceMethodDecl {
	name := p.expect(token.IDENT).Lexeme
	p.expect(token.LPAREN)
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
	return ast.InterfaceMethodDecl{Name: name, Args: args, Return: ret}
}
