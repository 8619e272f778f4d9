// Package parser is the recursive-descent
// parser that turns lexer token streams into the internal/ast shapes the
// checker consumes. Like internal/lexer it exists only to drive integration
// tests and the CLI against real source text; it is laid out
// the way the teacher splits parsing into one file per grammar area
// (parser_kind.go / statements.go / expressions_*.go / types.go), scaled
// down to Cobra/Nomad's own surface syntax rather than funxy's.
package parser

import (
	"fmt"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/lexer"
	"github.com/cobra-lang/cobrac/internal/token"
)

// Parser holds a two-token lookahead window over a pre-scanned token slice,
// mirroring the teacher's Parser (internal/parser/parser_kind.go) but over a
// slice rather than a live lexer channel, since Cobra source files are small
// enough to tokenize eagerly.
type Parser struct {
	file   string
	tokens []token.Token
	pos    int
	errs   []error
}

func New(file, src string) *Parser {
	return &Parser{file: file, tokens: lexer.Tokenize(file, src)}
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(t token.Type) bool { return p.cur().Type == t }

func (p *Parser) accept(t token.Type) (token.Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(t token.Type) token.Token {
	if p.at(t) {
		return p.advance()
	}
	p.errorf("expected %v, got %v %q", t, p.cur().Type, p.cur().Lexeme)
	return p.cur()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", p.cur().Span, fmt.Sprintf(format, args...)))
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errs }

// ParseModule parses an entire source file into decls appended to module.
// Multiple files of one module are parsed independently and merged by the
// caller.
func ParseModule(name, file, src string) (*ast.Module, []error) {
	p := New(file, src)
	module := ast.NewModule(name)
	for !p.at(token.EOF) {
		p.parseTopLevelDecl(module)
		if len(p.errs) > 0 && len(p.errs) > 200 {
			break // runaway cascade guard
		}
	}
	return module, p.errs
}

// ParseInto parses src into an already-existing module, for multi-file
// modules (tests load a txtar archive of several source files under one
// module name).
func ParseInto(module *ast.Module, file, src string) []error {
	p := New(file, src)
	for !p.at(token.EOF) {
		p.parseTopLevelDecl(module)
		if len(p.errs) > 200 {
			break
		}
	}
	return p.errs
}
