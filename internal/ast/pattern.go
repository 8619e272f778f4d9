package ast

import "github.com/cobra-lang/cobrac/internal/token"

// Pattern is one arm's left-hand side in a Match.
type Pattern interface {
	Node
	patternNode()
}

// PatternBase is embedded by every pattern node; it carries the token used
// for diagnostics.
type PatternBase struct {
	Tok token.Token
}

func (p PatternBase) GetToken() token.Token { return p.Tok }

// EmptyArrayPattern matches `[]`.
type EmptyArrayPattern struct{ PatternBase }

func (EmptyArrayPattern) patternNode() {}

// ArrayPattern matches `[head:tail]`, binding head:elem and
// tail:Slice(elem).
type ArrayPattern struct {
	PatternBase
	Head string
	Tail string
}

func (ArrayPattern) patternNode() {}

// NamePattern matches a payload-less sum case or an enum constant by name.
type NamePattern struct {
	PatternBase
	Name string
}

func (NamePattern) patternNode() {}

// LiteralPattern matches a primitive or array literal value.
type LiteralPattern struct {
	PatternBase
	Value Expression
}

func (LiteralPattern) patternNode() {}

// StructPattern matches a struct, or a struct-carrying sum case, and binds
// each (non-`_`) name in Bindings to the corresponding member.
type StructPattern struct {
	PatternBase
	Name     string // struct name or sum case name
	Bindings []string
}

func (StructPattern) patternNode() {}

// AnyPattern is `_`; matches anything, binds nothing.
type AnyPattern struct{ PatternBase }

func (AnyPattern) patternNode() {}

// NilPattern matches an Optional's nil state.
type NilPattern struct{ PatternBase }

func (NilPattern) patternNode() {}

// OptionalPattern matches an Optional's present state, binding the
// unwrapped value.
type OptionalPattern struct {
	PatternBase
	Binding string
}

func (OptionalPattern) patternNode() {}
