// Package ast is the AST contract: the shape the parser hands to the type
// checker, and the shape the checker hands to the (external) backend once
// type_check_module succeeds. Layout follows the teacher's internal/ast
// split (ast_core.go / ast_expressions.go / ast_types.go) re-derived for
// Cobra/Nomad's own grammar rather than funxy's.
package ast

import (
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// Node is the base of every AST node.
type Node interface {
	GetToken() token.Token
}

// Expression is a Node that produces a value and carries an inferred type.
// Every expression's Typ starts as types.TUnknown
// and is never TUnknown again once type_check_module returns Ok.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(types.Type)
}

// Base is embedded by every expression node; it carries the token used for
// diagnostics and the node's inferred type.
type Base struct {
	Tok token.Token
	Typ types.Type
}

func (b *Base) GetToken() token.Token { return b.Tok }
func (b *Base) GetType() types.Type {
	if b.Typ == nil {
		return types.TUnknown
	}
	return b.Typ
}
func (b *Base) SetType(t types.Type) { b.Typ = t }
