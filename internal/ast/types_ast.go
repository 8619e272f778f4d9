package ast

import "github.com/cobra-lang/cobrac/internal/token"

// TypeExpr is the syntactic form of a type annotation, as written by the
// programmer and handed to the checker by the parser. resolve_types /
// BuildType turns these into concrete types.Type values.
type TypeExpr interface {
	GetToken() token.Token
	typeExprNode()
}

type TypeExprBase struct{ Tok token.Token }

func (t TypeExprBase) GetToken() token.Token { return t.Tok }

// NamedTypeExpr is a reference to a primitive or a declared struct/sum/enum/
// interface by name, e.g. `Int`, `Point`, `Shape`.
type NamedTypeExpr struct {
	TypeExprBase
	Name string
}

func (NamedTypeExpr) typeExprNode() {}

// GenericTypeExpr is a reference to an in-scope generic parameter, e.g. `$T`.
type GenericTypeExpr struct {
	TypeExprBase
	Name string
}

func (GenericTypeExpr) typeExprNode() {}

// PointerTypeExpr is `*T`.
type PointerTypeExpr struct {
	TypeExprBase
	Elem TypeExpr
}

func (PointerTypeExpr) typeExprNode() {}

// ArrayTypeExpr is `[T;N]`.
type ArrayTypeExpr struct {
	TypeExprBase
	Elem   TypeExpr
	Length int
}

func (ArrayTypeExpr) typeExprNode() {}

// SliceTypeExpr is `[]T`.
type SliceTypeExpr struct {
	TypeExprBase
	Elem TypeExpr
}

func (SliceTypeExpr) typeExprNode() {}

// OptionalTypeExpr is `T?`.
type OptionalTypeExpr struct {
	TypeExprBase
	Elem TypeExpr
}

func (OptionalTypeExpr) typeExprNode() {}

// FuncTypeExpr is `(A,B) -> R`.
type FuncTypeExpr struct {
	TypeExprBase
	Args   []TypeExpr
	Return TypeExpr
}

func (FuncTypeExpr) typeExprNode() {}

