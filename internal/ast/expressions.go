package ast

// Literals.

type IntLiteral struct {
	Base
	Value int64
}

func (*IntLiteral) expressionNode() {}

type FloatLiteral struct {
	Base
	Value float64
}

func (*FloatLiteral) expressionNode() {}

type BoolLiteral struct {
	Base
	Value bool
}

func (*BoolLiteral) expressionNode() {}

type CharLiteral struct {
	Base
	Value rune
}

func (*CharLiteral) expressionNode() {}

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) expressionNode() {}

type NilLiteral struct{ Base }

func (*NilLiteral) expressionNode() {}

// ArrayLiteral is `[e1, e2, ...]`; empty literal defaults to Array(Int,0)
// with no hint, boundary behaviour.
type ArrayLiteral struct {
	Base
	Elements []Expression
}

func (*ArrayLiteral) expressionNode() {}

// NameRef is a source-written name, possibly `module::symbol`.
// FullName is filled in by the resolver once the scope stack resolves it.
type NameRef struct {
	Base
	Name     string
	FullName string
}

func (*NameRef) expressionNode() {}

// Unary is `-e` or `!e`.
type Unary struct {
	Base
	Op      string // "-" or "!"
	Operand Expression
}

func (*Unary) expressionNode() {}

// Binary is any of the infix operators in
type Binary struct {
	Base
	Op    string
	Left  Expression
	Right Expression
}

func (*Binary) expressionNode() {}

// Call is `callee(args...)`. Callee is rewritten in place by member-call
// desugaring.
type Call struct {
	Base
	Callee Expression
	Args   []Expression
}

func (*Call) expressionNode() {}

// Param is one function/lambda parameter. TypeAnnotation may be nil for a
// lambda parameter whose type is fixed from a hint.
type Param struct {
	Name           string
	TypeAnnotation TypeExpr
}

// Lambda is an anonymous function expression. Name is filled in by the
// checker.
type Lambda struct {
	Base
	Name       string
	Params     []Param
	ReturnType TypeExpr // nil unless annotated
	Body       Expression
}

func (*Lambda) expressionNode() {}

// MatchCase is one `pattern => body` arm of a Match.
type MatchCase struct {
	Pattern Pattern
	Body    Expression
}

// Match is pattern-match expression.
type Match struct {
	Base
	Target Expression
	Cases  []MatchCase
}

func (*Match) expressionNode() {}

// BindingClause is one clause of a BindingExpression: either a simple name
// binding or a struct-destructuring binding.
type BindingClause interface {
	bindingClause()
}

type SimpleBinding struct {
	Name           string
	Mutable        bool
	TypeAnnotation TypeExpr // nil unless annotated
	Value          Expression
}

func (*SimpleBinding) bindingClause() {}

// StructDestructureBinding is `{x, y} :- point in ...`: Value must produce a
// struct, and each name in Fields is bound to that member's type.
type StructDestructureBinding struct {
	Fields []string
	Value  Expression
}

func (*StructDestructureBinding) bindingClause() {}

// BindingExpression is the `let`-like form of
type BindingExpression struct {
	Base
	Bindings []BindingClause
	Body     Expression
}

func (*BindingExpression) expressionNode() {}

// If is conditional, with optional-lifting of a Nil branch.
type If struct {
	Base
	Cond Expression
	Then Expression
	Else Expression // nil if there is no else branch
}

func (*If) expressionNode() {}

// FieldInit is one `name: value` entry of an anonymous struct literal.
type FieldInit struct {
	Name  string
	Value Expression
}

// AnonStructLiteral is `{x: 1, y: 2}` with no declared type.
type AnonStructLiteral struct {
	Base
	Fields []FieldInit
}

func (*AnonStructLiteral) expressionNode() {}

// StructInit is the named form: `Point{1, 2}` or, for a sum type,
// `Shape.Circle{1}` / `.Circle{1}`.
type StructInit struct {
	Base
	TypeName string // declared struct/sum name, "" if only CaseName is given
	CaseName string // sum case name, "" for a plain struct
	Args     []Expression
}

func (*StructInit) expressionNode() {}

// MemberAccess is `target.name`. Method-call syntax (`target.f(args)`) is
// desugared by the checker into a Call to `StructName.f`.
type MemberAccess struct {
	Base
	Target Expression
	Name   string
}

func (*MemberAccess) expressionNode() {}

// New is `new e`.
type New struct {
	Base
	Operand Expression
}

func (*New) expressionNode() {}

// Delete is `delete e`.
type Delete struct {
	Base
	Operand Expression
}

func (*Delete) expressionNode() {}

// AddressOf is `&e`.
type AddressOf struct {
	Base
	Operand Expression
}

func (*AddressOf) expressionNode() {}

// ArrayToSlice is a synthesized wrapper ( conversion (2)); it is
// never produced by the parser, only by Convert.
type ArrayToSlice struct {
	Base
	Inner Expression
}

func (*ArrayToSlice) expressionNode() {}

// ToOptional is a synthesized wrapper ( conversion (1)).
type ToOptional struct {
	Base
	Inner Expression
}

func (*ToOptional) expressionNode() {}

// Cast is `cast<T>(e)`. Unlike ToOptional/ArrayToSlice it is only ever
// written explicitly by the source, never synthesized ( (3)).
type Cast struct {
	Base
	Inner  Expression
	Target TypeExpr
}

func (*Cast) expressionNode() {}

// Assign is `lhs = rhs`; lhs must be a mutable name reference.
type Assign struct {
	Base
	Target Expression
	Value  Expression
}

func (*Assign) expressionNode() {}

// While is `while cond then body`.
type While struct {
	Base
	Cond Expression
	Body Expression
}

func (*While) expressionNode() {}

// ForIn is `for v in xs then body`.
type ForIn struct {
	Base
	VarName  string
	Iterable Expression
	Body     Expression
}

func (*ForIn) expressionNode() {}
