package ast

import (
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// GenericParamDecl declares one generic parameter on a function or type,
// e.g. `$T` or `$T: Ord` or `$T: Ord & Show`.
type GenericParamDecl struct {
	Name       string
	Interfaces []string // zero, one, or several bounding interface names
}

// FunctionSig is a function's declared interface.
type FunctionSig struct {
	Name          string
	GenericParams []GenericParamDecl
	Args          []Param
	ReturnType    TypeExpr
	Span          token.Span
}

// Function is a module-owned function. type_checked flips to true in one
// pass of the expression checker.
type Function struct {
	Sig           FunctionSig
	Expression    Expression
	TypeChecked   bool
	ResolvedSig   *types.Func // filled in once Sig is resolved to concrete/generic types
	IsInstance    bool        // true for a monomorphized clone produced by the instantiator
	InstanceOf    string      // the original generic function's fqname, if IsInstance
}

// ExternalFunction is declared but has no body.
type ExternalFunction struct {
	Sig         FunctionSig
	ResolvedSig *types.Func
}

// TypeDeclKind distinguishes the four declarable type forms.
type TypeDeclKind int

const (
	StructDeclKind TypeDeclKind = iota
	SumDeclKind
	EnumDeclKind
	InterfaceDeclKind
)

// MemberDecl is one struct field or sum-case-payload field as written in
// source, before resolve_types turns it into a types.Member.
type MemberDecl struct {
	Name string
	Type TypeExpr
}

// SumCaseDecl is one case of a sum type declaration. Members is empty for a
// payload-less case.
type SumCaseDecl struct {
	Name    string
	Members []MemberDecl
}

// InterfaceMethodDecl is one method signature inside an `interface` decl.
type InterfaceMethodDecl struct {
	Name   string
	Args   []TypeExpr
	Return TypeExpr
}

// TypeDeclaration is a source-level type declaration: struct, sum, enum, or
// interface.
type TypeDeclaration struct {
	Name          string
	Kind          TypeDeclKind
	GenericParams []GenericParamDecl
	Members       []MemberDecl          // StructDeclKind
	Cases         []SumCaseDecl         // SumDeclKind
	EnumCases     []string              // EnumDeclKind
	Methods       []InterfaceMethodDecl // InterfaceDeclKind
	Span          token.Span

	Resolved types.Type // filled in by resolve_types
}

// Global is a module-level constant binding with unknown type until the
// driver's first pass infers it.
type Global struct {
	Name           string
	TypeAnnotation TypeExpr
	Init           Expression
	Resolved       types.Type
}

// Module owns its functions, externals, and types exclusively.
type Module struct {
	Name      string
	Functions map[string]*Function
	Externals map[string]*ExternalFunction
	Types     map[string]*TypeDeclaration
	Globals   map[string]*Global
	Imports   map[string]bool
}

func NewModule(name string) *Module {
	return &Module{
		Name:      name,
		Functions: make(map[string]*Function),
		Externals: make(map[string]*ExternalFunction),
		Types:     make(map[string]*TypeDeclaration),
		Globals:   make(map[string]*Global),
		Imports:   make(map[string]bool),
	}
}
