package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

var primByName = map[string]types.Type{
	"Int": types.TInt, "UInt": types.TUInt, "Float": types.TFloat,
	"Bool": types.TBool, "Char": types.TChar, "String": types.TString,
	"Void": types.TVoid,
}

// BuildType turns a parser-produced TypeExpr into a concrete (or
// still-generic, if it names an in-scope generic parameter) types.Type.
// This is the expression-level counterpart of the module driver's
// resolve_types: resolve_types registers top-level
// declarations once per pass, BuildType is what every annotation site inside
// an expression (lambda params, binding annotations, cast targets) calls to
// resolve its own TypeExpr against that already-registered set.
func (c *Context) BuildType(te ast.TypeExpr) (types.Type, error) {
	switch t := te.(type) {
	case nil:
		return types.TUnknown, nil
	case ast.NamedTypeExpr:
		if p, ok := primByName[t.Name]; ok {
			return p, nil
		}
		if decl, ok := c.Module.Types[t.Name]; ok && decl.Resolved != nil {
			return decl.Resolved, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType, t.Tok, "unknown type %q", t.Name)
	case ast.GenericTypeExpr:
		if entry, ok := c.Scope.Resolve("$" + t.Name); ok {
			return entry.Type, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrUnknownType, t.Tok, "unknown generic parameter %q", t.Name)
	case ast.PointerTypeExpr:
		elem, err := c.BuildType(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.Pointer{Elem: elem}, nil
	case ast.ArrayTypeExpr:
		elem, err := c.BuildType(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem, Length: t.Length}, nil
	case ast.SliceTypeExpr:
		elem, err := c.BuildType(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.Slice{Elem: elem}, nil
	case ast.OptionalTypeExpr:
		elem, err := c.BuildType(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.Optional{Elem: elem}, nil
	case ast.FuncTypeExpr:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			at, err := c.BuildType(a)
			if err != nil {
				return nil, err
			}
			args[i] = at
		}
		ret, err := c.BuildType(t.Return)
		if err != nil {
			return nil, err
		}
		return types.Func{Args: args, Return: ret}, nil
	default:
		return nil, diagnostics.NewError(diagnostics.ErrOther, te.GetToken(), "checker: unhandled type expression %T", te)
	}
}
