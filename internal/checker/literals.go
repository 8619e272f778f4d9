package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkArrayLiteral implements the array literal rule, plus the open
// question of what an empty literal with no type hint resolves to: it
// defaults to Array(Int, 0) rather than erroring, flagged via
// Project.LintEmptyArrayLiteral as a warning rather than a hard error so the
// default-to-Array(Int,0) resolution still stands.
func (c *Context) checkArrayLiteral(n *ast.ArrayLiteral, hint types.Type) (types.Type, ast.Expression, error) {
	if len(n.Elements) == 0 {
		if a, ok := hint.(types.Array); ok {
			return types.Array{Elem: a.Elem, Length: 0}, nil, nil
		}
		if c.Project.LintEmptyArrayLiteral {
			c.Diags.Add(diagnostics.NewWarning(diagnostics.ErrOther, n.Tok,
				"empty array literal with no type hint defaults to Array(Int, 0)"))
		}
		return types.Array{Elem: types.TInt, Length: 0}, nil, nil
	}

	var elemHint types.Type
	if a, ok := hint.(types.Array); ok {
		elemHint = a.Elem
	}

	firstExpr, first, err := c.Check(n.Elements[0], elemHint)
	if err != nil {
		return nil, nil, err
	}
	n.Elements[0] = firstExpr
	for i, e := range n.Elements[1:] {
		newE, t, err := c.Check(e, first)
		if err != nil {
			return nil, nil, err
		}
		n.Elements[i+1] = newE
		if !t.Equal(first) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, newE.GetToken(),
				"array literal elements must share one type: expected %s, got %s", first, t)
		}
	}
	return types.Array{Elem: first, Length: len(n.Elements)}, nil, nil
}

// checkNameRef resolves a source-written name through the scope stack.
// FullName is filled in so later passes (generic instantiation redirects,
// codegen) have the fully-qualified name without re-resolving scope.
func (c *Context) checkNameRef(n *ast.NameRef) (types.Type, ast.Expression, error) {
	entry, ok := c.Scope.Resolve(n.Name)
	if !ok {
		return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownName, n.Tok, "unknown name %q", n.Name)
	}
	n.FullName = entry.FullName
	return entry.Type, nil, nil
}
