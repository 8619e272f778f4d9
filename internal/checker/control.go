package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkIf implements If rule, including optional-lifting: if
// one branch is Nil and the other T, the whole expression is Optional(T)
// and the Nil branch is wrapped in ToOptional.
func (c *Context) checkIf(n *ast.If) (types.Type, ast.Expression, error) {
	cond, condType, err := c.Check(n.Cond, types.TBool)
	if err != nil {
		return nil, nil, err
	}
	n.Cond = cond
	if !condType.Equal(types.TBool) {
		converted, ok := Convert(n.Cond, condType, types.TBool)
		if !ok {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Cond.GetToken(),
				"if condition must be bool, got %s", condType)
		}
		converted.SetType(types.TBool)
		n.Cond = converted
	}

	then, thenType, err := c.Check(n.Then, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Then = then

	if n.Else == nil {
		if !thenType.Equal(types.TVoid) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
				"if without else requires a Void then-branch, got %s", thenType)
		}
		return types.TVoid, nil, nil
	}

	els, elseType, err := c.Check(n.Else, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Else = els

	if thenType.Equal(elseType) {
		return thenType, nil, nil
	}

	// A re-check of an already-lifted branch (the instantiator clones a
	// checked body and re-checks it from scratch) finds n.Then/n.Else
	// already wrapped in ToOptional from a previous pass: checkToOptional
	// preserves that wrapper's Optional type rather than recomputing it, so
	// thenType/elseType already agree up to the lift and no re-wrap is
	// needed.
	if _, ok := n.Then.(*ast.ToOptional); ok {
		if opt, ok := thenType.(types.Optional); ok && opt.Elem.Equal(elseType) {
			return thenType, nil, nil
		}
	}
	if _, ok := n.Else.(*ast.ToOptional); ok {
		if opt, ok := elseType.(types.Optional); ok && opt.Elem.Equal(thenType) {
			return elseType, nil, nil
		}
	}

	if thenType.Equal(types.TNil) {
		wrapped := &ast.ToOptional{Base: ast.Base{Tok: n.Then.GetToken()}, Inner: n.Then}
		wrapped.SetType(types.Optional{Elem: elseType})
		n.Then = wrapped
		return types.Optional{Elem: elseType}, nil, nil
	}
	if elseType.Equal(types.TNil) {
		wrapped := &ast.ToOptional{Base: ast.Base{Tok: n.Else.GetToken()}, Inner: n.Else}
		wrapped.SetType(types.Optional{Elem: thenType})
		n.Else = wrapped
		return types.Optional{Elem: thenType}, nil, nil
	}

	return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
		"if branches must produce the same type, got %s and %s", thenType, elseType)
}

// checkWhile implements While rule: condition to bool, body's
// type is ignored.
func (c *Context) checkWhile(n *ast.While) (types.Type, ast.Expression, error) {
	cond, condType, err := c.Check(n.Cond, types.TBool)
	if err != nil {
		return nil, nil, err
	}
	n.Cond = cond
	if !condType.Equal(types.TBool) {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Cond.GetToken(),
			"while condition must be bool, got %s", condType)
	}
	body, _, err := c.Check(n.Body, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Body = body
	return types.TVoid, nil, nil
}

// checkForIn implements For rule: xs must be a sequence, v is
// declared with the element type for the body's scope.
func (c *Context) checkForIn(n *ast.ForIn) (types.Type, ast.Expression, error) {
	iterable, iterType, err := c.Check(n.Iterable, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Iterable = iterable
	if !types.IsSequence(iterType) {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Iterable.GetToken(),
			"for-in requires a string/array/slice, got %s", iterType)
	}
	elem, _ := types.GetElementType(iterType)

	c.Scope.PushStack(false)
	defer c.Scope.PopStack()
	if err := c.Scope.Add(n.VarName, elem, false); err != nil {
		return nil, nil, err
	}
	body, _, err := c.Check(n.Body, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Body = body
	return types.TVoid, nil, nil
}

// checkAssign implements Assign rule: the LHS must be a
// mutable name reference, RHS is converted to the LHS type.
func (c *Context) checkAssign(n *ast.Assign) (types.Type, ast.Expression, error) {
	ref, ok := n.Target.(*ast.NameRef)
	if !ok {
		return nil, nil, diagnostics.NewError(diagnostics.ErrNotMutable, n.Tok, "assignment target must be a name")
	}
	entry, ok := c.Scope.Resolve(ref.Name)
	if !ok {
		return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownName, ref.Tok, "unknown name %q", ref.Name)
	}
	if !entry.Mutable {
		return nil, nil, diagnostics.NewError(diagnostics.ErrNotMutable, n.Tok, "%q is not mutable", ref.Name)
	}
	ref.FullName = entry.FullName
	ref.SetType(entry.Type)

	value, valType, err := c.Check(n.Value, entry.Type)
	if err != nil {
		return nil, nil, err
	}
	n.Value = value
	if !valType.Equal(entry.Type) {
		converted, ok := Convert(n.Value, valType, entry.Type)
		if !ok {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Value.GetToken(),
				"cannot assign %s to %q of type %s", valType, ref.Name, entry.Type)
		}
		converted.SetType(entry.Type)
		n.Value = converted
	}
	return types.TVoid, nil, nil
}

// checkBindingExpression implements Binding rule: declare
// each clause, check the body, and on the one distinguished UnknownType
// retry, re-check the named binding with the hint the error carried.
func (c *Context) checkBindingExpression(n *ast.BindingExpression) (types.Type, ast.Expression, error) {
	c.Scope.PushStack(false)
	defer c.Scope.PopStack()

	hints := make(map[string]types.Type)
	for _, clause := range n.Bindings {
		if err := c.checkBindingClause(clause, hints); err != nil {
			return nil, nil, err
		}
	}

	body, bodyType, err := c.Check(n.Body, nil)
	if err != nil {
		diagErr, ok := err.(*diagnostics.DiagnosticError)
		if !ok || diagErr.Code != diagnostics.ErrUnknownType {
			return nil, nil, err
		}
		hints[diagErr.UnknownTypeName] = diagErr.UnknownTypeExpected
		for _, clause := range n.Bindings {
			if sb, ok := clause.(*ast.SimpleBinding); ok && sb.Name == diagErr.UnknownTypeName {
				if err := c.recheckSimpleBinding(sb, diagErr.UnknownTypeExpected); err != nil {
					return nil, nil, err
				}
			}
		}
		body, bodyType, err = c.Check(n.Body, nil)
		if err != nil {
			return nil, nil, err
		}
	}
	n.Body = body
	return bodyType, nil, nil
}

func (c *Context) checkBindingClause(clause ast.BindingClause, hints map[string]types.Type) error {
	switch b := clause.(type) {
	case *ast.SimpleBinding:
		var hint types.Type
		if b.TypeAnnotation != nil {
			t, err := c.BuildType(b.TypeAnnotation)
			if err != nil {
				return err
			}
			hint = t
		}
		value, valType, err := c.Check(b.Value, hint)
		if err != nil {
			return err
		}
		b.Value = value
		if hint != nil && !valType.Equal(hint) {
			converted, ok := Convert(b.Value, valType, hint)
			if !ok {
				return diagnostics.NewError(diagnostics.ErrTypeMismatch, b.Value.GetToken(),
					"binding %q: expected %s, got %s", b.Name, hint, valType)
			}
			converted.SetType(hint)
			b.Value = converted
			valType = hint
		}
		return c.Scope.Add(b.Name, valType, b.Mutable)

	case *ast.StructDestructureBinding:
		value, valType, err := c.Check(b.Value, nil)
		if err != nil {
			return err
		}
		b.Value = value
		st, ok := valType.(types.Struct)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrTypeMismatch, b.Value.GetToken(),
				"destructuring binding requires a struct, got %s", valType)
		}
		for _, name := range b.Fields {
			if name == "_" {
				continue
			}
			idx := st.MemberIndex(name)
			if idx < 0 {
				return diagnostics.NewError(diagnostics.ErrUnknownName, b.Value.GetToken(),
					"struct %s has no member %q", st, name)
			}
			if err := c.Scope.Add(name, st.Members[idx].Type, false); err != nil {
				return err
			}
		}
		return nil

	default:
		return diagnostics.NewError(diagnostics.ErrOther, token.Token{}, "checker: unhandled binding clause %T", b)
	}
}

func (c *Context) recheckSimpleBinding(b *ast.SimpleBinding, hint types.Type) error {
	value, valType, err := c.Check(b.Value, hint)
	if err != nil {
		return err
	}
	b.Value = value
	// A Func hint with an Unknown return (built by checkCall from the call
	// site's argument types alone, before the binding's own body fixes the
	// return type) is a partial hint, not the binding's final type: valType
	// is what the re-check actually determined and needs no further
	// reconciliation against the placeholder Return.
	if fn, ok := hint.(types.Func); ok && fn.Return.Equal(types.TUnknown) {
		c.Scope.Update(b.Name, valType, b.Mutable)
		return nil
	}
	if !valType.Equal(hint) {
		converted, ok := Convert(b.Value, valType, hint)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrTypeMismatch, b.Value.GetToken(),
				"binding %q: expected %s, got %s", b.Name, hint, valType)
		}
		converted.SetType(hint)
		b.Value = converted
		valType = hint
	}
	c.Scope.Update(b.Name, valType, b.Mutable)
	return nil
}
