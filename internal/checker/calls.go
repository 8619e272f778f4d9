package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/generics"
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkCall implements Call rule, including
// resolve_generic_args_in_call: a fixed point over the arguments that grows
// a substitution until it stops growing.
func (c *Context) checkCall(n *ast.Call, hint types.Type) (types.Type, ast.Expression, error) {
	if ma, ok := n.Callee.(*ast.MemberAccess); ok {
		if replacement, desugared, err := c.tryDesugarMethodCall(ma, n); err != nil {
			return nil, nil, err
		} else if desugared {
			return nil, replacement, nil
		}
	}

	callee, calleeType, err := c.Check(n.Callee, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Callee = callee
	fn, ok := calleeType.(types.Func)
	if !ok {
		// A bare `let f = \x -> x in ...` binding with no annotation postpones
		// to Unknown (checkLambda's lambdaIsUnannotated case) until a Func
		// hint is available. Calling it before that hint arrives is not
		// NotCallable — it is the one case checkBindingExpression's retry
		// exists for: raise the distinguished UnknownType error carrying the
		// Func shape this call site can see (argument types; return type
		// still unknown) so checkBindingExpression re-checks the binding with it.
		if ref, isRef := callee.(*ast.NameRef); isRef && calleeType.Equal(types.TUnknown) {
			argTypes := make([]types.Type, len(n.Args))
			for i, a := range n.Args {
				_, t, err := c.Check(a, nil)
				if err != nil {
					return nil, nil, err
				}
				argTypes[i] = t
			}
			return nil, nil, diagnostics.NewUnknownType(n.Tok, ref.Name, types.Func{Args: argTypes, Return: types.TUnknown})
		}
		return nil, nil, diagnostics.NewError(diagnostics.ErrNotCallable, n.Tok, "%s is not callable", calleeType)
	}
	if len(n.Args) != len(fn.Args) {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
			"expected %d argument(s), got %d", len(fn.Args), len(n.Args))
	}

	subst := make(types.Subst)
	maxRounds := len(fn.FreeGenerics()) + 1
	for round := 0; round < maxRounds; round++ {
		sizeBefore := len(subst)
		for i, argExpr := range n.Args {
			paramHint := fn.Args[i].Apply(subst)
			newArg, argType, err := c.Check(argExpr, paramHint)
			if err != nil {
				return nil, nil, err
			}
			argExpr = newArg
			n.Args[i] = newArg
			if types.IsGeneric(fn.Args[i]) {
				if _, err := generics.FillInGenerics(argType, fn.Args[i], subst); err != nil {
					return nil, nil, diagnostics.NewError(diagnostics.ErrGenericMismatch, argExpr.GetToken(), "%s", err)
				}
			}
		}
		if len(subst) == sizeBefore {
			break
		}
	}

	for i, argExpr := range n.Args {
		concreteParam := fn.Args[i].Apply(subst)
		argType := argExpr.GetType()
		if argType.Equal(concreteParam) {
			continue
		}
		converted, ok := Convert(argExpr, argType, concreteParam)
		if !ok {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, argExpr.GetToken(),
				"argument %d: expected %s, got %s", i, concreteParam, argType)
		}
		if converted != argExpr {
			converted.SetType(concreteParam)
			n.Args[i] = converted
		}
	}

	retType := fn.Return.Apply(subst)
	n.SetType(retType)

	if len(subst) > 0 {
		c.recordPendingInstantiation(n, subst)
	}

	return retType, nil, nil
}

// tryDesugarMethodCall implements method-call-syntax rewrite:
// `obj.f(args)` becomes a plain Call to `StructName.f` whose first argument
// is `&obj` (or `obj` if already a pointer) — but only when `f` is not
// itself a struct field (a field holding a Func value is called directly,
// with no rewrite). desugared is false (with no error) when ma.Name names
// an ordinary field, letting the caller fall back to plain MemberAccess
// checking.
func (c *Context) tryDesugarMethodCall(ma *ast.MemberAccess, call *ast.Call) (*ast.Call, bool, error) {
	newTarget, targetType, err := c.Check(ma.Target, nil)
	if err != nil {
		return nil, false, err
	}
	ma.Target = newTarget
	peeled := targetType
	alreadyPointer := false
	if p, ok := peeled.(types.Pointer); ok {
		peeled = p.Elem
		alreadyPointer = true
	}

	var typeName string
	switch t := peeled.(type) {
	case types.Struct:
		if t.MemberIndex(ma.Name) >= 0 {
			return nil, false, nil // plain field of Func type, no rewrite
		}
		typeName = t.Name
	case types.Sum:
		typeName = t.Name
	default:
		return nil, false, nil
	}
	if typeName == "" {
		return nil, false, nil // anonymous struct has no methods
	}

	fqname := typeName + "." + ma.Name
	if _, ok := c.Module.Functions[fqname]; !ok {
		if _, ok := c.Module.Externals[fqname]; !ok {
			return nil, false, nil
		}
	}

	receiver := ma.Target
	if !alreadyPointer {
		receiver = &ast.AddressOf{Base: ast.Base{Tok: ma.Tok}, Operand: ma.Target}
	}
	args := append([]ast.Expression{receiver}, call.Args...)
	return &ast.Call{
		Base:   ast.Base{Tok: call.Tok},
		Callee: &ast.NameRef{Base: ast.Base{Tok: ma.Tok}, Name: fqname, FullName: fqname},
		Args:   args,
	}, true, nil
}

// recordPendingInstantiation queues a (generic function, substitution) pair
// for the driver's instantiate_generics step, once the callee names an
// actual declared generic function and every one of its declared generic
// parameters is bound. module.Functions is keyed by the bare declared name
// (ast.FunctionSig.Name, as the parser writes it), never by
// scope-resolved FullName (which scope.AddGlobal prefixes with the module
// name, scope.go's "module::symbol" shortcut) — so the lookup and the
// queued FuncName must both use ref.Name, not ref.FullName.
func (c *Context) recordPendingInstantiation(call *ast.Call, subst types.Subst) {
	ref, ok := call.Callee.(*ast.NameRef)
	if !ok {
		return
	}
	generic, ok := c.Module.Functions[ref.Name]
	if !ok || len(generic.Sig.GenericParams) == 0 {
		return
	}
	names := generics.SortedGenericNames(generic.Sig.GenericParams)
	if !generics.IsFullyDetermined(subst, names) {
		return
	}
	c.Pending = append(c.Pending, generics.PendingInstantiation{
		FuncName: ref.Name,
		Subst:    subst,
		CallSite: call,
	})
}

// CheckFunctionDecl implements Function rule. It is invoked
// by the module driver once per unchecked function, not from
// the expression dispatch table, since ast.Function is not itself an
// ast.Expression.
func (c *Context) CheckFunctionDecl(fn *ast.Function) error {
	c.Scope.PushStack(true)
	defer c.Scope.PopStack()

	for _, gp := range fn.Sig.GenericParams {
		kind, err := c.BuildGenericKind(gp)
		if err != nil {
			return err
		}
		if err := c.Scope.Add("$"+gp.Name, types.Generic{Kind: kind}, false); err != nil {
			return err
		}
	}

	argTypes := make([]types.Type, len(fn.Sig.Args))
	for i, p := range fn.Sig.Args {
		t, err := c.BuildType(p.TypeAnnotation)
		if err != nil {
			return err
		}
		argTypes[i] = t
		if err := c.Scope.Add(p.Name, t, false); err != nil {
			return err
		}
	}
	retType, err := c.BuildType(fn.Sig.ReturnType)
	if err != nil {
		return err
	}
	fn.ResolvedSig = &types.Func{Args: argTypes, Return: retType}

	body, bodyType, err := c.Check(fn.Expression, retType)
	if err != nil {
		return err
	}
	fn.Expression = body
	if !bodyType.Equal(retType) {
		converted, ok := Convert(fn.Expression, bodyType, retType)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrTypeMismatch, fn.Expression.GetToken(),
				"function %s: body type %s does not match declared return type %s", fn.Sig.Name, bodyType, retType)
		}
		converted.SetType(retType)
		fn.Expression = converted
	}

	fn.TypeChecked = true
	return nil
}

// BuildGenericKind turns a source-written generic parameter declaration
// (e.g. `$T` or `$T: Ord` or `$T: Ord & Show`) into the GenericKind it
// denotes, resolving any bounding interface names through c.Interfaces.
// Exported so the module driver's resolve_types can declare the same kind
// of placeholder for a generic struct/sum declaration's own parameters.
func (c *Context) BuildGenericKind(gp ast.GenericParamDecl) (types.GenericKind, error) {
	if len(gp.Interfaces) == 0 {
		return types.Any{Name: gp.Name}, nil
	}
	if len(gp.Interfaces) == 1 {
		return types.Any{Name: gp.Name, Interface: gp.Interfaces[0]}, nil
	}
	ifaces := make([]*types.Interface, 0, len(gp.Interfaces))
	for _, name := range gp.Interfaces {
		iface, ok := c.Interfaces(name)
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrUnknownType, token.Token{}, "unknown interface %q", name)
		}
		ifaces = append(ifaces, iface)
	}
	return types.Restricted{Name: gp.Name, Interfaces: ifaces}, nil
}
