package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkLambda implements Lambda rule. With a Func hint, the
// hint fixes any parameter the source left unannotated and the return type;
// without one, an unannotated (and therefore generic-shaped) lambda is
// postponed by returning Unknown; checkBindingExpression re-checks it once
// a call site supplies a Func hint.
func (c *Context) checkLambda(n *ast.Lambda, hint types.Type) (types.Type, ast.Expression, error) {
	if n.Name == "" {
		n.Name = c.nextLambdaName()
	}

	fnHint, hasHint := hint.(types.Func)

	if !hasHint && c.lambdaIsUnannotated(n) {
		return types.TUnknown, nil, nil
	}

	c.Scope.PushStack(true)
	defer c.Scope.PopStack()

	argTypes := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		var t types.Type
		var err error
		switch {
		case p.TypeAnnotation != nil:
			t, err = c.BuildType(p.TypeAnnotation)
		case hasHint && i < len(fnHint.Args):
			t = fnHint.Args[i]
		default:
			return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownType, n.Tok,
				"cannot infer type of lambda parameter %q without a hint", p.Name)
		}
		if err != nil {
			return nil, nil, err
		}
		argTypes[i] = t
		if err := c.Scope.Add(p.Name, t, false); err != nil {
			return nil, nil, err
		}
	}

	var retHint types.Type
	if n.ReturnType != nil {
		t, err := c.BuildType(n.ReturnType)
		if err != nil {
			return nil, nil, err
		}
		retHint = t
	} else if hasHint && !fnHint.Return.Equal(types.TUnknown) {
		// A hint carrying an Unknown return (the shape checkCall builds when
		// it only knows the lambda's argument types, from retrying a call
		// against a postponed binding) fixes parameters but leaves the
		// return type to flow from the body, same as having no hint at all.
		retHint = fnHint.Return
	}

	body, bodyType, err := c.Check(n.Body, retHint)
	if err != nil {
		return nil, nil, err
	}
	n.Body = body
	if retHint != nil && !bodyType.Equal(retHint) {
		converted, ok := Convert(n.Body, bodyType, retHint)
		if !ok {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Body.GetToken(),
				"lambda body type %s does not match return type %s", bodyType, retHint)
		}
		converted.SetType(retHint)
		n.Body = converted
		bodyType = retHint
	}

	return types.Func{Args: argTypes, Return: bodyType}, nil, nil
}

func (c *Context) lambdaIsUnannotated(n *ast.Lambda) bool {
	if n.ReturnType == nil {
		return true
	}
	for _, p := range n.Params {
		if p.TypeAnnotation == nil {
			return true
		}
	}
	return false
}
