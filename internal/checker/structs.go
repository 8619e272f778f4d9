package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/generics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkAnonStructLiteral implements anonymous-form
// StructInitializer rule: each member checked with no hint, producing an
// anonymous (Name == "") struct type.
func (c *Context) checkAnonStructLiteral(n *ast.AnonStructLiteral) (types.Type, ast.Expression, error) {
	members := make([]types.Member, len(n.Fields))
	for i, f := range n.Fields {
		value, t, err := c.Check(f.Value, nil)
		if err != nil {
			return nil, nil, err
		}
		n.Fields[i].Value = value
		members[i] = types.Member{Name: f.Name, Type: t}
	}
	return types.Struct{Members: members}, nil, nil
}

// checkStructInit implements named-form StructInitializer
// rule: resolve the declared struct or sum case, require the positional
// initializer count to match, check each with the declared member type as
// hint, and fill generic parameters from the actuals.
func (c *Context) checkStructInit(n *ast.StructInit, hint types.Type) (types.Type, ast.Expression, error) {
	name := n.TypeName
	if name == "" {
		// Bare `.Circle{1}` form: resolve the case name against a sum type
		// named by the hint.
		if s, ok := hint.(types.Sum); ok {
			name = s.Name
			n.TypeName = name
		} else {
			return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownType, n.Tok,
				"cannot resolve case %q without a sum type hint", n.CaseName)
		}
	}

	decl, ok := c.Module.Types[name]
	if !ok || decl.Resolved == nil {
		return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownType, n.Tok, "unknown type %q", name)
	}

	var members []types.Member
	var resultType types.Type

	switch rt := decl.Resolved.(type) {
	case types.Struct:
		members = rt.Members
		resultType = rt
	case types.Sum:
		caseName := n.CaseName
		if caseName == "" {
			caseName = name
		}
		sc, ok := rt.CaseByName(caseName)
		if !ok {
			return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownType, n.Tok,
				"sum %s has no case %q", rt.Name, caseName)
		}
		if st, ok := sc.Payload.(types.Struct); ok {
			members = st.Members
		}
		resultType = rt
	default:
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok, "%s is not a struct or sum type", name)
	}

	if len(n.Args) != len(members) {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
			"%s: expected %d initializer(s), got %d", name, len(members), len(n.Args))
	}

	subst := make(types.Subst)
	for i, arg := range n.Args {
		memberHint := members[i].Type.Apply(subst)
		newArg, argType, err := c.Check(arg, memberHint)
		if err != nil {
			return nil, nil, err
		}
		arg = newArg
		n.Args[i] = newArg
		if types.IsGeneric(members[i].Type) {
			if _, err := generics.FillInGenerics(argType, members[i].Type, subst); err != nil {
				return nil, nil, diagnostics.NewError(diagnostics.ErrGenericMismatch, arg.GetToken(), "%s", err)
			}
			continue
		}
		if !argType.Equal(memberHint) {
			converted, ok := Convert(arg, argType, memberHint)
			if !ok {
				return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, arg.GetToken(),
					"member %q: expected %s, got %s", members[i].Name, memberHint, argType)
			}
			converted.SetType(memberHint)
			n.Args[i] = converted
		}
	}

	return resultType.Apply(subst), nil, nil
}

// checkMemberAccess implements MemberAccess rule: peel one
// level of Pointer transparently, resolve a struct field, a fixed sequence
// property (.length/.data), or the type of a method `StructName.f`. The
// rewrite of method-call syntax into a Call is done by tryDesugarMethodCall.
func (c *Context) checkMemberAccess(n *ast.MemberAccess) (types.Type, ast.Expression, error) {
	target, targetType, err := c.Check(n.Target, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Target = target
	peeled := targetType
	if p, ok := peeled.(types.Pointer); ok {
		peeled = p.Elem
	}

	switch t := peeled.(type) {
	case types.Struct:
		idx := t.MemberIndex(n.Name)
		if idx >= 0 {
			return t.Members[idx].Type, nil, nil
		}
		return c.resolveMethodOnType(t.Name, n)
	case types.Sum:
		return c.resolveMethodOnType(t.Name, n)
	case types.Array:
		return c.resolveSequenceProperty(peeled, n)
	case types.Slice:
		return c.resolveSequenceProperty(peeled, n)
	case types.Primitive:
		if t.Kind == types.String {
			return c.resolveSequenceProperty(peeled, n)
		}
	case types.Generic:
		for _, iface := range t.Interfaces(c.Interfaces) {
			if _, ok := iface.MethodSignature(n.Name); ok {
				return nil, nil, diagnostics.NewError(diagnostics.ErrOther, n.Tok,
					"generic method dispatch for %q is resolved at the call site, not bare member access", n.Name)
			}
		}
	}
	return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownName, n.Tok,
		"%s has no member %q", targetType, n.Name)
}

func (c *Context) resolveSequenceProperty(t types.Type, n *ast.MemberAccess) (types.Type, ast.Expression, error) {
	switch n.Name {
	case "length":
		return types.TInt, nil, nil
	case "data":
		elem, _ := types.GetElementType(t)
		return types.Pointer{Elem: elem}, nil, nil
	}
	return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownName, n.Tok, "%s has no property %q", t, n.Name)
}

// resolveMethodOnType resolves the method a member access denotes once
// checkMemberAccess has determined the access is not a struct field:
// `obj.f` becomes a lookup of `StructName.f` in the module's functions or
// externals. The call-syntax rewrite itself (`obj.f(args)` to a plain Call
// with `&obj` prepended) happens earlier, in checkCall's handling of *ast.Call
// callees whose Callee is itself a *ast.MemberAccess — see tryDesugarMethodCall
// in calls.go.
func (c *Context) resolveMethodOnType(typeName string, n *ast.MemberAccess) (types.Type, ast.Expression, error) {
	fqname := typeName + "." + n.Name
	if fn, ok := c.Module.Functions[fqname]; ok && fn.ResolvedSig != nil {
		return *fn.ResolvedSig, nil, nil
	}
	if ext, ok := c.Module.Externals[fqname]; ok && ext.ResolvedSig != nil {
		return *ext.ResolvedSig, nil, nil
	}
	return nil, nil, diagnostics.NewError(diagnostics.ErrUnknownName, n.Tok, "%s has no method %q", typeName, n.Name)
}

// checkNew implements New rule.
func (c *Context) checkNew(n *ast.New) (types.Type, ast.Expression, error) {
	operand, t, err := c.Check(n.Operand, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Operand = operand
	return types.Pointer{Elem: t}, nil, nil
}

// checkDelete implements Delete rule.
func (c *Context) checkDelete(n *ast.Delete) (types.Type, ast.Expression, error) {
	operand, t, err := c.Check(n.Operand, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Operand = operand
	if _, ok := t.(types.Pointer); !ok {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok, "delete requires a pointer, got %s", t)
	}
	return types.TVoid, nil, nil
}

// checkAddressOf implements AddressOf rule.
func (c *Context) checkAddressOf(n *ast.AddressOf) (types.Type, ast.Expression, error) {
	operand, t, err := c.Check(n.Operand, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Operand = operand
	return types.Pointer{Elem: t}, nil, nil
}

// checkArrayToSlice re-checks a synthesized (or, on a second driver pass,
// already-present) ArrayToSlice wrapper.
func (c *Context) checkArrayToSlice(n *ast.ArrayToSlice) (types.Type, ast.Expression, error) {
	inner, t, err := c.Check(n.Inner, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Inner = inner
	a, ok := t.(types.Array)
	if !ok {
		return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok, "ArrayToSlice requires an array, got %s", t)
	}
	return types.Slice{Elem: a.Elem}, nil, nil
}

// checkToOptional re-checks a synthesized (or, on a second driver pass,
// already-present) ToOptional wrapper. The wrapper always lifts Inner to
// Optional(Elem) where Elem was the *other* if/else branch's type at the
// point checkIf built it — never Inner's own type, which for a nil-lifted
// branch is Nil itself. A naive re-derivation from Inner's checked type
// would collapse to the illegal Optional(Nil) on a second pass (e.g. when a
// generic function's body is cloned and re-checked for instantiation), so an
// already-set Optional type is preserved rather than recomputed.
func (c *Context) checkToOptional(n *ast.ToOptional) (types.Type, ast.Expression, error) {
	inner, t, err := c.Check(n.Inner, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Inner = inner
	if existing, ok := n.GetType().(types.Optional); ok {
		return existing, nil, nil
	}
	return types.Optional{Elem: t}, nil, nil
}

// checkCast implements Cast rule: explicit-only, allowed
// only among {Int, UInt, Float}.
func (c *Context) checkCast(n *ast.Cast) (types.Type, ast.Expression, error) {
	inner, srcType, err := c.Check(n.Inner, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Inner = inner
	dstType, err := c.BuildType(n.Target)
	if err != nil {
		return nil, nil, err
	}
	if !isCastable(srcType) || !isCastable(dstType) {
		return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidCast, n.Tok,
			"cast only allowed among Int/UInt/Float, got %s -> %s", srcType, dstType)
	}
	return dstType, nil, nil
}

func isCastable(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && (p.Kind == types.Int || p.Kind == types.UInt || p.Kind == types.Float)
}
