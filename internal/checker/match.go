package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkMatch implements Match rule: check the target, then
// each case's pattern (binding names into a fresh frame) and body, requiring
// every body to agree on one result type (the first non-Unknown body fixes
// it), then runs exhaustiveness.
func (c *Context) checkMatch(n *ast.Match) (types.Type, ast.Expression, error) {
	target, targetType, err := c.Check(n.Target, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Target = target

	var resultType types.Type
	for i := range n.Cases {
		mc := &n.Cases[i]
		c.Scope.PushStack(false)
		if err := c.checkPattern(mc.Pattern, targetType); err != nil {
			c.Scope.PopStack()
			return nil, nil, err
		}
		body, bodyType, err := c.Check(mc.Body, resultType)
		c.Scope.PopStack()
		if err != nil {
			return nil, nil, err
		}
		mc.Body = body
		if resultType == nil || resultType.Equal(types.TUnknown) {
			resultType = bodyType
			continue
		}
		if !bodyType.Equal(resultType) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, mc.Body.GetToken(),
				"match arms must produce the same type: expected %s, got %s", resultType, bodyType)
		}
	}

	if err := c.checkExhaustiveness(n, targetType); err != nil {
		return nil, nil, err
	}

	if resultType == nil {
		resultType = types.TVoid
	}
	return resultType, nil, nil
}

// checkPattern implements the per-pattern-kind typing and binding rules of
// Match rule.
func (c *Context) checkPattern(p ast.Pattern, target types.Type) error {
	switch pat := p.(type) {
	case ast.EmptyArrayPattern:
		if !types.IsSequence(target) {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "[] pattern requires a sequence target, got %s", target)
		}
		return nil

	case ast.ArrayPattern:
		if !types.IsSequence(target) {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "array pattern requires a sequence target, got %s", target)
		}
		elem, _ := types.GetElementType(target)
		if pat.Head != "" && pat.Head != "_" {
			if err := c.Scope.Add(pat.Head, elem, false); err != nil {
				return err
			}
		}
		if pat.Tail != "" && pat.Tail != "_" {
			if err := c.Scope.Add(pat.Tail, types.Slice{Elem: elem}, false); err != nil {
				return err
			}
		}
		return nil

	case ast.NamePattern:
		switch t := target.(type) {
		case types.Sum:
			sc, ok := t.CaseByName(pat.Name)
			if !ok || !sc.IsPayloadless() {
				return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok,
					"%s has no payload-less case %q", t.Name, pat.Name)
			}
			return nil
		case types.Enum:
			if !t.HasCase(pat.Name) {
				return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "%s has no case %q", t.Name, pat.Name)
			}
			return nil
		default:
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok,
				"name pattern requires a sum or enum target, got %s", target)
		}

	case ast.LiteralPattern:
		value, litType, err := c.Check(pat.Value, target)
		if err != nil {
			return err
		}
		pat.Value = value
		if !types.IsMatchable(target, litType) {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok,
				"literal pattern of type %s cannot match %s", litType, target)
		}
		return nil

	case ast.StructPattern:
		var members []types.Member
		switch t := target.(type) {
		case types.Struct:
			members = t.Members
		case types.Sum:
			sc, ok := t.CaseByName(pat.Name)
			if !ok {
				return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "%s has no case %q", t.Name, pat.Name)
			}
			st, ok := sc.Payload.(types.Struct)
			if !ok {
				return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "case %q carries no struct payload", pat.Name)
			}
			members = st.Members
		default:
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok,
				"struct pattern requires a struct or struct-carrying sum case, got %s", target)
		}
		if len(pat.Bindings) != len(members) {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok,
				"pattern has %d binding(s), type has %d member(s)", len(pat.Bindings), len(members))
		}
		for i, name := range pat.Bindings {
			if name == "_" {
				continue
			}
			if err := c.Scope.Add(name, members[i].Type, false); err != nil {
				return err
			}
		}
		return nil

	case ast.AnyPattern:
		return nil

	case ast.NilPattern:
		if !types.IsOptional(target) {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "nil pattern requires an optional target, got %s", target)
		}
		return nil

	case ast.OptionalPattern:
		o, ok := target.(types.Optional)
		if !ok {
			return diagnostics.NewError(diagnostics.ErrInvalidPattern, pat.Tok, "optional pattern requires an optional target, got %s", target)
		}
		if pat.Binding != "" && pat.Binding != "_" {
			if err := c.Scope.Add(pat.Binding, o.Elem, false); err != nil {
				return err
			}
		}
		return nil

	default:
		return diagnostics.NewError(diagnostics.ErrOther, p.GetToken(), "checker: unhandled pattern type %T", p)
	}
}
