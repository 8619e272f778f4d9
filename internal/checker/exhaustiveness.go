package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkExhaustiveness decides whether the set of patterns in a match covers
// every inhabitant of the target type. Duplicate patterns and patterns
// appearing after an Any are warnings, not errors (the first match wins at
// runtime); this checker only surfaces them via the diagnostics bag rather
// than aborting the pass, keeping them separate from the hard
// exhaustiveness failure below.
func (c *Context) checkExhaustiveness(n *ast.Match, target types.Type) error {
	hasAny := false
	for i, mc := range n.Cases {
		if hasAny {
			c.Diags.Add(diagnostics.NewWarning(diagnostics.ErrInvalidPattern, mc.Pattern.GetToken(),
				"unreachable pattern after a catch-all"))
		}
		if _, ok := mc.Pattern.(ast.AnyPattern); ok {
			hasAny = true
		}
		for j := 0; j < i; j++ {
			if patternsEqual(n.Cases[j].Pattern, mc.Pattern) {
				c.Diags.Add(diagnostics.NewWarning(diagnostics.ErrInvalidPattern, mc.Pattern.GetToken(),
					"duplicate pattern, first match wins"))
			}
		}
	}

	if hasAny {
		return nil
	}

	switch t := target.(type) {
	case types.Sum:
		return c.checkSumExhaustiveness(n, t)
	case types.Optional:
		return c.checkOptionalExhaustiveness(n)
	case types.Enum:
		return c.checkEnumExhaustiveness(n, t)
	default:
		if types.IsSequence(target) {
			return c.checkSequenceExhaustiveness(n)
		}
		return diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, n.Tok,
			"match over %s is not exhaustive: requires a catch-all (_) pattern", target)
	}
}

func (c *Context) checkSumExhaustiveness(n *ast.Match, sum types.Sum) error {
	covered := make(map[string]bool)
	for _, mc := range n.Cases {
		switch pat := mc.Pattern.(type) {
		case ast.NamePattern:
			covered[pat.Name] = true
		case ast.StructPattern:
			covered[pat.Name] = true
		}
	}
	var missing []string
	for _, cs := range sum.Cases {
		if !covered[cs.Name] {
			missing = append(missing, cs.Name)
		}
	}
	if len(missing) > 0 {
		return diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, n.Tok,
			"match over %s is not exhaustive: missing case(s) %v", sum.Name, missing)
	}
	return nil
}

func (c *Context) checkOptionalExhaustiveness(n *ast.Match) error {
	hasNil, hasSome := false, false
	for _, mc := range n.Cases {
		switch mc.Pattern.(type) {
		case ast.NilPattern:
			hasNil = true
		case ast.OptionalPattern:
			hasSome = true
		}
	}
	if !hasNil || !hasSome {
		return diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, n.Tok,
			"match over an optional requires both a nil pattern and a present-value pattern")
	}
	return nil
}

func (c *Context) checkSequenceExhaustiveness(n *ast.Match) error {
	hasEmpty, hasArray := false, false
	for _, mc := range n.Cases {
		switch mc.Pattern.(type) {
		case ast.EmptyArrayPattern:
			hasEmpty = true
		case ast.ArrayPattern:
			hasArray = true
		}
	}
	if !hasEmpty || !hasArray {
		return diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, n.Tok,
			"match over a sequence requires both an empty-array pattern and a head/tail pattern (literal arrays alone never exhaust)")
	}
	return nil
}

func (c *Context) checkEnumExhaustiveness(n *ast.Match, e types.Enum) error {
	covered := make(map[string]bool)
	for _, mc := range n.Cases {
		if pat, ok := mc.Pattern.(ast.NamePattern); ok {
			covered[pat.Name] = true
		}
	}
	var missing []string
	for _, cs := range e.Cases {
		if !covered[cs] {
			missing = append(missing, cs)
		}
	}
	if len(missing) > 0 {
		return diagnostics.NewError(diagnostics.ErrNonExhaustiveMatch, n.Tok,
			"match over %s is not exhaustive: missing case(s) %v", e.Name, missing)
	}
	return nil
}

// patternsEqual is a shallow structural comparison sufficient for duplicate
// detection; it does not attempt value-level comparison of
// LiteralPattern's embedded expression.
func patternsEqual(a, b ast.Pattern) bool {
	switch pa := a.(type) {
	case ast.NamePattern:
		pb, ok := b.(ast.NamePattern)
		return ok && pa.Name == pb.Name
	case ast.StructPattern:
		pb, ok := b.(ast.StructPattern)
		return ok && pa.Name == pb.Name
	case ast.EmptyArrayPattern:
		_, ok := b.(ast.EmptyArrayPattern)
		return ok
	case ast.NilPattern:
		_, ok := b.(ast.NilPattern)
		return ok
	default:
		return false
	}
}
