// Package generics implements the generic mapper (fill_in_generics,
// extending a substitution by unifying a concrete argument type against a
// generic-parameter-carrying expected type) and the instantiator
// (make_concrete, instantiate_generics — cloning a generic function at a
// monomorphic type). It is grounded on the teacher's
// internal/typesystem/unify.go (structural lockstep walk with a visited set
// for co-induction) and internal/typesystem/replace.go (substitution
// application), adapted from the teacher's Hindley-Milner unifier to a
// simpler one-directional "extend subst from concrete arg into generic
// param" rule — unrestricted polymorphism inference is explicitly out of
// scope here, so there is no true unification, only substitution
// extension.
package generics

import (
	"fmt"

	"github.com/cobra-lang/cobrac/internal/types"
)

// GenericMismatchError is returned when a generic parameter name is already
// bound in the substitution to a different, incompatible type.
type GenericMismatchError struct {
	Param    string
	Existing types.Type
	New      types.Type
}

func (e *GenericMismatchError) Error() string {
	return fmt.Sprintf("generic parameter %s already bound to %s, cannot also bind to %s",
		e.Param, e.Existing, e.New)
}

// ShapeMismatchError is returned when the concrete type's shape does not
// match the generic type's non-generic structure.
type ShapeMismatchError struct {
	Concrete types.Type
	Generic  types.Type
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s does not match the shape of %s", e.Concrete, e.Generic)
}

// maxDepth bounds the structural walk. Cobra/Nomad type declarations can't
// construct an infinite type, so this is a backstop against a malformed generic
// signature rather than a real limit.
const maxDepth = 256

// FillInGenerics walks concrete and generic in lockstep. Whenever it
// reaches a Generic(name) on the generic side, it records name ↦ concrete
// in subst (mutated in place). A name already bound to a different type
// fails with GenericMismatchError. Returns the substitution's
// concretisation of the generic type, useful for pretty errors.
func FillInGenerics(concrete, generic types.Type, subst types.Subst) (types.Type, error) {
	return fillInGenerics(concrete, generic, subst, 0)
}

func fillInGenerics(concrete, generic types.Type, subst types.Subst, depth int) (types.Type, error) {
	if depth > maxDepth {
		return nil, &ShapeMismatchError{concrete, generic}
	}
	depth++

	if g, ok := generic.(types.Generic); ok {
		name := genericName(g)
		if existing, bound := subst[name]; bound {
			if !existing.Equal(concrete) {
				return nil, &GenericMismatchError{Param: name, Existing: existing, New: concrete}
			}
			return existing, nil
		}
		subst[name] = concrete
		return concrete, nil
	}

	switch g := generic.(type) {
	case types.Pointer:
		c, ok := concrete.(types.Pointer)
		if !ok {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		elem, err := fillInGenerics(c.Elem, g.Elem, subst, depth)
		if err != nil {
			return nil, err
		}
		return types.Pointer{Elem: elem}, nil

	case types.Array:
		c, ok := concrete.(types.Array)
		if !ok || c.Length != g.Length {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		elem, err := fillInGenerics(c.Elem, g.Elem, subst, depth)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem, Length: c.Length}, nil

	case types.Slice:
		c, ok := concrete.(types.Slice)
		if !ok {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		elem, err := fillInGenerics(c.Elem, g.Elem, subst, depth)
		if err != nil {
			return nil, err
		}
		return types.Slice{Elem: elem}, nil

	case types.Optional:
		c, ok := concrete.(types.Optional)
		if !ok {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		elem, err := fillInGenerics(c.Elem, g.Elem, subst, depth)
		if err != nil {
			return nil, err
		}
		return types.Optional{Elem: elem}, nil

	case types.Struct:
		c, ok := concrete.(types.Struct)
		if !ok || len(c.Members) != len(g.Members) {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		out := types.Struct{Name: g.Name, Members: make([]types.Member, len(g.Members))}
		for i, m := range g.Members {
			if c.Members[i].Name != m.Name {
				return nil, &ShapeMismatchError{concrete, generic}
			}
			mt, err := fillInGenerics(c.Members[i].Type, m.Type, subst, depth)
			if err != nil {
				return nil, err
			}
			out.Members[i] = types.Member{Name: m.Name, Type: mt}
		}
		return out, nil

	case types.Sum:
		c, ok := concrete.(types.Sum)
		if !ok || len(c.Cases) != len(g.Cases) {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		out := types.Sum{Name: g.Name, Cases: make([]types.SumCase, len(g.Cases))}
		for i, cs := range g.Cases {
			if c.Cases[i].Name != cs.Name {
				return nil, &ShapeMismatchError{concrete, generic}
			}
			pt, err := fillInGenerics(c.Cases[i].Payload, cs.Payload, subst, depth)
			if err != nil {
				return nil, err
			}
			out.Cases[i] = types.SumCase{Name: cs.Name, Payload: pt}
		}
		return out, nil

	case types.Func:
		c, ok := concrete.(types.Func)
		if !ok || len(c.Args) != len(g.Args) {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		out := types.Func{Args: make([]types.Type, len(g.Args))}
		for i, a := range g.Args {
			at, err := fillInGenerics(c.Args[i], a, subst, depth)
			if err != nil {
				return nil, err
			}
			out.Args[i] = at
		}
		ret, err := fillInGenerics(c.Return, g.Return, subst, depth)
		if err != nil {
			return nil, err
		}
		out.Return = ret
		return out, nil

	default:
		// Non-generic leaf (Primitive, Enum, Interface): no substitution
		// possible, just check shape.
		if !concrete.Equal(generic) {
			return nil, &ShapeMismatchError{concrete, generic}
		}
		return concrete, nil
	}
}

func genericName(g types.Generic) string {
	switch k := g.Kind.(type) {
	case types.Any:
		return k.Name
	case types.Restricted:
		return k.Name
	default:
		return ""
	}
}
