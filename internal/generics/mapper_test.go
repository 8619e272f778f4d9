package generics

import (
	"testing"

	"github.com/cobra-lang/cobrac/internal/types"
)

func genericT(name string) types.Type {
	return types.Generic{Kind: types.Any{Name: name}}
}

func TestFillInGenericsSimpleBind(t *testing.T) {
	subst := types.Subst{}
	result, err := FillInGenerics(types.TInt, genericT("T"), subst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(types.TInt) {
		t.Errorf("expected Int, got %s", result)
	}
	if !subst["T"].Equal(types.TInt) {
		t.Errorf("expected subst[T] = Int, got %s", subst["T"])
	}
}

func TestFillInGenericsConsistentRebind(t *testing.T) {
	subst := types.Subst{"T": types.TInt}
	// Same generic parameter bound twice to the same concrete type must succeed.
	if _, err := FillInGenerics(types.TInt, genericT("T"), subst); err != nil {
		t.Errorf("rebinding to an identical type should not error, got %v", err)
	}
}

func TestFillInGenericsMismatchErrors(t *testing.T) {
	subst := types.Subst{"T": types.TInt}
	_, err := FillInGenerics(types.TBool, genericT("T"), subst)
	if err == nil {
		t.Fatal("expected a GenericMismatchError when T is already bound to Int")
	}
	if _, ok := err.(*GenericMismatchError); !ok {
		t.Errorf("expected *GenericMismatchError, got %T", err)
	}
}

func TestFillInGenericsStructuralWalk(t *testing.T) {
	subst := types.Subst{}
	genericSlice := types.Slice{Elem: genericT("T")}
	concreteSlice := types.Slice{Elem: types.TString}

	result, err := FillInGenerics(concreteSlice, genericSlice, subst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Equal(concreteSlice) {
		t.Errorf("expected Slice(String), got %s", result)
	}
	if !subst["T"].Equal(types.TString) {
		t.Errorf("expected subst[T] = String, got %s", subst["T"])
	}
}

func TestFillInGenericsShapeMismatch(t *testing.T) {
	subst := types.Subst{}
	genericSlice := types.Slice{Elem: genericT("T")}
	_, err := FillInGenerics(types.TInt, genericSlice, subst)
	if err == nil {
		t.Fatal("expected a ShapeMismatchError when concrete isn't a Slice")
	}
	if _, ok := err.(*ShapeMismatchError); !ok {
		t.Errorf("expected *ShapeMismatchError, got %T", err)
	}
}

func TestFillInGenericsFuncArgsAndReturn(t *testing.T) {
	subst := types.Subst{}
	genericFn := types.Func{Args: []types.Type{genericT("T")}, Return: genericT("T")}
	concreteFn := types.Func{Args: []types.Type{types.TInt}, Return: types.TInt}

	_, err := FillInGenerics(concreteFn, genericFn, subst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !subst["T"].Equal(types.TInt) {
		t.Errorf("expected subst[T] = Int, got %s", subst["T"])
	}
}

func TestFillInGenericsNonGenericLeafChecksShapeOnly(t *testing.T) {
	subst := types.Subst{}
	if _, err := FillInGenerics(types.TInt, types.TInt, subst); err != nil {
		t.Errorf("identical primitives should match, got %v", err)
	}
	if _, err := FillInGenerics(types.TBool, types.TInt, subst); err == nil {
		t.Error("mismatched primitives should fail")
	}
}

func TestMakeConcreteAppliesSubstitution(t *testing.T) {
	subst := types.Subst{"T": types.TString}
	result := MakeConcrete(subst, genericT("T"))
	if !result.Equal(types.TString) {
		t.Errorf("expected String, got %s", result)
	}
}

func TestMakeConcreteLeavesUnboundNameGeneric(t *testing.T) {
	subst := types.Subst{}
	result := MakeConcrete(subst, genericT("U"))
	if _, ok := result.(types.Generic); !ok {
		t.Errorf("expected an unbound generic to pass through unresolved, got %T", result)
	}
}

func TestMangledNameOrdersByDeclaredOrder(t *testing.T) {
	subst := types.Subst{"T": types.TInt, "U": types.TBool}
	name := MangledName("id", []string{"T", "U"}, subst)
	if name != "id<Int,Bool>" {
		t.Errorf("expected id<Int,Bool>, got %s", name)
	}
}

func TestMangledNameNoSubstitutionsReturnsBareName(t *testing.T) {
	subst := types.Subst{}
	name := MangledName("plain", nil, subst)
	if name != "plain" {
		t.Errorf("expected bare fqname with no substitutions, got %s", name)
	}
}
