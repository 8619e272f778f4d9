package checker

import (
	"testing"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

func newTestContext() *Context {
	return &Context{Diags: diagnostics.NewBag()}
}

func matchOf(target types.Type, cases ...ast.MatchCase) *ast.Match {
	return &ast.Match{Cases: cases}
}

func TestSumExhaustivenessMissingCase(t *testing.T) {
	c := newTestContext()
	shape := types.Sum{
		Name: "Shape",
		Cases: []types.SumCase{
			{Name: "Circle", Payload: types.Struct{Name: "Circle", Members: []types.Member{{Name: "r", Type: types.TInt}}}},
			{Name: "Square", Payload: types.Struct{Name: "Square", Members: []types.Member{{Name: "s", Type: types.TInt}}}},
		},
	}
	m := matchOf(shape, ast.MatchCase{Pattern: ast.StructPattern{Name: "Circle", Bindings: []string{"r"}}})

	err := c.checkExhaustiveness(m, shape)
	if err == nil {
		t.Fatal("expected a non-exhaustive-match error, got nil")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok {
		t.Fatalf("expected *diagnostics.DiagnosticError, got %T", err)
	}
	if de.Code != diagnostics.ErrNonExhaustiveMatch {
		t.Errorf("expected code %s, got %s", diagnostics.ErrNonExhaustiveMatch, de.Code)
	}
}

func TestSumExhaustivenessAllCasesCovered(t *testing.T) {
	c := newTestContext()
	shape := types.Sum{
		Name: "Shape",
		Cases: []types.SumCase{
			{Name: "Circle", Payload: types.Struct{Name: "Circle"}},
			{Name: "Square", Payload: types.Struct{Name: "Square"}},
		},
	}
	m := matchOf(shape,
		ast.MatchCase{Pattern: ast.StructPattern{Name: "Circle"}},
		ast.MatchCase{Pattern: ast.StructPattern{Name: "Square"}},
	)

	if err := c.checkExhaustiveness(m, shape); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestSumExhaustivenessCatchAllSatisfies(t *testing.T) {
	c := newTestContext()
	shape := types.Sum{Name: "Shape", Cases: []types.SumCase{{Name: "Circle", Payload: types.Struct{Name: "Circle"}}}}
	m := matchOf(shape, ast.MatchCase{Pattern: ast.AnyPattern{}})

	if err := c.checkExhaustiveness(m, shape); err != nil {
		t.Fatalf("expected no error with a catch-all, got %v", err)
	}
}

func TestOptionalExhaustivenessRequiresBothArms(t *testing.T) {
	c := newTestContext()
	opt := types.Optional{Elem: types.TInt}

	onlyNil := matchOf(opt, ast.MatchCase{Pattern: ast.NilPattern{}})
	if err := c.checkExhaustiveness(onlyNil, opt); err == nil {
		t.Error("expected an error when only the nil arm is present")
	}

	both := matchOf(opt,
		ast.MatchCase{Pattern: ast.NilPattern{}},
		ast.MatchCase{Pattern: ast.OptionalPattern{Binding: "v"}},
	)
	if err := c.checkExhaustiveness(both, opt); err != nil {
		t.Errorf("expected no error with both arms present, got %v", err)
	}
}

func TestSequenceExhaustivenessRequiresEmptyAndCons(t *testing.T) {
	c := newTestContext()
	seq := types.Slice{Elem: types.TInt}

	onlyCons := matchOf(seq, ast.MatchCase{Pattern: ast.ArrayPattern{Head: "h", Tail: "t"}})
	if err := c.checkExhaustiveness(onlyCons, seq); err == nil {
		t.Error("expected an error when the empty-array arm is missing")
	}

	both := matchOf(seq,
		ast.MatchCase{Pattern: ast.EmptyArrayPattern{}},
		ast.MatchCase{Pattern: ast.ArrayPattern{Head: "h", Tail: "t"}},
	)
	if err := c.checkExhaustiveness(both, seq); err != nil {
		t.Errorf("expected no error with both arms present, got %v", err)
	}
}

func TestEnumExhaustivenessMissingCase(t *testing.T) {
	c := newTestContext()
	e := types.Enum{Name: "Color", Cases: []string{"Red", "Green", "Blue"}}
	m := matchOf(e,
		ast.MatchCase{Pattern: ast.NamePattern{Name: "Red"}},
		ast.MatchCase{Pattern: ast.NamePattern{Name: "Green"}},
	)

	err := c.checkExhaustiveness(m, e)
	if err == nil {
		t.Fatal("expected a non-exhaustive-match error for the missing Blue case")
	}
}

func TestDuplicatePatternIsWarningNotError(t *testing.T) {
	c := newTestContext()
	e := types.Enum{Name: "Color", Cases: []string{"Red"}}
	m := matchOf(e,
		ast.MatchCase{Pattern: ast.NamePattern{Name: "Red"}},
		ast.MatchCase{Pattern: ast.NamePattern{Name: "Red"}},
	)

	if err := c.checkExhaustiveness(m, e); err != nil {
		t.Fatalf("a duplicate pattern must not itself be a fatal error, got %v", err)
	}
	if c.Diags.Len() != 0 {
		t.Errorf("duplicate-pattern notice must not count toward Bag.Len(), got %d", c.Diags.Len())
	}
	found := false
	for _, d := range c.Diags.Errors() {
		if d.Severity == diagnostics.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Error("expected a warning-severity diagnostic for the duplicate pattern")
	}
}

func TestUnreachablePatternAfterCatchAllIsWarning(t *testing.T) {
	c := newTestContext()
	e := types.Enum{Name: "Color", Cases: []string{"Red"}}
	m := matchOf(e,
		ast.MatchCase{Pattern: ast.AnyPattern{}},
		ast.MatchCase{Pattern: ast.NamePattern{Name: "Red"}},
	)

	if err := c.checkExhaustiveness(m, e); err != nil {
		t.Fatalf("expected no fatal error, got %v", err)
	}
	if c.Diags.Len() != 0 {
		t.Errorf("unreachable-pattern notice must not count toward Bag.Len(), got %d", c.Diags.Len())
	}
}

func TestMatchWithNoCatchAllOverPrimitiveIsNonExhaustive(t *testing.T) {
	c := newTestContext()
	m := matchOf(types.TInt, ast.MatchCase{Pattern: ast.LiteralPattern{Value: &ast.IntLiteral{Value: 1}}})

	err := c.checkExhaustiveness(m, types.TInt)
	if err == nil {
		t.Fatal("match over a primitive with no catch-all must be non-exhaustive")
	}
	de, ok := err.(*diagnostics.DiagnosticError)
	if !ok || de.Code != diagnostics.ErrNonExhaustiveMatch {
		t.Errorf("expected ErrNonExhaustiveMatch, got %v", err)
	}
}
