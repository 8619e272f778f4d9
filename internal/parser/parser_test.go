package parser_test

import (
	"testing"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/parser"
)

func parseModule(t *testing.T, name, src string) *ast.Module {
	t.Helper()
	module, errs := parser.ParseModule(name, name+".cobra", src)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return module
}

func TestParseFunctionDecl(t *testing.T) {
	module := parseModule(t, "m", `fn add(a: Int, b: Int) -> Int = a + b`)
	fn, ok := module.Functions["add"]
	if !ok {
		t.Fatal("expected function \"add\" to be declared")
	}
	if len(fn.Sig.Args) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Sig.Args))
	}
	if _, ok := fn.Expression.(*ast.Binary); !ok {
		t.Fatalf("expected a Binary body, got %T", fn.Expression)
	}
}

func TestParseMethodSig(t *testing.T) {
	module := parseModule(t, "m", `fn Point.translate(p: Point, dx: Int) -> Point = p`)
	if _, ok := module.Functions["Point.translate"]; !ok {
		t.Fatalf("expected dotted method name \"Point.translate\", got keys %v", keys(module.Functions))
	}
}

func TestParseGenericFunction(t *testing.T) {
	module := parseModule(t, "m", `fn id<$T>(x: $T) -> $T = x`)
	fn := module.Functions["id"]
	if len(fn.Sig.GenericParams) != 1 || fn.Sig.GenericParams[0].Name != "$T" {
		t.Fatalf("expected one generic param $T, got %v", fn.Sig.GenericParams)
	}
}

func TestParseGenericBound(t *testing.T) {
	module := parseModule(t, "m", `fn max<$T: Ord & Show>(a: $T, b: $T) -> $T = a`)
	fn := module.Functions["max"]
	if len(fn.Sig.GenericParams[0].Interfaces) != 2 {
		t.Fatalf("expected two bounding interfaces, got %v", fn.Sig.GenericParams[0].Interfaces)
	}
}

func TestParseStructDecl(t *testing.T) {
	module := parseModule(t, "m", `struct Point { x: Int, y: Int }`)
	decl, ok := module.Types["Point"]
	if !ok || decl.Kind != ast.StructDeclKind {
		t.Fatalf("expected a struct decl \"Point\", got %v", decl)
	}
	if len(decl.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(decl.Members))
	}
}

func TestParseSumDecl(t *testing.T) {
	module := parseModule(t, "m", `sum Shape { Circle(r: Float), Square(side: Float), Point }`)
	decl := module.Types["Shape"]
	if len(decl.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(decl.Cases))
	}
	if len(decl.Cases[0].Members) != 1 || len(decl.Cases[2].Members) != 0 {
		t.Fatalf("unexpected case shapes: %+v", decl.Cases)
	}
}

func TestParseEnumDecl(t *testing.T) {
	module := parseModule(t, "m", `enum Color { Red, Green, Blue }`)
	decl := module.Types["Color"]
	if len(decl.EnumCases) != 3 {
		t.Fatalf("expected 3 enum cases, got %v", decl.EnumCases)
	}
}

func TestParseInterfaceDecl(t *testing.T) {
	module := parseModule(t, "m", `interface Show { show(Int) -> String }`)
	decl := module.Types["Show"]
	if len(decl.Methods) != 1 || decl.Methods[0].Name != "show" {
		t.Fatalf("unexpected interface methods: %+v", decl.Methods)
	}
}

func TestParseMatchExpression(t *testing.T) {
	module := parseModule(t, "m", `
fn describe(s: Shape) -> String = match s with {
	Circle(r) => "circle",
	Square(side) => "square",
	_ => "other"
}`)
	fn := module.Functions["describe"]
	m, ok := fn.Expression.(*ast.Match)
	if !ok {
		t.Fatalf("expected a Match body, got %T", fn.Expression)
	}
	if len(m.Cases) != 3 {
		t.Fatalf("expected 3 match arms, got %d", len(m.Cases))
	}
	if _, ok := m.Cases[0].Pattern.(ast.StructPattern); !ok {
		t.Fatalf("expected first arm to be a StructPattern, got %T", m.Cases[0].Pattern)
	}
	if _, ok := m.Cases[2].Pattern.(ast.AnyPattern); !ok {
		t.Fatalf("expected last arm to be AnyPattern, got %T", m.Cases[2].Pattern)
	}
}

func TestParseArrayConsPattern(t *testing.T) {
	module := parseModule(t, "m", `
fn total(xs: []Int) -> Int = match xs with {
	[] => 0,
	[h:t] => h
}`)
	m := module.Functions["total"].Expression.(*ast.Match)
	if _, ok := m.Cases[0].Pattern.(ast.EmptyArrayPattern); !ok {
		t.Fatalf("expected EmptyArrayPattern, got %T", m.Cases[0].Pattern)
	}
	ap, ok := m.Cases[1].Pattern.(ast.ArrayPattern)
	if !ok || ap.Head != "h" || ap.Tail != "t" {
		t.Fatalf("expected ArrayPattern{h,t}, got %+v", m.Cases[1].Pattern)
	}
}

func TestParseOptionalPattern(t *testing.T) {
	module := parseModule(t, "m", `
fn unwrap(o: Int?) -> Int = match o with {
	nil => 0,
	?v => v
}`)
	m := module.Functions["unwrap"].Expression.(*ast.Match)
	if _, ok := m.Cases[0].Pattern.(ast.NilPattern); !ok {
		t.Fatalf("expected NilPattern, got %T", m.Cases[0].Pattern)
	}
	op, ok := m.Cases[1].Pattern.(ast.OptionalPattern)
	if !ok || op.Binding != "v" {
		t.Fatalf("expected OptionalPattern{v}, got %+v", m.Cases[1].Pattern)
	}
}

func TestParseStructInitForms(t *testing.T) {
	module := parseModule(t, "m", `
let plain = Point{1, 2}
let tagged = Shape.Circle{1}
fn bare(s: Shape) -> Shape = match s with {
	_ => .Circle{2}
}`)
	plain := module.Globals["plain"].Init.(*ast.StructInit)
	if plain.TypeName != "Point" || plain.CaseName != "" {
		t.Fatalf("expected plain struct init Point{}, got %+v", plain)
	}
	tagged := module.Globals["tagged"].Init.(*ast.StructInit)
	if tagged.TypeName != "Shape" || tagged.CaseName != "Circle" {
		t.Fatalf("expected Shape.Circle{} form, got %+v", tagged)
	}
	bareMatch := module.Functions["bare"].Expression.(*ast.Match)
	bare := bareMatch.Cases[0].Body.(*ast.StructInit)
	if bare.TypeName != "" || bare.CaseName != "Circle" {
		t.Fatalf("expected bare .Circle{} form, got %+v", bare)
	}
}

func TestParseLambdaArrows(t *testing.T) {
	module := parseModule(t, "m", `
let inferred = fn (x) => x
let annotated = fn (x: Int) -> Int => x
`)
	inferred := module.Globals["inferred"].Init.(*ast.Lambda)
	if inferred.ReturnType != nil {
		t.Fatalf("expected no declared return type, got %v", inferred.ReturnType)
	}
	annotated := module.Globals["annotated"].Init.(*ast.Lambda)
	if annotated.ReturnType == nil {
		t.Fatal("expected a declared return type")
	}
}

func TestParseBindingExpression(t *testing.T) {
	module := parseModule(t, "m", `fn f() -> Int = let x = 1, y = 2 in x + y`)
	be := module.Functions["f"].Expression.(*ast.BindingExpression)
	if len(be.Bindings) != 2 {
		t.Fatalf("expected 2 binding clauses, got %d", len(be.Bindings))
	}
}

func TestParseStructDestructureBinding(t *testing.T) {
	module := parseModule(t, "m", `fn f(p: Point) -> Int = let {x, y} :- p in x`)
	be := module.Functions["f"].Expression.(*ast.BindingExpression)
	sdb, ok := be.Bindings[0].(*ast.StructDestructureBinding)
	if !ok || len(sdb.Fields) != 2 {
		t.Fatalf("expected a 2-field StructDestructureBinding, got %+v", be.Bindings[0])
	}
}

func TestParseWhileAndForUseThen(t *testing.T) {
	module := parseModule(t, "m", `
fn f() -> Int = let a = while true then 1 in let b = for x in xs then x in 0
`)
	if _, ok := module.Functions["f"].Expression.(*ast.BindingExpression); !ok {
		t.Fatalf("expected the chained let body to parse, got %T", module.Functions["f"].Expression)
	}
}

func TestParseGenericsOnTypeDecl(t *testing.T) {
	module := parseModule(t, "m", `struct Box<$T> { value: $T }`)
	decl := module.Types["Box"]
	if len(decl.GenericParams) != 1 || decl.GenericParams[0].Name != "$T" {
		t.Fatalf("expected one generic param on Box, got %v", decl.GenericParams)
	}
}

func TestParseErrorsOnGarbage(t *testing.T) {
	_, errs := parser.ParseModule("m", "m.cobra", `fn +++`)
	if len(errs) == 0 {
		t.Fatal("expected parse errors on malformed input")
	}
}

func keys(m map[string]*ast.Function) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
