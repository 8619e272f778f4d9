package generics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/types"
)

// MakeConcrete substitutes every Generic(name) in t by subst[name]; if a
// name is missing, the result remains generic — not an error at this stage,
// since the outer driver loop may resolve it on a later pass.
// types.Type.Apply already implements exactly this "missing name passes
// through" rule, so MakeConcrete is just a thin named wrapper around it.
func MakeConcrete(subst types.Subst, t types.Type) types.Type {
	return t.Apply(subst)
}

// MangledName produces the instantiator's name for a (function, subst)
// pair, e.g. "id<Int>". Generic parameter names are substituted in the
// function's own declared order so the name is deterministic and stable
// across repeated instantiate_generics passes.
func MangledName(fqname string, order []string, subst types.Subst) string {
	parts := make([]string, 0, len(order))
	for _, name := range order {
		if t, ok := subst[name]; ok {
			parts = append(parts, t.String())
		}
	}
	if len(parts) == 0 {
		return fqname
	}
	return fmt.Sprintf("%s<%s>", fqname, strings.Join(parts, ","))
}

// PendingInstantiation is one (generic function, concrete substitution)
// pair discovered during one pass of the expression checker, together with
// the call-site node whose callee must be redirected once the clone exists.
type PendingInstantiation struct {
	FuncName string
	Subst    types.Subst
	CallSite *ast.Call
}

// CloneFunction deep-copies a generic function's signature and body for
// registration under a mangled name. Only the resolved signature needs
// MakeConcrete applied directly: the clone is created with TypeChecked =
// false, so the module driver's next pass re-runs the expression checker
// over the cloned body from scratch, with the concrete signature's argument
// types declared in scope. That re-check is what actually substitutes every
// Generic in the body — a parallel substitution pass over the body's
// already-annotated types would only be immediately overwritten by it, so
// CloneExpr resets annotations to Unknown rather than duplicating that work.
// Cloning (rather than mutating the original) is what lets the original
// generic Function keep serving other call sites with different
// substitutions.
func CloneFunction(fn *ast.Function, subst types.Subst) *ast.Function {
	clone := &ast.Function{
		Sig: ast.FunctionSig{
			Name:       fn.Sig.Name,
			Args:       make([]ast.Param, len(fn.Sig.Args)),
			ReturnType: fn.Sig.ReturnType,
			Span:       fn.Sig.Span,
			// GenericParams are deliberately dropped: the clone is
			// monomorphic.
		},
		Expression:  CloneExpr(fn.Expression),
		TypeChecked: false,
	}
	copy(clone.Sig.Args, fn.Sig.Args)
	if fn.ResolvedSig != nil {
		rs := fn.ResolvedSig.Apply(subst).(types.Func)
		clone.ResolvedSig = &rs
	}
	return clone
}

// CloneExpr deep-copies an expression tree for use in a monomorphized
// function clone. Every node's inferred type is reset to Unknown rather than
// carried over or substituted: the clone is handed back with TypeChecked =
// false, so the checker re-infers its types from scratch on the module
// driver's next pass, using the clone's own (already concrete) ResolvedSig
// argument types. Grounded on the teacher's internal/ast deep-copy helpers
// used by its own inliner (ast_expressions.go); Cobra/Nomad has no inliner,
// only the instantiator, but the walk-every-node-kind shape is the same.
func CloneExpr(e ast.Expression) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLiteral:
		return &ast.IntLiteral{Base: resetBase(n.Base), Value: n.Value}
	case *ast.FloatLiteral:
		return &ast.FloatLiteral{Base: resetBase(n.Base), Value: n.Value}
	case *ast.BoolLiteral:
		return &ast.BoolLiteral{Base: resetBase(n.Base), Value: n.Value}
	case *ast.CharLiteral:
		return &ast.CharLiteral{Base: resetBase(n.Base), Value: n.Value}
	case *ast.StringLiteral:
		return &ast.StringLiteral{Base: resetBase(n.Base), Value: n.Value}
	case *ast.NilLiteral:
		return &ast.NilLiteral{Base: resetBase(n.Base)}
	case *ast.ArrayLiteral:
		return &ast.ArrayLiteral{Base: resetBase(n.Base), Elements: cloneExprSlice(n.Elements)}
	case *ast.NameRef:
		return &ast.NameRef{Base: resetBase(n.Base), Name: n.Name, FullName: n.FullName}
	case *ast.Unary:
		return &ast.Unary{Base: resetBase(n.Base), Op: n.Op, Operand: CloneExpr(n.Operand)}
	case *ast.Binary:
		return &ast.Binary{Base: resetBase(n.Base), Op: n.Op, Left: CloneExpr(n.Left), Right: CloneExpr(n.Right)}
	case *ast.Call:
		return &ast.Call{Base: resetBase(n.Base), Callee: CloneExpr(n.Callee), Args: cloneExprSlice(n.Args)}
	case *ast.Lambda:
		return &ast.Lambda{
			Base:       resetBase(n.Base),
			Name:       n.Name,
			Params:     cloneParams(n.Params),
			ReturnType: n.ReturnType,
			Body:       CloneExpr(n.Body),
		}
	case *ast.Match:
		cases := make([]ast.MatchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = ast.MatchCase{Pattern: clonePattern(c.Pattern), Body: CloneExpr(c.Body)}
		}
		return &ast.Match{Base: resetBase(n.Base), Target: CloneExpr(n.Target), Cases: cases}
	case *ast.BindingExpression:
		bindings := make([]ast.BindingClause, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = cloneBindingClause(b)
		}
		return &ast.BindingExpression{Base: resetBase(n.Base), Bindings: bindings, Body: CloneExpr(n.Body)}
	case *ast.If:
		return &ast.If{
			Base: resetBase(n.Base),
			Cond: CloneExpr(n.Cond),
			Then: CloneExpr(n.Then),
			Else: CloneExpr(n.Else), // CloneExpr(nil) returns nil
		}
	case *ast.AnonStructLiteral:
		fields := make([]ast.FieldInit, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = ast.FieldInit{Name: f.Name, Value: CloneExpr(f.Value)}
		}
		return &ast.AnonStructLiteral{Base: resetBase(n.Base), Fields: fields}
	case *ast.StructInit:
		return &ast.StructInit{
			Base:     resetBase(n.Base),
			TypeName: n.TypeName,
			CaseName: n.CaseName,
			Args:     cloneExprSlice(n.Args),
		}
	case *ast.MemberAccess:
		return &ast.MemberAccess{Base: resetBase(n.Base), Target: CloneExpr(n.Target), Name: n.Name}
	case *ast.New:
		return &ast.New{Base: resetBase(n.Base), Operand: CloneExpr(n.Operand)}
	case *ast.Delete:
		return &ast.Delete{Base: resetBase(n.Base), Operand: CloneExpr(n.Operand)}
	case *ast.AddressOf:
		return &ast.AddressOf{Base: resetBase(n.Base), Operand: CloneExpr(n.Operand)}
	case *ast.ArrayToSlice:
		return &ast.ArrayToSlice{Base: resetBase(n.Base), Inner: CloneExpr(n.Inner)}
	case *ast.ToOptional:
		return &ast.ToOptional{Base: resetBase(n.Base), Inner: CloneExpr(n.Inner)}
	case *ast.Cast:
		return &ast.Cast{Base: resetBase(n.Base), Inner: CloneExpr(n.Inner), Target: n.Target}
	case *ast.Assign:
		return &ast.Assign{Base: resetBase(n.Base), Target: CloneExpr(n.Target), Value: CloneExpr(n.Value)}
	case *ast.While:
		return &ast.While{Base: resetBase(n.Base), Cond: CloneExpr(n.Cond), Body: CloneExpr(n.Body)}
	case *ast.ForIn:
		return &ast.ForIn{
			Base:     resetBase(n.Base),
			VarName:  n.VarName,
			Iterable: CloneExpr(n.Iterable),
			Body:     CloneExpr(n.Body),
		}
	default:
		// Unreachable for any node produced by the parser contract; a new Expression kind added later needs a case here too.
		panic(fmt.Sprintf("generics.CloneExpr: unhandled expression type %T", e))
	}
}

func resetBase(b ast.Base) ast.Base {
	return ast.Base{Tok: b.Tok, Typ: nil}
}

func cloneExprSlice(es []ast.Expression) []ast.Expression {
	if es == nil {
		return nil
	}
	out := make([]ast.Expression, len(es))
	for i, e := range es {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneParams(ps []ast.Param) []ast.Param {
	out := make([]ast.Param, len(ps))
	copy(out, ps)
	return out
}

func clonePattern(p ast.Pattern) ast.Pattern {
	switch n := p.(type) {
	case ast.EmptyArrayPattern, ast.AnyPattern, ast.NilPattern:
		return n
	case ast.ArrayPattern:
		return n
	case ast.NamePattern:
		return n
	case ast.LiteralPattern:
		return ast.LiteralPattern{PatternBase: n.PatternBase, Value: CloneExpr(n.Value)}
	case ast.StructPattern:
		return n
	case ast.OptionalPattern:
		return n
	default:
		panic(fmt.Sprintf("generics.CloneExpr: unhandled pattern type %T", p))
	}
}

func cloneBindingClause(b ast.BindingClause) ast.BindingClause {
	switch n := b.(type) {
	case *ast.SimpleBinding:
		return &ast.SimpleBinding{
			Name:           n.Name,
			Mutable:        n.Mutable,
			TypeAnnotation: n.TypeAnnotation,
			Value:          CloneExpr(n.Value),
		}
	case *ast.StructDestructureBinding:
		return &ast.StructDestructureBinding{Fields: append([]string(nil), n.Fields...), Value: CloneExpr(n.Value)}
	default:
		panic(fmt.Sprintf("generics.CloneExpr: unhandled binding clause type %T", b))
	}
}

// SortedGenericNames returns a function's declared generic parameter names
// in declaration order, for deterministic mangling.
func SortedGenericNames(params []ast.GenericParamDecl) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Name
	}
	return out
}

// IsFullyDetermined reports whether subst binds every name in names.
func IsFullyDetermined(subst types.Subst, names []string) bool {
	for _, n := range names {
		if _, ok := subst[n]; !ok {
			return false
		}
	}
	return true
}

// SortedSubstKeys is a small helper for deterministic iteration when
// building error messages or mangled names from a subst map directly.
func SortedSubstKeys(s types.Subst) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InstantiateGenerics is the module driver's instantiate_generics step: for
// every PendingInstantiation discovered during the checker pass that just
// finished, materialize the monomorphic clone under its mangled name and
// redirect the call site's callee to the mangled name. Returns the number
// of new clones registered; the driver ignores it and decides whether to
// run another pass from the change in len(module.Functions).
func InstantiateGenerics(module *ast.Module, pending []PendingInstantiation) (int, error) {
	created := 0
	for _, p := range pending {
		generic, ok := module.Functions[p.FuncName]
		if !ok {
			return created, fmt.Errorf("instantiate_generics: unknown generic function %q", p.FuncName)
		}
		order := SortedGenericNames(generic.Sig.GenericParams)
		mangled := MangledName(p.FuncName, order, p.Subst)

		if _, exists := module.Functions[mangled]; !exists {
			clone := CloneFunction(generic, p.Subst)
			clone.IsInstance = true
			clone.InstanceOf = p.FuncName
			clone.Sig.Name = mangled
			module.Functions[mangled] = clone
			created++
		}

		if p.CallSite != nil {
			if ref, ok := p.CallSite.Callee.(*ast.NameRef); ok {
				ref.FullName = mangled
			}
		}
	}
	return created, nil
}
