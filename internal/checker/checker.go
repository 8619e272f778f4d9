// Package checker is the expression checker: the single recursive dispatch
// `check(ctx, expr, type_hint) -> Type` that annotates every AST node with
// its inferred type, rewriting nodes in place where a rule produces a
// replacement (method-call desugaring, implicit conversion wrappers). It is
// grounded on the teacher's internal/analyzer package — inference.go's
// InferenceContext for the per-pass state shape, inference_calls.go /
// inference_control.go for the per-node-kind dispatch style — adapted from
// funxy's Hindley-Milner unifier to a simpler bidirectional
// hint-propagation scheme (no type variables, no solver pass).
package checker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/config"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/generics"
	"github.com/cobra-lang/cobrac/internal/scope"
	"github.com/cobra-lang/cobrac/internal/types"
)

// InterfaceLookup resolves an interface by name, used for generic bounds and
// generic method dispatch.
type InterfaceLookup func(name string) (*types.Interface, bool)

// Context is the per-pass state threaded through every recursive call,
// mirroring the teacher's InferenceContext (analyzer/inference.go) but
// without a type-variable counter or global substitution: the bidirectional
// scheme here resolves everything locally or through the scope stack, with
// only the generic mapper needing a substitution at all, and that
// substitution is local to one Call's resolve_generic_args_in_call.
type Context struct {
	Scope      *scope.Stack
	Module     *ast.Module
	Interfaces InterfaceLookup
	Diags      *diagnostics.Bag
	Project    config.Project

	// Pending accumulates (generic function, substitution) pairs discovered
	// by Call checking this pass, for the driver to hand to
	// generics.InstantiateGenerics once the pass finishes.
	Pending []generics.PendingInstantiation

	lambdaSeq int
}

// NewContext creates a fresh per-pass context. The module driver builds one
// of these at the top of every loop iteration; there is no cross-pass state by design.
func NewContext(module *ast.Module, lookup InterfaceLookup) *Context {
	return &Context{
		Scope:      scope.New(module.Name),
		Module:     module,
		Interfaces: lookup,
		Diags:      diagnostics.NewBag(),
		Project:    config.Default(),
	}
}

// NewContextWithProject is NewContext plus an explicit project config, used
// by the driver once it has loaded cobra.yaml.
func NewContextWithProject(module *ast.Module, lookup InterfaceLookup, project config.Project) *Context {
	ctx := NewContext(module, lookup)
	ctx.Project = project
	return ctx
}

// nextLambdaName generates a unique name for an anonymous function literal.
// Only process-local uniqueness is required (these names are never
// serialised), so a UUID is overkill in principle, but it keeps lambda
// naming collision-free across concurrent passes without a shared counter.
func (c *Context) nextLambdaName() string {
	c.lambdaSeq++
	return fmt.Sprintf("$lambda$%s", uuid.NewString())
}

// Check is the top-level entry point: dispatch over expr's dynamic type,
// with the hint propagated bidirectionally. A rule may signal a replacement
// node by returning one from its own check* helper; Check re-dispatches on
// the replacement rather than recursing into itself, and hands the
// (possibly new) node back to the caller, which is expected to overwrite
// whatever field held the original. This lets member-call desugaring reuse
// the ordinary call-checker with no special casing anywhere else in the
// dispatch table.
func (c *Context) Check(expr ast.Expression, hint types.Type) (ast.Expression, types.Type, error) {
	if expr == nil {
		return nil, types.TVoid, nil
	}
	for i := 0; i < 8; i++ {
		t, replacement, err := c.checkOnce(expr, hint)
		if err != nil {
			return expr, nil, err
		}
		if replacement == nil {
			expr.SetType(t)
			return expr, t, nil
		}
		expr = replacement
	}
	return expr, nil, diagnostics.NewError(diagnostics.ErrOther, expr.GetToken(),
		"checker: replacement chain did not stabilize")
}

// checkOnce dispatches one AST node kind to its rule. Returning a non-nil
// replacement signals the caller (Check) to re-dispatch on it instead of
// trusting t.
func (c *Context) checkOnce(expr ast.Expression, hint types.Type) (types.Type, ast.Expression, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return types.TInt, nil, nil
	case *ast.FloatLiteral:
		return types.TFloat, nil, nil
	case *ast.BoolLiteral:
		return types.TBool, nil, nil
	case *ast.CharLiteral:
		return types.TChar, nil, nil
	case *ast.StringLiteral:
		return types.TString, nil, nil
	case *ast.NilLiteral:
		return types.TNil, nil, nil
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(n, hint)
	case *ast.NameRef:
		return c.checkNameRef(n)
	case *ast.Unary:
		return c.checkUnary(n)
	case *ast.Binary:
		return c.checkBinary(n)
	case *ast.Call:
		return c.checkCall(n, hint)
	case *ast.Lambda:
		return c.checkLambda(n, hint)
	case *ast.Match:
		return c.checkMatch(n)
	case *ast.BindingExpression:
		return c.checkBindingExpression(n)
	case *ast.If:
		return c.checkIf(n)
	case *ast.AnonStructLiteral:
		return c.checkAnonStructLiteral(n)
	case *ast.StructInit:
		return c.checkStructInit(n, hint)
	case *ast.MemberAccess:
		return c.checkMemberAccess(n)
	case *ast.New:
		return c.checkNew(n)
	case *ast.Delete:
		return c.checkDelete(n)
	case *ast.AddressOf:
		return c.checkAddressOf(n)
	case *ast.ArrayToSlice:
		return c.checkArrayToSlice(n)
	case *ast.ToOptional:
		return c.checkToOptional(n)
	case *ast.Cast:
		return c.checkCast(n)
	case *ast.Assign:
		return c.checkAssign(n)
	case *ast.While:
		return c.checkWhile(n)
	case *ast.ForIn:
		return c.checkForIn(n)
	default:
		return nil, nil, diagnostics.NewError(diagnostics.ErrOther, expr.GetToken(),
			"checker: unhandled expression type %T", expr)
	}
}
