// Package driver is the module driver: the outer fixed-point loop that
// resolves type declarations, checks every untyped global and unchecked
// function, and repeatedly instantiates newly-needed generic functions
// until the function set stabilises. It is grounded on the teacher's
// internal/analyzer/processor.go (its multi-mode
// AnalyzeNaming/AnalyzeHeaders/AnalyzeInstances/AnalyzeBodies pass
// structure over a fixed ordered file list) — generalised from funxy's
// multi-file-module driver to a simpler single-module, single-loop shape,
// since Cobra/Nomad's checker scope explicitly excludes the
// module-loading/import-resolution machinery.
package driver

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/checker"
	"github.com/cobra-lang/cobrac/internal/config"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/generics"
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// maxIterations backstops the fixed-point loop. Termination is guaranteed
// because the set of (function, substitution) pairs produced in one pass
// is finite and monotone, so this is a defensive cap against a driver bug
// rather than a real limit expected to be hit.
const maxIterations = 1000

// TypeCheckModule runs the fixed-point loop to completion with the default
// project config (no cobra.yaml on disk).
func TypeCheckModule(module *ast.Module) (*diagnostics.Bag, error) {
	return TypeCheckModuleWithProject(module, config.Default())
}

// TypeCheckModuleWithProject is TypeCheckModule with an explicit project
// config, used by the CLI once it has loaded cobra.yaml.
func TypeCheckModuleWithProject(module *ast.Module, project config.Project) (*diagnostics.Bag, error) {
	bag := diagnostics.NewBag()

	for iter := 0; iter < maxIterations; iter++ {
		ctx := checker.NewContextWithProject(module, func(name string) (*types.Interface, bool) {
			decl, ok := module.Types[name]
			if !ok {
				return nil, false
			}
			iface, ok := decl.Resolved.(*types.Interface)
			return iface, ok
		}, project)

		if err := ResolveTypes(ctx, module); err != nil {
			bag.Add(asDiagnostic(err))
			return bag, bag.Err()
		}

		if err := registerFunctionSignatures(ctx, module); err != nil {
			bag.Add(asDiagnostic(err))
			return bag, bag.Err()
		}

		for _, g := range module.Globals {
			if g.Resolved != nil {
				continue
			}
			init, t, err := ctx.Check(g.Init, nil)
			if err != nil {
				bag.Add(asDiagnostic(err))
				continue
			}
			g.Init = init
			g.Resolved = t
			if err := ctx.Scope.AddGlobal(g.Name, t, false); err != nil {
				bag.Add(asDiagnostic(err))
			}
		}
		if bag.Len() > 0 {
			return bag, bag.Err()
		}

		for _, fn := range module.Functions {
			if fn.TypeChecked {
				continue
			}
			if err := ctx.CheckFunctionDecl(fn); err != nil {
				bag.Add(asDiagnostic(err))
			}
		}
		if bag.Len() > 0 {
			return bag, bag.Err()
		}

		nBefore := len(module.Functions)
		if _, err := generics.InstantiateGenerics(module, ctx.Pending); err != nil {
			bag.Add(asDiagnostic(err))
			return bag, bag.Err()
		}
		bag.Merge(ctx.Diags)
		if len(module.Functions) == nBefore {
			break
		}
	}

	return bag, bag.Err()
}

// registerFunctionSignatures declares every function and external as a
// scope global mapping name -> types.Func, before any global or function
// body is checked. Without this, a plain (non-method) call like `id(42)`
// could never resolve its callee: unlike the dotted-fqname method-call path
// (resolveMethodOnType, structs.go), which reads ResolvedSig straight off
// module.Functions/Externals, an ordinary Call's callee is a bare NameRef
// resolved through the scope stack (checkNameRef, literals.go) — so the
// name has to be there for forward references and recursion to work at
// all, not just once CheckFunctionDecl happens to visit that function.
func registerFunctionSignatures(ctx *checker.Context, module *ast.Module) error {
	for _, fn := range module.Functions {
		sig, err := buildFuncSig(ctx, fn.Sig)
		if err != nil {
			return err
		}
		fn.ResolvedSig = &sig
		if err := ctx.Scope.AddGlobal(fn.Sig.Name, sig, false); err != nil {
			return err
		}
	}
	for _, ext := range module.Externals {
		sig, err := buildFuncSig(ctx, ext.Sig)
		if err != nil {
			return err
		}
		ext.ResolvedSig = &sig
		if err := ctx.Scope.AddGlobal(ext.Sig.Name, sig, false); err != nil {
			return err
		}
	}
	return nil
}

func buildFuncSig(ctx *checker.Context, sig ast.FunctionSig) (types.Func, error) {
	ctx.Scope.PushStack(false)
	defer ctx.Scope.PopStack()
	for _, gp := range sig.GenericParams {
		kind, err := ctx.BuildGenericKind(gp)
		if err != nil {
			return types.Func{}, err
		}
		if err := ctx.Scope.Add("$"+gp.Name, types.Generic{Kind: kind}, false); err != nil {
			return types.Func{}, err
		}
	}
	args := make([]types.Type, len(sig.Args))
	for i, p := range sig.Args {
		t, err := ctx.BuildType(p.TypeAnnotation)
		if err != nil {
			return types.Func{}, err
		}
		args[i] = t
	}
	ret, err := ctx.BuildType(sig.ReturnType)
	if err != nil {
		return types.Func{}, err
	}
	return types.Func{Args: args, Return: ret}, nil
}

func asDiagnostic(err error) *diagnostics.DiagnosticError {
	if d, ok := err.(*diagnostics.DiagnosticError); ok {
		return d
	}
	return diagnostics.NewError(diagnostics.ErrOther, token.Token{}, "%s", err)
}
