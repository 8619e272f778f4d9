package driver

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/checker"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// ResolveTypes implements resolve_types: turn every ambient
// type declaration into a concrete Type entity and register it on the
// declaration (TypeDeclaration.Resolved), so BuildType and the checker's
// struct/sum/member rules can look them up by name. Interfaces are resolved
// first since struct/sum/enum declarations never reference them, but a
// generic parameter's bound does.
func ResolveTypes(ctx *checker.Context, module *ast.Module) error {
	for _, decl := range module.Types {
		if decl.Kind == ast.InterfaceDeclKind && decl.Resolved == nil {
			if err := resolveInterface(ctx, decl); err != nil {
				return err
			}
		}
	}
	for _, decl := range module.Types {
		if decl.Kind != ast.InterfaceDeclKind {
			if err := resolveTypeDecl(ctx, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveInterface(ctx *checker.Context, decl *ast.TypeDeclaration) error {
	fns := make([]types.FunctionSignature, len(decl.Methods))
	for i, m := range decl.Methods {
		args := make([]types.Type, len(m.Args))
		for j, a := range m.Args {
			t, err := ctx.BuildType(a)
			if err != nil {
				return err
			}
			args[j] = t
		}
		ret, err := ctx.BuildType(m.Return)
		if err != nil {
			return err
		}
		fns[i] = types.FunctionSignature{Name: m.Name, Args: args, Return: ret}
	}
	decl.Resolved = &types.Interface{Name: decl.Name, Functions: fns}
	return nil
}

func resolveTypeDecl(ctx *checker.Context, decl *ast.TypeDeclaration) error {
	if decl.Resolved != nil {
		return nil
	}
	if decl.Kind == ast.EnumDeclKind {
		decl.Resolved = types.Enum{Name: decl.Name, Cases: decl.EnumCases}
		return nil
	}

	ctx.Scope.PushStack(false)
	defer ctx.Scope.PopStack()
	for _, gp := range decl.GenericParams {
		kind, err := ctx.BuildGenericKind(gp)
		if err != nil {
			return err
		}
		if err := ctx.Scope.Add("$"+gp.Name, types.Generic{Kind: kind}, false); err != nil {
			return err
		}
	}

	switch decl.Kind {
	case ast.StructDeclKind:
		members, err := resolveMembers(ctx, decl.Members)
		if err != nil {
			return err
		}
		decl.Resolved = types.Struct{Name: decl.Name, Members: members}

	case ast.SumDeclKind:
		cases := make([]types.SumCase, len(decl.Cases))
		for i, cs := range decl.Cases {
			if len(cs.Members) == 0 {
				cases[i] = types.SumCase{Name: cs.Name, Payload: types.TInt}
				continue
			}
			members, err := resolveMembers(ctx, cs.Members)
			if err != nil {
				return err
			}
			cases[i] = types.SumCase{Name: cs.Name, Payload: types.Struct{Members: members}}
		}
		decl.Resolved = types.Sum{Name: decl.Name, Cases: cases}

	default:
		return diagnostics.NewError(diagnostics.ErrOther, token.Token{Span: decl.Span},
			"driver: unhandled type declaration kind for %q", decl.Name)
	}
	return nil
}

func resolveMembers(ctx *checker.Context, decls []ast.MemberDecl) ([]types.Member, error) {
	members := make([]types.Member, len(decls))
	for i, m := range decls {
		t, err := ctx.BuildType(m.Type)
		if err != nil {
			return nil, err
		}
		members[i] = types.Member{Name: m.Name, Type: t}
	}
	return members, nil
}
