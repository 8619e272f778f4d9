package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/types"
)

// checkUnary implements Unary rule. A generic operand passes
// through untouched: the specialised clone produced by the instantiator will
// re-check it once its type is concrete.
func (c *Context) checkUnary(n *ast.Unary) (types.Type, ast.Expression, error) {
	newOperand, operand, err := c.Check(n.Operand, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Operand = newOperand
	if types.IsGeneric(operand) {
		return operand, nil, nil
	}
	switch n.Op {
	case "-":
		if !types.IsNumeric(operand) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok,
				"unary - requires a numeric operand, got %s", operand)
		}
		return operand, nil, nil
	case "!":
		if !types.IsBool(operand) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok,
				"unary ! requires a bool operand, got %s", operand)
		}
		return types.TBool, nil, nil
	default:
		return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok, "unknown unary operator %q", n.Op)
	}
}

// checkBinary implements Binary rule, including the `||`
// nil-coalescing special case and documented quirk: the rule is
// not symmetric (Optional(T) || T coalesces; T || Optional(T) falls through
// to the boolean rule and so requires both sides to already be bool).
func (c *Context) checkBinary(n *ast.Binary) (types.Type, ast.Expression, error) {
	newLeft, left, err := c.Check(n.Left, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Left = newLeft
	newRight, right, err := c.Check(n.Right, nil)
	if err != nil {
		return nil, nil, err
	}
	n.Right = newRight

	op := types.Operator(n.Op)

	switch op {
	case types.OpAnd:
		if !types.IsBool(left) || !types.IsBool(right) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
				"&& requires bool operands, got %s and %s", left, right)
		}
		return types.TBool, nil, nil

	case types.OpOr:
		if lo, ok := left.(types.Optional); ok && lo.Elem.Equal(right) {
			return right, nil, nil
		}
		if c.Project.LintOptionalOrOperator {
			if _, ok := right.(types.Optional); ok && !types.IsBool(left) {
				c.Diags.Add(diagnostics.NewWarning(diagnostics.ErrInvalidOperator, n.Tok,
					"%s || %s falls through to the bool rule: only Optional(T) || T coalesces, not the reverse", left, right))
			}
		}
		if !types.IsBool(left) || !types.IsBool(right) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
				"|| requires bool operands (or Optional(T) || T), got %s and %s", left, right)
		}
		return types.TBool, nil, nil

	case types.OpEq, types.OpNeq:
		if left.Equal(types.TNil) && types.IsOptional(right) {
			return types.TBool, nil, nil
		}
		if right.Equal(types.TNil) && types.IsOptional(left) {
			return types.TBool, nil, nil
		}
		if !left.Equal(right) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrTypeMismatch, n.Tok,
				"%s requires operands of equal type, got %s and %s", n.Op, left, right)
		}
		return types.TBool, nil, nil

	case types.OpLt, types.OpLte, types.OpGt, types.OpGte:
		if !left.Equal(right) || !types.IsOperatorSupported(left, op) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok,
				"%s requires two equal ordered primitives, got %s and %s", n.Op, left, right)
		}
		return types.TBool, nil, nil

	case types.OpAdd, types.OpSub, types.OpMul, types.OpDiv, types.OpMod:
		if !left.Equal(right) || !types.IsOperatorSupported(left, op) {
			return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok,
				"%s requires two equal numeric operands%s, got %s and %s",
				n.Op, addendum(op), left, right)
		}
		return left, nil, nil

	default:
		return nil, nil, diagnostics.NewError(diagnostics.ErrInvalidOperator, n.Tok, "unknown binary operator %q", n.Op)
	}
}

func addendum(op types.Operator) string {
	if op == types.OpAdd {
		return " (or two strings)"
	}
	return ""
}
