package checker

import (
	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/types"
)

// IsConvertible implements the implicit convertibility relation: a
// deliberately small, asymmetric set. T lifts to Optional(T); Array(T,n)
// lifts to Slice(T); explicit casts are handled separately by checkCast and
// are not part of this implicit relation.
func IsConvertible(src, dst types.Type) bool {
	if src.Equal(dst) {
		return true
	}
	if o, ok := dst.(types.Optional); ok {
		return src.Equal(o.Elem)
	}
	if sl, ok := dst.(types.Slice); ok {
		if a, ok := src.(types.Array); ok {
			return a.Elem.Equal(sl.Elem)
		}
	}
	return false
}

// Convert synthesizes the wrapper node for one of the two
// implicit conversions (ToOptional, ArrayToSlice), or returns (nil, false) if src is not convertible to
// dst. It does not mutate expr; the caller is responsible for replacing the
// slot that held expr with the returned wrapper.
func Convert(expr ast.Expression, src, dst types.Type) (ast.Expression, bool) {
	if src.Equal(dst) {
		return expr, true
	}
	if o, ok := dst.(types.Optional); ok && src.Equal(o.Elem) {
		return &ast.ToOptional{Base: ast.Base{Tok: expr.GetToken()}, Inner: expr}, true
	}
	if sl, ok := dst.(types.Slice); ok {
		if a, ok := src.(types.Array); ok && a.Elem.Equal(sl.Elem) {
			return &ast.ArrayToSlice{Base: ast.Base{Tok: expr.GetToken()}, Inner: expr}, true
		}
	}
	return nil, false
}
