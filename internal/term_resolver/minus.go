package term_resolver

import (
	"github.com/mekelius/maps-sub000/internal/ast"
)

func (t *termResolver) collapseToUnaryMinus(minus *ast.Expression) {
	minus.Become(ast.NewOperatorReference(t.unaryMinus, minus.Location))
}

func (t *termResolver) becomeBinaryMinus(minus *ast.Expression) {
	minus.Become(ast.NewOperatorReference(t.binaryMinus, minus.Location))
}

// disambiguateMinus settles "- x" standing alone. The declared type of the
// expression is read as the type of the minus: a value or a one parameter
// function makes it unary, a two parameter function makes it binary with the
// left argument missing.
func (t *termResolver) disambiguateMinus(minusHandle ast.Handle) (ast.Handle, error) {
	minus := t.arena.MustGet(minusHandle)
	partial, ok := minus.Value.(ast.PartialMinus)
	if !ok {
		return ast.NoHandle, t.malformed("minus sign without operand")
	}

	declared := t.declaredType
	if declared == nil {
		declared = t.ctx.DeclaredType
	}
	if declared == nil || declared.IsUnknown() {
		return ast.NoHandle, &AmbiguousMinusError{termError{Location: minus.Location}}
	}

	switch {
	case !declared.IsFunction():
		t.collapseToUnaryMinus(minus)
		return t.buildCall(minusHandle, []ast.Handle{partial.Operand}, false)

	case declared.Arity() == 1:
		t.declarationUsed = true
		t.collapseToUnaryMinus(minus)
		return t.buildCall(minusHandle, []ast.Handle{partial.Operand}, false)

	case declared.Arity() == 2:
		t.declarationUsed = true
		t.becomeBinaryMinus(minus)
		missing := t.arena.Alloc(ast.NewMissingArgument(declared.ParamType(0), minus.Location))
		return t.buildCall(minusHandle, []ast.Handle{missing, partial.Operand}, true)
	}

	return ast.NoHandle, &AmbiguousMinusError{termError{Location: minus.Location}}
}
