package call_coercion

import (
	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

// CallShape describes a call after its arguments have been coerced.
type CallShape struct {
	// Partial is set when at least one parameter slot holds a missing
	// argument placeholder.
	Partial bool

	// FullyResolved is false when an argument is still an unresolved term
	// list. The caller resolves those and coerces again.
	FullyResolved bool

	// Type is the callee's return type for a full call and a function over
	// the missing slots for a partial one.
	Type types.Type

	Missing int
}

// CoerceCall checks args against the parameters of calleeType, casting
// constant arguments in place and padding the list with missing argument
// placeholders. Arguments are processed left to right even after a failure,
// so args is complete and stable whenever the function returns; the first
// failure is returned.
func CoerceCall(arena *ast.Arena, calleeType types.Type, args *[]ast.Handle, loc ast.Location) (CallShape, error) {
	if calleeType == nil || !calleeType.IsFunction() {
		return CallShape{}, &NotCallableError{Type: calleeType, Location: loc}
	}

	arity := calleeType.Arity()
	if len(*args) > arity {
		return CallShape{}, &ArityMismatchError{Expected: arity, Got: len(*args), Location: loc}
	}

	shape := CallShape{FullyResolved: true}
	var firstErr error

	for i, handle := range *args {
		arg := arena.MustGet(handle)
		param := calleeType.ParamType(i)

		if err := coerceArg(arg, param, &shape); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	for i := len(*args); i < arity; i++ {
		*args = append(*args, arena.Alloc(ast.NewMissingArgument(calleeType.ParamType(i), loc)))
	}

	missingTypes := make([]types.Type, 0)
	for _, handle := range *args {
		arg := arena.MustGet(handle)
		if arg.Kind == ast.KindMissingArgument {
			missingTypes = append(missingTypes, arg.Type)
		}
	}

	shape.Missing = len(missingTypes)
	if shape.Missing == 0 {
		shape.Type = calleeType.ReturnType()
		return shape, firstErr
	}

	pure := false
	if functionType, ok := calleeType.(*types.FunctionType); ok {
		pure = functionType.Pure
	}

	shape.Partial = true
	shape.Type = types.NewFunctionType(calleeType.ReturnType(), pure, missingTypes...)
	return shape, firstErr
}

func coerceArg(arg *ast.Expression, param types.Type, shape *CallShape) error {
	switch arg.Kind {
	case ast.KindLayer2:
		shape.FullyResolved = false
		arg.Type = param
		return nil
	case ast.KindMissingArgument:
		if arg.Type == nil || arg.Type.IsUnknown() {
			arg.Type = param
		}
		return nil
	}

	if arg.Type == nil || arg.Type.IsUnknown() {
		def, ok := arg.Definition()
		if !ok {
			return &ast.DeductionError{Name: arg.Kind.String(), Location: arg.Location}
		}

		t, err := def.DeduceType()
		if err != nil {
			return err
		}
		arg.Type = t
	}

	if types.Accepts(param, arg.Type) {
		return nil
	}

	// A pending arithmetic call takes the parameter's type; the concretizer
	// instantiates it later.
	if arg.IsCall() && types.IsPendingNumeric(arg.Type) && types.IsNumeric(param) {
		arg.Type = param
		arg.DeclaredType = param
		return nil
	}

	from := arg.Type
	if !from.CastTo(param, arg) {
		return &UncastableError{From: from, To: param, Location: arg.Location}
	}

	return nil
}

// CallKind picks the call kind matching the shape of args. Only calls of a
// two parameter callee get the binop partial kinds.
func CallKind(arena *ast.Arena, args []ast.Handle) ast.ExprKind {
	missing := make([]bool, len(args))
	count := 0
	for i, handle := range args {
		if arena.MustGet(handle).Kind == ast.KindMissingArgument {
			missing[i] = true
			count++
		}
	}

	switch {
	case count == 0:
		return ast.KindCall
	case len(args) != 2:
		return ast.KindPartialCall
	case missing[0] && missing[1]:
		return ast.KindPartialBinopCallBoth
	case missing[0]:
		return ast.KindPartialBinopCallLeft
	default:
		return ast.KindPartialBinopCallRight
	}
}
