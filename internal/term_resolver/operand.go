package term_resolver

import (
	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/call_coercion"
	"github.com/mekelius/maps-sub000/internal/types"
)

// isOperandStart reports whether expr can begin a value on its own.
func isOperandStart(expr *ast.Expression) bool {
	if expr == nil {
		return false
	}

	switch expr.Kind {
	case ast.KindStringLiteral, ast.KindNumberLiteral, ast.KindKnownValue,
		ast.KindIdentifier, ast.KindReference, ast.KindKnownValueReference,
		ast.KindLayer2, ast.KindMissingArgument:
		return true
	}
	return expr.IsCall()
}

// startsOperand also admits the terms parseOperand consumes as prefixes.
func startsOperand(expr *ast.Expression) bool {
	if isOperandStart(expr) {
		return true
	}
	if expr == nil {
		return false
	}

	switch expr.Kind {
	case ast.KindMinusSign, ast.KindPrefixOperatorReference, ast.KindTypeReference:
		return true
	}
	return false
}

// parseOperand consumes one operand: optional type reference, minus signs and
// prefix operators, a primary with its application arguments and trailing
// postfix operators.
func (t *termResolver) parseOperand(allowPostfix bool) (ast.Handle, error) {
	next := t.peek()
	if next == nil {
		return ast.NoHandle, t.malformed("operand expected at the end of the term list")
	}

	switch next.Kind {
	case ast.KindTypeReference:
		handle := t.next()
		declared, at := next.Type, next.Location
		t.arena.Delete(handle)

		if !startsOperand(t.peek()) {
			return ast.NoHandle, &UnexpectedTermError{
				termError: termError{Location: at},
				Kind:      ast.KindTypeReference,
				Expected:  "an operand after the type reference",
			}
		}

		operand, err := t.parseOperand(allowPostfix)
		if err != nil {
			return ast.NoHandle, err
		}
		return operand, t.applyDeclaredType(operand, declared, at)

	case ast.KindMinusSign:
		handle := t.next()
		t.collapseToUnaryMinus(next)

		if !startsOperand(t.peek()) {
			return handle, nil
		}

		operand, err := t.parseOperand(false)
		if err != nil {
			return ast.NoHandle, err
		}
		return t.buildCall(handle, []ast.Handle{operand}, false)

	case ast.KindPrefixOperatorReference:
		handle := t.next()
		if !startsOperand(t.peek()) {
			return handle, nil
		}

		operand, err := t.parseOperand(allowPostfix)
		if err != nil {
			return ast.NoHandle, err
		}
		return t.buildCall(handle, []ast.Handle{operand}, false)
	}

	if !isOperandStart(next) {
		return ast.NoHandle, &UnexpectedTermError{
			termError: termError{Location: next.Location},
			Kind:      next.Kind,
			Expected:  "an operand",
		}
	}

	operand, err := t.parseApplication()
	if err != nil {
		return ast.NoHandle, err
	}

	for t.peekIs(ast.KindPostfixOperatorReference) {
		if !allowPostfix {
			return ast.NoHandle, &UnsupportedError{
				termError: termError{Location: t.peek().Location},
				What:      "minus sign combined with a postfix operator",
			}
		}

		operand, err = t.buildCall(t.next(), []ast.Handle{operand}, false)
		if err != nil {
			return ast.NoHandle, err
		}
	}

	return operand, nil
}

// parseApplication reads a primary and, when it is a function, the value
// terms that follow it as arguments.
func (t *termResolver) parseApplication() (ast.Handle, error) {
	handle := t.next()
	if err := t.normalize(handle); err != nil {
		return ast.NoHandle, err
	}

	callee := t.arena.MustGet(handle)
	if callee.Kind == ast.KindMissingArgument || callee.Type == nil || !callee.Type.IsFunction() {
		return handle, nil
	}

	args := make([]ast.Handle, 0)
	for isOperandStart(t.peek()) {
		argHandle := t.next()
		if t.arena.MustGet(argHandle).Kind != ast.KindLayer2 {
			if err := t.normalize(argHandle); err != nil {
				return ast.NoHandle, err
			}
		}
		args = append(args, argHandle)
	}

	if len(args) == 0 {
		return handle, nil
	}
	return t.buildCall(handle, args, false)
}

// normalize brings a primary into resolved shape in place: nested term lists
// are resolved, constant references are inlined and nullary functions are
// called.
func (t *termResolver) normalize(handle ast.Handle) error {
	expr := t.arena.MustGet(handle)

	switch expr.Kind {
	case ast.KindLayer2:
		return t.Resolve(handle, Context{})

	case ast.KindIdentifier:
		identifier, _ := expr.Value.(ast.Identifier)
		return &UnresolvedIdentifierError{termError: termError{Location: expr.Location}, Name: identifier.Name}

	case ast.KindKnownValueReference:
		def, _ := expr.Definition()
		expr.Become(ast.NewKnownValue(def.Constant.Value, def.Type, expr.Location))
		return nil

	case ast.KindReference:
		if expr.Type == nil || expr.Type.IsUnknown() {
			def, _ := expr.Definition()
			deduced, err := def.DeduceType()
			if err != nil {
				return err
			}
			expr.Type = deduced
		}

		if expr.Type.IsFunction() && expr.Type.Arity() == 0 {
			callee := t.arena.Alloc(*expr)
			expr.Become(ast.Expression{
				Kind:     ast.KindCall,
				Location: expr.Location,
				Type:     expr.Type.ReturnType(),
				Value:    ast.Call{Callee: callee},
			})
		}
	}

	return nil
}

// buildCall coerces args against the callee and allocates the call node.
// Unresolved term list arguments are resolved with their parameter type as
// the hint and the call is coerced again.
func (t *termResolver) buildCall(calleeHandle ast.Handle, args []ast.Handle, binop bool) (ast.Handle, error) {
	callee := t.arena.MustGet(calleeHandle)

	calleeType := callee.Type
	if calleeType == nil || calleeType.IsUnknown() {
		def, ok := callee.Definition()
		if !ok {
			return ast.NoHandle, &call_coercion.NotCallableError{Type: calleeType, Location: callee.Location}
		}

		deduced, err := def.DeduceType()
		if err != nil {
			return ast.NoHandle, err
		}
		callee.Type = deduced
		calleeType = deduced
	}

	shape, err := call_coercion.CoerceCall(t.arena, calleeType, &args, callee.Location)
	if err != nil {
		return ast.NoHandle, err
	}

	if !shape.FullyResolved {
		for _, argHandle := range args {
			arg := t.arena.MustGet(argHandle)
			if arg.Kind != ast.KindLayer2 {
				continue
			}
			if err := t.Resolve(argHandle, Context{DeclaredType: arg.Type}); err != nil {
				return ast.NoHandle, err
			}
		}

		shape, err = call_coercion.CoerceCall(t.arena, calleeType, &args, callee.Location)
		if err != nil {
			return ast.NoHandle, err
		}
		if !shape.FullyResolved {
			return ast.NoHandle, t.malformed("call argument still unresolved after resolution")
		}
	}

	kind := ast.KindCall
	if shape.Partial {
		kind = ast.KindPartialCall
		if binop {
			kind = call_coercion.CallKind(t.arena, args)
		}
	}

	return t.arena.Alloc(ast.Expression{
		Kind:     kind,
		Location: callee.Location,
		Type:     shape.Type,
		Value:    ast.Call{Callee: calleeHandle, Args: args},
	}), nil
}

// applyDeclaredType checks the node behind handle against declared. Constants
// are cast, pending arithmetic takes the declared numeric type, anything else
// has to be accepted as is.
func (t *termResolver) applyDeclaredType(handle ast.Handle, declared types.Type, at ast.Location) error {
	expr := t.arena.MustGet(handle)

	switch {
	case expr.IsConstant():
		if !expr.Type.SameAs(declared) {
			from := expr.Type
			if !from.CastTo(declared, expr) {
				return &call_coercion.UncastableError{From: from, To: declared, Location: at}
			}
		}

	case types.Accepts(declared, expr.Type):
		if declared.IsConcrete() {
			expr.Type = declared
		}

	case expr.IsCall() && types.IsPendingNumeric(expr.Type) && types.IsNumeric(declared):
		expr.Type = declared

	default:
		return &call_coercion.UncastableError{From: expr.Type, To: declared, Location: at}
	}

	expr.DeclaredType = declared
	expr.DeclaredAt = at
	return nil
}
