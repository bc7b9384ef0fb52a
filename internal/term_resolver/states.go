package term_resolver

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
)

type State int

const (
	StateStart State = iota
	StateTypeDeclaration
	StateInitialMinus
	StateInitialOperator
	StateOperand
	StatePostOperand
	StateExpectOperand
	StateReduceAll
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateTypeDeclaration:
		return "type declaration"
	case StateInitialMinus:
		return "initial minus"
	case StateInitialOperator:
		return "initial operator"
	case StateOperand:
		return "operand"
	case StatePostOperand:
		return "post operand"
	case StateExpectOperand:
		return "expect operand"
	case StateReduceAll:
		return "reduce all"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		panic(fmt.Sprintf("State.String(): received illegal state: %d", s))
	}
}

func (t *termResolver) step(state State) State {
	switch state {
	case StateStart:
		return t.stepStart()
	case StateTypeDeclaration:
		return t.stepTypeDeclaration()
	case StateInitialMinus:
		return t.stepInitialMinus()
	case StateInitialOperator:
		return t.stepInitialOperator()
	case StateOperand:
		return t.stepOperand()
	case StatePostOperand:
		return t.stepPostOperand()
	case StateExpectOperand:
		return t.stepExpectOperand()
	case StateReduceAll:
		return t.stepReduceAll()
	default:
		return t.fail(t.malformed(fmt.Sprintf("no step for state %s", state)))
	}
}

func (t *termResolver) stepStart() State {
	if t.atEnd() {
		return t.fail(&EmptyExpressionError{termError{Location: t.loc}})
	}

	if t.peekIs(ast.KindTypeReference) {
		return StateTypeDeclaration
	}
	return t.afterDeclaration()
}

func (t *termResolver) afterDeclaration() State {
	switch {
	case t.atEnd():
		return t.fail(&UnexpectedTermError{
			termError: termError{Location: t.declaredAt},
			Kind:      ast.KindTypeReference,
			Expected:  "an expression after the type declaration",
		})
	case t.peekIs(ast.KindMinusSign):
		return StateInitialMinus
	case t.peekIs(ast.KindBinaryOperatorReference):
		return StateInitialOperator
	default:
		return StateOperand
	}
}

// stepTypeDeclaration consumes a leading "Type:"; the type applies to the
// whole remaining expression.
func (t *termResolver) stepTypeDeclaration() State {
	handle := t.next()
	typeRef := t.arena.MustGet(handle)

	t.declaredType = typeRef.Type
	t.declaredAt = typeRef.Location
	t.arena.Delete(handle)

	return t.afterDeclaration()
}

func (t *termResolver) stepInitialMinus() State {
	minusHandle := t.next()
	minus := t.arena.MustGet(minusHandle)

	if t.atEnd() || !isOperandStart(t.peek()) {
		t.collapseToUnaryMinus(minus)
		t.push(minusHandle)
		return StatePostOperand
	}

	operand, err := t.parseOperand(false)
	if err != nil {
		return t.fail(err)
	}

	// An operator after the operand settles it: the minus is unary.
	if !t.atEnd() {
		t.collapseToUnaryMinus(minus)
		callHandle, err := t.buildCall(minusHandle, []ast.Handle{operand}, false)
		if err != nil {
			return t.fail(err)
		}
		t.push(callHandle)
		return StatePostOperand
	}

	minus.Kind = ast.KindPartiallyAppliedMinus
	minus.Value = ast.PartialMinus{Operand: operand}

	resolved, err := t.disambiguateMinus(minusHandle)
	if err != nil {
		return t.fail(err)
	}
	t.push(resolved)
	return StateReduceAll
}

// stepInitialOperator handles a leading binary operator. Alone it is the
// operator as a function value, otherwise its left argument is missing.
func (t *termResolver) stepInitialOperator() State {
	opHandle := t.next()
	op := t.arena.MustGet(opHandle)

	if t.atEnd() {
		t.push(opHandle)
		return StateReduceAll
	}

	if t.peekIs(ast.KindBinaryOperatorReference) {
		return t.fail(&UnexpectedTermError{
			termError: termError{Location: t.peek().Location},
			Kind:      ast.KindBinaryOperatorReference,
			Expected:  "an operand",
		})
	}

	leftType := op.Type.ParamType(0)
	if leftType == nil {
		return t.fail(&UnexpectedTermError{
			termError: termError{Location: op.Location},
			Kind:      op.Kind,
			Expected:  "a binary operator",
		})
	}

	t.push(t.arena.Alloc(ast.NewMissingArgument(leftType, op.Location)))
	t.push(opHandle)
	t.pushPrecedence(precedenceOf(op))

	return StateExpectOperand
}

func (t *termResolver) stepOperand() State {
	operand, err := t.parseOperand(true)
	if err != nil {
		return t.fail(err)
	}

	t.push(operand)
	return StatePostOperand
}

// stepPostOperand compares the next operator against the precedence stack:
// lower or equal precedence reduces (equal gives left associativity) and the
// check repeats against the level below, higher precedence shifts.
func (t *termResolver) stepPostOperand() State {
	if t.atEnd() {
		return StateReduceAll
	}

	next := t.peek()
	switch next.Kind {
	case ast.KindMinusSign:
		t.becomeBinaryMinus(next)
	case ast.KindBinaryOperatorReference:
	default:
		return t.fail(&UnexpectedTermError{
			termError: termError{Location: next.Location},
			Kind:      next.Kind,
			Expected:  "an operator",
		})
	}

	precedence := precedenceOf(next)
	for t.topPrecedence() != MinPrecedence && t.topPrecedence() >= precedence {
		if err := t.reduceTop(); err != nil {
			return t.fail(err)
		}
		t.popPrecedence()
	}

	t.push(t.next())
	t.pushPrecedence(precedence)

	return StateExpectOperand
}

func (t *termResolver) stepExpectOperand() State {
	if t.atEnd() {
		return t.reduceTrailingOperator()
	}

	if t.peekIs(ast.KindBinaryOperatorReference) {
		return t.fail(&UnexpectedTermError{
			termError: termError{Location: t.peek().Location},
			Kind:      ast.KindBinaryOperatorReference,
			Expected:  "an operand",
		})
	}

	return StateOperand
}

// reduceTrailingOperator turns [..., lhs, op] at the end of input into a
// call with the right argument missing.
func (t *termResolver) reduceTrailingOperator() State {
	if len(t.parseStack) < 2 {
		return t.fail(t.malformed("trailing operator without left operand"))
	}

	opHandle := t.pop()
	lhsHandle := t.pop()
	t.popPrecedence()

	lhs := t.arena.MustGet(lhsHandle)
	if lhs.Kind == ast.KindMissingArgument {
		return t.fail(&UnsupportedError{
			termError: termError{Location: lhs.Location},
			What:      "binary operator call with both arguments missing",
		})
	}

	callHandle, err := t.buildCall(opHandle, []ast.Handle{lhsHandle}, true)
	if err != nil {
		return t.fail(err)
	}

	t.push(callHandle)
	return StateReduceAll
}

func (t *termResolver) stepReduceAll() State {
	for len(t.parseStack) > 1 {
		if len(t.precedenceStack) < 2 {
			return t.fail(t.malformed(fmt.Sprintf("%d terms left without operators", len(t.parseStack))))
		}
		if err := t.reduceTop(); err != nil {
			return t.fail(err)
		}
		t.popPrecedence()
	}

	if len(t.parseStack) != 1 || len(t.precedenceStack) != 1 {
		return t.fail(t.malformed(fmt.Sprintf(
			"parse stack %d, precedence stack %d", len(t.parseStack), len(t.precedenceStack))))
	}

	if err := t.finish(t.parseStack[0]); err != nil {
		return t.fail(err)
	}
	return StateDone
}

// reduceTop replaces [..., lhs, op, rhs] with the call op lhs rhs.
func (t *termResolver) reduceTop() error {
	if len(t.parseStack) < 3 {
		return t.malformed(fmt.Sprintf("cannot reduce a parse stack of %d", len(t.parseStack)))
	}

	rhs := t.pop()
	op := t.pop()
	lhs := t.pop()

	if opExpr := t.arena.MustGet(op); opExpr.Kind != ast.KindBinaryOperatorReference {
		return t.malformed(fmt.Sprintf("expected a binary operator between operands, found %s", opExpr.Kind))
	}

	callHandle, err := t.buildCall(op, []ast.Handle{lhs, rhs}, true)
	if err != nil {
		return err
	}

	t.push(callHandle)
	return nil
}

// finish checks the final node and applies a leading type declaration.
func (t *termResolver) finish(result ast.Handle) error {
	expr := t.arena.MustGet(result)

	switch expr.Kind {
	case ast.KindLayer2, ast.KindIdentifier, ast.KindMinusSign, ast.KindPartiallyAppliedMinus, ast.KindSyntaxError:
		return t.malformed(fmt.Sprintf("%s left after resolution", expr.Kind))
	}

	if t.declaredType == nil || t.declarationUsed {
		return nil
	}
	return t.applyDeclaredType(result, t.declaredType, t.declaredAt)
}

func precedenceOf(expr *ast.Expression) int {
	op, ok := expr.Value.(ast.OperatorReference)
	if !ok {
		panic(fmt.Errorf("%w: precedence of %s", ErrLogic, expr.Kind))
	}
	return op.Precedence
}
