package term_resolver

import (
	"errors"
	"fmt"
	"math"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

// MinPrecedence seeds the precedence stack. No operator binds this loosely.
const MinPrecedence = math.MinInt

// Context carries what the surrounding code knows about the expression.
type Context struct {
	// DeclaredType is the type expected by the enclosing declaration or call
	// parameter, nil when nothing is known.
	DeclaredType types.Type
}

// StepTrace is handed to Resolver.Trace after every state transition.
type StepTrace struct {
	From, To        State
	ParseStack      int
	PrecedenceStack []int
}

// Resolver turns unresolved term lists into expression trees.
type Resolver struct {
	arena *ast.Arena

	unaryMinus  *ast.Definition
	binaryMinus *ast.Definition

	// Trace, when set, observes the state machine.
	Trace func(StepTrace)
}

func NewResolver(arena *ast.Arena, unaryMinus *ast.Definition, binaryMinus *ast.Definition) *Resolver {
	return &Resolver{
		arena: arena,

		unaryMinus:  unaryMinus,
		binaryMinus: binaryMinus,
	}
}

// Resolve rewrites the term list behind termList into a single expression,
// in place. Nodes that are not term lists are left alone. On failure the
// node becomes a syntax error sentinel and the error is returned.
func (r *Resolver) Resolve(termList ast.Handle, ctx Context) (err error) {
	expr, ok := r.arena.Get(termList)
	if !ok {
		return &MalformedStackError{Detail: fmt.Sprintf("term list %s does not resolve", termList)}
	}

	if expr.Kind != ast.KindLayer2 {
		return nil
	}

	t := &termResolver{
		Resolver: r,
		node:     expr,
		terms:    expr.TermsPayload().Terms,
		ctx:      ctx,
		loc:      expr.Location,

		parseStack:      make([]ast.Handle, 0, 8),
		precedenceStack: []int{MinPrecedence},
	}
	if ctx.DeclaredType == nil && expr.Type != nil && !expr.Type.IsUnknown() {
		t.ctx.DeclaredType = expr.Type
	}

	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}

		recoveredErr, isErr := recovered.(error)
		if !isErr || !(errors.Is(recoveredErr, ast.ErrStaleHandle) || errors.Is(recoveredErr, ErrLogic)) {
			panic(recovered)
		}

		err = &MalformedStackError{termError: termError{Location: t.loc}, Detail: recoveredErr.Error()}
		expr.Become(ast.NewSyntaxError(err, t.loc))
	}()

	result, err := t.run()
	if err != nil {
		expr.Become(ast.NewSyntaxError(err, t.loc))
		return err
	}

	resolved := r.arena.MustGet(result)
	expr.Become(*resolved)
	r.arena.Delete(result)

	return nil
}

type termResolver struct {
	*Resolver

	node  *ast.Expression
	terms []ast.Handle
	pos   int
	ctx   Context
	loc   ast.Location

	parseStack      []ast.Handle
	precedenceStack []int

	declaredType types.Type
	declaredAt   ast.Location
	// declarationUsed is set when the declared type was consumed to
	// disambiguate a minus sign.
	declarationUsed bool

	err error
}

func (t *termResolver) run() (ast.Handle, error) {
	state := StateStart
	for state != StateDone && state != StateFailed {
		next := t.step(state)
		if t.Trace != nil {
			t.Trace(StepTrace{
				From:            state,
				To:              next,
				ParseStack:      len(t.parseStack),
				PrecedenceStack: append([]int(nil), t.precedenceStack...),
			})
		}
		state = next
	}

	if state == StateFailed {
		return ast.NoHandle, t.err
	}
	return t.parseStack[0], nil
}

// fail records err, poisons the parse with a single error sentinel and moves
// the cursor to the end of the input.
func (t *termResolver) fail(err error) State {
	t.err = err
	t.pos = len(t.terms)
	t.parseStack = []ast.Handle{t.arena.Alloc(ast.NewSyntaxError(err, t.loc))}
	t.precedenceStack = []int{MinPrecedence}

	return StateFailed
}

func (t *termResolver) atEnd() bool {
	return t.pos >= len(t.terms)
}

func (t *termResolver) peek() *ast.Expression {
	if t.atEnd() {
		return nil
	}
	return t.arena.MustGet(t.terms[t.pos])
}

func (t *termResolver) next() ast.Handle {
	handle := t.terms[t.pos]
	t.pos++
	return handle
}

func (t *termResolver) peekIs(kinds ...ast.ExprKind) bool {
	expr := t.peek()
	if expr == nil {
		return false
	}

	for _, kind := range kinds {
		if expr.Kind == kind {
			return true
		}
	}
	return false
}

func (t *termResolver) push(handle ast.Handle) {
	t.parseStack = append(t.parseStack, handle)
}

func (t *termResolver) pop() ast.Handle {
	handle := t.parseStack[len(t.parseStack)-1]
	t.parseStack = t.parseStack[:len(t.parseStack)-1]
	return handle
}

func (t *termResolver) topPrecedence() int {
	return t.precedenceStack[len(t.precedenceStack)-1]
}

func (t *termResolver) pushPrecedence(precedence int) {
	t.precedenceStack = append(t.precedenceStack, precedence)
}

func (t *termResolver) popPrecedence() {
	t.precedenceStack = t.precedenceStack[:len(t.precedenceStack)-1]
}

func (t *termResolver) malformed(detail string) error {
	return &MalformedStackError{termError: termError{Location: t.loc}, Detail: detail}
}
