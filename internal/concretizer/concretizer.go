package concretizer

import (
	"errors"
	"strings"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/call_coercion"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/types"
)

// errFailedDependency marks a binding that refers to a binding which already
// failed and was reported.
var errFailedDependency = errors.New("depends on a failed binding")

type bindingState int

const (
	stateUnvisited bindingState = iota
	stateInProgress
	stateDone
	stateFailed
)

// Concretizer gives every resolved binding concrete types: literals become
// known values and arithmetic on Number is instantiated to Int or Float.
type Concretizer struct {
	eh    compiler_errors.ErrorHandler
	arena *ast.Arena

	lets  map[*ast.Definition]*ast.LetStmt
	state map[*ast.Definition]bindingState
}

func NewConcretizer(eh compiler_errors.ErrorHandler, arena *ast.Arena) *Concretizer {
	return &Concretizer{
		eh:    eh,
		arena: arena,

		lets:  make(map[*ast.Definition]*ast.LetStmt),
		state: make(map[*ast.Definition]bindingState),
	}
}

func (c *Concretizer) Concretize(unit *ast.TranslationUnit) {
	for _, stmt := range unit.Stmts {
		if let, ok := stmt.(*ast.LetStmt); ok && let.Def != nil {
			c.lets[let.Def] = let
		}
	}

	for _, stmt := range unit.Stmts {
		if let, ok := stmt.(*ast.LetStmt); ok && let.Def != nil {
			c.concretizeBinding(let)
		}
	}
}

func (c *Concretizer) concretizeBinding(let *ast.LetStmt) error {
	def := let.Def

	switch c.state[def] {
	case stateDone:
		return nil
	case stateFailed, stateInProgress:
		return errFailedDependency
	}
	c.state[def] = stateInProgress

	body := c.arena.MustGet(def.Body)
	if body.Kind == ast.KindSyntaxError || body.Kind == ast.KindLayer2 {
		c.state[def] = stateFailed
		return errFailedDependency
	}

	explicit := let.ExplicitType != nil
	var hint types.Type
	if explicit {
		hint = def.Type
	}

	err := c.concretize(def.Body, hint)
	if err == nil && explicit {
		err = c.checkBinding(def, body)
	}

	if err != nil {
		c.state[def] = stateFailed
		if !errors.Is(err, errFailedDependency) {
			c.report(err, body.Location)
		}
		body.Become(ast.NewSyntaxError(err, body.Location))
		return errFailedDependency
	}

	if !explicit {
		def.Type = body.Type
	}
	c.state[def] = stateDone
	return nil
}

func (c *Concretizer) checkBinding(def *ast.Definition, body *ast.Expression) error {
	if body.IsConstant() && !body.Type.SameAs(def.Type) {
		from := body.Type
		if !from.CastTo(def.Type, body) {
			return &call_coercion.UncastableError{From: from, To: def.Type, Location: body.Location}
		}
		return nil
	}

	if !types.Accepts(def.Type, body.Type) {
		return &call_coercion.UncastableError{From: body.Type, To: def.Type, Location: body.Location}
	}
	return nil
}

// concretize finalises the node behind h. hint is the type the parent
// expects, nil when it expects nothing in particular.
func (c *Concretizer) concretize(h ast.Handle, hint types.Type) error {
	expr := c.arena.MustGet(h)

	switch expr.Kind {
	case ast.KindNumberLiteral:
		text, _ := expr.ConstantText()
		target := hint
		if !types.IsNumeric(target) {
			target = literalType(text)
		}
		if !types.NumberLiteral.CastTo(target, expr) {
			return &call_coercion.UncastableError{From: types.NumberLiteral, To: target, Location: expr.Location}
		}

	case ast.KindStringLiteral:
		if !types.StringLiteral.CastTo(types.String, expr) {
			return &call_coercion.UncastableError{From: types.StringLiteral, To: types.String, Location: expr.Location}
		}

	case ast.KindKnownValue:
		if types.IsNumeric(hint) && types.IsNumeric(expr.Type) && !expr.Type.SameAs(hint) {
			expr.Type.CastTo(hint, expr)
		}

	case ast.KindReference:
		return c.concretizeReference(expr)

	case ast.KindCall, ast.KindPartialCall,
		ast.KindPartialBinopCallLeft, ast.KindPartialBinopCallRight, ast.KindPartialBinopCallBoth:
		return c.concretizeCall(expr, hint)

	case ast.KindSyntaxError:
		return errFailedDependency
	}

	return nil
}

// concretizeReference updates the type of a reference to a binding and
// inlines the binding's value when it is known.
func (c *Concretizer) concretizeReference(expr *ast.Expression) error {
	def, ok := expr.Definition()
	if !ok || def.Kind != ast.DefinitionLet {
		return nil
	}

	let, ok := c.lets[def]
	if !ok {
		return nil
	}
	if err := c.concretizeBinding(let); err != nil {
		return err
	}

	expr.Type = def.Type
	body := c.arena.MustGet(def.Body)
	if body.Kind == ast.KindKnownValue {
		value, _ := body.ConstantValue()
		expr.Become(ast.NewKnownValue(value, body.Type, expr.Location))
	}
	return nil
}

func (c *Concretizer) concretizeCall(expr *ast.Expression, hint types.Type) error {
	call := expr.CallPayload()

	if err := c.concretize(call.Callee, nil); err != nil {
		return err
	}
	calleeType := c.arena.MustGet(call.Callee).Type

	numeric := c.instantiation(expr, calleeType, call.Args, hint)
	concreteType := types.Instantiate(calleeType, numeric)

	var firstErr error
	for i, arg := range call.Args {
		argExpr := c.arena.MustGet(arg)
		if argExpr.Kind == ast.KindMissingArgument {
			argExpr.Type = types.Instantiate(argExpr.Type, numeric)
			continue
		}

		if err := c.concretize(arg, concreteType.ParamType(i)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return firstErr
	}

	args := append([]ast.Handle(nil), call.Args...)
	shape, err := call_coercion.CoerceCall(c.arena, concreteType, &args, expr.Location)
	if err != nil {
		return err
	}

	expr.Type = shape.Type
	return nil
}

// instantiation picks the numeric type standing in for Number in a call: the
// type the call was declared or expected to have, else Float when any numeric
// argument is a Float, else Int.
func (c *Concretizer) instantiation(expr *ast.Expression, calleeType types.Type, args []ast.Handle, hint types.Type) types.Type {
	if calleeType == nil || !types.ContainsNumber(calleeType) {
		return nil
	}

	if types.ContainsNumber(calleeType.ReturnType()) {
		switch {
		case types.IsNumeric(expr.DeclaredType):
			return expr.DeclaredType
		case types.IsNumeric(expr.Type):
			return expr.Type
		case types.IsNumeric(hint):
			return hint
		case expr.IsPartialCall() && hint != nil && hint.IsFunction() && types.IsNumeric(hint.ReturnType()):
			return hint.ReturnType()
		}
	}

	for i, arg := range args {
		if !types.ContainsNumber(calleeType.ParamType(i)) {
			continue
		}
		if c.isFloat(arg) {
			return types.Float
		}
	}
	return types.Int
}

func (c *Concretizer) isFloat(h ast.Handle) bool {
	expr := c.arena.MustGet(h)

	switch expr.Kind {
	case ast.KindNumberLiteral:
		text, _ := expr.ConstantText()
		return literalType(text) == types.Float
	case ast.KindMissingArgument:
		return false
	}

	if expr.Type != nil && expr.Type.SameAs(types.Float) {
		return true
	}

	if expr.IsCall() && expr.Type != nil && types.IsPendingNumeric(expr.Type) {
		call := expr.CallPayload()
		calleeType := c.arena.MustGet(call.Callee).Type
		for i, arg := range call.Args {
			if calleeType != nil && types.ContainsNumber(calleeType.ParamType(i)) && c.isFloat(arg) {
				return true
			}
		}
	}

	if def, ok := expr.Definition(); ok && def.Kind == ast.DefinitionLet {
		if let, ok := c.lets[def]; ok && c.concretizeBinding(let) == nil {
			return def.Type != nil && def.Type.SameAs(types.Float)
		}
	}

	return false
}

func literalType(text string) types.Type {
	if strings.ContainsAny(text, ".eE") {
		return types.Float
	}
	return types.Int
}

func (c *Concretizer) report(err error, location ast.Location) {
	var compilerError compiler_errors.CompilerError
	if errors.As(err, &compilerError) {
		c.eh.AddError(compilerError)
		return
	}

	c.eh.AddError(compiler_errors.NewLocatedError(
		err.Error(),
		location.FileName,
		location.Line,
		location.Column,
		location.Length,
	))
}
