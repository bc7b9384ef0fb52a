package term_resolver

import (
	"errors"
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
)

// ErrLogic is wrapped by errors that point at a bug in an earlier pass or in
// the resolver itself rather than at the user's program.
var ErrLogic = errors.New("compiler logic error")

type termError struct {
	Location ast.Location
}

func (e *termError) GetFileName() string { return e.Location.FileName }
func (e *termError) GetLine() int        { return e.Location.Line }
func (e *termError) GetColumn() int      { return e.Location.Column }
func (e *termError) GetLength() int      { return e.Location.Length }

type UnresolvedIdentifierError struct {
	termError
	Name string
}

func (e *UnresolvedIdentifierError) GetMessage() string {
	return fmt.Sprintf("identifier '%s' reached expression resolution without being resolved", e.Name)
}
func (e *UnresolvedIdentifierError) Unwrap() error { return ErrLogic }

type AmbiguousMinusError struct {
	termError
}

func (e *AmbiguousMinusError) GetMessage() string {
	return "ambiguous '-': declare the type of the expression to pick unary or binary minus"
}

type UnexpectedTermError struct {
	termError
	Kind     ast.ExprKind
	Expected string
}

func (e *UnexpectedTermError) GetMessage() string {
	return fmt.Sprintf("unexpected %s, expected %s", e.Kind, e.Expected)
}

type UnsupportedError struct {
	termError
	What string
}

func (e *UnsupportedError) GetMessage() string {
	return fmt.Sprintf("not supported: %s", e.What)
}

type EmptyExpressionError struct {
	termError
}

func (e *EmptyExpressionError) GetMessage() string {
	return "empty expression"
}

type MalformedStackError struct {
	termError
	Detail string
}

func (e *MalformedStackError) GetMessage() string {
	return fmt.Sprintf("internal error: expression did not reduce: %s", e.Detail)
}
func (e *MalformedStackError) Unwrap() error { return ErrLogic }

func (e *UnresolvedIdentifierError) Error() string { return formatError(e.Location, e.GetMessage()) }
func (e *AmbiguousMinusError) Error() string       { return formatError(e.Location, e.GetMessage()) }
func (e *UnexpectedTermError) Error() string       { return formatError(e.Location, e.GetMessage()) }
func (e *UnsupportedError) Error() string          { return formatError(e.Location, e.GetMessage()) }
func (e *EmptyExpressionError) Error() string      { return formatError(e.Location, e.GetMessage()) }
func (e *MalformedStackError) Error() string       { return formatError(e.Location, e.GetMessage()) }

func formatError(loc ast.Location, message string) string {
	return loc.String() + ": " + message
}
