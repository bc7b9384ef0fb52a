package call_coercion

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

type ArityMismatchError struct {
	Expected int
	Got      int

	Location ast.Location
}

func (e *ArityMismatchError) GetMessage() string {
	return fmt.Sprintf("too many arguments: expected at most %d, got %d", e.Expected, e.Got)
}

type UncastableError struct {
	From types.Type
	To   types.Type

	Location ast.Location
}

func (e *UncastableError) GetMessage() string {
	return fmt.Sprintf("cannot use a value of type %s as %s", ast.TypeName(e.From), ast.TypeName(e.To))
}

type NotCallableError struct {
	Type types.Type

	Location ast.Location
}

func (e *NotCallableError) GetMessage() string {
	return fmt.Sprintf("a value of type %s cannot be called", ast.TypeName(e.Type))
}

func (e *ArityMismatchError) Error() string { return e.Location.String() + ": " + e.GetMessage() }
func (e *UncastableError) Error() string    { return e.Location.String() + ": " + e.GetMessage() }
func (e *NotCallableError) Error() string   { return e.Location.String() + ": " + e.GetMessage() }

func (e *ArityMismatchError) GetFileName() string { return e.Location.FileName }
func (e *UncastableError) GetFileName() string    { return e.Location.FileName }
func (e *NotCallableError) GetFileName() string   { return e.Location.FileName }

func (e *ArityMismatchError) GetLine() int { return e.Location.Line }
func (e *UncastableError) GetLine() int    { return e.Location.Line }
func (e *NotCallableError) GetLine() int   { return e.Location.Line }

func (e *ArityMismatchError) GetColumn() int { return e.Location.Column }
func (e *UncastableError) GetColumn() int    { return e.Location.Column }
func (e *NotCallableError) GetColumn() int   { return e.Location.Column }

func (e *ArityMismatchError) GetLength() int { return e.Location.Length }
func (e *UncastableError) GetLength() int    { return e.Location.Length }
func (e *NotCallableError) GetLength() int   { return e.Location.Length }
