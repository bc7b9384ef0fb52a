package emitter

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
)

// UnsupportedError is reported for valid programs the native backend cannot
// lower, such as function valued bindings.
type UnsupportedError struct {
	What     string
	Location ast.Location
}

func (e *UnsupportedError) GetMessage() string {
	return fmt.Sprintf("not supported by the native backend: %s", e.What)
}

func (e *UnsupportedError) Error() string       { return e.Location.String() + ": " + e.GetMessage() }
func (e *UnsupportedError) GetFileName() string { return e.Location.FileName }
func (e *UnsupportedError) GetLine() int        { return e.Location.Line }
func (e *UnsupportedError) GetColumn() int      { return e.Location.Column }
func (e *UnsupportedError) GetLength() int      { return e.Location.Length }
