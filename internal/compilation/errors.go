package compilation

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
)

// CycleError is reported when a binding needs its own type to resolve.
type CycleError struct {
	Name     string
	Location ast.Location
}

func (e *CycleError) GetMessage() string {
	return fmt.Sprintf("'%s' is defined in terms of itself", e.Name)
}

func (e *CycleError) Error() string       { return e.Location.String() + ": " + e.GetMessage() }
func (e *CycleError) GetFileName() string { return e.Location.FileName }
func (e *CycleError) GetLine() int        { return e.Location.Line }
func (e *CycleError) GetColumn() int      { return e.Location.Column }
func (e *CycleError) GetLength() int      { return e.Location.Length }

// DependencyError is returned for a reference to a binding that failed. The
// binding's own error has already been reported.
type DependencyError struct {
	Name string
	Err  error
}

func (e *DependencyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("depends on '%s', which failed", e.Name)
	}
	return fmt.Sprintf("depends on '%s', which failed: %v", e.Name, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
