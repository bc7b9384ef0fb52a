package compiler_errors

import "fmt"

// LocatedError is a plain message pinned to a source position. Passes that
// have no dedicated error type report through it.
type LocatedError struct {
	Message string

	FileName string
	Line     int
	Column   int
	Length   int
}

func NewLocatedError(message string, fileName string, line, column, length int) *LocatedError {
	return &LocatedError{
		Message: message,

		FileName: fileName,
		Line:     line,
		Column:   column,
		Length:   length,
	}
}

func (e *LocatedError) Error() string {
	if e.FileName == "" {
		return e.Message
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.FileName, e.Line, e.Column, e.Message)
}

func (e *LocatedError) GetMessage() string  { return e.Message }
func (e *LocatedError) GetFileName() string { return e.FileName }
func (e *LocatedError) GetLine() int        { return e.Line }
func (e *LocatedError) GetColumn() int      { return e.Column }
func (e *LocatedError) GetLength() int      { return e.Length }
