package compiler_errors

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type CompilerError interface {
	error
	GetMessage() string
	GetFileName() string
	GetLine() int
	GetColumn() int
	GetLength() int
}

type ErrorHandler interface {
	AddError(err CompilerError)
	HasErrors() bool
	Errors() []CompilerError
	Report() int
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type CompilerErrorHandler struct {
	errors []CompilerError
	writer io.Writer
	color  bool
}

func NewErrorHandler(outputWriter io.Writer, mode ColorMode) ErrorHandler {
	return &CompilerErrorHandler{
		errors: make([]CompilerError, 0),
		writer: outputWriter,
		color:  useColor(outputWriter, mode),
	}
}

func useColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (eh *CompilerErrorHandler) AddError(err CompilerError) {
	eh.errors = append(eh.errors, err)
}

func (eh *CompilerErrorHandler) HasErrors() bool {
	return len(eh.errors) > 0
}

func (eh *CompilerErrorHandler) Errors() []CompilerError {
	return eh.errors
}

// Report writes every collected error and returns how many were written.
func (eh *CompilerErrorHandler) Report() int {
	if len(eh.errors) == 0 {
		return 0
	}

	fmt.Fprintln(eh.writer, "Build failed with errors:")

	prefix := "ERROR"
	if eh.color {
		prefix = "\x1b[1;31mERROR\x1b[0m"
	}

	for _, err := range eh.errors {
		if err.GetFileName() == "" && err.GetLine() == 0 {
			fmt.Fprintf(eh.writer, "%s: %s\n", prefix, err.GetMessage())
			continue
		}
		fmt.Fprintf(eh.writer, "%s: %s:%d:%d: %s\n",
			prefix, err.GetFileName(), err.GetLine(), err.GetColumn(), err.GetMessage())
	}

	return len(eh.errors)
}
