// Package compilation wires the front end phases into one pipeline.
package compilation

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/builtins"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/config"
)

// Compile runs the front end over source. Problems in the program are
// recorded on eh and the returned unit holds error nodes for the failed
// bindings. The error is only set when cfg itself is unusable.
func Compile(fileName string, source []byte, cfg *config.Config, eh compiler_errors.ErrorHandler, logger *slog.Logger) (*ast.TranslationUnit, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	b, err := builtins.New(cfg.Operators)
	if err != nil {
		return nil, fmt.Errorf("configuring operators: %w", err)
	}

	ctx := &Context{
		FileName: fileName,
		Source:   source,

		Config:       cfg,
		Logger:       logger.With("file", fileName),
		ErrorHandler: eh,
		Builtins:     b,
	}

	final := New(
		&LexerProcessor{},
		&ParserProcessor{},
		&NameResolutionProcessor{},
		&TermResolutionProcessor{},
		&ConcretizerProcessor{},
	).Run(ctx)

	return final.Unit, nil
}
