package compilation

import (
	"log/slog"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/builtins"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/config"
	"github.com/mekelius/maps-sub000/internal/lexer"
)

// Context is handed from one phase to the next. Each phase fills in its
// part and records problems on ErrorHandler.
type Context struct {
	FileName string
	Source   []byte

	Config       *config.Config
	Logger       *slog.Logger
	ErrorHandler compiler_errors.ErrorHandler
	Builtins     *builtins.Builtins

	Tokens []lexer.Token
	Unit   *ast.TranslationUnit
}

type Processor interface {
	Name() string
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of compilation phases.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every phase in order. Phases run even after errors so that
// diagnostics from all declarations are collected.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		ctx.Logger.Debug("phase finished",
			"phase", processor.Name(),
			"errors", len(ctx.ErrorHandler.Errors()),
		)
	}
	return ctx
}
