package compilation

import (
	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/concretizer"
	"github.com/mekelius/maps-sub000/internal/lexer"
	"github.com/mekelius/maps-sub000/internal/name_resolver"
	"github.com/mekelius/maps-sub000/internal/parser"
)

type LexerProcessor struct{}

func (*LexerProcessor) Name() string { return "lex" }

func (*LexerProcessor) Process(ctx *Context) *Context {
	tokens := lexer.NewLexer(ctx.FileName, ctx.Source, ctx.ErrorHandler).Tokenize()
	ctx.Tokens = lexer.Sanitize(tokens)
	return ctx
}

type ParserProcessor struct{}

func (*ParserProcessor) Name() string { return "parse" }

func (*ParserProcessor) Process(ctx *Context) *Context {
	if ctx.Tokens == nil {
		ctx.ErrorHandler.AddError(compiler_errors.NewLocatedError("parser: token stream is nil", ctx.FileName, 0, 0, 0))
		return ctx
	}

	scanner := lexer.NewTokenScanner(ctx.Tokens)
	unit := parser.NewParser(ctx.FileName, scanner, ctx.ErrorHandler, ast.NewArena()).Parse()
	ctx.Unit = &unit
	return ctx
}

type NameResolutionProcessor struct{}

func (*NameResolutionProcessor) Name() string { return "names" }

func (*NameResolutionProcessor) Process(ctx *Context) *Context {
	if ctx.Unit == nil {
		return ctx
	}

	name_resolver.NewNameResolver(ctx.ErrorHandler, ctx.Unit, ctx.Builtins).Resolve()
	return ctx
}

type TermResolutionProcessor struct{}

func (*TermResolutionProcessor) Name() string { return "terms" }

func (*TermResolutionProcessor) Process(ctx *Context) *Context {
	if ctx.Unit == nil {
		return ctx
	}

	newBindingResolver(ctx).resolveAll()
	return ctx
}

type ConcretizerProcessor struct{}

func (*ConcretizerProcessor) Name() string { return "concretize" }

func (*ConcretizerProcessor) Process(ctx *Context) *Context {
	if ctx.Unit == nil {
		return ctx
	}

	concretizer.NewConcretizer(ctx.ErrorHandler, ctx.Unit.Arena).Concretize(ctx.Unit)
	return ctx
}
