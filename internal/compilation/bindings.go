package compilation

import (
	"errors"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/term_resolver"
	"github.com/mekelius/maps-sub000/internal/types"
)

type bindingState int

const (
	unvisited bindingState = iota
	inProgress
	done
	failed
)

// bindingResolver resolves let bodies on demand. A reference to a binding
// whose type is still unknown resolves that binding first through the
// definition's deduction hook.
type bindingResolver struct {
	ctx      *Context
	arena    *ast.Arena
	resolver *term_resolver.Resolver

	lets  map[*ast.Definition]*ast.LetStmt
	state map[*ast.Definition]bindingState
}

func newBindingResolver(ctx *Context) *bindingResolver {
	return &bindingResolver{
		ctx:      ctx,
		arena:    ctx.Unit.Arena,
		resolver: term_resolver.NewResolver(ctx.Unit.Arena, ctx.Builtins.UnaryMinus, ctx.Builtins.BinaryMinus),

		lets:  make(map[*ast.Definition]*ast.LetStmt),
		state: make(map[*ast.Definition]bindingState),
	}
}

func (br *bindingResolver) resolveAll() {
	for _, stmt := range br.ctx.Unit.Stmts {
		let, ok := stmt.(*ast.LetStmt)
		if !ok || let.Def == nil {
			continue
		}

		def := let.Def
		br.lets[def] = let
		def.Deduce = func() (types.Type, error) {
			return br.deduce(def)
		}
	}

	for _, stmt := range br.ctx.Unit.Stmts {
		if let, ok := stmt.(*ast.LetStmt); ok && let.Def != nil {
			br.resolveBinding(let)
		}
	}
}

func (br *bindingResolver) deduce(def *ast.Definition) (types.Type, error) {
	switch br.state[def] {
	case inProgress:
		return nil, &CycleError{Name: def.Name, Location: def.Location}
	case failed:
		return nil, &DependencyError{Name: def.Name}
	}

	if err := br.resolveBinding(br.lets[def]); err != nil {
		return nil, &DependencyError{Name: def.Name, Err: err}
	}
	return def.Type, nil
}

func (br *bindingResolver) resolveBinding(let *ast.LetStmt) error {
	def := let.Def

	switch br.state[def] {
	case done:
		return nil
	case failed:
		return &DependencyError{Name: def.Name}
	case inProgress:
		return &CycleError{Name: def.Name, Location: def.Location}
	}
	br.state[def] = inProgress

	body := br.arena.MustGet(let.Value)
	if body.Kind == ast.KindSyntaxError {
		br.state[def] = failed
		return &DependencyError{Name: def.Name}
	}

	ctx := term_resolver.Context{}
	if !def.Type.IsUnknown() {
		ctx.DeclaredType = def.Type
	}

	if err := br.resolver.Resolve(let.Value, ctx); err != nil {
		br.state[def] = failed
		br.report(def, err, body.Location)
		return err
	}

	if def.Type.IsUnknown() {
		def.Type = body.Type
	}
	br.state[def] = done

	br.ctx.Logger.Debug("binding resolved", "binding", def.Name, "kind", body.Kind, "type", ast.TypeName(def.Type))
	return nil
}

func (br *bindingResolver) report(def *ast.Definition, err error, location ast.Location) {
	var dependencyError *DependencyError
	if errors.As(err, &dependencyError) {
		br.ctx.Logger.Debug("binding skipped", "binding", def.Name, "dependency", dependencyError.Name)
		return
	}

	br.ctx.Logger.Debug("binding failed", "binding", def.Name, "error", err)

	var compilerError compiler_errors.CompilerError
	if errors.As(err, &compilerError) {
		br.ctx.ErrorHandler.AddError(compilerError)
		return
	}

	br.ctx.ErrorHandler.AddError(compiler_errors.NewLocatedError(
		err.Error(),
		location.FileName,
		location.Line,
		location.Column,
		location.Length,
	))
}
