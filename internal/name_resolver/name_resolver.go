package name_resolver

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/builtins"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/parser"
	"github.com/mekelius/maps-sub000/internal/types"
)

type SemanticError struct {
	message string

	fileName string
	line     int
	column   int
	length   int
}

func (se *SemanticError) GetMessage() string  { return se.message }
func (se *SemanticError) GetFileName() string { return se.fileName }
func (se *SemanticError) GetLine() int        { return se.line }
func (se *SemanticError) GetColumn() int      { return se.column }
func (se *SemanticError) GetLength() int      { return se.length }

func (se *SemanticError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", se.fileName, se.line, se.column, se.message)
}

func newSemanticError(message string, location ast.Location) *SemanticError {
	return &SemanticError{
		message: message,

		fileName: location.FileName,
		line:     location.Line,
		column:   location.Column,
		length:   location.Length,
	}
}

// NameResolver binds every identifier of a translation unit to a definition,
// operator or type, rewriting the term lists in place.
type NameResolver struct {
	eh    compiler_errors.ErrorHandler
	unit  *ast.TranslationUnit
	arena *ast.Arena

	builtins *builtins.Builtins
	types    *TypeResolver

	scope *scope
}

func NewNameResolver(eh compiler_errors.ErrorHandler, unit *ast.TranslationUnit, b *builtins.Builtins) *NameResolver {
	prelude := newScope(nil)
	for _, def := range b.Values {
		prelude.define(def)
	}
	for _, def := range b.Operators {
		prelude.define(def)
	}

	return &NameResolver{
		eh:    eh,
		unit:  unit,
		arena: unit.Arena,

		builtins: b,
		types:    NewTypeResolver(b.Types),

		scope: newScope(prelude),
	}
}

// Resolve declares every top level name first so bindings can refer forward,
// then rewrites the bodies. A body with an unresolvable name becomes a
// syntax error node.
func (nr *NameResolver) Resolve() {
	for _, stmt := range nr.unit.Stmts {
		nr.declare(stmt)
	}

	for _, stmt := range nr.unit.Stmts {
		let, ok := stmt.(*ast.LetStmt)
		if !ok || let.Def == nil {
			continue
		}

		if err := nr.resolveTerms(let.Value); err != nil {
			nr.eh.AddError(err.(compiler_errors.CompilerError))
			value := nr.arena.MustGet(let.Value)
			value.Become(ast.NewSyntaxError(err, value.Location))
		}
	}
}

func (nr *NameResolver) declare(stmt ast.TopStmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		location := ast.LocationOf(s.StartToken)
		def := &ast.Definition{
			Name:     s.Name,
			Kind:     ast.DefinitionLet,
			Location: location,
			Type:     types.Unknown,
			Body:     s.Value,
		}

		if s.ExplicitType != nil {
			t, failed := nr.types.GetType(s.ExplicitType)
			if failed != nil {
				nr.eh.AddError(newSemanticError(fmt.Sprintf("type %s not defined", failed.Name), failed.Location))
				return
			}
			def.Type = t
		}

		if !nr.scope.define(def) {
			nr.eh.AddError(newSemanticError(fmt.Sprintf("%s already defined", s.Name), location))
			return
		}
		s.Def = def

	case *ast.ExternStmt:
		location := ast.LocationOf(s.StartToken)
		t, failed := nr.types.GetType(s.Type)
		if failed != nil {
			nr.eh.AddError(newSemanticError(fmt.Sprintf("type %s not defined", failed.Name), failed.Location))
			return
		}

		if s.Operator != nil {
			if s.Name == builtins.MinusName || s.Name == parser.ArrowName {
				nr.eh.AddError(newSemanticError(fmt.Sprintf("operator %s cannot be redefined", s.Name), location))
				return
			}

			expected := 2
			if s.Operator.Fixity != ast.FixityBinary {
				expected = 1
			}
			if !t.IsFunction() || t.Arity() != expected {
				nr.eh.AddError(newSemanticError(
					fmt.Sprintf("%s operator %s must take %d arguments, has type %s", s.Operator.Fixity, s.Name, expected, t.Name()),
					location,
				))
				return
			}
		}

		def := &ast.Definition{
			Name:     s.Name,
			Kind:     ast.DefinitionExtern,
			Location: location,
			Type:     t,
			Operator: s.Operator,
		}
		if !nr.scope.define(def) {
			nr.eh.AddError(newSemanticError(fmt.Sprintf("%s already defined", s.Name), location))
			return
		}
		s.Def = def
	}
}

func (nr *NameResolver) resolveTerms(handle ast.Handle) error {
	list := nr.arena.MustGet(handle)
	terms := list.TermsPayload()

	for _, term := range terms.Terms {
		if err := nr.resolveTerm(term); err != nil {
			return err
		}
	}
	return nil
}

func (nr *NameResolver) resolveTerm(handle ast.Handle) error {
	expr := nr.arena.MustGet(handle)

	switch expr.Kind {
	case ast.KindLayer2:
		if expr.TermsPayload().IsTypeDeclaration == ast.TriTrue {
			t, err := nr.typeOfGroup(handle)
			if err != nil {
				return err
			}
			expr.Become(ast.NewTypeReference(t, expr.Location))
			return nil
		}
		return nr.resolveTerms(handle)

	case ast.KindIdentifier:
		identifier := expr.Value.(ast.Identifier)
		resolved, err := nr.resolveIdentifier(identifier, expr.Location)
		if err != nil {
			return err
		}
		expr.Become(resolved)
	}

	return nil
}

func (nr *NameResolver) resolveIdentifier(identifier ast.Identifier, location ast.Location) (ast.Expression, error) {
	name := identifier.Name

	if identifier.TypeAnnotation {
		t, ok := nr.types.GetBuiltInType(name)
		if !ok {
			return ast.Expression{}, newSemanticError(fmt.Sprintf("type %s not defined", name), location)
		}
		return ast.NewTypeReference(t, location), nil
	}

	switch name {
	case builtins.MinusName:
		return ast.NewMinusSign(location), nil
	case parser.ArrowName:
		return ast.Expression{}, newSemanticError("'->' outside of a type", location)
	}

	if def, ok := nr.scope.lookupValue(name); ok {
		return ast.NewReference(def, location), nil
	}

	if def, ok := nr.scope.lookupOperator(name); ok {
		return ast.NewOperatorReference(def, location), nil
	}

	if nr.types.IsBuiltInType(name) {
		return ast.Expression{}, newSemanticError(fmt.Sprintf("type %s used as a value, write %s: to declare a type", name, name), location)
	}

	return ast.Expression{}, newSemanticError(fmt.Sprintf("%s not defined", name), location)
}

// typeOfGroup reads "(A -> B -> C)" from a term list marked as a type
// declaration.
func (nr *NameResolver) typeOfGroup(handle ast.Handle) (types.Type, error) {
	group := nr.arena.MustGet(handle)
	terms := group.TermsPayload().Terms

	if len(terms) == 0 {
		return nil, newSemanticError("empty type", group.Location)
	}

	parts := make([]types.Type, 0, len(terms)/2+1)
	expectType := true
	for _, term := range terms {
		expr := nr.arena.MustGet(term)

		if !expectType {
			identifier, ok := expr.Value.(ast.Identifier)
			if !ok || identifier.Name != parser.ArrowName {
				return nil, newSemanticError("expected '->' in function type", expr.Location)
			}
			expectType = true
			continue
		}

		t, err := nr.typeOfTerm(term)
		if err != nil {
			return nil, err
		}
		parts = append(parts, t)
		expectType = false
	}

	if expectType {
		return nil, newSemanticError("function type is missing its return type", group.Location)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return types.NewFunctionType(parts[len(parts)-1], false, parts[:len(parts)-1]...), nil
}

func (nr *NameResolver) typeOfTerm(handle ast.Handle) (types.Type, error) {
	expr := nr.arena.MustGet(handle)

	switch v := expr.Value.(type) {
	case ast.Terms:
		return nr.typeOfGroup(handle)
	case ast.Identifier:
		t, ok := nr.types.GetBuiltInType(v.Name)
		if !ok {
			return nil, newSemanticError(fmt.Sprintf("type %s not defined", v.Name), expr.Location)
		}
		return t, nil
	}

	return nil, newSemanticError(fmt.Sprintf("unexpected %s in type", expr.Kind), expr.Location)
}
