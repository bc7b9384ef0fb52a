package name_resolver

import (
	"io"
	"strings"
	"testing"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/builtins"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/lexer"
	"github.com/mekelius/maps-sub000/internal/parser"
)

func resolve(t *testing.T, source string) (*ast.TranslationUnit, compiler_errors.ErrorHandler) {
	t.Helper()

	eh := compiler_errors.NewErrorHandler(io.Discard, compiler_errors.ColorNever)
	tokens := lexer.Sanitize(lexer.NewLexer("test.maps", []byte(source), eh).Tokenize())
	unit := parser.NewParser("test.maps", lexer.NewTokenScanner(tokens), eh, ast.NewArena()).Parse()
	if eh.HasErrors() {
		t.Fatalf("syntax errors: %v", eh.Errors())
	}

	b, err := builtins.New(nil)
	if err != nil {
		t.Fatalf("builtins: %v", err)
	}

	NewNameResolver(eh, &unit, b).Resolve()
	return &unit, eh
}

// lastLet returns the resolved terms of the final let statement.
func lastLet(t *testing.T, unit *ast.TranslationUnit) (*ast.LetStmt, []*ast.Expression) {
	t.Helper()

	let, ok := unit.Stmts[len(unit.Stmts)-1].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected the last statement to be a let, got %T", unit.Stmts[len(unit.Stmts)-1])
	}

	body := unit.Arena.MustGet(let.Value)
	if body.Kind != ast.KindLayer2 {
		t.Fatalf("expected a term list body, got %s", body.Kind)
	}

	terms := make([]*ast.Expression, 0)
	for _, h := range body.TermsPayload().Terms {
		terms = append(terms, unit.Arena.MustGet(h))
	}
	return let, terms
}

func TestResolveKinds(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []ast.ExprKind
	}{
		{
			name:     "forward reference and operator",
			source:   "let a = b + 1; let b = 2;",
			expected: []ast.ExprKind{ast.KindReference, ast.KindBinaryOperatorReference, ast.KindNumberLiteral},
		},
		{
			name:     "minus sign",
			source:   "let a = - 1;",
			expected: []ast.ExprKind{ast.KindMinusSign, ast.KindNumberLiteral},
		},
		{
			name:     "builtin constant",
			source:   "let a = pi;",
			expected: []ast.ExprKind{ast.KindKnownValueReference},
		},
		{
			name:     "shadowed builtin",
			source:   "let pi = 3; let a = pi;",
			expected: []ast.ExprKind{ast.KindReference},
		},
		{
			name:     "prefix and postfix",
			source:   "let a = ! true; let b = 1 ++;",
			expected: []ast.ExprKind{ast.KindNumberLiteral, ast.KindPostfixOperatorReference},
		},
		{
			name:     "extern operator",
			source:   "extern operator <+> infix 45 : Int -> Int -> Int; let a = 1 <+> 2;",
			expected: []ast.ExprKind{ast.KindNumberLiteral, ast.KindBinaryOperatorReference, ast.KindNumberLiteral},
		},
		{
			name:     "type annotation",
			source:   "let a = Float: 1;",
			expected: []ast.ExprKind{ast.KindTypeReference, ast.KindNumberLiteral},
		},
		{
			name:     "type group",
			source:   "extern f : Int -> Int; let a = (Int -> Int) f;",
			expected: []ast.ExprKind{ast.KindTypeReference, ast.KindReference},
		},
		{
			name:     "nested group",
			source:   "let a = (1 + 2) * 3;",
			expected: []ast.ExprKind{ast.KindLayer2, ast.KindBinaryOperatorReference, ast.KindNumberLiteral},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, eh := resolve(t, tt.source)
			if eh.HasErrors() {
				t.Fatalf("unexpected errors: %v", eh.Errors())
			}

			_, terms := lastLet(t, unit)
			if len(terms) != len(tt.expected) {
				t.Fatalf("expected %d terms, got %d", len(tt.expected), len(terms))
			}
			for i, kind := range tt.expected {
				if terms[i].Kind != kind {
					t.Errorf("term %d: expected %s, got %s", i, kind, terms[i].Kind)
				}
			}
		})
	}
}

func TestResolveBindsDefinitions(t *testing.T) {
	unit, eh := resolve(t, "let a: Int -> Int = + 1; extern f : (Int -> Int) -> Int; let b = f a;")
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}

	a := unit.Stmts[0].(*ast.LetStmt)
	if a.Def == nil || a.Def.Kind != ast.DefinitionLet {
		t.Fatalf("a is not declared as a let: %+v", a.Def)
	}
	if got := a.Def.Type.Name(); got != "Int -> Int" {
		t.Errorf("expected the declared type Int -> Int, got %s", got)
	}

	f := unit.Stmts[1].(*ast.ExternStmt)
	if f.Def == nil || f.Def.Type.Name() != "(Int -> Int) -> Int" {
		t.Fatalf("unexpected extern definition %+v", f.Def)
	}

	_, terms := lastLet(t, unit)
	if def, _ := terms[0].Definition(); def != f.Def {
		t.Error("f does not point at the extern")
	}
	if def, _ := terms[1].Definition(); def != a.Def {
		t.Error("a does not point at the let")
	}
	if !terms[0].Type.SameAs(f.Def.Type) {
		t.Errorf("reference carries %s, want %s", ast.TypeName(terms[0].Type), f.Def.Type.Name())
	}
}

func TestResolveTypeGroup(t *testing.T) {
	unit, eh := resolve(t, "let a = ((Int -> Bool) -> Float): x;")
	if len(eh.Errors()) != 1 || !strings.Contains(eh.Errors()[0].GetMessage(), "x not defined") {
		t.Fatalf("expected only x to fail, got %v", eh.Errors())
	}

	unit, eh = resolve(t, "extern g : (Int -> Bool) -> Float; let a = ((Int -> Bool) -> Float): g;")
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}
	_, terms := lastLet(t, unit)
	if got := terms[0].Type.Name(); got != "(Int -> Bool) -> Float" {
		t.Errorf("unexpected type %s", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"undefined name", "let a = x;", "x not defined"},
		{"duplicate let", "let a = 1; let a = 2;", "a already defined"},
		{"duplicate extern", "extern f : Int -> Int; let f = 1;", "f already defined"},
		{"unknown declared type", "let a: Foo = 1;", "type Foo not defined"},
		{"unknown extern type", "extern f : Int -> Foo;", "type Foo not defined"},
		{"unknown annotation", "let a = Foo: 1;", "type Foo not defined"},
		{"minus redefined", "extern operator - infix 5 : Int -> Int -> Int;", "operator - cannot be redefined"},
		{"binary operator arity", "extern operator <+> infix 5 : Int -> Int;", "must take 2 arguments"},
		{"prefix operator arity", "extern operator ! prefix 5 : Int -> Int -> Int;", "must take 1 arguments"},
		{"type as value", "let a = Int;", "type Int used as a value"},
		{"stray arrow", "let a = -> 1;", "'->' outside of a type"},
		{"missing arrow", "let a = (Int Int): 1;", "expected '->' in function type"},
		{"missing return type", "let a = (Int ->) 1;", "missing its return type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, eh := resolve(t, tt.source)

			if len(eh.Errors()) != 1 {
				t.Fatalf("expected 1 error, got %v", eh.Errors())
			}
			if got := eh.Errors()[0].GetMessage(); !strings.Contains(got, tt.message) {
				t.Errorf("expected %q in %q", tt.message, got)
			}
		})
	}
}

func TestResolveMarksFailedBodies(t *testing.T) {
	unit, eh := resolve(t, "let a = x; let b = 1;")
	if len(eh.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %v", eh.Errors())
	}

	a := unit.Stmts[0].(*ast.LetStmt)
	if got := unit.Arena.MustGet(a.Value).Kind; got != ast.KindSyntaxError {
		t.Errorf("expected the failed body to be a syntax error, got %s", got)
	}

	b := unit.Stmts[1].(*ast.LetStmt)
	if got := unit.Arena.MustGet(b.Value).Kind; got != ast.KindLayer2 {
		t.Errorf("expected b to stay a term list, got %s", got)
	}
}
