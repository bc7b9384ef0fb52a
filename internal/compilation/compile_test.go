package compilation

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sanity-io/litter"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/builtins"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/config"
	"github.com/mekelius/maps-sub000/internal/term_resolver"
)

func compile(t *testing.T, source string, cfg *config.Config) (*ast.TranslationUnit, compiler_errors.ErrorHandler) {
	t.Helper()

	eh := compiler_errors.NewErrorHandler(io.Discard, compiler_errors.ColorNever)
	unit, err := Compile("test.maps", []byte(source), cfg, eh, nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return unit, eh
}

func binding(t *testing.T, unit *ast.TranslationUnit, name string) *ast.LetStmt {
	t.Helper()

	for _, stmt := range unit.Stmts {
		if let, ok := stmt.(*ast.LetStmt); ok && let.Name == name {
			return let
		}
	}
	t.Fatalf("no binding %s", name)
	return nil
}

func TestCompileTypes(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		binding  string
		expected string
	}{
		{"arithmetic", "let a = 1 + 2 * 3;", "a", "Int"},
		{"forward reference", "let a = b + 1; let b = 2;", "a", "Int"},
		{"forward float reference", "let a = b * 2; let b = 2.5;", "a", "Float"},
		{"chained forward references", "let a = b; let b = c; let c = 1.5;", "a", "Float"},
		{"extern call", "extern f : Int -> Int -> Int; let a = f 1 2;", "a", "Int"},
		{"extern partial", "extern f : Int -> Int -> Int; let a = f 1;", "a", "Int -> Int"},
		{"extern operator", "extern operator <+> infix 45 : Int -> Int -> Int; let a = 1 <+> 2 + 3;", "a", "Int"},
		{"nullary extern", "extern now : -> Int; let a = now + 1;", "a", "Int"},
		{"parenthesised", "let a = (1 + 2) * 3;", "a", "Int"},
		{"comments", "# answer\nlet a = 42; # trailing\n", "a", "Int"},
		{"unary minus", "let a: Int = - 3;", "a", "Int"},
		{"unary minus before operator", "let a = - 3 + 1;", "a", "Int"},
		{"minus section", "let a: Int -> Int = - 3;", "a", "Int -> Int"},
		{"declared float", "let a = Float: 1 + 2;", "a", "Float"},
		{"string concat", `let a = "x" <> "y";`, "a", "String"},
		{"logic", "let a = 1 < 2 && 3 >= 2;", "a", "Bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, eh := compile(t, tt.source, nil)
			if eh.HasErrors() {
				t.Fatalf("unexpected errors: %v", eh.Errors())
			}

			let := binding(t, unit, tt.binding)
			if got := let.Def.Type.Name(); got != tt.expected {
				t.Errorf("expected %s, got %s\n%s", tt.expected, got, litter.Sdump(unit.Arena.MustGet(let.Value)))
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errors int
		failed []string
		check  func(t *testing.T, err compiler_errors.CompilerError)
	}{
		{
			name:   "self reference",
			source: "let a = a + 1;",
			errors: 1,
			failed: []string{"a"},
			check: func(t *testing.T, err compiler_errors.CompilerError) {
				var cycle *CycleError
				if !errors.As(err, &cycle) || cycle.Name != "a" {
					t.Errorf("expected a cycle through a, got %v", err)
				}
			},
		},
		{
			name:   "mutual reference reported once",
			source: "let a = b; let b = a;",
			errors: 1,
			failed: []string{"a", "b"},
			check: func(t *testing.T, err compiler_errors.CompilerError) {
				var cycle *CycleError
				if !errors.As(err, &cycle) {
					t.Errorf("expected a cycle error, got %T", err)
				}
			},
		},
		{
			name:   "failed dependency is not reported again",
			source: "let a = 1 2; let b = a + 1; let c = 3;",
			errors: 1,
			failed: []string{"a", "b"},
		},
		{
			name:   "ambiguous minus",
			source: "let a = - 3;",
			errors: 1,
			failed: []string{"a"},
			check: func(t *testing.T, err compiler_errors.CompilerError) {
				var ambiguous *term_resolver.AmbiguousMinusError
				if !errors.As(err, &ambiguous) {
					t.Errorf("expected an ambiguous minus error, got %T", err)
				}
			},
		},
		{
			name:   "undefined name",
			source: "let a = nope + 1; let b = 2;",
			errors: 1,
			failed: []string{"a"},
		},
		{
			name:   "empty body",
			source: "let a = ;",
			errors: 1,
			failed: []string{"a"},
		},
		{
			name:   "bad declared type",
			source: `let a: Int = "text";`,
			errors: 1,
			failed: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, eh := compile(t, tt.source, nil)

			if got := len(eh.Errors()); got != tt.errors {
				t.Fatalf("expected %d errors, got %d: %v", tt.errors, got, eh.Errors())
			}
			if tt.check != nil {
				tt.check(t, eh.Errors()[0])
			}

			for _, name := range tt.failed {
				body := unit.Arena.MustGet(binding(t, unit, name).Value)
				if body.Kind != ast.KindSyntaxError {
					t.Errorf("%s: expected a syntax error node, got %s", name, body.Kind)
				}
			}
		})
	}
}

func TestCompileRecoversFromParseErrors(t *testing.T) {
	unit, eh := compile(t, "let = 3; let b = 1; extern : Int; let c = b * 2;", nil)

	if got := len(eh.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", got, eh.Errors())
	}
	if got := len(unit.Stmts); got != 2 {
		t.Fatalf("expected 2 statements, got %d", got)
	}

	c := binding(t, unit, "c")
	if got := c.Def.Type.Name(); got != "Int" {
		t.Errorf("expected Int, got %s", got)
	}
}

func TestCompileOperatorOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Operators = map[string]int{"+": 70}

	unit, eh := compile(t, "let a = 1 + 2 * 3;", cfg)
	if eh.HasErrors() {
		t.Fatalf("unexpected errors: %v", eh.Errors())
	}

	body := unit.Arena.MustGet(binding(t, unit, "a").Value)
	callee := unit.Arena.MustGet(body.CallPayload().Callee)
	def, _ := callee.Definition()
	if def.Name != "*" {
		t.Errorf("expected * at the root, got %s", def.Name)
	}
}

func TestCompileRejectsBadOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Operators = map[string]int{"??": 3}

	eh := compiler_errors.NewErrorHandler(io.Discard, compiler_errors.ColorNever)
	_, err := Compile("test.maps", []byte("let a = 1;"), cfg, eh, nil)

	var unknown *builtins.UnknownOperatorError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected an unknown operator error, got %v", err)
	}
}

func TestCompileLogsPhases(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eh := compiler_errors.NewErrorHandler(io.Discard, compiler_errors.ColorNever)
	if _, err := Compile("test.maps", []byte("let a = 1;"), nil, eh, logger); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for _, phase := range []string{"lex", "parse", "names", "terms", "concretize"} {
		if !strings.Contains(buf.String(), "phase="+phase) {
			t.Errorf("missing log line for phase %s:\n%s", phase, buf.String())
		}
	}
	if !strings.Contains(buf.String(), "binding=a") {
		t.Errorf("missing binding log line:\n%s", buf.String())
	}
}
