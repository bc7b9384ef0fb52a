package lexer

import (
	"io"
	"testing"

	"github.com/mekelius/maps-sub000/internal/compiler_errors"
)

func tokenize(t *testing.T, source string) ([]Token, compiler_errors.ErrorHandler) {
	t.Helper()

	eh := compiler_errors.NewErrorHandler(io.Discard, compiler_errors.ColorNever)
	return NewLexer("test.maps", []byte(source), eh).Tokenize(), eh
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name:     "let with type",
			source:   `let x: Int = 1.5 + "s";`,
			expected: []string{"LET()", "IDENT(x)", "COLON()", "IDENT(Int)", "ASSIGN()", "FLOAT(1.5)", "OPERATOR(+)", "STRING(s)", "SEMICOLON()", "EOF()"},
		},
		{
			name:     "extern operator",
			source:   "extern operator <+> infix 45 : Int -> Int;",
			expected: []string{"EXTERN()", "OPERATOR_KW()", "OPERATOR(<+>)", "IDENT(infix)", "INT(45)", "COLON()", "IDENT(Int)", "ARROW()", "IDENT(Int)", "SEMICOLON()", "EOF()"},
		},
		{
			name:     "minus without spaces",
			source:   "1-2",
			expected: []string{"INT(1)", "OPERATOR(-)", "INT(2)", "EOF()"},
		},
		{
			name:     "operator runs",
			source:   "a++ <> !b",
			expected: []string{"IDENT(a)", "OPERATOR(++)", "OPERATOR(<>)", "OPERATOR(!)", "IDENT(b)", "EOF()"},
		},
		{
			name:     "booleans and primes",
			source:   "true false x' (y)",
			expected: []string{"BOOL(true)", "BOOL(false)", "IDENT(x')", "LPAREN()", "IDENT(y)", "RPAREN()", "EOF()"},
		},
		{
			name:     "comment",
			source:   "1 # one\n2",
			expected: []string{"INT(1)", "ONELINE_COMMENT()", "INT(2)", "EOF()"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, eh := tokenize(t, tt.source)
			if eh.HasErrors() {
				t.Fatalf("unexpected errors: %v", eh.Errors())
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, want := range tt.expected {
				if got := tokens[i].String(); got != want {
					t.Errorf("token %d: expected %s, got %s", i, want, got)
				}
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, _ := tokenize(t, "let a = 1;\n  let bb = 2;")

	second := tokens[5]
	if second.Kind != LET {
		t.Fatalf("expected LET, got %s", second.Kind)
	}
	if second.Metadata.Line != 2 || second.Metadata.Column != 3 {
		t.Errorf("expected 2:3, got %d:%d", second.Metadata.Line, second.Metadata.Column)
	}

	name := tokens[6]
	if name.Metadata.Length != 2 || name.Metadata.FileName != "test.maps" {
		t.Errorf("unexpected metadata %+v", name.Metadata)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		errors int
	}{
		{"unterminated string", `let s = "abc`, 1},
		{"string broken by newline", "let s = \"abc\nlet t = 1;", 1},
		{"unexpected character", "let a = 1 . 2;", 1},
		{"trailing dot", "let a = 1.;", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, eh := tokenize(t, tt.source)

			if got := len(eh.Errors()); got != tt.errors {
				t.Errorf("expected %d errors, got %d: %v", tt.errors, got, eh.Errors())
			}
			if tokens[len(tokens)-1].Kind != EOF {
				t.Errorf("token stream does not end with EOF")
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tokens, _ := tokenize(t, "# header\nlet a = 1; # trailing")
	sanitized := Sanitize(tokens)

	for _, token := range sanitized {
		if token.Kind == ONELINE_COMMENT {
			t.Fatalf("comment survived sanitizing: %v", sanitized)
		}
	}
	if got := len(sanitized); got != 6 {
		t.Errorf("expected 6 tokens, got %d: %v", got, sanitized)
	}
}

func TestTokenScannerStopsAtEOF(t *testing.T) {
	tokens, _ := tokenize(t, "a")
	scanner := NewTokenScanner(tokens)

	if !scanner.HasTokens() {
		t.Fatal("expected tokens")
	}
	if got := scanner.Read(); got.Kind != IDENT {
		t.Fatalf("expected IDENT, got %s", got.Kind)
	}

	for i := 0; i < 3; i++ {
		if got := scanner.Read(); got.Kind != EOF {
			t.Fatalf("read %d: expected EOF, got %s", i, got.Kind)
		}
	}
	if scanner.HasTokens() {
		t.Error("expected no tokens after EOF")
	}
	if got := scanner.Peek(); got.Kind != EOF {
		t.Errorf("expected Peek to return EOF, got %s", got.Kind)
	}
}
