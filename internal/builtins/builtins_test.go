package builtins

import (
	"errors"
	"testing"

	"github.com/mekelius/maps-sub000/internal/ast"
)

func TestDefaultPrecedences(t *testing.T) {
	b, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		operator   string
		precedence int
	}{
		{"||", PrecedenceOr},
		{"&&", PrecedenceAnd},
		{"<=", PrecedenceComparison},
		{"<>", PrecedenceConcat},
		{"+", PrecedenceSum},
		{"*", PrecedenceProduct},
		{"%", PrecedenceProduct},
	}

	for _, tt := range tests {
		def, ok := b.Operators[tt.operator]
		if !ok {
			t.Errorf("operator %s is not defined", tt.operator)
			continue
		}
		if def.Operator.Precedence != tt.precedence {
			t.Errorf("precedence of %s = %d, want %d", tt.operator, def.Operator.Precedence, tt.precedence)
		}
	}

	if b.BinaryMinus.Operator.Precedence != b.Operators["+"].Operator.Precedence {
		t.Errorf("binary minus and plus should share a precedence")
	}
	if b.UnaryMinus.Operator.Fixity != ast.FixityPrefix {
		t.Errorf("unary minus fixity = %s, want prefix", b.UnaryMinus.Operator.Fixity)
	}
	if _, ok := b.Operators[MinusName]; ok {
		t.Errorf("minus must not be in the operator table")
	}
}

func TestPrecedenceOverrides(t *testing.T) {
	b, err := New(map[string]int{"+": 70, "-": 65})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := b.Operators["+"].Operator.Precedence; got != 70 {
		t.Errorf("precedence of + = %d, want 70", got)
	}
	if got := b.BinaryMinus.Operator.Precedence; got != 65 {
		t.Errorf("precedence of - = %d, want 65", got)
	}

	other, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := other.Operators["+"].Operator.Precedence; got != PrecedenceSum {
		t.Errorf("overrides leaked into another prelude: + = %d", got)
	}
}

func TestInvalidOverrides(t *testing.T) {
	_, err := New(map[string]int{"+++": 10})
	var unknown *UnknownOperatorError
	if !errors.As(err, &unknown) {
		t.Errorf("New with unknown operator returned %v, want UnknownOperatorError", err)
	}

	_, err = New(map[string]int{"!": 10})
	if !errors.As(err, &unknown) {
		t.Errorf("New with prefix operator returned %v, want UnknownOperatorError", err)
	}

	_, err = New(map[string]int{"+": 0})
	var invalid *InvalidPrecedenceError
	if !errors.As(err, &invalid) {
		t.Errorf("New with zero precedence returned %v, want InvalidPrecedenceError", err)
	}
}

func TestConstants(t *testing.T) {
	b, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{"pi", "e", "maxInt"} {
		def, ok := b.Values[name]
		if !ok || def.Constant == nil {
			t.Errorf("%s should be a constant", name)
		}
	}
	if b.Values["abs"].Constant != nil {
		t.Errorf("abs should not be a constant")
	}
}
