package term_resolver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/call_coercion"
	"github.com/mekelius/maps-sub000/internal/types"
)

type fixture struct {
	arena    *ast.Arena
	resolver *Resolver
	defs     map[string]*ast.Definition
}

func operatorDef(name string, fixity ast.Fixity, precedence int, t types.Type) *ast.Definition {
	return &ast.Definition{
		Name:     name,
		Kind:     ast.DefinitionBuiltin,
		Type:     t,
		Operator: &ast.OperatorInfo{Fixity: fixity, Precedence: precedence},
	}
}

func newFixture() *fixture {
	arith := func() types.Type { return types.NewFunctionType(types.Number, true, types.Number, types.Number) }
	intOp := types.NewFunctionType(types.Int, true, types.Int)

	defs := map[string]*ast.Definition{
		"+":  operatorDef("+", ast.FixityBinary, 50, arith()),
		"*":  operatorDef("*", ast.FixityBinary, 60, arith()),
		"++": operatorDef("++", ast.FixityPostfix, 90, intOp),
		"~":  operatorDef("~", ast.FixityPrefix, 90, intOp),

		"f":  {Name: "f", Kind: ast.DefinitionExtern, Type: types.NewFunctionType(types.Int, false, types.Int, types.Int)},
		"n":  {Name: "n", Kind: ast.DefinitionLet, Type: types.Int},
		"pi": {Name: "pi", Kind: ast.DefinitionBuiltin, Type: types.Float, Constant: &ast.KnownValue{Value: 3.14}},
		"later": {
			Name: "later",
			Kind: ast.DefinitionLet,
			Type: types.Unknown,
			Deduce: func() (types.Type, error) {
				return types.Int, nil
			},
		},
		"now": {Name: "now", Kind: ast.DefinitionExtern, Type: types.NewFunctionType(types.Int, false)},
	}

	unary := operatorDef("-", ast.FixityPrefix, 90, types.NewFunctionType(types.Number, true, types.Number))
	binary := operatorDef("-", ast.FixityBinary, 50, arith())

	arena := ast.NewArena()
	return &fixture{
		arena:    arena,
		resolver: NewResolver(arena, unary, binary),
		defs:     defs,
	}
}

func (f *fixture) loc() ast.Location {
	return ast.Location{FileName: "test.maps", Line: 1, Column: f.arena.Len() + 1, Length: 1}
}

// term builds a term from its source spelling.
func (f *fixture) term(text string) ast.Handle {
	switch {
	case text == "-":
		return f.arena.Alloc(ast.NewMinusSign(f.loc()))
	case strings.HasPrefix(text, "\""):
		return f.arena.Alloc(ast.NewStringLiteral(strings.Trim(text, "\""), f.loc()))
	case text[0] >= '0' && text[0] <= '9':
		return f.arena.Alloc(ast.NewNumberLiteral(text, f.loc()))
	}

	def, ok := f.defs[text]
	if !ok {
		return f.arena.Alloc(ast.NewIdentifier(text, f.loc()))
	}
	if def.IsOperator() {
		return f.arena.Alloc(ast.NewOperatorReference(def, f.loc()))
	}
	return f.arena.Alloc(ast.NewReference(def, f.loc()))
}

func (f *fixture) typeRef(t types.Type) ast.Handle {
	return f.arena.Alloc(ast.NewTypeReference(t, f.loc()))
}

func (f *fixture) list(terms ...any) ast.Handle {
	handles := make([]ast.Handle, 0, len(terms))
	for _, term := range terms {
		switch v := term.(type) {
		case string:
			handles = append(handles, f.term(v))
		case ast.Handle:
			handles = append(handles, v)
		case types.Type:
			handles = append(handles, f.typeRef(v))
		default:
			panic(fmt.Sprintf("unexpected term %T", term))
		}
	}
	return f.arena.Alloc(ast.NewTermList(handles, f.loc()))
}

func (f *fixture) parse(text string) ast.Handle {
	terms := make([]any, 0)
	for _, field := range strings.Fields(text) {
		terms = append(terms, field)
	}
	return f.list(terms...)
}

// render prints a resolved tree in prefix form, "_" for missing arguments.
func render(arena *ast.Arena, h ast.Handle) string {
	expr := arena.MustGet(h)

	switch expr.Kind {
	case ast.KindNumberLiteral, ast.KindStringLiteral:
		text, _ := expr.ConstantText()
		return text
	case ast.KindKnownValue:
		value, _ := expr.ConstantValue()
		return fmt.Sprint(value)
	case ast.KindMissingArgument:
		return "_"
	case ast.KindReference, ast.KindKnownValueReference,
		ast.KindBinaryOperatorReference, ast.KindPrefixOperatorReference, ast.KindPostfixOperatorReference:
		def, _ := expr.Definition()
		return def.Name
	case ast.KindCall, ast.KindPartialCall,
		ast.KindPartialBinopCallLeft, ast.KindPartialBinopCallRight, ast.KindPartialBinopCallBoth:
		call := expr.CallPayload()
		parts := []string{render(arena, call.Callee)}
		for _, arg := range call.Args {
			parts = append(parts, render(arena, arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return "<" + expr.Kind.String() + ">"
}

func TestResolveShapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		kind     ast.ExprKind
	}{
		{"higher precedence on the right", "1 + 2 * 3", "(+ 1 (* 2 3))", ast.KindCall},
		{"higher precedence on the left", "1 * 2 + 3", "(+ (* 1 2) 3)", ast.KindCall},
		{"equal precedence is left associative", "1 + 2 + 3", "(+ (+ 1 2) 3)", ast.KindCall},
		{"binary minus is left associative", "1 - 2 - 3", "(- (- 1 2) 3)", ast.KindCall},
		{"minus after operand mixes with plus", "1 + 2 - 3", "(- (+ 1 2) 3)", ast.KindCall},
		{"multiplication binds inside subtraction", "1 - 2 * 3", "(- 1 (* 2 3))", ast.KindCall},
		{"single literal", "42", "42", ast.KindNumberLiteral},
		{"single reference", "n", "n", ast.KindReference},
		{"trailing operator", "1 +", "(+ 1 _)", ast.KindPartialBinopCallRight},
		{"leading operator", "+ 1", "(+ _ 1)", ast.KindPartialBinopCallLeft},
		{"lone operator", "*", "*", ast.KindBinaryOperatorReference},
		{"leading operator with tail", "+ 2 * 3", "(+ _ (* 2 3))", ast.KindPartialBinopCallLeft},
		{"full application", "f 1 2", "(f 1 2)", ast.KindCall},
		{"partial application", "f 1", "(f 1 _)", ast.KindPartialCall},
		{"application binds tighter than operators", "f 1 2 + n", "(+ (f 1 2) n)", ast.KindCall},
		{"unary minus before an operator", "- 5 + 1", "(+ (- 5) 1)", ast.KindCall},
		{"unary minus after an operator", "2 * - 3", "(* 2 (- 3))", ast.KindCall},
		{"postfix operator", "n ++ + 1", "(+ (++ n) 1)", ast.KindCall},
		{"prefix operator", "~ n * 2", "(* (~ n) 2)", ast.KindCall},
		{"constant reference is inlined", "pi", "3.14", ast.KindKnownValue},
		{"deduced reference", "later + 1", "(+ later 1)", ast.KindCall},
		{"nullary function is called", "now", "(now)", ast.KindCall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			h := f.parse(tt.input)

			if err := f.resolver.Resolve(h, Context{}); err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.input, err)
			}

			if got := render(f.arena, h); got != tt.expected {
				t.Errorf("Resolve(%q) = %s, want %s", tt.input, got, tt.expected)
			}
			if kind := f.arena.MustGet(h).Kind; kind != tt.kind {
				t.Errorf("Resolve(%q) kind = %s, want %s", tt.input, kind, tt.kind)
			}
		})
	}
}

func TestResolveTypes(t *testing.T) {
	f := newFixture()

	partial := f.parse("1 +")
	if err := f.resolver.Resolve(partial, Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := f.arena.MustGet(partial).Type.Name(); got != "Number -> Number" {
		t.Errorf("partial call type = %s, want Number -> Number", got)
	}

	full := f.parse("f 1 2")
	if err := f.resolver.Resolve(full, Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !f.arena.MustGet(full).Type.SameAs(types.Int) {
		t.Errorf("full call type = %s, want Int", f.arena.MustGet(full).Type.Name())
	}
	for _, arg := range f.arena.MustGet(full).CallPayload().Args {
		argExpr := f.arena.MustGet(arg)
		if argExpr.Kind != ast.KindKnownValue || !argExpr.Type.SameAs(types.Int) {
			t.Errorf("argument %s of type %s, want an Int known value", argExpr.Kind, argExpr.Type.Name())
		}
	}

	curried := f.parse("f 1")
	if err := f.resolver.Resolve(curried, Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := f.arena.MustGet(curried).Type.Name(); got != "Int -> Int" {
		t.Errorf("partial application type = %s, want Int -> Int", got)
	}
}

func TestResolveTypeDeclaration(t *testing.T) {
	t.Run("literal becomes a known value", func(t *testing.T) {
		f := newFixture()
		h := f.list(types.Int, "32")

		if err := f.resolver.Resolve(h, Context{}); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		expr := f.arena.MustGet(h)
		if expr.Kind != ast.KindKnownValue {
			t.Fatalf("kind = %s, want known value", expr.Kind)
		}
		if value, _ := expr.ConstantValue(); value != int64(32) {
			t.Errorf("value = %#v, want int64(32)", value)
		}
		if !expr.Type.SameAs(types.Int) {
			t.Errorf("type = %s, want Int", expr.Type.Name())
		}
	})

	t.Run("declaration covers the whole expression", func(t *testing.T) {
		f := newFixture()
		h := f.list(types.Float, "23", "+", "987")

		if err := f.resolver.Resolve(h, Context{}); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		expr := f.arena.MustGet(h)
		if expr.Kind != ast.KindCall {
			t.Fatalf("kind = %s, want call", expr.Kind)
		}
		if !expr.Type.SameAs(types.Float) {
			t.Errorf("type = %s, want Float", expr.Type.Name())
		}
		if expr.DeclaredType == nil || !expr.DeclaredType.SameAs(types.Float) {
			t.Errorf("declared type = %s, want Float", ast.TypeName(expr.DeclaredType))
		}
	})

	t.Run("inner declaration covers one operand", func(t *testing.T) {
		f := newFixture()
		h := f.list("1", "+", types.Float, "2")

		if err := f.resolver.Resolve(h, Context{}); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}

		call := f.arena.MustGet(h).CallPayload()
		lhs := f.arena.MustGet(call.Args[0])
		rhs := f.arena.MustGet(call.Args[1])
		if lhs.Kind != ast.KindNumberLiteral {
			t.Errorf("left operand kind = %s, want number literal", lhs.Kind)
		}
		if rhs.Kind != ast.KindKnownValue || !rhs.Type.SameAs(types.Float) {
			t.Errorf("right operand = %s of type %s, want a Float known value", rhs.Kind, rhs.Type.Name())
		}
	})

	t.Run("impossible cast", func(t *testing.T) {
		f := newFixture()
		h := f.list(types.Int, "\"hello\"")

		err := f.resolver.Resolve(h, Context{})
		var uncastable *call_coercion.UncastableError
		if !errors.As(err, &uncastable) {
			t.Fatalf("Resolve error = %v, want UncastableError", err)
		}
		if kind := f.arena.MustGet(h).Kind; kind != ast.KindSyntaxError {
			t.Errorf("kind = %s, want syntax error", kind)
		}
	})
}

func TestResolveMinus(t *testing.T) {
	tests := []struct {
		name     string
		declared types.Type
		expected string
		kind     ast.ExprKind
	}{
		{"value declaration", types.Int, "(- 5)", ast.KindCall},
		{"unary function declaration", types.NewFunctionType(types.Int, true, types.Int), "(- 5)", ast.KindCall},
		{"binary function declaration", types.NewFunctionType(types.Int, true, types.Int, types.Int), "(- _ 5)", ast.KindPartialBinopCallLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			h := f.parse("- 5")

			if err := f.resolver.Resolve(h, Context{DeclaredType: tt.declared}); err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := render(f.arena, h); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
			if kind := f.arena.MustGet(h).Kind; kind != tt.kind {
				t.Errorf("kind = %s, want %s", kind, tt.kind)
			}
		})
	}

	t.Run("leading declaration picks binary minus", func(t *testing.T) {
		f := newFixture()
		h := f.list(types.NewFunctionType(types.Int, true, types.Int, types.Int), "-", "5")

		if err := f.resolver.Resolve(h, Context{}); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if got := render(f.arena, h); got != "(- _ 5)" {
			t.Errorf("got %s, want (- _ 5)", got)
		}
	})

	t.Run("without declaration", func(t *testing.T) {
		f := newFixture()
		h := f.parse("- 5")

		err := f.resolver.Resolve(h, Context{})
		var ambiguous *AmbiguousMinusError
		if !errors.As(err, &ambiguous) {
			t.Fatalf("Resolve error = %v, want AmbiguousMinusError", err)
		}
	})

	t.Run("lone minus is the unary operator", func(t *testing.T) {
		f := newFixture()
		h := f.parse("-")

		if err := f.resolver.Resolve(h, Context{}); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if kind := f.arena.MustGet(h).Kind; kind != ast.KindPrefixOperatorReference {
			t.Errorf("kind = %s, want prefix operator reference", kind)
		}
	})

	t.Run("minus with postfix", func(t *testing.T) {
		f := newFixture()
		h := f.parse("- n ++")

		err := f.resolver.Resolve(h, Context{DeclaredType: types.Int})
		var unsupported *UnsupportedError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Resolve error = %v, want UnsupportedError", err)
		}
	})
}

func TestResolveNestedTermList(t *testing.T) {
	f := newFixture()
	inner := f.parse("1 + 2")
	h := f.list(inner, "*", "3")

	if err := f.resolver.Resolve(h, Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := render(f.arena, h); got != "(* (+ 1 2) 3)" {
		t.Errorf("got %s, want (* (+ 1 2) 3)", got)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"three literals", "1 2 3", func(err error) bool {
			var target *UnexpectedTermError
			return errors.As(err, &target)
		}},
		{"two operators", "1 + * 2", func(err error) bool {
			var target *UnexpectedTermError
			return errors.As(err, &target)
		}},
		{"too many arguments", "f 1 2 3", func(err error) bool {
			var target *call_coercion.ArityMismatchError
			return errors.As(err, &target)
		}},
		{"unresolved identifier", "x + 1", func(err error) bool {
			return errors.Is(err, ErrLogic)
		}},
		{"empty", "", func(err error) bool {
			var target *EmptyExpressionError
			return errors.As(err, &target)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			h := f.parse(tt.input)

			err := f.resolver.Resolve(h, Context{})
			if err == nil {
				t.Fatalf("Resolve(%q) succeeded, want an error", tt.input)
			}
			if !tt.check(err) {
				t.Errorf("Resolve(%q) returned unexpected error %T: %v", tt.input, err, err)
			}

			expr := f.arena.MustGet(h)
			if expr.Kind != ast.KindSyntaxError {
				t.Errorf("node kind = %s, want syntax error", expr.Kind)
			}
		})
	}
}

func TestResolveLeavesOtherNodesAlone(t *testing.T) {
	f := newFixture()
	h := f.term("7")

	if err := f.resolver.Resolve(h, Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if kind := f.arena.MustGet(h).Kind; kind != ast.KindNumberLiteral {
		t.Errorf("kind = %s, want number literal", kind)
	}
}

func TestResolveTrace(t *testing.T) {
	f := newFixture()

	var states []State
	f.resolver.Trace = func(step StepTrace) {
		states = append(states, step.To)
		if len(step.PrecedenceStack) == 0 || step.PrecedenceStack[0] != MinPrecedence {
			t.Errorf("precedence stack lost its floor: %v", step.PrecedenceStack)
		}
	}

	if err := f.resolver.Resolve(f.parse("1 + 2"), Context{}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if len(states) == 0 || states[len(states)-1] != StateDone {
		t.Errorf("trace = %v, want it to end in %s", states, StateDone)
	}
}
