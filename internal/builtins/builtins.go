package builtins

import (
	"fmt"
	"math"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

const (
	PrecedenceOr         = 10
	PrecedenceAnd        = 20
	PrecedenceComparison = 30
	PrecedenceConcat     = 40
	PrecedenceSum        = 50
	PrecedenceProduct    = 60
	PrecedenceUnary      = 90
)

// MinusName is how both minus operators are spelled.
const MinusName = "-"

// Builtins is the prelude every program starts from.
type Builtins struct {
	Types map[string]types.Type

	// Operators holds the binary, prefix and postfix operators by spelling.
	// The two minus operators are kept apart.
	Operators map[string]*ast.Definition
	Values    map[string]*ast.Definition

	UnaryMinus  *ast.Definition
	BinaryMinus *ast.Definition
}

type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("precedence override for unknown operator '%s'", e.Operator)
}

type InvalidPrecedenceError struct {
	Operator   string
	Precedence int
}

func (e *InvalidPrecedenceError) Error() string {
	return fmt.Sprintf("precedence of '%s' must be positive, got %d", e.Operator, e.Precedence)
}

// New builds the prelude. overrides replaces the precedence of binary
// operators by spelling.
func New(overrides map[string]int) (*Builtins, error) {
	b := &Builtins{
		Types:     make(map[string]types.Type),
		Operators: make(map[string]*ast.Definition),
		Values:    make(map[string]*ast.Definition),
	}

	b.defineTypes()
	b.defineOperators()
	b.defineValues()

	for operator, precedence := range overrides {
		if precedence <= 0 {
			return nil, &InvalidPrecedenceError{Operator: operator, Precedence: precedence}
		}

		def, ok := b.Operators[operator]
		if operator == MinusName {
			def, ok = b.BinaryMinus, true
		}
		if !ok || def.Operator.Fixity != ast.FixityBinary {
			return nil, &UnknownOperatorError{Operator: operator}
		}
		def.Operator.Precedence = precedence
	}

	return b, nil
}

func (b *Builtins) defineTypes() {
	b.Types["Int"] = types.Int
	b.Types["Float"] = types.Float
	b.Types["Bool"] = types.Bool
	b.Types["String"] = types.String
	b.Types["Void"] = types.Void
}

func (b *Builtins) defineOperators() {
	arithmetic := func() types.Type {
		return types.NewFunctionType(types.Number, true, types.Number, types.Number)
	}
	comparison := func() types.Type {
		return types.NewFunctionType(types.Bool, true, types.Number, types.Number)
	}
	logic := func() types.Type {
		return types.NewFunctionType(types.Bool, true, types.Bool, types.Bool)
	}

	b.binary("+", PrecedenceSum, arithmetic())
	b.binary("*", PrecedenceProduct, arithmetic())
	b.binary("/", PrecedenceProduct, arithmetic())
	b.binary("%", PrecedenceProduct, arithmetic())

	for _, name := range []string{"==", "!=", "<", "<=", ">", ">="} {
		b.binary(name, PrecedenceComparison, comparison())
	}

	b.binary("&&", PrecedenceAnd, logic())
	b.binary("||", PrecedenceOr, logic())
	b.binary("<>", PrecedenceConcat, types.NewFunctionType(types.String, true, types.String, types.String))

	b.operator("!", ast.FixityPrefix, PrecedenceUnary, types.NewFunctionType(types.Bool, true, types.Bool))
	b.operator("~", ast.FixityPrefix, PrecedenceUnary, types.NewFunctionType(types.Int, true, types.Int))
	b.operator("++", ast.FixityPostfix, PrecedenceUnary, types.NewFunctionType(types.Int, true, types.Int))
	b.operator("--", ast.FixityPostfix, PrecedenceUnary, types.NewFunctionType(types.Int, true, types.Int))

	b.UnaryMinus = newOperator(MinusName, ast.FixityPrefix, PrecedenceUnary, types.NewFunctionType(types.Number, true, types.Number))
	b.BinaryMinus = newOperator(MinusName, ast.FixityBinary, PrecedenceSum, arithmetic())
}

func (b *Builtins) defineValues() {
	b.function("abs", types.NewFunctionType(types.Number, true, types.Number))
	b.function("max", types.NewFunctionType(types.Number, true, types.Number, types.Number))
	b.function("min", types.NewFunctionType(types.Number, true, types.Number, types.Number))
	b.function("not", types.NewFunctionType(types.Bool, true, types.Bool))

	b.constant("pi", types.Float, math.Pi)
	b.constant("e", types.Float, math.E)
	b.constant("maxInt", types.Int, int64(math.MaxInt64))
}

func (b *Builtins) binary(name string, precedence int, t types.Type) {
	b.operator(name, ast.FixityBinary, precedence, t)
}

func (b *Builtins) operator(name string, fixity ast.Fixity, precedence int, t types.Type) {
	b.Operators[name] = newOperator(name, fixity, precedence, t)
}

func (b *Builtins) function(name string, t types.Type) {
	b.Values[name] = &ast.Definition{
		Name: name,
		Kind: ast.DefinitionBuiltin,
		Type: t,
	}
}

func (b *Builtins) constant(name string, t types.Type, value any) {
	b.Values[name] = &ast.Definition{
		Name:     name,
		Kind:     ast.DefinitionBuiltin,
		Type:     t,
		Constant: &ast.KnownValue{Value: value},
	}
}

func newOperator(name string, fixity ast.Fixity, precedence int, t types.Type) *ast.Definition {
	return &ast.Definition{
		Name:     name,
		Kind:     ast.DefinitionBuiltin,
		Type:     t,
		Operator: &ast.OperatorInfo{Fixity: fixity, Precedence: precedence},
	}
}
