package ast

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/types"
)

type ExprKind int

const (
	KindStringLiteral ExprKind = iota
	KindNumberLiteral
	KindKnownValue

	KindIdentifier
	KindReference
	KindKnownValueReference
	KindBinaryOperatorReference
	KindPrefixOperatorReference
	KindPostfixOperatorReference

	KindCall
	KindPartialCall
	KindPartialBinopCallLeft  // left argument missing
	KindPartialBinopCallRight // right argument missing
	KindPartialBinopCallBoth
	KindMissingArgument

	KindMinusSign
	KindPartiallyAppliedMinus

	KindTypeReference
	KindLayer2

	KindSyntaxError
	KindDeleted
)

func (k ExprKind) String() string {
	switch k {
	case KindStringLiteral:
		return "string literal"
	case KindNumberLiteral:
		return "number literal"
	case KindKnownValue:
		return "known value"
	case KindIdentifier:
		return "identifier"
	case KindReference:
		return "reference"
	case KindKnownValueReference:
		return "known value reference"
	case KindBinaryOperatorReference:
		return "binary operator reference"
	case KindPrefixOperatorReference:
		return "prefix operator reference"
	case KindPostfixOperatorReference:
		return "postfix operator reference"
	case KindCall:
		return "call"
	case KindPartialCall:
		return "partial call"
	case KindPartialBinopCallLeft:
		return "partial binop call (left missing)"
	case KindPartialBinopCallRight:
		return "partial binop call (right missing)"
	case KindPartialBinopCallBoth:
		return "partial binop call (both missing)"
	case KindMissingArgument:
		return "missing argument"
	case KindMinusSign:
		return "minus sign"
	case KindPartiallyAppliedMinus:
		return "partially applied minus"
	case KindTypeReference:
		return "type reference"
	case KindLayer2:
		return "unresolved term list"
	case KindSyntaxError:
		return "syntax error"
	case KindDeleted:
		return "deleted"
	default:
		panic(fmt.Sprintf("ExprKind.String(): received illegal kind: %d", k))
	}
}

type TriState int

const (
	TriUnknown TriState = iota
	TriFalse
	TriTrue
)

// Payload is the kind specific part of an Expression.
type Payload interface {
	payloadNode()
}

type Literal struct {
	Text string
}

// KnownValue holds an int64, float64, bool or string.
type KnownValue struct {
	Value any
}

type Identifier struct {
	Name string

	// TypeAnnotation is set when the name was written as "Name:".
	TypeAnnotation bool
}

type Reference struct {
	Def *Definition
}

type OperatorReference struct {
	Def *Definition

	Fixity     Fixity
	Precedence int
}

type Call struct {
	Callee Handle
	Args   []Handle
}

type MissingArgument struct{}

type MinusSign struct{}

type PartialMinus struct {
	Operand Handle
}

type TypeReference struct {
	Type types.Type
}

type Terms struct {
	Terms             []Handle
	IsTypeDeclaration TriState
}

type SyntaxError struct {
	Err error
}

type Deleted struct{}

func (Literal) payloadNode()           {}
func (KnownValue) payloadNode()        {}
func (Identifier) payloadNode()        {}
func (Reference) payloadNode()         {}
func (OperatorReference) payloadNode() {}
func (Call) payloadNode()              {}
func (MissingArgument) payloadNode()   {}
func (MinusSign) payloadNode()         {}
func (PartialMinus) payloadNode()      {}
func (TypeReference) payloadNode()     {}
func (Terms) payloadNode()             {}
func (SyntaxError) payloadNode()       {}
func (Deleted) payloadNode()           {}

type Expression struct {
	Kind     ExprKind
	Location Location

	Type         types.Type
	DeclaredType types.Type
	DeclaredAt   Location

	Value Payload
}

// Become overwrites e with other so that every handle to e sees the new node.
func (e *Expression) Become(other Expression) {
	*e = other
}

func (e *Expression) IsCall() bool {
	switch e.Kind {
	case KindCall, KindPartialCall, KindPartialBinopCallLeft, KindPartialBinopCallRight, KindPartialBinopCallBoth:
		return true
	}
	return false
}

func (e *Expression) IsPartialCall() bool {
	return e.IsCall() && e.Kind != KindCall
}

func (e *Expression) IsOperatorReference() bool {
	switch e.Kind {
	case KindBinaryOperatorReference, KindPrefixOperatorReference, KindPostfixOperatorReference:
		return true
	}
	return false
}

func (e *Expression) CallPayload() Call {
	call, ok := e.Value.(Call)
	if !ok {
		panic(fmt.Sprintf("expected call payload on %s", e.Kind))
	}
	return call
}

func (e *Expression) TermsPayload() Terms {
	terms, ok := e.Value.(Terms)
	if !ok {
		panic(fmt.Sprintf("expected term list payload on %s", e.Kind))
	}
	return terms
}

// Definition returns the definition a reference of any flavour points at.
func (e *Expression) Definition() (*Definition, bool) {
	switch v := e.Value.(type) {
	case Reference:
		return v.Def, v.Def != nil
	case OperatorReference:
		return v.Def, v.Def != nil
	}
	return nil, false
}

func (e *Expression) IsConstant() bool {
	switch e.Kind {
	case KindStringLiteral, KindNumberLiteral, KindKnownValue:
		return true
	}
	return false
}

func (e *Expression) ConstantText() (string, bool) {
	literal, ok := e.Value.(Literal)
	if !ok {
		return "", false
	}
	return literal.Text, true
}

func (e *Expression) ConstantValue() (any, bool) {
	known, ok := e.Value.(KnownValue)
	if !ok {
		return nil, false
	}
	return known.Value, true
}

func (e *Expression) BecomeKnown(value any, t types.Type) {
	e.Kind = KindKnownValue
	e.Value = KnownValue{Value: value}
	e.Type = t
}

// TypeName is nil safe, for messages.
func TypeName(t types.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.Name()
}

func NewNumberLiteral(text string, loc Location) Expression {
	return Expression{
		Kind:     KindNumberLiteral,
		Location: loc,
		Type:     types.NumberLiteral,
		Value:    Literal{Text: text},
	}
}

func NewStringLiteral(text string, loc Location) Expression {
	return Expression{
		Kind:     KindStringLiteral,
		Location: loc,
		Type:     types.StringLiteral,
		Value:    Literal{Text: text},
	}
}

func NewKnownValue(value any, t types.Type, loc Location) Expression {
	return Expression{
		Kind:     KindKnownValue,
		Location: loc,
		Type:     t,
		Value:    KnownValue{Value: value},
	}
}

func NewIdentifier(name string, loc Location) Expression {
	return Expression{
		Kind:     KindIdentifier,
		Location: loc,
		Type:     types.Unknown,
		Value:    Identifier{Name: name},
	}
}

func NewReference(def *Definition, loc Location) Expression {
	kind := KindReference
	if def.Constant != nil {
		kind = KindKnownValueReference
	}

	t := def.Type
	if t == nil {
		t = types.Unknown
	}

	return Expression{
		Kind:     kind,
		Location: loc,
		Type:     t,
		Value:    Reference{Def: def},
	}
}

func NewOperatorReference(def *Definition, loc Location) Expression {
	kind := KindBinaryOperatorReference
	switch def.Operator.Fixity {
	case FixityPrefix:
		kind = KindPrefixOperatorReference
	case FixityPostfix:
		kind = KindPostfixOperatorReference
	}

	return Expression{
		Kind:     kind,
		Location: loc,
		Type:     def.Type,
		Value: OperatorReference{
			Def:        def,
			Fixity:     def.Operator.Fixity,
			Precedence: def.Operator.Precedence,
		},
	}
}

func NewMissingArgument(t types.Type, loc Location) Expression {
	return Expression{
		Kind:     KindMissingArgument,
		Location: loc,
		Type:     t,
		Value:    MissingArgument{},
	}
}

func NewMinusSign(loc Location) Expression {
	return Expression{
		Kind:     KindMinusSign,
		Location: loc,
		Type:     types.Unknown,
		Value:    MinusSign{},
	}
}

func NewTypeReference(t types.Type, loc Location) Expression {
	return Expression{
		Kind:     KindTypeReference,
		Location: loc,
		Type:     t,
		Value:    TypeReference{Type: t},
	}
}

func NewTermList(terms []Handle, loc Location) Expression {
	return Expression{
		Kind:     KindLayer2,
		Location: loc,
		Type:     types.Unknown,
		Value:    Terms{Terms: terms},
	}
}

func NewSyntaxError(err error, loc Location) Expression {
	return Expression{
		Kind:     KindSyntaxError,
		Location: loc,
		Type:     types.Unknown,
		Value:    SyntaxError{Err: err},
	}
}
