package ast

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/types"
)

type Fixity int

const (
	FixityBinary Fixity = iota
	FixityPrefix
	FixityPostfix
)

func (f Fixity) String() string {
	switch f {
	case FixityBinary:
		return "infix"
	case FixityPrefix:
		return "prefix"
	case FixityPostfix:
		return "postfix"
	default:
		panic(fmt.Sprintf("Fixity.String(): received illegal fixity: %d", f))
	}
}

type OperatorInfo struct {
	Fixity     Fixity
	Precedence int
}

type DefinitionKind int

const (
	DefinitionLet DefinitionKind = iota
	DefinitionExtern
	DefinitionBuiltin
)

// Definition is a named entity: a let binding, an extern or a builtin.
type Definition struct {
	Name     string
	Kind     DefinitionKind
	Location Location

	Type     types.Type
	Operator *OperatorInfo

	// Constant is set for definitions whose value is known at compile time.
	Constant *KnownValue

	// Body is the bound expression of a let.
	Body Handle

	// Deduce is called when a reference to this definition is found with an
	// unknown type.
	Deduce func() (types.Type, error)
}

func (d *Definition) IsOperator() bool {
	return d.Operator != nil
}

type DeductionError struct {
	Name     string
	Location Location
}

func (e *DeductionError) Error() string {
	return fmt.Sprintf("%s: cannot deduce the type of '%s'", e.Location, e.Name)
}

func (e *DeductionError) GetMessage() string {
	return fmt.Sprintf("cannot deduce the type of '%s'", e.Name)
}
func (e *DeductionError) GetFileName() string { return e.Location.FileName }
func (e *DeductionError) GetLine() int        { return e.Location.Line }
func (e *DeductionError) GetColumn() int      { return e.Location.Column }
func (e *DeductionError) GetLength() int      { return e.Location.Length }

// DeduceType returns the definition's type, running the deduction hook when
// the type is still unknown.
func (d *Definition) DeduceType() (types.Type, error) {
	if d.Type != nil && !d.Type.IsUnknown() {
		return d.Type, nil
	}

	if d.Deduce == nil {
		return nil, &DeductionError{Name: d.Name, Location: d.Location}
	}

	t, err := d.Deduce()
	if err != nil {
		return nil, err
	}
	if t == nil || t.IsUnknown() {
		return nil, &DeductionError{Name: d.Name, Location: d.Location}
	}

	d.Type = t
	return t, nil
}
