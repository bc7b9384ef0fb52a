package types

// Type is the facade the front end consumes. Value types report arity 0 and
// nil parameter and return types.
type Type interface {
	Name() string
	SameAs(t Type) bool

	Arity() int
	IsFunction() bool
	ParamType(i int) Type
	ReturnType() Type

	IsConcrete() bool
	IsUnknown() bool

	// CastTo converts a constant expression to target in place. It fails for
	// anything that is not a literal or a known value.
	CastTo(target Type, expr Castable) bool
}

// Castable is the part of an expression node a cast needs to see.
type Castable interface {
	IsConstant() bool
	ConstantText() (string, bool)
	ConstantValue() (any, bool)
	BecomeKnown(value any, t Type)
}

type valueType struct{}

func (valueType) Arity() int         { return 0 }
func (valueType) IsFunction() bool   { return false }
func (valueType) ParamType(int) Type { return nil }
func (valueType) ReturnType() Type   { return nil }
func (valueType) IsUnknown() bool    { return false }

var (
	Int           Type = &IntType{}
	Float         Type = &FloatType{}
	Bool          Type = &BoolType{}
	String        Type = &StringType{}
	Void          Type = &VoidType{}
	Number        Type = &NumberType{}
	NumberLiteral Type = &NumberLiteralType{}
	StringLiteral Type = &StringLiteralType{}
	Unknown       Type = &UnknownType{}
)

// IsNumeric reports whether t is one of the concrete numeric types.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	}
	return false
}

// IsPendingNumeric reports whether t still waits for a numeric instantiation.
func IsPendingNumeric(t Type) bool {
	switch t.(type) {
	case *NumberType, *NumberLiteralType:
		return true
	}
	return false
}

// Accepts reports whether a value of type arg can fill a parameter of type
// param without a conversion. Number accepts every numeric type, function
// types are compared pairwise.
func Accepts(param Type, arg Type) bool {
	if param == nil || arg == nil {
		return false
	}

	if param.SameAs(arg) {
		return true
	}

	if _, ok := param.(*NumberType); ok {
		return IsNumeric(arg) || IsPendingNumeric(arg)
	}

	paramFunc, ok := param.(*FunctionType)
	if !ok {
		return false
	}
	argFunc, ok := arg.(*FunctionType)
	if !ok || paramFunc.Arity() != argFunc.Arity() {
		return false
	}

	for i := range paramFunc.Params {
		if !compatible(paramFunc.Params[i], argFunc.Params[i]) {
			return false
		}
	}
	return compatible(paramFunc.Return, argFunc.Return)
}

func compatible(a Type, b Type) bool {
	return Accepts(a, b) || Accepts(b, a)
}
