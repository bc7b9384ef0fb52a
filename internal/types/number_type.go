package types

// NumberType is the pending result of the builtin arithmetic. A call typed
// Number is instantiated to Int or Float by the concretizer.
type NumberType struct {
	valueType
}

func (*NumberType) Name() string {
	return "Number"
}

func (*NumberType) SameAs(t Type) bool {
	_, ok := t.(*NumberType)
	return ok
}

func (*NumberType) IsConcrete() bool {
	return false
}

func (*NumberType) CastTo(target Type, expr Castable) bool {
	if !expr.IsConstant() {
		return false
	}

	if text, ok := expr.ConstantText(); ok {
		return NumberLiteral.CastTo(target, &textCastable{Castable: expr, text: text})
	}

	value, ok := expr.ConstantValue()
	if !ok {
		return false
	}

	switch target.(type) {
	case *NumberType:
		return true
	case *IntType:
		switch v := value.(type) {
		case int64:
			expr.BecomeKnown(v, Int)
			return true
		case float64:
			intValue, ok := floatToInt(v)
			if !ok {
				return false
			}
			expr.BecomeKnown(intValue, Int)
			return true
		}
	case *FloatType:
		switch v := value.(type) {
		case int64:
			expr.BecomeKnown(float64(v), Float)
			return true
		case float64:
			expr.BecomeKnown(v, Float)
			return true
		}
	}

	return false
}

type textCastable struct {
	Castable
	text string
}

func (c *textCastable) ConstantText() (string, bool) {
	return c.text, true
}

// ContainsNumber reports whether t mentions the pending Number type.
func ContainsNumber(t Type) bool {
	switch v := t.(type) {
	case *NumberType:
		return true
	case *FunctionType:
		for _, param := range v.Params {
			if ContainsNumber(param) {
				return true
			}
		}
		return v.Return != nil && ContainsNumber(v.Return)
	}
	return false
}

// Instantiate replaces every Number in t with numeric. A nil numeric leaves t
// unchanged.
func Instantiate(t Type, numeric Type) Type {
	if numeric == nil || t == nil {
		return t
	}

	switch v := t.(type) {
	case *NumberType:
		return numeric
	case *FunctionType:
		if !ContainsNumber(v) {
			return v
		}
		params := make([]Type, len(v.Params))
		for i, param := range v.Params {
			params[i] = Instantiate(param, numeric)
		}
		return NewFunctionType(Instantiate(v.Return, numeric), v.Pure, params...)
	}
	return t
}
