package types

type FloatType struct {
	valueType
}

func (*FloatType) Name() string {
	return "Float"
}

func (*FloatType) SameAs(t Type) bool {
	_, ok := t.(*FloatType)
	return ok
}

func (*FloatType) IsConcrete() bool {
	return true
}

func (f *FloatType) CastTo(target Type, expr Castable) bool {
	if !expr.IsConstant() {
		return false
	}

	if f.SameAs(target) {
		return true
	}

	value, ok := expr.ConstantValue()
	if !ok {
		return false
	}
	floatValue, ok := value.(float64)
	if !ok {
		return false
	}

	switch target.(type) {
	case *IntType:
		intValue, ok := floatToInt(floatValue)
		if !ok {
			return false
		}
		expr.BecomeKnown(intValue, Int)
		return true
	}

	return false
}
