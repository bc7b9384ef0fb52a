package types

import (
	"math"
	"strconv"
	"strings"
)

type IntType struct {
	valueType
}

func (*IntType) Name() string {
	return "Int"
}

func (*IntType) SameAs(t Type) bool {
	_, ok := t.(*IntType)
	return ok
}

func (*IntType) IsConcrete() bool {
	return true
}

func (i *IntType) CastTo(target Type, expr Castable) bool {
	if !expr.IsConstant() {
		return false
	}

	if i.SameAs(target) {
		return true
	}

	value, ok := expr.ConstantValue()
	if !ok {
		return false
	}
	intValue, ok := value.(int64)
	if !ok {
		return false
	}

	switch target.(type) {
	case *FloatType:
		expr.BecomeKnown(float64(intValue), Float)
		return true
	}

	return false
}

func parseIntLiteral(text string) (int64, bool) {
	if strings.ContainsAny(text, ".eE") {
		return 0, false
	}

	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func floatToInt(value float64) (int64, bool) {
	if math.Trunc(value) != value || value > math.MaxInt64 || value < math.MinInt64 {
		return 0, false
	}
	return int64(value), true
}
