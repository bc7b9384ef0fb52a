package types

import "strconv"

// NumberLiteralType is the type of a numeric literal whose text has not been
// converted yet.
type NumberLiteralType struct {
	valueType
}

func (*NumberLiteralType) Name() string {
	return "NumberLiteral"
}

func (*NumberLiteralType) SameAs(t Type) bool {
	_, ok := t.(*NumberLiteralType)
	return ok
}

func (*NumberLiteralType) IsConcrete() bool {
	return false
}

func (*NumberLiteralType) CastTo(target Type, expr Castable) bool {
	text, ok := expr.ConstantText()
	if !ok {
		return false
	}

	switch target.(type) {
	case *NumberLiteralType, *NumberType:
		return true
	case *IntType:
		value, ok := parseIntLiteral(text)
		if !ok {
			return false
		}
		expr.BecomeKnown(value, Int)
		return true
	case *FloatType:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return false
		}
		expr.BecomeKnown(value, Float)
		return true
	}

	return false
}

// StringLiteralType is the type of a string literal that has not been
// converted yet.
type StringLiteralType struct {
	valueType
}

func (*StringLiteralType) Name() string {
	return "StringLiteral"
}

func (*StringLiteralType) SameAs(t Type) bool {
	_, ok := t.(*StringLiteralType)
	return ok
}

func (*StringLiteralType) IsConcrete() bool {
	return false
}

func (*StringLiteralType) CastTo(target Type, expr Castable) bool {
	text, ok := expr.ConstantText()
	if !ok {
		return false
	}

	switch target.(type) {
	case *StringLiteralType:
		return true
	case *StringType:
		expr.BecomeKnown(text, String)
		return true
	}

	return false
}
