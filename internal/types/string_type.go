package types

type StringType struct {
	valueType
}

func (*StringType) Name() string {
	return "String"
}

func (*StringType) SameAs(t Type) bool {
	_, ok := t.(*StringType)
	return ok
}

func (*StringType) IsConcrete() bool {
	return true
}

func (s *StringType) CastTo(target Type, expr Castable) bool {
	return expr.IsConstant() && s.SameAs(target)
}
