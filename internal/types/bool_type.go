package types

type BoolType struct {
	valueType
}

func (*BoolType) Name() string {
	return "Bool"
}

func (*BoolType) SameAs(t Type) bool {
	_, ok := t.(*BoolType)
	return ok
}

func (*BoolType) IsConcrete() bool {
	return true
}

func (b *BoolType) CastTo(target Type, expr Castable) bool {
	return expr.IsConstant() && b.SameAs(target)
}
