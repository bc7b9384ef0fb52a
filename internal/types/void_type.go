package types

type VoidType struct {
	valueType
}

func (*VoidType) Name() string {
	return "Void"
}

func (*VoidType) SameAs(t Type) bool {
	_, ok := t.(*VoidType)
	return ok
}

func (*VoidType) IsConcrete() bool {
	return true
}

func (*VoidType) CastTo(Type, Castable) bool {
	return false
}
