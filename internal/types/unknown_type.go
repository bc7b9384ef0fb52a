package types

// UnknownType marks a node whose type has not been deduced yet.
type UnknownType struct {
	valueType
}

func (*UnknownType) Name() string {
	return "Unknown"
}

func (*UnknownType) SameAs(t Type) bool {
	_, ok := t.(*UnknownType)
	return ok
}

func (*UnknownType) IsConcrete() bool {
	return false
}

func (*UnknownType) IsUnknown() bool {
	return true
}

func (*UnknownType) CastTo(Type, Castable) bool {
	return false
}
