package types

import "strings"

type FunctionType struct {
	Params []Type
	Return Type
	Pure   bool
}

func NewFunctionType(returnType Type, pure bool, params ...Type) *FunctionType {
	return &FunctionType{
		Params: params,
		Return: returnType,
		Pure:   pure,
	}
}

func (f *FunctionType) Name() string {
	parts := make([]string, 0, len(f.Params)+1)
	for _, param := range f.Params {
		name := param.Name()
		if param.IsFunction() {
			name = "(" + name + ")"
		}
		parts = append(parts, name)
	}

	returnName := "Void"
	if f.Return != nil {
		returnName = f.Return.Name()
	}
	if len(parts) == 0 {
		return "-> " + returnName
	}
	parts = append(parts, returnName)

	return strings.Join(parts, " -> ")
}

func (f *FunctionType) SameAs(t Type) bool {
	other, ok := t.(*FunctionType)
	if !ok || len(f.Params) != len(other.Params) {
		return false
	}

	for i := range f.Params {
		if !f.Params[i].SameAs(other.Params[i]) {
			return false
		}
	}

	return f.Return.SameAs(other.Return)
}

func (f *FunctionType) Arity() int {
	return len(f.Params)
}

func (*FunctionType) IsFunction() bool {
	return true
}

func (f *FunctionType) ParamType(i int) Type {
	if i < 0 || i >= len(f.Params) {
		return nil
	}
	return f.Params[i]
}

func (f *FunctionType) ReturnType() Type {
	return f.Return
}

func (f *FunctionType) IsConcrete() bool {
	for _, param := range f.Params {
		if !param.IsConcrete() {
			return false
		}
	}
	return f.Return.IsConcrete()
}

func (*FunctionType) IsUnknown() bool {
	return false
}

func (*FunctionType) CastTo(Type, Castable) bool {
	return false
}
