package ast

import "strings"

// TypeNode is a type as written in the source, before name resolution.
type TypeNode interface {
	TypeNode()
	TypeName() string
}

type IdentTypeNode struct {
	Name string
	Location
}

type FunctionTypeNode struct {
	Params []TypeNode
	Return TypeNode
	Location
}

func (*IdentTypeNode) TypeNode()    {}
func (*FunctionTypeNode) TypeNode() {}

func (t *IdentTypeNode) TypeName() string {
	return t.Name
}

func (t *FunctionTypeNode) TypeName() string {
	parts := make([]string, 0, len(t.Params)+1)
	for _, param := range t.Params {
		name := param.TypeName()
		if _, ok := param.(*FunctionTypeNode); ok {
			name = "(" + name + ")"
		}
		parts = append(parts, name)
	}
	parts = append(parts, t.Return.TypeName())

	return strings.Join(parts, " -> ")
}
