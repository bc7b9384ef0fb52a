package name_resolver

import (
	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/types"
)

type TypeResolver struct {
	builtinTypesMap map[string]types.Type
}

func NewTypeResolver(builtinTypes map[string]types.Type) *TypeResolver {
	tr := &TypeResolver{
		builtinTypesMap: make(map[string]types.Type, len(builtinTypes)),
	}
	for name, t := range builtinTypes {
		tr.builtinTypesMap[name] = t
	}
	return tr
}

func (tr *TypeResolver) GetBuiltInType(name string) (types.Type, bool) {
	t, ok := tr.builtinTypesMap[name]
	return t, ok
}

func (tr *TypeResolver) IsBuiltInType(name string) bool {
	_, ok := tr.builtinTypesMap[name]
	return ok
}

// GetType resolves a written type. The failing name is returned when a part
// of it is not a known type.
func (tr *TypeResolver) GetType(astType ast.TypeNode) (types.Type, *ast.IdentTypeNode) {
	switch node := astType.(type) {
	case *ast.IdentTypeNode:
		t, ok := tr.builtinTypesMap[node.Name]
		if !ok {
			return nil, node
		}
		return t, nil

	case *ast.FunctionTypeNode:
		params := make([]types.Type, 0, len(node.Params))
		for _, param := range node.Params {
			paramType, failed := tr.GetType(param)
			if failed != nil {
				return nil, failed
			}
			params = append(params, paramType)
		}

		returnType, failed := tr.GetType(node.Return)
		if failed != nil {
			return nil, failed
		}
		return types.NewFunctionType(returnType, false, params...), nil
	}

	panic("unknown type node")
}
