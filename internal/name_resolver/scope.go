package name_resolver

import "github.com/mekelius/maps-sub000/internal/ast"

type scope struct {
	parent *scope

	values    map[string]*ast.Definition
	operators map[string]*ast.Definition
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,

		values:    make(map[string]*ast.Definition),
		operators: make(map[string]*ast.Definition),
	}
}

func (s *scope) lookupValue(name string) (*ast.Definition, bool) {
	def, ok := s.values[name]
	if ok {
		return def, true
	}

	if s.parent != nil {
		return s.parent.lookupValue(name)
	}

	return nil, false
}

func (s *scope) lookupOperator(name string) (*ast.Definition, bool) {
	def, ok := s.operators[name]
	if ok {
		return def, true
	}

	if s.parent != nil {
		return s.parent.lookupOperator(name)
	}

	return nil, false
}

// define reports false when the name is already taken in this scope.
func (s *scope) define(def *ast.Definition) bool {
	table := s.values
	if def.IsOperator() {
		table = s.operators
	}

	if _, ok := table[def.Name]; ok {
		return false
	}
	table[def.Name] = def
	return true
}
