package ast

import "github.com/mekelius/maps-sub000/internal/lexer"

// LetStmt binds Name to the term list in Value.
type LetStmt struct {
	StartToken *lexer.Token

	Name         string
	ExplicitType TypeNode
	Value        Handle

	Def *Definition
}

// ExternStmt declares a function or operator implemented outside the
// program.
type ExternStmt struct {
	StartToken *lexer.Token

	Name     string
	Type     TypeNode
	Operator *OperatorInfo

	Def *Definition
}

func (s *LetStmt) TopStmtNode()    {}
func (s *ExternStmt) TopStmtNode() {}

func (s *LetStmt) AstNode()    {}
func (s *ExternStmt) AstNode() {}

func (s *LetStmt) FirstToken() *lexer.Token    { return s.StartToken }
func (s *ExternStmt) FirstToken() *lexer.Token { return s.StartToken }

func (s *LetStmt) StmtNode()    {}
func (s *ExternStmt) StmtNode() {}
