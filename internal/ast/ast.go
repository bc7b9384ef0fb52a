package ast

import "github.com/mekelius/maps-sub000/internal/lexer"

type AstNode interface {
	AstNode()
	FirstToken() *lexer.Token
}

type TranslationUnit struct {
	FileName string
	Stmts    []TopStmt

	// Arena owns every expression referenced from Stmts.
	Arena *Arena
}

type Stmt interface {
	AstNode
	StmtNode()
}

type TopStmt interface {
	Stmt
	TopStmtNode()
}
