package lexer

import (
	"fmt"
)

type TokenKind int

const (
	EOF TokenKind = iota

	INT
	FLOAT
	BOOL
	STRING

	IDENT
	OPERATOR // run of operator characters, e.g. + <> ++

	ASSIGN // =
	ARROW  // ->

	LPAREN // (
	RPAREN // )

	COLON     // :
	SEMICOLON // ;

	ONELINE_COMMENT // # ...

	LET
	EXTERN
	OPERATOR_KW // operator
)

func (tk TokenKind) String() string {
	switch tk {
	case EOF:
		return "EOF"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case BOOL:
		return "BOOL"
	case STRING:
		return "STRING"
	case IDENT:
		return "IDENT"
	case OPERATOR:
		return "OPERATOR"
	case ASSIGN:
		return "ASSIGN"
	case ARROW:
		return "ARROW"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case COLON:
		return "COLON"
	case SEMICOLON:
		return "SEMICOLON"
	case ONELINE_COMMENT:
		return "ONELINE_COMMENT"
	case LET:
		return "LET"
	case EXTERN:
		return "EXTERN"
	case OPERATOR_KW:
		return "OPERATOR_KW"
	default:
		panic(fmt.Sprintf("TokenKind.String(): received illegal token kind: %d", tk))
	}
}

type TokenMetadata struct {
	FileName string
	Line     int
	Column   int
	Length   int
}

type Token struct {
	Kind  TokenKind
	Value string

	Metadata TokenMetadata
}

func (t *Token) hasActualValue() bool {
	switch t.Kind {
	case INT, FLOAT, BOOL, STRING, IDENT, OPERATOR:
		return true
	}

	return false
}

func (t *Token) String() string {
	if !t.hasActualValue() {
		return fmt.Sprintf("%s()", t.Kind)
	}

	return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
}
