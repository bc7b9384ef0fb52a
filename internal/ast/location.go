package ast

import (
	"fmt"

	"github.com/mekelius/maps-sub000/internal/lexer"
)

type Location struct {
	FileName string
	Line     int
	Column   int
	Length   int
}

func LocationOf(token *lexer.Token) Location {
	if token == nil {
		return Location{}
	}

	return Location{
		FileName: token.Metadata.FileName,
		Line:     token.Metadata.Line,
		Column:   token.Metadata.Column,
		Length:   token.Metadata.Length,
	}
}

func (l Location) IsZero() bool {
	return l == Location{}
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FileName, l.Line, l.Column)
}
