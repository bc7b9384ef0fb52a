package parser

import (
	"slices"
	"strconv"

	"github.com/mekelius/maps-sub000/internal/ast"
	"github.com/mekelius/maps-sub000/internal/compiler_errors"
	"github.com/mekelius/maps-sub000/internal/lexer"
	"github.com/mekelius/maps-sub000/internal/types"
)

// ArrowName is the identifier an arrow becomes inside a parenthesised type.
const ArrowName = "->"

// bailout unwinds the parse of one top level statement after an error has
// been recorded.
type bailout struct{}

type Parser struct {
	fileName string

	scanner lexer.TokenScanner
	eh      compiler_errors.ErrorHandler
	arena   *ast.Arena

	curr *lexer.Token
}

func NewParser(fileName string, scanner lexer.TokenScanner, eh compiler_errors.ErrorHandler, arena *ast.Arena) *Parser {
	return &Parser{
		fileName: fileName,
		scanner:  scanner,
		eh:       eh,
		arena:    arena,
		curr:     scanner.Read(),
	}
}

// Parse reads every top level statement. A statement with a syntax error is
// dropped and parsing resumes after the next ';'.
func (p *Parser) Parse() ast.TranslationUnit {
	stmts := make([]ast.TopStmt, 0)
	for p.curr.Kind != lexer.EOF {
		if stmt := p.parseTopStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return ast.TranslationUnit{
		FileName: p.fileName,
		Stmts:    stmts,
		Arena:    p.arena,
	}
}

func (p *Parser) parseTopStmt() (stmt ast.TopStmt) {
	defer func() {
		if recovered := recover(); recovered != nil {
			if _, ok := recovered.(bailout); !ok {
				panic(recovered)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	switch p.curr.Kind {
	case lexer.LET:
		return p.parseLetStmt()
	case lexer.EXTERN:
		return p.parseExternStmt()
	default:
		p.unexpected(p.curr)
		return nil
	}
}

// synchronize skips to the token after the next ';', stopping early at a
// keyword that starts a statement.
func (p *Parser) synchronize() {
	for p.curr.Kind != lexer.EOF {
		switch p.curr.Kind {
		case lexer.SEMICOLON:
			p.read()
			return
		case lexer.LET, lexer.EXTERN:
			return
		}
		p.read()
	}
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	p.expect(lexer.LET)
	startToken := p.curr
	p.read()

	p.expect(lexer.IDENT)
	name := p.curr.Value
	p.read()

	var explicitType ast.TypeNode
	if p.curr.Kind == lexer.COLON {
		p.read()
		explicitType = p.parseTypeIdentifier()
	}

	p.expect(lexer.ASSIGN)
	assignToken := p.curr
	p.read()

	value := p.parseTermList(assignToken, lexer.SEMICOLON)

	p.expect(lexer.SEMICOLON)
	p.read()

	return &ast.LetStmt{
		StartToken: startToken,

		Name:         name,
		ExplicitType: explicitType,
		Value:        value,
	}
}

func (p *Parser) parseExternStmt() *ast.ExternStmt {
	p.expect(lexer.EXTERN)
	startToken := p.curr
	p.read()

	isOperator := p.curr.Kind == lexer.OPERATOR_KW
	if isOperator {
		p.read()
		p.expectAny(lexer.OPERATOR, lexer.IDENT)
	} else {
		p.expect(lexer.IDENT)
	}
	name := p.curr.Value
	p.read()

	var operator *ast.OperatorInfo
	if isOperator {
		operator = p.parseOperatorInfo()
	}

	p.expect(lexer.COLON)
	p.read()

	externType := p.parseTypeIdentifier()

	p.expect(lexer.SEMICOLON)
	p.read()

	return &ast.ExternStmt{
		StartToken: startToken,

		Name:     name,
		Type:     externType,
		Operator: operator,
	}
}

func (p *Parser) parseOperatorInfo() *ast.OperatorInfo {
	p.expect(lexer.IDENT)
	fixity := fixityOf(p.curr.Value)
	if fixity < 0 {
		p.unexpected(p.curr)
	}
	p.read()

	p.expect(lexer.INT)
	precedence, err := strconv.Atoi(p.curr.Value)
	if err != nil {
		p.eh.AddError(compiler_errors.NewLocatedError(
			"operator precedence out of range: "+p.curr.Value,
			p.fileName,
			p.curr.Metadata.Line,
			p.curr.Metadata.Column,
			p.curr.Metadata.Length,
		))
		panic(bailout{})
	}
	p.read()

	return &ast.OperatorInfo{
		Fixity:     ast.Fixity(fixity),
		Precedence: precedence,
	}
}

func fixityOf(word string) int {
	switch word {
	case "infix":
		return int(ast.FixityBinary)
	case "prefix":
		return int(ast.FixityPrefix)
	case "postfix":
		return int(ast.FixityPostfix)
	}
	return -1
}

func (p *Parser) parseBaseTypeIdentifier() ast.TypeNode {
	if p.curr.Kind == lexer.LPAREN {
		p.read()
		inner := p.parseTypeIdentifier()
		p.expect(lexer.RPAREN)
		p.read()
		return inner
	}

	p.expect(lexer.IDENT)
	typeNode := &ast.IdentTypeNode{
		Name:     p.curr.Value,
		Location: ast.LocationOf(p.curr),
	}
	p.read()

	return typeNode
}

// parseTypeIdentifier reads "A -> B -> C", "(A -> B) -> C" or "-> A".
func (p *Parser) parseTypeIdentifier() ast.TypeNode {
	location := ast.LocationOf(p.curr)

	if p.curr.Kind == lexer.ARROW {
		p.read()
		return &ast.FunctionTypeNode{
			Return:   p.parseBaseTypeIdentifier(),
			Location: location,
		}
	}

	parts := []ast.TypeNode{p.parseBaseTypeIdentifier()}
	for p.curr.Kind == lexer.ARROW {
		p.read()
		parts = append(parts, p.parseBaseTypeIdentifier())
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return &ast.FunctionTypeNode{
		Params:   parts[:len(parts)-1],
		Return:   parts[len(parts)-1],
		Location: location,
	}
}

// parseTermList collects terms up to the terminator, which is left in curr.
func (p *Parser) parseTermList(startToken *lexer.Token, terminator lexer.TokenKind) ast.Handle {
	location := ast.LocationOf(startToken)
	if p.curr.Kind != terminator && p.curr.Kind != lexer.EOF {
		location = ast.LocationOf(p.curr)
	}

	terms := make([]ast.Handle, 0)
	for p.curr.Kind != terminator {
		terms = append(terms, p.parseTerm())
	}

	return p.arena.Alloc(ast.NewTermList(terms, location))
}

func (p *Parser) parseTerm() ast.Handle {
	token := p.curr
	location := ast.LocationOf(token)

	switch token.Kind {
	case lexer.INT, lexer.FLOAT:
		p.read()
		return p.arena.Alloc(ast.NewNumberLiteral(token.Value, location))

	case lexer.STRING:
		p.read()
		return p.arena.Alloc(ast.NewStringLiteral(token.Value, location))

	case lexer.BOOL:
		p.read()
		return p.arena.Alloc(ast.NewKnownValue(token.Value == "true", types.Bool, location))

	case lexer.IDENT:
		p.read()
		identifier := ast.NewIdentifier(token.Value, location)
		if p.curr.Kind == lexer.COLON {
			p.read()
			identifier.Value = ast.Identifier{Name: token.Value, TypeAnnotation: true}
		}
		return p.arena.Alloc(identifier)

	case lexer.OPERATOR:
		p.read()
		return p.arena.Alloc(ast.NewIdentifier(token.Value, location))

	case lexer.ARROW:
		p.read()
		return p.arena.Alloc(ast.NewIdentifier(ArrowName, location))

	case lexer.LPAREN:
		return p.parseGroup()
	}

	p.unexpected(token)
	return ast.NoHandle
}

// parseGroup reads a parenthesised sub-list. A group that contains an arrow
// or is followed by ':' is a type declaration.
func (p *Parser) parseGroup() ast.Handle {
	p.expect(lexer.LPAREN)
	startToken := p.curr
	p.read()

	handle := p.parseTermList(startToken, lexer.RPAREN)
	p.expect(lexer.RPAREN)
	p.read()

	group := p.arena.MustGet(handle)
	terms := group.TermsPayload()
	group.Location = ast.LocationOf(startToken)

	terms.IsTypeDeclaration = ast.TriFalse
	if p.curr.Kind == lexer.COLON {
		p.read()
		terms.IsTypeDeclaration = ast.TriTrue
	} else if p.containsArrow(terms.Terms) {
		terms.IsTypeDeclaration = ast.TriTrue
	}
	group.Value = terms

	return handle
}

func (p *Parser) containsArrow(terms []ast.Handle) bool {
	return slices.ContainsFunc(terms, func(h ast.Handle) bool {
		expr := p.arena.MustGet(h)
		identifier, ok := expr.Value.(ast.Identifier)
		return ok && identifier.Name == ArrowName
	})
}

func (p *Parser) read() *lexer.Token {
	p.curr = p.scanner.Read()
	return p.curr
}

func (p *Parser) expect(kind lexer.TokenKind) {
	if p.curr.Kind != kind {
		p.eh.AddError(&UnexpectedExpectedError{
			Unexpected: p.curr.Kind,
			Expected:   kind,

			FileName: p.fileName,
			Line:     p.curr.Metadata.Line,
			Column:   p.curr.Metadata.Column,
			Length:   p.curr.Metadata.Length,
		})
		panic(bailout{})
	}
}

func (p *Parser) expectAny(kinds ...lexer.TokenKind) {
	found := p.isCurrAny(kinds...)
	if found {
		return
	}

	p.eh.AddError(&UnexpectedExpectedManyError{
		Unexpected: p.curr.Kind,
		Expected:   kinds,

		FileName: p.fileName,
		Line:     p.curr.Metadata.Line,
		Column:   p.curr.Metadata.Column,
		Length:   p.curr.Metadata.Length,
	})
	panic(bailout{})
}

func (p *Parser) isCurrAny(kinds ...lexer.TokenKind) bool {
	return slices.Contains(kinds, p.curr.Kind)
}

func (p *Parser) unexpected(token *lexer.Token) {
	value := ""
	if token.Kind == lexer.IDENT || token.Kind == lexer.OPERATOR {
		value = token.Value
	}

	p.eh.AddError(&UnexpectedError{
		Unexpected: token.Kind,
		Value:      value,

		FileName: p.fileName,
		Line:     token.Metadata.Line,
		Column:   token.Metadata.Column,
		Length:   token.Metadata.Length,
	})
	panic(bailout{})
}
