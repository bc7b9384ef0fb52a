package lexer

import (
	"fmt"
	"strings"

	"github.com/mekelius/maps-sub000/internal/compiler_errors"
)

type LexerError struct {
	Message string

	FileName string
	Line     int
	Column   int
}

func (l *Lexer) newUnexpectedError(unexpected byte) *LexerError {
	return &LexerError{
		Message: fmt.Sprintf("unexpected character: '%s'", string(unexpected)),

		FileName: l.fileName,
		Line:     l.line,
		Column:   l.column(),
	}
}

func (l *Lexer) newExpectedError(expected byte) *LexerError {
	return &LexerError{
		Message: fmt.Sprintf("expected '%s'", string(expected)),

		FileName: l.fileName,
		Line:     l.line,
		Column:   l.column(),
	}
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.FileName, e.Line, e.Column, e.Message)
}

func (e *LexerError) GetMessage() string  { return e.Message }
func (e *LexerError) GetFileName() string { return e.FileName }
func (e *LexerError) GetLine() int        { return e.Line }
func (e *LexerError) GetColumn() int      { return e.Column }
func (e *LexerError) GetLength() int      { return 1 }

const operatorChars = "+-*/%<>=!&|^~?@$"

type Lexer struct {
	fileName string

	buf []byte
	pos int

	line      int
	lineStart int

	eh compiler_errors.ErrorHandler
}

func NewLexer(fileName string, buf []byte, eh compiler_errors.ErrorHandler) *Lexer {
	return &Lexer{
		fileName: fileName,

		buf: buf,
		pos: 0,

		line: 1,

		eh: eh,
	}
}

// Tokenize returns every token of the buffer, comments included, terminated
// by EOF. Bad characters are reported and skipped.
func (l *Lexer) Tokenize() []Token {
	tokens := make([]Token, 0)

	for l.hasChars() {
		switch {
		case l.isCurrSkippable():
			if l.isCurrNewline() {
				l.line++
				l.lineStart = l.pos + 1
			}

		case l.isCurrDigit():
			tokens = append(tokens, l.processNumber())

		case l.isCurrIdentifier():
			tokens = append(tokens, l.processIdentifier())

		case l.read() == '"':
			if token, ok := l.processStringLiteral(); ok {
				tokens = append(tokens, token)
			}

		case l.read() == '#':
			tokens = append(tokens, l.processOneLineComment())

		case l.isCurrOperator():
			tokens = append(tokens, l.processOperator())

		case l.isCurrPunctuation():
			tokens = append(tokens, l.processPunctuation())

		default:
			l.eh.AddError(l.newUnexpectedError(l.read()))
		}

		l.advance()
	}

	tokens = append(tokens, Token{
		Kind:  EOF,
		Value: EOF.String(),

		Metadata: l.metadataAt(l.pos, 0),
	})

	return tokens
}

// Sanitize drops comment tokens.
func Sanitize(tokens []Token) []Token {
	sanitizedTokens := make([]Token, 0, len(tokens))
	for _, token := range tokens {
		if token.Kind == ONELINE_COMMENT {
			continue
		}
		sanitizedTokens = append(sanitizedTokens, token)
	}
	return sanitizedTokens
}

func (l *Lexer) isCurrIdentifier() bool {
	return (l.read() >= 'a' && l.read() <= 'z') || (l.read() >= 'A' && l.read() <= 'Z') || l.read() == '_'
}

func (l *Lexer) isCurrDigit() bool {
	return l.read() >= '0' && l.read() <= '9'
}

func (l *Lexer) isCurrOperator() bool {
	return strings.IndexByte(operatorChars, l.read()) >= 0
}

func (l *Lexer) isCurrPunctuation() bool {
	switch l.read() {
	case '(', ')', ':', ';':
		return true
	}
	return false
}

func (l *Lexer) isCurrNewline() bool {
	return l.read() == '\n'
}

func (l *Lexer) isCurrSkippable() bool {
	switch l.read() {
	case ' ', '\t', '\n', '\r':
		return true
	}

	return false
}

func (l *Lexer) processIdentifier() Token {
	start := l.pos
	identifierBuf := make([]byte, 0)
	identifierBuf = append(identifierBuf, l.read())
	l.advance()

	for l.hasChars() {
		if !l.isCurrIdentifier() && !l.isCurrDigit() && l.read() != '\'' {
			break
		}

		identifierBuf = append(identifierBuf, l.read())
		l.advance()
	}
	l.unread()
	identifier := string(identifierBuf)

	kind := IDENT
	switch identifier {
	case "let":
		kind = LET
	case "extern":
		kind = EXTERN
	case "operator":
		kind = OPERATOR_KW
	case "true", "false":
		kind = BOOL
	}

	return Token{
		Kind:  kind,
		Value: identifier,

		Metadata: l.metadataAt(start, len(identifier)),
	}
}

func (l *Lexer) processNumber() Token {
	start := l.pos
	numberBuf := make([]byte, 0)
	numberBuf = append(numberBuf, l.read())
	l.advance()

	var isFloat bool
	for l.hasChars() {
		if !isFloat && l.read() == '.' {
			if l.pos+1 >= len(l.buf) || l.buf[l.pos+1] < '0' || l.buf[l.pos+1] > '9' {
				break
			}

			isFloat = true
			numberBuf = append(numberBuf, l.read())
			l.advance()
			continue
		}

		if !l.isCurrDigit() {
			break
		}

		numberBuf = append(numberBuf, l.read())
		l.advance()
	}
	l.unread()

	kind := INT
	if isFloat {
		kind = FLOAT
	}

	return Token{
		Kind:  kind,
		Value: string(numberBuf),

		Metadata: l.metadataAt(start, len(numberBuf)),
	}
}

func (l *Lexer) processStringLiteral() (Token, bool) {
	start := l.pos
	l.advance()

	stringBuf := make([]byte, 0)
	var foundClosingQuote bool
	for l.hasChars() {
		if l.read() == '"' {
			foundClosingQuote = true
			break
		}

		if l.read() == '\n' {
			break
		}

		stringBuf = append(stringBuf, l.read())
		l.advance()
	}

	if !foundClosingQuote {
		l.eh.AddError(l.newExpectedError('"'))
		if l.hasChars() {
			l.unread()
		}
		return Token{}, false
	}

	return Token{
		Kind:  STRING,
		Value: string(stringBuf),

		Metadata: l.metadataAt(start, len(stringBuf)+2),
	}, true
}

func (l *Lexer) processOneLineComment() Token {
	start := l.pos
	content := make([]byte, 0)
	l.advance()

	for l.hasChars() {
		if l.read() == '\n' {
			break
		}

		content = append(content, l.read())
		l.advance()
	}
	l.unread()

	return Token{
		Kind:  ONELINE_COMMENT,
		Value: string(content),

		Metadata: l.metadataAt(start, len(content)+1),
	}
}

func (l *Lexer) processOperator() Token {
	start := l.pos
	operatorBuf := make([]byte, 0)

	for l.hasChars() && l.isCurrOperator() {
		operatorBuf = append(operatorBuf, l.read())
		l.advance()
	}
	l.unread()
	operator := string(operatorBuf)

	kind := OPERATOR
	switch operator {
	case "=":
		kind = ASSIGN
	case "->":
		kind = ARROW
	}

	return Token{
		Kind:  kind,
		Value: operator,

		Metadata: l.metadataAt(start, len(operator)),
	}
}

func (l *Lexer) processPunctuation() Token {
	metadata := l.metadataAt(l.pos, 1)

	switch l.read() {
	case '(':
		return Token{Kind: LPAREN, Value: "(", Metadata: metadata}
	case ')':
		return Token{Kind: RPAREN, Value: ")", Metadata: metadata}
	case ':':
		return Token{Kind: COLON, Value: ":", Metadata: metadata}
	case ';':
		return Token{Kind: SEMICOLON, Value: ";", Metadata: metadata}
	}

	panic("unreachable")
}

func (l *Lexer) metadataAt(pos int, length int) TokenMetadata {
	return TokenMetadata{
		FileName: l.fileName,
		Line:     l.line,
		Column:   pos - l.lineStart + 1,
		Length:   length,
	}
}

func (l *Lexer) column() int {
	return l.pos - l.lineStart + 1
}

func (l *Lexer) hasChars() bool {
	return l.pos < len(l.buf)
}

func (l *Lexer) advance()   { l.pos++ }
func (l *Lexer) read() byte { return l.buf[l.pos] }
func (l *Lexer) unread()    { l.pos-- }
