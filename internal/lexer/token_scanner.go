package lexer

type TokenScanner interface {
	Read() *Token
	Peek() *Token
	HasTokens() bool
}

// SimpleTokenScanner walks a token slice that ends with EOF. Reading past the
// end keeps returning the EOF token.
type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

func NewTokenScanner(tokens []Token) TokenScanner {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, Token{Kind: EOF, Value: EOF.String()})
	}

	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) Read() *Token {
	token := &s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}

	return token
}

func (s *SimpleTokenScanner) Peek() *Token {
	return &s.tokens[s.pos]
}

func (s *SimpleTokenScanner) HasTokens() bool {
	return s.tokens[s.pos].Kind != EOF
}
