package parser

import "gls/internal/expr"

// exprParser is a recursive-descent parser over the expression token
// stream.
//
// Grammar (lowest to highest precedence):
//
//	expr    := term (OR term)*
//	term    := factor (AND? factor)*   // AND may be implicit
//	factor  := NOT? primary
//	primary := QUERY | LPAREN expr RPAREN
//
// Both AND and OR are left-associative.
type exprParser struct {
	tokens []Token
	pos    int
}

// ParseExpression parses the token stream into an expression tree. A
// stream with no QUERY tokens yields a nil tree, not an error: scopes
// like filename search run without a boolean query.
func ParseExpression(tokens []Token) (expr.Node, error) {
	p := &exprParser{tokens: tokens}
	if !p.hasQueryTokens() {
		return nil, nil
	}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.check(TokenEOF) {
		return nil, parseErrorf("unexpected %s at position %d", p.current().Type, p.pos)
	}
	return root, nil
}

// ParseCommand is the package entry point: tokenize the argument vector,
// parse the expression, and return the complete command.
func ParseCommand(args []string) (*Command, error) {
	tok, err := Tokenize(args)
	if err != nil {
		return nil, err
	}
	root, err := ParseExpression(tok.Tokens)
	if err != nil {
		return nil, err
	}
	tok.Command.Expression = root
	return tok.Command, nil
}

func (p *exprParser) hasQueryTokens() bool {
	for _, t := range p.tokens {
		if t.Type == TokenQuery {
			return true
		}
	}
	return false
}

func (p *exprParser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *exprParser) check(tt TokenType) bool {
	return p.current().Type == tt
}

func (p *exprParser) match(tt TokenType) bool {
	if p.check(tt) {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

func (p *exprParser) expect(tt TokenType) (Token, error) {
	if !p.check(tt) {
		return Token{}, parseErrorf("expected %s at position %d, got %s", tt, p.pos, p.current().Type)
	}
	return p.advance(), nil
}

func (p *exprParser) parseExpr() (expr.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = expr.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseTerm() (expr.Node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	// Any of AND, QUERY, NOT, LPAREN directly following a factor
	// continues the term (implicit AND).
	for p.check(TokenAnd) || p.check(TokenQuery) || p.check(TokenNot) || p.check(TokenLParen) {
		p.match(TokenAnd)
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = expr.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseFactor() (expr.Node, error) {
	if p.match(TokenNot) {
		child, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return expr.Not{Child: child}, nil
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (expr.Node, error) {
	if p.match(TokenLParen) {
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	}
	if p.check(TokenQuery) {
		tok := p.advance()
		return expr.Query{Term: tok.Value}, nil
	}
	return nil, parseErrorf("expected query or '(' at position %d, got %s", p.pos, p.current().Type)
}
