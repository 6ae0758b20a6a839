// Package parser turns the raw command-line argument vector into an
// expression token stream plus side-channel option state, and parses the
// token stream into an expr tree with find-like precedence.
package parser

import "fmt"

// TokenType identifies an expression token produced by Tokenize.
type TokenType int

const (
	TokenQuery TokenType = iota // -q <value>
	TokenAnd                    // -a
	TokenOr                     // -o
	TokenNot                    // -not or !
	TokenLParen                 // (
	TokenRParen                 // )
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenQuery:
		return "QUERY"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenEOF:
		return "EOF"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token is one expression token from the argument list. Value is set only
// for TokenQuery.
type Token struct {
	Type  TokenType
	Value string
}

// ParseError reports a malformed argument list or expression. It aborts
// the run before any network activity.
type ParseError struct {
	msg string
}

func (e *ParseError) Error() string {
	return e.msg
}

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}
