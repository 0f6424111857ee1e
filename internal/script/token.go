// Package script implements the small module-pattern unit language: a
// lexer, a recursive-descent parser, and a tree-walking interpreter. Units
// and test files are plain ".isl" scripts; the harness injects their view
// of global state and their host primitives as an outer environment.
package script

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LPAREN   // "("
	RPAREN   // ")"
	LBRACKET // "["
	RBRACKET // "]"
	LBRACE   // "{"
	RBRACE   // "}"
	COLON    // ":"
	COMMA    // ","
	DOT      // "."

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	ASSIGN // "="
	EQ     // "=="
	NEQ    // "!="
	LT
	LTE
	GT
	GTE

	// Literals and identifiers
	IDENT
	STRING
	NUMBER

	// Keywords
	AND
	OR
	NOT
	IF
	THEN
	ELSE
	END
	FUNC
	RETURN
	TRUE
	FALSE
	NULL
)

var keywords = map[string]TokenType{
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"end":    END,
	"func":   FUNC,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
	"null":   NULL,
}

// Position is a 1-based line/column location in a script body.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a lexical token with its raw text and source position.
type Token struct {
	Type   TokenType
	Lexeme string
	Pos    Position
}
