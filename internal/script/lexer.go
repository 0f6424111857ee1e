package script

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError is a lexical or parse failure with its source position.
type SyntaxError struct {
	Msg string
	Pos Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

var singleRuneTokens = map[rune]TokenType{
	'(': LPAREN, ')': RPAREN,
	'[': LBRACKET, ']': RBRACKET,
	'{': LBRACE, '}': RBRACE,
	':': COLON, ',': COMMA, '.': DOT,
	'+': PLUS, '-': MINUS, '*': STAR, '/': SLASH,
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

// tokenize scans the entire source up front. Scripts are short; a token
// slice keeps the parser free of pull-based lexer state.
func tokenize(src string) ([]Token, error) {
	lx := newLexer(src)

	var tokens []Token

	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) peekRune() (rune, int) {
	if lx.off >= len(lx.src) {
		return 0, 0
	}

	return utf8.DecodeRuneInString(lx.src[lx.off:])
}

func (lx *lexer) advance() rune {
	r, size := lx.peekRune()
	lx.off += size

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func (lx *lexer) pos() Position {
	return Position{Line: lx.line, Col: lx.col}
}

func (lx *lexer) skipSpaceAndComments() {
	for {
		r, _ := lx.peekRune()

		switch {
		case r == '#':
			for {
				r, _ := lx.peekRune()
				if r == 0 || r == '\n' {
					break
				}
				lx.advance()
			}
		case unicode.IsSpace(r):
			lx.advance()
		default:
			return
		}
	}
}

func (lx *lexer) next() (Token, error) {
	lx.skipSpaceAndComments()

	start := lx.pos()

	r, _ := lx.peekRune()
	if r == 0 {
		return Token{Type: EOF, Pos: start}, nil
	}

	switch {
	case r == '"':
		return lx.scanString(start)
	case unicode.IsDigit(r):
		return lx.scanNumber(start), nil
	case r == '_' || unicode.IsLetter(r):
		return lx.scanIdent(start), nil
	}

	lx.advance()

	if t, ok := singleRuneTokens[r]; ok {
		return Token{Type: t, Lexeme: string(r), Pos: start}, nil
	}

	// One- or two-rune operators sharing a prefix.
	switch r {
	case '=':
		if n, _ := lx.peekRune(); n == '=' {
			lx.advance()
			return Token{Type: EQ, Lexeme: "==", Pos: start}, nil
		}

		return Token{Type: ASSIGN, Lexeme: "=", Pos: start}, nil
	case '!':
		if n, _ := lx.peekRune(); n == '=' {
			lx.advance()
			return Token{Type: NEQ, Lexeme: "!=", Pos: start}, nil
		}

		return Token{}, &SyntaxError{Msg: "unexpected character '!'", Pos: start}
	case '<':
		if n, _ := lx.peekRune(); n == '=' {
			lx.advance()
			return Token{Type: LTE, Lexeme: "<=", Pos: start}, nil
		}

		return Token{Type: LT, Lexeme: "<", Pos: start}, nil
	case '>':
		if n, _ := lx.peekRune(); n == '=' {
			lx.advance()
			return Token{Type: GTE, Lexeme: ">=", Pos: start}, nil
		}

		return Token{Type: GT, Lexeme: ">", Pos: start}, nil
	}

	return Token{}, &SyntaxError{Msg: fmt.Sprintf("unexpected character %q", r), Pos: start}
}

func (lx *lexer) scanIdent(start Position) Token {
	var sb strings.Builder

	for {
		r, _ := lx.peekRune()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		sb.WriteRune(lx.advance())
	}

	lexeme := sb.String()
	if kw, ok := keywords[lexeme]; ok {
		return Token{Type: kw, Lexeme: lexeme, Pos: start}
	}

	return Token{Type: IDENT, Lexeme: lexeme, Pos: start}
}

func (lx *lexer) scanNumber(start Position) Token {
	var sb strings.Builder

	seenDot := false

	for {
		r, _ := lx.peekRune()

		if r == '.' && !seenDot {
			// Only consume the dot when a digit follows, so "x.y" after
			// a number literal still lexes as member access.
			if lx.off+1 < len(lx.src) && unicode.IsDigit(rune(lx.src[lx.off+1])) {
				seenDot = true
				sb.WriteRune(lx.advance())
				continue
			}

			break
		}

		if !unicode.IsDigit(r) {
			break
		}

		sb.WriteRune(lx.advance())
	}

	return Token{Type: NUMBER, Lexeme: sb.String(), Pos: start}
}

func (lx *lexer) scanString(start Position) (Token, error) {
	lx.advance() // opening quote

	var sb strings.Builder

	for {
		r, _ := lx.peekRune()

		switch r {
		case 0, '\n':
			return Token{}, &SyntaxError{Msg: "unterminated string", Pos: start}
		case '"':
			lx.advance()
			return Token{Type: STRING, Lexeme: sb.String(), Pos: start}, nil
		case '\\':
			lx.advance()

			esc := lx.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			default:
				return Token{}, &SyntaxError{
					Msg: fmt.Sprintf("unknown escape '\\%c'", esc),
					Pos: start,
				}
			}
		default:
			sb.WriteRune(lx.advance())
		}
	}
}
