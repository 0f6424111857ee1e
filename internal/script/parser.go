package script

import (
	"fmt"
	"strconv"
)

// Parse turns a script body into a statement list.
func Parse(src string) ([]Stmt, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}

	stmts, err := p.parseBlock(EOF)
	if err != nil {
		return nil, err
	}

	return stmts, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}

	return tok
}

func (p *parser) match(t TokenType) bool {
	if p.peek().Type == t {
		p.advance()
		return true
	}

	return false
}

func (p *parser) expect(t TokenType, what string) (Token, error) {
	tok := p.peek()
	if tok.Type != t {
		return Token{}, &SyntaxError{
			Msg: fmt.Sprintf("expected %s, found %q", what, describe(tok)),
			Pos: tok.Pos,
		}
	}

	return p.advance(), nil
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of script"
	}

	return tok.Lexeme
}

// parseBlock parses statements until one of the given terminators. The
// terminator token itself is not consumed.
func (p *parser) parseBlock(terminators ...TokenType) ([]Stmt, error) {
	var stmts []Stmt

	for {
		tok := p.peek()

		for _, t := range terminators {
			if tok.Type == t {
				return stmts, nil
			}
		}

		if tok.Type == EOF {
			return nil, &SyntaxError{Msg: "unexpected end of script", Pos: tok.Pos}
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}
}

func (p *parser) parseStmt() (Stmt, error) {
	switch p.peek().Type {
	case IF:
		return p.parseIf()
	case RETURN:
		return p.parseReturn()
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.peek().Type == ASSIGN {
		eq := p.advance()

		switch expr.(type) {
		case *Ident, *MemberExpr, *IndexExpr:
		default:
			return nil, &SyntaxError{Msg: "invalid assignment target", Pos: eq.Pos}
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		return &AssignStmt{Target: expr, Value: value}, nil
	}

	return &ExprStmt{X: expr}, nil
}

func (p *parser) parseIf() (Stmt, error) {
	kw := p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(THEN, `"then"`); err != nil {
		return nil, err
	}

	thenBlock, err := p.parseBlock(ELSE, END)
	if err != nil {
		return nil, err
	}

	var elseBlock []Stmt

	if p.match(ELSE) {
		elseBlock, err = p.parseBlock(END)
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(END, `"end"`); err != nil {
		return nil, err
	}

	return &IfStmt{Position: kw.Pos, Cond: cond, Then: thenBlock, Else: elseBlock}, nil
}

func (p *parser) parseReturn() (Stmt, error) {
	kw := p.advance()

	switch p.peek().Type {
	case END, ELSE, EOF:
		return &ReturnStmt{Position: kw.Pos}, nil
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ReturnStmt{Position: kw.Pos, Value: value}, nil
}

// ---- Expressions, precedence climbing ----

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == OR {
		p.advance()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: OR, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}

	for p.peek().Type == AND {
		p.advance()

		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: AND, L: left, R: right}
	}

	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Type
		if op != EQ && op != NEQ {
			return left, nil
		}

		p.advance()

		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, L: left, R: right}
	}
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Type
		if op != LT && op != LTE && op != GT && op != GTE {
			return left, nil
		}

		p.advance()

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, L: left, R: right}
	}
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Type
		if op != PLUS && op != MINUS {
			return left, nil
		}

		p.advance()

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, L: left, R: right}
	}
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek().Type
		if op != STAR && op != SLASH {
			return left, nil
		}

		p.advance()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &BinaryExpr{Op: op, L: left, R: right}
	}
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.Type == NOT || tok.Type == MINUS {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Position: tok.Pos, Op: tok.Type, X: operand}, nil
	}

	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek().Type {
		case LPAREN:
			p.advance()

			var args []Expr

			if p.peek().Type != RPAREN {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}

					args = append(args, arg)

					if !p.match(COMMA) {
						break
					}
				}
			}

			if _, err := p.expect(RPAREN, `")"`); err != nil {
				return nil, err
			}

			expr = &CallExpr{Fn: expr, Args: args}
		case DOT:
			p.advance()

			name, err := p.expect(IDENT, "member name")
			if err != nil {
				return nil, err
			}

			expr = &MemberExpr{X: expr, Name: name.Lexeme}
		case LBRACKET:
			p.advance()

			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(RBRACKET, `"]"`); err != nil {
				return nil, err
			}

			expr = &IndexExpr{X: expr, Index: index}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case IDENT:
		p.advance()
		return &Ident{Position: tok.Pos, Name: tok.Lexeme}, nil
	case STRING:
		p.advance()
		return &StringLit{Position: tok.Pos, Value: tok.Lexeme}, nil
	case NUMBER:
		p.advance()

		n, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, &SyntaxError{Msg: fmt.Sprintf("bad number %q", tok.Lexeme), Pos: tok.Pos}
		}

		return &NumberLit{Position: tok.Pos, Value: n}, nil
	case TRUE:
		p.advance()
		return &BoolLit{Position: tok.Pos, Value: true}, nil
	case FALSE:
		p.advance()
		return &BoolLit{Position: tok.Pos, Value: false}, nil
	case NULL:
		p.advance()
		return &NullLit{Position: tok.Pos}, nil
	case LPAREN:
		p.advance()

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(RPAREN, `")"`); err != nil {
			return nil, err
		}

		return inner, nil
	case LBRACE:
		return p.parseNamespaceLit()
	case LBRACKET:
		return p.parseListLit()
	case FUNC:
		return p.parseFuncLit()
	}

	return nil, &SyntaxError{
		Msg: fmt.Sprintf("unexpected %q", describe(tok)),
		Pos: tok.Pos,
	}
}

func (p *parser) parseNamespaceLit() (Expr, error) {
	open := p.advance()

	lit := &NamespaceLit{Position: open.Pos}

	for p.peek().Type != RBRACE {
		key, err := p.expect(IDENT, "member name")
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(COLON, `":"`); err != nil {
			return nil, err
		}

		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		lit.Keys = append(lit.Keys, key.Lexeme)
		lit.Values = append(lit.Values, value)

		if !p.match(COMMA) {
			break
		}
	}

	if _, err := p.expect(RBRACE, `"}"`); err != nil {
		return nil, err
	}

	return lit, nil
}

func (p *parser) parseListLit() (Expr, error) {
	open := p.advance()

	lit := &ListLit{Position: open.Pos}

	for p.peek().Type != RBRACKET {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		lit.Elems = append(lit.Elems, elem)

		if !p.match(COMMA) {
			break
		}
	}

	if _, err := p.expect(RBRACKET, `"]"`); err != nil {
		return nil, err
	}

	return lit, nil
}

func (p *parser) parseFuncLit() (Expr, error) {
	kw := p.advance()

	if _, err := p.expect(LPAREN, `"("`); err != nil {
		return nil, err
	}

	var params []string

	if p.peek().Type != RPAREN {
		for {
			param, err := p.expect(IDENT, "parameter name")
			if err != nil {
				return nil, err
			}

			params = append(params, param.Lexeme)

			if !p.match(COMMA) {
				break
			}
		}
	}

	if _, err := p.expect(RPAREN, `")"`); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(END)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(END, `"end"`); err != nil {
		return nil, err
	}

	return &FuncLit{Position: kw.Pos, Params: params, Body: body}, nil
}
