package minecode

import (
	"fmt"
	"sort"
)

// SyntaxError is raised while parsing a single declaration. The parser turns
// it into a diagnostic and resynchronizes.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type SyntacticAnalyzer interface {
	Run() (*Program, Diagnostics)
	GetFilename() string
}

type Parser struct {
	filename  string
	tokenizer Tokenizer

	cur      Token
	peek     Token
	consumed int

	// Blocks opened and not yet closed by the current declaration
	depth int

	diags Diagnostics
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
		filename:  tokenizer.GetFilename(),
	}
}

// Parse scans and parses source, returning the program together with every
// lexical and syntax diagnostic found on the way.
func Parse(source string) (*Program, Diagnostics) {
	return NewParser(NewLexerFromString(source)).Run()
}

func (p *Parser) GetFilename() string {
	return p.filename
}

func (p *Parser) Run() (*Program, Diagnostics) {
	go p.tokenizer.Do()

	// Fill both lookahead slots
	p.advance()
	p.advance()

	prog := &Program{Pos: 1}
	for p.cur.Typ != TokenEOF {
		start := p.consumed
		p.depth = 0

		decl, err := p.declaration()
		if err != nil {
			p.syntaxError(err)
			p.synchronize()

			if p.consumed == start {
				// Nothing was consumed, skip the offending token to make progress
				p.advance()
				p.match(TokenSemicolon)
			}

			continue
		}

		prog.Declarations = append(prog.Declarations, decl)
	}

	sort.SliceStable(p.diags, func(i, j int) bool {
		return p.diags[i].Line < p.diags[j].Line
	})

	return prog, p.diags
}

func (p *Parser) advance() Token {
	prev := p.cur
	p.cur = p.peek

	// EOF is sticky, never pull past it
	if p.peek.Typ != TokenEOF {
		p.peek = p.fetch()
	}

	p.consumed++
	return prev
}

// fetch pulls the next usable token. Error tokens become lexical
// diagnostics and are skipped.
func (p *Parser) fetch() Token {
	for {
		tok := p.tokenizer.Get()
		if tok.Typ != TokenError {
			return tok
		}

		p.diags = append(p.diags, Diagnostic{
			Line:     tok.Line,
			Message:  fmt.Sprintf("unrecognized token '%s'", tok.Value),
			Category: CategoryLexical,
		})
	}
}

func (p *Parser) check(typ TokenType) bool {
	return p.cur.Typ == typ
}

func (p *Parser) match(typ TokenType) bool {
	if !p.check(typ) {
		return false
	}

	p.advance()
	return true
}

func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}

	return Token{}, p.errorf(p.cur, "expected %s, found %s", what, describe(p.cur))
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{
		Line:    tok.Line,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) syntaxError(err error) {
	d := Diagnostic{
		Line:     p.cur.Line,
		Message:  err.Error(),
		Category: CategorySyntax,
	}

	if se, ok := err.(*SyntaxError); ok {
		d.Line = se.Line
		d.Message = se.Message
	}

	p.diags = append(p.diags, d)
}

// synchronize discards the rest of an abandoned declaration. Blocks left open
// are skipped through their closing marker, along with a trailing else branch
// and terminator. Outside of a block it stops after a terminator or before the
// start of a new declaration.
func (p *Parser) synchronize() {
	depth := p.depth
	for p.cur.Typ != TokenEOF {
		switch p.cur.Typ {
		case TokenBlockOpen:
			depth++
		case TokenBlockClose:
			if depth == 0 {
				return
			}

			depth--
			if depth == 0 {
				p.advance()
				if p.match(TokenElse) {
					continue
				}

				p.match(TokenSemicolon)
				return
			}
		case TokenSemicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case TokenFunc, TokenVar, TokenIf, TokenWhile, TokenReturn, TokenPrint:
			if depth == 0 {
				return
			}
		}

		p.advance()
	}
}

func (p *Parser) declaration() (Stmt, error) {
	switch p.cur.Typ {
	case TokenFunc:
		return p.funcDecl()
	case TokenVar:
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) funcDecl() (Stmt, error) {
	start := p.advance() // enchant_func keyword

	name, err := p.expect(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenOpenParentheses, "'('"); err != nil {
		return nil, err
	}

	var params []*Identifier
	if !p.check(TokenCloseParentheses) {
		for {
			param, err := p.expect(TokenIdentifier, "parameter name")
			if err != nil {
				return nil, err
			}

			params = append(params, &Identifier{Pos: Pos(param.Line), Name: param.Value})

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	var ret *TypeRef
	if p.match(TokenColon) {
		if ret, err = p.typeRef(); err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	p.match(TokenSemicolon)
	return &FunctionDecl{
		Pos:        Pos(start.Line),
		Name:       name.Value,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}, nil
}

func (p *Parser) varDecl() (Stmt, error) {
	start := p.advance() // chest keyword

	name, err := p.expect(TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}

	decl := &VariableDecl{
		Pos:  Pos(start.Line),
		Name: name.Value,
	}

	if p.match(TokenColon) {
		if decl.Type, err = p.typeRef(); err != nil {
			return nil, err
		}
	}

	if p.match(TokenAssign) {
		if decl.Value, err = p.expression(); err != nil {
			return nil, err
		}
	}

	p.match(TokenSemicolon)
	return decl, nil
}

func (p *Parser) typeRef() (*TypeRef, error) {
	tok, err := p.expect(TokenTypeName, "type name")
	if err != nil {
		return nil, err
	}

	return &TypeRef{
		Pos:  Pos(tok.Line),
		Name: tok.Value,
		Kind: ParseTypeKind(tok.Value),
	}, nil
}

func (p *Parser) block() (*Block, error) {
	open, err := p.expect(TokenBlockOpen, "'crafting_table'")
	if err != nil {
		return nil, err
	}

	p.depth++

	b := &Block{Pos: Pos(open.Line)}
	for !p.check(TokenBlockClose) && !p.check(TokenEOF) {
		stmt, err := p.blockStatement()
		if err != nil {
			return nil, err
		}

		b.Statements = append(b.Statements, stmt)
	}

	if _, err := p.expect(TokenBlockClose, "'end_portal'"); err != nil {
		return nil, err
	}

	p.depth--
	return b, nil
}

func (p *Parser) blockStatement() (Stmt, error) {
	switch p.cur.Typ {
	case TokenVar:
		return p.varDecl()
	case TokenFunc:
		return nil, p.errorf(p.cur, "functions can only be declared at the top level")
	default:
		return p.statement()
	}
}

func (p *Parser) statement() (Stmt, error) {
	switch p.cur.Typ {
	case TokenIf:
		return p.ifStmt()
	case TokenWhile:
		return p.whileStmt()
	case TokenReturn:
		return p.returnStmt()
	case TokenPrint:
		return p.printStmt()
	case TokenBlockOpen:
		b, err := p.block()
		if err != nil {
			return nil, err
		}

		p.match(TokenSemicolon)
		return b, nil
	case TokenIdentifier:
		if p.peek.Typ == TokenAssign {
			return p.assignment()
		}
	}

	return p.exprStmt()
}

func (p *Parser) ifStmt() (Stmt, error) {
	start := p.advance() // redstone_if keyword

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &If{
		Pos:  Pos(start.Line),
		Cond: cond,
		Then: then,
	}

	if p.match(TokenElse) {
		if p.check(TokenIf) {
			stmt.Else, err = p.ifStmt()
		} else {
			stmt.Else, err = p.block()
		}

		if err != nil {
			return nil, err
		}
	}

	p.match(TokenSemicolon)
	return stmt, nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	start := p.advance() // piston_loop keyword

	cond, err := p.expression()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	p.match(TokenSemicolon)
	return &While{
		Pos:  Pos(start.Line),
		Cond: cond,
		Body: body,
	}, nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	start := p.advance() // nether_return keyword
	stmt := &Return{Pos: Pos(start.Line)}

	// Without terminators a bare return is recognised by what follows it
	bare := p.check(TokenSemicolon) || p.check(TokenBlockClose) || p.check(TokenEOF) || p.cur.Line > start.Line
	if !bare {
		value, err := p.expression()
		if err != nil {
			return nil, err
		}

		stmt.Value = value
	}

	p.match(TokenSemicolon)
	return stmt, nil
}

func (p *Parser) printStmt() (Stmt, error) {
	start := p.advance() // print keyword

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	p.match(TokenSemicolon)
	return &Print{
		Pos:   Pos(start.Line),
		Value: value,
	}, nil
}

func (p *Parser) assignment() (Stmt, error) {
	name := p.advance()
	p.advance() // Skip the assignment arrow

	value, err := p.expression()
	if err != nil {
		return nil, err
	}

	p.match(TokenSemicolon)
	return &Assignment{
		Pos:   Pos(name.Line),
		Name:  name.Value,
		Value: value,
	}, nil
}

func (p *Parser) exprStmt() (Stmt, error) {
	start := p.cur

	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	p.match(TokenSemicolon)
	return &ExpressionStatement{
		Pos:  Pos(start.Line),
		Expr: expr,
	}, nil
}

func (p *Parser) expression() (Expr, error) {
	return p.binary(0)
}

// binary is a precedence climber. Operators of equal precedence associate
// to the left because the right operand is parsed with a higher floor.
func (p *Parser) binary(minPrecedence int) (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		op := p.cur
		prec := precedence(op.Typ)
		if prec <= minPrecedence {
			return lhs, nil
		}

		p.advance()

		rhs, err := p.binary(prec)
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{
			Pos:       Pos(op.Line),
			Operation: BinaryOp(op.Value),
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

func precedence(typ TokenType) int {
	switch typ {
	case TokenOr:
		return 1
	case TokenAnd:
		return 2
	case TokenEqual, TokenNotEqual:
		return 3
	case TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		return 4
	case TokenPlus, TokenMinus:
		return 5
	case TokenMulti, TokenDiv:
		return 6
	}

	return 0
}

func (p *Parser) primary() (Expr, error) {
	switch tok := p.cur; tok.Typ {
	case TokenNumber:
		p.advance()

		switch v := tok.Literal.(type) {
		case int64:
			return &Literal{Pos: Pos(tok.Line), Value: Integer(v)}, nil
		case float64:
			return &Literal{Pos: Pos(tok.Line), Value: Float(v)}, nil
		}

		return nil, p.errorf(tok, "malformed number '%s'", tok.Value)
	case TokenString:
		p.advance()
		return &Literal{Pos: Pos(tok.Line), Value: Text(tok.Value)}, nil
	case TokenTrue, TokenFalse:
		p.advance()
		return &Literal{Pos: Pos(tok.Line), Value: Boolean(tok.Typ == TokenTrue)}, nil
	case TokenIdentifier:
		p.advance()
		if p.check(TokenOpenParentheses) {
			return p.funcCall(tok)
		}

		return &Identifier{Pos: Pos(tok.Line), Name: tok.Value}, nil
	case TokenOpenParentheses:
		p.advance()

		expr, err := p.expression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(TokenCloseParentheses, "')'"); err != nil {
			return nil, err
		}

		return expr, nil
	default:
		return nil, p.errorf(tok, "unexpected %s", describe(tok))
	}
}

func (p *Parser) funcCall(name Token) (Expr, error) {
	p.advance() // Skip the opening parenthesis

	call := &Call{
		Pos:  Pos(name.Line),
		Name: name.Value,
	}

	if !p.check(TokenCloseParentheses) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)

			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	return call, nil
}

func describe(tok Token) string {
	if tok.Typ == TokenEOF {
		return "end of input"
	}

	return fmt.Sprintf("'%s'", tok.Value)
}
