package minecode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenString
	TokenIdentifier

	TokenFunc
	TokenVar
	TokenIf
	TokenElse
	TokenWhile
	TokenReturn
	TokenPrint
	TokenBlockOpen
	TokenBlockClose
	TokenTrue
	TokenFalse
	TokenTypeName

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenAssign
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual
	TokenAnd
	TokenOr

	TokenOpenParentheses
	TokenCloseParentheses
	TokenComma
	TokenSemicolon
	TokenColon
)

var keywordTable = map[string]TokenType{
	"enchant_func":   TokenFunc,
	"chest":          TokenVar,
	"redstone_if":    TokenIf,
	"slime_else":     TokenElse,
	"piston_loop":    TokenWhile,
	"nether_return":  TokenReturn,
	"print":          TokenPrint,
	"crafting_table": TokenBlockOpen,
	"end_portal":     TokenBlockClose,
	"torch_on":       TokenTrue,
	"torch_off":      TokenFalse,

	"redstone": TokenTypeName,
	"emerald":  TokenTypeName,
	"obsidian": TokenTypeName,
	"nether":   TokenTypeName,
	"ender":    TokenTypeName,
	"void":     TokenTypeName,
	"int":      TokenTypeName,
	"float":    TokenTypeName,
	"string":   TokenTypeName,
	"boolean":  TokenTypeName,
	"array":    TokenTypeName,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenMulti,
	"/":  TokenDiv,
	"->": TokenAssign,
	"=":  TokenAssign,
	"==": TokenEqual,
	"!=": TokenNotEqual,
	"<":  TokenLess,
	">":  TokenGreater,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
	"&&": TokenAnd,
	"||": TokenOr,
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
	",":  TokenComma,
	";":  TokenSemicolon,
	":":  TokenColon,
}

var tokenNames = map[TokenType]string{
	TokenError:            "Error",
	TokenEOF:              "EOF",
	TokenNumber:           "Number",
	TokenString:           "String",
	TokenIdentifier:       "Identifier",
	TokenFunc:             "Func",
	TokenVar:              "Var",
	TokenIf:               "If",
	TokenElse:             "Else",
	TokenWhile:            "While",
	TokenReturn:           "Return",
	TokenPrint:            "Print",
	TokenBlockOpen:        "BlockOpen",
	TokenBlockClose:       "BlockClose",
	TokenTrue:             "True",
	TokenFalse:            "False",
	TokenTypeName:         "TypeName",
	TokenPlus:             "Plus",
	TokenMinus:            "Minus",
	TokenMulti:            "Multi",
	TokenDiv:              "Div",
	TokenAssign:           "Assign",
	TokenEqual:            "Equal",
	TokenNotEqual:         "NotEqual",
	TokenLess:             "Less",
	TokenGreater:          "Greater",
	TokenLessEqual:        "LessEqual",
	TokenGreaterEqual:     "GreaterEqual",
	TokenAnd:              "And",
	TokenOr:               "Or",
	TokenOpenParentheses:  "OpenParentheses",
	TokenCloseParentheses: "CloseParentheses",
	TokenComma:            "Comma",
	TokenSemicolon:        "Semicolon",
	TokenColon:            "Colon",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return "TokenType(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// Token is a single lexeme. Literal holds the decoded value of number,
// string and boolean tokens and is nil otherwise.
type Token struct {
	Typ     TokenType
	Value   string
	Literal interface{}
	Line    int
}

func (t Token) isValid() bool {
	return t.Typ != TokenEOF
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%s '%s'", t.Line, t.Typ, t.Value)
}

// Tokenizer is what the parser pulls tokens from. Do produces the tokens and
// is expected to run on its own goroutine; Get blocks until the next one is
// available and keeps returning EOF once the stream is exhausted.
type Tokenizer interface {
	Do()
	Get() Token
	GetFilename() string
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	done     chan Token
	line     int
}

func NewLexer(filename string) (*Lexer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("lexer: read %s: %w", filename, err)
	}

	l := NewLexerFromReader(bytes.NewReader(data))
	l.filename = filename

	return l, nil
}

func NewLexerFromReader(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		done:   make(chan Token, 16),
		line:   1,
	}
}

func NewLexerFromString(source string) *Lexer {
	return NewLexerFromReader(strings.NewReader(source))
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

func (l *Lexer) Chan() chan Token {
	return l.done
}

func (l *Lexer) Do() {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	close(l.done)
}

func (l *Lexer) Get() Token {
	tok, ok := <-l.done
	if !ok {
		return Token{Typ: TokenEOF}
	}

	return tok
}

// RunBlocking scans the whole input and returns every token, the closing EOF
// included. Error tokens are kept in the stream.
func (l *Lexer) RunBlocking() []Token {
	go l.Do()

	var tokens []Token
	for {
		t := l.Get()
		tokens = append(tokens, t)
		if !t.isValid() {
			return tokens
		}
	}
}

// Scan tokenizes source in one go.
func Scan(source string) []Token {
	return NewLexerFromString(source).RunBlocking()
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return l.emmitEOF()
		case unicode.IsSpace(r):
			l.next()
			continue
		case r == '/' && l.peekAhead(1) == '/':
			return lineCommentState
		case '0' <= r && r <= '9':
			return numberState
		case r == '"':
			return stringState
		case unicode.IsLetter(r) || r == '_':
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); isDigit(r); r = l.peek() {
		num.WriteRune(l.next())
	}

	if l.peek() == '.' && isDigit(l.peekAhead(1)) {
		num.WriteRune(l.next()) // Decimal point

		for r := l.peek(); isDigit(r); r = l.peek() {
			num.WriteRune(l.next())
		}

		f, err := strconv.ParseFloat(num.String(), 64)
		if err != nil {
			return l.emmitError(num.String())
		}

		return l.emmitLiteral(TokenNumber, num.String(), f, l.line)
	}

	i, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return l.emmitError(num.String())
	}

	return l.emmitLiteral(TokenNumber, num.String(), i, l.line)
}

func stringState(l *Lexer) stateFunc {
	start := l.line
	l.next() // Skip the leading double-quote

	var str strings.Builder
	for r := l.next(); r != '"'; r = l.next() {
		if r == EOF {
			// An unterminated string ends the stream instead of reporting an error
			return l.emmitEOF()
		}

		str.WriteRune(r)
	}

	return l.emmitLiteral(TokenString, str.String(), str.String(), start)
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'; r = l.peek() {
		id.WriteRune(l.next())
	}

	word := id.String()
	if t, ok := keywordTable[word]; ok {
		switch t {
		case TokenTrue:
			return l.emmitLiteral(t, word, true, l.line)
		case TokenFalse:
			return l.emmitLiteral(t, word, false, l.line)
		}

		return l.emmitValue(t, word)
	}

	return l.emmitValue(TokenIdentifier, word)
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()

	// Operators can be two runes long, prefer the longest match
	op := string(r) + string(l.peek())
	if tok, ok := operatorTable[op]; ok {
		l.next()
		return l.emmitValue(tok, op)
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emmitValue(tok, string(r))
	}

	return l.emmitError(string(r))
}

func lineCommentState(l *Lexer) stateFunc {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func (l *Lexer) emmitError(lexeme string) stateFunc {
	return l.emmitValue(TokenError, lexeme)
}

func (l *Lexer) emmitEOF() stateFunc {
	l.done <- Token{
		Typ:  TokenEOF,
		Line: l.line,
	}

	return nil
}

func (l *Lexer) emmitValue(t TokenType, val string) stateFunc {
	return l.emmitLiteral(t, val, nil, l.line)
}

func (l *Lexer) emmitLiteral(t TokenType, val string, literal interface{}, line int) stateFunc {
	l.done <- Token{
		Typ:     t,
		Value:   val,
		Literal: literal,
		Line:    line,
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return EOF
	}
	_ = l.reader.UnreadRune()

	return r
}

// peekAhead looks n runes past the next one without consuming anything.
// Only used for ASCII lookahead so peeking raw bytes is enough.
func (l *Lexer) peekAhead(n int) rune {
	buf, err := l.reader.Peek(n + 1)
	if err != nil || len(buf) <= n {
		return EOF
	}

	return rune(buf[n])
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	if r == '\n' {
		l.line++
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
