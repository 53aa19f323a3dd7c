package minecode

import (
	"strings"
	"testing"

	"go.minecode.dev/internal/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lexeme struct {
	Typ   TokenType
	Value string
}

func lexemes(toks []Token) []lexeme {
	out := make([]lexeme, len(toks))
	for i, tok := range toks {
		out[i] = lexeme{tok.Typ, tok.Value}
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		expect []lexeme
	}{
		{
			"x -> 10",
			[]lexeme{
				{TokenIdentifier, "x"},
				{TokenAssign, "->"},
				{TokenNumber, "10"},
				{TokenEOF, ""},
			},
		},
		{
			"enchant_func main() crafting_table end_portal",
			[]lexeme{
				{TokenFunc, "enchant_func"},
				{TokenIdentifier, "main"},
				{TokenOpenParentheses, "("},
				{TokenCloseParentheses, ")"},
				{TokenBlockOpen, "crafting_table"},
				{TokenBlockClose, "end_portal"},
				{TokenEOF, ""},
			},
		},
		{
			"//this is a comment\n",
			[]lexeme{
				{TokenEOF, ""},
			},
		},
		{
			"chest y = 1; // trailing comment\nprint y",
			[]lexeme{
				{TokenVar, "chest"},
				{TokenIdentifier, "y"},
				{TokenAssign, "="},
				{TokenNumber, "1"},
				{TokenSemicolon, ";"},
				{TokenPrint, "print"},
				{TokenIdentifier, "y"},
				{TokenEOF, ""},
			},
		},
		{
			"redstone_if a <= b && c != d || e >= f slime_else piston_loop nether_return",
			[]lexeme{
				{TokenIf, "redstone_if"},
				{TokenIdentifier, "a"},
				{TokenLessEqual, "<="},
				{TokenIdentifier, "b"},
				{TokenAnd, "&&"},
				{TokenIdentifier, "c"},
				{TokenNotEqual, "!="},
				{TokenIdentifier, "d"},
				{TokenOr, "||"},
				{TokenIdentifier, "e"},
				{TokenGreaterEqual, ">="},
				{TokenIdentifier, "f"},
				{TokenElse, "slime_else"},
				{TokenWhile, "piston_loop"},
				{TokenReturn, "nether_return"},
				{TokenEOF, ""},
			},
		},
		{
			"a==b<c>d+e-f*g/h",
			[]lexeme{
				{TokenIdentifier, "a"},
				{TokenEqual, "=="},
				{TokenIdentifier, "b"},
				{TokenLess, "<"},
				{TokenIdentifier, "c"},
				{TokenGreater, ">"},
				{TokenIdentifier, "d"},
				{TokenPlus, "+"},
				{TokenIdentifier, "e"},
				{TokenMinus, "-"},
				{TokenIdentifier, "f"},
				{TokenMulti, "*"},
				{TokenIdentifier, "g"},
				{TokenDiv, "/"},
				{TokenIdentifier, "h"},
				{TokenEOF, ""},
			},
		},
		{
			"enchant_func f(a, b): emerald",
			[]lexeme{
				{TokenFunc, "enchant_func"},
				{TokenIdentifier, "f"},
				{TokenOpenParentheses, "("},
				{TokenIdentifier, "a"},
				{TokenComma, ","},
				{TokenIdentifier, "b"},
				{TokenCloseParentheses, ")"},
				{TokenColon, ":"},
				{TokenTypeName, "emerald"},
				{TokenEOF, ""},
			},
		},
		{
			"torch_on torch_off chest_count",
			[]lexeme{
				{TokenTrue, "torch_on"},
				{TokenFalse, "torch_off"},
				{TokenIdentifier, "chest_count"},
				{TokenEOF, ""},
			},
		},
		{
			"únicódeShouldBeVàlid -> 1",
			[]lexeme{
				{TokenIdentifier, "únicódeShouldBeVàlid"},
				{TokenAssign, "->"},
				{TokenNumber, "1"},
				{TokenEOF, ""},
			},
		},
		{
			"\"\"",
			[]lexeme{
				{TokenString, ""},
				{TokenEOF, ""},
			},
		},
		{
			"\"unclosed string",
			[]lexeme{
				{TokenEOF, ""},
			},
		},
		{
			"x @ 1",
			[]lexeme{
				{TokenIdentifier, "x"},
				{TokenError, "@"},
				{TokenNumber, "1"},
				{TokenEOF, ""},
			},
		},
		{
			"a ! b",
			[]lexeme{
				{TokenIdentifier, "a"},
				{TokenError, "!"},
				{TokenIdentifier, "b"},
				{TokenEOF, ""},
			},
		},
	}

	for _, c := range cases {
		toks := Scan(c.data)
		assert.Equal(t, c.expect, lexemes(toks), c.data)
	}
}

func TestLexerLiterals(t *testing.T) {
	toks := Scan("42 3.25 7. \"hi there\" torch_on torch_off")
	require.Len(t, toks, 8)

	assert.Equal(t, int64(42), toks[0].Literal)
	assert.Equal(t, 3.25, toks[1].Literal)

	// A dot without a digit after it is not part of the number
	assert.Equal(t, int64(7), toks[2].Literal)
	assert.Equal(t, TokenError, toks[3].Typ)
	assert.Equal(t, ".", toks[3].Value)

	assert.Equal(t, "hi there", toks[4].Literal)
	assert.Equal(t, true, toks[5].Literal)
	assert.Equal(t, false, toks[6].Literal)
	assert.Equal(t, TokenEOF, toks[7].Typ)
}

func TestLexerIntegerOverflow(t *testing.T) {
	toks := Scan("99999999999999999999")
	require.Len(t, toks, 2)

	assert.Equal(t, TokenError, toks[0].Typ)
	assert.Equal(t, "99999999999999999999", toks[0].Value)
}

func TestLexerLines(t *testing.T) {
	source := "chest a -> 1\n\n// comment\nchest b -> \"two\nlines\"\nprint z"
	toks := Scan(source)

	lines := make(map[string]int)
	for _, tok := range toks {
		if tok.Typ != TokenEOF {
			lines[tok.Value] = tok.Line
		}
	}

	assert.Equal(t, 1, lines["a"])
	assert.Equal(t, 4, lines["b"])
	// Strings keep the line they started on
	assert.Equal(t, 4, lines["two\nlines"])
	assert.Equal(t, 6, lines["print"])
	assert.Equal(t, 6, lines["z"])

	eof := toks[len(toks)-1]
	assert.Equal(t, TokenEOF, eof.Typ)
	assert.Equal(t, 6, eof.Line)
}

func TestLexerTokenizer(t *testing.T) {
	l := NewLexerFromString("print 1")
	go l.Do()

	assert.Equal(t, TokenPrint, l.Get().Typ)
	assert.Equal(t, TokenNumber, l.Get().Typ)
	assert.Equal(t, TokenEOF, l.Get().Typ)

	// The stream is closed, EOF keeps coming
	assert.Equal(t, TokenEOF, l.Get().Typ)
}

func TestNewLexerMissingFile(t *testing.T) {
	_, err := NewLexer("does/not/exist.mc")
	assert.Error(t, err)
}

func TestLexerRandomTokens(t *testing.T) {
	for _, tok := range Scan(test.GetRandomTokens(500)) {
		assert.NotEqual(t, TokenError, tok.Typ, tok.String())
	}
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := NewLexerFromReader(strings.NewReader(data))
		b.StartTimer()

		benchResult = l.RunBlocking()
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
