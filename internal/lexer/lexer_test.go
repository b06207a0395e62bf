package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/lexer"
	"github.com/funvibe/xpathlite/internal/token"
)

func tokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := lexer.New(src)
	var out []token.Token
	for {
		tok, err := l.NextToken()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestSimplePath(t *testing.T) {
	toks := tokens(t, "/a/b")
	require.Len(t, toks, 5)
	assert.Equal(t, token.SLASH, toks[0].Type)
	assert.Equal(t, token.NAME, toks[1].Type)
	assert.Equal(t, "a", toks[1].Lexeme)
	assert.Equal(t, token.SLASH, toks[2].Type)
	assert.Equal(t, token.NAME, toks[3].Type)
	assert.Equal(t, "b", toks[3].Lexeme)
	assert.Equal(t, token.EOF, toks[4].Type)
}

func TestMultiCharOperators(t *testing.T) {
	cases := map[string]token.Type{
		"//": token.DSLASH,
		"..": token.DDOT,
		"::": token.DCOLON,
		":=": token.ASSIGN,
		"!=": token.NE,
		"<=": token.LE,
		"<<": token.PRECEDES,
		">=": token.GE,
		">>": token.FOLLOWS,
		"=>": token.ARROW,
		"||": token.DPIPE,
	}
	for src, want := range cases {
		toks := tokens(t, src)
		require.Len(t, toks, 2, src)
		assert.Equal(t, want, toks[0].Type, src)
	}
}

func TestVarRef(t *testing.T) {
	toks := tokens(t, "$foo:bar")
	require.Len(t, toks, 2)
	assert.Equal(t, token.VARREF, toks[0].Type)
	assert.Equal(t, "foo:bar", toks[0].Lexeme)
}

func TestStringLiteralWithEscapedQuote(t *testing.T) {
	toks := tokens(t, `'it''s'`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Type)
	assert.Equal(t, "it's", toks[0].Literal)
}

func TestNumberLiterals(t *testing.T) {
	toks := tokens(t, "42 3.14 1.5e10")
	require.Len(t, toks, 4)
	assert.Equal(t, token.INTEGER, toks[0].Type)
	assert.Equal(t, token.DECIMAL, toks[1].Type)
	assert.Equal(t, token.DOUBLE, toks[2].Type)
}

func TestNestedComment(t *testing.T) {
	toks := tokens(t, "1 (: outer (: inner :) still outer :) + 2")
	require.Len(t, toks, 4)
	assert.Equal(t, token.INTEGER, toks[0].Type)
	assert.Equal(t, token.PLUS, toks[1].Type)
	assert.Equal(t, token.INTEGER, toks[2].Type)
}

func TestUnterminatedCommentErrors(t *testing.T) {
	l := lexer.New("1 (: never closes")
	_, err := l.NextToken()
	require.NoError(t, err)
	_, err = l.NextToken()
	require.Error(t, err)
}

func TestUnterminatedStringErrors(t *testing.T) {
	l := lexer.New(`"never closes`)
	_, err := l.NextToken()
	require.Error(t, err)
}

func TestInvalidCharacterErrors(t *testing.T) {
	l := lexer.New("1 ~ 2")
	_, err := l.NextToken()
	require.NoError(t, err)
	_, err = l.NextToken()
	require.Error(t, err)
}

func TestQNameExpandedForm(t *testing.T) {
	toks := tokens(t, "Q{http://example.com}local")
	require.Len(t, toks, 2)
	assert.Equal(t, token.NAME, toks[0].Type)
	assert.Equal(t, "Q{http://example.com}local", toks[0].Lexeme)
}

func TestWildcardNames(t *testing.T) {
	for _, src := range []string{"*", "pfx:*", "*:local"} {
		toks := tokens(t, src)
		require.Len(t, toks, 2, src)
		assert.Equal(t, token.NAME, toks[0].Type, src)
		assert.Equal(t, src, toks[0].Lexeme, src)
	}
}
