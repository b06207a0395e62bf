package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/xpathlite/internal/token"
)

func TestTokenString(t *testing.T) {
	tok := token.Token{Type: token.NAME, Lexeme: "foo", Start: 3, End: 6}
	assert.Equal(t, `NAME("foo")@3:6`, tok.String())
}

func TestKeywordsTableCoversForLetReturn(t *testing.T) {
	for _, kw := range []string{"for", "let", "return", "some", "every", "satisfies", "if", "then", "else"} {
		typ, ok := token.Keywords[kw]
		assert.True(t, ok, kw)
		assert.Equal(t, token.Type(kw), typ)
	}
}

func TestAxesTableHasThirteenAxes(t *testing.T) {
	assert.Len(t, token.Axes, 13)
	assert.Contains(t, token.Axes, "child")
	assert.Contains(t, token.Axes, "namespace")
}

func TestKindTestsTableCoversNodeAndItemKinds(t *testing.T) {
	for _, k := range []string{"node", "text", "comment", "element", "attribute", "document-node", "item", "empty-sequence", "function", "map", "array"} {
		assert.True(t, token.KindTests[k], k)
	}
	assert.False(t, token.KindTests["bogus"])
}
