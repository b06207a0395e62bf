package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/ast"
	"github.com/funvibe/xpathlite/internal/diagnostics"
	"github.com/funvibe/xpathlite/internal/kernel"
)

func noNS(string) (string, bool) { return "", false }

func parse(t *testing.T, src string, p kernel.Profile) (ast.Node, error) {
	t.Helper()
	parser, err := kernel.New(src, p, noNS)
	require.NoError(t, err)
	return parser.ParseExpr()
}

func TestParseSimplePath(t *testing.T) {
	tree, err := parse(t, "/a/b/c", kernel.V10())
	require.NoError(t, err)
	assert.NotNil(t, tree)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	tree, err := parse(t, "1 + 2 * 3", kernel.V10())
	require.NoError(t, err)
	assert.NotNil(t, tree)
}

func TestParseRejectsUnknownTrailingToken(t *testing.T) {
	_, err := parse(t, "1 +", kernel.V10())
	require.Error(t, err)
	assert.True(t, diagnostics.Is(err, diagnostics.XPST0003))
}

func TestParseLetUnderV20IsRejected(t *testing.T) {
	_, err := parse(t, "let $x := 1 return $x", kernel.V20())
	require.Error(t, err)
	assert.True(t, diagnostics.Is(err, diagnostics.XPST0003))
}

func TestParseLetUnderV30Succeeds(t *testing.T) {
	tree, err := parse(t, "let $x := 1 return $x", kernel.V30())
	require.NoError(t, err)
	_, ok := tree.(*ast.ForLetExpr)
	require.True(t, ok)
}

func TestParseLetUnderV31Succeeds(t *testing.T) {
	tree, err := parse(t, "let $x := 1 return $x", kernel.V31())
	require.NoError(t, err)
	_, ok := tree.(*ast.ForLetExpr)
	require.True(t, ok)
}

func TestParseForUnderV20Succeeds(t *testing.T) {
	tree, err := parse(t, "for $x in (1, 2) return $x", kernel.V20())
	require.NoError(t, err)
	_, ok := tree.(*ast.ForLetExpr)
	require.True(t, ok)
}

func TestParseForUnderV10IsNotFLWORDispatched(t *testing.T) {
	// V10 has FLWOR: false, so `for` is parsed as an ordinary name/path
	// expression rather than a FLWOR binding — it is not a reserved
	// word below 2.0.
	_, err := parse(t, "for", kernel.V10())
	require.NoError(t, err)
}

func TestParseQuantifiedExpr(t *testing.T) {
	tree, err := parse(t, "some $x in (1, 2) satisfies $x = 1", kernel.V20())
	require.NoError(t, err)
	_, ok := tree.(*ast.QuantifiedExpr)
	require.True(t, ok)
}

func TestParseQuantifiedExprRequiresProfile(t *testing.T) {
	_, err := parse(t, "some $x in (1, 2) satisfies $x = 1", kernel.V10())
	require.Error(t, err)
}

func TestParseIfExpr(t *testing.T) {
	tree, err := parse(t, "if (1) then 2 else 3", kernel.V20())
	require.NoError(t, err)
	_, ok := tree.(*ast.IfExpr)
	require.True(t, ok)
}

func TestParseInlineFunctionRequires30(t *testing.T) {
	_, err := parse(t, "function($x) { $x }", kernel.V20())
	require.Error(t, err)

	tree, err := parse(t, "function($x) { $x }", kernel.V30())
	require.NoError(t, err)
	assert.NotNil(t, tree)
}

func TestParseSequenceConstructor(t *testing.T) {
	tree, err := parse(t, "1, 2, 3", kernel.V10())
	require.NoError(t, err)
	seq, ok := tree.(*ast.SequenceExpr)
	require.True(t, ok)
	assert.Len(t, seq.Operands, 3)
}
