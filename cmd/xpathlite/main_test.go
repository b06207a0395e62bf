package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/xdm"
)

func TestNsFlagsSetParsesPrefixEqualsURI(t *testing.T) {
	n := nsFlags{}
	require.NoError(t, n.Set("x=urn:example"))
	uri, ok := n.resolver()("x")
	require.True(t, ok)
	assert.Equal(t, "urn:example", uri)

	_, ok = n.resolver()("y")
	assert.False(t, ok)
}

func TestNsFlagsSetRejectsMissingEquals(t *testing.T) {
	n := nsFlags{}
	err := n.Set("bogus")
	require.Error(t, err)
}

func TestReadInputsRejectsDoubleStdin(t *testing.T) {
	_, _, err := readInputs("", "")
	require.Error(t, err)
}

func TestReadInputsLoadsExprFlagAndXMLFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "doc-*.xml")
	require.NoError(t, err)
	_, err = f.WriteString(`<root><a>1</a></root>`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	expr, root, err := readInputs(" /root/a ", f.Name())
	require.NoError(t, err)
	assert.Equal(t, "/root/a", expr)
	require.NotNil(t, root)
}

func TestPrintSequenceWritesAtomicsAndNodeStringValues(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	printSequence(xdm.Sequence{xdm.NewString(xdm.KString, "hi"), xdm.NewInteger(3)})

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	os.Stdout = orig
	assert.Equal(t, "hi\n3\n", string(out))
}
