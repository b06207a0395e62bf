package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/adapter/simple"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "element", adapter.Element.String())
	assert.Equal(t, "document-node", adapter.Document.String())
	assert.Equal(t, "unknown", adapter.Kind(99).String())
}

func TestPositionLessOrdersByDocThenSeq(t *testing.T) {
	a := adapter.Position{Doc: 1, Seq: 5}
	b := adapter.Position{Doc: 1, Seq: 6}
	c := adapter.Position{Doc: 2, Seq: 0}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, b.Less(c))
}

func TestSimpleNodeTreeShape(t *testing.T) {
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	doc.SetAttribute(root, "id", "1")
	child := doc.AddElement(root, "child")
	doc.AddText(child, "hello")

	var n adapter.Node = root
	require.Equal(t, adapter.Element, n.Kind())
	require.Len(t, n.Attributes(), 1)
	assert.Equal(t, "id", n.Attributes()[0].Name().Local)
	assert.Equal(t, "1", n.Attributes()[0].StringValue())

	require.Len(t, n.Children(), 1)
	assert.Equal(t, "hello", n.StringValue())
	assert.Equal(t, n, n.Children()[0].Parent())
}

func TestSimpleDocumentPositionOrdersInPreorder(t *testing.T) {
	doc := simple.NewDocument()
	a := doc.AddElement(nil, "a")
	b := doc.AddElement(nil, "b")
	assert.True(t, a.DocumentPosition().Less(b.DocumentPosition()))
}

func TestSimpleNamespaceNode(t *testing.T) {
	doc := simple.NewDocument()
	root := doc.AddElement(nil, "root")
	doc.AddNamespace(root, "x", "urn:example")
	require.Len(t, root.Namespaces(), 1)
	ns := root.Namespaces()[0]
	assert.Equal(t, "x", ns.Name().Local)
	assert.Equal(t, "urn:example", ns.StringValue())
}
