package xmlio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/adapter"
	"github.com/funvibe/xpathlite/internal/xmlio"
)

func TestLoadBuildsElementTree(t *testing.T) {
	src := `<?xml version="1.0"?>
<bookstore>
  <book category="fiction">
    <title>The Great Gatsby</title>
  </book>
  <!-- a note -->
</bookstore>`

	root, err := xmlio.Load(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, adapter.Document, root.Kind())

	children := root.Children()
	require.Len(t, children, 1)

	bookstore := children[0]
	assert.Equal(t, "bookstore", bookstore.Name().Local)
	assert.Equal(t, adapter.Element, bookstore.Kind())

	var book, comment adapter.Node
	for _, c := range bookstore.Children() {
		switch c.Kind() {
		case adapter.Element:
			book = c
		case adapter.Comment:
			comment = c
		}
	}
	require.NotNil(t, book)
	require.NotNil(t, comment)
	assert.Equal(t, " a note ", comment.StringValue())

	require.Len(t, book.Attributes(), 1)
	assert.Equal(t, "category", book.Attributes()[0].Name().Local)
	assert.Equal(t, "fiction", book.Attributes()[0].StringValue())

	assert.Equal(t, "The Great Gatsby", strings.TrimSpace(book.StringValue()))
}

func TestLoadRegistersNamespaceDeclarations(t *testing.T) {
	src := `<root xmlns:a="urn:example:a"><a:child/></root>`
	root, err := xmlio.Load(strings.NewReader(src))
	require.NoError(t, err)

	rootElem := root.Children()[0]
	require.Len(t, rootElem.Namespaces(), 1)
	assert.Equal(t, "a", rootElem.Namespaces()[0].Name().Local)
	assert.Equal(t, "urn:example:a", rootElem.Namespaces()[0].StringValue())

	child := rootElem.Children()[0]
	assert.Equal(t, "urn:example:a", child.Name().URI)
}

func TestLoadRejectsMalformedXML(t *testing.T) {
	_, err := xmlio.Load(strings.NewReader("<unclosed>"))
	assert.Error(t, err)
}
