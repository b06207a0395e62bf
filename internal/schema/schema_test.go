package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/funvibe/xpathlite/internal/schema"
	"github.com/funvibe/xpathlite/internal/xdm"
)

func TestNoneElementTypeMisses(t *testing.T) {
	var s schema.Schema = schema.None{}
	_, ok := s.ElementType(schema.QName{Local: "foo"})
	assert.False(t, ok)
}

func TestNoneAttributeTypeMisses(t *testing.T) {
	var s schema.Schema = schema.None{}
	_, ok := s.AttributeType(schema.QName{URI: "urn:x", Local: "bar"})
	assert.False(t, ok)
}

func TestNoneIsDerivedFallsBackToSubtypeLattice(t *testing.T) {
	var s schema.Schema = schema.None{}
	assert.True(t, s.IsDerived(xdm.KInteger, xdm.KDecimal))
	assert.False(t, s.IsDerived(xdm.KString, xdm.KInteger))
}
