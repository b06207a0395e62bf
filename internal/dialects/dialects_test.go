package dialects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/xpathlite/internal/dialects"
)

func TestForReturnsDistinctProfilesSharedRegistry(t *testing.T) {
	v10 := dialects.For(dialects.V10)
	v31 := dialects.For(dialects.V31)

	assert.False(t, v10.Profile.MapsAndArrays)
	assert.True(t, v31.Profile.MapsAndArrays)
	assert.Same(t, v10.Registry, v31.Registry)
}

func TestForDefaultsToV31ForUnrecognizedVersion(t *testing.T) {
	d := dialects.For(dialects.Version("9.9"))
	assert.Equal(t, dialects.V31, d.Version)
}

func TestRecognized(t *testing.T) {
	assert.True(t, dialects.Recognized(dialects.V10))
	assert.True(t, dialects.Recognized(dialects.V20))
	assert.True(t, dialects.Recognized(dialects.V30))
	assert.True(t, dialects.Recognized(dialects.V31))
	assert.False(t, dialects.Recognized(dialects.Version("2.5")))
}

func TestParseResolvesPrefixedNames(t *testing.T) {
	d := dialects.For(dialects.V20)
	ns := func(prefix string) (string, bool) {
		if prefix == "m" {
			return "urn:example:math", true
		}
		return "", false
	}
	tree, err := d.Parse("m:foo(1)", ns)
	require.NoError(t, err)
	require.NotNil(t, tree)
}

func TestParseRejectsUnresolvablePrefix(t *testing.T) {
	d := dialects.For(dialects.V20)
	_, err := d.Parse("m:foo(1)", nil)
	assert.Error(t, err)
}

func TestParseRejects10OnlyProfileFor31Syntax(t *testing.T) {
	d := dialects.For(dialects.V10)
	_, err := d.Parse(`map{"a": 1}`, nil)
	assert.Error(t, err)
}
