package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

func TestSame(t *testing.T) {
	assert.True(t, Same(types.CollectionURI, types.CollectionURI+"/"))
	assert.True(t, Same(types.ItemURI(4), types.ItemURI(4)+"?x=1"))
	assert.False(t, Same(types.ItemURI(4), types.ItemURI(5)))
	assert.False(t, Same(types.CollectionURI, types.ItemURI(4)))
	assert.False(t, Same("content://a/productions", "content://b/productions"))
	assert.False(t, Same("", ""))
}

func TestIsAncestor(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"collection encloses item", types.CollectionURI, types.ItemURI(1), true},
		{"base encloses item", types.BaseURI, types.ItemURI(1), true},
		{"item does not enclose collection", types.ItemURI(1), types.CollectionURI, false},
		{"not its own ancestor", types.CollectionURI, types.CollectionURI, false},
		{"sibling", types.ItemURI(1), types.ItemURI(2), false},
		{"segment prefix only", "content://a/prod", "content://a/productions/1", false},
		{"different authority", "content://a/productions", "content://b/productions/1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAncestor(tt.a, tt.b))
		})
	}
}
