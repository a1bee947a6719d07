package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree_ParentsPrecedeChildren(t *testing.T) {
	seen := map[string]bool{}
	for _, node := range categoryTree {
		if node.parent != "" {
			assert.True(t, seen[node.parent], "%s listed before its parent %s", node.name, node.parent)
		}
		seen[node.name] = true
	}
}

func TestCatalog_EveryProductHasAKnownCategoryAndPrice(t *testing.T) {
	categories := map[string]bool{}
	for _, node := range categoryTree {
		categories[node.name] = true
	}

	names := map[string]bool{}
	for _, seed := range catalog {
		assert.True(t, categories[seed.category], "unknown category %s", seed.category)
		assert.False(t, names[seed.name], "duplicate product %s", seed.name)
		names[seed.name] = true

		product, err := seed.product(1, 2, 3)
		require.NoError(t, err)
		assert.True(t, product.UnitPrice.IsPositive())
	}
}

func TestProductSeed_DiscountOnlyWhenFlagged(t *testing.T) {
	discounted, err := productSeed{name: "A", price: "10.00", discounted: true}.product(1, 2, 3)
	require.NoError(t, err)
	require.NotNil(t, discounted.DiscountID)
	assert.Equal(t, int64(3), *discounted.DiscountID)

	plain, err := productSeed{name: "B", price: "10.00"}.product(1, 2, 3)
	require.NoError(t, err)
	assert.Nil(t, plain.DiscountID)
	assert.True(t, strings.HasSuffix(plain.Image, ".jpg"))
	assert.NotEqual(t, discounted.Image, plain.Image)

	_, err = productSeed{name: "C", price: "ten"}.product(1, 2, 3)
	assert.Error(t, err)
}
