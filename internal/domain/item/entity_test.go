// internal/domain/item/entity_test.go
package item_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sweetshop/internal/domain/item"
)

func TestValidate(t *testing.T) {
	valid := item.Item{Name: "Gum Drop", Price: 2.5, Quantity: 5}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, item.Item{Name: " ", Price: 1}.Validate(), item.ErrInvalidName)
	assert.ErrorIs(t, item.Item{Name: "x", Price: -0.01}.Validate(), item.ErrInvalidPrice)
	assert.ErrorIs(t, item.Item{Name: "x", Quantity: -1}.Validate(), item.ErrInvalidQuantity)
}

func TestMatches(t *testing.T) {
	it := item.Item{Name: "Choco Bar", Description: "dark chocolate", Category: "Chocolate"}

	t.Run("SearchIsCaseInsensitiveSubstring", func(t *testing.T) {
		assert.True(t, it.Matches("choc", item.CategoryAll))
		assert.True(t, it.Matches("CHOCO", item.CategoryAll))
		assert.True(t, it.Matches("dark", item.CategoryAll)) // description too
		assert.False(t, it.Matches("gummy", item.CategoryAll))
	})

	t.Run("CategoryIsExact", func(t *testing.T) {
		assert.True(t, it.Matches("", "Chocolate"))
		assert.False(t, it.Matches("", "chocolate"))
		assert.True(t, it.Matches("", item.CategoryAll))
		assert.True(t, it.Matches("", "")) // empty behaves as all
	})

	t.Run("BothFiltersMustPass", func(t *testing.T) {
		assert.True(t, it.Matches("bar", "Chocolate"))
		assert.False(t, it.Matches("bar", "Gummy"))
	})
}

func TestCategories(t *testing.T) {
	items := []item.Item{
		{ID: "1", Category: "Gummy"},
		{ID: "2", Category: "Chocolate"},
		{ID: "3", Category: "Gummy"},
		{ID: "4", Category: ""},
	}
	assert.Equal(t, []string{"all", "Gummy", "Chocolate"}, item.Categories(items))
}

func TestInStock(t *testing.T) {
	assert.True(t, item.Item{Quantity: 1}.InStock())
	assert.False(t, item.Item{Quantity: 0}.InStock())
}
