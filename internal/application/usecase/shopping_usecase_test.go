// internal/application/usecase/shopping_usecase_test.go
package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop/internal/application/usecase"
	itemdom "sweetshop/internal/domain/item"
	"sweetshop/internal/store"
)

func newShopping(t *testing.T) (*usecase.ShoppingUsecase, *store.CartStore) {
	t.Helper()

	catalog := store.NewCatalogStore()
	catalog.SetAll([]itemdom.Item{
		{ID: "a", Name: "Gum Drop", Category: "Gummy", Price: 2.5, Quantity: 10, Image: "https://img/a.png"},
		{ID: "b", Name: "Choco Bar", Category: "Chocolate", Price: 4.0, Quantity: 0},
	})
	carts := store.NewCartStore()
	return usecase.NewShoppingUsecase(catalog, carts), carts
}

func TestAddToCart(t *testing.T) {
	t.Run("SnapshotsCatalogFields", func(t *testing.T) {
		uc, carts := newShopping(t)

		require.NoError(t, uc.AddToCart("a", 2))

		c := carts.Cart()
		require.Len(t, c.Lines, 1)
		assert.Equal(t, "Gum Drop", c.Lines[0].Name)
		assert.Equal(t, "https://img/a.png", c.Lines[0].Image)
		assert.InDelta(t, 2.5, c.Lines[0].Price, 1e-9)
		assert.Equal(t, 2, c.Lines[0].Quantity)
		assert.InDelta(t, 5.0, c.TotalPrice, 1e-9)
	})

	t.Run("RejectsOutOfStock", func(t *testing.T) {
		uc, carts := newShopping(t)

		err := uc.AddToCart("b", 1)
		assert.ErrorIs(t, err, usecase.ErrShoppingOutOfStock)
		assert.Empty(t, carts.Cart().Lines)
	})

	t.Run("RejectsUnknownItem", func(t *testing.T) {
		uc, _ := newShopping(t)

		assert.ErrorIs(t, uc.AddToCart("nope", 1), usecase.ErrShoppingUnknownItem)
		assert.ErrorIs(t, uc.AddToCart("  ", 1), usecase.ErrShoppingUnknownItem)
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		uc, _ := newShopping(t)

		assert.ErrorIs(t, uc.AddToCart("a", 0), usecase.ErrShoppingInvalidQuantity)
		assert.ErrorIs(t, uc.AddToCart("a", -3), usecase.ErrShoppingInvalidQuantity)
	})
}

func TestCartEditing(t *testing.T) {
	uc, carts := newShopping(t)
	require.NoError(t, uc.AddToCart("a", 3))

	require.NoError(t, uc.SetQuantity("a", 1))
	assert.Equal(t, 1, carts.Cart().Lines[0].Quantity)

	uc.RemoveFromCart("a")
	assert.Empty(t, carts.Cart().Lines)

	require.NoError(t, uc.AddToCart("a", 1))
	uc.ClearCart()
	assert.Empty(t, carts.Cart().Lines)
	assert.Zero(t, carts.Cart().TotalPrice)
}
