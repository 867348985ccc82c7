// internal/application/usecase/shopping_usecase.go
package usecase

import (
	"errors"
	"strings"

	cartdom "sweetshop/internal/domain/cart"
	"sweetshop/internal/store"
)

var (
	ErrShoppingInvalidQuantity = errors.New("shopping_usecase: quantity must be a positive integer")
	ErrShoppingUnknownItem     = errors.New("shopping_usecase: unknown catalog item")
	ErrShoppingOutOfStock      = errors.New("shopping_usecase: item is out of stock")
)

// ShoppingUsecase is the add-to-cart caller contract. The cart store does
// not validate stock or quantity; this layer rejects a non-positive qty and
// an out-of-stock item before anything is dispatched, and builds the
// add-time name/price/image snapshot from the catalog's committed state.
type ShoppingUsecase struct {
	catalog *store.CatalogStore
	carts   *store.CartStore
}

func NewShoppingUsecase(catalog *store.CatalogStore, carts *store.CartStore) *ShoppingUsecase {
	return &ShoppingUsecase{catalog: catalog, carts: carts}
}

// AddToCart adds qty of the catalog item to the cart.
func (uc *ShoppingUsecase) AddToCart(itemID string, qty int) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return ErrShoppingUnknownItem
	}
	if qty < 1 {
		return ErrShoppingInvalidQuantity
	}

	for _, it := range uc.catalog.Items() {
		if it.ID != id {
			continue
		}
		if !it.InStock() {
			return ErrShoppingOutOfStock
		}
		return uc.carts.AddItem(cartdom.Line{
			ItemID: it.ID,
			Name:   it.Name,
			Price:  it.Price,
			Image:  it.Image,
		}, qty)
	}
	return ErrShoppingUnknownItem
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line.
func (uc *ShoppingUsecase) SetQuantity(itemID string, qty int) error {
	return uc.carts.SetQuantity(itemID, qty)
}

// RemoveFromCart drops the line for the item id.
func (uc *ShoppingUsecase) RemoveFromCart(itemID string) {
	uc.carts.RemoveItem(itemID)
}

// ClearCart empties the cart.
func (uc *ShoppingUsecase) ClearCart() {
	uc.carts.Clear()
}
