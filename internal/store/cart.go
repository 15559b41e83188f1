package store

import (
	"context"
	"log/slog"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type CartSlice struct {
	*Slice[models.Cart]
	st  *Store
	api CartAPI
}

func newCartSlice(st *Store, api CartAPI) *CartSlice {
	return &CartSlice{
		Slice: NewSlice("cart", func() models.Cart { return models.NewCart(nil) }, models.Cart.Clone),
		st:    st,
		api:   api,
	}
}

func (c *CartSlice) replace(cart *models.Cart, next *models.Cart) {
	*cart = next.Clone()
	cart.Recalculate()
}

func (c *CartSlice) Fetch(ctx context.Context) (*models.Cart, error) {
	return run(ctx, c.st, c.Slice, c.api.GetCart, c.replace)
}

func (c *CartSlice) Add(ctx context.Context, productID string, quantity int, size string) (*models.Cart, error) {
	req := &models.AddToCartRequest{ProductID: productID, Quantity: quantity, Size: size}

	return run(ctx, c.st, c.Slice, func(ctx context.Context) (*models.Cart, error) {
		return c.api.AddToCart(ctx, req)
	}, c.replace)
}

// Update sets an item's quantity. A quantity below one removes the item.
func (c *CartSlice) Update(ctx context.Context, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return c.Remove(ctx, itemID)
	}

	item, ok := c.find(itemID)

	req := &models.UpdateCartItemRequest{Quantity: quantity}
	if ok {
		req.Size = item.Size
	}

	return run(ctx, c.st, c.Slice, func(ctx context.Context) (*models.Cart, error) {
		return c.api.UpdateCartItem(ctx, itemID, req)
	}, c.replace)
}

// ChangeQuantity adjusts an item by delta relative to the current state.
func (c *CartSlice) ChangeQuantity(ctx context.Context, itemID string, delta int) (*models.Cart, error) {
	item, ok := c.find(itemID)
	if !ok {
		return nil, appErrors.NotFoundError("Item not found in cart")
	}

	return c.Update(ctx, itemID, item.Quantity+delta)
}

func (c *CartSlice) Remove(ctx context.Context, itemID string) (*models.Cart, error) {
	return run(ctx, c.st, c.Slice, func(ctx context.Context) (*models.Cart, error) {
		return c.api.RemoveFromCart(ctx, itemID)
	}, c.replace)
}

func (c *CartSlice) Clear(ctx context.Context) error {
	return exec(ctx, c.st, c.Slice, c.api.ClearCart, func(cart *models.Cart) {
		*cart = models.NewCart(nil)
	})
}

// ClearAfterOrder empties the cart once an order is confirmed. The local cart
// is cleared even if the backend call fails, since the order already exists,
// and cart responses requested before the order are dropped.
func (c *CartSlice) ClearAfterOrder(ctx context.Context) {
	c.Slice.Supersede(func(cart *models.Cart) { *cart = models.NewCart(nil) })

	if err := c.api.ClearCart(ctx); err != nil {
		c.st.logger.Warn("Backend cart clear failed after order", slog.String("error", err.Error()))
	}
}

// Current returns a copy of the cart as it stands.
func (c *CartSlice) Current() models.Cart {
	var cart models.Cart

	c.Read(func(data models.Cart) { cart = data.Clone() })

	return cart
}

func (c *CartSlice) find(itemID string) (models.CartItem, bool) {
	var (
		item  models.CartItem
		found bool
	)

	c.Read(func(cart models.Cart) { item, found = cart.Find(itemID) })

	return item, found
}
