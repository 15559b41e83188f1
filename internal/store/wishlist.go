package store

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type WishlistState struct {
	Items []models.Product `json:"items"`
}

func (w WishlistState) clone() WishlistState {
	return WishlistState{Items: cloneProducts(w.Items)}
}

func (w WishlistState) contains(productID string) bool {
	for _, item := range w.Items {
		if item.ID == productID {
			return true
		}
	}

	return false
}

type WishlistSlice struct {
	*Slice[WishlistState]
	st  *Store
	api WishlistAPI
}

func newWishlistSlice(st *Store, api WishlistAPI) *WishlistSlice {
	return &WishlistSlice{
		Slice: NewSlice("wishlist", func() WishlistState { return WishlistState{Items: []models.Product{}} }, WishlistState.clone),
		st:    st,
		api:   api,
	}
}

func (w *WishlistSlice) set(state *WishlistState, items []models.Product) {
	state.Items = cloneProducts(items)
}

func (w *WishlistSlice) Fetch(ctx context.Context) ([]models.Product, error) {
	return run(ctx, w.st, w.Slice, w.api.GetWishlist, w.set)
}

func (w *WishlistSlice) Add(ctx context.Context, productID string) ([]models.Product, error) {
	return run(ctx, w.st, w.Slice, func(ctx context.Context) ([]models.Product, error) {
		return w.api.AddToWishlist(ctx, productID)
	}, w.set)
}

func (w *WishlistSlice) Remove(ctx context.Context, productID string) ([]models.Product, error) {
	return run(ctx, w.st, w.Slice, func(ctx context.Context) ([]models.Product, error) {
		return w.api.RemoveFromWishlist(ctx, productID)
	}, w.set)
}

// Toggle adds the product when absent and removes it otherwise. It reports
// whether the product is wishlisted afterwards.
func (w *WishlistSlice) Toggle(ctx context.Context, productID string) (bool, error) {
	if w.Contains(productID) {
		_, err := w.Remove(ctx, productID)
		return false, err
	}

	_, err := w.Add(ctx, productID)

	return err == nil, err
}

func (w *WishlistSlice) Contains(productID string) bool {
	var found bool

	w.Read(func(state WishlistState) { found = state.contains(productID) })

	return found
}
