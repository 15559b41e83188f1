package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type WishlistHandler struct{}

func NewWishlistHandler() *WishlistHandler {
	return &WishlistHandler{}
}

type wishlistToggle struct {
	ProductID  string `json:"productId"`
	Wishlisted bool   `json:"wishlisted"`
}

func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		items, err := sess.Store.Wishlist.Fetch(r.Context())
		if err != nil {
			logger.Error("Failed to fetch wishlist", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, items)
	}
}

// ToggleWishlist godoc
//
//	@Summary		Toggle a wishlist entry
//	@Description	Adds the product when it is not wishlisted and removes it otherwise.
//	@Tags			Wishlist
//	@Produce		json
//	@Param			productId	path		string	true	"Product ID"
//	@Success		200			{object}	handlers.wishlistToggle
//	@Router			/wishlist/{productId} [post]
func (h *WishlistHandler) ToggleWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		productID, ok := pathValue(w, r, "productId", "Product ID")
		if !ok {
			return
		}

		wishlisted, err := sess.Store.Wishlist.Toggle(r.Context(), productID)
		if err != nil {
			logger.Error("Failed to toggle wishlist", slog.String("productId", productID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, wishlistToggle{ProductID: productID, Wishlisted: wishlisted})
	}
}
