package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	validator *validator.Validate
}

func NewCartHandler(validate *validator.Validate) *CartHandler {
	return &CartHandler{validator: validate}
}

// GetCart godoc
//
//	@Summary		Get the cart
//	@Description	Fetches the signed-in user's cart and recomputes its totals.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		cart, err := sess.Store.Cart.Fetch(r.Context())
		if err != nil {
			logger.Error("Failed to fetch cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//
//	@Summary		Add to cart
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddToCartRequest	true	"Item"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := sess.Store.Cart.Add(r.Context(), req.ProductID, req.Quantity, req.Size)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.String("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("productId", req.ProductID), slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateItem sets an item's quantity; zero removes it.
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		itemID, ok := pathValue(w, r, "itemId", "Item ID")
		if !ok {
			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := sess.Store.Cart.Update(r.Context(), itemID, req.Quantity)
		if err != nil {
			logger.Error("Failed to update cart item", slog.String("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ChangeQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		itemID, ok := pathValue(w, r, "itemId", "Item ID")
		if !ok {
			return
		}

		var req models.ChangeQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		cart, err := sess.Store.Cart.ChangeQuantity(r.Context(), itemID, req.Delta)
		if err != nil {
			logger.Warn("Failed to change item quantity", slog.String("itemId", itemID), slog.Int("delta", req.Delta), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		itemID, ok := pathValue(w, r, "itemId", "Item ID")
		if !ok {
			return
		}

		cart, err := sess.Store.Cart.Remove(r.Context(), itemID)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("itemId", itemID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		if err := sess.Store.Cart.Clear(r.Context()); err != nil {
			logger.Error("Failed to clear cart", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, sess.Store.Cart.Current())
	}
}
