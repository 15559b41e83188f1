package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type OrderHandler struct{}

func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// ListOrders godoc
//
//	@Summary		List my orders
//	@Tags			Orders
//	@Produce		json
//	@Success		200	{array}		models.Order
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		orders, err := sess.Store.Orders.FetchAll(r.Context())
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Order ID")
		if !ok {
			return
		}

		order, err := sess.Store.Orders.FetchByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get order", slog.String("orderId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// CancelOrder godoc
//
//	@Summary		Cancel an order
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	models.Order
//	@Failure		400	{object}	response.ErrorResponse	"Order can no longer be cancelled"
//	@Router			/orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Order ID")
		if !ok {
			return
		}

		order, err := sess.Store.Orders.Cancel(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to cancel order", slog.String("orderId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order cancelled", slog.String("orderId", id))
		response.Success(w, http.StatusOK, order)
	}
}
