package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// AdminHandler serves the back-office routes. Every route is mounted behind
// RequireAdmin.
type AdminHandler struct {
	validator *validator.Validate
}

func NewAdminHandler(validate *validator.Validate) *AdminHandler {
	return &AdminHandler{validator: validate}
}

// Dashboard godoc
//
//	@Summary		Dashboard statistics
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	models.DashboardStats
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Router			/admin/dashboard [get]
func (h *AdminHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		stats, err := sess.Store.Admin.FetchDashboard(r.Context())
		if err != nil {
			logger.Error("Failed to fetch dashboard stats", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, stats)
	}
}

func (h *AdminHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		users, err := sess.Store.Admin.FetchUsers(r.Context())
		if err != nil {
			logger.Error("Failed to list users", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, users)
	}
}

func (h *AdminHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		products, err := sess.Store.Admin.FetchProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *AdminHandler) parseProduct(w http.ResponseWriter, r *http.Request) (*models.ProductInput, bool) {
	var req models.ProductInput
	if !utils.ParseAndValidate(r, w, &req, h.validator) {
		return nil, false
	}

	req.Name = utils.SanitizeText(req.Name)
	req.Description = utils.SanitizeText(req.Description)
	req.Category = utils.SanitizeText(req.Category)
	req.SubCategory = utils.SanitizeText(req.SubCategory)

	return &req, true
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.ProductInput	true	"Product"
//	@Success		201		{object}	models.Product
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		403		{object}	response.ErrorResponse	"Admin access required"
//	@Router			/admin/products [post]
func (h *AdminHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		req, ok := h.parseProduct(w, r)
		if !ok {
			return
		}

		product, err := sess.Store.Admin.CreateProduct(r.Context(), req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("name", req.Name), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *AdminHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Product ID")
		if !ok {
			return
		}

		req, ok := h.parseProduct(w, r)
		if !ok {
			return
		}

		product, err := sess.Store.Admin.UpdateProduct(r.Context(), id, req)
		if err != nil {
			logger.Error("Failed to update product", slog.String("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("productId", id))
		response.Success(w, http.StatusOK, product)
	}
}

func (h *AdminHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Product ID")
		if !ok {
			return
		}

		if err := sess.Store.Admin.DeleteProduct(r.Context(), id); err != nil {
			logger.Error("Failed to delete product", slog.String("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product deleted", slog.String("productId", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AdminHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		orders, err := sess.Store.Admin.FetchOrders(r.Context())
		if err != nil {
			logger.Error("Failed to list orders", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// UpdateOrderStatus godoc
//
//	@Summary		Update order status
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID"
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New status"
//	@Success		200		{object}	models.Order
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Router			/admin/orders/{id}/status [put]
func (h *AdminHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Order ID")
		if !ok {
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := sess.Store.Admin.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status", slog.String("orderId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id), slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
