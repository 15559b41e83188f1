package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		string	false	"Category"
//	@Param			subCategory	query		string	false	"Sub-category"
//	@Param			sort		query		string	false	"Sort order"
//	@Param			page		query		int		false	"Page number"	minimum(1)
//	@Param			limit		query		int		false	"Page size"		minimum(1)
//	@Success		200			{object}	models.ProductList
//	@Failure		502			{object}	response.ErrorResponse	"Backend unavailable"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()

		page, err := strconv.Atoi(q.Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 0
		}

		query := models.ProductQuery{
			Category:    q.Get("category"),
			SubCategory: q.Get("subCategory"),
			Search:      q.Get("search"),
			Sort:        q.Get("sort"),
			Page:        page,
			Limit:       limit,
		}

		list, err := sess.Store.Products.Fetch(r.Context(), query)
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Products listed", slog.Int("count", len(list.Products)), slog.Int("total", list.Total))
		response.Success(w, http.StatusOK, list)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Product ID")
		if !ok {
			return
		}

		product, err := sess.Store.Products.FetchByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.String("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		q := utils.SanitizeText(r.URL.Query().Get("q"))
		if q == "" {
			response.Error(w, errors.BadRequestError("Search query is required"))
			return
		}

		products, err := sess.Store.Products.Search(r.Context(), q)
		if err != nil {
			logger.Error("Product search failed", slog.String("query", q), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// FilterProducts runs the session's current filters against the backend.
func (h *ProductHandler) FilterProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		products, err := sess.Store.Products.Filter(r.Context())
		if err != nil {
			logger.Error("Product filter failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) SetFilters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		var patch models.ProductFilterPatch
		if err := utils.DecodeJSONBody(r, &patch); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		if patch.PriceRange != nil && patch.PriceRange[0] > patch.PriceRange[1] {
			response.Error(w, errors.ValidationError("Minimum price cannot exceed maximum price"))
			return
		}

		sess.Store.Products.SetFilters(patch)

		response.Success(w, http.StatusOK, sess.Store.Products.State().Data.Filters)
	}
}

func (h *ProductHandler) ClearFilters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		sess.Store.Products.ClearFilters()

		response.Success(w, http.StatusOK, sess.Store.Products.State().Data.Filters)
	}
}

func (h *ProductHandler) ClearSelected() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		sess.Store.Products.ClearSelected()

		w.WriteHeader(http.StatusNoContent)
	}
}
