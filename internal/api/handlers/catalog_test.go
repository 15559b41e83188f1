package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler(t *testing.T) {
	handler := handlers.NewProductHandler()

	t.Run("Success - List Forwards Query", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)

		var forwarded string
		backend.handle("GET /products", func(w http.ResponseWriter, r *http.Request) {
			forwarded = r.URL.RawQuery
			_, _ = w.Write([]byte(`{"products":[{"_id":"p1","name":"Linen Shirt","price":"60"}],"total":1,"page":2,"pages":2}`))
		})
		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/products?category=men&page=2&limit=500", nil, sess, nil)

		// Act
		rr := serve(handler.ListProducts(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Contains(t, forwarded, "category=men")
		assert.Contains(t, forwarded, "page=2")
		assert.NotContains(t, forwarded, "limit")

		state := sess.Store.Products.State()
		assert.Len(t, state.Data.Products, 1)
		assert.Equal(t, 2, state.Data.Pages)
	})

	t.Run("Failure - Backend Error Keeps Message", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		backend.handle("GET /products/p404", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Product not found"}`))
		})
		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/products/p404", nil, sess, map[string]string{"id": "p404"})

		// Act
		rr := serve(handler.GetProduct(), req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Product not found", decode(t, rr).Error.Message)
		assert.Equal(t, "Product not found", sess.Store.Products.State().Error)
	})

	t.Run("Failure - Empty Search", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/products/search?q=%20", nil, sess, nil)

		// Act
		rr := serve(handler.SearchProducts(), req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, backend.called("GET /products/search"))
	})

	t.Run("Success - Filters Merge Then Apply", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)

		var forwarded string
		backend.handle("GET /products/filter", func(w http.ResponseWriter, r *http.Request) {
			forwarded = r.URL.RawQuery
			_, _ = w.Write([]byte(`[]`))
		})

		set := testutils.CreateTestRequestWithSession(http.MethodPut, "/api/v1/products/filters", strings.NewReader(`{"category":["men"],"sortBy":"price"}`), sess, nil)
		filter := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/products/filter", nil, sess, nil)

		// Act
		setRR := serve(handler.SetFilters(), set)
		filterRR := serve(handler.FilterProducts(), filter)

		// Assert
		require.Equal(t, http.StatusOK, setRR.Code)
		require.Equal(t, http.StatusOK, filterRR.Code)

		var filters models.ProductFilters
		require.NoError(t, json.Unmarshal(decode(t, setRR).Data, &filters))
		assert.Equal(t, []string{"men"}, filters.Category)
		assert.Equal(t, [2]float64{0, 100000}, filters.PriceRange)
		assert.Contains(t, forwarded, "sortBy=price")
		assert.Contains(t, forwarded, "maxPrice=100000")
	})

	t.Run("Failure - Inverted Price Range", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodPut, "/api/v1/products/filters", strings.NewReader(`{"priceRange":[500,100]}`), sess, nil)

		// Act
		rr := serve(handler.SetFilters(), req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, [2]float64{0, 100000}, sess.Store.Products.State().Data.Filters.PriceRange)
	})
}

func TestCartHandler(t *testing.T) {
	handler := handlers.NewCartHandler(utils.NewValidator())

	t.Run("Success - Totals Are Recomputed", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/cart", nil, sess, nil)

		// Act
		rr := serve(handler.GetCart(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)

		var cart models.Cart
		require.NoError(t, json.Unmarshal(decode(t, rr).Data, &cart))
		assert.Equal(t, 2, cart.TotalItems)
		assert.Equal(t, "120", cart.TotalAmount.String())
	})

	t.Run("Failure - Add Without Size", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":"p1","quantity":1}`), sess, nil)

		// Act
		rr := serve(handler.AddItem(), req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decode(t, rr).Error.Fields, "size")
		assert.False(t, backend.called("POST /cart"))
	})

	t.Run("Success - Decrement To Zero Removes Item", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		_, err := sess.Store.Cart.Fetch(t.Context())
		require.NoError(t, err)

		req := testutils.CreateTestRequestWithSession(http.MethodPatch, "/api/v1/cart/items/i1", strings.NewReader(`{"delta":-2}`), sess, map[string]string{"itemId": "i1"})

		// Act
		rr := serve(handler.ChangeQuantity(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, backend.called("DELETE /cart/i1"))
	})

	t.Run("Failure - Change Unknown Item", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodPatch, "/api/v1/cart/items/i9", strings.NewReader(`{"delta":1}`), sess, map[string]string{"itemId": "i9"})

		// Act
		rr := serve(handler.ChangeQuantity(), req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Success - Clear", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodDelete, "/api/v1/cart", nil, sess, nil)

		// Act
		rr := serve(handler.ClearCart(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, backend.called("DELETE /cart"))
	})
}

func TestOrderAndWishlistHandlers(t *testing.T) {
	t.Run("Success - Cancel Replaces Listed Order", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		handler := handlers.NewOrderHandler()

		list := serve(handler.ListOrders(), testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/orders", nil, sess, nil))
		require.Equal(t, http.StatusOK, list.Code)

		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/orders/o1/cancel", nil, sess, map[string]string{"id": "o1"})

		// Act
		rr := serve(handler.CancelOrder(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		orders := sess.Store.Orders.State().Data.Orders
		require.Len(t, orders, 1)
		assert.Equal(t, models.OrderStatusCancelled, orders[0].Status)
	})

	t.Run("Failure - Missing Order ID", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/orders/", nil, sess, nil)

		// Act
		rr := serve(handlers.NewOrderHandler().GetOrder(), req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Success - Toggle Adds Absent Product", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/wishlist/p1", nil, sess, map[string]string{"productId": "p1"})

		// Act
		rr := serve(handlers.NewWishlistHandler().ToggleWishlist(), req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(decode(t, rr).Data), `"wishlisted":true`)
		assert.True(t, sess.Store.Wishlist.Contains("p1"))
		assert.Contains(t, backend.body("POST /users/wishlist"), `"p1"`)
	})
}

func TestAdminHandler(t *testing.T) {
	handler := handlers.NewAdminHandler(utils.NewValidator())

	t.Run("Success - Dashboard", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		backend.role = "admin"
		sess := signedIn(t, backend)
		backend.handle("GET /admin/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"totalUsers":3,"totalOrders":5,"totalProducts":8,"totalRevenue":"990.50"}`))
		})

		// Act
		rr := serve(handler.Dashboard(), testutils.CreateTestRequestWithSession(http.MethodGet, "/api/v1/admin/dashboard", nil, sess, nil))

		// Assert
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var stats models.DashboardStats
		require.NoError(t, json.Unmarshal(decode(t, rr).Data, &stats))
		assert.Equal(t, 5, stats.TotalOrders)
		assert.Equal(t, "990.5", stats.TotalRevenue.String())
	})

	t.Run("Failure - Invalid Product", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		body := `{"name":"ab","price":0,"category":"men","stock":1}`

		// Act
		rr := serve(handler.CreateProduct(), testutils.CreateTestRequestWithSession(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body), sess, nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		fields := decode(t, rr).Error.Fields
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "price")
		assert.False(t, backend.called("POST /admin/products"))
	})

	t.Run("Failure - Unknown Order Status", func(t *testing.T) {
		// Arrange
		backend := newFakeBackend(t)
		sess := signedIn(t, backend)
		req := testutils.CreateTestRequestWithSession(http.MethodPut, "/api/v1/admin/orders/o1/status", strings.NewReader(`{"status":"lost"}`), sess, map[string]string{"id": "o1"})

		// Act
		rr := serve(handler.UpdateOrderStatus(), req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
