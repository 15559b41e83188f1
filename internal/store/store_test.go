package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/apiclient"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memoryTokens) Token(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.token, nil
}

func (m *memoryTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""

	return nil
}

func (m *memoryTokens) SaveToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token

	return nil
}

func newStore(t *testing.T, mux *http.ServeMux) (*store.Store, *memoryTokens) {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tokens := &memoryTokens{}
	client := apiclient.New(config.Backend{BaseURL: server.URL, Timeout: 2 * time.Second}, utils.NewValidator()).WithTokens(tokens)

	return store.New(client, tokens, nil), tokens
}

func reply(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

const cartWithTwo = `{"items":[
	{"_id":"i1","product":{"_id":"p1","name":"Tee","price":40,"images":["tee.png"]},"quantity":1,"size":"M"},
	{"_id":"i2","product":{"_id":"p2","name":"Cap","price":20,"images":[]},"quantity":2,"size":"L"}]}`

func TestAuthSlice(t *testing.T) {
	t.Run("Success - Login Persists Token", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/login", reply(`{"token":"jwt-1","user":{"_id":"u1","firstName":"Asha","lastName":"Rao","email":"asha@example.com","role":"user"}}`))

		st, tokens := newStore(t, mux)

		// Act
		user, err := st.Auth.Login(t.Context(), &models.LoginRequest{Email: "asha@example.com", Password: "pw"})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Asha Rao", user.FullName())
		assert.Equal(t, "jwt-1", tokens.token)

		snapshot := st.Snapshot()
		assert.True(t, snapshot.Auth.Data.IsAuthenticated)
		assert.False(t, snapshot.Auth.Loading)
	})

	t.Run("Failure - Bad Credentials Stored As Error", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"Invalid email or password"}`)
		})

		st, tokens := newStore(t, mux)

		// Act
		_, err := st.Auth.Login(t.Context(), &models.LoginRequest{Email: "x@y.z", Password: "nope"})

		// Assert
		require.Error(t, err)
		assert.Empty(t, tokens.token)
		assert.Equal(t, "Invalid email or password", st.Snapshot().Auth.Error)
	})

	t.Run("Failure - 401 Anywhere Signs Session Out", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/login", reply(`{"token":"jwt-1","user":{"_id":"u1","email":"a@b.co"}}`))
		mux.HandleFunc("GET /orders/myorders", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		st, tokens := newStore(t, mux)
		_, err := st.Auth.Login(t.Context(), &models.LoginRequest{Email: "a@b.co", Password: "pw"})
		require.NoError(t, err)

		// Act
		_, err = st.Orders.FetchAll(t.Context())

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "/login", appErr.Redirect)
		assert.Empty(t, tokens.token)
		assert.False(t, st.Snapshot().Auth.Data.IsAuthenticated)
	})

	t.Run("Success - First Address Becomes Default", func(t *testing.T) {
		// Arrange
		var sent models.SavedAddressInput

		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/address", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&sent)
			reply(`{"_id":"u1","email":"a@b.co","addresses":[{"_id":"a1","street":"1 Main","isDefault":true}]}`)(w, r)
		})

		st, _ := newStore(t, mux)

		// Act
		user, err := st.Auth.AddAddress(t.Context(), &models.SavedAddressInput{Street: "1 Main"})

		// Assert
		require.NoError(t, err)
		assert.True(t, sent.IsDefault)
		assert.Len(t, user.Addresses, 1)
	})

	t.Run("Success - Logout Clears Everything", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("POST /users/login", reply(`{"token":"jwt-1","user":{"_id":"u1","email":"a@b.co"}}`))
		mux.HandleFunc("GET /cart", reply(cartWithTwo))
		mux.HandleFunc("POST /users/logout", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		st, tokens := newStore(t, mux)
		_, err := st.Auth.Login(t.Context(), &models.LoginRequest{Email: "a@b.co", Password: "pw"})
		require.NoError(t, err)
		_, err = st.Cart.Fetch(t.Context())
		require.NoError(t, err)

		// Act
		st.Auth.Logout(t.Context())

		// Assert
		assert.Empty(t, tokens.token)
		snapshot := st.Snapshot()
		assert.False(t, snapshot.Auth.Data.IsAuthenticated)
		assert.True(t, snapshot.Cart.Data.IsEmpty())
	})
}

func TestCartSlice(t *testing.T) {
	t.Run("Success - Totals Equal Sum Of Lines", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("GET /cart", reply(cartWithTwo))
		st, _ := newStore(t, mux)

		// Act
		cart, err := st.Cart.Fetch(t.Context())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "80", cart.TotalAmount.String())
		assert.Equal(t, 3, st.Snapshot().Cart.Data.TotalItems)
	})

	t.Run("Success - Decrementing Last Unit Removes Item", func(t *testing.T) {
		// Arrange
		removed := false

		mux := http.NewServeMux()
		mux.HandleFunc("GET /cart", reply(cartWithTwo))
		mux.HandleFunc("DELETE /cart/i1", func(w http.ResponseWriter, r *http.Request) {
			removed = true
			reply(`{"items":[{"_id":"i2","product":{"_id":"p2","name":"Cap","price":20},"quantity":2,"size":"L"}]}`)(w, r)
		})
		mux.HandleFunc("PUT /cart/i1", func(w http.ResponseWriter, r *http.Request) {
			t.Error("quantity zero must not be sent as an update")
		})

		st, _ := newStore(t, mux)
		_, err := st.Cart.Fetch(t.Context())
		require.NoError(t, err)

		// Act
		cart, err := st.Cart.ChangeQuantity(t.Context(), "i1", -1)

		// Assert
		require.NoError(t, err)
		assert.True(t, removed)
		_, found := cart.Find("i1")
		assert.False(t, found)
		assert.Equal(t, "40", cart.TotalAmount.String())
	})

	t.Run("Success - Increment Sends New Quantity And Size", func(t *testing.T) {
		// Arrange
		var sent models.UpdateCartItemRequest

		mux := http.NewServeMux()
		mux.HandleFunc("GET /cart", reply(cartWithTwo))
		mux.HandleFunc("PUT /cart/i2", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&sent)
			reply(cartWithTwo)(w, r)
		})

		st, _ := newStore(t, mux)
		_, err := st.Cart.Fetch(t.Context())
		require.NoError(t, err)

		// Act
		_, err = st.Cart.ChangeQuantity(t.Context(), "i2", 1)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, sent.Quantity)
		assert.Equal(t, "L", sent.Size)
	})

	t.Run("Failure - Unknown Item", func(t *testing.T) {
		// Arrange
		st, _ := newStore(t, http.NewServeMux())

		// Act
		_, err := st.Cart.ChangeQuantity(t.Context(), "missing", 1)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})

	t.Run("Success - Clear After Order Survives Backend Failure", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("GET /cart", reply(cartWithTwo))
		mux.HandleFunc("DELETE /cart", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		st, _ := newStore(t, mux)
		_, err := st.Cart.Fetch(t.Context())
		require.NoError(t, err)

		// Act
		st.Cart.ClearAfterOrder(t.Context())

		// Assert
		assert.True(t, st.Cart.Current().IsEmpty())
	})

	t.Run("Success - Fetch Issued Before Order Cannot Restore Items", func(t *testing.T) {
		// Arrange
		received := make(chan struct{})
		release := make(chan struct{})

		mux := http.NewServeMux()
		mux.HandleFunc("GET /cart", func(w http.ResponseWriter, r *http.Request) {
			close(received)
			<-release
			reply(cartWithTwo)(w, r)
		})
		mux.HandleFunc("DELETE /cart", reply(`{"items":[]}`))

		st, _ := newStore(t, mux)

		fetched := make(chan error, 1)
		go func() {
			_, err := st.Cart.Fetch(context.Background())
			fetched <- err
		}()
		<-received

		// Act
		st.Cart.ClearAfterOrder(t.Context())
		close(release)
		require.NoError(t, <-fetched)

		// Assert
		snapshot := st.Snapshot().Cart
		assert.True(t, snapshot.Data.IsEmpty())
		assert.False(t, snapshot.Loading)
	})
}

func TestProductSlice(t *testing.T) {
	t.Run("Success - Filters Merge And Reset", func(t *testing.T) {
		// Arrange
		st, _ := newStore(t, http.NewServeMux())
		sortBy := "price_asc"

		// Act
		st.Products.SetFilters(models.ProductFilterPatch{Category: []string{"men"}})
		st.Products.SetFilters(models.ProductFilterPatch{SortBy: &sortBy})

		// Assert
		filters := st.Snapshot().Products.Data.Filters
		assert.Equal(t, []string{"men"}, filters.Category)
		assert.Equal(t, "price_asc", filters.SortBy)
		assert.Equal(t, [2]float64{0, 100000}, filters.PriceRange)

		st.Products.ClearFilters()
		assert.Empty(t, st.Snapshot().Products.Data.Filters.Category)
	})

	t.Run("Success - Filter Uses Current Filters", func(t *testing.T) {
		// Arrange
		var query map[string][]string

		mux := http.NewServeMux()
		mux.HandleFunc("GET /products/filter", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			reply(`[{"_id":"p1","name":"Jacket","price":120}]`)(w, r)
		})

		st, _ := newStore(t, mux)
		st.Products.SetFilters(models.ProductFilterPatch{Category: []string{"men", "winter"}})

		// Act
		products, err := st.Products.Filter(t.Context())

		// Assert
		require.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, []string{"men", "winter"}, query["category"])
		assert.Equal(t, []string{"100000"}, query["maxPrice"])
	})
}

func TestOrderSlice(t *testing.T) {
	t.Run("Success - Create Sets Status From Payment Method", func(t *testing.T) {
		// Arrange
		var sent models.CreateOrderRequest

		mux := http.NewServeMux()
		mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&sent)
			reply(`{"_id":"o1","status":"processing","totalAmount":102}`)(w, r)
		})

		st, _ := newStore(t, mux)

		// Act
		placed, err := st.Orders.Create(t.Context(), &models.CreateOrderRequest{PaymentMethod: models.PaymentMethodCashOnDelivery})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusProcessing, sent.Status)
		assert.Equal(t, "o1", placed.Order.ID)
		assert.Equal(t, "o1", st.Snapshot().Orders.Data.Selected.ID)
	})

	t.Run("Success - Cancel Replaces Order In List", func(t *testing.T) {
		// Arrange
		mux := http.NewServeMux()
		mux.HandleFunc("GET /orders/myorders", reply(`[{"_id":"o1","status":"processing"},{"_id":"o2","status":"pending"}]`))
		mux.HandleFunc("PUT /orders/o2/cancel", reply(`{"_id":"o2","status":"cancelled"}`))

		st, _ := newStore(t, mux)
		_, err := st.Orders.FetchAll(t.Context())
		require.NoError(t, err)

		// Act
		_, err = st.Orders.Cancel(t.Context(), "o2")

		// Assert
		require.NoError(t, err)
		orders := st.Snapshot().Orders.Data.Orders
		assert.Equal(t, models.OrderStatusProcessing, orders[0].Status)
		assert.Equal(t, models.OrderStatusCancelled, orders[1].Status)
	})
}

func TestWishlistSlice(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/wishlist", reply(`[]`))
	mux.HandleFunc("POST /users/wishlist", reply(`[{"_id":"p1","name":"Tee"}]`))
	mux.HandleFunc("DELETE /users/wishlist/p1", reply(`[]`))

	st, _ := newStore(t, mux)
	_, err := st.Wishlist.Fetch(t.Context())
	require.NoError(t, err)

	// Act
	added, addErr := st.Wishlist.Toggle(t.Context(), "p1")
	stillThere := st.Wishlist.Contains("p1")
	removedState, removeErr := st.Wishlist.Toggle(t.Context(), "p1")

	// Assert
	require.NoError(t, addErr)
	require.NoError(t, removeErr)
	assert.True(t, added)
	assert.True(t, stillThere)
	assert.False(t, removedState)
	assert.False(t, st.Wishlist.Contains("p1"))
}

func TestAdminSlice(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/products", reply(`[{"_id":"p1","name":"Tee","price":10}]`))
	mux.HandleFunc("POST /admin/products", reply(`{"_id":"p2","name":"Cap","price":5}`))
	mux.HandleFunc("PUT /admin/products/p1", reply(`{"_id":"p1","name":"Tee v2","price":12}`))
	mux.HandleFunc("DELETE /admin/products/p2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /admin/orders", reply(`[{"_id":"o1","status":"pending"}]`))
	mux.HandleFunc("PUT /admin/orders/o1/status", reply(`{"_id":"o1","status":"shipped"}`))

	st, _ := newStore(t, mux)
	ctx := t.Context()

	// Act
	_, err := st.Admin.FetchProducts(ctx)
	require.NoError(t, err)
	_, err = st.Admin.CreateProduct(ctx, &models.ProductInput{Name: "Cap", Price: 5, Category: "acc"})
	require.NoError(t, err)
	_, err = st.Admin.UpdateProduct(ctx, "p1", &models.ProductInput{Name: "Tee v2", Price: 12, Category: "men"})
	require.NoError(t, err)
	require.NoError(t, st.Admin.DeleteProduct(ctx, "p2"))
	_, err = st.Admin.FetchOrders(ctx)
	require.NoError(t, err)
	_, err = st.Admin.UpdateOrderStatus(ctx, "o1", models.OrderStatusShipped)
	require.NoError(t, err)

	// Assert
	state := st.Snapshot().Admin.Data
	require.Len(t, state.Products, 1)
	assert.Equal(t, "Tee v2", state.Products[0].Name)
	assert.Equal(t, models.OrderStatusShipped, state.Orders[0].Status)
}
