package handlers_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/testutils"
	"github.com/stretchr/testify/require"
)

const (
	profileJSON = `{"_id":"u1","firstName":"Asha","lastName":"Rao","email":"asha@example.com","role":"%s",
		"addresses":[{"_id":"a1","street":"12 MG Road","city":"Bengaluru","state":"Karnataka","zipCode":"560001","country":"India","phone":"9876543210","isDefault":true}]}`
	cartJSON = `{"items":[{"_id":"i1","product":{"_id":"p1","name":"Linen Shirt","price":"60","images":["shirt.png"]},"quantity":2,"size":"M"}],
		"totalAmount":"1","totalItems":9}`
	orderJSON = `{"_id":"o1","items":[{"product":"p1","name":"Linen Shirt","quantity":2,"size":"M","price":"60"}],
		"paymentMethod":"%s","totalAmount":"138","status":"%s","isPaid":%t}`
)

// fakeBackend is an in-memory stand-in for the storefront REST API.
type fakeBackend struct {
	mu       sync.Mutex
	server   *httptest.Server
	role     string
	calls    []string
	bodies   map[string]string
	override map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{role: "user", bodies: map[string]string{}, override: map[string]func(http.ResponseWriter, *http.Request){}}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.calls = append(b.calls, route)
		b.bodies[route] = string(body)
		handler, overridden := b.override[route]
		role := b.role
		b.mu.Unlock()

		if overridden {
			handler(w, r)
			return
		}

		if r.Header.Get("Authorization") == "" && !strings.HasPrefix(r.URL.Path, "/products") {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Not authorized"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch {
		case route == "GET /users/profile":
			_, _ = io.WriteString(w, fmt.Sprintf(profileJSON, role))
		case r.URL.Path == "/cart" && r.Method == http.MethodDelete:
			_, _ = io.WriteString(w, `{"message":"Cart cleared"}`)
		case strings.HasPrefix(r.URL.Path, "/cart"):
			_, _ = io.WriteString(w, cartJSON)
		case route == "POST /orders":
			var req struct {
				PaymentMethod string `json:"paymentMethod"`
			}
			_ = json.Unmarshal(body, &req)

			if req.PaymentMethod == "razorpay" {
				_, _ = io.WriteString(w, `{"order":`+fmt.Sprintf(orderJSON, "razorpay", "pending", false)+
					`,"razorpayOrder":{"id":"order_rzp1","amount":13800,"currency":"INR","key":"rzp_live_key"}}`)
				return
			}

			_, _ = io.WriteString(w, fmt.Sprintf(orderJSON, "cash_on_delivery", "processing", false))
		case route == "POST /orders/o1/verify-payment":
			_, _ = io.WriteString(w, fmt.Sprintf(orderJSON, "razorpay", "processing", true))
		case route == "GET /orders/myorders":
			_, _ = io.WriteString(w, "["+fmt.Sprintf(orderJSON, "cash_on_delivery", "processing", false)+"]")
		case route == "PUT /orders/o1/cancel":
			_, _ = io.WriteString(w, fmt.Sprintf(orderJSON, "cash_on_delivery", "cancelled", false))
		case strings.HasPrefix(r.URL.Path, "/users/wishlist"):
			if r.Method == http.MethodPost {
				_, _ = io.WriteString(w, `[{"_id":"p1","name":"Linen Shirt","price":"60"}]`)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		case route == "GET /products":
			_, _ = io.WriteString(w, `{"products":[{"_id":"p1","name":"Linen Shirt","price":"60"}],"total":1,"page":1,"pages":1}`)
		case route == "GET /products/search", route == "GET /products/filter":
			_, _ = io.WriteString(w, `[{"_id":"p1","name":"Linen Shirt","price":"60"}]`)
		case route == "GET /products/p1":
			_, _ = io.WriteString(w, `{"_id":"p1","name":"Linen Shirt","price":"60"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"Not found"}`)
		}
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBackend) handle(route string, fn func(w http.ResponseWriter, r *http.Request)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.override[route] = fn
}

func (b *fakeBackend) called(route string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, call := range b.calls {
		if call == route {
			return true
		}
	}

	return false
}

func (b *fakeBackend) body(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.bodies[route]
}

// signedIn opens a session whose token and profile are already loaded.
func signedIn(t *testing.T, b *fakeBackend) *session.Session {
	t.Helper()

	tokens := testutils.NewMemoryTokens()
	manager := testutils.NewManager(b.server.URL, tokens)
	sess := manager.Open("")

	require.NoError(t, tokens.Save(t.Context(), sess.ID, testutils.SignedToken("u1", b.role, time.Hour), time.Hour))

	_, err := sess.Store.Auth.FetchProfile(t.Context())
	require.NoError(t, err)

	return sess
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code     string            `json:"code"`
		Message  string            `json:"message"`
		Fields   map[string]string `json:"fields"`
		Redirect string            `json:"redirect"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())

	return env
}

func serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}
