package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/apiclient"
	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/pricing"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/golang-jwt/jwt/v5"
)

// MemoryTokens is an in-memory cache.TokenStore.
type MemoryTokens struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{tokens: map[string]string{}}
}

func (m *MemoryTokens) Load(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tokens[sessionID], nil
}

func (m *MemoryTokens) Save(_ context.Context, sessionID, token string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[sessionID] = token

	return nil
}

func (m *MemoryTokens) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, sessionID)

	return nil
}

// SignedToken mimics a backend-issued JWT. Its signature is never checked by
// the gateway.
func SignedToken(userID, role string, ttl time.Duration) string {
	claims := &session.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-123456789012345"))

	return signed
}

// NewManager builds a session manager whose stores talk to backendURL.
func NewManager(backendURL string, tokens *MemoryTokens) *session.Manager {
	client := apiclient.New(config.Backend{BaseURL: backendURL, Timeout: 5 * time.Second}, nil)

	return session.NewManager(config.Session{CookieName: "sf_session", IdleTTL: time.Hour}, session.Deps{
		API: func(ts apiclient.TokenSource) store.API {
			return client.WithTokens(ts)
		},
		Tokens:   tokens,
		TokenTTL: time.Hour,
		Checkout: checkout.Dependencies{
			Policy: pricing.DefaultPolicy(),
			Payment: config.Payment{
				RazorpayKeyID: "rzp_test_key",
				Currency:      "INR",
				StoreName:     "Ecommerce Store",
				ThemeColor:    "#2874f0",
			},
		},
		Logger: discardLogger(),
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func CreateTestRequestWithSession(method, target string, body io.Reader, sess *session.Session, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	return req.WithContext(middleware.WithSession(req.Context(), sess))
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	ctx := middleware.WithLogger(req.Context(), discardLogger())

	return req.WithContext(ctx)
}
