// Package session keeps the per-browser application state: one store and one
// checkout flow per session cookie.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/apiclient"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/store"
	"github.com/google/uuid"
)

type Session struct {
	ID       string
	Store    *store.Store
	Checkout *checkout.Flow

	tokens   *boundTokens
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// Claims decodes the session's persisted token. It returns nil claims when
// the session is signed out.
func (s *Session) Claims(ctx context.Context) (*Claims, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		return nil, err
	}

	return ParseClaims(token)
}

// SignOut forgets the token and every piece of user state.
func (s *Session) SignOut(ctx context.Context) {
	if err := s.tokens.ClearToken(ctx); err != nil {
		slog.Warn("Failed to clear session token", slog.String("session_id", s.ID), slog.String("error", err.Error()))
	}

	s.Store.Reset()
}

type Deps struct {
	// API binds the backend client to a session's tokens.
	API      func(tokens apiclient.TokenSource) store.API
	Tokens   cache.TokenStore
	TokenTTL time.Duration
	// Checkout carries everything the flow needs except the store-backed parts.
	Checkout checkout.Dependencies
	Logger   *slog.Logger
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      config.Session
	deps     Deps
	now      func() time.Time
}

func NewManager(cfg config.Session, deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		deps:     deps,
		now:      time.Now,
	}
}

func (m *Manager) newSession(id string) *Session {
	tokens := &boundTokens{sessionID: id, store: m.deps.Tokens, defaultTTL: m.deps.TokenTTL, now: m.now}
	logger := m.deps.Logger.With(slog.String("session_id", id))

	st := store.New(m.deps.API(tokens), tokens, logger)

	flowDeps := m.deps.Checkout
	flowDeps.Orders = st.Orders
	flowDeps.Cart = st.Cart
	flowDeps.Users = st.Auth
	flowDeps.Logger = logger

	return &Session{
		ID:       id,
		Store:    st,
		Checkout: checkout.New(id, flowDeps),
		tokens:   tokens,
	}
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		sess.touch(m.now())
	}

	return sess, ok
}

// Open returns the session for id, creating it when unknown. A known cookie
// id is reused so a persisted token outlives a gateway restart.
func (m *Manager) Open(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	if sess, ok := m.Get(id); ok {
		return sess
	}

	m.mu.Lock()
	sess, ok := m.sessions[id]
	if !ok {
		sess = m.newSession(id)
		m.sessions[id] = sess
	}
	count := len(m.sessions)
	m.mu.Unlock()

	sess.touch(m.now())
	metrics.SetActiveSessions(count)

	if !ok {
		m.deps.Logger.Info("Session opened", slog.String("session_id", id))
	}

	return sess
}

// FromRequest resolves the request's session and refreshes its cookie.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	var id string
	if cookie, err := r.Cookie(m.cfg.CookieName); err == nil {
		id = cookie.Value
	}

	sess := m.Open(id)

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		MaxAge:   int(m.cfg.IdleTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the configured TTL. Their tokens
// stay in the token store until they expire there.
func (m *Manager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	evicted := 0
	for id, sess := range m.sessions {
		if sess.idleSince(now) > m.cfg.IdleTTL {
			delete(m.sessions, id)
			evicted++
		}
	}
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.SetActiveSessions(count)

	if evicted > 0 {
		m.deps.Logger.Info("Evicted idle sessions", slog.Int("evicted", evicted), slog.Int("active", count))
	}

	return evicted
}

// Run sweeps idle sessions until ctx ends.
func (m *Manager) Run(ctx context.Context) {
	interval := m.cfg.IdleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
