package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type sessionContextKey struct{}

type claimsContextKey struct{}

// Sessions resolves the browser session of every request.
type Sessions interface {
	FromRequest(w http.ResponseWriter, r *http.Request) *session.Session
}

func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*session.Session)
	return sess
}

func ClaimsFromContext(ctx context.Context) *session.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*session.Claims)
	return claims
}

// WithSession attaches sess to ctx. Handlers read it with SessionFromContext.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

type SessionMiddleware struct {
	sessions Sessions
	now      func() time.Time
}

func NewSessionMiddleware(sessions Sessions) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, now: time.Now}
}

// Attach opens or resumes the session named by the request cookie.
func (m *SessionMiddleware) Attach(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := m.sessions.FromRequest(w, r)

		logger := LoggerFromContext(r.Context()).With(slog.String("session_id", sess.ID))

		ctx := WithSession(r.Context(), sess)
		ctx = WithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAuth lets the request through only for a session holding an
// unexpired token. A session restored after a restart fetches its profile
// here before the handler runs.
func (m *SessionMiddleware) RequireAuth(next http.Handler) http.HandlerFunc {
	return m.Attach(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())
		sess := SessionFromContext(r.Context())

		claims, err := sess.Claims(r.Context())
		if err != nil {
			logger.Warn("Unreadable session token", slog.String("error", err.Error()))
			sess.SignOut(r.Context())
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if claims == nil {
			logger.Warn("Missing session token")
			response.Error(w, errors.UnauthorizedError("Please log in to continue"))
			return
		}

		if claims.Expired(m.now()) {
			logger.Warn("Expired token", slog.String("userId", claims.UserID))
			sess.SignOut(r.Context())
			response.Error(w, errors.UnauthorizedError("Session expired, please log in again"))
			return
		}

		if sess.Store.Auth.CurrentUser() == nil {
			if _, err := sess.Store.Auth.FetchProfile(r.Context()); err != nil {
				logger.Warn("Failed to restore session profile", slog.String("error", err.Error()))
				response.Error(w, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID))
		ctx = WithLogger(ctx, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}))
}

// RequireAdmin additionally requires the admin role.
func (m *SessionMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		sess := SessionFromContext(r.Context())
		claims := ClaimsFromContext(r.Context())

		if !sess.Store.Auth.CurrentUser().IsAdmin() && claims.Role != models.RoleAdmin {
			LoggerFromContext(r.Context()).Warn("Admin route denied")
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
