package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

// requestSession returns the session attached by the session middleware, or
// writes an error when the route was mounted without it.
func requestSession(w http.ResponseWriter, r *http.Request) (*session.Session, *slog.Logger, bool) {
	logger := middleware.LoggerFromContext(r.Context())

	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		logger.Error("Route served without a session")
		response.Error(w, errors.InternalError("Session unavailable"))
		return nil, logger, false
	}

	return sess, logger, true
}

// pathValue reads a required path parameter.
func pathValue(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		response.Error(w, errors.BadRequestError(label+" is required"))
		return "", false
	}

	return value, true
}
