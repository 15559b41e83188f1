package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	validator *validator.Validate
}

func NewAuthHandler(validate *validator.Validate) *AuthHandler {
	return &AuthHandler{validator: validate}
}

// Signup godoc
//
//	@Summary		Create an account
//	@Description	Registers the user with the backend and signs the session in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.SignupRequest	true	"Signup details"
//	@Success		201		{object}	models.User
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		502		{object}	response.ErrorResponse	"Backend rejected the signup"
//	@Router			/auth/signup [post]
func (h *AuthHandler) Signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.SignupRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid signup input")
			return
		}

		req.FirstName = utils.SanitizeText(req.FirstName)
		req.LastName = utils.SanitizeText(req.LastName)

		user, err := sess.Store.Auth.Signup(r.Context(), &req)
		if err != nil {
			logger.Warn("Signup failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed up", slog.String("userId", user.ID))
		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//
//	@Summary		Sign in
//	@Description	Authenticates against the backend and persists the token for the session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest	true	"Credentials"
//	@Success		200			{object}	models.User
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	response.ErrorResponse	"Invalid credentials"
//	@Router			/auth/login [post]
func (h *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := sess.Store.Auth.Login(r.Context(), &req)
		if err != nil {
			logger.Warn("Login failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User logged in", slog.String("userId", user.ID))
		response.Success(w, http.StatusOK, user)
	}
}

func (h *AuthHandler) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		sess.Store.Auth.Logout(r.Context())

		logger.Info("User logged out")
		response.Success(w, http.StatusOK, map[string]bool{"loggedOut": true})
	}
}

// Me returns the auth slice: the signed-in user, if any.
func (h *AuthHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sess.Store.Auth.State())
	}
}

// State godoc
//
//	@Summary		Session state snapshot
//	@Description	Returns an immutable snapshot of every state slice and the checkout flow.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	handlers.SessionState
//	@Router			/state [get]
func (h *AuthHandler) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, SessionState{
			Store:    sess.Store.Snapshot(),
			Checkout: sess.Checkout.Snapshot(),
		})
	}
}
