package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProfileHandler struct {
	validator *validator.Validate
}

func NewProfileHandler(validate *validator.Validate) *ProfileHandler {
	return &ProfileHandler{validator: validate}
}

func (h *ProfileHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		user, err := sess.Store.Auth.FetchProfile(r.Context())
		if err != nil {
			logger.Error("Failed to fetch profile", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

// UpdateProfile godoc
//
//	@Summary		Update profile
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			profile	body		models.UpdateProfileRequest	true	"Profile"
//	@Success		200		{object}	models.User
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Router			/profile [put]
func (h *ProfileHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.UpdateProfileRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		req.FirstName = utils.SanitizeText(req.FirstName)
		req.LastName = utils.SanitizeText(req.LastName)

		user, err := sess.Store.Auth.UpdateProfile(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to update profile", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Profile updated")
		response.Success(w, http.StatusOK, user)
	}
}

// parseAddress decodes, sanitises and validates a saved address body.
func (h *ProfileHandler) parseAddress(w http.ResponseWriter, r *http.Request) (*models.SavedAddressInput, bool) {
	var req models.SavedAddressInput
	if !utils.ParseAndValidate(r, w, &req, h.validator) {
		return nil, false
	}

	req = utils.SanitizeSavedAddress(req)

	if err := utils.ValidateStruct(h.validator, req); err != nil {
		response.Error(w, err)
		return nil, false
	}

	return &req, true
}

// AddAddress godoc
//
//	@Summary		Save an address
//	@Description	The first saved address becomes the default one.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			address	body		models.SavedAddressInput	true	"Address"
//	@Success		201		{object}	models.User
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Router			/profile/addresses [post]
func (h *ProfileHandler) AddAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		req, ok := h.parseAddress(w, r)
		if !ok {
			return
		}

		user, err := sess.Store.Auth.AddAddress(r.Context(), req)
		if err != nil {
			logger.Error("Failed to add address", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Address added", slog.Int("addresses", len(user.Addresses)))
		response.Success(w, http.StatusCreated, user)
	}
}

func (h *ProfileHandler) UpdateAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Address ID")
		if !ok {
			return
		}

		req, ok := h.parseAddress(w, r)
		if !ok {
			return
		}

		user, err := sess.Store.Auth.UpdateAddress(r.Context(), id, req)
		if err != nil {
			logger.Error("Failed to update address", slog.String("addressId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *ProfileHandler) DeleteAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		id, ok := pathValue(w, r, "id", "Address ID")
		if !ok {
			return
		}

		user, err := sess.Store.Auth.DeleteAddress(r.Context(), id)
		if err != nil {
			logger.Error("Failed to delete address", slog.String("addressId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}

func (h *ProfileHandler) SetDefaultAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.SetDefaultAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := sess.Store.Auth.SetDefaultAddress(r.Context(), req.AddressID)
		if err != nil {
			logger.Error("Failed to set default address", slog.String("addressId", req.AddressID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
