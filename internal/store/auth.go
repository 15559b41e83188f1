package store

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type AuthState struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type AuthSlice struct {
	*Slice[AuthState]
	st  *Store
	api AuthAPI
}

func newAuthSlice(st *Store, api AuthAPI) *AuthSlice {
	return &AuthSlice{
		Slice: NewSlice("auth", func() AuthState { return AuthState{} }, func(a AuthState) AuthState {
			return AuthState{User: a.User.Clone(), IsAuthenticated: a.IsAuthenticated}
		}),
		st:  st,
		api: api,
	}
}

func (a *AuthSlice) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return a.authenticate(ctx, func(ctx context.Context) (*models.AuthResponse, error) {
		return a.api.Signup(ctx, req)
	})
}

// Login persists the returned token for the session before exposing the user.
func (a *AuthSlice) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	return a.authenticate(ctx, func(ctx context.Context) (*models.AuthResponse, error) {
		return a.api.Login(ctx, req)
	})
}

func (a *AuthSlice) authenticate(ctx context.Context, call func(context.Context) (*models.AuthResponse, error)) (*models.User, error) {
	resp, err := run(ctx, a.st, a.Slice, func(ctx context.Context) (*models.AuthResponse, error) {
		resp, err := call(ctx)
		if err != nil {
			return nil, err
		}

		if err := a.st.tokens.SaveToken(ctx, resp.Token); err != nil {
			return nil, err
		}

		return resp, nil
	}, func(state *AuthState, resp *models.AuthResponse) {
		state.User = resp.User.Clone()
		state.IsAuthenticated = true
	})
	if err != nil {
		return nil, err
	}

	return resp.User, nil
}

// Logout always forgets the local token and state; the backend call is best effort.
func (a *AuthSlice) Logout(ctx context.Context) {
	if err := a.api.Logout(ctx); err != nil {
		a.st.logger.Warn("Backend logout failed", slog.String("error", err.Error()))
	}

	if err := a.st.tokens.ClearToken(ctx); err != nil {
		a.st.logger.Error("Failed to clear session token", slog.String("error", err.Error()))
	}

	a.st.Reset()
}

func (a *AuthSlice) FetchProfile(ctx context.Context) (*models.User, error) {
	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.GetProfile(ctx)
	})
}

func (a *AuthSlice) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error) {
	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.UpdateProfile(ctx, req)
	})
}

// AddAddress makes the first saved address the default one.
func (a *AuthSlice) AddAddress(ctx context.Context, req *models.SavedAddressInput) (*models.User, error) {
	if user := a.CurrentUser(); user == nil || len(user.Addresses) == 0 {
		req.IsDefault = true
	}

	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.AddAddress(ctx, req)
	})
}

func (a *AuthSlice) UpdateAddress(ctx context.Context, addressID string, req *models.SavedAddressInput) (*models.User, error) {
	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.UpdateAddress(ctx, addressID, req)
	})
}

func (a *AuthSlice) DeleteAddress(ctx context.Context, addressID string) (*models.User, error) {
	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.DeleteAddress(ctx, addressID)
	})
}

func (a *AuthSlice) SetDefaultAddress(ctx context.Context, addressID string) (*models.User, error) {
	return a.userCall(ctx, func(ctx context.Context) (*models.User, error) {
		return a.api.SetDefaultAddress(ctx, addressID)
	})
}

func (a *AuthSlice) userCall(ctx context.Context, call func(context.Context) (*models.User, error)) (*models.User, error) {
	return run(ctx, a.st, a.Slice, call, func(state *AuthState, user *models.User) {
		state.User = user.Clone()
		state.IsAuthenticated = true
	})
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (a *AuthSlice) CurrentUser() *models.User {
	var user *models.User

	a.Read(func(state AuthState) { user = state.User.Clone() })

	return user
}
