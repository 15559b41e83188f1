package cache

import (
	"context"
	"time"
)

// TokenStore persists the backend auth token of a browser session outside the
// in-memory session, so it survives reloads and gateway restarts.
type TokenStore interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string, ttl time.Duration) error
	Clear(ctx context.Context, sessionID string) error
}

type tokenStore struct {
	cache Cache
}

func NewTokenStore(cache Cache) TokenStore {
	return &tokenStore{cache: cache}
}

type storedToken struct {
	Token string `json:"token"`
}

// Load returns an empty token when none is stored for the session.
func (s *tokenStore) Load(ctx context.Context, sessionID string) (string, error) {
	var stored storedToken

	found, err := s.cache.Get(ctx, Key(TokenKeyPrefix, sessionID), &stored)
	if err != nil || !found {
		return "", err
	}

	return stored.Token, nil
}

func (s *tokenStore) Save(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	return s.cache.Set(ctx, Key(TokenKeyPrefix, sessionID), storedToken{Token: token}, ttl)
}

func (s *tokenStore) Clear(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, Key(TokenKeyPrefix, sessionID))
}
