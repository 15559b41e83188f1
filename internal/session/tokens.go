package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
)

// boundTokens is the token store narrowed to one session.
type boundTokens struct {
	sessionID  string
	store      cache.TokenStore
	defaultTTL time.Duration
	now        func() time.Time
}

func (b *boundTokens) Token(ctx context.Context) (string, error) {
	return b.store.Load(ctx, b.sessionID)
}

func (b *boundTokens) ClearToken(ctx context.Context) error {
	return b.store.Clear(ctx, b.sessionID)
}

// SaveToken keeps the token for as long as it is valid.
func (b *boundTokens) SaveToken(ctx context.Context, token string) error {
	ttl := b.defaultTTL

	if claims, err := ParseClaims(token); err == nil {
		ttl = claims.TTL(b.now(), b.defaultTTL)
	} else {
		slog.Warn("Storing token without readable claims", slog.String("session_id", b.sessionID))
	}

	if ttl <= 0 {
		return b.store.Clear(ctx, b.sessionID)
	}

	return b.store.Save(ctx, b.sessionID, token, ttl)
}
