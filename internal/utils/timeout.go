package utils

import (
	"context"
	"time"
)

// LedgerTimeout bounds every checkout attempt ledger query.
const LedgerTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, LedgerTimeout)
}
