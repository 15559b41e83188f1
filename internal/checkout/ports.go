package checkout

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

// Orders places and verifies orders; *store.OrderSlice satisfies it.
type Orders interface {
	Create(ctx context.Context, req *models.CreateOrderRequest) (*models.PlacedOrder, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error)
}

// Cart is the session cart; *store.CartSlice satisfies it.
type Cart interface {
	Current() models.Cart
	ClearAfterOrder(ctx context.Context)
}

// Users yields the signed-in user; *store.AuthSlice satisfies it.
type Users interface {
	CurrentUser() *models.User
}

// Ledger records every order placement and how it ended.
type Ledger interface {
	Create(ctx context.Context, attempt *models.CheckoutAttempt) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttemptStatus, errorMsg string) error
}

// Notifier sends the order confirmation once an order succeeds.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
}
