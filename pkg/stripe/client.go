package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// Client is the subset of the Stripe API the storefront uses.
type Client interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*stripe.PaymentIntent, error)
	ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethodID string) (*stripe.PaymentIntent, error)
	Ping(ctx context.Context) error
}

type stripeClient struct {
	api *client.API
}

func NewStripeClient(apiKey string) Client {
	return &stripeClient{api: client.New(apiKey, nil)}
}

// NewStripeClientWithBackends points the client at explicit backends, e.g. a test server.
func NewStripeClientWithBackends(apiKey string, backends *stripe.Backends) Client {
	return &stripeClient{api: client.New(apiKey, backends)}
}

// PaymentIntent == "planned payment" or order waiting for payment.
func (s *stripeClient) CreatePaymentIntent(ctx context.Context, amount int64, currency, description string, metadata map[string]string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Params:      stripe.Params{Context: ctx},
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	return s.api.PaymentIntents.New(params)
}

func (s *stripeClient) ConfirmPaymentIntent(ctx context.Context, paymentIntentID, paymentMethodID string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentConfirmParams{
		Params:        stripe.Params{Context: ctx},
		PaymentMethod: stripe.String(paymentMethodID),
	}

	return s.api.PaymentIntents.Confirm(paymentIntentID, params)
}

// Ping reads the account balance; used by the health check.
func (s *stripeClient) Ping(ctx context.Context) error {
	_, err := s.api.Balance.Get(&stripe.BalanceParams{Params: stripe.Params{Context: ctx}})

	return err
}
