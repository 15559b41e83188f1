package stripe

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/payment"
	"github.com/stripe/stripe-go/v81"
)

// Widget settles a payment headlessly: it creates a PaymentIntent for the
// order and confirms it with a configured payment method. It stands in for
// the hosted widget where no browser is involved.
type Widget struct {
	client        Client
	paymentMethod string
}

func NewWidget(client Client, paymentMethod string) *Widget {
	return &Widget{client: client, paymentMethod: paymentMethod}
}

var _ payment.Widget = (*Widget)(nil)

func (w *Widget) Open(ctx context.Context, opts payment.Options) (*payment.Outcome, error) {
	logger := slog.Default().With(slog.String("gateway_order_id", opts.OrderID))

	metadata := map[string]string{
		"orderId":          opts.Notes.OrderID,
		"gateway_order_id": opts.OrderID,
		"shipping_address": opts.Notes.ShippingAddress,
	}

	intent, err := w.client.CreatePaymentIntent(ctx, opts.Amount, strings.ToLower(opts.Currency), opts.Description, metadata)
	if err != nil {
		logger.Error("Failed to create payment intent", slog.String("error", err.Error()))
		return nil, asPaymentError(err)
	}

	confirmed, err := w.client.ConfirmPaymentIntent(ctx, intent.ID, w.paymentMethod)
	if err != nil {
		logger.Warn("Payment intent confirmation failed", slog.String("payment_intent", intent.ID), slog.String("error", err.Error()))
		return nil, asPaymentError(err)
	}

	switch confirmed.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		logger.Info("Payment confirmed", slog.String("payment_intent", confirmed.ID))

		return &payment.Outcome{
			PaymentID:      confirmed.ID,
			GatewayOrderID: opts.OrderID,
			Signature:      latestCharge(confirmed),
		}, nil
	case stripe.PaymentIntentStatusCanceled:
		return nil, payment.Dismissed()
	default:
		return nil, payment.Failed("Payment requires additional authentication")
	}
}

func latestCharge(intent *stripe.PaymentIntent) string {
	if intent.LatestCharge == nil {
		return ""
	}

	return intent.LatestCharge.ID
}

func asPaymentError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return payment.Failed(stripeErr.Msg)
	}

	return payment.Failed("Payment could not be processed")
}
