// Package payment abstracts the hosted payment-gateway widget behind a narrow
// interface so checkout can run against a browser callback, a headless
// gateway or a test double.
package payment

import (
	"context"
	"fmt"
)

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color string `json:"color"`
}

type Notes struct {
	OrderID         string `json:"orderId"`
	ShippingAddress string `json:"shipping_address"`
}

// Options are handed to the widget when it is opened; the JSON form is what the
// browser passes to the gateway's checkout script.
type Options struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
	Notes       Notes   `json:"notes"`
}

// Outcome carries the identifiers the gateway returns on success.
type Outcome struct {
	PaymentID      string `json:"razorpay_payment_id"`
	GatewayOrderID string `json:"razorpay_order_id"`
	Signature      string `json:"razorpay_signature"`
}

const (
	CodeDismissed = "DISMISSED"
	CodeFailed    = "PAYMENT_FAILED"
	CodeTimeout   = "TIMEOUT"
)

// Error is a failed or abandoned payment.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Dismissed   bool   `json:"dismissed"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("payment %s: %s", e.Code, e.Description)
}

func Dismissed() *Error {
	return &Error{Code: CodeDismissed, Description: "Payment cancelled by user", Dismissed: true}
}

func Failed(description string) *Error {
	return &Error{Code: CodeFailed, Description: description}
}

type Widget interface {
	Open(ctx context.Context, opts Options) (*Outcome, error)
}
