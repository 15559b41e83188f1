package models

type PayRequest struct {
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=cash_on_delivery razorpay"`
}

type SelectAddressRequest struct {
	AddressID string `json:"addressId" validate:"required"`
}

type PaymentCallbackError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// PaymentCallbackRequest is what the browser posts once the hosted payment
// widget reports back: the success identifiers, a failure, or a dismissal.
type PaymentCallbackRequest struct {
	PaymentID      string                `json:"razorpay_payment_id"`
	GatewayOrderID string                `json:"razorpay_order_id"`
	Signature      string                `json:"razorpay_signature"`
	Error          *PaymentCallbackError `json:"error,omitempty"`
	Dismissed      bool                  `json:"dismissed"`
}
