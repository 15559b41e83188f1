package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodRazorpay       PaymentMethod = "razorpay"
)

// InitialStatus is the status an order is created with for the given method.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentMethodRazorpay {
		return OrderStatusPending
	}

	return OrderStatusProcessing
}

type OrderItem struct {
	Product  string          `json:"product"  validate:"required"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity" validate:"min=1"`
	Size     string          `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type Order struct {
	ID              string          `json:"_id"             validate:"required"`
	Items           []OrderItem     `json:"items"           validate:"dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	ShippingPrice   decimal.Decimal `json:"shippingPrice"`
	TaxPrice        decimal.Decimal `json:"taxPrice"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"          validate:"required,oneof=pending processing shipped delivered cancelled"`
	IsPaid          bool            `json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   *PaymentResult  `json:"paymentResult,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// GatewayOrder is the payment-gateway order the backend opens for online payments.
type GatewayOrder struct {
	ID       string `json:"id"       validate:"required"`
	Amount   int64  `json:"amount"   validate:"gt=0"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// PlacedOrder is the result of order creation. GatewayOrder is set only for
// online payment methods.
type PlacedOrder struct {
	Order        *Order        `json:"order"`
	GatewayOrder *GatewayOrder `json:"razorpayOrder,omitempty"`
}

type OrderItemRequest struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size"`
	Price    float64 `json:"price"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
}

type ShippingAddressRequest struct {
	FullName string `json:"fullName,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
	ZipCode  string `json:"zipCode"`
	Phone    string `json:"phone"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	PaymentMethod   PaymentMethod          `json:"paymentMethod"`
	TotalPrice      float64                `json:"totalPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	TotalAmount     float64                `json:"totalAmount"`
	Status          OrderStatus            `json:"status"`
}

type VerifyPaymentRequest struct {
	OrderID         string `json:"-"`
	PaymentID       string `json:"razorpay_payment_id"`
	RazorpayOrderID string `json:"razorpay_order_id"`
	Signature       string `json:"razorpay_signature"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}
