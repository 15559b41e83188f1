package pricing

import (
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/shopspring/decimal"
)

const taxPlaces = 2

// Quote is the advisory price breakdown shown at checkout. The same figures are
// sent in the order-creation request.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type Policy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingFee:       decimal.NewFromInt(10),
		TaxRate:               decimal.RequireFromString("0.15"),
	}
}

func NewPolicy(cfg config.Pricing) Policy {
	return Policy{
		FreeShippingThreshold: decimal.NewFromFloat(cfg.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(cfg.FlatShippingFee),
		TaxRate:               decimal.NewFromFloat(cfg.TaxRate),
	}
}

// Shipping is free only when subtotal is strictly above the threshold.
func (p Policy) Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		return decimal.Zero
	}

	return p.FlatShippingFee
}

// Tax is rounded half away from zero to two places.
func (p Policy) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(taxPlaces)
}

func (p Policy) Quote(subtotal decimal.Decimal) Quote {
	shipping := p.Shipping(subtotal)
	tax := p.Tax(subtotal)

	return Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
