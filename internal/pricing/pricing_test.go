package pricing_test

import (
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuote(t *testing.T) {
	policy := pricing.DefaultPolicy()

	tests := []struct {
		name     string
		subtotal string
		shipping string
		tax      string
		total    string
	}{
		{"Success - Below Threshold", "80", "10", "12", "102"},
		{"Success - Above Threshold", "150", "0", "22.5", "172.5"},
		{"Success - Exactly Threshold Pays Shipping", "100", "10", "15", "125"},
		{"Success - Just Above Threshold", "100.01", "0", "15", "115.01"},
		{"Success - Tax Rounds Half Up", "0.3", "10", "0.05", "10.35"},
		{"Success - Empty Cart", "0", "10", "0", "10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			quote := policy.Quote(dec(tc.subtotal))

			// Assert
			assert.True(t, dec(tc.shipping).Equal(quote.Shipping), "shipping: got %s", quote.Shipping)
			assert.True(t, dec(tc.tax).Equal(quote.Tax), "tax: got %s", quote.Tax)
			assert.True(t, dec(tc.total).Equal(quote.Total), "total: got %s", quote.Total)
			assert.True(t, quote.Subtotal.Add(quote.Shipping).Add(quote.Tax).Equal(quote.Total))
		})
	}
}

func TestNewPolicy(t *testing.T) {
	// Arrange
	policy := pricing.NewPolicy(config.Pricing{
		FreeShippingThreshold: 500,
		FlatShippingFee:       40,
		TaxRate:               0.18,
	})

	// Act
	quote := policy.Quote(dec("200"))

	// Assert
	assert.True(t, dec("40").Equal(quote.Shipping))
	assert.True(t, dec("36").Equal(quote.Tax))
	assert.True(t, dec("276").Equal(quote.Total))
}
