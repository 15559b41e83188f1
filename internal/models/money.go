package models

import "github.com/shopspring/decimal"

// Money leaves the gateway as JSON numbers, the same shape the backend sends.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}
