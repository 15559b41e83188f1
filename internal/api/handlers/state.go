package handlers

import (
	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/store"
)

// SessionState is everything the renderer needs to draw any page.
type SessionState struct {
	Store    store.Snapshot `json:"store"`
	Checkout checkout.State `json:"checkout"`
}
