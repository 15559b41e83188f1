package utils

import (
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup and surrounding whitespace from user input.
// Entities escaped by the policy are decoded again so the text stays plain.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func SanitizeAddress(in models.AddressInput) models.AddressInput {
	return models.AddressInput{
		FullName:     SanitizeText(in.FullName),
		Street:       SanitizeText(in.Street),
		AddressLine2: SanitizeText(in.AddressLine2),
		City:         SanitizeText(in.City),
		State:        SanitizeText(in.State),
		ZipCode:      SanitizeText(in.ZipCode),
		Country:      SanitizeText(in.Country),
		Phone:        SanitizeText(in.Phone),
	}
}

func SanitizeSavedAddress(in models.SavedAddressInput) models.SavedAddressInput {
	in.Street = SanitizeText(in.Street)
	in.City = SanitizeText(in.City)
	in.State = SanitizeText(in.State)
	in.ZipCode = SanitizeText(in.ZipCode)
	in.Country = SanitizeText(in.Country)
	in.Phone = SanitizeText(in.Phone)

	return in
}
