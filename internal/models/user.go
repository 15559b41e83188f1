package models

import (
	"strings"
)

const DefaultCountry = "India"

type ShippingAddress struct {
	ID           string `json:"_id,omitempty"`
	FullName     string `json:"fullName,omitempty"`
	Street       string `json:"street"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"isDefault,omitempty"`
}

// Request converts the address into the order-creation shape.
func (a ShippingAddress) Request() ShippingAddressRequest {
	country := a.Country
	if country == "" {
		country = DefaultCountry
	}

	return ShippingAddressRequest{
		FullName: a.FullName,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		Country:  country,
		ZipCode:  a.ZipCode,
		Phone:    a.Phone,
	}
}

func (a ShippingAddress) OneLine() string {
	return strings.Join([]string{a.Street, a.City, a.State, a.ZipCode}, ", ")
}

// AddressInput is a freshly entered checkout address.
type AddressInput struct {
	FullName     string `json:"fullName"     validate:"required"`
	Street       string `json:"street"       validate:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"         validate:"required"`
	State        string `json:"state"        validate:"required"`
	ZipCode      string `json:"zipCode"      validate:"required,pincode"`
	Country      string `json:"country"      validate:"required"`
	Phone        string `json:"phone"        validate:"required,phone"`
}

// SavedAddressInput is an address stored on the user's profile.
type SavedAddressInput struct {
	Street    string `json:"street"    validate:"required"`
	City      string `json:"city"      validate:"required"`
	State     string `json:"state"     validate:"required"`
	ZipCode   string `json:"zipCode"   validate:"required,pincode"`
	Country   string `json:"country"   validate:"required"`
	Phone     string `json:"phone"     validate:"required,phone"`
	IsDefault bool   `json:"isDefault"`
}

type User struct {
	ID          string            `json:"_id"   validate:"required"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email" validate:"required"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Role        string            `json:"role"`
	Addresses   []ShippingAddress `json:"addresses"`
}

const RoleAdmin = "admin"

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) Address(id string) (ShippingAddress, bool) {
	for _, address := range u.Addresses {
		if address.ID == id {
			return address, true
		}
	}

	return ShippingAddress{}, false
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.Addresses = append([]ShippingAddress(nil), u.Addresses...)

	return &clone
}

type SignupRequest struct {
	FirstName   string `json:"firstName"             validate:"required"`
	LastName    string `json:"lastName"              validate:"required"`
	Email       string `json:"email"                 validate:"required,email"`
	Password    string `json:"password"              validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token" validate:"required"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"   validate:"required"`
	LastName    string `json:"lastName"    validate:"required"`
	Email       string `json:"email"       validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
}

type SetDefaultAddressRequest struct {
	AddressID string `json:"addressId" validate:"required"`
}
