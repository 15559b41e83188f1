package models

import (
	"github.com/shopspring/decimal"
)

type CartProduct struct {
	ID     string          `json:"_id" validate:"required"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}

type CartItem struct {
	ID       string      `json:"_id" validate:"required"`
	Product  CartProduct `json:"product"`
	Quantity int         `json:"quantity" validate:"min=1"`
	Size     string      `json:"size"`
}

// LineTotal is price x quantity for the item.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) Image() string {
	if len(i.Product.Images) == 0 {
		return ""
	}

	return i.Product.Images[0]
}

// Cart totals are always derived from Items; whatever the backend sends for
// them is overwritten by Recalculate.
type Cart struct {
	Items       []CartItem      `json:"items" validate:"dive"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
}

func NewCart(items []CartItem) Cart {
	cart := Cart{Items: items}
	cart.Recalculate()

	return cart
}

func (c *Cart) Recalculate() {
	total := decimal.Zero
	count := 0

	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
		count += item.Quantity
	}

	c.TotalAmount = total
	c.TotalItems = count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// SetQuantity updates an item in place. A quantity below one removes the item.
// It reports whether the item existed.
func (c *Cart) SetQuantity(itemID string, quantity int) bool {
	for idx, item := range c.Items {
		if item.ID != itemID {
			continue
		}

		if quantity < 1 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			c.Items[idx].Quantity = quantity
		}

		c.Recalculate()

		return true
	}

	return false
}

func (c *Cart) Find(itemID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}

	return CartItem{}, false
}

func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	for idx, item := range c.Items {
		item.Product.Images = append([]string(nil), item.Product.Images...)
		items[idx] = item
	}

	return Cart{Items: items, TotalAmount: c.TotalAmount, TotalItems: c.TotalItems}
}

type AddToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
	Size      string `json:"size"      validate:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int    `json:"quantity"       validate:"min=0"`
	Size     string `json:"size,omitempty"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}
