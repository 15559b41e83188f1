package models

import (
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Review struct {
	User      string    `json:"user"`
	Name      string    `json:"name"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string          `json:"_id"  validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Sizes       []string        `json:"sizes"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory,omitempty"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	NumReviews  int             `json:"numReviews"`
	Reviews     []Review        `json:"reviews,omitempty"`
}

func (p Product) Clone() Product {
	p.Images = append([]string(nil), p.Images...)
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Reviews = append([]Review(nil), p.Reviews...)

	return p
}

type ProductList struct {
	Products []Product `json:"products" validate:"dive"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// ProductQuery is the listing query forwarded to the backend.
type ProductQuery struct {
	Category    string
	SubCategory string
	Search      string
	Sort        string
	Page        int
	Limit       int
}

func (q ProductQuery) Values() url.Values {
	values := url.Values{}

	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}

	set("category", q.Category)
	set("subCategory", q.SubCategory)
	set("search", q.Search)
	set("sort", q.Sort)

	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	return values
}

type ProductFilters struct {
	Category   []string   `json:"category"`
	PriceRange [2]float64 `json:"priceRange"`
	SortBy     string     `json:"sortBy"`
}

func DefaultProductFilters() ProductFilters {
	return ProductFilters{
		Category:   []string{},
		PriceRange: [2]float64{0, 100000},
	}
}

func (f ProductFilters) Values() url.Values {
	values := url.Values{}

	for _, category := range f.Category {
		values.Add("category", category)
	}

	values.Set("minPrice", strconv.FormatFloat(f.PriceRange[0], 'f', -1, 64))
	values.Set("maxPrice", strconv.FormatFloat(f.PriceRange[1], 'f', -1, 64))

	if f.SortBy != "" {
		values.Set("sortBy", f.SortBy)
	}

	return values
}

// ProductFilterPatch merges into the current filters; nil fields are left unchanged.
type ProductFilterPatch struct {
	Category   []string    `json:"category,omitempty"`
	PriceRange *[2]float64 `json:"priceRange,omitempty"`
	SortBy     *string     `json:"sortBy,omitempty"`
}

type ProductInput struct {
	Name        string   `json:"name"                  validate:"required,min=3,max=200"`
	Description string   `json:"description"`
	Price       float64  `json:"price"                 validate:"gt=0"`
	Images      []string `json:"images"                validate:"omitempty,dive,url"`
	Sizes       []string `json:"sizes"`
	Category    string   `json:"category"              validate:"required"`
	SubCategory string   `json:"subCategory,omitempty"`
	Stock       int      `json:"stock"                 validate:"gte=0"`
}

type DashboardStats struct {
	TotalUsers    int             `json:"totalUsers"`
	TotalOrders   int             `json:"totalOrders"`
	TotalProducts int             `json:"totalProducts"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	RecentOrders  []Order         `json:"recentOrders,omitempty"`
}
