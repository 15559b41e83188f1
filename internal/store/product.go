package store

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type ProductState struct {
	Products []models.Product      `json:"products"`
	Selected *models.Product       `json:"selectedProduct"`
	Filters  models.ProductFilters `json:"filters"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	Pages    int                   `json:"pages"`
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	for idx, product := range products {
		out[idx] = product.Clone()
	}

	return out
}

func cloneProduct(product *models.Product) *models.Product {
	if product == nil {
		return nil
	}

	clone := product.Clone()

	return &clone
}

func (p ProductState) clone() ProductState {
	p.Products = cloneProducts(p.Products)
	p.Selected = cloneProduct(p.Selected)
	p.Filters.Category = append([]string{}, p.Filters.Category...)

	return p
}

type ProductSlice struct {
	*Slice[ProductState]
	st  *Store
	api ProductAPI
}

func newProductSlice(st *Store, api ProductAPI) *ProductSlice {
	initial := func() ProductState {
		return ProductState{Products: []models.Product{}, Filters: models.DefaultProductFilters()}
	}

	return &ProductSlice{
		Slice: NewSlice("product", initial, ProductState.clone),
		st:    st,
		api:   api,
	}
}

func (p *ProductSlice) Fetch(ctx context.Context, query models.ProductQuery) (*models.ProductList, error) {
	return run(ctx, p.st, p.Slice, func(ctx context.Context) (*models.ProductList, error) {
		return p.api.ListProducts(ctx, query)
	}, func(state *ProductState, list *models.ProductList) {
		state.Products = cloneProducts(list.Products)
		state.Total = list.Total
		state.Page = list.Page
		state.Pages = list.Pages
	})
}

func (p *ProductSlice) FetchByID(ctx context.Context, id string) (*models.Product, error) {
	return run(ctx, p.st, p.Slice, func(ctx context.Context) (*models.Product, error) {
		return p.api.GetProduct(ctx, id)
	}, func(state *ProductState, product *models.Product) {
		state.Selected = cloneProduct(product)
	})
}

func (p *ProductSlice) Search(ctx context.Context, q string) ([]models.Product, error) {
	return run(ctx, p.st, p.Slice, func(ctx context.Context) ([]models.Product, error) {
		return p.api.SearchProducts(ctx, q)
	}, p.setProducts)
}

// Filter queries with the slice's current filters.
func (p *ProductSlice) Filter(ctx context.Context) ([]models.Product, error) {
	var filters models.ProductFilters

	p.Read(func(state ProductState) { filters = state.clone().Filters })

	return run(ctx, p.st, p.Slice, func(ctx context.Context) ([]models.Product, error) {
		return p.api.FilterProducts(ctx, filters)
	}, p.setProducts)
}

func (p *ProductSlice) setProducts(state *ProductState, products []models.Product) {
	state.Products = cloneProducts(products)
	state.Total = len(products)
	state.Page = 1
	state.Pages = 1
}

// SetFilters merges patch into the current filters.
func (p *ProductSlice) SetFilters(patch models.ProductFilterPatch) {
	p.Update(func(state *ProductState) {
		if patch.Category != nil {
			state.Filters.Category = append([]string{}, patch.Category...)
		}

		if patch.PriceRange != nil {
			state.Filters.PriceRange = *patch.PriceRange
		}

		if patch.SortBy != nil {
			state.Filters.SortBy = *patch.SortBy
		}
	})
}

func (p *ProductSlice) ClearFilters() {
	p.Update(func(state *ProductState) { state.Filters = models.DefaultProductFilters() })
}

func (p *ProductSlice) ClearSelected() {
	p.Update(func(state *ProductState) { state.Selected = nil })
}
