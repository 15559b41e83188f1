package store

import (
	"context"
	"slices"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type AdminState struct {
	DashboardStats *models.DashboardStats `json:"dashboardStats"`
	Users          []models.User          `json:"users"`
	Products       []models.Product       `json:"products"`
	Orders         []models.Order         `json:"orders"`
}

func (a AdminState) clone() AdminState {
	out := AdminState{
		Users:    make([]models.User, len(a.Users)),
		Products: cloneProducts(a.Products),
		Orders:   cloneOrders(a.Orders),
	}

	for idx := range a.Users {
		out.Users[idx] = *a.Users[idx].Clone()
	}

	if a.DashboardStats != nil {
		stats := *a.DashboardStats
		stats.RecentOrders = cloneOrders(a.DashboardStats.RecentOrders)
		out.DashboardStats = &stats
	}

	return out
}

type AdminSlice struct {
	*Slice[AdminState]
	st  *Store
	api AdminAPI
}

func newAdminSlice(st *Store, api AdminAPI) *AdminSlice {
	initial := func() AdminState {
		return AdminState{Users: []models.User{}, Products: []models.Product{}, Orders: []models.Order{}}
	}

	return &AdminSlice{
		Slice: NewSlice("admin", initial, AdminState.clone),
		st:    st,
		api:   api,
	}
}

func (a *AdminSlice) FetchDashboard(ctx context.Context) (*models.DashboardStats, error) {
	return run(ctx, a.st, a.Slice, a.api.DashboardStats, func(state *AdminState, stats *models.DashboardStats) {
		state.DashboardStats = AdminState{DashboardStats: stats}.clone().DashboardStats
	})
}

func (a *AdminSlice) FetchUsers(ctx context.Context) ([]models.User, error) {
	return run(ctx, a.st, a.Slice, a.api.AdminUsers, func(state *AdminState, users []models.User) {
		state.Users = AdminState{Users: users}.clone().Users
	})
}

func (a *AdminSlice) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return run(ctx, a.st, a.Slice, a.api.AdminProducts, func(state *AdminState, products []models.Product) {
		state.Products = cloneProducts(products)
	})
}

func (a *AdminSlice) CreateProduct(ctx context.Context, req *models.ProductInput) (*models.Product, error) {
	return run(ctx, a.st, a.Slice, func(ctx context.Context) (*models.Product, error) {
		return a.api.CreateProduct(ctx, req)
	}, func(state *AdminState, product *models.Product) {
		state.Products = append(state.Products, product.Clone())
	})
}

func (a *AdminSlice) UpdateProduct(ctx context.Context, id string, req *models.ProductInput) (*models.Product, error) {
	return run(ctx, a.st, a.Slice, func(ctx context.Context) (*models.Product, error) {
		return a.api.UpdateProduct(ctx, id, req)
	}, func(state *AdminState, product *models.Product) {
		for idx := range state.Products {
			if state.Products[idx].ID == product.ID {
				state.Products[idx] = product.Clone()
			}
		}
	})
}

func (a *AdminSlice) DeleteProduct(ctx context.Context, id string) error {
	return exec(ctx, a.st, a.Slice, func(ctx context.Context) error {
		return a.api.DeleteProduct(ctx, id)
	}, func(state *AdminState) {
		state.Products = slices.DeleteFunc(state.Products, func(p models.Product) bool { return p.ID == id })
	})
}

func (a *AdminSlice) FetchOrders(ctx context.Context) ([]models.Order, error) {
	return run(ctx, a.st, a.Slice, a.api.AdminOrders, func(state *AdminState, orders []models.Order) {
		state.Orders = cloneOrders(orders)
	})
}

func (a *AdminSlice) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	return run(ctx, a.st, a.Slice, func(ctx context.Context) (*models.Order, error) {
		return a.api.UpdateOrderStatus(ctx, id, status)
	}, func(state *AdminState, order *models.Order) {
		replaceOrder(state.Orders, order)
	})
}
