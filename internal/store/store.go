package store

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/apiclient"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type AuthAPI interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	GetProfile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest) (*models.User, error)
	AddAddress(ctx context.Context, req *models.SavedAddressInput) (*models.User, error)
	UpdateAddress(ctx context.Context, addressID string, req *models.SavedAddressInput) (*models.User, error)
	DeleteAddress(ctx context.Context, addressID string) (*models.User, error)
	SetDefaultAddress(ctx context.Context, addressID string) (*models.User, error)
}

type CartAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, req *models.AddToCartRequest) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID string, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveFromCart(ctx context.Context, itemID string) (*models.Cart, error)
	ClearCart(ctx context.Context) error
}

type ProductAPI interface {
	ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductList, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SearchProducts(ctx context.Context, q string) ([]models.Product, error)
	FilterProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.PlacedOrder, error)
	VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error)
	ListMyOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	CancelOrder(ctx context.Context, id string) (*models.Order, error)
}

type WishlistAPI interface {
	GetWishlist(ctx context.Context) ([]models.Product, error)
	AddToWishlist(ctx context.Context, productID string) ([]models.Product, error)
	RemoveFromWishlist(ctx context.Context, productID string) ([]models.Product, error)
}

type AdminAPI interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	AdminUsers(ctx context.Context) ([]models.User, error)
	AdminProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, req *models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, req *models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdminOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// API is everything the store needs from the backend; *apiclient.Client
// satisfies it.
type API interface {
	AuthAPI
	CartAPI
	ProductAPI
	OrderAPI
	WishlistAPI
	AdminAPI
}

var _ API = (*apiclient.Client)(nil)

// Tokens is the session's persisted auth token.
type Tokens interface {
	apiclient.TokenSource
	SaveToken(ctx context.Context, token string) error
}

// Store aggregates every slice of one browser session.
type Store struct {
	tokens Tokens
	logger *slog.Logger

	Auth     *AuthSlice
	Cart     *CartSlice
	Products *ProductSlice
	Orders   *OrderSlice
	Wishlist *WishlistSlice
	Admin    *AdminSlice
}

func New(api API, tokens Tokens, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	st := &Store{tokens: tokens, logger: logger}

	st.Auth = newAuthSlice(st, api)
	st.Cart = newCartSlice(st, api)
	st.Products = newProductSlice(st, api)
	st.Orders = newOrderSlice(st, api)
	st.Wishlist = newWishlistSlice(st, api)
	st.Admin = newAdminSlice(st, api)

	return st
}

// Snapshot is a deep copy of every slice, safe to render or serialise while
// the store keeps changing.
type Snapshot struct {
	Auth     State[AuthState]     `json:"auth"`
	Cart     State[models.Cart]   `json:"cart"`
	Products State[ProductState]  `json:"products"`
	Orders   State[OrderState]    `json:"orders"`
	Wishlist State[WishlistState] `json:"wishlist"`
	Admin    State[AdminState]    `json:"admin"`
}

func (st *Store) Snapshot() Snapshot {
	return Snapshot{
		Auth:     st.Auth.State(),
		Cart:     st.Cart.State(),
		Products: st.Products.State(),
		Orders:   st.Orders.State(),
		Wishlist: st.Wishlist.State(),
		Admin:    st.Admin.State(),
	}
}

// Reset drops all user-scoped state, as on logout.
func (st *Store) Reset() {
	st.Auth.Reset()
	st.Cart.Reset()
	st.Orders.Reset()
	st.Wishlist.Reset()
	st.Admin.Reset()
	st.Products.Update(func(p *ProductState) { p.Selected = nil })
}

// observe signs the session out when the backend rejected its token. The
// client has already forgotten the token.
func (st *Store) observe(err error) {
	if appErr, ok := appErrors.IsAppError(err); ok && appErr.Code == appErrors.ErrCodeUnauthorized {
		st.logger.Info("Session signed out after backend rejected token")
		st.Auth.Update(func(a *AuthState) { *a = AuthState{} })
	}
}
