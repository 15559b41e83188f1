package store

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type OrderState struct {
	Orders   []models.Order `json:"orders"`
	Selected *models.Order  `json:"selectedOrder"`
}

func cloneOrder(order *models.Order) *models.Order {
	if order == nil {
		return nil
	}

	clone := *order
	clone.Items = append([]models.OrderItem(nil), order.Items...)

	if order.PaymentResult != nil {
		result := *order.PaymentResult
		clone.PaymentResult = &result
	}

	return &clone
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for idx := range orders {
		out[idx] = *cloneOrder(&orders[idx])
	}

	return out
}

func (o OrderState) clone() OrderState {
	return OrderState{Orders: cloneOrders(o.Orders), Selected: cloneOrder(o.Selected)}
}

// replaceOrder swaps in order by id and reports whether it was present.
func replaceOrder(orders []models.Order, order *models.Order) bool {
	for idx := range orders {
		if orders[idx].ID == order.ID {
			orders[idx] = *cloneOrder(order)
			return true
		}
	}

	return false
}

type OrderSlice struct {
	*Slice[OrderState]
	st  *Store
	api OrderAPI
}

func newOrderSlice(st *Store, api OrderAPI) *OrderSlice {
	return &OrderSlice{
		Slice: NewSlice("order", func() OrderState { return OrderState{Orders: []models.Order{}} }, OrderState.clone),
		st:    st,
		api:   api,
	}
}

// Create places an order. The initial status follows the payment method:
// pending for online payment, processing otherwise.
func (o *OrderSlice) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.PlacedOrder, error) {
	req.Status = req.PaymentMethod.InitialStatus()

	return run(ctx, o.st, o.Slice, func(ctx context.Context) (*models.PlacedOrder, error) {
		return o.api.CreateOrder(ctx, req)
	}, func(state *OrderState, placed *models.PlacedOrder) {
		state.Selected = cloneOrder(placed.Order)
		state.Orders = append([]models.Order{*cloneOrder(placed.Order)}, state.Orders...)
	})
}

func (o *OrderSlice) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error) {
	return run(ctx, o.st, o.Slice, func(ctx context.Context) (*models.Order, error) {
		return o.api.VerifyPayment(ctx, req)
	}, o.replace)
}

func (o *OrderSlice) FetchAll(ctx context.Context) ([]models.Order, error) {
	return run(ctx, o.st, o.Slice, o.api.ListMyOrders, func(state *OrderState, orders []models.Order) {
		state.Orders = cloneOrders(orders)
	})
}

func (o *OrderSlice) FetchByID(ctx context.Context, id string) (*models.Order, error) {
	return run(ctx, o.st, o.Slice, func(ctx context.Context) (*models.Order, error) {
		return o.api.GetOrder(ctx, id)
	}, func(state *OrderState, order *models.Order) {
		state.Selected = cloneOrder(order)
	})
}

func (o *OrderSlice) Cancel(ctx context.Context, id string) (*models.Order, error) {
	return run(ctx, o.st, o.Slice, func(ctx context.Context) (*models.Order, error) {
		return o.api.CancelOrder(ctx, id)
	}, o.replace)
}

func (o *OrderSlice) replace(state *OrderState, order *models.Order) {
	replaceOrder(state.Orders, order)

	if state.Selected == nil || state.Selected.ID == order.ID {
		state.Selected = cloneOrder(order)
	}
}

func (o *OrderSlice) ClearSelected() {
	o.Update(func(state *OrderState) { state.Selected = nil })
}
