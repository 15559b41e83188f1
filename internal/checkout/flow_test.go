package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	"github.com/aaravmahajanofficial/storefront/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) Create(ctx context.Context, req *models.CreateOrderRequest) (*models.PlacedOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.PlacedOrder), args.Error(1)
}

func (m *MockOrders) VerifyPayment(ctx context.Context, req *models.VerifyPaymentRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, attempt *models.CheckoutAttempt) error {
	args := m.Called(ctx, attempt)
	attempt.ID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

	return args.Error(0)
}

func (m *MockLedger) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AttemptStatus, errorMsg string) error {
	args := m.Called(ctx, id, status, errorMsg)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {
	args := m.Called(ctx, user, order)
	return args.Error(0)
}

type fakeCart struct {
	mu      sync.Mutex
	cart    models.Cart
	cleared int
}

func (c *fakeCart) Current() models.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cart.Clone()
}

func (c *fakeCart) ClearAfterOrder(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cart = models.NewCart(nil)
	c.cleared++
}

type fakeUsers struct {
	user *models.User
}

func (u fakeUsers) CurrentUser() *models.User {
	return u.user.Clone()
}

type widgetFunc func(ctx context.Context, opts payment.Options) (*payment.Outcome, error)

func (w widgetFunc) Open(ctx context.Context, opts payment.Options) (*payment.Outcome, error) {
	return w(ctx, opts)
}

var ledgerID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func testUser() *models.User {
	return &models.User{
		ID:        "u1",
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Addresses: []models.ShippingAddress{
			{ID: "a1", Street: "12 MG Road", City: "Pune", State: "MH", ZipCode: "411001", Country: "India", Phone: "9876543210", IsDefault: true},
		},
	}
}

// cartOf builds a cart with a single line totalling subtotal.
func cartOf(subtotal int64) *fakeCart {
	return &fakeCart{cart: models.NewCart([]models.CartItem{{
		ID:       "i1",
		Product:  models.CartProduct{ID: "p1", Name: "Tee", Price: decimal.NewFromInt(subtotal), Images: []string{"tee.jpg"}},
		Quantity: 1,
		Size:     "M",
	}})}
}

type fixture struct {
	flow     *checkout.Flow
	orders   *MockOrders
	ledger   *MockLedger
	notifier *MockNotifier
	cart     *fakeCart
}

func setup(t *testing.T, cart *fakeCart) fixture {
	t.Helper()

	fx := fixture{
		orders:   &MockOrders{},
		ledger:   &MockLedger{},
		notifier: &MockNotifier{},
		cart:     cart,
	}

	fx.flow = checkout.New("sess-1", checkout.Dependencies{
		Orders:   fx.orders,
		Cart:     cart,
		Users:    fakeUsers{user: testUser()},
		Ledger:   fx.ledger,
		Notifier: fx.notifier,
		Policy:   pricing.DefaultPolicy(),
		Payment: config.Payment{
			RazorpayKeyID: "rzp_test_key",
			Currency:      "INR",
			StoreName:     "Ecommerce Store",
			ThemeColor:    "#2874f0",
		},
	})

	t.Cleanup(func() {
		fx.orders.AssertExpectations(t)
		fx.ledger.AssertExpectations(t)
		fx.notifier.AssertExpectations(t)
	})

	return fx
}

// toPayment enters checkout with the saved address and walks to the payment step.
func toPayment(t *testing.T, flow *checkout.Flow) {
	t.Helper()

	require.NoError(t, flow.Enter())
	require.NoError(t, flow.SelectSavedAddress("a1"))
	require.NoError(t, flow.Next())
	require.NoError(t, flow.Next())
}

func appCode(t *testing.T, err error) string {
	t.Helper()

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)

	return appErr.Code
}

func TestNavigation(t *testing.T) {
	t.Run("Failure - Empty Cart", func(t *testing.T) {
		// Arrange
		fx := setup(t, &fakeCart{cart: models.NewCart(nil)})

		// Act
		err := fx.flow.Enter()

		// Assert
		require.Error(t, err)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, checkout.MsgEmptyCart, appErr.Message)
		assert.Equal(t, "/cart", appErr.Redirect)
	})

	t.Run("Failure - Next Without Address Keeps Step", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())

		// Act
		err := fx.flow.Next()

		// Assert
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrCodeValidation, appCode(t, err))
		assert.Equal(t, checkout.MsgAddressRequired, err.Error())
		assert.Equal(t, checkout.StepAddressSelection, fx.flow.Snapshot().Step)
	})

	t.Run("Failure - Opening New Address Form Is Not An Address", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		require.NoError(t, fx.flow.StartNewAddress())

		// Act
		err := fx.flow.Next()

		// Assert
		require.Error(t, err)
		state := fx.flow.Snapshot()
		assert.True(t, state.IsNewAddress)
		assert.Equal(t, checkout.StepAddressSelection, state.Step)
	})

	t.Run("Success - Saved Address Uses Account Name", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())

		// Act
		err := fx.flow.SelectSavedAddress("a1")

		// Assert
		require.NoError(t, err)
		state := fx.flow.Snapshot()
		require.NotNil(t, state.Address)
		assert.Equal(t, "Asha Rao", state.Address.FullName)
		assert.Equal(t, "a1", state.Address.ID)
	})

	t.Run("Failure - Unknown Saved Address", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())

		// Act
		err := fx.flow.SelectSavedAddress("missing")

		// Assert
		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))
	})

	t.Run("Success - Steps Forward And Back", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		// Act & Assert
		assert.Equal(t, checkout.StepPayment, fx.flow.Snapshot().Step)
		assert.Error(t, fx.flow.Next())

		require.NoError(t, fx.flow.Back())
		assert.Equal(t, checkout.StepReviewOrder, fx.flow.Snapshot().Step)

		require.NoError(t, fx.flow.Back())
		assert.Equal(t, checkout.StepAddressSelection, fx.flow.Snapshot().Step)
		assert.Error(t, fx.flow.Back())

		// The chosen address survives re-entry into address editing.
		assert.NotNil(t, fx.flow.Snapshot().Address)
	})

	t.Run("Success - Cancel New Address Clears Selection", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		require.NoError(t, fx.flow.SelectSavedAddress("a1"))

		// Act
		require.NoError(t, fx.flow.StartNewAddress())
		require.NoError(t, fx.flow.CancelNewAddress())

		// Assert
		state := fx.flow.Snapshot()
		assert.Nil(t, state.Address)
		assert.False(t, state.IsNewAddress)
	})
}

func TestSubmitNewAddress(t *testing.T) {
	valid := models.AddressInput{
		FullName: "Asha Rao",
		Street:   "12 MG Road",
		City:     "Pune",
		State:    "MH",
		ZipCode:  "411001",
		Country:  "India",
		Phone:    "9876543210",
	}

	t.Run("Success - Advances To Review", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		require.NoError(t, fx.flow.StartNewAddress())

		// Act
		address, err := fx.flow.SubmitNewAddress(valid)

		// Assert
		require.NoError(t, err)
		assert.Contains(t, address.ID, "new_address_")
		assert.Equal(t, checkout.StepReviewOrder, fx.flow.Snapshot().Step)
	})

	t.Run("Failure - Invalid Pincode And Phone", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		input := valid
		input.ZipCode = "4110"
		input.Phone = "98765"

		// Act
		address, err := fx.flow.SubmitNewAddress(input)

		// Assert
		assert.Nil(t, address)
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Invalid pincode", appErr.Fields["zipCode"])
		assert.Equal(t, "Invalid phone number", appErr.Fields["phone"])
		assert.Equal(t, checkout.StepAddressSelection, fx.flow.Snapshot().Step)
	})

	t.Run("Failure - Markup Only Name Is Missing", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		input := valid
		input.FullName = "<script></script>"

		// Act
		_, err := fx.flow.SubmitNewAddress(input)

		// Assert
		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "Full name is required", appErr.Fields["fullName"])
	})
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name                 string
		subtotal             int64
		shipping, tax, total string
	}{
		{name: "Below Threshold", subtotal: 80, shipping: "10", tax: "12", total: "102"},
		{name: "Above Threshold", subtotal: 150, shipping: "0", tax: "22.5", total: "172.5"},
		{name: "Exactly Threshold", subtotal: 100, shipping: "10", tax: "15", total: "125"},
	}

	for _, tc := range tests {
		t.Run("Success - "+tc.name, func(t *testing.T) {
			// Arrange
			fx := setup(t, cartOf(tc.subtotal))

			// Act
			quote := fx.flow.Quote()

			// Assert
			assert.True(t, decimal.RequireFromString(tc.shipping).Equal(quote.Shipping), "shipping %s", quote.Shipping)
			assert.True(t, decimal.RequireFromString(tc.tax).Equal(quote.Tax), "tax %s", quote.Tax)
			assert.True(t, decimal.RequireFromString(tc.total).Equal(quote.Total), "total %s", quote.Total)
		})
	}
}

func TestPlaceCashOnDelivery(t *testing.T) {
	t.Run("Success - Processing Order Clears Cart", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		order := &models.Order{ID: "o1", Status: models.OrderStatusProcessing, TotalAmount: decimal.NewFromInt(102)}

		fx.orders.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			return req.PaymentMethod == models.PaymentMethodCashOnDelivery &&
				req.TotalPrice == 80 && req.ShippingPrice == 10 && req.TaxPrice == 12 && req.TotalAmount == 102 &&
				req.ShippingAddress.Country == "India" && len(req.Items) == 1 && req.Items[0].Image == "tee.jpg"
		})).Return(&models.PlacedOrder{Order: order}, nil).Once()
		fx.ledger.On("Create", mock.Anything, mock.MatchedBy(func(a *models.CheckoutAttempt) bool {
			return a.OrderID == "o1" && a.SessionID == "sess-1" && a.Status == models.AttemptStatusPending
		})).Return(nil).Once()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusSucceeded, "").Return(nil).Once()
		fx.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything, order).Return(nil).Once()

		// Act
		outcome, err := fx.flow.PlaceCashOnDelivery(t.Context())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, checkout.ResultSucceeded, outcome.Result)
		assert.Equal(t, "o1", outcome.OrderID)
		assert.True(t, decimal.NewFromInt(102).Equal(outcome.OrderAmount))
		assert.Equal(t, 1, fx.cart.cleared)
		assert.Equal(t, outcome, fx.flow.Outcome())
	})

	t.Run("Failure - Order Creation Keeps Cart And Step", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		fx.orders.On("Create", mock.Anything, mock.Anything).
			Return(nil, appErrors.APIError(500, "Out of stock")).Once()

		// Act
		outcome, err := fx.flow.PlaceCashOnDelivery(t.Context())

		// Assert
		assert.Nil(t, outcome)
		require.Error(t, err)
		assert.Equal(t, "Out of stock", err.Error())
		assert.Equal(t, 0, fx.cart.cleared)
		state := fx.flow.Snapshot()
		assert.Equal(t, checkout.StepPayment, state.Step)
		assert.False(t, state.Placing)
		assert.Nil(t, state.Outcome)
	})

	t.Run("Failure - Not At Payment Step", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		require.NoError(t, fx.flow.Enter())
		require.NoError(t, fx.flow.SelectSavedAddress("a1"))

		// Act
		_, err := fx.flow.PlaceCashOnDelivery(t.Context())

		// Assert
		assert.Equal(t, appErrors.ErrCodeBadRequest, appCode(t, err))
	})
}

func placedOnline() *models.PlacedOrder {
	return &models.PlacedOrder{
		Order: &models.Order{ID: "o2", Status: models.OrderStatusPending, TotalAmount: decimal.NewFromInt(102)},
		GatewayOrder: &models.GatewayOrder{
			ID:       "order_rzp_1",
			Amount:   10200,
			Currency: "INR",
		},
	}
}

func TestPayOnline(t *testing.T) {
	t.Run("Success - Verified Payment Clears Cart", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		placed := placedOnline()
		fx.orders.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
			return req.PaymentMethod == models.PaymentMethodRazorpay
		})).Return(placed, nil).Once()
		fx.orders.On("VerifyPayment", mock.Anything, &models.VerifyPaymentRequest{
			OrderID:         "o2",
			PaymentID:       "pay_1",
			RazorpayOrderID: "order_rzp_1",
			Signature:       "sig",
		}).Return(&models.Order{ID: "o2", Status: models.OrderStatusProcessing, IsPaid: true}, nil).Once()
		fx.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusSucceeded, "").Return(nil).Once()
		fx.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything, placed.Order).Return(nil).Once()

		var opened payment.Options
		widget := widgetFunc(func(_ context.Context, opts payment.Options) (*payment.Outcome, error) {
			opened = opts
			return &payment.Outcome{PaymentID: "pay_1", GatewayOrderID: "order_rzp_1", Signature: "sig"}, nil
		})

		// Act
		outcome, err := fx.flow.PayOnline(t.Context(), widget)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, checkout.ResultSucceeded, outcome.Result)
		assert.Equal(t, 1, fx.cart.cleared)

		assert.Equal(t, "rzp_test_key", opened.Key)
		assert.Equal(t, int64(10200), opened.Amount)
		assert.Equal(t, "order_rzp_1", opened.OrderID)
		assert.Equal(t, "Order #o2", opened.Description)
		assert.Equal(t, "Ecommerce Store", opened.Name)
		assert.Equal(t, "Asha", opened.Prefill.Name)
		assert.Equal(t, "asha@example.com", opened.Prefill.Email)
		assert.Equal(t, "9876543210", opened.Prefill.Contact)
		assert.Equal(t, "#2874f0", opened.Theme.Color)
		assert.Equal(t, "o2", opened.Notes.OrderID)
		assert.Equal(t, "12 MG Road, Pune, MH, 411001", opened.Notes.ShippingAddress)
	})

	t.Run("Failure - Widget Failure Keeps Cart", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		fx.orders.On("Create", mock.Anything, mock.Anything).Return(placedOnline(), nil).Once()
		fx.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusFailed, "Card declined").Return(nil).Once()

		widget := widgetFunc(func(context.Context, payment.Options) (*payment.Outcome, error) {
			return nil, payment.Failed("Card declined")
		})

		// Act
		outcome, err := fx.flow.PayOnline(t.Context(), widget)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, checkout.ResultFailed, outcome.Result)
		assert.Equal(t, "o2", outcome.OrderID)
		assert.Equal(t, "Card declined", outcome.Error)
		assert.Equal(t, 0, fx.cart.cleared)
		cart := fx.cart.Current()
		assert.False(t, cart.IsEmpty())
		fx.orders.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Dismissed Widget", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		fx.orders.On("Create", mock.Anything, mock.Anything).Return(placedOnline(), nil).Once()
		fx.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusFailed, checkout.MsgPaymentCancelled).Return(nil).Once()

		widget := widgetFunc(func(context.Context, payment.Options) (*payment.Outcome, error) {
			return nil, payment.Dismissed()
		})

		// Act
		outcome, err := fx.flow.PayOnline(t.Context(), widget)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, checkout.ResultFailed, outcome.Result)
		assert.True(t, outcome.Dismissed)
		assert.Equal(t, checkout.MsgPaymentCancelled, outcome.Error)
		assert.Equal(t, 0, fx.cart.cleared)
	})

	t.Run("Failure - Verification Rejected", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		fx.orders.On("Create", mock.Anything, mock.Anything).Return(placedOnline(), nil).Once()
		fx.orders.On("VerifyPayment", mock.Anything, mock.Anything).
			Return(nil, appErrors.APIError(400, "Invalid signature")).Once()
		fx.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusFailed, checkout.MsgVerificationFailed).Return(nil).Once()

		widget := widgetFunc(func(context.Context, payment.Options) (*payment.Outcome, error) {
			return &payment.Outcome{PaymentID: "pay_1", GatewayOrderID: "order_rzp_1", Signature: "bad"}, nil
		})

		// Act
		outcome, err := fx.flow.PayOnline(t.Context(), widget)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, checkout.ResultFailed, outcome.Result)
		assert.Equal(t, checkout.MsgVerificationFailed, outcome.Error)
		assert.Equal(t, 0, fx.cart.cleared)
	})

	t.Run("Success - Retry Creates A New Order", func(t *testing.T) {
		// Arrange
		fx := setup(t, cartOf(80))
		toPayment(t, fx.flow)

		fx.orders.On("Create", mock.Anything, mock.Anything).Return(placedOnline(), nil).Twice()
		fx.ledger.On("Create", mock.Anything, mock.Anything).Return(nil).Twice()
		fx.ledger.On("UpdateStatus", mock.Anything, ledgerID, models.AttemptStatusFailed, checkout.MsgPaymentCancelled).Return(nil).Twice()

		dismiss := widgetFunc(func(context.Context, payment.Options) (*payment.Outcome, error) {
			return nil, payment.Dismissed()
		})

		_, err := fx.flow.PayOnline(t.Context(), dismiss)
		require.NoError(t, err)

		// Act
		require.NoError(t, fx.flow.Retry())

		// Assert
		state := fx.flow.Snapshot()
		assert.Equal(t, checkout.StepPayment, state.Step)
		assert.Nil(t, state.Outcome)
		assert.NotNil(t, state.Address)

		_, err = fx.flow.PayOnline(t.Context(), dismiss)
		require.NoError(t, err)
	})
}

func TestBrokeredPayment(t *testing.T) {
	// Arrange
	fx := setup(t, cartOf(150))
	toPayment(t, fx.flow)

	fx.orders.On("Create", mock.Anything, mock.Anything).Return(placedOnline(), nil).Once()
	fx.ledger.On("Create", mock.Anything, mock.Anything).Return(errors.New("ledger down")).Once()

	broker := payment.NewBroker(time.Minute)

	opts, err := fx.flow.BeginOnlinePayment(t.Context())
	require.NoError(t, err)

	pending, ok := fx.flow.PendingPayment()
	require.True(t, ok)
	assert.Equal(t, *opts, pending)
	assert.Error(t, fx.flow.Abandon(), "a payment in progress cannot be abandoned")

	go fx.flow.AwaitPayment(context.Background(), broker, *opts)

	// Act
	require.Eventually(t, func() bool {
		_, parked := broker.Pending(opts.OrderID)
		return parked
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, broker.Resolve(opts.OrderID, payment.Callback{Failure: payment.Failed("Insufficient funds")}))

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	outcome, err := fx.flow.Wait(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, checkout.ResultFailed, outcome.Result)
	assert.Equal(t, "Insufficient funds", outcome.Error)

	require.NoError(t, fx.flow.Abandon())
	assert.Equal(t, checkout.StepAddressSelection, fx.flow.Snapshot().Step)
}
