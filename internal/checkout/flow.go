// Package checkout drives one session's order placement: address selection,
// review, payment and the terminal success or failure outcome.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	"github.com/aaravmahajanofficial/storefront/internal/pricing"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Step int

const (
	StepAddressSelection Step = iota
	StepReviewOrder
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepAddressSelection:
		return "address"
	case StepReviewOrder:
		return "review"
	case StepPayment:
		return "payment"
	default:
		return "unknown"
	}
}

type Result string

const (
	ResultSucceeded Result = "succeeded"
	ResultFailed    Result = "failed"
)

const (
	MsgEmptyCart          = "Your cart is empty"
	MsgAddressRequired    = "Please select or add a shipping address"
	MsgVerificationFailed = "Payment verification failed"
	MsgPaymentCancelled   = "Payment cancelled. You can try again."
	MsgCreateOrderFailed  = "Failed to create order"
	MsgPaymentInProgress  = "A payment is already in progress"
	MsgCheckoutFinished   = "Checkout is already finished"
	newAddressIDPrefix    = "new_address_"
	paiseFactor           = 100
	confirmationTimeout   = 10 * time.Second
	cartPath              = "/cart"
)

// Outcome is the terminal result of a checkout, carrying what the success or
// failure page shows.
type Outcome struct {
	Result        Result               `json:"result"`
	OrderID       string               `json:"orderId"`
	OrderAmount   decimal.Decimal      `json:"orderAmount"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	Error         string               `json:"error,omitempty"`
	Dismissed     bool                 `json:"dismissed,omitempty"`
}

// State is an immutable view of the flow for rendering.
type State struct {
	Step         Step                    `json:"activeStep"`
	StepName     string                  `json:"stepName"`
	Address      *models.ShippingAddress `json:"shippingAddress"`
	IsNewAddress bool                    `json:"isNewAddress"`
	Quote        pricing.Quote           `json:"quote"`
	Placing      bool                    `json:"placing"`
	Payment      *payment.Options        `json:"payment,omitempty"`
	Outcome      *Outcome                `json:"outcome,omitempty"`
}

type Dependencies struct {
	Orders   Orders
	Cart     Cart
	Users    Users
	Ledger   Ledger
	Notifier Notifier
	Policy   pricing.Policy
	Payment  config.Payment
	Validate *validator.Validate
	Logger   *slog.Logger
}

// Flow is the checkout state machine of one session. It is safe for
// concurrent use; network calls run outside the lock and a placement in
// progress blocks every other transition.
type Flow struct {
	mu        sync.Mutex
	sessionID string
	deps      Dependencies
	now       func() time.Time

	step         Step
	address      *models.ShippingAddress
	isNewAddress bool
	placing      bool
	order        *models.Order
	pending      *payment.Options
	attemptID    uuid.UUID
	outcome      *Outcome
	done         chan struct{}
}

func New(sessionID string, deps Dependencies) *Flow {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Validate == nil {
		deps.Validate = utils.NewValidator()
	}

	return &Flow{
		sessionID: sessionID,
		deps:      deps,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Enter starts checkout over at the address step. It refuses an empty cart.
func (f *Flow) Enter() error {
	cart := f.deps.Cart.Current()
	if cart.IsEmpty() {
		return appErrors.ValidationError(MsgEmptyCart).WithRedirect(cartPath)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.placing {
		return appErrors.ConflictError(MsgPaymentInProgress)
	}

	f.resetLocked()

	return nil
}

func (f *Flow) resetLocked() {
	f.step = StepAddressSelection
	f.address = nil
	f.isNewAddress = false
	f.order = nil
	f.pending = nil
	f.attemptID = uuid.Nil
	f.outcome = nil
	f.done = make(chan struct{})
}

// editable reports an error unless the flow is idle at the given step.
func (f *Flow) editableLocked(step Step) error {
	if f.placing {
		return appErrors.ConflictError(MsgPaymentInProgress)
	}

	if f.outcome != nil {
		return appErrors.BadRequestError(MsgCheckoutFinished)
	}

	if f.step != step {
		return appErrors.BadRequestError(fmt.Sprintf("Not available at the %s step", f.step))
	}

	return nil
}

// SelectSavedAddress makes one of the user's saved addresses the shipping
// address. The recipient is the user's own name.
func (f *Flow) SelectSavedAddress(addressID string) error {
	user := f.deps.Users.CurrentUser()
	if user == nil {
		return appErrors.UnauthorizedError("Please log in to continue")
	}

	address, ok := user.Address(addressID)
	if !ok {
		return appErrors.NotFoundError("Address not found")
	}

	address.FullName = user.FullName()

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(StepAddressSelection); err != nil {
		return err
	}

	f.isNewAddress = false
	f.address = &address

	return nil
}

func (f *Flow) StartNewAddress() error {
	return f.toggleNewAddress(true)
}

func (f *Flow) CancelNewAddress() error {
	return f.toggleNewAddress(false)
}

func (f *Flow) toggleNewAddress(open bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(StepAddressSelection); err != nil {
		return err
	}

	f.isNewAddress = open
	f.address = nil

	return nil
}

// SubmitNewAddress validates a freshly entered address and, when it passes,
// uses it and moves on to review. Nothing is sent to the backend.
func (f *Flow) SubmitNewAddress(input models.AddressInput) (*models.ShippingAddress, error) {
	input = utils.SanitizeAddress(input)

	if err := utils.ValidateStruct(f.deps.Validate, input); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(StepAddressSelection); err != nil {
		return nil, err
	}

	address := &models.ShippingAddress{
		ID:           fmt.Sprintf("%s%d", newAddressIDPrefix, f.now().UnixMilli()),
		FullName:     input.FullName,
		Street:       input.Street,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		State:        input.State,
		ZipCode:      input.ZipCode,
		Country:      input.Country,
		Phone:        input.Phone,
	}

	f.address = address
	f.step = StepReviewOrder

	clone := *address

	return &clone, nil
}

// Next advances one step. Leaving the address step requires an address.
func (f *Flow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(f.step); err != nil {
		return err
	}

	switch f.step {
	case StepAddressSelection:
		if f.address == nil {
			return appErrors.ValidationError(MsgAddressRequired)
		}
		f.step = StepReviewOrder
	case StepReviewOrder:
		f.step = StepPayment
	default:
		return appErrors.BadRequestError("Already at the payment step")
	}

	return nil
}

func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(f.step); err != nil {
		return err
	}

	if f.step == StepAddressSelection {
		return appErrors.BadRequestError("Already at the first step")
	}

	f.step--

	return nil
}

// Quote prices the current cart. It is advisory; the backend's figures are
// authoritative.
func (f *Flow) Quote() pricing.Quote {
	return f.deps.Policy.Quote(f.deps.Cart.Current().TotalAmount)
}

// claim marks the flow as placing an order and returns the address to ship
// to.
func (f *Flow) claim() (models.ShippingAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.editableLocked(StepPayment); err != nil {
		return models.ShippingAddress{}, err
	}

	if f.address == nil {
		return models.ShippingAddress{}, appErrors.ValidationError(MsgAddressRequired)
	}

	f.placing = true

	return *f.address, nil
}

func (f *Flow) release() {
	f.mu.Lock()
	f.placing = false
	f.mu.Unlock()
}

func (f *Flow) buildOrderRequest(cart models.Cart, address models.ShippingAddress, method models.PaymentMethod) *models.CreateOrderRequest {
	quote := f.deps.Policy.Quote(cart.TotalAmount)

	items := make([]models.OrderItemRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, models.OrderItemRequest{
			Product:  item.Product.ID,
			Quantity: item.Quantity,
			Size:     item.Size,
			Price:    item.Product.Price.InexactFloat64(),
			Name:     item.Product.Name,
			Image:    item.Image(),
		})
	}

	return &models.CreateOrderRequest{
		Items:           items,
		ShippingAddress: address.Request(),
		PaymentMethod:   method,
		TotalPrice:      quote.Subtotal.InexactFloat64(),
		ShippingPrice:   quote.Shipping.InexactFloat64(),
		TaxPrice:        quote.Tax.InexactFloat64(),
		TotalAmount:     quote.Total.InexactFloat64(),
	}
}

// place creates the order for the claimed address. On failure the flow stays
// at the payment step so the user can choose again.
func (f *Flow) place(ctx context.Context, address models.ShippingAddress, method models.PaymentMethod) (*models.PlacedOrder, error) {
	cart := f.deps.Cart.Current()
	if cart.IsEmpty() {
		f.release()
		return nil, appErrors.ValidationError(MsgEmptyCart).WithRedirect(cartPath)
	}

	placed, err := f.deps.Orders.Create(ctx, f.buildOrderRequest(cart, address, method))
	if err != nil {
		f.release()
		f.deps.Logger.Error("Order creation failed",
			slog.String("session_id", f.sessionID),
			slog.String("payment_method", string(method)),
			slog.String("error", err.Error()))

		if appErr, ok := appErrors.IsAppError(err); ok {
			return nil, appErr
		}

		return nil, appErrors.ThirdPartyError(MsgCreateOrderFailed).WithError(err)
	}

	attemptID := f.record(ctx, placed.Order, method)

	f.mu.Lock()
	f.order = placed.Order
	f.attemptID = attemptID
	f.mu.Unlock()

	return placed, nil
}

// PlaceCashOnDelivery creates a cash-on-delivery order. The backend confirms
// it immediately, so the cart is cleared and the flow succeeds.
func (f *Flow) PlaceCashOnDelivery(ctx context.Context) (*Outcome, error) {
	address, err := f.claim()
	if err != nil {
		return nil, err
	}

	placed, err := f.place(ctx, address, models.PaymentMethodCashOnDelivery)
	if err != nil {
		return nil, err
	}

	f.deps.Cart.ClearAfterOrder(ctx)

	return f.succeed(ctx, placed.Order, models.PaymentMethodCashOnDelivery), nil
}

// BeginOnlinePayment creates a pending online-payment order and returns the
// options the payment widget must be opened with.
func (f *Flow) BeginOnlinePayment(ctx context.Context) (*payment.Options, error) {
	address, err := f.claim()
	if err != nil {
		return nil, err
	}

	placed, err := f.place(ctx, address, models.PaymentMethodRazorpay)
	if err != nil {
		return nil, err
	}

	opts := f.widgetOptions(placed, address)

	f.mu.Lock()
	f.pending = &opts
	f.mu.Unlock()

	return &opts, nil
}

func (f *Flow) widgetOptions(placed *models.PlacedOrder, address models.ShippingAddress) payment.Options {
	order := placed.Order
	cfg := f.deps.Payment

	opts := payment.Options{
		Key:         cfg.RazorpayKeyID,
		Amount:      order.TotalAmount.Mul(decimal.NewFromInt(paiseFactor)).Round(0).IntPart(),
		Currency:    cfg.Currency,
		Name:        cfg.StoreName,
		Description: "Order #" + order.ID,
		OrderID:     order.ID,
		Prefill:     payment.Prefill{Contact: address.Phone},
		Theme:       payment.Theme{Color: cfg.ThemeColor},
		Notes:       payment.Notes{OrderID: order.ID, ShippingAddress: address.OneLine()},
	}

	if gateway := placed.GatewayOrder; gateway != nil {
		opts.OrderID = gateway.ID
		opts.Amount = gateway.Amount

		if gateway.Key != "" {
			opts.Key = gateway.Key
		}

		if gateway.Currency != "" {
			opts.Currency = gateway.Currency
		}
	}

	if user := f.deps.Users.CurrentUser(); user != nil {
		opts.Prefill.Name = user.FirstName
		opts.Prefill.Email = user.Email
	}

	return opts
}

// AwaitPayment opens the widget with the options from BeginOnlinePayment and
// settles the flow with whatever the widget reports. It blocks until then.
func (f *Flow) AwaitPayment(ctx context.Context, widget payment.Widget, opts payment.Options) *Outcome {
	f.mu.Lock()
	order := f.order
	f.mu.Unlock()

	if order == nil {
		return nil
	}

	result, err := widget.Open(ctx, opts)
	if err != nil {
		var payErr *payment.Error
		if errors.As(err, &payErr) && payErr.Dismissed {
			return f.fail(ctx, order, MsgPaymentCancelled, true)
		}

		if errors.As(err, &payErr) {
			return f.fail(ctx, order, payErr.Description, false)
		}

		return f.fail(ctx, order, err.Error(), false)
	}

	_, err = f.deps.Orders.VerifyPayment(ctx, &models.VerifyPaymentRequest{
		OrderID:         order.ID,
		PaymentID:       result.PaymentID,
		RazorpayOrderID: result.GatewayOrderID,
		Signature:       result.Signature,
	})
	if err != nil {
		f.deps.Logger.Error("Payment verification failed",
			slog.String("session_id", f.sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))

		return f.fail(ctx, order, MsgVerificationFailed, false)
	}

	f.deps.Cart.ClearAfterOrder(ctx)

	return f.succeed(ctx, order, models.PaymentMethodRazorpay)
}

// PayOnline runs the whole online payment against widget.
func (f *Flow) PayOnline(ctx context.Context, widget payment.Widget) (*Outcome, error) {
	opts, err := f.BeginOnlinePayment(ctx)
	if err != nil {
		return nil, err
	}

	return f.AwaitPayment(ctx, widget, *opts), nil
}

func (f *Flow) succeed(ctx context.Context, order *models.Order, method models.PaymentMethod) *Outcome {
	outcome := &Outcome{
		Result:        ResultSucceeded,
		OrderID:       order.ID,
		OrderAmount:   order.TotalAmount,
		PaymentMethod: method,
	}

	f.finish(ctx, outcome, models.AttemptStatusSucceeded)

	f.deps.Logger.Info("Checkout succeeded",
		slog.String("session_id", f.sessionID),
		slog.String("order_id", order.ID),
		slog.String("payment_method", string(method)))

	f.notify(ctx, order)

	return outcome
}

// fail settles the flow on a payment failure. The cart is left untouched.
func (f *Flow) fail(ctx context.Context, order *models.Order, message string, dismissed bool) *Outcome {
	outcome := &Outcome{
		Result:        ResultFailed,
		OrderID:       order.ID,
		OrderAmount:   order.TotalAmount,
		PaymentMethod: models.PaymentMethodRazorpay,
		Error:         message,
		Dismissed:     dismissed,
	}

	f.finish(ctx, outcome, models.AttemptStatusFailed)

	f.deps.Logger.Warn("Checkout failed",
		slog.String("session_id", f.sessionID),
		slog.String("order_id", order.ID),
		slog.String("error", message))

	return outcome
}

func (f *Flow) finish(ctx context.Context, outcome *Outcome, status models.AttemptStatus) {
	f.mu.Lock()
	f.placing = false
	f.pending = nil
	f.outcome = outcome
	attemptID := f.attemptID
	done := f.done
	f.mu.Unlock()

	close(done)

	label := string(outcome.Result)
	if outcome.Dismissed {
		label = "dismissed"
	}
	metrics.CheckoutOutcome(string(outcome.PaymentMethod), label)

	if f.deps.Ledger != nil && attemptID != uuid.Nil {
		if err := f.deps.Ledger.UpdateStatus(context.WithoutCancel(ctx), attemptID, status, outcome.Error); err != nil {
			f.deps.Logger.Warn("Failed to update checkout attempt", slog.String("error", err.Error()))
		}
	}
}

func (f *Flow) record(ctx context.Context, order *models.Order, method models.PaymentMethod) uuid.UUID {
	if f.deps.Ledger == nil {
		return uuid.Nil
	}

	attempt := &models.CheckoutAttempt{
		SessionID:     f.sessionID,
		OrderID:       order.ID,
		PaymentMethod: method,
		Amount:        order.TotalAmount,
		Status:        models.AttemptStatusPending,
	}

	if err := f.deps.Ledger.Create(ctx, attempt); err != nil {
		f.deps.Logger.Warn("Failed to record checkout attempt", slog.String("error", err.Error()))
		return uuid.Nil
	}

	return attempt.ID
}

func (f *Flow) notify(ctx context.Context, order *models.Order) {
	user := f.deps.Users.CurrentUser()
	if f.deps.Notifier == nil || user == nil {
		return
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), confirmationTimeout)
	defer cancel()

	if err := f.deps.Notifier.SendOrderConfirmation(notifyCtx, user, order); err != nil {
		f.deps.Logger.Warn("Failed to send order confirmation",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))
	}
}

// Retry returns a failed checkout to the payment step, keeping the address.
// The next payment creates a new order.
func (f *Flow) Retry() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outcome == nil || f.outcome.Result != ResultFailed {
		return appErrors.BadRequestError("Only a failed checkout can be retried")
	}

	f.step = StepPayment
	f.order = nil
	f.attemptID = uuid.Nil
	f.outcome = nil
	f.done = make(chan struct{})

	return nil
}

// Abandon drops the checkout; the user is sent back to the cart.
func (f *Flow) Abandon() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.placing {
		return appErrors.ConflictError(MsgPaymentInProgress)
	}

	f.resetLocked()

	return nil
}

func (f *Flow) Outcome() *Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.outcome == nil {
		return nil
	}

	outcome := *f.outcome

	return &outcome
}

// PendingPayment returns the widget options of the payment being awaited.
func (f *Flow) PendingPayment() (payment.Options, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending == nil {
		return payment.Options{}, false
	}

	return *f.pending, true
}

func (f *Flow) Snapshot() State {
	quote := f.Quote()

	f.mu.Lock()
	defer f.mu.Unlock()

	state := State{
		Step:         f.step,
		StepName:     f.step.String(),
		IsNewAddress: f.isNewAddress,
		Quote:        quote,
		Placing:      f.placing,
	}

	if f.address != nil {
		address := *f.address
		state.Address = &address
	}

	if f.pending != nil {
		opts := *f.pending
		state.Payment = &opts
	}

	if f.outcome != nil {
		outcome := *f.outcome
		state.Outcome = &outcome
	}

	return state
}

// Wait blocks until the checkout reaches an outcome or ctx ends.
func (f *Flow) Wait(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()

	select {
	case <-done:
		return f.Outcome(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
