package handlers

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/checkout"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/session"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"

	callbackWait = 30 * time.Second
)

// AttemptReader looks up the last recorded checkout of a session, used when
// the in-memory outcome is gone.
type AttemptReader interface {
	GetLatestBySession(ctx context.Context, sessionID string) (*models.CheckoutAttempt, error)
}

type CheckoutHandler struct {
	validator *validator.Validate
	provider  string
	broker    *payment.Broker
	headless  payment.Widget
	attempts  AttemptReader
}

// NewCheckoutHandler wires the payment provider. With the razorpay provider the
// browser reports through broker; with stripe, headless settles the payment
// within the request.
func NewCheckoutHandler(validate *validator.Validate, provider string, broker *payment.Broker, headless payment.Widget, attempts AttemptReader) *CheckoutHandler {
	return &CheckoutHandler{
		validator: validate,
		provider:  provider,
		broker:    broker,
		headless:  headless,
		attempts:  attempts,
	}
}

// transition runs one flow step and answers with the flow's new state.
func (h *CheckoutHandler) transition(action string, step func(*http.Request, *session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		if err := step(r, sess); err != nil {
			logger.Warn("Checkout step rejected", slog.String("action", action), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, sess.Checkout.Snapshot())
	}
}

func (h *CheckoutHandler) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, _, ok := requestSession(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, sess.Checkout.Snapshot())
	}
}

// Enter godoc
//
//	@Summary		Start checkout
//	@Description	Refreshes the cart and restarts checkout at the address step. An empty cart redirects to /cart.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	checkout.State
//	@Failure		400	{object}	response.ErrorResponse	"Cart is empty"
//	@Router			/checkout [post]
func (h *CheckoutHandler) Enter() http.HandlerFunc {
	return h.transition("enter", func(r *http.Request, sess *session.Session) error {
		if _, err := sess.Store.Cart.Fetch(r.Context()); err != nil {
			return err
		}

		return sess.Checkout.Enter()
	})
}

func (h *CheckoutHandler) SelectAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.SelectAddressRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		if err := sess.Checkout.SelectSavedAddress(req.AddressID); err != nil {
			logger.Warn("Address selection rejected", slog.String("addressId", req.AddressID), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, sess.Checkout.Snapshot())
	}
}

func (h *CheckoutHandler) StartNewAddress() http.HandlerFunc {
	return h.transition("start_new_address", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.StartNewAddress()
	})
}

func (h *CheckoutHandler) CancelNewAddress() http.HandlerFunc {
	return h.transition("cancel_new_address", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.CancelNewAddress()
	})
}

// SubmitNewAddress godoc
//
//	@Summary		Ship to a new address
//	@Description	Validates the address and moves on to review. The address is not saved to the profile.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			address	body		models.AddressInput	true	"Address"
//	@Success		200		{object}	checkout.State
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Router			/checkout/address/new [post]
func (h *CheckoutHandler) SubmitNewAddress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.AddressInput
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		if _, err := sess.Checkout.SubmitNewAddress(req); err != nil {
			logger.Warn("New address rejected", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, sess.Checkout.Snapshot())
	}
}

func (h *CheckoutHandler) Next() http.HandlerFunc {
	return h.transition("next", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.Next()
	})
}

func (h *CheckoutHandler) Back() http.HandlerFunc {
	return h.transition("back", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.Back()
	})
}

func (h *CheckoutHandler) Retry() http.HandlerFunc {
	return h.transition("retry", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.Retry()
	})
}

func (h *CheckoutHandler) Abandon() http.HandlerFunc {
	return h.transition("abandon", func(_ *http.Request, sess *session.Session) error {
		return sess.Checkout.Abandon()
	})
}

// Pay godoc
//
//	@Summary		Place the order
//	@Description	Cash on delivery confirms at once (201). Online payment answers 202 with the widget options;
//	@Description	the browser later posts the widget result to /checkout/payment/callback.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			payment	body		models.PayRequest	true	"Payment method"
//	@Success		201		{object}	checkout.Outcome
//	@Success		202		{object}	payment.Options
//	@Failure		400		{object}	response.ErrorResponse	"Not at the payment step"
//	@Failure		409		{object}	response.ErrorResponse	"Payment already in progress"
//	@Router			/checkout/pay [post]
func (h *CheckoutHandler) Pay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.PayRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		logger = logger.With(slog.String("payment_method", string(req.PaymentMethod)))
		flow := sess.Checkout

		if req.PaymentMethod == models.PaymentMethodCashOnDelivery {
			outcome, err := flow.PlaceCashOnDelivery(r.Context())
			if err != nil {
				logger.Error("Order placement failed", slog.String("error", err.Error()))
				response.Error(w, err)
				return
			}

			response.Success(w, http.StatusCreated, outcome)
			return
		}

		if h.provider == ProviderStripe && h.headless != nil {
			outcome, err := flow.PayOnline(r.Context(), h.headless)
			if err != nil {
				logger.Error("Online payment could not start", slog.String("error", err.Error()))
				response.Error(w, err)
				return
			}

			status := http.StatusCreated
			if outcome.Result == checkout.ResultFailed {
				status = http.StatusOK
			}

			response.Success(w, status, outcome)
			return
		}

		opts, err := flow.BeginOnlinePayment(r.Context())
		if err != nil {
			logger.Error("Online payment could not start", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		// the widget outlives this request; the browser settles it via the callback
		go flow.AwaitPayment(context.WithoutCancel(r.Context()), h.broker, *opts)

		logger.Info("Payment widget opened", slog.String("gateway_order_id", opts.OrderID))
		response.Success(w, http.StatusAccepted, opts)
	}
}

// PaymentCallback godoc
//
//	@Summary		Report the payment widget result
//	@Description	Delivers the hosted widget's success, failure or dismissal and returns the checkout outcome.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			result	body		models.PaymentCallbackRequest	true	"Widget result"
//	@Success		200		{object}	checkout.Outcome
//	@Failure		400		{object}	response.ErrorResponse	"No payment is pending"
//	@Router			/checkout/payment/callback [post]
func (h *CheckoutHandler) PaymentCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		var req models.PaymentCallbackRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		cb, err := callbackFrom(req)
		if err != nil {
			response.Error(w, err)
			return
		}

		opts, pending := sess.Checkout.PendingPayment()
		if !pending {
			if outcome := sess.Checkout.Outcome(); outcome != nil {
				response.Success(w, http.StatusOK, outcome)
				return
			}

			response.Error(w, errors.BadRequestError("No payment is pending"))
			return
		}

		gatewayOrderID := opts.OrderID
		if req.GatewayOrderID != "" && req.GatewayOrderID != gatewayOrderID {
			logger.Warn("Callback names another gateway order",
				slog.String("expected", gatewayOrderID),
				slog.String("received", req.GatewayOrderID))
			response.Error(w, errors.BadRequestError("Payment does not belong to this checkout"))
			return
		}

		if err := h.broker.Resolve(gatewayOrderID, cb); err != nil {
			logger.Warn("Payment callback not delivered", slog.String("error", err.Error()))
			response.Error(w, errors.ConflictError(checkout.MsgPaymentInProgress).WithError(err))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), callbackWait)
		defer cancel()

		outcome, err := sess.Checkout.Wait(ctx)
		if err != nil {
			logger.Warn("Payment settlement still running", slog.String("error", err.Error()))
			response.Success(w, http.StatusAccepted, sess.Checkout.Snapshot())
			return
		}

		response.Success(w, http.StatusOK, outcome)
	}
}

func callbackFrom(req models.PaymentCallbackRequest) (payment.Callback, error) {
	switch {
	case req.Dismissed:
		return payment.Callback{Dismissed: true}, nil
	case req.Error != nil:
		description := req.Error.Description
		if description == "" {
			description = "Payment failed"
		}

		failure := payment.Failed(description)
		if req.Error.Code != "" {
			failure.Code = req.Error.Code
		}

		return payment.Callback{Failure: failure}, nil
	case req.PaymentID != "" && req.GatewayOrderID != "" && req.Signature != "":
		return payment.Callback{Outcome: &payment.Outcome{
			PaymentID:      req.PaymentID,
			GatewayOrderID: req.GatewayOrderID,
			Signature:      req.Signature,
		}}, nil
	default:
		return payment.Callback{}, errors.ValidationError("Payment result is incomplete")
	}
}

// Result godoc
//
//	@Summary		Checkout result
//	@Description	Returns the outcome shown on the success or failure page. Falls back to the recorded attempt
//	@Description	when the session no longer holds one.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	checkout.Outcome
//	@Failure		404	{object}	response.ErrorResponse	"No checkout result"
//	@Router			/checkout/result [get]
func (h *CheckoutHandler) Result() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		sess, logger, ok := requestSession(w, r)
		if !ok {
			return
		}

		if outcome := sess.Checkout.Outcome(); outcome != nil {
			response.Success(w, http.StatusOK, outcome)
			return
		}

		if h.attempts == nil {
			response.Error(w, errors.NotFoundError("No checkout result").WithRedirect("/cart"))
			return
		}

		attempt, err := h.attempts.GetLatestBySession(r.Context(), sess.ID)
		if err != nil {
			if stdErrors.Is(err, repository.ErrAttemptNotFound) {
				response.Error(w, errors.NotFoundError("No checkout result").WithRedirect("/cart"))
				return
			}

			logger.Error("Failed to load checkout attempt", slog.String("error", err.Error()))
			response.Error(w, errors.DatabaseError("Failed to load checkout result").WithError(err))
			return
		}

		if attempt.Status == models.AttemptStatusPending {
			response.Error(w, errors.NotFoundError("Checkout has no result yet"))
			return
		}

		response.Success(w, http.StatusOK, outcomeFromAttempt(attempt))
	}
}

func outcomeFromAttempt(attempt *models.CheckoutAttempt) *checkout.Outcome {
	outcome := &checkout.Outcome{
		Result:        checkout.ResultSucceeded,
		OrderID:       attempt.OrderID,
		OrderAmount:   attempt.Amount,
		PaymentMethod: attempt.PaymentMethod,
	}

	if attempt.Status == models.AttemptStatusFailed {
		outcome.Result = checkout.ResultFailed
		outcome.Error = attempt.Error
		outcome.Dismissed = attempt.Error == checkout.MsgPaymentCancelled
	}

	return outcome
}
