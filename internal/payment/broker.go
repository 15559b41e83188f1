package payment

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrAlreadyWaiting   = errors.New("a payment is already waiting for this gateway order")
	ErrMissingGatewayID = errors.New("gateway order id is required")
)

// Callback is what the browser posts back once the hosted widget closes.
// Exactly one of Outcome or Failure is set unless the widget was dismissed.
type Callback struct {
	Outcome   *Outcome
	Failure   *Error
	Dismissed bool
}

type pending struct {
	opts   Options
	result chan Callback
}

type early struct {
	cb Callback
	at time.Time
}

// Broker is the Widget used with a hosted, browser-side gateway. Open parks
// until the browser reports the result through Resolve, or the context ends.
type Broker struct {
	mu      sync.Mutex
	waiting map[string]*pending
	early   map[string]early
	timeout time.Duration
}

func NewBroker(timeout time.Duration) *Broker {
	return &Broker{waiting: make(map[string]*pending), early: make(map[string]early), timeout: timeout}
}

func (b *Broker) Open(ctx context.Context, opts Options) (*Outcome, error) {
	if opts.OrderID == "" {
		return nil, ErrMissingGatewayID
	}

	p := &pending{opts: opts, result: make(chan Callback, 1)}

	b.mu.Lock()
	if _, exists := b.waiting[opts.OrderID]; exists {
		b.mu.Unlock()
		return nil, ErrAlreadyWaiting
	}
	b.waiting[opts.OrderID] = p

	// the browser may have answered before Open was reached
	if e, ok := b.early[opts.OrderID]; ok {
		delete(b.early, opts.OrderID)
		p.result <- e.cb
	}
	b.mu.Unlock()

	defer b.forget(opts.OrderID)

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	select {
	case cb := <-p.result:
		switch {
		case cb.Outcome != nil:
			return cb.Outcome, nil
		case cb.Failure != nil:
			return nil, cb.Failure
		default:
			return nil, Dismissed()
		}
	case <-ctx.Done():
		slog.Info("Payment widget closed without a result", slog.String("gateway_order_id", opts.OrderID), slog.String("reason", ctx.Err().Error()))
		return nil, Dismissed()
	}
}

// Resolve delivers the browser's callback to the waiting Open call. A callback
// that arrives before Open is held until Open runs or the broker timeout passes.
func (b *Broker) Resolve(gatewayOrderID string, cb Callback) error {
	if gatewayOrderID == "" {
		return ErrMissingGatewayID
	}

	b.mu.Lock()
	p, ok := b.waiting[gatewayOrderID]
	if !ok {
		b.pruneEarly(time.Now())
		b.early[gatewayOrderID] = early{cb: cb, at: time.Now()}
		b.mu.Unlock()

		return nil
	}
	b.mu.Unlock()

	select {
	case p.result <- cb:
		return nil
	default:
		return ErrAlreadyWaiting
	}
}

// Pending returns the options of a widget still waiting for the browser.
func (b *Broker) Pending(gatewayOrderID string) (Options, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.waiting[gatewayOrderID]
	if !ok {
		return Options{}, false
	}

	return p.opts, true
}

func (b *Broker) pruneEarly(now time.Time) {
	if b.timeout <= 0 {
		return
	}

	for id, e := range b.early {
		if now.Sub(e.at) > b.timeout {
			delete(b.early, id)
		}
	}
}

func (b *Broker) forget(gatewayOrderID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.waiting, gatewayOrderID)
}
