// Package store holds the per-session application state: one slice per
// backend resource, each populated by sequenced asynchronous requests.
package store

import (
	"context"
	"sync"

	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
)

// State is an immutable view of a slice handed to the rendering layer.
type State[T any] struct {
	Data    T      `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Slice holds one partition of session state. Every asynchronous request takes
// a sequence number from Begin; its outcome is applied only if no later request
// has been applied first, so the newest request wins regardless of which
// response arrives last.
type Slice[T any] struct {
	mu      sync.RWMutex
	name    string
	initial func() T
	clone   func(T) T
	data    T
	err     string
	issued  uint64
	applied uint64
}

func NewSlice[T any](name string, initial func() T, clone func(T) T) *Slice[T] {
	return &Slice[T]{
		name:    name,
		initial: initial,
		clone:   clone,
		data:    initial(),
	}
}

func (s *Slice[T]) Name() string {
	return s.name
}

// Begin marks a request as pending and returns its sequence number.
func (s *Slice[T]) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	s.err = ""

	return s.issued
}

// Resolve applies a successful response. It reports false when the response
// was stale and discarded.
func (s *Slice[T]) Resolve(seq uint64, apply func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		metrics.StaleResponse(s.name)
		return false
	}

	s.applied = seq
	s.err = ""
	apply(&s.data)

	return true
}

// Reject stores the failure message of a request unless it is stale.
func (s *Slice[T]) Reject(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		metrics.StaleResponse(s.name)
		return false
	}

	s.applied = seq
	s.err = appErrors.Message(err, "Something went wrong")

	return true
}

// Update runs a local, synchronous reducer.
func (s *Slice[T]) Update(apply func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.data)
}

func (s *Slice[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = ""
}

// Reset restores the initial data. Requests still in flight are discarded
// when they complete.
func (s *Slice[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = s.initial()
	s.err = ""
	s.applied = s.issued
}

// Supersede applies a local change that outranks every request issued so far.
// Responses still in flight are discarded when they complete.
func (s *Slice[T]) Supersede(apply func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.data)
	s.err = ""
	s.applied = s.issued
}

func (s *Slice[T]) State() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State[T]{
		Data:    s.clone(s.data),
		Loading: s.applied < s.issued,
		Error:   s.err,
	}
}

// Read runs fn against the current data under the read lock.
func (s *Slice[T]) Read(fn func(T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(s.data)
}

// run drives one request through the pending, fulfilled and rejected phases.
// The error is returned to the caller as well as stored on the slice.
func run[T, R any](ctx context.Context, st *Store, s *Slice[T], call func(context.Context) (R, error), apply func(*T, R)) (R, error) {
	seq := s.Begin()

	out, err := call(ctx)
	if err != nil {
		s.Reject(seq, err)
		st.observe(err)

		return out, err
	}

	s.Resolve(seq, func(data *T) { apply(data, out) })

	return out, nil
}

// exec is run for calls that return nothing but an error.
func exec[T any](ctx context.Context, st *Store, s *Slice[T], call func(context.Context) error, apply func(*T)) error {
	_, err := run(ctx, st, s, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}, func(data *T, _ struct{}) { apply(data) })

	return err
}
