package store

import "math"

// Listener receives the newly selected value and the one it replaces.
type Listener[T any] func(selected, previous T)

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeOptions)

type subscribeOptions struct {
	fireImmediately bool
}

// WithFireImmediately invokes the listener once at subscribe time with the
// current selection as both arguments.
func WithFireImmediately() SubscribeOption {
	return func(o *subscribeOptions) { o.fireImmediately = true }
}

// Subscribe registers listener for changes of selector's result. Values are
// compared by identity: pointers, maps and channels by address, scalars by
// value, with NaN equal to itself and +0 distinct from -0. It returns a
// function that cancels the subscription.
func Subscribe[S any, T comparable](s *Store[S], selector func(S) T, listener Listener[T], opts ...SubscribeOption) func() {
	return SubscribeWithCustomEq(s, selector, listener, same[T], opts...)
}

// SubscribeWithStrictEq is Subscribe using Go's == operator.
func SubscribeWithStrictEq[S any, T comparable](s *Store[S], selector func(S) T, listener Listener[T], opts ...SubscribeOption) func() {
	return SubscribeWithCustomEq(s, selector, listener, func(a, b T) bool { return a == b }, opts...)
}

// SubscribeWithCustomEq registers listener for changes of selector's result
// as decided by eq.
func SubscribeWithCustomEq[S any, T any](s *Store[S], selector func(S) T, listener Listener[T], eq func(a, b T) bool, opts ...SubscribeOption) func() {
	o := subscribeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	current := selector(s.Get())
	initial := current
	unsubscribe := s.add(func(state S) {
		next := selector(state)
		if eq(current, next) {
			return
		}
		previous := current
		current = next
		listener(next, previous)
	})

	if o.fireImmediately {
		listener(initial, initial)
	}
	return unsubscribe
}

// same reports identity equality. Floats are special-cased so NaN equals
// itself and zeros of different sign differ.
func same[T comparable](a, b T) bool {
	switch x := any(a).(type) {
	case float64:
		y := any(b).(float64)
		return sameFloat(x, y)
	case float32:
		y := any(b).(float32)
		return sameFloat(float64(x), float64(y))
	}
	return a == b
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	if x == 0 && y == 0 {
		return math.Signbit(x) == math.Signbit(y)
	}
	return x == y
}
