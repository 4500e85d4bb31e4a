// Package reactive provides the synchronous publish/subscribe primitives backing
// the media state record.
//
// A Field is a single writable cell with change notification; a Derived is a
// read-only cell computed from other cells. Notification is synchronous and
// deterministic: subscribers run in subscription order before Set returns, and a
// write of an equal value never notifies.
package reactive

import "sync"

// Signal is the dependency-tracking face of a reactive cell. Both Field and
// Derived satisfy it, so derived cells can depend on either.
type Signal interface {
	// onChange registers a value-agnostic change listener without replay and
	// returns its disposer.
	onChange(fn func()) (cancel func())
}

// watcher is a registered listener in subscription order.
type watcher[T any] struct {
	fn      func(T)
	removed bool
}

// Field is a writable reactive cell. The zero value is not usable; construct
// with New or NewFunc.
type Field[T any] struct {
	mu       sync.Mutex
	value    T
	initial  T
	equals   func(a, b T) bool
	watchers []*watcher[T]
}

// New creates a field with the given initial value, using == for the no-op
// write check.
func New[T comparable](initial T) *Field[T] {
	return NewFunc(initial, func(a, b T) bool { return a == b })
}

// NewFunc creates a field with a custom equality function, for element types
// where == is unavailable or wrong (slices, NaN-aware floats).
func NewFunc[T any](initial T, equals func(a, b T) bool) *Field[T] {
	return &Field[T]{value: initial, initial: initial, equals: equals}
}

// Get returns the current value.
func (f *Field[T]) Get() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Initial returns the declared default value.
func (f *Field[T]) Initial() T {
	return f.initial
}

// Set updates the value and synchronously notifies every subscriber in
// subscription order before returning. Writing an equal value is a guaranteed
// no-op with respect to notifications.
func (f *Field[T]) Set(value T) {
	f.mu.Lock()
	if f.equals(f.value, value) {
		f.mu.Unlock()
		return
	}
	f.value = value
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	for _, w := range snapshot {
		if !w.removed {
			w.fn(value)
		}
	}
}

// Reset writes the declared default value back into the field.
func (f *Field[T]) Reset() {
	f.Set(f.initial)
}

// Subscribe registers a listener, replays the current value to it immediately,
// and notifies it on every subsequent change. The returned disposer is
// idempotent.
func (f *Field[T]) Subscribe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	w := &watcher[T]{fn: fn}
	f.watchers = append(f.watchers, w)
	current := f.value
	f.mu.Unlock()

	fn(current)
	return func() { f.remove(w) }
}

func (f *Field[T]) onChange(fn func()) (cancel func()) {
	f.mu.Lock()
	w := &watcher[T]{fn: func(T) { fn() }}
	f.watchers = append(f.watchers, w)
	f.mu.Unlock()
	return func() { f.remove(w) }
}

func (f *Field[T]) remove(target *watcher[T]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.watchers {
		if w == target {
			w.removed = true
			f.watchers = append(f.watchers[:i], f.watchers[i+1:]...)
			return
		}
	}
}

func (f *Field[T]) snapshotLocked() []*watcher[T] {
	snapshot := make([]*watcher[T], len(f.watchers))
	copy(snapshot, f.watchers)
	return snapshot
}
