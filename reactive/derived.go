package reactive

import "sync"

// Derived is a read-only cell whose value is a pure function of other cells.
// It recomputes lazily on read and re-notifies subscribers whenever any declared
// dependency changes the computed value. Writes are rejected structurally: the
// type has no Set.
type Derived[T any] struct {
	mu       sync.Mutex
	compute  func() T
	equals   func(a, b T) bool
	value    T
	valid    bool
	watchers []*watcher[T]
}

// Derive creates a derived cell recomputed from the given dependencies, using ==
// for the change check.
func Derive[T comparable](compute func() T, deps ...Signal) *Derived[T] {
	return DeriveFunc(compute, func(a, b T) bool { return a == b }, deps...)
}

// DeriveFunc creates a derived cell with a custom equality function.
func DeriveFunc[T any](compute func() T, equals func(a, b T) bool, deps ...Signal) *Derived[T] {
	d := &Derived[T]{compute: compute, equals: equals}
	for _, dep := range deps {
		dep.onChange(d.depChanged)
	}
	return d
}

// Get returns the computed value, recomputing it only if a dependency changed
// since the last read. Reading before any dependency was written yields the
// value computed from the dependencies' defaults.
func (d *Derived[T]) Get() T {
	d.mu.Lock()
	if d.valid {
		defer d.mu.Unlock()
		return d.value
	}
	d.mu.Unlock()

	// Compute outside the lock: the function reads dependency cells which hold
	// their own locks.
	next := d.compute()

	d.mu.Lock()
	d.value, d.valid = next, true
	d.mu.Unlock()
	return next
}

// Subscribe registers a listener, replays the current computed value, and
// notifies on every change of the computed value. The disposer is idempotent.
func (d *Derived[T]) Subscribe(fn func(T)) (cancel func()) {
	current := d.Get()

	d.mu.Lock()
	w := &watcher[T]{fn: fn}
	d.watchers = append(d.watchers, w)
	d.mu.Unlock()

	fn(current)
	return func() { d.remove(w) }
}

func (d *Derived[T]) onChange(fn func()) (cancel func()) {
	d.mu.Lock()
	w := &watcher[T]{fn: func(T) { fn() }}
	d.watchers = append(d.watchers, w)
	d.mu.Unlock()
	return func() { d.remove(w) }
}

// depChanged invalidates the cache and, when anyone is listening, recomputes and
// notifies if the computed value moved.
func (d *Derived[T]) depChanged() {
	d.mu.Lock()
	if len(d.watchers) == 0 {
		d.valid = false
		d.mu.Unlock()
		return
	}
	old := d.value
	hadValue := d.valid
	d.mu.Unlock()

	next := d.compute()

	d.mu.Lock()
	d.value, d.valid = next, true
	if hadValue && d.equals(old, next) {
		d.mu.Unlock()
		return
	}
	snapshot := make([]*watcher[T], len(d.watchers))
	copy(snapshot, d.watchers)
	d.mu.Unlock()

	for _, w := range snapshot {
		if !w.removed {
			w.fn(next)
		}
	}
}

func (d *Derived[T]) remove(target *watcher[T]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, w := range d.watchers {
		if w == target {
			w.removed = true
			d.watchers = append(d.watchers[:i], d.watchers[i+1:]...)
			return
		}
	}
}
