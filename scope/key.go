package scope

import "github.com/samber/mo"

// Key is a typed handle for providing and consuming values of a single type
// through the scope tree.
type Key[T any] struct {
	name string
}

// NewKey creates a typed key. Names should be unique per concern; two keys with
// the same name address the same slot.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// Name returns the key's slot identifier.
func (k Key[T]) Name() string {
	return k.name
}

// Provide publishes a typed value at the given scope.
func (k Key[T]) Provide(s *Scope, value T) {
	s.Provide(k.name, value)
}

// Remove withdraws the typed value from the given scope.
func (k Key[T]) Remove(s *Scope) {
	s.Remove(k.name)
}

// Lookup resolves the nearest provided value, or None when nothing resolves or
// the slot holds a different type.
func (k Key[T]) Lookup(s *Scope) mo.Option[T] {
	raw, ok := s.Lookup(k.name)
	if !ok {
		return mo.None[T]()
	}
	value, ok := raw.(T)
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(value)
}

// Bind registers a typed consumer attachment. Values of the wrong type are
// treated as unresolvable.
func (k Key[T]) Bind(s *Scope, attach func(T) (detach func())) *Binding {
	return s.Bind(k.name, func(raw any) func() {
		value, ok := raw.(T)
		if !ok {
			return nil
		}
		return attach(value)
	})
}
