// Package scope implements explicit context propagation through a composition
// tree.
//
// A provider publishes a value under a key at some scope; consumers attached to
// any descendant scope resolve the nearest ancestor value without either side
// holding a reference to the other. Bindings are lifecycle-managed: when the
// resolved provider is swapped, shadowed, or removed, the binding detaches from
// the old value and re-attaches to the new resolution, and closing a binding
// tears its subscription down unconditionally.
package scope

import "sync"

// Scope is one node in a composition tree. Create the root with New and nest
// with Child; the whole tree shares one lock.
type Scope struct {
	mu       *sync.Mutex
	parent   *Scope
	children []*Scope
	values   map[string]any
	gens     map[string]uint64
	bindings []*Binding
}

// New creates a root scope.
func New() *Scope {
	return &Scope{
		mu:     &sync.Mutex{},
		values: make(map[string]any),
		gens:   make(map[string]uint64),
	}
}

// Child creates a nested scope. Values provided here shadow ancestor values for
// this subtree.
func (s *Scope) Child() *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	child := &Scope{
		mu:     s.mu,
		parent: s,
		values: make(map[string]any),
		gens:   make(map[string]uint64),
	}
	s.children = append(s.children, child)
	return child
}

// Provide publishes a value under the given key at this scope. Every binding in
// this subtree whose resolution changes is detached from its old value and
// re-attached to the new one.
func (s *Scope) Provide(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.gens[key]++
	plans := s.rebindSubtreeLocked(key)
	s.mu.Unlock()

	for _, plan := range plans {
		plan()
	}
}

// Remove withdraws this scope's value for the key. Affected bindings re-resolve
// against the remaining ancestors, or stay detached when nothing resolves.
func (s *Scope) Remove(key string) {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.values, key)
	s.gens[key]++
	plans := s.rebindSubtreeLocked(key)
	s.mu.Unlock()

	for _, plan := range plans {
		plan()
	}
}

// Lookup resolves the nearest ancestor-provided value for the key, starting at
// this scope.
func (s *Scope) Lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src := s.resolveLocked(key); src != nil {
		return src.values[key], true
	}
	return nil, false
}

// Bind registers a consumer attachment for the key. If a value resolves now,
// attach fires immediately; the returned detach closure is invoked whenever the
// binding must let go of that value (swap, shadow, removal, or Close).
func (s *Scope) Bind(key string, attach func(value any) (detach func())) *Binding {
	b := &Binding{scope: s, key: key, attach: attach}

	s.mu.Lock()
	s.bindings = append(s.bindings, b)
	src := s.resolveLocked(key)
	var value any
	if src != nil {
		value = src.values[key]
		b.source, b.gen, b.attached = src, src.gens[key], true
	}
	s.mu.Unlock()

	if src != nil {
		b.detach = attach(value)
	}
	return b
}

// resolveLocked walks up from this scope to the nearest provider of key.
func (s *Scope) resolveLocked(key string) *Scope {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.values[key]; ok {
			return cur
		}
	}
	return nil
}

// rebindSubtreeLocked plans detach/attach work for every binding below this
// scope whose resolution for key changed. A resolution change is detected by
// provider identity and the provider's generation counter, never by comparing
// the values themselves, so non-comparable values (slices, maps, funcs) are
// safe to provide. The plans run outside the lock so attach callbacks may use
// the scope API.
func (s *Scope) rebindSubtreeLocked(key string) []func() {
	var plans []func()
	s.walkLocked(func(node *Scope) {
		for _, b := range node.bindings {
			if b.key != key || b.closed {
				continue
			}
			src := b.scope.resolveLocked(key)
			var value any
			var gen uint64
			if src != nil {
				value = src.values[key]
				gen = src.gens[key]
			}
			if src == b.source && gen == b.gen {
				continue
			}

			binding := b
			binding.source, binding.gen, binding.attached = src, gen, src != nil
			plans = append(plans, func() {
				if binding.detach != nil {
					binding.detach()
					binding.detach = nil
				}
				if src != nil {
					binding.detach = binding.attach(value)
				}
			})
		}
	})
	return plans
}

func (s *Scope) walkLocked(visit func(*Scope)) {
	visit(s)
	for _, child := range s.children {
		child.walkLocked(visit)
	}
}

// Binding ties a consumer's subscription lifetime to its scope attachment.
type Binding struct {
	scope    *Scope
	key      string
	attach   func(any) func()
	detach   func()
	source   *Scope
	gen      uint64
	attached bool
	closed   bool
}

// Attached reports whether the binding currently holds a resolved value.
func (b *Binding) Attached() bool {
	b.scope.mu.Lock()
	defer b.scope.mu.Unlock()
	return b.attached
}

// Close detaches the binding unconditionally and removes it from its scope.
// No subscription outlives its binding. Idempotent.
func (b *Binding) Close() {
	b.scope.mu.Lock()
	if b.closed {
		b.scope.mu.Unlock()
		return
	}
	b.closed = true
	b.attached = false
	b.source, b.gen = nil, 0
	detach := b.detach
	b.detach = nil

	owner := b.scope
	for i, other := range owner.bindings {
		if other == b {
			owner.bindings = append(owner.bindings[:i], owner.bindings[i+1:]...)
			break
		}
	}
	b.scope.mu.Unlock()

	if detach != nil {
		detach()
	}
}
