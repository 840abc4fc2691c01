package registry

import "sync"

// Registry is a thread-safe table of values indexed by key that remembers
// the order in which keys were mounted.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	order   []K
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Mount adds a value under key.
// Returns false and leaves the registry unchanged if key is already mounted.
func (r *Registry[K, V]) Mount(key K, value V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return false
	}
	r.entries[key] = value
	r.order = append(r.order, key)
	return true
}

// GetOrMount returns the value mounted under key, mounting the result of
// factory if key is absent. The factory runs at most once per key.
// The boolean reports whether a new value was mounted.
func (r *Registry[K, V]) GetOrMount(key K, factory func() V) (V, bool) {
	r.mu.RLock()
	v, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return v, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[key]; ok {
		return v, false
	}
	v = factory()
	r.entries[key] = v
	r.order = append(r.order, key)
	return v, true
}

// Unmount removes key and returns the value that was mounted under it.
func (r *Registry[K, V]) Unmount(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[key]
	if !ok {
		return v, false
	}
	delete(r.entries, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return v, true
}

// Lookup returns the value for a key and whether it is mounted.
func (r *Registry[K, V]) Lookup(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Mounted returns true if key is mounted.
func (r *Registry[K, V]) Mounted(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Values returns all mounted values in mount order.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values := make([]V, 0, len(r.order))
	for _, k := range r.order {
		values = append(values, r.entries[k])
	}
	return values
}

// Filter returns, in mount order, the values for which keep returns true.
func (r *Registry[K, V]) Filter(keep func(V) bool) []V {
	var out []V
	for _, v := range r.Values() {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of mounted entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
