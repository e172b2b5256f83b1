package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrNodeAlreadyRegistered is returned when attempting to register a
// node with an ID that is already taken.
var ErrNodeAlreadyRegistered = errors.New("configuration node already registered")

// Registry maintains all contributed configuration nodes and indexes
// their properties by key.
type Registry struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string // node IDs in registration order
	props map[string]*Property

	listeners map[uint64]func()
	nextID    uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		nodes:     make(map[string]*Node),
		props:     make(map[string]*Property),
		listeners: make(map[uint64]func()),
	}
}

// NewWithBuiltins creates a registry with the built-in node set.
func NewWithBuiltins() *Registry {
	r := New()
	r.RegisterBuiltins()
	return r
}

// Register adds a configuration node to the registry.
// Returns an error if a node with the same ID already exists.
// A property key declared by an earlier node keeps its first
// declaration; later declarations of the same key are not indexed.
func (r *Registry) Register(node *Node) error {
	r.mu.Lock()

	if _, exists := r.nodes[node.ID]; exists {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNodeAlreadyRegistered, node.ID)
	}

	r.nodes[node.ID] = node
	r.order = append(r.order, node.ID)

	node.Walk(func(n *Node) {
		for key, p := range n.Properties {
			if _, exists := r.props[key]; !exists {
				r.props[key] = p
			}
		}
	})

	listeners := r.snapshotListeners()
	r.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// MustRegister registers a node and panics on error.
// Useful for registering built-in nodes at init time.
func (r *Registry) MustRegister(node *Node) {
	if err := r.Register(node); err != nil {
		panic(err)
	}
}

// Node returns the node registered under id, or nil.
func (r *Registry) Node(id string) *Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nodes[id]
}

// Nodes returns all registered nodes in registration order.
// The returned slice is a copy; the nodes themselves are shared and
// must not be mutated.
func (r *Registry) Nodes() []*Node {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Node, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.nodes[id])
	}
	return result
}

// Property returns the schema for the given setting key.
// Returns nil if no node declares the key.
func (r *Registry) Property(key string) *Property {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.props[key]
}

// Has checks if any node declares the given setting key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.props[key]
	return exists
}

// Keys returns all declared setting keys sorted lexicographically.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.props))
	for key := range r.props {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

// Default returns the default value for a setting key.
// Returns nil if the key is not declared.
func (r *Registry) Default(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.props[key]; ok {
		return p.Default
	}
	return nil
}

// Defaults returns a map of all non-nil default values.
func (r *Registry) Defaults() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]any, len(r.props))
	for key, p := range r.props {
		if p.Default != nil {
			result[key] = p.Default
		}
	}
	return result
}

// Validate checks if a value is valid for a setting key.
// Unknown keys validate successfully; they may belong to a collaborator
// whose node is not loaded.
func (r *Registry) Validate(key string, value any) error {
	r.mu.RLock()
	p, ok := r.props[key]
	r.mu.RUnlock()

	if !ok {
		return nil
	}
	return p.Validate(value)
}

// OnChange registers a callback invoked after every successful node
// registration. The returned function removes the registration.
func (r *Registry) OnChange(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// snapshotListeners copies the listener set. Callers must hold r.mu.
func (r *Registry) snapshotListeners() []func() {
	if len(r.listeners) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	return fns
}
