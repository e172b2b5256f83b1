package registry

// Node declares a set of configuration properties contributed under one
// catalog heading. Nodes may nest; nested properties still carry full
// keys. A registered node is treated as immutable.
type Node struct {
	// ID identifies the node and stands in for the title when no node
	// of the same ID carries one.
	ID string

	// Title is the human-readable group heading. Optional.
	Title string

	// Order positions the node in the assembled catalog. Nodes without
	// an order sort after all nodes that have one.
	Order *int

	// Properties maps setting key to its schema.
	Properties map[string]*Property

	// Children are nested contribution nodes.
	Children []*Node
}

// Order values for the built-in nodes. Contributed nodes slot in
// between or after by picking their own.
const (
	OrderEditor = 1
	OrderFiles  = 2
	OrderUI     = 3
	OrderInput  = 4
)

// OrderOf creates a pointer to an int for use as Order.
func OrderOf(v int) *int {
	return &v
}

// Walk visits n and every descendant node in declaration order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// PropertyKeys returns the keys declared directly on n, unsorted.
func (n *Node) PropertyKeys() []string {
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}
	return keys
}
