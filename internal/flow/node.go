package flow

// RootLabel is the display name of the synthetic root node.
const RootLabel = "pot"

// Node is a vertex of the flow graph: either an account or the synthetic root.
type Node struct {
	Account string
	root    bool
}

// Root is the synthetic node that top-level categories flow into and out of.
// It never equals an account node, even one named "pot".
var Root = Node{root: true}

// AccountNode returns the node for an account name.
func AccountNode(name string) Node {
	return Node{Account: name}
}

// IsRoot reports whether n is the synthetic root.
func (n Node) IsRoot() bool {
	return n.root
}

// Label returns the display name of the node.
func (n Node) Label() string {
	if n.root {
		return RootLabel
	}
	return n.Account
}

func (n Node) String() string {
	if n.root {
		return "<" + RootLabel + ">"
	}
	return n.Account
}

// less orders nodes by label, placing the root before an account with the same label.
func (n Node) less(o Node) bool {
	if n.Label() != o.Label() {
		return n.Label() < o.Label()
	}
	return n.root && !o.root
}
