package flow

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Edge is a directed, weighted movement of money between two nodes.
type Edge struct {
	Source Node
	Target Node
	Value  decimal.Decimal // never negative

	// Reversed marks flow against the category's usual direction,
	// such as a refund into expenses or a payback of income.
	Reversed bool
}

// Graph is a list of edges; nodes are implied by the edges.
type Graph struct {
	Edges []Edge
}

// Sorted returns a copy of the graph with edges ordered by (target, source) label.
// Only the order changes, which keeps related accounts together in a Sankey layout.
func (g Graph) Sorted() Graph {
	edges := make([]Edge, len(g.Edges))
	copy(edges, g.Edges)
	sort.SliceStable(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Target != b.Target {
			return a.Target.less(b.Target)
		}
		if a.Source != b.Source {
			return a.Source.less(b.Source)
		}
		return false
	})
	return Graph{Edges: edges}
}

// Nodes returns the distinct nodes of the graph: every source in edge order,
// followed by targets not already seen.
func (g Graph) Nodes() []Node {
	seen := make(map[Node]bool, len(g.Edges))
	var nodes []Node
	add := func(n Node) {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	for _, e := range g.Edges {
		add(e.Source)
	}
	for _, e := range g.Edges {
		add(e.Target)
	}
	return nodes
}

// NonZero returns a copy of the graph without zero-valued edges.
func (g Graph) NonZero() Graph {
	var edges []Edge
	for _, e := range g.Edges {
		if !e.Value.IsZero() {
			edges = append(edges, e)
		}
	}
	return Graph{Edges: edges}
}

// Total sums the values of all edges leaving the given node.
func (g Graph) Total(from Node) decimal.Decimal {
	total := decimal.Zero
	for _, e := range g.Edges {
		if e.Source == from {
			total = total.Add(e.Value)
		}
	}
	return total
}
