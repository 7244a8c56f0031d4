// Package render turns flow graphs, treemaps and histories into chart input
// and writes them as JSON, YAML, CSV or terminal text.
package render

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/flow"
	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/treemap"
)

// NetWorthKey names the derived net worth series.
const NetWorthKey = "net_worth"

const chartDateLayout = "2006-01-02"

// SankeyChart is Plotly sankey input: node labels plus parallel link arrays.
type SankeyChart struct {
	Nodes    []string  `json:"nodes" yaml:"nodes"`
	Source   []int     `json:"source" yaml:"source"`
	Target   []int     `json:"target" yaml:"target"`
	Value    []float64 `json:"value" yaml:"value"`
	Reversed []bool    `json:"reversed" yaml:"reversed"`
}

// Sankey sorts the graph by (target, source) and indexes its nodes.
// The root and an account sharing its label stay distinct nodes.
func Sankey(g flow.Graph) SankeyChart {
	sorted := g.Sorted()
	nodes := sorted.Nodes()

	index := make(map[flow.Node]int, len(nodes))
	chart := SankeyChart{Nodes: make([]string, len(nodes))}
	for i, n := range nodes {
		index[n] = i
		chart.Nodes[i] = n.Label()
	}

	n := len(sorted.Edges)
	chart.Source = make([]int, n)
	chart.Target = make([]int, n)
	chart.Value = make([]float64, n)
	chart.Reversed = make([]bool, n)
	for i, e := range sorted.Edges {
		chart.Source[i] = index[e.Source]
		chart.Target[i] = index[e.Target]
		chart.Value[i] = e.Value.InexactFloat64()
		chart.Reversed[i] = e.Reversed
	}
	return chart
}

// TreemapChart is Plotly treemap input. Branch values are left for the renderer to sum.
type TreemapChart struct {
	Labels  []string  `json:"labels" yaml:"labels"`
	Parents []string  `json:"parents" yaml:"parents"`
	Values  []float64 `json:"values" yaml:"values"`
}

// Treemap converts projected items into parallel arrays.
func Treemap(items []treemap.Item) TreemapChart {
	chart := TreemapChart{
		Labels:  make([]string, len(items)),
		Parents: make([]string, len(items)),
		Values:  make([]float64, len(items)),
	}
	for i, it := range items {
		chart.Labels[i] = it.Label
		chart.Parents[i] = it.Parent
		chart.Values[i] = it.Value.InexactFloat64()
	}
	return chart
}

// SeriesChart is line-chart input: shared dates and one value array per series.
type SeriesChart struct {
	Dates  []string             `json:"dates" yaml:"dates"`
	Names  []string             `json:"names" yaml:"names"` // display order, net worth last
	Series map[string][]float64 `json:"series" yaml:"series"`
}

// TimeSeries converts a history. The net worth series is added only when present.
func TimeSeries(h model.History) SeriesChart {
	chart := SeriesChart{
		Dates:  make([]string, len(h.Dates)),
		Series: make(map[string][]float64, len(h.Series)+1),
	}
	for i, d := range h.Dates {
		chart.Dates[i] = d.Format(chartDateLayout)
	}

	for name := range h.Series {
		chart.Names = append(chart.Names, name)
	}
	sort.Strings(chart.Names)
	for _, name := range chart.Names {
		chart.Series[name] = floats(h.Series[name])
	}

	if h.NetWorth != nil {
		chart.Names = append(chart.Names, NetWorthKey)
		chart.Series[NetWorthKey] = floats(h.NetWorth)
	}
	return chart
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}
