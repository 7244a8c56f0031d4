package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hledger-lit/hledger-lit/internal/flow"
	"github.com/hledger-lit/hledger-lit/internal/importer"
	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/treemap"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Formats lists the supported output formats, default first.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCSV}

// ParseFormat validates a format name. An empty name selects FormatText.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %v)", s, Formats)
}

// Renderer writes reports in one format.
type Renderer struct {
	Format Format
	Styles Styles
}

// New creates a renderer with the default styles.
func New(f Format) *Renderer {
	return &Renderer{Format: f, Styles: DefaultStyles()}
}

// Balances writes a balance list.
func (r *Renderer) Balances(w io.Writer, balances []model.Balance) error {
	switch r.Format {
	case FormatCSV:
		return importer.WriteCSV(w, balances)
	case FormatText:
		return r.balancesText(w, balances)
	}
	type row struct {
		Account string `json:"account" yaml:"account"`
		Amount  string `json:"amount" yaml:"amount"`
	}
	rows := make([]row, len(balances))
	for i, b := range balances {
		rows[i] = row{Account: b.Account, Amount: b.Amount.String()}
	}
	return r.Encode(w, rows)
}

// Flows writes a flow graph as sankey input.
func (r *Renderer) Flows(w io.Writer, g flow.Graph) error {
	switch r.Format {
	case FormatCSV:
		rows := [][]string{{"source", "target", "value", "reversed"}}
		for _, e := range g.Sorted().Edges {
			rows = append(rows, []string{e.Source.Label(), e.Target.Label(), e.Value.String(), fmt.Sprint(e.Reversed)})
		}
		return writeCSV(w, rows)
	case FormatText:
		return r.flowsText(w, g)
	}
	return r.Encode(w, Sankey(g))
}

// Treemap writes projected treemap items.
func (r *Renderer) Treemap(w io.Writer, items []treemap.Item) error {
	switch r.Format {
	case FormatCSV:
		rows := [][]string{{"label", "parent", "value"}}
		for _, it := range items {
			rows = append(rows, []string{it.Label, it.Parent, it.Value.String()})
		}
		return writeCSV(w, rows)
	case FormatText:
		return r.treemapText(w, items)
	}
	return r.Encode(w, Treemap(items))
}

// History writes the historical series, net worth last.
func (r *Renderer) History(w io.Writer, h model.History) error {
	switch r.Format {
	case FormatCSV:
		chart := TimeSeries(h)
		rows := [][]string{append([]string{"date"}, chart.Names...)}
		for i, d := range chart.Dates {
			row := []string{d}
			for _, name := range chart.Names {
				row = append(row, seriesValue(h, name, i))
			}
			rows = append(rows, row)
		}
		return writeCSV(w, rows)
	case FormatText:
		return r.historyText(w, h)
	}
	return r.Encode(w, TimeSeries(h))
}

func seriesValue(h model.History, name string, i int) string {
	values := h.Series[name]
	if name == NetWorthKey && h.NetWorth != nil {
		values = h.NetWorth
	}
	if i < len(values) {
		return values[i].String()
	}
	return ""
}

// Encode writes v as JSON or YAML. Other formats are rejected.
func (r *Renderer) Encode(w io.Writer, v any) error {
	switch r.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", r.Format)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
