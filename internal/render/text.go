package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/flow"
	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/treemap"
)

// Styles holds the terminal styles of the text format.
type Styles struct {
	Account  lipgloss.Style
	Root     lipgloss.Style
	Amount   lipgloss.Style
	Reversed lipgloss.Style
	Negative lipgloss.Style
	Header   lipgloss.Style
}

// DefaultStyles returns the styles used by New.
func DefaultStyles() Styles {
	return Styles{
		Account:  lipgloss.NewStyle().Foreground(lipgloss.Color("#d29b1d")),
		Root:     lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Bold(true),
		Amount:   lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		Reversed: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Header:   lipgloss.NewStyle().Bold(true).Padding(0, 1),
	}
}

func (r *Renderer) node(n flow.Node) string {
	if n.IsRoot() {
		return r.Styles.Root.Render(n.Label())
	}
	return r.Styles.Account.Render(n.Label())
}

func (r *Renderer) amount(d decimal.Decimal) string {
	if d.IsNegative() {
		return r.Styles.Negative.Render(d.StringFixed(2))
	}
	return r.Styles.Amount.Render(d.StringFixed(2))
}

func (r *Renderer) balancesText(w io.Writer, balances []model.Balance) error {
	var b strings.Builder
	for _, bal := range balances {
		indent := strings.Repeat("  ", strings.Count(bal.Account, model.Separator))
		fmt.Fprintf(&b, "%s%s  %s\n", indent, r.Styles.Account.Render(bal.Account), r.amount(bal.Amount))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// flowsText prints one line per non-zero edge; zero edges carry no flow to show.
func (r *Renderer) flowsText(w io.Writer, g flow.Graph) error {
	var b strings.Builder
	for _, e := range g.NonZero().Sorted().Edges {
		arrow := "→"
		value := r.Styles.Amount.Render(e.Value.StringFixed(2))
		if e.Reversed {
			arrow = r.Styles.Reversed.Render("↩")
			value = r.Styles.Reversed.Render(e.Value.StringFixed(2))
		}
		fmt.Fprintf(&b, "%s %s %s  %s\n", r.node(e.Source), arrow, r.node(e.Target), value)
	}
	fmt.Fprintf(&b, "total out of %s: %s\n", flow.RootLabel, g.Total(flow.Root).StringFixed(2))
	_, err := io.WriteString(w, b.String())
	return err
}

// treemapText nests items under their parents. Parents that are referenced
// but not listed become bare branches.
func (r *Renderer) treemapText(w io.Writer, items []treemap.Item) error {
	nodes := make(map[string]*tree.Tree, len(items))
	listed := make(map[string]bool, len(items))
	for _, it := range items {
		listed[it.Label] = true
	}

	get := func(label, text string) *tree.Tree {
		t, ok := nodes[label]
		if !ok {
			t = tree.New()
			nodes[label] = t
		}
		if text != "" {
			t.Root(text)
		}
		return t
	}

	top := tree.New().Root(r.Styles.Root.Render("expenses treemap"))
	attached := make(map[string]bool)
	var attach func(label string)
	attach = func(label string) {
		if attached[label] {
			return
		}
		attached[label] = true
		parent := model.Parent(label)
		switch {
		case parent == "":
			top.Child(nodes[label])
		default:
			if !listed[parent] {
				get(parent, r.Styles.Account.Render(parent))
			}
			attach(parent)
			nodes[parent].Child(nodes[label])
		}
	}

	for _, it := range items {
		get(it.Label, fmt.Sprintf("%s  %s", r.Styles.Account.Render(it.Label), r.amount(it.Value)))
	}
	for _, it := range items {
		attach(it.Label)
	}

	_, err := fmt.Fprintln(w, top.String())
	return err
}

func (r *Renderer) historyText(w io.Writer, h model.History) error {
	chart := TimeSeries(h)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(append([]string{"date"}, chart.Names...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.Styles.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for i, d := range chart.Dates {
		row := []string{d}
		for _, name := range chart.Names {
			row = append(row, seriesValue(h, name, i))
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}
