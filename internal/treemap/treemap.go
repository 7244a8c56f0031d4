// Package treemap projects a balance list onto the flat (label, parent, value)
// triples a treemap renderer expects. Branch totals are left to the renderer.
package treemap

import (
	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// Item is one rectangle of the treemap. Top-level accounts have an empty Parent.
type Item struct {
	Label  string
	Parent string
	Value  decimal.Decimal
}

// Project maps every balance to an item. Parents need not be present in the list.
func Project(balances []model.Balance) []Item {
	items := make([]Item, 0, len(balances))
	for _, b := range balances {
		items = append(items, Item{
			Label:  b.Account,
			Parent: model.Parent(b.Account),
			Value:  b.Amount,
		})
	}
	return items
}

// Matcher selects the balances of a category.
type Matcher interface {
	Matches(name string, cats ...model.Category) bool
}

// ProjectCategory projects only the balances belonging to cat.
func ProjectCategory(balances []model.Balance, m Matcher, cat model.Category) []Item {
	var filtered []model.Balance
	for _, b := range balances {
		if m.Matches(b.Account, cat) {
			filtered = append(filtered, b)
		}
	}
	return Project(filtered)
}
