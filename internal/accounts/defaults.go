package accounts

import (
	"strings"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// Categories holds the account patterns that identify each top-level category.
// Each pattern may list several alternatives separated by spaces or "|".
type Categories struct {
	Income    string
	Expense   string
	Asset     string
	Liability string
	Other     []string // income-like extras such as unrealized gains
}

// DefaultCategories returns the patterns for a conventional hledger chart of accounts.
func DefaultCategories() Categories {
	return Categories{
		Income:    "income",
		Expense:   "expenses",
		Asset:     "assets",
		Liability: "liabilities",
		Other:     []string{"revenues", "virtual"},
	}
}

// Pattern returns the raw pattern configured for a category.
func (c Categories) Pattern(cat model.Category) string {
	switch cat {
	case model.CategoryIncome:
		return c.Income
	case model.CategoryExpense:
		return c.Expense
	case model.CategoryAsset:
		return c.Asset
	case model.CategoryLiability:
		return c.Liability
	case model.CategoryOther:
		return strings.Join(c.Other, " ")
	default:
		return ""
	}
}

// Alternatives splits a pattern on spaces into its alternatives.
// "income virtual" -> ["income", "virtual"]
func Alternatives(pattern string) []string {
	return strings.Fields(pattern)
}

// literalAlternatives also splits on "|", for modes that do not treat patterns as regexes.
func literalAlternatives(pattern string) []string {
	return strings.FieldsFunc(pattern, func(r rune) bool {
		return r == '|' || r == ' ' || r == '\t'
	})
}
