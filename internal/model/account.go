package model

import (
	"fmt"
	"strings"
)

// Category classifies a top-level account.
type Category string

const (
	CategoryIncome    Category = "income"
	CategoryExpense   Category = "expense"
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryOther     Category = "other"
)

// AllCategories lists every category in classification precedence order.
var AllCategories = []Category{
	CategoryIncome,
	CategoryOther,
	CategoryExpense,
	CategoryAsset,
	CategoryLiability,
}

// ParseCategory validates a category name. Plural forms such as "expenses" are accepted.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	if name == "liabilitie" {
		name = "liability"
	}
	for _, c := range AllCategories {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want one of %v)", s, AllCategories)
}

// Separator delimits account name segments.
const Separator = ":"

// Parent strips the last segment from an account name.
// "assets:cash" -> "assets", "assets" -> "".
func Parent(name string) string {
	i := strings.LastIndex(name, Separator)
	if i < 0 {
		return ""
	}
	return name[:i]
}

// TopSegment returns the first segment of an account name.
// "assets:cash" -> "assets"
func TopSegment(name string) string {
	top, _, _ := strings.Cut(name, Separator)
	return top
}

// IsTopLevel reports whether name has a single segment.
func IsTopLevel(name string) bool {
	return name != "" && !strings.Contains(name, Separator)
}
