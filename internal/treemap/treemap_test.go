package treemap

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/model"
)

func bal(account, amount string) model.Balance {
	return model.Balance{Account: account, Amount: decimal.RequireFromString(amount)}
}

func TestProject(t *testing.T) {
	items := Project([]model.Balance{
		bal("expenses", "300"),
		bal("expenses:food", "200"),
		bal("expenses:food:groceries", "150"),
	})
	require.Len(t, items, 3)

	assert.Equal(t, "expenses", items[0].Label)
	assert.Equal(t, "", items[0].Parent)
	assert.Equal(t, "expenses", items[1].Parent)
	assert.Equal(t, "expenses:food", items[2].Parent)
	assert.Equal(t, "150", items[2].Value.String())
}

func TestProject_NoCompletenessCheck(t *testing.T) {
	// The renderer treats "expenses:food" as an implicit branch.
	items := Project([]model.Balance{bal("expenses:food:groceries", "150")})
	require.Len(t, items, 1)
	assert.Equal(t, "expenses:food", items[0].Parent)
}

func TestProjectCategory(t *testing.T) {
	c, err := accounts.NewClassifier(accounts.DefaultCategories(), accounts.MatchSegment)
	require.NoError(t, err)

	items := ProjectCategory([]model.Balance{
		bal("income", "-100"),
		bal("expenses", "60"),
		bal("expenses:rent", "60"),
		bal("assets", "40"),
	}, c, model.CategoryExpense)

	require.Len(t, items, 2)
	assert.Equal(t, "expenses", items[0].Label)
	assert.Equal(t, "expenses:rent", items[1].Label)
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, Project(nil))
}
