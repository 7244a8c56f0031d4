package hledger

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
)

func defaultClassifier(t *testing.T) *accounts.Classifier {
	t.Helper()
	c, err := accounts.NewClassifier(accounts.DefaultCategories(), accounts.MatchSegment)
	require.NoError(t, err)
	return c
}

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func strs(values []decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()
	}
	return out
}

func amt(commodity string, value int64) []Amount {
	m := decimal.NewFromInt(value).String()
	return []Amount{{Commodity: commodity, Quantity: &Quantity{FloatingPoint: numberPtr(m)}}}
}

func periodic(rows ...PeriodicRow) *PeriodicReport {
	n := 0
	if len(rows) > 0 {
		n = len(rows[0].Amounts)
	}
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
	}
	return &PeriodicReport{Dates: dates, Rows: rows}
}

func TestHistoryFromReport_Fixture(t *testing.T) {
	report, err := DecodePeriodicReport(fixture(t, "history.json"))
	require.NoError(t, err)

	h, err := HistoryFromReport(report, "£", defaultClassifier(t))
	require.NoError(t, err)

	assert.Len(t, h.Dates, 2)
	assert.Equal(t, []string{"100", "120"}, strs(h.Series["assets"]))
	assert.Equal(t, []string{"30", "40"}, strs(h.Series["liabilities"]))
	// First period has no £ amount.
	assert.Equal(t, []string{"0", "25.5"}, strs(h.Series["expenses"]))
	assert.NotContains(t, h.Series, "equity")
	assert.Equal(t, []string{"70", "80"}, strs(h.NetWorth))
}

func TestHistoryFromReport_AssetsOnly(t *testing.T) {
	report := periodic(
		PeriodicRow{Account: "assets", Amounts: [][]Amount{amt("£", 100), amt("£", 120)}},
	)
	h, err := HistoryFromReport(report, "£", defaultClassifier(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "120"}, strs(h.NetWorth))

	// Net worth is a copy, not an alias of the asset series.
	h.NetWorth[0] = decimal.Zero
	assert.Equal(t, "100", h.Series["assets"][0].String())
}

func TestHistoryFromReport_NoAssets(t *testing.T) {
	report := periodic(
		PeriodicRow{Account: "liabilities", Amounts: [][]Amount{amt("£", -30)}},
		PeriodicRow{Account: "expenses", Amounts: [][]Amount{amt("£", 5)}},
	)
	h, err := HistoryFromReport(report, "£", defaultClassifier(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"-30"}, strs(h.NetWorth))
	assert.Equal(t, []string{"30"}, strs(h.Series["liabilities"]))
}

func TestHistoryFromReport_NoBalanceSheetRows(t *testing.T) {
	report := periodic(
		PeriodicRow{Account: "expenses", Amounts: [][]Amount{amt("£", 5)}},
	)
	h, err := HistoryFromReport(report, "£", defaultClassifier(t))
	require.NoError(t, err)
	assert.Nil(t, h.NetWorth)
}

func TestHistoryFromReport_RegexModeKeepsExactNamesOnly(t *testing.T) {
	for _, mode := range []accounts.MatchMode{accounts.MatchRegex, accounts.MatchSubstring} {
		t.Run(string(mode), func(t *testing.T) {
			c, err := accounts.NewClassifier(accounts.DefaultCategories(), mode)
			require.NoError(t, err)

			report := periodic(
				PeriodicRow{Account: "assets", Amounts: [][]Amount{amt("£", 100)}},
				PeriodicRow{Account: "fixedassets", Amounts: [][]Amount{amt("£", 900)}},
				PeriodicRow{Account: "liabilities", Amounts: [][]Amount{amt("£", -30)}},
			)
			h, err := HistoryFromReport(report, "£", c)
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"assets", "liabilities"}, keys(h.Series))
			assert.Equal(t, []string{"70"}, strs(h.NetWorth))
		})
	}
}

func TestHistoryFromReport_SkipsSubaccountsAndUnknown(t *testing.T) {
	report := periodic(
		PeriodicRow{Account: "assets:cash", Amounts: [][]Amount{amt("£", 100)}},
		PeriodicRow{Account: "equity", Amounts: [][]Amount{amt("£", 1)}},
		PeriodicRow{Account: "revenues", Amounts: [][]Amount{amt("£", -7)}},
	)
	h, err := HistoryFromReport(report, "£", defaultClassifier(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"revenues"}, keys(h.Series))
	assert.Equal(t, []string{"7"}, strs(h.Series["revenues"]))
}

func TestHistoryFromReport_BadQuantity(t *testing.T) {
	report := periodic(
		PeriodicRow{Account: "assets", Amounts: [][]Amount{{{Commodity: "£"}}}},
	)
	_, err := HistoryFromReport(report, "£", defaultClassifier(t))
	assert.ErrorIs(t, err, ErrSchema)
}

func TestNetWorth(t *testing.T) {
	assert.Equal(t, []string{"70", "80"}, strs(NetWorth(decs("100", "120"), decs("30", "40"))))
	assert.Equal(t, []string{"100", "120"}, strs(NetWorth(decs("100", "120"), nil)))
	assert.Equal(t, []string{"-30", "-40"}, strs(NetWorth(nil, decs("30", "40"))))
	assert.Nil(t, NetWorth(nil, nil))
}

func keys(m map[string][]decimal.Decimal) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func numberPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}
