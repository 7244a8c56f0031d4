package hledger

import (
	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// CategoryClassifier is the part of accounts.Classifier the history shaping needs.
type CategoryClassifier interface {
	ClassifyTop(name string) (model.Category, bool)
}

// HistoryFromReport keeps the rows of a periodic report whose name is exactly a
// category identifier and turns each period into the absolute value of its
// amount in commodity (zero if absent). Net worth is assets minus liabilities;
// a missing row counts as zero and without either row there is no net worth.
func HistoryFromReport(report *PeriodicReport, commodity string, c CategoryClassifier) (model.History, error) {
	h := model.History{
		Dates:  report.Dates,
		Series: make(map[string][]decimal.Decimal),
	}

	var assets, liabilities []decimal.Decimal
	for _, row := range report.Rows {
		cat, ok := c.ClassifyTop(row.Account)
		if !ok {
			continue
		}

		values := make([]decimal.Decimal, len(row.Amounts))
		for i, amounts := range row.Amounts {
			v, err := magnitudeIn(amounts, commodity)
			if err != nil {
				return model.History{}, &SchemaError{Report: "periodic", Reason: "row " + row.Account, Err: err}
			}
			values[i] = v
		}
		h.Series[row.Account] = values

		switch cat {
		case model.CategoryAsset:
			assets = addSeries(assets, values)
		case model.CategoryLiability:
			liabilities = addSeries(liabilities, values)
		}
	}

	h.NetWorth = NetWorth(assets, liabilities)
	return h, nil
}

// NetWorth subtracts liabilities from assets index by index.
// A nil series counts as zero; it returns nil only when both are nil.
func NetWorth(assets, liabilities []decimal.Decimal) []decimal.Decimal {
	if assets == nil {
		if liabilities == nil {
			return nil
		}
		out := make([]decimal.Decimal, len(liabilities))
		for i, l := range liabilities {
			out[i] = l.Neg()
		}
		return out
	}
	out := make([]decimal.Decimal, len(assets))
	for i, a := range assets {
		if i < len(liabilities) {
			a = a.Sub(liabilities[i])
		}
		out[i] = a
	}
	return out
}

func magnitudeIn(amounts []Amount, commodity string) (decimal.Decimal, error) {
	for _, a := range amounts {
		if a.Commodity != commodity {
			continue
		}
		v, err := a.Value()
		if err != nil {
			return decimal.Zero, err
		}
		return v.Abs(), nil
	}
	return decimal.Zero, nil
}

func addSeries(sum, values []decimal.Decimal) []decimal.Decimal {
	if sum == nil {
		out := make([]decimal.Decimal, len(values))
		copy(out, values)
		return out
	}
	for i := range sum {
		if i < len(values) {
			sum[i] = sum[i].Add(values[i])
		}
	}
	return sum
}
