package report

import (
	"context"
	"errors"

	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/model"
)

// ErrNoHistory is returned by sources that only hold a single balance report.
var ErrNoHistory = errors.New("historical balances need a live hledger journal")

// Matcher selects the accounts of a set of categories.
type Matcher interface {
	Matches(name string, cats ...model.Category) bool
}

// StaticSource serves a balance list loaded by the importer. Date ranges are
// ignored since the saved report already covers a fixed period.
type StaticSource struct {
	balances []model.Balance
	matcher  Matcher
}

// NewStaticSource wraps already loaded balances.
func NewStaticSource(balances []model.Balance, m Matcher) *StaticSource {
	return &StaticSource{balances: balances, matcher: m}
}

// Balances returns the loaded balances of the requested categories.
func (s *StaticSource) Balances(_ context.Context, q hledger.BalanceQuery) ([]model.Balance, error) {
	var out []model.Balance
	for _, b := range s.balances {
		if s.matcher.Matches(b.Account, q.Categories...) {
			out = append(out, b)
		}
	}
	return out, nil
}

// History always fails with ErrNoHistory.
func (s *StaticSource) History(context.Context, hledger.HistoryQuery) (model.History, error) {
	return model.History{}, ErrNoHistory
}
