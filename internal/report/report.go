// Package report generates the four standard visualizations from one journal:
// historical balances, the expenses treemap, income/expense flows and all flows.
package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/flow"
	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/treemap"
)

// Source supplies balances and histories. *hledger.Client is the live source.
type Source interface {
	Balances(ctx context.Context, q hledger.BalanceQuery) ([]model.Balance, error)
	History(ctx context.Context, q hledger.HistoryQuery) (model.History, error)
}

// Range is a [Begin, End) date range. Zero values leave that side open.
type Range struct {
	Begin time.Time
	End   time.Time
}

// DefaultRange runs from January 1st of now's year up to now's date.
func DefaultRange(now time.Time) Range {
	y, m, d := now.Date()
	return Range{
		Begin: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// Validate rejects ranges that end before they begin.
func (r Range) Validate() error {
	if !r.Begin.IsZero() && !r.End.IsZero() && r.End.Before(r.Begin) {
		return fmt.Errorf("end date %s is before begin date %s", r.End.Format(time.DateOnly), r.Begin.Format(time.DateOnly))
	}
	return nil
}

// Settings identifies the journal and commodity every report uses.
type Settings struct {
	File      string
	Commodity string
}

// Service generates reports. It holds no state between calls.
type Service struct {
	source     Source
	classifier *accounts.Classifier
	settings   Settings
	log        *log.Logger
}

// NewService creates a Service. A nil logger uses the package default.
func NewService(source Source, classifier *accounts.Classifier, settings Settings, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{source: source, classifier: classifier, settings: settings, log: logger}
}

// Balances reads the balances of the given categories (all when none given).
func (s *Service) Balances(ctx context.Context, r Range, cats ...model.Category) ([]model.Balance, error) {
	return s.source.Balances(ctx, hledger.BalanceQuery{
		File:       s.settings.File,
		Commodity:  s.settings.Commodity,
		Categories: cats,
		Begin:      r.Begin,
		End:        r.End,
	})
}

// History reads the per-period top-level balances and net worth.
func (s *Service) History(ctx context.Context, r Range) (model.History, error) {
	h, err := s.source.History(ctx, hledger.HistoryQuery{
		File:      s.settings.File,
		Commodity: s.settings.Commodity,
		Begin:     r.Begin,
		End:       r.End,
	})
	if err != nil {
		return model.History{}, fmt.Errorf("historical balances: %w", err)
	}
	return h, nil
}

// ExpenseTreemap projects the expense balances onto treemap items.
func (s *Service) ExpenseTreemap(ctx context.Context, r Range) ([]treemap.Item, error) {
	balances, err := s.Balances(ctx, r, model.CategoryExpense)
	if err != nil {
		return nil, fmt.Errorf("expenses treemap: %w", err)
	}
	return treemap.ProjectCategory(balances, s.classifier, model.CategoryExpense), nil
}

// IncomeExpenseFlows builds the flow graph of income and expense accounts.
func (s *Service) IncomeExpenseFlows(ctx context.Context, r Range) (flow.Graph, error) {
	return s.flows(ctx, r, "income/expense flows", model.CategoryIncome, model.CategoryExpense)
}

// AllFlows builds the flow graph of every configured category.
func (s *Service) AllFlows(ctx context.Context, r Range) (flow.Graph, error) {
	return s.flows(ctx, r, "all flows", model.AllCategories...)
}

func (s *Service) flows(ctx context.Context, r Range, name string, cats ...model.Category) (flow.Graph, error) {
	balances, err := s.Balances(ctx, r, cats...)
	if err != nil {
		return flow.Graph{}, fmt.Errorf("%s: %w", name, err)
	}
	g, err := flow.Build(balances, s.classifier)
	if err != nil {
		return flow.Graph{}, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}

// Kind names one of the standard reports.
type Kind string

const (
	KindHistory        Kind = "history"
	KindTreemap        Kind = "treemap"
	KindIncomeExpenses Kind = "income-expenses"
	KindAllFlows       Kind = "all-flows"
)

// Kinds lists the standard reports in display order.
var Kinds = []Kind{KindHistory, KindTreemap, KindIncomeExpenses, KindAllFlows}

// Result is the outcome of one report. Exactly one of the payload fields is
// set when Err is nil.
type Result struct {
	Kind    Kind
	History model.History
	Treemap []treemap.Item
	Flows   flow.Graph
	Err     error
}

// All generates the four reports concurrently. A failing report does not
// stop the others; each Result carries its own error.
func (s *Service) All(ctx context.Context, r Range) []Result {
	results := make([]Result, len(Kinds))
	var wg sync.WaitGroup
	for i, kind := range Kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			results[i] = s.Generate(ctx, kind, r)
			s.log.Debug("report generated", "kind", kind, "took", time.Since(start), "err", results[i].Err)
		}()
	}
	wg.Wait()
	return results
}

// Generate runs a single report by kind.
func (s *Service) Generate(ctx context.Context, kind Kind, r Range) Result {
	res := Result{Kind: kind}
	switch kind {
	case KindHistory:
		res.History, res.Err = s.History(ctx, r)
	case KindTreemap:
		res.Treemap, res.Err = s.ExpenseTreemap(ctx, r)
	case KindIncomeExpenses:
		res.Flows, res.Err = s.IncomeExpenseFlows(ctx, r)
	case KindAllFlows:
		res.Flows, res.Err = s.AllFlows(ctx, r)
	default:
		res.Err = fmt.Errorf("unknown report %q", kind)
	}
	return res
}
