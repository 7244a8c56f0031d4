// Package hledger queries the hledger command-line tool and decodes its JSON reports.
package hledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/model"
)

// DefaultExclude drops the closing/opening transactions that carry balances
// across years and would otherwise be counted twice.
const DefaultExclude = "not:tag:clopen"

// DefaultPeriod is the reporting interval of the historical query.
const DefaultPeriod = "daily"

// Periods lists the accepted historical reporting intervals.
var Periods = []string{"daily", "weekly", "monthly", "quarterly", "yearly"}

// Options tunes the queries sent to hledger.
type Options struct {
	Exclude   string   // hledger query terms, space separated
	Period    string   // historical interval, see Periods
	ExtraArgs []string // appended to every invocation
}

// Client issues balance queries through a Runner.
type Client struct {
	runner     Runner
	classifier *accounts.Classifier
	opts       Options
	log        *log.Logger
}

// NewClient creates a Client. A nil logger uses the package default.
func NewClient(runner Runner, classifier *accounts.Classifier, opts Options, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Period == "" {
		opts.Period = DefaultPeriod
	}
	return &Client{runner: runner, classifier: classifier, opts: opts, log: logger}
}

// BalanceQuery selects the accounts and range of a balance report.
type BalanceQuery struct {
	File       string
	Commodity  string
	Categories []model.Category
	Begin      time.Time // zero for no lower bound
	End        time.Time // exclusive; zero for no upper bound
}

// HistoryQuery selects the range of a historical report over all categories.
type HistoryQuery struct {
	File      string
	Commodity string
	Begin     time.Time
	End       time.Time
}

// BalanceArgs builds the hledger arguments for a balance report.
// --tree --no-elide keep every ancestor in the output, which the flow graph relies on.
func (c *Client) BalanceArgs(q BalanceQuery) []string {
	cats := q.Categories
	if len(cats) == 0 {
		cats = model.AllCategories
	}
	args := []string{"-f", q.File, "balance"}
	args = append(args, c.classifier.Query(cats...)...)
	args = append(args, strings.Fields(c.opts.Exclude)...)
	args = append(args,
		"--cost",
		"--value=then,"+q.Commodity,
		"--infer-value",
		"--no-total",
		"--tree",
		"--no-elide",
		"-O", "json",
	)
	args = append(args, dateArgs(q.Begin, q.End)...)
	return append(args, c.opts.ExtraArgs...)
}

// HistoryArgs builds the hledger arguments for a historical top-level report.
func (c *Client) HistoryArgs(q HistoryQuery) []string {
	args := []string{"-f", q.File, "balance"}
	args = append(args, c.classifier.Query(model.AllCategories...)...)
	args = append(args, strings.Fields(c.opts.Exclude)...)
	args = append(args,
		"--depth", "1",
		"--period", c.opts.Period,
		"--historical",
		"--value=then,"+q.Commodity,
		"--infer-value",
		"-O", "json",
	)
	args = append(args, dateArgs(q.Begin, q.End)...)
	return append(args, c.opts.ExtraArgs...)
}

func dateArgs(begin, end time.Time) []string {
	var args []string
	if !begin.IsZero() {
		args = append(args, "-b", begin.Format(dateLayout))
	}
	if !end.IsZero() {
		args = append(args, "-e", end.Format(dateLayout))
	}
	return args
}

// Balances returns the (account, balance) pairs of the requested categories.
// Accounts with no amount in the period are kept with a zero balance.
func (c *Client) Balances(ctx context.Context, q BalanceQuery) ([]model.Balance, error) {
	args := c.BalanceArgs(q)
	c.log.Debug("running hledger balance", "args", strings.Join(args, " "))

	out, err := c.runner.Run(ctx, args)
	if err != nil {
		return nil, err
	}

	rows, err := DecodeBalanceReport(out)
	if err != nil {
		return nil, err
	}

	balances, err := BalancesFromRows(rows, q.Commodity, func(name string) bool {
		return c.classifier.Matches(name, q.Categories...)
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("decoded balance report", "rows", len(rows), "kept", len(balances))
	return balances, nil
}

// BalancesFromRows keeps the rows accepted by keep and resolves each to a single amount:
// the one in commodity if present, else the first, else zero.
func BalancesFromRows(rows []BalanceRow, commodity string, keep func(name string) bool) ([]model.Balance, error) {
	var balances []model.Balance
	for _, row := range rows {
		if keep != nil && !keep(row.Account) {
			continue
		}
		amount := decimal.Zero
		if len(row.Amounts) > 0 {
			chosen := row.Amounts[0]
			for _, a := range row.Amounts {
				if a.Commodity == commodity {
					chosen = a
					break
				}
			}
			v, err := chosen.Value()
			if err != nil {
				return nil, &SchemaError{Report: "balance", Reason: fmt.Sprintf("account %s amount", row.Account), Err: err}
			}
			amount = v
		}
		balances = append(balances, model.Balance{Account: row.Account, Amount: amount})
	}
	return balances, nil
}

// History returns the per-period top-level balances and the derived net worth.
func (c *Client) History(ctx context.Context, q HistoryQuery) (model.History, error) {
	args := c.HistoryArgs(q)
	c.log.Debug("running hledger historical balance", "args", strings.Join(args, " "))

	out, err := c.runner.Run(ctx, args)
	if err != nil {
		return model.History{}, err
	}

	report, err := DecodePeriodicReport(out)
	if err != nil {
		return model.History{}, err
	}
	c.log.Debug("decoded periodic report", "periods", len(report.Dates), "rows", len(report.Rows))
	return HistoryFromReport(report, q.Commodity, c.classifier)
}
