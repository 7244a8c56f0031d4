package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hledger-lit/hledger-lit/internal/model"
	"github.com/hledger-lit/hledger-lit/internal/render"
	"github.com/hledger-lit/hledger-lit/internal/report"
)

func newBalancesCommand(a *app) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "List account balances in the target commodity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := parseCategories(categories)
			if err != nil {
				return err
			}
			svc, r, out, err := a.prepare()
			if err != nil {
				return err
			}
			balances, err := svc.Balances(cmd.Context(), r, cats...)
			if err != nil {
				return fmt.Errorf("reading balances: %w", err)
			}
			return out.Balances(cmd.OutOrStdout(), balances)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil, "only these categories (income, expense, asset, liability, other)")
	return cmd
}

func newFlowsCommand(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "flows",
		Short: "Build the Sankey flow graph of income and expenses",
		Long: `flows builds the flow graph between accounts. Without --all only
income and expense accounts are included; with --all every configured
category is.

Every account's parent must be in the report. A missing parent is an
error naming the account, usually caused by a query that elides accounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, r, out, err := a.prepare()
			if err != nil {
				return err
			}
			build := svc.IncomeExpenseFlows
			if all {
				build = svc.AllFlows
			}
			g, err := build(cmd.Context(), r)
			if err != nil {
				return err
			}
			return out.Flows(cmd.OutOrStdout(), g)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include asset, liability and other accounts")
	return cmd
}

func newTreemapCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "treemap",
		Short: "Project expense balances onto treemap input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, r, out, err := a.prepare()
			if err != nil {
				return err
			}
			items, err := svc.ExpenseTreemap(cmd.Context(), r)
			if err != nil {
				return err
			}
			return out.Treemap(cmd.OutOrStdout(), items)
		},
	}
}

func newHistoryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show historical top-level balances and net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, r, out, err := a.prepare()
			if err != nil {
				return err
			}
			h, err := svc.History(cmd.Context(), r)
			if err != nil {
				return err
			}
			return out.History(cmd.OutOrStdout(), h)
		},
	}
}

type reportOutput struct {
	Kind  string `json:"kind" yaml:"kind"`
	Chart any    `json:"chart,omitempty" yaml:"chart,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Generate all four reports concurrently",
		Long: `report generates the historical balances, expenses treemap,
income/expense flows and all flows at once. A failing report is logged
and the others are still printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, r, out, err := a.prepare()
			if err != nil {
				return err
			}
			if out.Format == render.FormatCSV {
				return errors.New("report does not support csv output, use a single report command")
			}

			results := svc.All(cmd.Context(), r)
			w := cmd.OutOrStdout()
			var failed int
			var encoded []reportOutput
			for _, res := range results {
				if res.Err != nil {
					failed++
					a.log.Error("report failed", "report", res.Kind, "err", res.Err)
					encoded = append(encoded, reportOutput{Kind: string(res.Kind), Error: res.Err.Error()})
					continue
				}
				if out.Format == render.FormatText {
					fmt.Fprintf(w, "%s\n%s\n", title(res.Kind), strings.Repeat("─", 40))
					if err := writeResult(out, cmd, res); err != nil {
						return err
					}
					fmt.Fprintln(w)
					continue
				}
				encoded = append(encoded, reportOutput{Kind: string(res.Kind), Chart: chart(res)})
			}

			if out.Format != render.FormatText {
				if err := out.Encode(w, encoded); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(results))
			}
			return nil
		},
	}
}

func title(k report.Kind) string {
	switch k {
	case report.KindHistory:
		return "Historical balances"
	case report.KindTreemap:
		return "Expenses treemap"
	case report.KindIncomeExpenses:
		return "Income & expenses flow"
	case report.KindAllFlows:
		return "All cash flows"
	}
	return string(k)
}

func writeResult(out *render.Renderer, cmd *cobra.Command, res report.Result) error {
	w := cmd.OutOrStdout()
	switch res.Kind {
	case report.KindHistory:
		return out.History(w, res.History)
	case report.KindTreemap:
		return out.Treemap(w, res.Treemap)
	default:
		return out.Flows(w, res.Flows)
	}
}

func chart(res report.Result) any {
	switch res.Kind {
	case report.KindHistory:
		return render.TimeSeries(res.History)
	case report.KindTreemap:
		return render.Treemap(res.Treemap)
	default:
		return render.Sankey(res.Flows)
	}
}

// prepare resolves everything a report command needs.
func (a *app) prepare() (*report.Service, report.Range, *render.Renderer, error) {
	out, err := a.renderer()
	if err != nil {
		return nil, report.Range{}, nil, err
	}
	r, err := a.dateRange()
	if err != nil {
		return nil, report.Range{}, nil, err
	}
	svc, err := a.reports()
	if err != nil {
		return nil, report.Range{}, nil, err
	}
	return svc, r, out, nil
}

func parseCategories(names []string) ([]model.Category, error) {
	var cats []model.Category
	for _, n := range names {
		c, err := model.ParseCategory(n)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, nil
}
