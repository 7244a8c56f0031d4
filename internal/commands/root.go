package commands

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hledger-lit/hledger-lit/internal/buildinfo"
	"github.com/hledger-lit/hledger-lit/internal/render"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "hledger-lit",
		Short: "Sankey, treemap and history charts from hledger balances",
		Long: `hledger-lit queries hledger for balances and turns them into chart input:
flows between accounts (Sankey), an expenses treemap and historical
balances with net worth.

Examples:
  hledger-lit flows -f 2024.journal -b 2024-01-01 -e 2025-01-01
  hledger-lit treemap -o json
  hledger-lit serve --addr 127.0.0.1:8050`,
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := rootCmd.PersistentFlags()
	f.StringVarP(&a.flags.file, "file", "f", "", "hledger journal (default settings.filename or $LEDGER_FILE)")
	f.StringVarP(&a.flags.commodity, "commodity", "c", "", "target commodity (default settings.commodity)")
	f.StringVarP(&a.flags.begin, "begin", "b", "", "start date YYYY-MM-DD (default January 1st)")
	f.StringVarP(&a.flags.end, "end", "e", "", "exclusive end date YYYY-MM-DD (default today)")
	f.StringVar(&a.flags.match, "match", "", "category match mode: segment, exact, regex or substring")
	f.StringVar(&a.flags.period, "period", "", "history interval: daily, weekly, monthly, quarterly or yearly")
	f.StringVar(&a.flags.hledger, "hledger", "", "hledger executable")
	f.StringVar(&a.flags.income, "income", "", "income account pattern (default regex.income)")
	f.StringVar(&a.flags.expense, "expense", "", "expense account pattern (default regex.expense)")
	f.StringVar(&a.flags.asset, "asset", "", "asset account pattern (default regex.asset)")
	f.StringVar(&a.flags.liability, "liability", "", "liability account pattern (default regex.liability)")
	f.StringVar(&a.flags.other, "other", "", "space separated income-like account patterns (default regex.other)")
	f.StringVar(&a.flags.config, "config", "", "config file (default "+configPathHint()+")")
	f.StringVarP(&a.flags.format, "format", "o", string(render.FormatText), "output format: text, json, yaml or csv")
	f.StringVar(&a.flags.input, "input", "", "read balances from a saved report instead of running hledger (- for stdin)")
	f.StringVar(&a.flags.inputFormat, "input-format", "", "format of --input: json or csv (default from extension)")
	f.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newBalancesCommand(a),
		newFlowsCommand(a),
		newTreemapCommand(a),
		newHistoryCommand(a),
		newReportCommand(a),
		newServeCommand(a),
		newConfigCommand(a),
	)

	return rootCmd
}

func newLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "hledger-lit",
		ReportTimestamp: debug,
		TimeFormat:      time.TimeOnly,
	})
}
