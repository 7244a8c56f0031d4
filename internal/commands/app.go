package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hledger-lit/hledger-lit/internal/config"
	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/importer"
	"github.com/hledger-lit/hledger-lit/internal/render"
	"github.com/hledger-lit/hledger-lit/internal/report"
)

type globalFlags struct {
	file        string
	commodity   string
	begin       string
	end         string
	match       string
	period      string
	hledger     string
	income      string
	expense     string
	asset       string
	liability   string
	other       string
	config      string
	format      string
	input       string
	inputFormat string
	debug       bool
}

// app is the state shared by all subcommands, filled in by setup.
type app struct {
	flags      globalFlags
	log        *log.Logger
	cfg        *config.Config
	configPath string
	now        func() time.Time
}

func configPathHint() string {
	return "$XDG_CONFIG_HOME/" + config.FileName
}

// setup builds the logger and the effective config: file values overridden by flags.
func (a *app) setup(cmd *cobra.Command) error {
	a.log = newLogger(a.flags.debug)
	log.SetDefault(a.log)
	if a.now == nil {
		a.now = time.Now
	}

	if err := config.LoadDotenv("."); err != nil {
		return err
	}

	a.configPath = a.flags.config
	if a.configPath == "" {
		a.configPath = config.Path()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.log.Debug("loaded config", "path", a.configPath)

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("file", &cfg.Settings.Filename, a.flags.file)
	override("commodity", &cfg.Settings.Commodity, a.flags.commodity)
	override("match", &cfg.Settings.Match, a.flags.match)
	override("period", &cfg.Settings.Period, a.flags.period)
	override("hledger", &cfg.Settings.Hledger, a.flags.hledger)
	override("income", &cfg.Regex.Income, a.flags.income)
	override("expense", &cfg.Regex.Expense, a.flags.expense)
	override("asset", &cfg.Regex.Asset, a.flags.asset)
	override("liability", &cfg.Regex.Liability, a.flags.liability)
	override("other", &cfg.Regex.Other, a.flags.other)
	a.cfg = cfg
	return nil
}

func (a *app) renderer() (*render.Renderer, error) {
	f, err := render.ParseFormat(a.flags.format)
	if err != nil {
		return nil, err
	}
	return render.New(f), nil
}

func (a *app) dateRange() (report.Range, error) {
	r := report.DefaultRange(a.now())
	if a.flags.begin != "" {
		t, err := time.Parse(time.DateOnly, a.flags.begin)
		if err != nil {
			return report.Range{}, fmt.Errorf("parsing --begin: %w", err)
		}
		r.Begin = t
	}
	if a.flags.end != "" {
		t, err := time.Parse(time.DateOnly, a.flags.end)
		if err != nil {
			return report.Range{}, fmt.Errorf("parsing --end: %w", err)
		}
		r.End = t
	}
	return r, r.Validate()
}

// reports builds the report service, reading --input instead of running
// hledger when it is set.
func (a *app) reports() (*report.Service, error) {
	classifier, err := a.cfg.Classifier()
	if err != nil {
		return nil, err
	}
	settings := report.Settings{File: a.cfg.Settings.Filename, Commodity: a.cfg.Settings.Commodity}

	if a.flags.input != "" {
		balances, err := importer.DefaultRegistry(settings.Commodity).ReadFile(a.flags.input, a.flags.inputFormat)
		if err != nil {
			return nil, err
		}
		a.log.Debug("loaded saved balances", "input", a.flags.input, "rows", len(balances))
		return report.NewService(report.NewStaticSource(balances, classifier), classifier, settings, a.log), nil
	}

	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(settings.File); err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}
	client := hledger.NewClient(hledger.ExecRunner{Path: a.cfg.Settings.Hledger}, classifier, a.cfg.Options(), a.log)
	return report.NewService(client, classifier, settings, a.log), nil
}
