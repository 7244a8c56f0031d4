// Package config persists user settings in hledger-lit.conf.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/hledger"
)

// FileName is the config file name inside the XDG config directory.
const FileName = "hledger-lit.conf"

// DefaultCommodity is the target commodity when none is configured.
const DefaultCommodity = "£"

// LedgerFileEnv is read for the default journal path, as hledger itself does.
const LedgerFileEnv = "LEDGER_FILE"

// Config is the contents of hledger-lit.conf.
type Config struct {
	Settings Settings `ini:"settings"`
	Regex    Regex    `ini:"regex"`
}

// Settings selects the journal, commodity and query behaviour.
type Settings struct {
	Filename  string `ini:"filename"`
	Commodity string `ini:"commodity"`
	Match     string `ini:"match"`      // see accounts.MatchModes
	Exclude   string `ini:"exclude"`    // hledger query terms
	Period    string `ini:"period"`     // history interval
	Hledger   string `ini:"hledger"`    // binary path
	ExtraArgs string `ini:"extra_args"` // space separated
}

// Regex holds the category patterns. Other is a space separated list.
type Regex struct {
	Income    string `ini:"income"`
	Expense   string `ini:"expense"`
	Asset     string `ini:"asset"`
	Liability string `ini:"liability"`
	Other     string `ini:"other"`
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, FileName)
}

// Load reads a config file. A missing file yields Default().
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := f.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Write renders cfg in the file format.
func Write(w io.Writer, cfg *Config) error {
	f, err := toFile(cfg)
	if err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func toFile(cfg *Config) (*ini.File, error) {
	f := ini.Empty()
	if err := f.ReflectFrom(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return f, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	f, err := toFile(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Reset removes the config file so the defaults apply again.
func Reset(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing config: %w", err)
	}
	return nil
}

// Default returns the built-in settings. The journal defaults to $LEDGER_FILE.
func Default() *Config {
	cats := accounts.DefaultCategories()
	return &Config{
		Settings: Settings{
			Filename:  os.Getenv(LedgerFileEnv),
			Commodity: DefaultCommodity,
			Match:     string(accounts.MatchSegment),
			Exclude:   hledger.DefaultExclude,
			Period:    hledger.DefaultPeriod,
			Hledger:   hledger.DefaultBinary,
		},
		Regex: Regex{
			Income:    cats.Income,
			Expense:   cats.Expense,
			Asset:     cats.Asset,
			Liability: cats.Liability,
			Other:     strings.Join(cats.Other, " "),
		},
	}
}

// LoadDotenv loads dir/.env into the environment if it exists.
// Variables already set are not overridden.
func LoadDotenv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Categories returns the configured category patterns.
func (c *Config) Categories() accounts.Categories {
	return accounts.Categories{
		Income:    c.Regex.Income,
		Expense:   c.Regex.Expense,
		Asset:     c.Regex.Asset,
		Liability: c.Regex.Liability,
		Other:     strings.Fields(c.Regex.Other),
	}
}

// Classifier compiles the configured patterns with the configured match mode.
func (c *Config) Classifier() (*accounts.Classifier, error) {
	mode, err := accounts.ParseMatchMode(c.Settings.Match)
	if err != nil {
		return nil, err
	}
	return accounts.NewClassifier(c.Categories(), mode)
}

// Options returns the hledger query options.
func (c *Config) Options() hledger.Options {
	return hledger.Options{
		Exclude:   c.Settings.Exclude,
		Period:    c.Settings.Period,
		ExtraArgs: strings.Fields(c.Settings.ExtraArgs),
	}
}

// Validate checks the settings that are needed before querying hledger.
func (c *Config) Validate() error {
	if c.Settings.Filename == "" {
		return fmt.Errorf("no journal file: set --file, settings.filename or $%s", LedgerFileEnv)
	}
	if c.Settings.Commodity == "" {
		return errors.New("no commodity configured")
	}
	if _, err := accounts.ParseMatchMode(c.Settings.Match); err != nil {
		return err
	}
	if !validPeriod(c.Settings.Period) {
		return fmt.Errorf("unknown period %q (want one of %v)", c.Settings.Period, hledger.Periods)
	}
	return nil
}

func validPeriod(p string) bool {
	if p == "" {
		return true
	}
	for _, v := range hledger.Periods {
		if v == p {
			return true
		}
	}
	return false
}
