package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hledger-lit/hledger-lit/internal/accounts"
	"github.com/hledger-lit/hledger-lit/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Settings.Filename = "/data/main.journal"
	cfg.Settings.Commodity = "USD"
	cfg.Settings.Match = "regex"
	cfg.Settings.ExtraArgs = "--auto --forecast"
	cfg.Regex.Expense = "expenses|costs"
	cfg.Regex.Other = "revenues virtual gains"

	path := filepath.Join(t.TempDir(), "nested", FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_SettingsAndRegexOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := "[settings]\nfilename = /home/me/2024.journal\ncommodity = £\n\n[regex]\nincome = income\nexpense = expenses\nasset = assets\nliability = liabilities\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/home/me/2024.journal", cfg.Settings.Filename)
	assert.Equal(t, "£", cfg.Settings.Commodity)
	// Keys added later fall back to their defaults.
	assert.Equal(t, "segment", cfg.Settings.Match)
	assert.Equal(t, "not:tag:clopen", cfg.Settings.Exclude)
	assert.Equal(t, "revenues virtual", cfg.Regex.Other)
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv(LedgerFileEnv, "/env/ledger.journal")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	require.NoError(t, err)
	assert.Equal(t, "/env/ledger.journal", cfg.Settings.Filename)
	assert.Equal(t, DefaultCommodity, cfg.Settings.Commodity)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("[settings\nfilename"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "reading config")
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))
	require.NoError(t, Reset(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Resetting twice is fine.
	assert.NoError(t, Reset(path))
}

func TestPath(t *testing.T) {
	assert.Equal(t, FileName, filepath.Base(Path()))
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "£", cfg.Settings.Commodity)
	assert.Equal(t, "daily", cfg.Settings.Period)
	assert.Equal(t, "hledger", cfg.Settings.Hledger)
	assert.Equal(t, accounts.DefaultCategories(), cfg.Categories())
}

func TestClassifier(t *testing.T) {
	cfg := Default()
	cfg.Settings.Match = "substring"
	c, err := cfg.Classifier()
	require.NoError(t, err)
	assert.Equal(t, accounts.MatchSubstring, c.Mode())

	cat, ok := c.Classify("assets:income_received")
	require.True(t, ok)
	assert.Equal(t, model.CategoryIncome, cat)

	cfg.Settings.Match = "fuzzy"
	_, err = cfg.Classifier()
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Settings.ExtraArgs = " --auto  --forecast "
	opts := cfg.Options()
	assert.Equal(t, []string{"--auto", "--forecast"}, opts.ExtraArgs)
	assert.Equal(t, "not:tag:clopen", opts.Exclude)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Settings.Filename = ""
	assert.ErrorContains(t, cfg.Validate(), "no journal file")

	cfg.Settings.Filename = "main.journal"
	assert.NoError(t, cfg.Validate())

	cfg.Settings.Period = "hourly"
	assert.ErrorContains(t, cfg.Validate(), "unknown period")

	cfg.Settings.Period = "monthly"
	cfg.Settings.Commodity = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(LedgerFileEnv, "")
	os.Unsetenv(LedgerFileEnv)

	require.NoError(t, LoadDotenv(dir), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEDGER_FILE=/from/dotenv.journal\n"), 0o644))
	require.NoError(t, LoadDotenv(dir))
	assert.Equal(t, "/from/dotenv.journal", Default().Settings.Filename)
}

func TestWrite(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Write(&buf, Default()))
	out := buf.String()
	assert.Contains(t, out, "[settings]")
	assert.Contains(t, out, "[regex]")
	assert.Contains(t, out, "liability = liabilities")
}
