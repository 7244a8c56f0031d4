package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hledger-lit/hledger-lit/internal/model"
)

// CSVParser reads two-column account,amount files with a header row, as
// written by WriteCSV or `hledger balance -O csv`.
type CSVParser struct{}

const (
	csvNumFields = 2
	csvColName   = 0
	csvColAmount = 1
)

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads the CSV and returns balances in file order.
func (p *CSVParser) Parse(r io.Reader) ([]model.Balance, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = csvNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading balance CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var balances []model.Balance
	for i, rec := range records[1:] {
		b, err := parseCSVRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		// hledger's own CSV ends with a total row.
		if b.Account == "Total:" || b.Account == "total" {
			continue
		}
		balances = append(balances, b)
	}
	return balances, nil
}

func parseCSVRow(rec []string) (model.Balance, error) {
	name := strings.TrimSpace(rec[csvColName])
	if name == "" {
		return model.Balance{}, errors.New("empty account name")
	}
	amount, err := parseAmount(rec[csvColAmount])
	if err != nil {
		return model.Balance{}, err
	}
	return model.Balance{Account: name, Amount: amount}, nil
}

// amountPattern matches one amount: an optional sign, an optional commodity
// before or after the number, and a number with optional "," thousands groups.
var amountPattern = regexp.MustCompile(
	`^(-)?\s*(` + commodityPattern + `)?\s*(-)?(\d{1,3}(?:,\d{3})+|\d+)(\.\d+)?\s*(` + commodityPattern + `)?$`)

const commodityPattern = `"[^"]*"|[^\d\s.,"-]+`

var errMalformedAmount = errors.New("not a single-commodity amount")

// parseAmount accepts plain numbers and single-commodity hledger renderings
// such as "£1,234.50", "-£3", "£-3", "12 EUR" or "0". An empty cell is zero.
// Multi-commodity cells like "£10, 5 EUR" are rejected.
func parseAmount(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return decimal.Zero, nil
	}
	m := amountPattern.FindStringSubmatch(raw)
	if m == nil || (m[1] != "" && m[3] != "") || (m[2] != "" && m[6] != "") {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, errMalformedAmount)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[4], ",", "") + m[5])
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if m[1] != "" || m[3] != "" {
		amount = amount.Neg()
	}
	return amount, nil
}

// WriteCSV writes balances in the shape CSVParser reads.
func WriteCSV(w io.Writer, balances []model.Balance) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"account", "amount"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, b := range balances {
		if err := cw.Write([]string{b.Account, b.Amount.String()}); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", b.Account, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
