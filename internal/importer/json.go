package importer

import (
	"fmt"
	"io"

	"github.com/hledger-lit/hledger-lit/internal/hledger"
	"github.com/hledger-lit/hledger-lit/internal/model"
)

// JSONParser reads the output of `hledger balance --tree --no-elide -O json`.
type JSONParser struct {
	Commodity string
}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes every row of the report; filtering by category is left to the caller.
func (p *JSONParser) Parse(r io.Reader) ([]model.Balance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading balance report: %w", err)
	}
	rows, err := hledger.DecodeBalanceReport(data)
	if err != nil {
		return nil, err
	}
	return hledger.BalancesFromRows(rows, p.Commodity, nil)
}
