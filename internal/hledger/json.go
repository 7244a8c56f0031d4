package hledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSchema is the kind of every SchemaError.
var ErrSchema = errors.New("unexpected hledger output")

// SchemaError reports output that is not JSON or lacks the expected fields.
type SchemaError struct {
	Report string // "balance" or "periodic"
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("unexpected hledger %s report: %s", e.Report, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the decoding error, if any.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is matches ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Quantity is hledger's exact decimal, with a float rendering alongside.
type Quantity struct {
	DecimalMantissa *json.Number `json:"decimalMantissa"`
	DecimalPlaces   *int32       `json:"decimalPlaces"`
	FloatingPoint   *json.Number `json:"floatingPoint"`
}

// Decimal prefers the exact mantissa form and falls back to floatingPoint.
func (q Quantity) Decimal() (decimal.Decimal, error) {
	if q.DecimalMantissa != nil && q.DecimalPlaces != nil {
		m, err := decimal.NewFromString(q.DecimalMantissa.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing decimalMantissa %q: %w", q.DecimalMantissa.String(), err)
		}
		return m.Shift(-*q.DecimalPlaces), nil
	}
	if q.FloatingPoint != nil {
		d, err := decimal.NewFromString(q.FloatingPoint.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("parsing floatingPoint %q: %w", q.FloatingPoint.String(), err)
		}
		return d, nil
	}
	return decimal.Zero, errors.New("quantity has neither decimalMantissa nor floatingPoint")
}

// Amount is a single-commodity amount.
type Amount struct {
	Commodity string    `json:"acommodity"`
	Quantity  *Quantity `json:"aquantity"`
}

// Value decodes the amount's quantity.
func (a Amount) Value() (decimal.Decimal, error) {
	if a.Quantity == nil {
		return decimal.Zero, errors.New("amount has no aquantity")
	}
	return a.Quantity.Decimal()
}

// BalanceRow is one account line of a balance report.
type BalanceRow struct {
	Account string
	Amounts []Amount
}

// DecodeBalanceReport decodes `hledger balance -O json` output.
// The report is [[entry...], totals] with each entry [name, display name, indent, amounts].
func DecodeBalanceReport(data []byte) ([]BalanceRow, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &SchemaError{Report: "balance", Reason: "invalid JSON", Err: err}
	}
	if len(top) == 0 {
		return nil, &SchemaError{Report: "balance", Reason: "empty top-level array"}
	}

	var entries [][]json.RawMessage
	if err := json.Unmarshal(top[0], &entries); err != nil {
		return nil, &SchemaError{Report: "balance", Reason: "first element is not a list of entries", Err: err}
	}

	rows := make([]BalanceRow, 0, len(entries))
	for i, entry := range entries {
		if len(entry) < 4 {
			return nil, &SchemaError{Report: "balance", Reason: fmt.Sprintf("entry %d has %d fields, want 4", i, len(entry))}
		}
		var name string
		if err := json.Unmarshal(entry[0], &name); err != nil {
			return nil, &SchemaError{Report: "balance", Reason: fmt.Sprintf("entry %d account name", i), Err: err}
		}
		var amounts []Amount
		if err := json.Unmarshal(entry[3], &amounts); err != nil {
			return nil, &SchemaError{Report: "balance", Reason: fmt.Sprintf("entry %d (%s) amounts", i, name), Err: err}
		}
		rows = append(rows, BalanceRow{Account: name, Amounts: amounts})
	}
	return rows, nil
}

// PeriodicReport is a decoded multi-period balance report.
type PeriodicReport struct {
	Dates []time.Time // period start dates
	Rows  []PeriodicRow
}

// PeriodicRow holds one account's amounts per period.
type PeriodicRow struct {
	Account string
	Amounts [][]Amount // aligned with PeriodicReport.Dates
}

type rawPeriodicReport struct {
	Dates [][]struct {
		Contents *string `json:"contents"`
	} `json:"prDates"`
	Rows []struct {
		Name    *string    `json:"prrName"`
		Amounts [][]Amount `json:"prrAmounts"`
	} `json:"prRows"`
}

const dateLayout = "2006-01-02"

// DecodePeriodicReport decodes `hledger balance --period ... -O json` output.
func DecodePeriodicReport(data []byte) (*PeriodicReport, error) {
	var raw rawPeriodicReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Report: "periodic", Reason: "invalid JSON", Err: err}
	}
	if raw.Dates == nil {
		return nil, &SchemaError{Report: "periodic", Reason: "missing prDates"}
	}

	report := &PeriodicReport{Dates: make([]time.Time, 0, len(raw.Dates))}
	for i, period := range raw.Dates {
		if len(period) == 0 || period[0].Contents == nil {
			return nil, &SchemaError{Report: "periodic", Reason: fmt.Sprintf("period %d has no start date", i)}
		}
		d, err := time.Parse(dateLayout, strings.TrimSpace(*period[0].Contents))
		if err != nil {
			return nil, &SchemaError{Report: "periodic", Reason: fmt.Sprintf("period %d start date", i), Err: err}
		}
		report.Dates = append(report.Dates, d)
	}

	for i, row := range raw.Rows {
		if row.Name == nil {
			return nil, &SchemaError{Report: "periodic", Reason: fmt.Sprintf("row %d missing prrName", i)}
		}
		if len(row.Amounts) != len(report.Dates) {
			return nil, &SchemaError{
				Report: "periodic",
				Reason: fmt.Sprintf("row %s has %d periods, want %d", *row.Name, len(row.Amounts), len(report.Dates)),
			}
		}
		report.Rows = append(report.Rows, PeriodicRow{Account: *row.Name, Amounts: row.Amounts})
	}
	return report, nil
}
