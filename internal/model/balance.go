package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is one account's signed amount in the report commodity.
type Balance struct {
	Account string
	Amount  decimal.Decimal // sign follows hledger: income negative, expenses positive
}

// History holds per-period magnitudes for the top-level accounts.
type History struct {
	Dates    []time.Time
	Series   map[string][]decimal.Decimal // aligned with Dates
	NetWorth []decimal.Decimal            // nil when no asset series was reported
}
