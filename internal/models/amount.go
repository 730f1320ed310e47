package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"pankki-csv/internal/ledgererror"
)

// ParseAmount parses a signed amount in the bank export's decimal-comma
// notation ("-12,34"). A plain decimal point is accepted as well.
func ParseAmount(raw string) (decimal.Decimal, error) {
	normalized := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ledgererror.ParseError{Field: "Summa", Value: raw, Err: err}
	}
	return d, nil
}

// DirectionOf classifies an amount. Zero counts as Income: the >= 0 rule is
// a fixed policy of the ledger format, not an oversight.
func DirectionOf(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return Expense
	}
	return Income
}
