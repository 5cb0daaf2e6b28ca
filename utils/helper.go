package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a money-ish cell value. Upstream spreadsheets render
// amounts with thousands separators and stray whitespace.
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, errors.New("empty decimal string")
	}
	value = strings.ReplaceAll(value, ",", "")

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return dec, nil
}
