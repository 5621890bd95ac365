// Package money parses and formats the USD amounts that move between
// funding sources.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrInvalidAmount   = errors.New("amount must be a decimal number")
	ErrNonPositive     = errors.New("amount must be greater than zero")
	ErrTooManyDecimals = errors.New("amount must have at most two decimal places")
)

var printer = message.NewPrinter(language.AmericanEnglish)

// ParseAmount accepts a plain decimal string such as "100" or "100.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositive
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return d.Round(2), nil
}

// FormatAmount renders a USD amount with grouping, e.g. -$1,234.50.
func FormatAmount(amount decimal.Decimal) string {
	cents := amount.Round(2)
	sign := ""
	if cents.IsNegative() {
		sign = "-"
		cents = cents.Abs()
	}

	whole := cents.Truncate(0).IntPart()
	frac := cents.Sub(cents.Truncate(0)).Shift(2).IntPart()
	return sign + printer.Sprintf("$%d.%02d", whole, frac)
}
