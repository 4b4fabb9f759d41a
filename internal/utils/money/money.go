package money

import (
	"fmt"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/shopspring/decimal"
)

// CurrencyPrecision is the number of fractional digits kept on every
// document-level monetary figure.
const CurrencyPrecision = 2

// Parse parses a decimal string into an exact decimal amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cannot parse %q", apperrors.ErrInvalidAmount, s)
	}
	return d, nil
}

// ParsePositive parses a decimal string and rejects zero or negative values.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, d.String())
	}
	return d, nil
}

// ParseNonNegative parses a decimal string and rejects negative values.
func ParseNonNegative(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, d.String())
	}
	return d, nil
}

// RoundCurrency rounds to the currency precision using half-up rounding.
// All amounts in this system are non-negative, so decimal's round-half-away-
// from-zero behaves as half-up.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPrecision)
}

// ComputeDocumentTotals derives subtotal, tax amount and total from exact
// line totals. Tax is computed on the subtotal and rounded once at this final
// step, not per line, so per-line rounding drift cannot accumulate.
func ComputeDocumentTotals(lineTotals []decimal.Decimal, taxRate, discount decimal.Decimal) (subtotal, taxAmount, total decimal.Decimal, err error) {
	subtotal = decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = RoundCurrency(subtotal)

	taxAmount = RoundCurrency(subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)))

	discount = RoundCurrency(discount)
	total = subtotal.Add(taxAmount).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero,
			fmt.Errorf("%w: discount %s exceeds subtotal plus tax", apperrors.ErrInvalidAmount, discount.String())
	}
	return subtotal, taxAmount, total, nil
}
