package money_test

import (
	"testing"

	"github.com/safarsoft/travel_agency_backoffice/internal/apperrors"
	"github.com/safarsoft/travel_agency_backoffice/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePositive(t *testing.T) {
	d, err := money.ParsePositive("120.50")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("120.5")))

	_, err = money.ParsePositive("0")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = money.ParsePositive("-3")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)

	_, err = money.ParsePositive("abc")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestParseNonNegative(t *testing.T) {
	d, err := money.ParseNonNegative("0")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = money.ParseNonNegative("-0.01")
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}

func TestRoundCurrencyHalfUp(t *testing.T) {
	assert.Equal(t, "10.13", money.RoundCurrency(decimal.RequireFromString("10.125")).StringFixed(2))
	assert.Equal(t, "10.12", money.RoundCurrency(decimal.RequireFromString("10.124")).StringFixed(2))
}

func TestComputeDocumentTotals(t *testing.T) {
	lineTotals := []decimal.Decimal{
		decimal.RequireFromString("200"),
		decimal.RequireFromString("99.99"),
	}

	subtotal, tax, total, err := money.ComputeDocumentTotals(lineTotals, decimal.RequireFromString("15"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.Equal(t, "299.99", subtotal.StringFixed(2))
	// 15% of 299.99 = 44.9985, rounded half-up once at the end
	assert.Equal(t, "45.00", tax.StringFixed(2))
	assert.Equal(t, "334.99", total.StringFixed(2))
}

func TestComputeDocumentTotalsTaxRoundsOnceNotPerLine(t *testing.T) {
	// Three lines of 0.333 each: per-line tax rounding would drift.
	lineTotals := []decimal.Decimal{
		decimal.RequireFromString("0.333"),
		decimal.RequireFromString("0.333"),
		decimal.RequireFromString("0.333"),
	}

	subtotal, tax, total, err := money.ComputeDocumentTotals(lineTotals, decimal.RequireFromString("15"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "1.00", subtotal.StringFixed(2))
	assert.Equal(t, "0.15", tax.StringFixed(2))
	assert.Equal(t, "1.15", total.StringFixed(2))
}

func TestComputeDocumentTotalsRejectsExcessiveDiscount(t *testing.T) {
	lineTotals := []decimal.Decimal{decimal.RequireFromString("50")}

	_, _, _, err := money.ComputeDocumentTotals(lineTotals, decimal.Zero, decimal.RequireFromString("60"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
}
