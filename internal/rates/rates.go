// Package rates converts amounts between the supported currencies for
// display purposes. The table is static; ledger computations never use
// it — a balance is only ever reduced in its own currency.
package rates

import (
	"github.com/shopspring/decimal"

	apperrors "cashew/internal/errors"
	"cashew/internal/models"
)

// toMKD holds the fixed rate of one unit of each currency in MKD, the
// pivot currency of the table.
var toMKD = map[models.Currency]decimal.Decimal{
	models.CurrencyMKD: decimal.NewFromInt(1),
	models.CurrencyEUR: decimal.RequireFromString("61.5"),
	models.CurrencyUSD: decimal.RequireFromString("56.0"),
}

// Convert converts amount from one currency to another through the MKD
// pivot. The result keeps full precision; round for display with Round2.
func Convert(amount decimal.Decimal, from, to models.Currency) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	fromRate, ok := toMKD[from]
	if !ok {
		return decimal.Zero, apperrors.ErrUnsupportedCurrency
	}
	toRate, ok := toMKD[to]
	if !ok {
		return decimal.Zero, apperrors.ErrUnsupportedCurrency
	}

	return amount.Mul(fromRate).Div(toRate), nil
}

// Round2 rounds to two decimal places. Only presentation code should
// call this; accumulators stay unrounded.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
