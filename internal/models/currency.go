package models

// Currency is one of the fixed set of currencies the tracker supports.
// Conversion between them is a display-layer concern over a static rate
// table; ledger computations never convert.
type Currency string

const (
	CurrencyMKD Currency = "MKD"
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// SupportedCurrencies lists every accepted currency code.
var SupportedCurrencies = []Currency{CurrencyMKD, CurrencyEUR, CurrencyUSD}

// IsSupported reports whether c is one of the supported currencies.
func (c Currency) IsSupported() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}
