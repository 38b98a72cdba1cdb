package monzo

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ISO 4217 minor-unit exponents that differ from the usual two.
var currencyExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// MinorUnits converts an amount in minor units of currency into a decimal
// amount in major units, eg. 5000 GBP becomes 50.00.
func MinorUnits(amount int64, currency string) decimal.Decimal {
	return decimal.New(amount, -exponent(currency))
}

// FormatMinorUnits renders an amount with its currency, eg. "-2.30 GBP".
func FormatMinorUnits(amount int64, currency string) string {
	return MinorUnits(amount, currency).StringFixed(exponent(currency)) + " " + currency
}

func exponent(currency string) int32 {
	if exp, ok := currencyExponents[strings.ToUpper(currency)]; ok {
		return exp
	}
	return 2
}
