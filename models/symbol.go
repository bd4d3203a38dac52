package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// QuoteSuffixes are the quote assets recognized when splitting a symbol.
// Order matters: longer suffixes are listed before their prefixes.
var QuoteSuffixes = []string{"USDT", "USDC", "BUSD", "BRL", "EUR", "USD"}

// SplitSymbol splits a trading pair into (base, quote) by stripping a known
// quote suffix. When no suffix matches it falls back to a fixed 3-character
// base split. The fallback mis-splits 4+ character base assets (AVAXXYZ
// becomes AVA/XXYZ); every consumer of the simulator relies on the same
// split, so the behavior is pinned by tests instead of fixed here.
func SplitSymbol(symbol string) (string, string) {
	upper := strings.ToUpper(symbol)

	for _, suffix := range QuoteSuffixes {
		if strings.HasSuffix(upper, suffix) && len(upper) > len(suffix) {
			return upper[:len(upper)-len(suffix)], suffix
		}
	}

	if len(upper) <= 3 {
		return upper, ""
	}

	return upper[:3], upper[3:]
}

// PricePrecision returns the decimal places used for a synthesized price:
// 2 if price >= 1000, 4 if >= 1, 6 if >= 0.0001, otherwise 8.
func PricePrecision(price decimal.Decimal) int32 {
	switch {
	case price.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return 2
	case price.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return 4
	case price.GreaterThanOrEqual(decimal.New(1, -4)):
		return 6
	default:
		return 8
	}
}

func RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(PricePrecision(price))
}
