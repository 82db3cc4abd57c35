package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"neobio_balance/pkg/core/balance"
)

// Decimal places used for display.
const (
	FlowDecimals     = 3
	PercentDecimals  = 2
	CurrencyDecimals = 2
)

// Number renders v in Brazilian Portuguese notation ("1.234,568") with a fixed
// number of decimals. The printer is safe for concurrent use.
func Number(v float64, decimals int) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Flow renders flows and dimensionless ratios (3 decimals).
func Flow(v float64) string {
	return Number(v, FlowDecimals)
}

// Percent renders a value that is already a percentage.
func Percent(v float64) string {
	return Number(v, PercentDecimals) + " %"
}

// Currency renders a BRL amount.
func Currency(v float64) string {
	return "R$ " + Number(v, CurrencyDecimals)
}

// Metric renders v according to the unit kind of a catalog entry.
func Metric(unit balance.Unit, v float64) string {
	switch unit {
	case balance.UnitPercent:
		return Percent(v)
	case balance.UnitFraction:
		return Percent(v * 100)
	case balance.UnitCurrency:
		return Currency(v)
	default:
		return Flow(v)
	}
}

// Result renders every metric of r, keyed like balance.Result.Values.
func Result(r balance.Result) map[string]string {
	out := make(map[string]string, len(balance.Catalog))
	for _, m := range balance.Catalog {
		out[m.Key] = Metric(m.Unit, m.Value(r))
	}
	return out
}
