package report

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var eurPrinter = message.NewPrinter(language.Italian)

// FormatEUR renders v as whole euros with Italian digit grouping,
// e.g. "1.234 €" or "-50 €". Halves round away from zero.
func FormatEUR(v float64) string {
	d, ok := toDecimal(v)
	if !ok {
		return "0 €"
	}
	return eurPrinter.Sprintf("%d €", d.Round(0).IntPart())
}

func toDecimal(v float64) (decimal.Decimal, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}
