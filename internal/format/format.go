// Package format renders engine output for display: percentages with
// two fraction digits and locale-aware currency amounts.
package format

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Percent renders a decimal fraction as a percentage string with two
// fraction digits, e.g. 0.0525 → "5.25%".
func Percent(tag language.Tag, v float64) string {
	p := message.NewPrinter(tag)
	return p.Sprint(number.Percent(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Currency renders an amount as a localized currency string with the
// unit's symbol, e.g. 1000 USD in en-US → "$1,000.00".
func Currency(tag language.Tag, unit currency.Unit, v float64) string {
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(v)))
}
