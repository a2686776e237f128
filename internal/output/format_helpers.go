package output

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in currency using go-money's display rules, e.g. "£1,234.56".
// Unknown currency codes fall back to "<code> 1234.56".
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return currency + " " + amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// FormatPercentage formats a 0..100 percentage with 2 decimals.
func FormatPercentage(pct decimal.Decimal) string { return pct.StringFixed(2) + "%" }

// FormatRate formats a 0..1 fraction as a percentage.
func FormatRate(fraction decimal.Decimal) string {
	return FormatPercentage(fraction.Mul(decimal.NewFromInt(100)))
}
