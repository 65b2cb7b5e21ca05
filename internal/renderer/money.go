package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the reporting currency of every amount in the dataset.
const Currency = money.USD

// FormatMoney renders amount in the reporting currency, e.g. "$1,234.56".
func FormatMoney(amount float64) string {
	cur := money.GetCurrency(Currency)
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), Currency).Display()
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2) + "%"
}

// FormatSignedPercent renders a change, e.g. "+80.00%".
func FormatSignedPercent(p float64) string {
	s := FormatPercent(p)
	if p > 0 {
		return "+" + s
	}
	return s
}
