package analytics

import (
	"sort"

	"github.com/shopspring/decimal"
)

// movingWindow is the number of monthly rows averaged by CategoryTrends.
const movingWindow = 3

// CategoryTrend is one month of one category's spend with its smoothed
// value and growth over the previous month.
type CategoryTrend struct {
	Month               string  `json:"month"`
	Category            string  `json:"category"`
	MonthlySpend        float64 `json:"monthly_spend"`
	ThreeMonthMovingAvg float64 `json:"three_month_moving_avg"`
	// MonthOverMonthGrowth is nil on a category's first month.
	MonthOverMonthGrowth *float64 `json:"month_over_month_growth"`
}

// CategoryTrends orders rows by category, then month. The moving average
// covers the current row and up to two preceding rows of the same
// category.
func (e *Engine) CategoryTrends() []CategoryTrend {
	groups := e.groupByMonthCategory()
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].category != groups[j].category {
			return groups[i].category < groups[j].category
		}
		return groups[i].month < groups[j].month
	})

	out := make([]CategoryTrend, 0, len(groups))
	var window []decimal.Decimal
	prevCategory := ""
	for i, g := range groups {
		category, month := g.category, g.month
		if i == 0 || category != prevCategory {
			window = window[:0]
		}
		window = append(window, g.sum)
		if len(window) > movingWindow {
			window = window[1:]
		}
		var windowSum decimal.Decimal
		for _, s := range window {
			windowSum = windowSum.Add(s)
		}

		row := CategoryTrend{
			Month:               month,
			Category:            category,
			MonthlySpend:        money(g.sum),
			ThreeMonthMovingAvg: money(mean(windowSum, len(window))),
		}
		if len(window) > 1 {
			prev := window[len(window)-2]
			if prev.IsPositive() {
				growth := money(g.sum.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)))
				row.MonthOverMonthGrowth = &growth
			}
		}
		out = append(out, row)
		prevCategory = category
	}
	return out
}
