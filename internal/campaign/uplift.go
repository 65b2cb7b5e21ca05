package campaign

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Uplift is the outcome of comparing observed campaign spend with the
// baseline projected from the pre-campaign window.
type Uplift struct {
	Baseline    decimal.Decimal
	Observed    decimal.Decimal
	Incremental decimal.Decimal
	// Percentage is zero when the baseline is not positive: no comparison
	// is possible, which is not the same as no lift.
	Percentage decimal.Decimal
}

// ExpectedBaseline scales the pre-window total to the campaign's duration,
// assuming a stationary monthly average. Multiplication happens first so
// that whole-month ratios stay exact (600 over 6 months gives 300 for 3).
func (c Calendar) ExpectedBaseline(preTotal decimal.Decimal) decimal.Decimal {
	months := c.Pre.Months()
	if months <= 0 {
		return decimal.Zero
	}
	return preTotal.Mul(decimal.NewFromInt(int64(c.Campaign.Months()))).Div(decimal.NewFromInt(int64(months)))
}

// ComputeUplift applies the baseline formula to a pre-window total and a
// campaign-window total.
func (c Calendar) ComputeUplift(preTotal, duringTotal decimal.Decimal) Uplift {
	baseline := c.ExpectedBaseline(preTotal)
	incremental := duringTotal.Sub(baseline)
	return Uplift{
		Baseline:    baseline,
		Observed:    duringTotal,
		Incremental: incremental,
		Percentage:  PercentChange(duringTotal, baseline),
	}
}

// PercentChange returns (observed - reference) / reference * 100, or zero
// when reference is not positive.
func PercentChange(observed, reference decimal.Decimal) decimal.Decimal {
	if !reference.IsPositive() {
		return decimal.Zero
	}
	return observed.Sub(reference).Div(reference).Mul(hundred)
}
