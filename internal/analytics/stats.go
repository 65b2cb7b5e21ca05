package analytics

import (
	"math"
	"sort"

	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// distribution holds the descriptive statistics of a set of amounts.
type distribution struct {
	count  int
	mean   decimal.Decimal
	median decimal.Decimal
	std    float64
	min    decimal.Decimal
	max    decimal.Decimal
}

// describe computes the distribution of amounts. Mean, median and bounds
// stay exact; the standard deviation is the sample estimate (n-1) and is
// zero below two values.
func describe(amounts []decimal.Decimal) distribution {
	n := len(amounts)
	if n == 0 {
		return distribution{}
	}
	sorted := append([]decimal.Decimal(nil), amounts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	var sum decimal.Decimal
	for _, a := range sorted {
		sum = sum.Add(a)
	}
	d := distribution{
		count: n,
		mean:  mean(sum, n),
		min:   sorted[0],
		max:   sorted[n-1],
	}
	if n%2 == 1 {
		d.median = sorted[n/2]
	} else {
		d.median = sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
	}
	if n > 1 {
		xs := make([]float64, n)
		for i, a := range sorted {
			xs[i] = a.InexactFloat64()
		}
		d.std = stat.StdDev(xs, nil)
	}
	return d
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// StatisticalSummary describes all transaction amounts and compares the
// mean relevant-category transaction in the campaign and pre windows.
type StatisticalSummary struct {
	MeanTransaction   float64 `json:"mean_transaction"`
	MedianTransaction float64 `json:"median_transaction"`
	StdTransaction    float64 `json:"std_transaction"`
	MinTransaction    float64 `json:"min_transaction"`
	MaxTransaction    float64 `json:"max_transaction"`
	CampaignMean      float64 `json:"campaign_mean"`
	PreCampaignMean   float64 `json:"pre_campaign_mean"`
	MeanUplift        float64 `json:"mean_uplift"`
}

// StatisticalSummary describes every transaction amount and the mean
// relevant-category transaction of the pre and campaign windows.
func (e *Engine) StatisticalSummary() StatisticalSummary {
	all := make([]decimal.Decimal, len(e.records))
	var preSum, campaignSum decimal.Decimal
	var preN, campaignN int
	for i := range e.records {
		r := &e.records[i]
		all[i] = r.Amount
		if !r.relevant {
			continue
		}
		switch {
		case r.inPre:
			preSum = preSum.Add(r.Amount)
			preN++
		case r.inCampaign:
			campaignSum = campaignSum.Add(r.Amount)
			campaignN++
		}
	}
	d := describe(all)
	campaignMean := mean(campaignSum, campaignN)
	preMean := mean(preSum, preN)

	return StatisticalSummary{
		MeanTransaction:   money(d.mean),
		MedianTransaction: money(d.median),
		StdTransaction:    round2(d.std),
		MinTransaction:    money(d.min),
		MaxTransaction:    money(d.max),
		CampaignMean:      money(campaignMean),
		PreCampaignMean:   money(preMean),
		MeanUplift:        money(campaign.PercentChange(campaignMean, preMean)),
	}
}

// CategoryStats is the amount distribution of one category.
type CategoryStats struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// CategoryStatistics describes the amounts of each category, ordered by
// category name.
func (e *Engine) CategoryStatistics() []CategoryStats {
	byCategory := make(map[string][]decimal.Decimal)
	for i := range e.records {
		c := string(e.records[i].Category)
		byCategory[c] = append(byCategory[c], e.records[i].Amount)
	}
	names := make([]string, 0, len(byCategory))
	for c := range byCategory {
		names = append(names, c)
	}
	sort.Strings(names)

	out := make([]CategoryStats, 0, len(names))
	for _, c := range names {
		d := describe(byCategory[c])
		out = append(out, CategoryStats{
			Category: c,
			Count:    d.count,
			Mean:     money(d.mean),
			Median:   money(d.median),
			Std:      round2(d.std),
			Min:      money(d.min),
			Max:      money(d.max),
		})
	}
	return out
}

// Correlation is the Pearson coefficient between amount and one feature.
type Correlation struct {
	Feature     string  `json:"feature"`
	Correlation float64 `json:"correlation"`
}

// Correlations relates the amount to campaign membership, category,
// segment and month. Category and segment codes are the positions of their
// labels in sorted order. A feature with no variance reports zero.
func (e *Engine) Correlations() []Correlation {
	categoryCode := codes(e.records, func(r *record) string { return string(r.Category) })
	segmentCode := codes(e.records, func(r *record) string { return string(r.Segment) })

	features := []struct {
		name  string
		value func(r *record) float64
	}{
		{"is_campaign_period", func(r *record) float64 {
			if r.period == campaign.PeriodDuring {
				return 1
			}
			return 0
		}},
		{"category_code", func(r *record) float64 { return float64(categoryCode[string(r.Category)]) }},
		{"segment_code", func(r *record) float64 { return float64(segmentCode[string(r.Segment)]) }},
		{"month", func(r *record) float64 { return float64(r.month) }},
	}

	amounts := make([]float64, len(e.records))
	for i := range e.records {
		amounts[i] = e.records[i].value
	}

	out := make([]Correlation, 0, len(features))
	for _, f := range features {
		xs := make([]float64, len(e.records))
		for i := range e.records {
			xs[i] = f.value(&e.records[i])
		}
		out = append(out, Correlation{
			Feature:     f.name,
			Correlation: math.Round(pearson(amounts, xs)*1000) / 1000,
		})
	}
	return out
}

func codes(records []record, label func(r *record) string) map[string]int {
	seen := make(map[string]struct{})
	for i := range records {
		seen[label(&records[i])] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make(map[string]int, len(labels))
	for i, l := range labels {
		out[l] = i
	}
	return out
}

// pearson is the correlation of xs and ys, or zero when either has no
// variance.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
