package analytics

import "github.com/shopspring/decimal"

// Overview is the headline summary of the dataset and the campaign.
type Overview struct {
	TotalTransactions  int     `json:"total_transactions"`
	TotalSpend         float64 `json:"total_spend"`
	AvgTransactionSize float64 `json:"avg_transaction_size"`
	UniqueCustomers    int     `json:"unique_customers"`
	CampaignRevenue    float64 `json:"campaign_revenue"`
	IncrementalRevenue float64 `json:"incremental_revenue"`
	ROIPercentage      float64 `json:"roi_percentage"`
}

// Overview computes totals over every transaction and the campaign uplift
// of relevant-category spend inside the campaign window against the
// scaled pre window.
func (e *Engine) Overview() Overview {
	var total decimal.Decimal
	customers := make(map[string]struct{})
	for i := range e.records {
		total = total.Add(e.records[i].Amount)
		customers[e.records[i].CustomerID] = struct{}{}
	}

	pre, during := e.campaignComparison(nil)
	uplift := e.cal.ComputeUplift(pre, during)

	return Overview{
		TotalTransactions:  len(e.records),
		TotalSpend:         money(total),
		AvgTransactionSize: money(mean(total, len(e.records))),
		UniqueCustomers:    len(customers),
		CampaignRevenue:    money(during),
		IncrementalRevenue: money(uplift.Incremental),
		ROIPercentage:      money(uplift.Percentage),
	}
}

// IncrementalRevenue is the aggregate baseline comparison.
type IncrementalRevenue struct {
	ActualCampaignSpend   float64 `json:"actual_campaign_spend"`
	ExpectedBaselineSpend float64 `json:"expected_baseline_spend"`
	IncrementalRevenue    float64 `json:"incremental_revenue"`
	RevenueLiftPercentage float64 `json:"revenue_lift_percentage"`
}

// IncrementalRevenue exposes the baseline, observed spend and lift behind
// the overview's ROI figure.
func (e *Engine) IncrementalRevenue() IncrementalRevenue {
	pre, during := e.campaignComparison(nil)
	u := e.cal.ComputeUplift(pre, during)
	return IncrementalRevenue{
		ActualCampaignSpend:   money(u.Observed),
		ExpectedBaselineSpend: money(u.Baseline),
		IncrementalRevenue:    money(u.Incremental),
		RevenueLiftPercentage: money(u.Percentage),
	}
}
