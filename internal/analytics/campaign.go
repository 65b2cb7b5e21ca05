package analytics

import (
	"sort"

	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// responseFactor is how far above its own baseline a customer's campaign
// spend must be to count as a response.
var responseFactor = decimal.RequireFromString("1.2")

// PeriodCategory is one (category, period) row of the campaign
// effectiveness report.
type PeriodCategory struct {
	CampaignPeriod   string  `json:"campaign_period"`
	Category         string  `json:"category"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
	AvgTransaction   float64 `json:"avg_transaction"`
	UniqueCustomers  int     `json:"unique_customers"`
	UpliftPercentage float64 `json:"uplift_percentage"`
}

// CampaignEffectiveness reports each relevant category in every period,
// including empty groups. Only the During row carries an uplift; it
// compares the category's campaign spend with its scaled pre-campaign
// spend.
func (e *Engine) CampaignEffectiveness() []PeriodCategory {
	type key struct {
		category domain.Category
		period   campaign.Period
	}
	groups := make(map[key]*group)
	for _, c := range e.cal.RelevantCategories {
		for _, p := range campaign.Periods {
			groups[key{c, p}] = &group{customers: make(map[string]struct{})}
		}
	}
	for i := range e.records {
		r := &e.records[i]
		if g, ok := groups[key{r.Category, r.period}]; ok {
			g.add(r)
		}
	}

	out := make([]PeriodCategory, 0, len(groups))
	for _, c := range e.cal.RelevantCategories {
		uplift := e.cal.ComputeUplift(groups[key{c, campaign.PeriodPre}].sum, groups[key{c, campaign.PeriodDuring}].sum)
		for _, p := range campaign.Periods {
			g := groups[key{c, p}]
			row := PeriodCategory{
				CampaignPeriod:   string(p),
				Category:         string(c),
				TransactionCount: g.count,
				TotalSpend:       money(g.sum),
				AvgTransaction:   money(g.mean()),
				UniqueCustomers:  len(g.customers),
			}
			if p == campaign.PeriodDuring {
				row.UpliftPercentage = money(uplift.Percentage)
			}
			out = append(out, row)
		}
	}
	return out
}

// Recommendation ranks a segment for future campaigns.
type Recommendation struct {
	Segment          string            `json:"segment"`
	UpliftPercentage float64           `json:"uplift_percentage"`
	Priority         campaign.Priority `json:"priority"`
	Recommendation   string            `json:"recommendation"`
}

// Recommendations computes the uplift of each known segment that spent in
// the relevant categories during the pre or campaign window, highest first.
// Segments without pre-window spend report zero uplift. Records carrying a
// segment outside the tier set are ignored.
func (e *Engine) Recommendations() []Recommendation {
	type totals struct{ pre, during decimal.Decimal }
	bySegment := make(map[domain.Segment]*totals)
	var order []domain.Segment
	for i := range e.records {
		r := &e.records[i]
		if !r.relevant || !(r.inPre || r.inCampaign) || r.Segment.Rank() < 0 {
			continue
		}
		t, ok := bySegment[r.Segment]
		if !ok {
			t = &totals{}
			bySegment[r.Segment] = t
			order = append(order, r.Segment)
		}
		if r.inPre {
			t.pre = t.pre.Add(r.Amount)
		} else {
			t.during = t.during.Add(r.Amount)
		}
	}

	type scored struct {
		segment domain.Segment
		uplift  decimal.Decimal
	}
	ranked := make([]scored, 0, len(order))
	for _, s := range order {
		t := bySegment[s]
		ranked = append(ranked, scored{s, e.cal.ComputeUplift(t.pre, t.during).Percentage.Round(2)})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].uplift.Cmp(ranked[j].uplift); c != 0 {
			return c > 0
		}
		ri, rj := ranked[i].segment.Rank(), ranked[j].segment.Rank()
		if ri != rj {
			return ri > rj
		}
		return ranked[i].segment < ranked[j].segment
	})

	out := make([]Recommendation, 0, len(ranked))
	for _, s := range ranked {
		p := campaign.PriorityFor(s.uplift)
		out = append(out, Recommendation{
			Segment:          string(s.segment),
			UpliftPercentage: s.uplift.InexactFloat64(),
			Priority:         p,
			Recommendation:   p.Label(),
		})
	}
	return out
}

// CampaignResponse counts the customers whose relevant campaign spend
// beat their own baseline by the response factor.
type CampaignResponse struct {
	TotalCustomers         int     `json:"total_customers"`
	RespondedCustomers     int     `json:"responded_customers"`
	ResponseRatePercentage float64 `json:"response_rate_percentage"`
}

// CampaignResponse considers only customers with relevant spend before the
// campaign started.
func (e *Engine) CampaignResponse() CampaignResponse {
	type totals struct{ pre, during decimal.Decimal }
	byCustomer := make(map[string]*totals)
	for i := range e.records {
		r := &e.records[i]
		if !r.relevant {
			continue
		}
		t, ok := byCustomer[r.CustomerID]
		if !ok {
			t = &totals{}
			byCustomer[r.CustomerID] = t
		}
		switch {
		case r.period == campaign.PeriodPre:
			t.pre = t.pre.Add(r.Amount)
		case r.inCampaign:
			t.during = t.during.Add(r.Amount)
		}
	}

	var res CampaignResponse
	for _, t := range byCustomer {
		if !t.pre.IsPositive() {
			continue
		}
		res.TotalCustomers++
		if t.during.GreaterThan(e.cal.ExpectedBaseline(t.pre).Mul(responseFactor)) {
			res.RespondedCustomers++
		}
	}
	if res.TotalCustomers > 0 {
		rate := decimal.NewFromInt(int64(res.RespondedCustomers)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(res.TotalCustomers)))
		res.ResponseRatePercentage = money(rate)
	}
	return res
}
