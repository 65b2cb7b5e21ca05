package analytics

import (
	"sort"

	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// customerStats aggregates one customer's transactions.
type customerStats struct {
	id         string
	segment    domain.Segment
	region     domain.Region
	count      int
	sum        decimal.Decimal
	categories map[domain.Category]struct{}
}

// perCustomer groups transactions by customer in first-seen order. With
// bySegment a customer whose transactions carry several segments yields one
// group per segment; otherwise the first segment seen is kept.
func (e *Engine) perCustomer(bySegment bool) []*customerStats {
	type key struct {
		id      string
		segment domain.Segment
	}
	index := make(map[key]*customerStats)
	var out []*customerStats
	for i := range e.records {
		r := &e.records[i]
		k := key{id: r.CustomerID}
		if bySegment {
			k.segment = r.Segment
		}
		s, ok := index[k]
		if !ok {
			s = &customerStats{id: r.CustomerID, segment: r.Segment, region: r.Region, categories: make(map[domain.Category]struct{})}
			index[k] = s
			out = append(out, s)
		}
		s.count++
		s.sum = s.sum.Add(r.Amount)
		s.categories[r.Category] = struct{}{}
	}
	return out
}

// SegmentProfile describes the average customer of one segment.
type SegmentProfile struct {
	CustomerSegment            string  `json:"customer_segment"`
	CustomerCount              int     `json:"customer_count"`
	AvgCustomerSpend           float64 `json:"avg_customer_spend"`
	AvgTransactionsPerCustomer float64 `json:"avg_transactions_per_customer"`
	AvgTransactionSize         float64 `json:"avg_transaction_size"`
	AvgCategoriesUsed          float64 `json:"avg_categories_used"`
}

// CustomerSegmentation averages per-customer metrics within each segment.
// AvgTransactionSize is the mean of each customer's own average, not the
// segment-wide transaction mean.
func (e *Engine) CustomerSegmentation() []SegmentProfile {
	type acc struct {
		segment    domain.Segment
		customers  int
		spend      decimal.Decimal
		txns       int
		avgTxn     decimal.Decimal
		categories int
	}
	index := make(map[domain.Segment]*acc)
	var segs []*acc
	for _, c := range e.perCustomer(true) {
		a, ok := index[c.segment]
		if !ok {
			a = &acc{segment: c.segment}
			index[c.segment] = a
			segs = append(segs, a)
		}
		a.customers++
		a.spend = a.spend.Add(c.sum)
		a.txns += c.count
		a.avgTxn = a.avgTxn.Add(mean(c.sum, c.count))
		a.categories += len(c.categories)
	}

	out := make([]SegmentProfile, 0, len(segs))
	for _, a := range segs {
		n := decimal.NewFromInt(int64(a.customers))
		out = append(out, SegmentProfile{
			CustomerSegment:            string(a.segment),
			CustomerCount:              a.customers,
			AvgCustomerSpend:           money(a.spend.Div(n)),
			AvgTransactionsPerCustomer: money(decimal.NewFromInt(int64(a.txns)).Div(n)),
			AvgTransactionSize:         money(a.avgTxn.Div(n)),
			AvgCategoriesUsed:          money(decimal.NewFromInt(int64(a.categories)).Div(n)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgCustomerSpend != out[j].AvgCustomerSpend {
			return out[i].AvgCustomerSpend > out[j].AvgCustomerSpend
		}
		return out[i].CustomerSegment < out[j].CustomerSegment
	})
	return out
}

// TopCustomer is one row of the top-customers report.
type TopCustomer struct {
	CustomerID       string  `json:"customer_id"`
	Name             string  `json:"name"`
	CustomerSegment  string  `json:"customer_segment"`
	Region           string  `json:"region"`
	TransactionCount int     `json:"transaction_count"`
	TotalSpend       float64 `json:"total_spend"`
	AvgTransaction   float64 `json:"avg_transaction"`
}

// TopCustomers returns the limit customers with the highest total spend.
// A limit of zero or less returns every customer.
func (e *Engine) TopCustomers(limit int) []TopCustomer {
	stats := e.perCustomer(false)
	sort.Slice(stats, func(i, j int) bool {
		if c := stats[i].sum.Cmp(stats[j].sum); c != 0 {
			return c > 0
		}
		return stats[i].id < stats[j].id
	})
	if limit > 0 && limit < len(stats) {
		stats = stats[:limit]
	}

	out := make([]TopCustomer, 0, len(stats))
	for _, s := range stats {
		row := TopCustomer{
			CustomerID:       s.id,
			CustomerSegment:  string(s.segment),
			Region:           string(s.region),
			TransactionCount: s.count,
			TotalSpend:       money(s.sum),
			AvgTransaction:   money(mean(s.sum, s.count)),
		}
		if c, ok := e.byID[s.id]; ok {
			row.Name = c.Name
			row.CustomerSegment = string(c.Segment)
			row.Region = string(c.Region)
		}
		out = append(out, row)
	}
	return out
}
