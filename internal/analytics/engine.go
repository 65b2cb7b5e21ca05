// Package analytics holds the uplift engine: an immutable, validated
// transaction dataset with cached derived fields and the reports computed
// over it.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/dataset"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotLoaded is returned when a report is requested before any dataset
// has been published.
var ErrNotLoaded = errors.New("analytics data not loaded")

// record is a transaction plus the fields every report groups on, computed
// once at construction.
type record struct {
	domain.Transaction

	value      float64
	yearMonth  string
	month      int
	quarter    string
	weekday    time.Weekday
	period     campaign.Period
	relevant   bool
	inPre      bool
	inCampaign bool
}

// Engine answers report queries over one dataset and one calendar. It is
// never mutated after New returns and is safe for concurrent use.
type Engine struct {
	cal       campaign.Calendar
	records   []record
	customers []domain.Customer
	byID      map[string]domain.Customer
}

// New validates the calendar and both record sets and builds an engine.
// Invalid records fail the whole construction with a *dataset.DataLoadError;
// nothing is dropped.
func New(txns []domain.Transaction, customers []domain.Customer, cal campaign.Calendar) (*Engine, error) {
	if err := cal.Validate(); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if err := dataset.ValidateTransactions(txns); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	if err := dataset.ValidateCustomers(customers); err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}

	cal.RelevantCategories = append([]domain.Category(nil), cal.RelevantCategories...)
	e := &Engine{
		cal:       cal,
		records:   make([]record, len(txns)),
		customers: append([]domain.Customer(nil), customers...),
		byID:      make(map[string]domain.Customer, len(customers)),
	}
	for _, c := range customers {
		e.byID[c.CustomerID] = c
	}
	for i, tx := range txns {
		d := tx.Date
		e.records[i] = record{
			Transaction: tx,
			value:       tx.Amount.InexactFloat64(),
			yearMonth:   fmt.Sprintf("%04d-%02d", d.Year, int(d.Month)),
			month:       int(d.Month),
			quarter:     fmt.Sprintf("%04d-Q%d", d.Year, (int(d.Month)-1)/3+1),
			weekday:     d.In(time.UTC).Weekday(),
			period:      cal.Classify(d),
			relevant:    cal.Relevant(tx.Category),
			inPre:       cal.Pre.Contains(d),
			inCampaign:  cal.Campaign.Contains(d),
		}
	}
	return e, nil
}

// Load reads both tables from src and builds an engine over them.
func Load(ctx context.Context, src dataset.Source, cal campaign.Calendar) (*Engine, error) {
	txns, customers, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return New(txns, customers, cal)
}

// Calendar returns the calendar the engine was built with.
func (e *Engine) Calendar() campaign.Calendar {
	cal := e.cal
	cal.RelevantCategories = append([]domain.Category(nil), e.cal.RelevantCategories...)
	return cal
}

// Len returns the number of transactions.
func (e *Engine) Len() int {
	return len(e.records)
}

// CustomerCount returns the number of customer records.
func (e *Engine) CustomerCount() int {
	return len(e.customers)
}

// Transactions returns a copy of the transaction records in load order.
func (e *Engine) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, len(e.records))
	for i, r := range e.records {
		out[i] = r.Transaction
	}
	return out
}

// Customers returns a copy of the customer records.
func (e *Engine) Customers() []domain.Customer {
	return append([]domain.Customer(nil), e.customers...)
}

// campaignComparison sums relevant spend inside the pre and campaign
// windows for the records accepted by keep.
func (e *Engine) campaignComparison(keep func(r *record) bool) (pre, during decimal.Decimal) {
	for i := range e.records {
		r := &e.records[i]
		if !r.relevant || (keep != nil && !keep(r)) {
			continue
		}
		switch {
		case r.inPre:
			pre = pre.Add(r.Amount)
		case r.inCampaign:
			during = during.Add(r.Amount)
		}
	}
	return pre, during
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func mean(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n)))
}
