package bigquery

import (
	"context"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/shopspring/decimal"
)

// DatasetRepository provides an interface for the warehouse tables the
// analytics engine is loaded from.
type DatasetRepository interface {
	// ListTransactions retrieves every transaction ordered by transaction_id.
	ListTransactions(ctx context.Context) ([]*TransactionRow, error)

	// ListCustomers retrieves every customer ordered by customer_id.
	ListCustomers(ctx context.Context) ([]*CustomerRow, error)

	// InsertTransactions inserts a batch of TransactionRow.
	InsertTransactions(ctx context.Context, rows []*TransactionRow) error

	// InsertCustomers inserts a batch of CustomerRow.
	InsertCustomers(ctx context.Context, rows []*CustomerRow) error
}

// TransactionRow represents a transaction record in BigQuery.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	CustomerID    string `bigquery:"customer_id"`    // REQUIRED

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED DATE

	Category string   `bigquery:"category"` // REQUIRED
	Amount   *big.Rat `bigquery:"amount"`   // REQUIRED NUMERIC

	MerchantName bigquery.NullString `bigquery:"merchant_name"` // NULLABLE

	Region          string `bigquery:"region"`           // REQUIRED
	CustomerSegment string `bigquery:"customer_segment"` // REQUIRED

	LoadedTS time.Time `bigquery:"loaded_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

// CustomerRow represents a customer record in BigQuery.
type CustomerRow struct {
	CustomerID string `bigquery:"customer_id"` // REQUIRED

	Name  bigquery.NullString `bigquery:"name"`  // NULLABLE
	Email bigquery.NullString `bigquery:"email"` // NULLABLE

	Region          string `bigquery:"region"`           // REQUIRED
	CustomerSegment string `bigquery:"customer_segment"` // REQUIRED

	MemberSince bigquery.NullDate `bigquery:"member_since"` // NULLABLE
	CreditLimit *big.Rat          `bigquery:"credit_limit"` // NULLABLE NUMERIC

	LoadedTS time.Time `bigquery:"loaded_ts"`
}

// NewTransactionRow converts a domain transaction into its warehouse row.
func NewTransactionRow(tx domain.Transaction, loaded time.Time) *TransactionRow {
	return &TransactionRow{
		TransactionID:   tx.TransactionID,
		CustomerID:      tx.CustomerID,
		TransactionDate: tx.Date,
		Category:        string(tx.Category),
		Amount:          tx.Amount.Rat(),
		MerchantName:    bigquery.NullString{StringVal: tx.Merchant, Valid: tx.Merchant != ""},
		Region:          string(tx.Region),
		CustomerSegment: string(tx.Segment),
		LoadedTS:        loaded,
	}
}

// NewCustomerRow converts a domain customer into its warehouse row.
func NewCustomerRow(c domain.Customer, loaded time.Time) *CustomerRow {
	row := &CustomerRow{
		CustomerID:      c.CustomerID,
		Name:            bigquery.NullString{StringVal: c.Name, Valid: c.Name != ""},
		Email:           bigquery.NullString{StringVal: c.Email, Valid: c.Email != ""},
		Region:          string(c.Region),
		CustomerSegment: string(c.Segment),
		MemberSince:     bigquery.NullDate{Date: c.MemberSince, Valid: c.MemberSince.IsValid()},
		LoadedTS:        loaded,
	}
	if !c.CreditLimit.IsZero() {
		row.CreditLimit = c.CreditLimit.Rat()
	}
	return row
}

// FormatNumeric renders a NUMERIC value in plain decimal notation, or ""
// for NULL.
func FormatNumeric(r *big.Rat) string {
	if r == nil {
		return ""
	}
	d, err := decimal.NewFromString(r.FloatString(9))
	if err != nil {
		return r.FloatString(2)
	}
	return d.String()
}
