package bigquery

import (
	"context"
	"fmt"

	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
	"google.golang.org/api/iterator"
)

var transactionColumns = []string{
	"transaction_id",
	"customer_id",
	"transaction_date",
	"category",
	"amount",
	"merchant_name",
	"region",
	"customer_segment",
	"loaded_ts",
}

// InsertTransactions streams rows into the transactions table.
func (r *Repository) InsertTransactions(ctx context.Context, rows []*bq.TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if err := r.table(transactionsTable).Inserter().Put(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("InsertTransactions: inserting rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// ListTransactions reads every transaction ordered by transaction_id.
func (r *Repository) ListTransactions(ctx context.Context) ([]*bq.TransactionRow, error) {
	q := r.client.Query(selectAll(r.projectID, r.datasetID, transactionsTable, transactionColumns, "transaction_id"))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var rows []*bq.TransactionRow
	for {
		var row bq.TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
