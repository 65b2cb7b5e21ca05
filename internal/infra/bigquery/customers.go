package bigquery

import (
	"context"
	"fmt"

	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
	"google.golang.org/api/iterator"
)

// insertBatchSize bounds a single streaming insert request.
const insertBatchSize = 500

var customerColumns = []string{
	"customer_id",
	"name",
	"email",
	"region",
	"customer_segment",
	"member_since",
	"credit_limit",
	"loaded_ts",
}

// InsertCustomers streams rows into the customers table.
func (r *Repository) InsertCustomers(ctx context.Context, rows []*bq.CustomerRow) error {
	if len(rows) == 0 {
		return nil
	}
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		if err := r.table(customersTable).Inserter().Put(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("InsertCustomers: inserting rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

// ListCustomers reads every customer ordered by customer_id.
func (r *Repository) ListCustomers(ctx context.Context) ([]*bq.CustomerRow, error) {
	q := r.client.Query(selectAll(r.projectID, r.datasetID, customersTable, customerColumns, "customer_id"))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCustomers: query read: %w", err)
	}

	var rows []*bq.CustomerRow
	for {
		var row bq.CustomerRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCustomers: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}
