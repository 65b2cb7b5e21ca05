package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

const (
	sqlTransactionsQuery = `SELECT transaction_id, customer_id, transaction_date, category, amount,
	merchant_name, region, customer_segment
FROM transactions
ORDER BY transaction_id`

	sqlCustomersQuery = `SELECT customer_id, name, email, region, member_since, credit_limit, customer_segment
FROM customers
ORDER BY customer_id`
)

// SQLSource reads the tables from a MySQL or PostgreSQL warehouse opened
// with infra/sqldb.
type SQLSource struct {
	DB     *sql.DB
	Driver string
}

// Name identifies the source by driver, e.g. "sql:mysql".
func (s SQLSource) Name() string {
	return "sql:" + s.Driver
}

// Transactions reads the transactions table ordered by transaction_id.
func (s SQLSource) Transactions(ctx context.Context) (Table, error) {
	return s.query(ctx, TransactionsTable, sqlTransactionsQuery)
}

// Customers reads the customers table ordered by customer_id.
func (s SQLSource) Customers(ctx context.Context) (Table, error) {
	return s.query(ctx, CustomersTable, sqlCustomersQuery)
}

func (s SQLSource) query(ctx context.Context, table, query string) (Table, error) {
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "query", Err: err}
	}
	defer rows.Close()

	t, err := scanTable(rows)
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "scan", Err: err}
	}
	return t, nil
}

// scanTable drains rows into a Table, rendering every value as text.
func scanTable(rows *sql.Rows) (Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("columns: %w", err)
	}
	t := Table{Columns: cols}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return Table{}, fmt.Errorf("row %d: %w", len(t.Rows)+1, err)
		}
		rec := make([]string, len(cols))
		for i, v := range values {
			rec[i] = sqlText(v)
		}
		t.Rows = append(t.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate: %w", err)
	}
	return t, nil
}

// sqlText renders a driver value. DATE columns arrive as time.Time from
// lib/pq (and from go-sql-driver/mysql with parseTime) and as bytes
// otherwise.
func sqlText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(DateLayout)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
