package dataset

import (
	"context"
	"fmt"

	"github.com/dvloznov/card-campaign-analytics/internal/domain"
)

// Source provides the two input tables. Implementations read local files,
// Cloud Storage objects, BigQuery tables or a SQL warehouse.
type Source interface {
	// Name identifies the source in logs and job records.
	Name() string

	// Transactions returns the transactions table.
	Transactions(ctx context.Context) (Table, error)

	// Customers returns the customers table.
	Customers(ctx context.Context) (Table, error)
}

// Load reads and decodes both tables from src. Records are not validated;
// analytics.New does that when the engine is built.
func Load(ctx context.Context, src Source) ([]domain.Transaction, []domain.Customer, error) {
	txTable, err := src.Transactions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("Load: %s transactions: %w", src.Name(), err)
	}
	txns, err := DecodeTransactions(txTable)
	if err != nil {
		return nil, nil, fmt.Errorf("Load: %s: %w", src.Name(), err)
	}

	custTable, err := src.Customers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("Load: %s customers: %w", src.Name(), err)
	}
	customers, err := DecodeCustomers(custTable)
	if err != nil {
		return nil, nil, fmt.Errorf("Load: %s: %w", src.Name(), err)
	}

	return txns, customers, nil
}
