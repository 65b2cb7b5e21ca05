// Package bigquery is the BigQuery implementation of the warehouse
// repository the analytics dataset is loaded from and published to.
package bigquery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
)

const (
	transactionsTable = "transactions"
	customersTable    = "customers"
)

// DatasetRepository is re-exported from the shared package.
type DatasetRepository = bq.DatasetRepository

// Repository reads and writes the transactions and customers tables of one
// dataset. It holds a shared client for all operations.
type Repository struct {
	client    *bigquery.Client
	projectID string
	datasetID string
}

// NewDatasetRepository creates a repository for projectID.datasetID.
func NewDatasetRepository(ctx context.Context, projectID, datasetID string) (*Repository, error) {
	if projectID == "" || datasetID == "" {
		return nil, errors.New("NewDatasetRepository: project and dataset are required")
	}
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewDatasetRepository: creating client: %w", err)
	}
	return &Repository{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
	}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// table returns a handle on one of the dataset's tables.
func (r *Repository) table(name string) *bigquery.Table {
	return r.client.DatasetInProject(r.projectID, r.datasetID).Table(name)
}

// selectAll builds a full-table read ordered by orderBy.
func selectAll(projectID, datasetID, table string, columns []string, orderBy string) string {
	return fmt.Sprintf("SELECT %s FROM `%s.%s.%s` ORDER BY %s",
		strings.Join(columns, ", "), projectID, datasetID, table, orderBy)
}

var _ DatasetRepository = (*Repository)(nil)
