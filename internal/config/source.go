package config

import (
	"context"
	"fmt"

	"github.com/dvloznov/card-campaign-analytics/internal/dataset"
	"github.com/dvloznov/card-campaign-analytics/internal/gcsuploader"
	infraBQ "github.com/dvloznov/card-campaign-analytics/internal/infra/bigquery"
	"github.com/dvloznov/card-campaign-analytics/internal/infra/sqldb"
)

// OpenSource builds the dataset source s selects. The returned close
// function releases any client or pool the source holds.
func OpenSource(ctx context.Context, s Source) (dataset.Source, func() error, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	noop := func() error { return nil }

	switch s.Kind {
	case SourceGCS:
		return dataset.GCSSource{
			Storage:         gcsuploader.NewGCSStorageService(),
			TransactionsURI: s.GCSTransactions,
			CustomersURI:    s.GCSCustomers,
		}, noop, nil
	case SourceBigQuery:
		repo, err := infraBQ.NewDatasetRepository(ctx, s.BQProject, s.BQDataset)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenSource: %w", err)
		}
		return dataset.BigQuerySource{Repo: repo}, repo.Close, nil
	case SourceMySQL, SourcePostgres:
		db, err := sqldb.Open(ctx, s.Kind, s.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenSource: %w", err)
		}
		return dataset.SQLSource{DB: db, Driver: s.Kind}, db.Close, nil
	default:
		return dataset.FileSource{Dir: s.DataDir}, noop, nil
	}
}
