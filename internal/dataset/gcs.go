package dataset

import (
	"bytes"
	"context"

	"github.com/dvloznov/card-campaign-analytics/internal/gcs"
)

// GCSSource reads the two CSV objects from Cloud Storage.
type GCSSource struct {
	Storage         gcs.StorageService
	TransactionsURI string
	CustomersURI    string
}

func (s GCSSource) Name() string {
	return "gcs:" + s.TransactionsURI
}

func (s GCSSource) Transactions(ctx context.Context) (Table, error) {
	return s.fetch(ctx, TransactionsTable, s.TransactionsURI)
}

func (s GCSSource) Customers(ctx context.Context) (Table, error) {
	return s.fetch(ctx, CustomersTable, s.CustomersURI)
}

func (s GCSSource) fetch(ctx context.Context, table, uri string) (Table, error) {
	data, err := s.Storage.FetchFromGCS(ctx, uri)
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "fetch " + uri, Err: err}
	}
	t, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return Table{}, &DataLoadError{Table: table, Reason: "read " + s.Storage.ExtractFilenameFromGCSURI(uri), Err: err}
	}
	return t, nil
}
