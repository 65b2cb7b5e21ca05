package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	bq "github.com/dvloznov/card-campaign-analytics/internal/bigquery"
	"github.com/dvloznov/card-campaign-analytics/internal/dataset"
	"github.com/dvloznov/card-campaign-analytics/internal/domain"
	"github.com/dvloznov/card-campaign-analytics/internal/gcs"
	"github.com/dvloznov/card-campaign-analytics/internal/gcsuploader"
	infraBQ "github.com/dvloznov/card-campaign-analytics/internal/infra/bigquery"
	"github.com/dvloznov/card-campaign-analytics/internal/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type uploadCmd struct {
	dataDir   string
	target    string
	bucket    string
	prefix    string
	bqProject string
	bqDataset string
	logLevel  string
}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "publish a local dataset to Cloud Storage or BigQuery" }
func (*uploadCmd) Usage() string {
	return `cli upload -target gcs -bucket <bucket> [-prefix <path>] [-data-dir <dir>]
cli upload -target bigquery -bq-project <project> [-bq-dataset <dataset>] [-data-dir <dir>]

  Validates the local CSV files, then uploads them as-is to a bucket or
  streams them into the BigQuery transactions and customers tables.
`
}

func (c *uploadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dataDir, "data-dir", "data", "Directory holding transactions.csv and customers.csv")
	f.StringVar(&c.target, "target", "gcs", "Upload target: gcs or bigquery")
	f.StringVar(&c.bucket, "bucket", os.Getenv("GCS_BUCKET"), "GCS bucket (or set GCS_BUCKET)")
	f.StringVar(&c.prefix, "prefix", "datasets", "Object name prefix in the bucket")
	f.StringVar(&c.bqProject, "bq-project", os.Getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT)")
	f.StringVar(&c.bqDataset, "bq-dataset", "card_analytics", "BigQuery dataset ID")
	f.StringVar(&c.logLevel, "log-level", "info", "Log level")
}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	log := logger.NewWithLevel(c.logLevel)

	// Load fully so nothing invalid is published.
	src := dataset.FileSource{Dir: c.dataDir}
	txns, customers, err := dataset.Load(ctx, src)
	if err == nil {
		err = dataset.ValidateTransactions(txns)
	}
	if err == nil {
		err = dataset.ValidateCustomers(customers)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	switch c.target {
	case "gcs":
		if c.bucket == "" {
			fmt.Fprintln(os.Stderr, "Error: -bucket is required for the gcs target")
			return subcommands.ExitUsageError
		}
		uris, err := publishToGCS(ctx, gcsuploader.NewGCSStorageService(), c.bucket, c.prefix, c.dataDir, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, uri := range uris {
			fmt.Println(uri)
		}
	case "bigquery":
		repo, err := infraBQ.NewDatasetRepository(ctx, c.bqProject, c.bqDataset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		defer repo.Close()
		if err := publishToBigQuery(ctx, repo, txns, customers, time.Now().UTC(), log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown target %q\n", c.target)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

// publishToGCS uploads the two CSV files under prefix and returns their
// gs:// URIs.
func publishToGCS(ctx context.Context, storage gcs.StorageService, bucket, prefix, dir string, log zerolog.Logger) ([]string, error) {
	var uris []string
	for _, name := range []string{dataset.TransactionsFile, dataset.CustomersFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("publishToGCS: reading %s: %w", name, err)
		}

		object := path.Join(prefix, name)
		if err := storage.UploadBytes(ctx, bucket, object, "text/csv", data); err != nil {
			return nil, fmt.Errorf("publishToGCS: uploading %s: %w", name, err)
		}
		uri := gcs.URI(bucket, object)
		log.Info().Str("gcs_uri", uri).Int("bytes", len(data)).Msg("Uploaded")
		uris = append(uris, uri)
	}
	return uris, nil
}

// publishToBigQuery streams customers, then transactions, into the
// warehouse tables.
func publishToBigQuery(ctx context.Context, repo bq.DatasetRepository, txns []domain.Transaction, customers []domain.Customer, loaded time.Time, log zerolog.Logger) error {
	customerRows := make([]*bq.CustomerRow, 0, len(customers))
	for _, c := range customers {
		customerRows = append(customerRows, bq.NewCustomerRow(c, loaded))
	}
	if err := repo.InsertCustomers(ctx, customerRows); err != nil {
		return fmt.Errorf("publishToBigQuery: %w", err)
	}

	txRows := make([]*bq.TransactionRow, 0, len(txns))
	for _, tx := range txns {
		txRows = append(txRows, bq.NewTransactionRow(tx, loaded))
	}
	if err := repo.InsertTransactions(ctx, txRows); err != nil {
		return fmt.Errorf("publishToBigQuery: %w", err)
	}

	log.Info().Int("customers", len(customerRows)).Int("transactions", len(txRows)).Msg("Published to BigQuery")
	return nil
}
