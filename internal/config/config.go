// Package config holds the settings shared by the binaries: command-line
// flags with environment fallbacks, and the dataset source they select.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source kinds accepted by -data-source.
const (
	SourceFile     = "file"
	SourceGCS      = "gcs"
	SourceBigQuery = "bigquery"
	SourceMySQL    = "mysql"
	SourcePostgres = "postgres"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source selects where the dataset is loaded from.
type Source struct {
	Kind            string
	DataDir         string
	GCSTransactions string
	GCSCustomers    string
	BQProject       string
	BQDataset       string
	SQLDSN          string
}

// Server is the API binary's configuration.
type Server struct {
	Port            string
	CORSOrigins     []string
	RefreshInterval time.Duration
	LogLevel        string
	Source          Source
}

// Getenv looks up environment variables; tests replace it.
type Getenv func(key string) string

func envOr(getenv Getenv, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// RegisterSourceFlags binds the source flags to fs, defaulting from the
// environment.
func RegisterSourceFlags(fs *flag.FlagSet, getenv Getenv, s *Source) {
	fs.StringVar(&s.Kind, "data-source", envOr(getenv, "DATA_SOURCE", SourceFile), "Dataset source: file, gcs, bigquery, mysql or postgres (or set DATA_SOURCE)")
	fs.StringVar(&s.DataDir, "data-dir", envOr(getenv, "DATA_DIR", "data"), "Directory holding transactions.csv and customers.csv (or set DATA_DIR)")
	fs.StringVar(&s.GCSTransactions, "gcs-transactions", getenv("GCS_TRANSACTIONS_URI"), "gs:// URI of the transactions CSV (or set GCS_TRANSACTIONS_URI)")
	fs.StringVar(&s.GCSCustomers, "gcs-customers", getenv("GCS_CUSTOMERS_URI"), "gs:// URI of the customers CSV (or set GCS_CUSTOMERS_URI)")
	fs.StringVar(&s.BQProject, "bq-project", getenv("BQ_PROJECT"), "BigQuery project ID (or set BQ_PROJECT)")
	fs.StringVar(&s.BQDataset, "bq-dataset", envOr(getenv, "BQ_DATASET", "card_analytics"), "BigQuery dataset ID (or set BQ_DATASET)")
	fs.StringVar(&s.SQLDSN, "sql-dsn", getenv("SQL_DSN"), "MySQL or PostgreSQL DSN (or set SQL_DSN)")
}

// ParseServer parses the API binary's flags from args.
func ParseServer(fs *flag.FlagSet, args []string, getenv Getenv) (Server, error) {
	var (
		cfg      Server
		origins  string
		interval string
	)
	fs.StringVar(&cfg.Port, "port", envOr(getenv, "PORT", "8080"), "HTTP server port (or set PORT)")
	fs.StringVar(&origins, "cors-origins", envOr(getenv, "CORS_ORIGINS", "*"), "Comma-separated allowed origins (or set CORS_ORIGINS)")
	fs.StringVar(&interval, "refresh-interval", envOr(getenv, "REFRESH_INTERVAL", "0"), "Periodic refresh interval, 0 disables (or set REFRESH_INTERVAL)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr(getenv, "LOG_LEVEL", "info"), "Log level (or set LOG_LEVEL)")
	RegisterSourceFlags(fs, getenv, &cfg.Source)

	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	d, err := parseInterval(interval)
	if err != nil {
		return Server{}, fmt.Errorf("%w: refresh-interval: %v", ErrInvalidConfig, err)
	}
	cfg.RefreshInterval = d
	cfg.CORSOrigins = splitList(origins)

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// parseInterval accepts a Go duration or a bare number of seconds.
func parseInterval(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "0" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative interval %q", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative interval %q", v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the server settings and its source.
func (c Server) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: port %q is not a number", ErrInvalidConfig, c.Port)
	}
	return c.Source.Validate()
}

// Validate checks that the settings the selected source needs are present.
func (s Source) Validate() error {
	switch s.Kind {
	case SourceFile:
		if s.DataDir == "" {
			return fmt.Errorf("%w: data-dir is required for the file source", ErrInvalidConfig)
		}
	case SourceGCS:
		if !strings.HasPrefix(s.GCSTransactions, "gs://") || !strings.HasPrefix(s.GCSCustomers, "gs://") {
			return fmt.Errorf("%w: gcs source needs gs:// URIs for transactions and customers", ErrInvalidConfig)
		}
	case SourceBigQuery:
		if s.BQProject == "" || s.BQDataset == "" {
			return fmt.Errorf("%w: bigquery source needs bq-project and bq-dataset", ErrInvalidConfig)
		}
	case SourceMySQL, SourcePostgres:
		if s.SQLDSN == "" {
			return fmt.Errorf("%w: %s source needs sql-dsn", ErrInvalidConfig, s.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown data source %q", ErrInvalidConfig, s.Kind)
	}
	return nil
}

// OSGetenv reads the process environment.
var OSGetenv Getenv = os.Getenv
