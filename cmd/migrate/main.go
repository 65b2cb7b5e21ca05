// Command migrate applies the numbered BigQuery migrations in
// migrations/bigquery and records them in a schema_migrations table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/card-campaign-analytics/internal/logger"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
)

type config struct {
	projectID     string
	datasetID     string
	appliedBy     string
	migrationsDir string
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var cfg config
	flag.StringVar(&cfg.projectID, "project", os.Getenv("BQ_PROJECT"), "GCP project ID (or set BQ_PROJECT)")
	flag.StringVar(&cfg.datasetID, "dataset", envOr("BQ_DATASET", "card_analytics"), "BigQuery dataset ID (or set BQ_DATASET)")
	flag.StringVar(&cfg.appliedBy, "applied-by", "migrate-cli", "Name of the tool applying migrations")
	flag.StringVar(&cfg.migrationsDir, "migrations", "migrations/bigquery", "Path to migrations directory")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level")
	flag.Parse()

	log := logger.NewWithLevel(*logLevel)

	if cfg.projectID == "" {
		log.Fatal().Msg("-project flag is required. Please specify your GCP project ID.")
	}

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

func run(ctx context.Context, cfg config, log zerolog.Logger) error {
	dir, err := findMigrationsDir(cfg.migrationsDir)
	if err != nil {
		return err
	}

	client, err := bigquery.NewClient(ctx, cfg.projectID)
	if err != nil {
		return fmt.Errorf("creating BigQuery client: %w", err)
	}
	defer client.Close()

	log.Info().Str("project", cfg.projectID).Str("dataset", cfg.datasetID).Msg("Connected to BigQuery")

	if err := runDDL(ctx, client, ensureDatasetSQL(cfg)); err != nil {
		return fmt.Errorf("ensuring dataset: %w", err)
	}
	if err := runDDL(ctx, client, schemaMigrationsSQL(cfg)); err != nil {
		return fmt.Errorf("ensuring schema_migrations table: %w", err)
	}

	migrations, skipped, err := readMigrations(dir, cfg.projectID, cfg.datasetID)
	if err != nil {
		return err
	}
	for _, name := range skipped {
		log.Warn().Str("file", name).Msg("Skipping file with invalid format")
	}
	log.Info().Int("count", len(migrations)).Msg("Found migration files")

	applied, err := getAppliedMigrations(ctx, client, cfg)
	if err != nil {
		return err
	}

	pending, changed := plan(migrations, applied)
	for _, m := range changed {
		log.Warn().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration has changed on disk")
	}

	for _, m := range pending {
		mlog := log.With().Int("version", m.Version).Str("name", m.Name).Logger()
		mlog.Info().Msg("Applying migration")

		if err := runDDL(ctx, client, m.SQL); err != nil {
			return fmt.Errorf("executing migration %04d_%s: %w", m.Version, m.Name, err)
		}
		if err := recordMigration(ctx, client, cfg, m); err != nil {
			return fmt.Errorf("recording migration %04d_%s: %w", m.Version, m.Name, err)
		}

		mlog.Info().Msg("Migration applied")
	}

	if len(pending) == 0 {
		log.Info().Msg("No new migrations to apply. Dataset is up to date.")
	} else {
		log.Info().Int("applied", len(pending)).Msg("Migrations applied")
	}
	return nil
}

func ensureDatasetSQL(cfg config) string {
	return fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS `%s.%s`", cfg.projectID, cfg.datasetID)
}

func schemaMigrationsSQL(cfg config) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.schema_migrations`"+` (
			version       INT64 NOT NULL,
			name          STRING NOT NULL,
			applied_at    TIMESTAMP NOT NULL,
			checksum      STRING,
			applied_by    STRING
		)
	`, cfg.projectID, cfg.datasetID)
}

// runDDL runs a statement and waits for its job to finish.
func runDDL(ctx context.Context, client *bigquery.Client, sql string) error {
	job, err := client.Query(sql).Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}

	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}

	return nil
}

// getAppliedMigrations retrieves the list of already applied migrations
func getAppliedMigrations(ctx context.Context, client *bigquery.Client, cfg config) ([]AppliedMigration, error) {
	sql := fmt.Sprintf(`
		SELECT version, name, applied_at, checksum, applied_by
		FROM `+"`%s.%s.schema_migrations`"+`
		ORDER BY version ASC
	`, cfg.projectID, cfg.datasetID)

	it, err := client.Query(sql).Read(ctx)
	if err != nil {
		// If table doesn't exist yet, return empty list
		if strings.Contains(err.Error(), "Not found") {
			return []AppliedMigration{}, nil
		}
		return nil, fmt.Errorf("reading applied migrations: %w", err)
	}

	var applied []AppliedMigration
	for {
		var row struct {
			Version   int64               `bigquery:"version"`
			Name      string              `bigquery:"name"`
			AppliedAt time.Time           `bigquery:"applied_at"`
			Checksum  bigquery.NullString `bigquery:"checksum"`
			AppliedBy bigquery.NullString `bigquery:"applied_by"`
		}

		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating results: %w", err)
		}

		applied = append(applied, AppliedMigration{
			Version:   int(row.Version),
			Name:      row.Name,
			AppliedAt: row.AppliedAt,
			Checksum:  row.Checksum.StringVal,
			AppliedBy: row.AppliedBy.StringVal,
		})
	}

	return applied, nil
}

// recordMigration records a successfully applied migration in schema_migrations
func recordMigration(ctx context.Context, client *bigquery.Client, cfg config, m Migration) error {
	sql := fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.schema_migrations`"+`
		(version, name, applied_at, checksum, applied_by)
		VALUES (@version, @name, CURRENT_TIMESTAMP(), @checksum, @applied_by)
	`, cfg.projectID, cfg.datasetID)

	q := client.Query(sql)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "version", Value: m.Version},
		{Name: "name", Value: m.Name},
		{Name: "checksum", Value: m.Checksum},
		{Name: "applied_by", Value: cfg.appliedBy},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	return status.Err()
}
