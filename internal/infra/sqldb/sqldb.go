// Package sqldb opens the MySQL or PostgreSQL pool the SQL dataset source
// reads from.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Supported driver names.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const pingTimeout = 5 * time.Second

// Open opens a pool for driver and verifies it with a ping.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	dsn, err := normalizeDSN(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Open: opening %s connection: %w", driver, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open: %s ping failed: %w", driver, err)
	}

	return db, nil
}

// normalizeDSN validates dsn for driver. MySQL DSNs get parseTime so DATE
// columns scan as time.Time.
func normalizeDSN(driver, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty %s DSN", driver)
	}
	switch driver {
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parsing mysql DSN: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case DriverPostgres:
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}
