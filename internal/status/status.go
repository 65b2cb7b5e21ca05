// Package status records client status checks, a liveness ledger that
// callers write to and read back through the API.
package status

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a status check does not exist.
var ErrNotFound = errors.New("status check not found")

// ErrEmptyClientName is returned by Create for a blank client name.
var ErrEmptyClientName = errors.New("client_name is required")

// StatusCheck is one recorded check.
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists status checks.
type Store interface {
	// Create records a check for clientName and returns it.
	Create(ctx context.Context, clientName string) (StatusCheck, error)
	// List returns up to limit checks, oldest first. limit <= 0 means the
	// store's default cap.
	List(ctx context.Context, limit int) ([]StatusCheck, error)
	// Get returns a single check by ID.
	Get(ctx context.Context, id string) (StatusCheck, error)
}
