package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/status"
	"github.com/google/uuid"
)

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 1000

// Store is an in-memory status.Store safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	checks map[string]status.StatusCheck
	now    func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		checks: make(map[string]status.StatusCheck),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create implements status.Store.
func (s *Store) Create(ctx context.Context, clientName string) (status.StatusCheck, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return status.StatusCheck{}, fmt.Errorf("Create: %w", status.ErrEmptyClientName)
	}

	check := status.StatusCheck{
		ID:         uuid.New().String(),
		ClientName: clientName,
		Timestamp:  s.now(),
	}

	s.mu.Lock()
	s.checks[check.ID] = check
	s.mu.Unlock()

	return check, nil
}

// List implements status.Store.
func (s *Store) List(ctx context.Context, limit int) ([]status.StatusCheck, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	result := make([]status.StatusCheck, 0, len(s.checks))
	for _, c := range s.checks {
		result = append(result, c)
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].ID < result[j].ID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Get implements status.Store.
func (s *Store) Get(ctx context.Context, id string) (status.StatusCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.checks[id]
	if !ok {
		return status.StatusCheck{}, fmt.Errorf("Get %s: %w", id, status.ErrNotFound)
	}
	return c, nil
}

var _ status.Store = (*Store)(nil)
