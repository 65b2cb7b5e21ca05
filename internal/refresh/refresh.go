// Package refresh reloads the dataset from its source and republishes the
// analytics engine, on demand, from the job queue or on a schedule.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/analytics"
	"github.com/dvloznov/card-campaign-analytics/internal/campaign"
	"github.com/dvloznov/card-campaign-analytics/internal/dataset"
	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// ErrInvalidInterval is returned by Schedule for a non-positive interval.
var ErrInvalidInterval = errors.New("refresh interval must be positive")

// Refresher builds engines from a source and publishes them in a holder.
type Refresher struct {
	src    dataset.Source
	cal    campaign.Calendar
	holder *analytics.Holder
	log    zerolog.Logger

	// mu serializes refreshes so an older load never replaces a newer one.
	mu sync.Mutex

	// Publisher, when set, makes Schedule enqueue refresh jobs instead of
	// refreshing inline, so scheduled runs are recorded like API ones.
	Publisher jobs.Publisher
}

// New creates a Refresher.
func New(src dataset.Source, cal campaign.Calendar, holder *analytics.Holder, log zerolog.Logger) *Refresher {
	return &Refresher{
		src:    src,
		cal:    cal,
		holder: holder,
		log:    log.With().Str("source", src.Name()).Logger(),
	}
}

// SourceName names the source refreshes read from.
func (r *Refresher) SourceName() string {
	return r.src.Name()
}

// Refresh loads the dataset, builds a new engine and publishes it. On any
// failure the previously published engine, if any, stays in place.
func (r *Refresher) Refresh(ctx context.Context) (*analytics.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	engine, err := analytics.Load(ctx, r.src, r.cal)
	if err != nil {
		var loadErr *dataset.DataLoadError
		if errors.As(err, &loadErr) {
			r.log.Error().Err(err).Str("table", loadErr.Table).Int("row", loadErr.Row).Msg("dataset rejected")
		}
		return nil, fmt.Errorf("Refresh: %w", err)
	}

	r.holder.Swap(engine)
	r.log.Info().
		Int("transactions", engine.Len()).
		Int("customers", engine.CustomerCount()).
		Dur("duration", time.Since(start)).
		Msg("analytics engine published")
	return engine, nil
}

// Handle adapts Refresh to jobs.JobHandler, recording the published counts
// on the job.
func (r *Refresher) Handle(ctx context.Context, job *jobs.RefreshJob) error {
	engine, err := r.Refresh(ctx)
	if err != nil {
		return err
	}
	job.Transactions = engine.Len()
	job.Customers = engine.CustomerCount()
	return nil
}

// Schedule refreshes every interval until ctx is done. The first run starts
// immediately.
func (r *Refresher) Schedule(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(interval).Do(func() {
		r.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("Schedule: %w", err)
	}

	r.log.Info().Dur("interval", interval).Msg("refresh scheduler started")
	scheduler.StartAsync()

	<-ctx.Done()

	scheduler.Stop()
	r.log.Info().Msg("refresh scheduler stopped")
	return nil
}

func (r *Refresher) runScheduled(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if r.Publisher != nil {
		job := &jobs.RefreshJob{Source: r.src.Name(), Trigger: jobs.TriggerSchedule}
		if err := r.Publisher.PublishRefresh(ctx, job); err != nil {
			r.log.Error().Err(err).Msg("failed to enqueue scheduled refresh")
		}
		return
	}
	if _, err := r.Refresh(ctx); err != nil {
		r.log.Error().Err(err).Msg("scheduled refresh failed")
	}
}
