package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/card-campaign-analytics/internal/jobs"
)

func TestStore_SaveAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	started := time.Date(2024, time.October, 1, 9, 0, 0, 0, time.UTC)
	job := &jobs.RefreshJob{JobID: "j1", Source: "file:data", Status: jobs.JobStatusRunning, StartedAt: &started}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	// Mutating the caller's job must not leak into the store.
	job.Status = jobs.JobStatusFailed
	*job.StartedAt = started.Add(time.Hour)

	got, err := s.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.Status != jobs.JobStatusRunning || !got.StartedAt.Equal(started) {
		t.Errorf("stored job changed through caller pointer: %+v", got)
	}

	got.Status = jobs.JobStatusCompleted
	again, _ := s.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusRunning {
		t.Error("GetJob must return a copy")
	}
}

func TestStore_Errors(t *testing.T) {
	s := NewStore()
	if err := s.SaveJob(context.Background(), &jobs.RefreshJob{}); err == nil {
		t.Error("SaveJob without ID should fail")
	}
	if _, err := s.GetJob(context.Background(), "missing"); !errors.Is(err, jobs.ErrJobNotFound) {
		t.Errorf("GetJob() error = %v, want ErrJobNotFound", err)
	}
}

func TestStore_ListJobs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)
	for i, st := range []jobs.JobStatus{jobs.JobStatusCompleted, jobs.JobStatusFailed, jobs.JobStatusCompleted, jobs.JobStatusPending} {
		job := &jobs.RefreshJob{
			JobID:     string(rune('a' + i)),
			Source:    "file:data",
			Status:    st,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if i == 3 {
			job.Source = "bigquery"
		}
		if err := s.SaveJob(ctx, job); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name   string
		filter jobs.JobFilter
		want   []string
	}{
		{"all newest first", jobs.JobFilter{}, []string{"d", "c", "b", "a"}},
		{"by status", jobs.JobFilter{Status: jobs.JobStatusCompleted}, []string{"c", "a"}},
		{"by source", jobs.JobFilter{Source: "bigquery"}, []string{"d"}},
		{"limit", jobs.JobFilter{Limit: 2}, []string{"d", "c"}},
		{"offset", jobs.JobFilter{Offset: 3}, []string{"a"}},
		{"offset past end", jobs.JobFilter{Offset: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d jobs, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].JobID != id {
					t.Errorf("job %d = %s, want %s", i, got[i].JobID, id)
				}
			}
		})
	}
}
