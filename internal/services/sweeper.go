package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
)

// GhostAfter is how long an application may stay "applied" before it is ghosted.
const GhostAfter = 14 * 24 * time.Hour

// Sweeper moves stale applied records to ghosted.
type Sweeper struct {
	repo repository.Repository
	now  func() time.Time
}

func NewSweeper(repo repository.Repository) *Sweeper {
	return &Sweeper{repo: repo, now: time.Now}
}

// IsStale reports whether app should be ghosted at now.
func IsStale(app models.Application, now time.Time) bool {
	return app.Status == models.StatusApplied && now.Sub(app.ApplicationDate) > GhostAfter
}

// Sweep returns a copy of apps with every stale record ghosted. Each change is
// written back one record at a time before returning; the first failed write
// aborts the sweep.
func (s *Sweeper) Sweep(ctx context.Context, apps []models.Application) ([]models.Application, error) {
	now := s.now()
	out := make([]models.Application, len(apps))
	copy(out, apps)

	for i := range out {
		if !IsStale(out[i], now) {
			continue
		}
		err := s.repo.Update(ctx, out[i].ID, []repository.Field{
			{Path: repository.FieldStatus, Value: models.StatusGhosted},
			{Path: repository.FieldLastUpdate, Value: now},
		})
		if err != nil {
			slog.Error("Failed to ghost stale application", "applicationId", out[i].ID, "error", err)
			return nil, fmt.Errorf("failed to ghost application %s: %w", out[i].ID, err)
		}
		out[i].Status = models.StatusGhosted
		out[i].LastUpdate = now
		slog.Info("Application ghosted.", "applicationId", out[i].ID, "applicationDate", out[i].ApplicationDate)
	}
	return out, nil
}

// SweepAll lists every record and sweeps it, returning how many were ghosted.
func (s *Sweeper) SweepAll(ctx context.Context) (int, error) {
	apps, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list applications: %w", err)
	}
	swept, err := s.Sweep(ctx, apps)
	if err != nil {
		return 0, err
	}
	var ghosted int
	for i := range apps {
		if apps[i].Status != swept[i].Status {
			ghosted++
		}
	}
	return ghosted, nil
}
