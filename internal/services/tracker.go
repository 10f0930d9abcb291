package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
)

// FollowUpNote replaces a record's notes when a follow-up is acknowledged.
const FollowUpNote = "Follow-up sent"

// Tracker implements the user-facing record operations.
type Tracker struct {
	repo    repository.Repository
	sweeper *Sweeper
	now     func() time.Time
}

func NewTracker(repo repository.Repository, sweeper *Sweeper) *Tracker {
	return &Tracker{repo: repo, sweeper: sweeper, now: time.Now}
}

// List returns all records, newest application first, after ghosting stale ones.
func (t *Tracker) List(ctx context.Context) ([]models.Application, error) {
	apps, err := t.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return t.sweeper.Sweep(ctx, apps)
}

func (t *Tracker) Get(ctx context.Context, id string) (*models.Application, error) {
	return t.repo.Get(ctx, id)
}

func (t *Tracker) Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	status := req.Status
	if status == "" {
		status = models.StatusApplied
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := t.now()
	app := models.Application{
		Company:         req.Company,
		Position:        req.Position,
		ApplicationDate: req.ApplicationDate.Time,
		Status:          status,
		Notes:           req.Notes,
		LastUpdate:      now,
		CreatedAt:       now,
	}
	if app.ApplicationDate.IsZero() {
		app.ApplicationDate = now
	}

	id, err := t.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = id
	slog.Info("Application created.", "applicationId", id, "company", app.Company)
	return &app, nil
}

// Update applies the non-nil fields of req and refreshes lastUpdate. Any status
// may be set regardless of the current one.
func (t *Tracker) Update(ctx context.Context, id string, req *models.UpdateApplicationRequest) error {
	var fields []repository.Field
	if req.Status != nil {
		if !req.Status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		fields = append(fields, repository.Field{Path: repository.FieldStatus, Value: *req.Status})
	}
	if req.Notes != nil {
		fields = append(fields, repository.Field{Path: repository.FieldNotes, Value: *req.Notes})
	}
	if req.Company != nil {
		fields = append(fields, repository.Field{Path: repository.FieldCompany, Value: *req.Company})
	}
	if req.Position != nil {
		fields = append(fields, repository.Field{Path: repository.FieldPosition, Value: *req.Position})
	}
	if req.ApplicationDate != nil && !req.ApplicationDate.IsZero() {
		fields = append(fields, repository.Field{Path: repository.FieldApplicationDate, Value: req.ApplicationDate.Time})
	}
	fields = append(fields, repository.Field{Path: repository.FieldLastUpdate, Value: t.now()})

	return t.repo.Update(ctx, id, fields)
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Application deleted.", "applicationId", id)
	return nil
}

// MarkFollowedUp records that the user chased the application. It always moves
// the record to waiting and overwrites its notes, whatever the prior status.
func (t *Tracker) MarkFollowedUp(ctx context.Context, id string) error {
	now := t.now()
	return t.repo.Update(ctx, id, []repository.Field{
		{Path: repository.FieldStatus, Value: models.StatusWaiting},
		{Path: repository.FieldFollowUpDate, Value: now},
		{Path: repository.FieldLastUpdate, Value: now},
		{Path: repository.FieldNotes, Value: FollowUpNote},
	})
}

// Stats summarises the swept record set.
func (t *Tracker) Stats(ctx context.Context) (*models.StatsResponse, error) {
	apps, err := t.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.StatsResponse{
		Total:    len(apps),
		ByStatus: make(map[models.Status]int, len(models.Statuses)),
	}
	for _, s := range models.Statuses {
		stats.ByStatus[s] = 0
	}
	for _, app := range apps {
		stats.ByStatus[app.Status]++
	}
	stats.Active = stats.ByStatus[models.StatusApplied] + stats.ByStatus[models.StatusWaiting] + stats.ByStatus[models.StatusInterview]
	stats.Offers = stats.ByStatus[models.StatusOffer]
	stats.Rejections = stats.ByStatus[models.StatusRejected]
	if stats.Total > 0 {
		answered := stats.Total - stats.ByStatus[models.StatusGhosted]
		stats.ResponseRate = int(math.Round(float64(answered) / float64(stats.Total) * 100))
	}
	return stats, nil
}
