package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory. It backs local runs
// without a Firestore project and the service tests.
type MemoryRepository struct {
	mu   sync.Mutex
	apps map[string]models.Application
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{apps: make(map[string]models.Application)}
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := make([]models.Application, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, clone(app))
	}
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].ApplicationDate.Equal(apps[j].ApplicationDate) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].ApplicationDate.After(apps[j].ApplicationDate)
	})
	return apps, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return nil, ErrNotFound
	}
	app = clone(app)
	return &app, nil
}

func (r *MemoryRepository) Create(ctx context.Context, app models.Application) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app.ID = uuid.NewString()
	r.apps[app.ID] = clone(app)
	return app.ID, nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, fields []Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.apps[id]
	if !ok {
		return ErrNotFound
	}
	for _, f := range fields {
		if err := apply(&app, f); err != nil {
			return err
		}
	}
	r.apps[id] = app
	return nil
}

// Delete removes the record. Deleting a missing record is not an error, as in Firestore.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.apps, id)
	return nil
}

func (r *MemoryRepository) FindByEmailID(ctx context.Context, emailID string) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var apps []models.Application
	for _, app := range r.apps {
		if app.EmailID == emailID {
			apps = append(apps, clone(app))
		}
	}
	return apps, nil
}

func clone(app models.Application) models.Application {
	if app.FollowUpDate != nil {
		t := *app.FollowUpDate
		app.FollowUpDate = &t
	}
	return app
}

func apply(app *models.Application, f Field) error {
	var ok bool
	switch f.Path {
	case FieldCompany:
		app.Company, ok = f.Value.(string)
	case FieldPosition:
		app.Position, ok = f.Value.(string)
	case FieldNotes:
		app.Notes, ok = f.Value.(string)
	case FieldApplicationDate:
		app.ApplicationDate, ok = f.Value.(time.Time)
	case FieldLastUpdate:
		app.LastUpdate, ok = f.Value.(time.Time)
	case FieldFollowUpDate:
		var t time.Time
		if t, ok = f.Value.(time.Time); ok {
			app.FollowUpDate = &t
		}
	case FieldStatus:
		switch v := f.Value.(type) {
		case models.Status:
			app.Status, ok = v, true
		case string:
			app.Status, ok = models.Status(v), true
		}
	default:
		return fmt.Errorf("unsupported update path %q", f.Path)
	}
	if !ok {
		return fmt.Errorf("invalid value %T for update path %q", f.Value, f.Path)
	}
	return nil
}
