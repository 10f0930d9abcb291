// Package repository persists application records.
package repository

import (
	"context"
	"errors"

	"github.com/Lllllllleong/applicationtracker/internal/models"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("application not found")

// Firestore field paths accepted by Update.
const (
	FieldCompany         = "company"
	FieldPosition        = "position"
	FieldApplicationDate = "applicationDate"
	FieldStatus          = "status"
	FieldLastUpdate      = "lastUpdate"
	FieldNotes           = "notes"
	FieldFollowUpDate    = "followUpDate"
)

// Field is a single partial update.
type Field struct {
	Path  string
	Value any
}

// Repository is the document store holding application records.
type Repository interface {
	// List returns every record ordered by application date, newest first.
	List(ctx context.Context) ([]models.Application, error)
	Get(ctx context.Context, id string) (*models.Application, error)
	// Create stores app and returns the assigned ID. app.ID is ignored.
	Create(ctx context.Context, app models.Application) (string, error)
	Update(ctx context.Context, id string, fields []Field) error
	Delete(ctx context.Context, id string) error
	FindByEmailID(ctx context.Context, emailID string) ([]models.Application, error)
}
