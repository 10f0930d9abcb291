package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Lllllllleong/applicationtracker/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreRepository stores records as documents in a single collection.
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreRepository(client *firestore.Client, collection string) *FirestoreRepository {
	return &FirestoreRepository{client: client, collection: collection}
}

func (r *FirestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *FirestoreRepository) List(ctx context.Context) ([]models.Application, error) {
	it := r.col().OrderBy(FieldApplicationDate, firestore.Desc).Documents(ctx)
	apps, err := collect(it)
	if err != nil {
		return nil, err
	}
	// Firestore orders string dates apart from timestamps.
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].ApplicationDate.After(apps[j].ApplicationDate)
	})
	return apps, nil
}

func (r *FirestoreRepository) Get(ctx context.Context, id string) (*models.Application, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application %s: %w", id, err)
	}
	app, err := decode(snap)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *FirestoreRepository) Create(ctx context.Context, app models.Application) (string, error) {
	docRef, _, err := r.col().Add(ctx, app)
	if err != nil {
		return "", fmt.Errorf("failed to create application: %w", err)
	}
	return docRef.ID, nil
}

func (r *FirestoreRepository) Update(ctx context.Context, id string, fields []Field) error {
	updates := make([]firestore.Update, 0, len(fields))
	for _, f := range fields {
		updates = append(updates, firestore.Update{Path: f.Path, Value: f.Value})
	}
	if _, err := r.col().Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update application %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete application %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepository) FindByEmailID(ctx context.Context, emailID string) ([]models.Application, error) {
	it := r.col().Where("emailId", "==", emailID).Documents(ctx)
	return collect(it)
}

// collect drains it. Documents that cannot be decoded are logged and skipped
// so one bad record does not hide the rest.
func collect(it *firestore.DocumentIterator) ([]models.Application, error) {
	defer it.Stop()

	var apps []models.Application
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate applications: %w", err)
		}
		app, err := decode(snap)
		if err != nil {
			slog.Warn("Skipping undecodable application document", "applicationId", snap.Ref.ID, "error", err)
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// decode reads a document, falling back to fromFields for records whose
// timestamps were stored as ISO strings.
func decode(snap *firestore.DocumentSnapshot) (models.Application, error) {
	var app models.Application
	if err := snap.DataTo(&app); err != nil {
		legacy, lerr := fromFields(snap.Data())
		if lerr != nil {
			return app, fmt.Errorf("failed to decode application %s: %w", snap.Ref.ID, errors.Join(err, lerr))
		}
		app = legacy
	}
	app.ID = snap.Ref.ID
	return app, nil
}

// fromFields builds an application from raw document fields, accepting
// either Firestore timestamps or RFC 3339 / YYYY-MM-DD strings for dates.
func fromFields(data map[string]any) (models.Application, error) {
	var app models.Application
	var err error
	str := func(key string) string {
		if s, ok := data[key].(string); ok {
			return s
		}
		return ""
	}
	app.Company = str(FieldCompany)
	app.Position = str(FieldPosition)
	app.Status = models.Status(str(FieldStatus))
	app.Notes = str(FieldNotes)
	app.EmailID = str("emailId")
	if !app.Status.Valid() {
		return app, fmt.Errorf("unknown status %q", app.Status)
	}

	if app.ApplicationDate, err = timeField(data, FieldApplicationDate); err != nil {
		return app, err
	}
	if app.LastUpdate, err = timeField(data, FieldLastUpdate); err != nil {
		return app, err
	}
	if app.CreatedAt, err = timeField(data, "createdAt"); err != nil {
		return app, err
	}
	followUp, err := timeField(data, FieldFollowUpDate)
	if err != nil {
		return app, err
	}
	if !followUp.IsZero() {
		app.FollowUpDate = &followUp
	}
	return app, nil
}

func timeField(data map[string]any, key string) (time.Time, error) {
	switch v := data[key].(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse(models.DateLayout, v); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("field %s: unparseable time %q", key, v)
	default:
		return time.Time{}, fmt.Errorf("field %s: unexpected type %T", key, v)
	}
}
