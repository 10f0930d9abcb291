package services

import (
	"context"
	"time"

	"github.com/Lllllllleong/applicationtracker/internal/models"
	"github.com/Lllllllleong/applicationtracker/internal/repository"
)

var testNow = time.Date(2026, 6, 15, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// countingRepo wraps the in-memory store and records writes.
type countingRepo struct {
	*repository.MemoryRepository
	updates    int
	creates    int
	failUpdate error
	failList   error
}

func newCountingRepo() *countingRepo {
	return &countingRepo{MemoryRepository: repository.NewMemoryRepository()}
}

func (r *countingRepo) List(ctx context.Context) ([]models.Application, error) {
	if r.failList != nil {
		return nil, r.failList
	}
	return r.MemoryRepository.List(ctx)
}

func (r *countingRepo) Update(ctx context.Context, id string, fields []repository.Field) error {
	r.updates++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	return r.MemoryRepository.Update(ctx, id, fields)
}

func (r *countingRepo) Create(ctx context.Context, app models.Application) (string, error) {
	r.creates++
	return r.MemoryRepository.Create(ctx, app)
}

func seed(repo repository.Repository, apps ...models.Application) []string {
	ids := make([]string, 0, len(apps))
	for _, app := range apps {
		id, err := repo.Create(context.Background(), app)
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	return ids
}

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}
