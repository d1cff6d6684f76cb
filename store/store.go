// Package store persists projects. Implementations must enforce title
// uniqueness atomically with the write; validation upstream is only an
// early rejection.
package store

import (
	"context"
	"errors"
	"time"

	"devmasters/models"
	"devmasters/query"
)

var (
	ErrNotFound = errors.New("project not found")
	ErrConflict = errors.New("project title already exists")
)

var errIncomplete = errors.New("create requires title, priority and status")

type Store interface {
	List(ctx context.Context, p query.Params) (query.Result, error)
	Get(ctx context.Context, id uint) (models.Project, error)
	Titles(ctx context.Context) ([]string, error)
	Create(ctx context.Context, c models.ProjectChanges) (models.Project, error)
	Update(ctx context.Context, id uint, c models.ProjectChanges) (models.Project, error)
	Delete(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
}

// Timestamp truncates to microseconds so values survive a round trip
// through PostgreSQL unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func newProject(c models.ProjectChanges, now time.Time) (models.Project, error) {
	if c.Title == nil || c.Priority == nil || c.Status == nil {
		return models.Project{}, errIncomplete
	}
	p := models.Project{CreatedAt: now, UpdatedAt: now}
	c.Apply(&p)
	return p, nil
}
