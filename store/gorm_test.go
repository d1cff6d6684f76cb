package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devmasters/database"
	"devmasters/models"
	"devmasters/query"
)

func newGorm(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.OpenDialector(sqlite.Open(dsn), zap.NewNop())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewGormStore(db)
}

func TestGormStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	s := newGorm(t)

	c := changes("Alpha", models.PriorityTwo, models.StatusInProgress)
	c.Description = ptr("")
	created, err := s.Create(ctx, c)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title)
	assert.Equal(t, models.PriorityTwo, got.Priority)
	assert.Equal(t, models.StatusInProgress, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, "", *got.Description)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	_, err = s.Get(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_DuplicateTitle(t *testing.T) {
	ctx := context.Background()
	s := newGorm(t)

	a, err := s.Create(ctx, changes("Alpha", 1, models.StatusPlanned))
	require.NoError(t, err)
	b, err := s.Create(ctx, changes("Bravo", 1, models.StatusPlanned))
	require.NoError(t, err)

	_, err = s.Create(ctx, changes("Alpha", 3, models.StatusDone))
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Update(ctx, b.ID, models.ProjectChanges{Title: ptr("Alpha")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Update(ctx, a.ID, models.ProjectChanges{Title: ptr("Alpha")})
	assert.NoError(t, err)

	titles, err := s.Titles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Alpha", "Bravo"}, titles)
}

func TestGormStore_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	s := newGorm(t)

	c := changes("Alpha", models.PriorityOne, models.StatusPlanned)
	c.Description = ptr("keep me")
	created, err := s.Create(ctx, c)
	require.NoError(t, err)

	updated, err := s.Update(ctx, created.ID, models.ProjectChanges{Status: ptr(models.StatusCancelled)})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title)
	assert.Equal(t, "keep me", *got.Description)
	assert.Equal(t, models.PriorityOne, got.Priority)
	assert.Equal(t, models.StatusCancelled, got.Status)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	updated, err = s.Update(ctx, created.ID, models.ProjectChanges{ClearDescription: true})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	_, err = s.Update(ctx, 999, models.ProjectChanges{Status: ptr(models.StatusDone)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newGorm(t)

	created, err := s.Create(ctx, changes("Alpha", 1, models.StatusPlanned))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))
	assert.ErrorIs(t, s.Delete(ctx, created.ID), ErrNotFound)

	_, err = s.Create(ctx, changes("Alpha", 1, models.StatusPlanned))
	assert.NoError(t, err, "title is free after a hard delete")
}

func TestGormStore_List(t *testing.T) {
	ctx := context.Background()
	s := newGorm(t)

	prios := []models.Priority{1, 2, 1, 3, 2}
	for i, p := range prios {
		status := models.StatusPlanned
		if i == 2 {
			status = models.StatusDone
		}
		c := changes(fmt.Sprintf("Project %d", i+1), p, status)
		if i == 4 {
			c.Description = ptr("50% done_ish")
		}
		_, err := s.Create(ctx, c)
		require.NoError(t, err)
	}

	listIDs := func(p query.Params) ([]uint, int) {
		res, err := s.List(ctx, p)
		require.NoError(t, err)
		out := make([]uint, 0, len(res.Items))
		for _, it := range res.Items {
			out = append(out, it.ID)
		}
		return out, res.Total
	}

	p := query.DefaultParams(query.DefaultLimits)
	p.Status = ptr(models.StatusPlanned)
	p.OrderBy = query.OrderByPriority
	got, total := listIDs(p)
	assert.Equal(t, []uint{1, 2, 5, 4}, got)
	assert.Equal(t, 4, total)

	p = query.DefaultParams(query.DefaultLimits)
	p.OrderBy = query.OrderByPriority
	p.Direction = query.Desc
	got, _ = listIDs(p)
	assert.Equal(t, []uint{4, 2, 5, 1, 3}, got)

	p.Skip, p.Limit = 1, 2
	got, total = listIDs(p)
	assert.Equal(t, []uint{2, 5}, got)
	assert.Equal(t, 5, total)

	p.Skip, p.Limit = 10, 2
	got, total = listIDs(p)
	assert.Empty(t, got)
	assert.Equal(t, 5, total)

	p = query.DefaultParams(query.DefaultLimits)
	p.Limit = 0
	got, total = listIDs(p)
	assert.Empty(t, got)
	assert.Equal(t, 5, total)

	p = query.DefaultParams(query.DefaultLimits)
	p.Search = "50%"
	got, _ = listIDs(p)
	assert.Equal(t, []uint{5}, got)

	p.Search = "project 3"
	got, _ = listIDs(p)
	assert.Equal(t, []uint{3}, got)
}

func TestGormStore_Ping(t *testing.T) {
	assert.NoError(t, newGorm(t).Ping(context.Background()))
}

func TestGormStore_SearchFoldsASCIIOnlyOnSQLite(t *testing.T) {
	ctx := context.Background()
	gs := newGorm(t)
	ms := NewMemoryStore()

	for _, s := range []Store{gs, ms} {
		_, err := s.Create(ctx, changes("PROJETO CONCLUÍDO", models.PriorityOne, models.StatusDone))
		require.NoError(t, err)
	}

	search := func(s Store, term string) int {
		p := query.DefaultParams(query.DefaultLimits)
		p.Search = term
		res, err := s.List(ctx, p)
		require.NoError(t, err)
		return res.Total
	}

	assert.Equal(t, 1, search(gs, "projeto"))
	assert.Equal(t, 1, search(ms, "projeto"))

	// SQLite's LOWER leaves non-ASCII letters untouched.
	assert.Equal(t, 0, search(gs, "concluído"))
	assert.Equal(t, 1, search(ms, "concluído"))
}
