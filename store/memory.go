package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"devmasters/models"
	"devmasters/query"
)

// MemoryStore keeps projects in process memory. The title index is updated
// under the same lock as the record map.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[uint]*models.Project
	titles   map[string]uint
	nextID   uint
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[uint]*models.Project),
		titles:   make(map[string]uint),
		now:      time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) List(ctx context.Context, p query.Params) (query.Result, error) {
	s.mu.RLock()
	items := make([]models.Project, 0, len(s.projects))
	for _, pr := range s.projects {
		items = append(items, pr.Clone())
	}
	s.mu.RUnlock()

	return query.Apply(items, p), nil
}

func (s *MemoryStore) Get(ctx context.Context, id uint) (models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pr, ok := s.projects[id]
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return pr.Clone(), nil
}

func (s *MemoryStore) Titles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.titles))
	for t := range s.titles {
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, c models.ProjectChanges) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := newProject(c, Timestamp(s.now()))
	if err != nil {
		return models.Project{}, err
	}
	if _, taken := s.titles[p.Title]; taken {
		return models.Project{}, fmt.Errorf("%w: %q", ErrConflict, p.Title)
	}

	s.nextID++
	p.ID = s.nextID
	s.projects[p.ID] = &p
	s.titles[p.Title] = p.ID
	return p.Clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id uint, c models.ProjectChanges) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.projects[id]
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if c.Empty() {
		return cur.Clone(), nil
	}
	if c.Title != nil {
		if owner, taken := s.titles[*c.Title]; taken && owner != id {
			return models.Project{}, fmt.Errorf("%w: %q", ErrConflict, *c.Title)
		}
	}

	next := cur.Clone()
	c.Apply(&next)
	next.UpdatedAt = Timestamp(s.now())

	delete(s.titles, cur.Title)
	s.titles[next.Title] = id
	s.projects[id] = &next
	return next.Clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.projects[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.titles, pr.Title)
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
