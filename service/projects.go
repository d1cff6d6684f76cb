package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"devmasters/models"
	"devmasters/query"
	"devmasters/store"
	"devmasters/validation"
)

// ProjectService validates writes before handing them to the store.
type ProjectService struct {
	store store.Store
	log   *zap.Logger
}

func NewProjectService(s store.Store, log *zap.Logger) *ProjectService {
	return &ProjectService{store: s, log: log.Named("projects")}
}

func (s *ProjectService) List(ctx context.Context, p query.Params) (query.Result, error) {
	return s.store.List(ctx, p)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (models.Project, error) {
	return s.store.Get(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput) (models.Project, error) {
	titles, err := s.snapshot(ctx)
	if err != nil {
		return models.Project{}, err
	}

	changes, err := validation.Create(in, titles)
	if err != nil {
		return models.Project{}, err
	}

	p, err := s.store.Create(ctx, changes)
	if err != nil {
		return models.Project{}, err
	}
	s.log.Info("project created", zap.Uint("id", p.ID), zap.String("title", p.Title))
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, in models.ProjectInput) (models.Project, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return models.Project{}, err
	}

	titles, err := s.snapshot(ctx)
	if err != nil {
		return models.Project{}, err
	}

	changes, err := validation.Update(in, titles, current)
	if err != nil {
		return models.Project{}, err
	}

	p, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return models.Project{}, err
	}
	s.log.Info("project updated", zap.Uint("id", p.ID))
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("project deleted", zap.Uint("id", id))
	return nil
}

func (s *ProjectService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ProjectService) snapshot(ctx context.Context) (validation.TitleSnapshot, error) {
	titles, err := s.store.Titles(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot titles: %w", err)
	}
	return validation.NewTitleSnapshot(titles), nil
}
