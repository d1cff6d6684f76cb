package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"devmasters/models"
	"devmasters/query"
)

// GormStore persists projects through gorm. The unique index on title is
// the authoritative uniqueness check; the in-transaction lookup only turns
// the common case into a clean conflict before the insert is attempted.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) filtered(ctx context.Context, p query.Params) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Project{})
	if p.Status != nil {
		q = q.Where("status = ?", *p.Status)
	}
	if p.Priority != nil {
		q = q.Where("priority = ?", *p.Priority)
	}
	if p.Search != "" {
		like := "%" + escapeLike(strings.ToLower(p.Search)) + "%"
		q = q.Where("(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '\\')", like, like)
	}
	return q
}

func (s *GormStore) List(ctx context.Context, p query.Params) (query.Result, error) {
	res := query.Result{Skip: p.Skip, Limit: p.Limit, Items: []models.Project{}}

	var total int64
	if err := s.filtered(ctx, p).Count(&total).Error; err != nil {
		return query.Result{}, fmt.Errorf("count projects: %w", err)
	}
	res.Total = int(total)

	if p.Limit <= 0 || p.Skip >= res.Total {
		return res, nil
	}

	q := s.filtered(ctx, p).Order(clause.OrderByColumn{
		Column: clause.Column{Name: p.OrderBy.Column()},
		Desc:   p.Direction == query.Desc,
	})
	if p.OrderBy != query.OrderByID {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	if err := q.Offset(p.Skip).Limit(p.Limit).Find(&res.Items).Error; err != nil {
		return query.Result{}, fmt.Errorf("list projects: %w", err)
	}
	return res, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return models.Project{}, notFound(err, id)
	}
	return p, nil
}

func (s *GormStore) Titles(ctx context.Context) ([]string, error) {
	var titles []string
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Pluck("title", &titles).Error; err != nil {
		return nil, fmt.Errorf("load titles: %w", err)
	}
	return titles, nil
}

func (s *GormStore) Create(ctx context.Context, c models.ProjectChanges) (models.Project, error) {
	p, err := newProject(c, Timestamp(s.db.NowFunc()))
	if err != nil {
		return models.Project{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := titleFree(tx, p.Title, 0); err != nil {
			return err
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return models.Project{}, conflict(err, p.Title)
	}
	return p, nil
}

func (s *GormStore) Update(ctx context.Context, id uint, c models.ProjectChanges) (models.Project, error) {
	var p models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return notFound(err, id)
		}
		if c.Empty() {
			return nil
		}
		if c.Title != nil {
			if err := titleFree(tx, *c.Title, id); err != nil {
				return err
			}
		}
		c.Apply(&p)
		return tx.Save(&p).Error
	})
	if err != nil {
		return models.Project{}, conflict(err, p.Title)
	}
	return p, nil
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete project %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func titleFree(tx *gorm.DB, title string, self uint) error {
	var n int64
	q := tx.Model(&models.Project{}).Where("title = ?", title)
	if self != 0 {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %q", ErrConflict, title)
	}
	return nil
}

func notFound(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return err
}

// conflict maps a unique index violation raised by the database to
// ErrConflict. It requires gorm.Config.TranslateError.
func conflict(err error, title string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %q", ErrConflict, title)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
