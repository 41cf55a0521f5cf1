package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/apperr"
)

var ErrClassNotFound = fmt.Errorf("class %w", apperr.ErrNotFound)

type ClassRepository struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

func (r *ClassRepository) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	var c domain.Class
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

// FindByIDs returns the classes that exist among ids, keyed by id.
func (r *ClassRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Class, error) {
	out := make(map[string]domain.Class, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []domain.Class
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find classes: %w", err)
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}

func (r *ClassRepository) Create(ctx context.Context, c *domain.Class) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// UpdateRatings stores recomputed averages; nil clears a metric.
func (r *ClassRepository) UpdateRatings(ctx context.Context, id string, rating, difficulty *float64) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Class{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"class_rating":     rating,
			"class_difficulty": difficulty,
		})
	if tx.Error != nil {
		return fmt.Errorf("update class ratings: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrClassNotFound
	}
	return nil
}
