package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"coursereviews/internal/domain"
)

type SubjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByShorts returns the subjects whose short code is in shorts, keyed by code.
func (r *SubjectRepository) FindByShorts(ctx context.Context, shorts []string) (map[string]domain.Subject, error) {
	out := make(map[string]domain.Subject, len(shorts))
	if len(shorts) == 0 {
		return out, nil
	}

	var rows []domain.Subject
	if err := r.db.WithContext(ctx).Where("sub_short IN ?", shorts).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find subjects: %w", err)
	}
	for _, s := range rows {
		out[s.Short] = s
	}
	return out, nil
}

func (r *SubjectRepository) Create(ctx context.Context, s *domain.Subject) error {
	return r.db.WithContext(ctx).Create(s).Error
}
