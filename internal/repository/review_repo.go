package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/apperr"
)

var ErrReviewNotFound = fmt.Errorf("review %w", apperr.ErrNotFound)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ClassCount is the number of reviews attached to one class.
type ClassCount struct {
	ClassID string `gorm:"column:class_id"`
	Total   int64  `gorm:"column:total"`
}

// RatingAverages holds the averages of a class's public reviews.
type RatingAverages struct {
	Quality    *float64 `gorm:"column:quality"`
	Difficulty *float64 `gorm:"column:difficulty"`
	Count      int64    `gorm:"column:count"`
}

func (r *ReviewRepository) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if scope == domain.ScopePublic {
		visible, reported := domain.StateVisible.Flags()
		q = q.Where("visible = ? AND reported = ?", visible, reported)
	}
	return q
}

func (r *ReviewRepository) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	var total int64
	if err := r.scoped(ctx, scope).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count reviews: %w", err)
	}
	return total, nil
}

// CountByClass groups in-scope reviews by class, ordered by the date of each
// class's earliest review so equal counts keep first-seen order.
func (r *ReviewRepository) CountByClass(ctx context.Context, scope domain.Scope) ([]ClassCount, error) {
	var rows []ClassCount
	err := r.scoped(ctx, scope).
		Select("class_id, COUNT(*) AS total").
		Group("class_id").
		Order("MIN(date) ASC, class_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count reviews by class: %w", err)
	}
	return rows, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

// ListVisibleByClass returns the public reviews of a class, most liked first.
func (r *ReviewRepository) ListVisibleByClass(ctx context.Context, classID string) ([]domain.Review, error) {
	var out []domain.Review
	err := r.scoped(ctx, domain.ScopePublic).
		Where("class_id = ?", classID).
		Order("likes DESC, date DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list class reviews: %w", err)
	}
	return out, nil
}

func (r *ReviewRepository) ListReported(ctx context.Context) ([]domain.Review, error) {
	var out []domain.Review
	err := r.db.WithContext(ctx).
		Where("reported = ?", true).
		Order("date ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list reported reviews: %w", err)
	}
	return out, nil
}

// Transition moves a review from one state to another with a single
// conditional update. It reports false when the review was not in `from`.
func (r *ReviewRepository) Transition(ctx context.Context, id string, from, to domain.ReviewState) (bool, error) {
	fromVisible, fromReported := from.Flags()
	toVisible, toReported := to.Flags()

	q := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Where("id = ? AND reported = ?", id, fromReported)
	if from != domain.StateReported {
		q = q.Where("visible = ?", fromVisible)
	}

	tx := q.Updates(map[string]any{
		"visible":  toVisible,
		"reported": toReported,
	})
	if tx.Error != nil {
		return false, fmt.Errorf("update review state: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *ReviewRepository) AveragesForClass(ctx context.Context, classID string) (*RatingAverages, error) {
	var avg RatingAverages
	err := r.scoped(ctx, domain.ScopePublic).
		Select("CAST(AVG(quality) AS DOUBLE PRECISION) AS quality, CAST(AVG(difficulty) AS DOUBLE PRECISION) AS difficulty, COUNT(*) AS count").
		Where("class_id = ?", classID).
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("average class ratings: %w", err)
	}
	return &avg, nil
}
