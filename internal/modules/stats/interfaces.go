package stats

import (
	"context"

	"coursereviews/internal/domain"
	"coursereviews/internal/repository"
)

type ReviewRepository interface {
	Count(ctx context.Context, scope domain.Scope) (int64, error)
	CountByClass(ctx context.Context, scope domain.Scope) ([]repository.ClassCount, error)
	ListVisibleByClass(ctx context.Context, classID string) ([]domain.Review, error)
}

type ClassRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Class, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Class, error)
}

type SubjectRepository interface {
	FindByShorts(ctx context.Context, shorts []string) (map[string]domain.Subject, error)
}

// Cache is optional; a nil Cache computes every aggregate directly.
// Get returns the key a miss must be filled under; an empty key means the
// result is not stored.
type Cache interface {
	Get(ctx context.Context, name string, dst any) (key string, hit bool, err error)
	Set(ctx context.Context, key string, v any) error
}
