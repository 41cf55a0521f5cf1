package moderation

import (
	"context"

	"coursereviews/internal/domain"
	"coursereviews/internal/repository"
)

type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	Transition(ctx context.Context, id string, from, to domain.ReviewState) (bool, error)
	ListReported(ctx context.Context) ([]domain.Review, error)
	AveragesForClass(ctx context.Context, classID string) (*repository.RatingAverages, error)
}

type ClassRepository interface {
	UpdateRatings(ctx context.Context, id string, rating, difficulty *float64) error
}

// Invalidator drops cached aggregates after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Publisher fans moderation events out to subscribers.
type Publisher interface {
	Publish(ev Event)
}
