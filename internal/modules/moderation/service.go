package moderation

import (
	"context"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/logger"
)

// Service moves reviews through Visible -> Reported -> Visible|Hidden.
// Every transition is a single conditional row update, so concurrent
// requests on the same review cannot both succeed.
type Service struct {
	reviews     ReviewRepository
	classes     ClassRepository
	invalidator Invalidator
	publisher   Publisher
}

// NewService builds the service. invalidator and publisher may be nil.
func NewService(reviews ReviewRepository, classes ClassRepository, invalidator Invalidator, publisher Publisher) *Service {
	return &Service{
		reviews:     reviews,
		classes:     classes,
		invalidator: invalidator,
		publisher:   publisher,
	}
}

// ReportReview flags a visible review for moderation. Reviews that are
// already reported or hidden are left alone.
func (s *Service) ReportReview(ctx context.Context, reviewID string) error {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if rv.State() != domain.StateVisible {
		return nil
	}

	moved, err := s.reviews.Transition(ctx, reviewID, domain.StateVisible, domain.StateReported)
	if err != nil {
		return err
	}
	if !moved {
		return nil
	}

	s.afterTransition(ctx, EventReviewReported, rv, domain.StateReported)
	return nil
}

// ResolveReport applies an admin's decision to a reported review and
// returns the review in its new state.
func (s *Service) ResolveReport(ctx context.Context, actor *domain.Student, reviewID string, outcome domain.Outcome) (*domain.Review, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	if outcome != domain.OutcomeKeep && outcome != domain.OutcomeHide {
		return nil, ErrInvalidOutcome
	}

	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	to, err := rv.State().Resolve(outcome)
	if err != nil {
		return nil, ErrNotReported
	}

	moved, err := s.reviews.Transition(ctx, reviewID, domain.StateReported, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		// resolved by someone else in the meantime
		return nil, ErrNotReported
	}

	rv.Visible, rv.Reported = to.Flags()
	s.refreshClassRatings(ctx, rv.ClassID)
	s.afterTransition(ctx, EventReportResolved, rv, to)
	return rv, nil
}

// ListReported returns the moderation queue.
func (s *Service) ListReported(ctx context.Context, actor *domain.Student) ([]domain.Review, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRequired
	}
	out, err := s.reviews.ListReported(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

// refreshClassRatings recomputes the class averages from its public reviews.
// The state change is already stored, so failures are only logged.
func (s *Service) refreshClassRatings(ctx context.Context, classID string) {
	log := logger.FromContext(ctx)

	avg, err := s.reviews.AveragesForClass(ctx, classID)
	if err != nil {
		log.Warn("class ratings not recomputed", "class_id", classID, "error", err.Error())
		return
	}
	if err := s.classes.UpdateRatings(ctx, classID, avg.Quality, avg.Difficulty); err != nil {
		log.Warn("class ratings not stored", "class_id", classID, "error", err.Error())
	}
}

func (s *Service) afterTransition(ctx context.Context, eventType string, rv *domain.Review, to domain.ReviewState) {
	transitions.WithLabelValues(string(to)).Inc()

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Error("stats cache invalidation failed", "error", err.Error())
		}
	}

	logger.FromContext(ctx).Info("review state changed",
		"review_id", rv.ID,
		"class_id", rv.ClassID,
		"state", string(to),
	)

	if s.publisher != nil {
		s.publisher.Publish(Event{
			Type:     eventType,
			ReviewID: rv.ID,
			ClassID:  rv.ClassID,
			State:    to,
		})
	}
}
