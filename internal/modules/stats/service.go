package stats

import (
	"context"
	"fmt"
	"sort"

	"coursereviews/internal/domain"
	"coursereviews/internal/pkg/logger"
)

// Service computes read-only statistics over reviews, classes and subjects.
// Every operation applies the same scope predicate to the reviews it counts.
type Service struct {
	reviews  ReviewRepository
	classes  ClassRepository
	subjects SubjectRepository
	cache    Cache
}

func NewService(reviews ReviewRepository, classes ClassRepository, subjects SubjectRepository, cache Cache) *Service {
	return &Service{reviews: reviews, classes: classes, subjects: subjects, cache: cache}
}

// TotalReviews counts every review in scope.
func (s *Service) TotalReviews(ctx context.Context, scope domain.Scope) (int64, error) {
	return cached(ctx, s, "totalReviews:"+string(scope), func() (int64, error) {
		return s.reviews.Count(ctx, scope)
	})
}

// ReviewsPerClass counts reviews per "subject number" class key.
func (s *Service) ReviewsPerClass(ctx context.Context, scope domain.Scope) ([]KeyCount, error) {
	return cached(ctx, s, "reviewsPerClass:"+string(scope), func() ([]KeyCount, error) {
		groups, err := s.resolvedClassCounts(ctx, scope)
		if err != nil {
			return nil, err
		}
		out := make([]KeyCount, 0, len(groups))
		for _, g := range groups {
			out = append(out, KeyCount{ID: g.class.Key(), Total: g.total})
		}
		return out, nil
	})
}

// ClassesPerSubject counts, per subject code, the classes with at least one
// review in scope. The totals therefore sum to the number of reviewed
// classes, not to TotalReviews: the reference data set has 4 reviews over 3
// classes and expects {cs: 2, math: 1}. Review counts per subject are what
// TopSubjects reports.
func (s *Service) ClassesPerSubject(ctx context.Context, scope domain.Scope) ([]KeyCount, error) {
	return cached(ctx, s, "classesPerSubject:"+string(scope), func() ([]KeyCount, error) {
		groups, err := s.resolvedClassCounts(ctx, scope)
		if err != nil {
			return nil, err
		}
		var out []KeyCount
		index := make(map[string]int)
		for _, g := range groups {
			i, ok := index[g.class.Sub]
			if !ok {
				i = len(out)
				index[g.class.Sub] = i
				out = append(out, KeyCount{ID: g.class.Sub})
			}
			out[i].Total++
		}
		if out == nil {
			out = []KeyCount{}
		}
		return out, nil
	})
}

// TopSubjects ranks subjects by review count, labelled with their full name.
// Ties keep first-seen order. limit <= 0 returns every subject.
func (s *Service) TopSubjects(ctx context.Context, scope domain.Scope, limit int) ([]SubjectCount, error) {
	name := fmt.Sprintf("topSubjects:%s:%d", scope, limit)
	return cached(ctx, s, name, func() ([]SubjectCount, error) {
		groups, err := s.resolvedClassCounts(ctx, scope)
		if err != nil {
			return nil, err
		}

		var codes []string
		totals := make(map[string]int64)
		for _, g := range groups {
			if _, ok := totals[g.class.Sub]; !ok {
				codes = append(codes, g.class.Sub)
			}
			totals[g.class.Sub] += g.total
		}

		subjects, err := s.subjects.FindByShorts(ctx, codes)
		if err != nil {
			return nil, err
		}

		out := make([]SubjectCount, 0, len(codes))
		for _, code := range codes {
			label := code
			if sub, ok := subjects[code]; ok && sub.Full != "" {
				label = sub.Full
			} else {
				logger.FromContext(ctx).Debug("subject missing, using code as label", "subject", code)
			}
			out = append(out, SubjectCount{Name: label, Count: totals[code]})
		}

		sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return out, nil
	})
}

// ClassReviews lists the public reviews of a class, most liked first.
func (s *Service) ClassReviews(ctx context.Context, classID string) ([]domain.Review, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	out, err := s.reviews.ListVisibleByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Review{}
	}
	return out, nil
}

type classGroup struct {
	class domain.Class
	total int64
}

// resolvedClassCounts joins per-class review counts with their classes.
// Reviews pointing at a class that no longer exists are dropped.
func (s *Service) resolvedClassCounts(ctx context.Context, scope domain.Scope) ([]classGroup, error) {
	counts, err := s.reviews.CountByClass(ctx, scope)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.ClassID)
	}
	classes, err := s.classes.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]classGroup, 0, len(counts))
	for _, c := range counts {
		class, ok := classes[c.ClassID]
		if !ok {
			logger.FromContext(ctx).Debug("reviews reference missing class", "class_id", c.ClassID, "reviews", c.Total)
			continue
		}
		out = append(out, classGroup{class: class, total: c.Total})
	}
	return out, nil
}

func cached[T any](ctx context.Context, s *Service, name string, compute func() (T, error)) (T, error) {
	if s.cache == nil {
		return compute()
	}

	log := logger.FromContext(ctx)
	var hit T
	key, ok, err := s.cache.Get(ctx, name, &hit)
	if err != nil {
		log.Warn("stats cache read failed", "key", name, "error", err.Error())
	}
	if ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return hit, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	v, err := compute()
	if err != nil || key == "" {
		return v, err
	}
	// key belongs to the generation seen before compute; an invalidation in
	// between retires it, so a stale v is never served
	if err := s.cache.Set(ctx, key, v); err != nil {
		log.Warn("stats cache write failed", "key", key, "error", err.Error())
	}
	return v, nil
}
