package stats

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"coursereviews/internal/cache"
	"coursereviews/internal/database"
	"coursereviews/internal/domain"
	"coursereviews/internal/fixture"
	"coursereviews/internal/pkg/apperr"
	"coursereviews/internal/repository"
)

/* ==================== SQLITE-BACKED ==================== */

func seededService(t *testing.T, c Cache) (*Service, *gorm.DB) {
	t.Helper()
	db := database.NewTestDB(t)
	require.NoError(t, fixture.Load(context.Background(), db))
	svc := NewService(
		repository.NewReviewRepository(db),
		repository.NewClassRepository(db),
		repository.NewSubjectRepository(db),
		c,
	)
	return svc, db
}

func TestFixtureScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t, nil)

	total, err := svc.TotalReviews(ctx, domain.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	perClass, err := svc.ReviewsPerClass(ctx, domain.ScopeAll)
	require.NoError(t, err)
	assert.ElementsMatch(t, []KeyCount{
		{ID: "cs 2110", Total: 2},
		{ID: "cs 2112", Total: 1},
		{ID: "math 3110", Total: 1},
	}, perClass)

	perSubject, err := svc.ClassesPerSubject(ctx, domain.ScopeAll)
	require.NoError(t, err)
	assert.ElementsMatch(t, []KeyCount{{ID: "cs", Total: 2}, {ID: "math", Total: 1}}, perSubject)

	top, err := svc.TopSubjects(ctx, domain.ScopeAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []SubjectCount{{Name: "Computer Science", Count: 3}, {Name: "Mathematics", Count: 1}}, top)
}

func TestTotalReviews_AllScopeIgnoresFlags(t *testing.T) {
	ctx := context.Background()
	svc, db := seededService(t, nil)
	reviews := repository.NewReviewRepository(db)

	_, err := reviews.Transition(ctx, fixture.ReviewCS2112, domain.StateVisible, domain.StateReported)
	require.NoError(t, err)
	_, err = reviews.Transition(ctx, fixture.ReviewMath3110, domain.StateVisible, domain.StateHidden)
	require.NoError(t, err)

	all, err := svc.TotalReviews(ctx, domain.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all)

	public, err := svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(2), public)

	top, err := svc.TopSubjects(ctx, domain.ScopePublic, 0)
	require.NoError(t, err)
	assert.Equal(t, []SubjectCount{{Name: "Computer Science", Count: 2}}, top)
}

// Regrouping the per-class keys by subject gives the per-subject output.
// Per-class and per-subject review counts add up to the review total, while
// the per-subject class counts add up to the number of reviewed classes.
func TestGranularitiesAgree(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t, nil)

	for _, scope := range []domain.Scope{domain.ScopeAll, domain.ScopePublic} {
		perClass, err := svc.ReviewsPerClass(ctx, scope)
		require.NoError(t, err)
		perSubject, err := svc.ClassesPerSubject(ctx, scope)
		require.NoError(t, err)
		top, err := svc.TopSubjects(ctx, scope, 0)
		require.NoError(t, err)
		total, err := svc.TotalReviews(ctx, scope)
		require.NoError(t, err)

		regrouped := map[string]int64{}
		var sum, topSum int64
		for _, kc := range perClass {
			sub, _, _ := strings.Cut(kc.ID, " ")
			regrouped[sub]++
			sum += kc.Total
		}
		for _, sc := range top {
			topSum += sc.Count
		}

		got := map[string]int64{}
		var classSum int64
		for _, kc := range perSubject {
			got[kc.ID] = kc.Total
			classSum += kc.Total
		}
		assert.Equal(t, regrouped, got)
		assert.Equal(t, total, sum)
		assert.Equal(t, total, topSum)
		assert.Equal(t, int64(len(perClass)), classSum)
	}
}

func TestClassesPerSubject_CountsClassesNotReviews(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t, nil)

	total, err := svc.TotalReviews(ctx, domain.ScopeAll)
	require.NoError(t, err)
	perSubject, err := svc.ClassesPerSubject(ctx, domain.ScopeAll)
	require.NoError(t, err)

	var sum int64
	for _, kc := range perSubject {
		sum += kc.Total
	}
	assert.Equal(t, int64(3), sum)
	assert.Equal(t, int64(4), total)
	assert.NotEqual(t, total, sum, "cs 2110 has two reviews but counts once")
}

func TestTopSubjects_Limit(t *testing.T) {
	svc, _ := seededService(t, nil)

	top, err := svc.TopSubjects(context.Background(), domain.ScopeAll, 1)

	require.NoError(t, err)
	assert.Equal(t, []SubjectCount{{Name: "Computer Science", Count: 3}}, top)
}

func TestClassReviews(t *testing.T) {
	ctx := context.Background()
	svc, _ := seededService(t, nil)

	out, err := svc.ClassReviews(ctx, fixture.ClassCS2110)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = svc.ClassReviews(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCachedAggregates_InvalidatedOnGeneration(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	statsCache := cache.New(client, time.Minute)

	svc, db := seededService(t, statsCache)

	total, err := svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	_, err = repository.NewReviewRepository(db).Transition(ctx, fixture.ReviewCS2112, domain.StateVisible, domain.StateReported)
	require.NoError(t, err)

	total, err = svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total, "served from cache until invalidated")

	require.NoError(t, statsCache.Invalidate(ctx))

	total, err = svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	top, err := svc.TopSubjects(ctx, domain.ScopeAll, 0)
	require.NoError(t, err)
	var cached []SubjectCount
	_, hit, err := statsCache.Get(ctx, "topSubjects:all:0", &cached)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, top, cached)
}

// mutatingReviews commits a moderation change and invalidates the cache while
// a count is being computed, after the pre-mutation rows were read.
type mutatingReviews struct {
	*repository.ReviewRepository
	mutate func(ctx context.Context)
	once   sync.Once
}

func (m *mutatingReviews) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	n, err := m.ReviewRepository.Count(ctx, scope)
	m.once.Do(func() { m.mutate(ctx) })
	return n, err
}

func TestCachedAggregates_InvalidationDuringComputeIsNotCached(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	statsCache := cache.New(client, time.Minute)

	db := database.NewTestDB(t)
	require.NoError(t, fixture.Load(ctx, db))
	base := repository.NewReviewRepository(db)
	reviews := &mutatingReviews{
		ReviewRepository: base,
		mutate: func(ctx context.Context) {
			_, err := base.Transition(ctx, fixture.ReviewCS2112, domain.StateVisible, domain.StateReported)
			require.NoError(t, err)
			require.NoError(t, statsCache.Invalidate(ctx))
		},
	}
	svc := NewService(reviews, repository.NewClassRepository(db), repository.NewSubjectRepository(db), statsCache)

	stale, err := svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stale)

	total, err := svc.TotalReviews(ctx, domain.ScopePublic)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestCachedAggregates_CacheDownFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	svc, _ := seededService(t, cache.New(client, time.Minute))

	total, err := svc.TotalReviews(context.Background(), domain.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

/* ==================== MOCKS ==================== */

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Count(ctx context.Context, scope domain.Scope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) CountByClass(ctx context.Context, scope domain.Scope) ([]repository.ClassCount, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ClassCount), args.Error(1)
}

func (m *MockReviewRepository) ListVisibleByClass(ctx context.Context, classID string) ([]domain.Review, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockClassRepository struct{ mock.Mock }

func (m *MockClassRepository) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Class), args.Error(1)
}

func (m *MockClassRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Class, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Class), args.Error(1)
}

type MockSubjectRepository struct{ mock.Mock }

func (m *MockSubjectRepository) FindByShorts(ctx context.Context, shorts []string) (map[string]domain.Subject, error) {
	args := m.Called(ctx, shorts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Subject), args.Error(1)
}

/* ==================== DEGRADED JOINS ==================== */

func TestMissingJoinsDegrade(t *testing.T) {
	ctx := context.Background()

	reviews := new(MockReviewRepository)
	classes := new(MockClassRepository)
	subjects := new(MockSubjectRepository)

	reviews.On("CountByClass", ctx, domain.ScopeAll).Return([]repository.ClassCount{
		{ClassID: "c1", Total: 1},
		{ClassID: "ghost", Total: 5},
		{ClassID: "c2", Total: 3},
	}, nil)
	classes.On("FindByIDs", ctx, []string{"c1", "ghost", "c2"}).Return(map[string]domain.Class{
		"c1": {ID: "c1", Sub: "phys", Num: "1112"},
		"c2": {ID: "c2", Sub: "cs", Num: "3110"},
	}, nil)
	subjects.On("FindByShorts", ctx, []string{"phys", "cs"}).Return(map[string]domain.Subject{
		"cs": {Short: "cs", Full: "Computer Science"},
	}, nil)

	svc := NewService(reviews, classes, subjects, nil)

	perClass, err := svc.ReviewsPerClass(ctx, domain.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, []KeyCount{{ID: "phys 1112", Total: 1}, {ID: "cs 3110", Total: 3}}, perClass)

	top, err := svc.TopSubjects(ctx, domain.ScopeAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []SubjectCount{{Name: "Computer Science", Count: 3}, {Name: "phys", Count: 1}}, top)
}

func TestTopSubjects_TiesKeepFirstSeenOrder(t *testing.T) {
	ctx := context.Background()

	reviews := new(MockReviewRepository)
	classes := new(MockClassRepository)
	subjects := new(MockSubjectRepository)

	reviews.On("CountByClass", ctx, domain.ScopeAll).Return([]repository.ClassCount{
		{ClassID: "b", Total: 2},
		{ClassID: "a", Total: 2},
		{ClassID: "c", Total: 4},
	}, nil)
	classes.On("FindByIDs", ctx, mock.Anything).Return(map[string]domain.Class{
		"a": {ID: "a", Sub: "math", Num: "1"},
		"b": {ID: "b", Sub: "econ", Num: "1"},
		"c": {ID: "c", Sub: "cs", Num: "1"},
	}, nil)
	subjects.On("FindByShorts", ctx, []string{"econ", "math", "cs"}).Return(map[string]domain.Subject{
		"econ": {Full: "Economics"},
		"math": {Full: "Mathematics"},
		"cs":   {Full: "Computer Science"},
	}, nil)

	svc := NewService(reviews, classes, subjects, nil)

	top, err := svc.TopSubjects(ctx, domain.ScopeAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []SubjectCount{
		{Name: "Computer Science", Count: 4},
		{Name: "Economics", Count: 2},
		{Name: "Mathematics", Count: 2},
	}, top)
}

func TestStoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	reviews := new(MockReviewRepository)
	reviews.On("Count", ctx, domain.ScopeAll).Return(int64(0), boom)
	reviews.On("CountByClass", ctx, domain.ScopeAll).Return(nil, boom)

	svc := NewService(reviews, new(MockClassRepository), new(MockSubjectRepository), nil)

	_, err := svc.TotalReviews(ctx, domain.ScopeAll)
	assert.ErrorIs(t, err, boom)
	_, err = svc.ReviewsPerClass(ctx, domain.ScopeAll)
	assert.ErrorIs(t, err, boom)
}

func TestSubjectCountJSON(t *testing.T) {
	data, err := json.Marshal([]SubjectCount{{Name: "Computer Science", Count: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[["Computer Science",3]]`, string(data))

	var back []SubjectCount
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []SubjectCount{{Name: "Computer Science", Count: 3}}, back)

	var bad SubjectCount
	assert.Error(t, json.Unmarshal([]byte(`["only"]`), &bad))
}
