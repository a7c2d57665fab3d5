package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockHabitRepo is a mock implementation of domain.HabitRepository.
type mockHabitRepo struct {
	mock.Mock
}

func (m *mockHabitRepo) Save(ctx context.Context, habit *domain.Habit) error {
	args := m.Called(ctx, habit)
	return args.Error(0)
}

func (m *mockHabitRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Habit), args.Error(1)
}

func (m *mockHabitRepo) FindByUserID(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

type mockMetricsRepo struct {
	mock.Mock
}

func (m *mockMetricsRepo) Load(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitMetrics), args.Error(1)
}

func (m *mockMetricsRepo) LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error) {
	args := m.Called(ctx, habitIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.HabitMetrics), args.Error(1)
}

func (m *mockMetricsRepo) Save(ctx context.Context, metrics *domain.HabitMetrics) error {
	args := m.Called(ctx, metrics)
	return args.Error(0)
}

type mockActivityRepo struct {
	mock.Mock
}

func (m *mockActivityRepo) Save(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockActivityRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *mockActivityRepo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

func (m *mockActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLinkRepo struct {
	mock.Mock
}

func (m *mockLinkRepo) Upsert(ctx context.Context, link *domain.Link) (bool, error) {
	args := m.Called(ctx, link)
	return args.Bool(0), args.Error(1)
}

func (m *mockLinkRepo) Find(ctx context.Context, habitID, activityID uuid.UUID) (*domain.Link, error) {
	args := m.Called(ctx, habitID, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *mockLinkRepo) Delete(ctx context.Context, habitID, activityID uuid.UUID) error {
	args := m.Called(ctx, habitID, activityID)
	return args.Error(0)
}

func (m *mockLinkRepo) FindByActivity(ctx context.Context, activityID uuid.UUID) ([]*domain.Link, error) {
	args := m.Called(ctx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

func (m *mockLinkRepo) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]*domain.Link, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

func (m *mockLinkRepo) FindByActivities(ctx context.Context, activityIDs []uuid.UUID) ([]*domain.Link, error) {
	args := m.Called(ctx, activityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Link), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) List(ctx context.Context, filter domain.SessionFilter) ([]*domain.Session, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Session), args.Error(1)
}

func (m *mockSessionRepo) TotalsByActivity(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]domain.ActivityTotals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]domain.ActivityTotals), args.Error(1)
}

type mockContributionRepo struct {
	mock.Mock
}

func (m *mockContributionRepo) SaveBatch(ctx context.Context, contributions []domain.Contribution) error {
	args := m.Called(ctx, contributions)
	return args.Error(0)
}

func (m *mockContributionRepo) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.Contribution, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contribution), args.Error(1)
}

func (m *mockContributionRepo) SessionDatesForHabit(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *mockContributionRepo) MinutesBetween(ctx context.Context, habitIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]float64, error) {
	args := m.Called(ctx, habitIDs, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]float64), args.Error(1)
}

func (m *mockContributionRepo) TotalsByHabit(ctx context.Context, habitIDs []uuid.UUID) ([]domain.ContributionTotal, error) {
	args := m.Called(ctx, habitIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContributionTotal), args.Error(1)
}

func createTestHabit(userID uuid.UUID, name string) *domain.Habit {
	habit, err := domain.NewHabit(userID, name, "", domain.DefaultTargets())
	if err != nil {
		panic(err)
	}
	habit.ClearDomainEvents()
	return habit
}

func createTestActivity(userID uuid.UUID, name string) *domain.Activity {
	activity, err := domain.NewActivity(userID, name, "")
	if err != nil {
		panic(err)
	}
	activity.ClearDomainEvents()
	return activity
}

func intPtr(v int) *int { return &v }
