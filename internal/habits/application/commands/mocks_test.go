package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
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

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) Apply(ctx context.Context, c domain.Contribution) (*domain.HabitMetrics, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitMetrics), args.Error(1)
}

func (m *mockAggregator) Recompute(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitMetrics), args.Error(1)
}

func (m *mockAggregator) Refresh(ctx context.Context, habit *domain.Habit) (*domain.HabitMetrics, error) {
	args := m.Called(ctx, habit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitMetrics), args.Error(1)
}

// recordingInvalidator remembers which habits were invalidated.
type recordingInvalidator struct {
	ids []uuid.UUID
}

func (r *recordingInvalidator) InvalidateMetrics(ctx context.Context, habitIDs ...uuid.UUID) {
	r.ids = append(r.ids, habitIDs...)
}

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, err, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetFailed(ctx context.Context, maxRetries, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, maxRetries, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
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

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

// outboxMessages captures the messages passed to SaveBatch.
func outboxMessages(outboxRepo *mockOutboxRepo) []*outbox.Message {
	var msgs []*outbox.Message
	for _, call := range outboxRepo.Calls {
		if call.Method == "SaveBatch" {
			msgs = append(msgs, call.Arguments.Get(1).([]*outbox.Message)...)
		}
	}
	return msgs
}

func routingKeys(msgs []*outbox.Message) []string {
	keys := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		keys = append(keys, msg.RoutingKey)
	}
	return keys
}
