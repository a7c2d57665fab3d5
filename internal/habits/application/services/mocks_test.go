package services

import (
	"context"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

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

// memoryMetrics is a map-backed MetricsRepository.
type memoryMetrics struct {
	rows  map[uuid.UUID]domain.HabitMetrics
	saves int
}

func newMemoryMetrics(ids ...uuid.UUID) *memoryMetrics {
	m := &memoryMetrics{rows: make(map[uuid.UUID]domain.HabitMetrics)}
	for _, id := range ids {
		m.rows[id] = *domain.NewHabitMetrics(id)
	}
	return m
}

func (m *memoryMetrics) Load(ctx context.Context, habitID uuid.UUID) (*domain.HabitMetrics, error) {
	row, ok := m.rows[habitID]
	if !ok {
		return nil, domain.ErrMetricsNotFound
	}
	return &row, nil
}

func (m *memoryMetrics) LoadMany(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error) {
	out := make(map[uuid.UUID]*domain.HabitMetrics)
	for _, id := range habitIDs {
		if row, ok := m.rows[id]; ok {
			out[id] = &row
		}
	}
	return out, nil
}

func (m *memoryMetrics) Save(ctx context.Context, metrics *domain.HabitMetrics) error {
	m.saves++
	m.rows[metrics.HabitID] = *metrics
	return nil
}

// memoryLedger is an append-only ContributionRepository.
type memoryLedger struct {
	rows []domain.Contribution
	err  error
}

func (l *memoryLedger) SaveBatch(ctx context.Context, contributions []domain.Contribution) error {
	l.rows = append(l.rows, contributions...)
	return nil
}

func (l *memoryLedger) FindByHabit(ctx context.Context, habitID uuid.UUID) ([]domain.Contribution, error) {
	if l.err != nil {
		return nil, l.err
	}
	var out []domain.Contribution
	for _, c := range l.rows {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *memoryLedger) SessionDatesForHabit(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	if l.err != nil {
		return nil, l.err
	}
	var out []time.Time
	for _, c := range l.rows {
		if c.HabitID == habitID {
			out = append(out, c.SessionDate)
		}
	}
	return out, nil
}

func (l *memoryLedger) MinutesBetween(ctx context.Context, habitIDs []uuid.UUID, from, to time.Time) (map[uuid.UUID]float64, error) {
	return nil, nil
}

func (l *memoryLedger) TotalsByHabit(ctx context.Context, habitIDs []uuid.UUID) ([]domain.ContributionTotal, error) {
	return nil, nil
}
