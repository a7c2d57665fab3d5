package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/resilience"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	mu    sync.Mutex
	rows  map[uuid.UUID]*domain.HabitMetrics
	loads int
}

func newCountingRepo(metrics ...*domain.HabitMetrics) *countingRepo {
	r := &countingRepo{rows: make(map[uuid.UUID]*domain.HabitMetrics)}
	for _, m := range metrics {
		r.rows[m.HabitID] = m
	}
	return r
}

func (r *countingRepo) Load(_ context.Context, id uuid.UUID) (*domain.HabitMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	m, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrMetricsNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *countingRepo) LoadMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.HabitMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	out := make(map[uuid.UUID]*domain.HabitMetrics)
	for _, id := range ids {
		if m, ok := r.rows[id]; ok {
			copied := *m
			out[id] = &copied
		}
	}
	return out, nil
}

func (r *countingRepo) Save(_ context.Context, m *domain.HabitMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *m
	r.rows[m.HabitID] = &copied
	return nil
}

func sampleMetrics(minutes float64) *domain.HabitMetrics {
	last := time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC)
	return &domain.HabitMetrics{
		HabitID:              uuid.New(),
		TotalMinutesInvested: minutes,
		TotalSessions:        3,
		CurrentStreak:        2,
		LongestStreak:        5,
		CompletionPercentage: 12.5,
		LastSessionDate:      &last,
		UpdatedAt:            last,
	}
}

func TestMetricsCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	m := sampleMetrics(750)
	repo := newCountingRepo(m)
	store := NewMemoryStore()
	c := NewMetricsCache(repo, store, time.Minute, nil)

	first, err := c.Load(ctx, m.HabitID)
	require.NoError(t, err)
	second, err := c.Load(ctx, m.HabitID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.loads)
	assert.Equal(t, first.TotalMinutesInvested, second.TotalMinutesInvested)
	require.NotNil(t, second.LastSessionDate)
	assert.True(t, m.LastSessionDate.Equal(*second.LastSessionDate))

	t.Run("missing metrics are not cached", func(t *testing.T) {
		_, err := c.Load(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrMetricsNotFound)
		assert.Equal(t, 1, store.Len())
	})
}

func TestMetricsCache_LoadManyOnlyFetchesMisses(t *testing.T) {
	ctx := context.Background()
	a, b := sampleMetrics(10), sampleMetrics(20)
	repo := newCountingRepo(a, b)
	c := NewMetricsCache(repo, NewMemoryStore(), time.Minute, nil)

	_, err := c.Load(ctx, a.HabitID)
	require.NoError(t, err)

	got, err := c.LoadMany(ctx, []uuid.UUID{a.HabitID, b.HabitID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, repo.loads)

	_, err = c.LoadMany(ctx, []uuid.UUID{a.HabitID, b.HabitID})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.loads)
}

func TestMetricsCache_SaveAndInvalidate(t *testing.T) {
	ctx := context.Background()
	m := sampleMetrics(60)
	repo := newCountingRepo(m)
	c := NewMetricsCache(repo, NewMemoryStore(), time.Minute, nil)

	_, err := c.Load(ctx, m.HabitID)
	require.NoError(t, err)

	updated := *m
	updated.TotalMinutesInvested = 90
	require.NoError(t, c.Save(ctx, &updated))

	got, err := c.Load(ctx, m.HabitID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.TotalMinutesInvested)

	repo.rows[m.HabitID].TotalMinutesInvested = 120
	c.InvalidateMetrics(ctx, m.HabitID)
	got, err = c.Load(ctx, m.HabitID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.TotalMinutesInvested)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMetricsCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	breaker := resilience.NewBreaker("redis-test", resilience.BreakerConfig{
		MaxRequests:      1,
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, nil)
	store := NewRedisStore(client, breaker)

	m := sampleMetrics(30)
	c := NewMetricsCache(newCountingRepo(m), store, time.Minute, nil)

	for range 3 {
		got, err := c.Load(ctx, m.HabitID)
		require.NoError(t, err)
		assert.Equal(t, 30.0, got.TotalMinutesInvested)
	}
	assert.Equal(t, "open", breaker.State())

	_, err := store.Get(ctx, "anything")
	assert.True(t, errors.Is(err, resilience.ErrCircuitOpen))
}
