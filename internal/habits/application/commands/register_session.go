package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/cadence/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/cadence/internal/shared/domain"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RegisterSessionCommand logs one timed occurrence of an activity.
type RegisterSessionCommand struct {
	UserID          uuid.UUID
	ActivityID      uuid.UUID
	DurationMinutes int
	SessionDate     *time.Time
	StartTime       *string
	Mood            *int
	Productivity    *int
	Notes           string
}

// RegisterSessionResult reports the session and what it did to each habit.
type RegisterSessionResult struct {
	SessionID     uuid.UUID
	SessionDate   time.Time
	Contributions []domain.Contribution
	Metrics       map[uuid.UUID]*domain.HabitMetrics
}

// RegisterSessionHandler stores a session, distributes its minutes over the
// activity's links and rolls the contributions into habit metrics. All of it
// commits or none of it does.
type RegisterSessionHandler struct {
	activityRepo     domain.ActivityRepository
	linkRepo         domain.LinkRepository
	sessionRepo      domain.SessionRepository
	contributionRepo domain.ContributionRepository
	aggregator       Aggregator
	outboxRepo       outbox.Repository
	uow              sharedApplication.UnitOfWork
	invalidator      MetricsInvalidator
	logger           *slog.Logger
	now              func() time.Time
}

func NewRegisterSessionHandler(
	activityRepo domain.ActivityRepository,
	linkRepo domain.LinkRepository,
	sessionRepo domain.SessionRepository,
	contributionRepo domain.ContributionRepository,
	aggregator Aggregator,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	invalidator MetricsInvalidator,
	logger *slog.Logger,
) *RegisterSessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterSessionHandler{
		activityRepo:     activityRepo,
		linkRepo:         linkRepo,
		sessionRepo:      sessionRepo,
		contributionRepo: contributionRepo,
		aggregator:       aggregator,
		outboxRepo:       outboxRepo,
		uow:              uow,
		invalidator:      invalidatorOrNoop(invalidator),
		logger:           logger,
		now:              time.Now,
	}
}

// WithClock replaces the clock used for date validation.
func (h *RegisterSessionHandler) WithClock(now func() time.Time) *RegisterSessionHandler {
	h.now = now
	return h
}

func (h *RegisterSessionHandler) Handle(ctx context.Context, cmd RegisterSessionCommand) (*RegisterSessionResult, error) {
	var result *RegisterSessionResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		activity, err := h.activityRepo.FindByID(txCtx, cmd.ActivityID)
		if err != nil {
			return err
		}
		if err := activity.OwnedBy(cmd.UserID); err != nil {
			return err
		}

		session, err := domain.NewSession(domain.SessionParams{
			UserID:          cmd.UserID,
			Activity:        activity,
			DurationMinutes: cmd.DurationMinutes,
			SessionDate:     cmd.SessionDate,
			StartTime:       cmd.StartTime,
			Mood:            cmd.Mood,
			Productivity:    cmd.Productivity,
			Notes:           cmd.Notes,
		}, h.now())
		if err != nil {
			return err
		}

		links, err := h.linkRepo.FindByActivity(txCtx, activity.ID())
		if err != nil {
			return err
		}
		contributions, err := domain.Distribute(session, links)
		if err != nil {
			return err
		}

		if err := h.sessionRepo.Save(txCtx, session); err != nil {
			return err
		}
		if len(contributions) > 0 {
			if err := h.contributionRepo.SaveBatch(txCtx, contributions); err != nil {
				return err
			}
		}

		updated := make(map[uuid.UUID]*domain.HabitMetrics, len(contributions))
		var metricsEvents []sharedDomain.DomainEvent
		for _, c := range contributions {
			metrics, err := h.aggregator.Apply(txCtx, c)
			if err != nil {
				return err
			}
			updated[c.HabitID] = metrics
			metricsEvents = append(metricsEvents, domain.NewMetricsUpdated(metrics, false))
		}

		session.Registered(contributions)
		events := append(session.DomainEvents(), metricsEvents...)
		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, events); err != nil {
			return err
		}

		result = &RegisterSessionResult{
			SessionID:     session.ID(),
			SessionDate:   session.SessionDate(),
			Contributions: contributions,
			Metrics:       updated,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	habitIDs := make([]uuid.UUID, 0, len(result.Metrics))
	for id := range result.Metrics {
		habitIDs = append(habitIDs, id)
	}
	if len(habitIDs) > 0 {
		h.invalidator.InvalidateMetrics(ctx, habitIDs...)
	}

	h.logger.Info("session registered",
		"session_id", result.SessionID,
		"activity_id", cmd.ActivityID,
		"duration_minutes", cmd.DurationMinutes,
		"contributions", len(result.Contributions),
	)
	return result, nil
}
