package queries

import (
	"context"
	"sort"

	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ListActivitiesQuery struct {
	UserID uuid.UUID
}

type ListActivitiesHandler struct {
	activityRepo domain.ActivityRepository
	linkRepo     domain.LinkRepository
}

func NewListActivitiesHandler(activityRepo domain.ActivityRepository, linkRepo domain.LinkRepository) *ListActivitiesHandler {
	return &ListActivitiesHandler{activityRepo: activityRepo, linkRepo: linkRepo}
}

func (h *ListActivitiesHandler) Handle(ctx context.Context, query ListActivitiesQuery) ([]ActivityDTO, error) {
	activities, err := h.activityRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return []ActivityDTO{}, nil
	}

	links, err := h.linkRepo.FindByActivities(ctx, activityIDs(activities))
	if err != nil {
		return nil, err
	}
	counts := make(map[uuid.UUID]int, len(activities))
	for _, link := range links {
		counts[link.ActivityID()]++
	}

	out := make([]ActivityDTO, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityDTO{
			ID:          a.ID(),
			Name:        a.Name(),
			Description: a.Description(),
			LinkCount:   counts[a.ID()],
			CreatedAt:   a.CreatedAt(),
		})
	}
	return out, nil
}

// ListActivityLinksQuery lists the habits an activity contributes to.
type ListActivityLinksQuery struct {
	UserID     uuid.UUID
	ActivityID uuid.UUID
}

type ListActivityLinksHandler struct {
	activityRepo domain.ActivityRepository
	linkRepo     domain.LinkRepository
	habitRepo    domain.HabitRepository
}

func NewListActivityLinksHandler(
	activityRepo domain.ActivityRepository,
	linkRepo domain.LinkRepository,
	habitRepo domain.HabitRepository,
) *ListActivityLinksHandler {
	return &ListActivityLinksHandler{activityRepo: activityRepo, linkRepo: linkRepo, habitRepo: habitRepo}
}

func (h *ListActivityLinksHandler) Handle(ctx context.Context, query ListActivityLinksQuery) ([]LinkDTO, error) {
	activity, err := h.activityRepo.FindByID(ctx, query.ActivityID)
	if err != nil {
		return nil, err
	}
	if activity.OwnedBy(query.UserID) != nil {
		return nil, domain.ErrActivityNotFound
	}

	links, err := h.linkRepo.FindByActivity(ctx, activity.ID())
	if err != nil {
		return nil, err
	}
	habits, err := h.habitRepo.FindByUserID(ctx, query.UserID, true)
	if err != nil {
		return nil, err
	}
	names := habitNames(habits)

	out := make([]LinkDTO, 0, len(links))
	for _, link := range links {
		out = append(out, LinkDTO{
			HabitID:      link.HabitID(),
			HabitName:    names[link.HabitID()],
			ActivityID:   activity.ID(),
			ActivityName: activity.Name(),
			Weight:       link.Weight(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out, nil
}

// ActivityMatrixRow shows which habits an activity feeds and how much it was done.
type ActivityMatrixRow struct {
	ActivityID   uuid.UUID `json:"activity_id"`
	ActivityName string    `json:"activity_name"`
	LinkedHabits int       `json:"linked_habits"`
	Habits       []string  `json:"habits"`
	Sessions     int       `json:"sessions"`
	Minutes      int       `json:"minutes"`
}

type ActivityMatrixQuery struct {
	UserID uuid.UUID
}

type ActivityMatrixHandler struct {
	activityRepo domain.ActivityRepository
	linkRepo     domain.LinkRepository
	habitRepo    domain.HabitRepository
	sessionRepo  domain.SessionRepository
}

func NewActivityMatrixHandler(
	activityRepo domain.ActivityRepository,
	linkRepo domain.LinkRepository,
	habitRepo domain.HabitRepository,
	sessionRepo domain.SessionRepository,
) *ActivityMatrixHandler {
	return &ActivityMatrixHandler{
		activityRepo: activityRepo,
		linkRepo:     linkRepo,
		habitRepo:    habitRepo,
		sessionRepo:  sessionRepo,
	}
}

// Handle loads activities, habits and session totals concurrently. Rows are
// ordered by minutes, most practiced first.
func (h *ActivityMatrixHandler) Handle(ctx context.Context, query ActivityMatrixQuery) ([]ActivityMatrixRow, error) {
	var (
		activities []*domain.Activity
		habits     []*domain.Habit
		totals     map[uuid.UUID]domain.ActivityTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activities, err = h.activityRepo.FindByUserID(gctx, query.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		habits, err = h.habitRepo.FindByUserID(gctx, query.UserID, false)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = h.sessionRepo.TotalsByActivity(gctx, query.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return []ActivityMatrixRow{}, nil
	}

	links, err := h.linkRepo.FindByActivities(ctx, activityIDs(activities))
	if err != nil {
		return nil, err
	}
	names := habitNames(habits)
	linked := make(map[uuid.UUID][]string)
	for _, link := range links {
		// Links to inactive habits are left out of the matrix.
		if name, ok := names[link.HabitID()]; ok {
			linked[link.ActivityID()] = append(linked[link.ActivityID()], name)
		}
	}

	rows := make([]ActivityMatrixRow, 0, len(activities))
	for _, a := range activities {
		benefited := linked[a.ID()]
		sort.Strings(benefited)
		if benefited == nil {
			benefited = []string{}
		}
		t := totals[a.ID()]
		rows = append(rows, ActivityMatrixRow{
			ActivityID:   a.ID(),
			ActivityName: a.Name(),
			LinkedHabits: len(benefited),
			Habits:       benefited,
			Sessions:     t.Sessions,
			Minutes:      t.Minutes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Minutes > rows[j].Minutes })
	return rows, nil
}

// ContributionRow is the ledger total of one (habit, activity) pair.
type ContributionRow struct {
	HabitID      uuid.UUID `json:"habit_id"`
	HabitName    string    `json:"habit_name"`
	ActivityID   uuid.UUID `json:"activity_id"`
	ActivityName string    `json:"activity_name"`
	Sessions     int       `json:"sessions"`
	Minutes      float64   `json:"minutes"`
}

// ContributionBreakdownQuery limits the breakdown to one habit when HabitID is set.
type ContributionBreakdownQuery struct {
	UserID  uuid.UUID
	HabitID uuid.UUID
}

type ContributionBreakdownHandler struct {
	habitRepo        domain.HabitRepository
	activityRepo     domain.ActivityRepository
	contributionRepo domain.ContributionRepository
}

func NewContributionBreakdownHandler(
	habitRepo domain.HabitRepository,
	activityRepo domain.ActivityRepository,
	contributionRepo domain.ContributionRepository,
) *ContributionBreakdownHandler {
	return &ContributionBreakdownHandler{
		habitRepo:        habitRepo,
		activityRepo:     activityRepo,
		contributionRepo: contributionRepo,
	}
}

// DeletedActivityName labels ledger rows whose activity no longer exists.
const DeletedActivityName = "(deleted activity)"

func (h *ContributionBreakdownHandler) Handle(ctx context.Context, query ContributionBreakdownQuery) ([]ContributionRow, error) {
	var (
		habits     []*domain.Habit
		activities []*domain.Activity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		habits, err = h.habitRepo.FindByUserID(gctx, query.UserID, true)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = h.activityRepo.FindByUserID(gctx, query.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if query.HabitID != uuid.Nil {
		filtered := habits[:0:0]
		for _, habit := range habits {
			if habit.ID() == query.HabitID {
				filtered = append(filtered, habit)
			}
		}
		if len(filtered) == 0 {
			return nil, domain.ErrHabitNotFound
		}
		habits = filtered
	}
	if len(habits) == 0 {
		return []ContributionRow{}, nil
	}

	totals, err := h.contributionRepo.TotalsByHabit(ctx, habitIDs(habits))
	if err != nil {
		return nil, err
	}

	habitName := habitNames(habits)
	activityName := make(map[uuid.UUID]string, len(activities))
	for _, a := range activities {
		activityName[a.ID()] = a.Name()
	}

	rows := make([]ContributionRow, 0, len(totals))
	for _, t := range totals {
		name, ok := activityName[t.ActivityID]
		if !ok {
			name = DeletedActivityName
		}
		rows = append(rows, ContributionRow{
			HabitID:      t.HabitID,
			HabitName:    habitName[t.HabitID],
			ActivityID:   t.ActivityID,
			ActivityName: name,
			Sessions:     t.Sessions,
			Minutes:      t.Minutes,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].HabitName != rows[j].HabitName {
			return rows[i].HabitName < rows[j].HabitName
		}
		return rows[i].Minutes > rows[j].Minutes
	})
	return rows, nil
}

func activityIDs(activities []*domain.Activity) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID())
	}
	return ids
}

func habitNames(habits []*domain.Habit) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(habits))
	for _, h := range habits {
		names[h.ID()] = h.Name()
	}
	return names
}
