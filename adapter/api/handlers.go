package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/internal/habits/application/commands"
	"github.com/felixgeelhaar/cadence/internal/habits/application/queries"
	"github.com/felixgeelhaar/cadence/internal/habits/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler translates HTTP requests into habit commands and queries.
type Handler struct {
	container *app.Container
	logger    *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(container *app.Container, logger *slog.Logger) *Handler {
	return &Handler{container: container, logger: logger}
}

type createHabitRequest struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	TargetMinutesPerWeek *int   `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    *int   `json:"max_minutes_per_week"`
	TotalHoursGoal       *int   `json:"total_hours_goal"`
}

type updateHabitRequest struct {
	Name                 *string `json:"name"`
	Description          *string `json:"description"`
	TargetMinutesPerWeek *int    `json:"target_minutes_per_week"`
	MaxMinutesPerWeek    *int    `json:"max_minutes_per_week"`
	TotalHoursGoal       *int    `json:"total_hours_goal"`
	Active               *bool   `json:"active"`
}

type createActivityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// linkRequest weight defaults to 1 when omitted.
type linkRequest struct {
	Weight *float64 `json:"weight"`
}

type registerSessionRequest struct {
	ActivityID      uuid.UUID `json:"activity_id"`
	DurationMinutes int       `json:"duration_minutes"`
	SessionDate     string    `json:"session_date"`
	StartTime       *string   `json:"start_time"`
	Mood            *int      `json:"mood"`
	Productivity    *int      `json:"productivity"`
	Notes           string    `json:"notes"`
}

type contributionResponse struct {
	HabitID uuid.UUID `json:"habit_id"`
	Weight  float64   `json:"weight"`
	Minutes float64   `json:"minutes"`
}

type habitMetricsResponse struct {
	HabitID uuid.UUID `json:"habit_id"`
	*queries.MetricsDTO
}

type sessionResponse struct {
	SessionID     uuid.UUID              `json:"session_id"`
	SessionDate   string                 `json:"session_date"`
	Contributions []contributionResponse `json:"contributions"`
	Metrics       []habitMetricsResponse `json:"metrics"`
}

func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.container.CreateHabitHandler.Handle(r.Context(), commands.CreateHabitCommand{
		UserID:               userFrom(r),
		Name:                 req.Name,
		Description:          req.Description,
		TargetMinutesPerWeek: req.TargetMinutesPerWeek,
		MaxMinutesPerWeek:    req.MaxMinutesPerWeek,
		TotalHoursGoal:       req.TotalHoursGoal,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":                      result.HabitID,
		"target_minutes_per_week": result.Targets.TargetMinutesPerWeek,
		"max_minutes_per_week":    result.Targets.MaxMinutesPerWeek,
		"total_hours_goal":        result.Targets.TotalHoursGoal,
	})
}

func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	habits, err := h.container.ListHabitsHandler.Handle(r.Context(), queries.ListHabitsQuery{
		UserID:          userFrom(r),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *Handler) GetHabitProgress(w http.ResponseWriter, r *http.Request) {
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reference, ok := dateParam(w, r, "date")
	if !ok {
		return
	}

	progress, err := h.container.GetHabitProgressHandler.Handle(r.Context(), queries.GetHabitProgressQuery{
		HabitID:   habitID,
		UserID:    userFrom(r),
		Reference: reference,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *Handler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	habitID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateHabitRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.container.UpdateHabitHandler.Handle(r.Context(), commands.UpdateHabitCommand{
		HabitID:              habitID,
		UserID:               userFrom(r),
		Name:                 req.Name,
		Description:          req.Description,
		TargetMinutesPerWeek: req.TargetMinutesPerWeek,
		MaxMinutesPerWeek:    req.MaxMinutesPerWeek,
		TotalHoursGoal:       req.TotalHoursGoal,
		Active:               req.Active,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"changed":      result.Changed,
		"goal_changed": result.GoalChanged,
	})
}

// RecomputeMetrics rebuilds one habit, or every habit of the user when the
// route carries no id.
func (h *Handler) RecomputeMetrics(w http.ResponseWriter, r *http.Request) {
	habitID := uuid.Nil
	if chi.URLParam(r, "id") != "" {
		var ok bool
		if habitID, ok = pathID(w, r, "id"); !ok {
			return
		}
	}

	result, err := h.container.RecomputeMetricsHandler.Handle(r.Context(), commands.RecomputeMetricsCommand{
		UserID:  userFrom(r),
		HabitID: habitID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presentMetrics(result.Metrics))
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.container.ListActivitiesHandler.Handle(r.Context(), queries.ListActivitiesQuery{UserID: userFrom(r)})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.container.CreateActivityHandler.Handle(r.Context(), commands.CreateActivityCommand{
		UserID:      userFrom(r),
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": result.ActivityID})
}

func (h *Handler) ListActivityLinks(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	links, err := h.container.ListActivityLinksHandler.Handle(r.Context(), queries.ListActivityLinksQuery{
		UserID:     userFrom(r),
		ActivityID: activityID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *Handler) LinkActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "habitID")
	if !ok {
		return
	}
	var req linkRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}

	result, err := h.container.LinkActivityHandler.Handle(r.Context(), commands.LinkActivityCommand{
		UserID:     userFrom(r),
		HabitID:    habitID,
		ActivityID: activityID,
		Weight:     weight,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"habit_id":    habitID,
		"activity_id": activityID,
		"weight":      result.Weight,
		"created":     result.Created,
	})
}

func (h *Handler) UnlinkActivity(w http.ResponseWriter, r *http.Request) {
	activityID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	habitID, ok := pathID(w, r, "habitID")
	if !ok {
		return
	}

	err := h.container.UnlinkActivityHandler.Handle(r.Context(), commands.UnlinkActivityCommand{
		UserID:     userFrom(r),
		HabitID:    habitID,
		ActivityID: activityID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RegisterSession(w http.ResponseWriter, r *http.Request) {
	var req registerSessionRequest
	if !decode(w, r, &req) {
		return
	}

	cmd := commands.RegisterSessionCommand{
		UserID:          userFrom(r),
		ActivityID:      req.ActivityID,
		DurationMinutes: req.DurationMinutes,
		StartTime:       req.StartTime,
		Mood:            req.Mood,
		Productivity:    req.Productivity,
		Notes:           req.Notes,
	}
	if req.SessionDate != "" {
		date, err := time.Parse(time.DateOnly, req.SessionDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "session_date must be YYYY-MM-DD")
			return
		}
		cmd.SessionDate = &date
	}

	result, err := h.container.RegisterSessionHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := sessionResponse{
		SessionID:     result.SessionID,
		SessionDate:   result.SessionDate.Format(time.DateOnly),
		Contributions: make([]contributionResponse, 0, len(result.Contributions)),
	}
	metrics := make([]*domain.HabitMetrics, 0, len(result.Contributions))
	for _, c := range result.Contributions {
		resp.Contributions = append(resp.Contributions, contributionResponse{
			HabitID: c.HabitID,
			Weight:  c.Weight,
			Minutes: c.Minutes,
		})
		if m, ok := result.Metrics[c.HabitID]; ok {
			metrics = append(metrics, m)
		}
	}
	resp.Metrics = presentMetrics(metrics)
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	q := queries.ListSessionsQuery{UserID: userFrom(r)}

	var ok bool
	if q.From, ok = dateParam(w, r, "from"); !ok {
		return
	}
	if q.To, ok = dateParam(w, r, "to"); !ok {
		return
	}
	if raw := r.URL.Query().Get("activity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity_id")
			return
		}
		q.ActivityID = id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		q.Limit = limit
	}

	sessions, err := h.container.ListSessionsHandler.Handle(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	reference, ok := dateParam(w, r, "date")
	if !ok {
		return
	}
	summary, err := h.container.WeeklySummaryHandler.Handle(r.Context(), queries.WeeklySummaryQuery{
		UserID:    userFrom(r),
		Reference: reference,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) ActivityMatrix(w http.ResponseWriter, r *http.Request) {
	rows, err := h.container.ActivityMatrixHandler.Handle(r.Context(), queries.ActivityMatrixQuery{UserID: userFrom(r)})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ContributionBreakdown(w http.ResponseWriter, r *http.Request) {
	q := queries.ContributionBreakdownQuery{UserID: userFrom(r)}
	if raw := r.URL.Query().Get("habit_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid habit_id")
			return
		}
		q.HabitID = id
	}

	rows, err := h.container.ContributionBreakdownHandler.Handle(r.Context(), q)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// fail maps domain errors onto HTTP statuses. Resources owned by someone
// else are reported as missing.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNotOwner):
		writeError(w, http.StatusNotFound, err.Error())
	case domain.IsValidation(err), errors.Is(err, queries.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrHabitInactive):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func presentMetrics(metrics []*domain.HabitMetrics) []habitMetricsResponse {
	out := make([]habitMetricsResponse, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, habitMetricsResponse{HabitID: m.HabitID, MetricsDTO: queries.NewMetricsDTO(m)})
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// dateParam reads an optional YYYY-MM-DD query parameter. Absent yields
// the zero time.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
