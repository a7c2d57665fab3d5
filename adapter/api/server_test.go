package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixgeelhaar/cadence/internal/app"
	"github.com/felixgeelhaar/cadence/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/cadence/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)

	cfg := &config.Config{AppEnv: "test", UserID: config.DefaultUserID, CacheTTL: time.Minute}
	container, err := app.NewContainerWithConnection(ctx, cfg, conn, nil)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	serverCfg := DefaultServerConfig()
	serverCfg.DefaultUserID = cfg.User()
	return NewServer(serverCfg, container, nil)
}

func do(t *testing.T, s *Server, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decodeBody[map[string]string](t, rec)["status"])
}

func TestCorrelationIDReachesOutbox(t *testing.T) {
	s := newTestServer(t)
	correlationID := uuid.New()

	rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Reading"},
		"X-Correlation-ID", correlationID.String())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, correlationID.String(), rec.Header().Get("X-Correlation-ID"))

	msgs, err := s.handler.container.OutboxRepo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	var metadata struct {
		CorrelationID uuid.UUID `json:"correlation_id"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].Metadata, &metadata))
	assert.Equal(t, correlationID, metadata.CorrelationID)

	rec = do(t, s, http.MethodGet, "/habits", nil)
	_, err = uuid.Parse(rec.Header().Get("X-Correlation-ID"))
	assert.NoError(t, err)
}

func TestSessionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Fitness", "total_hours_goal": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	habitID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Outdoors"})
	require.Equal(t, http.StatusCreated, rec.Code)
	outdoorsID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPost, "/activities", map[string]any{"name": "Hiking"})
	require.Equal(t, http.StatusCreated, rec.Code)
	activityID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{"weight": 0.8})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+outdoorsID, map[string]any{"weight": 1.0})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{"weight": 0.5})
	assert.Equal(t, http.StatusOK, rec.Code, "re-linking updates the weight")

	rec = do(t, s, http.MethodPost, "/sessions", map[string]any{
		"activity_id":      activityID,
		"duration_minutes": 120,
		"mood":             4,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decodeBody[sessionResponse](t, rec)
	require.Len(t, session.Contributions, 2)
	minutes := map[string]float64{}
	for _, c := range session.Contributions {
		minutes[c.HabitID.String()] = c.Minutes
	}
	assert.InDelta(t, 60.0, minutes[habitID], 1e-9)
	assert.InDelta(t, 120.0, minutes[outdoorsID], 1e-9)
	require.Len(t, session.Metrics, 2)

	t.Run("progress", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/habits/"+habitID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		progress := decodeBody[map[string]any](t, rec)
		habit := progress["habit"].(map[string]any)
		metrics := habit["metrics"].(map[string]any)
		assert.InDelta(t, 60.0, metrics["total_minutes_invested"].(float64), 1e-9)
		assert.InDelta(t, 10.0, metrics["completion_percentage"].(float64), 1e-9)
		assert.Equal(t, "1h", metrics["total_invested"])
	})

	t.Run("weekly summary", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/summary/weekly", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		summary := decodeBody[map[string]any](t, rec)
		assert.InDelta(t, 180.0, summary["total_minutes"].(float64), 1e-9)
	})

	t.Run("matrix and sessions", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/summary/matrix", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rows := decodeBody[[]map[string]any](t, rec)
		require.Len(t, rows, 1)
		assert.EqualValues(t, 2, rows[0]["linked_habits"])

		rec = do(t, s, http.MethodGet, "/sessions?limit=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decodeBody[map[string]any](t, rec)
		assert.Len(t, list["sessions"], 1)
	})

	t.Run("recompute all", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/habits/recompute", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]map[string]any](t, rec), 2)
	})

	t.Run("unlink", func(t *testing.T) {
		rec := do(t, s, http.MethodDelete, "/activities/"+activityID+"/links/"+outdoorsID, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = do(t, s, http.MethodDelete, "/activities/"+activityID+"/links/"+outdoorsID, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLinkWeightDefaultsToOne(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Reading"})
	require.Equal(t, http.StatusCreated, rec.Code)
	habitID := decodeBody[map[string]any](t, rec)["id"].(string)
	rec = do(t, s, http.MethodPost, "/activities", map[string]any{"name": "Novel"})
	require.Equal(t, http.StatusCreated, rec.Code)
	activityID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1.0, decodeBody[map[string]any](t, rec)["weight"])

	rec = do(t, s, http.MethodPost, "/sessions", map[string]any{"activity_id": activityID, "duration_minutes": 60})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decodeBody[sessionResponse](t, rec)
	require.Len(t, session.Contributions, 1)
	assert.InDelta(t, 60.0, session.Contributions[0].Minutes, 1e-9)

	t.Run("explicit weight is kept", func(t *testing.T) {
		rec := do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{"weight": 0.25})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.25, decodeBody[map[string]any](t, rec)["weight"])
	})

	t.Run("explicit zero is not replaced by the default", func(t *testing.T) {
		rec := do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{"weight": 0})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0.0, decodeBody[map[string]any](t, rec)["weight"])
	})

	t.Run("empty body links at full weight", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Writing"})
		require.Equal(t, http.StatusCreated, rec.Code)
		otherID := decodeBody[map[string]any](t, rec)["id"].(string)

		rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+otherID, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, 1.0, decodeBody[map[string]any](t, rec)["weight"])
	})
}

func TestUpdateHabitIsAllOrNothing(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Cooking"})
	require.Equal(t, http.StatusCreated, rec.Code)
	habitID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPatch, "/habits/"+habitID, map[string]any{"name": "  ", "active": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/habits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cooking", "a rejected field keeps the habit active")

	rec = do(t, s, http.MethodPatch, "/habits/"+habitID, map[string]any{"name": "Baking", "active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeBody[map[string]any](t, rec)["changed"])

	rec = do(t, s, http.MethodGet, "/habits", nil)
	assert.NotContains(t, rec.Body.String(), "Baking")
	assert.NotContains(t, rec.Body.String(), "Cooking")
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/habits/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodGet, "/habits/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/activities", map[string]any{"name": "Reading"})
	require.Equal(t, http.StatusCreated, rec.Code)
	activityID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = do(t, s, http.MethodPost, "/sessions", map[string]any{"activity_id": activityID, "duration_minutes": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	future := time.Now().AddDate(0, 0, 3).Format(time.DateOnly)
	rec = do(t, s, http.MethodPost, "/sessions", map[string]any{
		"activity_id": activityID, "duration_minutes": 30, "session_date": future,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	t.Run("other users see nothing", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/sessions",
			map[string]any{"activity_id": activityID, "duration_minutes": 30},
			"X-User-ID", uuid.NewString())
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, s, http.MethodGet, "/activities", nil, "X-User-ID", uuid.NewString())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeBody[[]map[string]any](t, rec))

		rec = do(t, s, http.MethodGet, "/activities", nil, "X-User-ID", "nope")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inactive habit rejects links", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/habits", map[string]any{"name": "Languages"})
		require.Equal(t, http.StatusCreated, rec.Code)
		habitID := decodeBody[map[string]any](t, rec)["id"].(string)

		rec = do(t, s, http.MethodPatch, "/habits/"+habitID, map[string]any{"active": false})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(t, s, http.MethodPut, "/activities/"+activityID+"/links/"+habitID, map[string]any{"weight": 0.5})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
