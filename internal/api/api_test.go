package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kemiem/schiffe-versenken-ms4/internal/api"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/apierr"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/api/response"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/factory"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/model"
	"github.com/Kemiem/schiffe-versenken-ms4/internal/testutil"
)

// testServer wires the router to a test app with mocked clock and randomness
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Status:   app.Coordinator,
		Storage:  app.Storage,
		Hub:      app.Hub,
		Sessions: app.Gateway,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) archive(t *testing.T, summary *model.MatchSummary) {
	t.Helper()
	require.NoError(t, ts.app.Storage.SaveMatchSummary(context.Background(), summary))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func summary(id, winner, loser string, finished time.Time) *model.MatchSummary {
	return &model.MatchSummary{
		ID:          model.MatchID(id),
		PlayerNames: [2]string{winner, loser},
		WinnerName:  winner,
		Reason:      model.FinishSunk,
		ShotCount:   12,
		StartedAt:   finished.Add(-time.Minute),
		FinishedAt:  finished,
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestStatusWhileWaiting(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.app.Coordinator.Join("a", "Alice"))

	rr := ts.request(http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rr.Code)

	status := decode[response.Status](t, rr)
	assert.Equal(t, "waiting", status.Phase)
	require.Len(t, status.Participants, 1)
	assert.Equal(t, "Alice", status.Participants[0].Name)
	assert.Empty(t, status.Players)
	assert.Nil(t, status.CurrentTurn)
}

func TestStatusDuringMatch(t *testing.T) {
	ts := newTestServer(t)
	ts.app.QueueBoard(0, 0, 3, 3)
	ts.app.QueueBoard(0, 0, 3, 3)
	require.NoError(t, ts.app.Coordinator.Join("a", "Alice"))
	require.NoError(t, ts.app.Coordinator.Join("b", "Bob"))
	require.NoError(t, ts.app.Coordinator.Shoot("a", 2, 2))

	rr := ts.request(http.MethodGet, "/api/v1/status")
	require.Equal(t, http.StatusOK, rr.Code)

	status := decode[response.Status](t, rr)
	assert.Equal(t, "playing", status.Phase)
	assert.NotEmpty(t, status.MatchID)
	require.Len(t, status.Players, 2)
	assert.Equal(t, "Alice", status.Players[0].Name)
	require.NotNil(t, status.CurrentTurn)
	assert.Equal(t, "b", *status.CurrentTurn)
	assert.Equal(t, 1, status.ShotCount)

	// No board contents leak into the public overview
	assert.NotContains(t, rr.Body.String(), "ships")
}

func TestMatchHistory(t *testing.T) {
	ts := newTestServer(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.archive(t, summary("m1", "Alice", "Bob", now))
	ts.archive(t, summary("m2", "Bob", "Alice", now.Add(time.Minute)))

	rr := ts.request(http.MethodGet, "/api/v1/matches")
	require.Equal(t, http.StatusOK, rr.Code)
	history := decode[response.MatchHistory](t, rr)
	require.Len(t, history.Matches, 2)
	assert.Equal(t, "m2", history.Matches[0].ID)
	require.NotNil(t, history.Matches[0].Winner)
	assert.Equal(t, "Bob", *history.Matches[0].Winner)

	rr = ts.request(http.MethodGet, "/api/v1/matches?limit=1")
	require.Equal(t, http.StatusOK, rr.Code)
	history = decode[response.MatchHistory](t, rr)
	require.Len(t, history.Matches, 1)
	assert.Equal(t, "m2", history.Matches[0].ID)
}

func TestMatchHistoryEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/matches")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"matches":[]}`, rr.Body.String())
}

func TestMatchHistoryInvalidLimit(t *testing.T) {
	ts := newTestServer(t)

	for _, limit := range []string{"abc", "-1", "1.5"} {
		rr := ts.request(http.MethodGet, "/api/v1/matches?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rr.Code, limit)
		resp := decode[apierr.ErrorResponse](t, rr)
		assert.Equal(t, apierr.CodeInvalidRequest, resp.Error.Code)
	}
}

func TestGetMatch(t *testing.T) {
	ts := newTestServer(t)
	ts.archive(t, summary("m1", "Alice", "Bob", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))

	rr := ts.request(http.MethodGet, "/api/v1/matches/m1")
	require.Equal(t, http.StatusOK, rr.Code)
	match := decode[response.MatchSummary](t, rr)
	assert.Equal(t, []string{"Alice", "Bob"}, match.Players)
	assert.Equal(t, "sunk", match.Reason)
	assert.Equal(t, 12, match.ShotCount)

	rr = ts.request(http.MethodGet, "/api/v1/matches/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeNotFound, resp.Error.Code)
}

func TestPlayerRecord(t *testing.T) {
	ts := newTestServer(t)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.archive(t, summary("m1", "Alice", "Bob", now))
	ts.archive(t, summary("m2", "Alice", "Bob", now.Add(time.Minute)))

	rr := ts.request(http.MethodGet, "/api/v1/players/ALICE/record")
	require.Equal(t, http.StatusOK, rr.Code)
	record := decode[response.PlayerRecord](t, rr)
	assert.Equal(t, 2, record.Wins)
	assert.Equal(t, 0, record.Losses)

	rr = ts.request(http.MethodGet, "/api/v1/players/bob/record")
	require.Equal(t, http.StatusOK, rr.Code)
	record = decode[response.PlayerRecord](t, rr)
	assert.Equal(t, 2, record.Losses)
}

func TestPlayerRecordNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/players/nobody/record")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeNotFound, resp.Error.Code)
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/ws")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/lobbies")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
