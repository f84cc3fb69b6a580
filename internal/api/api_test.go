package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mshel/autosnake/internal/game"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScores struct {
	scores []game.Score
	err    error
}

func (f fakeScores) GetHighScores(limit, offset int) ([]game.Score, error) {
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.scores) {
		return nil, nil
	}
	end := min(len(f.scores), offset+limit)
	return f.scores[offset:end], nil
}

func (f fakeScores) GetTotalScoreCount() (int, error) { return len(f.scores), f.err }

func newTestRouter(scores ScoreLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(scores, log.New(io.Discard)))
}

func postPlan(t *testing.T, router *gin.Engine, body any) (*httptest.ResponseRecorder, PlanResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp PlanResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestPlan_ShortestPath(t *testing.T) {
	w, resp := postPlan(t, newTestRouter(nil), PlanRequest{
		Width:     4,
		Height:    4,
		Body:      []game.Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}},
		Direction: "right",
		Targets:   []game.Coordinate{{X: 2, Y: 1}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, resp.Found)
	assert.Equal(t, []game.Coordinate{{X: 2, Y: 1}}, resp.Path)
	assert.Equal(t, "up", resp.Direction)
	assert.Equal(t, "shortest-path", resp.Tier)
}

func TestPlan_NoMoveIsNotAnError(t *testing.T) {
	w, resp := postPlan(t, newTestRouter(nil), PlanRequest{
		Width:  3,
		Height: 3,
		Body:   []game.Coordinate{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		Seed:   1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.False(t, resp.Found)
	assert.Empty(t, resp.Path)
	assert.Equal(t, "none", resp.Direction)
	assert.Equal(t, "none", resp.Tier)
}

func TestPlan_BadRequests(t *testing.T) {
	valid := []game.Coordinate{{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}}
	cases := []struct {
		name string
		req  PlanRequest
	}{
		{"ZeroGrid", PlanRequest{Width: 0, Height: 4, Body: valid}},
		{"ShortBody", PlanRequest{Width: 4, Height: 4, Body: valid[:2]}},
		{"BrokenBody", PlanRequest{Width: 4, Height: 4, Body: []game.Coordinate{{X: 0, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 1}}}},
		{"BodyOffGrid", PlanRequest{Width: 2, Height: 4, Body: valid}},
		{"UnknownDirection", PlanRequest{Width: 4, Height: 4, Body: valid, Direction: "diagonal"}},
		{"TargetOffGrid", PlanRequest{Width: 4, Height: 4, Body: valid, Targets: []game.Coordinate{{X: 9, Y: 9}}}},
		{"NegativeMoves", PlanRequest{Width: 4, Height: 4, Body: valid, MovesSinceLastCapture: -1}},
		{"GridTooLarge", PlanRequest{Width: 257, Height: 4, Body: valid}},
		{"GridProductOverflows", PlanRequest{Width: math.MaxInt, Height: math.MaxInt, Body: valid}},
		{"TargetOnBody", PlanRequest{Width: 4, Height: 4, Body: []game.Coordinate{{X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}},
			Direction: "right", Targets: []game.Coordinate{{X: 1, Y: 0}}, MovesSinceLastCapture: 160}},
	}
	router := newTestRouter(nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, _ := postPlan(t, router, tc.req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestHighScores(t *testing.T) {
	scores := fakeScores{scores: []game.Score{
		{ID: 1, PlayerName: "bot", Score: 40},
		{ID: 2, PlayerName: "ana", Score: 12},
		{ID: 3, PlayerName: "cy", Score: 3},
	}}
	router := newTestRouter(scores)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/highscores?limit=2&offset=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp HighScoresResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, "ana", resp.Scores[0].PlayerName)

	for _, query := range []string{"?limit=0", "?limit=101", "?limit=x", "?offset=-1"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/highscores"+query, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestHighScores_StoreFailure(t *testing.T) {
	router := newTestRouter(fakeScores{err: errors.New("disk gone")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/highscores", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHighScores_NotMountedWithoutStore(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/highscores", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
