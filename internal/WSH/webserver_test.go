package wsh

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soccer-memo/internal/db/dbtest"
	"soccer-memo/internal/listing"
	"soccer-memo/internal/models"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	s := NewServer(dbtest.New(t))
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLeagueEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/leagues", map[string]any{"name": "Premier League", "country": "England", "season": "2023/24"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	league := decodeBody[models.League](t, rec)
	assert.NotEmpty(t, league.ID)

	rec = do(t, h, http.MethodPut, "/leagues/"+league.ID, map[string]any{"name": "EPL", "country": "England", "season": "2024/25"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "EPL", decodeBody[models.League](t, rec).Name)

	rec = do(t, h, http.MethodGet, "/leagues?search=ep", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.League](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/leagues/filters", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	opts := decodeBody[FilterOptions](t, rec)
	assert.Equal(t, []string{"England"}, opts.Countries)
	assert.Equal(t, []string{"2024/25"}, opts.Seasons)

	rec = do(t, h, http.MethodGet, "/leagues/"+league.ID+"/standings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]models.Standing](t, rec))

	rec = do(t, h, http.MethodDelete, "/leagues/"+league.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/leagues/"+league.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Record not found", decodeBody[map[string]string](t, rec)["error"])
}

func TestValidationFailureWritesNothing(t *testing.T) {
	s, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/players", map[string]any{
		"name": "Tiny", "position": "GK", "birth_date": "2000-01-01T00:00:00Z", "height": 139,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Height must be between 140cm and 220cm", decodeBody[map[string]string](t, rec)["error"])

	rec = do(t, h, http.MethodPost, "/matches", map[string]any{
		"date": "2024-01-01T00:00:00Z", "opponent": "Roma", "home_score": 100,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/clubs", map[string]any{"name": "  "})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Please enter a club name", decodeBody[map[string]string](t, rec)["error"])

	players, err := s.Players.FetchAllPlayers()
	require.NoError(t, err)
	assert.Empty(t, players)
	matches, err := s.Matches.FetchAllMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCreateUsesFormDefaults(t *testing.T) {
	s, h := newTestServer(t)
	s.Now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }

	rec := do(t, h, http.MethodPost, "/players", map[string]any{"name": "Kane", "height": 188})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	player := decodeBody[models.Player](t, rec)
	assert.Equal(t, models.Forward, player.Position)
	assert.Equal(t, 1995, player.BirthDate.Year())

	rec = do(t, h, http.MethodPost, "/matches", map[string]any{
		"opponent": "Spurs", "home_score": 2, "away_score": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	match := decodeBody[models.Match](t, rec)
	assert.True(t, match.IsHome)
	assert.Equal(t, models.Win, match.Result())
	assert.Equal(t, 2024, match.Date.Year())

	rec = do(t, h, http.MethodPut, "/matches/"+match.ID, map[string]any{
		"opponent": "Spurs", "date": "2024-05-01T00:00:00Z", "home_score": 2, "away_score": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decodeBody[models.Match](t, rec).IsHome)
}

func TestBadJSON(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/clubs", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClubsWithStats(t *testing.T) {
	_, h := newTestServer(t)

	var ids []string
	for _, name := range []string{"Alpha", "Beta"} {
		rec := do(t, h, http.MethodPost, "/clubs", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeBody[models.Club](t, rec).ID)
	}

	rec := do(t, h, http.MethodPost, "/matches", map[string]any{
		"date": "2024-01-01T00:00:00Z", "opponent": "Gamma", "is_home": true,
		"home_score": 0, "away_score": 2, "club_id": ids[0],
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, h, http.MethodPost, "/matches", map[string]any{
		"date": "2024-01-08T00:00:00Z", "opponent": "Delta", "is_home": false,
		"home_score": 0, "away_score": 2, "club_id": ids[1],
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/clubs?stats_sort=points", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody[[]listing.ClubRow](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "Beta", rows[0].Name)
	assert.Equal(t, 3, rows[0].Stats.Points)

	rec = do(t, h, http.MethodGet, "/clubs?stats_sort=losses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alpha", decodeBody[[]listing.ClubRow](t, rec)[0].Name)

	rec = do(t, h, http.MethodGet, "/clubs/"+ids[0]+"/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[models.ClubStats](t, rec)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 2, stats.GoalsAgainst)

	rec = do(t, h, http.MethodGet, "/matches?club="+ids[1], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Match](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/clubs/"+ids[0], nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/clubs/"+ids[0], nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodOptions, "/clubs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
