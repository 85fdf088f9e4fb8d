package leaguehandlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soccer-memo/internal/db/dbtest"
	"soccer-memo/internal/forms"
	"soccer-memo/internal/listing"
	"soccer-memo/internal/models"
)

func newHandler(t *testing.T) *Handler {
	return &Handler{models.Handler{DB: dbtest.New(t)}}
}

func createClub(t *testing.T, h *Handler, name string, leagueID *string) models.Club {
	t.Helper()
	club := models.Club{Name: name, LeagueID: leagueID}
	require.NoError(t, h.DB.Create(&club).Error)
	return club
}

func TestSaveLeagueCreatesAndUpdates(t *testing.T) {
	h := newHandler(t)

	league, err := h.SaveLeague("", forms.LeagueForm{Name: "  Premier League ", Country: "England", Season: "2023/24"})
	require.NoError(t, err)
	assert.NotEmpty(t, league.ID)
	assert.Equal(t, "Premier League", league.Name)

	updated, err := h.SaveLeague(league.ID, forms.LeagueForm{Name: "EPL", Country: "England", Season: "2024/25"})
	require.NoError(t, err)
	assert.Equal(t, league.ID, updated.ID)
	assert.Equal(t, "EPL", updated.Name)
	assert.Equal(t, "2024/25", updated.Season)

	all, err := h.FetchAllLeagues()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaveLeagueRejectsEmptyName(t *testing.T) {
	h := newHandler(t)

	_, err := h.SaveLeague("", forms.LeagueForm{Name: "   "})
	require.ErrorIs(t, err, models.ErrInvalidData)
	assert.Equal(t, "Please enter a league name", models.UserMessage(err))

	all, err := h.FetchAllLeagues()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSaveLeagueUnknownID(t *testing.T) {
	h := newHandler(t)

	_, err := h.SaveLeague("missing", forms.LeagueForm{Name: "Serie A"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSaveLeagueReplacesClubs(t *testing.T) {
	h := newHandler(t)

	league, err := h.SaveLeague("", forms.LeagueForm{Name: "La Liga", Country: "Spain"})
	require.NoError(t, err)

	barca := createClub(t, h, "Barcelona", &league.ID)
	betis := createClub(t, h, "Real Betis", &league.ID)
	sevilla := createClub(t, h, "Sevilla", nil)

	saved, err := h.SaveLeague(league.ID, forms.LeagueForm{
		Name:    "La Liga",
		Country: "Spain",
		ClubIDs: []string{sevilla.ID, barca.ID, barca.ID},
	})
	require.NoError(t, err)
	require.Len(t, saved.Clubs, 2)
	assert.Equal(t, "Barcelona", saved.Clubs[0].Name)
	assert.Equal(t, "Sevilla", saved.Clubs[1].Name)

	var reloaded models.Club
	require.NoError(t, h.DB.First(&reloaded, "id = ?", betis.ID).Error)
	assert.Nil(t, reloaded.LeagueID)

	emptied, err := h.SaveLeague(league.ID, forms.LeagueForm{Name: "La Liga", ClubIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, emptied.Clubs)
}

func TestSaveLeagueUnknownClubRollsBack(t *testing.T) {
	h := newHandler(t)

	_, err := h.SaveLeague("", forms.LeagueForm{Name: "Ligue 1", ClubIDs: []string{"nope"}})
	require.ErrorIs(t, err, models.ErrInvalidData)
	assert.Equal(t, "Please select a club", models.UserMessage(err))

	all, err := h.FetchAllLeagues()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteLeagueUnassignsClubs(t *testing.T) {
	h := newHandler(t)

	league, err := h.SaveLeague("", forms.LeagueForm{Name: "Bundesliga", Country: "Germany"})
	require.NoError(t, err)
	club := createClub(t, h, "Bayern", &league.ID)

	require.NoError(t, h.DeleteLeague(league.ID))

	var reloaded models.Club
	require.NoError(t, h.DB.First(&reloaded, "id = ?", club.ID).Error)
	assert.Nil(t, reloaded.LeagueID)

	_, err = h.GetLeagueByID(league.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, h.DeleteLeague(league.ID), models.ErrNotFound)
}

func TestStandings(t *testing.T) {
	h := newHandler(t)

	league, err := h.SaveLeague("", forms.LeagueForm{Name: "Eredivisie"})
	require.NoError(t, err)
	ajax := createClub(t, h, "Ajax", &league.ID)
	psv := createClub(t, h, "PSV", &league.ID)

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	matches := []models.Match{
		{Date: day, Opponent: "Feyenoord", IsHome: true, HomeScore: 2, AwayScore: 0, ClubID: &psv.ID},
		{Date: day, Opponent: "Twente", IsHome: false, HomeScore: 1, AwayScore: 1, ClubID: &ajax.ID},
	}
	require.NoError(t, h.DB.Create(&matches).Error)

	table, err := h.Standings(league.ID)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, 1, table[0].Position)
	assert.Equal(t, "PSV", table[0].ClubName)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, "Ajax", table[1].ClubName)
	assert.Equal(t, 1, table[1].Points)
}

func TestListLeaguesAndFilterOptions(t *testing.T) {
	h := newHandler(t)

	for _, f := range []forms.LeagueForm{
		{Name: "Serie A", Country: "Italy", Season: "2022/23"},
		{Name: "Serie B", Country: "Italy", Season: "2023/24"},
		{Name: "Primeira Liga", Country: "Portugal", Season: "2023/24"},
	} {
		_, err := h.SaveLeague("", f)
		require.NoError(t, err)
	}

	leagues, err := h.ListLeagues(listing.LeagueQuery{Search: "serie", Sort: listing.LeagueByName})
	require.NoError(t, err)
	require.Len(t, leagues, 2)
	assert.Equal(t, "Serie A", leagues[0].Name)

	countries, seasons, err := h.FilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"Italy", "Portugal"}, countries)
	assert.Equal(t, []string{"2023/24", "2022/23"}, seasons)
}
