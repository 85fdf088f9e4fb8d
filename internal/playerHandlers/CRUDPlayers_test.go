package playerhandlers

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

func born(year int) time.Time {
	return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func createClub(t *testing.T, h *Handler, name string) models.Club {
	t.Helper()
	league := models.League{Name: name + " League", Country: "Scotland"}
	require.NoError(t, h.DB.Create(&league).Error)
	club := models.Club{Name: name, LeagueID: &league.ID}
	require.NoError(t, h.DB.Create(&club).Error)
	return club
}

func TestSavePlayer(t *testing.T) {
	h := newHandler(t)
	club := createClub(t, h, "Hearts")

	player, err := h.SavePlayer("", forms.PlayerForm{
		Name: " Lawrence Shankland ", Position: "fw", BirthDate: born(1995), Height: 183, ClubID: club.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Lawrence Shankland", player.Name)
	assert.Equal(t, models.Forward, player.Position)
	assert.Equal(t, "Hearts", player.ClubName())
	require.NotNil(t, player.Club.League)
	assert.Equal(t, "Scotland", player.Club.Country())

	moved, err := h.SavePlayer(player.ID, forms.PlayerForm{
		Name: "Lawrence Shankland", Position: "MF", BirthDate: born(1995), Height: 183,
	})
	require.NoError(t, err)
	assert.Equal(t, models.Midfielder, moved.Position)
	assert.Nil(t, moved.ClubID)
	assert.Equal(t, "No club", moved.ClubName())
}

func TestSavePlayerValidation(t *testing.T) {
	h := newHandler(t)

	cases := []struct {
		name string
		form forms.PlayerForm
		msg  string
	}{
		{"empty name", forms.PlayerForm{Position: "GK", BirthDate: born(1990), Height: 190}, "Please enter a name"},
		{"bad position", forms.PlayerForm{Name: "A", Position: "ST", BirthDate: born(1990), Height: 190}, "Please select a position (GK, DF, MF or FW)"},
		{"too short", forms.PlayerForm{Name: "A", Position: "GK", BirthDate: born(1990), Height: 139}, "Height must be between 140cm and 220cm"},
		{"too tall", forms.PlayerForm{Name: "A", Position: "GK", BirthDate: born(1990), Height: 221}, "Height must be between 140cm and 220cm"},
		{"unknown club", forms.PlayerForm{Name: "A", Position: "GK", BirthDate: born(1990), Height: 190, ClubID: "nope"}, "Please select a club"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.SavePlayer("", tc.form)
			require.ErrorIs(t, err, models.ErrInvalidData)
			assert.Equal(t, tc.msg, models.UserMessage(err))
		})
	}

	players, err := h.FetchAllPlayers()
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestDeletePlayerClearsParticipation(t *testing.T) {
	h := newHandler(t)

	_, err := h.SavePlayer("", forms.NewPlayerForm(time.Now()))
	require.Error(t, err, "default form has no name")

	form := forms.NewPlayerForm(time.Now())
	form.Name = "Craig Gordon"
	player, err := h.SavePlayer("", form)
	require.NoError(t, err)

	match := models.Match{Date: time.Now(), Opponent: "Hibs", Players: []models.Player{*player}}
	require.NoError(t, h.DB.Create(&match).Error)

	require.NoError(t, h.DeletePlayer(player.ID))

	var links int64
	require.NoError(t, h.DB.Table("match_players").Where("player_id = ?", player.ID).Count(&links).Error)
	assert.Zero(t, links)

	var kept models.Match
	require.NoError(t, h.DB.First(&kept, "id = ?", match.ID).Error)

	assert.ErrorIs(t, h.DeletePlayer(player.ID), models.ErrNotFound)
}

func TestListPlayers(t *testing.T) {
	h := newHandler(t)
	club := createClub(t, h, "Aberdeen")

	for _, f := range []forms.PlayerForm{
		{Name: "Bojan Miovski", Position: "FW", BirthDate: born(1999), Height: 186, ClubID: club.ID},
		{Name: "Kelle Roos", Position: "GK", BirthDate: born(1991), Height: 192, ClubID: club.ID},
		{Name: "Free Agent", Position: "DF", BirthDate: born(2003), Height: 180},
	} {
		_, err := h.SavePlayer("", f)
		require.NoError(t, err)
	}

	players, err := h.ListPlayers(listing.PlayerQuery{ClubID: club.ID, Sort: listing.PlayerByAge})
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Bojan Miovski", players[0].Name)

	players, err = h.ListPlayers(listing.PlayerQuery{Country: "Scotland", Position: "GK"})
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Kelle Roos", players[0].Name)

	players, err = h.ListPlayers(listing.PlayerQuery{Sort: listing.PlayerByPosition})
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, models.Defender, players[0].Position)
}
