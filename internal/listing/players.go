package listing

import (
	"cmp"
	"strings"

	"soccer-memo/internal/models"
)

type PlayerSort string

const (
	PlayerByName     PlayerSort = "name"
	PlayerByPosition PlayerSort = "position"
	PlayerByAge      PlayerSort = "age"
)

func ParsePlayerSort(s string) PlayerSort {
	switch PlayerSort(s) {
	case PlayerByPosition, PlayerByAge:
		return PlayerSort(s)
	}
	return PlayerByName
}

type PlayerQuery struct {
	Search   string
	Country  string
	LeagueID string
	ClubID   string
	Position string
	Sort     PlayerSort
}

// Players filters and orders players. Players need Club.League loaded for
// the country and league filters.
func Players(players []models.Player, q PlayerQuery) []models.Player {
	filters := []Filter[models.Player]{
		Search(q.Search, func(p models.Player) []string { return []string{p.Name} }),
		Equals(q.Country, func(p models.Player) string {
			if p.Club == nil {
				return ""
			}
			return p.Club.Country()
		}),
		Equals(q.LeagueID, func(p models.Player) string {
			if p.Club == nil {
				return ""
			}
			return deref(p.Club.LeagueID)
		}),
		Equals(q.ClubID, func(p models.Player) string { return deref(p.ClubID) }),
		Equals(strings.ToUpper(strings.TrimSpace(q.Position)), func(p models.Player) string { return string(p.Position) }),
	}

	var primary Compare[models.Player]
	switch q.Sort {
	case PlayerByPosition:
		primary = ByText(func(p models.Player) string { return string(p.Position) })
	case PlayerByAge:
		// youngest first
		primary = func(a, b models.Player) int { return b.BirthDate.Compare(a.BirthDate) }
	default:
		primary = ByText(func(p models.Player) string { return p.Name })
	}
	return Apply(players, filters, primary, playerByID)
}

func playerByID(a, b models.Player) int { return cmp.Compare(a.ID, b.ID) }
