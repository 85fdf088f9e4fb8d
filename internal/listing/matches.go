package listing

import (
	"cmp"

	"soccer-memo/internal/models"
)

type MatchSort string

const (
	MatchByDate   MatchSort = "date"
	MatchByLeague MatchSort = "league"
)

func ParseMatchSort(s string) MatchSort {
	if MatchSort(s) == MatchByLeague {
		return MatchByLeague
	}
	return MatchByDate
}

type MatchQuery struct {
	Search   string
	Country  string
	LeagueID string
	ClubID   string
	Sort     MatchSort
}

// Matches filters and orders matches. The search text is compared with the
// opponent and with the club name. Matches need Club.League loaded.
func Matches(matches []models.Match, q MatchQuery) []models.Match {
	filters := []Filter[models.Match]{
		Search(q.Search, func(m models.Match) []string {
			fields := []string{m.Opponent}
			if m.Club != nil {
				fields = append(fields, m.Club.Name)
			}
			return fields
		}),
		Equals(q.Country, func(m models.Match) string {
			if m.Club == nil {
				return ""
			}
			return m.Club.Country()
		}),
		Equals(q.LeagueID, func(m models.Match) string {
			if m.Club == nil {
				return ""
			}
			return deref(m.Club.LeagueID)
		}),
		Equals(q.ClubID, func(m models.Match) string { return deref(m.ClubID) }),
	}

	newestFirst := func(a, b models.Match) int { return b.Date.Compare(a.Date) }
	if q.Sort == MatchByLeague {
		return Apply(matches, filters,
			ByText(func(m models.Match) string { return m.LeagueName() }),
			newestFirst, matchByID)
	}
	return Apply(matches, filters, newestFirst, matchByID)
}

func matchByID(a, b models.Match) int { return cmp.Compare(a.ID, b.ID) }
