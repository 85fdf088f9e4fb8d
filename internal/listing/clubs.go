package listing

import (
	"cmp"

	"soccer-memo/internal/models"
)

type ClubSort string

const (
	ClubByName    ClubSort = "name"
	ClubByLeague  ClubSort = "league"
	ClubByCountry ClubSort = "country"
)

func ParseClubSort(s string) ClubSort {
	switch ClubSort(s) {
	case ClubByLeague, ClubByCountry:
		return ClubSort(s)
	}
	return ClubByName
}

// ClubStatsSort orders clubs by a statistics column, highest first.
type ClubStatsSort string

const (
	StatsNone         ClubStatsSort = "none"
	StatsPoints       ClubStatsSort = "points"
	StatsWins         ClubStatsSort = "wins"
	StatsLosses       ClubStatsSort = "losses"
	StatsGoalsFor     ClubStatsSort = "goals_for"
	StatsGoalsAgainst ClubStatsSort = "goals_against"
)

// ParseClubStatsSort defaults to points, the list's initial order.
func ParseClubStatsSort(s string) ClubStatsSort {
	switch ClubStatsSort(s) {
	case StatsNone, StatsWins, StatsLosses, StatsGoalsFor, StatsGoalsAgainst:
		return ClubStatsSort(s)
	}
	return StatsPoints
}

type ClubQuery struct {
	Search    string
	Country   string
	LeagueID  string
	Sort      ClubSort
	StatsSort ClubStatsSort
}

// ClubRow is a club with its computed statistics.
type ClubRow struct {
	models.Club
	Stats models.ClubStats `json:"stats"`
}

// Clubs filters and orders clubs. The statistics key is the primary order
// and the basic key breaks its ties. Clubs need League and Matches loaded.
func Clubs(clubs []models.Club, q ClubQuery) []ClubRow {
	rows := make([]ClubRow, len(clubs))
	for i := range clubs {
		rows[i] = ClubRow{Club: clubs[i], Stats: models.ComputeStats(clubs[i].Matches)}
	}

	filters := []Filter[ClubRow]{
		Search(q.Search, func(r ClubRow) []string { return []string{r.Name} }),
		Equals(q.Country, func(r ClubRow) string { return r.Club.Country() }),
		Equals(q.LeagueID, func(r ClubRow) string { return deref(r.LeagueID) }),
	}
	return Apply(rows, filters, clubStatsOrder(q.StatsSort), clubBasicOrder(q.Sort), clubByID)
}

func clubStatsOrder(s ClubStatsSort) Compare[ClubRow] {
	var key func(ClubRow) int
	switch s {
	case StatsNone:
		return nil
	case StatsWins:
		key = func(r ClubRow) int { return r.Stats.Wins }
	case StatsLosses:
		key = func(r ClubRow) int { return r.Stats.Losses }
	case StatsGoalsFor:
		key = func(r ClubRow) int { return r.Stats.GoalsFor }
	case StatsGoalsAgainst:
		key = func(r ClubRow) int { return r.Stats.GoalsAgainst }
	default:
		key = func(r ClubRow) int { return r.Stats.Points }
	}
	return Descending(By(key))
}

func clubBasicOrder(s ClubSort) Compare[ClubRow] {
	switch s {
	case ClubByLeague:
		return ByText(func(r ClubRow) string {
			if r.League == nil {
				return ""
			}
			return r.League.Name
		})
	case ClubByCountry:
		return ByText(func(r ClubRow) string { return r.Club.Country() })
	default:
		return ByText(func(r ClubRow) string { return r.Name })
	}
}

func clubByID(a, b ClubRow) int { return cmp.Compare(a.ID, b.ID) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
