package listing

import (
	"cmp"

	"soccer-memo/internal/models"
)

type LeagueSort string

const (
	LeagueByName    LeagueSort = "name"
	LeagueByCountry LeagueSort = "country"
)

func ParseLeagueSort(s string) LeagueSort {
	if LeagueSort(s) == LeagueByCountry {
		return LeagueByCountry
	}
	return LeagueByName
}

type LeagueQuery struct {
	Search  string
	Country string
	Season  string
	Sort    LeagueSort
}

func Leagues(leagues []models.League, q LeagueQuery) []models.League {
	filters := []Filter[models.League]{
		Search(q.Search, func(l models.League) []string { return []string{l.Name} }),
		Equals(q.Country, func(l models.League) string { return l.Country }),
		Equals(q.Season, func(l models.League) string { return l.Season }),
	}

	var primary Compare[models.League]
	switch q.Sort {
	case LeagueByCountry:
		primary = ByText(func(l models.League) string { return l.Country })
	default:
		primary = ByText(func(l models.League) string { return l.Name })
	}
	return Apply(leagues, filters, primary, leagueByID)
}

func leagueByID(a, b models.League) int { return cmp.Compare(a.ID, b.ID) }
