package listing

import (
	"cmp"
	"slices"
	"strings"

	"soccer-memo/internal/models"
)

// AvailableCountries lists the distinct non-empty league countries A→Z.
func AvailableCountries(leagues []models.League) []string {
	return distinct(leagues, func(l models.League) string { return l.Country }, false)
}

// AvailableSeasons lists the distinct non-empty seasons, latest first.
func AvailableSeasons(leagues []models.League) []string {
	return distinct(leagues, func(l models.League) string { return l.Season }, true)
}

// LeaguesInCountry narrows the league menu once a country is picked.
func LeaguesInCountry(leagues []models.League, country string) []models.League {
	return Apply(leagues,
		[]Filter[models.League]{Equals(country, func(l models.League) string { return l.Country })},
		ByText(func(l models.League) string { return l.Name }), leagueByID)
}

// AvailableClubs lists the clubs offered by the club filter: those of the
// selected league, else of every league in the selected country, else of
// every league. Leagues need Clubs loaded.
func AvailableClubs(leagues []models.League, country, leagueID string) []models.Club {
	seen := make(map[string]bool)
	var clubs []models.Club
	for _, l := range leagues {
		if leagueID != "" && l.ID != leagueID {
			continue
		}
		if leagueID == "" && country != "" && l.Country != country {
			continue
		}
		for _, c := range l.Clubs {
			if !seen[c.ID] {
				seen[c.ID] = true
				clubs = append(clubs, c)
			}
		}
	}
	slices.SortStableFunc(clubs, func(a, b models.Club) int {
		if c := cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return clubs
}

func distinct(leagues []models.League, key func(models.League) string, desc bool) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, l := range leagues {
		v := key(l)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	slices.Sort(values)
	if desc {
		slices.Reverse(values)
	}
	return values
}
