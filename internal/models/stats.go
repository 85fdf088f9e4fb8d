package models

import (
	"cmp"
	"slices"
	"strings"
)

type Result int

const (
	Loss Result = iota
	Draw
	Win
)

func (r Result) String() string {
	switch r {
	case Win:
		return "Win"
	case Draw:
		return "Draw"
	default:
		return "Loss"
	}
}

// ClubStats is the record of one club computed from its matches.
type ClubStats struct {
	Played         int     `json:"played"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	Points         int     `json:"points"`
	GoalDifference int     `json:"goal_difference"`
	WinRate        float64 `json:"win_rate"`
}

// ComputeStats aggregates a club's matches. An empty slice gives zero stats.
func ComputeStats(matches []Match) ClubStats {
	var s ClubStats
	for i := range matches {
		own, opp := matches[i].Scores()
		s.GoalsFor += own
		s.GoalsAgainst += opp
		switch matches[i].Result() {
		case Win:
			s.Wins++
		case Draw:
			s.Draws++
		default:
			s.Losses++
		}
	}
	s.Played = s.Wins + s.Draws + s.Losses
	s.Points = s.Wins*3 + s.Draws
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	if s.Played > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Played) * 100
	}
	return s
}

// Standing is one row of a league table.
type Standing struct {
	Position int    `json:"position"`
	ClubID   string `json:"club_id"`
	ClubName string `json:"club_name"`
	ClubStats
}

// ComputeStandings ranks clubs by points, then goal difference, goals
// scored, name and finally ID. Each club's Matches must be loaded.
func ComputeStandings(clubs []Club) []Standing {
	table := make([]Standing, 0, len(clubs))
	for i := range clubs {
		table = append(table, Standing{
			ClubID:    clubs[i].ID,
			ClubName:  clubs[i].DisplayName(),
			ClubStats: ComputeStats(clubs[i].Matches),
		})
	}

	slices.SortStableFunc(table, CompareStandings)
	for i := range table {
		table[i].Position = i + 1
	}
	return table
}

func CompareStandings(a, b Standing) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalDifference, a.GoalDifference); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GoalsFor, a.GoalsFor); c != 0 {
		return c
	}
	if c := cmp.Compare(strings.ToLower(a.ClubName), strings.ToLower(b.ClubName)); c != 0 {
		return c
	}
	return cmp.Compare(a.ClubID, b.ClubID)
}
