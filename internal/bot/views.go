package bot

import (
	"fmt"
	"strings"
	"time"

	"soccer-memo/internal/models"
)

const (
	dateLayout   = "2006-01-02"
	maxListItems = 30
)

func formatList(title string, n int, line func(i int) string) string {
	if n == 0 {
		return fmt.Sprintf("%s: nothing found.", title)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d):\n", title, n)
	for i := 0; i < n && i < maxListItems; i++ {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, line(i))
	}
	if n > maxListItems {
		fmt.Fprintf(&sb, "...and %d more. Narrow the search to see them.\n", n-maxListItems)
	}
	return sb.String()
}

func formatLeague(l *models.League) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nCountry: %s\nSeason: %s\n", l.DisplayName(), l.DisplayCountry(), l.DisplaySeason())
	if len(l.Clubs) == 0 {
		sb.WriteString("No clubs yet.\n")
		return sb.String()
	}
	sb.WriteString("Clubs:\n")
	for _, c := range l.Clubs {
		fmt.Fprintf(&sb, "- %s  /club %s\n", c.DisplayName(), c.ID)
	}
	fmt.Fprintf(&sb, "Table: /standings %s\n", l.ID)
	return sb.String()
}

func formatStandings(l *models.League, table []models.Standing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", l.DisplayName(), l.Season)
	if len(table) == 0 {
		sb.WriteString("No clubs yet.\n")
		return sb.String()
	}
	sb.WriteString("#  Club  P W D L GF:GA GD Pts\n")
	for _, s := range table {
		fmt.Fprintf(&sb, "%d. %s  %d %d %d %d %d:%d %+d %d\n",
			s.Position, s.ClubName, s.Played, s.Wins, s.Draws, s.Losses,
			s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points)
	}
	return sb.String()
}

func formatClub(c *models.Club) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nLeague: %s\n", c.DisplayName(), c.LeagueName())
	if country := c.Country(); country != "" {
		fmt.Fprintf(&sb, "Country: %s\n", country)
	}

	s := c.Stats()
	fmt.Fprintf(&sb, "Played %d: %d W, %d D, %d L\nGoals %d:%d (%+d)\nPoints %d, win rate %.1f%%\n",
		s.Played, s.Wins, s.Draws, s.Losses, s.GoalsFor, s.GoalsAgainst, s.GoalDifference, s.Points, s.WinRate)

	if len(c.Players) > 0 {
		sb.WriteString("Squad:\n")
		for _, p := range c.Players {
			fmt.Fprintf(&sb, "- %s %s\n", p.DisplayPosition(), p.DisplayName())
		}
	}
	if len(c.Matches) > 0 {
		sb.WriteString("Recent matches:\n")
		for i, m := range c.Matches {
			if i == 5 {
				break
			}
			m.Club = c
			fmt.Fprintf(&sb, "- %s %s (%s)\n", m.Date.Format(dateLayout), matchLine(&m), m.ResultDisplay())
		}
	}
	return sb.String()
}

func formatPlayer(p *models.Player, now time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nPosition: %s\nBorn: %s (age %d)\nHeight: %dcm\nClub: %s\n",
		p.DisplayName(), p.DisplayPosition(), p.BirthDate.Format(dateLayout), age(p.BirthDate, now),
		p.Height, p.ClubName())
	if len(p.Matches) > 0 {
		fmt.Fprintf(&sb, "Matches played: %d\n", len(p.Matches))
		for i, m := range p.Matches {
			if i == 5 {
				break
			}
			fmt.Fprintf(&sb, "- %s %s\n", m.Date.Format(dateLayout), matchLine(&m))
		}
	}
	return sb.String()
}

func formatMatch(m *models.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\nResult: %s\n", m.Date.Format("2006-01-02 15:04"), matchLine(m), m.ResultDisplay())
	if league := m.LeagueName(); league != "" {
		fmt.Fprintf(&sb, "League: %s\n", league)
	}
	if len(m.Players) > 0 {
		sb.WriteString("Players:\n")
		for _, p := range m.Players {
			fmt.Fprintf(&sb, "- %s %s\n", p.DisplayPosition(), p.DisplayName())
		}
	}
	return sb.String()
}

// matchLine renders "Home home:away Away" with the club on its side.
func matchLine(m *models.Match) string {
	if m.IsHome {
		return fmt.Sprintf("%s %d:%d %s", m.ClubName(), m.HomeScore, m.AwayScore, m.DisplayOpponent())
	}
	return fmt.Sprintf("%s %d:%d %s", m.DisplayOpponent(), m.HomeScore, m.AwayScore, m.ClubName())
}

func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
