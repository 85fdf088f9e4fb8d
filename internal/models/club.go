package models

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Club struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	LeagueID  *string   `gorm:"type:varchar(36);index" json:"league_id"`
	League    *League   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"league,omitempty"`
	Players   []Player  `gorm:"foreignKey:ClubID" json:"players,omitempty"`
	Matches   []Match   `gorm:"foreignKey:ClubID" json:"matches,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Club) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Club) DisplayName() string {
	return orDefault(c.Name, "Unknown")
}

func (c *Club) LeagueName() string {
	if c.League == nil {
		return "No league"
	}
	return c.League.DisplayName()
}

// Country is the country of the club's league, empty when unassigned.
func (c *Club) Country() string {
	if c.League == nil {
		return ""
	}
	return c.League.Country
}

func (c *Club) SortedPlayers() []Player {
	return sortedByName(c.Players, func(p Player) (string, string) { return p.Name, p.ID })
}

// SortedMatches returns the club's matches newest first.
func (c *Club) SortedMatches() []Match {
	return sortedByDate(c.Matches)
}

func (c *Club) Stats() ClubStats {
	return ComputeStats(c.Matches)
}

func sortedByName[T any](items []T, key func(T) (name, id string)) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		an, aid := key(a)
		bn, bid := key(b)
		if c := cmp.Compare(strings.ToLower(an), strings.ToLower(bn)); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	})
	return out
}

func sortedByDate(matches []Match) []Match {
	out := slices.Clone(matches)
	slices.SortStableFunc(out, func(a, b Match) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
