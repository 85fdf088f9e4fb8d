package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type League struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Country   string    `json:"country"`
	Season    string    `json:"season"`
	Clubs     []Club    `gorm:"foreignKey:LeagueID" json:"clubs,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *League) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

func (l *League) DisplayName() string {
	return orDefault(l.Name, "Unknown League")
}

func (l *League) DisplayCountry() string {
	return orDefault(l.Country, "Unknown Country")
}

func (l *League) DisplaySeason() string {
	return orDefault(l.Season, "Unknown Season")
}

// SortedClubs returns the league's clubs ordered by name.
func (l *League) SortedClubs() []Club {
	return sortedByName(l.Clubs, func(c Club) (string, string) { return c.Name, c.ID })
}

func orDefault(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
