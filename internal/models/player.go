package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DF"
	Midfielder Position = "MF"
	Forward    Position = "FW"
)

// Positions lists the positions in pitch order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

func (p Position) Valid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

type Player struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Position  Position  `gorm:"type:varchar(2);not null" json:"position"`
	BirthDate time.Time `gorm:"not null" json:"birth_date"`
	Height    int       `gorm:"not null" json:"height"`
	ClubID    *string   `gorm:"type:varchar(36);index" json:"club_id"`
	Club      *Club     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"club,omitempty"`
	Matches   []Match   `gorm:"many2many:match_players;" json:"matches,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Player) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Player) DisplayName() string {
	return orDefault(p.Name, "Unknown")
}

func (p *Player) DisplayPosition() string {
	return orDefault(string(p.Position), "Unknown")
}

func (p *Player) ClubName() string {
	if p.Club == nil {
		return "No club"
	}
	return p.Club.DisplayName()
}

// SortedMatches returns the matches the player took part in, newest first.
func (p *Player) SortedMatches() []Match {
	return sortedByDate(p.Matches)
}
