package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Match struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	Opponent  string    `gorm:"not null" json:"opponent"`
	IsHome    bool      `gorm:"not null" json:"is_home"`
	HomeScore int       `gorm:"not null;default:0" json:"home_score"`
	AwayScore int       `gorm:"not null;default:0" json:"away_score"`
	ClubID    *string   `gorm:"type:varchar(36);index" json:"club_id"`
	Club      *Club     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"club,omitempty"`
	Players   []Player  `gorm:"many2many:match_players;" json:"players,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Match) DisplayOpponent() string {
	return orDefault(m.Opponent, "Unknown")
}

func (m *Match) ClubName() string {
	if m.Club == nil {
		return "Unknown Club"
	}
	return m.Club.DisplayName()
}

// LeagueName is the name of the league of the match's club, empty when
// either link is missing.
func (m *Match) LeagueName() string {
	if m.Club == nil || m.Club.League == nil {
		return ""
	}
	return m.Club.League.Name
}

// Scores returns the goals of the match's own club and of the opponent.
// The home/away flag only picks the column.
func (m *Match) Scores() (own, opponent int) {
	if m.IsHome {
		return m.HomeScore, m.AwayScore
	}
	return m.AwayScore, m.HomeScore
}

func (m *Match) Result() Result {
	own, opp := m.Scores()
	switch {
	case own > opp:
		return Win
	case own == opp:
		return Draw
	default:
		return Loss
	}
}

func (m *Match) ResultDisplay() string {
	return m.Result().String()
}

func (m *Match) SortedPlayers() []Player {
	return sortedByName(m.Players, func(p Player) (string, string) { return p.Name, p.ID })
}
