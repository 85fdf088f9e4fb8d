// Package forms validates user-entered field values before they are written.
package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"soccer-memo/internal/models"
)

const (
	MinHeight = 140
	MaxHeight = 220
	MaxScore  = 99
)

type LeagueForm struct {
	Name    string   `json:"name" validate:"required"`
	Country string   `json:"country"`
	Season  string   `json:"season"`
	ClubIDs []string `json:"club_ids" validate:"omitempty,dive,required"`
}

// ClubForm edits a club. A nil LeagueID leaves the league untouched and an
// empty one unassigns it.
type ClubForm struct {
	Name     string  `json:"name" validate:"required"`
	LeagueID *string `json:"league_id"`
}

type PlayerForm struct {
	Name      string    `json:"name" validate:"required"`
	Position  string    `json:"position" validate:"required,position"`
	BirthDate time.Time `json:"birth_date" validate:"required"`
	Height    int       `json:"height" validate:"min=140,max=220"`
	ClubID    string    `json:"club_id"`
}

type MatchForm struct {
	Date      time.Time `json:"date" validate:"required"`
	Opponent  string    `json:"opponent" validate:"required"`
	IsHome    bool      `json:"is_home"`
	HomeScore int       `json:"home_score" validate:"min=0,max=99"`
	AwayScore int       `json:"away_score" validate:"min=0,max=99"`
	ClubID    string    `json:"club_id"`
	PlayerIDs []string  `json:"player_ids" validate:"omitempty,dive,required"`
}

// NewPlayerForm returns the defaults the player form opens with.
func NewPlayerForm(now time.Time) PlayerForm {
	return PlayerForm{
		Position:  string(models.Forward),
		BirthDate: time.Date(now.Year()-29, time.January, 1, 0, 0, 0, 0, time.UTC),
		Height:    175,
	}
}

// NewMatchForm returns the defaults the match form opens with.
func NewMatchForm(now time.Time) MatchForm {
	return MatchForm{Date: now, IsHome: true}
}

// ValidationError is a single user-correctable problem with a form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return models.ErrInvalidData }

func (e *ValidationError) UserMessage() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("position", func(fl validator.FieldLevel) bool {
		return models.Position(fl.Field().String()).Valid()
	})
	return v
}

// Validate trims the text fields of a form in place and checks it. The
// returned error is a *ValidationError for the first failing field.
func Validate(form any) error {
	switch f := form.(type) {
	case *LeagueForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Country = strings.TrimSpace(f.Country)
		f.Season = strings.TrimSpace(f.Season)
	case *ClubForm:
		f.Name = strings.TrimSpace(f.Name)
		if f.LeagueID != nil {
			id := strings.TrimSpace(*f.LeagueID)
			f.LeagueID = &id
		}
	case *PlayerForm:
		f.Name = strings.TrimSpace(f.Name)
		f.Position = strings.ToUpper(strings.TrimSpace(f.Position))
		f.ClubID = strings.TrimSpace(f.ClubID)
	case *MatchForm:
		f.Opponent = strings.TrimSpace(f.Opponent)
		f.ClubID = strings.TrimSpace(f.ClubID)
	default:
		return fmt.Errorf("%w: unsupported form %T", models.ErrInvalidData, form)
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", models.ErrInvalidData, err)
	}
	return translate(form, fieldErrs[0])
}

func translate(form any, fe validator.FieldError) *ValidationError {
	field := fe.Field()
	ve := &ValidationError{Field: field}

	switch field {
	case "Name":
		switch form.(type) {
		case *LeagueForm:
			ve.Message = "Please enter a league name"
		case *ClubForm:
			ve.Message = "Please enter a club name"
		default:
			ve.Message = "Please enter a name"
		}
	case "Position":
		ve.Message = "Please select a position (GK, DF, MF or FW)"
	case "BirthDate":
		ve.Message = "Invalid date"
	case "Height":
		ve.Message = fmt.Sprintf("Height must be between %dcm and %dcm", MinHeight, MaxHeight)
	case "Date":
		ve.Message = "Please select a match date"
	case "Opponent":
		ve.Message = "Please enter an opponent"
	case "HomeScore", "AwayScore":
		ve.Message = fmt.Sprintf("Scores must be between 0 and %d", MaxScore)
	default:
		ve.Message = "Invalid data"
	}
	return ve
}

// Reference returns the validation error for an ID that does not resolve.
func Reference(field, what string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Please select a %s", what)}
}
