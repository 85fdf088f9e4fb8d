package matchhandlers

import (
	"slices"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"soccer-memo/internal/forms"
	"soccer-memo/internal/listing"
	"soccer-memo/internal/models"
)

type Handler struct {
	models.Handler
}

func (h *Handler) FetchAllMatches() ([]models.Match, error) {
	var matches []models.Match
	if err := h.DB.Preload("Club.League").Find(&matches).Error; err != nil {
		log.Error().Err(err).Msg("fetch matches")
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	return matches, nil
}

func (h *Handler) ListMatches(q listing.MatchQuery) ([]models.Match, error) {
	matches, err := h.FetchAllMatches()
	if err != nil {
		return nil, err
	}
	return listing.Matches(matches, q), nil
}

func (h *Handler) GetMatchByID(id string) (*models.Match, error) {
	var match models.Match
	err := h.DB.Preload("Club.League").Preload("Players").First(&match, "id = ?", id).Error
	if err != nil {
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	match.Players = match.SortedPlayers()
	return &match, nil
}

// SaveMatch creates a match when id is empty, otherwise updates it. The
// participant set is replaced by form.PlayerIDs.
func (h *Handler) SaveMatch(id string, form forms.MatchForm) (*models.Match, error) {
	if err := forms.Validate(&form); err != nil {
		return nil, err
	}

	var match models.Match
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if id != "" {
			if err := tx.First(&match, "id = ?", id).Error; err != nil {
				return err
			}
		}

		match.ClubID = nil
		if form.ClubID != "" {
			var count int64
			if err := tx.Model(&models.Club{}).Where("id = ?", form.ClubID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return forms.Reference("ClubID", "club")
			}
			match.ClubID = &form.ClubID
		}

		var players []models.Player
		ids := slices.Clone(form.PlayerIDs)
		slices.Sort(ids)
		ids = slices.Compact(ids)
		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Find(&players).Error; err != nil {
				return err
			}
			if len(players) != len(ids) {
				return forms.Reference("PlayerIDs", "player")
			}
		}

		match.Date = form.Date
		match.Opponent = form.Opponent
		match.IsHome = form.IsHome
		match.HomeScore = form.HomeScore
		match.AwayScore = form.AwayScore

		var err error
		if id == "" {
			err = tx.Omit(clause.Associations).Create(&match).Error
		} else {
			err = tx.Omit(clause.Associations).Save(&match).Error
		}
		if err != nil {
			return err
		}

		participants := tx.Model(&match).Omit("Players.*").Association("Players")
		if len(players) == 0 {
			return participants.Clear()
		}
		return participants.Replace(players)
	})
	if err != nil {
		err = models.StorageError(models.ErrSaveFailed, err)
		log.Error().Err(err).Str("match_id", id).Msg("save match")
		return nil, err
	}

	return h.GetMatchByID(match.ID)
}

// DeleteMatch removes a match together with its participant rows.
func (h *Handler) DeleteMatch(id string) error {
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		match := models.Match{ID: id}
		if err := tx.Model(&match).Association("Players").Clear(); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Match{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		err = models.StorageError(models.ErrDeleteFailed, err)
		log.Error().Err(err).Str("match_id", id).Msg("delete match")
		return err
	}
	return nil
}
