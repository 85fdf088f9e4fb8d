package clubhandlers

import (
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

// FetchAllClubs loads every club with its league and matches, which is what
// the list screen needs for filtering and the statistics sort.
func (h *Handler) FetchAllClubs() ([]models.Club, error) {
	var clubs []models.Club
	if err := h.DB.Preload("League").Preload("Matches").Find(&clubs).Error; err != nil {
		log.Error().Err(err).Msg("fetch clubs")
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	return clubs, nil
}

func (h *Handler) ListClubs(q listing.ClubQuery) ([]listing.ClubRow, error) {
	clubs, err := h.FetchAllClubs()
	if err != nil {
		return nil, err
	}
	return listing.Clubs(clubs, q), nil
}

func (h *Handler) GetClubByID(id string) (*models.Club, error) {
	var club models.Club
	err := h.DB.Preload("League").Preload("Players").Preload("Matches").First(&club, "id = ?", id).Error
	if err != nil {
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	club.Players = club.SortedPlayers()
	club.Matches = club.SortedMatches()
	return &club, nil
}

func (h *Handler) ClubStats(id string) (models.ClubStats, error) {
	club, err := h.GetClubByID(id)
	if err != nil {
		return models.ClubStats{}, err
	}
	return club.Stats(), nil
}

// SaveClub creates a club when id is empty, otherwise updates it.
func (h *Handler) SaveClub(id string, form forms.ClubForm) (*models.Club, error) {
	if err := forms.Validate(&form); err != nil {
		return nil, err
	}

	var club models.Club
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if id != "" {
			if err := tx.First(&club, "id = ?", id).Error; err != nil {
				return err
			}
		}

		club.Name = form.Name
		if form.LeagueID != nil {
			club.LeagueID = nil
			if *form.LeagueID != "" {
				var count int64
				if err := tx.Model(&models.League{}).Where("id = ?", *form.LeagueID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return forms.Reference("LeagueID", "league")
				}
				leagueID := *form.LeagueID
				club.LeagueID = &leagueID
			}
		}
		club.League = nil

		if id == "" {
			return tx.Omit(clause.Associations).Create(&club).Error
		}
		return tx.Omit(clause.Associations).Save(&club).Error
	})
	if err != nil {
		err = models.StorageError(models.ErrSaveFailed, err)
		log.Error().Err(err).Str("club_id", id).Msg("save club")
		return nil, err
	}

	return h.GetClubByID(club.ID)
}

// DeleteClub removes a club. Its players and matches are kept without a club.
func (h *Handler) DeleteClub(id string) error {
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Player{}).Where("club_id = ?", id).Update("club_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Match{}).Where("club_id = ?", id).Update("club_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Club{})
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
		log.Error().Err(err).Str("club_id", id).Msg("delete club")
		return err
	}
	return nil
}
