package playerhandlers

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

func (h *Handler) FetchAllPlayers() ([]models.Player, error) {
	var players []models.Player
	if err := h.DB.Preload("Club.League").Find(&players).Error; err != nil {
		log.Error().Err(err).Msg("fetch players")
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	return players, nil
}

func (h *Handler) ListPlayers(q listing.PlayerQuery) ([]models.Player, error) {
	players, err := h.FetchAllPlayers()
	if err != nil {
		return nil, err
	}
	return listing.Players(players, q), nil
}

func (h *Handler) GetPlayerByID(id string) (*models.Player, error) {
	var player models.Player
	err := h.DB.Preload("Club.League").Preload("Matches.Club").First(&player, "id = ?", id).Error
	if err != nil {
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	player.Matches = player.SortedMatches()
	return &player, nil
}

// SavePlayer creates a player when id is empty, otherwise updates it. An
// empty ClubID leaves the player without a club.
func (h *Handler) SavePlayer(id string, form forms.PlayerForm) (*models.Player, error) {
	if err := forms.Validate(&form); err != nil {
		return nil, err
	}

	var player models.Player
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if id != "" {
			if err := tx.First(&player, "id = ?", id).Error; err != nil {
				return err
			}
		}

		player.ClubID = nil
		if form.ClubID != "" {
			var count int64
			if err := tx.Model(&models.Club{}).Where("id = ?", form.ClubID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return forms.Reference("ClubID", "club")
			}
			player.ClubID = &form.ClubID
		}
		player.Name = form.Name
		player.Position = models.Position(form.Position)
		player.BirthDate = form.BirthDate
		player.Height = form.Height

		if id == "" {
			return tx.Omit(clause.Associations).Create(&player).Error
		}
		return tx.Omit(clause.Associations).Save(&player).Error
	})
	if err != nil {
		err = models.StorageError(models.ErrSaveFailed, err)
		log.Error().Err(err).Str("player_id", id).Msg("save player")
		return nil, err
	}

	return h.GetPlayerByID(player.ID)
}

// DeletePlayer removes a player and their match participations.
func (h *Handler) DeletePlayer(id string) error {
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		player := models.Player{ID: id}
		if err := tx.Model(&player).Association("Matches").Clear(); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Player{})
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
		log.Error().Err(err).Str("player_id", id).Msg("delete player")
		return err
	}
	return nil
}
