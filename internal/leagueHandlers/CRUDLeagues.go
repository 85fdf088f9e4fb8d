package leaguehandlers

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

func (h *Handler) FetchAllLeagues() ([]models.League, error) {
	var leagues []models.League
	if err := h.DB.Preload("Clubs").Find(&leagues).Error; err != nil {
		log.Error().Err(err).Msg("fetch leagues")
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	return leagues, nil
}

func (h *Handler) ListLeagues(q listing.LeagueQuery) ([]models.League, error) {
	leagues, err := h.FetchAllLeagues()
	if err != nil {
		return nil, err
	}
	return listing.Leagues(leagues, q), nil
}

// FilterOptions returns the values offered by the country and season menus.
func (h *Handler) FilterOptions() (countries, seasons []string, err error) {
	leagues, err := h.FetchAllLeagues()
	if err != nil {
		return nil, nil, err
	}
	return listing.AvailableCountries(leagues), listing.AvailableSeasons(leagues), nil
}

// GetLeagueByID loads a league with its clubs and their matches.
func (h *Handler) GetLeagueByID(id string) (*models.League, error) {
	var league models.League
	err := h.DB.Preload("Clubs").Preload("Clubs.Matches").First(&league, "id = ?", id).Error
	if err != nil {
		return nil, models.StorageError(models.ErrFetchFailed, err)
	}
	league.Clubs = league.SortedClubs()
	return &league, nil
}

func (h *Handler) Standings(id string) ([]models.Standing, error) {
	league, err := h.GetLeagueByID(id)
	if err != nil {
		return nil, err
	}
	return models.ComputeStandings(league.Clubs), nil
}

// SaveLeague creates a league when id is empty, otherwise updates it. A
// non-nil ClubIDs replaces the league's clubs; clubs left out are unassigned.
func (h *Handler) SaveLeague(id string, form forms.LeagueForm) (*models.League, error) {
	if err := forms.Validate(&form); err != nil {
		return nil, err
	}

	var league models.League
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if id != "" {
			if err := tx.First(&league, "id = ?", id).Error; err != nil {
				return err
			}
		}

		league.Name = form.Name
		league.Country = form.Country
		league.Season = form.Season

		var err error
		if id == "" {
			err = tx.Omit(clause.Associations).Create(&league).Error
		} else {
			err = tx.Omit(clause.Associations).Save(&league).Error
		}
		if err != nil {
			return err
		}

		if form.ClubIDs != nil {
			return assignClubs(tx, league.ID, form.ClubIDs)
		}
		return nil
	})
	if err != nil {
		err = models.StorageError(models.ErrSaveFailed, err)
		log.Error().Err(err).Str("league_id", id).Msg("save league")
		return nil, err
	}

	return h.GetLeagueByID(league.ID)
}

func assignClubs(tx *gorm.DB, leagueID string, clubIDs []string) error {
	ids := slices.Clone(clubIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	unassign := tx.Model(&models.Club{}).Where("league_id = ?", leagueID)
	if len(ids) > 0 {
		var count int64
		if err := tx.Model(&models.Club{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(ids) {
			return forms.Reference("ClubIDs", "club")
		}
		unassign = unassign.Where("id NOT IN ?", ids)
	}
	if err := unassign.Update("league_id", nil).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.Club{}).Where("id IN ?", ids).Update("league_id", leagueID).Error
}

// DeleteLeague removes a league. Its clubs stay and become unassigned.
func (h *Handler) DeleteLeague(id string) error {
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Club{}).Where("league_id = ?", id).Update("league_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.League{})
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
		log.Error().Err(err).Str("league_id", id).Msg("delete league")
		return err
	}
	return nil
}
