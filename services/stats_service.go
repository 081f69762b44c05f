// services/stats_service.go - Per-entity stat aggregation
package services

import (
	"recleague/config"
	"recleague/models"

	"gorm.io/gorm"
)

// StatsService recomputes derived team and player statistics. Every
// recompute is a full replay of the entity's verified games; stored values
// are never patched incrementally, so an edit or deletion can never leave
// drift behind.
type StatsService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewStatsService(db *gorm.DB, cfg *config.Config) *StatsService {
	return &StatsService{db: db, cfg: cfg}
}

// Recalculate recomputes current-season stats for the given teams and
// players inside tx. Pass the union of old and new participants after a game
// edit so removed entities unwind and added ones apply.
func (s *StatsService) Recalculate(tx *gorm.DB, teamIDs, userIDs []uint) error {
	if err := s.RecalculateTeams(tx, teamIDs); err != nil {
		return err
	}
	return s.RecalculatePlayers(tx, userIDs)
}

// RecalculateTeams replays each team's verified games in posting order and
// replaces its wins, losses, divisional record, streak, and score
// differential.
func (s *StatsService) RecalculateTeams(tx *gorm.DB, teamIDs []uint) error {
	for _, teamID := range teamIDs {
		var games []models.Game
		err := tx.
			Preload("Team1").
			Preload("Team2").
			Where("verified = ? AND (team1_id = ? OR team2_id = ?)", true, teamID, teamID).
			Order("date_posted, id").
			Find(&games).Error
		if err != nil {
			return err
		}

		var wins, losses, divWins, divLosses, streak, scoreDiff int

		for i := range games {
			game := &games[i]
			divisional := game.IsDivisional()
			side := game.TeamSide(teamID)

			// Won if the team's side matches the winning side.
			if (side == 0) == game.DidTeam1Win() {
				wins++
				if divisional {
					divWins++
				}
				if streak >= 0 {
					streak++
				} else {
					streak = 1
				}
			} else {
				losses++
				if divisional {
					divLosses++
				}
				if streak <= 0 {
					streak--
				} else {
					streak = -1
				}
			}

			diff := game.Team1Score - game.Team2Score
			if side == 0 {
				scoreDiff += diff
			} else {
				scoreDiff -= diff
			}
		}

		err = tx.Model(&models.Team{}).Where("id = ?", teamID).Updates(map[string]any{
			"wins":       wins,
			"losses":     losses,
			"div_wins":   divWins,
			"div_losses": divLosses,
			"streak":     streak,
			"score_diff": scoreDiff,
		}).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// RecalculatePlayers zeroes each player's current-season total and
// single-game best, then folds in the player's slot record from every
// verified game they appear in.
func (s *StatsService) RecalculatePlayers(tx *gorm.DB, userIDs []uint) error {
	for _, userID := range userIDs {
		var user models.User
		err := tx.
			Preload("SeasonStats").
			Preload("SeasonHighStats").
			First(&user, userID).Error
		if err != nil {
			return err
		}

		if user.SeasonStats == nil {
			user.SeasonStats = models.NewStats(s.cfg.NumStats())
		} else {
			user.SeasonStats.Reset()
		}
		if user.SeasonHighStats == nil {
			user.SeasonHighStats = models.NewStats(s.cfg.NumStats())
		} else {
			user.SeasonHighStats.Reset()
		}

		var games []models.Game
		err = tx.
			Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
			Preload("PlayerStats", func(db *gorm.DB) *gorm.DB { return db.Order("slot") }).
			Joins("JOIN game_players ON game_players.game_id = games.id").
			Where("games.verified = ? AND game_players.user_id = ?", true, userID).
			Group("games.id").
			Find(&games).Error
		if err != nil {
			return err
		}

		for i := range games {
			game := &games[i]
			pos := game.PlayerPosition(userID)
			if pos < 0 {
				continue
			}
			slot := game.StatsForSlot(pos)
			user.SeasonStats.AddStats(slot)
			user.SeasonHighStats.MaxStats(slot)
		}

		if err := tx.Save(user.SeasonStats).Error; err != nil {
			return err
		}
		if err := tx.Save(user.SeasonHighStats).Error; err != nil {
			return err
		}

		// Attach freshly created buckets to the user.
		if user.SeasonStatsID == nil || user.SeasonHighStatsID == nil {
			err = tx.Model(&models.User{ID: userID}).Updates(map[string]any{
				"season_stats_id":      user.SeasonStats.ID,
				"season_high_stats_id": user.SeasonHighStats.ID,
			}).Error
			if err != nil {
				return err
			}
		}
	}

	return nil
}
