// services/game_service.go - Game submission, editing, and verification
package services

import (
	"errors"
	"fmt"
	"time"

	"recleague/config"
	"recleague/models"

	"gorm.io/gorm"
)

var (
	ErrGameAlreadyVerified = errors.New("game has already been verified")
	ErrSeasonNotActive     = errors.New("no active season accepting game submissions")
)

// GameInput carries a full game submission or edit. Player positions 0..N-1
// are team 1's slots, N..2N-1 team 2's; PlayerStats is indexed the same way.
type GameInput struct {
	Team1ID uint `json:"team_1_id"`
	Team2ID uint `json:"team_2_id"`

	Team1Score int `json:"team_1_score"`
	Team2Score int `json:"team_2_score"`

	PlayerIDs   []uint  `json:"player_ids"`
	PlayerStats [][]int `json:"player_stats"`

	Comment     string `json:"comment"`
	PictureFile string `json:"picture_file"`
}

// GameService owns the game lifecycle. Every mutation that touches a
// verified game recomputes stats for the union of old and new participants
// within the same transaction.
type GameService struct {
	db    *gorm.DB
	cfg   *config.Config
	stats *StatsService
}

func NewGameService(db *gorm.DB, cfg *config.Config, stats *StatsService) *GameService {
	return &GameService{db: db, cfg: cfg, stats: stats}
}

// GetGame loads a game with teams, ordered players, and per-slot stats.
func (s *GameService) GetGame(gameID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.
		Preload("Team1").
		Preload("Team2").
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Players.User").
		Preload("PlayerStats", func(db *gorm.DB) *gorm.DB { return db.Order("slot") }).
		First(&game, gameID).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// IsUserModifiable reports whether the user may edit or delete the game:
// admins always, participants only while the game is unverified.
func (s *GameService) IsUserModifiable(game *models.Game, user *models.User) bool {
	if user.IsAdmin {
		return true
	}
	return !game.Verified && game.PlayerPosition(user.ID) >= 0
}

func (s *GameService) validate(in *GameInput) error {
	n := s.cfg.NumTeamPlayers

	if in.Team1ID == in.Team2ID {
		return fmt.Errorf("a game requires two different teams")
	}
	if len(in.PlayerIDs) != 2*n {
		return fmt.Errorf("game requires %d players, got %d", 2*n, len(in.PlayerIDs))
	}
	if len(in.PlayerStats) != 2*n {
		return fmt.Errorf("game requires %d stat rows, got %d", 2*n, len(in.PlayerStats))
	}
	for i, row := range in.PlayerStats {
		if len(row) != s.cfg.NumStats() {
			return fmt.Errorf("stat row %d has %d values, expected %d", i, len(row), s.cfg.NumStats())
		}
		for _, v := range row {
			if v < 0 {
				return fmt.Errorf("stat row %d contains a negative value", i)
			}
		}
	}

	for _, score := range []int{in.Team1Score, in.Team2Score} {
		if score < s.cfg.Game.Score.Min {
			return fmt.Errorf("score %d is below the minimum of %d", score, s.cfg.Game.Score.Min)
		}
		if s.cfg.Game.Score.Max != nil && score > *s.cfg.Game.Score.Max {
			return fmt.Errorf("score %d is above the maximum of %d", score, *s.cfg.Game.Score.Max)
		}
	}

	return nil
}

// setGame writes the input into the game row, its player slots, and its
// per-slot stat records, deriving the is_sub flag for every position.
func (s *GameService) setGame(tx *gorm.DB, game *models.Game, in *GameInput) error {
	n := s.cfg.NumTeamPlayers

	var team1, team2 models.Team
	if err := tx.First(&team1, in.Team1ID).Error; err != nil {
		return fmt.Errorf("team %d: %w", in.Team1ID, err)
	}
	if err := tx.First(&team2, in.Team2ID).Error; err != nil {
		return fmt.Errorf("team %d: %w", in.Team2ID, err)
	}

	var players []models.User
	if err := tx.Find(&players, in.PlayerIDs).Error; err != nil {
		return err
	}
	if len(players) != len(in.PlayerIDs) {
		return fmt.Errorf("one or more players not found")
	}
	byID := make(map[uint]*models.User, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	game.Team1ID = &team1.ID
	game.Team2ID = &team2.ID
	game.Team1Score = in.Team1Score
	game.Team2Score = in.Team2Score
	game.Comment = in.Comment
	if in.PictureFile != "" {
		game.PictureFile = in.PictureFile
	}

	if err := tx.Save(game).Error; err != nil {
		return err
	}

	// Replace the ordered player slots.
	if err := tx.Where("game_id = ?", game.ID).Delete(&models.GamePlayer{}).Error; err != nil {
		return err
	}
	game.Players = game.Players[:0]
	for i, playerID := range in.PlayerIDs {
		slotTeamID := team1.ID
		if i >= n {
			slotTeamID = team2.ID
		}
		player := byID[playerID]
		isSub := player.TeamID == nil || *player.TeamID != slotTeamID

		gp := models.GamePlayer{
			GameID:   game.ID,
			Position: i,
			UserID:   playerID,
			IsSub:    isSub,
		}
		if err := tx.Create(&gp).Error; err != nil {
			return err
		}
		game.Players = append(game.Players, gp)
	}

	// Create the per-slot stat records on first write, overwrite afterwards.
	if len(game.PlayerStats) == 0 {
		for i := 0; i < 2*n; i++ {
			rec := models.NewStats(s.cfg.NumStats())
			rec.GameID = &game.ID
			rec.Slot = i
			game.PlayerStats = append(game.PlayerStats, *rec)
		}
	}
	for i := range game.PlayerStats {
		rec := &game.PlayerStats[i]
		if err := rec.SetStats(in.PlayerStats[rec.Slot], 1); err != nil {
			return err
		}
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
	}

	return nil
}

// SubmitGame creates a new unverified game. Only allowed while a season is
// active.
func (s *GameService) SubmitGame(in *GameInput) (*models.Game, error) {
	var season models.Season
	if err := s.db.First(&season).Error; err != nil || !season.IsActive() {
		return nil, ErrSeasonNotActive
	}

	if s.cfg.Game.RequireScorecard && in.PictureFile == "" {
		return nil, fmt.Errorf("a scorecard photo is required")
	}
	if err := s.validate(in); err != nil {
		return nil, err
	}

	game := &models.Game{DatePosted: time.Now().UTC()}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.setGame(tx, game, in)
	})
	if err != nil {
		return nil, err
	}

	return game, nil
}

// UpdateGame rewrites a game from the input. For a verified game, stats are
// recomputed for the union of the participants before and after the edit so
// removed teams and players unwind correctly.
func (s *GameService) UpdateGame(gameID uint, in *GameInput) (*models.Game, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}

	oldTeams, oldPlayers := participants(game)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.setGame(tx, game, in); err != nil {
			return err
		}
		if !game.Verified {
			return nil
		}

		newTeams, newPlayers := participants(game)
		return s.stats.Recalculate(tx, unionIDs(oldTeams, newTeams), unionIDs(oldPlayers, newPlayers))
	})
	if err != nil {
		return nil, err
	}

	return game, nil
}

// DeleteGame removes a game with its slots and stat records. Deleting a
// verified game rolls the previously counted results back out of every
// participant's totals.
func (s *GameService) DeleteGame(gameID uint) error {
	game, err := s.GetGame(gameID)
	if err != nil {
		return err
	}

	teams, players := participants(game)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", gameID).Delete(&models.Stats{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", gameID).Delete(&models.GamePlayer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Game{}, gameID).Error; err != nil {
			return err
		}

		if !game.Verified {
			return nil
		}
		return s.stats.Recalculate(tx, teams, players)
	})
}

// VerifyGame transitions an unverified game to verified and counts it
// toward every participant's stats. Verifying twice is rejected.
func (s *GameService) VerifyGame(gameID uint) error {
	game, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	if game.Verified {
		return ErrGameAlreadyVerified
	}

	teams, players := participants(game)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(game).Update("verified", true).Error; err != nil {
			return err
		}
		return s.stats.Recalculate(tx, teams, players)
	})
}

// ListGames returns the paginated game feed, newest first. When
// unverifiedOnly is set only the verification queue is returned.
func (s *GameService) ListGames(page, perPage int, unverifiedOnly bool) ([]models.Game, int64, error) {
	if page < 1 {
		page = 1
	}

	query := s.db.Model(&models.Game{})
	if unverifiedOnly {
		query = query.Where("verified = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var games []models.Game
	err := query.
		Preload("Team1").
		Preload("Team2").
		Order("date_posted DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// LatestScoreBetween returns the most recent game score between two teams
// oriented from team 1's perspective, or nil when they never played.
func (s *GameService) LatestScoreBetween(team1ID, team2ID uint) (*[2]int, error) {
	var game models.Game
	err := s.db.
		Where("(team1_id = ? AND team2_id = ?) OR (team1_id = ? AND team2_id = ?)",
			team1ID, team2ID, team2ID, team1ID).
		Order("date_posted DESC").
		First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	score := [2]int{game.Team1Score, game.Team2Score}
	if game.TeamSide(team1ID) == 1 {
		score[0], score[1] = score[1], score[0]
	}
	return &score, nil
}

func participants(game *models.Game) (teamIDs, userIDs []uint) {
	if game.Team1ID != nil {
		teamIDs = append(teamIDs, *game.Team1ID)
	}
	if game.Team2ID != nil {
		teamIDs = append(teamIDs, *game.Team2ID)
	}
	for _, p := range game.Players {
		userIDs = append(userIDs, p.UserID)
	}
	return teamIDs, userIDs
}

func unionIDs(a, b []uint) []uint {
	seen := make(map[uint]bool, len(a)+len(b))
	var out []uint
	for _, id := range append(append([]uint{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
