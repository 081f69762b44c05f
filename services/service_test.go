// Shared fixtures for the service tests. Each test gets a fresh in-memory
// SQLite database with the full schema and a league configured for
// two-player teams and two stat categories (points, assists).
package services

import (
	"fmt"
	"testing"
	"time"

	"recleague/config"
	"recleague/database"
	"recleague/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	// Occupy ID 1 so ranking exclusion of the root account is testable and
	// regular fixtures never collide with it.
	root := models.User{
		Name:       "League Admin",
		Email:      "admin",
		Password:   "x",
		IsAdmin:    true,
		DateJoined: time.Now(),
	}
	require.NoError(t, db.Create(&root).Error)
	require.Equal(t, models.RootUserID, root.ID)

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{
		LeagueName:     "Test League",
		NumTeamPlayers: 2,
	}
	cfg.Stats.Categories = []config.StatCategory{
		{Key: "points", Name: "Points"},
		{Key: "assists", Name: "Assists"},
	}
	cfg.Stats.Highlight = "points"
	cfg.Division = config.DivisionConfig{
		Names:      []string{"East", "West"},
		MaxNum:     2,
		DefaultNum: 2,
	}
	cfg.Leaderboard = config.LeaderboardConfig{
		MinSeasonAverageGames:   3,
		MinLifetimeAverageGames: 5,
	}
	return cfg
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{
		Name:       name,
		Email:      fmt.Sprintf("%s@test.local", name),
		Password:   "x",
		DateJoined: time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTeam(t *testing.T, db *gorm.DB, name string, divisionID *uint, players ...*models.User) *models.Team {
	t.Helper()

	team := models.Team{Name: name, DivisionID: divisionID}
	require.NoError(t, db.Create(&team).Error)
	for _, p := range players {
		require.NoError(t, db.Model(p).Update("team_id", team.ID).Error)
		p.TeamID = &team.ID
	}
	return &team
}

func createActiveSeason(t *testing.T, db *gorm.DB) *models.Season {
	t.Helper()

	season := models.Season{
		Name:      "Test season",
		DateStart: time.Now().Add(-time.Hour),
		DateEnd:   time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&season).Error)
	return &season
}

// submitVerifiedGame submits a game through the service and verifies it so
// it counts toward stats. Stat rows are positional: players[0..1] are team
// 1's slots, players[2..3] team 2's.
func submitVerifiedGame(t *testing.T, gs *GameService, team1, team2 *models.Team, score1, score2 int, players []*models.User, stats [][]int) *models.Game {
	t.Helper()

	ids := make([]uint, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}

	game, err := gs.SubmitGame(&GameInput{
		Team1ID:     team1.ID,
		Team2ID:     team2.ID,
		Team1Score:  score1,
		Team2Score:  score2,
		PlayerIDs:   ids,
		PlayerStats: stats,
	})
	require.NoError(t, err)
	require.NoError(t, gs.VerifyGame(game.ID))
	return game
}

func reloadTeam(t *testing.T, db *gorm.DB, id uint) *models.Team {
	t.Helper()

	var team models.Team
	require.NoError(t, db.First(&team, id).Error)
	return &team
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()

	var user models.User
	err := db.
		Preload("SeasonStats").
		Preload("SeasonHighStats").
		Preload("PrevSeasonStats").
		Preload("PrevSeasonBestStats").
		Preload("PrevSeasonHighStats").
		First(&user, id).Error
	require.NoError(t, err)
	return &user
}
