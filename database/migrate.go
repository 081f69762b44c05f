// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"recleague/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := Migrate(db); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// Migrate creates or updates the schema for all league models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Settings{},
		&models.Stats{},
		&models.User{},
		&models.Division{},
		&models.Team{},
		&models.GamePlayer{},
		&models.Game{},
		&models.Season{},
		&models.ArchivedSeason{},
	)
}

// createIndexes creates indexes beyond what the model tags declare
func createIndexes() {
	db := GetDB()

	// Standings sort keys
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_record ON teams(wins DESC, losses DESC, score_diff DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_div_record ON teams(division_id, div_wins DESC)")

	// Game feed and verification queue
	db.Exec("CREATE INDEX IF NOT EXISTS idx_games_posted ON games(date_posted DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_games_verified ON games(verified)")

	// Per-game slot lookups
	db.Exec("CREATE INDEX IF NOT EXISTS idx_game_players_game_pos ON game_players(game_id, position)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_stats_game_slot ON stats(game_id, slot)")
}
