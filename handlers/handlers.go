// handlers/handlers.go - Shared handler state
package handlers

import (
	"recleague/config"
	"recleague/database"
	"recleague/services"
)

var (
	cfg *config.Config

	statsService       *services.StatsService
	gameService        *services.GameService
	teamService        *services.TeamService
	seasonService      *services.SeasonService
	leaderboardService *services.LeaderboardService
	scorecards         *services.ScorecardStore
)

// Init wires the handler package to its services. Must run after InitDB.
func Init(c *config.Config, store *services.ScorecardStore) {
	db := database.GetDB()

	cfg = c
	scorecards = store
	statsService = services.NewStatsService(db, c)
	gameService = services.NewGameService(db, c, statsService)
	teamService = services.NewTeamService(db, c)
	seasonService = services.NewSeasonService(db, c)
	leaderboardService = services.NewLeaderboardService(db, c)
}

// Services exposes the wired services to the admin handler package.
func Services() (*services.GameService, *services.TeamService, *services.SeasonService, *services.ScorecardStore) {
	return gameService, teamService, seasonService, scorecards
}

// Cfg returns the league configuration the handlers were wired with.
func Cfg() *config.Config {
	return cfg
}
