// handlers/stats.go - Leaderboards and standings
package handlers

import (
	"strconv"

	"recleague/config"
	"recleague/database"
	"recleague/models"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns one page of player rankings for a stat and period.
// Defaults: the configured highlight stat, the first visible period, page 1.
func GetLeaderboard(c *fiber.Ctx) error {
	statKey := c.Query("stat", cfg.Stats.Highlight)

	periods := leaderboardService.Periods()
	if len(periods) == 0 {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "No leaderboard periods configured"})
	}
	periodName := c.Query("period", periods[0].Name)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	entries, total, err := leaderboardService.Ranking(statKey, periodName, page)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"entries":   entries,
		"total":     total,
		"page":      page,
		"page_size": services.LeaderboardPageSize,
		"stat":      statKey,
		"period":    periodName,
		"stats":     statOptions(),
		"periods":   periods,
	})
}

// statOptions lists the selectable leaderboard stats: every configured
// category plus the synthetic games-played counter.
func statOptions() []config.StatCategory {
	opts := make([]config.StatCategory, 0, cfg.NumStats()+1)
	opts = append(opts, cfg.Stats.Categories...)
	opts = append(opts, config.StatCategory{Key: services.GamesStatKey, Name: "Games Played"})
	return opts
}

// GetStandings returns team standings, overall or filtered to one division.
func GetStandings(c *fiber.Ctx) error {
	divisionID, _ := strconv.ParseUint(c.Query("division", "0"), 10, 32)

	entries, err := leaderboardService.Standings(uint(divisionID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load standings"})
	}

	var divisions []models.Division
	database.GetDB().Order("id").Find(&divisions)

	return c.JSON(fiber.Map{
		"success":   true,
		"standings": entries,
		"divisions": divisions,
		"division":  uint(divisionID),
	})
}
