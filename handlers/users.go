// handlers/users.go - Player profiles
package handlers

import (
	"strconv"

	"recleague/database"
	"recleague/middleware"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe returns the authenticated user's own account.
func GetMe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}
	return c.JSON(fiber.Map{"success": true, "user": user})
}

// GetUserProfile returns a player profile: account, team, all stat buckets,
// and championship history.
func GetUserProfile(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	db := database.GetDB()

	var user models.User
	err = db.
		Preload("SeasonStats").
		Preload("SeasonHighStats").
		Preload("PrevSeasonStats").
		Preload("PrevSeasonBestStats").
		Preload("PrevSeasonHighStats").
		First(&user, uint(userID)).Error
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}

	var team *models.Team
	if user.TeamID != nil {
		var t models.Team
		if err := db.Preload("Division").First(&t, *user.TeamID).Error; err == nil {
			team = &t
		}
	}

	var championships []models.ArchivedSeason
	db.Joins("JOIN user_championships uc ON uc.archived_season_id = archived_seasons.id").
		Where("uc.user_id = ?", user.ID).
		Order("archived_seasons.date_end").
		Find(&championships)

	var runnerUps []models.ArchivedSeason
	db.Joins("JOIN user_runner_ups ur ON ur.archived_season_id = archived_seasons.id").
		Where("ur.user_id = ?", user.ID).
		Order("archived_seasons.date_end").
		Find(&runnerUps)

	return c.JSON(fiber.Map{
		"success":       true,
		"user":          user,
		"team":          team,
		"stat_names":    cfg.StatNames(),
		"stat_keys":     cfg.StatKeys(),
		"championships": championships,
		"runner_ups":    runnerUps,
	})
}

// GetUserGames returns the recent game appearances of a player, newest first.
func GetUserGames(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 10

	db := database.GetDB()

	var games []models.Game
	err = db.
		Joins("JOIN game_players ON game_players.game_id = games.id").
		Where("game_players.user_id = ?", uint(userID)).
		Group("games.id").
		Order("games.date_posted DESC, games.id DESC").
		Offset((page-1)*perPage).Limit(perPage).
		Preload("Team1").Preload("Team2").
		Find(&games).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load games"})
	}

	return c.JSON(fiber.Map{"success": true, "games": games, "page": page})
}
