// handlers/search.go - Player and team name search
package handlers

import (
	"strings"

	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
)

const searchLimit = 10

// Search matches players and teams by case-insensitive name substring. The
// root account and guest placeholders never appear in results.
func Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Search query is required"})
	}

	db := database.GetDB()
	pattern := "%" + strings.ToLower(query) + "%"

	var users []models.User
	db.Where("LOWER(name) LIKE ?", pattern).
		Where("id <> ?", models.RootUserID).
		Where("name <> ?", models.GuestPlayerName).
		Order("name").
		Limit(searchLimit).
		Find(&users)

	var teams []models.Team
	db.Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		Limit(searchLimit).
		Find(&teams)

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"teams":   teams,
	})
}
