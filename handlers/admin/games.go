// handlers/admin/games.go - Game verification queue
package admin

import (
	"errors"
	"strconv"

	"recleague/handlers"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

// ListUnverifiedGames returns the queue of games awaiting verification,
// newest first.
func ListUnverifiedGames(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	gameService, _, _, _ := handlers.Services()
	games, total, err := gameService.ListGames(page, 10, true)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load games"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"games":   games,
		"total":   total,
		"page":    page,
	})
}

// VerifyGame marks a game verified, folding its result into team records
// and player stats.
func VerifyGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	gameService, _, _, _ := handlers.Services()
	if err := gameService.VerifyGame(uint(gameID)); err != nil {
		if errors.Is(err, services.ErrGameAlreadyVerified) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "Game is already verified"})
		}
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Game not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}
