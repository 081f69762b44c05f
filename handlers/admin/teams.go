// handlers/admin/teams.go - Admin roster management
package admin

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"recleague/handlers"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

// SetTeamRoster replaces a team's roster and division assignment in one
// operation.
func SetTeamRoster(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	var req struct {
		PlayerIDs  []uint `json:"player_ids"`
		DivisionID *uint  `json:"division_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	_, teamService, _, _ := handlers.Services()
	if err := teamService.SetRoster(uint(teamID), req.PlayerIDs, req.DivisionID); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteTeam removes a team that has never played a game.
func DeleteTeam(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	_, teamService, _, _ := handlers.Services()
	if err := teamService.DeleteTeam(uint(teamID)); err != nil {
		if errors.Is(err, services.ErrTeamHasGames) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "Team has game history and cannot be deleted"})
		}
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ExportTeamsCSV downloads the current team rosters as a CSV file.
func ExportTeamsCSV(c *fiber.Ctx) error {
	_, teamService, _, _ := handlers.Services()

	csv, err := teamService.TeamsCSV()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to export teams"})
	}

	filename := fmt.Sprintf("teams_%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendString(csv)
}
