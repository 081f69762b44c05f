// handlers/seasons.go - Season info and archive history
package handlers

import (
	"strconv"

	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentSeason returns the season in progress, or none.
func GetCurrentSeason(c *fiber.Ctx) error {
	season, err := seasonService.Current()
	if err != nil {
		return c.JSON(fiber.Map{"success": true, "season": nil})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"season":  season,
		"active":  season.IsActive(),
	})
}

// ListArchivedSeasons returns every archived season snapshot, oldest first.
func ListArchivedSeasons(c *fiber.Ctx) error {
	seasons, err := seasonService.ListArchived()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load season history"})
	}
	return c.JSON(fiber.Map{"success": true, "seasons": seasons})
}

// GetArchivedSeason returns one archived season with its champion and
// runner-up rosters.
func GetArchivedSeason(c *fiber.Ctx) error {
	seasonID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid season ID"})
	}

	var season models.ArchivedSeason
	err = database.GetDB().
		Preload("Champions").
		Preload("RunnerUps").
		First(&season, uint(seasonID)).Error
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Season not found"})
	}

	return c.JSON(fiber.Map{"success": true, "season": season})
}
