// handlers/admin/season.go - Season lifecycle management
package admin

import (
	"errors"
	"log"
	"time"

	"recleague/handlers"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

type seasonRequest struct {
	Name         string    `json:"name"`
	DateStart    time.Time `json:"date_start"`
	DateEnd      time.Time `json:"date_end"`
	NumDivisions int       `json:"num_divisions"`
}

// GetSeasonDefaults returns suggested values for the season create form.
func GetSeasonDefaults(c *fiber.Ctx) error {
	_, _, seasonService, _ := handlers.Services()

	name, start := seasonService.DefaultCreateValues()
	return c.JSON(fiber.Map{
		"success":       true,
		"name":          name,
		"date_start":    start,
		"num_divisions": handlers.Cfg().Division.DefaultNum,
	})
}

// CreateSeason starts a new season. Rejected while a season already exists.
func CreateSeason(c *fiber.Ctx) error {
	var req seasonRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Season name and dates are required"})
	}

	_, _, seasonService, _ := handlers.Services()
	season, err := seasonService.Create(req.Name, req.DateStart, req.DateEnd, req.NumDivisions)
	if err != nil {
		if errors.Is(err, services.ErrSeasonExists) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "A season already exists; archive it first"})
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "season": season})
}

// UpdateSeason edits the season name and dates.
func UpdateSeason(c *fiber.Ctx) error {
	var req seasonRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Season name and dates are required"})
	}

	_, _, seasonService, _ := handlers.Services()
	season, err := seasonService.Update(req.Name, req.DateStart, req.DateEnd)
	if err != nil {
		if errors.Is(err, services.ErrNoSeason) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "No season exists"})
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "season": season})
}

// ArchiveSeason closes out the season: records the snapshot, folds player
// stats into their lifetime buckets, and wipes all season-scoped data.
// Scorecard photos belong to this season's games, so they are cleared too.
func ArchiveSeason(c *fiber.Ctx) error {
	var req services.ArchiveInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	_, _, seasonService, scorecards := handlers.Services()

	archived, err := seasonService.Archive(&req)
	if err != nil {
		if errors.Is(err, services.ErrNoSeason) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "No season exists"})
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	if err := scorecards.Clear(); err != nil {
		log.Printf("failed to clear scorecard photos after archive: %v", err)
	}

	return c.JSON(fiber.Map{"success": true, "season": archived})
}
