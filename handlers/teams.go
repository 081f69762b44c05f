// handlers/teams.go - Team creation and roster membership
package handlers

import (
	"errors"
	"strconv"

	"recleague/middleware"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a team. A non-admin creator joins it immediately.
func CreateTeam(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Team name is required"})
	}

	team, err := teamService.CreateTeam(req.Name, user)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyOnTeam) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "You are already on a team"})
		}
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "That team name is taken"})
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// GetTeam returns one team with its division and roster.
func GetTeam(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	team, err := teamService.GetTeam(uint(teamID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}

	return c.JSON(fiber.Map{"success": true, "team": team})
}

// ListTeams returns all teams with rosters.
func ListTeams(c *fiber.Ctx) error {
	teams, err := teamService.ListTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load teams"})
	}
	return c.JSON(fiber.Map{"success": true, "teams": teams})
}

// JoinableTeams returns teams with an open roster slot.
func JoinableTeams(c *fiber.Ctx) error {
	teams, err := teamService.JoinableTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load teams"})
	}
	return c.JSON(fiber.Map{"success": true, "teams": teams})
}

// JoinTeam puts the authenticated user on a team with room.
func JoinTeam(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if err := teamService.JoinTeam(user, uint(teamID)); err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyOnTeam):
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "You are already on a team"})
		case errors.Is(err, services.ErrTeamFull):
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "That team is full"})
		default:
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

// LeaveTeam removes the authenticated user from their team. A team left
// empty outside an active season is deleted.
func LeaveTeam(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	season, _ := seasonService.Current()
	if err := teamService.LeaveTeam(user, season); err != nil {
		if errors.Is(err, services.ErrNotOnTeam) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "You are not on a team"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to leave team"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// DeleteTeam disbands a team. Members may only delete their own team and
// only outside an active season; admins may delete any team. Teams with
// game history stay.
func DeleteTeam(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}

	if !user.IsAdmin {
		if user.TeamID == nil || *user.TeamID != uint(teamID) {
			return c.Status(403).JSON(fiber.Map{"success": false, "error": "You may only delete your own team"})
		}
		if season, _ := seasonService.Current(); season != nil && season.IsActive() {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "Teams cannot be deleted during an active season"})
		}
	}

	if err := teamService.DeleteTeam(uint(teamID)); err != nil {
		if errors.Is(err, services.ErrTeamHasGames) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "Teams with recorded games cannot be deleted"})
		}
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Team not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// GetTeamLatestScore returns the most recent verified score between the
// team and an opponent, for prefill when submitting a rematch.
func GetTeamLatestScore(c *fiber.Ctx) error {
	teamID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid team ID"})
	}
	opponentID, err := strconv.ParseUint(c.Query("opponent"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Opponent team ID is required"})
	}

	score, err := gameService.LatestScoreBetween(uint(teamID), uint(opponentID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load score"})
	}
	if score == nil {
		return c.JSON(fiber.Map{"success": true, "score": nil})
	}

	return c.JSON(fiber.Map{"success": true, "score": []int{score[0], score[1]}})
}
