// handlers/games.go - Game submission, editing, and the home feed
package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"recleague/middleware"
	"recleague/services"

	"github.com/gofiber/fiber/v2"
)

// parseGameInput reads a game submission from a multipart form. The roster
// and stat matrix arrive as JSON strings alongside the scorecard file so one
// request carries the whole game.
func parseGameInput(c *fiber.Ctx) (*services.GameInput, error) {
	in := &services.GameInput{}

	team1, err := strconv.ParseUint(c.FormValue("team_1_id"), 10, 32)
	if err != nil {
		return nil, errors.New("team_1_id is required")
	}
	team2, err := strconv.ParseUint(c.FormValue("team_2_id"), 10, 32)
	if err != nil {
		return nil, errors.New("team_2_id is required")
	}
	in.Team1ID = uint(team1)
	in.Team2ID = uint(team2)

	in.Team1Score, err = strconv.Atoi(c.FormValue("team_1_score"))
	if err != nil {
		return nil, errors.New("team_1_score is required")
	}
	in.Team2Score, err = strconv.Atoi(c.FormValue("team_2_score"))
	if err != nil {
		return nil, errors.New("team_2_score is required")
	}

	if err := json.Unmarshal([]byte(c.FormValue("player_ids")), &in.PlayerIDs); err != nil {
		return nil, errors.New("player_ids must be a JSON array of user IDs")
	}
	if err := json.Unmarshal([]byte(c.FormValue("player_stats")), &in.PlayerStats); err != nil {
		return nil, errors.New("player_stats must be a JSON matrix")
	}

	in.Comment = c.FormValue("comment")
	return in, nil
}

// saveScorecard stores an uploaded scorecard photo, if present, and returns
// its stored filename.
func saveScorecard(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("scorecard")
	if err != nil {
		return "", nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return scorecards.Save(f)
}

// SubmitGame creates a new unverified game from a multipart form.
func SubmitGame(c *fiber.Ctx) error {
	if middleware.GetUser(c) == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	in, err := parseGameInput(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	in.PictureFile, err = saveScorecard(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to store scorecard"})
	}

	game, err := gameService.SubmitGame(in)
	if err != nil {
		if errors.Is(err, services.ErrSeasonNotActive) {
			return c.Status(409).JSON(fiber.Map{"success": false, "error": "There is no active season"})
		}
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "game": game})
}

// GetGame returns one game with teams, ordered players, and the per-slot
// stat matrix.
func GetGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	game, err := gameService.GetGame(uint(gameID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Game not found"})
	}

	var modifiable bool
	if user := middleware.GetUser(c); user != nil {
		modifiable = gameService.IsUserModifiable(game, user)
	}

	scorecardURL := ""
	if game.PictureFile != "" {
		scorecardURL = "/scorecards/" + game.PictureFile
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"game":          game,
		"stat_names":    cfg.StatNames(),
		"modifiable":    modifiable,
		"scorecard_url": scorecardURL,
	})
}

// UpdateGame rewrites a game. Participants may edit while unverified,
// admins always.
func UpdateGame(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	gameID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	game, err := gameService.GetGame(uint(gameID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Game not found"})
	}
	if !gameService.IsUserModifiable(game, user) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "You may not edit this game"})
	}

	in, err := parseGameInput(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	// A fresh upload replaces the photo; otherwise the existing one stays.
	newFile, err := saveScorecard(c)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to store scorecard"})
	}
	if newFile != "" {
		in.PictureFile = newFile
	} else {
		in.PictureFile = game.PictureFile
	}

	game, err = gameService.UpdateGame(uint(gameID), in)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "game": game})
}

// DeleteGame removes a game; verified results are rolled back out of stats.
func DeleteGame(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
	}

	gameID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid game ID"})
	}

	game, err := gameService.GetGame(uint(gameID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"success": false, "error": "Game not found"})
	}
	if !gameService.IsUserModifiable(game, user) {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "You may not delete this game"})
	}

	if err := gameService.DeleteGame(uint(gameID)); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete game"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ListGames returns the paginated home feed of games, newest first.
func ListGames(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	games, total, err := gameService.ListGames(page, 20, false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load games"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"games":   games,
		"page":    page,
		"total":   total,
	})
}
