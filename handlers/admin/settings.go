// handlers/admin/settings.go - Site settings
package admin

import (
	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SetLeaguePassword changes the shared password gating registration.
func SetLeaguePassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Password is required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
	}

	db := database.GetDB()

	var settings models.Settings
	if err := db.First(&settings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Settings not initialized"})
	}

	if err := db.Model(&settings).Update("password", string(hashed)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update password"})
	}

	return c.JSON(fiber.Map{"success": true})
}
