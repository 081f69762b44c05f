// handlers/admin/users.go - Admin player management
package admin

import (
	"strconv"

	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
)

const usersPerPage = 25

// ListUsers returns a paginated listing of manageable accounts. The root
// account and guest placeholders are not manageable and are excluded.
func ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}

	db := database.GetDB()
	scope := db.Model(&models.User{}).
		Where("id <> ?", models.RootUserID).
		Where("name <> ?", models.GuestPlayerName)

	var total int64
	if err := scope.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to count users"})
	}

	var users []models.User
	err := scope.
		Order("date_joined DESC, id DESC").
		Offset((page - 1) * usersPerPage).Limit(usersPerPage).
		Find(&users).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to load users"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
		"page":    page,
	})
}

// loadManagedUser loads the target of an admin user operation, rejecting
// the root account and guests.
func loadManagedUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return nil, c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	var user models.User
	if err := database.GetDB().First(&user, uint(userID)).Error; err != nil {
		return nil, c.Status(404).JSON(fiber.Map{"success": false, "error": "User not found"})
	}
	if user.ID == models.RootUserID || user.IsGuest() {
		return nil, c.Status(403).JSON(fiber.Map{"success": false, "error": "That account cannot be managed"})
	}
	return &user, nil
}

// SetUserBanned bans or unbans an account. Banned users cannot log in and
// existing tokens stop working at the auth middleware.
func SetUserBanned(c *fiber.Ctx) error {
	user, err := loadManagedUser(c)
	if user == nil {
		return err
	}

	var req struct {
		Banned bool `json:"banned"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := database.GetDB().Model(user).Update("is_banned", req.Banned).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// SetUserAdmin grants or revokes admin rights.
func SetUserAdmin(c *fiber.Ctx) error {
	user, err := loadManagedUser(c)
	if user == nil {
		return err
	}

	var req struct {
		Admin bool `json:"admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	if err := database.GetDB().Model(user).Update("is_admin", req.Admin).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// DeleteUser removes an account that has never appeared in a game. Accounts
// with game history must be banned instead so stored games stay resolvable.
func DeleteUser(c *fiber.Ctx) error {
	user, err := loadManagedUser(c)
	if user == nil {
		return err
	}

	db := database.GetDB()

	var appearances int64
	if err := db.Model(&models.GamePlayer{}).Where("user_id = ?", user.ID).Count(&appearances).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to check game history"})
	}
	if appearances > 0 {
		return c.Status(409).JSON(fiber.Map{"success": false, "error": "User has game history and cannot be deleted"})
	}

	if statIDs := user.StatBucketIDs(); len(statIDs) > 0 {
		if err := db.Delete(&models.Stats{}, statIDs).Error; err != nil {
			return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete user"})
		}
	}
	if err := db.Delete(user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"success": true})
}
