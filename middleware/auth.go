// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token, loads the account, and rejects
// banned users. The loaded user is stored in c.Locals("user").
func AuthMiddleware(c *fiber.Ctx) error {
	claims, err := parseToken(c)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, uint(userID)).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Account no longer exists"})
	}

	if user.IsBanned {
		return c.Status(403).JSON(fiber.Map{"error": "You have been banned"})
	}

	c.Locals("userId", user.ID)
	c.Locals("user", &user)

	return c.Next()
}

// RequireAdmin rejects non-admin users using the stored account, so a
// revoked admin loses access before the token expires. Must run after
// AuthMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil || !user.IsAdmin {
		return c.Status(403).JSON(fiber.Map{"error": "Access denied. Admin privileges required."})
	}
	return c.Next()
}

func parseToken(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, c.Status(401).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, c.Status(401).JSON(fiber.Map{"error": "Invalid authorization header format"})
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, c.Status(401).JSON(fiber.Map{"error": "Token expired"})
	}

	return claims, nil
}

// GetUser returns the authenticated account loaded by AuthMiddleware.
func GetUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user
	}
	return nil
}

// GetUserID returns the authenticated user's ID.
func GetUserID(c *fiber.Ctx) (uint, error) {
	if user := GetUser(c); user != nil {
		return user.ID, nil
	}
	return 0, fiber.NewError(401, "User not authenticated")
}
