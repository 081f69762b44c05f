// handlers/auth.go - Registration, login, and password reset
package handlers

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"recleague/database"
	"recleague/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	LeaguePassword string `json:"league_password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Register creates an account. Registration is gated by the league
// password stored in settings.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Name, email, and password are required"})
	}

	db := database.GetDB()

	var settings models.Settings
	if err := db.First(&settings).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Settings not initialized"})
	}

	if bcrypt.CompareHashAndPassword([]byte(settings.Password), []byte(req.LeaguePassword)) != nil {
		return c.Status(403).JSON(AuthResponse{Success: false, Error: "Incorrect league password"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to hash password"})
	}

	name := capitalize(req.FirstName) + " " + capitalize(req.LastName)
	user := models.User{
		Name:       name,
		Email:      strings.ToLower(req.Email),
		Password:   string(hashed),
		DateJoined: time.Now().UTC(),
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(409).JSON(AuthResponse{Success: false, Error: "Email is already registered"})
	}

	return c.JSON(AuthResponse{Success: true, User: &user})
}

// Login authenticates by email (case-insensitive) and password.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(AuthResponse{Success: false, Error: "Email and password required"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return c.Status(401).JSON(AuthResponse{Success: false, Error: "Invalid credentials"})
	}

	if user.IsBanned {
		return c.Status(403).JSON(AuthResponse{Success: false, Error: "You have been banned"})
	}

	token, err := generateToken(&user)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{Success: false, Error: "Failed to generate token"})
	}

	return c.JSON(AuthResponse{Success: true, Token: token, User: &user})
}

// RequestPasswordReset issues a short-lived signed reset token for the
// account. Token delivery is the operator's concern; it is written to the
// server log, never into the response.
func RequestPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Email is required"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("LOWER(email) = LOWER(?)", req.Email).First(&user).Error; err == nil {
		token, err := generateResetToken(&user)
		if err == nil {
			log.Printf("Password reset token for %s: %s", user.Email, token)
		}
	}

	// Same response whether or not the account exists.
	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the account exists, reset instructions have been sent.",
	})
}

// ResetPassword sets a new password from a valid reset token.
func ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Token == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Token and new password are required"})
	}

	user, err := verifyResetToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "That is an invalid or expired token"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to hash password"})
	}

	db := database.GetDB()
	if err := db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update password"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Your password has been updated"})
}

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateResetToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"pw_reset": true,
		"exp":      time.Now().Add(30 * time.Minute).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func verifyResetToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["pw_reset"] != true {
		return nil, fmt.Errorf("not a reset token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	var user models.User
	if err := database.GetDB().First(&user, uint(userID)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
