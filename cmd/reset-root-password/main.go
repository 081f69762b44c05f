// Resets the root admin account password to a fresh random value and
// prints it once. Use when the credentials logged at first startup are
// lost.
//
// Usage: go run ./cmd/reset-root-password
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"recleague/database"
	"recleague/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	var root models.User
	if err := db.First(&root, models.RootUserID).Error; err != nil {
		log.Fatal("root account not found; has the database been seeded?")
	}

	password, err := randomPassword()
	if err != nil {
		log.Fatal("failed to generate password: ", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	if err := db.Model(&root).Update("password", string(hashed)).Error; err != nil {
		log.Fatal("failed to update root password: ", err)
	}

	fmt.Printf("✅ Root password reset\n")
	fmt.Printf("   Email:    %s\n", root.Email)
	fmt.Printf("   Password: %s\n", password)
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
