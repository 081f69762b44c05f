// database/seed.go - First-run data seeding
package database

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"recleague/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultLeaguePassword = "ChangeMe"

// Seed guarantees the settings row, the root admin account, and the guest
// placeholder accounts exist. Safe to run on every startup; it only creates
// what is missing. On first run the generated root password is printed once
// and never stored in the clear.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Settings{}).Count(&count)
		if count == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(defaultLeaguePassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.Settings{Password: string(hash)}).Error; err != nil {
				return err
			}
			log.Println("=======================================")
			log.Printf("League password: %s", defaultLeaguePassword)
			log.Println("Make sure to change the league password")
			log.Println("=======================================")
		}

		tx.Model(&models.User{}).Count(&count)
		if count > 0 {
			return nil
		}

		rootPassword := randomHex(8)
		hash, err := bcrypt.GenerateFromPassword([]byte(rootPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		root := models.User{
			Name:       "League Admin",
			Email:      "admin",
			Password:   string(hash),
			IsAdmin:    true,
			DateJoined: time.Now().UTC(),
		}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}

		log.Println("Created root user")
		log.Println("Email: admin")
		log.Printf("Password: %s", rootPassword)
		log.Println("=======================================")

		// Guest placeholders fill game slots for subs without accounts.
		for _, email := range []string{"guest_1", "guest_2"} {
			guest := models.User{
				Name:       models.GuestPlayerName,
				Email:      email,
				Password:   string(hash),
				DateJoined: time.Now().UTC(),
			}
			if err := tx.Create(&guest).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate random password: %v", err)
	}
	return hex.EncodeToString(b)
}
