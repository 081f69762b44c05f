// Syncs the division set of the current season with the configured
// division names: existing divisions are renamed in order, and with -n
// the set is grown or shrunk to the requested count. Shrinking detaches
// teams from removed divisions; they keep playing as division-less teams.
//
// Usage: go run ./cmd/update-divisions [-n 2]
package main

import (
	"flag"
	"fmt"
	"log"

	"recleague/config"
	"recleague/database"
	"recleague/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	numDivisions := flag.Int("n", -1, "desired number of divisions (default: keep current)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("failed to load league configuration: ", err)
	}

	database.InitDB()
	db := database.GetDB()

	var season models.Season
	if err := db.First(&season).Error; err != nil {
		log.Fatal("no season exists; divisions belong to a season")
	}

	var count int
	err = db.Transaction(func(tx *gorm.DB) error {
		var divisions []models.Division
		if err := tx.Order("id").Find(&divisions).Error; err != nil {
			return err
		}

		target := *numDivisions
		if target < 0 {
			target = len(divisions)
		}
		if target > len(cfg.Division.Names) {
			return fmt.Errorf("division count must be between 0 and %d", len(cfg.Division.Names))
		}
		count = target

		for i := 0; i < target && i < len(divisions); i++ {
			if divisions[i].Name == cfg.Division.Names[i] {
				continue
			}
			old := divisions[i].Name
			divisions[i].Name = cfg.Division.Names[i]
			if err := tx.Save(&divisions[i]).Error; err != nil {
				return err
			}
			fmt.Printf("✏️  Renamed division %q to %q\n", old, divisions[i].Name)
		}

		for i := len(divisions); i < target; i++ {
			div := models.Division{Name: cfg.Division.Names[i]}
			if err := tx.Create(&div).Error; err != nil {
				return err
			}
			fmt.Printf("➕ Created division %q\n", div.Name)
		}

		for i := target; i < len(divisions); i++ {
			div := divisions[i]
			res := tx.Model(&models.Team{}).
				Where("division_id = ?", div.ID).
				Update("division_id", nil)
			if res.Error != nil {
				return res.Error
			}
			if err := tx.Delete(&div).Error; err != nil {
				return err
			}
			fmt.Printf("➖ Removed division %q (%d teams detached)\n", div.Name, res.RowsAffected)
		}

		return nil
	})
	if err != nil {
		log.Fatal("failed to update divisions: ", err)
	}

	fmt.Printf("✅ Season %q now has %d divisions\n", season.Name, count)
}
