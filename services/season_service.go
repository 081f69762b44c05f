// services/season_service.go - Season lifecycle and archival
package services

import (
	"errors"
	"fmt"
	"time"

	"recleague/config"
	"recleague/models"

	"gorm.io/gorm"
)

// minArchiveRosterSize is the smallest roster a team may have to be eligible
// as champion or runner-up, and to count as a team in the season snapshot.
// Deliberately independent of the configured team size.
const minArchiveRosterSize = 2

var (
	ErrSeasonExists = errors.New("a season has already been created")
	ErrNoSeason     = errors.New("no season exists")
)

// ArchiveInput selects the season outcome recorded in the snapshot.
type ArchiveInput struct {
	ChampionTeamID uint   `json:"champion_team_id"`
	RunnerUpTeamID uint   `json:"runner_up_team_id"`
	Summary        string `json:"summary"`
}

// SeasonService governs the season state machine: no-season -> pending ->
// active -> archived. At most one non-archived season exists at a time.
type SeasonService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewSeasonService(db *gorm.DB, cfg *config.Config) *SeasonService {
	return &SeasonService{db: db, cfg: cfg}
}

// Current returns the season, or ErrNoSeason.
func (s *SeasonService) Current() (*models.Season, error) {
	var season models.Season
	if err := s.db.First(&season).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSeason
		}
		return nil, err
	}
	return &season, nil
}

// DefaultCreateValues suggests a season name and start date for the create
// form: "Spring 26 season" or "Fall 26 season" starting a week out.
func (s *SeasonService) DefaultCreateValues() (name string, start time.Time) {
	now := time.Now()
	period := "Spring"
	if now.Month() >= time.June {
		period = "Fall"
	}
	name = fmt.Sprintf("%s %02d season", period, now.Year()%100)
	return name, now.AddDate(0, 0, 7)
}

// Create starts a new season with its divisions. Only permitted when no
// season exists.
func (s *SeasonService) Create(name string, start, end time.Time, numDivisions int) (*models.Season, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("season end date must be after the start date")
	}
	if numDivisions < 0 || numDivisions > s.cfg.Division.MaxNum {
		return nil, fmt.Errorf("division count must be between 0 and %d", s.cfg.Division.MaxNum)
	}

	if _, err := s.Current(); err == nil {
		return nil, ErrSeasonExists
	} else if !errors.Is(err, ErrNoSeason) {
		return nil, err
	}

	season := &models.Season{Name: name, DateStart: start, DateEnd: end}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(season).Error; err != nil {
			return err
		}
		for i := 0; i < numDivisions; i++ {
			div := models.Division{Name: s.cfg.Division.Names[i]}
			if err := tx.Create(&div).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return season, nil
}

// Update edits the season name and dates. Once the season has started the
// start date is locked.
func (s *SeasonService) Update(name string, start, end time.Time) (*models.Season, error) {
	season, err := s.Current()
	if err != nil {
		return nil, err
	}

	if !season.IsBefore() {
		start = season.DateStart
	}
	if !end.After(start) {
		return nil, fmt.Errorf("season end date must be after the start date")
	}

	season.Name = name
	season.DateStart = start
	season.DateEnd = end
	if err := s.db.Save(season).Error; err != nil {
		return nil, err
	}

	return season, nil
}

// HasGames reports whether any games were submitted this season.
func (s *SeasonService) HasGames() (bool, error) {
	var count int64
	if err := s.db.Model(&models.Game{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Archive snapshots the season outcome and wipes every season-scoped row in
// one transaction: either the ArchivedSeason exists and the season data is
// gone, or neither happened. Player season stats are folded into the
// lifetime, best-season, and best-game buckets before the wipe. A season
// with no games is wiped without recording a snapshot.
func (s *SeasonService) Archive(in *ArchiveInput) (*models.ArchivedSeason, error) {
	season, err := s.Current()
	if err != nil {
		return nil, err
	}

	hasGames, err := s.HasGames()
	if err != nil {
		return nil, err
	}

	var archived *models.ArchivedSeason

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if hasGames {
			archived, err = s.createArchivedSeason(tx, season, in)
			if err != nil {
				return err
			}
		}

		if err := s.foldPlayerStats(tx); err != nil {
			return err
		}

		// Detach every roster.
		if err := tx.Model(&models.User{}).Where("team_id IS NOT NULL").Update("team_id", nil).Error; err != nil {
			return err
		}

		// Wipe season-scoped rows: per-game stat records, slots, games,
		// teams, divisions, and the season itself. Users, Settings, and
		// ArchivedSeason rows survive.
		for _, step := range []func() *gorm.DB{
			func() *gorm.DB { return tx.Where("game_id IS NOT NULL").Delete(&models.Stats{}) },
			func() *gorm.DB { return tx.Where("1 = 1").Delete(&models.GamePlayer{}) },
			func() *gorm.DB { return tx.Where("1 = 1").Delete(&models.Game{}) },
			func() *gorm.DB { return tx.Where("1 = 1").Delete(&models.Team{}) },
			func() *gorm.DB { return tx.Where("1 = 1").Delete(&models.Division{}) },
			func() *gorm.DB { return tx.Where("1 = 1").Delete(&models.Season{}) },
		} {
			if err := step().Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return archived, nil
}

// createArchivedSeason builds the immutable snapshot: counts, champion and
// runner-up names, and their rosters. Both finalist teams must carry the
// minimum roster.
func (s *SeasonService) createArchivedSeason(tx *gorm.DB, season *models.Season, in *ArchiveInput) (*models.ArchivedSeason, error) {
	if in == nil {
		return nil, fmt.Errorf("champion and runner-up selection is required to archive a season with games")
	}

	champion, err := s.loadFinalist(tx, in.ChampionTeamID)
	if err != nil {
		return nil, err
	}
	runnerUp, err := s.loadFinalist(tx, in.RunnerUpTeamID)
	if err != nil {
		return nil, err
	}

	var numGames, numDivisions int64
	if err := tx.Model(&models.Game{}).Count(&numGames).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Division{}).Count(&numDivisions).Error; err != nil {
		return nil, err
	}

	// Teams below the minimum roster never really competed; they are not
	// counted in the snapshot.
	var numTeams int64
	err = tx.Model(&models.User{}).
		Select("COUNT(DISTINCT team_id)").
		Where("team_id IN (?)", tx.Model(&models.User{}).
			Select("team_id").
			Where("team_id IS NOT NULL").
			Group("team_id").
			Having("COUNT(*) >= ?", minArchiveRosterSize)).
		Scan(&numTeams).Error
	if err != nil {
		return nil, err
	}

	archived := &models.ArchivedSeason{
		Name:             season.Name,
		Summary:          in.Summary,
		DateStart:        season.DateStart,
		DateEnd:          season.DateEnd,
		NumGames:         int(numGames),
		NumTeams:         int(numTeams),
		NumDivisions:     int(numDivisions),
		ChampionTeamName: champion.Name,
		RunnerUpTeamName: runnerUp.Name,
		Champions:        champion.Players,
		RunnerUps:        runnerUp.Players,
	}
	if err := tx.Create(archived).Error; err != nil {
		return nil, err
	}

	return archived, nil
}

func (s *SeasonService) loadFinalist(tx *gorm.DB, teamID uint) (*models.Team, error) {
	var team models.Team
	if err := tx.Preload("Players").First(&team, teamID).Error; err != nil {
		return nil, fmt.Errorf("finalist team %d: %w", teamID, err)
	}
	if len(team.Players) < minArchiveRosterSize {
		return nil, fmt.Errorf("team %q needs at least %d rostered players to finish a season", team.Name, minArchiveRosterSize)
	}
	return &team, nil
}

// foldPlayerStats accumulates every player's current season into the
// historical buckets, then discards the current-season records.
func (s *SeasonService) foldPlayerStats(tx *gorm.DB) error {
	var users []models.User
	err := tx.
		Preload("SeasonStats").
		Preload("SeasonHighStats").
		Preload("PrevSeasonStats").
		Preload("PrevSeasonBestStats").
		Preload("PrevSeasonHighStats").
		Find(&users).Error
	if err != nil {
		return err
	}

	numStats := s.cfg.NumStats()

	for i := range users {
		u := &users[i]
		if u.SeasonStats == nil {
			continue
		}

		if u.PrevSeasonStats == nil {
			u.PrevSeasonStats = models.NewStats(numStats)
		}
		u.PrevSeasonStats.AddStats(u.SeasonStats)
		if err := tx.Save(u.PrevSeasonStats).Error; err != nil {
			return err
		}

		if u.PrevSeasonBestStats == nil {
			u.PrevSeasonBestStats = models.NewStats(numStats)
		}
		u.PrevSeasonBestStats.MaxStats(u.SeasonStats)
		if err := tx.Save(u.PrevSeasonBestStats).Error; err != nil {
			return err
		}

		if u.PrevSeasonHighStats == nil {
			u.PrevSeasonHighStats = models.NewStats(numStats)
		}
		u.PrevSeasonHighStats.MaxStats(u.SeasonHighStats)
		if err := tx.Save(u.PrevSeasonHighStats).Error; err != nil {
			return err
		}

		seasonIDs := []uint{}
		if u.SeasonStatsID != nil {
			seasonIDs = append(seasonIDs, *u.SeasonStatsID)
		}
		if u.SeasonHighStatsID != nil {
			seasonIDs = append(seasonIDs, *u.SeasonHighStatsID)
		}

		err := tx.Model(&models.User{ID: u.ID}).Updates(map[string]any{
			"season_stats_id":           nil,
			"season_high_stats_id":      nil,
			"prev_season_stats_id":      u.PrevSeasonStats.ID,
			"prev_season_best_stats_id": u.PrevSeasonBestStats.ID,
			"prev_season_high_stats_id": u.PrevSeasonHighStats.ID,
		}).Error
		if err != nil {
			return err
		}

		if len(seasonIDs) > 0 {
			if err := tx.Delete(&models.Stats{}, seasonIDs).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// ListArchived returns the archived seasons, most recent first, with the
// champion and runner-up rosters.
func (s *SeasonService) ListArchived() ([]models.ArchivedSeason, error) {
	var seasons []models.ArchivedSeason
	err := s.db.
		Preload("Champions").
		Preload("RunnerUps").
		Order("date_end DESC").
		Find(&seasons).Error
	return seasons, err
}
