// services/team_service.go - Team roster management
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"recleague/config"
	"recleague/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyOnTeam = errors.New("already on a team")
	ErrNotOnTeam     = errors.New("no team to leave")
	ErrTeamFull      = errors.New("team roster is full")
	ErrTeamHasGames  = errors.New("team with games cannot be deleted")
)

// TeamService manages teams and roster membership. Membership is a plain
// reference (users.team_id); a team never owns the User rows themselves.
type TeamService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewTeamService(db *gorm.DB, cfg *config.Config) *TeamService {
	return &TeamService{db: db, cfg: cfg}
}

// CreateTeam creates a team. A non-admin creator joins the roster
// immediately; admins create unmanned teams for others to join.
func (s *TeamService) CreateTeam(name string, creator *models.User) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}
	if !creator.IsAdmin && creator.TeamID != nil {
		return nil, ErrAlreadyOnTeam
	}

	team := &models.Team{Name: name}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		if creator.IsAdmin {
			return nil
		}
		return tx.Model(&models.User{ID: creator.ID}).Update("team_id", team.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return team, nil
}

// GetTeam retrieves a team with its roster and division.
func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	err := s.db.
		Preload("Players").
		Preload("Division").
		First(&team, teamID).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// JoinableTeams returns teams with an open roster slot, ordered by name.
func (s *TeamService) JoinableTeams() ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.Preload("Players").Order("name").Find(&teams).Error; err != nil {
		return nil, err
	}

	open := teams[:0]
	for _, t := range teams {
		if len(t.Players) < s.cfg.NumTeamPlayers {
			open = append(open, t)
		}
	}
	return open, nil
}

// JoinTeam adds a user to a team with an open slot. The roster check runs
// inside the transaction so two joins cannot overfill the team.
func (s *TeamService) JoinTeam(user *models.User, teamID uint) error {
	if user.TeamID != nil {
		return ErrAlreadyOnTeam
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}

		var rosterSize int64
		if err := tx.Model(&models.User{}).Where("team_id = ?", teamID).Count(&rosterSize).Error; err != nil {
			return err
		}
		if int(rosterSize) >= s.cfg.NumTeamPlayers {
			return ErrTeamFull
		}

		return tx.Model(&models.User{ID: user.ID}).Update("team_id", teamID).Error
	})
}

// LeaveTeam detaches the user from their team. Off-season, a team left
// empty is deleted with it.
func (s *TeamService) LeaveTeam(user *models.User, season *models.Season) error {
	if user.TeamID == nil {
		return ErrNotOnTeam
	}
	teamID := *user.TeamID

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{ID: user.ID}).Update("team_id", nil).Error; err != nil {
			return err
		}

		if season != nil && season.IsActive() {
			return nil
		}

		var rosterSize int64
		if err := tx.Model(&models.User{}).Where("team_id = ?", teamID).Count(&rosterSize).Error; err != nil {
			return err
		}
		if rosterSize == 0 {
			return tx.Delete(&models.Team{}, teamID).Error
		}
		return nil
	})
}

// DeleteTeam removes a team and detaches its roster. A team that appears in
// any game is never deletable; its record is part of the season history
// until archival.
func (s *TeamService) DeleteTeam(teamID uint) error {
	var gameCount int64
	err := s.db.Model(&models.Game{}).
		Where("team1_id = ? OR team2_id = ?", teamID, teamID).
		Count(&gameCount).Error
	if err != nil {
		return err
	}
	if gameCount > 0 {
		return ErrTeamHasGames
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("team_id = ?", teamID).Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, teamID).Error
	})
}

// SetRoster replaces a team's roster and division assignment (admin bulk
// editing). A nil divisionID clears the division.
func (s *TeamService) SetRoster(teamID uint, playerIDs []uint, divisionID *uint) error {
	if len(playerIDs) > s.cfg.NumTeamPlayers {
		return fmt.Errorf("roster of %d exceeds the team size of %d", len(playerIDs), s.cfg.NumTeamPlayers)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}

		if divisionID != nil {
			var div models.Division
			if err := tx.First(&div, *divisionID).Error; err != nil {
				return fmt.Errorf("division %d: %w", *divisionID, err)
			}
		}
		if err := tx.Model(&team).Update("division_id", divisionID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("team_id = ?", teamID).Update("team_id", nil).Error; err != nil {
			return err
		}
		if len(playerIDs) == 0 {
			return nil
		}

		var found int64
		if err := tx.Model(&models.User{}).Where("id IN ?", playerIDs).Count(&found).Error; err != nil {
			return err
		}
		if int(found) != len(playerIDs) {
			return fmt.Errorf("one or more players not found")
		}

		return tx.Model(&models.User{}).Where("id IN ?", playerIDs).Update("team_id", teamID).Error
	})
}

// ListTeams returns all teams with rosters and divisions, ordered by name.
func (s *TeamService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.db.
		Preload("Players").
		Preload("Division").
		Order("name").
		Find(&teams).Error
	return teams, err
}

// TeamsCSV renders all teams and their rosters as CSV for download.
func (s *TeamService) TeamsCSV() (string, error) {
	teams, err := s.ListTeams()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"Team"}
	for i := 1; i <= s.cfg.NumTeamPlayers; i++ {
		header = append(header, fmt.Sprintf("Player %d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, team := range teams {
		row := []string{team.Name}
		for _, p := range team.Players {
			row = append(row, p.Name)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}
