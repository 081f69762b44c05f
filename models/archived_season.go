// models/archived_season.go
package models

import "time"

// ArchivedSeason is the immutable snapshot written exactly once when a
// season is archived. It survives the wipe of all season-scoped rows, so
// team identity is captured by name and champion/runner-up rosters by user
// reference.
type ArchivedSeason struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Summary string `gorm:"type:text" json:"summary"`

	DateStart time.Time `gorm:"not null" json:"date_start"`
	DateEnd   time.Time `gorm:"not null" json:"date_end"`

	NumGames     int `gorm:"not null" json:"num_games"`
	NumTeams     int `gorm:"not null" json:"num_teams"`
	NumDivisions int `gorm:"not null" json:"num_divisions"`

	ChampionTeamName string `gorm:"size:40;not null" json:"champion_team_name"`
	RunnerUpTeamName string `gorm:"size:40;not null" json:"runner_up_team_name"`

	Champions []User `gorm:"many2many:user_championships" json:"champions,omitempty"`
	RunnerUps []User `gorm:"many2many:user_runner_ups" json:"runner_ups,omitempty"`
}
