// models/team.go
package models

// Team groups up to the configured number of players for a season. The five
// record counters and the score differential are derived state: they are
// fully recomputable from the verified-game history and are replaced, never
// merged, on every recompute.
type Team struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:40;not null" json:"name"`

	DivisionID *uint     `gorm:"index" json:"division_id,omitempty"`
	Division   *Division `gorm:"foreignKey:DivisionID" json:"division,omitempty"`

	Wins      int `gorm:"not null;default:0" json:"wins"`
	Losses    int `gorm:"not null;default:0" json:"losses"`
	DivWins   int `gorm:"not null;default:0" json:"div_wins"`
	DivLosses int `gorm:"not null;default:0" json:"div_losses"`

	// Signed run length: positive while winning, negative while losing.
	Streak    int `gorm:"not null;default:0" json:"streak"`
	ScoreDiff int `gorm:"not null;default:0" json:"score_diff"`

	// Roster resolved through users.team_id.
	Players []User `gorm:"foreignKey:TeamID" json:"players,omitempty"`
}

// GamesPlayed is the verified-game count behind the current record.
func (t *Team) GamesPlayed() int {
	return t.Wins + t.Losses
}

// Division groups teams for divisional records and standings filtering.
type Division struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:20;not null" json:"name"`
}
