// models/game.go
package models

import "time"

// GamePlayer is one ordered roster slot of a game. Positions 0..N-1 belong
// to team 1, N..2N-1 to team 2, where N is the configured team size. IsSub
// marks that the occupant was not a rostered member of that team at game
// time.
type GamePlayer struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	GameID   uint `gorm:"index;not null" json:"game_id"`
	Position int  `gorm:"not null" json:"position"`
	UserID   uint `gorm:"index;not null" json:"user_id"`
	IsSub    bool `gorm:"not null;default:false" json:"is_sub"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Game is one submitted result between two teams. Games start unverified
// and editable by their participants; once an admin verifies the result it
// counts toward stats and only admins may touch it.
type Game struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Team1ID *uint `gorm:"index" json:"team_1_id,omitempty"`
	Team2ID *uint `gorm:"index" json:"team_2_id,omitempty"`
	Team1   *Team `gorm:"foreignKey:Team1ID" json:"team_1,omitempty"`
	Team2   *Team `gorm:"foreignKey:Team2ID" json:"team_2,omitempty"`

	Team1Score int `gorm:"not null" json:"team_1_score"`
	Team2Score int `gorm:"not null" json:"team_2_score"`

	// Ordered by Position / Slot; always 2N entries each once set.
	Players     []GamePlayer `gorm:"foreignKey:GameID" json:"players,omitempty"`
	PlayerStats []Stats      `gorm:"foreignKey:GameID" json:"player_stats,omitempty"`

	PictureFile string `gorm:"size:40" json:"picture_file"`
	Comment     string `gorm:"size:120" json:"comment"`

	Verified   bool      `gorm:"not null;default:false" json:"verified"`
	DatePosted time.Time `gorm:"not null;index" json:"date_posted"`
}

// DidTeam1Win reports the game result from team 1's side. Equal scores count
// as a team 1 win.
func (g *Game) DidTeam1Win() bool {
	return g.Team1Score >= g.Team2Score
}

// TeamSide returns 0 when the team played as team 1, 1 as team 2, -1 when
// the team was not in the game.
func (g *Game) TeamSide(teamID uint) int {
	if g.Team1ID != nil && *g.Team1ID == teamID {
		return 0
	}
	if g.Team2ID != nil && *g.Team2ID == teamID {
		return 1
	}
	return -1
}

// PlayerPosition returns the player's slot in the game, or -1 when absent.
func (g *Game) PlayerPosition(userID uint) int {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p.Position
		}
	}
	return -1
}

// StatsForSlot returns the per-player stat record at a slot, or nil.
func (g *Game) StatsForSlot(slot int) *Stats {
	for i := range g.PlayerStats {
		if g.PlayerStats[i].Slot == slot {
			return &g.PlayerStats[i]
		}
	}
	return nil
}

// IsDivisional reports whether both teams belong to the same non-nil
// division. Requires Team1/Team2 to be loaded.
func (g *Game) IsDivisional() bool {
	return g.Team1 != nil && g.Team2 != nil &&
		g.Team1.DivisionID != nil && g.Team2.DivisionID != nil &&
		*g.Team1.DivisionID == *g.Team2.DivisionID
}
