// models/user.go
package models

import "time"

// RootUserID is the bootstrap admin account created at seed time. It is
// excluded from rankings, user listings, and admin user management.
const RootUserID uint = 1

// GuestPlayerName marks placeholder accounts used to fill game slots when a
// sub has no registered account. Guests never appear in rankings.
const GuestPlayerName = "Guest Player"

// Stat period bucket names used by the leaderboard period selectors.
const (
	PeriodSeasonStats         = "season_stats"
	PeriodPrevSeasonStats     = "prev_season_stats"
	PeriodPrevSeasonBestStats = "prev_season_best_stats"
	PeriodSeasonHighStats     = "season_high_stats"
	PeriodPrevSeasonHighStats = "prev_season_high_stats"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:30;not null" json:"name"`
	Email      string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Password   string    `gorm:"size:60;not null" json:"-"`
	IsAdmin    bool      `gorm:"default:false" json:"is_admin"`
	IsBanned   bool      `gorm:"default:false" json:"is_banned"`
	DateJoined time.Time `gorm:"not null" json:"date_joined"`

	// Roster membership is a plain reference resolved through the teams
	// table; a user off a team keeps all historical stat buckets.
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`

	// Current season running total and single-game best.
	SeasonStatsID     *uint  `json:"-"`
	SeasonStats       *Stats `gorm:"foreignKey:SeasonStatsID" json:"season_stats,omitempty"`
	SeasonHighStatsID *uint  `json:"-"`
	SeasonHighStats   *Stats `gorm:"foreignKey:SeasonHighStatsID" json:"season_high_stats,omitempty"`

	// Folded in at each season archive: lifetime total, best single season,
	// best single game across prior seasons.
	PrevSeasonStatsID     *uint  `json:"-"`
	PrevSeasonStats       *Stats `gorm:"foreignKey:PrevSeasonStatsID" json:"prev_season_stats,omitempty"`
	PrevSeasonBestStatsID *uint  `json:"-"`
	PrevSeasonBestStats   *Stats `gorm:"foreignKey:PrevSeasonBestStatsID" json:"prev_season_best_stats,omitempty"`
	PrevSeasonHighStatsID *uint  `json:"-"`
	PrevSeasonHighStats   *Stats `gorm:"foreignKey:PrevSeasonHighStatsID" json:"prev_season_high_stats,omitempty"`
}

// IsGuest reports whether the user is a guest placeholder account.
func (u *User) IsGuest() bool {
	return u.Name == GuestPlayerName
}

// StatPeriod returns the stat bucket for a period name, or nil when the
// bucket has not been created yet or the name is unknown.
func (u *User) StatPeriod(period string) *Stats {
	switch period {
	case PeriodSeasonStats:
		return u.SeasonStats
	case PeriodPrevSeasonStats:
		return u.PrevSeasonStats
	case PeriodPrevSeasonBestStats:
		return u.PrevSeasonBestStats
	case PeriodSeasonHighStats:
		return u.SeasonHighStats
	case PeriodPrevSeasonHighStats:
		return u.PrevSeasonHighStats
	}
	return nil
}

// StatBucketIDs returns the IDs of all stat records owned by the user.
func (u *User) StatBucketIDs() []uint {
	var ids []uint
	for _, id := range []*uint{
		u.SeasonStatsID, u.SeasonHighStatsID, u.PrevSeasonStatsID,
		u.PrevSeasonBestStatsID, u.PrevSeasonHighStatsID,
	} {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}
