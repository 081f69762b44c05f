// models/season.go
package models

import "time"

// Season is the single active competition window. At most one non-archived
// season exists at a time; the season service enforces that, not the schema.
type Season struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	// Games may only be submitted while now is inside (DateStart, DateEnd).
	DateStart time.Time `gorm:"not null" json:"date_start"`
	DateEnd   time.Time `gorm:"not null" json:"date_end"`

	IsArchived bool `gorm:"default:false" json:"is_archived"`
}

// IsActive reports whether the season currently accepts game submissions.
func (s *Season) IsActive() bool {
	now := time.Now()
	return now.After(s.DateStart) && now.Before(s.DateEnd)
}

// IsBefore reports whether the season has not started yet.
func (s *Season) IsBefore() bool {
	return time.Now().Before(s.DateStart)
}

// IsAfter reports whether the season submission window has closed.
func (s *Season) IsAfter() bool {
	return time.Now().After(s.DateEnd)
}
