// models/stats.go - Stat record vectors
package models

import "fmt"

// Stats is a fixed-schema vector of integer counters plus a game count. The
// counter at index i corresponds to the stat category at index i of the
// league configuration; the vector length is fixed at the configured category
// count for the lifetime of the record.
//
// A record is owned by exactly one holder: a game slot (GameID/Slot set) or
// one of a user's season/lifetime buckets.
type Stats struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	Counters  []int `gorm:"serializer:json;not null" json:"counters"`
	GameCount int   `gorm:"not null;default:0" json:"game_count"`

	// Set when the record is a per-player slot of a game. Slot is the
	// player's position in the game's player list.
	GameID *uint `gorm:"index" json:"game_id,omitempty"`
	Slot   int   `gorm:"default:0" json:"slot"`
}

// NewStats returns a zeroed record sized for the configured category count.
func NewStats(numCategories int) *Stats {
	return &Stats{Counters: make([]int, numCategories)}
}

// GetStats returns a copy of the counter vector.
func (s *Stats) GetStats() []int {
	out := make([]int, len(s.Counters))
	copy(out, s.Counters)
	return out
}

// SetStats overwrites all counters positionally and replaces the game count.
// The value slice must match the record's category count exactly.
func (s *Stats) SetStats(values []int, gameCount int) error {
	if len(values) != len(s.Counters) {
		return fmt.Errorf("stat vector has %d values, expected %d", len(values), len(s.Counters))
	}

	copy(s.Counters, values)
	s.GameCount = gameCount
	return nil
}

// AddStats accumulates another record counter-wise, summing game counts.
// Addition is commutative and associative, which is what makes lifetime
// accumulation across archives well defined.
func (s *Stats) AddStats(other *Stats) {
	if other == nil {
		return
	}

	for i := range s.Counters {
		s.Counters[i] += other.Counters[i]
	}
	s.GameCount += other.GameCount
}

// MaxStats takes the counter-wise maximum, independently per category, and
// the maximum of the two game counts. No-op when other is nil. Because the
// max is per-category, the resulting "best" record may combine values that
// never co-occurred in one real game; that approximation is intended.
func (s *Stats) MaxStats(other *Stats) {
	if other == nil {
		return
	}

	for i := range s.Counters {
		if other.Counters[i] > s.Counters[i] {
			s.Counters[i] = other.Counters[i]
		}
	}
	if other.GameCount > s.GameCount {
		s.GameCount = other.GameCount
	}
}

// Reset zeroes all counters and the game count in place.
func (s *Stats) Reset() {
	for i := range s.Counters {
		s.Counters[i] = 0
	}
	s.GameCount = 0
}
