package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatsLengthMismatch(t *testing.T) {
	rec := NewStats(3)
	assert.Error(t, rec.SetStats([]int{1, 2}, 1))
	assert.Error(t, rec.SetStats([]int{1, 2, 3, 4}, 1))
	require.NoError(t, rec.SetStats([]int{1, 2, 3}, 1))
	assert.Equal(t, []int{1, 2, 3}, rec.GetStats())
	assert.Equal(t, 1, rec.GameCount)
}

func TestGetStatsReturnsCopy(t *testing.T) {
	rec := NewStats(2)
	require.NoError(t, rec.SetStats([]int{5, 7}, 1))

	got := rec.GetStats()
	got[0] = 99
	assert.Equal(t, []int{5, 7}, rec.GetStats())
}

func TestAddStats(t *testing.T) {
	a := NewStats(2)
	require.NoError(t, a.SetStats([]int{3, 4}, 2))
	b := NewStats(2)
	require.NoError(t, b.SetStats([]int{10, 0}, 1))

	a.AddStats(b)
	assert.Equal(t, []int{13, 4}, a.GetStats())
	assert.Equal(t, 3, a.GameCount)

	// Adding a zero record or nil changes nothing.
	a.AddStats(NewStats(2))
	a.AddStats(nil)
	assert.Equal(t, []int{13, 4}, a.GetStats())
	assert.Equal(t, 3, a.GameCount)
}

func TestMaxStatsIsPerCategory(t *testing.T) {
	a := NewStats(2)
	require.NoError(t, a.SetStats([]int{3, 9}, 2))
	b := NewStats(2)
	require.NoError(t, b.SetStats([]int{10, 1}, 1))

	a.MaxStats(b)
	assert.Equal(t, []int{10, 9}, a.GetStats())
	assert.Equal(t, 2, a.GameCount)

	// Idempotent once taken.
	a.MaxStats(b)
	assert.Equal(t, []int{10, 9}, a.GetStats())

	a.MaxStats(nil)
	assert.Equal(t, []int{10, 9}, a.GetStats())
}

func TestReset(t *testing.T) {
	rec := NewStats(2)
	require.NoError(t, rec.SetStats([]int{4, 6}, 3))

	rec.Reset()
	assert.Equal(t, []int{0, 0}, rec.GetStats())
	assert.Equal(t, 0, rec.GameCount)
}

