package services

import (
	"testing"

	"recleague/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setBucket attaches a stat bucket with the given counters and game count to
// one of the user's periods.
func setBucket(t *testing.T, db *gorm.DB, user *models.User, period string, counters []int, gameCount int) {
	t.Helper()

	rec := models.Stats{Counters: counters, GameCount: gameCount}
	require.NoError(t, db.Create(&rec).Error)

	var column string
	switch period {
	case models.PeriodSeasonStats:
		column = "season_stats_id"
	case models.PeriodSeasonHighStats:
		column = "season_high_stats_id"
	case models.PeriodPrevSeasonStats:
		column = "prev_season_stats_id"
	case models.PeriodPrevSeasonBestStats:
		column = "prev_season_best_stats_id"
	case models.PeriodPrevSeasonHighStats:
		column = "prev_season_high_stats_id"
	default:
		t.Fatalf("unknown period %q", period)
	}
	require.NoError(t, db.Model(user).Update(column, rec.ID).Error)
}

func TestRankingLifetimeSumsSeasonAndPrior(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	setBucket(t, db, alice, models.PeriodSeasonStats, []int{10, 0}, 2)
	setBucket(t, db, alice, models.PeriodPrevSeasonStats, []int{20, 0}, 4)
	setBucket(t, db, bob, models.PeriodSeasonStats, []int{25, 0}, 3)

	entries, total, err := lb.Ranking("points", "Lifetime", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].User.Name)
	assert.Equal(t, 30.0, entries[0].Value)
	assert.Equal(t, "bob", entries[1].User.Name)
	assert.Equal(t, 25.0, entries[1].Value)
}

func TestRankingGamePeriodTakesMaxAcrossSeasons(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	alice := createUser(t, db, "alice")
	setBucket(t, db, alice, models.PeriodSeasonHighStats, []int{7, 4}, 2)
	setBucket(t, db, alice, models.PeriodPrevSeasonHighStats, []int{9, 1}, 5)

	entries, _, err := lb.Ranking("points", "Game", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9.0, entries[0].Value)

	entries, _, err = lb.Ranking("assists", "Game", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 4.0, entries[0].Value)
}

func TestRankingAverageDividesAndEnforcesMinGames(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig() // min 3 games for the season average
	lb := NewLeaderboardService(db, cfg)
	createActiveSeason(t, db)

	few := createUser(t, db, "few")
	enough := createUser(t, db, "enough")
	setBucket(t, db, few, models.PeriodSeasonStats, []int{40, 0}, 2)
	setBucket(t, db, enough, models.PeriodSeasonStats, []int{10, 0}, 3)

	entries, total, err := lb.Ranking("points", "Current Season Average", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "enough", entries[0].User.Name)
	assert.Equal(t, 3.33, entries[0].Value)
}

func TestRankingByGamesPlayed(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	alice := createUser(t, db, "alice")
	setBucket(t, db, alice, models.PeriodSeasonStats, []int{1, 0}, 2)
	setBucket(t, db, alice, models.PeriodPrevSeasonStats, []int{1, 0}, 7)

	entries, _, err := lb.Ranking(GamesStatKey, "Lifetime", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9.0, entries[0].Value)
}

func TestRankingExcludesRootAndGuests(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	var root models.User
	require.NoError(t, db.First(&root, models.RootUserID).Error)
	setBucket(t, db, &root, models.PeriodSeasonStats, []int{99, 0}, 9)

	guest := createUser(t, db, "guest-slot")
	require.NoError(t, db.Model(guest).Update("name", models.GuestPlayerName).Error)
	setBucket(t, db, guest, models.PeriodSeasonStats, []int{88, 0}, 8)

	alice := createUser(t, db, "alice")
	setBucket(t, db, alice, models.PeriodSeasonStats, []int{5, 0}, 1)

	entries, total, err := lb.Ranking("points", "Lifetime", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].User.Name)
}

func TestRankingTiesKeepIDOrder(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	first := createUser(t, db, "first")
	second := createUser(t, db, "second")
	setBucket(t, db, first, models.PeriodSeasonStats, []int{10, 0}, 1)
	setBucket(t, db, second, models.PeriodSeasonStats, []int{10, 0}, 1)

	entries, _, err := lb.Ranking("points", "Lifetime", 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].User.Name)
	assert.Equal(t, "second", entries[1].User.Name)
}

func TestRankingUnknownInputs(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	_, _, err := lb.Ranking("rebounds", "Lifetime", 1)
	assert.Error(t, err)

	_, _, err = lb.Ranking("points", "Last Tuesday", 1)
	assert.Error(t, err)
}

func TestPeriodsHideCurrentSeasonSelectorsWithoutSeason(t *testing.T) {
	db := newTestDB(t)
	lb := NewLeaderboardService(db, testConfig())

	names := func() []string {
		var out []string
		for _, p := range lb.Periods() {
			out = append(out, p.Name)
		}
		return out
	}

	assert.NotContains(t, names(), "Current Season")
	assert.NotContains(t, names(), "Current Season Average")

	createActiveSeason(t, db)
	assert.Contains(t, names(), "Current Season")
	assert.Contains(t, names(), "Current Season Average")
}

func TestStandingsPlacesAndTies(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	lb := NewLeaderboardService(db, cfg)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	b2 := createUser(t, db, "b2")
	c1 := createUser(t, db, "c1")
	c2 := createUser(t, db, "c2")
	teamA := createTeam(t, db, "Aces", nil, a1, a2)
	teamB := createTeam(t, db, "Bears", nil, b1, b2)
	teamC := createTeam(t, db, "Cubs", nil, c1, c2)
	createActiveSeason(t, db)

	stats := [][]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}}

	// A beats B, A beats C, B beats C: A 2-0, B 1-1, C 0-2.
	submitVerifiedGame(t, gs, teamA, teamB, 5, 3, []*models.User{a1, a2, b1, b2}, stats)
	submitVerifiedGame(t, gs, teamA, teamC, 5, 3, []*models.User{a1, a2, c1, c2}, stats)
	submitVerifiedGame(t, gs, teamB, teamC, 5, 3, []*models.User{b1, b2, c1, c2}, stats)

	entries, err := lb.Standings(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Aces", entries[0].Team.Name)
	assert.Equal(t, 1, entries[0].Place)
	assert.Equal(t, "Bears", entries[1].Team.Name)
	assert.Equal(t, 2, entries[1].Place)
	assert.Equal(t, "Cubs", entries[2].Team.Name)
	assert.Equal(t, 3, entries[2].Place)
}

func TestStandingsTiedTeamsSharePlace(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	lb := NewLeaderboardService(db, cfg)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	b2 := createUser(t, db, "b2")
	teamA := createTeam(t, db, "Aces", nil, a1, a2)
	teamB := createTeam(t, db, "Bears", nil, b1, b2)
	createActiveSeason(t, db)

	stats := [][]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}}

	// Split series with identical score margins: 1-1 each, same games
	// played, score diff zero for both.
	submitVerifiedGame(t, gs, teamA, teamB, 5, 3, []*models.User{a1, a2, b1, b2}, stats)
	submitVerifiedGame(t, gs, teamB, teamA, 5, 3, []*models.User{b1, b2, a1, a2}, stats)

	entries, err := lb.Standings(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Place)
	assert.Equal(t, 1, entries[1].Place)
}

func TestStandingsDivisionFilterLeadsWithDivRecord(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	lb := NewLeaderboardService(db, cfg)

	east := models.Division{Name: "East"}
	require.NoError(t, db.Create(&east).Error)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	b2 := createUser(t, db, "b2")
	c1 := createUser(t, db, "c1")
	c2 := createUser(t, db, "c2")
	teamA := createTeam(t, db, "Aces", &east.ID, a1, a2)
	teamB := createTeam(t, db, "Bears", &east.ID, b1, b2)
	teamC := createTeam(t, db, "Cubs", nil, c1, c2)
	createActiveSeason(t, db)

	stats := [][]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}}

	// B wins twice outside the division, A wins the single divisional game.
	submitVerifiedGame(t, gs, teamB, teamC, 5, 3, []*models.User{b1, b2, c1, c2}, stats)
	submitVerifiedGame(t, gs, teamB, teamC, 5, 3, []*models.User{b1, b2, c1, c2}, stats)
	submitVerifiedGame(t, gs, teamA, teamB, 5, 3, []*models.User{a1, a2, b1, b2}, stats)

	entries, err := lb.Standings(east.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Aces", entries[0].Team.Name)
	assert.Equal(t, "Bears", entries[1].Team.Name)

	// Overall standings still favor Bears on total wins.
	overall, err := lb.Standings(0)
	require.NoError(t, err)
	assert.Equal(t, "Bears", overall[0].Team.Name)
}
