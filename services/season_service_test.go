package services

import (
	"testing"
	"time"

	"recleague/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateSeasonRejectsSecond(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	ss := NewSeasonService(db, cfg)

	start := time.Now().Add(-time.Hour)
	end := start.Add(30 * 24 * time.Hour)

	_, err := ss.Create("Spring 26 season", start, end, 2)
	require.NoError(t, err)

	_, err = ss.Create("Another season", start, end, 0)
	assert.ErrorIs(t, err, ErrSeasonExists)

	var divisions []models.Division
	require.NoError(t, db.Order("id").Find(&divisions).Error)
	require.Len(t, divisions, 2)
	assert.Equal(t, "East", divisions[0].Name)
	assert.Equal(t, "West", divisions[1].Name)
}

func TestCreateSeasonRejectsTooManyDivisions(t *testing.T) {
	db := newTestDB(t)
	ss := NewSeasonService(db, testConfig())

	start := time.Now()
	_, err := ss.Create("Season", start, start.Add(24*time.Hour), 3)
	assert.Error(t, err)
}

func TestUpdateLocksStartDateOnceStarted(t *testing.T) {
	db := newTestDB(t)
	ss := NewSeasonService(db, testConfig())

	start := time.Now().Add(-48 * time.Hour)
	end := time.Now().Add(30 * 24 * time.Hour)
	season, err := ss.Create("Season", start, end, 0)
	require.NoError(t, err)

	newEnd := end.Add(7 * 24 * time.Hour)
	updated, err := ss.Update("Renamed season", time.Now().Add(time.Hour), newEnd)
	require.NoError(t, err)

	assert.Equal(t, "Renamed season", updated.Name)
	assert.WithinDuration(t, season.DateStart, updated.DateStart, time.Second)
	assert.WithinDuration(t, newEnd, updated.DateEnd, time.Second)
}

func TestArchiveWithoutGamesWipesWithoutSnapshot(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	ss := NewSeasonService(db, cfg)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	createTeam(t, db, "Aces", nil, a1, a2)
	createActiveSeason(t, db)

	archived, err := ss.Archive(nil)
	require.NoError(t, err)
	assert.Nil(t, archived)

	var seasonCount, teamCount int64
	db.Model(&models.Season{}).Count(&seasonCount)
	db.Model(&models.Team{}).Count(&teamCount)
	assert.Zero(t, seasonCount)
	assert.Zero(t, teamCount)
	assert.Nil(t, reloadUser(t, db, a1.ID).TeamID)
}

func archiveFixture(t *testing.T, db *gorm.DB) (teamA, teamB *models.Team, players []*models.User) {
	t.Helper()

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	b2 := createUser(t, db, "b2")
	teamA = createTeam(t, db, "Aces", nil, a1, a2)
	teamB = createTeam(t, db, "Bears", nil, b1, b2)
	createActiveSeason(t, db)
	return teamA, teamB, []*models.User{a1, a2, b1, b2}
}

func TestArchiveSnapshotsAndFoldsStats(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	ss := NewSeasonService(db, cfg)

	teamA, teamB, players := archiveFixture(t, db)
	a1 := players[0]

	submitVerifiedGame(t, gs, teamA, teamB, 5, 3, players,
		[][]int{{10, 2}, {8, 1}, {7, 3}, {5, 0}})
	submitVerifiedGame(t, gs, teamA, teamB, 4, 6, players,
		[][]int{{4, 6}, {2, 2}, {3, 3}, {1, 1}})

	archived, err := ss.Archive(&ArchiveInput{
		ChampionTeamID: teamA.ID,
		RunnerUpTeamID: teamB.ID,
		Summary:        "Close one.",
	})
	require.NoError(t, err)
	require.NotNil(t, archived)

	assert.Equal(t, "Aces", archived.ChampionTeamName)
	assert.Equal(t, "Bears", archived.RunnerUpTeamName)
	assert.Equal(t, 2, archived.NumGames)
	assert.Equal(t, 2, archived.NumTeams)
	require.Len(t, archived.Champions, 2)
	require.Len(t, archived.RunnerUps, 2)

	// Lifetime accumulates the season, best-season and best-game take the
	// maxima, and the current-season buckets are gone.
	a1r := reloadUser(t, db, a1.ID)
	assert.Nil(t, a1r.SeasonStats)
	assert.Nil(t, a1r.SeasonHighStats)
	require.NotNil(t, a1r.PrevSeasonStats)
	assert.Equal(t, []int{14, 8}, a1r.PrevSeasonStats.GetStats())
	assert.Equal(t, 2, a1r.PrevSeasonStats.GameCount)
	assert.Equal(t, []int{14, 8}, a1r.PrevSeasonBestStats.GetStats())
	assert.Equal(t, []int{10, 6}, a1r.PrevSeasonHighStats.GetStats())
	assert.Nil(t, a1r.TeamID)

	// Season-scoped rows are gone.
	var games, teams, gamePlayers, gameStats int64
	db.Model(&models.Game{}).Count(&games)
	db.Model(&models.Team{}).Count(&teams)
	db.Model(&models.GamePlayer{}).Count(&gamePlayers)
	db.Model(&models.Stats{}).Where("game_id IS NOT NULL").Count(&gameStats)
	assert.Zero(t, games)
	assert.Zero(t, teams)
	assert.Zero(t, gamePlayers)
	assert.Zero(t, gameStats)
}

func TestArchiveTwiceAccumulatesLifetime(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	ss := NewSeasonService(db, cfg)

	teamA, teamB, players := archiveFixture(t, db)
	a1 := players[0]

	submitVerifiedGame(t, gs, teamA, teamB, 5, 3, players,
		[][]int{{10, 2}, {0, 0}, {0, 0}, {0, 0}})
	_, err := ss.Archive(&ArchiveInput{ChampionTeamID: teamA.ID, RunnerUpTeamID: teamB.ID})
	require.NoError(t, err)

	// Second season, bigger single-season totals.
	teamA2, teamB2, players2 := archiveFixture2(t, db, players)
	submitVerifiedGame(t, gs, teamA2, teamB2, 5, 3, players2,
		[][]int{{12, 1}, {0, 0}, {0, 0}, {0, 0}})
	submitVerifiedGame(t, gs, teamA2, teamB2, 5, 3, players2,
		[][]int{{6, 0}, {0, 0}, {0, 0}, {0, 0}})
	_, err = ss.Archive(&ArchiveInput{ChampionTeamID: teamA2.ID, RunnerUpTeamID: teamB2.ID})
	require.NoError(t, err)

	a1r := reloadUser(t, db, a1.ID)
	assert.Equal(t, []int{28, 3}, a1r.PrevSeasonStats.GetStats())
	assert.Equal(t, 3, a1r.PrevSeasonStats.GameCount)
	assert.Equal(t, []int{18, 2}, a1r.PrevSeasonBestStats.GetStats())
	assert.Equal(t, []int{12, 2}, a1r.PrevSeasonHighStats.GetStats())

	seasons, err := ss.ListArchived()
	require.NoError(t, err)
	assert.Len(t, seasons, 2)
}

// archiveFixture2 rebuilds teams and a season for the same players after an
// archive wiped the previous ones.
func archiveFixture2(t *testing.T, db *gorm.DB, players []*models.User) (*models.Team, *models.Team, []*models.User) {
	t.Helper()

	teamA := createTeam(t, db, "Aces", nil, players[0], players[1])
	teamB := createTeam(t, db, "Bears", nil, players[2], players[3])
	createActiveSeason(t, db)
	return teamA, teamB, players
}

func TestArchiveRejectsUndersizedFinalist(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))
	ss := NewSeasonService(db, cfg)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	sub := createUser(t, db, "sub")
	teamA := createTeam(t, db, "Aces", nil, a1, a2)
	teamB := createTeam(t, db, "Bears", nil, b1) // one rostered player
	createActiveSeason(t, db)

	submitVerifiedGame(t, gs, teamA, teamB, 5, 3,
		[]*models.User{a1, a2, b1, sub},
		[][]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}})

	_, err := ss.Archive(&ArchiveInput{ChampionTeamID: teamA.ID, RunnerUpTeamID: teamB.ID})
	assert.Error(t, err)

	// Nothing was mutated: the season and its data are still there.
	var seasonCount, gameCount int64
	db.Model(&models.Season{}).Count(&seasonCount)
	db.Model(&models.Game{}).Count(&gameCount)
	assert.EqualValues(t, 1, seasonCount)
	assert.EqualValues(t, 1, gameCount)
	require.NotNil(t, reloadUser(t, db, a1.ID).SeasonStats)
}
