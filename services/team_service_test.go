package services

import (
	"strings"
	"testing"
	"time"

	"recleague/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamJoinsNonAdminCreator(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	alice := createUser(t, db, "alice")
	team, err := ts.CreateTeam("Aces", alice)
	require.NoError(t, err)

	assert.NotNil(t, reloadUser(t, db, alice.ID).TeamID)

	// A second team by the same creator is refused.
	alice = reloadUser(t, db, alice.ID)
	_, err = ts.CreateTeam("Bears", alice)
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)

	// Admins create teams without joining them.
	admin := createUser(t, db, "boss")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)
	admin.IsAdmin = true
	_, err = ts.CreateTeam("Bears", admin)
	require.NoError(t, err)
	assert.Nil(t, reloadUser(t, db, admin.ID).TeamID)

	loaded, err := ts.GetTeam(team.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Players, 1)
}

func TestJoinTeamEnforcesRosterSize(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig()) // two players per team

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	late := createUser(t, db, "late")
	team := createTeam(t, db, "Aces", nil, a1)

	require.NoError(t, ts.JoinTeam(a2, team.ID))
	assert.ErrorIs(t, ts.JoinTeam(late, team.ID), ErrTeamFull)
	assert.ErrorIs(t, ts.JoinTeam(reloadUser(t, db, a1.ID), team.ID), ErrAlreadyOnTeam)
}

func TestJoinableTeamsOmitsFullRosters(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	createTeam(t, db, "Aces", nil, a1, a2)
	createTeam(t, db, "Bears", nil, b1)

	teams, err := ts.JoinableTeams()
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Bears", teams[0].Name)
}

func TestLeaveTeamDeletesEmptiedTeamOffSeason(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	alice := createUser(t, db, "alice")
	team := createTeam(t, db, "Aces", nil, alice)

	require.NoError(t, ts.LeaveTeam(reloadUser(t, db, alice.ID), nil))

	var count int64
	db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&count)
	assert.Zero(t, count)

	assert.ErrorIs(t, ts.LeaveTeam(reloadUser(t, db, alice.ID), nil), ErrNotOnTeam)
}

func TestLeaveTeamKeepsEmptyTeamDuringSeason(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	alice := createUser(t, db, "alice")
	team := createTeam(t, db, "Aces", nil, alice)
	season := createActiveSeason(t, db)

	require.NoError(t, ts.LeaveTeam(reloadUser(t, db, alice.ID), season))

	var count int64
	db.Model(&models.Team{}).Where("id = ?", team.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteTeamRefusesWithGameHistory(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	ts := NewTeamService(db, cfg)
	gs := NewGameService(db, cfg, NewStatsService(db, cfg))

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	b2 := createUser(t, db, "b2")
	teamA := createTeam(t, db, "Aces", nil, a1, a2)
	teamB := createTeam(t, db, "Bears", nil, b1, b2)
	createActiveSeason(t, db)

	_, err := gs.SubmitGame(&GameInput{
		Team1ID:     teamA.ID,
		Team2ID:     teamB.ID,
		Team1Score:  5,
		Team2Score:  3,
		PlayerIDs:   []uint{a1.ID, a2.ID, b1.ID, b2.ID},
		PlayerStats: [][]int{{1, 0}, {1, 0}, {1, 0}, {1, 0}},
	})
	require.NoError(t, err)

	// Even an unverified game pins the team.
	assert.ErrorIs(t, ts.DeleteTeam(teamA.ID), ErrTeamHasGames)

	c1 := createUser(t, db, "c1")
	spare := createTeam(t, db, "Cubs", nil, c1)
	require.NoError(t, ts.DeleteTeam(spare.ID))
	assert.Nil(t, reloadUser(t, db, c1.ID).TeamID)
}

func TestSetRosterReplacesMembershipAndDivision(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	east := models.Division{Name: "East"}
	require.NoError(t, db.Create(&east).Error)

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	b1 := createUser(t, db, "b1")
	team := createTeam(t, db, "Aces", nil, a1, a2)

	require.NoError(t, ts.SetRoster(team.ID, []uint{a1.ID, b1.ID}, &east.ID))

	loaded, err := ts.GetTeam(team.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Players, 2)
	require.NotNil(t, loaded.Division)
	assert.Equal(t, "East", loaded.Division.Name)
	assert.Nil(t, reloadUser(t, db, a2.ID).TeamID)

	// Oversized rosters and unknown divisions are refused.
	assert.Error(t, ts.SetRoster(team.ID, []uint{a1.ID, a2.ID, b1.ID}, nil))
	unknown := uint(99)
	assert.Error(t, ts.SetRoster(team.ID, []uint{a1.ID}, &unknown))
}

func TestTeamsCSV(t *testing.T) {
	db := newTestDB(t)
	ts := NewTeamService(db, testConfig())

	a1 := createUser(t, db, "a1")
	a2 := createUser(t, db, "a2")
	createTeam(t, db, "Aces", nil, a1, a2)

	out, err := ts.TeamsCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Team,Player 1,Player 2", lines[0])
	assert.Equal(t, "Aces,a1,a2", lines[1])
}

func TestScorecardStoreSaveAndClear(t *testing.T) {
	store, err := NewScorecardStore(t.TempDir() + "/cards")
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.FileExists(t, store.Path(name))

	require.NoError(t, store.Clear())
	assert.NoFileExists(t, store.Path(name))

	// The directory itself survives a clear for the next season.
	_, err = store.Save(strings.NewReader("more bytes"))
	assert.NoError(t, err)
}

func TestSeasonWindows(t *testing.T) {
	now := time.Now()
	active := models.Season{DateStart: now.Add(-time.Hour), DateEnd: now.Add(time.Hour)}
	pending := models.Season{DateStart: now.Add(time.Hour), DateEnd: now.Add(2 * time.Hour)}
	over := models.Season{DateStart: now.Add(-2 * time.Hour), DateEnd: now.Add(-time.Hour)}

	assert.True(t, active.IsActive())
	assert.False(t, pending.IsActive())
	assert.True(t, pending.IsBefore())
	assert.False(t, over.IsActive())
	assert.True(t, over.IsAfter())
}
