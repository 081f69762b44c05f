package database

import (
	"testing"

	"recleague/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestSeedCreatesBootstrapRows(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(db))

	var settings models.Settings
	require.NoError(t, db.First(&settings).Error)
	assert.NotEmpty(t, settings.Password)

	var root models.User
	require.NoError(t, db.First(&root, models.RootUserID).Error)
	assert.True(t, root.IsAdmin)
	assert.Equal(t, "admin", root.Email)

	var guests int64
	db.Model(&models.User{}).Where("name = ?", models.GuestPlayerName).Count(&guests)
	assert.EqualValues(t, 2, guests)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Seed(db))

	var settings models.Settings
	require.NoError(t, db.First(&settings).Error)

	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var users, settingsCount int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Settings{}).Count(&settingsCount)
	assert.EqualValues(t, 3, users)
	assert.EqualValues(t, 1, settingsCount)

	// The league password hash does not churn across runs.
	var after models.Settings
	require.NoError(t, db.First(&after).Error)
	assert.Equal(t, settings.Password, after.Password)
}
