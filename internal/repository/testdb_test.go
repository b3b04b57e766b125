package repository

import (
	"testing"

	"spotshare/internal/database"
	"spotshare/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupSQLiteDB returns an in-memory database with the full schema migrated.
// The like and post repositories are exercised against it for behavior that
// sqlmock cannot express (transactions, ON CONFLICT, counter expressions).
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, id string, owner *models.User, lat, lon float64) *models.Post {
	t.Helper()
	post := &models.Post{
		ID:        id,
		UserID:    owner.ID,
		Title:     "title " + id,
		Content:   "content " + id,
		ImageURL:  "https://blobs.example.com/" + id + ".webp",
		PlaceName: "Somewhere",
		Latitude:  lat,
		Longitude: lon,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
