package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plumeblog/plume/models"
)

// newTestDB opens an isolated in-memory sqlite database with the full
// schema migrated and the default categories seeded.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Category{}, &models.Post{}, &models.Comment{}))
	require.NoError(t, NewCategoryService(db).Seed())
	return db
}

func mustUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user, err := NewUserService(db).FindOrCreate(username)
	require.NoError(t, err)
	return user
}

func mustCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	var category models.Category
	require.NoError(t, db.Where("name = ?", name).First(&category).Error)
	return &category
}
