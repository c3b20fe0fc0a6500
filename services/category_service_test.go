package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeblog/plume/models"
)

func TestCategoryService_SeedIdempotent(t *testing.T) {
	db := newTestDB(t) // seeds once
	svc := NewCategoryService(db)

	// Running the seed again must not duplicate anything.
	require.NoError(t, svc.Seed())

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultCategories)), count)

	var names []string
	require.NoError(t, db.Model(&models.Category{}).Order("id").Pluck("name", &names).Error)
	assert.Equal(t, DefaultCategories, names)
}

func TestCategoryService_FindByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db)

	food := mustCategory(t, db, "food")

	got, err := svc.FindByID(food.ID)
	require.NoError(t, err)
	assert.Equal(t, "food", got.Name)

	_, err = svc.FindByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
