package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_FindOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	alice, err := svc.FindOrCreate("alice")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.Equal(t, "alice", alice.Username)

	// Same username resolves to the same record.
	again, err := svc.FindOrCreate("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, again.ID)

	// Surrounding whitespace does not create a second account.
	trimmed, err := svc.FindOrCreate("  alice  ")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, trimmed.ID)
}

func TestUserService_FindOrCreate_EmptyUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.FindOrCreate("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_FindByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	alice := mustUser(t, db, "alice")

	got, err := svc.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.FindByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
