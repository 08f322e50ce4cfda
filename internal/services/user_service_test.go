package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	user, err := svc.CreateAccount("alice", "s3cret", false)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsAdmin)

	t.Run("duplicate username reports conflict", func(t *testing.T) {
		_, err := svc.CreateAccount("alice", "outra-senha", false)
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		_, err := svc.CreateAccount("", "senha", false)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = svc.CreateAccount("bob", "", false)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		stored, err := svc.GetUserByID(user.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "s3cret", stored.PasswordHash)
	})
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	_, err := svc.CreateAccount("alice", "s3cret", false)
	require.NoError(t, err)

	t.Run("correct password succeeds", func(t *testing.T) {
		user, err := svc.Authenticate("alice", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.PasswordHash, "hash must not leave the service")
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := svc.Authenticate("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user fails identically", func(t *testing.T) {
		_, err := svc.Authenticate("mallory", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGetUserByID(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	_, err := svc.GetUserByID(7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	require.NoError(t, svc.EnsureAdmin("bybenb", "raizoku"))

	admin, err := svc.Authenticate("bybenb", "raizoku")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	t.Run("idempotent on restart", func(t *testing.T) {
		require.NoError(t, svc.EnsureAdmin("bybenb", "raizoku"))
	})
}
