package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijitraijada/vaani-service/internal/storage"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	u, err := svc.Create(testCtx(), "9900011122", "s3cret-pw", "Organiser One", "one@example.org", storage.UserTypeOrganiser)
	require.NoError(t, err)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "s3cret-pw", u.PasswordHash)

	_, err = svc.Create(testCtx(), "9900011122", "another", "Dup", "", storage.UserTypeOrganiser)
	assert.ErrorIs(t, err, ErrPhoneTaken)

	got, err := svc.Authenticate(testCtx(), "9900011122", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(testCtx(), "9900011122", "wrong")
	assert.ErrorIs(t, err, ErrBadPassword)

	_, err = svc.Authenticate(testCtx(), "0000000000", "s3cret-pw")
	assert.ErrorIs(t, err, ErrUserNotFound)

	u.IsActive = false
	require.NoError(t, svc.Save(testCtx(), u))
	_, err = svc.Authenticate(testCtx(), "9900011122", "s3cret-pw")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestUserChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	u, err := svc.Create(testCtx(), "9900011122", "old-password", "One", "", storage.UserTypeAdmin)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(testCtx(), u.ID, "wrong", "new-password"), ErrBadPassword)
	assert.ErrorIs(t, svc.ChangePassword(testCtx(), u.ID, "old-password", "short"), ErrWeakPassword)
	require.NoError(t, svc.ChangePassword(testCtx(), u.ID, "old-password", "new-password"))

	_, err = svc.Authenticate(testCtx(), "9900011122", "new-password")
	require.NoError(t, err)
}
