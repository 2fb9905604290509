package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateHashesPassword(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	user, err := users.Create("new@example.com", "supersecret", "New User")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "supersecret", user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$")
}

func TestUserCreateValidation(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"missing email", "", "supersecret", "User"},
		{"invalid email", "not-an-email", "supersecret", "User"},
		{"short password", "ok@example.com", "short", "User"},
		{"missing name", "ok@example.com", "supersecret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Create(tt.email, tt.password, tt.userName)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	_, err := users.Create("dup@example.com", "supersecret", "First")
	require.NoError(t, err)

	_, err = users.Create("dup@example.com", "othersecret", "Second")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateDoesNotLeakFailureKind(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	_, err := users.Create("known@example.com", "supersecret", "Known")
	require.NoError(t, err)

	_, errUnknown := users.Authenticate("unknown@example.com", "supersecret")
	_, errWrongPass := users.Authenticate("known@example.com", "wrongsecret")

	// Both failure kinds must be indistinguishable
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthenticateSuccess(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	created, err := users.Create("login@example.com", "supersecret", "Login")
	require.NoError(t, err)

	user, err := users.Authenticate("login@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestIssueTokenReplacesPrevious(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)
	user := createTestUser(t, db, "token@example.com")

	first, err := users.IssueToken(user.ID)
	require.NoError(t, err)

	resolved, err := users.ResolveToken(first)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	second, err := users.IssueToken(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	// The old token must stop working immediately
	_, err = users.ResolveToken(first)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resolved, err = users.ResolveToken(second)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestResolveTokenExpired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "expired@example.com")

	users := newUsers(db)
	users.TokenTTL = -time.Hour

	token, err := users.IssueToken(user.ID)
	require.NoError(t, err)

	_, err = users.ResolveToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResolveTokenUnknown(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	_, err := users.ResolveToken("definitely-not-issued")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)
	user := createTestUser(t, db, "update@example.com")

	newName := "Renamed"

	updated, err := users.Update(user.ID, UserPatch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "update@example.com", updated.Email)
}

func TestUserUpdateEmailTaken(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	createTestUser(t, db, "taken@example.com")
	user := createTestUser(t, db, "mine@example.com")

	taken := "taken@example.com"

	_, err := users.Update(user.ID, UserPatch{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserUpdateChangesPassword(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)
	createTestUser(t, db, "pass@example.com")

	user, err := users.Authenticate("pass@example.com", "correct-horse-battery")
	require.NoError(t, err)

	newPass := "anothersecret"

	_, err = users.Update(user.ID, UserPatch{Password: &newPass})
	require.NoError(t, err)

	_, err = users.Authenticate("pass@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate("pass@example.com", "anothersecret")
	assert.NoError(t, err)
}

func TestUserCreateValidationError(t *testing.T) {
	db := newTestDB(t)
	users := newUsers(db)

	_, err := users.Create("bad@example.com", "short", "User")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Error())
}
