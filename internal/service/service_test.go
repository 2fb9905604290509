package service

import (
	"path/filepath"
	"testing"
	"time"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/pkg/security"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		model.User{},
		model.AuthToken{},
		model.Tag{},
		model.Specification{},
		model.Vehicle{},
	))

	return db
}

func newUsers(db *gorm.DB) *Users {
	return &Users{
		DB:       db,
		Argon:    security.New(),
		TokenTTL: time.Hour,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user, err := newUsers(db).Create(email, "correct-horse-battery", "Test User")
	require.NoError(t, err)

	return user
}
