package model

import "time"

// AuthToken holds the single live bearer token of a user. Issuing a new
// token replaces the row, so the previous token stops authenticating
// immediately.
type AuthToken struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"uniqueIndex;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time
}
