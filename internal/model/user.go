// Package model defines database models
package model

import "time"

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`

	AuthToken      *AuthToken      `gorm:"foreignKey:UserID" json:"-"`
	Tags           []Tag           `gorm:"foreignKey:UserID" json:"-"`
	Specifications []Specification `gorm:"foreignKey:UserID" json:"-"`
	Vehicles       []Vehicle       `gorm:"foreignKey:UserID" json:"-"`
}
