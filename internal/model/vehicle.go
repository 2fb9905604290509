package model

import "time"

type Vehicle struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"index;not null" json:"-"`

	Title       string  `gorm:"not null" json:"title"`
	Year        int     `gorm:"not null" json:"year"`
	Price       float64 `gorm:"not null" json:"price"`
	Link        string  `json:"link"`
	Description string  `json:"description"`

	// Storage key of the attached image, nil until the first upload. The
	// HTTP layer rewrites it into a servable URL before responding.
	ImagePath *string `json:"image"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Tags           []Tag           `gorm:"many2many:vehicle_tags" json:"tags"`
	Specifications []Specification `gorm:"many2many:vehicle_specifications" json:"specifications"`
}
