package model

// Specification is a user-scoped technical attribute attached to vehicles.
// Same shape and uniqueness rules as Tag.
type Specification struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_specs_owner_name" json:"-"`
	Name   string `gorm:"not null;uniqueIndex:idx_specs_owner_name" json:"name"`
}
