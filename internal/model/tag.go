package model

// Tag is a user-scoped label for filtering vehicles. Names are unique per
// owner, case-sensitively.
type Tag struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_tags_owner_name" json:"-"`
	Name   string `gorm:"not null;uniqueIndex:idx_tags_owner_name" json:"name"`
}
