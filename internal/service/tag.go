package service

import (
	"errors"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/pkg/validators"

	"gorm.io/gorm"
)

// Tags manages the user-scoped tag rows.
type Tags struct {
	DB *gorm.DB
}

// AttrListOpts filters tag and specification listings.
type AttrListOpts struct {
	// Only rows linked to at least one vehicle
	AssignedOnly bool
}

func (s *Tags) List(userID string, opts AttrListOpts) ([]model.Tag, error) {
	q := s.DB.Model(&model.Tag{}).Where("tags.user_id = ?", userID)

	if opts.AssignedOnly {
		q = q.
			Joins("JOIN vehicle_tags ON vehicle_tags.tag_id = tags.id").
			Distinct("tags.*")
	}

	tags := []model.Tag{}

	if err := q.Order("name DESC").Find(&tags).Error; err != nil {
		return nil, err
	}

	return tags, nil
}

func (s *Tags) Create(userID, name string) (*model.Tag, error) {
	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	var found bool

	err := s.DB.Model(model.Tag{}).
		Select("count(*) > 0").
		Where("user_id = ? AND name = ?", userID, name).
		Find(&found).
		Error
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &ValidationError{ErrNameTaken}
	}

	tag := model.Tag{UserID: userID, Name: name}

	if err := s.DB.Create(&tag).Error; err != nil {
		return nil, err
	}

	return &tag, nil
}

// GetOrCreate resolves a tag by name within the acting user's rows,
// inserting it when absent. The composite unique index on
// (user_id, name) guards against duplicates under concurrent writes.
func (s *Tags) GetOrCreate(userID, name string) (*model.Tag, error) {
	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	return getOrCreateTag(s.DB, userID, name)
}

func getOrCreateTag(db *gorm.DB, userID, name string) (*model.Tag, error) {
	tag := model.Tag{UserID: userID, Name: name}

	err := db.
		Where("user_id = ? AND name = ?", userID, name).
		FirstOrCreate(&tag).
		Error
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

func (s *Tags) Retrieve(userID string, id uint) (*model.Tag, error) {
	var tag model.Tag

	err := s.DB.Where("user_id = ? AND id = ?", userID, id).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &tag, nil
}

func (s *Tags) Update(userID string, id uint, name string) (*model.Tag, error) {
	tag, err := s.Retrieve(userID, id)
	if err != nil {
		return nil, err
	}

	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	var found bool

	err = s.DB.Model(model.Tag{}).
		Select("count(*) > 0").
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, id).
		Find(&found).
		Error
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &ValidationError{ErrNameTaken}
	}

	tag.Name = name

	if err := s.DB.Save(tag).Error; err != nil {
		return nil, err
	}

	return tag, nil
}

// Delete removes the tag and its vehicle links. Vehicles themselves are
// untouched.
func (s *Tags) Delete(userID string, id uint) error {
	tag, err := s.Retrieve(userID, id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM vehicle_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}

		return tx.Delete(tag).Error
	})
}
