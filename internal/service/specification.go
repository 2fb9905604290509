package service

import (
	"errors"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/pkg/validators"

	"gorm.io/gorm"
)

// Specifications mirrors Tags for the specification rows.
type Specifications struct {
	DB *gorm.DB
}

func (s *Specifications) List(userID string, opts AttrListOpts) ([]model.Specification, error) {
	q := s.DB.Model(&model.Specification{}).Where("specifications.user_id = ?", userID)

	if opts.AssignedOnly {
		q = q.
			Joins("JOIN vehicle_specifications ON vehicle_specifications.specification_id = specifications.id").
			Distinct("specifications.*")
	}

	specs := []model.Specification{}

	if err := q.Order("name DESC").Find(&specs).Error; err != nil {
		return nil, err
	}

	return specs, nil
}

func (s *Specifications) Create(userID, name string) (*model.Specification, error) {
	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	var found bool

	err := s.DB.Model(model.Specification{}).
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

	spec := model.Specification{UserID: userID, Name: name}

	if err := s.DB.Create(&spec).Error; err != nil {
		return nil, err
	}

	return &spec, nil
}

func (s *Specifications) GetOrCreate(userID, name string) (*model.Specification, error) {
	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	return getOrCreateSpecification(s.DB, userID, name)
}

func getOrCreateSpecification(db *gorm.DB, userID, name string) (*model.Specification, error) {
	spec := model.Specification{UserID: userID, Name: name}

	err := db.
		Where("user_id = ? AND name = ?", userID, name).
		FirstOrCreate(&spec).
		Error
	if err != nil {
		return nil, err
	}

	return &spec, nil
}

func (s *Specifications) Retrieve(userID string, id uint) (*model.Specification, error) {
	var spec model.Specification

	err := s.DB.Where("user_id = ? AND id = ?", userID, id).First(&spec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &spec, nil
}

func (s *Specifications) Update(userID string, id uint, name string) (*model.Specification, error) {
	spec, err := s.Retrieve(userID, id)
	if err != nil {
		return nil, err
	}

	if err := validators.NameValidator(name); err != nil {
		return nil, &ValidationError{err}
	}

	var found bool

	err = s.DB.Model(model.Specification{}).
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

	spec.Name = name

	if err := s.DB.Save(spec).Error; err != nil {
		return nil, err
	}

	return spec, nil
}

func (s *Specifications) Delete(userID string, id uint) error {
	spec, err := s.Retrieve(userID, id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM vehicle_specifications WHERE specification_id = ?", spec.ID).Error; err != nil {
			return err
		}

		return tx.Delete(spec).Error
	})
}
