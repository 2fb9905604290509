package service

import (
	"context"
	"errors"
	"io"
	"path"

	"bitwise74/vehicle-api/internal/model"
	"bitwise74/vehicle-api/internal/storage"
	"bitwise74/vehicle-api/pkg/validators"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Vehicles manages the vehicle rows, their tag/specification links and
// the attached images.
type Vehicles struct {
	DB    *gorm.DB
	Store storage.Store
}

// NamedRef references a tag or specification by name. Unknown names are
// created on the fly, scoped to the acting user.
type NamedRef struct {
	Name string `json:"name"`
}

// VehicleInput is the payload of create and full-update operations. A nil
// Tags/Specifications slice leaves the current links alone, a non-nil one
// replaces them.
type VehicleInput struct {
	Title          string     `json:"title"`
	Year           int        `json:"year"`
	Price          float64    `json:"price"`
	Link           string     `json:"link"`
	Description    string     `json:"description"`
	Tags           []NamedRef `json:"tags"`
	Specifications []NamedRef `json:"specifications"`
}

// VehiclePatch is the merge-patch payload of partial updates. Nil fields
// stay untouched.
type VehiclePatch struct {
	Title          *string     `json:"title"`
	Year           *int        `json:"year"`
	Price          *float64    `json:"price"`
	Link           *string     `json:"link"`
	Description    *string     `json:"description"`
	Tags           *[]NamedRef `json:"tags"`
	Specifications *[]NamedRef `json:"specifications"`
}

// VehicleFilters narrows and orders List results.
type VehicleFilters struct {
	TagIDs   []uint
	SpecIDs  []uint
	Ordering string
}

var vehicleOrderings = map[string]string{
	"":       "vehicles.id DESC",
	"title":  "vehicles.title ASC",
	"-title": "vehicles.title DESC",
	"year":   "vehicles.year ASC",
	"-year":  "vehicles.year DESC",
}

func (s *Vehicles) List(userID string, f VehicleFilters) ([]model.Vehicle, error) {
	order, ok := vehicleOrderings[f.Ordering]
	if !ok {
		return nil, &ValidationError{ErrOrderingInvalid}
	}

	q := s.DB.Model(&model.Vehicle{}).
		Preload("Tags").
		Preload("Specifications").
		Where("vehicles.user_id = ?", userID)

	if len(f.TagIDs) > 0 {
		q = q.
			Joins("JOIN vehicle_tags ON vehicle_tags.vehicle_id = vehicles.id").
			Where("vehicle_tags.tag_id IN ?", f.TagIDs)
	}

	if len(f.SpecIDs) > 0 {
		q = q.
			Joins("JOIN vehicle_specifications ON vehicle_specifications.vehicle_id = vehicles.id").
			Where("vehicle_specifications.specification_id IN ?", f.SpecIDs)
	}

	if len(f.TagIDs) > 0 || len(f.SpecIDs) > 0 {
		q = q.Distinct("vehicles.*")
	}

	vehicles := []model.Vehicle{}

	if err := q.Order(order).Find(&vehicles).Error; err != nil {
		return nil, err
	}

	for i := range vehicles {
		ensureAssociations(&vehicles[i])
	}

	return vehicles, nil
}

func (s *Vehicles) Create(userID string, in VehicleInput) (*model.Vehicle, error) {
	if err := validateVehicleInput(in); err != nil {
		return nil, err
	}

	vehicle := model.Vehicle{
		UserID:      userID,
		Title:       in.Title,
		Year:        in.Year,
		Price:       in.Price,
		Link:        in.Link,
		Description: in.Description,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&vehicle).Error; err != nil {
			return err
		}

		if len(in.Tags) > 0 {
			tags, err := resolveTags(tx, userID, in.Tags)
			if err != nil {
				return err
			}

			if err := tx.Model(&vehicle).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}

		if len(in.Specifications) > 0 {
			specs, err := resolveSpecifications(tx, userID, in.Specifications)
			if err != nil {
				return err
			}

			if err := tx.Model(&vehicle).Association("Specifications").Append(&specs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(userID, vehicle.ID)
}

func (s *Vehicles) Retrieve(userID string, id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle

	err := s.DB.
		Preload("Tags").
		Preload("Specifications").
		Where("user_id = ? AND id = ?", userID, id).
		First(&vehicle).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	ensureAssociations(&vehicle)

	return &vehicle, nil
}

// Update replaces all vehicle fields. Tag/specification links are only
// touched when the payload carries the respective list.
func (s *Vehicles) Update(userID string, id uint, in VehicleInput) (*model.Vehicle, error) {
	if err := validateVehicleInput(in); err != nil {
		return nil, err
	}

	if _, err := s.fetchOwned(userID, id); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Vehicle{ID: id}).
			Select("title", "year", "price", "link", "description").
			Updates(map[string]any{
				"title":       in.Title,
				"year":        in.Year,
				"price":       in.Price,
				"link":        in.Link,
				"description": in.Description,
			}).
			Error
		if err != nil {
			return err
		}

		return s.relink(tx, userID, id, in.Tags, in.Specifications)
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(userID, id)
}

// PartialUpdate merges the present patch fields into the vehicle.
func (s *Vehicles) PartialUpdate(userID string, id uint, patch VehiclePatch) (*model.Vehicle, error) {
	vehicle, err := s.fetchOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		vehicle.Title = *patch.Title
	}
	if patch.Year != nil {
		vehicle.Year = *patch.Year
	}
	if patch.Price != nil {
		vehicle.Price = *patch.Price
	}
	if patch.Link != nil {
		vehicle.Link = *patch.Link
	}
	if patch.Description != nil {
		vehicle.Description = *patch.Description
	}

	if err := validators.VehicleValidator(vehicle.Title, vehicle.Year, vehicle.Price); err != nil {
		return nil, &ValidationError{err}
	}

	var tags, specs []NamedRef
	if patch.Tags != nil {
		tags = *patch.Tags
	}
	if patch.Specifications != nil {
		specs = *patch.Specifications
	}

	if err := validateNamedRefs(tags); err != nil {
		return nil, err
	}
	if err := validateNamedRefs(specs); err != nil {
		return nil, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Vehicle{ID: id}).
			Select("title", "year", "price", "link", "description").
			Updates(map[string]any{
				"title":       vehicle.Title,
				"year":        vehicle.Year,
				"price":       vehicle.Price,
				"link":        vehicle.Link,
				"description": vehicle.Description,
			}).
			Error
		if err != nil {
			return err
		}

		if patch.Tags != nil || patch.Specifications != nil {
			return s.relink(tx, userID, id, tags, specs)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(userID, id)
}

// Delete removes the vehicle and its link rows. Tags and specifications
// stay, they may be shared with other vehicles.
func (s *Vehicles) Delete(ctx context.Context, userID string, id uint) error {
	vehicle, err := s.fetchOwned(userID, id)
	if err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(vehicle).Association("Tags").Clear(); err != nil {
			return err
		}

		if err := tx.Model(vehicle).Association("Specifications").Clear(); err != nil {
			return err
		}

		return tx.Delete(vehicle).Error
	})
	if err != nil {
		return err
	}

	if vehicle.ImagePath != nil {
		if err := s.Store.Delete(ctx, *vehicle.ImagePath); err != nil {
			zap.L().Warn("Failed to delete image of removed vehicle",
				zap.String("key", *vehicle.ImagePath), zap.Error(err))
		}
	}

	return nil
}

// UploadImage validates and stores a new image for the vehicle, then
// swaps the reference. The previous image survives any failure before
// the database commit; it is only discarded after the new reference is
// durable.
func (s *Vehicles) UploadImage(ctx context.Context, userID string, id uint, r io.ReadSeeker, size int64) (*model.Vehicle, error) {
	vehicle, err := s.fetchOwned(userID, id)
	if err != nil {
		return nil, err
	}

	ext, contentType, err := validators.ImageValidator(r, size)
	if err != nil {
		return nil, &ValidationError{err}
	}

	key := path.Join("uploads", "vehicle", uuid.NewString()+ext)

	if err := s.Store.Save(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}

	old := vehicle.ImagePath

	err = s.DB.Model(vehicle).Update("image_path", key).Error
	if err != nil {
		// Remove the orphaned blob, the vehicle still points at the
		// old image.
		if derr := s.Store.Delete(ctx, key); derr != nil {
			zap.L().Warn("Failed to remove orphaned image", zap.String("key", key), zap.Error(derr))
		}

		return nil, err
	}

	if old != nil {
		if err := s.Store.Delete(ctx, *old); err != nil {
			zap.L().Warn("Failed to delete replaced image", zap.String("key", *old), zap.Error(err))
		}
	}

	return s.Retrieve(userID, id)
}

func (s *Vehicles) fetchOwned(userID string, id uint) (*model.Vehicle, error) {
	var vehicle model.Vehicle

	err := s.DB.Where("user_id = ? AND id = ?", userID, id).First(&vehicle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return &vehicle, nil
}

// relink replaces the tag/specification association sets when the input
// carries them. Names resolve via get-or-create within the acting user's
// rows, so cross-user links can't happen.
func (s *Vehicles) relink(tx *gorm.DB, userID string, id uint, tags, specs []NamedRef) error {
	vehicle := model.Vehicle{ID: id}

	if tags != nil {
		resolved, err := resolveTags(tx, userID, tags)
		if err != nil {
			return err
		}

		if err := tx.Model(&vehicle).Association("Tags").Replace(&resolved); err != nil {
			return err
		}
	}

	if specs != nil {
		resolved, err := resolveSpecifications(tx, userID, specs)
		if err != nil {
			return err
		}

		if err := tx.Model(&vehicle).Association("Specifications").Replace(&resolved); err != nil {
			return err
		}
	}

	return nil
}

func resolveTags(tx *gorm.DB, userID string, refs []NamedRef) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(refs))

	for _, ref := range refs {
		tag, err := getOrCreateTag(tx, userID, ref.Name)
		if err != nil {
			return nil, err
		}

		tags = append(tags, *tag)
	}

	return tags, nil
}

func resolveSpecifications(tx *gorm.DB, userID string, refs []NamedRef) ([]model.Specification, error) {
	specs := make([]model.Specification, 0, len(refs))

	for _, ref := range refs {
		spec, err := getOrCreateSpecification(tx, userID, ref.Name)
		if err != nil {
			return nil, err
		}

		specs = append(specs, *spec)
	}

	return specs, nil
}

func validateVehicleInput(in VehicleInput) error {
	if err := validators.VehicleValidator(in.Title, in.Year, in.Price); err != nil {
		return &ValidationError{err}
	}

	if err := validateNamedRefs(in.Tags); err != nil {
		return err
	}

	return validateNamedRefs(in.Specifications)
}

func validateNamedRefs(refs []NamedRef) error {
	for _, ref := range refs {
		if err := validators.NameValidator(ref.Name); err != nil {
			return &ValidationError{err}
		}
	}

	return nil
}

// ensureAssociations keeps empty link sets serializing as [] instead of
// null.
func ensureAssociations(v *model.Vehicle) {
	if v.Tags == nil {
		v.Tags = []model.Tag{}
	}

	if v.Specifications == nil {
		v.Specifications = []model.Specification{}
	}
}
