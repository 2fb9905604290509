package internal

import (
	"bitwise74/vehicle-api/internal/service"
	"bitwise74/vehicle-api/internal/storage"
	"bitwise74/vehicle-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Store    storage.Store
	Users    *service.Users
	Tags     *service.Tags
	Specs    *service.Specifications
	Vehicles *service.Vehicles
}
