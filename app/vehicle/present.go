package vehicle

import (
	"bitwise74/vehicle-api/internal"
	"bitwise74/vehicle-api/internal/model"
)

// withImageURL swaps the stored image key for the address clients can
// actually fetch it from.
func withImageURL(d *internal.Deps, v *model.Vehicle) *model.Vehicle {
	if v.ImagePath != nil {
		url := d.Store.URL(*v.ImagePath)
		v.ImagePath = &url
	}

	return v
}
