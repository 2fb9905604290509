package validators

import "errors"

var (
	ErrNameEmpty     = errors.New("name can't be empty")
	ErrNameTooLong   = errors.New("name is too long")
	ErrTitleEmpty    = errors.New("title can't be empty")
	ErrYearInvalid   = errors.New("year must be a positive number")
	ErrPriceNegative = errors.New("price can't be negative")
)

const maxNameLength = 255

// NameValidator checks a tag or specification name.
func NameValidator(n string) error {
	if n == "" {
		return ErrNameEmpty
	}

	if len(n) > maxNameLength {
		return ErrNameTooLong
	}

	return nil
}

// VehicleValidator checks the required vehicle fields.
func VehicleValidator(title string, year int, price float64) error {
	if title == "" {
		return ErrTitleEmpty
	}

	if len(title) > maxNameLength {
		return ErrNameTooLong
	}

	if year <= 0 {
		return ErrYearInvalid
	}

	if price < 0 {
		return ErrPriceNegative
	}

	return nil
}
