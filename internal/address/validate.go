package address

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField    = errors.New("missing required address field")
	ErrUnknownProvince = errors.New("unknown province")
)

// Validate checks that all required fields are present and the province
// is one we ship to.
func (a Address) Validate() error {
	required := map[string]string{
		"firstName":     a.FirstName,
		"lastName":      a.LastName,
		"streetAddress": a.StreetAddress,
		"city":          a.City,
		"province":      a.Province,
		"postalCode":    a.PostalCode,
		"phone":         a.Phone,
	}

	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	if !validProvince(a.Province) {
		return fmt.Errorf("%w: %s", ErrUnknownProvince, a.Province)
	}

	return nil
}
