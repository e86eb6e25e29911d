// errors.go defines sentinel errors for validation failures.
//
// Each error is a distinct failure category checked with errors.Is().
// Detailed, user-facing messages come from wrapping these with fmt.Errorf
// in the validation functions.

package validate

import "errors"

var (
	ErrEmptyName          = errors.New("engine name is required")
	ErrEmptyURL           = errors.New("search URL is required")
	ErrMissingPlaceholder = errors.New("search URL must contain the keyword placeholder")
	ErrNoRole             = errors.New("select at least one role (target or source)")
	ErrDuplicateDomain    = errors.New("domain already has a rule")
	ErrInvalidText        = errors.New("invalid text")
)

// IsValidation reports whether err is any validation failure. Surfaces use
// it to tell user-correctable input errors apart from persistence failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyURL) ||
		errors.Is(err, ErrMissingPlaceholder) ||
		errors.Is(err, ErrNoRole) ||
		errors.Is(err, ErrDuplicateDomain) ||
		errors.Is(err, ErrInvalidText)
}
