package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input: bad due day, negative amount,
	// missing enrollment date. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an attempt to create a period for an existing
	// (student, year, month). The generator swallows it as "skipped";
	// manual creation surfaces it to the user.
	ErrConflict = errors.New("period already exists")

	// ErrNotFound marks operations on a missing period or student id.
	ErrNotFound = errors.New("not found")
)

func validationErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsValidation reports whether err belongs to the validation class.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsConflict reports whether err is a (student, year, month) conflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
