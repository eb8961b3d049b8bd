package services

import "errors"

var (
	// ErrNotFound covers both "does not exist" and "owned by someone else";
	// callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBudget is returned when a user already has a budget for
	// the requested category.
	ErrDuplicateBudget = errors.New("budget for this category already exists")
)

// ValidationError reports a request that passed schema binding but failed a
// domain rule (non-positive amount, transfer without a target, ...).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErr(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a domain validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
