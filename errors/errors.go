// Package errors defines the error taxonomy shared by every service.
//
// Call sites wrap a sentinel with fmt.Errorf("%w: detail", ...) and callers
// match the family with errors.Is. The transport layer maps each family to a
// status code; services never invent ad hoc error kinds.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Is re-exports the standard library matcher so callers of this package do
// not need a second errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

var (
	// ErrUnauthorized means no verified caller identity was supplied.
	ErrUnauthorized = fmt.Errorf("unauthorized")
	// ErrProfileMissing means the identity is verified but no user record is linked to it.
	ErrProfileMissing = fmt.Errorf("user profile not found")
	// ErrForbidden covers membership-gate and ownership failures.
	ErrForbidden = fmt.Errorf("forbidden")
	// ErrValidation covers input rejected before any storage mutation.
	ErrValidation = fmt.Errorf("validation failed")
	// ErrNotFound means a referenced conversation, message or user is absent.
	ErrNotFound = fmt.Errorf("not found")
)
