// Package repository provides typed access to the persistence
// store's named collections.  Sentinel errors let handlers map
// failure scenarios to HTTP statuses: ErrEmailExists becomes 409,
// the not-found values become 404, ErrForbidden becomes 403.
package repository

import "errors"

// ErrEmailExists is returned when signup finalization finds the
// email already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrBookingNotFound is returned when no booking matches the id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller attempts an operation on
// a resource they do not own.
var ErrForbidden = errors.New("forbidden")
