// Package store implements the persistence layer: a flat key-value
// space of named collections whose values round-trip through JSON
// text.  Every write is immediately durable and overwrites the whole
// value; there is no batching and no transaction.  Concurrent writers
// follow last-writer-wins, which is acceptable for this demo's
// single logical thread of execution per workflow.
package store

import "context"

// Store is the contract every backend satisfies.  Get decodes the
// stored JSON into dest and reports whether the key existed; a
// missing key is not an error.  A corrupt payload is reported as an
// error so callers can substitute their default and keep going
// rather than fail the request.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	ClearAll(ctx context.Context) error
}

// Collection keys used by the application.  All bookings live under
// the single "bookings" key regardless of who reads them.
const (
	KeyUsers         = "users"
	KeyBookings      = "bookings"
	KeyCars          = "cars"
	KeyAdminSettings = "adminSettings"
	KeyCurrentUser   = "currentUser"
)

// Session-scoped transient keys.  These live in a MemStore, never in
// the durable backend, and pass data between steps of a flow.
const (
	KeySearchLocation = "searchLocation"
	KeySearchDate     = "searchDate"
	KeySearchTime     = "searchTime"
	KeyPendingBooking = "pendingBooking"
)
