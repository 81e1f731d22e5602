// Package queue defines message payloads exchanged over the message
// broker and the background consumer that turns them into the
// booking audit log.
package queue

// Queue names.  One durable queue per event kind.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published when a simulated payment
// succeeds and the booking record has been persisted.  It carries
// enough for downstream consumers to log or notify without reading
// the primary store.
type BookingConfirmedEvent struct {
	BookingID   string `json:"booking_id"`
	UserEmail   string `json:"user_email"`
	CarID       int    `json:"car_id"`
	CarName     string `json:"car_name"`
	PickupDate  string `json:"pickup_date"`
	ReturnDate  string `json:"return_date"`
	TotalDays   int    `json:"total_days"`
	TotalPrice  int    `json:"total_price"`
	PaymentRef  string `json:"payment_ref"`
	ConfirmedAt string `json:"confirmed_at"`
}

// BookingCancelledEvent is published on the first (state-changing)
// cancellation of a booking; idempotent repeats publish nothing.
type BookingCancelledEvent struct {
	BookingID   string `json:"booking_id"`
	UserEmail   string `json:"user_email"`
	CarName     string `json:"car_name"`
	CancelledBy string `json:"cancelled_by"` // "user" or "admin"
	CancelledAt string `json:"cancelled_at"`
}
