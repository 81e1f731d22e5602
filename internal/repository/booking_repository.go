package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// BookingRepo manages the `bookings` collection.  Bookings are
// append-only apart from status transitions; nothing is ever
// physically deleted, so cancellations stay visible in dashboards.
type BookingRepo struct {
	st store.Store
	mu sync.Mutex
}

func NewBookingRepo(st store.Store) *BookingRepo { return &BookingRepo{st: st} }

func (r *BookingRepo) load(ctx context.Context) []model.Booking {
	var bookings []model.Booking
	if _, err := r.st.Get(ctx, store.KeyBookings, &bookings); err != nil {
		log.Printf("bookings: read failed, using empty collection: %v", err)
		return nil
	}
	return bookings
}

// Append persists a newly confirmed booking.
func (r *BookingRepo) Append(ctx context.Context, b model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := append(r.load(ctx), b)
	return r.st.Set(ctx, store.KeyBookings, bookings)
}

// ListAll returns the full collection in insertion order.
func (r *BookingRepo) ListAll(ctx context.Context) []model.Booking {
	return r.load(ctx)
}

// ListByUser returns the bookings owned by the given email.
func (r *BookingRepo) ListByUser(ctx context.Context, email string) []model.Booking {
	var out []model.Booking
	for _, b := range r.load(ctx) {
		if b.UserID == email {
			out = append(out, b)
		}
	}
	return out
}

// GetByID fetches one booking.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	for _, b := range r.load(ctx) {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, ErrBookingNotFound
}

// Cancel transitions a booking to cancelled.  The operation is
// idempotent: cancelling an already-cancelled booking changes
// nothing and reports changed=false rather than an error.
func (r *BookingRepo) Cancel(ctx context.Context, id string, at time.Time) (model.Booking, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := r.load(ctx)
	for i := range bookings {
		if bookings[i].ID != id {
			continue
		}
		if bookings[i].Status == model.BookingStatusCancelled {
			return bookings[i], false, nil
		}
		bookings[i].Status = model.BookingStatusCancelled
		bookings[i].CancelledAt = &at
		if err := r.st.Set(ctx, store.KeyBookings, bookings); err != nil {
			return model.Booking{}, false, err
		}
		return bookings[i], true, nil
	}
	return model.Booking{}, false, ErrBookingNotFound
}
