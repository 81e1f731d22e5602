// Package booking orchestrates the rental flow: draft validation,
// pricing, simulated payment, the persisted booking record and the
// confirmation event.  Price arithmetic lives in the pricing
// package; this package never repeats the formula.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/pricing"
	"github.com/vrooom/car-rental-service/internal/queue"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/store"
	"github.com/vrooom/car-rental-service/internal/validate"
)

// Draft rejections beyond field validation.
var (
	ErrMaintenance    = errors.New("bookings are temporarily disabled for maintenance")
	ErrCarUnavailable = errors.New("car is not available")
	ErrTooSoon        = errors.New("pickup is below the minimum booking notice")
	ErrTooFarAhead    = errors.New("pickup is beyond the maximum advance window")
)

// Workflow wires the booking dependencies together.  Construct one
// at startup and share it; all state lives in the store.
type Workflow struct {
	Catalog  *catalog.Provider
	Bookings *repository.BookingRepo
	Settings *repository.SettingsRepo
	Gateway  Gateway
	Events   queue.EventPublisher
	Session  store.Store // transient session-scoped store
	Now      func() time.Time
}

func (w *Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now().UTC()
}

// PrepareQuote validates a draft far enough to price it.  Used both
// for the live summary endpoint and as the first half of Create.
func (w *Workflow) PrepareQuote(ctx context.Context, in validate.BookingInput) (model.Car, pricing.Quote, error) {
	if errs := validate.Booking(in); errs != nil {
		return model.Car{}, pricing.Quote{}, errs
	}
	car, err := w.Catalog.GetByID(ctx, in.CarID)
	if err != nil {
		return model.Car{}, pricing.Quote{}, err
	}
	pickup, err := pricing.ParseDate(in.PickupDate)
	if err != nil {
		return model.Car{}, pricing.Quote{}, validate.Errors{{Field: "pickupDate", Message: "must use the format 2006-01-02"}}
	}
	ret, err := pricing.ParseDate(in.ReturnDate)
	if err != nil {
		return model.Car{}, pricing.Quote{}, validate.Errors{{Field: "returnDate", Message: "must use the format 2006-01-02"}}
	}
	q, err := pricing.Compute(car, pickup, ret, in.Extras)
	if err != nil {
		return model.Car{}, pricing.Quote{}, err
	}
	return car, q, nil
}

// checkWindow enforces the admin booking window settings against the
// pickup date.
func (w *Workflow) checkWindow(ctx context.Context, pickupDate string) error {
	settings := w.Settings.Get(ctx)
	pickup, err := pricing.ParseDate(pickupDate)
	if err != nil {
		return validate.Errors{{Field: "pickupDate", Message: "must use the format 2006-01-02"}}
	}
	now := w.now()
	if settings.MinBookingHours > 0 {
		earliest := now.Add(time.Duration(settings.MinBookingHours) * time.Hour)
		// compare on calendar dates; pickup time-of-day is not part of the window
		if pickup.Before(time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, time.UTC)) {
			return fmt.Errorf("%w (%d hours)", ErrTooSoon, settings.MinBookingHours)
		}
	}
	if settings.MaxAdvanceDays > 0 {
		latest := now.AddDate(0, 0, settings.MaxAdvanceDays)
		if pickup.After(latest) {
			return fmt.Errorf("%w (%d days)", ErrTooFarAhead, settings.MaxAdvanceDays)
		}
	}
	return nil
}

// Create runs the full flow for an authenticated user: validate the
// draft, price it, charge the simulated gateway and persist the
// booking.  On payment failure the error is recoverable and the
// draft is untouched, so the client can retry the same data.
func (w *Workflow) Create(ctx context.Context, user model.User, in validate.BookingInput) (model.Booking, error) {
	settings := w.Settings.Get(ctx)
	if settings.MaintenanceMode && !user.IsAdmin() {
		return model.Booking{}, ErrMaintenance
	}

	car, q, err := w.PrepareQuote(ctx, in)
	if err != nil {
		return model.Booking{}, err
	}
	if !car.Available {
		return model.Booking{}, ErrCarUnavailable
	}
	if err := w.checkWindow(ctx, in.PickupDate); err != nil {
		return model.Booking{}, err
	}

	payment, err := w.Gateway.Charge(ctx, q.Total)
	if err != nil {
		return model.Booking{}, err
	}

	b := model.Booking{
		ID:             uuid.NewString(),
		UserID:         user.Email,
		Car:            car, // full snapshot; later catalog edits don't rewrite history
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupTime:     in.PickupTime,
		ReturnTime:     in.ReturnTime,
		PickupLocation: in.PickupLocation,
		TotalDays:      q.Days,
		Extras:         q.Extras,
		Subtotal:       q.Subtotal,
		ExtrasTotal:    q.ExtrasTotal,
		Tax:            q.Tax,
		TotalPrice:     q.Total,
		Status:         model.BookingStatusActive,
		PaymentRef:     payment.TransactionID,
		CreatedAt:      w.now(),
	}
	if err := w.Bookings.Append(ctx, b); err != nil {
		return model.Booking{}, err
	}

	// Confirmed booking is durable; losing the event only loses a log line.
	if w.Events != nil {
		if err := w.Events.BookingConfirmed(ctx, queue.BookingConfirmedEvent{
			BookingID:   b.ID,
			UserEmail:   b.UserID,
			CarID:       car.ID,
			CarName:     car.Name,
			PickupDate:  b.PickupDate,
			ReturnDate:  b.ReturnDate,
			TotalDays:   b.TotalDays,
			TotalPrice:  b.TotalPrice,
			PaymentRef:  b.PaymentRef,
			ConfirmedAt: b.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking: confirmed event not published: %v", err)
		}
	}

	// the pending draft, if any, is now consumed
	_ = w.Session.Delete(ctx, store.KeyPendingBooking)

	return b, nil
}

// Cancel transitions a booking to cancelled on behalf of actor.
// Customers may only cancel their own bookings; admins may cancel
// any.  Repeats are no-ops.
func (w *Workflow) Cancel(ctx context.Context, actor model.User, id string) (model.Booking, error) {
	b, err := w.Bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if !actor.IsAdmin() && b.UserID != actor.Email {
		return model.Booking{}, repository.ErrForbidden
	}

	cancelled, changed, err := w.Bookings.Cancel(ctx, id, w.now())
	if err != nil {
		return model.Booking{}, err
	}
	if changed && w.Events != nil {
		by := "user"
		if actor.IsAdmin() {
			by = "admin"
		}
		if err := w.Events.BookingCancelled(ctx, queue.BookingCancelledEvent{
			BookingID:   cancelled.ID,
			UserEmail:   cancelled.UserID,
			CarName:     cancelled.Car.Name,
			CancelledBy: by,
			CancelledAt: cancelled.CancelledAt.Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking: cancelled event not published: %v", err)
		}
	}
	return cancelled, nil
}

// SaveDraft parks a guest's draft in the transient session store so
// the flow can resume after login.  Every unauthenticated entry
// point preserves its draft; none of them lose it.
func (w *Workflow) SaveDraft(ctx context.Context, in validate.BookingInput) error {
	draft := model.BookingDraft{
		CarID:          in.CarID,
		PickupDate:     in.PickupDate,
		ReturnDate:     in.ReturnDate,
		PickupTime:     in.PickupTime,
		ReturnTime:     in.ReturnTime,
		PickupLocation: in.PickupLocation,
		Extras:         in.Extras,
	}
	return w.Session.Set(ctx, store.KeyPendingBooking, draft)
}

// PendingDraft returns the parked draft, if any.
func (w *Workflow) PendingDraft(ctx context.Context) (model.BookingDraft, bool) {
	var draft model.BookingDraft
	found, err := w.Session.Get(ctx, store.KeyPendingBooking, &draft)
	if err != nil {
		log.Printf("booking: pending draft unreadable, dropping: %v", err)
		return model.BookingDraft{}, false
	}
	return draft, found
}

// DiscardDraft removes the parked draft.
func (w *Workflow) DiscardDraft(ctx context.Context) error {
	return w.Session.Delete(ctx, store.KeyPendingBooking)
}
