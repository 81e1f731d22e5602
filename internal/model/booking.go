package model

import "time"

// Booking status lifecycle.  A booking is created as active and may
// only move to cancelled; records are never deleted.
const (
	BookingStatusActive    = "active"
	BookingStatusCancelled = "cancelled"
)

// BookingExtra is one selected optional extra with the daily price it
// was sold at.  The price is copied from the shared extras table at
// quote time so historical bookings keep the rate they were charged.
type BookingExtra struct {
	Type       string `json:"type"`
	DailyPrice int    `json:"price"`
}

// Booking is a persisted rental in the `bookings` collection.
//
// Fields:
//  ID             - UUID assigned at creation.
//  UserID         - owner's email (denormalized join key to users).
//  Car            - full snapshot of the car at booking time.
//  PickupDate     - calendar date "2006-01-02".
//  ReturnDate     - calendar date, strictly after PickupDate.
//  PickupTime     - "15:04" wall-clock time.
//  ReturnTime     - "15:04" wall-clock time.
//  PickupLocation - free-text pickup location.
//  TotalDays      - ceil((return - pickup) / 1 day), always > 0.
//  Extras         - selected extras in the order they were chosen.
//  Subtotal       - Car.Price * TotalDays.
//  ExtrasTotal    - sum of extra daily prices * TotalDays.
//  Tax            - round(0.12 * (Subtotal + ExtrasTotal)).
//  TotalPrice     - Subtotal + ExtrasTotal + Tax.
//  Status         - BookingStatusActive or BookingStatusCancelled.
//  PaymentRef     - transaction reference from the payment gateway.
//  CreatedAt      - creation timestamp.
//  CancelledAt    - set on the first cancellation, nil otherwise.
type Booking struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Car            Car            `json:"car"`
	PickupDate     string         `json:"pickupDate"`
	ReturnDate     string         `json:"returnDate"`
	PickupTime     string         `json:"pickupTime"`
	ReturnTime     string         `json:"returnTime"`
	PickupLocation string         `json:"pickupLocation"`
	TotalDays      int            `json:"totalDays"`
	Extras         []BookingExtra `json:"extras"`
	Subtotal       int            `json:"subtotal"`
	ExtrasTotal    int            `json:"extrasTotal"`
	Tax            int            `json:"tax"`
	TotalPrice     int            `json:"totalPrice"`
	Status         string         `json:"status"`
	PaymentRef     string         `json:"paymentId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	CancelledAt    *time.Time     `json:"cancelledAt,omitempty"`
}

// BookingDraft carries the form data captured before payment.  Drafts
// for guests are parked in the transient session store under the
// `pendingBooking` key so the flow can resume after login.
type BookingDraft struct {
	CarID          int      `json:"carId"`
	PickupDate     string   `json:"pickupDate"`
	ReturnDate     string   `json:"returnDate"`
	PickupTime     string   `json:"pickupTime"`
	ReturnTime     string   `json:"returnTime"`
	PickupLocation string   `json:"pickupLocation"`
	Extras         []string `json:"extras"`
}
