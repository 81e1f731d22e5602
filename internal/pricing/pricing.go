// Package pricing computes rental quotes.  It is the only place the
// price formula lives; booking entry points must call Quote instead
// of repeating the arithmetic.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/vrooom/car-rental-service/internal/model"
)

// TaxRate is the flat tax applied on top of rental and extras.
const TaxRate = 0.12

// ErrInvalidRange is returned when the return date is not strictly
// after the pickup date.
var ErrInvalidRange = errors.New("return date must be after pickup date")

// ErrUnknownExtra is returned when an extra type is not in the shared
// price table.
var ErrUnknownExtra = errors.New("unknown extra")

// ExtraDailyPrices is the single price table for optional extras, in
// dollars per rental day.  Every surface that shows or charges an
// extra reads from here.
var ExtraDailyPrices = map[string]int{
	"gps":        10,
	"insurance":  25,
	"child-seat": 15,
	"wifi":       8,
}

// Quote is the price breakdown for one rental.
type Quote struct {
	Days        int                  `json:"days"`
	Subtotal    int                  `json:"subtotal"`
	Extras      []model.BookingExtra `json:"extras"`
	ExtrasTotal int                  `json:"extrasTotal"`
	Tax         int                  `json:"tax"`
	Total       int                  `json:"total"`
}

// Compute prices a rental of the given car between pickup and ret
// with the selected extras.  Days are counted as ceil of the elapsed
// time in whole days, so a partial final day is billed in full.  Tax
// is round(TaxRate * (subtotal + extras)), with math.Round's
// half-away-from-zero behavior; all amounts involved are positive so
// this matches conventional round-half-up.  The function is pure.
func Compute(car model.Car, pickup, ret time.Time, extras []string) (Quote, error) {
	if !ret.After(pickup) {
		return Quote{}, ErrInvalidRange
	}
	days := int(math.Ceil(ret.Sub(pickup).Hours() / 24))
	if days <= 0 {
		return Quote{}, ErrInvalidRange
	}

	subtotal := car.Price * days

	selected := make([]model.BookingExtra, 0, len(extras))
	extrasTotal := 0
	for _, e := range extras {
		daily, ok := ExtraDailyPrices[e]
		if !ok {
			return Quote{}, fmt.Errorf("%w: %q", ErrUnknownExtra, e)
		}
		selected = append(selected, model.BookingExtra{Type: e, DailyPrice: daily})
		extrasTotal += daily * days
	}

	tax := int(math.Round(TaxRate * float64(subtotal+extrasTotal)))
	return Quote{
		Days:        days,
		Subtotal:    subtotal,
		Extras:      selected,
		ExtrasTotal: extrasTotal,
		Tax:         tax,
		Total:       subtotal + extrasTotal + tax,
	}, nil
}

// ParseDate parses the wire format used for pickup and return dates.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
