package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/booking"
	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/middleware"
	"github.com/vrooom/car-rental-service/internal/pricing"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/store"
	"github.com/vrooom/car-rental-service/internal/validate"
)

// BookingHandler serves quotes, the booking lifecycle and the
// transient search context shared between the landing and listing
// pages.
type BookingHandler struct {
	Flow    *booking.Workflow
	Session store.Store
}

func NewBookingHandler(flow *booking.Workflow, session store.Store) *BookingHandler {
	return &BookingHandler{Flow: flow, Session: session}
}

// Quote prices a draft without committing anything.  Open to guests
// so the summary step works before login.
func (h *BookingHandler) Quote(c echo.Context) error {
	var req validate.BookingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	car, q, err := h.Flow.PrepareQuote(c.Request().Context(), req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"car": car, "quote": q})
}

// Create books a car for the authenticated user.  A guest gets 401
// with the draft preserved, so the client can send them through login
// and resume the same booking afterwards.
func (h *BookingHandler) Create(c echo.Context) error {
	var req validate.BookingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	user, ok := middleware.CurrentUser(c)
	if !ok {
		if err := h.Flow.SaveDraft(ctx, req); err != nil {
			c.Logger().Warnf("booking: draft not saved: %v", err)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":      "authentication required",
			"draftSaved": true,
		})
	}

	b, err := h.Flow.Create(ctx, user, req)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// List returns the authenticated user's bookings, newest last.
func (h *BookingHandler) List(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	bookings := h.Flow.Bookings.ListByUser(c.Request().Context(), user.Email)
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings, "total": len(bookings)})
}

// Cancel cancels one of the user's bookings.  Cancelling an already
// cancelled booking is a no-op and still returns 200.
func (h *BookingHandler) Cancel(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	b, err := h.Flow.Cancel(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Draft returns the pending booking draft, if any.
func (h *BookingHandler) Draft(c echo.Context) error {
	draft, ok := h.Flow.PendingDraft(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"draft": draft})
}

// DiscardDraft drops the pending booking draft.
func (h *BookingHandler) DiscardDraft(c echo.Context) error {
	if err := h.Flow.DiscardDraft(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "discard failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "draft discarded"})
}

type searchContextReq struct {
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// SaveSearchContext stores the landing-page search fields so the
// listing and booking pages can prefill them.  The values are
// session-scoped and never hit the durable store.
func (h *BookingHandler) SaveSearchContext(c echo.Context) error {
	var req searchContextReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx := c.Request().Context()
	pairs := map[string]string{
		store.KeySearchLocation: strings.TrimSpace(req.Location),
		store.KeySearchDate:     strings.TrimSpace(req.Date),
		store.KeySearchTime:     strings.TrimSpace(req.Time),
	}
	for key, val := range pairs {
		var err error
		if val == "" {
			err = h.Session.Delete(ctx, key)
		} else {
			err = h.Session.Set(ctx, key, val)
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save search context failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "search context saved"})
}

// SearchContext returns whatever search fields are currently stored.
func (h *BookingHandler) SearchContext(c echo.Context) error {
	ctx := c.Request().Context()
	read := func(key string) string {
		var s string
		if found, err := h.Session.Get(ctx, key, &s); err != nil || !found {
			return ""
		}
		return s
	}
	return c.JSON(http.StatusOK, echo.Map{
		"location": read(store.KeySearchLocation),
		"date":     read(store.KeySearchDate),
		"time":     read(store.KeySearchTime),
	})
}

// bookingError maps workflow errors onto HTTP statuses.
func bookingError(c echo.Context, err error) error {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": verrs})
	case errors.Is(err, catalog.ErrCarNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, pricing.ErrInvalidRange), errors.Is(err, pricing.ErrUnknownExtra),
		errors.Is(err, booking.ErrTooSoon), errors.Is(err, booking.ErrTooFarAhead):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrCarUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrMaintenance):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrPaymentDeclined):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}
