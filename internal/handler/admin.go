package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/booking"
	"github.com/vrooom/car-rental-service/internal/middleware"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/store"
)

// AdminHandler serves the dashboard: fleet management, booking
// oversight, the user directory and the settings singleton.
type AdminHandler struct {
	Store    store.Store
	Cars     *repository.CarRepo
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
	Settings *repository.SettingsRepo
	Flow     *booking.Workflow
}

func NewAdminHandler(st store.Store, cars *repository.CarRepo, b *repository.BookingRepo, u *repository.UserRepo, s *repository.SettingsRepo, flow *booking.Workflow) *AdminHandler {
	return &AdminHandler{Store: st, Cars: cars, Bookings: b, Users: u, Settings: s, Flow: flow}
}

// Overview returns the dashboard headline numbers.  Revenue counts
// active bookings only; a cancelled booking's money is treated as
// returned.
func (h *AdminHandler) Overview(c echo.Context) error {
	ctx := c.Request().Context()

	bookings := h.Bookings.ListAll(ctx)
	active, revenue := 0, 0
	for _, b := range bookings {
		if b.Status == model.BookingStatusActive {
			active++
			revenue += b.TotalPrice
		}
	}

	cars := h.Flow.Catalog.ListAll(ctx)
	available := 0
	for _, car := range cars {
		if car.Available {
			available++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalCars":      len(cars),
		"availableCars":  available,
		"totalBookings":  len(bookings),
		"activeBookings": active,
		"totalRevenue":   revenue,
		"totalUsers":     len(h.Users.List(ctx)),
	})
}

// ----- fleet -----

// CreateCar adds a car to the fleet.  The id is assigned server-side.
func (h *AdminHandler) CreateCar(c echo.Context) error {
	var car model.Car
	if err := c.Bind(&car); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(car.Name) == "" || car.Price <= 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "name and a positive price are required"})
	}
	created, err := h.Cars.Create(c.Request().Context(), car)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"car": created})
}

// UpdateCar replaces a car's fields, keeping its id.
func (h *AdminHandler) UpdateCar(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var car model.Car
	if err := c.Bind(&car); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	updated, err := h.Cars.Update(c.Request().Context(), id, car)
	if err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"car": updated})
}

// DeleteCar removes a car from the fleet.  Existing bookings keep
// their embedded snapshot of it.
func (h *AdminHandler) DeleteCar(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	if err := h.Cars.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCarNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "car not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete car failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "car deleted"})
}

// ----- bookings -----

// ListBookings returns every booking, optionally filtered by ?status=
// and ?date= (exact pickup date).
func (h *AdminHandler) ListBookings(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	date := strings.TrimSpace(c.QueryParam("date"))

	all := h.Bookings.ListAll(c.Request().Context())
	out := make([]model.Booking, 0, len(all))
	for _, b := range all {
		if status != "" && b.Status != status {
			continue
		}
		if date != "" && b.PickupDate != date {
			continue
		}
		out = append(out, b)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": len(out)})
}

// CancelBooking cancels any booking on the admin's authority.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
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

// ----- users -----

type userRow struct {
	model.User
	BookingCount int `json:"bookingCount"`
	TotalSpent   int `json:"totalSpent"`
}

// ListUsers returns the user directory with per-user booking counts
// and lifetime spend on active bookings.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	counts := map[string]int{}
	spent := map[string]int{}
	for _, b := range h.Bookings.ListAll(ctx) {
		counts[b.UserID]++
		if b.Status == model.BookingStatusActive {
			spent[b.UserID] += b.TotalPrice
		}
	}

	users := h.Users.List(ctx)
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			User:         u,
			BookingCount: counts[u.Email],
			TotalSpent:   spent[u.Email],
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": rows, "total": len(rows)})
}

// ----- settings -----

// GetSettings returns the settings singleton, creating defaults on
// first read.
func (h *AdminHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"settings": h.Settings.Get(c.Request().Context())})
}

// SaveSettings overwrites the settings singleton wholesale.
func (h *AdminHandler) SaveSettings(c echo.Context) error {
	var s model.AdminSettings
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Settings.Save(c.Request().Context(), s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save settings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": h.Settings.Get(c.Request().Context())})
}

// Reset wipes every record in the persistence store, returning the
// demo to its pristine state: fallback catalog, no users, no
// bookings, default settings.
func (h *AdminHandler) Reset(c echo.Context) error {
	if err := h.Store.ClearAll(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reset failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "demo data reset"})
}
