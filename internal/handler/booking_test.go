package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/vrooom/car-rental-service/internal/auth"
	"github.com/vrooom/car-rental-service/internal/booking"
	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/handler"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
	"github.com/vrooom/car-rental-service/internal/router"
	"github.com/vrooom/car-rental-service/internal/store"
)

const testSecret = "test-secret"

// appHarness wires the booking and admin surface the way main does,
// over in-memory stores and a gateway that always approves.
type appHarness struct {
	authHarness
	sessions *repository.SessionRepo
}

func newAppHarness(t *testing.T) *appHarness {
	t.Helper()
	st := store.NewMemStore()
	session := store.NewMemStore()

	provider := catalog.NewProvider(st, "no-such-catalog.json")
	users := repository.NewUserRepo(st)
	bookings := repository.NewBookingRepo(st)
	cars := repository.NewCarRepo(st, provider)
	settings := repository.NewSettingsRepo(st)
	sessions := repository.NewSessionRepo(session)

	gateway := booking.NewSimulatedGateway(1.0, 0)
	gateway.Rand = func() float64 { return 0 }
	gateway.Sleep = func(context.Context, time.Duration) {}

	flow := &booking.Workflow{
		Catalog:  provider,
		Bookings: bookings,
		Settings: settings,
		Gateway:  gateway,
		Session:  session,
		Now:      func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}

	e := echo.New()
	bh := handler.NewBookingHandler(flow, session)
	router.RegisterPublic(e, handler.NewCatalogHandler(provider), bh, nil)
	router.RegisterBookings(e, bh, testSecret, sessions)
	router.RegisterAdmin(e, handler.NewAdminHandler(st, cars, bookings, users, settings, flow), testSecret, sessions)

	return &appHarness{
		authHarness: authHarness{e: e, users: users, settings: settings},
		sessions:    sessions,
	}
}

// signIn establishes the session record and mints a matching token.
func (h *appHarness) signIn(t *testing.T, u model.User) string {
	t.Helper()
	require.NoError(t, h.sessions.Establish(context.Background(), model.Session{User: u, LoggedIn: time.Now().UTC()}))
	access, err := auth.NewAccessToken(testSecret, u.Email, u.Role, 30)
	require.NoError(t, err)
	return access.Token
}

const bookingBody = `{
	"carId": 2,
	"pickupDate": "2024-06-10",
	"returnDate": "2024-06-13",
	"pickupTime": "10:00",
	"returnTime": "10:00",
	"pickupLocation": "Airport",
	"extras": ["gps", "insurance"]
}`

func TestGuestCheckoutPreservesDraft(t *testing.T) {
	h := newAppHarness(t)

	rec := h.do(http.MethodPost, "/v1/bookings", bookingBody, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, true, decode(t, rec)["draftSaved"])

	rec = h.do(http.MethodGet, "/v1/bookings/draft", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	draft := decode(t, rec)["draft"].(map[string]any)
	require.Equal(t, float64(2), draft["carId"])
	require.Equal(t, "2024-06-10", draft["pickupDate"])

	rec = h.do(http.MethodDelete, "/v1/bookings/draft", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodGet, "/v1/bookings/draft", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	h := newAppHarness(t)
	token := h.signIn(t, model.User{Email: "jane@example.com", Role: model.RoleCustomer})

	rec := h.do(http.MethodPost, "/v1/quotes", bookingBody, "")
	require.Equal(t, http.StatusOK, rec.Code)
	quote := decode(t, rec)["quote"].(map[string]any)
	require.Equal(t, float64(437), quote["total"])

	rec = h.do(http.MethodPost, "/v1/bookings", bookingBody, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	b := decode(t, rec)["booking"].(map[string]any)
	require.Equal(t, model.BookingStatusActive, b["status"])
	require.Equal(t, float64(437), b["totalPrice"])
	id := b["id"].(string)

	rec = h.do(http.MethodGet, "/v1/bookings", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decode(t, rec)["total"])

	rec = h.do(http.MethodDelete, "/v1/bookings/"+id, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	b = decode(t, rec)["booking"].(map[string]any)
	require.Equal(t, model.BookingStatusCancelled, b["status"])

	rec = h.do(http.MethodDelete, "/v1/bookings/no-such-id", "", token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSurfaceIsRoleGated(t *testing.T) {
	h := newAppHarness(t)

	customer := h.signIn(t, model.User{Email: "jane@example.com", Role: model.RoleCustomer})
	rec := h.do(http.MethodGet, "/v1/admin/overview", "", customer)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := h.signIn(t, model.User{Email: "admin@vrooom.com", Role: model.RoleAdmin})
	rec = h.do(http.MethodGet, "/v1/admin/overview", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)
	require.Equal(t, float64(3), stats["totalCars"]) // fallback catalog

	// fleet edit flows into the public listing
	rec = h.do(http.MethodPost, "/v1/admin/cars", `{"name":"Audi A4","brand":"Audi","type":"sedan","price":80}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	car := decode(t, rec)["car"].(map[string]any)
	require.Equal(t, float64(4), car["id"]) // max existing + 1

	rec = h.do(http.MethodGet, "/v1/cars", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(4), decode(t, rec)["total"])
}

func TestCatalogQueryParams(t *testing.T) {
	h := newAppHarness(t)

	rec := h.do(http.MethodGet, "/v1/cars?type=suv", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(1), decode(t, rec)["total"])

	rec = h.do(http.MethodGet, "/v1/cars?max_price=abc", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodGet, "/v1/cars/3", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Porsche 911", decode(t, rec)["car"].(map[string]any)["name"])

	rec = h.do(http.MethodGet, "/v1/cars/99", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
