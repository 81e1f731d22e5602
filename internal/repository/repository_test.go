package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

func TestUserRepo_DuplicateEmailRejected(t *testing.T) {
	r := NewUserRepo(store.NewMemStore())
	ctx := context.Background()

	_, err := r.Create(ctx, model.User{Email: "jane@example.com", FirstName: "Jane"})
	require.NoError(t, err)

	// same email, different casing and other fields
	_, err = r.Create(ctx, model.User{Email: "JANE@example.com", FirstName: "Janet", Phone: "555"})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepo_ListStripsPasswords(t *testing.T) {
	r := NewUserRepo(store.NewMemStore())
	ctx := context.Background()

	_, err := r.Create(ctx, model.User{Email: "jane@example.com", PasswordHash: "$2a$10$secret"})
	require.NoError(t, err)

	users := r.List(ctx)
	require.Len(t, users, 1)
	require.Empty(t, users[0].PasswordHash)

	// repository lookups still carry the hash for verification
	u, err := r.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, u.PasswordHash)
}

func TestBookingRepo_RoundTrip(t *testing.T) {
	r := NewBookingRepo(store.NewMemStore())
	ctx := context.Background()

	created := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	b := model.Booking{
		ID:             "b-1",
		UserID:         "jane@example.com",
		Car:            model.Car{ID: 2, Name: "BMW X5", Price: 95, Features: []string{"Navigation", "Heated Seats"}},
		PickupDate:     "2024-06-10",
		ReturnDate:     "2024-06-13",
		PickupTime:     "10:00",
		ReturnTime:     "10:00",
		PickupLocation: "Airport",
		TotalDays:      3,
		Extras:         []model.BookingExtra{{Type: "insurance", DailyPrice: 25}, {Type: "gps", DailyPrice: 10}},
		Subtotal:       285,
		ExtrasTotal:    105,
		Tax:            47,
		TotalPrice:     437,
		Status:         model.BookingStatusActive,
		CreatedAt:      created,
	}
	require.NoError(t, r.Append(ctx, b))

	got, err := r.GetByID(ctx, "b-1")
	require.NoError(t, err)
	require.Equal(t, b, got) // all fields, extras ordering included
}

func TestBookingRepo_CancelIsIdempotent(t *testing.T) {
	r := NewBookingRepo(store.NewMemStore())
	ctx := context.Background()

	require.NoError(t, r.Append(ctx, model.Booking{ID: "b-1", Status: model.BookingStatusActive}))

	first := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	b, changed, err := r.Cancel(ctx, "b-1", first)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, model.BookingStatusCancelled, b.Status)
	require.Equal(t, first, *b.CancelledAt)

	// second cancel is a no-op, not an error, and keeps the original time
	b, changed, err = r.Cancel(ctx, "b-1", first.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, first, *b.CancelledAt)

	_, _, err = r.Cancel(ctx, "missing", first)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func carRepo(t *testing.T) (*CarRepo, context.Context) {
	t.Helper()
	st := store.NewMemStore()
	p := catalog.NewProvider(st, filepath.Join(t.TempDir(), "missing.json"))
	return NewCarRepo(st, p), context.Background()
}

func TestCarRepo_CreateAssignsNextID(t *testing.T) {
	r, ctx := carRepo(t)

	// fallback catalog has ids 1..3
	car, err := r.Create(ctx, model.Car{Name: "Audi A4", Brand: "Audi", Type: "luxury", Price: 85})
	require.NoError(t, err)
	require.Equal(t, 4, car.ID)
	require.True(t, car.Available)
	require.Equal(t, "Gasoline", car.FuelType)
}

func TestCarRepo_DeleteRemovesExactlyOneKeepingOrder(t *testing.T) {
	r, ctx := carRepo(t)

	require.NoError(t, r.Delete(ctx, 2))

	cars := r.catalog.ListAll(ctx)
	require.Len(t, cars, 2)
	require.Equal(t, 1, cars[0].ID)
	require.Equal(t, 3, cars[1].ID)

	require.ErrorIs(t, r.Delete(ctx, 2), ErrCarNotFound)
}

func TestCarRepo_EditsVisibleToPublicCatalog(t *testing.T) {
	r, ctx := carRepo(t)

	_, err := r.Update(ctx, 1, model.Car{Name: "Tesla Model S Plaid", Brand: "Tesla", Type: "luxury", Price: 150, Available: true})
	require.NoError(t, err)

	got, err := r.catalog.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Tesla Model S Plaid", got.Name)
}

func TestSettingsRepo_LazyDefaultsAndWholesaleSave(t *testing.T) {
	st := store.NewMemStore()
	r := NewSettingsRepo(st)
	ctx := context.Background()

	s := r.Get(ctx)
	require.Equal(t, model.DefaultAdminSettings(), s)

	s.MaintenanceMode = true
	s.MinBookingHours = -5 // clamped on save
	require.NoError(t, r.Save(ctx, s))

	got := r.Get(ctx)
	require.True(t, got.MaintenanceMode)
	require.Equal(t, 0, got.MinBookingHours)

	// corrupt record degrades to defaults
	st.Corrupt(store.KeyAdminSettings)
	require.Equal(t, model.DefaultAdminSettings(), r.Get(ctx))
}

func TestSessionRepo_EstablishStripsPasswordAndClears(t *testing.T) {
	r := NewSessionRepo(store.NewMemStore())
	ctx := context.Background()

	err := r.Establish(ctx, model.Session{
		User:     model.User{Email: "jane@example.com", PasswordHash: "$2a$10$secret"},
		LoggedIn: time.Now().UTC(),
	})
	require.NoError(t, err)

	s, ok := r.Current(ctx)
	require.True(t, ok)
	require.Empty(t, s.User.PasswordHash)

	require.NoError(t, r.Clear(ctx))
	_, ok = r.Current(ctx)
	require.False(t, ok)
}
