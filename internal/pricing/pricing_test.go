package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vrooom/car-rental-service/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCompute_NoExtras(t *testing.T) {
	car := model.Car{Price: 100}

	q, err := Compute(car, date(t, "2024-01-01"), date(t, "2024-01-04"), nil)
	require.NoError(t, err)
	require.Equal(t, 3, q.Days)
	require.Equal(t, 300, q.Subtotal)
	require.Equal(t, 0, q.ExtrasTotal)
	require.Equal(t, 36, q.Tax) // round(0.12 * 300)
	require.Equal(t, 336, q.Total)
}

func TestCompute_WithExtras(t *testing.T) {
	car := model.Car{Price: 100}

	q, err := Compute(car, date(t, "2024-01-01"), date(t, "2024-01-04"),
		[]string{"gps", "insurance"})
	require.NoError(t, err)
	require.Equal(t, 3, q.Days)
	require.Equal(t, 300, q.Subtotal)
	require.Equal(t, 105, q.ExtrasTotal) // (10+25) * 3
	require.Equal(t, 49, q.Tax)          // round(0.12 * 405) = round(48.6)
	require.Equal(t, 454, q.Total)
	require.Equal(t, []model.BookingExtra{
		{Type: "gps", DailyPrice: 10},
		{Type: "insurance", DailyPrice: 25},
	}, q.Extras)
}

func TestCompute_InvalidRange(t *testing.T) {
	car := model.Car{Price: 100}

	_, err := Compute(car, date(t, "2024-01-04"), date(t, "2024-01-04"), nil)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = Compute(car, date(t, "2024-01-04"), date(t, "2024-01-01"), nil)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestCompute_UnknownExtra(t *testing.T) {
	car := model.Car{Price: 50}

	_, err := Compute(car, date(t, "2024-01-01"), date(t, "2024-01-02"),
		[]string{"jetpack"})
	require.ErrorIs(t, err, ErrUnknownExtra)
}

// Tax rounding is half-away-from-zero, the behavior of math.Round.
// 0.12 * 50 = 6 exactly; 0.12 * 54 = 6.48 rounds down; 0.12 * 55 =
// 6.6 rounds up.
func TestCompute_TaxRounding(t *testing.T) {
	cases := []struct {
		price int
		tax   int
	}{
		{50, 6},
		{54, 6},
		{55, 7},
	}
	for _, tc := range cases {
		q, err := Compute(model.Car{Price: tc.price},
			date(t, "2024-03-01"), date(t, "2024-03-02"), nil)
		require.NoError(t, err)
		require.Equal(t, tc.tax, q.Tax, "price %d", tc.price)
	}
}

func TestCompute_PartialDayRoundsUp(t *testing.T) {
	// 2.5 elapsed days bill as 3.
	pickup := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ret := pickup.Add(60 * time.Hour)

	q, err := Compute(model.Car{Price: 80}, pickup, ret, nil)
	require.NoError(t, err)
	require.Equal(t, 3, q.Days)
	require.Equal(t, 240, q.Subtotal)
}
