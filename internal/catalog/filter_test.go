package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vrooom/car-rental-service/internal/model"
)

func sampleCars() []model.Car {
	return []model.Car{
		{ID: 1, Name: "Tesla Model S", Brand: "Tesla", Type: "luxury", Price: 120, Rating: 4.9, Features: []string{"Autopilot", "Glass Roof"}},
		{ID: 2, Name: "BMW X5", Brand: "BMW", Type: "suv", Price: 95, Rating: 4.7, Features: []string{"Navigation", "Heated Seats"}},
		{ID: 3, Name: "Porsche 911", Brand: "Porsche", Type: "sports", Price: 200, Rating: 4.8, Features: []string{"Sport Mode"}},
		{ID: 4, Name: "Honda Civic", Brand: "Honda", Type: "economy", Price: 45, Rating: 4.2, Features: []string{"Navigation"}},
	}
}

func ids(cars []model.Car) []int {
	out := make([]int, len(cars))
	for i, c := range cars {
		out[i] = c.ID
	}
	return out
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	got := Filter(sampleCars(), Query{Search: "tesla"})
	require.Equal(t, []int{1}, ids(got))

	// matches on type too
	got = Filter(sampleCars(), Query{Search: "SUV"})
	require.Equal(t, []int{2}, ids(got))
}

func TestFilter_CombinesWithAnd(t *testing.T) {
	got := Filter(sampleCars(), Query{MaxPrice: 150, MinRating: 4.5})
	require.Equal(t, []int{1, 2}, ids(got))

	got = Filter(sampleCars(), Query{MaxPrice: 150, MinRating: 4.5, Type: "suv"})
	require.Equal(t, []int{2}, ids(got))
}

func TestFilter_RequiredFeatures(t *testing.T) {
	got := Filter(sampleCars(), Query{Features: []string{"Navigation"}})
	require.Equal(t, []int{2, 4}, ids(got))

	got = Filter(sampleCars(), Query{Features: []string{"Navigation", "Heated Seats"}})
	require.Equal(t, []int{2}, ids(got))
}

func TestFilter_NoConstraintsPreservesOrder(t *testing.T) {
	got := Filter(sampleCars(), Query{})
	require.Equal(t, []int{1, 2, 3, 4}, ids(got))
}

func TestSortCars(t *testing.T) {
	cars := sampleCars()

	require.Equal(t, []int{2, 4, 1, 3}, ids(SortCars(cars, SortName)))
	require.Equal(t, []int{4, 2, 1, 3}, ids(SortCars(cars, SortPriceLow)))
	require.Equal(t, []int{3, 1, 2, 4}, ids(SortCars(cars, SortPriceHigh)))
	require.Equal(t, []int{1, 3, 2, 4}, ids(SortCars(cars, SortRating)))

	// unknown key defaults to name; input untouched
	require.Equal(t, []int{2, 4, 1, 3}, ids(SortCars(cars, "bogus")))
	require.Equal(t, []int{1, 2, 3, 4}, ids(cars))
}
