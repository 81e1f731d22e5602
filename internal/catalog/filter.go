package catalog

import (
	"sort"
	"strings"

	"github.com/vrooom/car-rental-service/internal/model"
)

// Query collects listing filters.  Zero values mean "no constraint";
// all set filters are AND-combined.
type Query struct {
	Search    string   // case-insensitive substring on name, brand, type
	Type      string   // exact category match
	MaxPrice  int      // daily rate <= MaxPrice (0 disables)
	MinRating float64  // rating >= MinRating
	Features  []string // every listed feature must be present
}

// Sort keys accepted by SortCars.
const (
	SortName      = "name"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// Filter returns the cars matching q, preserving input order.  Pure.
func Filter(cars []model.Car, q Query) []model.Car {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]model.Car, 0, len(cars))
	for _, c := range cars {
		if needle != "" {
			hay := strings.ToLower(c.Name + " " + c.Brand + " " + c.Type)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if q.MaxPrice > 0 && c.Price > q.MaxPrice {
			continue
		}
		if c.Rating < q.MinRating {
			continue
		}
		if !hasAllFeatures(c.Features, q.Features) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func hasAllFeatures(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if strings.EqualFold(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortCars orders cars by the given key.  Unknown keys sort by name,
// matching the listing page default.  The input slice is not
// modified.  Pure.
func SortCars(cars []model.Car, key string) []model.Car {
	out := make([]model.Car, len(cars))
	copy(out, cars)
	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case SortPriceLow:
			return out[i].Price < out[j].Price
		case SortPriceHigh:
			return out[i].Price > out[j].Price
		case SortRating:
			return out[i].Rating > out[j].Rating
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}
