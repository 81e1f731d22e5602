// Package catalog loads and queries the car catalog.  The load order
// is: admin-edited collection in the persistence store, then the
// static catalog file, then a small built-in fallback set, so the
// listing pages never render empty.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// ErrCarNotFound is returned by GetByID when no car has the id.
var ErrCarNotFound = errors.New("car not found")

// Provider serves the car list.  Admin edits land in the store's
// cars collection and take precedence over the file, keeping one
// source of truth for public and admin views alike.
type Provider struct {
	Store store.Store
	Path  string
}

// NewProvider returns a Provider reading overrides from st and the
// static catalog from path.
func NewProvider(st store.Store, path string) *Provider {
	return &Provider{Store: st, Path: path}
}

// ListAll returns every car.  Store and file failures are logged and
// fall through to the next source; the fallback set is always
// available.
func (p *Provider) ListAll(ctx context.Context) []model.Car {
	var cars []model.Car
	found, err := p.Store.Get(ctx, store.KeyCars, &cars)
	if err != nil {
		log.Printf("catalog: store read failed, falling back: %v", err)
	}
	if found && len(cars) > 0 {
		return cars
	}

	raw, err := os.ReadFile(p.Path)
	if err == nil {
		if err := json.Unmarshal(raw, &cars); err == nil && len(cars) > 0 {
			return cars
		}
		log.Printf("catalog: %s is not a valid car list, using fallback", p.Path)
	}
	return FallbackCars()
}

// GetByID finds a car by id with a linear scan over ListAll.
func (p *Provider) GetByID(ctx context.Context, id int) (model.Car, error) {
	for _, c := range p.ListAll(ctx) {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Car{}, ErrCarNotFound
}

// FallbackCars is the hardcoded set served when neither the store nor
// the catalog file yields any cars.
func FallbackCars() []model.Car {
	return []model.Car{
		{
			ID:    1,
			Name:  "Tesla Model S",
			Brand: "Tesla",
			Type:  "luxury",
			Price: 120,
			Image: "https://images.unsplash.com/photo-1617788138017-80ad40651399?w=800&h=600&fit=crop",

			Rating:      4.9,
			ReviewCount: 128,
			Features:    []string{"Autopilot", "Premium Sound", "Supercharging", "Glass Roof"},
			Available:   true,
		},
		{
			ID:          2,
			Name:        "BMW X5",
			Brand:       "BMW",
			Type:        "suv",
			Price:       95,
			Image:       "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=800&h=600&fit=crop",
			Rating:      4.7,
			ReviewCount: 89,
			Features:    []string{"All-Wheel Drive", "Panoramic Roof", "Navigation", "Heated Seats"},
			Available:   true,
		},
		{
			ID:          3,
			Name:        "Porsche 911",
			Brand:       "Porsche",
			Type:        "sports",
			Price:       200,
			Image:       "https://images.unsplash.com/photo-1583121274602-3e2820c69888?w=800&h=600&fit=crop",
			Rating:      4.8,
			ReviewCount: 156,
			Features:    []string{"Sport Mode", "Carbon Fiber", "Track Package", "Premium Audio"},
			Available:   true,
		},
	}
}
