package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/vrooom/car-rental-service/internal/catalog"
	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// ErrCarNotFound mirrors the catalog sentinel for admin operations.
var ErrCarNotFound = errors.New("car not found")

// CarRepo applies admin edits to the car catalog.  The first write
// snapshots the current catalog into the store's cars collection;
// from then on that collection is the single source of truth read by
// the public catalog provider as well, so admin edits are visible
// everywhere.
type CarRepo struct {
	st      store.Store
	catalog *catalog.Provider
	mu      sync.Mutex
}

func NewCarRepo(st store.Store, p *catalog.Provider) *CarRepo {
	return &CarRepo{st: st, catalog: p}
}

// snapshot returns the current effective catalog, which after the
// first admin write is the stored collection itself.
func (r *CarRepo) snapshot(ctx context.Context) []model.Car {
	return r.catalog.ListAll(ctx)
}

// Create appends a car, assigning id = max(existing ids, 0) + 1.
func (r *CarRepo) Create(ctx context.Context, car model.Car) (model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars := r.snapshot(ctx)
	maxID := 0
	for _, c := range cars {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	car.ID = maxID + 1
	car.Available = true
	if car.FuelType == "" {
		car.FuelType = "Gasoline"
	}
	if car.Rating == 0 {
		car.Rating = 4.5
	}
	cars = append(cars, car)
	if err := r.st.Set(ctx, store.KeyCars, cars); err != nil {
		return model.Car{}, err
	}
	return car, nil
}

// Update edits a car in place, keeping its id and position.
func (r *CarRepo) Update(ctx context.Context, id int, car model.Car) (model.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars := r.snapshot(ctx)
	for i := range cars {
		if cars[i].ID != id {
			continue
		}
		car.ID = id
		cars[i] = car
		if err := r.st.Set(ctx, store.KeyCars, cars); err != nil {
			return model.Car{}, err
		}
		return car, nil
	}
	return model.Car{}, ErrCarNotFound
}

// Delete removes exactly the car with the given id, leaving the
// order of the remaining records unchanged.
func (r *CarRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cars := r.snapshot(ctx)
	for i := range cars {
		if cars[i].ID != id {
			continue
		}
		cars = append(cars[:i], cars[i+1:]...)
		return r.st.Set(ctx, store.KeyCars, cars)
	}
	return ErrCarNotFound
}
