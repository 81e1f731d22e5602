package repository

import (
	"context"
	"log"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/store"
)

// SettingsRepo manages the adminSettings singleton.
type SettingsRepo struct {
	st store.Store
}

func NewSettingsRepo(st store.Store) *SettingsRepo { return &SettingsRepo{st: st} }

// Get returns the stored settings, or the defaults when the record
// does not exist yet or cannot be decoded.
func (r *SettingsRepo) Get(ctx context.Context) model.AdminSettings {
	settings := model.DefaultAdminSettings()
	found, err := r.st.Get(ctx, store.KeyAdminSettings, &settings)
	if err != nil {
		log.Printf("settings: read failed, using defaults: %v", err)
		return model.DefaultAdminSettings()
	}
	if !found {
		return model.DefaultAdminSettings()
	}
	return settings
}

// Save overwrites the singleton wholesale.
func (r *SettingsRepo) Save(ctx context.Context, s model.AdminSettings) error {
	if s.MinBookingHours < 0 {
		s.MinBookingHours = 0
	}
	if s.MaxAdvanceDays < 0 {
		s.MaxAdvanceDays = 0
	}
	return r.st.Set(ctx, store.KeyAdminSettings, s)
}
