package model

// AdminSettings is the `adminSettings` singleton.  It is created
// lazily with defaults on first read and overwritten wholesale on
// save.
type AdminSettings struct {
	MaintenanceMode    bool `json:"maintenanceMode"`
	AllowRegistrations bool `json:"allowRegistrations"`
	MinBookingHours    int  `json:"minBookingHours"`
	MaxAdvanceDays     int  `json:"maxAdvanceDays"`
}

// DefaultAdminSettings returns the defaults applied when no settings
// record exists yet: registrations open, 24 hours minimum notice,
// bookings up to a year ahead.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		MaintenanceMode:    false,
		AllowRegistrations: true,
		MinBookingHours:    24,
		MaxAdvanceDays:     365,
	}
}
