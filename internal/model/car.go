package model

// Car describes a single rentable vehicle in the catalog.  Cars are
// seeded from the static catalog file and may be overridden by the
// admin workflow, whose edits are written to the persistence store
// and take precedence over the file.  Bookings embed a full copy of
// the Car at booking time so later catalog edits never rewrite
// history.
//
// Fields:
//  ID           - unique integer identifier within the catalog.
//  Name         - display name, e.g. "Tesla Model S".
//  Brand        - manufacturer name.
//  Type         - category enum: economy, suv, luxury, sports, ...
//  Price        - positive daily rental rate in whole dollars.
//  Image        - image URL for listing and detail pages.
//  Rating       - 0 to 5 in half-step granularity.
//  ReviewCount  - number of reviews behind the rating.
//  Seats        - passenger capacity.
//  Transmission - "automatic" or "manual".
//  FuelType     - fuel class, defaults to "Gasoline" on admin create.
//  Features     - set of string tags ("Navigation", "Heated Seats", ...).
//  Available    - whether the car can currently be booked; defaults true.
type Car struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Type         string   `json:"type"`
	Price        int      `json:"price"`
	Image        string   `json:"image"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	Seats        int      `json:"seats,omitempty"`
	Transmission string   `json:"transmission,omitempty"`
	FuelType     string   `json:"fuelType,omitempty"`
	Features     []string `json:"features"`
	Available    bool     `json:"available"`
}
