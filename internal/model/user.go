package model

import "time"

// Role values stored on a user record.  Admin accounts are created out
// of band; signup always produces a customer.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is an account record in the `users` collection.  Email is the
// identity key: bookings reference their owner by email, and the
// collection rejects a second record with the same address.  The
// password is stored as a bcrypt hash and stripped from every record
// that leaves the repository layer.
//
// Fields:
//  ID           - opaque unique identifier.
//  FirstName    - given name, at least 2 characters.
//  LastName     - family name, at least 2 characters.
//  Email        - unique, lower-cased identity key.
//  Phone        - contact number as entered.
//  PasswordHash - bcrypt hash of the password.
//  Role         - RoleCustomer or RoleAdmin.
//  Verified     - set once the signup OTP was confirmed.
//  CreatedAt    - account creation time.
//  LastLogin    - last successful login, nil before the first one.
type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"password,omitempty"`
	Role         string     `json:"role,omitempty"`
	Verified     bool       `json:"verified"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// Public returns a copy of the user with the password hash removed.
// Session records and API responses must only ever carry this form.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session is the single `currentUser` record held in the persistence
// store.  It holds the password-stripped profile of the authenticated
// user; logout removes it, which also invalidates any access token
// still referring to it.
type Session struct {
	User     User      `json:"user"`
	LoggedIn time.Time `json:"loggedIn"`
}
