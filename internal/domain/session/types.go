// Package session manages the authenticated-user session: the profile and
// bearer token obtained from the identity endpoint, kept in memory and
// mirrored to durable local storage across runs.
package session

import "time"

// Profile is the identity record returned by the identity endpoints.
// The extended fields (phone, birth date, address) are only populated by
// the profile endpoint and may be absent depending on source freshness.
type Profile struct {
	ID        int    `json:"id" validate:"required,gt=0"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Image     string `json:"image"`

	// Extended fields from the profile endpoint.
	Phone     string   `json:"phone,omitempty"`
	BirthDate string   `json:"birthDate,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// Address is the optional postal address attached to an extended profile.
type Address struct {
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// FullName returns "First Last", or the username when both name parts are empty.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "" && p.LastName == "":
		return p.Username
	case p.LastName == "":
		return p.FirstName
	case p.FirstName == "":
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// State is a point-in-time snapshot of the session store.
// User and Token are set together on login and cleared together on logout;
// the store never desynchronizes them.
type State struct {
	User    *Profile
	Token   string
	Loading bool
	Err     string
}

// Authenticated reports whether a bearer token is held. Token presence is
// the sole gate for private-area access.
func (s State) Authenticated() bool {
	return s.Token != ""
}

// LoginResult is the outcome of a successful credential exchange:
// the basic profile plus the bearer token.
type LoginResult struct {
	User  Profile `validate:"required"`
	Token string  `validate:"required"`
}

// Record is the combined session record persisted to durable local storage.
// The raw token is additionally mirrored under a separate storage key for
// outbound request header injection (see RecordStore).
type Record struct {
	User    Profile   `json:"user"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}
