package model

import "time"

// Account roles. A role is chosen at signup and never changes afterwards;
// tokens embed the role so handlers never have to re-read it from the DB.
const (
	RoleAdopter = "adopter"
	RoleRehomer = "rehomer"
)

// Account represents a row in the `accounts` table plus the role-specific
// profile payload. Exactly one of Adopter/Rehomer is non-nil, keyed by Role:
// the tagged-union shape the API exposes instead of class inheritance.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique, stored lowercase.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – "adopter" or "rehomer".
//  Name         – display name shown on listings.
//  Phone        – contact phone, exposed only on liked-listing detail views.
//  City/State/Country – coarse location shown next to listings.
type Account struct {
	ID           uint64          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Role         string          `json:"role"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	City         string          `json:"city,omitempty"`
	State        string          `json:"state,omitempty"`
	Country      string          `json:"country,omitempty"`
	Adopter      *AdopterProfile `json:"adopter_profile,omitempty"`
	Rehomer      *RehomerProfile `json:"rehomer_profile,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AdopterProfile is the adopter variant payload (`adopter_profiles` table).
// It is created empty at signup and filled in via the profile endpoint.
type AdopterProfile struct {
	Experience   string `json:"experience"`
	HasChildren  bool   `json:"has_children"`
	HasOtherPets bool   `json:"has_other_pets"`
}

// RehomerProfile is the rehomer variant payload (`rehomer_profiles` table).
type RehomerProfile struct {
	RehomingReason string `json:"rehoming_reason"`
}

// OwnerContact carries the public contact fields of a listing's rehomer,
// denormalized onto listing responses. Phone and Email are filled only on
// detail and liked-listing views.
type OwnerContact struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}
