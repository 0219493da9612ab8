package model

import "time"

// Listing statuses. The owner may set any of these at any time; the API does
// not enforce a forward-only state machine (pending and adopted listings can
// be reopened by the rehomer).
const (
	StatusAvailable = "available"
	StatusPending   = "pending"
	StatusAdopted   = "adopted"
)

// MaxImages caps how many images a listing may carry, counting both retained
// and freshly uploaded ones.
const MaxImages = 5

// Pet represents a row in the `pets` table together with its image URLs and,
// on read paths, the denormalized owner contact. A pet is always owned by a
// rehomer account and is only mutable by that owner.
type Pet struct {
	ID          uint64        `json:"id"`
	OwnerID     uint64        `json:"owner_id"`
	Name        string        `json:"name"`
	Species     string        `json:"species"`
	Breed       string        `json:"breed"`
	AgeYears    int           `json:"age_years"`
	AgeMonths   int           `json:"age_months"`
	Gender      string        `json:"gender"`
	Size        string        `json:"size"`
	Description string        `json:"description"`
	Images      []string      `json:"images"`
	Health      HealthStatus  `json:"health"`
	Behavior    Behavior      `json:"behavior"`
	Status      string        `json:"status"`
	Location    string        `json:"location"`
	AdoptionFee float64       `json:"adoption_fee"`
	Owner       *OwnerContact `json:"owner,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HealthStatus groups the health columns of a pet row.
type HealthStatus struct {
	Vaccinated       bool   `json:"vaccinated"`
	Neutered         bool   `json:"neutered"`
	SpecialNeeds     bool   `json:"special_needs"`
	SpecialNeedsDesc string `json:"special_needs_description,omitempty"`
}

// Behavior groups the behavior columns of a pet row. ActivityLevel is one of
// low/medium/high.
type Behavior struct {
	GoodWithKids  bool   `json:"good_with_kids"`
	GoodWithPets  bool   `json:"good_with_pets"`
	ActivityLevel string `json:"activity_level"`
}

// AgeInMonths returns the pet's total age for sorting. A pet with no recorded
// age sorts as zero.
func (p *Pet) AgeInMonths() int {
	return p.AgeYears*12 + p.AgeMonths
}
