// Package filter implements the pure filter/sort pipeline the browse surface
// applies to an already-fetched listing collection. The same Spec shape is
// what the browser client builds from its filter dialog; the server applies
// it to query-parameter requests.
package filter

import (
	"sort"
	"strings"

	"github.com/iliyamo/pet-adoption-api/internal/model"
)

// Sentinel values meaning "no constraint". Empty strings are treated the
// same way so query parameters can simply be left out.
const (
	All     = "all"
	Default = "default"
)

// Age sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Spec describes one filter/sort request. String fields constrain by
// case-insensitive equality unless set to "all" or empty. Boolean flags
// follow checkbox semantics: true requires the flag, false means no
// constraint. AgeSort orders the filtered result by total age when set to
// "asc" or "desc".
type Spec struct {
	Species       string
	Gender        string
	Size          string
	ActivityLevel string
	AgeSort       string
	GoodWithKids  bool
	GoodWithPets  bool
	Vaccinated    bool
	Neutered      bool
}

// constrains reports whether a string field carries a real constraint.
func constrains(v string) bool {
	return v != "" && !strings.EqualFold(v, All) && !strings.EqualFold(v, Default)
}

// matches evaluates every active predicate AND-composed against one listing.
func (s Spec) matches(p *model.Pet) bool {
	if constrains(s.Species) && !strings.EqualFold(s.Species, p.Species) {
		return false
	}
	if constrains(s.Gender) && !strings.EqualFold(s.Gender, p.Gender) {
		return false
	}
	if constrains(s.Size) && !strings.EqualFold(s.Size, p.Size) {
		return false
	}
	if constrains(s.ActivityLevel) && !strings.EqualFold(s.ActivityLevel, p.Behavior.ActivityLevel) {
		return false
	}
	if s.GoodWithKids && !p.Behavior.GoodWithKids {
		return false
	}
	if s.GoodWithPets && !p.Behavior.GoodWithPets {
		return false
	}
	if s.Vaccinated && !p.Health.Vaccinated {
		return false
	}
	if s.Neutered && !p.Health.Neutered {
		return false
	}
	return true
}

// Apply filters pets by s, preserving input order, then stable-sorts
// the result by total age in months when AgeSort is "asc" or "desc". The
// input slice is never mutated; the result is always a fresh slice whose
// elements are a subsequence of the input.
func Apply(pets []*model.Pet, s Spec) []*model.Pet {
	out := make([]*model.Pet, 0, len(pets))
	for _, p := range pets {
		if s.matches(p) {
			out = append(out, p)
		}
	}

	switch strings.ToLower(s.AgeSort) {
	case SortAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AgeInMonths() < out[j].AgeInMonths()
		})
	case SortDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AgeInMonths() > out[j].AgeInMonths()
		})
	}
	return out
}
