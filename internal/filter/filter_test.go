package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pet-adoption-api/internal/model"
)

func samplePets() []*model.Pet {
	return []*model.Pet{
		{ID: 1, Name: "Rex", Species: "Dog", Gender: "male", Size: "large", AgeYears: 3,
			Behavior: model.Behavior{GoodWithKids: true, ActivityLevel: "high"},
			Health:   model.HealthStatus{Vaccinated: true}},
		{ID: 2, Name: "Misty", Species: "cat", Gender: "female", Size: "small", AgeYears: 1, AgeMonths: 6,
			Behavior: model.Behavior{GoodWithPets: true, ActivityLevel: "low"},
			Health:   model.HealthStatus{Vaccinated: true, Neutered: true}},
		{ID: 3, Name: "Buddy", Species: "dog", Gender: "male", Size: "medium", AgeYears: 3,
			Behavior: model.Behavior{ActivityLevel: "medium"},
			Health:   model.HealthStatus{}},
		{ID: 4, Name: "Kiwi", Species: "bird", Gender: "female", Size: "small",
			Behavior: model.Behavior{ActivityLevel: "high"},
			Health:   model.HealthStatus{Vaccinated: true}},
	}
}

func ids(pets []*model.Pet) []uint64 {
	out := make([]uint64, 0, len(pets))
	for _, p := range pets {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyDefaultsIsIdentity(t *testing.T) {
	in := samplePets()
	out := Apply(in, Spec{Species: All, Gender: All, Size: All, ActivityLevel: All, AgeSort: Default})
	require.Equal(t, ids(in), ids(out), "no constraints must return the collection unchanged, in order")
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := samplePets()
	before := ids(in)
	_ = Apply(in, Spec{AgeSort: SortDesc, Species: "dog"})
	require.Equal(t, before, ids(in))
}

func TestApplySpeciesCaseInsensitive(t *testing.T) {
	out := Apply(samplePets(), Spec{Species: "DOG"})
	require.Equal(t, []uint64{1, 3}, ids(out))
}

func TestApplyBooleanFlagsAreCheckboxes(t *testing.T) {
	// false means "no constraint", true requires the flag.
	all := Apply(samplePets(), Spec{})
	require.Len(t, all, 4)

	vaccinated := Apply(samplePets(), Spec{Vaccinated: true})
	require.Equal(t, []uint64{1, 2, 4}, ids(vaccinated))

	kids := Apply(samplePets(), Spec{GoodWithKids: true})
	require.Equal(t, []uint64{1}, ids(kids))
}

func TestApplyIsMonotonic(t *testing.T) {
	// Adding a constraint never grows the result.
	base := Apply(samplePets(), Spec{Species: "dog"})
	narrowed := Apply(samplePets(), Spec{Species: "dog", Vaccinated: true})
	require.LessOrEqual(t, len(narrowed), len(base))

	// And the narrowed result is a subsequence of the base result.
	j := 0
	for _, p := range narrowed {
		found := false
		for ; j < len(base); j++ {
			if base[j].ID == p.ID {
				found = true
				j++
				break
			}
		}
		require.True(t, found, "narrowed result must preserve base order")
	}
}

func TestApplyAgeSortAscending(t *testing.T) {
	out := Apply(samplePets(), Spec{AgeSort: SortAsc})
	require.Equal(t, []uint64{4, 2, 1, 3}, ids(out), "missing age sorts as zero, youngest first")
}

func TestApplyAgeSortIsStable(t *testing.T) {
	// Rex (id 1) and Buddy (id 3) are both 3 years old; their relative order
	// must survive the sort in both directions.
	asc := Apply(samplePets(), Spec{AgeSort: SortAsc})
	require.Equal(t, []uint64{4, 2, 1, 3}, ids(asc))

	desc := Apply(samplePets(), Spec{AgeSort: SortDesc})
	require.Equal(t, []uint64{1, 3, 2, 4}, ids(desc))
}

func TestApplyComposesPredicates(t *testing.T) {
	out := Apply(samplePets(), Spec{Species: "cat", Gender: "female", Size: "small",
		ActivityLevel: "LOW", Neutered: true})
	require.Equal(t, []uint64{2}, ids(out))

	none := Apply(samplePets(), Spec{Species: "cat", GoodWithKids: true})
	require.Empty(t, none)
}
