package model

import "time"

// LikedPet models one affinity edge in the `liked_pets` table: a single
// adopter liking a single listing. The pair is unique; there is no ordering
// semantics beyond the creation timestamp.
type LikedPet struct {
	AdopterID uint64    // liked_pets.adopter_id
	PetID     uint64    // liked_pets.pet_id
	CreatedAt time.Time // liked_pets.created_at
}
