// Package queue defines message payloads exchanged over the message broker.
package queue

// Listing lifecycle event names.
const (
	EventListingCreated       = "listing.created"
	EventListingStatusChanged = "listing.status_changed"
	EventListingDeleted       = "listing.deleted"
)

// ListingEvent is published whenever a rehomer creates a listing, changes
// its status or deletes it. It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type ListingEvent struct {
	Event      string `json:"event"`
	PetID      uint64 `json:"pet_id"`
	OwnerID    uint64 `json:"owner_id"`
	Name       string `json:"name"`
	Species    string `json:"species"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
