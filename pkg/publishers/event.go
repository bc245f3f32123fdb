package publishers

import (
	"time"

	"github.com/google/uuid"

	"github.com/vectorops/chromactl/pkg/chroma"
)

// Lifecycle actions carried by events.
const (
	ActionCollectionCreated = "collection.created"
	ActionCollectionFetched = "collection.fetched"
)

// Event represents the collection lifecycle payload published downstream.
type Event struct {
	EventID        string    `json:"event_id"`
	Action         string    `json:"action"`
	CollectionID   string    `json:"collection_id,omitempty"`
	CollectionName string    `json:"collection_name"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event for the given action + collection.
func NewEvent(action string, col chroma.Collection) Event {
	return Event{
		EventID:        uuid.NewString(),
		Action:         action,
		CollectionID:   col.ID,
		CollectionName: col.Name,
		OccurredAt:     time.Now().UTC(),
	}
}
