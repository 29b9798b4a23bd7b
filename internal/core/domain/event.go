package domain

import "time"

// PlaceEventType names a committed place mutation.
type PlaceEventType string

const (
	PlaceCreated PlaceEventType = "places.created"
	PlaceDeleted PlaceEventType = "places.deleted"
)

// PlaceEvent is published after a place mutation has committed.
type PlaceEvent struct {
	Type       PlaceEventType `json:"type"`
	PlaceID    string         `json:"place_id"`
	Creator    string         `json:"creator"`
	Title      string         `json:"title,omitempty"`
	Location   *Location      `json:"location,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}
