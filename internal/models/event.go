package models

import (
	"encoding/json"

	"github.com/uptrace/bun"
)

// EventStatus is the verification state of an event. Pending events are
// visible to admins only.
type EventStatus string

const (
	StatusPending  EventStatus = "pending"
	StatusVerified EventStatus = "verified"
)

// UnmarshalJSON maps the exact literal "verified" to StatusVerified.
// Every other value, a wrong type included, falls back to StatusPending
// rather than failing: an event with an unrecognised status must never
// be shown as verified.
func (s *EventStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil && raw == string(StatusVerified) {
		*s = StatusVerified
		return nil
	}
	*s = StatusPending
	return nil
}

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID             int64       `bun:"id,pk,autoincrement" json:"id"`
	Name           string      `bun:"name,notnull" json:"name"`
	EventDate      string      `bun:"event_date,notnull" json:"event_date"`
	Location       string      `bun:"location,notnull" json:"location"`
	TotalSeats     int         `bun:"total_seats,notnull" json:"total_seats"`
	RemainingSeats int         `bun:"remaining_seats,notnull" json:"remaining_seats"`
	Status         EventStatus `bun:"status,notnull" json:"status"`
}

// NewDraftEvent builds the transient client-side form of an event that
// has not been submitted yet: no ID, no seats released, pending. It is
// never persisted; Request() turns it into the submission payload.
func NewDraftEvent(name, eventDate, location string, totalSeats int) Event {
	return Event{
		Name:       name,
		EventDate:  eventDate,
		Location:   location,
		TotalSeats: totalSeats,
		Status:     StatusPending,
	}
}

// EventRequest is the payload for submitting a new event for
// verification. The server assigns the ID and seeds remaining seats
// from the total, so a request carries neither.
type EventRequest struct {
	Name       string `json:"name"`
	EventDate  string `json:"event_date"`
	Location   string `json:"location"`
	TotalSeats int    `json:"total_seats"`
}

// Request extracts the submission payload from a draft event.
func (e Event) Request() EventRequest {
	return EventRequest{
		Name:       e.Name,
		EventDate:  e.EventDate,
		Location:   e.Location,
		TotalSeats: e.TotalSeats,
	}
}
