package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// RegistrationRequest is the payload for booking seats on a verified
// event.
type RegistrationRequest struct {
	EventID     int64  `json:"event_id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	SeatsBooked int    `json:"seats_booked"`
}

// RegistrationTicket is the record returned after a successful
// registration. QRData is an opaque pipe-delimited string
// (name|email|eventID|seats|uniqueID) that clients only ever split for
// display.
type RegistrationTicket struct {
	RegistrationID int64  `json:"registration_id"`
	EventName      string `json:"event_name"`
	RegisteredName string `json:"registered_name"`
	Seats          int    `json:"seats"`
	QRData         string `json:"qr_data"`
}

// QRFields splits the raw QR payload on "|". The trailing unique-ID
// field is included; callers that render tickets show the first four.
func (t RegistrationTicket) QRFields() []string {
	return strings.Split(t.QRData, "|")
}

// Registration is the server-side record behind a ticket.
type Registration struct {
	bun.BaseModel `bun:"table:registrations"`

	RegistrationID  int64     `bun:"registration_id,pk,autoincrement" json:"registration_id"`
	UserID          int64     `bun:"user_id,notnull" json:"user_id"`
	EventID         int64     `bun:"event_id,notnull" json:"event_id"`
	RegisteredName  string    `bun:"registered_name,notnull" json:"registered_name"`
	RegisteredEmail string    `bun:"registered_email,notnull" json:"registered_email"`
	SeatsBooked     int       `bun:"seats_booked,notnull" json:"seats_booked"`
	QRData          string    `bun:"qr_data,notnull" json:"qr_data"`
	CreatedAt       time.Time `bun:"created_at,notnull" json:"created_at"`
}
