package models

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a malformed server payload: a missing required
// key, a wrong type, or a body that is not the expected JSON shape.
// It is a hard failure for the operation that received the payload.
type DecodeError struct {
	Model  string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("decode %s: field %q: %s", e.Model, e.Field, e.Reason)
}

// DecodeEvent decodes a single event record. All keys except status are
// required; status falls back to pending (see EventStatus).
func DecodeEvent(data []byte) (Event, error) {
	raw, err := rawObject("Event", data)
	if err != nil {
		return Event{}, err
	}

	var e Event
	if err := required("Event", raw, "id", &e.ID); err != nil {
		return Event{}, err
	}
	if err := required("Event", raw, "name", &e.Name); err != nil {
		return Event{}, err
	}
	if err := required("Event", raw, "event_date", &e.EventDate); err != nil {
		return Event{}, err
	}
	if err := required("Event", raw, "location", &e.Location); err != nil {
		return Event{}, err
	}
	if err := required("Event", raw, "total_seats", &e.TotalSeats); err != nil {
		return Event{}, err
	}
	if err := required("Event", raw, "remaining_seats", &e.RemainingSeats); err != nil {
		return Event{}, err
	}

	// Status is deliberately lenient: absent or unrecognised means
	// pending, never an error.
	e.Status = StatusPending
	if msg, ok := raw["status"]; ok {
		_ = e.Status.UnmarshalJSON(msg)
	}
	return e, nil
}

// DecodeEvents decodes a JSON array of event records.
func DecodeEvents(data []byte) ([]Event, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &DecodeError{Model: "Event", Reason: "payload is not a JSON array"}
	}
	events := make([]Event, 0, len(items))
	for _, item := range items {
		e, err := DecodeEvent(item)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// DecodeTicket decodes a registration ticket. Every key is required.
func DecodeTicket(data []byte) (RegistrationTicket, error) {
	raw, err := rawObject("RegistrationTicket", data)
	if err != nil {
		return RegistrationTicket{}, err
	}

	var t RegistrationTicket
	if err := required("RegistrationTicket", raw, "registration_id", &t.RegistrationID); err != nil {
		return RegistrationTicket{}, err
	}
	if err := required("RegistrationTicket", raw, "event_name", &t.EventName); err != nil {
		return RegistrationTicket{}, err
	}
	if err := required("RegistrationTicket", raw, "registered_name", &t.RegisteredName); err != nil {
		return RegistrationTicket{}, err
	}
	if err := required("RegistrationTicket", raw, "seats", &t.Seats); err != nil {
		return RegistrationTicket{}, err
	}
	if err := required("RegistrationTicket", raw, "qr_data", &t.QRData); err != nil {
		return RegistrationTicket{}, err
	}
	return t, nil
}

func rawObject(model string, data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Model: model, Reason: "payload is not a JSON object"}
	}
	return raw, nil
}

func required(model string, raw map[string]json.RawMessage, key string, target any) error {
	msg, ok := raw[key]
	if !ok {
		return &DecodeError{Model: model, Field: key, Reason: "missing required key"}
	}
	if err := json.Unmarshal(msg, target); err != nil {
		return &DecodeError{Model: model, Field: key, Reason: "wrong type"}
	}
	return nil
}
