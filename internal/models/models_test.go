package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loksangam/internal/models"
)

func TestEventStatusDecoding(t *testing.T) {
	cases := []struct {
		name string
		json string
		want models.EventStatus
	}{
		{"verified literal", `"verified"`, models.StatusVerified},
		{"pending literal", `"pending"`, models.StatusPending},
		{"typo", `"Verified"`, models.StatusPending},
		{"unknown value", `"draft"`, models.StatusPending},
		{"empty string", `""`, models.StatusPending},
		{"wrong type number", `7`, models.StatusPending},
		{"wrong type object", `{"status":"verified"}`, models.StatusPending},
		{"null", `null`, models.StatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var status models.EventStatus
			err := json.Unmarshal([]byte(tc.json), &status)
			assert.NoError(t, err, "status decoding never fails")
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestNewDraftEvent(t *testing.T) {
	draft := models.NewDraftEvent("Fair", "2026-05-01", "Park", 40)

	assert.Equal(t, int64(0), draft.ID)
	assert.Equal(t, 0, draft.RemainingSeats)
	assert.Equal(t, models.StatusPending, draft.Status)

	req := draft.Request()
	assert.Equal(t, "Fair", req.Name)
	assert.Equal(t, 40, req.TotalSeats)
}

func TestDecodeEvent(t *testing.T) {
	payload := `{
		"id": 12,
		"name": "Harvest Fair",
		"event_date": "2026-10-02",
		"location": "Riverside Grounds",
		"total_seats": 300,
		"remaining_seats": 120,
		"status": "verified"
	}`

	event, err := models.DecodeEvent([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(12), event.ID)
	assert.Equal(t, "Harvest Fair", event.Name)
	assert.Equal(t, "2026-10-02", event.EventDate)
	assert.Equal(t, "Riverside Grounds", event.Location)
	assert.Equal(t, 300, event.TotalSeats)
	assert.Equal(t, 120, event.RemainingSeats)
	assert.Equal(t, models.StatusVerified, event.Status)
}

func TestDecodeEventMissingStatusDefaultsToPending(t *testing.T) {
	payload := `{
		"id": 1,
		"name": "Quiet Evening",
		"event_date": "soon",
		"location": "Hall B",
		"total_seats": 10,
		"remaining_seats": 10
	}`

	event, err := models.DecodeEvent([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, event.Status)
}

func TestDecodeEventMissingRequiredKeys(t *testing.T) {
	full := map[string]any{
		"id":              1,
		"name":            "Fair",
		"event_date":      "2026-01-01",
		"location":        "Here",
		"total_seats":     10,
		"remaining_seats": 5,
	}

	for key := range full {
		t.Run("missing "+key, func(t *testing.T) {
			partial := make(map[string]any, len(full)-1)
			for k, v := range full {
				if k != key {
					partial[k] = v
				}
			}
			raw, err := json.Marshal(partial)
			require.NoError(t, err)

			_, err = models.DecodeEvent(raw)
			var decodeErr *models.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, key, decodeErr.Field)
		})
	}
}

func TestDecodeEventWrongType(t *testing.T) {
	payload := `{
		"id": "not-a-number",
		"name": "Fair",
		"event_date": "2026-01-01",
		"location": "Here",
		"total_seats": 10,
		"remaining_seats": 5
	}`

	_, err := models.DecodeEvent([]byte(payload))
	var decodeErr *models.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "id", decodeErr.Field)
}

func TestDecodeEvents(t *testing.T) {
	payload := `[
		{"id":1,"name":"A","event_date":"d","location":"l","total_seats":5,"remaining_seats":5,"status":"verified"},
		{"id":2,"name":"B","event_date":"d","location":"l","total_seats":8,"remaining_seats":0,"status":"pending"}
	]`

	list, err := models.DecodeEvents([]byte(payload))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.StatusVerified, list[0].Status)
	assert.Equal(t, models.StatusPending, list[1].Status)

	_, err = models.DecodeEvents([]byte(`{"not":"an array"}`))
	var decodeErr *models.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestDecodeTicket(t *testing.T) {
	payload := `{
		"registration_id": 42,
		"event_name": "Fest",
		"registered_name": "Alice",
		"seats": 2,
		"qr_data": "Alice|alice@x.com|5|2|uuid-1"
	}`

	ticket, err := models.DecodeTicket([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(42), ticket.RegistrationID)
	assert.Equal(t, "Fest", ticket.EventName)
	assert.Equal(t, "Alice", ticket.RegisteredName)
	assert.Equal(t, 2, ticket.Seats)

	fields := ticket.QRFields()
	require.Len(t, fields, 5)
	assert.Equal(t, []string{"Alice", "alice@x.com", "5", "2"}, fields[:4])
}

func TestDecodeTicketMissingKey(t *testing.T) {
	payload := `{
		"registration_id": 42,
		"event_name": "Fest",
		"registered_name": "Alice",
		"seats": 2
	}`

	_, err := models.DecodeTicket([]byte(payload))
	var decodeErr *models.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "qr_data", decodeErr.Field)
}
