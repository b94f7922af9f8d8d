package events_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	events "loksangam/internal/events/service"
	"loksangam/internal/models"
)

// MockEventDB is a mock implementation of the EventDBLayer interface.
type MockEventDB struct {
	mock.Mock
}

func (m *MockEventDB) ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventDB) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventDB) Insert(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventDB) MarkVerified(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventDB) ReserveSeats(ctx context.Context, id int64, seats int) (bool, error) {
	args := m.Called(ctx, id, seats)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventDB) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockEventDB) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func verifiedEvent() *models.Event {
	return &models.Event{
		ID:             5,
		Name:           "Fest",
		EventDate:      "2026-06-01",
		Location:       "Arena",
		TotalSeats:     100,
		RemainingSeats: 10,
		Status:         models.StatusVerified,
	}
}

func TestSubmitRequestDefaultsToPending(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	mockDB.On("Insert", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
		return e.Status == models.StatusPending && e.RemainingSeats == e.TotalSeats
	})).Return(nil)

	event, err := svc.SubmitRequest(context.Background(), models.EventRequest{
		Name:       "Crafts Fair",
		EventDate:  "2026-09-09",
		Location:   "Hall A",
		TotalSeats: 40,
	}, 2)

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, event.Status)
	assert.Equal(t, 40, event.RemainingSeats)
	mockDB.AssertExpectations(t)
}

func TestSubmitRequestValidation(t *testing.T) {
	svc := events.NewService(new(MockEventDB), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		req    models.EventRequest
		detail string
	}{
		{"short name", models.EventRequest{Name: "ab", TotalSeats: 10}, "Event name must be between 3 and 255 characters"},
		{"long name", models.EventRequest{Name: strings.Repeat("x", 256), TotalSeats: 10}, "Event name must be between 3 and 255 characters"},
		{"long location", models.EventRequest{Name: "Fair", Location: strings.Repeat("x", 256), TotalSeats: 10}, "Location must be at most 255 characters"},
		{"zero seats", models.EventRequest{Name: "Fair", TotalSeats: 0}, "Seats must be positive"},
		{"negative seats", models.EventRequest{Name: "Fair", TotalSeats: -5}, "Seats must be positive"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SubmitRequest(ctx, tc.req, 2)
			var reqErr *events.RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, http.StatusBadRequest, reqErr.Status)
			assert.Equal(t, tc.detail, reqErr.Detail)
		})
	}
}

func TestVerify(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	mockDB.On("MarkVerified", mock.Anything, int64(5)).Return(true, nil)

	require.NoError(t, svc.Verify(context.Background(), 5))
	mockDB.AssertExpectations(t)
}

func TestVerifyAlreadyVerified(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	mockDB.On("MarkVerified", mock.Anything, int64(5)).Return(false, nil)

	err := svc.Verify(context.Background(), 5)
	var reqErr *events.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, "Event not found or already verified.", reqErr.Detail)
}

func TestRegisterIssuesTicket(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	mockDB.On("GetByID", mock.Anything, int64(5)).Return(verifiedEvent(), nil)
	mockDB.On("ReserveSeats", mock.Anything, int64(5), 2).Return(true, nil)
	mockDB.On("CreateRegistration", mock.Anything, mock.MatchedBy(func(r *models.Registration) bool {
		r.RegistrationID = 42 // storage assigns the id
		return r.SeatsBooked == 2 && r.EventID == 5
	})).Return(nil)

	ticket, err := svc.Register(context.Background(), models.RegistrationRequest{
		EventID:     5,
		FullName:    "Alice",
		Email:       "alice@x.com",
		SeatsBooked: 2,
	}, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(42), ticket.RegistrationID)
	assert.Equal(t, "Fest", ticket.EventName)
	assert.Equal(t, "Alice", ticket.RegisteredName)
	assert.Equal(t, 2, ticket.Seats)

	fields := strings.Split(ticket.QRData, "|")
	require.Len(t, fields, 5)
	assert.Equal(t, []string{"Alice", "alice@x.com", "5", "2"}, fields[:4])
	assert.NotEmpty(t, fields[4])
	mockDB.AssertExpectations(t)
}

func TestRegisterSeatsExhausted(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	event := verifiedEvent()
	event.RemainingSeats = 1
	mockDB.On("GetByID", mock.Anything, int64(5)).Return(event, nil)
	mockDB.On("ReserveSeats", mock.Anything, int64(5), 2).Return(false, nil)

	_, err := svc.Register(context.Background(), models.RegistrationRequest{
		EventID:     5,
		FullName:    "Alice",
		Email:       "alice@x.com",
		SeatsBooked: 2,
	}, 2)

	var reqErr *events.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadRequest, reqErr.Status)
	assert.Equal(t, "Only 1 seats remaining.", reqErr.Detail)
}

func TestRegisterUnverifiedEvent(t *testing.T) {
	mockDB := new(MockEventDB)
	svc := events.NewService(mockDB, nil, nil)

	pending := verifiedEvent()
	pending.Status = models.StatusPending
	mockDB.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)

	_, err := svc.Register(context.Background(), models.RegistrationRequest{
		EventID:     5,
		FullName:    "Alice",
		Email:       "alice@x.com",
		SeatsBooked: 1,
	}, 2)

	var reqErr *events.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, "Event not found or not verified", reqErr.Detail)
}

func TestRegisterSeatBounds(t *testing.T) {
	svc := events.NewService(new(MockEventDB), nil, nil)
	ctx := context.Background()

	for _, seats := range []int{0, -1, 6} {
		_, err := svc.Register(ctx, models.RegistrationRequest{
			EventID:     5,
			FullName:    "Alice",
			Email:       "alice@x.com",
			SeatsBooked: seats,
		}, 2)

		var reqErr *events.RequestError
		require.True(t, errors.As(err, &reqErr))
		assert.Equal(t, "Seats booked must be between 1 and 5", reqErr.Detail)
	}
}
