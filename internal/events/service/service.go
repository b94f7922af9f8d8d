package events

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"loksangam/internal/logger"
	"loksangam/internal/models"
)

// EventDBLayer is the storage the event service works against.
type EventDBLayer interface {
	ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Insert(ctx context.Context, event *models.Event) error
	MarkVerified(ctx context.Context, id int64) (bool, error)
	ReserveSeats(ctx context.Context, id int64, seats int) (bool, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
}

// Publisher streams domain events to the message broker.
type Publisher interface {
	PublishRegistrationCreated(ctx context.Context, reg models.Registration) error
	PublishEventVerified(ctx context.Context, event models.Event) error
}

// RequestError is a business rejection. Detail is the client-facing
// message, Status the HTTP code the handler answers with.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string { return e.Detail }

type Service struct {
	DB        EventDBLayer
	Publisher Publisher
	Logger    *logger.Logger
}

func NewService(db EventDBLayer, publisher Publisher, log *logger.Logger) *Service {
	return &Service{DB: db, Publisher: publisher, Logger: log}
}

func (s *Service) ListVerified(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListByStatus(ctx, models.StatusVerified)
}

func (s *Service) ListPending(ctx context.Context) ([]models.Event, error) {
	return s.DB.ListByStatus(ctx, models.StatusPending)
}

// SubmitRequest files a new event in pending state with all seats
// still available.
func (s *Service) SubmitRequest(ctx context.Context, req models.EventRequest, userID int64) (*models.Event, error) {
	if len(req.Name) < 3 || len(req.Name) > 255 {
		return nil, &RequestError{Status: http.StatusBadRequest, Detail: "Event name must be between 3 and 255 characters"}
	}
	if len(req.Location) > 255 {
		return nil, &RequestError{Status: http.StatusBadRequest, Detail: "Location must be at most 255 characters"}
	}
	if req.TotalSeats < 1 {
		return nil, &RequestError{Status: http.StatusBadRequest, Detail: "Seats must be positive"}
	}

	event := models.Event{
		Name:           req.Name,
		EventDate:      req.EventDate,
		Location:       req.Location,
		TotalSeats:     req.TotalSeats,
		RemainingSeats: req.TotalSeats,
		Status:         models.StatusPending,
	}
	if err := s.DB.Insert(ctx, &event); err != nil {
		return nil, fmt.Errorf("insert event request: %w", err)
	}
	s.logInfo("EVENTS", fmt.Sprintf("Event request %d (%s) submitted by user %d", event.ID, event.Name, userID))
	return &event, nil
}

// Verify approves a pending event.
func (s *Service) Verify(ctx context.Context, eventID int64) error {
	matched, err := s.DB.MarkVerified(ctx, eventID)
	if err != nil {
		return fmt.Errorf("mark event verified: %w", err)
	}
	if !matched {
		return &RequestError{Status: http.StatusNotFound, Detail: "Event not found or already verified."}
	}
	s.logInfo("EVENTS", fmt.Sprintf("Event %d verified", eventID))

	if s.Publisher != nil {
		event, err := s.DB.GetByID(ctx, eventID)
		if err == nil && event != nil {
			if err := s.Publisher.PublishEventVerified(ctx, *event); err != nil {
				s.logError("KAFKA", fmt.Sprintf("Failed to publish verification of event %d: %v", eventID, err))
			}
		}
	}
	return nil
}

// Register books seats on a verified event and issues the ticket. The
// seat deduction is a single conditional UPDATE, so two concurrent
// registrations can never oversell.
func (s *Service) Register(ctx context.Context, req models.RegistrationRequest, userID int64) (*models.RegistrationTicket, error) {
	if req.SeatsBooked < 1 || req.SeatsBooked > 5 {
		return nil, &RequestError{Status: http.StatusBadRequest, Detail: "Seats booked must be between 1 and 5"}
	}

	event, err := s.DB.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event %d: %w", req.EventID, err)
	}
	if event == nil || event.Status != models.StatusVerified {
		return nil, &RequestError{Status: http.StatusNotFound, Detail: "Event not found or not verified"}
	}

	reserved, err := s.DB.ReserveSeats(ctx, req.EventID, req.SeatsBooked)
	if err != nil {
		return nil, fmt.Errorf("reserve seats on event %d: %w", req.EventID, err)
	}
	if !reserved {
		remaining := 0
		if current, err := s.DB.GetByID(ctx, req.EventID); err == nil && current != nil {
			remaining = current.RemainingSeats
		}
		return nil, &RequestError{Status: http.StatusBadRequest, Detail: fmt.Sprintf("Only %d seats remaining.", remaining)}
	}

	qrData := fmt.Sprintf("%s|%s|%d|%d|%s", req.FullName, req.Email, req.EventID, req.SeatsBooked, uuid.NewString())
	reg := models.Registration{
		UserID:          userID,
		EventID:         req.EventID,
		RegisteredName:  req.FullName,
		RegisteredEmail: req.Email,
		SeatsBooked:     req.SeatsBooked,
		QRData:          qrData,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.DB.CreateRegistration(ctx, &reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	s.logInfo("EVENTS", fmt.Sprintf("Registration %d: %d seat(s) on event %d", reg.RegistrationID, reg.SeatsBooked, reg.EventID))

	if s.Publisher != nil {
		if err := s.Publisher.PublishRegistrationCreated(ctx, reg); err != nil {
			s.logError("KAFKA", fmt.Sprintf("Failed to publish registration %d: %v", reg.RegistrationID, err))
		}
	}

	return &models.RegistrationTicket{
		RegistrationID: reg.RegistrationID,
		EventName:      event.Name,
		RegisteredName: req.FullName,
		Seats:          req.SeatsBooked,
		QRData:         qrData,
	}, nil
}

// TicketQR returns the raw QR payload of an issued registration.
func (s *Service) TicketQR(ctx context.Context, registrationID int64) (string, error) {
	reg, err := s.DB.GetRegistration(ctx, registrationID)
	if err != nil {
		return "", fmt.Errorf("load registration %d: %w", registrationID, err)
	}
	if reg == nil {
		return "", &RequestError{Status: http.StatusNotFound, Detail: "Registration not found"}
	}
	return reg.QRData, nil
}

func (s *Service) logInfo(category, message string) {
	if s.Logger != nil {
		s.Logger.Info(category, message)
	}
}

func (s *Service) logError(category, message string) {
	if s.Logger != nil {
		s.Logger.Error(category, message)
	}
}
