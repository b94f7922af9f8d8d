package event_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"loksangam/internal/auth"
	events "loksangam/internal/events/service"
	"loksangam/internal/logger"
	"loksangam/internal/models"
	"loksangam/internal/tickets/qr"
)

// EventService is the slice of the event service the handlers use.
type EventService interface {
	ListVerified(ctx context.Context) ([]models.Event, error)
	ListPending(ctx context.Context) ([]models.Event, error)
	SubmitRequest(ctx context.Context, req models.EventRequest, userID int64) (*models.Event, error)
	Verify(ctx context.Context, eventID int64) error
	Register(ctx context.Context, req models.RegistrationRequest, userID int64) (*models.RegistrationTicket, error)
	TicketQR(ctx context.Context, registrationID int64) (string, error)
}

// AuthService authenticates login requests.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

type Handler struct {
	Events EventService
	Auth   AuthService
	Logger *logger.Logger
}

func NewHandler(eventService EventService, authService AuthService, log *logger.Logger) *Handler {
	return &Handler{Events: eventService, Auth: authService, Logger: log}
}

// Login answers POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logError("AUTH", fmt.Sprintf("Login failed for %s: %v", req.Email, err))
		writeDetail(w, http.StatusInternalServerError, "Login failed due to a server error.")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListVerified answers GET /events. Public.
func (h *Handler) ListVerified(w http.ResponseWriter, r *http.Request) {
	list, err := h.Events.ListVerified(r.Context())
	if err != nil {
		h.logError("EVENTS", fmt.Sprintf("Listing verified events failed: %v", err))
		writeDetail(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// ListPending answers GET /admin/pending_events. Admin only.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	list, err := h.Events.ListPending(r.Context())
	if err != nil {
		h.logError("EVENTS", fmt.Sprintf("Listing pending events failed: %v", err))
		writeDetail(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// SubmitRequest answers POST /event/request with 201 on success.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req models.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.Events.SubmitRequest(r.Context(), req, identity.UserID); err != nil {
		h.writeServiceError(w, err, "Event request failed due to a server error.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "Event request submitted successfully. Waiting for admin verification.",
	})
}

// Verify answers POST /admin/verify/{eventID}. Admin only.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid event id")
		return
	}

	if err := h.Events.Verify(r.Context(), eventID); err != nil {
		h.writeServiceError(w, err, "Verification failed due to a server error.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Event ID %d verified successfully.", eventID),
	})
}

// Register answers POST /event/register with the issued ticket.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ticket, err := h.Events.Register(r.Context(), req, identity.UserID)
	if err != nil {
		h.writeServiceError(w, err, "Registration failed due to a server error.")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// TicketQR answers GET /registration/{registrationID}/qr with a PNG of
// the ticket's QR code.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	registrationID, err := strconv.ParseInt(chi.URLParam(r, "registrationID"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid registration id")
		return
	}

	qrData, err := h.Events.TicketQR(r.Context(), registrationID)
	if err != nil {
		h.writeServiceError(w, err, "QR generation failed due to a server error.")
		return
	}

	png, err := qr.EncodePNG(qrData, qr.DefaultSize)
	if err != nil {
		h.logError("QR", fmt.Sprintf("Encoding QR for registration %d failed: %v", registrationID, err))
		writeDetail(w, http.StatusInternalServerError, "QR generation failed due to a server error.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// RegisterRoutes mounts the public and protected endpoints.
func (h *Handler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/login", h.Login)
	r.Get("/events", h.ListVerified)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/event/request", h.SubmitRequest)
		r.Post("/event/register", h.Register)
		r.Get("/admin/pending_events", h.ListPending)
		r.Post("/admin/verify/{eventID}", h.Verify)
		r.Get("/registration/{registrationID}/qr", h.TicketQR)
	})
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := auth.FromContext(r.Context())
	if !ok || identity.Role != models.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Admin privileges required")
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var reqErr *events.RequestError
	if errors.As(err, &reqErr) {
		writeDetail(w, reqErr.Status, reqErr.Detail)
		return
	}
	h.logError("EVENTS", err.Error())
	writeDetail(w, http.StatusInternalServerError, fallback)
}

func (h *Handler) logError(category, message string) {
	if h.Logger != nil {
		h.Logger.Error(category, message)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorDetail{Detail: detail})
}
