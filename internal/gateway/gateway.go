package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"loksangam/internal/logger"
	"loksangam/internal/models"
	"loksangam/internal/session"
)

// Client is the single seam between the app and the LokSangam backend.
// No other component issues network calls. Every operation returns a
// decoded model or one of the typed errors in errors.go; nothing is
// retried, and the server's seat accounting is always taken as the
// truth.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
	logger  *logger.Logger
}

// New builds a gateway client. The logger may be nil; transport
// timeouts are whatever the supplied http.Client enforces.
func New(baseURL string, httpClient *http.Client, sess *session.Store, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: sess,
		logger:  log,
	}
}

// Session exposes the store the gateway persists credentials into.
func (c *Client) Session() *session.Store { return c.session }

// Login authenticates against POST /login and, on success, stores the
// returned token and role as a pair in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{Detail: c.detail(resp, "Login failed")}
	}

	var login models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return nil, &models.DecodeError{Model: "LoginResponse", Reason: "payload is not a JSON object"}
	}
	if err := c.session.Save(ctx, login.AccessToken, login.Role); err != nil {
		return nil, err
	}
	c.logInfo("GATEWAY", fmt.Sprintf("Logged in as %s (%s)", email, login.Role))
	return &login, nil
}

// Logout clears the stored session. Purely local; the backend keeps no
// per-call state the client could revoke.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.Clear(ctx)
}

// ListVerifiedEvents fetches GET /events. No authentication required.
func (c *Client) ListVerifiedEvents(ctx context.Context) ([]models.Event, error) {
	resp, err := c.do(ctx, http.MethodGet, "/events", nil, false)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Detail: "Failed to load verified events"}
	}
	return c.decodeEvents(resp)
}

// ListPendingEvents fetches GET /admin/pending_events. For a non-admin
// session it returns an empty list without touching the network, and a
// server 403 is treated the same way: the pending section simply has
// nothing to show.
func (c *Client) ListPendingEvents(ctx context.Context) ([]models.Event, error) {
	role, err := c.session.Role(ctx)
	if err != nil {
		return nil, err
	}
	if role != models.RoleAdmin {
		return []models.Event{}, nil
	}

	resp, err := c.do(ctx, http.MethodGet, "/admin/pending_events", nil, true)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode == http.StatusForbidden {
		return []models.Event{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Detail: "Failed to load pending events"}
	}
	return c.decodeEvents(resp)
}

// VerifyEvent approves a pending event via POST /admin/verify/{id}.
func (c *Client) VerifyEvent(ctx context.Context, eventID int64) error {
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/verify/%d", eventID), nil, true)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return &VerificationError{Detail: c.detail(resp, "Event verification failed")}
	}
	c.logInfo("GATEWAY", fmt.Sprintf("Event %d verified", eventID))
	return nil
}

// SubmitEventRequest submits a new event for admin verification via
// POST /event/request. The server answers 201 on success.
func (c *Client) SubmitEventRequest(ctx context.Context, req models.EventRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode event request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/event/request", bytes.NewReader(body), true)
	if err != nil {
		return err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusCreated {
		return &SubmissionError{Detail: c.detail(resp, "Event request failed")}
	}
	return nil
}

// RegisterEvent books seats via POST /event/register and returns the
// issued ticket. The client does no seat arithmetic of its own; a
// rejection here is final and its message is surfaced verbatim.
func (c *Client) RegisterEvent(ctx context.Context, eventID int64, fullName, email string, seats int) (*models.RegistrationTicket, error) {
	body, err := json.Marshal(models.RegistrationRequest{
		EventID:     eventID,
		FullName:    fullName,
		Email:       email,
		SeatsBooked: seats,
	})
	if err != nil {
		return nil, fmt.Errorf("encode registration request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/event/register", bytes.NewReader(body), true)
	if err != nil {
		return nil, err
	}
	defer c.closeBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &RegistrationError{Detail: c.detail(resp, "Registration failed")}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read registration response: %w", err)
	}
	ticket, err := models.DecodeTicket(raw)
	if err != nil {
		return nil, err
	}
	c.logInfo("GATEWAY", fmt.Sprintf("Registered %d seat(s) for event %d", ticket.Seats, eventID))
	return &ticket, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, authed bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.session.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logError("GATEWAY", fmt.Sprintf("%s %s: %v", method, path, err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) decodeEvents(resp *http.Response) ([]models.Event, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read events response: %w", err)
	}
	return models.DecodeEvents(raw)
}

// detail pulls the server's detail string out of an error body,
// falling back to the supplied text when there is none.
func (c *Client) detail(resp *http.Response, fallback string) string {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}
	var body models.ErrorDetail
	if err := json.Unmarshal(raw, &body); err != nil || body.Detail == "" {
		return fallback
	}
	return body.Detail
}

func (c *Client) closeBody(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logError("GATEWAY", fmt.Sprintf("Failed to close response body: %v", err))
	}
}

func (c *Client) logInfo(category, message string) {
	if c.logger != nil {
		c.logger.Info(category, message)
	}
}

func (c *Client) logError(category, message string) {
	if c.logger != nil {
		c.logger.Error(category, message)
	}
}
