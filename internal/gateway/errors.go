package gateway

import (
	"errors"

	"loksangam/internal/models"
)

// Typed failures per operation. Detail carries the server's detail
// string verbatim when one was supplied, otherwise a generic fallback.

// AuthError means the login was rejected.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string { return "login rejected: " + e.Detail }

// FetchError means a read operation failed. A pending-events 403 is
// not a FetchError; it yields an empty list instead.
type FetchError struct {
	Detail string
}

func (e *FetchError) Error() string { return "fetch failed: " + e.Detail }

// SubmissionError means the server rejected a new event request.
type SubmissionError struct {
	Detail string
}

func (e *SubmissionError) Error() string { return "event request rejected: " + e.Detail }

// VerificationError means the server rejected an event verification.
type VerificationError struct {
	Detail string
}

func (e *VerificationError) Error() string { return "verification rejected: " + e.Detail }

// RegistrationError means the server rejected a seat registration,
// typically because seats ran out between fetch and submit.
type RegistrationError struct {
	Detail string
}

func (e *RegistrationError) Error() string { return "registration rejected: " + e.Detail }

// UserMessage strips the operation prefix from a gateway error and
// returns the text meant for the person using the app: the server's
// detail for business rejections, the decode reason for malformed
// payloads, err.Error() for anything else.
func UserMessage(err error) string {
	var (
		authErr     *AuthError
		fetchErr    *FetchError
		submitErr   *SubmissionError
		verifyErr   *VerificationError
		registerErr *RegistrationError
		decodeErr   *models.DecodeError
	)
	switch {
	case errors.As(err, &authErr):
		return authErr.Detail
	case errors.As(err, &fetchErr):
		return fetchErr.Detail
	case errors.As(err, &submitErr):
		return submitErr.Detail
	case errors.As(err, &verifyErr):
		return verifyErr.Detail
	case errors.As(err, &registerErr):
		return registerErr.Detail
	case errors.As(err, &decodeErr):
		return decodeErr.Error()
	default:
		return err.Error()
	}
}
