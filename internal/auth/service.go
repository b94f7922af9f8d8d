package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"loksangam/internal/models"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong
// password; the two cases are indistinguishable on purpose.
var ErrInvalidCredentials = errors.New("Invalid credentials")

// UserStore is the slice of user storage the auth service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service authenticates users and issues tokens.
type Service struct {
	Users  UserStore
	Cache  *SessionCache
	Secret string
	TTL    time.Duration
}

func NewService(users UserStore, cache *SessionCache, secret string, ttl time.Duration) *Service {
	return &Service{Users: users, Cache: cache, Secret: secret, TTL: ttl}
}

// Login checks the credentials and issues an access token with a live
// session entry behind it.
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, tokenID, err := IssueToken(s.Secret, user, s.TTL)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		data := SessionData{UserID: user.ID, Email: user.Email, Role: user.Role}
		if err := s.Cache.Put(ctx, tokenID, data, s.TTL); err != nil {
			return nil, err
		}
	}

	return &models.LoginResponse{
		Message:     "Login successful",
		UserID:      user.ID,
		Role:        user.Role,
		AccessToken: token,
	}, nil
}
