package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	UserID      int64  `json:"user_id"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// ErrorDetail is the error body the backend produces for every rejected
// request.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	Role         string    `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
}
