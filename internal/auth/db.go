package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"loksangam/internal/models"
)

// DB is the user storage layer.
type DB struct {
	Bun *bun.DB
}

// GetUserByEmail returns nil without error when no such user exists.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *DB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := d.Bun.NewInsert().Model(user).Exec(ctx)
	return err
}
