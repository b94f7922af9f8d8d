package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"

	"loksangam/internal/models"
)

// Open connects to the SQLite database behind the given DSN.
func Open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Init creates the schema if it is not there yet.
func Init(ctx context.Context, db *bun.DB) error {
	for _, model := range []any{
		(*models.User)(nil),
		(*models.Event)(nil),
		(*models.Registration)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// SeedAdmin provisions the initial admin account when the users table
// is empty. A blank password skips seeding.
func SeedAdmin(ctx context.Context, db *bun.DB, email, password string) error {
	if password == "" {
		return nil
	}
	count, err := db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := db.NewInsert().Model(&admin).Exec(ctx); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}
