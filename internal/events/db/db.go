package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"loksangam/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ListByStatus returns all events in the given verification state.
func (d *DB) ListByStatus(ctx context.Context, status models.EventStatus) ([]models.Event, error) {
	events := make([]models.Event, 0)
	err := d.Bun.NewSelect().
		Model(&events).
		Where("status = ?", status).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID returns nil without error when the event does not exist.
func (d *DB) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Insert stores a new event and fills in its assigned ID.
func (d *DB) Insert(ctx context.Context, event *models.Event) error {
	_, err := d.Bun.NewInsert().Model(event).Exec(ctx)
	return err
}

// MarkVerified flips a pending event to verified. Returns false when
// the event does not exist or was already verified.
func (d *DB) MarkVerified(ctx context.Context, id int64) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("status = ?", models.StatusVerified).
		Where("id = ?", id).
		Where("status = ?", models.StatusPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return rowsAffected(res), nil
}

// ReserveSeats atomically deducts seats from a verified event. Returns
// false when the event is missing, unverified, or short of seats; the
// single UPDATE is what makes the server the arbiter of availability.
func (d *DB) ReserveSeats(ctx context.Context, id int64, seats int) (bool, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Event)(nil)).
		Set("remaining_seats = remaining_seats - ?", seats).
		Where("id = ?", id).
		Where("status = ?", models.StatusVerified).
		Where("remaining_seats >= ?", seats).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return rowsAffected(res), nil
}

// CreateRegistration stores a registration and fills in its assigned ID.
func (d *DB) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	_, err := d.Bun.NewInsert().Model(reg).Exec(ctx)
	return err
}

// GetRegistration returns nil without error when no such registration
// exists.
func (d *DB) GetRegistration(ctx context.Context, id int64) (*models.Registration, error) {
	var reg models.Registration
	err := d.Bun.NewSelect().
		Model(&reg).
		Where("registration_id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func rowsAffected(res sql.Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
