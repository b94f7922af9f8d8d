package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Storage is the durable key-value backing for a session. Values
// survive process restarts.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type kvEntry struct {
	bun.BaseModel `bun:"table:session_kv"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// KVStorage persists session keys in a SQLite table through bun.
type KVStorage struct {
	Bun *bun.DB
}

// NewKVStorage creates the backing table if it does not exist yet.
func NewKVStorage(ctx context.Context, db *bun.DB) (*KVStorage, error) {
	_, err := db.NewCreateTable().
		Model((*kvEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session table: %w", err)
	}
	return &KVStorage{Bun: db}, nil
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := s.Bun.NewSelect().
		Model(&entry).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *KVStorage) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	_, err := s.Bun.NewInsert().
		Model(&entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

func (s *KVStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.Bun.NewDelete().
		Model((*kvEntry)(nil)).
		Where("key IN (?)", bun.In(keys)).
		Exec(ctx)
	return err
}
