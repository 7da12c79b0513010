// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// displayNameSlot is the implicit key of the single cache slot: "the last
// resolved name on this device".
const displayNameSlot = "display_name"

type nameCacheRepository struct {
	db      *DB
	builder sq.StatementBuilderType
}

// NewNameCache creates a [NameCache] backed by the name_cache table of the
// local SQLite database.
func NewNameCache(db *DB) NameCache {
	return &nameCacheRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

func (r *nameCacheRepository) Get(ctx context.Context) (string, error) {
	query, args, err := r.builder.
		Select("value").
		From("name_cache").
		Where(sq.Eq{"slot": displayNameSlot}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build name cache select: %w", err)
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: slot %q", ErrNameNotCached, displayNameSlot)
	}
	if err != nil {
		return "", fmt.Errorf("query name cache: %w", err)
	}

	return value, nil
}

func (r *nameCacheRepository) Set(ctx context.Context, value string) error {
	query, args, err := r.builder.
		Insert("name_cache").
		Columns("slot", "value").
		Values(displayNameSlot, value).
		Suffix("ON CONFLICT(slot) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP").
		ToSql()
	if err != nil {
		return fmt.Errorf("build name cache upsert: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("persist name cache: %w", err)
	}

	return nil
}
