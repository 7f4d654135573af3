package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Set is a Magic set in the local cache, with the rotation data the
// legality checker consumes.
type Set struct {
	Code            string
	Name            string
	ReleasedAt      *string
	IsStandardLegal bool
	RotationDate    *string // ISO 8601 date the set rotates out of Standard
}

// SaveSet inserts or updates a set.
func (s *Service) SaveSet(ctx context.Context, set *Set) error {
	query := `
		INSERT INTO sets (code, name, released_at, is_standard_legal, rotation_date, last_updated)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(code) DO UPDATE SET
			name = excluded.name,
			released_at = excluded.released_at,
			is_standard_legal = excluded.is_standard_legal,
			rotation_date = excluded.rotation_date,
			last_updated = CURRENT_TIMESTAMP
	`
	_, err := s.db.Conn().ExecContext(ctx, query,
		set.Code, set.Name, set.ReleasedAt, set.IsStandardLegal, set.RotationDate)
	if err != nil {
		return fmt.Errorf("failed to save set %q: %w", set.Code, err)
	}
	return nil
}

// GetSet retrieves a set by code. Returns nil when the set is unknown.
func (s *Service) GetSet(ctx context.Context, code string) (*Set, error) {
	query := `
		SELECT code, name, released_at, is_standard_legal, rotation_date
		FROM sets
		WHERE code = ?
	`
	var set Set
	err := s.db.Conn().QueryRowContext(ctx, query, code).Scan(
		&set.Code, &set.Name, &set.ReleasedAt, &set.IsStandardLegal, &set.RotationDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set %q: %w", code, err)
	}
	return &set, nil
}
