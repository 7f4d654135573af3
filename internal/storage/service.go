package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Service provides high-level operations over the card database. It also
// implements deck.PrintingOracle, backed by indexed lookups.
type Service struct {
	db *DB
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{db: db}
}

// WithTransaction runs fn inside a transaction, committing on success and
// rolling back on error.
func (s *Service) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
