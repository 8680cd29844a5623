// Package leads persists user profiles collected during onboarding.
package leads

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brastorne/lebo/internal/chat"
)

// Execer is the database surface the store needs. *pgxpool.Pool
// satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store writes completed leads to the leads table.
type Store struct {
	db     Execer
	logger *slog.Logger
}

// New creates a lead store.
func New(db Execer, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

const insertQuery = `
	INSERT INTO leads (name, email, interest)
	VALUES ($1, $2, $3)`

// Save inserts one lead row. Duplicate emails are allowed; the same
// person may onboard again in a later session.
func (s *Store) Save(ctx context.Context, profile chat.Profile) error {
	if _, err := s.db.Exec(ctx, insertQuery, profile.Name, profile.Email, profile.Interest); err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	s.logger.Info("lead saved", "interest", profile.Interest)
	return nil
}
