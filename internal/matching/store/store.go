package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, userID, rawDescription string) (string, error) {
	query := `
		SELECT preferred_description
		FROM description_mappings
		WHERE user_id = $1
		  AND $2 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var preferred string

	err := s.db.QueryRowContext(ctx, query, userID, rawDescription).Scan(&preferred)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return preferred, nil
}

func (s *Store) CreateMapping(ctx context.Context, userID string, m matching.Mapping) error {
	query := `
		INSERT INTO description_mappings (user_id, raw_pattern, preferred_description)
		VALUES ($1, $2, $3)
	`

	if _, err := s.db.ExecContext(ctx, query, userID, m.RawPattern, m.PreferredDescription); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
