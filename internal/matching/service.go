package matching

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

// Mapping is a learned rewrite of raw bank text into the name the user prefers.
type Mapping struct {
	RawPattern           string
	PreferredDescription string
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, userID, rawDescription string) (string, error)
	CreateMapping(ctx context.Context, userID string, mapping Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the user's preferred description for rawDescription.
// The longest matching pattern wins; an empty string means no match.
func (s *Service) Suggest(ctx context.Context, userID, rawDescription string) (string, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return "", err
	}

	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, userID, raw)
}

// Learn remembers that text containing rawPattern should be named preferredDescription.
func (s *Service) Learn(ctx context.Context, userID, rawPattern, preferredDescription string) error {
	if err := apperror.RequireUser(userID); err != nil {
		return err
	}

	m := Mapping{
		RawPattern:           strings.TrimSpace(rawPattern),
		PreferredDescription: strings.TrimSpace(preferredDescription),
	}

	if m.RawPattern == "" {
		return apperror.Invalid("rawPattern", "is required")
	}

	if m.PreferredDescription == "" {
		return apperror.Invalid("preferredDescription", "is required")
	}

	if err := s.repo.CreateMapping(ctx, userID, m); err != nil {
		return fmt.Errorf("learn mapping: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Str("pattern", m.RawPattern).
		Str("preferred", m.PreferredDescription).
		Msg("description mapping learned")

	return nil
}
