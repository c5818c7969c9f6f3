package account

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	// EnsureDefault inserts def unless the user already has an account, then
	// returns every account of the user ordered by creation.
	EnsureDefault(ctx context.Context, def *Account) ([]*Account, error)
	GetAccount(ctx context.Context, userID string, id uuid.UUID) (*Account, error)
	CreateAccount(ctx context.Context, a *Account) error
	UpdateAccount(ctx context.Context, a *Account) error
	BeginDelete(ctx context.Context, userID string) (DeleteTx, error)
}

// DeleteTx holds a lock on all of a user's accounts until it ends.
type DeleteTx interface {
	LockedAccounts(ctx context.Context) ([]*Account, error)
	DeleteTransfersBetween(ctx context.Context, a, b uuid.UUID) (int64, error)
	ReassignTransactions(ctx context.Context, from, to uuid.UUID) (int64, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SaveParams creates an account when ID is nil and updates it otherwise.
// Nil flags default to true.
type SaveParams struct {
	ID                   *uuid.UUID
	Name                 string
	Color                *string
	IncludeInBalance     *bool
	IncludeInCashFlow    *bool
	IncludeInInvestments *bool
	IncludeInAiReports   *bool
	IncludeInOverview    *bool
}

var colorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{3,8}$`)

// EnsureDefault returns the user's accounts, creating the default one first
// when the user has none.
func (s *Service) EnsureDefault(ctx context.Context, userID string) ([]*Account, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	accounts, err := s.repo.EnsureDefault(ctx, &Account{
		UserID:               userID,
		Name:                 DefaultName,
		IncludeInBalance:     true,
		IncludeInCashFlow:    true,
		IncludeInInvestments: true,
		IncludeInAiReports:   true,
		IncludeInOverview:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("ensure default account: %w", err)
	}

	return accounts, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Account, error) {
	return s.EnsureDefault(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Account, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	return s.repo.GetAccount(ctx, userID, id)
}

func (s *Service) Save(ctx context.Context, userID string, params SaveParams) (*Account, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperror.Invalid("name", "is required")
	}

	color, err := normalizeColor(params.Color)
	if err != nil {
		return nil, err
	}

	a := &Account{
		UserID:               userID,
		Name:                 name,
		Color:                color,
		IncludeInBalance:     flag(params.IncludeInBalance),
		IncludeInCashFlow:    flag(params.IncludeInCashFlow),
		IncludeInInvestments: flag(params.IncludeInInvestments),
		IncludeInAiReports:   flag(params.IncludeInAiReports),
		IncludeInOverview:    flag(params.IncludeInOverview),
	}

	if params.ID == nil {
		if err := s.repo.CreateAccount(ctx, a); err != nil {
			return nil, err
		}

		return a, nil
	}

	a.ID = *params.ID
	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// Delete removes an account after moving its transactions to the user's
// oldest remaining account. Transfers between the two accounts are deleted
// first: after the merge they would move money from an account to itself.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if err := apperror.RequireUser(userID); err != nil {
		return err
	}

	dtx, err := s.repo.BeginDelete(ctx, userID)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer dtx.Rollback()

	accounts, err := dtx.LockedAccounts(ctx)
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}

	var (
		found    bool
		fallback *Account
	)

	for _, a := range accounts {
		if a.ID == id {
			found = true
			continue
		}

		if fallback == nil {
			fallback = a
		}
	}

	if !found {
		return ErrNotFound
	}

	if fallback == nil {
		return ErrLastAccount
	}

	dissolved, err := dtx.DeleteTransfersBetween(ctx, id, fallback.ID)
	if err != nil {
		return fmt.Errorf("delete merged transfers: %w", err)
	}

	moved, err := dtx.ReassignTransactions(ctx, id, fallback.ID)
	if err != nil {
		return fmt.Errorf("reassign transactions: %w", err)
	}

	if err := dtx.DeleteAccount(ctx, id); err != nil {
		return err
	}

	if err := dtx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	logger.FromContext(ctx).Info().
		Stringer("account_id", id).
		Stringer("fallback_id", fallback.ID).
		Int64("moved", moved).
		Int64("dissolved_transfers", dissolved).
		Msg("account deleted")

	return nil
}

func normalizeColor(color *string) (*string, error) {
	if color == nil {
		return nil, nil
	}

	c := strings.TrimSpace(*color)
	if c == "" {
		return nil, nil
	}

	if !colorPattern.MatchString(c) {
		return nil, apperror.Invalid("color", "%q is not a hex color", c)
	}

	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}

	return &c, nil
}

func flag(b *bool) bool {
	return b == nil || *b
}
