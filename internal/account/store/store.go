package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectColumns = `
	id, user_id, name, color, include_in_balance, include_in_cash_flow, include_in_investments,
	include_in_ai_reports, include_in_overview, created_at, updated_at
`

func scanAccount(s scanner) (*account.Account, error) {
	var a account.Account

	if err := s.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Color, &a.IncludeInBalance, &a.IncludeInCashFlow,
		&a.IncludeInInvestments, &a.IncludeInAiReports, &a.IncludeInOverview, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &a, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listAccounts(ctx context.Context, q querier, userID string, lock bool) ([]*account.Account, error) {
	query := `SELECT ` + selectColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at ASC, id ASC`
	if lock {
		query += ` FOR UPDATE`
	}

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

// EnsureDefault serialises first-time creation per user with an advisory lock
// so concurrent callers observe a single default account.
func (s *Store) EnsureDefault(ctx context.Context, def *account.Account) ([]*account.Account, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext('accounts:' || $1::text))`, def.UserID); err != nil {
		return nil, fmt.Errorf("acquiring account lock: %w", err)
	}

	query := `
		INSERT INTO accounts (user_id, name, color, include_in_balance, include_in_cash_flow,
			include_in_investments, include_in_ai_reports, include_in_overview)
		SELECT $1::text, $2::text, $3::text, $4::boolean, $5::boolean, $6::boolean, $7::boolean, $8::boolean
		WHERE NOT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1::text)
	`

	_, err = tx.ExecContext(ctx, query,
		def.UserID, def.Name, def.Color, def.IncludeInBalance, def.IncludeInCashFlow,
		def.IncludeInInvestments, def.IncludeInAiReports, def.IncludeInOverview,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting default account: %w", err)
	}

	accounts, err := listAccounts(ctx, tx, def.UserID, false)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing tx: %w", err)
	}

	return accounts, nil
}

func (s *Store) GetAccount(ctx context.Context, userID string, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, color, include_in_balance, include_in_cash_flow,
			include_in_investments, include_in_ai_reports, include_in_overview)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.UserID, a.Name, a.Color, a.IncludeInBalance, a.IncludeInCashFlow,
		a.IncludeInInvestments, a.IncludeInAiReports, a.IncludeInOverview,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $3, color = $4, include_in_balance = $5, include_in_cash_flow = $6,
			include_in_investments = $7, include_in_ai_reports = $8, include_in_overview = $9,
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Name, a.Color, a.IncludeInBalance, a.IncludeInCashFlow,
		a.IncludeInInvestments, a.IncludeInAiReports, a.IncludeInOverview,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}

type deleteTx struct {
	tx     *sql.Tx
	userID string
}

func (s *Store) BeginDelete(ctx context.Context, userID string) (account.DeleteTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning delete tx: %w", err)
	}

	return &deleteTx{tx: tx, userID: userID}, nil
}

func (d *deleteTx) Commit() error   { return d.tx.Commit() }
func (d *deleteTx) Rollback() error { return d.tx.Rollback() }

func (d *deleteTx) LockedAccounts(ctx context.Context) ([]*account.Account, error) {
	return listAccounts(ctx, d.tx, d.userID, true)
}

// DeleteTransfersBetween removes transfers from a to b or from b to a.
func (d *deleteTx) DeleteTransfersBetween(ctx context.Context, a, b uuid.UUID) (int64, error) {
	query := `
		DELETE FROM transactions
		WHERE user_id = $1 AND type = 'TRANSFER'
			AND ((account_id = $2 AND transfer_account_id = $3)
				OR (account_id = $3 AND transfer_account_id = $2))
	`

	res, err := d.tx.ExecContext(ctx, query, d.userID, a, b)
	if err != nil {
		return 0, fmt.Errorf("deleting transfers between accounts: %w", err)
	}

	return res.RowsAffected()
}

// ReassignTransactions points every transaction that references from, as
// source or destination, at to.
func (d *deleteTx) ReassignTransactions(ctx context.Context, from, to uuid.UUID) (int64, error) {
	query := `
		UPDATE transactions
		SET account_id = CASE WHEN account_id = $2 THEN $3 ELSE account_id END,
			transfer_account_id = CASE WHEN transfer_account_id = $2 THEN $3 ELSE transfer_account_id END,
			updated_at = NOW()
		WHERE user_id = $1 AND (account_id = $2 OR transfer_account_id = $2)
	`

	res, err := d.tx.ExecContext(ctx, query, d.userID, from, to)
	if err != nil {
		return 0, fmt.Errorf("reassigning transactions: %w", err)
	}

	return res.RowsAffected()
}

func (d *deleteTx) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res, err := d.tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, id, d.userID)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return account.ErrNotFound
	}

	return nil
}
