package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	txstore "github.com/MrJamesThe3rd/finboard/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const realizedAt = `COALESCE(executed_at, date)`

type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) String() string {
	return strings.Join(w.conds, " AND ")
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

func buildWhere(f dashboard.Filter) *whereBuilder {
	w := &whereBuilder{}
	w.add("user_id = $%d", f.UserID)

	if f.AccountIDs != nil {
		w.add("account_id = ANY($%d::uuid[])", uuidStrings(f.AccountIDs))
	}

	if len(f.Types) > 0 {
		types := make([]string, len(f.Types))
		for i, t := range f.Types {
			types[i] = string(t)
		}

		w.add("type = ANY($%d::text[])", types)
	}

	if f.Status != "" {
		w.add("status = $%d", string(f.Status))
	}

	if f.Category != "" {
		w.add("category = $%d", string(f.Category))
	}

	if f.ExcludeCategory != "" {
		w.add("category <> $%d", string(f.ExcludeCategory))
	}

	if f.RealizedFrom != nil {
		w.add(realizedAt+" >= $%d", *f.RealizedFrom)
	}

	if f.RealizedBefore != nil {
		w.add(realizedAt+" < $%d", *f.RealizedBefore)
	}

	if f.DateFrom != nil {
		w.add("date >= $%d", *f.DateFrom)
	}

	if f.DateBefore != nil {
		w.add("date < $%d", *f.DateBefore)
	}

	return w
}

func (s *Store) SumAmount(ctx context.Context, filter dashboard.Filter) (decimal.Decimal, error) {
	w := buildWhere(filter)

	var sum decimal.Decimal

	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE ` + w.String()
	if err := s.db.QueryRowContext(ctx, query, w.args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing amount: %w", err)
	}

	return sum, nil
}

func (s *Store) GroupByCategory(ctx context.Context, filter dashboard.Filter) ([]dashboard.CategoryTotal, error) {
	w := buildWhere(filter)

	query := `SELECT category, SUM(amount) FROM transactions WHERE ` + w.String() + ` GROUP BY category`

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("grouping by category: %w", err)
	}
	defer rows.Close()

	var totals []dashboard.CategoryTotal

	for rows.Next() {
		var (
			category string
			sum      decimal.Decimal
		)

		if err := rows.Scan(&category, &sum); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		totals = append(totals, dashboard.CategoryTotal{
			Category:    transaction.Category(category),
			TotalAmount: sum,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating category totals: %w", err)
	}

	return totals, nil
}

// SumBalanceLegs sums executed amounts per leg: deposits and expenses booked
// on an account of the set, transfers leaving it and transfers entering it.
func (s *Store) SumBalanceLegs(ctx context.Context, filter dashboard.ImpactFilter) (dashboard.BalanceLegs, error) {
	w := &whereBuilder{}
	w.add("user_id = $%d", filter.UserID)
	w.add("status = $%d", string(transaction.StatusExecuted))

	if filter.RealizedFrom != nil {
		w.add(realizedAt+" >= $%d", *filter.RealizedFrom)
	}

	if filter.RealizedBefore != nil {
		w.add(realizedAt+" < $%d", *filter.RealizedBefore)
	}

	w.args = append(w.args, uuidStrings(filter.AccountIDs))
	set := fmt.Sprintf("$%d::uuid[]", len(w.args))

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'DEPOSIT' AND account_id = ANY(` + set + `)), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE' AND account_id = ANY(` + set + `)), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'TRANSFER' AND account_id = ANY(` + set + `)), 0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'TRANSFER' AND transfer_account_id = ANY(` + set + `)), 0)
		FROM transactions
		WHERE ` + w.String() + `
			AND (account_id = ANY(` + set + `) OR transfer_account_id = ANY(` + set + `))`

	var legs dashboard.BalanceLegs
	if err := s.db.QueryRowContext(ctx, query, w.args...).Scan(
		&legs.Deposit, &legs.Expense, &legs.TransferOut, &legs.TransferIn,
	); err != nil {
		return dashboard.BalanceLegs{}, fmt.Errorf("summing balance legs: %w", err)
	}

	return legs, nil
}

func (s *Store) SumByAccount(ctx context.Context, userID string) ([]dashboard.AccountTotals, error) {
	query := `
		SELECT a.id,
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'DEPOSIT' AND t.account_id = a.id), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'EXPENSE' AND t.category <> 'INVESTMENT' AND t.account_id = a.id), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'EXPENSE' AND t.category = 'INVESTMENT' AND t.account_id = a.id), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'TRANSFER' AND t.account_id = a.id), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'TRANSFER' AND t.transfer_account_id = a.id), 0)
		FROM accounts a
		LEFT JOIN transactions t
			ON t.user_id = a.user_id
			AND t.status = 'EXECUTED'
			AND (t.account_id = a.id OR t.transfer_account_id = a.id)
		WHERE a.user_id = $1
		GROUP BY a.id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("summing accounts: %w", err)
	}
	defer rows.Close()

	var totals []dashboard.AccountTotals

	for rows.Next() {
		var t dashboard.AccountTotals
		if err := rows.Scan(&t.AccountID, &t.Deposit, &t.Expense, &t.Investment, &t.TransferOut, &t.TransferIn); err != nil {
			return nil, fmt.Errorf("scanning account totals: %w", err)
		}

		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating account totals: %w", err)
	}

	return totals, nil
}

// FindMany lists matching transactions, pending first, newest first.
// A limit of zero returns every match.
func (s *Store) FindMany(ctx context.Context, filter dashboard.Filter, limit int) ([]*transaction.Transaction, error) {
	w := buildWhere(filter)

	query := `SELECT ` + txstore.Columns + ` FROM transactions WHERE ` + w.String() +
		` ORDER BY (status = 'PENDING') DESC, date DESC, created_at DESC`

	if limit > 0 {
		w.args = append(w.args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(w.args))
	}

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("finding transactions: %w", err)
	}

	return txstore.ScanAll(rows)
}
