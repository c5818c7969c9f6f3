package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Columns is the select list understood by ScanAll.
const Columns = `
	id, user_id, account_id, transfer_account_id, name, raw_description, amount, type, category,
	payment_method, date, status, executed_at, fulfillment_type, installment_index, installment_count,
	installment_value_is_total, installment_total, recurrence_type, recurrence_interval,
	recurrence_ends_at, recurrence_skip_weekdays, parent_transaction_id, created_at, updated_at
`

const insertQuery = `
	INSERT INTO transactions (
		id, user_id, account_id, transfer_account_id, name, raw_description, amount, type, category,
		payment_method, date, status, executed_at, fulfillment_type, installment_index, installment_count,
		installment_value_is_total, installment_total, recurrence_type, recurrence_interval,
		recurrence_ends_at, recurrence_skip_weekdays, parent_transaction_id, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NOW())
	RETURNING created_at
`

// scanTransaction reads a row selected with Columns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typ, category, method, status, fulfillment, recurrence string

	var rawDesc sql.NullString

	var total decimal.NullDecimal

	var weekdays []int32

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.AccountID, &tx.TransferAccountID, &tx.Name, &rawDesc, &tx.Amount,
		&typ, &category, &method, &tx.Date, &status, &tx.ExecutedAt, &fulfillment,
		&tx.InstallmentIndex, &tx.InstallmentCount, &tx.InstallmentValueIsTotal, &total,
		&recurrence, &tx.RecurrenceInterval, &tx.RecurrenceEndsAt, pgtype.NewMap().SQLScanner(&weekdays),
		&tx.ParentTransactionID, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typ)
	tx.Category = transaction.Category(category)
	tx.PaymentMethod = transaction.PaymentMethod(method)
	tx.Status = transaction.Status(status)
	tx.FulfillmentType = transaction.FulfillmentType(fulfillment)
	tx.RecurrenceType = transaction.RecurrenceType(recurrence)
	tx.RawDescription = rawDesc.String

	if total.Valid {
		tx.InstallmentTotal = &total.Decimal
	}

	tx.RecurrenceSkipWeekdays = make([]time.Weekday, len(weekdays))
	for i, d := range weekdays {
		tx.RecurrenceSkipWeekdays[i] = time.Weekday(d)
	}

	return &tx, nil
}

// ScanAll reads every row selected with Columns and closes rows.
func ScanAll(rows *sql.Rows) ([]*transaction.Transaction, error) {
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func weekdays(days []time.Weekday) []int32 {
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}

	return out
}

func insertArgs(tx *transaction.Transaction) []any {
	var total decimal.NullDecimal
	if tx.InstallmentTotal != nil {
		total = decimal.NewNullDecimal(*tx.InstallmentTotal)
	}

	return []any{
		tx.ID, tx.UserID, tx.AccountID, tx.TransferAccountID, tx.Name, nullString(tx.RawDescription),
		tx.Amount, tx.Type, tx.Category, tx.PaymentMethod, tx.Date, tx.Status, tx.ExecutedAt,
		tx.FulfillmentType, tx.InstallmentIndex, tx.InstallmentCount, tx.InstallmentValueIsTotal, total,
		tx.RecurrenceType, tx.RecurrenceInterval, tx.RecurrenceEndsAt, weekdays(tx.RecurrenceSkipWeekdays),
		tx.ParentTransactionID,
	}
}

func getTransaction(ctx context.Context, q querier, userID string, id uuid.UUID, forUpdate bool) (*transaction.Transaction, error) {
	query := `SELECT ` + Columns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	tx, err := scanTransaction(q.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func createTransactions(ctx context.Context, q querier, txs []*transaction.Transaction) error {
	for _, tx := range txs {
		if err := q.QueryRowContext(ctx, insertQuery, insertArgs(tx)...).Scan(&tx.CreatedAt); err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	return nil
}

func ownsAccount(ctx context.Context, q querier, userID string, accountID uuid.UUID) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`
	if err := q.QueryRowContext(ctx, query, accountID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking account owner: %w", err)
	}

	return exists, nil
}

func (s *Store) GetTransaction(ctx context.Context, userID string, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, s.db, userID, id, false)
}

func (s *Store) ListTransactions(ctx context.Context, userID string, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var (
		where = []string{"user_id = $1"}
		args  = []any{userID}
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.AccountID != nil {
		add("(account_id = $%[1]d OR transfer_account_id = $%[1]d)", *filter.AccountID)
	}

	if filter.ParentID != nil {
		add("parent_transaction_id = $%d", *filter.ParentID)
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}

	if filter.StartDate != nil {
		add("date >= $%d", *filter.StartDate)
	}

	if filter.EndDate != nil {
		add("date <= $%d", *filter.EndDate)
	}

	query := `SELECT ` + Columns + ` FROM transactions WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return ScanAll(rows)
}

func (s *Store) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status transaction.Status, executedAt *time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1, executed_at = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`

	res, err := s.db.ExecContext(ctx, query, status, executedAt, id, userID)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectRow(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRow(res)
}

// DeleteSeries removes a root and every row generated from it.
func (s *Store) DeleteSeries(ctx context.Context, userID string, rootID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM transactions
		WHERE user_id = $1 AND (id = $2 OR parent_transaction_id = $2)
	`

	res, err := s.db.ExecContext(ctx, query, userID, rootID)
	if err != nil {
		return 0, fmt.Errorf("deleting series: %w", err)
	}

	return res.RowsAffected()
}

// DeleteSeriesFrom removes id and every child of rootID dated on or after from.
func (s *Store) DeleteSeriesFrom(ctx context.Context, userID string, id, rootID uuid.UUID, from time.Time) (int64, error) {
	query := `
		DELETE FROM transactions
		WHERE user_id = $1 AND (id = $2 OR (parent_transaction_id = $3 AND date >= $4))
	`

	res, err := s.db.ExecContext(ctx, query, userID, id, rootID, from)
	if err != nil {
		return 0, fmt.Errorf("deleting series forward: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int

	query := `SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`
	if err := s.db.QueryRowContext(ctx, query, userID, from, to).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}

	return n, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

// dbTx implements both transaction.Tx and transaction.ImportTx.
type dbTx struct {
	tx *sql.Tx
}

func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}

	return &dbTx{tx: tx}, nil
}

func importLockKey(userID string, accountID uuid.UUID, minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write(accountID[:])
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

func (s *Store) BeginImport(ctx context.Context, userID string, accountID uuid.UUID, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(userID, accountID, minDate, maxDate)
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &dbTx{tx: tx}, nil
}

func (t *dbTx) Commit() error   { return t.tx.Commit() }
func (t *dbTx) Rollback() error { return t.tx.Rollback() }

func (t *dbTx) GetTransaction(ctx context.Context, userID string, id uuid.UUID) (*transaction.Transaction, error) {
	return getTransaction(ctx, t.tx, userID, id, true)
}

func (t *dbTx) OwnsAccount(ctx context.Context, userID string, accountID uuid.UUID) (bool, error) {
	return ownsAccount(ctx, t.tx, userID, accountID)
}

func (t *dbTx) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return createTransactions(ctx, t.tx, []*transaction.Transaction{tx})
}

func (t *dbTx) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	return createTransactions(ctx, t.tx, txs)
}

func (t *dbTx) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $3, transfer_account_id = $4, name = $5, amount = $6, type = $7, category = $8,
			payment_method = $9, date = $10, status = $11, executed_at = $12, fulfillment_type = $13,
			installment_index = $14, installment_count = $15, installment_value_is_total = $16,
			installment_total = $17, recurrence_type = $18, recurrence_interval = $19,
			recurrence_ends_at = $20, recurrence_skip_weekdays = $21, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`

	var total decimal.NullDecimal
	if tx.InstallmentTotal != nil {
		total = decimal.NewNullDecimal(*tx.InstallmentTotal)
	}

	err := t.tx.QueryRowContext(ctx, query,
		tx.ID, tx.UserID, tx.AccountID, tx.TransferAccountID, tx.Name, tx.Amount, tx.Type, tx.Category,
		tx.PaymentMethod, tx.Date, tx.Status, tx.ExecutedAt, tx.FulfillmentType,
		tx.InstallmentIndex, tx.InstallmentCount, tx.InstallmentValueIsTotal,
		total, tx.RecurrenceType, tx.RecurrenceInterval,
		tx.RecurrenceEndsAt, weekdays(tx.RecurrenceSkipWeekdays),
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (t *dbTx) DeleteChildren(ctx context.Context, parentID uuid.UUID) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM transactions WHERE parent_transaction_id = $1`, parentID)
	if err != nil {
		return 0, fmt.Errorf("deleting children: %w", err)
	}

	return res.RowsAffected()
}

// FindDuplicates returns the account's rows that match an incoming line on
// day, amount, type and raw description.
func (t *dbTx) FindDuplicates(ctx context.Context, userID string, accountID uuid.UUID, params []transaction.ImportParams) ([]*transaction.Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         string
		Type           transaction.Type
		RawDescription string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{
			Date:           p.Date.UTC().Format(time.DateOnly),
			Amount:         p.Amount.StringFixed(2),
			Type:           p.Type,
			RawDescription: p.RawDescription,
		}] = struct{}{}
	}

	query := `SELECT ` + Columns + `
		FROM transactions
		WHERE user_id = $1 AND account_id = $2 AND date >= $3 AND date <= $4
		ORDER BY date ASC`

	rows, err := t.tx.QueryContext(ctx, query, userID, accountID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	candidates, err := ScanAll(rows)
	if err != nil {
		return nil, err
	}

	var duplicates []*transaction.Transaction

	for _, tx := range candidates {
		k := lookupKey{
			Date:           tx.Date.UTC().Format(time.DateOnly),
			Amount:         tx.Amount.StringFixed(2),
			Type:           tx.Type,
			RawDescription: tx.RawDescription,
		}

		if _, found := keySet[k]; found {
			duplicates = append(duplicates, tx)
		}
	}

	return duplicates, nil
}
