package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	GetTransaction(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, userID string, filter ListFilter) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status Status, executedAt *time.Time) error
	DeleteTransaction(ctx context.Context, userID string, id uuid.UUID) error
	DeleteSeries(ctx context.Context, userID string, rootID uuid.UUID) (int64, error)
	DeleteSeriesFrom(ctx context.Context, userID string, id, rootID uuid.UUID, from time.Time) (int64, error)
	CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)

	Begin(ctx context.Context) (Tx, error)
	BeginImport(ctx context.Context, userID string, accountID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

// Tx groups the writes of one upsert so a root and its children change together.
type Tx interface {
	GetTransaction(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error)
	OwnsAccount(ctx context.Context, userID string, accountID uuid.UUID) (bool, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteChildren(ctx context.Context, parentID uuid.UUID) (int64, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type ImportTx interface {
	OwnsAccount(ctx context.Context, userID string, accountID uuid.UUID) (bool, error)
	FindDuplicates(ctx context.Context, userID string, accountID uuid.UUID, params []ImportParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	AccountID *uuid.UUID
	ParentID  *uuid.UUID
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

type UpdateStatusParams struct {
	ID         uuid.UUID
	Status     Status
	ExecutedAt *time.Time
}

// ImportParams is one statement line after parsing and description matching.
type ImportParams struct {
	Name           string
	RawDescription string
	Amount         decimal.Decimal
	Type           Type
	Date           time.Time
}

// Upsert creates or updates a transaction. When the stored row is a root, its
// generated children are replaced by a fresh expansion in the same database
// transaction.
func (s *Service) Upsert(ctx context.Context, userID string, params UpsertParams) (*Transaction, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	tx, err := params.build(userID)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer dbTx.Rollback()

	if params.ID != nil {
		existing, err := dbTx.GetTransaction(ctx, userID, *params.ID)
		if err != nil {
			return nil, err
		}

		tx.ID = existing.ID
		tx.ParentTransactionID = existing.ParentTransactionID
		tx.RawDescription = existing.RawDescription
		tx.CreatedAt = existing.CreatedAt
	} else {
		tx.ID = uuid.New()
	}

	if err := checkAccounts(ctx, dbTx, userID, tx); err != nil {
		return nil, err
	}

	if params.ID != nil {
		err = dbTx.UpdateTransaction(ctx, tx)
	} else {
		err = dbTx.CreateTransaction(ctx, tx)
	}

	if err != nil {
		return nil, err
	}

	var generated int

	if tx.IsRoot() {
		if _, err := dbTx.DeleteChildren(ctx, tx.ID); err != nil {
			return nil, fmt.Errorf("delete children: %w", err)
		}

		children := Expand(tx)
		if len(children) > 0 {
			if err := dbTx.CreateTransactions(ctx, children); err != nil {
				return nil, fmt.Errorf("create children: %w", err)
			}
		}

		generated = len(children)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}

	logger.FromContext(ctx).Debug().
		Stringer("transaction_id", tx.ID).
		Int("children", generated).
		Msg("transaction saved")

	return tx, nil
}

func checkAccounts(ctx context.Context, dbTx Tx, userID string, tx *Transaction) error {
	ids := []uuid.UUID{tx.AccountID}
	if tx.TransferAccountID != nil {
		ids = append(ids, *tx.TransferAccountID)
	}

	for _, id := range ids {
		ok, err := dbTx.OwnsAccount(ctx, userID, id)
		if err != nil {
			return fmt.Errorf("check account: %w", err)
		}

		if !ok {
			return ErrAccountNotFound
		}
	}

	return nil
}

func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*Transaction, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Transaction, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	return s.repo.ListTransactions(ctx, userID, filter)
}

// Delete removes a transaction, or part of its series, according to scope.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID, scope DeleteScope) error {
	if err := apperror.RequireUser(userID); err != nil {
		return err
	}

	if !scope.Valid() {
		return apperror.Invalid("scope", "unknown delete scope %q", scope)
	}

	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	var deleted int64

	switch scope {
	case DeleteCurrent:
		err = s.repo.DeleteTransaction(ctx, userID, id)
		deleted = 1
	case DeleteForward:
		deleted, err = s.repo.DeleteSeriesFrom(ctx, userID, tx.ID, tx.SeriesID(), tx.Date)
	case DeleteAll:
		deleted, err = s.repo.DeleteSeries(ctx, userID, tx.SeriesID())
	}

	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debug().
		Stringer("transaction_id", id).
		Str("scope", string(scope)).
		Int64("deleted", deleted).
		Msg("transactions deleted")

	return nil
}

// UpdateStatus marks a transaction pending or executed. Executing without an
// explicit date stamps the transaction's own date.
func (s *Service) UpdateStatus(ctx context.Context, userID string, params UpdateStatusParams) (*Transaction, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	if !params.Status.Valid() {
		return nil, apperror.Invalid("status", "unknown status %q", params.Status)
	}

	tx, err := s.repo.GetTransaction(ctx, userID, params.ID)
	if err != nil {
		return nil, err
	}

	var executedAt *time.Time

	if params.Status == StatusExecuted {
		executedAt = params.ExecutedAt
		if executedAt == nil {
			executedAt = new(tx.Date)
		}
	}

	if err := s.repo.UpdateStatus(ctx, userID, tx.ID, params.Status, executedAt); err != nil {
		return nil, err
	}

	tx.Status = params.Status
	tx.ExecutedAt = executedAt

	return tx, nil
}

func (s *Service) CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return 0, err
	}

	return s.repo.CountCreatedBetween(ctx, userID, from, to)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []ImportParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming ImportParams
	Existing *Transaction
}

type dupKey struct {
	Date           string
	Amount         string
	Type           Type
	RawDescription string
}

func importKey(date time.Time, amount decimal.Decimal, typ Type, raw string) dupKey {
	return dupKey{
		Date:           date.UTC().Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		Type:           typ,
		RawDescription: raw,
	}
}

// ImportBatch inserts statement lines into an account. Lines already present
// in the account are reported as conflicts and nothing is written until the
// caller confirms a selection through CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, userID string, accountID uuid.UUID, params []ImportParams) (*ImportResult, error) {
	if err := validateImport(userID, params); err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.beginImport(ctx, userID, accountID, minDate, maxDate)
	if err != nil {
		return nil, err
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, userID, accountID, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[importKey(d.Date, d.Amount, d.Type, d.RawDescription)] = d
	}

	var newParams []ImportParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[importKey(p.Date, p.Amount, p.Type, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(userID, accountID, newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	logImport(ctx, accountID, len(txs))

	return &ImportResult{Imported: txs}, nil
}

// CreateBatch inserts a reviewed selection of statement lines without
// checking for duplicates.
func (s *Service) CreateBatch(ctx context.Context, userID string, accountID uuid.UUID, params []ImportParams) ([]*Transaction, error) {
	if err := validateImport(userID, params); err != nil {
		return nil, err
	}

	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.beginImport(ctx, userID, accountID, minDate, maxDate)
	if err != nil {
		return nil, err
	}
	defer itx.Rollback()

	txs := paramsToTransactions(userID, accountID, params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	logImport(ctx, accountID, len(txs))

	return txs, nil
}

func (s *Service) beginImport(ctx context.Context, userID string, accountID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error) {
	itx, err := s.repo.BeginImport(ctx, userID, accountID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}

	ok, err := itx.OwnsAccount(ctx, userID, accountID)
	if err != nil {
		itx.Rollback()
		return nil, fmt.Errorf("check account: %w", err)
	}

	if !ok {
		itx.Rollback()
		return nil, ErrAccountNotFound
	}

	return itx, nil
}

func validateImport(userID string, params []ImportParams) error {
	if err := apperror.RequireUser(userID); err != nil {
		return err
	}

	for i, p := range params {
		if err := CheckAmount(fmt.Sprintf("rows[%d].amount", i), p.Amount); err != nil {
			return err
		}

		if p.Type != TypeDeposit && p.Type != TypeExpense {
			return apperror.Invalid(fmt.Sprintf("rows[%d].type", i), "unsupported import type %q", p.Type)
		}

		if p.Date.IsZero() {
			return apperror.Invalid(fmt.Sprintf("rows[%d].date", i), "is required")
		}
	}

	return nil
}

func logImport(ctx context.Context, accountID uuid.UUID, n int) {
	logger.FromContext(ctx).Info().Stringer("account_id", accountID).Int("rows", n).Msg("statement imported")
}

func dateRange(params []ImportParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(userID string, accountID uuid.UUID, params []ImportParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = p.RawDescription
		}

		txs[i] = &Transaction{
			ID:                     uuid.New(),
			UserID:                 userID,
			AccountID:              accountID,
			Name:                   name,
			RawDescription:         p.RawDescription,
			Amount:                 p.Amount,
			Type:                   p.Type,
			Category:               CategoryOther,
			PaymentMethod:          PaymentBankTransfer,
			Date:                   p.Date,
			Status:                 StatusExecuted,
			ExecutedAt:             new(p.Date),
			FulfillmentType:        FulfillmentImmediate,
			RecurrenceType:         RecurrenceNone,
			RecurrenceSkipWeekdays: []time.Weekday{},
		}
	}

	return txs
}
