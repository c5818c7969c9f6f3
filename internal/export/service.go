// Package export writes a user's transactions as a semicolon-separated CSV in
// the same conventions the CGD importer reads: dd-mm-yyyy dates and decimal
// commas.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const dateLayout = "02-01-2006"

var header = []string{"date", "name", "type", "category", "payment_method", "account", "status", "amount"}

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type TransactionSource interface {
	List(ctx context.Context, userID string, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type AccountSource interface {
	EnsureDefault(ctx context.Context, userID string) ([]*account.Account, error)
}

type Service struct {
	transactions TransactionSource
	accounts     AccountSource
}

func NewService(transactions TransactionSource, accounts AccountSource) *Service {
	return &Service{transactions: transactions, accounts: accounts}
}

// WriteCSV writes every transaction matching filter to w and returns the
// number of data rows written.
func (s *Service) WriteCSV(ctx context.Context, userID string, filter transaction.ListFilter, w io.Writer) (int, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return 0, err
	}

	accounts, err := s.accounts.EnsureDefault(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load accounts: %w", err)
	}

	names := make(map[uuid.UUID]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		if err := cw.Write(record(tx, names)); err != nil {
			return 0, fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	logger.FromContext(ctx).Debug().Int("rows", len(txs)).Msg("transactions exported")

	return len(txs), nil
}

func record(tx *transaction.Transaction, accounts map[uuid.UUID]string) []string {
	return []string{
		tx.Date.Format(dateLayout),
		tx.Name,
		string(tx.Type),
		string(tx.Category),
		string(tx.PaymentMethod),
		accounts[tx.AccountID],
		string(tx.Status),
		Amount(tx),
	}
}

// Amount renders the signed amount with a decimal comma. Money leaving the
// account (expenses and outgoing transfers) is negative.
func Amount(tx *transaction.Transaction) string {
	v := tx.Amount
	if tx.Type != transaction.TypeDeposit {
		v = v.Neg()
	}

	return strings.Replace(v.StringFixed(2), ".", ",", 1)
}
