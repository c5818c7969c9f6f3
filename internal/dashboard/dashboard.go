// Package dashboard computes the monthly overview of a user's finances.
package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

// LastTransactionsLimit is the size of the recent activity list.
const LastTransactionsLimit = 15

// Period is a calendar month, half-open: [Start, Next).
type Period struct {
	Start time.Time
	Next  time.Time
}

// NewPeriod resolves month/year in loc.
func NewPeriod(month, year int, loc *time.Location) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, apperror.Invalid("month", "must be between 1 and 12")
	}

	if year < 1 || year > 9999 {
		return Period{}, apperror.Invalid("year", "must be between 1 and 9999")
	}

	if loc == nil {
		loc = time.UTC
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return Period{Start: start, Next: start.AddDate(0, 1, 0)}, nil
}

// End is the last millisecond inside the period.
func (p Period) End() time.Time {
	return p.Next.Add(-time.Millisecond)
}

func (p Period) Month() int { return int(p.Start.Month()) }
func (p Period) Year() int  { return p.Start.Year() }

type TypesPercentage struct {
	Deposit    int64
	Expense    int64
	Investment int64
}

type CategoryTotal struct {
	Category          transaction.Category
	TotalAmount       decimal.Decimal
	PercentageOfTotal int64
}

// AccountTotals are the all-time executed sums of one account.
type AccountTotals struct {
	AccountID   uuid.UUID
	Deposit     decimal.Decimal
	Expense     decimal.Decimal
	Investment  decimal.Decimal
	TransferOut decimal.Decimal
	TransferIn  decimal.Decimal
}

func (t AccountTotals) Net() decimal.Decimal {
	return t.Deposit.Add(t.TransferIn).Sub(t.Expense).Sub(t.Investment).Sub(t.TransferOut)
}

type AccountSummary struct {
	account.Account
	AccountTotals
	Balance decimal.Decimal
}

// Snapshot is the complete dashboard for one user and month.
type Snapshot struct {
	Period Period

	DepositTotal     decimal.Decimal
	ExpensesTotal    decimal.Decimal
	InvestmentsTotal decimal.Decimal
	TypesPercentage  TypesPercentage

	TotalExpensePerCategory []CategoryTotal

	PreviousMonthBalance decimal.Decimal
	BalanceDifference    decimal.Decimal
	BalanceTotal         decimal.Decimal

	ForecastPendingImpact decimal.Decimal
	ForecastDifference    decimal.Decimal
	ForecastBalance       decimal.Decimal

	Accounts         []AccountSummary
	LastTransactions []*transaction.Transaction
}

// BalanceLegs are executed sums over a set of accounts, split by the leg
// through which money enters or leaves the set. A transfer between two
// accounts of the set shows up as both TransferOut and TransferIn.
type BalanceLegs struct {
	Deposit     decimal.Decimal
	Expense     decimal.Decimal
	TransferOut decimal.Decimal
	TransferIn  decimal.Decimal
}

// Net is the signed balance change: deposits and incoming transfers add,
// expenses and outgoing transfers subtract.
func (l BalanceLegs) Net() decimal.Decimal {
	return l.Deposit.Add(l.TransferIn).Sub(l.Expense).Sub(l.TransferOut)
}

// Add returns l plus the legs of tx that touch balance.
func (l BalanceLegs) Add(tx *transaction.Transaction, balance map[uuid.UUID]bool) BalanceLegs {
	switch tx.Type {
	case transaction.TypeDeposit:
		if balance[tx.AccountID] {
			l.Deposit = l.Deposit.Add(tx.Amount)
		}
	case transaction.TypeExpense:
		if balance[tx.AccountID] {
			l.Expense = l.Expense.Add(tx.Amount)
		}
	case transaction.TypeTransfer:
		if balance[tx.AccountID] {
			l.TransferOut = l.TransferOut.Add(tx.Amount)
		}

		if tx.TransferAccountID != nil && balance[*tx.TransferAccountID] {
			l.TransferIn = l.TransferIn.Add(tx.Amount)
		}
	}

	return l
}

// Impact is the signed effect of tx on the accounts in balance. Transfers
// count once per leg that touches the set.
func Impact(tx *transaction.Transaction, balance map[uuid.UUID]bool) decimal.Decimal {
	return BalanceLegs{}.Add(tx, balance).Net()
}

// percent returns round(part/total*100), or 0 for an empty total.
func percent(part, total decimal.Decimal) int64 {
	if total.IsZero() {
		return 0
	}

	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
