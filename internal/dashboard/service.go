package dashboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=dashboard
type Repository interface {
	SumAmount(ctx context.Context, filter Filter) (decimal.Decimal, error)
	GroupByCategory(ctx context.Context, filter Filter) ([]CategoryTotal, error)
	SumBalanceLegs(ctx context.Context, filter ImpactFilter) (BalanceLegs, error)
	SumByAccount(ctx context.Context, userID string) ([]AccountTotals, error)
	FindMany(ctx context.Context, filter Filter, limit int) ([]*transaction.Transaction, error)
}

// AccountSource lists a user's accounts, creating the default one if needed.
type AccountSource interface {
	EnsureDefault(ctx context.Context, userID string) ([]*account.Account, error)
}

// Filter narrows transaction queries. A nil AccountIDs means any account; an
// empty non-nil slice matches nothing. Realized bounds apply to the
// execution date, falling back to the transaction date.
type Filter struct {
	UserID          string
	AccountIDs      []uuid.UUID
	Types           []transaction.Type
	Status          transaction.Status
	Category        transaction.Category
	ExcludeCategory transaction.Category
	RealizedFrom    *time.Time
	RealizedBefore  *time.Time
	DateFrom        *time.Time
	DateBefore      *time.Time
}

// ImpactFilter selects executed transactions whose legs touching AccountIDs
// are summed.
type ImpactFilter struct {
	UserID         string
	AccountIDs     []uuid.UUID
	RealizedFrom   *time.Time
	RealizedBefore *time.Time
}

type Service struct {
	repo     Repository
	accounts AccountSource
	loc      *time.Location
}

func NewService(repo Repository, accounts AccountSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{repo: repo, accounts: accounts, loc: loc}
}

// Location is the zone months are resolved in.
func (s *Service) Location() *time.Location {
	return s.loc
}

type results struct {
	deposit, expenses, investments decimal.Decimal
	categories                     []CategoryTotal
	previousLegs, periodLegs       BalanceLegs
	pending                        []*transaction.Transaction
	totals                         []AccountTotals
	last                           []*transaction.Transaction
}

// Get computes the snapshot for month/year. The independent queries run
// concurrently and the first failure cancels the rest.
func (s *Service) Get(ctx context.Context, userID string, month, year int) (*Snapshot, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	period, err := NewPeriod(month, year, s.loc)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	var (
		balanceIDs    = account.IDs(accounts, account.InBalance)
		cashFlowIDs   = account.IDs(accounts, account.InCashFlow)
		investmentIDs = account.IDs(accounts, account.InInvestments)
		executed      = transaction.StatusExecuted
		res           results
	)

	inPeriod := func(f Filter) Filter {
		f.UserID = userID
		f.Status = executed
		f.RealizedFrom = &period.Start
		f.RealizedBefore = &period.Next

		return f
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		res.deposit, err = s.repo.SumAmount(ctx, inPeriod(Filter{
			AccountIDs: cashFlowIDs,
			Types:      []transaction.Type{transaction.TypeDeposit},
		}))

		return wrap("sum deposits", err)
	})

	g.Go(func() (err error) {
		res.expenses, err = s.repo.SumAmount(ctx, inPeriod(Filter{
			AccountIDs:      cashFlowIDs,
			Types:           []transaction.Type{transaction.TypeExpense},
			ExcludeCategory: transaction.CategoryInvestment,
		}))

		return wrap("sum expenses", err)
	})

	g.Go(func() (err error) {
		res.investments, err = s.repo.SumAmount(ctx, inPeriod(Filter{
			AccountIDs: investmentIDs,
			Types:      []transaction.Type{transaction.TypeExpense},
			Category:   transaction.CategoryInvestment,
		}))

		return wrap("sum investments", err)
	})

	g.Go(func() (err error) {
		res.categories, err = s.repo.GroupByCategory(ctx, inPeriod(Filter{
			AccountIDs:      cashFlowIDs,
			Types:           []transaction.Type{transaction.TypeExpense},
			ExcludeCategory: transaction.CategoryInvestment,
		}))

		return wrap("group categories", err)
	})

	g.Go(func() (err error) {
		res.previousLegs, err = s.repo.SumBalanceLegs(ctx, ImpactFilter{
			UserID:         userID,
			AccountIDs:     balanceIDs,
			RealizedBefore: &period.Start,
		})

		return wrap("sum previous balance", err)
	})

	g.Go(func() (err error) {
		res.periodLegs, err = s.repo.SumBalanceLegs(ctx, ImpactFilter{
			UserID:         userID,
			AccountIDs:     balanceIDs,
			RealizedFrom:   &period.Start,
			RealizedBefore: &period.Next,
		})

		return wrap("sum balance difference", err)
	})

	g.Go(func() (err error) {
		res.pending, err = s.repo.FindMany(ctx, Filter{
			UserID:     userID,
			Status:     transaction.StatusPending,
			DateFrom:   &period.Start,
			DateBefore: &period.Next,
		}, 0)

		return wrap("find pending", err)
	})

	g.Go(func() (err error) {
		res.totals, err = s.repo.SumByAccount(ctx, userID)
		return wrap("sum accounts", err)
	})

	g.Go(func() (err error) {
		res.last, err = s.repo.FindMany(ctx, Filter{UserID: userID}, LastTransactionsLimit)
		return wrap("find last transactions", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reduce(period, accounts, balanceIDs, res), nil
}

func wrap(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func reduce(period Period, accounts []*account.Account, balanceIDs []uuid.UUID, res results) *Snapshot {
	snap := &Snapshot{
		Period:               period,
		DepositTotal:         res.deposit,
		ExpensesTotal:        res.expenses,
		InvestmentsTotal:     res.investments,
		PreviousMonthBalance: res.previousLegs.Net(),
		BalanceDifference:    res.periodLegs.Net(),
		LastTransactions:     res.last,
	}

	snap.BalanceTotal = snap.PreviousMonthBalance.Add(snap.BalanceDifference)

	total := res.deposit.Add(res.expenses).Add(res.investments)
	snap.TypesPercentage = TypesPercentage{
		Deposit:    percent(res.deposit, total),
		Expense:    percent(res.expenses, total),
		Investment: percent(res.investments, total),
	}

	snap.TotalExpensePerCategory = make([]CategoryTotal, 0, len(res.categories))
	for _, c := range res.categories {
		c.PercentageOfTotal = percent(c.TotalAmount, res.expenses)
		snap.TotalExpensePerCategory = append(snap.TotalExpensePerCategory, c)
	}

	slices.SortFunc(snap.TotalExpensePerCategory, func(a, b CategoryTotal) int {
		if c := b.TotalAmount.Cmp(a.TotalAmount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	balance := make(map[uuid.UUID]bool, len(balanceIDs))
	for _, id := range balanceIDs {
		balance[id] = true
	}

	var pending BalanceLegs
	for _, tx := range res.pending {
		pending = pending.Add(tx, balance)
	}

	snap.ForecastPendingImpact = pending.Net()

	snap.ForecastDifference = snap.BalanceDifference.Add(snap.ForecastPendingImpact)
	snap.ForecastBalance = snap.PreviousMonthBalance.Add(snap.ForecastDifference)

	byAccount := make(map[uuid.UUID]AccountTotals, len(res.totals))
	for _, t := range res.totals {
		byAccount[t.AccountID] = t
	}

	snap.Accounts = make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		totals, ok := byAccount[a.ID]
		if !ok {
			totals = AccountTotals{AccountID: a.ID}
		}

		snap.Accounts = append(snap.Accounts, AccountSummary{
			Account:       *a,
			AccountTotals: totals,
			Balance:       totals.Net(),
		})
	}

	if snap.LastTransactions == nil {
		snap.LastTransactions = []*transaction.Transaction{}
	}

	return snap
}
