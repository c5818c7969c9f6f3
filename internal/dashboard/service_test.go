package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const userID = "user-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	repo     *dashboard.MockRepository
	accounts *dashboard.MockAccountSource
	svc      *dashboard.Service
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	repo := dashboard.NewMockRepository(ctrl)
	accounts := dashboard.NewMockAccountSource(ctrl)

	return fixture{
		repo:     repo,
		accounts: accounts,
		svc:      dashboard.NewService(repo, accounts, time.UTC),
	}
}

// zeroQueries answers every aggregate with an empty result.
func (f fixture) zeroQueries() {
	f.repo.EXPECT().SumAmount(gomock.Any(), gomock.Any()).Return(decimal.Zero, nil).AnyTimes()
	f.repo.EXPECT().GroupByCategory(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	f.repo.EXPECT().SumBalanceLegs(gomock.Any(), gomock.Any()).Return(dashboard.BalanceLegs{}, nil).AnyTimes()
	f.repo.EXPECT().SumByAccount(gomock.Any(), userID).Return(nil, nil).AnyTimes()
	f.repo.EXPECT().FindMany(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
}

func TestService_Get_Totals(t *testing.T) {
	f := newFixture(t)

	main := &account.Account{ID: uuid.New(), Name: "Main", IncludeInBalance: true, IncludeInCashFlow: true, IncludeInInvestments: true}
	f.accounts.EXPECT().EnsureDefault(gomock.Any(), userID).Return([]*account.Account{main}, nil)

	f.repo.EXPECT().
		SumAmount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter dashboard.Filter) (decimal.Decimal, error) {
			assert.Equal(t, transaction.StatusExecuted, filter.Status)
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *filter.RealizedFrom)
			assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *filter.RealizedBefore)

			switch {
			case filter.Types[0] == transaction.TypeDeposit:
				return dec("5000"), nil
			case filter.Category == transaction.CategoryInvestment:
				return dec("1000"), nil
			default:
				assert.Equal(t, transaction.CategoryInvestment, filter.ExcludeCategory)
				return dec("4000"), nil
			}
		}).
		Times(3)

	f.repo.EXPECT().
		GroupByCategory(gomock.Any(), gomock.Any()).
		Return([]dashboard.CategoryTotal{
			{Category: transaction.CategoryFood, TotalAmount: dec("1000")},
			{Category: transaction.CategoryHousing, TotalAmount: dec("3000")},
		}, nil)

	f.repo.EXPECT().
		SumBalanceLegs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter dashboard.ImpactFilter) (dashboard.BalanceLegs, error) {
			if filter.RealizedFrom == nil {
				return dashboard.BalanceLegs{Deposit: dec("3000"), Expense: dec("500")}, nil
			}

			return dashboard.BalanceLegs{Deposit: dec("100"), Expense: dec("450"), TransferOut: dec("200"), TransferIn: dec("150")}, nil
		}).
		Times(2)

	pending := []*transaction.Transaction{
		{Type: transaction.TypeExpense, AccountID: main.ID, Amount: dec("150")},
		{Type: transaction.TypeDeposit, AccountID: main.ID, Amount: dec("50")},
	}

	last := []*transaction.Transaction{{ID: uuid.New()}}

	f.repo.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter dashboard.Filter, limit int) ([]*transaction.Transaction, error) {
			if limit == dashboard.LastTransactionsLimit {
				assert.Empty(t, filter.Status)
				assert.Nil(t, filter.DateFrom)

				return last, nil
			}

			assert.Equal(t, transaction.StatusPending, filter.Status)

			return pending, nil
		}).
		Times(2)

	f.repo.EXPECT().
		SumByAccount(gomock.Any(), userID).
		Return([]dashboard.AccountTotals{{AccountID: main.ID, Deposit: dec("10"), Expense: dec("3")}}, nil)

	snap, err := f.svc.Get(context.Background(), userID, 3, 2024)
	require.NoError(t, err)

	assert.Equal(t, "5000", snap.DepositTotal.String())
	assert.Equal(t, "4000", snap.ExpensesTotal.String())
	assert.Equal(t, "1000", snap.InvestmentsTotal.String())
	assert.Equal(t, dashboard.TypesPercentage{Deposit: 50, Expense: 40, Investment: 10}, snap.TypesPercentage)

	require.Len(t, snap.TotalExpensePerCategory, 2)
	assert.Equal(t, transaction.CategoryHousing, snap.TotalExpensePerCategory[0].Category)
	assert.Equal(t, int64(75), snap.TotalExpensePerCategory[0].PercentageOfTotal)
	assert.Equal(t, int64(25), snap.TotalExpensePerCategory[1].PercentageOfTotal)

	assert.Equal(t, "2500", snap.PreviousMonthBalance.String())
	assert.Equal(t, "-400", snap.BalanceDifference.String())
	assert.Equal(t, "2100", snap.BalanceTotal.String())
	assert.True(t, snap.BalanceTotal.Equal(snap.PreviousMonthBalance.Add(snap.BalanceDifference)))

	assert.Equal(t, "-100", snap.ForecastPendingImpact.String())
	assert.Equal(t, "-500", snap.ForecastDifference.String())
	assert.Equal(t, "2000", snap.ForecastBalance.String())

	require.Len(t, snap.Accounts, 1)
	assert.Equal(t, "7", snap.Accounts[0].Balance.String())
	assert.Equal(t, last, snap.LastTransactions)
}

// An account left out of the balance set still reports its own balance.
func TestService_Get_ExcludedAccountKeepsOwnBalance(t *testing.T) {
	f := newFixture(t)

	included := &account.Account{ID: uuid.New(), IncludeInBalance: true, IncludeInCashFlow: true}
	excluded := &account.Account{ID: uuid.New(), IncludeInBalance: false, IncludeInCashFlow: true}

	f.accounts.EXPECT().EnsureDefault(gomock.Any(), userID).Return([]*account.Account{included, excluded}, nil)

	f.repo.EXPECT().
		SumBalanceLegs(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter dashboard.ImpactFilter) (dashboard.BalanceLegs, error) {
			assert.Equal(t, []uuid.UUID{included.ID}, filter.AccountIDs)

			if filter.RealizedFrom == nil {
				return dashboard.BalanceLegs{Deposit: dec("1000")}, nil
			}

			return dashboard.BalanceLegs{Expense: dec("250")}, nil
		}).
		Times(2)

	f.repo.EXPECT().
		SumByAccount(gomock.Any(), userID).
		Return([]dashboard.AccountTotals{{AccountID: excluded.ID, Deposit: dec("800")}}, nil)

	f.repo.EXPECT().
		FindMany(gomock.Any(), gomock.Any(), 0).
		Return([]*transaction.Transaction{
			{Type: transaction.TypeDeposit, AccountID: excluded.ID, Amount: dec("300")},
		}, nil)

	f.zeroQueries()

	snap, err := f.svc.Get(context.Background(), userID, 1, 2024)
	require.NoError(t, err)

	assert.Equal(t, "1000", snap.PreviousMonthBalance.String())
	assert.Equal(t, "-250", snap.BalanceDifference.String())
	assert.Equal(t, "750", snap.BalanceTotal.String())
	assert.True(t, snap.ForecastPendingImpact.IsZero())
	assert.Equal(t, "750", snap.ForecastBalance.String())
	require.Len(t, snap.Accounts, 2)
	assert.True(t, snap.Accounts[0].Balance.IsZero())
	assert.Equal(t, "800", snap.Accounts[1].Balance.String())
}

// A transfer from a balance account to a non-balance one only counts its
// outgoing leg, whether executed in the period or still pending.
func TestService_Get_TransferOutgoingLeg(t *testing.T) {
	a := &account.Account{ID: uuid.New(), IncludeInBalance: true}
	b := &account.Account{ID: uuid.New()}
	transfer := &transaction.Transaction{
		Type:              transaction.TypeTransfer,
		AccountID:         a.ID,
		TransferAccountID: &b.ID,
		Amount:            dec("100"),
	}

	tests := []struct {
		name        string
		executed    bool
		wantDiff    string
		wantPending string
	}{
		{name: "Executed", executed: true, wantDiff: "-100", wantPending: "0"},
		{name: "Pending", executed: false, wantDiff: "0", wantPending: "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.accounts.EXPECT().EnsureDefault(gomock.Any(), userID).Return([]*account.Account{a, b}, nil)

			// The store sums the same legs BalanceLegs.Add classifies.
			f.repo.EXPECT().
				SumBalanceLegs(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter dashboard.ImpactFilter) (dashboard.BalanceLegs, error) {
					assert.Equal(t, []uuid.UUID{a.ID}, filter.AccountIDs)

					if !tt.executed || filter.RealizedFrom == nil {
						return dashboard.BalanceLegs{}, nil
					}

					return dashboard.BalanceLegs{}.Add(transfer, map[uuid.UUID]bool{a.ID: true}), nil
				}).
				Times(2)

			var pending []*transaction.Transaction
			if !tt.executed {
				pending = append(pending, transfer)
			}

			f.repo.EXPECT().FindMany(gomock.Any(), gomock.Any(), 0).Return(pending, nil)
			f.zeroQueries()

			snap, err := f.svc.Get(context.Background(), userID, 6, 2024)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDiff, snap.BalanceDifference.String())
			assert.Equal(t, tt.wantDiff, snap.BalanceTotal.String())
			assert.Equal(t, tt.wantPending, snap.ForecastPendingImpact.String())
			assert.Equal(t, "-100", snap.ForecastBalance.String())
		})
	}
}

func TestService_Get_EmptyPeriod(t *testing.T) {
	f := newFixture(t)

	f.accounts.EXPECT().EnsureDefault(gomock.Any(), userID).Return([]*account.Account{{ID: uuid.New()}}, nil)
	f.zeroQueries()

	snap, err := f.svc.Get(context.Background(), userID, 2, 2024)
	require.NoError(t, err)

	assert.Equal(t, dashboard.TypesPercentage{}, snap.TypesPercentage)
	assert.Empty(t, snap.TotalExpensePerCategory)
	assert.NotNil(t, snap.TotalExpensePerCategory)
	assert.NotNil(t, snap.LastTransactions)
	assert.True(t, snap.ForecastBalance.IsZero())
	require.Len(t, snap.Accounts, 1)
	assert.True(t, snap.Accounts[0].Balance.IsZero())
}

func TestService_Get_Errors(t *testing.T) {
	t.Run("Unauthorized", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(context.Background(), "", 1, 2024)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("InvalidMonth", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Get(context.Background(), userID, 13, 2024)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("QueryFailure", func(t *testing.T) {
		f := newFixture(t)
		errDB := errors.New("db error")

		f.accounts.EXPECT().EnsureDefault(gomock.Any(), userID).Return([]*account.Account{{ID: uuid.New()}}, nil)
		f.repo.EXPECT().SumByAccount(gomock.Any(), userID).Return(nil, errDB)
		f.zeroQueries()

		_, err := f.svc.Get(context.Background(), userID, 1, 2024)
		assert.ErrorIs(t, err, errDB)
	})
}
