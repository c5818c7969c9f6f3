package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/report"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestLine(t *testing.T) {
	tx := &transaction.Transaction{
		Date:     time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Type:     transaction.TypeExpense,
		Amount:   decimal.RequireFromString("42.5"),
		Category: transaction.CategoryFood,
	}

	assert.Equal(t, "05/03/2024-EXPENSE-R$42.50-FOOD", report.Line(tx))
}

func TestService_Build(t *testing.T) {
	reported := &account.Account{ID: uuid.New(), IncludeInAiReports: true}
	private := &account.Account{ID: uuid.New()}

	t.Run("FiltersAccounts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := report.NewMockTransactionSource(ctrl)
		accounts := report.NewMockAccountSource(ctrl)

		accounts.EXPECT().EnsureDefault(gomock.Any(), "user-1").Return([]*account.Account{reported, private}, nil)
		txs.EXPECT().
			List(gomock.Any(), "user-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, f transaction.ListFilter) ([]*transaction.Transaction, error) {
				assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
				assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 999_000_000, time.UTC), *f.EndDate)

				return []*transaction.Transaction{
					{AccountID: reported.ID, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Type: transaction.TypeDeposit, Amount: decimal.NewFromInt(3000), Category: transaction.CategorySalary},
					{AccountID: private.ID, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Type: transaction.TypeExpense, Amount: decimal.NewFromInt(10), Category: transaction.CategoryFood},
					{AccountID: reported.ID, Date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), Type: transaction.TypeExpense, Amount: decimal.NewFromInt(80), Category: transaction.CategoryHealth},
				}, nil
			})

		in, err := report.NewService(txs, accounts, time.UTC).Build(context.Background(), "user-1", "plus", 3, 2024)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"01/03/2024-DEPOSIT-R$3000.00-SALARY",
			"09/03/2024-EXPENSE-R$80.00-HEALTH",
		}, in.Lines)
		assert.Contains(t, in.Prompt, "03/2024")
		assert.Contains(t, in.Prompt, "01/03/2024-DEPOSIT-R$3000.00-SALARY; 09/03/2024-EXPENSE-R$80.00-HEALTH")
		assert.Equal(t, report.SystemPrompt, in.SystemPrompt)
	})

	t.Run("EmptyPeriod", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := report.NewMockTransactionSource(ctrl)
		accounts := report.NewMockAccountSource(ctrl)

		accounts.EXPECT().EnsureDefault(gomock.Any(), "user-1").Return([]*account.Account{reported}, nil)
		txs.EXPECT().List(gomock.Any(), "user-1", gomock.Any()).Return(nil, nil)

		in, err := report.NewService(txs, accounts, time.UTC).Build(context.Background(), "user-1", "premium", 1, 2024)
		require.NoError(t, err)
		assert.True(t, in.Empty())
		assert.Empty(t, in.Prompt)
	})

	t.Run("BasicPlanForbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := report.NewService(report.NewMockTransactionSource(ctrl), report.NewMockAccountSource(ctrl), time.UTC)

		_, err := svc.Build(context.Background(), "user-1", "basic", 1, 2024)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}
