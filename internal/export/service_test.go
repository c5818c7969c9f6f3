package export_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestService_WriteCSV(t *testing.T) {
	acct := &account.Account{ID: uuid.New(), Name: "Main account"}
	day := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Run("WritesRows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := export.NewMockTransactionSource(ctrl)
		accounts := export.NewMockAccountSource(ctrl)

		filter := transaction.ListFilter{AccountID: &acct.ID}

		accounts.EXPECT().EnsureDefault(gomock.Any(), "user-1").Return([]*account.Account{acct}, nil)
		txs.EXPECT().List(gomock.Any(), "user-1", filter).Return([]*transaction.Transaction{
			{
				AccountID: acct.ID, Date: day, Name: "Rent; March", Type: transaction.TypeExpense,
				Category: transaction.CategoryHousing, PaymentMethod: transaction.PaymentPix,
				Status: transaction.StatusExecuted, Amount: decimal.RequireFromString("1234.5"),
			},
			{
				AccountID: acct.ID, Date: day, Name: "Salary", Type: transaction.TypeDeposit,
				Category: transaction.CategorySalary, PaymentMethod: transaction.PaymentBankTransfer,
				Status: transaction.StatusPending, Amount: decimal.NewFromInt(3000),
			},
		}, nil)

		var sb strings.Builder

		n, err := export.NewService(txs, accounts).WriteCSV(context.Background(), "user-1", filter, &sb)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		assert.Equal(t, "date;name;type;category;payment_method;account;status;amount\n"+
			"07-03-2024;\"Rent; March\";EXPENSE;HOUSING;PIX;Main account;EXECUTED;-1234,50\n"+
			"07-03-2024;Salary;DEPOSIT;SALARY;BANK_TRANSFER;Main account;PENDING;3000,00\n", sb.String())
	})

	t.Run("ListFailure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		txs := export.NewMockTransactionSource(ctrl)
		accounts := export.NewMockAccountSource(ctrl)
		errDB := errors.New("db down")

		accounts.EXPECT().EnsureDefault(gomock.Any(), "user-1").Return([]*account.Account{acct}, nil)
		txs.EXPECT().List(gomock.Any(), "user-1", gomock.Any()).Return(nil, errDB)

		var sb strings.Builder

		_, err := export.NewService(txs, accounts).WriteCSV(context.Background(), "user-1", transaction.ListFilter{}, &sb)
		assert.ErrorIs(t, err, errDB)
		assert.Empty(t, sb.String())
	})
}

func TestAmount(t *testing.T) {
	tests := []struct {
		kind transaction.Type
		want string
	}{
		{transaction.TypeDeposit, "10,05"},
		{transaction.TypeExpense, "-10,05"},
		{transaction.TypeTransfer, "-10,05"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tx := &transaction.Transaction{Type: tt.kind, Amount: decimal.RequireFromString("10.05")}
			assert.Equal(t, tt.want, export.Amount(tx))
		})
	}
}
