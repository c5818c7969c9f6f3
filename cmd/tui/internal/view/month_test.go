package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestMonth_Navigation(t *testing.T) {
	tests := []struct {
		name     string
		month    Month
		wantNext Month
		wantPrev Month
	}{
		{name: "mid year", month: Month{6, 2024}, wantNext: Month{7, 2024}, wantPrev: Month{5, 2024}},
		{name: "december", month: Month{12, 2024}, wantNext: Month{1, 2025}, wantPrev: Month{11, 2024}},
		{name: "january", month: Month{1, 2024}, wantNext: Month{2, 2024}, wantPrev: Month{12, 2023}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantNext, tt.month.Next())
			assert.Equal(t, tt.wantPrev, tt.month.Prev())
		})
	}
}

func TestCurrentMonth_UsesLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	// 01:00 UTC on March 1st is still February 28th in BRT.
	now := time.Date(2024, time.March, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, Month{2, 2024}, CurrentMonth(now, loc))
	assert.Equal(t, Month{3, 2024}, CurrentMonth(now, time.UTC))
}

func TestMonth_Period(t *testing.T) {
	p, err := Month{2, 2024}.Period(time.UTC)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), p.Next)

	_, err = Month{13, 2024}.Period(time.UTC)
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "R$ 1234.50", FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-R$ 10.00", FormatAmount(decimal.NewFromInt(-10)))
	assert.Equal(t, "R$ 0.00", FormatAmount(decimal.Zero))
}

func TestSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(50)

	assert.True(t, SignedAmount(&transaction.Transaction{Type: transaction.TypeDeposit, Amount: amount}).Equal(amount))
	assert.True(t, SignedAmount(&transaction.Transaction{Type: transaction.TypeExpense, Amount: amount}).Equal(amount.Neg()))
	assert.True(t, SignedAmount(&transaction.Transaction{Type: transaction.TypeTransfer, Amount: amount}).Equal(amount.Neg()))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "transactions_2024-03.csv", ExportFileName(Month{3, 2024}))
	assert.Equal(t, "transactions_0999-12.csv", ExportFileName(Month{12, 999}))
}
