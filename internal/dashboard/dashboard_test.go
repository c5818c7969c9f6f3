package dashboard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func TestNewPeriod(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	tests := []struct {
		name      string
		month     int
		year      int
		loc       *time.Location
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "LeapFebruary",
			month:     2,
			year:      2024,
			loc:       time.UTC,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "DecemberRollsYear",
			month:     12,
			year:      2023,
			loc:       time.UTC,
			wantStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		},
		{
			name:      "ConfiguredLocation",
			month:     3,
			year:      2024,
			loc:       saoPaulo,
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, saoPaulo),
			wantEnd:   time.Date(2024, 3, 31, 23, 59, 59, 999_000_000, saoPaulo),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPeriod(tt.month, tt.year, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(p.Start), "start %s", p.Start)
			assert.True(t, tt.wantEnd.Equal(p.End()), "end %s", p.End())
			assert.Equal(t, tt.month, p.Month())
			assert.Equal(t, tt.year, p.Year())
		})
	}
}

func TestNewPeriod_Invalid(t *testing.T) {
	for _, month := range []int{0, 13} {
		_, err := NewPeriod(month, 2024, time.UTC)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	}

	_, err := NewPeriod(1, 0, time.UTC)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestImpact(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	balance := map[uuid.UUID]bool{a: true, c: true}
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name string
		tx   *transaction.Transaction
		want string
	}{
		{
			name: "DepositInSet",
			tx:   &transaction.Transaction{Type: transaction.TypeDeposit, AccountID: a, Amount: hundred},
			want: "100",
		},
		{
			name: "DepositOutsideSet",
			tx:   &transaction.Transaction{Type: transaction.TypeDeposit, AccountID: b, Amount: hundred},
			want: "0",
		},
		{
			name: "ExpenseInSet",
			tx:   &transaction.Transaction{Type: transaction.TypeExpense, AccountID: a, Amount: hundred},
			want: "-100",
		},
		{
			name: "TransferOutOfSet",
			tx:   &transaction.Transaction{Type: transaction.TypeTransfer, AccountID: a, TransferAccountID: &b, Amount: hundred},
			want: "-100",
		},
		{
			name: "TransferIntoSet",
			tx:   &transaction.Transaction{Type: transaction.TypeTransfer, AccountID: b, TransferAccountID: &a, Amount: hundred},
			want: "100",
		},
		{
			name: "TransferInsideSet",
			tx:   &transaction.Transaction{Type: transaction.TypeTransfer, AccountID: a, TransferAccountID: &c, Amount: hundred},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Impact(tt.tx, balance).String())
		})
	}
}

func TestBalanceLegs_Add(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	balance := map[uuid.UUID]bool{a: true, c: true}
	amount := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	txs := []*transaction.Transaction{
		{Type: transaction.TypeDeposit, AccountID: a, Amount: amount("500")},
		{Type: transaction.TypeDeposit, AccountID: b, Amount: amount("70")},
		{Type: transaction.TypeExpense, AccountID: c, Amount: amount("120.40")},
		{Type: transaction.TypeTransfer, AccountID: a, TransferAccountID: &b, Amount: amount("100")},
		{Type: transaction.TypeTransfer, AccountID: b, TransferAccountID: &c, Amount: amount("30")},
		{Type: transaction.TypeTransfer, AccountID: a, TransferAccountID: &c, Amount: amount("45")},
	}

	var (
		legs BalanceLegs
		sum  = decimal.Zero
	)

	for _, tx := range txs {
		legs = legs.Add(tx, balance)
		sum = sum.Add(Impact(tx, balance))
	}

	assert.Equal(t, "500", legs.Deposit.String())
	assert.Equal(t, "120.4", legs.Expense.String())
	assert.Equal(t, "145", legs.TransferOut.String())
	assert.Equal(t, "75", legs.TransferIn.String())

	assert.Equal(t, "309.6", legs.Net().String())
	assert.True(t, legs.Net().Equal(sum))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, int64(0), percent(decimal.NewFromInt(5), decimal.Zero))
	assert.Equal(t, int64(33), percent(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, int64(67), percent(decimal.NewFromInt(2), decimal.NewFromInt(3)))
	assert.Equal(t, int64(50), percent(decimal.RequireFromString("0.5"), decimal.NewFromInt(1)))
	assert.Equal(t, int64(100), percent(decimal.NewFromInt(7), decimal.NewFromInt(7)))
}
