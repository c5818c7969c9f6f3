package transaction_test

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

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const userID = "user-1"

var accountID = uuid.MustParse("7d7ad3a4-3f57-4a4c-9f3c-8d7a9a0a1b01")

func baseParams() transaction.UpsertParams {
	return transaction.UpsertParams{
		Name:          "Groceries",
		Amount:        decimal.RequireFromString("120.50"),
		Type:          transaction.TypeExpense,
		Category:      transaction.CategoryFood,
		PaymentMethod: transaction.PaymentDebitCard,
		Date:          day(2024, time.January, 15),
		AccountID:     accountID,
		Status:        transaction.StatusExecuted,
	}
}

func TestService_Upsert(t *testing.T) {
	existingID := uuid.New()
	parentID := uuid.New()

	type testCase struct {
		name      string
		params    func() transaction.UpsertParams
		setupMock func(repo *transaction.MockRepository, tx *transaction.MockTx)
		check     func(t *testing.T, got *transaction.Transaction)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "CreateImmediate",
			params: baseParams,
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().DeleteChildren(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, userID, got.UserID)
				assert.Equal(t, transaction.FulfillmentImmediate, got.FulfillmentType)
				assert.Equal(t, transaction.RecurrenceNone, got.RecurrenceType)
				require.NotNil(t, got.ExecutedAt)
				assert.Equal(t, got.Date, *got.ExecutedAt)
			},
		},
		{
			name: "CreateSplitInstallments",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.Amount = decimal.NewFromInt(100)
				p.Status = transaction.StatusPending
				p.FulfillmentType = transaction.FulfillmentInstallment
				p.InstallmentCount = new(3)
				p.InstallmentValueIsTotal = true

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().DeleteChildren(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				tx.EXPECT().
					CreateTransactions(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, children []*transaction.Transaction) error {
						assert.Equal(t, "33.33", children[0].Amount.StringFixed(2))
						assert.Equal(t, "33.34", children[1].Amount.StringFixed(2))

						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, "33.33", got.Amount.StringFixed(2))
				assert.Equal(t, 1, *got.InstallmentIndex)
				assert.Nil(t, got.ExecutedAt)
				require.NotNil(t, got.InstallmentTotal)
				assert.Equal(t, "100.00", got.InstallmentTotal.StringFixed(2))
			},
		},
		{
			name: "UpdateRootRegeneratesChildren",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.ID = &existingID
				p.Status = transaction.StatusPending
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceMonthly
				p.RecurrenceEndsAt = new(day(2024, time.April, 15))

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetTransaction(gomock.Any(), userID, existingID).Return(&transaction.Transaction{
					ID:             existingID,
					RawDescription: "TRF RENT",
				}, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().DeleteChildren(gomock.Any(), existingID).Return(int64(5), nil)
				tx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(3)).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, existingID, got.ID)
				assert.Equal(t, "TRF RENT", got.RawDescription)
			},
		},
		{
			name: "UpdateChildDoesNotExpand",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.ID = &existingID
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceDaily
				p.RecurrenceEndsAt = new(day(2024, time.February, 15))

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetTransaction(gomock.Any(), userID, existingID).Return(&transaction.Transaction{
					ID:                  existingID,
					ParentTransactionID: &parentID,
				}, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, parentID, *got.ParentTransactionID)
			},
		},
		{
			name: "UpdateMissing",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.ID = &existingID

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().GetTransaction(gomock.Any(), userID, existingID).Return(nil, transaction.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "ForeignTransferAccount",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.Type = transaction.TypeTransfer
				p.TransferAccountID = new(uuid.New())

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, gomock.Any()).Return(false, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: transaction.ErrAccountNotFound,
		},
		{
			name: "ChildInsertFailureRollsBack",
			params: func() transaction.UpsertParams {
				p := baseParams()
				p.FulfillmentType = transaction.FulfillmentInstallment
				p.InstallmentCount = new(2)

				return p
			},
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
				tx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().DeleteChildren(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				tx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(1)).Return(errors.New("db error"))
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			dbTx := transaction.NewMockTx(ctrl)
			tt.setupMock(repo, dbTx)

			svc := transaction.NewService(repo)
			got, err := svc.Upsert(context.Background(), userID, tt.params())

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, apperror.ErrNotFound) || errors.Is(tt.wantErr, transaction.ErrAccountNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *transaction.UpsertParams)
		field  string
	}{
		{name: "BlankName", mutate: func(p *transaction.UpsertParams) { p.Name = "   " }, field: "name"},
		{name: "ZeroAmount", mutate: func(p *transaction.UpsertParams) { p.Amount = decimal.Zero }, field: "amount"},
		{
			name:   "SubCentAmount",
			mutate: func(p *transaction.UpsertParams) { p.Amount = decimal.RequireFromString("0.001") },
			field:  "amount",
		},
		{
			name:   "ThreeDecimalAmount",
			mutate: func(p *transaction.UpsertParams) { p.Amount = decimal.RequireFromString("10.505") },
			field:  "amount",
		},
		{
			name:   "AmountOverflowsColumn",
			mutate: func(p *transaction.UpsertParams) { p.Amount = decimal.New(1, 12) },
			field:  "amount",
		},
		{name: "UnknownCategory", mutate: func(p *transaction.UpsertParams) { p.Category = "PETS" }, field: "category"},
		{name: "MissingStatus", mutate: func(p *transaction.UpsertParams) { p.Status = "" }, field: "status"},
		{name: "MissingAccount", mutate: func(p *transaction.UpsertParams) { p.AccountID = uuid.Nil }, field: "accountId"},
		{
			name:   "TransferWithoutDestination",
			mutate: func(p *transaction.UpsertParams) { p.Type = transaction.TypeTransfer },
			field:  "transferAccountId",
		},
		{
			name: "TransferToSameAccount",
			mutate: func(p *transaction.UpsertParams) {
				p.Type = transaction.TypeTransfer
				p.TransferAccountID = &accountID
			},
			field: "transferAccountId",
		},
		{
			name: "InstallmentWithoutCount",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentInstallment
			},
			field: "installmentCount",
		},
		{
			name: "InstallmentIndexBeyondCount",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentInstallment
				p.InstallmentCount = new(2)
				p.InstallmentIndex = new(3)
			},
			field: "installmentIndex",
		},
		{
			name: "SplitBelowOneCent",
			mutate: func(p *transaction.UpsertParams) {
				p.Amount = decimal.RequireFromString("0.02")
				p.FulfillmentType = transaction.FulfillmentInstallment
				p.InstallmentCount = new(3)
				p.InstallmentValueIsTotal = true
			},
			field: "amount",
		},
		{
			name: "CustomWithoutInterval",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceCustom
			},
			field: "recurrenceInterval",
		},
		{
			name: "EndsBeforeStart",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceWeekly
				p.RecurrenceEndsAt = new(day(2023, time.December, 1))
			},
			field: "recurrenceEndsAt",
		},
		{
			name: "EndsEqualsStart",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceMonthly
				p.RecurrenceEndsAt = new(p.Date)
			},
			field: "recurrenceEndsAt",
		},
		{
			name: "SkipEveryWeekday",
			mutate: func(p *transaction.UpsertParams) {
				p.FulfillmentType = transaction.FulfillmentForecast
				p.RecurrenceType = transaction.RecurrenceDaily
				p.RecurrenceSkipWeekdays = []time.Weekday{0, 1, 2, 3, 4, 5, 6}
			},
			field: "recurrenceSkipWeekdays",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := transaction.NewService(transaction.NewMockRepository(ctrl))

			p := baseParams()
			tt.mutate(&p)

			_, err := svc.Upsert(context.Background(), userID, p)
			require.ErrorIs(t, err, apperror.ErrValidation)

			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestService_UpsertIgnoresScheduleOutsideForecast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	tx := transaction.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
	tx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().DeleteChildren(gomock.Any(), gomock.Any()).Return(int64(0), nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	p := baseParams()
	p.RecurrenceType = transaction.RecurrenceCustom
	p.RecurrenceEndsAt = new(p.Date)
	p.RecurrenceSkipWeekdays = []time.Weekday{0, 1, 2, 3, 4, 5, 6}

	got, err := transaction.NewService(repo).Upsert(context.Background(), userID, p)
	require.NoError(t, err)

	assert.Equal(t, transaction.FulfillmentImmediate, got.FulfillmentType)
	assert.Equal(t, transaction.RecurrenceNone, got.RecurrenceType)
	assert.Nil(t, got.RecurrenceEndsAt)
	assert.Empty(t, got.RecurrenceSkipWeekdays)
}

func TestService_UpsertRequiresUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	_, err := svc.Upsert(context.Background(), "", baseParams())
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestService_Delete(t *testing.T) {
	rootID := uuid.New()
	childID := uuid.New()
	child := &transaction.Transaction{
		ID:                  childID,
		ParentTransactionID: &rootID,
		Date:                day(2024, time.March, 15),
	}

	tests := []struct {
		name      string
		scope     transaction.DeleteScope
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}{
		{
			name:  "Current",
			scope: transaction.DeleteCurrent,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, childID).Return(child, nil)
				m.EXPECT().DeleteTransaction(gomock.Any(), userID, childID).Return(nil)
			},
		},
		{
			name:  "Forward",
			scope: transaction.DeleteForward,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, childID).Return(child, nil)
				m.EXPECT().
					DeleteSeriesFrom(gomock.Any(), userID, childID, rootID, day(2024, time.March, 15)).
					Return(int64(4), nil)
			},
		},
		{
			name:  "AllResolvesRoot",
			scope: transaction.DeleteAll,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, childID).Return(child, nil)
				m.EXPECT().DeleteSeries(gomock.Any(), userID, rootID).Return(int64(12), nil)
			},
		},
		{
			name:  "Missing",
			scope: transaction.DeleteAll,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, childID).Return(nil, transaction.ErrNotFound)
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name:      "UnknownScope",
			scope:     "SOME",
			setupMock: func(m *transaction.MockRepository) {},
			wantErr:   apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := transaction.NewService(repo).Delete(context.Background(), userID, childID, tt.scope)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()
	txDate := day(2024, time.May, 3)
	now := day(2024, time.May, 20)

	tests := []struct {
		name           string
		params         transaction.UpdateStatusParams
		wantExecutedAt *time.Time
	}{
		{
			name:           "ExecuteWithOwnDate",
			params:         transaction.UpdateStatusParams{ID: id, Status: transaction.StatusExecuted},
			wantExecutedAt: &txDate,
		},
		{
			name:           "ExecuteWithGivenDate",
			params:         transaction.UpdateStatusParams{ID: id, Status: transaction.StatusExecuted, ExecutedAt: &now},
			wantExecutedAt: &now,
		},
		{
			name:   "PendingClearsExecution",
			params: transaction.UpdateStatusParams{ID: id, Status: transaction.StatusPending, ExecutedAt: &now},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(&transaction.Transaction{ID: id, Date: txDate}, nil)
			repo.EXPECT().UpdateStatus(gomock.Any(), userID, id, tt.params.Status, tt.wantExecutedAt).Return(nil)

			got, err := transaction.NewService(repo).UpdateStatus(context.Background(), userID, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.params.Status, got.Status)
			assert.Equal(t, tt.wantExecutedAt, got.ExecutedAt)
		})
	}
}

func TestService_ImportBatch(t *testing.T) {
	date := day(2024, time.February, 2)
	lines := []transaction.ImportParams{
		{Name: "Coffee", RawDescription: "COMPRA CAFE", Amount: decimal.RequireFromString("3.5"), Type: transaction.TypeExpense, Date: date},
		{RawDescription: "SALARIO", Amount: decimal.NewFromInt(2000), Type: transaction.TypeDeposit, Date: date},
	}

	t.Run("NoConflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		itx := transaction.NewMockImportTx(ctrl)

		repo.EXPECT().BeginImport(gomock.Any(), userID, accountID, date, date).Return(itx, nil)
		itx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), userID, accountID, lines).Return(nil, nil)
		itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		res, err := transaction.NewService(repo).ImportBatch(context.Background(), userID, accountID, lines)
		require.NoError(t, err)
		require.Len(t, res.Imported, 2)

		salary := res.Imported[1]
		assert.Equal(t, "SALARIO", salary.Name)
		assert.Equal(t, transaction.StatusExecuted, salary.Status)
		assert.Equal(t, transaction.CategoryOther, salary.Category)
		assert.Equal(t, transaction.PaymentBankTransfer, salary.PaymentMethod)
		assert.Equal(t, accountID, salary.AccountID)
		require.NotNil(t, salary.ExecutedAt)
	})

	t.Run("ConflictsWriteNothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		itx := transaction.NewMockImportTx(ctrl)
		existing := &transaction.Transaction{
			ID:             uuid.New(),
			RawDescription: "COMPRA CAFE",
			Amount:         decimal.RequireFromString("3.50"),
			Type:           transaction.TypeExpense,
			Date:           date,
		}

		repo.EXPECT().BeginImport(gomock.Any(), userID, accountID, date, date).Return(itx, nil)
		itx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(true, nil)
		itx.EXPECT().FindDuplicates(gomock.Any(), userID, accountID, lines).Return([]*transaction.Transaction{existing}, nil)
		itx.EXPECT().Rollback().Return(nil)

		res, err := transaction.NewService(repo).ImportBatch(context.Background(), userID, accountID, lines)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, existing, res.Conflicts[0].Existing)
		require.Len(t, res.New, 1)
		assert.Equal(t, "SALARIO", res.New[0].RawDescription)
	})

	t.Run("ForeignAccount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		itx := transaction.NewMockImportTx(ctrl)

		repo.EXPECT().BeginImport(gomock.Any(), userID, accountID, date, date).Return(itx, nil)
		itx.EXPECT().OwnsAccount(gomock.Any(), userID, accountID).Return(false, nil)
		itx.EXPECT().Rollback().Return(nil)

		_, err := transaction.NewService(repo).ImportBatch(context.Background(), userID, accountID, lines)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("AmountNotStorable", func(t *testing.T) {
		for _, amount := range []string{"0.001", "12.345", "1000000000000"} {
			ctrl := gomock.NewController(t)

			bad := []transaction.ImportParams{{
				RawDescription: "COMPRA",
				Amount:         decimal.RequireFromString(amount),
				Type:           transaction.TypeExpense,
				Date:           date,
			}}

			_, err := transaction.NewService(transaction.NewMockRepository(ctrl)).
				ImportBatch(context.Background(), userID, accountID, bad)
			require.ErrorIs(t, err, apperror.ErrValidation, amount)

			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "rows[0].amount", verr.Field)

			ctrl.Finish()
		}
	})

	t.Run("Empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		res, err := transaction.NewService(transaction.NewMockRepository(ctrl)).
			ImportBatch(context.Background(), userID, accountID, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Imported)
	})
}
