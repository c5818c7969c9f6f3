package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

const userID = "user-1"

func TestService_EnsureDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().
		EnsureDefault(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, def *account.Account) ([]*account.Account, error) {
			assert.Equal(t, userID, def.UserID)
			assert.Equal(t, account.DefaultName, def.Name)
			assert.True(t, def.IncludeInBalance)
			assert.True(t, def.IncludeInCashFlow)
			assert.True(t, def.IncludeInInvestments)
			assert.True(t, def.IncludeInAiReports)
			assert.True(t, def.IncludeInOverview)

			def.ID = uuid.New()

			return []*account.Account{def}, nil
		})

	got, err := account.NewService(repo).EnsureDefault(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_EnsureDefaultRequiresUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := account.NewService(account.NewMockRepository(ctrl)).EnsureDefault(context.Background(), "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestService_Save(t *testing.T) {
	existingID := uuid.New()

	type testCase struct {
		name      string
		params    account.SaveParams
		setupMock func(m *account.MockRepository)
		check     func(t *testing.T, got *account.Account)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "CreateDefaultsFlags",
			params: account.SaveParams{
				Name:              "  Savings ",
				Color:             new("0a84ff"),
				IncludeInCashFlow: new(false),
			},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *account.Account) {
				assert.Equal(t, "Savings", got.Name)
				require.NotNil(t, got.Color)
				assert.Equal(t, "#0a84ff", *got.Color)
				assert.False(t, got.IncludeInCashFlow)
				assert.True(t, got.IncludeInBalance)
				assert.True(t, got.IncludeInInvestments)
				assert.True(t, got.IncludeInAiReports)
				assert.True(t, got.IncludeInOverview)
			},
		},
		{
			name:   "UpdateExisting",
			params: account.SaveParams{ID: &existingID, Name: "Wallet", Color: new("#FFF")},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					UpdateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						assert.Equal(t, existingID, a.ID)
						assert.Equal(t, userID, a.UserID)

						return nil
					})
			},
			check: func(t *testing.T, got *account.Account) {
				assert.Equal(t, "#FFF", *got.Color)
			},
		},
		{
			name:   "UpdateForeign",
			params: account.SaveParams{ID: &existingID, Name: "Wallet"},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(account.ErrNotFound)
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name:    "BlankName",
			params:  account.SaveParams{Name: " "},
			wantErr: apperror.ErrValidation,
		},
		{
			name:    "BadColor",
			params:  account.SaveParams{Name: "Card", Color: new("blue")},
			wantErr: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := account.NewService(repo).Save(context.Background(), userID, tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_Delete(t *testing.T) {
	oldest := &account.Account{ID: uuid.New(), CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
	middle := &account.Account{ID: uuid.New(), CreatedAt: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}
	newest := &account.Account{ID: uuid.New(), CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	errDB := errors.New("db error")

	tests := []struct {
		name      string
		id        uuid.UUID
		setupMock func(dtx *account.MockDeleteTx)
		wantErr   error
	}{
		{
			name: "ReassignsToOldestRemaining",
			id:   middle.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, middle, newest}, nil)
				dtx.EXPECT().DeleteTransfersBetween(gomock.Any(), middle.ID, oldest.ID).Return(int64(0), nil)
				dtx.EXPECT().ReassignTransactions(gomock.Any(), middle.ID, oldest.ID).Return(int64(7), nil)
				dtx.EXPECT().DeleteAccount(gomock.Any(), middle.ID).Return(nil)
				dtx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name: "DeletingOldestFallsBackToNext",
			id:   oldest.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, middle, newest}, nil)
				dtx.EXPECT().DeleteTransfersBetween(gomock.Any(), oldest.ID, middle.ID).Return(int64(0), nil)
				dtx.EXPECT().ReassignTransactions(gomock.Any(), oldest.ID, middle.ID).Return(int64(0), nil)
				dtx.EXPECT().DeleteAccount(gomock.Any(), oldest.ID).Return(nil)
				dtx.EXPECT().Commit().Return(nil)
			},
		},
		{
			name: "LastAccount",
			id:   oldest.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest}, nil)
			},
			wantErr: account.ErrLastAccount,
		},
		{
			name: "NotOwned",
			id:   uuid.New(),
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, middle}, nil)
			},
			wantErr: apperror.ErrNotFound,
		},
		{
			name: "ReassignFails",
			id:   newest.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, newest}, nil)
				dtx.EXPECT().DeleteTransfersBetween(gomock.Any(), newest.ID, oldest.ID).Return(int64(0), nil)
				dtx.EXPECT().ReassignTransactions(gomock.Any(), newest.ID, oldest.ID).Return(int64(0), errDB)
			},
			wantErr: errDB,
		},
		{
			name: "TransfersWithFallbackDeletedBeforeReassign",
			id:   newest.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, newest}, nil)
				gomock.InOrder(
					dtx.EXPECT().DeleteTransfersBetween(gomock.Any(), newest.ID, oldest.ID).Return(int64(2), nil),
					dtx.EXPECT().ReassignTransactions(gomock.Any(), newest.ID, oldest.ID).Return(int64(5), nil),
					dtx.EXPECT().DeleteAccount(gomock.Any(), newest.ID).Return(nil),
					dtx.EXPECT().Commit().Return(nil),
				)
			},
		},
		{
			name: "DeleteTransfersFails",
			id:   newest.ID,
			setupMock: func(dtx *account.MockDeleteTx) {
				dtx.EXPECT().LockedAccounts(gomock.Any()).Return([]*account.Account{oldest, newest}, nil)
				dtx.EXPECT().DeleteTransfersBetween(gomock.Any(), newest.ID, oldest.ID).Return(int64(0), errDB)
			},
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			dtx := account.NewMockDeleteTx(ctrl)

			repo.EXPECT().BeginDelete(gomock.Any(), userID).Return(dtx, nil)
			dtx.EXPECT().Rollback().Return(nil)
			tt.setupMock(dtx)

			err := account.NewService(repo).Delete(context.Background(), userID, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestErrLastAccountIsConstraint(t *testing.T) {
	assert.ErrorIs(t, account.ErrLastAccount, apperror.ErrConstraint)
}
