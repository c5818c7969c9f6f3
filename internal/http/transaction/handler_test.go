package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	txhttp "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func newServer(t *testing.T, repo *transaction.MockRepository, plan string) http.Handler {
	t.Helper()

	svc := transaction.NewService(repo)
	h := txhttp.NewHandler(svc, subscription.NewService(svc, time.UTC), time.UTC)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithIdentity(req.Context(), auth.Identity{UserID: "user-1", Plan: plan})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/transactions", h.Routes)

	return r
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	accountID := uuid.New()
	body := `{"name":"Groceries","amount":"52.10","type":"EXPENSE","category":"FOOD",` +
		`"paymentMethod":"PIX","date":"2024-03-15","accountId":"` + accountID.String() + `","status":"EXECUTED"}`

	tests := []struct {
		name       string
		plan       string
		body       string
		setupMock  func(repo *transaction.MockRepository, tx *transaction.MockTx)
		wantStatus int
		wantField  string
	}{
		{
			name: "Created",
			plan: subscription.PlanPlus,
			body: body,
			setupMock: func(repo *transaction.MockRepository, tx *transaction.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().OwnsAccount(gomock.Any(), "user-1", accountID).Return(true, nil)
				tx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, row *transaction.Transaction) error {
						assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), row.Date)
						assert.True(t, decimal.RequireFromString("52.10").Equal(row.Amount))
						require.NotNil(t, row.ExecutedAt)

						return nil
					})
				tx.EXPECT().DeleteChildren(gomock.Any(), gomock.Any()).Return(int64(0), nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "BasicPlanLimitReached",
			plan: subscription.PlanBasic,
			body: body,
			setupMock: func(repo *transaction.MockRepository, _ *transaction.MockTx) {
				repo.EXPECT().CountCreatedBetween(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).Return(10, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "InvalidDate",
			plan:       subscription.PlanPlus,
			body:       `{"name":"x","date":"15/03/2024"}`,
			setupMock:  func(*transaction.MockRepository, *transaction.MockTx) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "date",
		},
		{
			name:       "ValidationFromService",
			plan:       subscription.PlanPlus,
			body:       strings.Replace(body, `"52.10"`, `"0"`, 1),
			setupMock:  func(*transaction.MockRepository, *transaction.MockTx) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "amount",
		},
		{
			name:       "UnknownField",
			plan:       subscription.PlanPlus,
			body:       `{"description":"x"}`,
			setupMock:  func(*transaction.MockRepository, *transaction.MockTx) {},
			wantStatus: http.StatusBadRequest,
			wantField:  "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tx := transaction.NewMockTx(ctrl)
			tt.setupMock(repo, tx)

			rec := do(newServer(t, repo, tt.plan), http.MethodPost, "/transactions/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantField != "" {
				var resp struct {
					Field string `json:"field"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantField, resp.Field)
			}
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	id := uuid.New()
	root := uuid.New()
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		setupMock  func(repo *transaction.MockRepository)
		wantStatus int
	}{
		{
			name: "DefaultsToCurrent",
			setupMock: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), "user-1", id).Return(&transaction.Transaction{ID: id}, nil)
				repo.EXPECT().DeleteTransaction(gomock.Any(), "user-1", id).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:  "Forward",
			query: "?scope=FORWARD",
			setupMock: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), "user-1", id).
					Return(&transaction.Transaction{ID: id, ParentTransactionID: &root, Date: date}, nil)
				repo.EXPECT().DeleteSeriesFrom(gomock.Any(), "user-1", id, root, date).Return(int64(3), nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "UnknownScope",
			query:      "?scope=SOME",
			setupMock:  func(*transaction.MockRepository) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "NotFound",
			query: "?scope=ALL",
			setupMock: func(repo *transaction.MockRepository) {
				repo.EXPECT().GetTransaction(gomock.Any(), "user-1", id).Return(nil, transaction.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			rec := do(newServer(t, repo, ""), http.MethodDelete, "/transactions/"+id.String()+tt.query, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	accountID := uuid.New()

	repo.EXPECT().
		ListTransactions(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			require.NotNil(t, f.AccountID)
			assert.Equal(t, accountID, *f.AccountID)
			assert.Equal(t, transaction.StatusPending, *f.Status)
			assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999_000_000, time.UTC), *f.EndDate)

			return []*transaction.Transaction{{ID: uuid.New(), Name: "Rent", Amount: decimal.NewFromInt(900)}}, nil
		})

	rec := do(newServer(t, repo, ""), http.MethodGet,
		"/transactions/?accountId="+accountID.String()+"&status=PENDING&endDate=2024-03-31", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Rent", got[0]["name"])
	assert.Equal(t, "900", got[0]["amount"])
}

func TestHandler_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	id := uuid.New()
	paid := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().GetTransaction(gomock.Any(), "user-1", id).
		Return(&transaction.Transaction{ID: id, Status: transaction.StatusPending, Date: paid.AddDate(0, 0, -5)}, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), "user-1", id, transaction.StatusExecuted, &paid).Return(nil)

	rec := do(newServer(t, repo, ""), http.MethodPatch, "/transactions/"+id.String()+"/status",
		`{"status":"EXECUTED","executedAt":"2024-04-02"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "EXECUTED", got["status"])
}
