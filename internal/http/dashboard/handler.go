package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc *dashboard.Service
	now func() time.Time
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type typesPercentage struct {
	Deposit    int64 `json:"deposit"`
	Expense    int64 `json:"expense"`
	Investment int64 `json:"investment"`
}

type categoryTotal struct {
	Category          transaction.Category `json:"category"`
	TotalAmount       decimal.Decimal      `json:"totalAmount"`
	PercentageOfTotal int64                `json:"percentageOfTotal"`
}

type accountSummary struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Color                *string         `json:"color,omitempty"`
	IncludeInBalance     bool            `json:"includeInBalance"`
	IncludeInCashFlow    bool            `json:"includeInCashFlow"`
	IncludeInInvestments bool            `json:"includeInInvestments"`
	IncludeInAiReports   bool            `json:"includeInAiReports"`
	IncludeInOverview    bool            `json:"includeInOverview"`
	Deposit              decimal.Decimal `json:"deposit"`
	Expense              decimal.Decimal `json:"expense"`
	Investment           decimal.Decimal `json:"investment"`
	TransferOut          decimal.Decimal `json:"transferOut"`
	TransferIn           decimal.Decimal `json:"transferIn"`
	Balance              decimal.Decimal `json:"balance"`
}

type snapshotResponse struct {
	Month int `json:"month"`
	Year  int `json:"year"`

	DepositTotal     decimal.Decimal `json:"depositTotal"`
	ExpensesTotal    decimal.Decimal `json:"expensesTotal"`
	InvestmentsTotal decimal.Decimal `json:"investmentsTotal"`
	TypesPercentage  typesPercentage `json:"typesPercentage"`

	TotalExpensePerCategory []categoryTotal `json:"totalExpensePerCategory"`

	PreviousMonthBalance decimal.Decimal `json:"previousMonthBalance"`
	BalanceDifference    decimal.Decimal `json:"balanceDifference"`
	BalanceTotal         decimal.Decimal `json:"balanceTotal"`

	ForecastPendingImpact decimal.Decimal `json:"forecastPendingImpact"`
	ForecastDifference    decimal.Decimal `json:"forecastDifference"`
	ForecastBalance       decimal.Decimal `json:"forecastBalance"`

	Accounts         []accountSummary  `json:"accounts"`
	LastTransactions []txhttp.Response `json:"lastTransactions"`
}

func toResponse(s *dashboard.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		Month:                   s.Period.Month(),
		Year:                    s.Period.Year(),
		DepositTotal:            s.DepositTotal,
		ExpensesTotal:           s.ExpensesTotal,
		InvestmentsTotal:        s.InvestmentsTotal,
		TypesPercentage:         typesPercentage(s.TypesPercentage),
		TotalExpensePerCategory: make([]categoryTotal, len(s.TotalExpensePerCategory)),
		PreviousMonthBalance:    s.PreviousMonthBalance,
		BalanceDifference:       s.BalanceDifference,
		BalanceTotal:            s.BalanceTotal,
		ForecastPendingImpact:   s.ForecastPendingImpact,
		ForecastDifference:      s.ForecastDifference,
		ForecastBalance:         s.ForecastBalance,
		Accounts:                make([]accountSummary, len(s.Accounts)),
		LastTransactions:        txhttp.ToResponseList(s.LastTransactions),
	}

	for i, c := range s.TotalExpensePerCategory {
		resp.TotalExpensePerCategory[i] = categoryTotal(c)
	}

	for i, a := range s.Accounts {
		resp.Accounts[i] = accountSummary{
			ID:                   a.ID,
			Name:                 a.Name,
			Color:                a.Color,
			IncludeInBalance:     a.IncludeInBalance,
			IncludeInCashFlow:    a.IncludeInCashFlow,
			IncludeInInvestments: a.IncludeInInvestments,
			IncludeInAiReports:   a.IncludeInAiReports,
			IncludeInOverview:    a.IncludeInOverview,
			Deposit:              a.Deposit,
			Expense:              a.Expense,
			Investment:           a.Investment,
			TransferOut:          a.TransferOut,
			TransferIn:           a.TransferIn,
			Balance:              a.Balance,
		}
	}

	return resp
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	month, year, err := request.MonthYear(r, h.svc.Location(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	snap, err := h.svc.Get(r.Context(), auth.FromContext(r.Context()).UserID, month, year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, toResponse(snap))
}
