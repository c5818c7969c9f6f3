// Package report prepares the input of the AI finance report: the period's
// transactions rendered as prompt lines.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

var ErrPlanRequired = fmt.Errorf("plan without AI reports: %w", apperror.ErrForbidden)

const SystemPrompt = "You are an expert in personal finance management. You help people organise their finances."

//go:generate mockgen -source=report.go -destination=report_mock.go -package=report
type TransactionSource interface {
	List(ctx context.Context, userID string, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type AccountSource interface {
	EnsureDefault(ctx context.Context, userID string) ([]*account.Account, error)
}

type Input struct {
	Period       dashboard.Period
	SystemPrompt string
	Prompt       string
	Lines        []string
}

// Empty reports whether the period had no eligible transactions.
func (in *Input) Empty() bool {
	return len(in.Lines) == 0
}

type Service struct {
	transactions TransactionSource
	accounts     AccountSource
	loc          *time.Location
}

func NewService(transactions TransactionSource, accounts AccountSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{transactions: transactions, accounts: accounts, loc: loc}
}

// Build collects the transactions of month/year on accounts flagged for AI
// reports. Plans without the capability get ErrPlanRequired.
func (s *Service) Build(ctx context.Context, userID, planID string, month, year int) (*Input, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return nil, err
	}

	if !subscription.ActivePlan(planID).AIReports {
		return nil, ErrPlanRequired
	}

	period, err := dashboard.NewPeriod(month, year, s.loc)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accounts.EnsureDefault(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	eligible := make(map[uuid.UUID]bool, len(accounts))
	for _, id := range account.IDs(accounts, account.InAiReports) {
		eligible[id] = true
	}

	end := period.End()

	txs, err := s.transactions.List(ctx, userID, transaction.ListFilter{
		StartDate: &period.Start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	in := &Input{Period: period, SystemPrompt: SystemPrompt, Lines: []string{}}

	for _, tx := range txs {
		if !eligible[tx.AccountID] {
			continue
		}

		in.Lines = append(in.Lines, Line(tx))
	}

	if !in.Empty() {
		in.Prompt = fmt.Sprintf(
			"Write a report with insights about my finances for %02d/%d. Point out strengths, opportunities "+
				"and clear recommendations to improve my budget. Transactions are separated by semicolons and "+
				"each one follows {DATE}-{TYPE}-{AMOUNT}-{CATEGORY}. They are: %s",
			period.Month(), period.Year(), strings.Join(in.Lines, "; "),
		)
	}

	return in, nil
}

// Line renders tx as DD/MM/YYYY-TYPE-R$AMOUNT-CATEGORY.
func Line(tx *transaction.Transaction) string {
	return fmt.Sprintf("%s-%s-R$%s-%s", tx.Date.Format("02/01/2006"), tx.Type, tx.Amount.StringFixed(2), tx.Category)
}
