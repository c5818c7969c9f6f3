// Package subscription holds the plan catalogue and the checks gated on it.
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

var ErrLimitReached = fmt.Errorf("monthly transaction limit reached: %w", apperror.ErrForbidden)

type Plan struct {
	ID        string
	Name      string
	AIReports bool
	// TransactionsLimit is the monthly cap; zero means unlimited.
	TransactionsLimit int
}

const (
	PlanBasic   = "basic"
	PlanPlus    = "plus"
	PlanPremium = "premium"
)

var plans = map[string]Plan{
	PlanBasic:   {ID: PlanBasic, Name: "Basic", TransactionsLimit: 10},
	PlanPlus:    {ID: PlanPlus, Name: "Plus", AIReports: true},
	PlanPremium: {ID: PlanPremium, Name: "Premium", AIReports: true},
}

// ActivePlan returns the plan with id, falling back to basic.
func ActivePlan(id string) Plan {
	if p, ok := plans[strings.ToLower(strings.TrimSpace(id))]; ok {
		return p
	}

	return plans[PlanBasic]
}

// Counter counts the transactions a user created in [from, to).
type Counter interface {
	CountCreatedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
}

type Service struct {
	counter Counter
	loc     *time.Location
	now     func() time.Time
}

func NewService(counter Counter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}

	return &Service{counter: counter, loc: loc, now: time.Now}
}

// CanAddTransaction reports whether the plan allows one more transaction this month.
func (s *Service) CanAddTransaction(ctx context.Context, userID, planID string) (bool, error) {
	if err := apperror.RequireUser(userID); err != nil {
		return false, err
	}

	plan := ActivePlan(planID)
	if plan.TransactionsLimit == 0 {
		return true, nil
	}

	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	n, err := s.counter.CountCreatedBetween(ctx, userID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return false, fmt.Errorf("count transactions: %w", err)
	}

	return n < plan.TransactionsLimit, nil
}

// RequireTransactionSlot returns ErrLimitReached when the plan's monthly cap is used up.
func (s *Service) RequireTransactionSlot(ctx context.Context, userID, planID string) error {
	ok, err := s.CanAddTransaction(ctx, userID, planID)
	if err != nil {
		return err
	}

	if !ok {
		return ErrLimitReached
	}

	return nil
}
