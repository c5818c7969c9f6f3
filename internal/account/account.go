package account

import (
	"time"

	"github.com/google/uuid"
)

// DefaultName is the name of the account created for users without one.
const DefaultName = "Main account"

// Account is a user's money container. The Include flags select which
// dashboard aggregates its transactions take part in.
type Account struct {
	ID                   uuid.UUID
	UserID               string
	Name                 string
	Color                *string
	IncludeInBalance     bool
	IncludeInCashFlow    bool
	IncludeInInvestments bool
	IncludeInAiReports   bool
	IncludeInOverview    bool
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// IDs returns the ids of the accounts for which keep reports true.
func IDs(accounts []*Account, keep func(*Account) bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(accounts))
	for _, a := range accounts {
		if keep(a) {
			ids = append(ids, a.ID)
		}
	}

	return ids
}

func InBalance(a *Account) bool     { return a.IncludeInBalance }
func InCashFlow(a *Account) bool    { return a.IncludeInCashFlow }
func InInvestments(a *Account) bool { return a.IncludeInInvestments }
func InAiReports(a *Account) bool   { return a.IncludeInAiReports }
