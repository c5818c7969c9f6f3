// Package app builds the service graph shared by the API server and the
// terminal client.
package app

import (
	"database/sql"
	"time"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	accountStore "github.com/MrJamesThe3rd/finboard/internal/account/store"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	dashboardStore "github.com/MrJamesThe3rd/finboard/internal/dashboard/store"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/finboard/internal/matching/store"
	"github.com/MrJamesThe3rd/finboard/internal/report"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finboard/internal/transaction/store"
)

type Services struct {
	Location      *time.Location
	Accounts      *account.Service
	Transactions  *transaction.Service
	Dashboard     *dashboard.Service
	Subscriptions *subscription.Service
	Matching      *matching.Service
	Importer      *importer.Service
	Export        *export.Service
	Reports       *report.Service
}

func NewServices(db *sql.DB, loc *time.Location) *Services {
	var (
		accounts     = account.NewService(accountStore.New(db))
		transactions = transaction.NewService(txStore.New(db))
		matcher      = matching.NewService(matchingStore.New(db))
	)

	return &Services{
		Location:      loc,
		Accounts:      accounts,
		Transactions:  transactions,
		Dashboard:     dashboard.NewService(dashboardStore.New(db), accounts, loc),
		Subscriptions: subscription.NewService(transactions, loc),
		Matching:      matcher,
		Importer:      importer.NewService(loc, matcher),
		Export:        export.NewService(transactions, accounts),
		Reports:       report.NewService(transactions, accounts, loc),
	}
}
