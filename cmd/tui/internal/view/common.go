package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const dbTimeout = 5 * time.Second

// Session is the user the terminal client acts for.
type Session struct {
	UserID string
	Plan   string
	Loc    *time.Location
	Log    zerolog.Logger
}

// Ctx returns a context carrying the session logger with the standard
// timeout for database operations.
func (s Session) Ctx(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = dbTimeout
	}

	ctx := logger.WithContext(context.Background(), s.Log)

	return context.WithTimeout(ctx, timeout)
}

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// FormatAmount renders a value as Brazilian currency, e.g. "R$ 1234.50".
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-R$ " + d.Neg().StringFixed(2)
	}

	return "R$ " + d.StringFixed(2)
}

// SignedAmount is the amount as it affects the balance of its own account.
func SignedAmount(tx *transaction.Transaction) decimal.Decimal {
	if tx.Type == transaction.TypeDeposit {
		return tx.Amount
	}

	return tx.Amount.Neg()
}

// FormatDate formats a time.Time as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func errorView(err error) string {
	return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}
