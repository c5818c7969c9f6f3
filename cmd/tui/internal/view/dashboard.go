package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
)

type DashboardModel struct {
	CommonModel
	session   Session
	dashboard *dashboard.Service

	month    Month
	snapshot *dashboard.Snapshot
	loading  bool
	err      error
}

func NewDashboardModel(session Session, svc *dashboard.Service) DashboardModel {
	return DashboardModel{
		session:   session,
		dashboard: svc,
		month:     CurrentMonth(time.Now(), session.Loc),
		loading:   true,
	}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "←/h: previous month | →/l: next month | r: refresh | Esc: back" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		if msg.month != m.month {
			return m, nil
		}

		m.loading = false
		m.snapshot = msg.snapshot
		m.err = msg.err

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.Prev()
		case "right", "l":
			m.month = m.month.Next()
		case "r":
		default:
			return m, nil
		}

		m.loading = true

		return m, m.loadCmd()
	}

	return m, nil
}

func (m DashboardModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Dashboard · " + m.month.String())

	var body string

	switch {
	case m.loading:
		body = "Loading..."
	case m.err != nil:
		body = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.snapshot != nil:
		body = m.snapshotView(m.snapshot)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", faintStyle.Render(m.ShortHelp())),
	)
}

var cardStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 1).
	Width(24)

func card(label, value string) string {
	return cardStyle.Render(faintStyle.Render(label) + "\n" + value)
}

func (m DashboardModel) snapshotView(s *dashboard.Snapshot) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Deposits", successStyle.Render(FormatAmount(s.DepositTotal))),
		card("Expenses", errorStyle.Render(FormatAmount(s.ExpensesTotal))),
		card("Investments", accentStyle.Render(FormatAmount(s.InvestmentsTotal))),
	)

	balances := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Previous month", FormatAmount(s.PreviousMonthBalance)),
		card("Difference", FormatAmount(s.BalanceDifference)),
		card("Balance", FormatAmount(s.BalanceTotal)),
	)

	forecast := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Pending impact", FormatAmount(s.ForecastPendingImpact)),
		card("Forecast difference", FormatAmount(s.ForecastDifference)),
		card("Forecast balance", FormatAmount(s.ForecastBalance)),
	)

	details := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(44).Render(categoriesView(s)),
		lipgloss.NewStyle().Width(44).Render(accountsView(s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		cards,
		balances,
		forecast,
		faintStyle.Render(fmt.Sprintf("Deposits %d%% · Expenses %d%% · Investments %d%%",
			s.TypesPercentage.Deposit, s.TypesPercentage.Expense, s.TypesPercentage.Investment)),
		"",
		details,
		"",
		recentView(s),
	)
}

func categoriesView(s *dashboard.Snapshot) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Expenses by category") + "\n")

	if len(s.TotalExpensePerCategory) == 0 {
		b.WriteString(faintStyle.Render("No expenses this month."))
	}

	for _, c := range s.TotalExpensePerCategory {
		fmt.Fprintf(&b, "%-16s %12s %4d%%\n", c.Category, FormatAmount(c.TotalAmount), c.PercentageOfTotal)
	}

	return b.String()
}

func accountsView(s *dashboard.Snapshot) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Accounts") + "\n")

	for _, a := range s.Accounts {
		fmt.Fprintf(&b, "%-20s %14s\n", truncate(a.Name, 20), FormatAmount(a.Balance))
	}

	return b.String()
}

func recentView(s *dashboard.Snapshot) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Recent activity") + "\n")

	if len(s.LastTransactions) == 0 {
		b.WriteString(faintStyle.Render("Nothing yet."))
	}

	for _, tx := range s.LastTransactions {
		fmt.Fprintf(&b, "%s  %-9s %-30s %14s\n",
			FormatDate(tx.Date), tx.Status, truncate(tx.Name, 30), FormatAmount(SignedAmount(tx)))
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

type snapshotMsg struct {
	month    Month
	snapshot *dashboard.Snapshot
	err      error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		snap, err := m.dashboard.Get(ctx, m.session.UserID, month.Month, month.Year)

		return snapshotMsg{month: month, snapshot: snap, err: err}
	}
}
