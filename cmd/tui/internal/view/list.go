package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateDelete
	listStateRename
)

// listForm holds the huh bindings. It lives behind a pointer so the bound
// fields survive the model being copied on every Update.
type listForm struct {
	scope transaction.DeleteScope
	name  string
}

// ListModel is the month transaction table.
type ListModel struct {
	CommonModel
	session      Session
	transactions *transaction.Service
	matching     *matching.Service

	state  listState
	month  Month
	table  table.Model
	txs    []*transaction.Transaction
	form   *huh.Form
	fields *listForm

	loading bool
	err     error
	status  string
}

func NewListModel(session Session, txSvc *transaction.Service, matchSvc *matching.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Type", Width: 10},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 14},
		{Title: "Name", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		session:      session,
		transactions: txSvc,
		matching:     matchSvc,
		month:        CurrentMonth(time.Now(), session.Loc),
		table:        t,
		fields:       &listForm{},
		loading:      true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state != listStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "←/→: month | x: toggle status | e: rename | d: delete | n: new | r: refresh | Esc: back"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		if msg.month != m.month {
			return m, nil
		}

		m.loading = false
		m.err = msg.err
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case listActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.closeForm()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	if m.state == listStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "left", "h":
			m.month = m.month.Prev()
			m.loading = true

			return m, m.loadTxsCmd()
		case "right", "l":
			m.month = m.month.Next()
			m.loading = true

			return m, m.loadTxsCmd()
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "n":
			return m, NewTransaction
		case "x":
			if tx := m.selected(); tx != nil {
				return m, m.toggleStatusCmd(tx)
			}
		case "d":
			return m.openDelete()
		case "e":
			return m.openRename()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) openDelete() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.fields.scope = transaction.DeleteCurrent

	options := []huh.Option[transaction.DeleteScope]{
		huh.NewOption("Only this transaction", transaction.DeleteCurrent),
	}

	if tx.RecurrenceType != transaction.RecurrenceNone || tx.FulfillmentType == transaction.FulfillmentInstallment {
		options = append(options,
			huh.NewOption("This and the following ones", transaction.DeleteForward),
			huh.NewOption("The whole series", transaction.DeleteAll),
		)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.DeleteScope]().
				Key("scope").
				Title("Delete " + tx.Name).
				Options(options...).
				Value(&m.fields.scope),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) openRename() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	m.fields.name = tx.Name

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&m.fields.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateRename
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ListModel) closeForm() {
	m.state = listStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	tx := m.selected()
	if tx == nil {
		m.closeForm()
		return m, nil
	}

	if m.state == listStateDelete {
		return m, m.deleteCmd(tx, m.fields.scope)
	}

	return m, m.renameCmd(tx, strings.TrimSpace(m.fields.name))
}

func (m ListModel) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	header := fmt.Sprintf("Transactions · %s", accentStyle.Render(m.month.String()))
	if m.loading {
		header += faintStyle.Render("  loading...")
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		faintStyle.Render(m.ShortHelp()),
	)

	if m.state != listStateBrowse && m.form != nil {
		raw := ""
		if tx := m.selected(); tx != nil && tx.RawDescription != "" {
			raw = "Bank text: " + tx.RawDescription + "\n\n"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(raw + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Status),
			string(tx.Type),
			string(tx.Category),
			FormatAmount(SignedAmount(tx)),
			tx.Name,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type loadListMsg struct {
	month Month
	txs   []*transaction.Transaction
	err   error
}

type listActionMsg struct {
	status string
	err    error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	month := m.month

	return func() tea.Msg {
		period, err := month.Period(m.session.Loc)
		if err != nil {
			return loadListMsg{month: month, err: err}
		}

		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		start, end := period.Start, period.End()

		txs, err := m.transactions.List(ctx, m.session.UserID, transaction.ListFilter{
			StartDate: &start,
			EndDate:   &end,
		})

		return loadListMsg{month: month, txs: txs, err: err}
	}
}

func (m ListModel) toggleStatusCmd(tx *transaction.Transaction) tea.Cmd {
	next := transaction.StatusExecuted
	if tx.Status == transaction.StatusExecuted {
		next = transaction.StatusPending
	}

	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		_, err := m.transactions.UpdateStatus(ctx, m.session.UserID, transaction.UpdateStatusParams{
			ID:     tx.ID,
			Status: next,
		})

		return listActionMsg{status: fmt.Sprintf("%s marked %s.", tx.Name, next), err: err}
	}
}

func (m ListModel) deleteCmd(tx *transaction.Transaction, scope transaction.DeleteScope) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		err := m.transactions.Delete(ctx, m.session.UserID, tx.ID, scope)

		return listActionMsg{status: fmt.Sprintf("Deleted %s.", tx.Name), err: err}
	}
}

// renameCmd saves the new name and, for imported rows, remembers it as the
// preferred description for the bank text.
func (m ListModel) renameCmd(tx *transaction.Transaction, name string) tea.Cmd {
	params := UpsertParamsFrom(tx)
	params.Name = name

	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		if _, err := m.transactions.Upsert(ctx, m.session.UserID, params); err != nil {
			return listActionMsg{err: err}
		}

		if tx.RawDescription != "" {
			if err := m.matching.Learn(ctx, m.session.UserID, tx.RawDescription, name); err != nil {
				return listActionMsg{err: err}
			}
		}

		return listActionMsg{status: fmt.Sprintf("Renamed to %s.", name)}
	}
}

// UpsertParamsFrom rebuilds the update request that would store tx unchanged.
func UpsertParamsFrom(tx *transaction.Transaction) transaction.UpsertParams {
	params := transaction.UpsertParams{
		ID:                      &tx.ID,
		Name:                    tx.Name,
		Amount:                  tx.Amount,
		Type:                    tx.Type,
		Category:                tx.Category,
		PaymentMethod:           tx.PaymentMethod,
		Date:                    tx.Date,
		AccountID:               tx.AccountID,
		TransferAccountID:       tx.TransferAccountID,
		Status:                  tx.Status,
		FulfillmentType:         tx.FulfillmentType,
		InstallmentIndex:        tx.InstallmentIndex,
		InstallmentCount:        tx.InstallmentCount,
		InstallmentValueIsTotal: tx.InstallmentValueIsTotal,
		RecurrenceType:          tx.RecurrenceType,
		RecurrenceInterval:      tx.RecurrenceInterval,
		RecurrenceEndsAt:        tx.RecurrenceEndsAt,
		RecurrenceSkipWeekdays:  tx.RecurrenceSkipWeekdays,
	}

	// Total-valued installments store the share; the request carries the total.
	if tx.InstallmentValueIsTotal && tx.InstallmentTotal != nil {
		params.Amount = *tx.InstallmentTotal
	}

	return params
}
