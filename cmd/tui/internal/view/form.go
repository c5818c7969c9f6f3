package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const inputDateLayout = "02/01/2006"

// NewTransactionMsg asks the program to open the new-transaction form.
type NewTransactionMsg struct{}

func NewTransaction() tea.Msg {
	return NewTransactionMsg{}
}

// TransactionFields are the raw form inputs.
type TransactionFields struct {
	Name          string
	Amount        string
	Type          transaction.Type
	Category      transaction.Category
	PaymentMethod transaction.PaymentMethod
	Date          string
	Status        transaction.Status
	AccountID     uuid.UUID
	TransferTo    uuid.UUID

	Installments   string
	ValueIsTotal   bool
	Recurrence     transaction.RecurrenceType
	RecurrenceEnds string
}

// Params turns the inputs into an upsert request. Dates are calendar days in
// loc. More than one installment makes the transaction an installment
// purchase; otherwise a recurrence other than NONE makes it a forecast, which
// only expands when it has an end date.
func (f TransactionFields) Params(loc *time.Location) (transaction.UpsertParams, error) {
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.Amount), ",", "."))
	if err != nil {
		return transaction.UpsertParams{}, fmt.Errorf("amount: %q is not a number", f.Amount)
	}

	date, err := parseInputDate(f.Date, loc)
	if err != nil {
		return transaction.UpsertParams{}, fmt.Errorf("date: %w", err)
	}

	params := transaction.UpsertParams{
		Name:            strings.TrimSpace(f.Name),
		Amount:          amount,
		Type:            f.Type,
		Category:        f.Category,
		PaymentMethod:   f.PaymentMethod,
		Date:            date,
		AccountID:       f.AccountID,
		Status:          f.Status,
		FulfillmentType: transaction.FulfillmentImmediate,
		RecurrenceType:  f.Recurrence,
	}

	if f.Type == transaction.TypeTransfer {
		params.TransferAccountID = &f.TransferTo
	}

	if s := strings.TrimSpace(f.Installments); s != "" {
		count, err := strconv.Atoi(s)
		if err != nil {
			return transaction.UpsertParams{}, fmt.Errorf("installments: %q is not a number", s)
		}

		if count > 1 {
			params.FulfillmentType = transaction.FulfillmentInstallment
			params.InstallmentCount = &count
			params.InstallmentIndex = new(1)
			params.InstallmentValueIsTotal = f.ValueIsTotal
			params.RecurrenceType = transaction.RecurrenceNone
		}
	}

	if params.FulfillmentType == transaction.FulfillmentImmediate && f.Recurrence != transaction.RecurrenceNone {
		params.FulfillmentType = transaction.FulfillmentForecast

		if strings.TrimSpace(f.RecurrenceEnds) != "" {
			ends, err := parseInputDate(f.RecurrenceEnds, loc)
			if err != nil {
				return transaction.UpsertParams{}, fmt.Errorf("recurrence end: %w", err)
			}

			params.RecurrenceEndsAt = &ends
		}

		params.RecurrenceInterval = new(1)
	}

	return params, nil
}

func parseInputDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	t, err := time.ParseInLocation(inputDateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a DD/MM/YYYY date", s)
	}

	return t, nil
}

type formState int

const (
	formStateLoading formState = iota
	formStateEditing
	formStateSaving
	formStateResult
)

// FormModel creates a transaction for the session user.
type FormModel struct {
	CommonModel
	session       Session
	transactions  *transaction.Service
	accounts      *account.Service
	subscriptions *subscription.Service

	state  formState
	form   *huh.Form
	fields *TransactionFields
	status string
	err    error
}

func NewFormModel(session Session, txSvc *transaction.Service, accSvc *account.Service, subSvc *subscription.Service) FormModel {
	now := time.Now()
	if session.Loc != nil {
		now = now.In(session.Loc)
	}

	return FormModel{
		session:       session,
		transactions:  txSvc,
		accounts:      accSvc,
		subscriptions: subSvc,
		fields: &TransactionFields{
			Type:          transaction.TypeExpense,
			Category:      transaction.CategoryOther,
			PaymentMethod: transaction.PaymentPix,
			Status:        transaction.StatusPending,
			Recurrence:    transaction.RecurrenceNone,
			Date:          now.Format(inputDateLayout),
		},
	}
}

func (m FormModel) Title() string { return "New Transaction" }

func (m FormModel) ShortHelp() string {
	if m.state == formStateResult {
		return "Enter: new transaction | Esc: back"
	}

	return "Tab/Enter: next field | Esc: back"
}

func (m FormModel) Init() tea.Cmd {
	return m.loadAccountsCmd()
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case formAccountsMsg:
		if msg.err != nil {
			m.state = formStateResult
			m.err = msg.err

			return m, nil
		}

		m.form = m.buildForm(msg.accounts)
		m.state = formStateEditing

		return m, m.form.Init()

	case formSavedMsg:
		m.state = formStateResult
		m.err = msg.err
		m.status = msg.status

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == formStateResult && msg.Type == tea.KeyEnter {
			fresh := NewFormModel(m.session, m.transactions, m.accounts, m.subscriptions)
			return fresh, fresh.Init()
		}
	}

	if m.state != formStateEditing {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = formStateSaving

	return m, m.saveCmd(*m.fields)
}

func (m FormModel) buildForm(accounts []*account.Account) *huh.Form {
	accountOptions := make([]huh.Option[uuid.UUID], 0, len(accounts))
	for _, a := range accounts {
		accountOptions = append(accountOptions, huh.NewOption(a.Name, a.ID))
	}

	if len(accounts) > 0 {
		m.fields.AccountID = accounts[0].ID
		m.fields.TransferTo = accounts[len(accounts)-1].ID
	}

	typeOptions := huh.NewOptions(
		transaction.TypeExpense,
		transaction.TypeDeposit,
		transaction.TypeTransfer,
	)

	f := m.fields

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(required("name")),
			huh.NewInput().Title("Amount").Placeholder("0,00").Value(&f.Amount).Validate(func(s string) error {
				d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
				if err != nil || !d.IsPositive() {
					return fmt.Errorf("enter a positive amount")
				}
				return nil
			}),
			huh.NewSelect[transaction.Type]().Title("Type").Options(typeOptions...).Value(&f.Type),
			huh.NewInput().Title("Date").Placeholder("DD/MM/YYYY").Value(&f.Date).Validate(func(s string) error {
				_, err := parseInputDate(s, m.session.Loc)
				return err
			}),
		),
		huh.NewGroup(
			huh.NewSelect[transaction.Category]().Title("Category").Options(huh.NewOptions(transaction.Categories...)...).Value(&f.Category),
			huh.NewSelect[transaction.PaymentMethod]().Title("Payment method").Options(huh.NewOptions(transaction.PaymentMethods...)...).Value(&f.PaymentMethod),
			huh.NewSelect[transaction.Status]().Title("Status").Options(huh.NewOptions(transaction.StatusPending, transaction.StatusExecuted)...).Value(&f.Status),
			huh.NewSelect[uuid.UUID]().Title("Account").Options(accountOptions...).Value(&f.AccountID),
		),
		huh.NewGroup(
			huh.NewSelect[uuid.UUID]().Title("Transfer to").Options(accountOptions...).Value(&f.TransferTo),
		).WithHideFunc(func() bool { return f.Type != transaction.TypeTransfer }),
		huh.NewGroup(
			huh.NewInput().Title("Installments").Description("Leave empty for a single payment").Value(&f.Installments),
			huh.NewConfirm().Title("Amount is the total of all installments?").Value(&f.ValueIsTotal),
			huh.NewSelect[transaction.RecurrenceType]().Title("Repeats").Options(huh.NewOptions(transaction.RecurrenceTypes...)...).Value(&f.Recurrence),
			huh.NewInput().Title("Repeats until").Placeholder("DD/MM/YYYY").Value(&f.RecurrenceEnds),
		),
	).WithWidth(50).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func (m FormModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case formStateLoading:
		return style.Render("Loading accounts...")
	case formStateEditing:
		return style.Render(lipgloss.NewStyle().Bold(true).Render(m.Title()) + "\n\n" + m.form.View())
	case formStateSaving:
		return style.Render("Saving...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp()))
	}

	return style.Render(successStyle.Render(m.status) + "\n\n" + faintStyle.Render(m.ShortHelp()))
}

type formAccountsMsg struct {
	accounts []*account.Account
	err      error
}

type formSavedMsg struct {
	status string
	err    error
}

func (m FormModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		accounts, err := m.accounts.EnsureDefault(ctx, m.session.UserID)

		return formAccountsMsg{accounts: accounts, err: err}
	}
}

func (m FormModel) saveCmd(fields TransactionFields) tea.Cmd {
	return func() tea.Msg {
		params, err := fields.Params(m.session.Loc)
		if err != nil {
			return formSavedMsg{err: err}
		}

		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		if err := m.subscriptions.RequireTransactionSlot(ctx, m.session.UserID, m.session.Plan); err != nil {
			return formSavedMsg{err: err}
		}

		tx, err := m.transactions.Upsert(ctx, m.session.UserID, params)
		if err != nil {
			return formSavedMsg{err: err}
		}

		return formSavedMsg{status: fmt.Sprintf("Saved %s (%s).", tx.Name, FormatAmount(tx.Amount))}
	}
}
