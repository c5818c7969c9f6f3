package view

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBankSelect importState = iota
	importStateAccountSelect
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	session      Session
	transactions *transaction.Service
	accounts     *account.Service
	importer     *importer.Service

	state        importState
	filePicker   filepicker.Model
	bankOptions  []importer.Bank
	bankCursor   int
	selectedBank importer.Bank

	accountOptions  []*account.Account
	accountCursor   int
	selectedAccount *account.Account

	newParams    []transaction.ImportParams
	conflicts    []transaction.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(session Session, txSvc *transaction.Service, accSvc *account.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		session:      session,
		transactions: txSvc,
		accounts:     accSvc,
		importer:     impSvc,
		filePicker:   fp,
		bankOptions:  impSvc.Banks(),
		selected:     make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Statement" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateConflicts {
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadAccountsCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateBankSelect:
			return m.updateBankSelect(msg)
		case importStateAccountSelect:
			return m.updateAccountSelect(msg)
		case importStateConflicts:
			return m.updateConflicts(msg)
		}

	case importAccountsMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.accountOptions = msg.accounts

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d transactions into %s.", len(msg.result.Imported), m.selectedAccount.Name)

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = fmt.Sprintf("%d possible duplicates (%d new rows will be imported)", len(m.conflicts), len(m.newParams))
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d transactions into %s.", msg.count, m.selectedAccount.Name)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateAccountSelect:
		m.state = importStateBankSelect
		return m, nil
	case importStateFilePick:
		m.state = importStateAccountSelect
		return m, nil
	case importStateResult, importStateConflicts:
		m.state = importStateBankSelect
		m.err = nil
		m.status = ""
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

func (m ImportModel) updateBankSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.bankCursor > 0 {
			m.bankCursor--
		}
	case tea.KeyDown:
		if m.bankCursor < len(m.bankOptions)-1 {
			m.bankCursor++
		}
	case tea.KeyEnter:
		if len(m.bankOptions) == 0 {
			return m, nil
		}

		m.selectedBank = m.bankOptions[m.bankCursor]
		m.state = importStateAccountSelect
	}

	return m, nil
}

func (m ImportModel) updateAccountSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.accountCursor > 0 {
			m.accountCursor--
		}
	case tea.KeyDown:
		if m.accountCursor < len(m.accountOptions)-1 {
			m.accountCursor++
		}
	case tea.KeyEnter:
		if len(m.accountOptions) == 0 {
			return m, nil
		}

		m.selectedAccount = m.accountOptions[m.accountCursor]
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.selected[idx] = !m.selected[idx]

		return m, nil
	case "a":
		for i := range m.conflicts {
			m.selected[i] = true
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateBankSelect:
		names := make([]string, len(m.bankOptions))
		for i, b := range m.bankOptions {
			names[i] = string(b)
		}

		return pickerView("Select bank:", names, m.bankCursor)
	case importStateAccountSelect:
		names := make([]string, len(m.accountOptions))
		for i, a := range m.accountOptions {
			names[i] = a.Name
		}

		return pickerView("Import into account:", names, m.accountCursor)
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select statement to import (%s → %s):\n\n%s", m.selectedBank, m.selectedAccount.Name, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View() + "\n" + faintStyle.Render(m.ShortHelp()))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func pickerView(title string, options []string, cursor int) string {
	s := title + "\n\n"

	for i, o := range options {
		mark := " "
		if i == cursor {
			mark = ">"
		}

		s += fmt.Sprintf("%s %s\n", mark, o)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) viewResult() string {
	style := successStyle
	if m.err != nil {
		style = errorStyle
	}

	return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type importAccountsMsg struct {
	accounts []*account.Account
	err      error
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	err   error
}

func (m ImportModel) loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(0)
		defer cancel()

		accounts, err := m.accounts.EnsureDefault(ctx, m.session.UserID)

		return importAccountsMsg{accounts: accounts, err: err}
	}
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	bank := m.selectedBank
	accountID := m.selectedAccount.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := m.session.Ctx(importTimeout)
		defer cancel()

		params, err := m.importer.Parse(ctx, m.session.UserID, bank, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		result, err := m.transactions.ImportBatch(ctx, m.session.UserID, accountID, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// confirmCmd imports the conflict-free rows plus the conflicts the user
// chose to keep.
func (m ImportModel) confirmCmd() tea.Cmd {
	accountID := m.selectedAccount.ID
	params := SelectedImports(m.newParams, m.conflicts, m.selected)

	return func() tea.Msg {
		ctx, cancel := m.session.Ctx(importTimeout)
		defer cancel()

		txs, err := m.transactions.CreateBatch(ctx, m.session.UserID, accountID, params)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs)}
	}
}

// SelectedImports returns the new rows followed by the incoming side of every
// selected conflict.
func SelectedImports(newParams []transaction.ImportParams, conflicts []transaction.Conflict, selected map[int]bool) []transaction.ImportParams {
	out := make([]transaction.ImportParams, 0, len(newParams)+len(conflicts))
	out = append(out, newParams...)

	for i, c := range conflicts {
		if selected[i] {
			out = append(out, c.Incoming)
		}
	}

	return out
}

// Conflict list item

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return i.conflict.Incoming.Name }
func (i conflictItem) Description() string { return i.conflict.Incoming.RawDescription }
func (i conflictItem) FilterValue() string { return i.conflict.Incoming.RawDescription }

// Conflict list delegate

type conflictDelegate struct {
	selected map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.selected[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming
	existing := item.conflict.Existing

	line1 := fmt.Sprintf("%s%s %s  %s  %s  %s",
		cursor, checkbox,
		FormatDate(incoming.Date),
		incoming.Type,
		FormatAmount(incoming.Amount),
		incoming.Name,
	)

	line2 := faintStyle.Render(fmt.Sprintf("      Existing: %s  %s  %s [%s]",
		FormatDate(existing.Date),
		FormatAmount(existing.Amount),
		existing.Name,
		existing.Status,
	))

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
