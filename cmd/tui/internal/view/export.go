package view

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const exportTimeout = 2 * time.Minute

type exportState int

const (
	exportStateMonth exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

type ExportModel struct {
	CommonModel
	session Session
	export  *export.Service

	state   exportState
	month   Month
	form    *huh.Form
	path    *string
	spinner spinner.Model
	summary string
	err     error
}

func NewExportModel(session Session, svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ExportModel{
		session: session,
		export:  svc,
		month:   CurrentMonth(time.Now(), session.Loc),
		path:    new(""),
		spinner: s,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateMonth:
		return "←/→: month | Enter: choose file | Esc: back"
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

// ExportFileName is the default file name for a month's export.
func ExportFileName(month Month) string {
	return fmt.Sprintf("transactions_%04d-%02d.csv", month.Year, month.Month)
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateMonth:
		return m.updateMonth(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateMonth(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "h":
		m.month = m.month.Prev()
	case "right", "l":
		m.month = m.month.Next()
	case "enter":
		*m.path = filepath.Join("exports", ExportFileName(m.month))
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("path").
					Title("Output file").
					Description("Parent directories are created when missing").
					Value(m.path),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = exportStatePath

		return m, m.form.Init()
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateMonth
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.month, *m.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateMonth:
		return style.Render(fmt.Sprintf("Export month: %s\n\n%s", accentStyle.Render(m.month.String()), faintStyle.Render(m.ShortHelp())))
	case exportStatePath:
		return style.Render(m.form.View())
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Exporting %s...", m.spinner.View(), m.month))
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")).Render("Export complete!"),
		"",
		m.summary,
	))
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd(month Month, path string) tea.Cmd {
	return func() tea.Msg {
		period, err := month.Period(m.session.Loc)
		if err != nil {
			return exportResultMsg{err: err}
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return exportResultMsg{err: err}
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := m.session.Ctx(exportTimeout)
		defer cancel()

		start, end := period.Start, period.End()

		n, err := m.export.WriteCSV(ctx, m.session.UserID, transaction.ListFilter{StartDate: &start, EndDate: &end}, f)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{body: fmt.Sprintf("%d transactions written to %s", n, path)}
	}
}
