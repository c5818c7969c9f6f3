package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finboard/internal/app"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/database"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
)

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewList
	ViewForm
	ViewImport
	ViewExport
)

type model struct {
	session view.Session
	svc     *app.Services

	currentView View
	size        *tea.WindowSizeMsg

	dashboardView view.DashboardModel
	listView      view.ListModel
	formView      view.FormModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

func newModel(session view.Session, svc *app.Services) model {
	return model{
		session:     session,
		svc:         svc,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// open switches to v with a fresh screen, replaying the last known window size.
func (m model) open(v View) (tea.Model, tea.Cmd) {
	m.currentView = v

	var cmd tea.Cmd

	switch v {
	case ViewDashboard:
		m.dashboardView = view.NewDashboardModel(m.session, m.svc.Dashboard)
		cmd = m.dashboardView.Init()
	case ViewList:
		m.listView = view.NewListModel(m.session, m.svc.Transactions, m.svc.Matching)
		cmd = m.listView.Init()
	case ViewForm:
		m.formView = view.NewFormModel(m.session, m.svc.Transactions, m.svc.Accounts, m.svc.Subscriptions)
		cmd = m.formView.Init()
	case ViewImport:
		m.importView = view.NewImportModel(m.session, m.svc.Transactions, m.svc.Accounts, m.svc.Importer)
		cmd = m.importView.Init()
	case ViewExport:
		m.exportView = view.NewExportModel(m.session, m.svc.Export)
		cmd = m.exportView.Init()
	}

	if m.size != nil {
		size := *m.size
		cmd = tea.Batch(cmd, func() tea.Msg { return size })
	}

	return m, cmd
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				return m.open(ViewDashboard)
			case "2":
				return m.open(ViewList)
			case "3":
				return m.open(ViewForm)
			case "4":
				return m.open(ViewImport)
			case "5":
				return m.open(ViewExport)
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	case view.NewTransactionMsg:
		return m.open(ViewForm)
	}

	var (
		next tea.Model
		cmd  tea.Cmd
	)

	switch m.currentView {
	case ViewDashboard:
		next, cmd = m.dashboardView.Update(msg)
		m.dashboardView = next.(view.DashboardModel)
	case ViewList:
		next, cmd = m.listView.Update(msg)
		m.listView = next.(view.ListModel)
	case ViewForm:
		next, cmd = m.formView.Update(msg)
		m.formView = next.(view.FormModel)
	case ViewImport:
		next, cmd = m.importView.Update(msg)
		m.importView = next.(view.ImportModel)
	case ViewExport:
		next, cmd = m.exportView.Update(msg)
		m.exportView = next.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Bold(true).Render("Finboard") + "\n\n" +
				"1. Dashboard\n" +
				"2. Transactions\n" +
				"3. New Transaction\n" +
				"4. Import Statement\n" +
				"5. Export Transactions\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewList:
		return m.listView.View()
	case ViewForm:
		return m.formView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.TUI.UserID == "" {
		return errors.New("TUI_USER_ID must be set to the user the terminal client acts for")
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// The terminal belongs to bubbletea, so logs go to a file.
	logFile, err := os.OpenFile(cfg.TUI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	log := logger.NewWithWriter(logFile, cfg.Log.Level).With().
		Str("app", cfg.App.Name).
		Str("user_id", cfg.TUI.UserID).
		Logger()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return err
	}

	session := view.Session{
		UserID: cfg.TUI.UserID,
		Plan:   cfg.TUI.Plan,
		Loc:    loc,
		Log:    log,
	}

	log.Info().Msg("tui started")

	p := tea.NewProgram(newModel(session, app.NewServices(db, loc)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("tui failed")
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
