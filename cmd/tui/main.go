package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/likexephinh-dev/ThuChiPro/cmd/tui/internal/view"
	"github.com/likexephinh-dev/ThuChiPro/internal/app"
	"github.com/likexephinh-dev/ThuChiPro/internal/config"
	"github.com/likexephinh-dev/ThuChiPro/internal/logging"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

const logFile = "thuchi-tui.log"

type model struct {
	sess *session.Session

	currentView View

	dashboardView  view.DashboardModel
	categoriesView view.CategoriesModel
	reportsView    view.ReportsModel
	backupView     view.BackupModel
}

type View int

const (
	ViewMenu       View = 0
	ViewDashboard  View = 1
	ViewCategories View = 2
	ViewReports    View = 3
	ViewBackup     View = 4
)

func initialModel(sess *session.Session) model {
	return model{
		sess:           sess,
		currentView:    ViewMenu,
		dashboardView:  view.NewDashboardModel(sess),
		categoriesView: view.NewCategoriesModel(sess),
		reportsView:    view.NewReportsModel(sess),
		backupView:     view.NewBackupModel(sess),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.sess)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewCategories
				m.categoriesView = view.NewCategoriesModel(m.sess)

				return m, m.categoriesView.Init()
			case "3":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.sess)

				return m, m.reportsView.Init()
			case "4":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.sess)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewCategories:
		var newModel tea.Model
		newModel, cmd = m.categoriesView.Update(msg)
		m.categoriesView = newModel.(view.CategoriesModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"ThuChi · Quản lý thu chi\n\n" +
				"1. Dashboard\n" +
				"2. Categories\n" +
				"3. Reports\n" +
				"4. Backup & Sync\n\n" +
				"q. Quit",
		)
	case ViewDashboard:
		current = m.dashboardView
	case ViewCategories:
		current = m.categoriesView
	case ViewReports:
		current = m.reportsView
	case ViewBackup:
		current = m.backupView
	default:
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return title + "\n" + current.View() + "\n" + help
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file.
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(logging.New(f, cfg.App.LogLevel))

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a.Session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
	}
}
