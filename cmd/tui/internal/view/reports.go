package view

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/report"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

type reportsState int

const (
	reportsStateMonthly reportsState = iota
	reportsStateTimeframe
	reportsStateCategoryPick
	reportsStateCategory
	reportsStatePath
	reportsStateExporting
)

// exportJob writes one export into dir and returns the written path.
type exportJob func(dir string) (string, error)

type ReportsModel struct {
	CommonModel

	state      reportsState
	returnTo   reportsState
	rng        filter.Range
	picker     TimeframePicker
	monthly    []report.MonthlyPoint
	catReport  session.CategoryReport
	table      table.Model
	form       *huh.Form
	categoryID *string
	dir        *string
	job        exportJob
	spinner    spinner.Model

	status string
	err    error
}

func NewReportsModel(sess *session.Session) ReportsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := "./exports"

	m := ReportsModel{
		CommonModel: CommonModel{sess: sess},
		rng:         filter.YearRange(sess.Now()),
		picker:      NewTimeframePicker(TimeframeThisYear, sess.Now),
		table:       table.New(table.WithFocused(true), table.WithHeight(14)),
		categoryID:  new(string),
		dir:         &dir,
		spinner:     s,
	}
	m.loadMonthly()

	return m
}

func (m ReportsModel) Title() string { return "Reports" }

func (m ReportsModel) ShortHelp() string {
	switch m.state {
	case reportsStateMonthly:
		return "Esc: back | d: dates | c: category report | x: export CSV | l: export full ledger"
	case reportsStateCategory:
		return "Esc: monthly report | x: export CSV"
	case reportsStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ReportsModel) Init() tea.Cmd {
	return nil
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.rng = msg.Range
		m.loadMonthly()
		m.state = reportsStateMonthly

		return m, nil

	case exportResultMsg:
		m.state = m.returnTo
		m.err = msg.err

		if msg.err == nil {
			m.status = "Exported " + msg.path
		}

		return m, nil
	}

	switch m.state {
	case reportsStateMonthly:
		return m.updateMonthly(msg)
	case reportsStateTimeframe:
		return m.updateTimeframe(msg)
	case reportsStateCategoryPick:
		return m.updateCategoryPick(msg)
	case reportsStateCategory:
		return m.updateCategory(msg)
	case reportsStatePath:
		return m.updatePath(msg)
	case reportsStateExporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReportsModel) updateMonthly(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "d":
			m.picker.Reset()
			m.state = reportsStateTimeframe

			return m, nil
		case "c":
			return m.startCategoryPick()
		case "x":
			points, rng := m.monthly, m.rng

			return m.askPath(func(dir string) (string, error) {
				return writeExport(dir, report.MonthlyFilename(rng.Start, rng.End), func(w io.Writer) error {
					return report.WriteMonthlyCSV(w, points)
				})
			})
		case "l":
			sess := m.sess

			return m.askPath(func(dir string) (string, error) {
				name := report.LedgerFilename(sess.Now().Format(time.DateOnly))

				return writeExport(dir, name, func(w io.Writer) error {
					return report.WriteTransactionsCSV(w, sess.Transactions())
				})
			})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReportsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = reportsStateMonthly
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ReportsModel) startCategoryPick() (tea.Model, tea.Cmd) {
	var opts []huh.Option[string]

	for _, t := range []category.Type{category.TypeExpense, category.TypeIncome} {
		for _, c := range m.sess.Categories(t) {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s · %s", FormatType(t), c.Name), c.ID))
		}
	}

	if len(opts) == 0 {
		m.status = "No categories."
		return m, nil
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(opts...).
				Value(m.categoryID),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = reportsStateCategoryPick

	return m, m.form.Init()
}

func (m ReportsModel) updateCategoryPick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = reportsStateMonthly
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

	rep, err := m.sess.CategoryReport(*m.categoryID, m.rng)
	if err != nil {
		m.err = err
		m.state = reportsStateMonthly

		return m, nil
	}

	m.catReport = rep
	m.setCategoryTable()
	m.state = reportsStateCategory

	return m, nil
}

func (m ReportsModel) updateCategory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.loadMonthly()
			m.state = reportsStateMonthly

			return m, nil
		case "x":
			rep := m.catReport

			return m.askPath(func(dir string) (string, error) {
				name := report.CategoryFilename(rep.Category.Name, rep.Range.Start, rep.Range.End)

				return writeExport(dir, name, func(w io.Writer) error {
					return report.WriteTransactionsCSV(w, rep.Transactions)
				})
			})
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReportsModel) askPath(job exportJob) (tea.Model, tea.Cmd) {
	m.job = job
	m.returnTo = m.state
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.dir),
		),
	).WithWidth(50).WithShowHelp(false)
	m.state = reportsStatePath
	m.status = ""
	m.err = nil

	return m, m.form.Init()
}

func (m ReportsModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = m.returnTo
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

	m.state = reportsStateExporting

	return m, tea.Batch(m.spinner.Tick, runExportCmd(m.job, *m.dir))
}

func (m *ReportsModel) loadMonthly() {
	m.monthly = m.sess.MonthlyReport(m.rng)

	rows := make([]table.Row, 0, len(m.monthly))
	for _, p := range m.monthly {
		rows = append(rows, table.Row{p.Month, FormatAmount(p.Income), FormatAmount(p.Expense), FormatAmount(p.Net)})
	}

	m.table.SetRows(nil)
	m.table.SetColumns([]table.Column{
		{Title: "Tháng", Width: 10},
		{Title: "Tổng Thu", Width: 18},
		{Title: "Tổng Chi", Width: 18},
		{Title: "Lợi Nhuận", Width: 18},
	})
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m *ReportsModel) setCategoryTable() {
	rows := make([]table.Row, 0, len(m.catReport.Transactions))
	for _, tx := range m.catReport.Transactions {
		rows = append(rows, table.Row{tx.Date, tx.Description, FormatAmount(tx.Amount)})
	}

	m.table.SetRows(nil)
	m.table.SetColumns([]table.Column{
		{Title: "Ngày", Width: 12},
		{Title: "Mô Tả", Width: 40},
		{Title: "Số Tiền", Width: 18},
	})
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m ReportsModel) View() string {
	var body string

	switch m.state {
	case reportsStateTimeframe:
		body = m.picker.View()
	case reportsStateCategoryPick, reportsStatePath:
		body = m.form.View()
	case reportsStateExporting:
		body = fmt.Sprintf("%s Writing CSV...", m.spinner.View())
	case reportsStateCategory:
		body = m.categoryView()
	default:
		body = m.monthlyView()
	}

	return padded.Render(statusLine(m.status, m.err) + body)
}

func (m ReportsModel) monthlyView() string {
	var income, expense decimal.Decimal
	for _, p := range m.monthly {
		income = income.Add(p.Income)
		expense = expense.Add(p.Expense)
	}

	header := fmt.Sprintf("Monthly report: %s", activeStyle(describeRange(m.rng)))

	if len(m.monthly) == 0 {
		return header + "\n\n" + faintStyle.Render("No transactions in this range.")
	}

	totals := fmt.Sprintf("Income: %s   Expense: %s   Net: %s",
		incomeStyle.Render(FormatAmount(income)),
		expenseStyle.Render(FormatAmount(expense)),
		activeStyle(FormatAmount(income.Sub(expense))),
	)

	return lipgloss.JoinVertical(lipgloss.Left, header, totals, "", m.table.View())
}

func (m ReportsModel) categoryView() string {
	rep := m.catReport

	var b strings.Builder

	fmt.Fprintf(&b, "%s · %s\n", activeStyle(rep.Category.Name), describeRange(rep.Range))

	var total decimal.Decimal
	for _, p := range rep.Series {
		total = total.Add(p.Amount)
	}

	fmt.Fprintf(&b, "%d transactions on %d days, total %s\n\n", len(rep.Transactions), len(rep.Series), FormatAmount(total))
	b.WriteString(m.table.View())

	return b.String()
}

// writeExport renders a CSV into memory first so that an empty report
// leaves no file behind.
func writeExport(dir, name string, render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	return path, nil
}

type exportResultMsg struct {
	path string
	err  error
}

func runExportCmd(job exportJob, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := job(dir)
		return exportResultMsg{path: path, err: err}
	}
}
