package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/likexephinh-dev/ThuChiPro/internal/filter"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
	"github.com/likexephinh-dev/ThuChiPro/internal/transaction"
)

type dashboardState int

const (
	dashboardStateBrowse dashboardState = iota
	dashboardStateTimeframe
	dashboardStateForm
	dashboardStateConfirmDelete
)

var typeCycle = []filter.TypeFilter{filter.TypeAll, filter.TypeIncome, filter.TypeExpense}

type DashboardModel struct {
	CommonModel

	state  dashboardState
	table  table.Model
	picker TimeframePicker
	form   *huh.Form
	draft  *txDraft

	dash   session.Dashboard
	status string
	err    error
}

func NewDashboardModel(sess *session.Session) DashboardModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 5},
		{Title: "Category", Width: 20},
		{Title: "Amount", Width: 16},
		{Title: "Description", Width: 40},
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

	return DashboardModel{
		CommonModel: CommonModel{sess: sess},
		table:       t,
		picker:      NewTimeframePicker(TimeframeThisMonth, sess.Now),
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	switch m.state {
	case dashboardStateForm:
		return "Navigate form | Esc: cancel"
	case dashboardStateConfirmDelete:
		return "y: delete | n: cancel"
	case dashboardStateTimeframe:
		return "Esc: cancel | Enter: select"
	}

	return "Esc: back | a: add | e: edit | x: delete | t: type | c: category | d: dates | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.dash = msg.dash
		m.refreshTable()

		return m, nil

	case txSavedMsg:
		m.state = dashboardStateBrowse
		m.form = nil
		m.draft = nil
		m.table.Focus()
		m.err = msg.err

		if msg.err == nil {
			m.status = msg.status
		}

		return m, m.loadCmd()

	case TimeframeSelectedMsg:
		m.err = m.sess.SetDateRange(msg.Range)
		m.state = dashboardStateBrowse
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-16, 5))

		return m, nil
	}

	switch m.state {
	case dashboardStateBrowse:
		return m.updateBrowse(msg)
	case dashboardStateTimeframe:
		return m.updateTimeframe(msg)
	case dashboardStateForm:
		return m.updateForm(msg)
	case dashboardStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m DashboardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "t":
			m.cycleType()
			return m, m.loadCmd()
		case "c":
			m.cycleCategory()
			return m, m.loadCmd()
		case "d":
			m.picker.Reset()
			m.state = dashboardStateTimeframe
			m.table.Blur()

			return m, nil
		case "a":
			return m.openForm(newTxDraft(m.sess.Now().Format(time.DateOnly)))
		case "e":
			tx, ok := m.selected()
			if !ok {
				return m, nil
			}

			return m.openForm(draftFrom(tx))
		case "x":
			if _, ok := m.selected(); ok {
				m.state = dashboardStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *DashboardModel) cycleType() {
	idx := slices.Index(typeCycle, m.dash.Criteria.Type)
	next := typeCycle[(idx+1)%len(typeCycle)]

	if err := m.sess.SetTypeFilter(next); err != nil {
		m.err = err
	}
}

// cycleCategory steps through "all" and the categories of the selected
// type. It does nothing while the type filter is "all".
func (m *DashboardModel) cycleCategory() {
	if len(m.dash.CategoryOptions) == 0 {
		return
	}

	ids := []string{filter.CategoryAll}
	for _, c := range m.dash.CategoryOptions {
		ids = append(ids, c.ID)
	}

	idx := slices.Index(ids, m.dash.Criteria.CategoryID)
	m.sess.SetCategoryFilter(ids[(idx+1)%len(ids)])
}

func (m DashboardModel) selected() (transaction.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.dash.Transactions) {
		return transaction.Transaction{}, false
	}

	return m.dash.Transactions[idx], true
}

func (m DashboardModel) openForm(d *txDraft) (tea.Model, tea.Cmd) {
	m.draft = d
	m.form = newTxForm(m.sess, d)
	m.state = dashboardStateForm
	m.err = nil
	m.table.Blur()

	return m, m.form.Init()
}

func (m DashboardModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = dashboardStateBrowse
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m DashboardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = dashboardStateBrowse
			m.form = nil
			m.draft = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(m.draft)
}

func (m DashboardModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		tx, ok := m.selected()
		if !ok {
			m.state = dashboardStateBrowse
			return m, nil
		}

		return m, m.deleteCmd(tx.ID)
	case "n", "N", "esc":
		m.state = dashboardStateBrowse
	}

	return m, nil
}

func (m DashboardModel) View() string {
	c := m.dash.Criteria

	categoryLabel := "All"
	for _, opt := range m.dash.CategoryOptions {
		if opt.ID == c.CategoryID {
			categoryLabel = opt.Name
		}
	}

	header := fmt.Sprintf(
		"[d] Dates: %s | [t] Type: %s | [c] Category: %s",
		activeStyle(describeRange(c.Range)),
		activeStyle(string(c.Type)),
		activeStyle(categoryLabel),
	)

	totals := fmt.Sprintf(
		"Income: %s   Expense: %s   Balance: %s",
		incomeStyle.Render(FormatAmount(m.dash.Totals.Income)),
		expenseStyle.Render(FormatAmount(m.dash.Totals.Expense)),
		activeStyle(FormatAmount(m.dash.Totals.Balance)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		totals,
		"",
		tableView,
		m.breakdownView(),
	)

	switch m.state {
	case dashboardStateTimeframe:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.panel(m.picker.View()))
	case dashboardStateForm:
		title := "Add Transaction"
		if m.draft != nil && m.draft.editing() {
			title = "Edit Transaction"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.panel(title+"\n\n"+m.form.View()))
	case dashboardStateConfirmDelete:
		if tx, ok := m.selected(); ok {
			prompt := fmt.Sprintf("Delete %q (%s)?\n\ny: yes | n: no", tx.Description, FormatAmount(tx.Amount))
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.panel(prompt))
		}
	}

	return padded.Render(statusLine(m.status, m.err) + content)
}

func (m DashboardModel) panel(body string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(50).
		Render(body)
}

func (m DashboardModel) breakdownView() string {
	if len(m.dash.ByCategory) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("\nExpenses by category:\n")

	for _, c := range m.dash.ByCategory {
		fmt.Fprintf(&b, "  %-24s %s\n", c.Name, expenseStyle.Render(FormatAmount(c.Amount)))
	}

	return b.String()
}

func (m *DashboardModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.dash.Transactions))
	for _, tx := range m.dash.Transactions {
		rows = append(rows, table.Row{
			tx.Date,
			FormatType(tx.Type),
			tx.Category.Name,
			FormatAmount(tx.Amount),
			tx.Description,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Messages

type dashboardMsg struct {
	dash session.Dashboard
}

func (m DashboardModel) loadCmd() tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		return dashboardMsg{dash: sess.Dashboard()}
	}
}

type txSavedMsg struct {
	status string
	err    error
}

func (m DashboardModel) saveCmd(d *txDraft) tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		in, err := d.input()
		if err != nil {
			return txSavedMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		if d.editing() {
			_, err = sess.UpdateTransaction(ctx, d.ID, in)
			return txSavedMsg{status: "Transaction updated.", err: err}
		}

		_, err = sess.AddTransaction(ctx, in)

		return txSavedMsg{status: "Transaction added.", err: err}
	}
}

func (m DashboardModel) deleteCmd(id string) tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := sess.DeleteTransaction(ctx, id)

		return txSavedMsg{status: "Transaction deleted.", err: err}
	}
}
