package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/likexephinh-dev/ThuChiPro/internal/apperr"
	"github.com/likexephinh-dev/ThuChiPro/internal/category"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

type categoriesState int

const (
	categoriesStateList categoriesState = iota
	categoriesStateEditing
	categoriesStateConfirmDelete
)

// categoryItem wraps a category to implement list.Item.
type categoryItem struct {
	c category.Category
}

func (i categoryItem) Title() string       { return i.c.Name }
func (i categoryItem) Description() string { return i.c.ID }
func (i categoryItem) FilterValue() string { return i.c.Name }

type CategoriesModel struct {
	CommonModel

	state   categoriesState
	typ     category.Type
	list    list.Model
	form    *huh.Form
	editing *categoryItem

	// Form field bindings
	formName *string

	status string
	err    error
}

func NewCategoriesModel(sess *session.Session) CategoriesModel {
	l := list.New([]list.Item{}, categoryDelegate{}, 60, 20)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	m := CategoriesModel{
		CommonModel: CommonModel{sess: sess},
		typ:         category.TypeExpense,
		list:        l,
		formName:    new(string),
	}
	m.reload()

	return m
}

func (m CategoriesModel) Title() string { return "Categories" }

func (m CategoriesModel) ShortHelp() string {
	switch m.state {
	case categoriesStateEditing:
		return "Esc: cancel | Enter: save"
	case categoriesStateConfirmDelete:
		return "y: delete | n: cancel"
	}

	return "Esc: back | Tab: income/expense | a: add | r: rename | x: delete | /: filter"
}

func (m CategoriesModel) Init() tea.Cmd {
	return nil
}

func (m CategoriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categorySavedMsg:
		m.state = categoriesStateList
		m.form = nil
		m.editing = nil
		m.err = msg.err

		if msg.err == nil {
			m.status = msg.status
		}

		m.reload()

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case categoriesStateList:
		return m.updateList(msg)
	case categoriesStateEditing:
		return m.updateEditing(msg)
	case categoriesStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m CategoriesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "tab":
			if m.typ == category.TypeExpense {
				m.typ = category.TypeIncome
			} else {
				m.typ = category.TypeExpense
			}

			m.status = ""
			m.err = nil
			m.reload()

			return m, nil
		case "a":
			return m.startEditing(nil)
		case "r":
			if item, ok := m.list.SelectedItem().(categoryItem); ok {
				return m.startEditing(&item)
			}

			return m, nil
		case "x":
			if _, ok := m.list.SelectedItem().(categoryItem); ok {
				m.state = categoriesStateConfirmDelete
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m CategoriesModel) startEditing(item *categoryItem) (tea.Model, tea.Cmd) {
	m.editing = item
	*m.formName = ""

	title := "New " + FormatType(m.typ) + " category"
	if item != nil {
		*m.formName = item.c.Name
		title = "Rename " + item.c.Name
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title(title).
				Value(m.formName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = categoriesStateEditing
	m.err = nil

	return m, m.form.Init()
}

func (m CategoriesModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = categoriesStateList
			m.form = nil
			m.editing = nil

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

	return m, m.saveCmd()
}

func (m CategoriesModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if item, ok := m.list.SelectedItem().(categoryItem); ok {
			return m, m.deleteCmd(item.c)
		}

		m.state = categoriesStateList
	case "n", "N", "esc":
		m.state = categoriesStateList
	}

	return m, nil
}

func (m *CategoriesModel) reload() {
	cats := m.sess.Categories(m.typ)

	items := make([]list.Item, len(cats))
	for i, c := range cats {
		items[i] = categoryItem{c: c}
	}

	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s categories (%d)", FormatType(m.typ), len(cats))
}

func (m CategoriesModel) View() string {
	body := m.list.View()

	switch m.state {
	case categoriesStateEditing:
		if m.form != nil {
			body = m.form.View()
		}
	case categoriesStateConfirmDelete:
		if item, ok := m.list.SelectedItem().(categoryItem); ok {
			body = lipgloss.JoinVertical(lipgloss.Left,
				body,
				"",
				fmt.Sprintf("Delete category %q? y: yes | n: no", item.c.Name),
			)
		}
	}

	return padded.Render(statusLine(m.status, m.err) + body)
}

// Messages

type categorySavedMsg struct {
	status string
	err    error
}

func (m CategoriesModel) saveCmd() tea.Cmd {
	var (
		sess    = m.sess
		typ     = m.typ
		name    = *m.formName
		editing = m.editing
	)

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		if editing != nil {
			c, err := sess.RenameCategory(ctx, editing.c.ID, typ, name)
			return categorySavedMsg{status: fmt.Sprintf("Renamed to %s.", c.Name), err: err}
		}

		c, err := sess.AddCategory(ctx, name, typ)

		return categorySavedMsg{status: fmt.Sprintf("Added %s.", c.Name), err: err}
	}
}

func (m CategoriesModel) deleteCmd(c category.Category) tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		ctx, cancel := OpCtx()
		defer cancel()

		err := sess.DeleteCategory(ctx, c.ID, c.Type)

		var inUse *apperr.InUseError
		if errors.As(err, &inUse) {
			err = fmt.Errorf("%s is used by %d transactions", c.Name, inUse.Count)
		}

		return categorySavedMsg{status: fmt.Sprintf("Deleted %s.", c.Name), err: err}
	}
}

// categoryDelegate renders items in the list.
type categoryDelegate struct{}

func (d categoryDelegate) Height() int                             { return 1 }
func (d categoryDelegate) Spacing() int                            { return 0 }
func (d categoryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d categoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(categoryItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	} else {
		title = "  " + title
	}

	fmt.Fprintf(w, "%s  %s", title, faintStyle.Render(i.c.ID))
}
