package view

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/likexephinh-dev/ThuChiPro/internal/backup"
	"github.com/likexephinh-dev/ThuChiPro/internal/session"
)

type backupState int

const (
	backupStateMenu backupState = iota
	backupStateExportPath
	backupStateFilePick
	backupStateConfirm
	backupStateWorking
)

type BackupModel struct {
	CommonModel

	state      backupState
	filePicker filepicker.Model
	form       *huh.Form
	spinner    spinner.Model

	dir       *string
	confirmed *bool
	// pending runs once the confirm form is accepted.
	pending tea.Cmd
	working string

	status string
	err    error
}

func NewBackupModel(sess *session.Session) BackupModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".json"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	dir := "./backups"

	return BackupModel{
		CommonModel: CommonModel{sess: sess},
		filePicker:  fp,
		spinner:     s,
		dir:         &dir,
		confirmed:   new(bool),
	}
}

func (m BackupModel) Title() string { return "Backup & Sync" }

func (m BackupModel) ShortHelp() string {
	switch m.state {
	case backupStateFilePick:
		return "Esc: cancel | Enter: select file"
	case backupStateWorking:
		return m.working
	}

	return "Esc: back | e: export backup | i: restore backup | p: push | l: pull"
}

func (m BackupModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m BackupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(backupResultMsg); ok {
		m.state = backupStateMenu
		m.err = result.err

		if result.err == nil {
			m.status = result.status
		}

		return m, nil
	}

	switch m.state {
	case backupStateMenu:
		return m.updateMenu(msg)
	case backupStateExportPath, backupStateConfirm:
		return m.updateForm(msg)
	case backupStateFilePick:
		return m.updateFilePick(msg)
	case backupStateWorking:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m BackupModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.status = ""
	m.err = nil

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "e":
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Key("path").
					Title("Backup Directory").
					Description("Directory will be created if it doesn't exist").
					Value(m.dir),
			),
		).WithWidth(50).WithShowHelp(false)
		m.state = backupStateExportPath

		return m, m.form.Init()
	case "i":
		m.state = backupStateFilePick
		return m, m.filePicker.Init()
	case "p":
		return m.startWork("Pushing to remote...", m.pushCmd())
	case "l":
		return m.askConfirm("Replace all local data with the remote snapshot?", m.pullCmd())
	}

	return m, nil
}

func (m BackupModel) askConfirm(title string, then tea.Cmd) (tea.Model, tea.Cmd) {
	*m.confirmed = false
	m.pending = then
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Description("All transactions and categories will be overwritten.").
				Affirmative("Replace").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(60).WithShowHelp(false)
	m.state = backupStateConfirm

	return m, m.form.Init()
}

func (m BackupModel) startWork(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.state = backupStateWorking
	m.working = label

	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m BackupModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = backupStateMenu
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

	if m.state == backupStateExportPath {
		return m.startWork("Writing backup...", m.exportCmd(*m.dir))
	}

	if !*m.confirmed {
		m.state = backupStateMenu
		m.status = "Cancelled."

		return m, nil
	}

	return m.startWork("Replacing local data...", m.pending)
}

func (m BackupModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = backupStateMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		return m.askConfirm(fmt.Sprintf("Restore %s?", filepath.Base(path)), m.restoreCmd(path))
	}

	return m, cmd
}

func (m BackupModel) View() string {
	var body string

	switch m.state {
	case backupStateExportPath, backupStateConfirm:
		body = m.form.View()
	case backupStateFilePick:
		body = "Pick a backup file:\n\n" + m.filePicker.View()
	case backupStateWorking:
		body = fmt.Sprintf("%s %s", m.spinner.View(), m.working)
	default:
		syncState := "idle"
		if m.sess.SyncBusy() {
			syncState = "busy"
		}

		body = fmt.Sprintf(
			"Backup & Sync\n\n"+
				"e. Export backup file\n"+
				"i. Restore from backup file\n"+
				"p. Push to remote\n"+
				"l. Pull from remote\n\n"+
				"Sync: %s\n\nEsc. Back",
			activeStyle(syncState),
		)
	}

	return padded.Render(statusLine(m.status, m.err) + body)
}

// Messages

type backupResultMsg struct {
	status string
	err    error
}

func (m BackupModel) exportCmd(dir string) tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		var buf bytes.Buffer
		if err := backup.Encode(&buf, sess.Backup()); err != nil {
			return backupResultMsg{err: err}
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return backupResultMsg{err: fmt.Errorf("creating backup directory: %w", err)}
		}

		path := filepath.Join(dir, backup.Filename(sess.Now()))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return backupResultMsg{err: fmt.Errorf("writing backup: %w", err)}
		}

		return backupResultMsg{status: "Backup written to " + path}
	}
}

func (m BackupModel) restoreCmd(path string) tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return backupResultMsg{err: fmt.Errorf("opening backup: %w", err)}
		}
		defer f.Close()

		doc, err := backup.Read(f)
		if err != nil {
			return backupResultMsg{err: err}
		}

		ctx, cancel := OpCtx()
		defer cancel()

		sess.Restore(ctx, doc)

		return backupResultMsg{status: fmt.Sprintf("Restored %d transactions.", len(doc.Transactions))}
	}
}

func (m BackupModel) pushCmd() tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		if err := sess.Push(context.Background()); err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{status: "Pushed to remote."}
	}
}

func (m BackupModel) pullCmd() tea.Cmd {
	sess := m.sess

	return func() tea.Msg {
		if err := sess.Pull(context.Background()); err != nil {
			return backupResultMsg{err: err}
		}

		return backupResultMsg{status: fmt.Sprintf("Pulled %d transactions.", len(sess.Transactions()))}
	}
}
