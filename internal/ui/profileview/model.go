// Package profileview shows the signed-in account: the profile note,
// a password change form, and sign-out.
package profileview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/theme"
)

// Phase identifies what the profile view is currently editing.
type Phase int

const (
	// Overview shows the account summary and menu.
	Overview Phase = iota
	// EditingNote edits the profile note.
	EditingNote
	// ChangingPassword runs the password change form.
	ChangingPassword
)

// BackMsg signals the parent to return to the calendar.
type BackMsg struct{}

// SignOutMsg signals the parent to clear the session.
type SignOutMsg struct{}

// SaveNoteMsg asks the parent to persist the profile note.
type SaveNoteMsg struct {
	Note string
}

// ChangePasswordMsg asks the parent to change the account password.
type ChangePasswordMsg struct {
	Old string
	New string
}

// NoteLoadedMsg carries the note fetched from the server.
type NoteLoadedMsg struct {
	Note string
}

type formBindings struct {
	note        string
	oldPassword string
	newPassword string
	confirm     string
}

// Model is the profile view component.
type Model struct {
	identity *model.Identity
	phase    Phase
	form     *huh.Form
	fb       *formBindings
	note     string
	errText  string
	info     string
	width    int
	height   int
}

// New creates the profile view for an identity.
func New(identity *model.Identity, width, height int) Model {
	return Model{
		identity: identity,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// SetIdentity updates the displayed account.
func (m *Model) SetIdentity(identity *model.Identity) {
	m.identity = identity
}

// SetNote stores the fetched profile note.
func (m *Model) SetNote(note string) {
	m.note = note
}

// SetInfo shows a transient status line, clearing any error.
func (m *Model) SetInfo(text string) {
	m.info = text
	m.errText = ""
}

// SetError shows an error line, clearing any status.
func (m *Model) SetError(err error) {
	m.errText = err.Error()
	m.info = ""
	if m.phase != Overview {
		m.phase = Overview
		m.form = nil
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if noteMsg, ok := msg.(NoteLoadedMsg); ok {
		m.note = noteMsg.Note
		return m, nil
	}

	if m.phase != Overview {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		return m, func() tea.Msg { return BackMsg{} }
	case "n":
		m.phase = EditingNote
		m.errText = ""
		m.info = ""
		m.fb.note = m.note
		m.form = m.buildNoteForm()
		return m, m.form.Init()
	case "w":
		m.phase = ChangingPassword
		m.errText = ""
		m.info = ""
		m.fb.oldPassword = ""
		m.fb.newPassword = ""
		m.fb.confirm = ""
		m.form = m.buildPasswordForm()
		return m, m.form.Init()
	case "o":
		return m, func() tea.Msg { return SignOutMsg{} }
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.phase = Overview
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		phase := m.phase
		m.phase = Overview
		m.form = nil
		if phase == EditingNote {
			note := m.fb.note
			m.note = note
			return m, func() tea.Msg { return SaveNoteMsg{Note: note} }
		}
		oldPw, newPw := m.fb.oldPassword, m.fb.newPassword
		return m, func() tea.Msg { return ChangePasswordMsg{Old: oldPw, New: newPw} }
	}
	if m.form.State == huh.StateAborted {
		m.phase = Overview
		m.form = nil
		return m, nil
	}

	return m, cmd
}

// View renders the profile view.
func (m Model) View() string {
	if m.phase != Overview && m.form != nil {
		title := "Profile Note"
		if m.phase == ChangingPassword {
			title = "Change Password"
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(
			lipgloss.NewStyle().Bold(true).MarginBottom(1).Render(title) +
				"\n" + m.form.View(),
		)
	}

	var sections []string
	sections = append(sections, lipgloss.NewStyle().Bold(true).Render("Profile"))
	sections = append(sections, "")

	if m.identity == nil {
		sections = append(sections, theme.HelpStyle.Render("Not signed in"))
	} else {
		sections = append(sections, fmt.Sprintf("%s  %s",
			theme.HelpStyle.Render("Login:"), m.identity.Login))
		note := m.note
		if note == "" {
			note = theme.HelpStyle.Italic(true).Render("(no note)")
		}
		sections = append(sections, fmt.Sprintf("%s   %s",
			theme.HelpStyle.Render("Note:"), note))
	}

	sections = append(sections, "")
	if m.errText != "" {
		sections = append(sections, theme.ErrorStyle.Render(m.errText))
	}
	if m.info != "" {
		sections = append(sections, theme.HelpStyle.Render(m.info))
	}

	sections = append(sections, theme.HelpStyle.Render(
		"n edit note • w change password • o sign out • esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...),
	)
}

func (m *Model) buildNoteForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Note").
				Placeholder("Anything you want to keep here...").
				Value(&m.fb.note),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildPasswordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.oldPassword).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("current password is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("New Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.newPassword).
				Validate(func(s string) error {
					if len(s) < 6 {
						return fmt.Errorf("password must be at least 6 characters")
					}
					if s == m.fb.oldPassword {
						return fmt.Errorf("new password must differ from the current one")
					}
					return nil
				}),
			huh.NewInput().
				Title("Confirm New Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != m.fb.newPassword {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}
