// Package authform is the sign-in / registration form.
package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/calendar-assistant/internal/theme"
)

// Mode selects between signing in and creating an account.
type Mode int

const (
	SignIn Mode = iota
	Register
)

// SubmitMsg carries the entered credentials. Register is true when
// the user chose to create a new account.
type SubmitMsg struct {
	Register bool
	Login    string
	Password string
	Remember bool
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

type formBindings struct {
	login    string
	password string
	confirm  string
	remember bool
}

// Model is the Bubble Tea model for the auth form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    Mode
	errText string
	width   int
	height  int
}

// New creates an auth form in sign-in mode.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form in the given mode, optionally prefilled
// with a remembered login.
func (m *Model) Start(mode Mode, login, password string) tea.Cmd {
	m.mode = mode
	m.errText = ""
	m.fb.login = login
	m.fb.password = password
	m.fb.confirm = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// FailWithError rebuilds the form keeping the entered login and shows
// the server error.
func (m *Model) FailWithError(err error) tea.Cmd {
	m.errText = err.Error()
	m.fb.password = ""
	m.fb.confirm = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Mode returns the form's current mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Update handles messages for the auth form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+r" {
		if m.mode == SignIn {
			m.mode = Register
		} else {
			m.mode = SignIn
		}
		m.fb.confirm = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign In"
	hint := "ctrl+r to create a new account"
	if m.mode == Register {
		titleText = "Create Account"
		hint = "ctrl+r to sign in instead"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		MarginBottom(1)

	content := titleStyle.Render(titleText)
	if m.errText != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errText)
	}
	content += "\n" + m.form.View()
	content += "\n" + theme.HelpStyle.Render(hint)

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Login").
			Value(&m.fb.login).
			Validate(validateLogin),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(validatePassword),
	}

	if m.mode == Register {
		fields = append(fields,
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != m.fb.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		)
	}

	fields = append(fields,
		huh.NewConfirm().
			Title("Remember me").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.remember),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	msg := SubmitMsg{
		Register: m.mode == Register,
		Login:    strings.TrimSpace(m.fb.login),
		Password: m.fb.password,
		Remember: m.fb.remember,
	}
	return func() tea.Msg { return msg }
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

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateLogin(s string) error {
	if len(strings.TrimSpace(s)) < 3 {
		return fmt.Errorf("login must be at least 3 characters")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
