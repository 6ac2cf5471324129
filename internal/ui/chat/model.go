// Package chat is the assistant chat panel. The backend assistant is
// not wired up yet, so every message gets a canned reply after a short
// delay.
package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/avolkov/calendar-assistant/internal/theme"
)

// replyDelay approximates a round trip to the assistant backend.
const replyDelay = 800 * time.Millisecond

const cannedReply = "The assistant is not connected yet. " +
	"Your calendar and tasks keep working as usual."

// CloseMsg signals the parent to close the chat panel.
type CloseMsg struct{}

// ReplyMsg carries the assistant's reply for a pending message.
type ReplyMsg struct {
	PendingID string
	Text      string
}

// message is one entry in the conversation.
type message struct {
	ID      string
	Role    string
	Content string
}

// Model is the chat panel component.
type Model struct {
	input     textarea.Model
	viewport  viewport.Model
	messages  []message
	pendingID string
	width     int
	height    int
}

// New creates the chat panel.
func New(width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.CharLimit = 2000
	ta.Focus()

	vpHeight := height - 8
	if vpHeight < 4 {
		vpHeight = 4
	}

	vp := viewport.New(width-4, vpHeight)
	vp.Style = lipgloss.NewStyle()

	return Model{
		input:    ta,
		viewport: vp,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the chat panel.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the chat panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReplyMsg:
		if msg.PendingID != m.pendingID {
			return m, nil
		}
		m.pendingID = ""
		m.messages = append(m.messages, message{
			ID:      uuid.NewString(),
			Role:    "Assistant",
			Content: msg.Text,
		})
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmds []tea.Cmd

	var taCmd tea.Cmd
	m.input, taCmd = m.input.Update(msg)
	if taCmd != nil {
		cmds = append(cmds, taCmd)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return CloseMsg{} }

	case "enter":
		if m.pendingID != "" {
			return m, nil
		}

		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}

		m.input.Reset()
		m.messages = append(m.messages, message{
			ID:      uuid.NewString(),
			Role:    "You",
			Content: text,
		})
		m.pendingID = uuid.NewString()
		m.refreshViewport()

		pendingID := m.pendingID
		return m, tea.Tick(replyDelay, func(time.Time) tea.Msg {
			return ReplyMsg{PendingID: pendingID, Text: cannedReply}
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refreshViewport re-renders the conversation and scrolls to bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

func (m Model) renderConversation() string {
	if len(m.messages) == 0 {
		return lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("Say hello to your assistant.")
	}

	roleStyle := lipgloss.NewStyle().Bold(true)
	userStyle := roleStyle.Foreground(theme.ColorBlue)
	assistantStyle := roleStyle.Foreground(theme.ColorGreen)
	contentStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	var sections []string
	for _, msg := range m.messages {
		label := userStyle.Render("You:")
		if msg.Role == "Assistant" {
			label = assistantStyle.Render("Assistant:")
		}
		sections = append(sections, label)
		sections = append(sections, contentStyle.Render(msg.Content))
		sections = append(sections, "")
	}

	if m.pendingID != "" {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("..."))
	}

	return strings.Join(sections, "\n")
}

// View renders the chat panel.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Assistant")

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", min(m.width-6, 80)))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.viewport.View(),
		separator,
		m.input.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the chat panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.SetWidth(width - 4)

	vpHeight := height - 8
	if vpHeight < 4 {
		vpHeight = 4
	}
	m.viewport.Width = width - 4
	m.viewport.Height = vpHeight
}
