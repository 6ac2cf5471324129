// Package app is the root Bubble Tea model. It routes messages
// between the month grid, the day popup, the forms, and the session,
// and owns the single source of truth for fetched task buckets.
package app

import (
	"reflect"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"

	"github.com/avolkov/calendar-assistant/internal/api"
	"github.com/avolkov/calendar-assistant/internal/calendar"
	"github.com/avolkov/calendar-assistant/internal/keys"
	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/session"
	"github.com/avolkov/calendar-assistant/internal/tasks"
	"github.com/avolkov/calendar-assistant/internal/ui"
	"github.com/avolkov/calendar-assistant/internal/ui/authform"
	"github.com/avolkov/calendar-assistant/internal/ui/chat"
	"github.com/avolkov/calendar-assistant/internal/ui/daypopup"
	"github.com/avolkov/calendar-assistant/internal/ui/monthview"
	"github.com/avolkov/calendar-assistant/internal/ui/profileview"
	"github.com/avolkov/calendar-assistant/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewCalendar ViewState = iota
	ViewDayPopup
	ViewTaskForm
	ViewAuth
	ViewProfile
	ViewChat
	ViewHelp
)

// Model is the root application model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	log          lgr.L

	client  *api.Client
	repo    *tasks.Repository
	session *session.Manager

	monthView   monthview.Model
	popup       daypopup.Model
	popupOpen   bool
	popupBucket []model.Task
	formView    taskform.Model
	authView    authform.Model
	profileView profileview.Model
	chatView    chat.Model
	helpView    help.Model

	buckets calendar.Buckets
	// fetchSeq tags every fetch; responses with a stale tag are dropped
	// so an older in-flight fetch can never overwrite a newer one.
	fetchSeq uint64

	ready   bool
	errText string
}

// New creates the root model.
func New(client *api.Client, repo *tasks.Repository, sess *session.Manager, log lgr.L) Model {
	if log == nil {
		log = lgr.Default()
	}
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewCalendar,
		keys:        k,
		log:         log,
		client:      client,
		repo:        repo,
		session:     sess,
		monthView:   monthview.New(k, 80, 24),
		formView:    taskform.New(80, 24),
		authView:    authform.New(80, 24),
		profileView: profileview.New(sess.Current(), 80, 24),
		chatView:    chat.New(80, 24),
		helpView:    help.New(),
		buckets:     calendar.Buckets{},
	}
}

// Init fetches the current month and, for anonymous sessions with a
// remembered login, tries to sign in from the keyring.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchMonthCmd(m.fetchSeq, false)}
	if m.session.Current() == nil {
		if creds := session.RememberedCredentials(); creds != nil {
			cmds = append(cmds, m.signInCmd(creds.Login, creds.Password, false, false))
		}
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case bucketsLoadedMsg:
		return m.handleBucketsLoaded(msg)

	case taskSavedMsg:
		return m.handleTaskSaved(msg)

	case taskDeletedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.errText = ""
		cmd := m.refetch(true)
		return m, cmd

	case authResultMsg:
		return m.handleAuthResult(msg)

	case signedOutMsg:
		m.profileView.SetIdentity(nil)
		m.currentView = ViewCalendar
		m.popupOpen = false
		cmd := m.refetch(false)
		return m, cmd

	case noteLoadedMsg:
		m.profileView.SetNote(msg.note)
		return m, nil

	case noteSavedMsg:
		if msg.err != nil {
			m.profileView.SetError(msg.err)
		} else {
			m.profileView.SetInfo("Note saved")
		}
		return m, nil

	case passwordChangedMsg:
		if msg.err != nil {
			m.profileView.SetError(msg.err)
		} else {
			m.profileView.SetInfo("Password changed")
		}
		return m, nil

	case monthview.MonthChangedMsg:
		m.popupOpen = false
		cmd := m.refetch(false)
		return m, cmd

	case monthview.DayOpenedMsg:
		bucket := m.buckets.Day(msg.Day)
		m.popup = daypopup.New(msg.Day, bucket, m.keys, m.layout.ContentWidth(), m.layout.ContentHeight())
		m.popupBucket = bucket
		m.popupOpen = true
		m.previousView = ViewCalendar
		m.currentView = ViewDayPopup
		return m, nil

	case daypopup.CloseMsg:
		m.popupOpen = false
		m.currentView = ViewCalendar
		return m, nil

	case daypopup.AddTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.formView.StartCreate(msg.Day)

	case daypopup.EditTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.formView.StartEdit(msg.Task)

	case daypopup.DeleteTaskMsg:
		return m, m.deleteTaskCmd(msg.ID)

	case taskform.SubmitMsg:
		return m, m.saveTaskCmd(msg)

	case taskform.CancelMsg:
		m.currentView = m.previousView
		if m.currentView == ViewDayPopup && !m.popupOpen {
			m.currentView = ViewCalendar
		}
		return m, nil

	case authform.SubmitMsg:
		return m, m.signInCmd(msg.Login, msg.Password, msg.Register, msg.Remember)

	case authform.CancelMsg:
		m.currentView = ViewCalendar
		return m, nil

	case profileview.BackMsg:
		m.currentView = ViewCalendar
		return m, nil

	case profileview.SignOutMsg:
		return m, m.signOutCmd()

	case profileview.SaveNoteMsg:
		return m, m.saveNoteCmd(msg.Note)

	case profileview.ChangePasswordMsg:
		return m, m.changePasswordCmd(msg.Old, msg.New)

	case chat.CloseMsg:
		m.currentView = ViewCalendar
		return m, nil

	case chat.ReplyMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the focused
// view. Text-input views only see ctrl+c here.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	// Forms and the chat input own the keyboard.
	switch m.currentView {
	case ViewTaskForm, ViewAuth, ViewChat:
		return false, m, nil
	case ViewProfile:
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewCalendar {
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "r":
		m.errText = ""
		cmd := m.refetch(false)
		return true, m, cmd

	case "c":
		if m.currentView == ViewCalendar {
			m.previousView = m.currentView
			m.currentView = ViewChat
			return true, m, m.chatView.Init()
		}

	case "p":
		if m.currentView == ViewCalendar {
			m.previousView = m.currentView
			m.currentView = ViewProfile
			m.profileView.SetIdentity(m.session.Current())
			return true, m, m.loadNoteCmd()
		}

	case "s":
		if m.currentView == ViewCalendar && m.session.Current() == nil {
			m.previousView = m.currentView
			m.currentView = ViewAuth
			login := ""
			if creds := session.RememberedCredentials(); creds != nil {
				login = creds.Login
			}
			return true, m, m.authView.Start(authform.SignIn, login, "")
		}

	case "n":
		if m.currentView == ViewCalendar && m.session.Current() != nil {
			m.previousView = m.currentView
			m.currentView = ViewTaskForm
			return true, m, m.formView.StartCreate(m.monthView.Cursor().Selected)
		}
	}

	return false, m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.layout = ui.NewLayout(msg.Width, msg.Height)
	m.ready = true
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.monthView.SetSize(w, h)
	m.popup.SetSize(w, h)
	m.formView.SetSize(w, h)
	m.authView.SetSize(w, h)
	m.profileView.SetSize(w, h)
	m.chatView.SetSize(w, h)
	m.helpView.Width = w
	return m.updateActiveView(msg)
}

// handleBucketsLoaded installs a fetch result unless a newer fetch has
// been issued since.
func (m Model) handleBucketsLoaded(msg bucketsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		return m, nil
	}

	m.buckets = msg.buckets
	m.monthView.SetBuckets(msg.buckets)

	if m.popupOpen {
		bucket := msg.buckets.Day(m.popup.Day())
		if msg.mutation {
			m.popup.SetTasks(bucket)
			m.popupBucket = bucket
		} else if !reflect.DeepEqual(bucket, m.popupBucket) {
			// The day changed under the popup; close rather than show
			// stale detail.
			m.popupOpen = false
			if m.currentView == ViewDayPopup {
				m.currentView = ViewCalendar
			}
		}
	}

	return m, nil
}

func (m Model) handleTaskSaved(msg taskSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, m.formView.FailWithError(msg.err)
	}

	m.errText = ""
	if msg.edit && m.popupOpen {
		m.currentView = ViewDayPopup
	} else {
		m.popupOpen = false
		m.currentView = ViewCalendar
	}
	cmd := m.refetch(true)
	return m, cmd
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if m.currentView == ViewAuth {
			return m, m.authView.FailWithError(msg.err)
		}
		// Background keyring sign-in failed; stay anonymous.
		m.log.Logf("[WARN] remembered sign-in failed: %v", msg.err)
		return m, nil
	}

	m.profileView.SetIdentity(m.session.Current())
	if m.currentView == ViewAuth {
		m.currentView = ViewCalendar
	}
	cmd := m.refetch(false)
	return m, cmd
}

// updateActiveView dispatches the message to the focused view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewCalendar:
		m.monthView, cmd = m.monthView.Update(msg)
	case ViewDayPopup:
		m.popup, cmd = m.popup.Update(msg)
	case ViewTaskForm:
		m.formView, cmd = m.formView.Update(msg)
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	case ViewHelp:
		// Any key closes help besides ?.
		if _, ok := msg.(tea.KeyMsg); ok {
			m.currentView = m.previousView
		}
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Calendar Assistant", m.accountLabel())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDayPopup:
		return m.layout.CenterModal(m.popup.View())
	case ViewTaskForm:
		return m.formView.View()
	case ViewAuth:
		return m.authView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewChat:
		return m.chatView.View()
	case ViewHelp:
		return m.helpView.FullHelpView(m.keys.FullHelp())
	default:
		return m.monthView.View()
	}
}

func (m Model) accountLabel() string {
	if ident := m.session.Current(); ident != nil {
		return ident.Login
	}
	return "not signed in"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.errText != "" && m.currentView == ViewCalendar {
		return m.errText
	}

	switch m.currentView {
	case ViewDayPopup:
		return "enter open | n new | e edit | d delete | esc close"
	case ViewTaskForm:
		return "enter submit | esc cancel"
	case ViewAuth:
		return "enter submit | ctrl+r switch mode | esc cancel"
	case ViewProfile:
		return "n note | w password | o sign out | esc back"
	case ViewChat:
		return "enter send | esc close"
	case ViewHelp:
		return "? close help"
	default:
		if m.session.Current() == nil {
			return "s sign in | [/] month | {/} year | t today | q quit"
		}
		return "enter day | n new | [/] month | {/} year | t today | r refresh | ? help"
	}
}

// refetch issues a new sequenced fetch for the displayed month.
func (m *Model) refetch(mutation bool) tea.Cmd {
	m.fetchSeq++
	m.monthView.SetLoading(true)
	return m.fetchMonthCmd(m.fetchSeq, mutation)
}
