package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avolkov/calendar-assistant/internal/calendar"
	"github.com/avolkov/calendar-assistant/internal/model"
	"github.com/avolkov/calendar-assistant/internal/session"
	"github.com/avolkov/calendar-assistant/internal/tasks"
	"github.com/avolkov/calendar-assistant/internal/ui/taskform"
)

// commandTimeout bounds every background API call issued by the UI.
const commandTimeout = 30 * time.Second

// bucketsLoadedMsg carries a completed month fetch. seq is the fetch
// sequence tag; mutation marks fetches issued after a local write.
type bucketsLoadedMsg struct {
	seq      uint64
	buckets  calendar.Buckets
	mutation bool
}

type taskSavedMsg struct {
	edit bool
	err  error
}

type taskDeletedMsg struct {
	err error
}

type authResultMsg struct {
	err error
}

type signedOutMsg struct{}

type noteLoadedMsg struct {
	note string
}

type noteSavedMsg struct {
	err error
}

type passwordChangedMsg struct {
	err error
}

// fetchMonthCmd loads the displayed month's tasks. Anonymous sessions
// and failed reads both resolve to empty buckets inside the repository.
func (m Model) fetchMonthCmd(seq uint64, mutation bool) tea.Cmd {
	repo := m.repo
	from, to := m.monthView.Cursor().MonthRange()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		buckets := repo.List(ctx, from, to)
		return bucketsLoadedMsg{seq: seq, buckets: buckets, mutation: mutation}
	}
}

func (m Model) saveTaskCmd(msg taskform.SubmitMsg) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var err error
		if msg.Edit {
			_, err = repo.Update(ctx, msg.ID, msg.Fields)
		} else {
			_, err = repo.Create(ctx, msg.Fields)
		}
		return taskSavedMsg{edit: msg.Edit, err: err}
	}
}

func (m Model) deleteTaskCmd(id int64) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		return taskDeletedMsg{err: repo.Delete(ctx, id)}
	}
}

// signInCmd authenticates (or registers) and persists the resulting
// identity. With remember set, credentials also go to the keyring.
func (m Model) signInCmd(login, password string, register, remember bool) tea.Cmd {
	client := m.client
	sess := m.session
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		ident := model.Identity{}
		if register {
			u, cerr := client.CreateUser(ctx, login, password)
			if cerr != nil {
				return authResultMsg{err: cerr}
			}
			ident = model.Identity{UserID: u.UserID, Login: u.Login, Description: u.Description}
		} else {
			u, aerr := client.Authenticate(ctx, login, password)
			if aerr != nil {
				return authResultMsg{err: aerr}
			}
			ident = model.Identity{UserID: u.UserID, Login: u.Login, Description: u.Description}
		}

		if err := sess.SignIn(ctx, ident); err != nil {
			return authResultMsg{err: fmt.Errorf("save session: %w", err)}
		}

		if remember {
			if kerr := session.RememberCredentials(session.Credentials{
				Login:    login,
				Password: password,
			}); kerr != nil {
				log.Logf("[WARN] keyring save failed: %v", kerr)
			}
		}

		return authResultMsg{}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	sess := m.session
	log := m.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := sess.SignOut(ctx); err != nil {
			log.Logf("[WARN] clear session: %v", err)
		}
		if err := session.ForgetCredentials(); err != nil {
			log.Logf("[WARN] clear keyring: %v", err)
		}
		return signedOutMsg{}
	}
}

// loadNoteCmd fetches the profile note. A missing note is normal and
// resolves to an empty string.
func (m Model) loadNoteCmd() tea.Cmd {
	client := m.client
	sess := m.session
	return func() tea.Msg {
		ident := sess.Current()
		if ident == nil {
			return noteLoadedMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		note, err := client.GetParams(ctx, ident.UserID)
		if err != nil {
			return noteLoadedMsg{}
		}
		return noteLoadedMsg{note: note}
	}
}

func (m Model) saveNoteCmd(note string) tea.Cmd {
	client := m.client
	sess := m.session
	return func() tea.Msg {
		ident := sess.Current()
		if ident == nil {
			return noteSavedMsg{err: tasks.ErrNotSignedIn}
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if err := client.SaveParams(ctx, ident.UserID, note); err != nil {
			return noteSavedMsg{err: err}
		}
		if err := sess.UpdateDescription(ctx, note); err != nil {
			return noteSavedMsg{err: err}
		}
		return noteSavedMsg{}
	}
}

// changePasswordCmd verifies the current password against the server
// before submitting the new one.
func (m Model) changePasswordCmd(oldPassword, newPassword string) tea.Cmd {
	client := m.client
	sess := m.session
	return func() tea.Msg {
		ident := sess.Current()
		if ident == nil {
			return passwordChangedMsg{err: tasks.ErrNotSignedIn}
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		if _, err := client.Authenticate(ctx, ident.Login, oldPassword); err != nil {
			return passwordChangedMsg{err: fmt.Errorf("current password rejected: %w", err)}
		}
		if _, err := client.UpdateUser(ctx, ident.UserID, ident.Login, newPassword); err != nil {
			return passwordChangedMsg{err: err}
		}
		return passwordChangedMsg{}
	}
}
