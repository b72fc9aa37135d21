package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/pquill/hostdesk/internal/api"
	"github.com/pquill/hostdesk/internal/session"
)

// loginState holds the PIN entry form.
type loginState struct {
	input      textinput.Model
	submitting bool
	checking   bool // boot-time session check in flight
	errText    string
}

func newLoginState() loginState {
	ti := textinput.New()
	ti.Placeholder = "PIN"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 12
	ti.Width = 16
	return loginState{input: ti}
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.checking || m.login.submitting {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEnter:
		pin := m.login.input.Value()
		if pin == "" {
			return m, nil
		}
		m.login.submitting = true
		m.login.errText = ""
		return m, loginCmd(m.backend, pin)
	default:
		var cmd tea.Cmd
		m.login.input, cmd = m.login.input.Update(msg)
		return m, cmd
	}
}

func (m Model) onSessionChecked(msg sessionCheckedMsg) (tea.Model, tea.Cmd) {
	m.login.checking = false
	if msg.err != nil {
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, m.forceLogout()
		}
		m.login.errText = "Cannot reach server"
		m.logger.Warn("session check failed", zap.Error(msg.err))
		return m, m.login.input.Focus()
	}
	if msg.result == nil || !msg.result.Authenticated {
		return m, m.login.input.Focus()
	}
	m.role = msg.result.Role
	return m, m.routeHome()
}

func (m Model) onLoggedIn(msg loggedInMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		// Credential rejection reads differently from the server being
		// down; keep the PIN field focused for retry either way.
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.login.errText = "Invalid PIN"
		} else {
			m.login.errText = "Cannot reach server"
			m.logger.Warn("login failed", zap.Error(msg.err))
		}
		m.login.input.SetValue("")
		return m, m.login.input.Focus()
	}
	m.role = msg.role
	if m.cookies != nil {
		m.cookies.SetCookie(msg.cookie)
	}
	if m.sessions != nil {
		if err := m.sessions.Save(&session.Session{Cookie: msg.cookie, Role: msg.role}); err != nil {
			m.logger.Warn("session save failed", zap.Error(err))
		}
	}
	m.login.input.SetValue("")
	m.login.errText = ""
	return m, m.routeHome()
}

func (m Model) viewLogin() string {
	s := titleStyle.Render("Hostdesk") + "\n\n"
	switch {
	case m.login.checking:
		s += "Checking session...\n"
	case m.login.submitting:
		s += "Logging in...\n"
	default:
		s += "Enter PIN\n\n" + m.login.input.View() + "\n"
	}
	if m.login.errText != "" {
		s += "\n" + errorStyle.Render(m.login.errText) + "\n"
	}
	s += "\n" + helpStyle.Render("enter: log in · ctrl+c: quit")
	return s
}
