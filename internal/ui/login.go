package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halvden/adminboard/internal/session"
)

type loginDoneMsg struct {
	err error
}

type LoginModel struct {
	emailInput    string
	passwordInput string
	focusedInput  int
	loading       bool
	err           error
	session       *session.Manager
}

func NewLoginModel(sess *session.Manager) *LoginModel {
	return &LoginModel{session: sess}
}

func (m *LoginModel) Init() tea.Cmd {
	return nil
}

// reset clears the form. Called whenever the session generation changes so
// a later logout presents a clean login screen.
func (m *LoginModel) reset() {
	m.emailInput = ""
	m.passwordInput = ""
	m.focusedInput = 0
	m.loading = false
	m.err = nil
}

// loginCmd runs the whole login transition, including the awaited profile
// fetch, off the UI thread. Input validation happens inside the auth
// client before any network call.
func loginCmd(sess *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: sess.Login(context.Background(), email, password)}
	}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.passwordInput = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab":
			m.focusedInput = (m.focusedInput + 1) % 2
		case "enter":
			m.loading = true
			m.err = nil
			return m, loginCmd(m.session, m.emailInput, m.passwordInput)
		case "backspace":
			if m.focusedInput == 0 && len(m.emailInput) > 0 {
				m.emailInput = m.emailInput[:len(m.emailInput)-1]
			} else if m.focusedInput == 1 && len(m.passwordInput) > 0 {
				m.passwordInput = m.passwordInput[:len(m.passwordInput)-1]
			}
		case "ctrl+l":
			m.emailInput = ""
			m.passwordInput = ""
			m.err = nil
		default:
			if len(msg.String()) == 1 {
				if m.focusedInput == 0 {
					m.emailInput += msg.String()
				} else {
					m.passwordInput += msg.String()
				}
			}
		}
	}
	return m, nil
}

func (m *LoginModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Render("SIGN IN")

	subtitle := lipgloss.NewStyle().
		Foreground(Muted).
		Render("Use your admin dashboard account.")

	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginTop(2).
		Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginBottom(3).
		Render(subtitle))
	b.WriteString("\n\n")

	emailLabel := LabelStyle.Width(15).Render("Email:")
	emailStyle := InputStyle
	if m.focusedInput == 0 {
		emailStyle = FocusedInputStyle
	}
	emailField := lipgloss.JoinHorizontal(lipgloss.Left, emailLabel, emailStyle.Width(50).Render(m.emailInput))
	b.WriteString(centered(emailField))
	b.WriteString("\n\n")

	passwordLabel := LabelStyle.Width(15).Render("Password:")
	passwordStyle := InputStyle
	if m.focusedInput == 1 {
		passwordStyle = FocusedInputStyle
	}
	masked := strings.Repeat("•", len([]rune(m.passwordInput)))
	passwordField := lipgloss.JoinHorizontal(lipgloss.Left, passwordLabel, passwordStyle.Width(50).Render(masked))
	b.WriteString(centered(passwordField))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(centered(InfoStyle.Render("Signing in...")))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(centered(ErrorStyle.Render("✗ " + m.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := InfoStyle.Render("tab switch  •  enter sign in  •  ctrl+l clear  •  ctrl+c quit")
	b.WriteString(centered(help))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(2, 4).
		Width(76).
		Render(b.String())
}
