package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/halvden/adminboard/internal/client"
)

type usersMode int

const (
	usersBrowse usersMode = iota
	usersCreate
)

type usersLoadedMsg struct {
	users []client.User
}

type usersErrorMsg struct {
	err error
}

type userSavedMsg struct {
	verb string
}

// UsersModel is the admin-only account management view. Non-admins can
// still reach it; they only see an explanatory message.
type UsersModel struct {
	api  *client.UsersAPI
	user *client.AuthUser

	users  []client.User
	cursor int
	mode   usersMode

	emailInput    string
	passwordInput string
	roleIdx       int
	focusedInput  int

	loading bool
	loaded  bool
	err     error
	notice  string
}

func NewUsersModel(api *client.UsersAPI) *UsersModel {
	// New accounts default to the non-privileged role.
	return &UsersModel{api: api, roleIdx: 1}
}

func (m *UsersModel) Init() tea.Cmd {
	return nil
}

func (m *UsersModel) SetUser(u *client.AuthUser) {
	m.user = u
}

func (m *UsersModel) isAdmin() bool {
	return m.user != nil && m.user.Role == client.RoleAdmin
}

func (m *UsersModel) invalidate() {
	m.users = nil
	m.cursor = 0
	m.mode = usersBrowse
	m.emailInput = ""
	m.passwordInput = ""
	m.roleIdx = 1
	m.focusedInput = 0
	m.loaded = false
	m.loading = false
	m.err = nil
	m.notice = ""
}

func loadUsersCmd(api *client.UsersAPI) tea.Cmd {
	return func() tea.Msg {
		users, err := api.List(context.Background())
		if err != nil {
			return usersErrorMsg{err: err}
		}
		return usersLoadedMsg{users: users}
	}
}

func createUserCmd(api *client.UsersAPI, email, password string, role client.Role) tea.Cmd {
	return func() tea.Msg {
		input := client.CreateUserInput{Email: email, Password: password, Role: role}
		if _, err := api.Create(context.Background(), input); err != nil {
			return usersErrorMsg{err: err}
		}
		return userSavedMsg{verb: "created"}
	}
}

// toggleRoleCmd flips a user's role with a partial update: only the role
// field travels, email and password stay untouched server-side.
func toggleRoleCmd(api *client.UsersAPI, id uuid.UUID, role client.Role) tea.Cmd {
	return func() tea.Msg {
		if _, err := api.Update(context.Background(), id, client.UpdateUserInput{Role: &role}); err != nil {
			return usersErrorMsg{err: err}
		}
		return userSavedMsg{verb: "updated"}
	}
}

func deleteUserCmd(api *client.UsersAPI, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if err := api.Delete(context.Background(), id); err != nil {
			return usersErrorMsg{err: err}
		}
		return userSavedMsg{verb: "deleted"}
	}
}

func (m *UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.isAdmin() {
		return m, nil
	}

	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		m.loaded = true
		m.users = msg.users
		m.err = nil
		if m.cursor >= len(m.users) && m.cursor > 0 {
			m.cursor = len(m.users) - 1
		}
		return m, nil

	case usersErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case userSavedMsg:
		m.mode = usersBrowse
		m.emailInput = ""
		m.passwordInput = ""
		m.roleIdx = 1
		m.focusedInput = 0
		m.err = nil
		m.notice = "User " + msg.verb
		m.loaded = false

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.mode == usersBrowse {
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.users)-1 {
					m.cursor++
				}
			case "n":
				m.mode = usersCreate
				m.err = nil
				m.notice = ""
			case "t":
				if len(m.users) > 0 {
					u := m.users[m.cursor]
					next := client.RoleAdmin
					if u.Role == client.RoleAdmin {
						next = client.RoleUser
					}
					m.notice = ""
					return m, toggleRoleCmd(m.api, u.ID, next)
				}
			case "d":
				if len(m.users) > 0 {
					m.notice = ""
					return m, deleteUserCmd(m.api, m.users[m.cursor].ID)
				}
			case "r":
				m.loading = true
				m.err = nil
				m.notice = ""
				return m, loadUsersCmd(m.api)
			}
		} else {
			switch msg.String() {
			case "esc":
				m.mode = usersBrowse
				m.emailInput = ""
				m.passwordInput = ""
				m.err = nil
			case "tab":
				m.focusedInput = (m.focusedInput + 1) % 3
			case "shift+tab":
				m.focusedInput = (m.focusedInput + 2) % 3
			case "enter":
				return m, createUserCmd(m.api, m.emailInput, m.passwordInput, client.Roles[m.roleIdx])
			case "left", "right":
				if m.focusedInput == 2 {
					m.roleIdx = (m.roleIdx + 1) % len(client.Roles)
				}
			case "backspace":
				if m.focusedInput == 0 && len(m.emailInput) > 0 {
					m.emailInput = m.emailInput[:len(m.emailInput)-1]
				} else if m.focusedInput == 1 && len(m.passwordInput) > 0 {
					m.passwordInput = m.passwordInput[:len(m.passwordInput)-1]
				}
			default:
				if len(msg.String()) == 1 {
					if m.focusedInput == 0 {
						m.emailInput += msg.String()
					} else if m.focusedInput == 1 {
						m.passwordInput += msg.String()
					}
				}
			}
		}
	}

	if !m.loaded && !m.loading {
		m.loading = true
		return m, loadUsersCmd(m.api)
	}

	return m, nil
}

func (m *UsersModel) View() string {
	var b strings.Builder

	header := TitleStyle.Render("USERS")
	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginTop(1).
		MarginBottom(1).
		Render(header))
	b.WriteString("\n\n")

	if !m.isAdmin() {
		b.WriteString(centered(InfoStyle.Render("Only administrators can manage users.")))
		return BoxStyle.Width(76).Render(b.String())
	}

	if m.mode == usersCreate {
		b.WriteString(m.formView())
		b.WriteString("\n")
	}

	switch {
	case m.loading:
		b.WriteString(centered(InfoStyle.Render("Loading users...")))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(centered(ErrorStyle.Render("✗ " + m.err.Error())))
		b.WriteString("\n")
	case len(m.users) == 0:
		b.WriteString(centered(InfoStyle.Render("No users found.")))
		b.WriteString("\n")
	default:
		for i, u := range m.users {
			style := ItemStyle
			cursor := "  "
			if i == m.cursor && m.mode == usersBrowse {
				style = SelectedItemStyle
				cursor = "> "
			}
			row := fmt.Sprintf("%s%-35s %-6s %s", cursor, truncate(u.Email, 35), u.Role, u.CreatedAt.Format("2006-01-02"))
			b.WriteString(centered(style.Render(row)))
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(centered(SuccessStyle.Render("✓ " + m.notice)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var help string
	if m.mode == usersBrowse {
		help = "↑/↓ navigate  •  n new  •  t toggle role  •  d delete  •  r refresh"
	} else {
		help = "tab next field  •  ←/→ role  •  enter create  •  esc cancel"
	}
	b.WriteString(centered(InfoStyle.Render(help)))

	return BoxStyle.Width(76).Render(b.String())
}

func (m *UsersModel) formView() string {
	var b strings.Builder

	emailStyle := InputStyle
	if m.focusedInput == 0 {
		emailStyle = FocusedInputStyle
	}
	b.WriteString(centered(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Email:"),
		emailStyle.Width(46).Render(m.emailInput))))
	b.WriteString("\n")

	passwordStyle := InputStyle
	if m.focusedInput == 1 {
		passwordStyle = FocusedInputStyle
	}
	b.WriteString(centered(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Password:"),
		passwordStyle.Width(46).Render(strings.Repeat("•", len([]rune(m.passwordInput)))))))
	b.WriteString("\n")

	roleStyle := InputStyle
	if m.focusedInput == 2 {
		roleStyle = FocusedInputStyle
	}
	b.WriteString(centered(lipgloss.JoinHorizontal(lipgloss.Left,
		LabelStyle.Width(12).Render("Role:"),
		roleStyle.Width(12).Render(string(client.Roles[m.roleIdx])))))
	b.WriteString("\n")

	return b.String()
}
