// Package ui is the terminal view layer: a login form and the protected
// dashboard, items and users views. The root model plays the role of the
// navigation guard; child views are pure consumers of the session and the
// resource clients.
package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halvden/adminboard/internal/client"
	"github.com/halvden/adminboard/internal/session"
)

type View int

const (
	DashboardView View = iota
	ItemsView
	UsersView
)

type sessionSyncedMsg struct {
	err error
}

type Model struct {
	session *session.Manager
	snap    session.Snapshot

	currentView View
	login       *LoginModel
	dashboard   *DashboardModel
	items       *ItemsModel
	users       *UsersModel

	width  int
	height int
}

func NewModel(sess *session.Manager, core *client.Client, itemsAPI *client.ItemsAPI, usersAPI *client.UsersAPI) Model {
	return Model{
		session:     sess,
		snap:        sess.Snapshot(),
		currentView: DashboardView,
		login:       NewLoginModel(sess),
		dashboard:   NewDashboardModel(itemsAPI, core),
		items:       NewItemsModel(itemsAPI),
		users:       NewUsersModel(usersAPI),
	}
}

// bootstrapCmd runs the single startup profile fetch for a restored
// credential off the UI thread.
func bootstrapCmd(sess *session.Manager) tea.Cmd {
	return func() tea.Msg {
		return sessionSyncedMsg{err: sess.Bootstrap(context.Background())}
	}
}

func (m Model) Init() tea.Cmd {
	return bootstrapCmd(m.session)
}

// syncSession picks up the latest session state. A generation change means
// any data the views hold was fetched under a different credential and
// must be considered stale.
func (m *Model) syncSession() {
	snap := m.session.Snapshot()
	if snap.Generation != m.snap.Generation {
		m.login.reset()
		m.dashboard.invalidate()
		m.items.invalidate()
		m.users.invalidate()
	}
	m.snap = snap
	m.dashboard.SetUser(snap.User)
	m.users.SetUser(snap.User)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncSession()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionSyncedMsg:
		// A failed startup fetch lands on the login screen; show why.
		if msg.err != nil {
			m.login.err = msg.err
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if resolveRoute(m.snap) == RouteProtected {
			// The focused view is kept on logout so a re-login lands
			// back on it. Navigation falls through to the route switch
			// so the newly focused view starts loading immediately.
			switch msg.String() {
			case "ctrl+d":
				m.currentView = DashboardView
			case "ctrl+e":
				m.currentView = ItemsView
			case "ctrl+u":
				m.currentView = UsersView
			case "ctrl+x":
				m.session.Logout()
				m.syncSession()
			}
		}
	}

	switch resolveRoute(m.snap) {
	case RouteLoading:
		return m, nil

	case RouteLogin:
		updated, cmd := m.login.Update(msg)
		m.login = updated.(*LoginModel)
		m.syncSession()
		return m, cmd

	case RouteProtected:
		switch m.currentView {
		case DashboardView:
			updated, cmd := m.dashboard.Update(msg)
			m.dashboard = updated.(*DashboardModel)
			return m, cmd
		case ItemsView:
			updated, cmd := m.items.Update(msg)
			m.items = updated.(*ItemsModel)
			return m, cmd
		case UsersView:
			updated, cmd := m.users.Update(msg)
			m.users = updated.(*UsersModel)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) View() string {
	switch resolveRoute(m.snap) {
	case RouteLoading:
		return lipgloss.NewStyle().
			Width(80).
			Height(20).
			Align(lipgloss.Center, lipgloss.Center).
			Render(InfoStyle.Render("Restoring session..."))

	case RouteLogin:
		return m.login.View()
	}

	var statusBar string
	if m.snap.User != nil {
		who := lipgloss.NewStyle().Foreground(Success).Render(m.snap.User.Email)
		role := " " + BadgeStyle.Render(string(m.snap.User.Role))
		nav := lipgloss.NewStyle().Foreground(Muted).
			Render("   ctrl+d dashboard • ctrl+e items • ctrl+u users • ctrl+x logout")
		statusBar = StatusBarStyle.Render(who + role + nav)
	}

	var mainContent string
	switch m.currentView {
	case DashboardView:
		mainContent = m.dashboard.View()
	case ItemsView:
		mainContent = m.items.View()
	case UsersView:
		mainContent = m.users.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, "\n", mainContent)
}
