package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/halvden/adminboard/internal/client"
)

type recentItemsMsg struct {
	items []client.Item
}

type dashboardErrorMsg struct {
	err error
}

type apiStatusMsg struct {
	reachable bool
}

// DashboardModel is the landing view: who is signed in, whether the API
// answers its health check, and the five most recent items.
type DashboardModel struct {
	api     *client.ItemsAPI
	core    *client.Client
	user    *client.AuthUser
	items   []client.Item
	apiUp   bool
	pinged  bool
	loading bool
	loaded  bool
	err     error
}

func NewDashboardModel(api *client.ItemsAPI, core *client.Client) *DashboardModel {
	return &DashboardModel{api: api, core: core}
}

func (m *DashboardModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardModel) SetUser(u *client.AuthUser) {
	m.user = u
}

func (m *DashboardModel) invalidate() {
	m.items = nil
	m.loaded = false
	m.loading = false
	m.pinged = false
	m.err = nil
}

func recentItemsCmd(api *client.ItemsAPI) tea.Cmd {
	return func() tea.Msg {
		items, err := api.List(context.Background())
		if err != nil {
			return dashboardErrorMsg{err: err}
		}
		return recentItemsMsg{items: items}
	}
}

func pingCmd(core *client.Client) tea.Cmd {
	return func() tea.Msg {
		return apiStatusMsg{reachable: core.Ping(context.Background()) == nil}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recentItemsMsg:
		m.loading = false
		m.loaded = true
		m.items = msg.items
		m.err = nil
		return m, nil

	case dashboardErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case apiStatusMsg:
		m.pinged = true
		m.apiUp = msg.reachable
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			m.err = nil
			return m, tea.Batch(recentItemsCmd(m.api), pingCmd(m.core))
		}
	}

	if !m.loaded && !m.loading && m.user != nil {
		m.loading = true
		return m, tea.Batch(recentItemsCmd(m.api), pingCmd(m.core))
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	var b strings.Builder

	header := TitleStyle.Render("DASHBOARD")
	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginTop(1).
		MarginBottom(1).
		Render(header))
	b.WriteString("\n\n")

	if m.user != nil {
		welcome := lipgloss.NewStyle().Foreground(Text).Render("Hello ") +
			lipgloss.NewStyle().Foreground(Secondary).Bold(true).Render(m.user.Email) +
			lipgloss.NewStyle().Foreground(Text).Render("! You are signed in as ") +
			BadgeStyle.Render(string(m.user.Role))
		b.WriteString(centered(welcome))
		b.WriteString("\n\n")
	}

	if m.pinged {
		status := SuccessStyle.Render("● API reachable")
		if !m.apiUp {
			status = ErrorStyle.Render("● API unreachable")
		}
		b.WriteString(centered(status))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(SubtitleStyle.Render("Recent items")))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(centered(InfoStyle.Render("Loading items...")))
	case m.err != nil:
		b.WriteString(centered(ErrorStyle.Render("✗ " + m.err.Error())))
	case len(m.items) == 0:
		b.WriteString(centered(InfoStyle.Render("No items yet. Create your first one from the Items view.")))
	default:
		recent := m.items
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, it := range recent {
			name := lipgloss.NewStyle().Foreground(Text).Bold(true).Render(truncate(it.Name, 40))
			when := lipgloss.NewStyle().Foreground(Muted).Render(it.CreatedAt.Format("2006-01-02 15:04"))
			b.WriteString(centered(name + "  " + when))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(centered(InfoStyle.Render("r refresh")))

	return BoxStyle.Width(76).Render(b.String())
}
