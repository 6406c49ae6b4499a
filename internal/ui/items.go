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

type itemsMode int

const (
	itemsBrowse itemsMode = iota
	itemsCreate
	itemsEdit
)

type itemsLoadedMsg struct {
	items []client.Item
}

type itemsErrorMsg struct {
	err error
}

type itemSavedMsg struct {
	verb string
}

// ItemsModel is the items CRUD table with an inline create/rename form.
type ItemsModel struct {
	api       *client.ItemsAPI
	items     []client.Item
	cursor    int
	mode      itemsMode
	nameInput string
	editID    uuid.UUID
	loading   bool
	loaded    bool
	err       error
	notice    string
}

func NewItemsModel(api *client.ItemsAPI) *ItemsModel {
	return &ItemsModel{api: api}
}

func (m *ItemsModel) Init() tea.Cmd {
	return nil
}

func (m *ItemsModel) invalidate() {
	m.items = nil
	m.cursor = 0
	m.mode = itemsBrowse
	m.nameInput = ""
	m.loaded = false
	m.loading = false
	m.err = nil
	m.notice = ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func loadItemsCmd(api *client.ItemsAPI) tea.Cmd {
	return func() tea.Msg {
		items, err := api.List(context.Background())
		if err != nil {
			return itemsErrorMsg{err: err}
		}
		return itemsLoadedMsg{items: items}
	}
}

func createItemCmd(api *client.ItemsAPI, name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := api.Create(context.Background(), client.CreateItemInput{Name: name}); err != nil {
			return itemsErrorMsg{err: err}
		}
		return itemSavedMsg{verb: "created"}
	}
}

func renameItemCmd(api *client.ItemsAPI, id uuid.UUID, name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := api.Update(context.Background(), id, client.UpdateItemInput{Name: &name}); err != nil {
			return itemsErrorMsg{err: err}
		}
		return itemSavedMsg{verb: "updated"}
	}
}

func deleteItemCmd(api *client.ItemsAPI, id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		if err := api.Delete(context.Background(), id); err != nil {
			return itemsErrorMsg{err: err}
		}
		return itemSavedMsg{verb: "deleted"}
	}
}

func (m *ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.loading = false
		m.loaded = true
		m.items = msg.items
		m.err = nil
		if m.cursor >= len(m.items) && m.cursor > 0 {
			m.cursor = len(m.items) - 1
		}
		return m, nil

	case itemsErrorMsg:
		m.loading = false
		m.loaded = true
		m.err = msg.err
		return m, nil

	case itemSavedMsg:
		m.mode = itemsBrowse
		m.nameInput = ""
		m.err = nil
		m.notice = "Item " + msg.verb
		// Re-fetch: the local list is stale after any mutation.
		m.loaded = false

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.mode == itemsBrowse {
			switch msg.String() {
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.items)-1 {
					m.cursor++
				}
			case "n":
				m.mode = itemsCreate
				m.nameInput = ""
				m.err = nil
				m.notice = ""
			case "e":
				if len(m.items) > 0 {
					m.mode = itemsEdit
					m.editID = m.items[m.cursor].ID
					m.nameInput = m.items[m.cursor].Name
					m.err = nil
					m.notice = ""
				}
			case "d":
				if len(m.items) > 0 {
					m.notice = ""
					return m, deleteItemCmd(m.api, m.items[m.cursor].ID)
				}
			case "r":
				m.loading = true
				m.err = nil
				m.notice = ""
				return m, loadItemsCmd(m.api)
			}
		} else {
			switch msg.String() {
			case "esc":
				m.mode = itemsBrowse
				m.nameInput = ""
				m.err = nil
			case "enter":
				if m.mode == itemsCreate {
					return m, createItemCmd(m.api, m.nameInput)
				}
				return m, renameItemCmd(m.api, m.editID, m.nameInput)
			case "backspace":
				if len(m.nameInput) > 0 {
					m.nameInput = m.nameInput[:len(m.nameInput)-1]
				}
			default:
				if len(msg.String()) == 1 {
					m.nameInput += msg.String()
				}
			}
		}
	}

	if !m.loaded && !m.loading {
		m.loading = true
		return m, loadItemsCmd(m.api)
	}

	return m, nil
}

func (m *ItemsModel) View() string {
	var b strings.Builder

	header := TitleStyle.Render("ITEMS")
	b.WriteString(lipgloss.NewStyle().
		Width(80).
		Align(lipgloss.Center).
		MarginTop(1).
		MarginBottom(1).
		Render(header))
	b.WriteString("\n\n")

	if m.mode != itemsBrowse {
		label := "New item name:"
		if m.mode == itemsEdit {
			label = "Rename item:"
		}
		field := lipgloss.JoinHorizontal(lipgloss.Left,
			LabelStyle.Width(18).Render(label),
			FocusedInputStyle.Width(44).Render(m.nameInput))
		b.WriteString(centered(field))
		b.WriteString("\n\n")
	}

	switch {
	case m.loading:
		b.WriteString(centered(InfoStyle.Render("Loading items...")))
		b.WriteString("\n")
	case m.err != nil:
		b.WriteString(centered(ErrorStyle.Render("✗ " + m.err.Error())))
		b.WriteString("\n")
	case len(m.items) == 0:
		b.WriteString(centered(InfoStyle.Render("No items yet. Press n to create one.")))
		b.WriteString("\n")
	default:
		for i, it := range m.items {
			style := ItemStyle
			cursor := "  "
			if i == m.cursor && m.mode == itemsBrowse {
				style = SelectedItemStyle
				cursor = "> "
			}
			row := fmt.Sprintf("%s%-40s %s", cursor, truncate(it.Name, 40), it.CreatedAt.Format("2006-01-02 15:04"))
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
	if m.mode == itemsBrowse {
		help = "↑/↓ navigate  •  n new  •  e rename  •  d delete  •  r refresh"
	} else {
		help = "enter save  •  esc cancel"
	}
	b.WriteString(centered(InfoStyle.Render(help)))

	return BoxStyle.Width(76).Render(b.String())
}
