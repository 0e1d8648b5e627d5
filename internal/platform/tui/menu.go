package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/b18print/internal/game"
	"github.com/vovakirdan/b18print/internal/storage"
)

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	Name    string
	Title   string
	LastRun string // Empty when the game was never rendered
}

// MenuModel is the Bubble Tea model for the game picker. Picking a game asks
// for the version to render.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	keyMapper   *KeyMapper
	version     textinput.Model
	askVersion  bool
	quitting    bool
	selected    *MenuItem
	openHistory bool
}

// NewMenuModel creates a new menu model. stats may be nil.
func NewMenuModel(games []game.Summary, stats map[string]*storage.GameStats, width, height int) MenuModel {
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{Name: g.Name, Title: g.Title}
		if item.Title == "" {
			item.Title = g.Name
		}
		if st, ok := stats[g.Name]; ok && !st.LastRun.IsZero() {
			item.LastRun = st.LastRun.Local().Format("Jan 02 15:04")
		}
		items = append(items, item)
	}

	ti := textinput.New()
	ti.Placeholder = "1"
	ti.Prompt = "Version: "
	ti.CharLimit = 32

	return MenuModel{
		items:     items,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		version:   ti,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.askVersion {
			return m.handleVersionKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			m.askVersion = true
			return m, m.version.Focus()
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// handleVersionKey feeds the version prompt.
func (m MenuModel) handleVersionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEsc:
		m.askVersion = false
		m.version.Blur()
		m.version.SetValue("")
		return m, nil

	case tea.KeyEnter:
		if strings.TrimSpace(m.version.Value()) == "" {
			return m, nil
		}
		selected := m.items[m.cursor]
		m.selected = &selected
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.version, cmd = m.version.Update(msg)
	return m, cmd
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("  B 1 8 P R I N T  ", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a game to render", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("No games found.", m.width))
		b.WriteString("\n")
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, item.Name, item.Title)
		if item.LastRun != "" {
			line += dim.Render("  (last " + item.LastRun + ")")
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.askVersion {
		b.WriteString(centerText(m.version.View(), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Enter: Render  |  Esc: Back", m.width))
	} else {
		b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: History  |  Q: Quit", m.width))
	}
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Version returns the version typed for the selected game.
func (m MenuModel) Version() string {
	return strings.TrimSpace(m.version.Value())
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the run history.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Game         string
	Version      string
	WantsHistory bool
	Quit         bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(games []game.Summary, stats map[string]*storage.GameStats, width, height int) (MenuResult, error) {
	model := NewMenuModel(games, stats, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	if m.WantsHistory() {
		return MenuResult{WantsHistory: true}, nil
	}
	if m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Quit: true}, nil
	}

	return MenuResult{Game: m.Selected().Name, Version: m.Version()}, nil
}
