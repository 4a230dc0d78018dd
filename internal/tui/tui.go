// Package tui is the terminal front-end. Ticks and purchases both run inside
// Update, so the world has a single writer without any locking.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/idlelink/internal/format"
	"github.com/napolitain/idlelink/internal/tick"
	"github.com/napolitain/idlelink/internal/world"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

// rarityColors maps rarity colour names to terminal colours
var rarityColors = map[string]lipgloss.Color{
	"white": lipgloss.Color("#FFFFFF"),
	"green": lipgloss.Color("#5FD75F"),
}

func rarityStyle(color string) lipgloss.Style {
	c, ok := rarityColors[color]
	if !ok {
		c = rarityColors["white"]
	}
	return lipgloss.NewStyle().Foreground(c)
}

type tickMsg time.Time

type model struct {
	world  *world.World
	driver *tick.Driver

	cursor int
	status string
	err    error

	help  help.Model
	width int
}

// NewModel creates the game model. The driver is only stepped, never Run.
func NewModel(w *world.World, d *tick.Driver) model {
	return model{
		world:  w,
		driver: d,
		help:   help.New(),
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.driver.Interval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return m.tick()
}

// selectable returns the buildings of unlocked locations, in display order
func (m model) selectable() []*world.Building {
	var out []*world.Building
	for _, loc := range m.world.Locations() {
		if loc.Unlocked {
			out = append(out, loc.Buildings...)
		}
	}
	return out
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		buildings := m.selectable()
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(buildings)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Buy):
			if m.cursor < len(buildings) {
				m.buy(buildings[m.cursor])
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if err := m.driver.Step(); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *model) buy(b *world.Building) {
	ok, err := m.world.TryPurchase(b)
	switch {
	case err != nil:
		m.err = err
	case ok:
		m.status = fmt.Sprintf("Bought %s (%d owned)", b.DisplayName, b.Owned())
	default:
		m.status = fmt.Sprintf("Cannot afford %s", b.DisplayName)
	}
}

func (m model) View() string {
	if m.err != nil {
		return "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.renderResources()),
		panelStyle.Render(m.renderBuildings()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panels,
		statusStyle.Render(m.status),
		m.help.View(keys),
	) + "\n"
}

func (m model) renderResources() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("RESOURCES") + "\n")

	for _, r := range m.world.Resources() {
		limit, err := r.MaxAmount()
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		prod, err := r.Production()
		if err != nil {
			return errorStyle.Render(err.Error())
		}
		ttf, err := r.TimeToFull()
		if err != nil {
			return errorStyle.Render(err.Error())
		}

		line := fmt.Sprintf("%s %8s / %-6s %-9s",
			rarityStyle(r.Rarity.Color).Render(fmt.Sprintf("%-22s", r.DisplayName)),
			format.Decimal(r.Amount(), 2),
			format.Decimal(limit, 0),
			format.Production(prod))
		if left := format.TimeLeft(ttf); left != "" && ttf > 0 {
			line += dimStyle.Render(" full in " + left)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (m model) renderBuildings() string {
	var sb strings.Builder
	i := 0
	for _, loc := range m.world.Locations() {
		if !loc.Unlocked {
			continue
		}
		sb.WriteString(titleStyle.Render(strings.ToUpper(loc.Name)) + "\n")

		for _, b := range loc.Buildings {
			price, err := b.Price()
			if err != nil {
				return errorStyle.Render(err.Error())
			}
			afford, err := b.CanAfford()
			if err != nil {
				return errorStyle.Render(err.Error())
			}

			line := fmt.Sprintf("%-16s x%-3d %s", b.DisplayName, b.Owned(), format.Price(price))
			switch {
			case i == m.cursor:
				line = selectedStyle.Render("> " + line)
			case !afford:
				line = dimStyle.Render("  " + line)
			default:
				line = "  " + line
			}
			sb.WriteString(line + "\n")
			i++
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Run starts the interactive game and blocks until the player quits
func Run(w *world.World, d *tick.Driver) error {
	p := tea.NewProgram(NewModel(w, d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
