package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand opens an interactive view of the docked activities.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively toggle activities and inspect their grids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			m := newBrowseModel(cmd.Context(), sess.engine)
			if len(m.items) == 0 {
				printInfo("No activities docked")
				printNextStep("Add one with", "dockgrid op add-part id=explorer-part slot=left-top activity=explorer label=Explorer")
				return nil
			}
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// browseModel - activity list with live toggling
// =============================================================================

type browseItem struct {
	id   string
	slot dock.Slot
}

// browseModel lists activities in slot order. Enter toggles the selected
// activity; the grid of the selected activity is drawn below the list.
type browseModel struct {
	ctx    context.Context
	engine *layout.Engine
	items  []browseItem
	cursor int
	status string
	err    error
}

func newBrowseModel(ctx context.Context, e *layout.Engine) browseModel {
	m := browseModel{ctx: ctx, engine: e}
	m.reload()
	return m
}

func (m *browseModel) reload() {
	snap := m.engine.Snapshot()
	m.items = m.items[:0]
	for _, slot := range dock.Slots() {
		for _, id := range snap.Dock.InSlot(slot) {
			m.items = append(m.items, browseItem{id: id, slot: slot})
		}
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) > 0 {
			m.toggle(m.items[m.cursor].id)
		}
	}
	return m, nil
}

// toggle activates an inactive activity or closes an active one.
func (m *browseModel) toggle(id string) {
	snap := m.engine.Snapshot()
	a, ok := snap.Dock.Activity(id)
	if !ok {
		m.reload()
		return
	}
	var op layout.Operation = layout.ActivatePart{Part: a.PartID}
	verb := "activated"
	if snap.Dock.IsActive(id) {
		op = layout.DeactivateActivity{Activity: id}
		verb = "closed"
	}
	if _, err := m.engine.Apply(m.ctx, op); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = fmt.Sprintf("%s %s", verb, id)
	m.reload()
}

func (m browseModel) View() string {
	var b strings.Builder
	snap := m.engine.Snapshot()

	b.WriteString(StyleTitle.Render("Activities"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  q quit"))
	b.WriteString("\n\n")

	for i, it := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		icon := activeMark(snap.Dock.IsActive(it.id))
		title, _ := snap.Title(it.id)
		line := fmt.Sprintf("%s%s %-14s %-16s %s", cursor, icon, it.slot, it.id, listDimStyle.Render(title))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(renderGrid(snap, m.items[m.cursor].id))
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("\n" + styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
	case m.status != "":
		b.WriteString("\n" + listDimStyle.Render(m.status) + "\n")
	}
	return b.String()
}
