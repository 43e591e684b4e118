package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
)

// showCommand prints the grids, activities and panels of the layout.
func (c *CLI) showCommand() *cobra.Command {
	var gridKey string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			snap := sess.engine.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n\n",
				StyleTitle.Render("Workspace "+sess.cfg.Workspace),
				StyleDim.Render(fmt.Sprintf("(revision %d)", snap.Revision)))

			keys := snap.GridKeys()
			if gridKey != "" {
				keys = []string{gridKey}
			}
			for _, key := range keys {
				fmt.Fprintln(out, renderGrid(snap, key))
				fmt.Fprintln(out)
			}
			if gridKey == "" {
				writeActivities(out, snap)
				writePanels(out, snap.Dock)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&gridKey, "grid", "g", "", "show only this grid (main or an activity id)")
	return cmd
}

// renderGrid draws one grid as a tree: splits as "row 0.50", parts with
// their views, the active view marked with "*".
func renderGrid(s layout.Snapshot, key string) string {
	root := tree.Root(StyleHighlight.Render(gridHeading(s, key))).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim)
	if t := s.Grid(key); !t.IsEmpty() {
		root.Child(nodeTree(s, t.Root))
	} else {
		root.Child(StyleDim.Render("(empty)"))
	}
	return root.String()
}

func gridHeading(s layout.Snapshot, key string) string {
	if key == layout.MainGrid {
		if s.Maximized != "" {
			return fmt.Sprintf("main (maximized: %s)", s.Maximized)
		}
		return "main"
	}
	title, ok := s.Title(key)
	if !ok {
		return key
	}
	return fmt.Sprintf("%s: %s", key, title)
}

func nodeTree(s layout.Snapshot, n grid.Node) any {
	switch n := n.(type) {
	case *grid.Split:
		return tree.Root(StyleDim.Render(fmt.Sprintf("%s %.2f", n.Direction, n.Ratio))).
			Child(nodeTree(s, n.First), nodeTree(s, n.Second))
	case *grid.Part:
		return partLine(n)
	}
	return ""
}

func partLine(p *grid.Part) string {
	var b strings.Builder
	b.WriteString(StyleValue.Render(p.ID))
	if p.Title != "" {
		b.WriteString(" " + StyleDim.Render(fmt.Sprintf("%q", p.Title)))
	}
	if len(p.Views) > 0 {
		views := make([]string, len(p.Views))
		for i, v := range p.Views {
			views[i] = activeView(v, v == p.Active)
		}
		b.WriteString(" [" + strings.Join(views, " ") + "]")
	}
	if p.Navigated {
		b.WriteString(" " + StyleDim.Render("navigated"))
	}
	return b.String()
}

func writeActivities(w io.Writer, s layout.Snapshot) {
	var rows [][]string
	for _, slot := range dock.Slots() {
		for _, id := range s.Dock.InSlot(slot) {
			a, _ := s.Dock.Activity(id)
			state := activeMark(s.Dock.IsActive(id))
			content := "reserved"
			if s.Materialized(id) {
				content = fmt.Sprintf("%d parts", s.Grid(id).Len())
			}
			title, _ := s.Title(id)
			rows = append(rows, []string{state, slot.String(), id, title, a.PartID, content})
		}
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, StyleDim.Render("no activities"))
		return
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Slot", "Activity", "Title", "Part", "Grid").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}

func writePanels(w io.Writer, d dock.State) {
	fmt.Fprintln(w)
	for _, p := range dock.Panels() {
		state := "closed"
		if d.IsOpen(p) {
			state = "open"
		}
		line := fmt.Sprintf("%-7s %4.0fpx  %s", p, d.PanelSize(p), state)
		if d.BothOpen(p) {
			line += fmt.Sprintf("  split %.2f", d.PanelRatio(p))
		}
		fmt.Fprintln(w, StyleDim.Render(line))
	}
}
