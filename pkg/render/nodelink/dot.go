package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dockgrid/pkg/core/dock"
	"github.com/matzehuels/dockgrid/pkg/core/grid"
	"github.com/matzehuels/dockgrid/pkg/core/layout"
	"github.com/matzehuels/dockgrid/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the navigated flag and part titles to part labels.
	Detailed bool

	// Grids limits the diagram to the given grid keys. Empty draws all.
	Grids []string
}

// ToDOT converts a snapshot to Graphviz DOT source.
func ToDOT(s layout.Snapshot, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")

	want := make(map[string]bool, len(opts.Grids))
	for _, k := range opts.Grids {
		want[k] = true
	}

	for i, key := range s.GridKeys() {
		if len(want) > 0 && !want[key] {
			continue
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", clusterLabel(s, key))
		buf.WriteString("    style=rounded;\n")
		writeGrid(&buf, s, key, opts)
		buf.WriteString("  }\n")
	}

	var reserved []string
	for _, key := range sortedActivities(s) {
		if s.Materialized(key) || (len(want) > 0 && !want[key]) {
			continue
		}
		reserved = append(reserved, key)
	}
	if len(reserved) > 0 {
		buf.WriteString("\n")
		for _, id := range reserved {
			a, _ := s.Dock.Activity(id)
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dashed\"];\n",
				a.PartID, fmt.Sprintf("%s\n(%s, not materialized)", a.PartID, id))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clusterLabel(s layout.Snapshot, key string) string {
	if key == layout.MainGrid {
		return key
	}
	a, _ := s.Dock.Activity(key)
	title, _ := s.Title(key)
	state := "inactive"
	if s.Dock.IsActive(key) {
		state = "active"
	}
	return fmt.Sprintf("%s: %s [%s, %s]", key, title, a.Slot, state)
}

func sortedActivities(s layout.Snapshot) []string {
	var ids []string
	for _, slot := range dock.Slots() {
		ids = append(ids, s.Dock.InSlot(slot)...)
	}
	return ids
}

func writeGrid(buf *bytes.Buffer, s layout.Snapshot, key string, opts Options) {
	splits := 0
	names := map[grid.Node]string{}
	name := func(n grid.Node) string {
		if id, ok := names[n]; ok {
			return id
		}
		var id string
		switch n := n.(type) {
		case *grid.Part:
			id = n.ID
		case *grid.Split:
			splits++
			id = fmt.Sprintf("%s/split%d", key, splits)
		}
		names[n] = id
		return id
	}

	if s.Grid(key).IsEmpty() {
		fmt.Fprintf(buf, "    %q [label=\"(empty)\", shape=plaintext, style=\"\"];\n", key+"/empty")
		return
	}

	s.Walk(key, func(n grid.Node, _ int) bool {
		switch n := n.(type) {
		case *grid.Split:
			id := name(n)
			fmt.Fprintf(buf, "    %q [label=%q, shape=ellipse, fillcolor=lightgrey];\n",
				id, fmt.Sprintf("%s %.2f", n.Direction, n.Ratio))
			fmt.Fprintf(buf, "    %q -> %q;\n", id, name(n.First))
			fmt.Fprintf(buf, "    %q -> %q;\n", id, name(n.Second))
		case *grid.Part:
			attrs := []string{fmt.Sprintf("label=%q", partLabel(n, opts.Detailed))}
			if n.ID == s.Maximized {
				attrs = append(attrs, "penwidth=3")
			}
			if n.Empty() {
				attrs = append(attrs, "fillcolor=whitesmoke")
			}
			fmt.Fprintf(buf, "    %q [%s];\n", name(n), strings.Join(attrs, ", "))
		}
		return true
	})
}

func partLabel(p *grid.Part, detailed bool) string {
	lines := []string{p.ID}
	if detailed && p.Title != "" {
		lines[0] += fmt.Sprintf(" %q", p.Title)
	}
	for _, v := range p.Views {
		if v == p.Active {
			v = "* " + v
		}
		lines = append(lines, v)
	}
	if detailed && p.Navigated {
		lines = append(lines, "(navigated)")
	}
	return strings.Join(lines, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
