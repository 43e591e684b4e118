// Package render turns layouts into pictures.
//
// The [nodelink] subpackage draws a snapshot's grids as Graphviz node-link
// diagrams: splits become ellipses, parts become boxes listing their views.
// [ToPDF] and [ToPNG] convert the resulting SVG with the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/dockgrid/pkg/render/nodelink
package render
