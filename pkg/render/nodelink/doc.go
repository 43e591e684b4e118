// Package nodelink draws layout snapshots as node-link diagrams.
//
// # Overview
//
// Each grid of a snapshot becomes a Graphviz cluster. Splits are ellipses
// labelled with their direction and ratio; parts are boxes listing their
// views, with the active view marked by an asterisk. Activities whose grid
// has not been materialized yet appear as a dashed box for their reserved
// part, and a maximized part is drawn with a bold outline.
//
// # Usage
//
//	dot := nodelink.ToDOT(snap, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [RenderPDF] and [RenderPNG], which require
// librsvg (rsvg-convert).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
