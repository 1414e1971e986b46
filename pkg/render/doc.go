// Package render exports computed chart layouts as previews.
//
// # Overview
//
// A [snapshot.Layout] holds pixel positions but no drawing. This package
// turns it into Graphviz DOT source in which every laid-out element is a
// node pinned at its position, so Graphviz only draws and never moves
// anything. It produces:
//
//   - DOT source ([ToDOT])
//   - SVG through Graphviz ([RenderSVG])
//   - PDF and PNG through rsvg-convert ([ToPDF], [ToPNG])
//
// # Elements
//
// Items are classified by the shape of their layout:
//
//	[x, y]                    point      small circle
//	[[x, y], ...]             polyline   circles joined by lines
//	{x, y, width, height}     rect       box
//	{cx, cy, r0, r, ...}      sector     circle at the middle of the arc
//
// Graph series become their nodes and edges, labeled by node name.
// Large-mode point buffers are drawn as points.
//
// # Usage
//
//	dot := render.ToDOT(layout, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//
// Graphviz has its origin at the bottom left, so y coordinates are
// flipped against the layout height.
package render
