// Package render draws transition graphs with Graphviz.
//
// [ToDOT] converts a [graphio.Graph] into DOT source. Node fill intensity
// follows the node's score relative to the highest score, top-K nodes are
// outlined, and dangling nodes use a dashed border. Edge labels carry the
// transition probability when [Options.EdgeLabels] is set.
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(svg, 2.0)
//
// SVG rendering runs in-process through [github.com/goccy/go-graphviz].
// PDF and PNG conversion shells out to rsvg-convert from librsvg.
package render
