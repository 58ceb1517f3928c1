package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/graphio"
)

// DefaultRankDir is the layout direction used when none is set.
const DefaultRankDir = "LR"

// RankDirs is the set of Graphviz layout directions accepted by [ToDOT].
var RankDirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// Options configures DOT generation.
type Options struct {
	// EdgeLabels prints the transition probability on every edge.
	EdgeLabels bool
	// Scores appends the score to node labels when the graph carries one.
	Scores bool
	// RankDir is the Graphviz layout direction, one of TB, LR, BT or RL.
	// Defaults to "LR".
	RankDir string
}

// Validate checks that RankDir is empty or a known layout direction.
func (o Options) Validate() error {
	if o.RankDir != "" && !RankDirs[o.RankDir] {
		return errors.New(errors.ErrCodeInvalidOption, "invalid rankdir %q (must be TB, LR, BT or RL)", o.RankDir)
	}
	return nil
}

// ToDOT converts g to Graphviz DOT source. An unknown RankDir falls back
// to [DefaultRankDir]; callers taking user input should run
// [Options.Validate] first.
func ToDOT(g *graphio.Graph, opts Options) string {
	rankdir := opts.RankDir
	if !RankDirs[rankdir] {
		rankdir = DefaultRankDir
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10, color=\"#555555\"];\n")
	buf.WriteString("\n")

	maxScore := 0.0
	for _, n := range g.Nodes {
		if n.Score != nil && *n.Score > maxScore {
			maxScore = *n.Score
		}
	}
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, maxScore, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if opts.EdgeLabels {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, strconv.FormatFloat(e.Probability, 'g', 3, 64))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graphio.Node, maxScore float64, opts Options) []string {
	label := n.ID
	if opts.Scores && n.Score != nil {
		label += "\n" + strconv.FormatFloat(*n.Score, 'e', 3, 64)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	if n.Score != nil && maxScore > 0 {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", heat(*n.Score/maxScore)))
	}
	style := "rounded,filled"
	if n.Dangling {
		style += ",dashed"
	}
	attrs = append(attrs, fmt.Sprintf("style=%q", style))
	if n.Rank > 0 {
		attrs = append(attrs, "penwidth=3", `color="#c0392b"`)
	}
	return attrs
}

// heat maps t in [0,1] to a white-to-orange fill.
func heat(t float64) string {
	t = min(max(t, 0), 1)
	g := 255 - int(t*(255-140))
	b := 255 - int(t*255)
	return fmt.Sprintf("#ff%02x%02x", g, b)
}

// RenderSVG renders DOT source to SVG with Graphviz.
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

// normalizeViewBox replaces Graphviz's pt-based svg tag with a unitless one
// so the image scales in browsers.
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
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
