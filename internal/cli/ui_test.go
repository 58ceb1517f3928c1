package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

func TestPrintGraphSummary(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   string
	}{
		{"chain", pipeline.Stats{Nodes: 3, Edges: 2, Dangling: 1}, false, "3 articles · 2 links · 1 dead end · fresh"},
		{"cycle", pipeline.Stats{Nodes: 2, Edges: 2}, true, "2 articles · 2 links · cached"},
		{"single", pipeline.Stats{Nodes: 1, Edges: 0, Dangling: 1}, false, "1 article · 0 links · 1 dead end · fresh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printGraphSummary(&buf, tt.stats, tt.cached)
			assert.Equal(t, tt.want, strings.TrimSpace(buf.String()))
		})
	}
}

func TestPrintRanking(t *testing.T) {
	start := "A"
	res, err := pipeline.NewRunner(nil, nil, nil).Rank(context.Background(),
		[]seqgraph.Sequence{{"<", "A", "B", "C"}}, pipeline.Options{Start: &start})
	require.NoError(t, err)

	var buf bytes.Buffer
	printRanking(&buf, res, true)
	out := buf.String()

	assert.Contains(t, out, "Article")
	assert.Contains(t, out, formatScore(res.Ranking.Top[0].Score))
	assert.Contains(t, out, "3 articles · 2 links · 1 dead end")
	assert.Contains(t, out, "1 sequences started with a backtrack")
	assert.Contains(t, out, res.RunID)
}

func TestStatusLines(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "Exported %s graph", "svg")
	printFile(&buf, "paths-graph.svg")
	printNextStep(&buf, "Re-rank it", "pathrank rank paths-graph.json")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, iconSuccess+" Exported svg graph", lines[0])
	assert.Equal(t, "  "+iconArrow+" paths-graph.svg", lines[1])
	assert.Equal(t, "Re-rank it: pathrank rank paths-graph.json", lines[2])
}
