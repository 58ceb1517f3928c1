package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/rank"
)

// rankingTable renders top-K entries as a bordered table.
func rankingTable(entries []rank.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.ID, formatScore(e.Score)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Article", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 2:
				return StyleNumber.Padding(0, 1)
			case row == 0:
				return StyleTitle.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'e', 6, 64)
}

// printRanking writes the top-K table followed by run statistics.
func printRanking(w io.Writer, res *pipeline.Result, stats bool) {
	fmt.Fprintln(w, rankingTable(res.Ranking.Top))
	printGraphSummary(w, res.Stats, res.CacheHit)

	if n := len(res.Report.Issues); n > 0 {
		printWarning(w, "%d sequences started with a backtrack or held only backtracks", n)
	}
	if stats {
		u := res.Graph.Universe()
		printKeyValue(w, "Run", res.RunID)
		printKeyValue(w, "Start", u.ID(res.Ranking.Start))
		printKeyValue(w, "Iterations", strconv.Itoa(res.Ranking.Iterations))
		printKeyValue(w, "Last delta", formatScore(res.Ranking.Delta))
		printKeyValue(w, "Sequences", strconv.Itoa(res.Stats.Sequences))
		printKeyValue(w, "Backtracks", strconv.Itoa(res.Report.Backtracks))
		printKeyValue(w, "Build", res.Stats.BuildTime.String())
		printKeyValue(w, "Rank", res.Stats.RankTime.String())
	}
}
