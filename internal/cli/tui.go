package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/rank"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RankingModel - Interactive score browser
// =============================================================================

// RankingModel is the bubbletea model behind `rank --browse`. It lists every
// article by descending score and shows the outgoing links of the selected
// one.
type RankingModel struct {
	Entries []rank.Entry
	Graph   *seqgraph.AdjacencySet
	Cursor  int // position within the filtered list
	Offset  int
	Height  int
	Filter  string
	Detail  bool

	filtering bool
}

// NewRankingModel creates a browser over all scores of res.
func NewRankingModel(res *pipeline.Result) RankingModel {
	u := res.Graph.Universe()
	return RankingModel{
		Entries: rank.TopK(res.Ranking.Scores, u, u.Len(), rank.TiesDistinct),
		Graph:   res.Graph,
		Height:  15,
	}
}

func (m RankingModel) Init() tea.Cmd {
	return nil
}

// visible returns the indices of Entries matching the filter.
func (m RankingModel) visible() []int {
	idx := make([]int, 0, len(m.Entries))
	f := strings.ToLower(m.Filter)
	for i, e := range m.Entries {
		if f == "" || strings.Contains(strings.ToLower(e.ID), f) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Selected returns the entry under the cursor.
func (m RankingModel) Selected() (rank.Entry, bool) {
	vis := m.visible()
	if m.Cursor < 0 || m.Cursor >= len(vis) {
		return rank.Entry{}, false
	}
	return m.Entries[vis[m.Cursor]], true
}

func (m RankingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Entries))
		case "end", "G":
			m.move(len(m.Entries))
		case "enter":
			m.Detail = !m.Detail
		case "/":
			m.filtering = true
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RankingModel) updateFilter(msg tea.KeyMsg) RankingModel {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.filtering = false
	case tea.KeyBackspace:
		if r := []rune(m.Filter); len(r) > 0 {
			m.Filter = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Filter += string(msg.Runes)
	}
	m.Cursor, m.Offset = 0, 0
	return m
}

// move shifts the cursor by delta, clamped to the filtered list, and keeps
// it inside the window.
func (m *RankingModel) move(delta int) {
	n := len(m.visible())
	m.Cursor = max(0, min(m.Cursor+delta, n-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m RankingModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Article Ranking"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ links  / filter  q quit"))
	b.WriteString("\n")
	if m.filtering || m.Filter != "" {
		b.WriteString(listNormalStyle.Render("filter: " + m.Filter))
		if m.filtering {
			b.WriteString(listSelectedStyle.Render("▏"))
		}
	}
	b.WriteString("\n\n")

	vis := m.visible()
	end := min(m.Offset+m.Height, len(vis))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[vis[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.Itoa(vis[i] + 1),
			e.ID,
			formatScore(e.Score),
			strconv.Itoa(m.Graph.OutDegree(e.Index)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Article", "Score", "Links").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return StyleNumber
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(vis)), len(vis))))

	if m.Detail {
		if e, ok := m.Selected(); ok {
			b.WriteString("\n\n")
			b.WriteString(m.detailView(e))
		}
	}
	return b.String()
}

// detailView lists the outgoing links of e with their transition probability.
func (m RankingModel) detailView(e rank.Entry) string {
	var b strings.Builder
	u := m.Graph.Universe()
	succ := m.Graph.Successors(e.Index)

	b.WriteString(StyleHighlight.Render(e.ID))
	if len(succ) == 0 {
		b.WriteString(listDimStyle.Render("  dead end, teleports only"))
		return b.String()
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d links, p=%.3g each", len(succ), 1/float64(len(succ)))))
	for _, j := range succ {
		b.WriteString("\n  " + StyleDim.Render(iconArrow) + " " + listNormalStyle.Render(u.ID(j)))
	}
	return b.String()
}
