package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/seqgraph"
)

func browserModel(t *testing.T) RankingModel {
	t.Helper()
	start := "A"
	res, err := pipeline.NewRunner(nil, nil, nil).Rank(context.Background(),
		[]seqgraph.Sequence{{"A", "B", "C"}, {"A", "D"}}, pipeline.Options{Start: &start})
	require.NoError(t, err)
	return NewRankingModel(res)
}

func press(m RankingModel, keys ...string) RankingModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(RankingModel)
	}
	return m
}

func TestRankingModelOrder(t *testing.T) {
	m := browserModel(t)
	require.Len(t, m.Entries, 4)
	for i := 1; i < len(m.Entries); i++ {
		assert.GreaterOrEqual(t, m.Entries[i-1].Score, m.Entries[i].Score)
	}
	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, m.Entries[0], e)
}

func TestRankingModelNavigation(t *testing.T) {
	m := browserModel(t)
	m = press(m, "j", "j")
	assert.Equal(t, 2, m.Cursor)
	m = press(m, "j", "j", "j")
	assert.Equal(t, 3, m.Cursor, "cursor is clamped to the list")
	m = press(m, "k")
	assert.Equal(t, 2, m.Cursor)
	m = press(m, "g")
	assert.Equal(t, 0, m.Cursor)

	m.Height = 2
	m = press(m, "G")
	assert.Equal(t, 3, m.Cursor)
	assert.Equal(t, 2, m.Offset)
}

func TestRankingModelFilter(t *testing.T) {
	m := browserModel(t)
	m = press(m, "/", "a", "enter")
	assert.Equal(t, "a", m.Filter)
	assert.False(t, m.filtering)

	e, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "A", e.ID, "filter is case-insensitive")
	assert.Contains(t, m.View(), "[1/1]")

	m = press(m, "/", "backspace", "enter")
	assert.Empty(t, m.Filter)
	assert.Contains(t, m.View(), "[1/4]")
}

func TestRankingModelDetail(t *testing.T) {
	m := browserModel(t)
	m = press(m, "/", "A", "enter", "enter")
	require.True(t, m.Detail)
	view := m.View()
	assert.Contains(t, view, "2 links")
	assert.True(t, strings.Contains(view, "B") && strings.Contains(view, "D"))

	m = press(m, "esc")
	assert.False(t, m.Detail)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
