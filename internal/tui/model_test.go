package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annbridge/internal/domain"
)

func sampleEntries() []Entry {
	return []Entry{
		{ItemID: "a", Text: "The dog barked.", Records: []domain.Record{
			{TypeURI: "http://x/Sentence", Begin: 0, End: 15},
			{TypeURI: "http://x/POS", Label: "DT", Begin: 0, End: 3},
			{TypeURI: "http://x/POS", Label: "NN", Begin: 4, End: 7},
		}},
		{ItemID: "b", Text: "Hi."},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func TestModel_Navigation(t *testing.T) {
	m := update(t, New(sampleEntries(), "2 items"), tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.renderCurrent(), "Item 1/2  a  records=3/3")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.renderCurrent(), "No records.")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, m.cursor)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "annbridge records")
}

func TestModel_Filter(t *testing.T) {
	m := update(t, New(sampleEntries(), ""), tea.WindowSizeMsg{Width: 100, Height: 30})
	m.input.SetValue("pos")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.visible(), 2)
	assert.Contains(t, m.status, "2 records")

	m.input.SetValue("nn")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.visible(), 1)
	assert.Equal(t, "NN", m.visible()[0].Label)
	assert.Contains(t, m.renderCurrent(), "dog")

	m.input.SetValue("")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.visible(), 3)
}

func TestModel_Empty(t *testing.T) {
	m := New(nil, "")
	assert.Equal(t, "Loading...", m.View())
	assert.Equal(t, "No items.", m.renderCurrent())
}

func TestColumn(t *testing.T) {
	assert.Equal(t, 6, runewidth.StringWidth(column("名前です長い", 6)))
	assert.Equal(t, "ab    ", column("ab", 6))
	assert.Equal(t, "", covered([]rune("abc"), 2, 5))
}
