package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"annbridge/internal/domain"
)

// Entry is one item with the records converted from it.
type Entry struct {
	ItemID  string
	Text    string
	Records []domain.Record
}

// Model is the Bubble Tea model of the record browser.
type Model struct {
	entries  []Entry
	input    textinput.Model
	viewport viewport.Model
	summary  string
	status   string
	filter   string
	cursor   int
	ready    bool
}

// New creates a browser over entries.
func New(entries []Entry, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "filter> "
	ti.Placeholder = "label or type, Enter to apply"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	status := fmt.Sprintf("%d items. Up/Down to switch, Ctrl+C to quit.", len(entries))
	return Model{entries: entries, input: ti, viewport: vp, summary: summary, status: status}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := recordBoxStyle.GetFrameSize()
		_, fh := filterBoxStyle.GetFrameSize()
		reserved := 2 + 1 + fh + 1 // header and summary, status, spacer
		m.viewport.Width = max(40, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m.filter = strings.TrimSpace(m.input.Value())
			if m.filter == "" {
				m.status = "Filter cleared"
			} else {
				m.status = fmt.Sprintf("Filter %q: %d records", m.filter, len(m.visible()))
			}
			m.viewport.SetContent(m.renderCurrent())
			m.viewport.GotoTop()
			return m, nil
		case "down":
			if len(m.entries) > 0 {
				m.cursor = (m.cursor + 1) % len(m.entries)
				m.viewport.SetContent(m.renderCurrent())
				m.viewport.GotoTop()
				return m, nil
			}
		case "up":
			if len(m.entries) > 0 {
				m.cursor = (m.cursor - 1 + len(m.entries)) % len(m.entries)
				m.viewport.SetContent(m.renderCurrent())
				m.viewport.GotoTop()
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("annbridge records")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	records := recordBoxStyle.Render(m.viewport.View())
	input := filterBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + records + "\n" + input + "\n" + status
}

// visible returns the records of the current entry matching the filter.
func (m Model) visible() []domain.Record {
	if len(m.entries) == 0 {
		return nil
	}
	recs := m.entries[m.cursor].Records
	if m.filter == "" {
		return recs
	}
	f := strings.ToLower(m.filter)
	var out []domain.Record
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Label), f) || strings.Contains(strings.ToLower(r.TypeURI), f) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) renderCurrent() string {
	if len(m.entries) == 0 {
		return "No items."
	}
	e := m.entries[m.cursor]
	recs := m.visible()
	var b strings.Builder
	fmt.Fprintf(&b, "Item %d/%d  %s  records=%d/%d\n\n", m.cursor+1, len(m.entries), e.ItemID, len(recs), len(e.Records))
	if len(recs) == 0 {
		b.WriteString("No records.")
		return b.String()
	}
	typeWidth := max(12, min(48, m.viewport.Width/3))
	text := []rune(e.Text)
	for _, r := range recs {
		b.WriteString(column(r.TypeURI, typeWidth))
		b.WriteString("  ")
		b.WriteString(column(r.Label, 8))
		fmt.Fprintf(&b, "  %5d-%-5d  ", r.Begin, r.End)
		b.WriteString(highlightStyle.Render(covered(text, r.Begin, r.End)))
		b.WriteString("\n")
	}
	return b.String()
}

// column pads or truncates s to width terminal cells.
func column(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func covered(text []rune, begin, end int) string {
	if begin < 0 || end > len(text) || begin > end {
		return ""
	}
	s := strings.Join(strings.Fields(string(text[begin:end])), " ")
	return runewidth.Truncate(s, 40, "…")
}

var (
	recordBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	filterBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
