package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/abacus/internal/model"
)

// TapePageID identifies the tape page.
const TapePageID = "tape"

// TapeEntry is one completed evaluation.
type TapeEntry struct {
	Expression string
	At         time.Time
}

// Tape keeps the completed evaluations of the running session, oldest first.
// It lives only in memory and is owned by the Bubble Tea loop.
type Tape struct {
	entries []TapeEntry
	max     int
	now     func() time.Time
}

// NewTape creates a tape holding at most size entries. A non-positive size
// selects the default.
func NewTape(size int) *Tape {
	if size <= 0 {
		size = model.DefaultTapeSize
	}
	return &Tape{max: size, now: time.Now}
}

// Add records an evaluated expression, dropping the oldest entry when full.
func (t *Tape) Add(expression string) {
	t.entries = append(t.entries, TapeEntry{Expression: expression, At: t.now()})
	if over := len(t.entries) - t.max; over > 0 {
		t.entries = append(t.entries[:0], t.entries[over:]...)
	}
}

// Entries returns a copy of the recorded entries.
func (t *Tape) Entries() []TapeEntry {
	out := make([]TapeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Tape) Len() int { return len(t.entries) }

// Reset removes every entry.
func (t *Tape) Reset() { t.entries = t.entries[:0] }

// TapePage lists the session tape in a scrollable viewport.
type TapePage struct {
	tape     *Tape
	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	width    int
	height   int
}

// NewTapePage creates the tape page over tape.
func NewTapePage(tape *Tape) *TapePage {
	return &TapePage{
		tape:     tape,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		viewport: viewport.New(0, 0),
	}
}

// ID implements Page.
func (p *TapePage) ID() string { return TapePageID }

// Init implements Page. The tape is re-read every time the page is shown.
func (p *TapePage) Init() tea.Cmd {
	p.refresh()
	p.viewport.GotoBottom()
	return nil
}

// Update implements Page.
func (p *TapePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		p.resize()
		return nil, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.ForceQuit), key.Matches(msg, p.keys.Quit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.NextPage), key.Matches(msg, p.keys.Clear):
			return nil, &PageNav{PageID: CalculatorPageID}
		case key.Matches(msg, p.keys.ClearTape):
			p.tape.Reset()
			p.refresh()
			return nil, nil
		case key.Matches(msg, p.keys.Up):
			p.viewport.LineUp(1)
			return nil, nil
		case key.Matches(msg, p.keys.Down):
			p.viewport.LineDown(1)
			return nil, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return cmd, nil
}

func (p *TapePage) resize() {
	// Header, border and help footer.
	p.viewport.Width = max(p.width-4, 0)
	p.viewport.Height = max(p.height-5, 0)
	p.refresh()
}

func (p *TapePage) refresh() {
	entries := p.tape.Entries()
	if len(entries) == 0 {
		p.viewport.SetContent(lipgloss.NewStyle().
			Foreground(color(activeSkin.Muted)).
			Italic(true).
			Render("No calculations yet"))
		return
	}

	numStyle := lipgloss.NewStyle().Foreground(color(activeSkin.Muted))
	timeStyle := lipgloss.NewStyle().Foreground(color(activeSkin.History))
	exprStyle := lipgloss.NewStyle().Foreground(color(activeSkin.Display))

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(numStyle.Render(fmt.Sprintf("%3d ", i+1)))
		b.WriteString(timeStyle.Render(e.At.Format("15:04:05")))
		b.WriteString("  ")
		b.WriteString(exprStyle.Render(e.Expression))
	}
	p.viewport.SetContent(b.String())
}

// View implements Page.
func (p *TapePage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing tape..."
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(color(activeSkin.Title)).
		Render(fmt.Sprintf("Tape (%d)", p.tape.Len()))

	content := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(activeSkin.Border)).
		Padding(0, 1).
		Render(p.viewport.View())

	footer := p.help.View(tapeHelp(p.keys))

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
