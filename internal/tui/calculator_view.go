package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type buttonKind int

const (
	buttonDigit buttonKind = iota
	buttonOperator
	buttonAction
	buttonEquals
)

// button is one keypad key. key is the name understood by calc.ParseKey.
type button struct {
	label string
	key   string
	span  int
	kind  buttonKind
}

// buttonCellWidth is the outer width of a single-span button.
const buttonCellWidth = 7

var keypad = [][]button{
	{
		{label: "AC", key: "clear", span: 1, kind: buttonAction},
		{label: "⌫", key: "backspace", span: 1, kind: buttonAction},
		{label: "÷", key: "/", span: 1, kind: buttonOperator},
		{label: "×", key: "*", span: 1, kind: buttonOperator},
	},
	{
		{label: "7", key: "7", span: 1},
		{label: "8", key: "8", span: 1},
		{label: "9", key: "9", span: 1},
		{label: "−", key: "-", span: 1, kind: buttonOperator},
	},
	{
		{label: "4", key: "4", span: 1},
		{label: "5", key: "5", span: 1},
		{label: "6", key: "6", span: 1},
		{label: "+", key: "+", span: 1, kind: buttonOperator},
	},
	{
		{label: "1", key: "1", span: 1},
		{label: "2", key: "2", span: 1},
		{label: "3", key: "3", span: 1},
		{label: ".", key: ".", span: 1},
	},
	{
		{label: "0", key: "0", span: 2},
		{label: "=", key: "=", span: 2, kind: buttonEquals},
	},
}

// keypadWidth is the outer width of the keypad grid.
const keypadWidth = 4 * buttonCellWidth

func (p *CalculatorPage) zoneID(b button) string {
	return p.prefix + "key:" + b.key
}

func (p *CalculatorPage) mark(b button, rendered string) string {
	if p.zones == nil {
		return rendered
	}
	return p.zones.Mark(p.zoneID(b), rendered)
}

// View implements Page.
func (p *CalculatorPage) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return "Initializing calculator..."
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(color(activeSkin.Title)).
		Width(keypadWidth).
		Align(lipgloss.Center).
		Render("abacus")

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		p.renderDisplay(),
		p.renderKeypad(),
	)

	footer := p.help.View(calculatorHelp(p.keys))
	needW := max(keypadWidth, lipgloss.Width(footer))
	needH := lipgloss.Height(body) + lipgloss.Height(footer)
	if width < keypadWidth || height < needH {
		return fmt.Sprintf("Terminal too small. Resize to at least %dx%d.", needW, needH)
	}

	block := lipgloss.JoinVertical(lipgloss.Center, body, footer)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// renderDisplay renders History on the secondary line and the error or
// Current on the primary line.
func (p *CalculatorPage) renderDisplay() string {
	inner := keypadWidth - 4

	history := lipgloss.NewStyle().
		Foreground(color(activeSkin.History)).
		Width(inner).
		Align(lipgloss.Right).
		Render(tail(p.state.History, inner))

	primaryStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color(activeSkin.Display)).
		Width(inner).
		Align(lipgloss.Right)
	if p.state.HasError() {
		primaryStyle = primaryStyle.Foreground(color(activeSkin.Error))
	}
	primary := primaryStyle.Render(tail(p.state.Display(), inner))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(activeSkin.Border)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Right, history, primary))
}

func (p *CalculatorPage) renderKeypad() string {
	rows := make([]string, 0, len(keypad))
	for _, row := range keypad {
		cells := make([]string, 0, len(row))
		for _, b := range row {
			cells = append(cells, p.mark(b, renderButton(b)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderButton(b button) string {
	fg := activeSkin.Digit
	switch b.kind {
	case buttonOperator:
		fg = activeSkin.Operator
	case buttonAction:
		fg = activeSkin.Action
	case buttonEquals:
		fg = activeSkin.Equals
	}

	// Borders take two columns; inner width grows by the borders a wide
	// button swallows.
	inner := b.span*buttonCellWidth - 2
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color(activeSkin.Border)).
		Foreground(color(fg)).
		Bold(b.kind != buttonDigit).
		Width(inner).
		Align(lipgloss.Center).
		Render(b.label)
}

// tail keeps the last w characters of s, marking the cut with an ellipsis.
func tail(s string, w int) string {
	r := []rune(s)
	if len(r) <= w || w <= 1 {
		return s
	}
	return "…" + string(r[len(r)-w+1:])
}
