package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/abacus/internal/calc"
)

// KeyMap defines all calculator key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	NextPage  key.Binding

	// Calculator
	Digit      key.Binding
	Point      key.Binding
	Divide     key.Binding
	Multiply   key.Binding
	Add        key.Binding
	Subtract   key.Binding
	Calculate  key.Binding
	Clear      key.Binding
	Correction key.Binding

	// Tape
	Up        key.Binding
	Down      key.Binding
	ClearTape key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "tape"),
		),

		Digit: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "digit"),
		),
		Point: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "decimal"),
		),
		Divide: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "divide"),
		),
		Multiply: key.NewBinding(
			key.WithKeys("*", "x"),
			key.WithHelp("*", "multiply"),
		),
		Add: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "add"),
		),
		Subtract: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "subtract"),
		),
		Calculate: key.NewBinding(
			key.WithKeys("enter", "="),
			key.WithHelp("enter/=", "calculate"),
		),
		// Terminals send ctrl+enter as ctrl+j.
		Clear: key.NewBinding(
			key.WithKeys("ctrl+j", "esc", "delete"),
			key.WithHelp("ctrl+enter/esc", "clear"),
		),
		Correction: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "correct"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		ClearTape: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear tape"),
		),
	}
}

// Input maps a key press to a calculator input.
func (k KeyMap) Input(msg tea.KeyMsg) (calc.Input, bool) {
	switch {
	case key.Matches(msg, k.Digit), key.Matches(msg, k.Point):
		return calc.Operand{Value: msg.String()}, true
	case key.Matches(msg, k.Divide):
		return calc.Operator{Symbol: "/"}, true
	case key.Matches(msg, k.Multiply):
		return calc.Operator{Symbol: "*"}, true
	case key.Matches(msg, k.Add):
		return calc.Operator{Symbol: "+"}, true
	case key.Matches(msg, k.Subtract):
		return calc.Operator{Symbol: "-"}, true
	case key.Matches(msg, k.Calculate):
		return calc.Calculate{}, true
	case key.Matches(msg, k.Clear):
		return calc.Clear{}, true
	case key.Matches(msg, k.Correction):
		return calc.Correction{}, true
	}
	return nil, false
}

// calculatorHelp adapts KeyMap to help.KeyMap for the calculator page.
type calculatorHelp KeyMap

func (h calculatorHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.Calculate, h.Clear, h.Correction, h.NextPage, h.Help, h.Quit}
}

func (h calculatorHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.Digit, h.Point, h.Correction},
		{h.Divide, h.Multiply, h.Add, h.Subtract},
		{h.Calculate, h.Clear},
		{h.NextPage, h.Help, h.Quit, h.ForceQuit},
	}
}

// tapeHelp adapts KeyMap to help.KeyMap for the tape page.
type tapeHelp KeyMap

func (h tapeHelp) ShortHelp() []key.Binding {
	back := h.NextPage
	back.SetHelp("tab", "calculator")
	return []key.Binding{h.Up, h.Down, h.ClearTape, back, h.Quit}
}

func (h tapeHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
