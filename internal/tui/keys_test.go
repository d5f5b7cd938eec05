package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tinytelemetry/abacus/internal/calc"
)

func TestKeyMap_Input(t *testing.T) {
	t.Parallel()

	keys := DefaultKeyMap()
	tests := []struct {
		msg    tea.KeyMsg
		want   calc.Input
		wantOK bool
	}{
		{runeKey("7"), calc.Operand{Value: "7"}, true},
		{runeKey("."), calc.Operand{Value: "."}, true},
		{runeKey("/"), calc.Operator{Symbol: "/"}, true},
		{runeKey("*"), calc.Operator{Symbol: "*"}, true},
		{runeKey("x"), calc.Operator{Symbol: "*"}, true},
		{runeKey("+"), calc.Operator{Symbol: "+"}, true},
		{runeKey("-"), calc.Operator{Symbol: "-"}, true},
		{runeKey("="), calc.Calculate{}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, calc.Calculate{}, true},
		{tea.KeyMsg{Type: tea.KeyCtrlJ}, calc.Clear{}, true},
		{tea.KeyMsg{Type: tea.KeyEsc}, calc.Clear{}, true},
		{tea.KeyMsg{Type: tea.KeyDelete}, calc.Clear{}, true},
		{tea.KeyMsg{Type: tea.KeyBackspace}, calc.Correction{}, true},
		{runeKey("z"), nil, false},
		{tea.KeyMsg{Type: tea.KeyTab}, nil, false},
	}

	for _, tt := range tests {
		tt := tt
		got, ok := keys.Input(tt.msg)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("Input(%q) = %#v, %v, want %#v, %v", tt.msg.String(), got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHelpBindingsHaveHelpText(t *testing.T) {
	t.Parallel()

	keys := DefaultKeyMap()
	for _, b := range calculatorHelp(keys).ShortHelp() {
		if b.Help().Key == "" || b.Help().Desc == "" {
			t.Fatalf("binding %v has no help text", b.Keys())
		}
	}

	short := tapeHelp(keys).ShortHelp()
	var back string
	for _, b := range short {
		if b.Help().Key == "tab" {
			back = b.Help().Desc
		}
	}
	if back != "calculator" {
		t.Fatalf("tape tab help = %q, want calculator", back)
	}
	if keys.NextPage.Help().Desc != "tape" {
		t.Fatal("tapeHelp modified the shared binding")
	}
}
