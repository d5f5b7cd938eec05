package calc

import "strings"

// Input is one normalized key event. The concrete types are Operand,
// Operator, Calculate, Clear and Correction.
type Input interface {
	isInput()
}

// Operand is a digit or the decimal point.
type Operand struct {
	Value string
}

// Operator is one of / * + -.
type Operator struct {
	Symbol string
}

// Calculate evaluates the expression.
type Calculate struct{}

// Clear resets the calculator.
type Clear struct{}

// Correction removes the last character of the expression.
type Correction struct{}

func (Operand) isInput()    {}
func (Operator) isInput()   {}
func (Calculate) isInput()  {}
func (Clear) isInput()      {}
func (Correction) isInput() {}

const operatorSymbols = "/*+-"

// IsOperator reports whether s is a single operator symbol.
func IsOperator(s string) bool {
	return len(s) == 1 && strings.Contains(operatorSymbols, s)
}

func isOperatorByte(b byte) bool {
	return strings.IndexByte(operatorSymbols, b) >= 0
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

// ParseKey maps a key name to an Input. Key names follow Bubble Tea's
// KeyMsg.String() format, plus a few button labels. ok is false for keys
// the calculator does not use.
func ParseKey(name string) (Input, bool) {
	switch name {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".":
		return Operand{Value: name}, true
	case "/", "*", "+", "-":
		return Operator{Symbol: name}, true
	case "x", "X", "×":
		return Operator{Symbol: "*"}, true
	case "÷":
		return Operator{Symbol: "/"}, true
	case "enter", "=":
		return Calculate{}, true
	// Most terminals deliver ctrl+enter as a bare line feed.
	case "ctrl+enter", "ctrl+j", "esc", "clear", "AC":
		return Clear{}, true
	case "backspace":
		return Correction{}, true
	}
	return nil, false
}
