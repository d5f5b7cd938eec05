package calc

import (
	"regexp"
	"strings"
)

var (
	// operandPattern is the grammar every operand must satisfy: optional
	// integer part, optional single decimal point, optional fraction.
	operandPattern = regexp.MustCompile(`^\d*(\.)?(\d*)?$`)

	digitOperator      = regexp.MustCompile(`\d[-+/*]$`)
	digitOperatorMinus = regexp.MustCompile(`\d[-+/*]-$`)
	trailingNumber     = regexp.MustCompile(`[\d.]+$`)
)

// Accumulator folds key presses into an arithmetic expression. All of its
// methods are pure: they read the given State and return a new one.
type Accumulator struct {
	eval Evaluator
}

// NewAccumulator creates an Accumulator that hands finished expressions to
// eval.
func NewAccumulator(eval Evaluator) *Accumulator {
	return &Accumulator{eval: eval}
}

// Apply dispatches one input to the matching transition.
func (a *Accumulator) Apply(s State, in Input) Transition {
	switch in := in.(type) {
	case Operand:
		return a.PressOperand(s, in.Value)
	case Operator:
		return a.PressOperator(s, in.Symbol)
	case Calculate:
		return a.PressCalculate(s)
	case Clear:
		return a.PressClear(s)
	case Correction:
		return a.PressCorrection(s)
	}
	return unchanged(s)
}

// PressOperand appends a digit or decimal point to the current operand.
func (a *Accumulator) PressOperand(s State, value string) Transition {
	if !isOperandValue(value) || s.HasError() {
		return unchanged(s)
	}

	// A result is showing: start a new expression.
	if s.Evaluated() {
		if value == "." {
			value = "0."
		}
		return Transition{State: State{History: value, Current: value}}
	}

	if len(s.Current) >= MaxOperandLength {
		return failed(s, ErrorLimit)
	}

	// The current operand is always the tail of History; keep the part before
	// it so the operand can be rewritten in place.
	prefix, operand := s.History, ""
	if !IsOperator(s.Current) {
		prefix = strings.TrimSuffix(s.History, s.Current)
		operand = s.Current
	}

	var next string
	switch {
	case operand == "0" && value == "0":
		return unchanged(s)
	case (operand == "" || operand == "0") && value == ".":
		next = "0."
	case operand == "0":
		next = value
	default:
		next = operand + value
	}

	if !operandPattern.MatchString(next) {
		return unchanged(s)
	}
	return Transition{State: State{History: prefix + next, Current: next}}
}

// PressOperator appends or replaces the trailing operator.
func (a *Accumulator) PressOperator(s State, symbol string) Transition {
	if !IsOperator(symbol) || s.HasError() {
		return unchanged(s)
	}

	// Continue from the previous result.
	if s.Evaluated() {
		return Transition{State: State{History: s.Current + symbol, Current: symbol}}
	}

	history := s.History
	if history == "" {
		history = "0"
	}

	switch {
	case !IsOperator(s.Current):
		history += symbol
	case symbol == "-" && digitOperator.MatchString(history):
		// Sign marker for the next operand, e.g. 9*-3.
		history += symbol
	case digitOperatorMinus.MatchString(history):
		history = history[:len(history)-2] + symbol
	default:
		history = history[:len(history)-1] + symbol
	}
	return Transition{State: State{History: history, Current: symbol}}
}

// PressCorrection removes the last character of the expression.
func (a *Accumulator) PressCorrection(s State) Transition {
	if s.HasError() || s.History == "" || s.Evaluated() {
		return unchanged(s)
	}

	history := s.History[:len(s.History)-1]
	var current string
	switch {
	case history == "":
		current = "0"
	case isOperatorByte(history[len(history)-1]):
		current = history[len(history)-1:]
	default:
		// A sign marker in front of the digits stays in History only; the
		// operand grammar has no sign.
		current = trailingNumber.FindString(history)
	}
	return Transition{State: State{History: history, Current: current}}
}

// PressCalculate evaluates the expression and appends "=result" to History.
func (a *Accumulator) PressCalculate(s State) Transition {
	if s.HasError() || s.History == "" || s.Evaluated() {
		return unchanged(s)
	}

	expr := completeDangling(s.History)
	value, err := a.eval.Evaluate(expr)
	if err != nil {
		return failed(s, ErrorKindOf(err))
	}

	result := FormatResult(value)
	return Transition{State: State{History: expr + "=" + result, Current: result}}
}

// PressClear resets to the initial state. An active error is left to expire.
func (a *Accumulator) PressClear(s State) Transition {
	if s.HasError() {
		return unchanged(s)
	}
	return Transition{State: Initial()}
}

func isOperandValue(v string) bool {
	return v == "." || (len(v) == 1 && isDigitByte(v[0]))
}

// completeDangling repeats the last operand after a trailing operator, so
// "5+" becomes "5+5" and "9*-" becomes "9*-9".
func completeDangling(expr string) string {
	end := len(expr)
	if end >= 2 && expr[end-1] == '-' && isOperatorByte(expr[end-2]) {
		end--
	}
	if end == 0 || !isOperatorByte(expr[end-1]) {
		return expr
	}
	operand := operandBefore(expr[:end-1])
	if operand == "" {
		return expr
	}
	return expr + operand
}

// operandBefore returns the operand at the end of expr, including a leading
// sign marker when the minus is unary.
func operandBefore(expr string) string {
	start := len(expr)
	for start > 0 && (isDigitByte(expr[start-1]) || expr[start-1] == '.') {
		start--
	}
	if start == len(expr) {
		return ""
	}
	if start > 0 && expr[start-1] == '-' && (start == 1 || isOperatorByte(expr[start-2])) {
		start--
	}
	return expr[start:]
}
