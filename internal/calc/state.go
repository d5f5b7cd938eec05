// Package calc implements the calculator engine: the accumulator that folds
// key presses into an arithmetic expression, and the evaluator behind it.
package calc

import (
	"strings"
	"time"
)

const (
	// MaxOperandLength caps the length of the active token.
	MaxOperandLength = 18

	// DefaultErrorDelay is how long an error stays on the display before the
	// previous state is restored.
	DefaultErrorDelay = 1500 * time.Millisecond
)

// ErrorKind identifies a transient calculator error.
type ErrorKind int

const (
	ErrorNone   ErrorKind = iota
	ErrorLimit            // operand would exceed MaxOperandLength
	ErrorSyntax           // evaluator rejected the expression
	ErrorMath             // arithmetic fault such as division by zero
)

// String returns the short name used in API payloads.
func (k ErrorKind) String() string {
	switch k {
	case ErrorLimit:
		return "LIMIT"
	case ErrorSyntax:
		return "SYNTAX"
	case ErrorMath:
		return "MATH"
	default:
		return ""
	}
}

// Message returns the text shown on the primary display line.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorLimit:
		return "DIGIT LIMIT REACHED"
	case ErrorSyntax:
		return "SYNTAX ERROR"
	case ErrorMath:
		return "MATH ERROR"
	default:
		return ""
	}
}

// State is the complete calculator state. It is a value type; transitions
// always produce a new State.
type State struct {
	History string
	Current string
	Err     ErrorKind
}

// Initial returns the power-on (and post-clear) state.
func Initial() State {
	return State{History: "", Current: "0"}
}

// Evaluated reports whether History already carries a result.
func (s State) Evaluated() bool {
	return strings.Contains(s.History, "=")
}

// HasError reports whether an error is being displayed.
func (s State) HasError() bool {
	return s.Err != ErrorNone
}

// Display returns the primary display line: the error message when one is
// active, otherwise the current token.
func (s State) Display() string {
	if s.HasError() {
		return s.Err.Message()
	}
	return s.Current
}

// withoutError returns s with the error cleared.
func (s State) withoutError() State {
	s.Err = ErrorNone
	return s
}

// Transition is the outcome of applying one input.
type Transition struct {
	State State

	// Revert is the state to restore once the error delay elapses. It is nil
	// unless the transition raised an error.
	Revert *State
}

func unchanged(s State) Transition {
	return Transition{State: s}
}

func failed(prev State, kind ErrorKind) Transition {
	restore := prev.withoutError()
	next := restore
	next.Err = kind
	return Transition{State: next, Revert: &restore}
}
