package calc

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of compiled expressions kept by the
// evaluator.
const DefaultCacheSize = 256

// Evaluator evaluates a plain infix arithmetic expression.
type Evaluator interface {
	Evaluate(expression string) (float64, error)
}

// EvalError describes why an expression could not be evaluated.
type EvalError struct {
	Kind       ErrorKind
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("evaluate %q: %s: %v", e.Expression, strings.ToLower(e.Kind.String()), e.Err)
	}
	return fmt.Sprintf("evaluate %q: %s", e.Expression, strings.ToLower(e.Kind.String()))
}

func (e *EvalError) Unwrap() error { return e.Err }

var (
	errNotFinite = errors.New("result is not finite")
	errNotNumber = errors.New("result is not a number")
	errCharset   = errors.New("only digits, '.' and + - * / are allowed")

	arithmeticCharset = regexp.MustCompile(`^[0-9.+\-*/]+$`)

	// signedOperand matches a sign marker at the start or after an operator.
	// govaluate lexes "+-" as one unknown operator, so the operand is
	// rewritten as a parenthesised subtraction from zero.
	signedOperand = regexp.MustCompile(`(^|[-+*/])-([0-9.]+)`)
)

// GovaluateEvaluator evaluates expressions with govaluate. Compiled
// expressions are cached, so repeated evaluations skip parsing. It is safe
// for concurrent use.
type GovaluateEvaluator struct {
	cache *lru.Cache[string, *govaluate.EvaluableExpression]
}

// NewGovaluateEvaluator creates an evaluator with a compile cache of the
// given size. A non-positive size selects DefaultCacheSize.
func NewGovaluateEvaluator(cacheSize int) (*GovaluateEvaluator, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *govaluate.EvaluableExpression](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("calc: create expression cache: %w", err)
	}
	return &GovaluateEvaluator{cache: cache}, nil
}

// Evaluate implements Evaluator.
func (g *GovaluateEvaluator) Evaluate(expression string) (float64, error) {
	compiled, err := g.compile(expression)
	if err != nil {
		return 0, err
	}

	raw, err := compiled.Evaluate(nil)
	if err != nil {
		return 0, &EvalError{Kind: ErrorSyntax, Expression: expression, Err: err}
	}
	value, ok := raw.(float64)
	if !ok {
		return 0, &EvalError{Kind: ErrorSyntax, Expression: expression, Err: errNotNumber}
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, &EvalError{Kind: ErrorMath, Expression: expression, Err: errNotFinite}
	}
	return value, nil
}

func (g *GovaluateEvaluator) compile(expression string) (*govaluate.EvaluableExpression, error) {
	if compiled, ok := g.cache.Get(expression); ok {
		return compiled, nil
	}

	// govaluate understands far more than arithmetic (variables, strings,
	// ** for exponent); keep the surface to the calculator's alphabet.
	if !arithmeticCharset.MatchString(expression) || strings.Contains(expression, "**") {
		return nil, &EvalError{Kind: ErrorSyntax, Expression: expression, Err: errCharset}
	}

	compiled, err := govaluate.NewEvaluableExpression(unarySigns(expression))
	if err != nil {
		return nil, &EvalError{Kind: ErrorSyntax, Expression: expression, Err: err}
	}
	g.cache.Add(expression, compiled)
	return compiled, nil
}

// unarySigns rewrites every sign marker into a form govaluate parses:
// "9*-3" becomes "9*(0-3)".
func unarySigns(expression string) string {
	return signedOperand.ReplaceAllString(expression, "${1}(0-${2})")
}

// Len returns the number of cached compiled expressions.
func (g *GovaluateEvaluator) Len() int {
	return g.cache.Len()
}

// FormatResult renders a result in its natural decimal form.
func FormatResult(v float64) string {
	if v == 0 {
		// Also folds -0.
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ErrorKindOf classifies an evaluator error. Errors that are not an
// *EvalError count as syntax errors.
func ErrorKindOf(err error) ErrorKind {
	if err == nil {
		return ErrorNone
	}
	var evalErr *EvalError
	if errors.As(err, &evalErr) && evalErr.Kind != ErrorNone {
		return evalErr.Kind
	}
	return ErrorSyntax
}
