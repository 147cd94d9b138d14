package expr

import (
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
)

// variable is the only name bound at evaluation time.
const variable = "x"

var interpreterTable = interpreterFunctions()

// Expression is a sanitized, parsed and compiled expression in x.
type Expression struct {
	source  string
	program string
	eval    *govaluate.EvaluableExpression
}

// Compile sanitizes src and prepares it for repeated evaluation.
func Compile(src string) (*Expression, error) {
	clean := strings.TrimSpace(Sanitize(src))
	if clean == "" {
		return nil, ErrEmptyExpression
	}

	tree, err := parse(clean)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	tree.emit(&b)
	program := b.String()

	eval, err := govaluate.NewEvaluableExpressionWithFunctions(program, interpreterTable)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterpreter, err)
	}

	return &Expression{source: clean, program: program, eval: eval}, nil
}

// MustCompile is like Compile but panics on error. Intended for constants
// in tests and presets.
func MustCompile(src string) *Expression {
	e, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the sanitized source.
func (e *Expression) String() string { return e.source }

// Program returns the canonical program handed to the interpreter.
func (e *Expression) Program() string { return e.program }

// Eval evaluates the expression at x. Any failure, including a non-numeric
// result or a panic inside the interpreter, yields NaN.
func (e *Expression) Eval(x float64) (y float64) {
	defer func() {
		if r := recover(); r != nil {
			y = math.NaN()
		}
	}()

	v, err := e.eval.Evaluate(map[string]interface{}{variable: x})
	if err != nil {
		return math.NaN()
	}
	f, ok := v.(float64)
	if !ok {
		return math.NaN()
	}
	return f
}

// Func returns e.Eval as a plain function value.
func (e *Expression) Func() func(float64) float64 {
	return e.Eval
}

// Evaluate compiles src and evaluates it at x. Empty or invalid input
// yields NaN.
func Evaluate(src string, x float64) float64 {
	e, err := Compile(src)
	if err != nil {
		return math.NaN()
	}
	return e.Eval(x)
}

// Func compiles src into a function of x. If src does not compile the
// returned function is NaN everywhere and err explains why.
func Func(src string) (func(float64) float64, error) {
	e, err := Compile(src)
	if err != nil {
		return nan, err
	}
	return e.Eval, nil
}

func nan(float64) float64 { return math.NaN() }
