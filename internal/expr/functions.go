package expr

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

type function struct {
	minArgs, maxArgs int // maxArgs == 0 means variadic
	call             func(args []float64) float64
}

func (f function) arityText() string {
	switch {
	case f.maxArgs == 0:
		return fmt.Sprintf("expects at least %d argument(s)", f.minArgs)
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("expects %d argument(s)", f.minArgs)
	default:
		return fmt.Sprintf("expects %d to %d arguments", f.minArgs, f.maxArgs)
	}
}

func unary(fn func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, call: func(a []float64) float64 { return fn(a[0]) }}
}

// functions is the complete table of callable names. Adding an entry here
// also admits the name through Sanitize.
var functions = map[string]function{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"sqrt":  unary(math.Sqrt),
	"cbrt":  unary(math.Cbrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"sign":  unary(sign),
	"log": {minArgs: 1, maxArgs: 2, call: func(a []float64) float64 {
		if len(a) == 2 {
			return math.Log(a[0]) / math.Log(a[1])
		}
		return math.Log(a[0])
	}},
	"pow": {minArgs: 2, maxArgs: 2, call: func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"min": {minArgs: 1, call: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Min(m, v)
		}
		return m
	}},
	"max": {minArgs: 1, call: func(a []float64) float64 {
		m := a[0]
		for _, v := range a[1:] {
			m = math.Max(m, v)
		}
		return m
	}},
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return v // keeps 0, -0 and NaN
}

// interpreterFunctions adapts the table to govaluate's calling convention.
// Arity is checked again here because govaluate flattens argument lists.
func interpreterFunctions() map[string]govaluate.ExpressionFunction {
	out := make(map[string]govaluate.ExpressionFunction, len(functions))
	for name, fn := range functions {
		name, fn := name, fn
		out[name] = func(args ...interface{}) (interface{}, error) {
			if len(args) < fn.minArgs || (fn.maxArgs > 0 && len(args) > fn.maxArgs) {
				return nil, fmt.Errorf("%s %s, got %d", name, fn.arityText(), len(args))
			}
			vals := make([]float64, len(args))
			for i, a := range args {
				v, ok := a.(float64)
				if !ok {
					return nil, fmt.Errorf("%s: argument %d is %T, not a number", name, i+1, a)
				}
				vals[i] = v
			}
			return fn.call(vals), nil
		}
	}
	return out
}
