package calculus

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/calclab/internal/expr"
)

// Error classes for results that came back NaN or empty.
var (
	// ErrInvalidExpression indicates the expression did not compile after sanitization.
	ErrInvalidExpression = errors.New("calculus: invalid expression")

	// ErrNumericDegeneracy indicates division by zero, overflow or a domain error.
	ErrNumericDegeneracy = errors.New("calculus: numeric degeneracy (NaN or Inf)")

	// ErrInvalidParameters indicates bad bounds, sample counts, steps or orders.
	ErrInvalidParameters = errors.New("calculus: invalid parameters")

	// ErrBudgetExceeded indicates a sample batch was cut off by its context.
	ErrBudgetExceeded = errors.New("calculus: evaluation budget exceeded")
)

// Diagnose reports whether src compiles.
func Diagnose(src string) error {
	if _, err := expr.Compile(src); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return nil
}

// Check explains a scalar result: nil when v is finite, otherwise the most
// specific error class that applies.
func Check(src string, v float64) error {
	if isFinite(v) {
		return nil
	}
	if err := Diagnose(src); err != nil {
		return err
	}
	return ErrNumericDegeneracy
}

// CheckCurve explains an empty sample sequence.
func CheckCurve(src string, d Domain, samples []Sample) error {
	if len(samples) > 0 {
		return nil
	}
	if !d.Valid() {
		return fmt.Errorf("%w: domain [%g, %g] with %d samples", ErrInvalidParameters, d.XMin, d.XMax, d.N)
	}
	if err := Diagnose(src); err != nil {
		return err
	}
	return ErrNumericDegeneracy
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteOrNaN(v float64) float64 {
	if isFinite(v) {
		return v
	}
	return math.NaN()
}
