package calculus

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// stencils[k] is k-fold central differencing as a single formula: offsets
// (k-2j)h with weights (-1)^j C(k,j) / 2^k. stencils[1] is fd.Central.
var stencils = buildStencils(MaxOrder)

func buildStencils(maxOrder int) []fd.Formula {
	out := make([]fd.Formula, maxOrder+1)
	for k := 1; k <= maxOrder; k++ {
		scale := math.Ldexp(1, -k)
		binom := 1.0
		pts := make([]fd.Point, 0, k+1)
		for j := 0; j <= k; j++ {
			if j > 0 {
				binom = binom * float64(k-j+1) / float64(j)
			}
			c := binom * scale
			if j%2 == 1 {
				c = -c
			}
			pts = append(pts, fd.Point{Loc: float64(k - 2*j), Coeff: c})
		}
		out[k] = fd.Formula{Stencil: pts, Derivative: k, Step: DefaultStep}
	}
	return out
}

// Derivative estimates f'(x) with the central difference
// (f(x+h) - f(x-h)) / 2h. It returns NaN for empty or invalid src, a zero or
// non-finite step, or any non-finite intermediate.
func Derivative(src string, x, h float64) float64 {
	f, ok := compile(src)
	if !ok {
		return nanValue()
	}
	return derivativeAt(f, x, h)
}

// DerivativeDefault is Derivative with DefaultStep.
func DerivativeDefault(src string, x float64) float64 {
	return Derivative(src, x, DefaultStep)
}

// HigherDerivative estimates the order-th derivative of src at x. Order 1 is
// Derivative; higher orders apply central differencing order times with
// step h, evaluated as one stencil. Orders outside [1, MaxOrder] yield NaN.
func HigherDerivative(src string, x, h float64, order int) float64 {
	f, ok := compile(src)
	if !ok {
		return nanValue()
	}
	return higherAt(f, x, h, order)
}

// HigherDerivativeCurve samples the order-th derivative of src over d,
// dropping points where the estimate is not finite.
func HigherDerivativeCurve(src string, d Domain, h float64, order int) []Sample {
	samples, _ := HigherDerivativeContext(context.Background(), src, d, h, order)
	return samples
}

// HigherDerivativeContext is HigherDerivativeCurve with a budget.
func HigherDerivativeContext(ctx context.Context, src string, d Domain, h float64, order int) ([]Sample, error) {
	f, err := Compile(src)
	if err != nil {
		return []Sample{}, err
	}
	if !validOrder(order) || !validStep(h) {
		return []Sample{}, fmt.Errorf("%w: order %d, step %g", ErrInvalidParameters, order, h)
	}
	return SampleContext(ctx, func(x float64) float64 {
		return higherAt(f, x, h, order)
	}, d)
}

// TangentLine returns the tangent of src at x0 and samples it over d. The
// sequence is empty when the tangent is undefined.
func TangentLine(src string, x0, h float64, d Domain) (Tangent, []Sample) {
	f, ok := compile(src)
	if !ok {
		return Tangent{X0: x0, Y0: nanValue(), Slope: nanValue()}, []Sample{}
	}

	t := Tangent{X0: x0, Y0: finiteOrNaN(f(x0)), Slope: derivativeAt(f, x0, h)}
	if !t.Valid() {
		return t, []Sample{}
	}
	samples, _ := SampleContext(context.Background(), t.At, d)
	return t, samples
}

func derivativeAt(f Func, x, h float64) float64 {
	if !validStep(h) || !isFinite(x) {
		return nanValue()
	}
	d := fd.Derivative(f, x, &fd.Settings{Formula: fd.Central, Step: math.Abs(h)})
	return finiteOrNaN(d)
}

func higherAt(f Func, x, h float64, order int) float64 {
	if !validOrder(order) {
		return nanValue()
	}
	if order == 1 {
		return derivativeAt(f, x, h)
	}
	if !validStep(h) || !isFinite(x) {
		return nanValue()
	}
	d := fd.Derivative(f, x, &fd.Settings{Formula: stencils[order], Step: math.Abs(h)})
	return finiteOrNaN(d)
}

func validStep(h float64) bool {
	return h != 0 && isFinite(h)
}

func validOrder(order int) bool {
	return order >= 1 && order <= MaxOrder
}

func nanValue() float64 { return math.NaN() }
