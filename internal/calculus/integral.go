package calculus

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// sumBlock is how many rectangles are summed between budget checks.
const sumBlock = 1024

// Integral estimates the signed integral of src over [a, b] with a left
// Riemann sum of n rectangles. a > b gives the negated result. A single
// non-finite sample makes the whole result NaN.
func Integral(src string, a, b float64, n int) float64 {
	v, _ := IntegralContext(context.Background(), src, a, b, n)
	return v
}

// Area is Integral of |f|: the unsigned area between the curve and the x-axis.
func Area(src string, a, b float64, n int) float64 {
	v, _ := AreaContext(context.Background(), src, a, b, n)
	return v
}

// IntegralContext is Integral with a budget and an error explaining a NaN
// result.
func IntegralContext(ctx context.Context, src string, a, b float64, n int) (float64, error) {
	f, err := Compile(src)
	if err != nil {
		return nanValue(), err
	}
	return riemann(ctx, f, a, b, n, false)
}

// AreaContext is Area with a budget and an error explaining a NaN result.
func AreaContext(ctx context.Context, src string, a, b float64, n int) (float64, error) {
	f, err := Compile(src)
	if err != nil {
		return nanValue(), err
	}
	return riemann(ctx, f, a, b, n, true)
}

// AreaCurve samples src over the interval between a and b (in either order)
// with n points, for drawing the region an integral covers.
func AreaCurve(src string, a, b float64, n int) []Sample {
	lo, hi := math.Min(a, b), math.Max(a, b)
	return SamplePoints(src, Domain{XMin: lo, XMax: hi, N: n})
}

func riemann(ctx context.Context, f Func, a, b float64, n int, unsigned bool) (float64, error) {
	if n < 1 || n > MaxRiemannN || !isFinite(a) || !isFinite(b) {
		return nanValue(), fmt.Errorf("%w: bounds [%g, %g] with %d rectangles", ErrInvalidParameters, a, b, n)
	}

	dx := (b - a) / float64(n)
	block := make([]float64, 0, min(n, sumBlock))
	total := 0.0
	for i := 0; i < n; i++ {
		if i%sumBlock == 0 {
			if err := budgetErr(ctx); err != nil {
				return nanValue(), err
			}
		}
		y := f(a + float64(i)*dx)
		if !isFinite(y) {
			return nanValue(), fmt.Errorf("%w: f(%g) = %g", ErrNumericDegeneracy, a+float64(i)*dx, y)
		}
		if unsigned {
			y = math.Abs(y)
		}
		block = append(block, y)
		if len(block) == cap(block) {
			total += floats.Sum(block)
			block = block[:0]
		}
	}
	total += floats.Sum(block)

	v := total * dx
	if !isFinite(v) {
		return nanValue(), fmt.Errorf("%w: sum overflows", ErrNumericDegeneracy)
	}
	return v, nil
}
