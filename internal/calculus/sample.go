package calculus

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/calclab/internal/expr"
)

const (
	// minChunk is the smallest batch handed to a goroutine.
	minChunk = 256
	// checkEvery is how often a chunk polls its context.
	checkEvery = 64
)

// SamplePoints samples src over d and drops every non-finite point. Empty
// or invalid input, or an invalid domain, yields an empty sequence.
func SamplePoints(src string, d Domain) []Sample {
	samples, _ := PointsContext(context.Background(), src, d)
	return samples
}

// PointsContext is SamplePoints with a budget and an error describing why
// the result is empty, when it is.
func PointsContext(ctx context.Context, src string, d Domain) ([]Sample, error) {
	f, err := Compile(src)
	if err != nil {
		return []Sample{}, err
	}
	return SampleContext(ctx, f, d)
}

// SampleContext evaluates f at every abscissa of d, keeping finite points in
// ascending x order. It stops early when ctx is done and returns
// ErrBudgetExceeded; an invalid domain returns ErrInvalidParameters. The
// returned slice is never nil.
func SampleContext(ctx context.Context, f Func, d Domain) ([]Sample, error) {
	if !d.Valid() {
		return []Sample{}, fmt.Errorf("%w: domain [%g, %g] with %d samples", ErrInvalidParameters, d.XMin, d.XMax, d.N)
	}
	if err := budgetErr(ctx); err != nil {
		return []Sample{}, err
	}

	ys := make([]float64, d.N)
	parallelFor(d.N, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			if (i-start)%checkEvery == 0 && budgetErr(ctx) != nil {
				return
			}
			ys[i] = f(d.At(i))
		}
	})

	if err := budgetErr(ctx); err != nil {
		return []Sample{}, err
	}

	samples := make([]Sample, 0, d.N)
	for i, y := range ys {
		if isFinite(y) {
			samples = append(samples, Sample{X: d.At(i), Y: y})
		}
	}
	return samples, nil
}

// EvaluateContext evaluates src at each of xs, NaN where f is undefined. It
// returns ErrBudgetExceeded without values when ctx runs out first.
func EvaluateContext(ctx context.Context, src string, xs []float64) ([]float64, error) {
	f, err := Compile(src)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		if i%checkEvery == 0 {
			if berr := budgetErr(ctx); berr != nil {
				return nil, berr
			}
		}
		ys[i] = f(x)
	}
	return ys, err
}

// budgetErr reports a done context or a passed deadline as ErrBudgetExceeded.
func budgetErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, err)
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return fmt.Errorf("%w: %w", ErrBudgetExceeded, context.DeadlineExceeded)
	}
	return nil
}

// Compile turns src into a Func. Invalid source yields a Func that is NaN
// everywhere together with an ErrInvalidExpression error.
func Compile(src string) (Func, error) {
	e, err := expr.Compile(src)
	if err != nil {
		return func(float64) float64 { return nanValue() }, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return e.Eval, nil
}

func compile(src string) (Func, bool) {
	e, err := expr.Compile(src)
	if err != nil {
		return nil, false
	}
	return e.Eval, true
}
