package calculus_test

import (
	"context"
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/calclab/internal/calculus"
	"github.com/san-kum/calclab/internal/expr"
)

func beNaN(v float64) {
	GinkgoHelper()
	Expect(math.IsNaN(v)).To(BeTrue(), "expected NaN, got %v", v)
}

var _ = Describe("SamplePoints", func() {
	It("samples evenly including both endpoints", func() {
		samples := calculus.SamplePoints("x^2", calculus.Domain{XMin: -2, XMax: 2, N: 5})
		Expect(samples).To(HaveLen(5))

		wantX := []float64{-2, -1, 0, 1, 2}
		wantY := []float64{4, 1, 0, 1, 4}
		for i, s := range samples {
			Expect(s.X).To(BeNumerically("~", wantX[i], 1e-12))
			Expect(s.Y).To(BeNumerically("~", wantY[i], 1e-12))
		}
	})

	It("drops non-finite points without reordering", func() {
		samples := calculus.SamplePoints("sqrt(x)", calculus.Domain{XMin: -1, XMax: 1, N: 5})
		Expect(samples).To(HaveLen(3))
		Expect(samples[0].X).To(Equal(0.0))
		Expect(samples[1].X).To(Equal(0.5))
		Expect(samples[2].X).To(Equal(1.0))

		samples = calculus.SamplePoints("1/x", calculus.Domain{XMin: -1, XMax: 1, N: 3})
		Expect(samples).To(HaveLen(2))
		Expect(samples[0].X).To(BeNumerically("<", samples[1].X))
	})

	DescribeTable("returns an empty sequence for bad input",
		func(src string, d calculus.Domain) {
			samples := calculus.SamplePoints(src, d)
			Expect(samples).NotTo(BeNil())
			Expect(samples).To(BeEmpty())
		},
		Entry("empty expression", "", calculus.Domain{XMin: 0, XMax: 1, N: 10}),
		Entry("whitespace expression", "   ", calculus.Domain{XMin: 0, XMax: 1, N: 10}),
		Entry("malformed expression", "x^", calculus.Domain{XMin: 0, XMax: 1, N: 10}),
		Entry("n = 1", "x", calculus.Domain{XMin: 0, XMax: 1, N: 1}),
		Entry("n = 0", "x", calculus.Domain{XMin: 0, XMax: 1, N: 0}),
		Entry("negative n", "x", calculus.Domain{XMin: 0, XMax: 1, N: -3}),
		Entry("n above the ceiling", "x", calculus.Domain{XMin: 0, XMax: 1, N: calculus.MaxDomainSamples + 1}),
		Entry("empty interval", "x", calculus.Domain{XMin: 1, XMax: 1, N: 10}),
		Entry("inverted interval", "x", calculus.Domain{XMin: 1, XMax: 0, N: 10}),
		Entry("NaN bound", "x", calculus.Domain{XMin: math.NaN(), XMax: 1, N: 10}),
		Entry("infinite bound", "x", calculus.Domain{XMin: 0, XMax: math.Inf(1), N: 10}),
		Entry("nowhere finite", "log(-1 - x^2)", calculus.Domain{XMin: -1, XMax: 1, N: 10}),
	)

	It("is deterministic", func() {
		d := calculus.NewDomain(-10, 10)
		a := calculus.SamplePoints("sin(x)/x", d)
		b := calculus.SamplePoints("sin(x)/x", d)
		Expect(a).To(Equal(b))
	})

	It("matches pointwise evaluation on large, parallel batches", func() {
		d := calculus.Domain{XMin: -5, XMax: 5, N: 5000}
		samples := calculus.SamplePoints("x^3 - 2*x", d)
		Expect(samples).To(HaveLen(5000))
		for i, s := range samples {
			Expect(s.X).To(Equal(d.At(i)))
			Expect(s.Y).To(Equal(expr.Evaluate("x^3 - 2*x", s.X)))
		}
	})
})

var _ = Describe("SampleContext", func() {
	It("reports a cancelled context as an exceeded budget", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		samples, err := calculus.PointsContext(ctx, "x", calculus.NewDomain(0, 1))
		Expect(samples).To(BeEmpty())
		Expect(errors.Is(err, calculus.ErrBudgetExceeded)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("stops a slow batch at the deadline", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		slow := func(x float64) float64 {
			time.Sleep(time.Millisecond)
			return x
		}
		_, err := calculus.SampleContext(ctx, slow, calculus.Domain{XMin: 0, XMax: 1, N: 10000})
		Expect(errors.Is(err, calculus.ErrBudgetExceeded)).To(BeTrue())
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
	})

	It("rejects an invalid domain", func() {
		_, err := calculus.SampleContext(context.Background(), math.Sin, calculus.Domain{XMin: 0, XMax: 1, N: 1})
		Expect(errors.Is(err, calculus.ErrInvalidParameters)).To(BeTrue())
	})

	It("explains an invalid expression", func() {
		_, err := calculus.PointsContext(context.Background(), "(", calculus.NewDomain(0, 1))
		Expect(errors.Is(err, calculus.ErrInvalidExpression)).To(BeTrue())
		Expect(errors.Is(err, expr.ErrSyntax)).To(BeTrue())
	})
})

var _ = Describe("Derivative", func() {
	It("estimates the slope of x^2", func() {
		Expect(calculus.Derivative("x^2", 3, 0.0001)).To(BeNumerically("~", 6.0, 1e-3))
	})

	It("estimates the slope of sin at 0", func() {
		Expect(calculus.Derivative("sin(x)", 0, 1e-4)).To(BeNumerically("~", 1.0, 1e-6))
		Expect(calculus.DerivativeDefault("sin(x)", 0)).To(BeNumerically("~", 1.0, 1e-6))
	})

	It("accepts a larger step at the cost of accuracy", func() {
		coarse := calculus.Derivative("x^3", 1, 0.5)
		fine := calculus.Derivative("x^3", 1, 1e-4)
		Expect(math.Abs(coarse - 3)).To(BeNumerically(">", math.Abs(fine-3)))
	})

	It("is NaN for degenerate input", func() {
		beNaN(calculus.Derivative("", 1, 1e-4))
		beNaN(calculus.Derivative("x^2", 1, 0))
		beNaN(calculus.Derivative("x^2", 1, math.NaN()))
		beNaN(calculus.Derivative("x^2", math.Inf(1), 1e-4))
		beNaN(calculus.Derivative("sqrt(x)", 0, 1e-4))
		beNaN(calculus.Derivative("log(x)", 0, 1e-4))
	})
})

var _ = Describe("HigherDerivative", func() {
	It("delegates order 1 to Derivative", func() {
		Expect(calculus.HigherDerivative("sin(x)*x", 0.7, 1e-3, 1)).
			To(Equal(calculus.Derivative("sin(x)*x", 0.7, 1e-3)))
	})

	DescribeTable("estimates derivatives of known functions",
		func(src string, x, h float64, order int, want, tol float64) {
			Expect(calculus.HigherDerivative(src, x, h, order)).To(BeNumerically("~", want, tol))
		},
		Entry("x^3 second derivative", "x^3", 1.0, 1e-2, 2, 6.0, 1e-3),
		Entry("x^3 third derivative", "x^3", 2.0, 1e-2, 3, 6.0, 1e-2),
		Entry("exp fourth derivative", "exp(x)", 0.0, 1e-2, 4, 1.0, 1e-2),
		Entry("sin second derivative", "sin(x)", math.Pi/2, 1e-3, 2, -1.0, 1e-3),
		Entry("x^5 fifth derivative", "x^5", 0.5, 1e-1, 5, 120.0, 1e-3),
	)

	It("is NaN for orders outside the supported range", func() {
		beNaN(calculus.HigherDerivative("x^2", 1, 1e-2, 0))
		beNaN(calculus.HigherDerivative("x^2", 1, 1e-2, -1))
		beNaN(calculus.HigherDerivative("x^2", 1, 1e-2, calculus.MaxOrder+1))
	})

	It("plots pointwise over a domain", func() {
		curve := calculus.HigherDerivativeCurve("x^2", calculus.Domain{XMin: -1, XMax: 1, N: 11}, 1e-2, 2)
		Expect(curve).To(HaveLen(11))
		for _, s := range curve {
			Expect(s.Y).To(BeNumerically("~", 2.0, 1e-6))
		}
	})

	It("drops points where the estimate is undefined and keeps the rest", func() {
		curve := calculus.HigherDerivativeCurve("sqrt(x)", calculus.Domain{XMin: -1, XMax: 1, N: 21}, 1e-3, 1)
		Expect(curve).To(HaveLen(10))
		for _, s := range curve {
			Expect(s.X).To(BeNumerically(">", 0))
		}
	})

	It("reports invalid orders from the context variant", func() {
		_, err := calculus.HigherDerivativeContext(context.Background(), "x", calculus.NewDomain(0, 1), 1e-2, 0)
		Expect(errors.Is(err, calculus.ErrInvalidParameters)).To(BeTrue())
	})
})

var _ = Describe("TangentLine", func() {
	It("passes through the point with the derivative as slope", func() {
		t, samples := calculus.TangentLine("x^2", 1, 1e-4, calculus.Domain{XMin: -2, XMax: 2, N: 5})
		Expect(t.Y0).To(Equal(1.0))
		Expect(t.Slope).To(BeNumerically("~", 2.0, 1e-6))
		Expect(samples).To(HaveLen(5))
		for _, s := range samples {
			Expect(s.Y).To(BeNumerically("~", 2*(s.X-1)+1, 1e-6))
		}
	})

	It("is empty where the function is undefined", func() {
		t, samples := calculus.TangentLine("sqrt(x)", -1, 1e-4, calculus.NewDomain(-2, 2))
		Expect(t.Valid()).To(BeFalse())
		Expect(samples).To(BeEmpty())
	})
})

var _ = Describe("Integral and Area", func() {
	It("approximates the integral of x over [0, 2]", func() {
		Expect(calculus.Integral("x", 0, 2, 1000)).To(BeNumerically("~", 2.0, 1e-2))
	})

	It("uses left endpoints", func() {
		// left sum of x on [0, 2] with 100 rectangles is 1.98
		Expect(calculus.Integral("x", 0, 2, calculus.DefaultRiemannN)).To(BeNumerically("~", 1.98, 1e-9))
	})

	It("distinguishes signed integral from unsigned area for odd functions", func() {
		integral := calculus.Integral("x", -1, 1, 1000)
		area := calculus.Area("x", -1, 1, 1000)
		Expect(integral).To(BeNumerically("~", 0.0, 1e-2))
		Expect(area).To(BeNumerically("~", 1.0, 1e-2))
		Expect(area - integral).To(BeNumerically(">", 0.9))

		Expect(calculus.Area("x", -1, 1, calculus.DefaultRiemannN)).To(BeNumerically("~", 1.0, 1e-9))
	})

	It("is signed when the bounds are swapped", func() {
		Expect(calculus.Integral("x", 2, 0, 1000)).To(BeNumerically("~", -2.0, 1e-2))
		Expect(calculus.Area("x", 2, 0, 1000)).To(BeNumerically("~", -2.0, 1e-2))
	})

	It("is NaN when any sample is not finite", func() {
		beNaN(calculus.Integral("1/x", -1, 1, 2))
		beNaN(calculus.Area("log(x)", 0, 1, 10))
	})

	It("is NaN when the total overflows", func() {
		beNaN(calculus.Integral("exp(700)", 0, 1e10, 100))
	})

	It("is NaN for invalid parameters", func() {
		beNaN(calculus.Integral("", 0, 1, 10))
		beNaN(calculus.Integral("x", 0, 1, 0))
		beNaN(calculus.Area("x", 0, 1, -1))
		beNaN(calculus.Integral("x", math.Inf(-1), 1, 10))
	})

	It("rejects rectangle counts above the ceiling", func() {
		beNaN(calculus.Integral("x", 0, 1, math.MaxInt))
		beNaN(calculus.Area("x", 0, 1, calculus.MaxRiemannN+1))

		_, err := calculus.IntegralContext(context.Background(), "x", 0, 1, math.MaxInt)
		Expect(errors.Is(err, calculus.ErrInvalidParameters)).To(BeTrue())
	})

	It("sums across block boundaries", func() {
		// left sum of x on [0, 2] with n rectangles is 2(n-1)/n
		Expect(calculus.Integral("x", 0, 2, 5000)).To(BeNumerically("~", 1.9996, 1e-9))
		Expect(calculus.Area("x", -2, 0, 3000)).To(BeNumerically("~", 2.0*3001/3000, 1e-9))
	})

	It("explains NaN results from the context variants", func() {
		v, err := calculus.IntegralContext(context.Background(), "1/x", -1, 1, 2)
		beNaN(v)
		Expect(errors.Is(err, calculus.ErrNumericDegeneracy)).To(BeTrue())

		v, err = calculus.AreaContext(context.Background(), "x^", 0, 1, 10)
		beNaN(v)
		Expect(errors.Is(err, calculus.ErrInvalidExpression)).To(BeTrue())

		v, err = calculus.IntegralContext(context.Background(), "x", 0, 2, 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(BeNumerically("~", 1.98, 1e-9))
	})

	It("stops when the budget runs out", func() {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		v, err := calculus.AreaContext(ctx, "x", 0, 1, 10)
		beNaN(v)
		Expect(errors.Is(err, calculus.ErrBudgetExceeded)).To(BeTrue())
	})

	It("samples the covered region in ascending order", func() {
		region := calculus.AreaCurve("x", 1, -1, 5)
		Expect(region).To(HaveLen(5))
		Expect(region[0].X).To(Equal(-1.0))
		Expect(region[4].X).To(Equal(1.0))
	})
})

var _ = Describe("Check", func() {
	It("classifies NaN results", func() {
		Expect(calculus.Check("x", 1)).To(Succeed())
		Expect(errors.Is(calculus.Check("x^", math.NaN()), calculus.ErrInvalidExpression)).To(BeTrue())
		Expect(errors.Is(calculus.Check("sqrt(x)", math.NaN()), calculus.ErrNumericDegeneracy)).To(BeTrue())
	})

	It("classifies empty curves", func() {
		d := calculus.Domain{XMin: 0, XMax: 1, N: 1}
		Expect(errors.Is(calculus.CheckCurve("x", d, nil), calculus.ErrInvalidParameters)).To(BeTrue())

		d = calculus.Domain{XMin: 0, XMax: 1, N: calculus.MaxDomainSamples + 1}
		_, err := calculus.PointsContext(context.Background(), "x", d)
		Expect(errors.Is(err, calculus.ErrInvalidParameters)).To(BeTrue())
		Expect(errors.Is(calculus.CheckCurve("x", d, nil), calculus.ErrInvalidParameters)).To(BeTrue())

		d = calculus.NewDomain(-2, -1)
		Expect(errors.Is(calculus.CheckCurve("sqrt(x)", d, nil), calculus.ErrNumericDegeneracy)).To(BeTrue())
		Expect(calculus.CheckCurve("x", d, calculus.SamplePoints("x", d))).To(Succeed())
	})
})

var _ = Describe("EvaluateContext", func() {
	It("evaluates every point, NaN where undefined", func() {
		ys, err := calculus.EvaluateContext(context.Background(), "sqrt(x)", []float64{4, -1})
		Expect(err).NotTo(HaveOccurred())
		Expect(ys).To(HaveLen(2))
		Expect(ys[0]).To(Equal(2.0))
		beNaN(ys[1])
	})

	It("reports an invalid expression alongside NaN values", func() {
		ys, err := calculus.EvaluateContext(context.Background(), "x^", []float64{1})
		Expect(errors.Is(err, calculus.ErrInvalidExpression)).To(BeTrue())
		beNaN(ys[0])
	})

	It("stops when the budget runs out", func() {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		ys, err := calculus.EvaluateContext(ctx, "x", []float64{1, 2})
		Expect(ys).To(BeNil())
		Expect(errors.Is(err, calculus.ErrBudgetExceeded)).To(BeTrue())
	})
})
