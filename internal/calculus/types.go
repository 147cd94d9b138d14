package calculus

const (
	DefaultSamples  = 1000
	DefaultStep     = 1e-4
	DefaultRiemannN = 100
	MaxOrder        = 8

	// MaxDomainSamples caps Domain.N.
	MaxDomainSamples = 1 << 24
	// MaxRiemannN caps the number of rectangles of a Riemann sum.
	MaxRiemannN = 1 << 24
)

// Func is a real function of one variable. Implementations must be safe for
// concurrent use.
type Func func(x float64) float64

// Sample is one (x, f(x)) pair. Y is always finite.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Domain is a closed interval sampled at N evenly spaced points, both
// endpoints included.
type Domain struct {
	XMin float64
	XMax float64
	N    int
}

// NewDomain returns a domain over [xMin, xMax] with DefaultSamples points.
func NewDomain(xMin, xMax float64) Domain {
	return Domain{XMin: xMin, XMax: xMax, N: DefaultSamples}
}

// Valid reports whether d can be sampled: finite bounds with XMin < XMax and
// 2 <= N <= MaxDomainSamples.
func (d Domain) Valid() bool {
	return d.N >= 2 && d.N <= MaxDomainSamples && isFinite(d.XMin) && isFinite(d.XMax) && d.XMin < d.XMax
}

// At returns the i-th abscissa.
func (d Domain) At(i int) float64 {
	return d.XMin + float64(i)*(d.XMax-d.XMin)/float64(d.N-1)
}

// Viewport is the visible region of a plot. Only the X range drives sampling;
// the Y range is for renderers.
type Viewport struct {
	XMin float64 `json:"xMin" yaml:"x_min"`
	XMax float64 `json:"xMax" yaml:"x_max"`
	YMin float64 `json:"yMin" yaml:"y_min"`
	YMax float64 `json:"yMax" yaml:"y_max"`
}

// DefaultViewport matches the initial view of the explorer.
func DefaultViewport() Viewport {
	return Viewport{XMin: -10, XMax: 10, YMin: -10, YMax: 10}
}

// Domain returns the X range sampled at n points.
func (v Viewport) Domain(n int) Domain {
	return Domain{XMin: v.XMin, XMax: v.XMax, N: n}
}

// Contains reports whether y lies inside the Y range.
func (v Viewport) Contains(y float64) bool {
	return y >= v.YMin && y <= v.YMax
}

// Tangent is the line through (X0, Y0) with the given slope.
type Tangent struct {
	X0    float64 `json:"x0"`
	Y0    float64 `json:"y0"`
	Slope float64 `json:"slope"`
}

// At evaluates the line at x.
func (t Tangent) At(x float64) float64 {
	return t.Slope*(x-t.X0) + t.Y0
}

// Valid reports whether the tangent is defined.
func (t Tangent) Valid() bool {
	return isFinite(t.Y0) && isFinite(t.Slope)
}

// Xs returns the abscissas of samples.
func Xs(samples []Sample) []float64 {
	xs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
	}
	return xs
}

// Ys returns the ordinates of samples.
func Ys(samples []Sample) []float64 {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Y
	}
	return ys
}
