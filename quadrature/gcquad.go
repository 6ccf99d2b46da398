// Package quadrature implements the Gauss-Chebyshev grids used for the radial
// ECP integrals: closed-form abscissae and weights on [-1, 1], domain
// transforms onto [0, inf) or onto the support window of a Gaussian factor,
// and an adaptive nested integration that reuses grid subsets.
package quadrature

import (
	"fmt"
	"math"
)

// GrowthRule selects how the adaptive ladder grows the working point set.
type GrowthRule uint8

const (
	// OnePoint starts the ladder deep (a coarse subset) and halves the
	// stride one level at a time. Used for the large reference grid.
	OnePoint GrowthRule = iota
	// TwoPoint starts the ladder one level finer, trading an earlier exit
	// for a better first estimate on the small transformed grid.
	TwoPoint
)

// GCQuadrature is one numerical-integration grid: abscissae X and matching
// weights W, fixed in count at initialization, plus the mutable
// non-negligible-support window [Start, End] and the last computed integral.
//
// The untransformed rule is the corrected Gauss-Chebyshev scheme of
// Perez-Jorda, San-Fabian and Moscardo: with theta_i = i pi / (n+1),
//
//	x_i = (n+1-2i)/(n+1) + (2/pi) (1 + (2/3) sin^2 theta_i) sin theta_i cos theta_i
//	w_i = 16/(3(n+1)) sin^4 theta_i
//
// stored in ascending order. Unlike the bare second-kind rule, whose error
// falls off only algebraically when the integrand does not vanish smoothly
// at the interval ends, this rule converges like the trapezoid rule on a
// periodized integrand, so smooth integrands reach machine accuracy and the
// ladder's successive-level comparison is a faithful error estimate. With
// n = 2^m - 1 every stride-2^k subset is itself such a grid with weights
// scaled by the stride, which is what the adaptive ladder exploits.
//
// A grid value is never shared while being re-parameterized: Clone first,
// then transform the copy. The engines keep pristine templates and hand each
// evaluation its own copy, so independent shell pairs can run concurrently.
type GCQuadrature struct {
	X []float64 // abscissae, ascending
	W []float64 // weights, including any transform Jacobian

	Start, End int     // inclusive non-negligible window into X
	I          float64 // last computed integral

	rule        GrowthRule
	levels      int // n+1 == 2^levels
	transformed bool
}

// New allocates an untransformed grid on [-1, 1]. The point count is rounded
// up to the next 2^m - 1 so that the nested subset structure holds; use N for
// the actual count.
func New(points int, rule GrowthRule) (*GCQuadrature, error) {
	if points < 3 {
		return nil, fmt.Errorf("quadrature: need at least 3 points, got %d", points)
	}
	levels := 2
	for (1<<levels)-1 < points {
		levels++
	}
	n := (1 << levels) - 1

	g := &GCQuadrature{
		X:      make([]float64, n),
		W:      make([]float64, n),
		Start:  0,
		End:    n - 1,
		rule:   rule,
		levels: levels,
	}
	for j := 0; j < n; j++ {
		// theta descends with j so that X ascends
		i := n - j
		theta := float64(i) * math.Pi / float64(n+1)
		s, c := math.Sin(theta), math.Cos(theta)
		g.X[j] = float64(n+1-2*i)/float64(n+1) + (2.0/math.Pi)*(1.0+(2.0/3.0)*s*s)*s*c
		g.W[j] = 16.0 / (3.0 * float64(n+1)) * s * s * s * s
	}
	return g, nil
}

// N returns the number of grid points.
func (g *GCQuadrature) N() int { return len(g.X) }

// Clone returns an independent copy of the grid, including its window.
func (g *GCQuadrature) Clone() *GCQuadrature {
	c := &GCQuadrature{
		X:           make([]float64, len(g.X)),
		W:           make([]float64, len(g.W)),
		Start:       g.Start,
		End:         g.End,
		I:           g.I,
		rule:        g.rule,
		levels:      g.levels,
		transformed: g.transformed,
	}
	copy(c.X, g.X)
	copy(c.W, g.W)
	return c
}

// ResetWindow widens the window back to the whole grid.
func (g *GCQuadrature) ResetWindow() {
	g.Start = 0
	g.End = len(g.X) - 1
}

// TransformZeroInf maps the grid onto [0, inf) through r = (1+x)/(1-x),
// folding the Jacobian dr/dx = 2/(1-x)^2 into the weights. The grid must
// still be on [-1, 1].
func (g *GCQuadrature) TransformZeroInf() {
	if g.transformed {
		panic("quadrature: grid already transformed")
	}
	for j, x := range g.X {
		omx := 1.0 - x
		g.X[j] = (1.0 + x) / omx
		g.W[j] *= 2.0 / (omx * omx)
	}
	g.transformed = true
}

// rMinMaxCut is the half-width multiplier for TransformRMinMax: beyond
// cut/sqrt(z) the Gaussian damping factor is below ~1e-21 and contributes
// nothing at double precision. The right edge carries extra margin for the
// polynomial r^N growth of the integrands.
const (
	rMinMaxCutLeft  = 7.0
	rMinMaxCutRight = 9.0
)

// TransformRMinMax maps the grid linearly onto the support of the Gaussian
// factor exp(-z (r - p)^2): the window [max(0, p - 7/sqrt(z)), p + 9/sqrt(z)].
// The grid must still be on [-1, 1].
func (g *GCQuadrature) TransformRMinMax(z, p float64) {
	if g.transformed {
		panic("quadrature: grid already transformed")
	}
	osz := 1.0 / math.Sqrt(z)
	rmin := p - rMinMaxCutLeft*osz
	if rmin < 0.0 {
		rmin = 0.0
	}
	rmax := p + rMinMaxCutRight*osz

	half := 0.5 * (rmax - rmin)
	mid := 0.5 * (rmax + rmin)
	for j, x := range g.X {
		g.X[j] = mid + half*x
		g.W[j] *= half
	}
	g.transformed = true
}

// Integrate runs the adaptive ladder over the pretabulated integrand values
// (one value per abscissa; entries outside [Start, End] are ignored). Each
// ladder level halves the subset stride; the estimate has converged when two
// successive levels agree to within tol. The final estimate is stored in I
// regardless, and the return value reports convergence.
func (g *GCQuadrature) Integrate(values []float64, tol float64) bool {
	n := len(g.X)
	if len(values) != n {
		panic(fmt.Sprintf("quadrature: %d integrand values for %d points", len(values), n))
	}

	// Deepest starting stride with at least 3 subset points.
	startLevel := 2
	if g.rule == TwoPoint {
		startLevel = 3
	}
	if startLevel > g.levels {
		startLevel = g.levels
	}

	prev := math.Inf(1)
	cur := 0.0
	for level := startLevel; level <= g.levels; level++ {
		stride := 1 << (g.levels - level)
		sum := 0.0
		// Subset members are the 1-based indices divisible by stride;
		// with n = 2^levels - 1 these sit at j = stride-1, 2*stride-1, ...
		for j := stride - 1; j < n; j += stride {
			if j < g.Start || j > g.End {
				continue
			}
			sum += g.W[j] * values[j]
		}
		cur = float64(stride) * sum
		if math.Abs(cur-prev) <= tol {
			g.I = cur
			return true
		}
		prev = cur
	}
	g.I = cur
	return false
}
