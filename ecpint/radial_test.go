package ecpint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/realJohnLock/molecular/basis"
)

func gaussUnit(r float64, _ int) float64 { return math.Exp(-r * r) }

func sShell(t *testing.T, center [3]float64, exps, coefs []float64) *basis.GaussianShell {
	t.Helper()
	sh, err := basis.NewGaussianShell(0, center)
	require.NoError(t, err)
	for i := range exps {
		sh.AddPrimitive(exps[i], coefs[i])
	}
	return sh
}

// ihat0 is the exponentially scaled modified spherical Bessel function of
// order zero, exp(-z) sinh(z) / z.
func ihat0(z float64) float64 {
	if z < 1e-14 {
		return 1.0
	}
	return (1.0 - math.Exp(-2.0*z)) / (2.0 * z)
}

func TestType1SharedCenter(t *testing.T) {
	// Both s primitives on the ECP center: the Bessel factor is 1, the
	// harmonic is S00 = 1/sqrt(4 pi), and the quadrature reduces to
	// int r^2 exp(-3 r^2) dr = sqrt(pi) / (4 * 3^{3/2}).
	var rad RadialIntegral
	require.NoError(t, rad.Init(0, DefaultTolerance, DefaultSmallGrid, DefaultLargeGrid))

	origin := [3]float64{}
	shellA := sShell(t, origin, []float64{1.0}, []float64{1.0})
	shellB := sShell(t, origin, []float64{1.0}, []float64{1.0})
	u := basis.FuncECP{F: gaussUnit, L: 0}

	res := rad.Type1(0, 0, 0, u, shellA, shellB, origin, origin)
	require.True(t, res.Converged)
	assert.False(t, res.UsedFallback)

	want := math.Sqrt(math.Pi) / (4.0 * math.Pow(3.0, 1.5)) / math.Sqrt(4.0*math.Pi)
	assert.InEpsilon(t, want, res.Values.At(0, 0), 1e-10)
}

func TestType1LinearInContraction(t *testing.T) {
	var rad RadialIntegral
	require.NoError(t, rad.Init(0, DefaultTolerance, DefaultSmallGrid, DefaultLargeGrid))

	origin := [3]float64{}
	a := [3]float64{0.0, 0.0, 0.4}
	u := basis.FuncECP{F: gaussUnit, L: 0}

	fixed := sShell(t, origin, []float64{0.8}, []float64{1.0})

	contracted := sShell(t, a, []float64{0.5, 1.7}, []float64{0.3, 0.9})
	whole := rad.Type1(0, 0, 0, u, contracted, fixed, a, origin)
	require.True(t, whole.Converged)

	sum := 0.0
	for i := range contracted.Exps {
		part := sShell(t, a, []float64{contracted.Exps[i]}, []float64{contracted.Coefs[i]})
		res := rad.Type1(0, 0, 0, u, part, fixed, a, origin)
		require.True(t, res.Converged)
		sum += res.Values.At(0, 0)
	}
	assert.InEpsilon(t, sum, whole.Values.At(0, 0), 1e-12)
}

func TestRadialRejectsOrderAboveConfigured(t *testing.T) {
	var rad RadialIntegral
	require.NoError(t, rad.Init(1, DefaultTolerance, DefaultSmallGrid, DefaultLargeGrid))

	origin := [3]float64{}
	shell := sShell(t, origin, []float64{1.0}, []float64{1.0})
	u := basis.FuncECP{F: gaussUnit, L: 0}

	assert.Panics(t, func() { rad.Type1(2, 0, 0, u, shell, shell, origin, origin) })
	assert.Panics(t, func() { rad.Type2(0, 2, 0, 0, u, shell, shell, origin, origin) })
	assert.Panics(t, func() { rad.Type2(0, 0, 2, 0, u, shell, shell, origin, origin) })
}

func TestType2SmallAndLargeGridAgree(t *testing.T) {
	// A smooth two-center integrand converges on the compact grid; forcing
	// the per-pair large-grid path must reproduce the same table.
	var rad RadialIntegral
	require.NoError(t, rad.Init(2, 1e-12, DefaultSmallGrid, DefaultLargeGrid))

	center := [3]float64{0.0, 0.0, 0.5}
	shellA := sShell(t, center, []float64{1.3}, []float64{1.0})
	shellB := sShell(t, center, []float64{0.9}, []float64{1.0})
	u := basis.FuncECP{F: gaussUnit, L: 0}

	smooth := rad.Type2(0, 2, 2, 0, u, shellA, shellB, center, center)
	require.True(t, smooth.Converged)
	assert.False(t, smooth.UsedFallback)

	rad.ForceLargeGrid = true
	forced := rad.Type2(0, 2, 2, 0, u, shellA, shellB, center, center)
	rad.ForceLargeGrid = false
	require.True(t, forced.Converged)
	assert.True(t, forced.UsedFallback)

	for l1 := 0; l1 <= 2; l1++ {
		for l2 := 0; l2 <= 2; l2++ {
			assert.InDelta(t, smooth.Values.At(l1, l2), forced.Values.At(l1, l2),
				1e-9, "l1=%d l2=%d", l1, l2)
		}
	}

	// Independent reference for the (0, 0) element.
	f := func(r float64) float64 {
		da := r - 0.5
		return r * r * math.Exp(-r*r) *
			ihat0(2.0*1.3*0.5*r) * math.Exp(-1.3*da*da) *
			ihat0(2.0*0.9*0.5*r) * math.Exp(-0.9*da*da)
	}
	want := quad.Fixed(f, 0.0, 12.0, 600, nil, 0)
	assert.InEpsilon(t, want, smooth.Values.At(0, 0), 1e-8)
}

func TestType2SharpPairFallsBack(t *testing.T) {
	// Exponents of 2000 an atomic unit away from the ECP center give the
	// integrand a width of about 0.016, far below the compact grid's point
	// spacing near r = 1. The compact attempt must fail and the windowed
	// large grid must recover the value.
	var rad RadialIntegral
	require.NoError(t, rad.Init(0, DefaultTolerance, DefaultSmallGrid, DefaultLargeGrid))

	center := [3]float64{0.0, 0.0, 1.0}
	shellA := sShell(t, center, []float64{2000.0}, []float64{1.0})
	shellB := sShell(t, center, []float64{2000.0}, []float64{1.0})
	u := basis.FuncECP{F: gaussUnit, L: 0}

	res := rad.Type2(0, 0, 0, 0, u, shellA, shellB, center, center)
	require.True(t, res.UsedFallback)
	require.True(t, res.Converged)

	f := func(r float64) float64 {
		d := r - 1.0
		b := ihat0(2.0*2000.0*r) * math.Exp(-2000.0*d*d)
		return r * r * math.Exp(-r*r) * b * b
	}
	want := quad.Fixed(f, 0.8, 1.2, 3000, nil, 0)
	assert.InEpsilon(t, want, res.Values.At(0, 0), 1e-4)
}
