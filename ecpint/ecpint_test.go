package ecpint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realJohnLock/molecular/basis"
)

func unitGaussECP() *basis.GaussianECP {
	u := basis.NewGaussianECP(0)
	u.AddPrimitive(0, 0, 1.0, 1.0)
	return u
}

func TestType1SSAtECPCenter(t *testing.T) {
	// <s| exp(-r^2) |s> with unit exponents on the potential center is the
	// plain Gaussian integral (pi/3)^{3/2}.
	origin := [3]float64{}
	shell := sShell(t, origin, []float64{1.0}, []float64{1.0})

	var e ECPIntegral
	values, ok := e.Type1(unitGaussECP(), shell, shell, origin, origin)
	require.True(t, ok)

	r, c := values.Dims()
	require.Equal(t, 1, r)
	require.Equal(t, 1, c)
	assert.InEpsilon(t, math.Pow(math.Pi/3.0, 1.5), values.At(0, 0), 1e-10)
}

func TestType1SSOffCenter(t *testing.T) {
	// Two displaced s primitives against a Gaussian potential stay a product
	// of Gaussians, so the exact value follows from combining them pairwise:
	// K_ab * K_{p,U} * (pi/q)^{3/2} with q the total exponent.
	a := [3]float64{0.0, 0.0, 0.5}
	b := [3]float64{0.0, 0.0, -0.3}
	shellA := sShell(t, a, []float64{1.0}, []float64{1.0})
	shellB := sShell(t, b, []float64{1.0}, []float64{1.0})

	var e ECPIntegral
	values, ok := e.Type1(unitGaussECP(), shellA, shellB, a, b)
	require.True(t, ok)

	// exp(-mu |A-B|^2) for the shell pair, then the weighted center at 0.1
	// combined with the unit-exponent potential.
	kab := math.Exp(-0.5 * 0.64)
	kpu := math.Exp(-2.0 / 3.0 * 0.01)
	want := kab * kpu * math.Pow(math.Pi/3.0, 1.5)
	assert.InEpsilon(t, want, values.At(0, 0), 1e-8)
}

func TestType1PPAtECPCenter(t *testing.T) {
	// On-center p functions: the diagonal is <x exp(-r^2)| exp(-r^2) |x
	// exp(-r^2)> = pi^{3/2} / (2 * 3^{5/2}), identical for x, y, z, and the
	// off-diagonal entries vanish by angular selection.
	origin := [3]float64{}
	shell, err := basis.NewGaussianShell(1, origin)
	require.NoError(t, err)
	shell.AddPrimitive(1.0, 1.0)

	var e ECPIntegral
	values, ok := e.Type1(unitGaussECP(), shell, shell, origin, origin)
	require.True(t, ok)

	want := math.Pow(math.Pi, 1.5) / (2.0 * math.Pow(3.0, 2.5))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				assert.InEpsilon(t, want, values.At(i, i), 1e-9, "diag %d", i)
			} else {
				assert.InDelta(t, 0.0, values.At(i, j), 1e-12, "entry %d,%d", i, j)
			}
		}
	}
}

func TestType1PruneInvariance(t *testing.T) {
	ecpCenter := [3]float64{0.0, 0.0, 0.2}
	shellA, err := basis.NewGaussianShell(1, [3]float64{0.1, -0.2, 0.3})
	require.NoError(t, err)
	shellA.AddPrimitive(1.2, 0.7)
	shellA.AddPrimitive(0.6, 0.4)
	shellB, err := basis.NewGaussianShell(1, [3]float64{-0.2, 0.1, 0.4})
	require.NoError(t, err)
	shellB.AddPrimitive(0.8, 1.0)

	a := relative(shellA.Center, ecpCenter)
	b := relative(shellB.Center, ecpCenter)
	u := unitGaussECP()

	var e ECPIntegral
	pruned, ok := e.Type1(u, shellA, shellB, a, b)
	require.True(t, ok)

	e.DisablePrune = true
	full, ok := e.Type1(u, shellA, shellB, a, b)
	require.True(t, ok)

	pr, pc := pruned.Dims()
	require.Equal(t, 3, pr)
	require.Equal(t, 3, pc)
	for i := 0; i < pr; i++ {
		for j := 0; j < pc; j++ {
			assert.InDelta(t, full.At(i, j), pruned.At(i, j), 1e-13, "entry %d,%d", i, j)
		}
	}
}

func TestType1SymmetricUnderShellSwap(t *testing.T) {
	ecpCenter := [3]float64{0.1, 0.0, -0.1}
	shellA := sShell(t, [3]float64{0.0, 0.4, 0.0}, []float64{0.9, 2.1}, []float64{0.6, 0.5})
	shellB := sShell(t, [3]float64{-0.3, 0.0, 0.5}, []float64{1.4}, []float64{1.0})

	a := relative(shellA.Center, ecpCenter)
	b := relative(shellB.Center, ecpCenter)
	u := unitGaussECP()

	var e ECPIntegral
	ab, ok := e.Type1(u, shellA, shellB, a, b)
	require.True(t, ok)
	ba, ok := e.Type1(u, shellB, shellA, b, a)
	require.True(t, ok)

	assert.InDelta(t, ba.At(0, 0), ab.At(0, 0), 1e-12)
}
