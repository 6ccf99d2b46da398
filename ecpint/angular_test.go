package ecpint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realJohnLock/molecular/mathutil"
)

func TestPijkSeeds(t *testing.T) {
	var ang AngularIntegral
	ang.Init(2, 2)
	p := ang.pijk(6)

	assert.Equal(t, 4.0*math.Pi, p.At(0, 0, 0))
	for i := 1; i <= 6; i++ {
		assert.Equal(t, 4.0*math.Pi/float64(2*i+1), p.At(i, 0, 0), "i=%d", i)
	}
}

func TestPijkAgainstDirectFormula(t *testing.T) {
	// P(i, j, k) = 4 pi (2i-1)!! (2j-1)!! (2k-1)!! / (2(i+j+k)+1)!!
	var ang AngularIntegral
	ang.Init(2, 2)
	p := ang.pijk(5)

	dfac := mathutil.DfacArray(31)
	oddDfac := func(n int) float64 {
		if n == 0 {
			return 1.0
		}
		return dfac[2*n-1]
	}
	for i := 0; i <= 5; i++ {
		for j := 0; j <= i; j++ {
			for k := 0; k <= j; k++ {
				want := 4.0 * math.Pi * oddDfac(i) * oddDfac(j) * oddDfac(k) / dfac[2*(i+j+k)+1]
				assert.InDelta(t, want, p.At(i, j, k), 1e-14*want, "P(%d,%d,%d)", i, j, k)
			}
		}
	}
}

func TestWScalarSeed(t *testing.T) {
	var ang AngularIntegral
	ang.Init(0, 0)
	ang.Compute()

	// W(0,0,0,0,0) = S00 coefficient times 4 pi = sqrt(4 pi)
	assert.InDelta(t, math.Sqrt(4.0*math.Pi), ang.GetIntegral(0, 0, 0, 0, 0), 1e-14)
	assert.False(t, ang.IsZero(0, 0, 0, 0, 0, 1e-8))
}

func TestWParitySelection(t *testing.T) {
	var ang AngularIntegral
	ang.Init(2, 1)
	ang.Compute()

	// Entries whose (k+l+m) parity mismatches lam are never written
	for k := 0; k <= 3; k++ {
		for l := 0; l <= 3; l++ {
			for m := 0; m <= 3; m++ {
				for lam := 0; lam <= ang.maxL; lam++ {
					if (k+l+m+lam)%2 == 0 {
						continue
					}
					for mu := -lam; mu <= lam; mu++ {
						assert.Zero(t, ang.GetIntegral(k, l, m, lam, mu),
							"W(%d,%d,%d,%d,%d)", k, l, m, lam, mu)
					}
				}
			}
		}
	}
}

func TestOmegaExchangeSymmetry(t *testing.T) {
	var ang AngularIntegral
	ang.Init(2, 2)
	ang.Compute()

	lamDim := ang.LB + ang.LE
	for k := 0; k <= ang.LB; k++ {
		for l := 0; l <= ang.LB; l++ {
			for m := 0; m <= ang.LB; m++ {
				for rho := 0; rho <= lamDim; rho++ {
					for sigma := -rho; sigma <= rho; sigma++ {
						for lam := 0; lam <= lamDim; lam++ {
							for mu := -lam; mu <= lam; mu++ {
								assert.InDelta(t,
									ang.GetOmega(k, l, m, rho, sigma, lam, mu),
									ang.GetOmega(k, l, m, lam, mu, rho, sigma),
									1e-14,
									"Omega(%d,%d,%d | %d,%d | %d,%d)", k, l, m, rho, sigma, lam, mu)
							}
						}
					}
				}
			}
		}
	}
}

func TestOmegaScalarChannelReducesToW(t *testing.T) {
	// S00 = 1/sqrt(4 pi), so contracting with the scalar harmonic gives
	// Omega(k,l,m, 0,0, lam,mu) = W(k,l,m, lam,mu) / sqrt(4 pi).
	var ang AngularIntegral
	ang.Init(1, 2)
	ang.Compute()

	s00 := 1.0 / math.Sqrt(4.0*math.Pi)
	lamDim := ang.LB + ang.LE
	for k := 0; k <= ang.LB; k++ {
		for l := 0; l <= ang.LB; l++ {
			for m := 0; m <= ang.LB; m++ {
				for lam := 0; lam <= lamDim; lam++ {
					for mu := -lam; mu <= lam; mu++ {
						assert.InDelta(t,
							s00*ang.GetIntegral(k, l, m, lam, mu),
							ang.GetOmega(k, l, m, 0, 0, lam, mu),
							1e-15,
							"Omega(%d,%d,%d | 0,0 | %d,%d)", k, l, m, lam, mu)
					}
				}
			}
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	var ang AngularIntegral
	ang.Init(2, 1)
	ang.Compute()
	w1 := append([]float64(nil), ang.w.RawData()...)
	om1 := append([]float64(nil), ang.omega.RawData()...)

	ang.Compute()
	require.Equal(t, w1, ang.w.RawData())
	require.Equal(t, om1, ang.omega.RawData())
}

func TestIsZeroMatchesLookups(t *testing.T) {
	var ang AngularIntegral
	ang.Init(1, 1)
	ang.Compute()

	for k := 0; k <= 1; k++ {
		for lam := 0; lam <= ang.maxL; lam++ {
			for mu := -lam; mu <= lam; mu++ {
				v := math.Abs(ang.GetIntegral(k, 0, 0, lam, mu))
				assert.Equal(t, v < 1e-10, ang.IsZero(k, 0, 0, lam, mu, 1e-10))
			}
		}
	}
}
