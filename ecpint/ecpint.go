package ecpint

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/realJohnLock/molecular/basis"
	"github.com/realJohnLock/molecular/mathutil"
	"github.com/realJohnLock/molecular/tensor"
)

// PruneThreshold is the magnitude below which a combined re-expansion
// coefficient contributes nothing at double precision and its whole term is
// skipped. Pruning is a pure performance cut, not an approximation: terms
// below it are lost to rounding in the accumulation anyway.
const PruneThreshold = 1e-14

// ECPIntegral assembles the ECP matrix between two Cartesian Gaussian shells.
// It drives the angular coupling tables and the radial quadrature engine and
// performs the final Cartesian re-expansion about the ECP center.
//
// The angular tables are built once per (max basis L, max potential L)
// configuration and reused across shell pairs; the radial engine is
// re-initialized per pair. A zero ECPIntegral is ready to use.
type ECPIntegral struct {
	angInts AngularIntegral
	radInts RadialIntegral

	// DisablePrune turns off the PruneThreshold cut. The result must agree
	// with the pruned one to floating-point noise. Testing hook.
	DisablePrune bool

	angReady bool
}

// calcC is the binomial re-expansion coefficient of a Cartesian power a about
// a center shifted by A, in terms of powers m about the new center:
//
//	C(a, m; A) = (-1)^{a-m} A^{a-m} a! / (m! (a-m)!).
func (e *ECPIntegral) calcC(a, m int, dist float64, fac []float64) float64 {
	value := float64(1 - 2*((a-m)%2))
	value *= math.Pow(dist, float64(a-m))
	value *= fac[a] / (fac[m] * fac[a-m])
	return value
}

// prepareAngular builds (or reuses) the coupling tables for the given
// configuration.
func (e *ECPIntegral) prepareAngular(lb, le int) {
	if e.angReady && e.angInts.LB == lb && e.angInts.LE == le {
		return
	}
	e.angInts.Init(lb, le)
	e.angInts.Compute()
	e.angReady = true
}

// Angular exposes the driver's coupling tables, valid after the first
// integral evaluation.
func (e *ECPIntegral) Angular() *AngularIntegral { return &e.angInts }

// Radial exposes the driver's radial engine.
func (e *ECPIntegral) Radial() *RadialIntegral { return &e.radInts }

// Type1 computes the shell-pair ECP integral matrix for the case where the
// angular parity of the combined Cartesian index selects a single ladder of
// radial integrals. a and b are the shell centers relative to the ECP center.
//
// The returned matrix is indexed by the Cartesian component ordering of each
// shell (x-major: x^L first, z^L last). The contraction is
//
//	chi(na, nb) = 4 pi * sum_{k1..m2} C * W(k, l, m, lam, mu) * R(k+l+m, lam, mu)
//
// where C is the product of six binomial re-expansion coefficients, W the
// angular coupling table and R the cached radial integrals; (lam, mu) run
// over the parity-matched ranges of the combined index. The second return
// reports whether every radial quadrature converged; on false the matrix
// holds best-effort values.
func (e *ECPIntegral) Type1(u basis.ECP, shellA, shellB *basis.GaussianShell, a, b [3]float64) (*mat.Dense, bool) {
	la := shellA.L
	lb := shellB.L
	maxLBasis := la
	if lb > maxLBasis {
		maxLBasis = lb
	}
	e.prepareAngular(maxLBasis, u.MaxL())

	// Radial integral cache over (combined index, l, l+m).
	ltot := la + lb
	if err := e.radInts.Init(ltot, DefaultTolerance, DefaultSmallGrid, DefaultLargeGrid); err != nil {
		panic(err) // default configuration is always valid
	}
	converged := true
	radials := tensor.NewThreeIndex(ltot+1, ltot+1, 2*ltot+1)
	for ix := 0; ix <= ltot; ix++ {
		res := e.radInts.Type1(ix, ix, ix%2, u, shellA, shellB, a, b)
		converged = converged && res.Converged
		for l := 0; l <= ix; l++ {
			for m := -l; m <= l; m++ {
				radials.Set(ix, l, l+m, res.Values.At(l, l+m))
			}
		}
	}

	values := mat.NewDense(shellA.NCartesian(), shellB.NCartesian(), nil)
	fac := mathutil.FacArray(maxLBasis)

	// chi_ab for every pair of Cartesian components
	na := 0
	for x1 := 0; x1 <= la; x1++ {
		for y1 := 0; y1 <= la-x1; y1++ {
			z1 := la - x1 - y1
			nb := 0

			for x2 := 0; x2 <= lb; x2++ {
				for y2 := 0; y2 <= lb-x2; y2++ {
					z2 := lb - x2 - y2

					for k1 := 0; k1 <= x1; k1++ {
						ck1 := e.calcC(x1, k1, a[0], fac)

						for k2 := 0; k2 <= x2; k2++ {
							ck2 := e.calcC(x2, k2, b[0], fac)
							k := k1 + k2

							for l1 := 0; l1 <= y1; l1++ {
								cl1 := e.calcC(y1, l1, a[1], fac)

								for l2 := 0; l2 <= y2; l2++ {
									cl2 := e.calcC(y2, l2, b[1], fac)
									l := l1 + l2

									for m1 := 0; m1 <= z1; m1++ {
										cm1 := e.calcC(z1, m1, a[2], fac)

										for m2 := 0; m2 <= z2; m2++ {
											cm2 := e.calcC(z2, m2, b[2], fac)
											m := m1 + m2
											c := ck1 * cl1 * cm1 * ck2 * cl2 * cm2

											if math.Abs(c) <= PruneThreshold && !e.DisablePrune {
												continue
											}

											ix := k + l + m
											lparity := ix % 2
											msign := 1 - 2*(l%2)
											mparity := (lparity + m) % 2

											sum := 0.0
											for lam := lparity; lam <= ix; lam += 2 {
												for mu := mparity; mu <= lam; mu += 2 {
													sum += e.angInts.GetIntegral(k, l, m, lam, msign*mu) * radials.At(ix, lam, lam+msign*mu)
												}
											}
											values.Set(na, nb, values.At(na, nb)+c*sum)
										}
									}
								}
							}
						}
					}

					values.Set(na, nb, values.At(na, nb)*4.0*math.Pi)
					nb++
				}
			}
			na++
		}
	}

	return values, converged
}
