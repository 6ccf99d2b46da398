package ecpint

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/realJohnLock/molecular/basis"
	"github.com/realJohnLock/molecular/mathutil"
	"github.com/realJohnLock/molecular/quadrature"
)

// Default radial configuration. The tolerance doubles as the quadrature
// convergence threshold and the negligible-support cutoff.
const (
	DefaultTolerance = 1e-15
	DefaultSmallGrid = 255
	DefaultLargeGrid = 1023
)

// RadialResult carries one radial integral table together with its
// convergence status. A false Converged means at least one quadrature failed
// to settle within tolerance and the table holds the best-effort values;
// callers decide whether that is acceptable. UsedFallback reports whether the
// two-center path had to re-do rows on the large grid.
type RadialResult struct {
	Values       *mat.Dense
	Converged    bool
	UsedFallback bool
}

// RadialIntegral numerically evaluates the radial parts of ECP integrals:
// integrals of Gaussian radial factors, the ECP radial potential and scaled
// modified spherical Bessel functions over [0, inf).
//
// It owns two pristine grid templates: a large untransformed grid that gets
// mapped per primitive pair onto the support of the pair's Gaussian factor,
// and a small grid pre-mapped onto [0, inf). Every evaluation works on
// clones, so a single RadialIntegral may serve concurrent shell pairs as long
// as the per-pair parameter tables are not shared; the Engine arranges that
// by giving each worker its own RadialIntegral.
type RadialIntegral struct {
	bigGrid   *quadrature.GCQuadrature
	smallGrid *quadrature.GCQuadrature

	maxL      int
	tolerance float64

	// Per-primitive-pair parameters, rebuilt by buildParameters.
	p   *mat.Dense // combined exponents zeta_a + zeta_b
	pr  *mat.Dense // distance of the weighted center from the ECP center
	pr2 *mat.Dense // pr squared
	kab *mat.Dense // pre-exponential factors exp(-mu |A-B|^2)

	// ForceLargeGrid makes Type2 treat every small-grid row as failed,
	// exercising the large-grid fallback unconditionally. Testing hook.
	ForceLargeGrid bool
}

// Init sets up the two grid templates and the supported maximum angular
// momentum. small and large are the grid point counts; tol is the shared
// convergence and negligibility threshold.
func (r *RadialIntegral) Init(maxL int, tol float64, small, large int) error {
	if maxL < 0 {
		return fmt.Errorf("ecpint: negative maximum angular momentum %d", maxL)
	}
	if tol <= 0 {
		return fmt.Errorf("ecpint: tolerance must be positive, got %g", tol)
	}
	big, err := quadrature.New(large, quadrature.OnePoint)
	if err != nil {
		return err
	}
	sm, err := quadrature.New(small, quadrature.TwoPoint)
	if err != nil {
		return err
	}
	sm.TransformZeroInf()

	r.bigGrid = big
	r.smallGrid = sm
	r.maxL = maxL
	r.tolerance = tol
	return nil
}

// buildBessel fills values(l, i) with the scaled modified spherical Bessel
// function of order l at weight*r[i], for l = 0..maxL.
func (r *RadialIntegral) buildBessel(rpts []float64, maxL int, values *mat.Dense, weight float64) {
	buf := make([]float64, maxL+1)
	for i, x := range rpts {
		mathutil.ScaledBessel(weight*x, maxL, buf)
		for l := 0; l <= maxL; l++ {
			values.Set(l, i, buf[l])
		}
	}
}

// calcKij is the Gaussian product pre-exponential factor
// exp(-mu |A-B|^2) with reduced exponent mu = zeta_a zeta_b / (zeta_a+zeta_b).
func calcKij(zetaA, zetaB float64, a, b [3]float64) float64 {
	mu := zetaA * zetaB / (zetaA + zetaB)
	r2 := 0.0
	for n := 0; n < 3; n++ {
		d := a[n] - b[n]
		r2 += d * d
	}
	return math.Exp(-mu * r2)
}

// buildParameters precomputes, for every primitive pair, the combined
// exponent, the weighted-center distance and its square, and the Gaussian
// overlap factor. Centers are positions relative to the ECP center.
func (r *RadialIntegral) buildParameters(shellA, shellB *basis.GaussianShell, a, b [3]float64) {
	npA := shellA.NPrimitive()
	npB := shellB.NPrimitive()

	r.p = mat.NewDense(npA, npB, nil)
	r.pr = mat.NewDense(npA, npB, nil)
	r.pr2 = mat.NewDense(npA, npB, nil)
	r.kab = mat.NewDense(npA, npB, nil)

	for ia := 0; ia < npA; ia++ {
		zetaA := shellA.Exps[ia]
		for ib := 0; ib < npB; ib++ {
			zetaB := shellB.Exps[ib]

			p := zetaA + zetaB
			p2 := 0.0
			for n := 0; n < 3; n++ {
				pn := (zetaA*a[n] + zetaB*b[n]) / p
				p2 += pn * pn
			}
			r.p.Set(ia, ib, p)
			r.pr2.Set(ia, ib, p2)
			r.pr.Set(ia, ib, math.Sqrt(p2))
			r.kab.Set(ia, ib, calcKij(zetaA, zetaB, a, b))
		}
	}
}

// buildU tabulates utab[i] = r_i^{N+2} * U(r_i, l) at the grid abscissae and
// records the contiguous range where its magnitude exceeds the tolerance as
// the grid's active window; values outside contribute nothing and are skipped
// by the quadrature.
func (r *RadialIntegral) buildU(u basis.ECP, l, n int, grid *quadrature.GCQuadrature, utab []float64) {
	grid.ResetWindow()
	foundStart := false
	for i, x := range grid.X {
		utab[i] = math.Pow(x, float64(n+2)) * u.Evaluate(x, l)
		if !foundStart && math.Abs(utab[i]) > r.tolerance {
			grid.Start = i
			foundStart = true
		} else if foundStart && math.Abs(utab[i]) < r.tolerance {
			grid.End = i - 1
			foundStart = false
		}
	}
	if foundStart {
		grid.End = len(grid.X) - 1
	}
}

// integrate runs the grid's adaptive quadrature over intValues row by row,
// for angular momentum indices offset, offset+skip, ..., maxL, writing each
// result into values. It stops at the first non-converged row, leaving the
// remaining entries zero, and reports whether every attempted row converged.
// The failed row's best-effort estimate is still recorded.
func (r *RadialIntegral) integrate(maxL int, intValues *mat.Dense, grid *quadrature.GCQuadrature, values []float64, offset, skip int) bool {
	for i := range values {
		values[i] = 0.0
	}
	row := make([]float64, grid.N())
	for l := offset; l <= maxL; l += skip {
		for i := grid.Start; i <= grid.End; i++ {
			row[i] = intValues.At(l, i)
		}
		ok := grid.Integrate(row, r.tolerance)
		values[l] = grid.I
		if !ok {
			return false
		}
	}
	return true
}

func norm3(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Type1 computes the one-center-style radial integrals
//
//	values(l, l+m) = sum_{ab} d_a d_b K_ab S_{lm}(P_ab) *
//	    int_0^inf r^{N+2} U(r) exp(-p_ab (r - P_ab)^2) ihat_l(2 p_ab P_ab r) dr
//
// for l = offset, offset+2, ..., maxL (the parity restriction of the
// combined Cartesian index) and all m in [-l, l], where S_lm is the real
// spherical harmonic evaluated along the direction from the pair's weighted
// center to the ECP center. The potential is evaluated on its highest
// (local) channel. Centers a and b are relative to the ECP center.
//
// Quadrature failures are not fatal: the partial value is still accumulated
// and the result is flagged unconverged.
func (r *RadialIntegral) Type1(maxL, n, offset int, u basis.ECP, shellA, shellB *basis.GaussianShell, a, b [3]float64) RadialResult {
	if maxL > r.maxL {
		panic(fmt.Sprintf("ecpint: radial order %d exceeds configured maximum %d", maxL, r.maxL))
	}
	r.buildParameters(shellA, shellB, a, b)

	gridSize := r.bigGrid.N()
	intValues := mat.NewDense(maxL+1, gridSize, nil)
	besselValues := mat.NewDense(maxL+1, gridSize, nil)
	values := mat.NewDense(maxL+1, 2*maxL+1, nil)
	utab := make([]float64, gridSize)
	tempValues := make([]float64, maxL+1)

	normA := norm3(a)
	normB := norm3(b)
	fac := mathutil.FacArray(2 * maxL)
	dfac := mathutil.DfacArray(2 * maxL)

	converged := true
	for ia := 0; ia < shellA.NPrimitive(); ia++ {
		da := shellA.Coefs[ia]
		za := shellA.Exps[ia]

		for ib := 0; ib < shellB.NPrimitive(); ib++ {
			db := shellB.Coefs[ib]
			zb := shellB.Exps[ib]

			p := r.p.At(ia, ib)
			bigP := r.pr.At(ia, ib)
			bigP2 := r.pr2.At(ia, ib)

			grid := r.bigGrid.Clone()
			grid.TransformRMinMax(p, (za*normA+zb*normB)/p)

			r.buildU(u, u.MaxL(), n, grid, utab)
			r.buildBessel(grid.X, maxL, besselValues, 2.0*p*bigP)

			for i := grid.Start; i <= grid.End; i++ {
				x := grid.X[i]
				damp := math.Exp(-p * (x*(x-2.0*bigP) + bigP2))
				for l := offset; l <= maxL; l += 2 {
					intValues.Set(l, i, utab[i]*damp*besselValues.At(l, i))
				}
			}

			ok := r.integrate(maxL, intValues, grid, tempValues, offset, 2)
			converged = converged && ok

			// Direction from the weighted center to the ECP center;
			// coincident centers fall back to the z axis.
			var x float64
			if math.Abs(bigP) >= 1e-12 {
				x = (za*a[2] + zb*b[2]) / (p * bigP)
			}
			py := (za*a[1] + zb*b[1]) / p
			px := (za*a[0] + zb*b[0]) / p
			phi := math.Atan2(py, px)

			harmonics := mathutil.RealSphericalHarmonics(maxL, x, phi, fac, dfac)
			for l := offset; l <= maxL; l += 2 {
				for m := -l; m <= l; m++ {
					values.Set(l, l+m, values.At(l, l+m)+da*db*harmonics.At(l, l+m)*r.kab.At(ia, ib)*tempValues[l])
				}
			}
		}
	}

	return RadialResult{Values: values, Converged: converged}
}

// buildF tabulates the one-shell radial profile
//
//	F(l, i) = sum_{a in shell} d_a ihat_l(2 zeta_a |A| r_i) exp(-zeta_a (r_i - |A|)^2)
//
// for l = 0..maxL over the window [start, end] of the given abscissae. The
// profile factors the two-center integrand so both shells can share one grid.
func (r *RadialIntegral) buildF(shell *basis.GaussianShell, avec [3]float64, maxL int, rpts []float64, start, end int, f *mat.Dense) {
	normA := norm3(avec)
	besselValues := mat.NewDense(maxL+1, len(rpts), nil)

	f.Zero()
	for ia := 0; ia < shell.NPrimitive(); ia++ {
		zeta := shell.Exps[ia]
		c := shell.Coefs[ia]

		r.buildBessel(rpts, maxL, besselValues, 2.0*zeta*normA)

		for i := start; i <= end; i++ {
			d := rpts[i] - normA
			weight := c * math.Exp(-zeta*d*d)
			for l := 0; l <= maxL; l++ {
				f.Set(l, i, f.At(l, i)+weight*besselValues.At(l, i))
			}
		}
	}
}

// Type2 computes the general two-center radial integrals
//
//	values(l1, l2) = int_0^inf r^{N+2} U(r, l) F_A(l1, r) F_B(l2, r) dr
//
// for all l1 <= maxL1, l2 <= maxL2. The first attempt factors the integrand
// through per-shell F profiles on the small transformed grid. Rows whose
// quadrature fails to converge are then redone from scratch on the large
// grid, re-parameterized per primitive pair with explicit Gaussian damping
// and re-tabulated Bessel values; this resolves sharply peaked integrands the
// compact grid cannot. Centers a and b are relative to the ECP center.
func (r *RadialIntegral) Type2(l, maxL1, maxL2, n int, u basis.ECP, shellA, shellB *basis.GaussianShell, a, b [3]float64) RadialResult {
	if maxL1 > r.maxL || maxL2 > r.maxL {
		panic(fmt.Sprintf("ecpint: radial orders (%d, %d) exceed configured maximum %d", maxL1, maxL2, r.maxL))
	}
	r.buildParameters(shellA, shellB, a, b)

	small := r.smallGrid.Clone()
	gridSize := small.N()
	utab := make([]float64, gridSize)
	r.buildU(u, l, n, small, utab)

	fa := mat.NewDense(maxL1+1, gridSize, nil)
	fb := mat.NewDense(maxL2+1, gridSize, nil)
	r.buildF(shellA, a, maxL1, small.X, small.Start, small.End, fa)
	r.buildF(shellB, b, maxL2, small.X, small.Start, small.End, fb)

	intValues := mat.NewDense(maxL2+1, gridSize, nil)
	tests := make([]bool, maxL1+1)
	tempValues := make([]float64, maxL2+1)
	values := mat.NewDense(maxL1+1, maxL2+1, nil)

	failed := false
	for l1 := 0; l1 <= maxL1; l1++ {
		for i := small.Start; i <= small.End; i++ {
			for l2 := 0; l2 <= maxL2; l2++ {
				intValues.Set(l2, i, utab[i]*fa.At(l1, i)*fb.At(l2, i))
			}
		}
		tests[l1] = r.integrate(maxL2, intValues, small, tempValues, 0, 1)
		if r.ForceLargeGrid {
			tests[l1] = false
		}
		failed = failed || !tests[l1]
		for l2 := 0; l2 <= maxL2; l2++ {
			values.Set(l1, l2, tempValues[l2])
		}
	}

	if !failed {
		return RadialResult{Values: values, Converged: true}
	}

	// Fallback: redo the failed rows on the large grid, summing over
	// primitive pairs explicitly instead of through the F profiles.
	normA := norm3(a)
	normB := norm3(b)
	converged := true
	for l1 := 0; l1 <= maxL1; l1++ {
		if tests[l1] {
			continue
		}
		for l2 := 0; l2 <= maxL2; l2++ {
			values.Set(l1, l2, 0.0)
		}

		for ia := 0; ia < shellA.NPrimitive(); ia++ {
			za := shellA.Exps[ia]
			ca := shellA.Coefs[ia]

			for ib := 0; ib < shellB.NPrimitive(); ib++ {
				zb := shellB.Exps[ib]
				cb := shellB.Coefs[ib]

				big := r.bigGrid.Clone()
				big.TransformRMinMax(r.p.At(ia, ib), (za*normA+zb*normB)/r.p.At(ia, ib))

				bigU := make([]float64, big.N())
				r.buildU(u, l, n, big, bigU)

				besselA := mat.NewDense(maxL1+1, big.N(), nil)
				besselB := mat.NewDense(maxL2+1, big.N(), nil)
				r.buildBessel(big.X, maxL1, besselA, 2.0*za*normA)
				r.buildBessel(big.X, maxL2, besselB, 2.0*zb*normB)

				bigInt := mat.NewDense(maxL2+1, big.N(), nil)
				for i := big.Start; i <= big.End; i++ {
					xa := big.X[i] - normA
					xb := big.X[i] - normB
					damp := math.Exp(-za*xa*xa) * math.Exp(-zb*xb*xb)
					fla := besselA.At(l1, i)
					for l2 := 0; l2 <= maxL2; l2++ {
						bigInt.Set(l2, i, bigU[i]*fla*besselB.At(l2, i)*damp)
					}
				}

				tmp := make([]float64, maxL2+1)
				ok := r.integrate(maxL2, bigInt, big, tmp, 0, 1)
				converged = converged && ok
				for l2 := 0; l2 <= maxL2; l2++ {
					values.Set(l1, l2, values.At(l1, l2)+ca*cb*tmp[l2])
				}
			}
		}
	}

	return RadialResult{Values: values, Converged: converged, UsedFallback: true}
}
