// Package ecpint evaluates effective-core-potential matrix elements between
// pairs of contracted Cartesian Gaussian shells. It combines the angular
// coupling tables built here with the radial quadrature engine and a final
// Cartesian re-expansion and contraction step.
package ecpint

import (
	"math"
	"sort"

	"github.com/realJohnLock/molecular/mathutil"
	"github.com/realJohnLock/molecular/tensor"
)

// AngularIntegral tabulates the real-solid-harmonic angular integrals that
// couple Cartesian monomials to ECP channels. Init fixes the supported
// angular momenta, Compute fills the tables, and afterwards the tables are
// read-only and safe to share across concurrent shell-pair evaluations.
type AngularIntegral struct {
	// LB is the maximum basis angular momentum, LE the maximum potential
	// angular momentum the tables support.
	LB, LE int

	// wDim is the index bound of the W table, maxL the maximum combined
	// angular momentum; both derived by Init.
	wDim, maxL int

	w     *tensor.FiveIndex
	omega *tensor.SevenIndex
}

// Init sets the maximum basis (lb) and potential (le) angular momenta and
// derives the table bounds. It must precede Compute.
func (a *AngularIntegral) Init(lb, le int) {
	a.LB = lb
	a.LE = le
	a.wDim = 3*lb + le
	if 4*lb > a.wDim {
		a.wDim = 4 * lb
	}
	a.maxL = lb + le
	if 2*lb > a.maxL {
		a.maxL = 2 * lb
	}
}

// calcG is the prefactor of the solid-harmonic monomial expansion,
//
//	g(l, m) = 1/(2^l l!) * sqrt((2l+1)(l-m)! / (2 pi (l+m)!)).
func (a *AngularIntegral) calcG(l, m int, fac []float64) float64 {
	value1 := 1.0 / (math.Pow(2.0, float64(l)) * fac[l])
	value2 := (2.0*float64(l) + 1.0) * fac[l-m] / (2.0 * math.Pi * fac[l+m])
	return value1 * math.Sqrt(value2)
}

// calcH1 is the inner binomial sum term
//
//	h1(i, j, l, m) = (-1)^i l! (2(l-i))! / (j! (l-i)! (i-j)! (l-m-2i)!).
func (a *AngularIntegral) calcH1(i, j, l, m int, fac []float64) float64 {
	if j < 0 {
		return 0.0
	}
	value := fac[l] / (fac[j] * fac[l-i] * fac[i-j])
	value *= float64(1-2*(i%2)) * fac[2*(l-i)] / fac[l-m-2*i]
	return value
}

// calcH2 is the complementary term
//
//	h2(i, j, k, m) = (-1)^{(m-k+2i)/2} j! m! / (i! (j-i)! (k-2i)! (m-k+2i)!),
//
// zero unless 0 <= k-2i <= m.
func (a *AngularIntegral) calcH2(i, j, k, m int, fac []float64) float64 {
	ki2 := k - 2*i
	if m < ki2 || ki2 < 0 {
		return 0.0
	}
	value := fac[j] * fac[m] / (fac[i] * fac[j-i] * fac[ki2] * fac[m-ki2])
	p := (m - k + 2*i) / 2
	return value * (1.0 - 2.0*float64(p%2))
}

// uklm builds the monomial-expansion coefficients U^{lam,mu}_{kl} of one real
// solid harmonic: a (lam+1) x (lam+1) x 2 block holding the cosine (index 0)
// and sine (index 1) components for each monomial power pair (k, l). The
// parity tie-breaks follow the real combination conventions: terms with
// k+l-mu odd vanish, the sine/cosine split follows the parity of l, and
// mu = 0 collapses both components onto the same value scaled by 1/sqrt(2).
func (a *AngularIntegral) uklm(lam, mu int, fac []float64) *tensor.ThreeIndex {
	values := tensor.NewThreeIndex(lam+1, lam+1, 2)

	or2 := 1.0 / math.Sqrt(2.0)
	g := a.calcG(lam, mu, fac)

	for k := 0; k <= lam; k++ {
		for l := 0; l <= lam-k; l++ {
			u, um := 0.0, 0.0
			j := k + l - mu
			if j%2 == 0 {
				j /= 2
				u1 := 0.0
				for i := j; i <= (lam-mu)/2; i++ {
					u1 += a.calcH1(i, j, lam, mu, fac)
				}
				u = g * u1

				u1 = 0.0
				for i := 0; i <= j; i++ {
					u1 += a.calcH2(i, j, k, mu, fac)
				}
				u *= u1
				um = u

				lpar := l % 2
				u *= float64(1 - lpar)
				um *= float64(lpar)
				if mu == 0 {
					u *= or2
					um = u
				}
			}
			values.Set(k, l, 0, u)
			values.Set(k, l, 1, um)
		}
	}
	return values
}

// pijk tabulates the triple angular integrals over products of powers of the
// direction cosines,
//
//	P(i, j, k) = int x^{2i} y^{2j} z^{2k} dOmega,
//
// via the two-level recursion seeded at P(0,0,0) = 4 pi:
//
//	P(i, 0, 0) = 4 pi / (2i+1)
//	P(i, j, 0) = P(i, j-1, 0) * (2j-1) / (2(i+j)+1)
//	P(i, j, k) = P(i, j, k-1) * (2k-1) / (2(i+j+k)+1).
func (a *AngularIntegral) pijk(maxI int) *tensor.ThreeIndex {
	dim := maxI + 1
	values := tensor.NewThreeIndex(dim, dim, dim)
	pi4 := 4.0 * math.Pi

	values.Set(0, 0, 0, pi4)
	for i := 1; i <= maxI; i++ {
		values.Set(i, 0, 0, pi4/float64(2*i+1))
		for j := 1; j <= i; j++ {
			values.Set(i, j, 0, values.At(i, j-1, 0)*(2.0*float64(j)-1.0)/(2.0*float64(i+j)+1.0))
			for k := 1; k <= j; k++ {
				values.Set(i, j, k, values.At(i, j, k-1)*(2.0*float64(k)-1.0)/(2.0*float64(i+j+k)+1.0))
			}
		}
	}
	return values
}

// makeU assembles the solid-harmonic expansion table
// U(lam, mu, i, j, sign) for all lam <= maxL, mu <= lam.
func (a *AngularIntegral) makeU(fac []float64) *tensor.FiveIndex {
	dim := a.maxL + 1
	values := tensor.NewFiveIndex(dim, dim, dim, dim, 2)
	for lam := 0; lam <= a.maxL; lam++ {
		for mu := 0; mu <= lam; mu++ {
			uij := a.uklm(lam, mu, fac)
			for i := 0; i <= lam; i++ {
				for j := 0; j <= lam; j++ {
					values.Set(lam, mu, i, j, 0, uij.At(i, j, 0))
					values.Set(lam, mu, i, j, 1, uij.At(i, j, 1))
				}
			}
		}
	}
	return values
}

// makeW builds the angular-radial coupling table
//
//	W(k, l, m, lam, mu) = sum_{i+j<=lam} U(lam, mu, i, j) P((k+i)/2, (l+j)/2, (m+lam-i-j)/2)
//
// where only index triples (k+i, l+j, m+lam-i-j) of all-even parity
// contribute (P vanishes for any odd power) and the P lookup sorts its
// indices descending since P is totally symmetric but stored triangular.
// Entries with lam or mu of mismatched parity to (k, l, m) stay zero.
func (a *AngularIntegral) makeW(fac []float64, u *tensor.FiveIndex) {
	dim := a.wDim
	maxI := (a.maxL + dim) / 2
	maxLam := a.maxL

	values := tensor.NewFiveIndex(dim+1, dim+1, dim+1, maxLam+1, 2*(maxLam+1))
	p := a.pijk(maxI)

	ix := make([]int, 3)
	for k := 0; k <= dim; k++ {
		for l := 0; l <= dim; l++ {
			for m := 0; m <= dim; m++ {
				plam := (k + l + m) % 2

				limit := maxLam
				if k+l+m < limit {
					limit = k + l + m
				}
				for lam := plam; lam <= limit; lam += 2 {
					smu := 1 - 2*(l%2)
					pmu := (k + l) % 2

					for mu := pmu; mu <= lam; mu += 2 {
						w := 0.0
						for i := 0; i <= lam; i++ {
							for j := 0; j <= lam-i; j++ {
								ix[0] = k + i
								ix[1] = l + j
								ix[2] = m + lam - i - j

								if ix[0]%2+ix[1]%2+ix[2]%2 == 0 {
									sort.Ints(ix)
									w += u.At(lam, mu, i, j, (1-smu)/2) * p.At(ix[2]/2, ix[1]/2, ix[0]/2)
								}
							}
						}
						values.Set(k, l, m, lam, lam+smu*mu, w)
					}
				}
			}
		}
	}
	a.w = values
}

// makeOmega builds the seven-index table
//
//	Omega(k, l, m, rho, sigma, lam, mu) =
//	    sum_{i+j<=lam} U(lam, mu, i, j) W(k+i, l+j, m+lam-i-j, rho, sigma)
//
// for all (lam, mu) <= (rho, sigma). The mu = 0 reflection symmetry
// (Omega- equals Omega+) and the (lam, mu) <-> (rho, sigma) exchange
// symmetry are written into the table explicitly, filling four cells from
// each computed pair.
func (a *AngularIntegral) makeOmega(u *tensor.FiveIndex) {
	lamDim := a.LE + a.LB
	muDim := 2*lamDim + 1
	values := tensor.NewSevenIndex(a.LB+1, a.LB+1, a.LB+1, lamDim+1, muDim+1, lamDim+1, muDim+1)

	for k := 0; k <= a.LB; k++ {
		for l := 0; l <= a.LB; l++ {
			for m := 0; m <= a.LB; m++ {

				for rho := 0; rho <= lamDim; rho++ {
					for sigma := -rho; sigma <= rho; sigma++ {

						for lam := 0; lam <= rho; lam++ {
							for mu := 0; mu <= lam; mu++ {

								omPlus, omMinus := 0.0, 0.0
								for i := 0; i <= lam; i++ {
									for j := 0; j <= lam-i; j++ {
										wval := a.w.At(k+i, l+j, m+lam-i-j, rho, rho+sigma)
										omPlus += u.At(lam, mu, i, j, 0) * wval
										omMinus += u.At(lam, mu, i, j, 1) * wval
									}
								}
								if mu == 0 {
									omMinus = omPlus
								}
								values.Set(k, l, m, rho, sigma+rho, lam, lam+mu, omPlus)
								values.Set(k, l, m, lam, lam+mu, rho, sigma+rho, omPlus)
								values.Set(k, l, m, rho, sigma+rho, lam, lam-mu, omMinus)
								values.Set(k, l, m, lam, lam-mu, rho, sigma+rho, omMinus)
							}
						}
					}
				}
			}
		}
	}
	a.omega = values
}

// Compute fills the U, W and Omega tables for the configured (LB, LE).
// Calling it again with the same configuration rebuilds bit-identical tables.
func (a *AngularIntegral) Compute() {
	facDim := a.wDim
	if 2*a.maxL > facDim {
		facDim = 2 * a.maxL
	}
	fac := mathutil.FacArray(facDim)

	u := a.makeU(fac)
	a.makeW(fac, u)
	a.makeOmega(u)
}

// GetIntegral looks up W(k, l, m, lam, mu); mu may be negative.
func (a *AngularIntegral) GetIntegral(k, l, m, lam, mu int) float64 {
	return a.w.At(k, l, m, lam, lam+mu)
}

// GetOmega looks up Omega(k, l, m, lam, mu, rho, sigma); mu and sigma may be
// negative.
func (a *AngularIntegral) GetOmega(k, l, m, lam, mu, rho, sigma int) float64 {
	return a.omega.At(k, l, m, lam, lam+mu, rho, rho+sigma)
}

// IsZero reports whether |W(k, l, m, lam, mu)| is below tolerance.
func (a *AngularIntegral) IsZero(k, l, m, lam, mu int, tolerance float64) bool {
	if a.w == nil {
		return true
	}
	return math.Abs(a.w.At(k, l, m, lam, lam+mu)) < tolerance
}

// IsZeroOmega reports whether |Omega(k, l, m, lam, mu, rho, sigma)| is below
// tolerance.
func (a *AngularIntegral) IsZeroOmega(k, l, m, lam, mu, rho, sigma int, tolerance float64) bool {
	if a.omega == nil {
		return true
	}
	return math.Abs(a.omega.At(k, l, m, lam, lam+mu, rho, rho+sigma)) < tolerance
}
