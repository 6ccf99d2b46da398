// Package onee computes one-electron overlap and kinetic-energy integrals
// between contracted Cartesian Gaussian shells using the two-term Obara-Saika
// recursion. Primitive normalization is the caller's concern: contraction
// coefficients are used exactly as given.
package onee

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/realJohnLock/molecular/basis"
)

// osTables builds the one-dimensional overlap and kinetic intermediates
// S(i, j) and T(i, j) for powers i <= ul, j <= vl along one Cartesian
// direction, from the Obara-Saika recursions
//
//	S(i+1, j) = XPA S(i, j) + (1/2p)(i S(i-1, j) + j S(i, j-1))
//	T(i+1, j) = XPA T(i, j) + (1/2p)(i T(i-1, j) + j T(i, j-1))
//	            + (zb/p)(2 za S(i+1, j) - i S(i-1, j))
//
// and their j-incrementing mirrors, seeded by
//
//	S(0, 0) = sqrt(pi/p) exp(-mu X^2)
//	T(0, 0) = (za - 2 za^2 (XPA^2 + 1/2p)) S(0, 0).
func osTables(ul, vl int, za, zb, p, xpa, xpb, s00 float64) (s, t [][]float64) {
	one2p := 1.0 / (2.0 * p)
	vp := zb / p
	up := za / p

	s = make([][]float64, ul+1)
	t = make([][]float64, ul+1)
	for i := range s {
		s[i] = make([]float64, vl+1)
		t[i] = make([]float64, vl+1)
	}

	s[0][0] = s00
	t[0][0] = (za - 2.0*za*za*(xpa*xpa+one2p)) * s00

	// Raise i at j = 0
	slast, scurr := 0.0, s[0][0]
	for i := 1; i <= ul; i++ {
		snext := xpa*scurr + one2p*float64(i-1)*slast
		s[i][0] = snext
		slast, scurr = scurr, snext
	}
	if ul > 0 {
		t[1][0] = xpa*t[0][0] + vp*2.0*za*s[1][0]
		for i := 2; i <= ul; i++ {
			t[i][0] = xpa*t[i-1][0] + one2p*float64(i-1)*t[i-2][0] +
				vp*(2.0*za*s[i][0]-float64(i-1)*s[i-2][0])
		}
	}

	// Raise j for every i
	if vl > 0 {
		for k := 0; k <= ul; k++ {
			ktemp := k
			if k > 0 {
				ktemp = k - 1
			}
			s[k][1] = xpb*s[k][0] + one2p*float64(k)*s[ktemp][0]
			for j := 2; j <= vl; j++ {
				s[k][j] = xpb*s[k][j-1] + one2p*(float64(k)*s[ktemp][j-1]+float64(j-1)*s[k][j-2])
			}
			t[k][1] = xpb*t[k][0] + one2p*float64(k)*t[ktemp][0] + up*2.0*zb*s[k][1]
			for j := 2; j <= vl; j++ {
				t[k][j] = xpb*t[k][j-1] + one2p*(float64(k)*t[ktemp][j-1]+float64(j-1)*t[k][j-2]) +
					up*(2.0*zb*s[k][j]-float64(j-1)*s[k][j-2])
			}
		}
	}
	return s, t
}

// primitivePair returns the overlap and kinetic-energy integrals between two
// primitive Cartesian Gaussians with powers (lx1, ly1, lz1) and
// (lx2, ly2, lz2), exponents za and zb, at centers a and b.
func primitivePair(lx1, ly1, lz1, lx2, ly2, lz2 int, za, zb float64, a, b [3]float64) (s, t float64) {
	p := za + zb
	mu := za * zb / p
	premult := math.Sqrt(math.Pi / p)

	var sd, td [3]float64
	for n := 0; n < 3; n++ {
		pn := (za*a[n] + zb*b[n]) / p
		x := a[n] - b[n]
		s00 := premult * math.Exp(-mu*x*x)

		var ul, vl int
		switch n {
		case 0:
			ul, vl = lx1, lx2
		case 1:
			ul, vl = ly1, ly2
		case 2:
			ul, vl = lz1, lz2
		}
		sij, tij := osTables(ul, vl, za, zb, p, pn-a[n], pn-b[n], s00)
		sd[n] = sij[ul][vl]
		td[n] = tij[ul][vl]
	}

	s = sd[0] * sd[1] * sd[2]
	// T factors one direction at a time against the overlaps of the others
	t = td[0]*sd[1]*sd[2] + sd[0]*td[1]*sd[2] + sd[0]*sd[1]*td[2]
	return s, t
}

// OverlapKinetic computes the contracted overlap and kinetic-energy matrices
// between two shells, indexed by the Cartesian component ordering of each
// shell (x-major: x^L first, z^L last).
func OverlapKinetic(shellA, shellB *basis.GaussianShell) (s, t *mat.Dense) {
	ncA := shellA.NCartesian()
	ncB := shellB.NCartesian()
	s = mat.NewDense(ncA, ncB, nil)
	t = mat.NewDense(ncA, ncB, nil)

	na := 0
	for x1 := 0; x1 <= shellA.L; x1++ {
		for y1 := 0; y1 <= shellA.L-x1; y1++ {
			z1 := shellA.L - x1 - y1
			nb := 0

			for x2 := 0; x2 <= shellB.L; x2++ {
				for y2 := 0; y2 <= shellB.L-x2; y2++ {
					z2 := shellB.L - x2 - y2

					sval, tval := 0.0, 0.0
					for ia := 0; ia < shellA.NPrimitive(); ia++ {
						for ib := 0; ib < shellB.NPrimitive(); ib++ {
							ps, pt := primitivePair(x1, y1, z1, x2, y2, z2,
								shellA.Exps[ia], shellB.Exps[ib], shellA.Center, shellB.Center)
							c := shellA.Coefs[ia] * shellB.Coefs[ib]
							sval += c * ps
							tval += c * pt
						}
					}
					s.Set(na, nb, sval)
					t.Set(na, nb, tval)
					nb++
				}
			}
			na++
		}
	}
	return s, t
}
