package mathutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// RealSphericalHarmonics evaluates all real spherical harmonics Slm(theta, phi)
// for l = 0..lmax, returned as an (lmax+1) x (2*lmax+1) matrix with Slm stored
// at (l, l+m). Here x = cos(theta). The fac and dfac tables must extend to at
// least 2*lmax.
//
// The associated Legendre polynomials Plm(x) are built from the recursion
//
//	(l-m) Plm = x (2l-1) P{l-1}m - (l+m-1) P{l-2}m
//
// seeded by Pmm = (-1)^m (2m-1)!! (1-x^2)^{m/2}, and the harmonics follow as
//
//	Sl{+m} = Clm Plm cos(m phi),  Sl{-m} = Clm Plm sin(m phi)
//
// with Clm^2 = (2l+1)(l-m)! / (8 pi (l+m)!) and Sl0 = sqrt(2) Cl0 Pl0.
func RealSphericalHarmonics(lmax int, x, phi float64, fac, dfac []float64) *mat.Dense {
	rsh := mat.NewDense(lmax+1, 2*lmax+1, nil)
	osq4pi := 1.0 / math.Sqrt(4.0*math.Pi)

	if lmax == 0 {
		rsh.Set(0, 0, osq4pi)
		return rsh
	}

	plm := make([][]float64, lmax+1)
	for l := range plm {
		plm[l] = make([]float64, lmax+1)
	}

	// Diagonal terms Pmm
	plm[0][0] = 1.0
	sox2 := math.Sqrt(math.Max(0.0, 1.0-x*x)) // roundoff can push x*x past 1
	ox2m := 1.0
	for m := 1; m <= lmax; m++ {
		ox2m *= -sox2
		plm[m][m] = ox2m * dfac[2*m-1]
	}

	// Increment l for each m
	plm[1][0] = x
	for l := 2; l <= lmax; l++ {
		ox2m = x * float64(2*l-1)
		for m := 0; m < l; m++ {
			v := ox2m*plm[l-1][m] - float64(l+m-1)*plm[l-2][m]
			plm[l][m] = v / float64(l-m)
		}
	}

	for l := 0; l <= lmax; l++ {
		rsh.Set(l, l, osq4pi*math.Sqrt(2.0*float64(l)+1.0)*plm[l][0])
		sign := -1.0
		for m := 1; m <= l; m++ {
			clm := (2.0*float64(l) + 1.0) * fac[l-m] / fac[l+m]
			clm = sign * osq4pi * math.Sqrt(2.0*clm) * plm[l][m]
			rsh.Set(l, l+m, clm*math.Cos(float64(m)*phi))
			rsh.Set(l, l-m, clm*math.Sin(float64(m)*phi))
			sign *= -1.0
		}
	}

	return rsh
}
