package mathutil

import "math"

// besselSeriesCutoff is the argument below which the power series is used in
// place of the recursions.
const besselSeriesCutoff = 0.5

// ScaledBessel fills out[0..maxL] with the exponentially scaled modified
// spherical Bessel functions of the first kind,
//
//	out[l] = exp(-z) * i_l(z),  z >= 0.
//
// The scaling keeps every value in [0, 1], so the radial integrands can fold
// the compensating exponential into their Gaussian damping factors without
// overflow at large arguments.
//
// For small z each order is summed from the series
//
//	i_l(z) = z^l/(2l+1)!! * sum_k z^{2k} / (2^k k! (2l+3)(2l+5)...(2l+2k+1))
//
// Elsewhere the orders follow from the closed forms
//
//	i_0(z) = sinh(z)/z,  i_1(z) = cosh(z)/z - sinh(z)/z^2
//
// by the three-term recursion i_{l+1} = i_{l-1} - (2l+1)/z * i_l. The upward
// direction is stable only while the order stays below the argument, so it is
// used for z >= 2*maxL; otherwise Miller's downward recursion runs from far
// enough above maxL that the seeded tail has mixed into the true solution by
// the orders kept, normalized against the i_0 closed form.
func ScaledBessel(z float64, maxL int, out []float64) {
	for l := 0; l <= maxL; l++ {
		out[l] = 0.0
	}
	if z < 1e-14 {
		out[0] = 1.0
		return
	}

	if z < besselSeriesCutoff {
		ez := math.Exp(-z)
		zl := 1.0
		dfac := 1.0
		for l := 0; l <= maxL; l++ {
			term := zl / dfac
			sum := term
			for k := 1; k <= 20; k++ {
				term *= z * z / float64(2*k*(2*l+2*k+1))
				sum += term
				if term < 1e-18*sum {
					break
				}
			}
			out[l] = ez * sum
			zl *= z
			dfac *= float64(2*l + 3)
		}
		return
	}

	e2 := math.Exp(-2.0 * z)
	i0 := (1.0 - e2) / (2.0 * z)
	out[0] = i0
	if maxL == 0 {
		return
	}
	out[1] = (1.0+e2)/(2.0*z) - (1.0-e2)/(2.0*z*z)

	if z >= 2.0*float64(maxL) {
		for l := 1; l < maxL; l++ {
			out[l+1] = out[l-1] - float64(2*l+1)/z*out[l]
		}
		return
	}

	start := maxL + 40
	f := make([]float64, start+2)
	f[start+1] = 0.0
	f[start] = 1e-30
	for l := start; l >= 1; l-- {
		f[l-1] = f[l+1] + float64(2*l+1)/z*f[l]
		if f[l-1] > 1e250 {
			for n := l - 1; n <= start+1; n++ {
				f[n] *= 1e-250
			}
		}
	}
	scale := i0 / f[0]
	for l := 1; l <= maxL; l++ {
		out[l] = f[l] * scale
	}
}
