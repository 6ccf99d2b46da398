// Package basis defines the inputs the integral engines consume: contracted
// Cartesian Gaussian shells and semi-local effective core potentials.
package basis

import "fmt"

// GaussianShell is a set of primitive Gaussians sharing one angular momentum
// and one center, contracted into a basis function. The engines read shells
// but never mutate them.
type GaussianShell struct {
	Exps   []float64  // primitive exponents
	Coefs  []float64  // contraction coefficients
	L      int        // total angular momentum
	Center [3]float64 // position, usually in bohr
}

// NewGaussianShell allocates an empty shell of angular momentum l at center.
func NewGaussianShell(l int, center [3]float64) (*GaussianShell, error) {
	if l < 0 {
		return nil, fmt.Errorf("basis: negative angular momentum %d", l)
	}
	return &GaussianShell{L: l, Center: center}, nil
}

// AddPrimitive appends one primitive (exponent, contraction coefficient).
func (s *GaussianShell) AddPrimitive(exp, coef float64) {
	s.Exps = append(s.Exps, exp)
	s.Coefs = append(s.Coefs, coef)
}

// NPrimitive returns the number of primitives in the contraction.
func (s *GaussianShell) NPrimitive() int { return len(s.Exps) }

// NCartesian returns the number of Cartesian monomials x^a y^b z^c with
// a+b+c = L, which is (L+1)(L+2)/2.
func (s *GaussianShell) NCartesian() int { return (s.L + 1) * (s.L + 2) / 2 }
