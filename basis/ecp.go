package basis

import "math"

// ECP is a semi-local effective core potential: a radial function per angular
// momentum channel, with a declared maximum channel. Evaluate must accept any
// r >= 0 and any l in [0, MaxL()].
type ECP interface {
	Evaluate(r float64, l int) float64
	MaxL() int
}

// FuncECP adapts a plain function to the ECP interface.
type FuncECP struct {
	F func(r float64, l int) float64
	L int
}

func (u FuncECP) Evaluate(r float64, l int) float64 { return u.F(r, l) }
func (u FuncECP) MaxL() int                         { return u.L }

// ecpTerm is one primitive d * r^n * exp(-zeta r^2) of a channel expansion.
type ecpTerm struct {
	n    int
	zeta float64
	d    float64
}

// GaussianECP is the standard published ECP form: each channel l expands as
//
//	U_l(r) = sum_k d_k r^{n_k} exp(-zeta_k r^2).
type GaussianECP struct {
	channels [][]ecpTerm
}

// NewGaussianECP allocates an ECP with channels 0..maxL, all initially zero.
func NewGaussianECP(maxL int) *GaussianECP {
	return &GaussianECP{channels: make([][]ecpTerm, maxL+1)}
}

// AddPrimitive appends the term d * r^n * exp(-zeta r^2) to channel l.
// Channels outside [0, MaxL()] are a caller bug and panic via the slice index.
func (u *GaussianECP) AddPrimitive(l, n int, zeta, d float64) {
	u.channels[l] = append(u.channels[l], ecpTerm{n: n, zeta: zeta, d: d})
}

// Evaluate returns U_l(r).
func (u *GaussianECP) Evaluate(r float64, l int) float64 {
	value := 0.0
	for _, t := range u.channels[l] {
		value += t.d * math.Pow(r, float64(t.n)) * math.Exp(-t.zeta*r*r)
	}
	return value
}

// MaxL returns the highest angular momentum channel.
func (u *GaussianECP) MaxL() int { return len(u.channels) - 1 }
