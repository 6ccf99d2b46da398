package ecpint

import (
	"runtime"

	"gonum.org/v1/gonum/mat"

	"github.com/realJohnLock/molecular/basis"
)

// Engine evaluates the ECP contribution to the one-electron Hamiltonian for a
// whole shell list. Shell pairs are independent given per-pair grid copies,
// which the radial engine already makes, so the pairs fan out across workers.
type Engine struct {
	// MaxWorkers bounds the number of concurrent shell-pair evaluations;
	// zero or negative means GOMAXPROCS.
	MaxWorkers int
}

type pairResult struct {
	i, j      int
	block     *mat.Dense
	converged bool
}

// Matrix computes the full ECP matrix over the Cartesian components of the
// given shells for a potential centered at ecpCenter. Rows and columns follow
// the shells in order, each contributing NCartesian entries. The second
// return value counts shell pairs whose radial quadrature did not fully
// converge; their best-effort blocks are included regardless.
func (e *Engine) Matrix(u basis.ECP, ecpCenter [3]float64, shells []*basis.GaussianShell) (*mat.Dense, int) {
	offsets := make([]int, len(shells)+1)
	for i, s := range shells {
		offsets[i+1] = offsets[i] + s.NCartesian()
	}
	total := offsets[len(shells)]
	if total == 0 {
		return &mat.Dense{}, 0
	}
	result := mat.NewDense(total, total, nil)

	maxWorkers := e.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(-1)
	}
	guard := make(chan struct{}, maxWorkers)
	results := make(chan pairResult)

	npairs := 0
	go func() {
		for i := range shells {
			for j := 0; j <= i; j++ {
				guard <- struct{}{}
				go func(i, j int) {
					var ecp ECPIntegral
					a := relative(shells[i].Center, ecpCenter)
					b := relative(shells[j].Center, ecpCenter)
					block, ok := ecp.Type1(u, shells[i], shells[j], a, b)
					results <- pairResult{i: i, j: j, block: block, converged: ok}
					<-guard
				}(i, j)
			}
		}
	}()
	for i := range shells {
		npairs += i + 1
	}

	failures := 0
	for n := 0; n < npairs; n++ {
		res := <-results
		if !res.converged {
			failures++
		}
		ri, rj := offsets[res.i], offsets[res.j]
		rows, cols := res.block.Dims()
		for di := 0; di < rows; di++ {
			for dj := 0; dj < cols; dj++ {
				v := res.block.At(di, dj)
				result.Set(ri+di, rj+dj, v)
				result.Set(rj+dj, ri+di, v)
			}
		}
	}

	return result, failures
}

func relative(center, origin [3]float64) [3]float64 {
	return [3]float64{center[0] - origin[0], center[1] - origin[1], center[2] - origin[2]}
}
