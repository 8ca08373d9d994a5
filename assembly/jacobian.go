package assembly

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/joshuahansel/sem-go/solvers"
	"github.com/joshuahansel/sem-go/state"
)

// Finite difference perturbation: relative in the unknown plus an absolute
// component tied to the variable's global magnitude, so that unknowns passing
// through zero (e.g. a stagnant phase momentum) still get a usable step.
const (
	fdRel = 1.0e-7
	fdAbs = 1.0e-9
)

// varScales returns the per-variable magnitude max_i |u_i,v|, floored at one.
func varScales(u []float64) (scale [state.NumEq]float64) {
	n := state.NumCells(u)
	for i := 0; i < n; i++ {
		uc := state.Cell(u, i)
		for v := 0; v < state.NumEq; v++ {
			if a := math.Abs(uc[v]); a > scale[v] {
				scale[v] = a
			}
		}
	}
	for v := range scale {
		if scale[v] < 1 {
			scale[v] = 1
		}
	}
	return
}

// Jacobian assembles dR/dU by forward-differencing the local cell residuals.
// Perturbing cell j touches only the residuals of cells j-1, j and j+1, so
// the result is exactly block tridiagonal; each (perturbed cell, residual
// cell) pair maps to a single block, which keeps the parallel fill free of
// write conflicts.
func (a *Assembler) Jacobian(u, uPrev []float64, prims []state.CellPrimitives,
	r0 []float64) (*solvers.BlockTri, error) {
	var (
		n      = len(prims)
		J      = solvers.NewBlockTri(n, state.NumEq)
		scale  = varScales(u)
		ranges = cellRanges(n, a.NumWorkers)
		errs   = make([]error, len(ranges))
		wg     sync.WaitGroup
	)
	for w, rg := range ranges {
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			uc := make([]float64, state.NumEq)
			for j := lo; j < hi; j++ {
				for v := 0; v < state.NumEq; v++ {
					copy(uc, state.Cell(u, j))
					h := fdRel*math.Abs(uc[v]) + fdAbs*scale[v]
					uc[v] += h
					pj, err := state.RecoverCell(uc, a.EoS, j)
					if err != nil {
						errs[w] = err
						return
					}
					prim := a.lookup(prims, j, pj)
					for i := j - 1; i <= j+1; i++ {
						if i < 0 || i >= n {
							continue
						}
						ri := a.residualCell(i, prim, state.Cell(uPrev, i))
						r0i := state.Cell(r0, i)
						var blk *mat.Dense
						switch {
						case i == j:
							blk = J.B[i]
						case i == j-1:
							blk = J.C[i] // dR_{j-1}/dU_j
						default:
							blk = J.A[i] // dR_{j+1}/dU_j
						}
						for row := 0; row < state.NumEq; row++ {
							blk.Set(row, v, (ri[row]-r0i[row])/h)
						}
					}
				}
			}
		}(w, rg[0], rg[1])
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return J, nil
}
