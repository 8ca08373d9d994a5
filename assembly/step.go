package assembly

import (
	"github.com/joshuahansel/sem-go/solvers"
	"github.com/joshuahansel/sem-go/state"
)

// Step is the nonlinear system of one implicit Euler time step, frozen at a
// previous-state vector. Residual rows are scaled by the per-variable
// magnitude of the previous state so that a single absolute tolerance is
// meaningful across equations whose natural scales differ by many orders.
type Step struct {
	asm      *Assembler
	uPrev    []float64
	invScale [state.NumEq]float64
}

// Step captures uPrev as an exclusively borrowed working basis for one time
// step; the returned system never mutates it.
func (a *Assembler) Step(uPrev []float64) solvers.System {
	st := &Step{asm: a, uPrev: uPrev}
	scale := varScales(uPrev)
	for v := range scale {
		st.invScale[v] = 1 / scale[v]
	}
	return st
}

func (st *Step) Residual(u []float64) ([]float64, error) {
	prims, err := st.asm.Primitives(u)
	if err != nil {
		return nil, err
	}
	r := st.asm.Residual(u, st.uPrev, prims)
	n := len(prims)
	for i := 0; i < n; i++ {
		ri := state.Cell(r, i)
		for v := 0; v < state.NumEq; v++ {
			ri[v] *= st.invScale[v]
		}
	}
	return r, nil
}

func (st *Step) Jacobian(u []float64) (*solvers.BlockTri, error) {
	prims, err := st.asm.Primitives(u)
	if err != nil {
		return nil, err
	}
	r0 := st.asm.Residual(u, st.uPrev, prims)
	J, err := st.asm.Jacobian(u, st.uPrev, prims, r0)
	if err != nil {
		return nil, err
	}
	J.ScaleRows(st.invScale[:])
	return J, nil
}
