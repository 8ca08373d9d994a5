// Package assembly discretizes the two-fluid system on the finite volume
// mesh: per-cell residuals of the implicit Euler step and the block
// tridiagonal Jacobian obtained by finite differencing. Assembly is a pure
// function of the input state and is parallelized across cells.
package assembly

import (
	"runtime"
	"sync"

	"github.com/joshuahansel/sem-go/bcs"
	"github.com/joshuahansel/sem-go/closures"
	"github.com/joshuahansel/sem-go/eos"
	"github.com/joshuahansel/sem-go/mesh"
	"github.com/joshuahansel/sem-go/state"
)

// Assembler owns read-only references to the run context. Safe for concurrent
// use from any number of workers.
type Assembler struct {
	Mesh       *mesh.Mesh1D
	EoS        [2]eos.EquationOfState
	Closures   *closures.Model
	BCs        *bcs.Set
	Gravity    float64
	Dt         float64
	NumWorkers int
}

func NewAssembler(m *mesh.Mesh1D, es [2]eos.EquationOfState, cl *closures.Model,
	bcSet *bcs.Set, gravity, dt float64) *Assembler {
	return &Assembler{
		Mesh:       m,
		EoS:        es,
		Closures:   cl,
		BCs:        bcSet,
		Gravity:    gravity,
		Dt:         dt,
		NumWorkers: runtime.NumCPU(),
	}
}

// cellRanges splits [0,n) into contiguous worker chunks.
func cellRanges(n, workers int) (r [][2]int) {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := n / workers
	rem := n % workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + chunk
		if w < rem {
			hi++
		}
		r = append(r, [2]int{lo, hi})
		lo = hi
	}
	return
}

// Primitives recovers the per-cell primitive states of a global vector,
// in parallel. The first nonphysical cell aborts the recovery.
func (a *Assembler) Primitives(u []float64) ([]state.CellPrimitives, error) {
	n := state.NumCells(u)
	prims := make([]state.CellPrimitives, n)
	ranges := cellRanges(n, a.NumWorkers)
	errs := make([]error, len(ranges))
	var wg sync.WaitGroup
	for w, rg := range ranges {
		wg.Add(1)
		go func(w int, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				p, err := state.RecoverCell(state.Cell(u, i), a.EoS, i)
				if err != nil {
					errs[w] = err
					return
				}
				prims[i] = p
			}
		}(w, rg[0], rg[1])
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return prims, nil
}

const noOverride = -1

// lookup returns an accessor over cell primitives that substitutes one
// perturbed cell and constructs boundary ghosts on demand. Ghosts track the
// (possibly perturbed) adjacent interior cell, so the boundary residuals see
// the correct coupling.
func (a *Assembler) lookup(prims []state.CellPrimitives, override int,
	po state.CellPrimitives) func(int) state.CellPrimitives {
	n := len(prims)
	interior := func(j int) state.CellPrimitives {
		if j == override {
			return po
		}
		return prims[j]
	}
	return func(j int) state.CellPrimitives {
		switch {
		case j < 0:
			return a.BCs.Ghost(mesh.Left, interior(0))
		case j >= n:
			return a.BCs.Ghost(mesh.Right, interior(n-1))
		default:
			return interior(j)
		}
	}
}

// residualCell evaluates the 7 residual components of cell i:
// R = U - U_prev + (dt/dx)(F_right - F_left) - dt S.
func (a *Assembler) residualCell(i int, prim func(int) state.CellPrimitives,
	ucPrev []float64) (r [state.NumEq]float64) {
	var (
		dt  = a.Dt
		dx  = a.Mesh.Width(i)
		lam = dt / dx
		pL  = prim(i - 1)
		pC  = prim(i)
		pR  = prim(i + 1)
	)
	ucC := pC.Conserved()
	fL := rusanovFlux(pL, pC)
	fR := rusanovFlux(pC, pR)
	src := a.Closures.Compute(pC)

	// Volume fraction: advected by the interfacial velocity (upwinded),
	// sourced by pressure relaxation.
	uInt := pC.InterfaceVelocity()
	var grad float64
	if uInt >= 0 {
		grad = (pC.VF[0] - pL.VF[0]) / dx
	} else {
		grad = (pR.VF[0] - pC.VF[0]) / dx
	}
	r[state.IAA1] = ucC[state.IAA1] - ucPrev[state.IAA1] + dt*(uInt*grad-src.VF)

	// Central vf1 gradient feeds the non-conservative interface pressure
	// terms of both phases (grad vf2 = -grad vf1).
	gradVF1 := (pR.VF[0] - pL.VF[0]) / (2 * dx)
	pInt := pC.InterfacePressure()

	offsets := [2]int{state.IARhoA1, state.IARhoA2}
	signs := [2]float64{1, -1}
	for k := 0; k < state.NumPhases; k++ {
		var (
			o      = offsets[k]
			arho   = pC.VF[k] * pC.Rho[k]
			gradVF = signs[k] * gradVF1
		)
		r[o] = ucC[o] - ucPrev[o] + lam*(fR[k][0]-fL[k][0])

		sMom := pInt*gradVF + arho*a.Gravity + src.Momentum[k]
		r[o+1] = ucC[o+1] - ucPrev[o+1] + lam*(fR[k][1]-fL[k][1]) - dt*sMom

		sEn := pInt*uInt*gradVF + arho*pC.Vel[k]*a.Gravity + src.Energy[k]
		r[o+2] = ucC[o+2] - ucPrev[o+2] + lam*(fR[k][2]-fL[k][2]) - dt*sEn
	}
	return
}

// Residual assembles the raw (unscaled) residual vector in parallel.
func (a *Assembler) Residual(u, uPrev []float64, prims []state.CellPrimitives) []float64 {
	n := len(prims)
	r := make([]float64, n*state.NumEq)
	prim := a.lookup(prims, noOverride, state.CellPrimitives{})
	ranges := cellRanges(n, a.NumWorkers)
	var wg sync.WaitGroup
	for _, rg := range ranges {
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				ri := a.residualCell(i, prim, state.Cell(uPrev, i))
				copy(state.Cell(r, i), ri[:])
			}
		}(rg[0], rg[1])
	}
	wg.Wait()
	return r
}

// Snapshot exposes the read-only per-step view of a state vector.
func (a *Assembler) Snapshot(u []float64, time float64, step int) (state.Snapshot, error) {
	prims, err := a.Primitives(u)
	if err != nil {
		return state.Snapshot{}, err
	}
	return state.NewSnapshot(time, step, a.Mesh.Centroids(), prims), nil
}
