// Package problem assembles a validated input deck into the immutable run
// context (mesh, equations of state, closures, boundary conditions) and the
// executioner that advances it.
package problem

import (
	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/assembly"
	"github.com/joshuahansel/sem-go/bcs"
	"github.com/joshuahansel/sem-go/closures"
	"github.com/joshuahansel/sem-go/eos"
	"github.com/joshuahansel/sem-go/executioners"
	"github.com/joshuahansel/sem-go/mesh"
	"github.com/joshuahansel/sem-go/solvers"
	"github.com/joshuahansel/sem-go/state"
)

// Problem is the fully constructed run: every component is immutable for the
// duration of the run except the conserved vector owned by the executioner.
type Problem struct {
	Params      *InputParameters.Parameters
	Mesh        *mesh.Mesh1D
	EoS         [2]eos.EquationOfState
	Closures    *closures.Model
	BCs         *bcs.Set
	Assembler   *assembly.Assembler
	Solver      *solvers.Newton
	Executioner *executioners.ImplicitEuler
}

// Build validates the deck and constructs all components. Any configuration
// or boundary condition error is fatal and aborts before stepping.
func Build(p *InputParameters.Parameters) (*Problem, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m, err := mesh.NewMesh1D(p.Mesh)
	if err != nil {
		return nil, err
	}
	liquid, err := eos.New(p.EoS.Liquid)
	if err != nil {
		return nil, err
	}
	vapor, err := eos.New(p.EoS.Vapor)
	if err != nil {
		return nil, err
	}
	es := [2]eos.EquationOfState{liquid, vapor}
	cl, err := closures.NewModel(p.InterfaceClosures)
	if err != nil {
		return nil, err
	}
	bcSet, err := bcs.NewSet(p.BC, es)
	if err != nil {
		return nil, err
	}
	asm := assembly.NewAssembler(m, es, cl, bcSet, p.Physics.Gravity, p.Executioner.Dt)
	solver := solvers.NewNewton(p.NonlinearSolver)
	u0 := InitialCondition(p.IC, m, es)
	ex := executioners.NewImplicitEuler(p.Executioner, asm, solver, u0)
	return &Problem{
		Params:      p,
		Mesh:        m,
		EoS:         es,
		Closures:    cl,
		BCs:         bcSet,
		Assembler:   asm,
		Solver:      solver,
		Executioner: ex,
	}, nil
}

// InitialCondition expands the uniform IC block into the global conserved
// vector.
func InitialCondition(ic InputParameters.ICParameters, m *mesh.Mesh1D,
	es [2]eos.EquationOfState) []float64 {
	var p state.CellPrimitives
	p.VF = [2]float64{ic.VF1, 1 - ic.VF1}
	p.Rho = [2]float64{ic.Rho1, ic.Rho2}
	p.Vel = [2]float64{ic.U1, ic.U2}
	p.P = [2]float64{ic.P1, ic.P2}
	for k := 0; k < state.NumPhases; k++ {
		p.E[k] = es[k].InternalEnergy(p.Rho[k], p.P[k])
		p.Etot[k] = p.E[k] + 0.5*p.Vel[k]*p.Vel[k]
		p.C[k] = es[k].SoundSpeed(p.Rho[k], p.P[k])
	}
	uc := p.Conserved()
	u := make([]float64, m.NCell*state.NumEq)
	for i := 0; i < m.NCell; i++ {
		copy(state.Cell(u, i), uc[:])
	}
	return u
}
