// Package closures models the interfacial exchange between the two phases:
// drag on the momenta and relaxation of the phase pressures toward
// equilibrium. There is no interfacial mass transfer, so the volume fraction
// evolves purely by advection plus the pressure relaxation source.
package closures

import (
	"math"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/state"
)

// Sources are the per-cell interfacial source terms, per unit volume.
// VF feeds the volume fraction equation, Momentum and Energy the per-phase
// momentum and energy residuals. Momentum[0]+Momentum[1] == 0 always.
type Sources struct {
	VF       float64
	Momentum [2]float64
	Energy   [2]float64
}

// Model holds the interfacial closure parameters. tau is the designed
// stiffness of the system: as tau approaches the time step the relaxation
// source dominates the Jacobian diagonal.
type Model struct {
	Chi float64 // drag coefficient in [0,1], 0 disables drag
	Tau float64 // pressure relaxation time, > 0
}

func NewModel(p InputParameters.ClosureParameters) (*Model, error) {
	if p.Chi < 0 || p.Chi > 1 {
		return nil, InputParameters.ConfigErrorf("InterfaceClosures",
			"chi must lie in [0,1], got %g", p.Chi)
	}
	if p.PressureRelaxationTime <= 0 {
		return nil, InputParameters.ConfigErrorf("InterfaceClosures",
			"pressure_relaxation_time must be positive, got %g", p.PressureRelaxationTime)
	}
	return &Model{Chi: p.Chi, Tau: p.PressureRelaxationTime}, nil
}

// Compute evaluates the interfacial sources for one cell.
func (m *Model) Compute(p state.CellPrimitives) (s Sources) {
	var (
		a1, a2 = p.VF[0], p.VF[1]
		du     = p.Vel[0] - p.Vel[1]
		uInt   = p.InterfaceVelocity()
		pInt   = p.InterfacePressure()
	)

	// Pressure relaxation: d(vf1)/dt = (a1 a2 / tau) (p1-p2)/(p1+p2).
	// The pressure-sum normalization keeps the rate dimensionally 1/time and
	// bounded for any admissible state.
	relax := a1 * a2 / m.Tau * (p.P[0] - p.P[1]) / (p.P[0] + p.P[1])
	s.VF = relax

	// Quadratic interfacial drag on the relative velocity. The coefficient
	// carries no density factor: the drag must stay small next to the dense
	// phase momentum so the light phase can slip past the liquid column.
	drag := m.Chi * a1 * a2 * du * math.Abs(du)
	s.Momentum[0] = -drag
	s.Momentum[1] = drag

	// Work done by drag at the interface, plus compaction work exchanged by
	// the relaxing interface pressure.
	s.Energy[0] = uInt*s.Momentum[0] - pInt*relax
	s.Energy[1] = uInt*s.Momentum[1] + pInt*relax
	return
}
