// Package state defines the conserved unknown layout of the two-fluid system,
// recovery of primitive quantities through the equations of state, and the
// read-only solution snapshot handed to output collaborators.
package state

import (
	"fmt"

	"github.com/joshuahansel/sem-go/eos"
)

// Per-cell unknown ordering, following the sem_python variable naming:
// aA1 is the phase 1 volume fraction, arhoA/arhouA/arhoEA are the volume
// fraction weighted density, momentum and total energy of each phase.
const (
	IAA1 = iota
	IARhoA1
	IARhoUA1
	IARhoEA1
	IARhoA2
	IARhoUA2
	IARhoEA2
	NumEq
)

// NumPhases is fixed: the model couples exactly a liquid and a vapor phase.
const NumPhases = 2

// NonphysicalStateError indicates a state with density <= 0, pressure <= 0 or
// a volume fraction outside [0,1]. The nonlinear solver treats it as a failed
// iteration, not a crash.
type NonphysicalStateError struct {
	Cell     int
	Quantity string
	Value    float64
}

func (e *NonphysicalStateError) Error() string {
	return fmt.Sprintf("nonphysical state in cell %d: %s = %g", e.Cell, e.Quantity, e.Value)
}

// CellPrimitives carries the per-phase primitive quantities of one cell.
// Index 0 is the liquid phase, index 1 the vapor phase.
type CellPrimitives struct {
	VF   [2]float64 // volume fractions, VF[0]+VF[1] == 1
	Rho  [2]float64
	Vel  [2]float64
	E    [2]float64 // specific internal energy
	Etot [2]float64 // specific total energy
	P    [2]float64
	C    [2]float64 // sound speed
}

// Cell returns the 7-unknown subvector of cell i within the global vector.
func Cell(u []float64, i int) []float64 {
	return u[i*NumEq : (i+1)*NumEq]
}

// NumCells returns the cell count implied by a global vector length.
func NumCells(u []float64) int {
	return len(u) / NumEq
}

// RecoverCell converts one cell's conserved unknowns to primitives, checking
// physical admissibility. The cell index is only used for error reporting.
func RecoverCell(uc []float64, es [2]eos.EquationOfState, cell int) (p CellPrimitives, err error) {
	a1 := uc[IAA1]
	if a1 < 0 || a1 > 1 {
		return p, &NonphysicalStateError{Cell: cell, Quantity: "vf1", Value: a1}
	}
	p.VF[0] = a1
	p.VF[1] = 1 - a1
	offsets := [2]int{IARhoA1, IARhoA2}
	for k := 0; k < NumPhases; k++ {
		arho := uc[offsets[k]]
		arhou := uc[offsets[k]+1]
		arhoE := uc[offsets[k]+2]
		if arho <= 0 {
			return p, &NonphysicalStateError{Cell: cell, Quantity: fmt.Sprintf("arho%d", k+1), Value: arho}
		}
		vf := p.VF[k]
		if vf <= 0 {
			// phase vanished entirely; density is undefined
			return p, &NonphysicalStateError{Cell: cell, Quantity: fmt.Sprintf("vf%d", k+1), Value: vf}
		}
		p.Rho[k] = arho / vf
		p.Vel[k] = arhou / arho
		p.Etot[k] = arhoE / arho
		p.E[k] = p.Etot[k] - 0.5*p.Vel[k]*p.Vel[k]
		p.P[k] = es[k].Pressure(p.Rho[k], p.E[k])
		if p.P[k] <= 0 {
			return p, &NonphysicalStateError{Cell: cell, Quantity: fmt.Sprintf("p%d", k+1), Value: p.P[k]}
		}
		p.C[k] = es[k].SoundSpeed(p.Rho[k], p.P[k])
	}
	return p, nil
}

// Conserved converts primitives back to the 7-unknown conserved form.
func (p CellPrimitives) Conserved() (uc [NumEq]float64) {
	uc[IAA1] = p.VF[0]
	offsets := [2]int{IARhoA1, IARhoA2}
	for k := 0; k < NumPhases; k++ {
		arho := p.VF[k] * p.Rho[k]
		uc[offsets[k]] = arho
		uc[offsets[k]+1] = arho * p.Vel[k]
		uc[offsets[k]+2] = arho * p.Etot[k]
	}
	return
}

// MixtureDensity is the volume fraction weighted total density.
func (p CellPrimitives) MixtureDensity() float64 {
	return p.VF[0]*p.Rho[0] + p.VF[1]*p.Rho[1]
}

// InterfaceVelocity is the mass-weighted mixture velocity used to advect the
// volume fraction.
func (p CellPrimitives) InterfaceVelocity() float64 {
	m0 := p.VF[0] * p.Rho[0]
	m1 := p.VF[1] * p.Rho[1]
	return (m0*p.Vel[0] + m1*p.Vel[1]) / (m0 + m1)
}

// InterfacePressure is the volume fraction weighted pressure at the phase
// interface.
func (p CellPrimitives) InterfacePressure() float64 {
	return p.VF[0]*p.P[0] + p.VF[1]*p.P[1]
}

// Snapshot is the read-only per-step view consumed by output collaborators.
type Snapshot struct {
	Time float64
	Step int
	X    []float64
	VF1  []float64
	Rho1 []float64
	U1   []float64
	P1   []float64
	Rho2 []float64
	U2   []float64
	P2   []float64
}

func NewSnapshot(time float64, step int, x []float64, prims []CellPrimitives) Snapshot {
	n := len(prims)
	s := Snapshot{
		Time: time, Step: step,
		X:    x,
		VF1:  make([]float64, n),
		Rho1: make([]float64, n),
		U1:   make([]float64, n),
		P1:   make([]float64, n),
		Rho2: make([]float64, n),
		U2:   make([]float64, n),
		P2:   make([]float64, n),
	}
	for i, p := range prims {
		s.VF1[i] = p.VF[0]
		s.Rho1[i] = p.Rho[0]
		s.U1[i] = p.Vel[0]
		s.P1[i] = p.P[0]
		s.Rho2[i] = p.Rho[1]
		s.U2[i] = p.Vel[1]
		s.P2[i] = p.P[1]
	}
	return s
}
