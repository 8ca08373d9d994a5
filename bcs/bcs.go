// Package bcs resolves the deck's boundary condition blocks into a per
// boundary, per phase assignment and constructs the exterior ghost states
// used by the flux computation at the two boundary faces.
package bcs

import (
	"fmt"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/eos"
	"github.com/joshuahansel/sem-go/mesh"
	"github.com/joshuahansel/sem-go/state"
)

// BCError reports a missing or conflicting boundary condition assignment.
// Raised at setup, never at run time.
type BCError struct {
	Block  string
	Reason string
}

func (e *BCError) Error() string {
	if e.Block == "" {
		return fmt.Sprintf("boundary condition error: %s", e.Reason)
	}
	return fmt.Sprintf("boundary condition error in block %q: %s", e.Block, e.Reason)
}

func bcErrorf(block, format string, args ...interface{}) error {
	return &BCError{Block: block, Reason: fmt.Sprintf(format, args...)}
}

type Kind int

const (
	DirichletVolumeFraction Kind = iota
	InletRhoU
	OutletPressure
	SolidWall
)

// phaseBC is the resolved condition for one (boundary, phase) pair.
type phaseBC struct {
	kind  Kind
	block string
	rho   float64 // InletRhoU
	u     float64 // InletRhoU
	p     float64 // OutletPressure
}

type boundarySpec struct {
	vf1      *float64 // Dirichlet volume fraction, optional
	vf1Block string
	phase    [state.NumPhases]*phaseBC
}

// Set is the complete, validated boundary condition assignment of a run.
// Immutable after construction; safe for concurrent reads.
type Set struct {
	spec map[mesh.Boundary]*boundarySpec
	es   [2]eos.EquationOfState
}

// NewSet resolves the named deck blocks into a Set, failing with a BCError if
// any (boundary, phase) pair is left unassigned or assigned twice.
func NewSet(blocks map[string]InputParameters.BCParameters, es [2]eos.EquationOfState) (*Set, error) {
	s := &Set{
		spec: map[mesh.Boundary]*boundarySpec{
			mesh.Left:  {},
			mesh.Right: {},
		},
		es: es,
	}
	for name, b := range blocks {
		boundary := mesh.Boundary(b.Boundary)
		spec, ok := s.spec[boundary]
		if !ok {
			return nil, bcErrorf(name, "unknown boundary %q", b.Boundary)
		}
		switch b.Type {
		case "DirichletVolumeFractionBC":
			if b.VF1 < 0 || b.VF1 > 1 {
				return nil, bcErrorf(name, "vf1 must lie in [0,1], got %g", b.VF1)
			}
			if spec.vf1 != nil {
				return nil, bcErrorf(name, "volume fraction on boundary %q already set by block %q",
					b.Boundary, spec.vf1Block)
			}
			vf := b.VF1
			spec.vf1 = &vf
			spec.vf1Block = name
		case "InletRhoUBC", "OutletBC", "SolidWallBC":
			k, err := phaseIndex(name, b.Phase)
			if err != nil {
				return nil, err
			}
			if prev := spec.phase[k]; prev != nil {
				return nil, bcErrorf(name, "phase %d on boundary %q already set by block %q",
					b.Phase, b.Boundary, prev.block)
			}
			pb := &phaseBC{block: name}
			switch b.Type {
			case "InletRhoUBC":
				if b.Rho <= 0 {
					return nil, bcErrorf(name, "inlet rho must be positive, got %g", b.Rho)
				}
				pb.kind = InletRhoU
				pb.rho = b.Rho
				pb.u = b.U
			case "OutletBC":
				if b.P <= 0 {
					return nil, bcErrorf(name, "outlet p must be positive, got %g", b.P)
				}
				pb.kind = OutletPressure
				pb.p = b.P
			case "SolidWallBC":
				pb.kind = SolidWall
			}
			spec.phase[k] = pb
		default:
			return nil, bcErrorf(name, "unknown BC type %q", b.Type)
		}
	}
	// every boundary/phase pair needs exactly one condition
	for _, boundary := range []mesh.Boundary{mesh.Left, mesh.Right} {
		for k := 0; k < state.NumPhases; k++ {
			if s.spec[boundary].phase[k] == nil {
				return nil, bcErrorf("", "no condition assigned to boundary %q, phase %d",
					boundary, k+1)
			}
		}
	}
	return s, nil
}

func phaseIndex(block string, phase int) (int, error) {
	if phase != 1 && phase != 2 {
		return 0, bcErrorf(block, "phase must be 1 or 2, got %d", phase)
	}
	return phase - 1, nil
}

// Ghost constructs the exterior state at a boundary face from the adjacent
// interior cell. Fields not pinned by the condition are extrapolated with
// zero gradient from the interior.
func (s *Set) Ghost(b mesh.Boundary, interior state.CellPrimitives) (g state.CellPrimitives) {
	spec := s.spec[b]
	g = interior
	if spec.vf1 != nil {
		g.VF[0] = *spec.vf1
		g.VF[1] = 1 - *spec.vf1
	}
	for k := 0; k < state.NumPhases; k++ {
		pb := spec.phase[k]
		switch pb.kind {
		case InletRhoU:
			g.Rho[k] = pb.rho
			g.Vel[k] = pb.u
			g.P[k] = interior.P[k]
		case OutletPressure:
			g.P[k] = pb.p
			g.Rho[k] = interior.Rho[k]
			g.Vel[k] = interior.Vel[k]
		case SolidWall:
			g.Rho[k] = interior.Rho[k]
			g.P[k] = interior.P[k]
			g.Vel[k] = -interior.Vel[k]
		}
		g.E[k] = s.es[k].InternalEnergy(g.Rho[k], g.P[k])
		g.Etot[k] = g.E[k] + 0.5*g.Vel[k]*g.Vel[k]
		g.C[k] = s.es[k].SoundSpeed(g.Rho[k], g.P[k])
	}
	return
}
