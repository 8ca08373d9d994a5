// Package executioners drives the transient solve: the implicit Euler time
// loop owning the global state vector and delegating each step to the
// nonlinear solver.
package executioners

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/solvers"
	"github.com/joshuahansel/sem-go/state"
)

type Phase int

const (
	Initializing Phase = iota
	Stepping
	Converged
	Failed
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "Initializing"
	case Stepping:
		return "Stepping"
	case Converged:
		return "Converged"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Problem is what the executioner needs from the spatial discretization: a
// nonlinear system per time step and a read-only snapshot of any state.
type Problem interface {
	Step(uPrev []float64) solvers.System
	Snapshot(u []float64, time float64, step int) (state.Snapshot, error)
}

// Observer receives the snapshot of every committed step.
type Observer func(state.Snapshot)

const logFrequency = 50

// ImplicitEuler advances the conserved vector with fixed time steps until
// end_time, committing each step only after the Newton solve converges. The
// conserved vector is owned exclusively by the executioner and mutated only
// through a committed update.
type ImplicitEuler struct {
	problem   Problem
	solver    *solvers.Newton
	dt        float64
	endTime   float64
	u         []float64
	time      float64
	step      int
	phase     Phase
	observers []Observer

	// diagnostics of the most recent step
	LastIterations   int
	LastResidualNorm float64
}

func NewImplicitEuler(p InputParameters.ExecutionerParameters, prob Problem,
	solver *solvers.Newton, u0 []float64) *ImplicitEuler {
	return &ImplicitEuler{
		problem: prob,
		solver:  solver,
		dt:      p.Dt,
		endTime: p.EndTime,
		u:       append([]float64(nil), u0...),
		phase:   Initializing,
	}
}

func (ex *ImplicitEuler) AddObserver(obs Observer) {
	ex.observers = append(ex.observers, obs)
}

func (ex *ImplicitEuler) Phase() Phase { return ex.phase }

func (ex *ImplicitEuler) CurrentTime() float64 { return ex.time }

func (ex *ImplicitEuler) StepIndex() int { return ex.step }

// Solution returns a copy of the committed conserved vector.
func (ex *ImplicitEuler) Solution() []float64 {
	return append([]float64(nil), ex.u...)
}

// Run executes the time loop to completion. A nonlinear solve failure is
// terminal: the executioner transitions to Failed and stops advancing.
func (ex *ImplicitEuler) Run() error {
	ex.phase = Stepping
	ex.time = 0
	ex.step = 0
	nSteps := int(math.Ceil(ex.endTime/ex.dt - 1e-9))
	for n := 0; n < nSteps; n++ {
		sys := ex.problem.Step(ex.u)
		uNew, iters, rnorm, err := ex.solver.Solve(sys, ex.u)
		ex.LastIterations = iters
		ex.LastResidualNorm = rnorm
		if err != nil {
			ex.phase = Failed
			logrus.Errorf("step %d (t = %g) failed: %v", ex.step+1, ex.time+ex.dt, err)
			return fmt.Errorf("step %d: %w", ex.step+1, err)
		}
		ex.u = uNew
		ex.time += ex.dt
		ex.step++
		if err := ex.publish(); err != nil {
			ex.phase = Failed
			return fmt.Errorf("step %d: %w", ex.step, err)
		}
		if ex.step%logFrequency == 0 || n == nSteps-1 {
			logrus.Infof("step %4d: t = %8.4f, newton iterations = %d, |R| = %.3e",
				ex.step, ex.time, iters, rnorm)
		}
	}
	ex.phase = Converged
	return nil
}

func (ex *ImplicitEuler) publish() error {
	if len(ex.observers) == 0 {
		return nil
	}
	snap, err := ex.problem.Snapshot(ex.u, ex.time, ex.step)
	if err != nil {
		return err
	}
	for _, obs := range ex.observers {
		obs(snap)
	}
	return nil
}
