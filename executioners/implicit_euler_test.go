package executioners

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/solvers"
	"github.com/joshuahansel/sem-go/state"
)

// decayProblem is implicit Euler applied to du/dt = -u, a linear system the
// Newton solver finishes in a single iteration: R = u - uPrev + dt u.
type decayProblem struct {
	dt float64
}

type decayStep struct {
	dt    float64
	uPrev []float64
}

func (p *decayProblem) Step(uPrev []float64) solvers.System {
	return &decayStep{dt: p.dt, uPrev: uPrev}
}

func (p *decayProblem) Snapshot(u []float64, time float64, step int) (state.Snapshot, error) {
	s := state.Snapshot{Time: time, Step: step, X: make([]float64, len(u)), VF1: append([]float64(nil), u...)}
	for i := range s.X {
		s.X[i] = float64(i)
	}
	return s, nil
}

func (st *decayStep) Residual(u []float64) ([]float64, error) {
	r := make([]float64, len(u))
	for i := range u {
		r[i] = u[i] - st.uPrev[i] + st.dt*u[i]
	}
	return r, nil
}

func (st *decayStep) Jacobian(u []float64) (*solvers.BlockTri, error) {
	J := solvers.NewBlockTri(len(u), 1)
	for i := range u {
		J.B[i].Set(0, 0, 1+st.dt)
	}
	return J, nil
}

// brokenProblem fails every residual evaluation.
type brokenProblem struct{}

type brokenStep struct{}

func (brokenProblem) Step(uPrev []float64) solvers.System { return brokenStep{} }

func (brokenProblem) Snapshot(u []float64, time float64, step int) (state.Snapshot, error) {
	return state.Snapshot{}, nil
}

func (brokenStep) Residual(u []float64) ([]float64, error) {
	return nil, fmt.Errorf("unusable state")
}

func (brokenStep) Jacobian(u []float64) (*solvers.BlockTri, error) {
	return nil, fmt.Errorf("unusable state")
}

func newTestExecutioner(prob Problem, dt, endTime float64, u0 []float64) *ImplicitEuler {
	solver := solvers.NewNewton(InputParameters.NonlinearSolverParameters{
		AbsoluteTolerance: 1e-10, MaxIterations: 10,
	})
	return NewImplicitEuler(InputParameters.ExecutionerParameters{
		Type: "ImplicitEulerExecutioner", Dt: dt, EndTime: endTime,
	}, prob, solver, u0)
}

func TestRunAdvancesToEndTime(t *testing.T) {
	const dt = 0.1
	ex := newTestExecutioner(&decayProblem{dt: dt}, dt, 1.0, []float64{1, 2, 3})
	require.Equal(t, Initializing, ex.Phase())

	var snaps []state.Snapshot
	ex.AddObserver(func(s state.Snapshot) { snaps = append(snaps, s) })

	require.NoError(t, ex.Run())
	assert.Equal(t, Converged, ex.Phase())
	assert.Equal(t, 10, ex.StepIndex())
	assert.InDelta(t, 1.0, ex.CurrentTime(), 1e-12)

	// each implicit step divides by (1+dt)
	want := 1.0 / math.Pow(1+dt, 10)
	u := ex.Solution()
	assert.InEpsilon(t, want, u[0], 1e-9)
	assert.InEpsilon(t, 3*want, u[2], 1e-9)

	require.Len(t, snaps, 10)
	assert.Equal(t, 1, snaps[0].Step)
	assert.InDelta(t, dt, snaps[0].Time, 1e-12)
	assert.Equal(t, 10, snaps[9].Step)
	assert.Greater(t, snaps[0].VF1[0], snaps[9].VF1[0])

	assert.Equal(t, 1, ex.LastIterations)
	assert.Less(t, ex.LastResidualNorm, 1e-10)
}

func TestSolutionIsACopy(t *testing.T) {
	ex := newTestExecutioner(&decayProblem{dt: 0.1}, 0.1, 0.1, []float64{5})
	u := ex.Solution()
	u[0] = -1
	assert.Equal(t, 5.0, ex.Solution()[0])
}

func TestRunFailureIsTerminal(t *testing.T) {
	ex := newTestExecutioner(brokenProblem{}, 0.1, 1.0, []float64{1})
	err := ex.Run()
	require.Error(t, err)
	assert.Equal(t, Failed, ex.Phase())
	assert.Equal(t, 0, ex.StepIndex())

	var ce *solvers.ConvergenceError
	assert.True(t, errors.As(err, &ce))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "Initializing", Initializing.String())
	assert.Equal(t, "Stepping", Stepping.String())
	assert.Equal(t, "Converged", Converged.String())
	assert.Equal(t, "Failed", Failed.String())
}
