package solvers

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuahansel/sem-go/state"
)

// quadraticSystem is R = [u0^2 - 4, u1 - u0] with its analytic Jacobian,
// converging to (2, 2) from positive starts.
type quadraticSystem struct{}

func (quadraticSystem) Residual(u []float64) ([]float64, error) {
	return []float64{u[0]*u[0] - 4, u[1] - u[0]}, nil
}

func (quadraticSystem) Jacobian(u []float64) (*BlockTri, error) {
	J := NewBlockTri(2, 1)
	J.B[0].Set(0, 0, 2*u[0])
	J.A[1].Set(0, 0, -1)
	J.B[1].Set(0, 0, 1)
	return J, nil
}

// sqrtSystem is R = [sqrt(u0) - 2], rejecting negative trial states the way
// the flow residual rejects negative densities. The full Newton step from
// u0 = 25 overshoots to a negative value, so convergence requires damping.
type sqrtSystem struct{}

func (sqrtSystem) Residual(u []float64) ([]float64, error) {
	if u[0] < 0 {
		return nil, &state.NonphysicalStateError{Cell: 0, Quantity: "density", Value: u[0]}
	}
	return []float64{math.Sqrt(u[0]) - 2}, nil
}

func (sqrtSystem) Jacobian(u []float64) (*BlockTri, error) {
	J := NewBlockTri(1, 1)
	J.B[0].Set(0, 0, 1/(2*math.Sqrt(u[0])))
	return J, nil
}

func TestNewtonConverges(t *testing.T) {
	s := &Newton{AbsoluteTolerance: 1e-12, MaxIterations: 50}
	u, iters, rnorm, err := s.Solve(quadraticSystem{}, []float64{10, 0})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, u[0], 1e-10)
	assert.InDelta(t, 2.0, u[1], 1e-10)
	assert.Less(t, rnorm, 1e-12)
	assert.Greater(t, iters, 0)
	assert.Less(t, iters, 15)
}

func TestNewtonConvergedInitialGuess(t *testing.T) {
	s := &Newton{AbsoluteTolerance: 1e-8, MaxIterations: 10}
	u0 := []float64{2, 2}
	u, iters, _, err := s.Solve(quadraticSystem{}, u0)
	require.NoError(t, err)
	assert.Equal(t, 0, iters)
	assert.Equal(t, u0, u)

	// the initial guess must not be aliased by the returned vector
	u[0] = 99
	assert.Equal(t, 2.0, u0[0])
}

func TestNewtonDampsNonphysicalUpdates(t *testing.T) {
	s := &Newton{AbsoluteTolerance: 1e-10, MaxIterations: 50}
	u, _, rnorm, err := s.Solve(sqrtSystem{}, []float64{25})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, u[0], 1e-8)
	assert.Less(t, rnorm, 1e-10)
}

func TestNewtonIterationLimit(t *testing.T) {
	s := &Newton{AbsoluteTolerance: 1e-14, MaxIterations: 2}
	_, _, _, err := s.Solve(quadraticSystem{}, []float64{1e4, 0})
	require.Error(t, err)
	var ce *ConvergenceError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 2, ce.Iterations)
	assert.Greater(t, ce.ResidualNorm, 1e-14)
}
