// Package solvers contains the Newton nonlinear solver and the block
// tridiagonal linear algebra it relies on.
package solvers

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/state"
)

// System is one nonlinear algebraic system R(U) = 0, typically one implicit
// time step. Residual and Jacobian are pure functions of u and may be called
// any number of times.
type System interface {
	Residual(u []float64) ([]float64, error)
	Jacobian(u []float64) (*BlockTri, error)
}

// ConvergenceError reports a Newton iteration that exhausted its budget, or
// an unrecoverable state encountered along the way.
type ConvergenceError struct {
	Iterations   int
	ResidualNorm float64
	Err          error
}

func (e *ConvergenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("newton failed after %d iterations, |R| = %.6e: %v",
			e.Iterations, e.ResidualNorm, e.Err)
	}
	return fmt.Sprintf("newton exceeded %d iterations without converging, |R| = %.6e",
		e.Iterations, e.ResidualNorm)
}

func (e *ConvergenceError) Unwrap() error {
	return e.Err
}

// Newton solves R(U) = 0 by damped Newton iteration with a block Thomas
// linear solve. It does not mutate the caller's state vector.
type Newton struct {
	AbsoluteTolerance float64
	MaxIterations     int
	Verbose           bool
}

// maxDampings bounds the step-halving retries after a nonphysical trial state.
const maxDampings = 6

func NewNewton(p InputParameters.NonlinearSolverParameters) *Newton {
	return &Newton{
		AbsoluteTolerance: p.AbsoluteTolerance,
		MaxIterations:     p.MaxIterations,
		Verbose:           p.Verbose,
	}
}

// Solve iterates from the initial guess u0 until the residual norm falls
// below the absolute tolerance. It returns the converged vector, the number
// of iterations spent and the final residual norm.
func (s *Newton) Solve(sys System, u0 []float64) (u []float64, iters int, rnorm float64, err error) {
	u = append([]float64(nil), u0...)
	r, err := sys.Residual(u)
	if err != nil {
		return nil, 0, 0, &ConvergenceError{Err: err}
	}
	rnorm = floats.Norm(r, 2)

	for iters = 0; iters < s.MaxIterations; iters++ {
		if rnorm < s.AbsoluteTolerance {
			if s.Verbose {
				logrus.Infof("newton converged in %d iterations, |R| = %.6e", iters, rnorm)
			}
			return u, iters, rnorm, nil
		}

		J, jerr := sys.Jacobian(u)
		if jerr != nil {
			return nil, iters, rnorm, &ConvergenceError{Iterations: iters, ResidualNorm: rnorm, Err: jerr}
		}
		negR := make([]float64, len(r))
		for i, v := range r {
			negR[i] = -v
		}
		du, serr := J.Solve(negR)
		if serr != nil {
			return nil, iters, rnorm, &ConvergenceError{Iterations: iters, ResidualNorm: rnorm, Err: serr}
		}

		// Accept the full step if it lands on a physical state; otherwise
		// halve it a bounded number of times before giving up.
		var (
			lambda   = 1.0
			uNew     []float64
			rNew     []float64
			accepted bool
			lastErr  error
		)
		for d := 0; d < maxDampings; d++ {
			uNew = floats.AddScaledTo(make([]float64, len(u)), u, lambda, du)
			rNew, lastErr = sys.Residual(uNew)
			if lastErr == nil {
				accepted = true
				break
			}
			var npe *state.NonphysicalStateError
			if !errors.As(lastErr, &npe) {
				return nil, iters, rnorm, &ConvergenceError{Iterations: iters, ResidualNorm: rnorm, Err: lastErr}
			}
			if s.Verbose {
				logrus.Debugf("newton iteration %d: damping update to %g after %v", iters+1, lambda/2, npe)
			}
			lambda *= 0.5
		}
		if !accepted {
			return nil, iters, rnorm, &ConvergenceError{Iterations: iters + 1, ResidualNorm: rnorm, Err: lastErr}
		}

		u = uNew
		r = rNew
		rnorm = floats.Norm(r, 2)
		if s.Verbose {
			logrus.Infof("newton iteration %d: |R| = %.6e", iters+1, rnorm)
		}
	}

	if rnorm < s.AbsoluteTolerance {
		return u, iters, rnorm, nil
	}
	return nil, iters, rnorm, &ConvergenceError{Iterations: iters, ResidualNorm: rnorm}
}
