package solvers

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// BlockTri is a block tridiagonal matrix stored as an arena of fixed-size
// dense blocks indexed by cell: B[i] couples cell i to itself, A[i] to cell
// i-1 and C[i] to cell i+1. A[0] and C[N-1] exist but are ignored, keeping
// the indexing uniform.
type BlockTri struct {
	N         int // number of block rows (cells)
	BlockSize int
	A, B, C   []*mat.Dense
}

func NewBlockTri(n, blockSize int) *BlockTri {
	t := &BlockTri{
		N:         n,
		BlockSize: blockSize,
		A:         make([]*mat.Dense, n),
		B:         make([]*mat.Dense, n),
		C:         make([]*mat.Dense, n),
	}
	for i := 0; i < n; i++ {
		t.A[i] = mat.NewDense(blockSize, blockSize, nil)
		t.B[i] = mat.NewDense(blockSize, blockSize, nil)
		t.C[i] = mat.NewDense(blockSize, blockSize, nil)
	}
	return t
}

// ScaleRows multiplies row v of every block by s[v], applying a diagonal
// row scaling D*J without forming D.
func (t *BlockTri) ScaleRows(s []float64) {
	for i := 0; i < t.N; i++ {
		for _, blk := range []*mat.Dense{t.A[i], t.B[i], t.C[i]} {
			for row := 0; row < t.BlockSize; row++ {
				for col := 0; col < t.BlockSize; col++ {
					blk.Set(row, col, blk.At(row, col)*s[row])
				}
			}
		}
	}
}

// MulVec computes y = T x for diagnostics and tests.
func (t *BlockTri) MulVec(x []float64) []float64 {
	var (
		n = t.BlockSize
		y = make([]float64, t.N*n)
	)
	for i := 0; i < t.N; i++ {
		yi := mat.NewVecDense(n, y[i*n:(i+1)*n])
		xi := mat.NewVecDense(n, x[i*n:(i+1)*n])
		var acc mat.VecDense
		acc.MulVec(t.B[i], xi)
		if i > 0 {
			var av mat.VecDense
			av.MulVec(t.A[i], mat.NewVecDense(n, x[(i-1)*n:i*n]))
			acc.AddVec(&acc, &av)
		}
		if i < t.N-1 {
			var cv mat.VecDense
			cv.MulVec(t.C[i], mat.NewVecDense(n, x[(i+1)*n:(i+2)*n]))
			acc.AddVec(&acc, &cv)
		}
		yi.CopyVec(&acc)
	}
	return y
}

// Solve computes x with T x = b by the block Thomas algorithm: a forward
// elimination factoring each pivot block with a dense LU, then back
// substitution. T and b are left unmodified.
func (t *BlockTri) Solve(b []float64) (x []float64, err error) {
	var (
		n  = t.BlockSize
		N  = t.N
		cp = make([]*mat.Dense, N)    // eliminated upper blocks
		xp = make([]*mat.VecDense, N) // eliminated RHS
		lu mat.LU
	)
	if len(b) != N*n {
		return nil, fmt.Errorf("rhs length %d does not match %d blocks of size %d", len(b), N, n)
	}
	D := mat.NewDense(n, n, nil)
	for i := 0; i < N; i++ {
		D.Copy(t.B[i])
		if i > 0 {
			var m mat.Dense
			m.Mul(t.A[i], cp[i-1])
			D.Sub(D, &m)
		}
		lu.Factorize(D)

		rhs := mat.NewVecDense(n, nil)
		rhs.CopyVec(mat.NewVecDense(n, b[i*n:(i+1)*n]))
		if i > 0 {
			var av mat.VecDense
			av.MulVec(t.A[i], xp[i-1])
			rhs.SubVec(rhs, &av)
		}
		xpi := mat.NewVecDense(n, nil)
		if err = luSolveVec(&lu, xpi, rhs); err != nil {
			return nil, fmt.Errorf("singular pivot block at cell %d: %w", i, err)
		}
		xp[i] = xpi

		if i < N-1 {
			cpi := mat.NewDense(n, n, nil)
			if err = luSolve(&lu, cpi, t.C[i]); err != nil {
				return nil, fmt.Errorf("singular pivot block at cell %d: %w", i, err)
			}
			cp[i] = cpi
		}
	}

	x = make([]float64, N*n)
	copy(x[(N-1)*n:], xp[N-1].RawVector().Data)
	for i := N - 2; i >= 0; i-- {
		var cv mat.VecDense
		cv.MulVec(cp[i], mat.NewVecDense(n, x[(i+1)*n:(i+2)*n]))
		xi := mat.NewVecDense(n, x[i*n:(i+1)*n])
		xi.SubVec(xp[i], &cv)
	}
	return x, nil
}

// luSolve tolerates gonum's ill-conditioning warning: near-singular pivot
// blocks are expected when the relaxation time approaches the step size, and
// the Newton iteration recovers from the resulting inexact updates.
func luSolve(lu *mat.LU, dst *mat.Dense, b mat.Matrix) error {
	if err := lu.SolveTo(dst, false, b); err != nil {
		if _, ok := err.(mat.Condition); ok {
			logrus.Debugf("ill-conditioned pivot block: %v", err)
			return nil
		}
		return err
	}
	return nil
}

func luSolveVec(lu *mat.LU, dst *mat.VecDense, b mat.Vector) error {
	if err := lu.SolveVecTo(dst, false, b); err != nil {
		if _, ok := err.(mat.Condition); ok {
			logrus.Debugf("ill-conditioned pivot block: %v", err)
			return nil
		}
		return err
	}
	return nil
}
