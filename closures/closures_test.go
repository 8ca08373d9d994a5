package closures

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuahansel/sem-go/InputParameters"
	"github.com/joshuahansel/sem-go/state"
)

func cellWith(p1, p2, u1, u2 float64) state.CellPrimitives {
	return state.CellPrimitives{
		VF:  [2]float64{0.8, 0.2},
		Rho: [2]float64{1000, 1},
		Vel: [2]float64{u1, u2},
		P:   [2]float64{p1, p2},
	}
}

func TestNewModelValidation(t *testing.T) {
	var cfgErr *InputParameters.ConfigurationError

	_, err := NewModel(InputParameters.ClosureParameters{Chi: 0.5, PressureRelaxationTime: 0})
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewModel(InputParameters.ClosureParameters{Chi: 1.5, PressureRelaxationTime: 1e-3})
	require.Error(t, err)

	// chi = 0 is allowed and disables drag
	m, err := NewModel(InputParameters.ClosureParameters{Chi: 0, PressureRelaxationTime: 1e-3})
	require.NoError(t, err)
	s := m.Compute(cellWith(1e5, 1e5, 10, 0))
	assert.Zero(t, s.Momentum[0])
	assert.Zero(t, s.Momentum[1])
}

func TestDragAntisymmetry(t *testing.T) {
	m, err := NewModel(InputParameters.ClosureParameters{Chi: 0.5, PressureRelaxationTime: 1e-3})
	require.NoError(t, err)

	s := m.Compute(cellWith(1e5, 1e5, 10, 2))
	assert.InDelta(t, 0.0, s.Momentum[0]+s.Momentum[1], 1e-12)
	// drag opposes the faster phase
	assert.Negative(t, s.Momentum[0])
	assert.Positive(t, s.Momentum[1])
	// equal pressures: no relaxation contribution
	assert.Zero(t, s.VF)
}

func TestDragMagnitude(t *testing.T) {
	m, err := NewModel(InputParameters.ClosureParameters{Chi: 0.1, PressureRelaxationTime: 1e-3})
	require.NoError(t, err)

	// chi a1 a2 du |du| = 0.1 * 0.16 * 100
	s := m.Compute(cellWith(1e5, 1e5, 10, 0))
	assert.InEpsilon(t, -1.6, s.Momentum[0], 1e-12)
	assert.InEpsilon(t, 1.6, s.Momentum[1], 1e-12)
}

func TestDragIndependentOfPhaseDensities(t *testing.T) {
	m, err := NewModel(InputParameters.ClosureParameters{Chi: 0.5, PressureRelaxationTime: 1e-3})
	require.NoError(t, err)

	light := cellWith(1e5, 1e5, 10, 2)
	heavy := light
	heavy.Rho = [2]float64{2000, 5}

	// a dense carrier must not amplify the exchange: only the volume
	// fractions and the slip velocity set the drag
	assert.Equal(t, m.Compute(light).Momentum, m.Compute(heavy).Momentum)
}

func TestPressureRelaxationDirection(t *testing.T) {
	m, err := NewModel(InputParameters.ClosureParameters{Chi: 0, PressureRelaxationTime: 5e-4})
	require.NoError(t, err)

	// p1 > p2: phase 1 must expand (vf1 grows)
	s := m.Compute(cellWith(2e5, 1e5, 0, 0))
	assert.Positive(t, s.VF)
	// compaction work leaves phase 1 and enters phase 2
	assert.Negative(t, s.Energy[0])
	assert.Positive(t, s.Energy[1])

	// p2 > p1: phase 1 is compressed
	s = m.Compute(cellWith(1e5, 2e5, 0, 0))
	assert.Negative(t, s.VF)
}

func TestRelaxationRateScalesWithTau(t *testing.T) {
	fast, err := NewModel(InputParameters.ClosureParameters{Chi: 0, PressureRelaxationTime: 1e-4})
	require.NoError(t, err)
	slow, err := NewModel(InputParameters.ClosureParameters{Chi: 0, PressureRelaxationTime: 1e-2})
	require.NoError(t, err)

	c := cellWith(2e5, 1e5, 0, 0)
	assert.InEpsilon(t, 100.0, fast.Compute(c).VF/slow.Compute(c).VF, 1e-12)
}
