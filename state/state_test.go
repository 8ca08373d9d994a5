package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuahansel/sem-go/eos"
)

func testEoS(t *testing.T) [2]eos.EquationOfState {
	t.Helper()
	liquid, err := eos.NewIdealGas(1.4, 287)
	require.NoError(t, err)
	vapor, err := eos.NewIdealGas(1.4, 287)
	require.NoError(t, err)
	return [2]eos.EquationOfState{liquid, vapor}
}

func faucetCell(es [2]eos.EquationOfState) CellPrimitives {
	p := CellPrimitives{
		VF:  [2]float64{0.8, 0.2},
		Rho: [2]float64{1000, 1},
		Vel: [2]float64{10, 0},
		P:   [2]float64{1e5, 1e5},
	}
	for k := 0; k < 2; k++ {
		p.E[k] = es[k].InternalEnergy(p.Rho[k], p.P[k])
		p.Etot[k] = p.E[k] + 0.5*p.Vel[k]*p.Vel[k]
		p.C[k] = es[k].SoundSpeed(p.Rho[k], p.P[k])
	}
	return p
}

func TestConservedPrimitiveRoundTrip(t *testing.T) {
	es := testEoS(t)
	want := faucetCell(es)
	uc := want.Conserved()

	got, err := RecoverCell(uc[:], es, 0)
	require.NoError(t, err)
	for k := 0; k < 2; k++ {
		assert.InEpsilon(t, want.VF[k], got.VF[k], 1e-14)
		assert.InEpsilon(t, want.Rho[k], got.Rho[k], 1e-13)
		assert.InDelta(t, want.Vel[k], got.Vel[k], 1e-12)
		assert.InEpsilon(t, want.P[k], got.P[k], 1e-12)
		assert.InEpsilon(t, want.C[k], got.C[k], 1e-12)
	}
	assert.InDelta(t, 1.0, got.VF[0]+got.VF[1], 1e-15)
}

func TestRecoverCellNonphysical(t *testing.T) {
	es := testEoS(t)
	var npe *NonphysicalStateError

	uc := faucetCell(es).Conserved()
	uc[IAA1] = 1.2 // volume fraction outside [0,1]
	_, err := RecoverCell(uc[:], es, 3)
	require.Error(t, err)
	assert.True(t, errors.As(err, &npe))
	assert.Equal(t, 3, npe.Cell)

	uc = faucetCell(es).Conserved()
	uc[IARhoA2] = -1e-3 // negative partial density
	_, err = RecoverCell(uc[:], es, 0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &npe))

	uc = faucetCell(es).Conserved()
	uc[IARhoEA1] = 1.0 // kinetic energy exceeds total -> negative pressure
	_, err = RecoverCell(uc[:], es, 0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &npe))
}

func TestInterfaceQuantities(t *testing.T) {
	es := testEoS(t)
	p := faucetCell(es)

	// liquid dominates the mass weighting, so u_int is close to u1
	assert.InDelta(t, 10.0, p.InterfaceVelocity(), 0.01)
	assert.InDelta(t, 1e5, p.InterfacePressure(), 1e-6)
	assert.InDelta(t, 800.2, p.MixtureDensity(), 1e-10)
}

func TestSnapshot(t *testing.T) {
	es := testEoS(t)
	prims := []CellPrimitives{faucetCell(es), faucetCell(es)}
	s := NewSnapshot(0.5, 500, []float64{0.12, 0.36}, prims)
	assert.Equal(t, 500, s.Step)
	assert.Len(t, s.VF1, 2)
	assert.InDelta(t, 0.8, s.VF1[1], 1e-15)
	assert.InDelta(t, 1000.0, s.Rho1[0], 1e-12)
	assert.InDelta(t, 1e5, s.P2[1], 1e-7)
}
