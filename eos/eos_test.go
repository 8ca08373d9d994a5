package eos

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuahansel/sem-go/InputParameters"
)

func TestIdealGasRoundTrip(t *testing.T) {
	g, err := NewIdealGas(1.4, 287)
	require.NoError(t, err)

	// e -> p -> e must be an exact algebraic round trip
	rhos := []float64{0.1, 1, 10, 1000}
	es := []float64{1e2, 1e4, 2.5e5, 1e7}
	for _, rho := range rhos {
		for _, e := range es {
			p := g.Pressure(rho, e)
			eBack := g.InternalEnergy(rho, p)
			assert.InEpsilon(t, e, eBack, 1e-15)
		}
	}
}

func TestIdealGasRelations(t *testing.T) {
	g, err := NewIdealGas(1.4, 287)
	require.NoError(t, err)

	rho, p := 1.2, 1.0e5
	assert.InEpsilon(t, math.Sqrt(1.4*p/rho), g.SoundSpeed(rho, p), 1e-14)

	// T = e/cv with cv = R/(gamma-1)
	e := g.InternalEnergy(rho, p)
	assert.InEpsilon(t, e*(1.4-1)/287, g.Temperature(rho, e), 1e-14)
}

func TestStiffenedGasRoundTrip(t *testing.T) {
	g, err := NewStiffenedGas(2.35, 1816, 1.0e9, -1167e3)
	require.NoError(t, err)

	rho := 1000.0
	for _, p := range []float64{1e5, 1e6, 7e6} {
		e := g.InternalEnergy(rho, p)
		assert.InDelta(t, p, g.Pressure(rho, e), math.Abs(p)*1e-12)
	}
	assert.Greater(t, g.SoundSpeed(rho, 1e5), 1000.0) // stiff liquid
}

func TestEoSFactory(t *testing.T) {
	_, err := New(InputParameters.EoSPhaseParameters{Type: "IdealGasEoS", Gamma: 1.4, R: 287})
	assert.NoError(t, err)

	_, err = New(InputParameters.EoSPhaseParameters{Type: "StiffenedGasEoS", Gamma: 2.35, R: 1816, PInf: 1e9})
	assert.NoError(t, err)

	_, err = New(InputParameters.EoSPhaseParameters{Type: "TaitEoS"})
	assert.Error(t, err)
}

func TestEoSInvalidParameters(t *testing.T) {
	var cfgErr *InputParameters.ConfigurationError

	_, err := NewIdealGas(1.0, 287)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewIdealGas(1.4, 0)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	_, err = NewStiffenedGas(0.9, 100, 1e9, 0)
	assert.Error(t, err)
}
