package eos

import (
	"math"

	"github.com/joshuahansel/sem-go/InputParameters"
)

// IdealGas is the gamma-law gas closure p = (gamma-1) rho e.
type IdealGas struct {
	Gamma, R float64
	cv       float64
}

func NewIdealGas(gamma, R float64) (*IdealGas, error) {
	if gamma <= 1 {
		return nil, InputParameters.ConfigErrorf("EoS", "gamma must exceed 1, got %g", gamma)
	}
	if R <= 0 {
		return nil, InputParameters.ConfigErrorf("EoS", "R must be positive, got %g", R)
	}
	return &IdealGas{Gamma: gamma, R: R, cv: R / (gamma - 1)}, nil
}

func (g *IdealGas) Pressure(rho, e float64) float64 {
	return (g.Gamma - 1) * rho * e
}

func (g *IdealGas) InternalEnergy(rho, p float64) float64 {
	return p / ((g.Gamma - 1) * rho)
}

func (g *IdealGas) SoundSpeed(rho, p float64) float64 {
	return math.Sqrt(g.Gamma * p / rho)
}

func (g *IdealGas) Temperature(rho, e float64) float64 {
	return e / g.cv
}
