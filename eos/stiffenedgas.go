package eos

import (
	"math"

	"github.com/joshuahansel/sem-go/InputParameters"
)

// StiffenedGas is the stiffened gas closure p = (gamma-1) rho (e-q) - gamma p_inf,
// commonly used for the liquid phase where the ideal gas law gives an
// unrealistically soft sound speed.
type StiffenedGas struct {
	Gamma, R float64
	PInf, Q  float64
	cv       float64
}

func NewStiffenedGas(gamma, R, pInf, q float64) (*StiffenedGas, error) {
	if gamma <= 1 {
		return nil, InputParameters.ConfigErrorf("EoS", "gamma must exceed 1, got %g", gamma)
	}
	if R <= 0 {
		return nil, InputParameters.ConfigErrorf("EoS", "R must be positive, got %g", R)
	}
	if pInf < 0 {
		return nil, InputParameters.ConfigErrorf("EoS", "p_inf must be non-negative, got %g", pInf)
	}
	return &StiffenedGas{Gamma: gamma, R: R, PInf: pInf, Q: q, cv: R / (gamma - 1)}, nil
}

func (g *StiffenedGas) Pressure(rho, e float64) float64 {
	return (g.Gamma-1)*rho*(e-g.Q) - g.Gamma*g.PInf
}

func (g *StiffenedGas) InternalEnergy(rho, p float64) float64 {
	return (p+g.Gamma*g.PInf)/((g.Gamma-1)*rho) + g.Q
}

func (g *StiffenedGas) SoundSpeed(rho, p float64) float64 {
	return math.Sqrt(g.Gamma * (p + g.PInf) / rho)
}

func (g *StiffenedGas) Temperature(rho, e float64) float64 {
	return (e - g.Q - g.PInf/rho) / g.cv
}
