// Package eos provides the per-phase equations of state. The closed set of
// variants maps one-to-one onto the deck's "type" discriminator; adding a new
// closure law means adding a variant arm to New, not subclassing.
package eos

import (
	"github.com/joshuahansel/sem-go/InputParameters"
)

// EquationOfState is the capability set every phase closure must satisfy.
// All relations are closed-form; Pressure and InternalEnergy are exact
// algebraic inverses of one another.
type EquationOfState interface {
	// Pressure computes p(rho, e) from density and specific internal energy.
	Pressure(rho, e float64) float64
	// InternalEnergy computes e(rho, p), the inverse of Pressure.
	InternalEnergy(rho, p float64) float64
	// SoundSpeed computes c(rho, p).
	SoundSpeed(rho, p float64) float64
	// Temperature computes T(rho, e).
	Temperature(rho, e float64) float64
}

func New(p InputParameters.EoSPhaseParameters) (EquationOfState, error) {
	switch p.Type {
	case "IdealGasEoS":
		return NewIdealGas(p.Gamma, p.R)
	case "StiffenedGasEoS":
		return NewStiffenedGas(p.Gamma, p.R, p.PInf, p.Q)
	default:
		return nil, InputParameters.ConfigErrorf("EoS", "unknown EoS type %q", p.Type)
	}
}
