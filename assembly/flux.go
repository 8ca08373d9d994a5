package assembly

import (
	"math"

	"github.com/joshuahansel/sem-go/state"
)

// phaseConserved is the conservative triplet (arho, arhou, arhoE) of phase k.
func phaseConserved(p state.CellPrimitives, k int) (uc [3]float64) {
	arho := p.VF[k] * p.Rho[k]
	uc[0] = arho
	uc[1] = arho * p.Vel[k]
	uc[2] = arho * p.Etot[k]
	return
}

// phaseFlux is the conservative flux triplet of phase k:
// (arho u, a(rho u^2 + p), a u (rho Etot + p)).
func phaseFlux(p state.CellPrimitives, k int) (f [3]float64) {
	var (
		a   = p.VF[k]
		rho = p.Rho[k]
		u   = p.Vel[k]
	)
	f[0] = a * rho * u
	f[1] = a * (rho*u*u + p.P[k])
	f[2] = a * u * (rho*p.Etot[k] + p.P[k])
	return
}

// rusanovFlux computes the local Lax-Friedrichs numerical flux of both phases
// at the face between a left and a right state. The dissipation speed is the
// largest phase signal speed |u|+c of the two sides.
func rusanovFlux(L, R state.CellPrimitives) (f [2][3]float64) {
	for k := 0; k < state.NumPhases; k++ {
		var (
			sL = math.Abs(L.Vel[k]) + L.C[k]
			sR = math.Abs(R.Vel[k]) + R.C[k]
			s  = math.Max(sL, sR)
			fL = phaseFlux(L, k)
			fR = phaseFlux(R, k)
			uL = phaseConserved(L, k)
			uR = phaseConserved(R, k)
		)
		for c := 0; c < 3; c++ {
			f[k][c] = 0.5*(fL[c]+fR[c]) - 0.5*s*(uR[c]-uL[c])
		}
	}
	return
}
