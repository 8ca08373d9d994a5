package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// ConfigurationError reports an invalid parameter in the input deck. All
// setup-time validation failures are fatal and abort before any stepping.
type ConfigurationError struct {
	Block  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in [%s]: %s", e.Block, e.Reason)
}

func ConfigErrorf(block, format string, args ...interface{}) error {
	return &ConfigurationError{Block: block, Reason: fmt.Sprintf(format, args...)}
}

// Parameters obtained from the YAML input deck
type Parameters struct {
	Model             ModelParameters           `json:"Model"`
	Physics           PhysicsParameters         `json:"Physics"`
	InterfaceClosures ClosureParameters         `json:"InterfaceClosures"`
	Mesh              MeshParameters            `json:"Mesh"`
	EoS               EoSParameters             `json:"EoS"`
	IC                ICParameters              `json:"IC"`
	BC                map[string]BCParameters   `json:"BC"` // key is a user-chosen block name
	Executioner       ExecutionerParameters     `json:"Executioner"`
	NonlinearSolver   NonlinearSolverParameters `json:"NonlinearSolver"`
	Output            OutputParameters          `json:"Output"`
}

type ModelParameters struct {
	Type string `json:"type"` // only "2phase" is supported
}

type PhysicsParameters struct {
	Gravity float64 `json:"gravity"` // signed acceleration along +x
}

type ClosureParameters struct {
	Chi                    float64 `json:"chi"`
	PressureRelaxationTime float64 `json:"pressure_relaxation_time"`
}

type MeshParameters struct {
	Type   string  `json:"type"` // UniformMesh
	XMin   float64 `json:"x_min"`
	Length float64 `json:"length"`
	NCell  int     `json:"n_cell"`
}

type EoSParameters struct {
	Liquid EoSPhaseParameters `json:"liquid"`
	Vapor  EoSPhaseParameters `json:"vapor"`
}

type EoSPhaseParameters struct {
	Type  string  `json:"type"` // IdealGasEoS or StiffenedGasEoS
	Gamma float64 `json:"gamma"`
	R     float64 `json:"R"`
	PInf  float64 `json:"p_inf"` // StiffenedGasEoS only
	Q     float64 `json:"q"`     // StiffenedGasEoS only
}

// Uniform initial condition, applied to every cell
type ICParameters struct {
	VF1  float64 `json:"vf1"`
	P1   float64 `json:"p1"`
	Rho1 float64 `json:"rho1"`
	U1   float64 `json:"u1"`
	P2   float64 `json:"p2"`
	Rho2 float64 `json:"rho2"`
	U2   float64 `json:"u2"`
}

type BCParameters struct {
	Type     string  `json:"type"`     // DirichletVolumeFractionBC, InletRhoUBC, OutletBC, SolidWallBC
	Boundary string  `json:"boundary"` // left or right
	Phase    int     `json:"phase"`    // 1 or 2, where applicable
	VF1      float64 `json:"vf1"`      // DirichletVolumeFractionBC
	Rho      float64 `json:"rho"`      // InletRhoUBC
	U        float64 `json:"u"`        // InletRhoUBC
	P        float64 `json:"p"`        // OutletBC
}

type ExecutionerParameters struct {
	Type    string  `json:"type"` // ImplicitEulerExecutioner
	Dt      float64 `json:"dt"`
	EndTime float64 `json:"end_time"`
}

type NonlinearSolverParameters struct {
	Verbose           bool    `json:"verbose"`
	AbsoluteTolerance float64 `json:"absolute_tolerance"`
	MaxIterations     int     `json:"max_iterations"`
}

type OutputParameters struct {
	PlotSolution bool   `json:"plot_solution"`
	SaveSolution bool   `json:"save_solution"`
	SolutionFile string `json:"solution_file"`
	PlotFile     string `json:"plot_file"`
}

func (ip *Parameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the deck-level invariants that do not require constructing
// any solver component. Component constructors (mesh, EoS, closures, BCs)
// perform their own validation on top of this.
func (ip *Parameters) Validate() error {
	if ip.Model.Type != "2phase" {
		return ConfigErrorf("Model", "unsupported model type %q (only 2phase)", ip.Model.Type)
	}
	if ip.Mesh.Type != "UniformMesh" {
		return ConfigErrorf("Mesh", "unsupported mesh type %q (only UniformMesh)", ip.Mesh.Type)
	}
	if ip.Executioner.Type != "ImplicitEulerExecutioner" {
		return ConfigErrorf("Executioner", "unsupported executioner type %q", ip.Executioner.Type)
	}
	if ip.Executioner.Dt <= 0 {
		return ConfigErrorf("Executioner", "dt must be positive, got %g", ip.Executioner.Dt)
	}
	if ip.Executioner.EndTime <= 0 {
		return ConfigErrorf("Executioner", "end_time must be positive, got %g", ip.Executioner.EndTime)
	}
	if ip.NonlinearSolver.AbsoluteTolerance <= 0 {
		return ConfigErrorf("NonlinearSolver", "absolute_tolerance must be positive, got %g",
			ip.NonlinearSolver.AbsoluteTolerance)
	}
	if ip.NonlinearSolver.MaxIterations < 1 {
		return ConfigErrorf("NonlinearSolver", "max_iterations must be at least 1, got %d",
			ip.NonlinearSolver.MaxIterations)
	}
	if ip.IC.VF1 < 0 || ip.IC.VF1 > 1 {
		return ConfigErrorf("IC", "vf1 must lie in [0,1], got %g", ip.IC.VF1)
	}
	if ip.IC.Rho1 <= 0 || ip.IC.Rho2 <= 0 {
		return ConfigErrorf("IC", "densities must be positive, got rho1=%g rho2=%g",
			ip.IC.Rho1, ip.IC.Rho2)
	}
	if ip.IC.P1 <= 0 || ip.IC.P2 <= 0 {
		return ConfigErrorf("IC", "pressures must be positive, got p1=%g p2=%g",
			ip.IC.P1, ip.IC.P2)
	}
	if len(ip.BC) == 0 {
		return ConfigErrorf("BC", "no boundary condition blocks defined")
	}
	return nil
}

func (ip *Parameters) Print() {
	fmt.Printf("[%s]\t\t\t= Model\n", ip.Model.Type)
	fmt.Printf("%8.5f\t\t= Gravity\n", ip.Physics.Gravity)
	fmt.Printf("%8.5f\t\t= Chi\n", ip.InterfaceClosures.Chi)
	fmt.Printf("%8.3e\t\t= Pressure Relaxation Time\n", ip.InterfaceClosures.PressureRelaxationTime)
	fmt.Printf("[%s] x_min=%g length=%g n_cell=%d\t= Mesh\n",
		ip.Mesh.Type, ip.Mesh.XMin, ip.Mesh.Length, ip.Mesh.NCell)
	fmt.Printf("[%s] gamma=%g R=%g\t= EoS (liquid)\n",
		ip.EoS.Liquid.Type, ip.EoS.Liquid.Gamma, ip.EoS.Liquid.R)
	fmt.Printf("[%s] gamma=%g R=%g\t= EoS (vapor)\n",
		ip.EoS.Vapor.Type, ip.EoS.Vapor.Gamma, ip.EoS.Vapor.R)
	fmt.Printf("%8.5f\t\t= dt\n", ip.Executioner.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.Executioner.EndTime)
	keys := make([]string, len(ip.BC))
	i := 0
	for k := range ip.BC {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BC[%s] = %+v\n", key, ip.BC[key])
	}
}
