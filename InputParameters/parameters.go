package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type FlowParameters struct {
	Title          string  `yaml:"Title"`
	Scheme         string  `yaml:"Scheme"` // upwind, jst, lax
	NDim           int     `yaml:"NDim"`
	ImplicitSolver bool    `yaml:"ImplicitSolver"`
	Kappa2         float64 `yaml:"Kappa2"`
	Kappa4         float64 `yaml:"Kappa4"`
	Kappa0         float64 `yaml:"Kappa0"`
	GravityForce   bool    `yaml:"GravityForce"`
	Froude         float64 `yaml:"Froude"`
}

// NewFlowParameters carries the standard dissipation calibration; the YAML
// file overrides whatever it names.
func NewFlowParameters() (fp *FlowParameters) {
	fp = &FlowParameters{
		Title:  "pressure-based incompressible flow",
		Scheme: "jst",
		NDim:   2,
		Kappa2: 0.5,
		Kappa4: 0.02,
		Kappa0: 0.15,
		Froude: 1.0,
	}
	return
}

func (fp *FlowParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, fp)
}

func (fp *FlowParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", fp.Title)
	fmt.Printf("[%s]\t\t\t= Scheme\n", fp.Scheme)
	fmt.Printf("[%d]\t\t\t\t= NDim\n", fp.NDim)
	fmt.Printf("[%v]\t\t\t= Implicit Solver\n", fp.ImplicitSolver)
	fmt.Printf("%8.5f\t\t= Kappa2\n", fp.Kappa2)
	fmt.Printf("%8.5f\t\t= Kappa4\n", fp.Kappa4)
	fmt.Printf("%8.5f\t\t= Kappa0\n", fp.Kappa0)
	if fp.GravityForce {
		fmt.Printf("%8.5f\t\t= Froude\n", fp.Froude)
	}
}
